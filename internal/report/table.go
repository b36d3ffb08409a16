package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/alexiusacademia/goconn/internal/connection"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
)

// Column indexes that get coloured.
const (
	ratioColumn = 11
	checkColumn = 12
)

// Table renders the result rows as a bordered table. The ratio and check
// cells are coloured with the ratio band of their row.
func Table(res *Result) string {
	rows := make([][]string, 0, len(res.Items))
	for _, it := range res.Items {
		rows = append(rows, it.Serialize().Strings())
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(Headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row < 0 || row >= len(res.Items) {
				return cellStyle
			}
			if col == ratioColumn || col == checkColumn {
				return cellStyle.Foreground(lipgloss.Color(connection.Hex(res.Items[row].Color)))
			}
			return cellStyle
		})
	return t.String()
}

// WriteSummaries prints the design and compliance summaries of a design
// run.
func WriteSummaries(w io.Writer, res *Result) {
	if res.Mode != ModeDesign {
		return
	}

	fmt.Fprintln(w, "DESIGN SUMMARY:")
	fmt.Fprintln(w, "───────────────────────────────────────────────────────────────")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  Group\tConnection\n")
	for _, d := range res.Designs {
		fmt.Fprintf(tw, "  %s\t%s\n", d.GroupName, d.Label())
	}
	tw.Flush()
	fmt.Fprintln(w)

	fmt.Fprintln(w, "COMPLIANCE SUMMARY:")
	fmt.Fprintln(w, "───────────────────────────────────────────────────────────────")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  Group\tCompliance\tNon-compliant members\n")
	for _, c := range res.Compliance {
		members := Placeholder
		if !c.Complies() {
			members = fmt.Sprint(c.NonCompliant)
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", c.GroupName, c.Status(), members)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

// WriteJSON writes the serialised result document.
func WriteJSON(w io.Writer, res *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res.Serialize())
}
