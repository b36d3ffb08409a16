package diagram

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/guptarohit/asciigraph"

	"github.com/alexiusacademia/goconn/internal/connection"
	"github.com/alexiusacademia/goconn/internal/report"
)

// barWidth is the number of characters that represent a ratio of 1.0.
const barWidth = 30

// DrawRatioBars creates an ASCII bar per reported frame, scaled so that the
// capacity limit falls on a fixed column. Frames without a ratio get a dash.
func DrawRatioBars(res *report.Result) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString("  CAPACITY RATIO BY MEMBER\n")
	sb.WriteString("  ────────────────────────\n\n")

	for _, it := range res.Items {
		label := fmt.Sprintf("%6d", it.FrameID)
		if it.Ratio == nil {
			sb.WriteString(fmt.Sprintf("  %s │ %s\n", label, report.Placeholder))
			continue
		}

		r := *it.Ratio
		n := int(r * barWidth)
		if n < 0 {
			n = 0
		}
		if n > 2*barWidth {
			n = 2 * barWidth
		}

		// Bars are marked up to the limit column and beyond it.
		var bar string
		if n <= barWidth {
			bar = strings.Repeat("█", n) + strings.Repeat(" ", barWidth-n) + "┆"
		} else {
			bar = strings.Repeat("█", barWidth) + "┆" + strings.Repeat("▓", n-barWidth)
		}
		sb.WriteString(fmt.Sprintf("  %s │%s %.2f %s\n", label, bar, r, bandMark(r)))
	}

	sb.WriteString(fmt.Sprintf("\n  %s┆ = ratio %.1f\n", strings.Repeat(" ", barWidth+9), connection.RatioLimit))
	return sb.String()
}

// DrawRatioGraph plots the capacity ratios of the reported frames, in result
// order, against the 1.0 limit. Frames without a ratio are left out. It
// returns an empty string when no frame has a ratio.
func DrawRatioGraph(res *report.Result) string {
	var ratios, limit []float64
	var ids []string
	for _, it := range res.Items {
		if it.Ratio == nil {
			continue
		}
		ratios = append(ratios, *it.Ratio)
		limit = append(limit, connection.RatioLimit)
		ids = append(ids, fmt.Sprint(it.FrameID))
	}
	if len(ratios) == 0 {
		return ""
	}
	if len(ratios) == 1 {
		// a single point draws nothing
		ratios = append(ratios, ratios[0])
		limit = append(limit, connection.RatioLimit)
	}

	graph := asciigraph.PlotMany([][]float64{ratios, limit},
		asciigraph.Height(10),
		asciigraph.LowerBound(0),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(asciigraph.Default, asciigraph.Red),
		asciigraph.Caption("capacity ratio by member: "+strings.Join(ids, ", ")),
	)
	return graph + "\n"
}

func bandMark(r float64) string {
	switch {
	case r < connection.RatioLimit:
		return ""
	case r <= connection.RatioTolerance:
		return "(!)"
	default:
		return "(✗)"
	}
}

// DrawLegend renders the ratio colour bands.
func DrawLegend() string {
	var sb strings.Builder
	sb.WriteString("  Legend:\n")
	for i, e := range connection.Legend {
		sb.WriteString(fmt.Sprintf("  %s  %-10s %s\n", connection.Hex(e.Color), e.Label, bandNames[i]))
	}
	sb.WriteString(fmt.Sprintf("  %s  %-10s %s\n", connection.Hex(connection.Neutral), report.Placeholder, "not evaluated"))
	return sb.String()
}

var bandNames = []string{"green", "orange", "red"}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := utf8.RuneCountInString(title)
	for _, line := range lines {
		if n := utf8.RuneCountInString(line); n > maxLen {
			maxLen = n
		}
	}
	maxLen += 4

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %s  ║\n", pad(title, maxLen-4)))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %s  ║\n", pad(line, maxLen-4)))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}

func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// ResultSummary returns the lines shown in the summary box of a run.
func ResultSummary(res *report.Result) []string {
	lines := []string{
		fmt.Sprintf("Mode:             %s", res.Mode),
		fmt.Sprintf("Load combination: %s", res.LoadCombo),
		fmt.Sprintf("Members:          %d", len(res.Items)),
		fmt.Sprintf("Passed:           %d", res.Passed()),
	}
	if res.Mode == report.ModeDesign {
		failing := 0
		for _, c := range res.Compliance {
			failing += len(c.NonCompliant)
		}
		lines = append(lines, fmt.Sprintf("Non-compliant:    %d", failing))
	}
	return lines
}
