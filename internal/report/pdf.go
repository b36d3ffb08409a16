package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"codeberg.org/go-pdf/fpdf"
)

// Meta is the front matter of a calculation report.
type Meta struct {
	Title   string
	Project string
	Author  string
	Date    time.Time
	Model   string // source file of the structural model
	Library string // source of the capacity library
}

// Column widths (mm) on landscape A4, in Headers order.
var pdfWidths = []float64{16, 24, 26, 24, 34, 18, 20, 18, 20, 18, 20, 17, 22}

// WritePDF renders a calculation report for the result.
func WritePDF(w io.Writer, res *Result, meta Meta) error {
	if meta.Title == "" {
		meta.Title = "Connection Calculation Report"
	}
	if meta.Date.IsZero() {
		meta.Date = time.Now()
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(meta.Title, true)
	pdf.SetAuthor(meta.Author, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(meta.Title))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range []struct{ label, value string }{
		{"Project", meta.Project},
		{"Author", meta.Author},
		{"Date", meta.Date.Format("2006-01-02")},
		{"Mode", res.Mode.String()},
		{"Load combination", res.LoadCombo},
		{"Model", meta.Model},
		{"Capacity library", meta.Library},
	} {
		value := line.value
		if value == "" {
			value = Placeholder
		}
		pdf.Cell(0, 5, tr(fmt.Sprintf("%s: %s", line.label, value)))
		pdf.Ln(5)
	}
	pdf.Ln(4)

	writeItemTable(pdf, tr, res)

	if res.Mode == ModeDesign {
		pdf.Ln(6)
		writeSummaryTables(pdf, tr, res)
	}

	return pdf.Output(w)
}

// WritePDFFile renders the report to a file, creating its directory.
func WritePDFFile(path string, res *Result, meta Meta) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePDF(f, res, meta); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeItemTable(pdf *fpdf.Fpdf, tr func(string) string, res *Result) {
	header := func() {
		pdf.SetFont("Helvetica", "B", 7)
		pdf.SetFillColor(135, 206, 250)
		for i, h := range Headers {
			pdf.CellFormat(pdfWidths[i], 8, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 7)
	}
	header()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, it := range res.Items {
		if pdf.GetY()+6 > pageHeight-bottom-10 {
			pdf.AddPage()
			header()
		}
		for i, cell := range it.Serialize().Strings() {
			fill := false
			if i == ratioColumn || i == checkColumn {
				pdf.SetFillColor(int(it.Color.R), int(it.Color.G), int(it.Color.B))
				fill = it.Check.String() != Placeholder
			}
			pdf.CellFormat(pdfWidths[i], 6, tr(cell), "1", 0, "C", fill, 0, "")
		}
		pdf.Ln(-1)
	}
}

func writeSummaryTables(pdf *fpdf.Fpdf, tr func(string) string, res *Result) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, "Design Summary")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(60, 6, "Group", "1", 0, "L", false, 0, "")
	pdf.CellFormat(80, 6, "Connection", "1", 0, "L", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 8)
	for _, d := range res.Designs {
		pdf.CellFormat(60, 6, tr(d.GroupName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(80, 6, tr(d.Label()), "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, "Compliance Summary")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(60, 6, "Group", "1", 0, "L", false, 0, "")
	pdf.CellFormat(35, 6, "Compliance", "1", 0, "L", false, 0, "")
	pdf.CellFormat(120, 6, "Non-compliant members", "1", 0, "L", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 8)
	for _, c := range res.Compliance {
		members := Placeholder
		if !c.Complies() {
			members = fmt.Sprint(c.NonCompliant)
		}
		pdf.CellFormat(60, 6, tr(c.GroupName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, c.Status(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(120, 6, members, "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}
}
