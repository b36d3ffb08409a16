package diagram

import (
	"fmt"
	"image/color"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/alexiusacademia/goconn/internal/connection"
	"github.com/alexiusacademia/goconn/internal/model"
	"github.com/alexiusacademia/goconn/internal/report"
)

// View is the global plane a model is projected onto.
type View string

const (
	ViewXY View = "xy" // plan
	ViewXZ View = "xz" // elevation along X
	ViewYZ View = "yz" // elevation along Y
)

// ParseView accepts "xy", "xz" or "yz".
func ParseView(s string) (View, error) {
	switch v := View(s); v {
	case ViewXY, ViewXZ, ViewYZ:
		return v, nil
	}
	return "", fmt.Errorf("unknown view %q (want xy, xz or yz)", s)
}

func (v View) project(n model.Node) (float64, float64) {
	switch v {
	case ViewXZ:
		return n.X, n.Z
	case ViewYZ:
		return n.Y, n.Z
	}
	return n.X, n.Y
}

func (v View) axes() (string, string) {
	switch v {
	case ViewXZ:
		return "X (mm)", "Z (mm)"
	case ViewYZ:
		return "Y (mm)", "Z (mm)"
	}
	return "X (mm)", "Y (mm)"
}

// ColorBy selects what the frame colours of a plot encode.
type ColorBy string

const (
	ColorByRatio ColorBy = "ratio" // capacity ratio band
	ColorByGroup ColorBy = "group" // colour declared per group
)

// ParseColorBy accepts "ratio" or "group". An empty string means ratio.
func ParseColorBy(s string) (ColorBy, error) {
	switch c := ColorBy(s); c {
	case "":
		return ColorByRatio, nil
	case ColorByRatio, ColorByGroup:
		return c, nil
	}
	return "", fmt.Errorf("unknown colour mode %q (want ratio or group)", s)
}

func (c ColorBy) of(it report.OutputItem) color.RGBA {
	if c == ColorByGroup {
		return it.GroupColor
	}
	return it.Color
}

// unassigned is drawn for frames that are not part of the result.
var unassigned = color.RGBA{R: 200, G: 200, B: 200, A: 255}

// ExportFramePlot draws the model projected onto view with every reported
// frame coloured by its ratio band or by its group, and exports it to an
// image file. The format follows the file extension (png, svg or pdf).
func ExportFramePlot(m *model.Model, res *report.Result, filename string, view View, by ColorBy) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Connection %s: %s", res.Mode, res.LoadCombo)
	p.X.Label.Text, p.Y.Label.Text = view.axes()

	var labels plotter.XYLabels
	for _, id := range slices.Sorted(maps.Keys(m.Frames)) {
		f := m.Frames[id]
		ni, err := m.Node(f.NodeI)
		if err != nil {
			return err
		}
		nj, err := m.Node(f.NodeJ)
		if err != nil {
			return err
		}
		x1, y1 := view.project(ni)
		x2, y2 := view.project(nj)

		line, err := plotter.NewLine(plotter.XYs{{X: x1, Y: y1}, {X: x2, Y: y2}})
		if err != nil {
			return err
		}
		line.LineStyle.Color = unassigned
		line.LineStyle.Width = vg.Points(1)

		if it, ok := res.Item(id); ok {
			line.LineStyle.Color = by.of(it)
			line.LineStyle.Width = vg.Points(2.5)
			labels.XYs = append(labels.XYs, plotter.XY{X: (x1 + x2) / 2, Y: (y1 + y2) / 2})
			labels.Labels = append(labels.Labels, fmt.Sprint(id))
		}
		p.Add(line)
	}

	if len(labels.XYs) > 0 {
		l, err := plotter.NewLabels(labels)
		if err != nil {
			return err
		}
		for i := range l.TextStyle {
			l.TextStyle[i].Font.Size = vg.Points(7)
		}
		p.Add(l)
	}

	if by == ColorByGroup {
		seen := make(map[string]bool)
		for _, it := range res.Items {
			if !seen[it.GroupName] {
				seen[it.GroupName] = true
				p.Legend.Add(it.GroupName, swatch(it.GroupColor))
			}
		}
	} else {
		for _, e := range connection.Legend {
			p.Legend.Add(e.Label, swatch(e.Color))
		}
		p.Legend.Add("not evaluated", swatch(connection.Neutral))
	}
	p.Legend.Top = true

	// Create directory if needed
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	width := 8 * vg.Inch
	height := 6 * vg.Inch
	switch filepath.Ext(filename) {
	case ".png", ".svg", ".pdf":
		return p.Save(width, height, filename)
	default:
		return p.Save(width, height, filename+".png")
	}
}

// swatch is a filled legend thumbnail.
type swatch color.RGBA

func (s swatch) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(color.RGBA(s), c.ClipPolygonXY(pts))
}
