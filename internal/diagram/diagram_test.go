package diagram

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/goconn/internal/connection"
	"github.com/alexiusacademia/goconn/internal/model"
	"github.com/alexiusacademia/goconn/internal/report"
)

func ratio(v float64) *float64 { return &v }

func sampleResult() *report.Result {
	b := report.NewBuilder(report.ModeDesign, "ULS1")
	b.StartGroup("Beams", "Web Cleat")
	b.Add(report.OutputItem{FrameID: 11, GroupName: "Beams", Ratio: ratio(0.5), Check: connection.CheckOK, Color: connection.Green})
	b.Add(report.OutputItem{FrameID: 12, GroupName: "Beams", Ratio: ratio(1.05), Check: connection.CheckNotOK, Color: connection.Orange})
	b.Add(report.OutputItem{FrameID: 13, GroupName: "Beams", Ratio: ratio(3), Check: connection.CheckNotOK, Color: connection.Red})
	b.Add(report.OutputItem{FrameID: 14, GroupName: "Beams", Check: connection.CheckNone, Color: connection.Neutral})
	b.MarkNonCompliant("Beams", 12)
	b.MarkNonCompliant("Beams", 13)
	return b.Result()
}

func TestParseView(t *testing.T) {
	v, err := ParseView("yz")
	require.NoError(t, err)
	assert.Equal(t, ViewYZ, v)

	_, err = ParseView("3d")
	assert.Error(t, err)
}

func TestViewAxesAreInMillimetres(t *testing.T) {
	x, y := ViewXZ.axes()
	assert.Equal(t, "X (mm)", x)
	assert.Equal(t, "Z (mm)", y)

	x, y = ViewYZ.axes()
	assert.Equal(t, "Y (mm)", x)
	assert.Equal(t, "Z (mm)", y)
}

func TestParseColorBy(t *testing.T) {
	c, err := ParseColorBy("")
	require.NoError(t, err)
	assert.Equal(t, ColorByRatio, c)

	c, err = ParseColorBy("group")
	require.NoError(t, err)
	assert.Equal(t, ColorByGroup, c)

	_, err = ParseColorBy("section")
	assert.Error(t, err)
}

func TestColorByPicksItemColour(t *testing.T) {
	blue := color.RGBA{B: 255, A: 255}
	it := report.OutputItem{Color: connection.Green, GroupColor: blue}
	assert.Equal(t, connection.Green, ColorByRatio.of(it))
	assert.Equal(t, blue, ColorByGroup.of(it))
}

func TestDrawRatioBars(t *testing.T) {
	out := DrawRatioBars(sampleResult())
	lines := strings.Split(out, "\n")

	find := func(prefix string) string {
		for _, l := range lines {
			if strings.HasPrefix(strings.TrimSpace(l), prefix) {
				return l
			}
		}
		t.Fatalf("no line for %s", prefix)
		return ""
	}

	assert.Equal(t, 15, strings.Count(find("11 "), "█"))
	assert.Contains(t, find("12 "), "1.05 (!)")
	assert.Contains(t, find("13 "), "3.00 (✗)")
	assert.Equal(t, barWidth, strings.Count(find("13 "), "▓"))
	assert.Contains(t, find("14 "), "│ -")
}

func TestDrawRatioGraph(t *testing.T) {
	out := DrawRatioGraph(sampleResult())
	assert.Contains(t, out, "capacity ratio by member: 11, 12, 13")
	assert.Contains(t, out, "3.00")

	b := report.NewBuilder(report.ModeCheck, "C")
	b.Add(report.OutputItem{FrameID: 1})
	assert.Empty(t, DrawRatioGraph(b.Result()))

	b.Add(report.OutputItem{FrameID: 2, Ratio: ratio(0.4)})
	assert.Contains(t, DrawRatioGraph(b.Result()), "member: 2")
}

func TestDrawLegend(t *testing.T) {
	out := DrawLegend()
	assert.Contains(t, out, "#00ff00")
	assert.Contains(t, out, "1.0 - 1.1")
	assert.Contains(t, out, "not evaluated")
	assert.Equal(t, len(connection.Legend)+2, strings.Count(out, "\n"))
}

func TestDrawSummaryBox(t *testing.T) {
	out := DrawSummaryBox("RESULTS", []string{"Members: 4", "Ratio ≤ 1.0 for all"})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2+4)

	width := utf8.RuneCountInString(lines[0])
	for _, l := range lines {
		assert.Equal(t, width, utf8.RuneCountInString(l), l)
	}
}

func TestResultSummary(t *testing.T) {
	lines := ResultSummary(sampleResult())
	assert.Contains(t, lines, "Passed:           2")
	assert.Contains(t, lines, "Non-compliant:    2")

	check := ResultSummary(report.NewBuilder(report.ModeCheck, "C").Result())
	assert.Len(t, check, 4)
}

func plotModel() *model.Model {
	m := model.New()
	m.Nodes[1] = model.Node{ID: 1}
	m.Nodes[2] = model.Node{ID: 2, Z: 3}
	m.Nodes[3] = model.Node{ID: 3, X: 6, Z: 3}
	m.Frames[10] = model.Frame{ID: 10, NodeI: 1, NodeJ: 2}
	m.Frames[11] = model.Frame{ID: 11, NodeI: 2, NodeJ: 3}
	return m
}

func TestExportFramePlot(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "plots", "frames.png")
	require.NoError(t, ExportFramePlot(plotModel(), sampleResult(), path, ViewXZ, ColorByRatio))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	require.NoError(t, ExportFramePlot(plotModel(), sampleResult(), filepath.Join(dir, "frames"), ViewXY, ColorByGroup))
	assert.FileExists(t, filepath.Join(dir, "frames.png"))
}

func TestExportFramePlotMissingNode(t *testing.T) {
	m := plotModel()
	m.Frames[12] = model.Frame{ID: 12, NodeI: 3, NodeJ: 9}

	err := ExportFramePlot(m, sampleResult(), filepath.Join(t.TempDir(), "x.svg"), ViewXZ, ColorByRatio)
	var lerr *model.LookupError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, 9, lerr.ID)
}
