package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/goconn/internal/config"
	"github.com/alexiusacademia/goconn/internal/report"
)

const cmdModel = `{
  "nodes": [
    {"id": 1, "x": 0, "y": 0, "z": 3},
    {"id": 2, "x": 6, "y": 0, "z": 3},
    {"id": 3, "x": 12, "y": 0, "z": 3}
  ],
  "frames": [
    {"id": 11, "nodeI": 1, "nodeJ": 2},
    {"id": 12, "nodeI": 2, "nodeJ": 3}
  ],
  "groups": [{"name": "Beams", "frame_ids": [11, 12]}],
  "sections": [{"name": "UB 310x40", "frame_ids": [11, 12]}],
  "load_combinations": [
    {"name": "DEAD", "frames": [
      {"frame_id": 11, "nodes": [{"node_id": 1, "cases": [{"F3": 20}]}]},
      {"frame_id": 12, "nodes": [{"node_id": 2, "cases": [{"F3": 30}]}]}
    ]},
    {"name": "LIVE", "frames": [
      {"frame_id": 12, "nodes": [{"node_id": 2, "cases": [{"F3": 10}]}]}
    ]}
  ]
}`

const cmdLibrary = `{"Web Cleat": {"UB 310x40": {"30%": {"Shear": 50}, "40%": {"Shear": 80}}}}`

func writeInputs(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "model.json")
	libPath := filepath.Join(dir, "capacities.json")
	require.NoError(t, os.WriteFile(modelPath, []byte(cmdModel), 0o644))
	require.NoError(t, os.WriteFile(libPath, []byte(cmdLibrary), 0o644))
	return modelPath, libPath
}

func TestParseAssign(t *testing.T) {
	a, err := parseAssign("Beams = Web Cleat:30%")
	require.NoError(t, err)
	assert.Equal(t, config.Assignment{Group: "Beams", Connection: "Web Cleat", Tier: "30%"}, a)

	a, err = parseAssign("Columns=Base Plate")
	require.NoError(t, err)
	assert.Empty(t, a.Tier)

	for _, bad := range []string{"Beams", "=Web Cleat", "Beams="} {
		_, err := parseAssign(bad)
		assert.Error(t, err, bad)
	}
}

func TestRunFileFromFlags(t *testing.T) {
	t.Setenv(config.LibraryEnv, "/env/library")

	f := &runFlags{
		combo:  "DEAD",
		assign: []string{"Beams=Web Cleat:30%"},
	}
	rf, err := f.runFile(report.ModeCheck)
	require.NoError(t, err)
	assert.Equal(t, "check", rf.Mode)
	assert.Equal(t, "/env/library", rf.Library)
	assert.Equal(t, "DEAD", rf.Combination())

	f = &runFlags{
		nscpID:   "2",
		patterns: []string{"Dead=DEAD", "live = LIVE"},
		assign:   []string{"Beams=Web Cleat"},
		library:  "lib.json",
	}
	rf, err = f.runFile(report.ModeDesign)
	require.NoError(t, err)
	assert.Equal(t, "NSCP-2", rf.Combination())
	assert.Equal(t, "lib.json", rf.Library)
	assert.Equal(t, map[string]string{"dead": "DEAD", "live": "LIVE"}, rf.NSCP.Patterns)

	f = &runFlags{nscpID: "2", patterns: []string{"dead"}, assign: []string{"Beams=Web Cleat"}}
	_, err = f.runFile(report.ModeDesign)
	assert.ErrorContains(t, err, "invalid --pattern")

	f = &runFlags{combo: "DEAD", assign: []string{"Beams=Web Cleat"}}
	_, err = f.runFile(report.ModeCheck)
	assert.ErrorContains(t, err, "needs a tier in check mode")
}

func TestRunConnectionsWritesJSON(t *testing.T) {
	modelPath, libPath := writeInputs(t)
	out := filepath.Join(t.TempDir(), "result.json")

	err := runConnections(report.ModeDesign, &runFlags{
		modelFile: modelPath,
		library:   libPath,
		nscpID:    "2",
		patterns:  []string{"dead=DEAD", "live=LIVE"},
		assign:    []string{"Beams=Web Cleat"},
		jsonFile:  out,
		view:      "xz",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var doc struct {
		Mode      string           `json:"mode"`
		LoadCombo string           `json:"load_combo"`
		Table     []map[string]any `json:"table"`
		Designs   []map[string]any `json:"con_summary"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "design", doc.Mode)
	assert.Equal(t, "NSCP-2", doc.LoadCombo)
	require.Len(t, doc.Table, 2)
	// 1.2*20 = 24 passes at 30%; 1.2*30 + 1.6*10 = 52 needs 40%.
	assert.Equal(t, "Web Cleat 30%", doc.Table[0]["conn_type"])
	assert.Equal(t, "Web Cleat 40%", doc.Table[1]["conn_type"])
	assert.Equal(t, 52.0, doc.Table[1]["V"])
	assert.Equal(t, "Web Cleat 40%", doc.Designs[0]["con_type"])
}

func TestRunConnectionsPlotsByGroup(t *testing.T) {
	modelPath, libPath := writeInputs(t)
	dir := t.TempDir()

	f := &runFlags{
		modelFile: modelPath,
		library:   libPath,
		combo:     "DEAD",
		assign:    []string{"Beams=Web Cleat:30%"},
		plotFile:  filepath.Join(dir, "groups.svg"),
		view:      "xz",
		colorBy:   "group",
	}
	require.NoError(t, runConnections(report.ModeCheck, f))
	assert.FileExists(t, f.plotFile)

	f.colorBy = "section"
	assert.ErrorContains(t, runConnections(report.ModeCheck, f), "unknown colour mode")
}

func TestRunConnectionsNeedsModel(t *testing.T) {
	_, libPath := writeInputs(t)
	err := runConnections(report.ModeCheck, &runFlags{
		library: libPath,
		combo:   "DEAD",
		assign:  []string{"Beams=Web Cleat:30%"},
	})
	assert.ErrorContains(t, err, "a model is required")
}
