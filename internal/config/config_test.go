package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/goconn/internal/capacity"
	"github.com/alexiusacademia/goconn/internal/nscp"
	"github.com/alexiusacademia/goconn/internal/report"
)

const designRun = `
mode: design
load_combination: ULS1
project: Warehouse extension
model: model.json
library: capacities/
assignments:
  - group: Beams
    connection: Web Cope
    color: "#3366cc"
  - group: Columns
    connection: Base Plate
tiers:
  Base Plate: ["30%", "50%"]
`

func TestParseRunFile(t *testing.T) {
	rf, err := Parse([]byte(designRun))
	require.NoError(t, err)

	assert.Equal(t, report.ModeDesign, rf.RunMode())
	assert.Equal(t, "ULS1", rf.Combination())
	assert.Equal(t, "Warehouse extension", rf.Project)

	as, err := rf.EngineAssignments()
	require.NoError(t, err)
	require.Len(t, as, 2)
	assert.Equal(t, "Beams", as[0].Group)
	assert.Equal(t, capacity.WebCleat, as[0].Connection)
	assert.Equal(t, color.RGBA{R: 0x33, G: 0x66, B: 0xcc, A: 0xff}, as[0].Color)
	assert.Equal(t, color.RGBA{A: 255}, as[1].Color)

	tiers, err := rf.TierOrder()
	require.NoError(t, err)
	assert.Equal(t, map[capacity.ConnectionType][]string{capacity.BasePlate: {"30%", "50%"}}, tiers)

	_, _, ok, err := rf.Patterns()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParseNSCPRun(t *testing.T) {
	rf, err := Parse([]byte(`
mode: check
nscp:
  combination: "2"
  patterns:
    dead: DEAD
    live: LIVE
assignments:
  - group: Beams
    connection: Web Cleat
    tier: 30%
`))
	require.NoError(t, err)
	assert.Equal(t, report.ModeCheck, rf.RunMode())
	assert.Equal(t, "NSCP-2", rf.Combination())

	lc, patterns, ok, err := rf.Patterns()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2", lc.ID)
	assert.Equal(t, map[nscp.LoadType]string{nscp.Dead: "DEAD", nscp.Live: "LIVE"}, patterns)

	tiers, err := rf.TierOrder()
	require.NoError(t, err)
	assert.Nil(t, tiers)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing mode",
			yaml: "load_combination: C\nassignments: [{group: G, connection: Web Cleat, tier: 30%}]",
			want: "Mode: field is required",
		},
		{
			name: "unknown mode",
			yaml: "mode: optimise\nload_combination: C\nassignments: [{group: G, connection: Web Cleat, tier: 30%}]",
			want: "Mode: must be one of [check design]",
		},
		{
			name: "no combination",
			yaml: "mode: design\nassignments: [{group: G, connection: Web Cleat}]",
			want: "LoadCombination: field is required",
		},
		{
			name: "no assignments",
			yaml: "mode: design\nload_combination: C",
			want: "Assignments: field is required",
		},
		{
			name: "assignment without group",
			yaml: "mode: design\nload_combination: C\nassignments: [{connection: Web Cleat}]",
			want: "Assignments[0].Group: field is required",
		},
		{
			name: "bad colour",
			yaml: "mode: design\nload_combination: C\nassignments: [{group: G, connection: Web Cleat, color: blue}]",
			want: `Assignments[0].Color: "blue" is not a hex colour`,
		},
		{
			name: "unknown connection",
			yaml: "mode: design\nload_combination: C\nassignments: [{group: G, connection: Splice}]",
			want: `assignments[0]: unknown connection type "Splice"`,
		},
		{
			name: "duplicate group",
			yaml: "mode: design\nload_combination: C\nassignments: [{group: G, connection: Web Cleat}, {group: G, connection: Base Plate}]",
			want: `assignments[1]: group "G" is assigned more than once`,
		},
		{
			name: "check without tier",
			yaml: "mode: check\nload_combination: C\nassignments: [{group: G, connection: Web Cleat}]",
			want: `group "G" needs a tier in check mode`,
		},
		{
			name: "unknown tier key",
			yaml: "mode: design\nload_combination: C\nassignments: [{group: G, connection: Web Cleat}]\ntiers: {Splice: [a]}",
			want: "tiers:",
		},
		{
			name: "empty tier list",
			yaml: "mode: design\nload_combination: C\nassignments: [{group: G, connection: Web Cleat}]\ntiers: {Web Cleat: []}",
			want: "must have at least 1 entries",
		},
		{
			name: "unknown nscp combination",
			yaml: "mode: design\nnscp: {combination: '9', patterns: {dead: D}}\nassignments: [{group: G, connection: Web Cleat}]",
			want: "nscp:",
		},
		{
			name: "unknown load type",
			yaml: "mode: design\nnscp: {combination: '1', patterns: {snow: S}}\nassignments: [{group: G, connection: Web Cleat}]",
			want: `nscp.patterns: unknown load type "snow"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("mode: [check"))
	assert.ErrorContains(t, err, "failed to parse run file")
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(designRun), 0o644))

	rf, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Len(t, rf.Assignments, 2)

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read run file")
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#ff8000", color.RGBA{R: 255, G: 128, A: 255}},
		{"#F80", color.RGBA{R: 255, G: 136, A: 255}},
		{"#00000080", color.RGBA{A: 128}},
		{"#0f08", color.RGBA{G: 255, A: 136}},
	}
	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"ff8000", "#ff80f", "#gggggg", ""} {
		_, err := ParseHexColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(LibraryEnv, "/srv/capacities")
	t.Setenv(AuthorEnv, "R. Santos")

	rf := &RunFile{Author: "J. Cruz"}
	rf.ApplyEnv()
	assert.Equal(t, "/srv/capacities", rf.Library)
	assert.Equal(t, "J. Cruz", rf.Author)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv(AuthorEnv, "")
	require.NoError(t, os.Unsetenv(AuthorEnv))
	t.Setenv(LibraryEnv, "/preset")

	path := filepath.Join(t.TempDir(), "goconn.env")
	require.NoError(t, os.WriteFile(path,
		[]byte("GOCONN_AUTHOR=R. Santos\nGOCONN_LIBRARY=/from/file\n"), 0o644))

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "R. Santos", os.Getenv(AuthorEnv))
	assert.Equal(t, "/preset", os.Getenv(LibraryEnv))

	assert.Error(t, LoadEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestLoadEnvWithoutDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())
	assert.NoError(t, LoadEnv())
}
