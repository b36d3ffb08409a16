package report

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/goconn/internal/connection"
)

func f(v float64) *float64 { return &v }

func sampleResult() *Result {
	b := NewBuilder(ModeDesign, "ULS1")
	b.StartGroup("Beams", "Web Cleat")
	b.Add(OutputItem{
		FrameID: 11, GroupName: "Beams", SectionName: "UB 310x40", LoadCombo: "ULS1",
		ConnType: "Web Cleat 30%", V: f(35.004), Vn: f(50), Ratio: f(0.70008),
		Check: connection.CheckOK, Color: connection.Green,
	})
	b.SetTier("Beams", "30%")
	b.StartGroup("Columns", "Base Plate")
	b.Add(OutputItem{
		FrameID: 10, GroupName: "Columns", SectionName: "UC 203x46", LoadCombo: "ULS1",
		ConnType: "Base Plate 80%", V: f(12), Vn: f(30), P: f(950), Pn: f(900), Ratio: f(1.0556),
		Check: connection.CheckNotOK, Color: connection.Orange,
	})
	b.MarkNonCompliant("Columns", 10)
	return b.Result()
}

func TestSerializeItem(t *testing.T) {
	it := OutputItem{FrameID: 7, ConnType: "Web Cleat 30%", V: f(12.345), Vn: f(50), Ratio: f(0.2469)}
	m := it.Serialize().Map()

	assert.Equal(t, 7, m["frame_id"])
	assert.Equal(t, Placeholder, m["group_name"])
	assert.Equal(t, 12.35, m["V"])
	assert.Equal(t, 0.25, m["capacity_ratio"])
	assert.Equal(t, Placeholder, m["M"])
	assert.Equal(t, Placeholder, m["Pn"])
	assert.Equal(t, "-", m["check"])

	rec := it.Serialize()
	require.Len(t, rec, len(Keys))
	for i, fld := range rec {
		assert.Equal(t, Keys[i], fld.Key)
	}
	assert.Len(t, Headers, len(Keys))
}

func TestRecordStrings(t *testing.T) {
	cells := OutputItem{FrameID: 3, V: f(1.5), Check: connection.CheckMomentBottom}.Serialize().Strings()
	assert.Equal(t, "3", cells[0])
	assert.Equal(t, "1.50", cells[5])
	assert.Equal(t, "-", cells[6])
	assert.Equal(t, "MomentBottom", cells[12])
}

func TestRecordJSONKeepsFieldOrder(t *testing.T) {
	data, err := json.Marshal(sampleResult().Items[0].Serialize())
	require.NoError(t, err)
	s := string(data)

	last := -1
	for _, k := range Keys {
		i := strings.Index(s, `"`+k+`":`)
		require.GreaterOrEqual(t, i, 0, k)
		assert.Greater(t, i, last, k)
		last = i
	}
	assert.Contains(t, s, `"M":"-"`)
	assert.NotContains(t, s, "Color")
}

func TestDocumentJSON(t *testing.T) {
	data, err := json.Marshal(sampleResult().Serialize())
	require.NoError(t, err)
	s := string(data)

	assert.Less(t, strings.Index(s, `"mode":`), strings.Index(s, `"load_combo":`))
	assert.Contains(t, s, `"mode":"design"`)
	assert.Contains(t, s, `"con_type":"Web Cleat 30%"`)
	assert.Contains(t, s, `"con_type":"-"`)
	assert.Contains(t, s, `"non_comp_member":[10]`)
	assert.Contains(t, s, `"non_comp_member":"-"`)
}

func TestCheckDocumentOmitsSummaries(t *testing.T) {
	res := NewBuilder(ModeCheck, "").Result()
	data, err := json.Marshal(res.Serialize())
	require.NoError(t, err)
	assert.JSONEq(t, `{"mode":"check","load_combo":"-","table":[]}`, string(data))
}

func TestBuilderSummaries(t *testing.T) {
	res := sampleResult()

	require.Len(t, res.Designs, 2)
	assert.Equal(t, "Web Cleat 30%", res.Designs[0].Label())
	assert.Equal(t, Placeholder, res.Designs[1].Label())

	require.Len(t, res.Compliance, 2)
	assert.Equal(t, "Complies", res.Compliance[0].Status())
	assert.Equal(t, "Not Complies", res.Compliance[1].Status())
	assert.Equal(t, []int{10}, res.Compliance[1].NonCompliant)

	assert.Equal(t, 1, res.Passed())
	it, ok := res.Item(10)
	require.True(t, ok)
	assert.Equal(t, "Columns", it.GroupName)
	_, ok = res.Item(99)
	assert.False(t, ok)
}

func TestBuilderLastTierWins(t *testing.T) {
	b := NewBuilder(ModeDesign, "C")
	b.StartGroup("G", "Web Cleat")
	b.SetTier("G", "40%")
	b.SetTier("G", "30%")
	b.StartGroup("G", "Web Cleat")
	res := b.Result()

	require.Len(t, res.Designs, 1)
	assert.Equal(t, "Web Cleat 30%", res.Designs[0].Label())
}

func TestBuilderResultsAreIndependent(t *testing.T) {
	b := NewBuilder(ModeCheck, "C")
	b.Add(OutputItem{FrameID: 1})
	first := b.Result()
	b.Add(OutputItem{FrameID: 2})

	assert.Len(t, first.Items, 1)
	assert.Len(t, b.Result().Items, 2)
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{
		"check": ModeCheck, "Connection Design": ModeDesign, "design": ModeDesign, "": ModeCheck,
	} {
		got, err := ParseMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseMode("optimise")
	assert.Error(t, err)
}

func TestParseItemRejectsBadValues(t *testing.T) {
	_, err := ParseItem(map[string]any{"frame_id": "-"})
	assert.Error(t, err)

	_, err = ParseItem(map[string]any{"frame_id": 1.0, "V": true})
	assert.ErrorContains(t, err, "V:")

	_, err = ParseItem(map[string]any{"frame_id": 1.0, "check": "Maybe"})
	assert.Error(t, err)
}

func TestParseItemRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	optional := gen.PtrOf(gen.Float64Range(-5000, 5000))
	properties.Property("serialised items parse back", prop.ForAll(
		func(id int, v, m, ratio *float64, check int) bool {
			it := OutputItem{
				FrameID:     id,
				GroupName:   "Beams",
				SectionName: "UB 310x40",
				LoadCombo:   "ULS1",
				ConnType:    "Moment End Plate 70%/35%",
				V:           v,
				M:           m,
				Ratio:       ratio,
				Check:       connection.Check(check),
			}

			data, err := json.Marshal(it.Serialize())
			if err != nil {
				return false
			}
			var raw map[string]any
			if err := json.Unmarshal(data, &raw); err != nil {
				return false
			}
			back, err := ParseItem(raw)
			if err != nil {
				return false
			}

			return back.FrameID == it.FrameID &&
				back.ConnType == it.ConnType &&
				back.Check == it.Check &&
				sameRounded(back.V, it.V) &&
				sameRounded(back.M, it.M) &&
				sameRounded(back.Ratio, it.Ratio) &&
				back.Vn == nil
		},
		gen.IntRange(1, 100000),
		optional,
		optional,
		optional,
		gen.IntRange(int(connection.CheckNone), int(connection.CheckMomentBottom)),
	))

	properties.TestingRun(t)
}

func sameRounded(got, want *float64) bool {
	if want == nil {
		return got == nil
	}
	return got != nil && *got == Round2(*want)
}

func TestTable(t *testing.T) {
	out := Table(sampleResult())
	assert.Contains(t, out, "Design Member")
	assert.Contains(t, out, "Check [ok/not ok]")
	assert.Contains(t, out, "Web Cleat 30%")
	assert.Contains(t, out, "Not OK")
	assert.Contains(t, out, "1.06")
}

func TestWriteSummaries(t *testing.T) {
	var buf bytes.Buffer
	WriteSummaries(&buf, sampleResult())
	out := buf.String()
	assert.Contains(t, out, "DESIGN SUMMARY:")
	assert.Contains(t, out, "Web Cleat 30%")
	assert.Contains(t, out, "Not Complies")
	assert.Contains(t, out, "[10]")

	buf.Reset()
	WriteSummaries(&buf, NewBuilder(ModeCheck, "C").Result())
	assert.Empty(t, buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleResult()))

	var doc struct {
		Mode    string           `json:"mode"`
		Table   []map[string]any `json:"table"`
		Designs []map[string]any `json:"con_summary"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "design", doc.Mode)
	require.Len(t, doc.Table, 2)
	assert.Equal(t, 35.0, doc.Table[0]["V"])

	it, err := ParseItem(doc.Table[1])
	require.NoError(t, err)
	assert.Equal(t, connection.CheckNotOK, it.Check)
	assert.Equal(t, connection.Orange, it.Color)
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	err := WritePDF(&buf, sampleResult(), Meta{
		Project: "Warehouse extension",
		Author:  "J. Cruz",
		Date:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	path := filepath.Join(t.TempDir(), "out", "report.pdf")
	require.NoError(t, WritePDFFile(path, sampleResult(), Meta{}))
	assert.FileExists(t, path)
}
