// Package report aggregates per-frame outcomes into the records consumed by
// tables, plots and calculation reports.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/color"
	"math"

	"github.com/alexiusacademia/goconn/internal/connection"
)

// Placeholder replaces absent values in serialised records.
const Placeholder = "-"

// OutputItem is the evaluation result of one frame.
type OutputItem struct {
	FrameID     int
	GroupName   string
	SectionName string
	LoadCombo   string
	ConnType    string

	V  *float64 // kN
	M  *float64 // kN·m
	P  *float64 // kN
	Vn *float64 // kN
	Mn *float64 // kN·m
	Pn *float64 // kN

	Ratio *float64
	Check connection.Check

	// Color is the display colour derived from the outcome. GroupColor is
	// the colour declared for the member's group. Neither is part of the
	// serialised record.
	Color      color.RGBA
	GroupColor color.RGBA
}

// Headers are the column titles, in serialised field order.
var Headers = []string{
	"Design Member",
	"Group Name",
	"Cross Section",
	"Load Combination",
	"Connection Type",
	"Shear Force (V) [kN]",
	"Shear Capacity (phiV) [kN]",
	"Moment (M) [kN·m]",
	"Moment Capacity (phiM) [kN·m]",
	"Axial Force (P) [kN]",
	"Axial Capacity (phiP) [kN]",
	"Capacity Ratio",
	"Check [ok/not ok]",
}

// Keys are the serialised field names, in the same order as Headers.
var Keys = []string{
	"frame_id",
	"group_name",
	"section_name",
	"load_combo",
	"conn_type",
	"V",
	"Vn",
	"M",
	"Mn",
	"P",
	"Pn",
	"capacity_ratio",
	"check",
}

// Field is one key/value pair of a serialised record.
type Field struct {
	Key   string
	Value any
}

// Record is a serialised OutputItem. Field order follows Keys.
type Record []Field

// Serialize renders the item for display: floats are rounded to two
// decimals, absent values become Placeholder.
func (it OutputItem) Serialize() Record {
	return Record{
		{"frame_id", it.FrameID},
		{"group_name", text(it.GroupName)},
		{"section_name", text(it.SectionName)},
		{"load_combo", text(it.LoadCombo)},
		{"conn_type", text(it.ConnType)},
		{"V", number(it.V)},
		{"Vn", number(it.Vn)},
		{"M", number(it.M)},
		{"Mn", number(it.Mn)},
		{"P", number(it.P)},
		{"Pn", number(it.Pn)},
		{"capacity_ratio", number(it.Ratio)},
		{"check", it.Check.String()},
	}
}

func text(s string) any {
	if s == "" {
		return Placeholder
	}
	return s
}

func number(v *float64) any {
	if v == nil {
		return Placeholder
	}
	return Round2(*v)
}

// Round2 rounds to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Map returns the record as a plain map.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r))
	for _, f := range r {
		m[f.Key] = f.Value
	}
	return m
}

// Strings formats each value for a table cell.
func (r Record) Strings() []string {
	out := make([]string, len(r))
	for i, f := range r {
		switch v := f.Value.(type) {
		case float64:
			out[i] = fmt.Sprintf("%.2f", v)
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}

// MarshalJSON writes the record as an object with keys in field order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ParseItem rebuilds an OutputItem from a serialised record map, such as one
// decoded from JSON. Placeholder values become absent fields.
func ParseItem(m map[string]any) (OutputItem, error) {
	var it OutputItem
	var err error

	id, err := toFloat(m["frame_id"])
	if err != nil || id == nil {
		return it, fmt.Errorf("frame_id: invalid value %v", m["frame_id"])
	}
	it.FrameID = int(*id)

	it.GroupName = toText(m["group_name"])
	it.SectionName = toText(m["section_name"])
	it.LoadCombo = toText(m["load_combo"])
	it.ConnType = toText(m["conn_type"])

	for _, f := range []struct {
		key string
		dst **float64
	}{
		{"V", &it.V},
		{"Vn", &it.Vn},
		{"M", &it.M},
		{"Mn", &it.Mn},
		{"P", &it.P},
		{"Pn", &it.Pn},
		{"capacity_ratio", &it.Ratio},
	} {
		if *f.dst, err = toFloat(m[f.key]); err != nil {
			return it, fmt.Errorf("%s: %w", f.key, err)
		}
	}

	it.Check, err = connection.ParseCheck(toText(m["check"]))
	if err != nil {
		return it, err
	}
	switch {
	case it.Ratio != nil:
		it.Color = connection.ColorForRatio(*it.Ratio)
	case it.Check == connection.CheckNotOK:
		it.Color = connection.Red
	case it.Check == connection.CheckNone:
		it.Color = connection.Neutral
	default:
		it.Color = connection.Green
	}
	return it, nil
}

func toText(v any) string {
	s, ok := v.(string)
	if !ok || s == Placeholder {
		return ""
	}
	return s
}

func toFloat(v any) (*float64, error) {
	switch n := v.(type) {
	case nil:
		return nil, nil
	case string:
		if n == Placeholder || n == "" {
			return nil, nil
		}
		var f float64
		if _, err := fmt.Sscanf(n, "%g", &f); err != nil {
			return nil, fmt.Errorf("invalid number %q", n)
		}
		return &f, nil
	case float64:
		return &n, nil
	case int:
		f := float64(n)
		return &f, nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return nil, err
		}
		return &f, nil
	}
	return nil, fmt.Errorf("unsupported value %v (%T)", v, v)
}
