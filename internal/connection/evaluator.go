// Package connection classifies frame-end load cases against the capacity of
// a standard connection.
package connection

import (
	"fmt"
	"image/color"

	"github.com/alexiusacademia/goconn/internal/capacity"
	"github.com/alexiusacademia/goconn/internal/model"
	"github.com/alexiusacademia/goconn/internal/transform"
)

// Check is the classification of a frame's connection.
type Check int

const (
	// CheckNone means no load case was examined.
	CheckNone Check = iota
	CheckOK
	CheckNotOK
	// CheckMomentBottom is a pass where the governing case had M3 ≤ 0.
	CheckMomentBottom
)

func (c Check) String() string {
	switch c {
	case CheckOK:
		return "OK"
	case CheckNotOK:
		return "Not OK"
	case CheckMomentBottom:
		return "MomentBottom"
	}
	return "-"
}

// ParseCheck is the inverse of Check.String.
func ParseCheck(s string) (Check, error) {
	switch s {
	case "OK":
		return CheckOK, nil
	case "Not OK":
		return CheckNotOK, nil
	case "MomentBottom":
		return CheckMomentBottom, nil
	case "-", "":
		return CheckNone, nil
	}
	return CheckNone, fmt.Errorf("unknown check label %q", s)
}

// Compliant reports whether the connection is acceptable. A frame with no
// examined case has nothing that fails.
func (c Check) Compliant() bool {
	return c != CheckNotOK
}

// Outcome is what an evaluator reports for one frame. Nil fields were not
// computed.
type Outcome struct {
	Check Check
	Ratio *float64 // governing demand / capacity

	V *float64 // shear demand (kN)
	M *float64 // moment demand (kN·m)
	P *float64 // axial demand (kN)

	Vn *float64 // shear capacity (kN)
	Mn *float64 // moment capacity (kN·m)
	Pn *float64 // axial capacity (kN)

	Color color.RGBA

	// Cases is the number of load cases examined before the loop stopped.
	Cases int
}

// Context carries what an evaluator may need beyond capacity and loads.
type Context struct {
	Frame model.Frame
	Nodes transform.NodeLookup
}

// Evaluator checks one frame's load cases against a capacity record.
//
// Every implementation walks nodes in order, then each node's cases in order,
// and stops at the first case that fails. The reported ratio belongs to that
// case, or to the last case examined when none failed.
type Evaluator interface {
	Type() capacity.ConnectionType
	// Evaluate classifies loads against rec. A nil rec means the library has
	// no row for the frame's section and tier.
	Evaluate(rec *capacity.Record, loads *model.FrameLoads, ctx Context) (Outcome, error)
}

// For returns the evaluator for a connection type.
func For(t capacity.ConnectionType) (Evaluator, error) {
	switch t {
	case capacity.MomentEndPlate:
		return MomentEndPlate{}, nil
	case capacity.WebCleat:
		return WebCleat{}, nil
	case capacity.BasePlate:
		return BasePlate{}, nil
	}
	return nil, fmt.Errorf("no evaluator for %s", t)
}

func ptr(v float64) *float64 {
	return &v
}

// notOK is the outcome for a missing capacity row: failed, no ratio.
func notOK() Outcome {
	return Outcome{Check: CheckNotOK, Color: Red}
}

// finish fills in the colour once the classification is known.
func finish(out Outcome) Outcome {
	switch {
	case out.Cases == 0:
		out.Check = CheckNone
		out.Ratio = nil
		out.Color = Neutral
	case out.Ratio != nil:
		out.Color = ColorForRatio(*out.Ratio)
	case out.Check == CheckNotOK:
		out.Color = Red
	default:
		out.Color = Green
	}
	return out
}
