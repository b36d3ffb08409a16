// Package transform converts frame-end forces from global to member-local
// axes for horizontal frames aligned with a principal axis.
package transform

import (
	"errors"
	"fmt"

	"github.com/alexiusacademia/goconn/internal/model"
)

// Alignment is the signed principal axis a frame runs along, from node I to
// node J.
type Alignment int

const (
	Undefined Alignment = iota
	PlusX
	MinusX
	PlusY
	MinusY
)

func (a Alignment) String() string {
	switch a {
	case PlusX:
		return "+X"
	case MinusX:
		return "-X"
	case PlusY:
		return "+Y"
	case MinusY:
		return "-Y"
	}
	return "undefined"
}

// Transformable reports whether GlobalToLocal accepts the alignment.
func (a Alignment) Transformable() bool {
	return a == PlusX || a == PlusY
}

// ErrInvalidAlignment is returned by GlobalToLocal for any alignment other
// than +X or +Y.
var ErrInvalidAlignment = errors.New("invalid frame alignment")

// NodeLookup resolves node ids.
type NodeLookup interface {
	Node(id int) (model.Node, error)
}

// DetectAlignment returns the axis along which the frame's end nodes differ
// while the other two coordinates are exactly equal. Skewed, vertical and
// zero-length frames are Undefined.
func DetectAlignment(f model.Frame, nodes NodeLookup) (Alignment, error) {
	ni, err := nodes.Node(f.NodeI)
	if err != nil {
		return Undefined, fmt.Errorf("frame %d: %w", f.ID, err)
	}
	nj, err := nodes.Node(f.NodeJ)
	if err != nil {
		return Undefined, fmt.Errorf("frame %d: %w", f.ID, err)
	}

	switch {
	case ni.Y == nj.Y && ni.Z == nj.Z && ni.X != nj.X:
		if nj.X > ni.X {
			return PlusX, nil
		}
		return MinusX, nil
	case ni.X == nj.X && ni.Z == nj.Z && ni.Y != nj.Y:
		if nj.Y > ni.Y {
			return PlusY, nil
		}
		return MinusY, nil
	}
	return Undefined, nil
}

// Local is a load case expressed in member axes.
type Local struct {
	P  float64 // axial
	V2 float64 // major-axis shear
	V3 float64 // minor-axis shear
	T  float64 // torsion
	M2 float64 // minor-axis moment
	M3 float64 // major-axis moment
}

// GlobalToLocal maps a global load case into member axes. Only +X and +Y
// frames have a defined mapping.
//
// TODO: check the +X signs of V3, M2 and M3 against a hand calculation.
func GlobalToLocal(lc model.LoadCase, a Alignment) (Local, error) {
	switch a {
	case PlusY:
		return Local{P: lc.F2, V2: lc.F3, V3: lc.F1, T: lc.M3, M2: lc.M2, M3: lc.M1}, nil
	case PlusX:
		return Local{P: lc.F2, V2: lc.F3, V3: -lc.F1, T: lc.M2, M2: lc.M1, M3: lc.M2}, nil
	}
	return Local{}, fmt.Errorf("%w: %s", ErrInvalidAlignment, a)
}
