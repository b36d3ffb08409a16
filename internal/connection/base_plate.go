package connection

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/goconn/internal/capacity"
	"github.com/alexiusacademia/goconn/internal/model"
)

// BasePlate checks column base plates. Only cases reported at a node with
// z == 0 are examined; cases at other nodes are skipped, not failed.
//
// Axial demand is |F3| against Axial; shear demand is max(|F1|, |F2|)
// against Shear.
type BasePlate struct{}

func (BasePlate) Type() capacity.ConnectionType { return capacity.BasePlate }

func (BasePlate) Evaluate(rec *capacity.Record, loads *model.FrameLoads, ctx Context) (Outcome, error) {
	if rec == nil || rec.Shear == nil || rec.Axial == nil {
		return notOK(), nil
	}
	shear, axial := *rec.Shear, *rec.Axial
	out := Outcome{Vn: ptr(shear), Pn: ptr(axial)}

cases:
	for _, nl := range nodeLoads(loads) {
		node, err := ctx.Nodes.Node(nl.NodeID)
		if err != nil {
			return Outcome{}, fmt.Errorf("frame %d: %w", ctx.Frame.ID, err)
		}
		if node.Z != 0 {
			continue
		}
		for _, lc := range nl.Cases {
			p := math.Abs(lc.F3)
			v := math.Max(math.Abs(lc.F1), math.Abs(lc.F2))
			out.Cases++
			out.P = ptr(p)
			out.V = ptr(v)
			out.Ratio = ptr(math.Max(p/axial, v/shear))
			if p < axial && v < shear {
				out.Check = CheckOK
				continue
			}
			out.Check = CheckNotOK
			break cases
		}
	}
	return finish(out), nil
}
