package connection

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/goconn/internal/capacity"
	"github.com/alexiusacademia/goconn/internal/model"
	"github.com/alexiusacademia/goconn/internal/transform"
)

// MomentEndPlate checks bolted end-plate moment connections.
//
// Each case is transformed to member axes. M3 ≤ 0 is checked against
// MomentBottom and passes as CheckMomentBottom; M3 > 0 is checked against
// MomentTop and passes as CheckOK. Shear V2 is checked against Shear in both.
// The reported V and M are the largest magnitudes seen over the examined
// cases.
type MomentEndPlate struct{}

func (MomentEndPlate) Type() capacity.ConnectionType { return capacity.MomentEndPlate }

func (MomentEndPlate) Evaluate(rec *capacity.Record, loads *model.FrameLoads, ctx Context) (Outcome, error) {
	if rec == nil || rec.Shear == nil || rec.MomentTop == nil || rec.MomentBottom == nil {
		return Outcome{}, capacity.ErrMissingCapacity
	}
	shear, top, bottom := *rec.Shear, *rec.MomentTop, *rec.MomentBottom

	align, err := transform.DetectAlignment(ctx.Frame, ctx.Nodes)
	if err != nil {
		return Outcome{}, err
	}
	if !align.Transformable() {
		return Outcome{}, fmt.Errorf("%w: frame %d runs %s", transform.ErrInvalidAlignment, ctx.Frame.ID, align)
	}

	out := Outcome{Vn: ptr(shear)}
	var maxV, maxM float64

cases:
	for _, nl := range nodeLoads(loads) {
		for _, lc := range nl.Cases {
			local, err := transform.GlobalToLocal(lc, align)
			if err != nil {
				return Outcome{}, err
			}
			v, m := math.Abs(local.V2), math.Abs(local.M3)
			maxV = math.Max(maxV, v)
			maxM = math.Max(maxM, m)

			governing, label := top, CheckOK
			if local.M3 <= 0 {
				governing, label = bottom, CheckMomentBottom
			}

			out.Cases++
			out.Mn = ptr(governing)
			out.Ratio = ptr(math.Max(v/shear, m/governing))
			if v < shear && m < governing {
				out.Check = label
				continue
			}
			out.Check = CheckNotOK
			break cases
		}
	}

	if out.Cases > 0 {
		out.V = ptr(maxV)
		out.M = ptr(maxM)
	}
	return finish(out), nil
}

func nodeLoads(loads *model.FrameLoads) []model.NodeLoads {
	if loads == nil {
		return nil
	}
	return loads.Nodes
}
