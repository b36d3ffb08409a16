package connection

import (
	"math"

	"github.com/alexiusacademia/goconn/internal/capacity"
	"github.com/alexiusacademia/goconn/internal/model"
)

// WebCleat checks shear-only web cleat (shear tab) connections: |F3| < Shear.
type WebCleat struct{}

func (WebCleat) Type() capacity.ConnectionType { return capacity.WebCleat }

func (WebCleat) Evaluate(rec *capacity.Record, loads *model.FrameLoads, _ Context) (Outcome, error) {
	if rec == nil || rec.Shear == nil {
		return notOK(), nil
	}
	shear := *rec.Shear
	out := Outcome{Vn: ptr(shear)}

cases:
	for _, nl := range nodeLoads(loads) {
		for _, lc := range nl.Cases {
			v := math.Abs(lc.F3)
			out.Cases++
			out.V = ptr(v)
			out.Ratio = ptr(v / shear)
			if v < shear {
				out.Check = CheckOK
				continue
			}
			out.Check = CheckNotOK
			break cases
		}
	}
	return finish(out), nil
}
