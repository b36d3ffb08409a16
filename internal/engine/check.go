package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/alexiusacademia/goconn/internal/capacity"
	"github.com/alexiusacademia/goconn/internal/connection"
	"github.com/alexiusacademia/goconn/internal/model"
	"github.com/alexiusacademia/goconn/internal/report"
)

// Check validates every assigned group against its declared tier for one
// load combination.
//
// Assignments are processed in order and a frame belonging to several
// assigned groups is evaluated once, under the first. A missing Web Cleat
// or Base Plate capacity is reported as Not OK; a missing Moment End Plate
// capacity, an unaligned Moment End Plate frame and any dangling id are
// returned as errors.
func Check(m *model.Model, lib *capacity.Library, combo string, assignments []Assignment, opts Options) (*report.Result, error) {
	r, err := newRun(m, lib, combo, opts)
	if err != nil {
		return nil, err
	}
	b := report.NewBuilder(report.ModeCheck, combo)

	for _, a := range assignments {
		if a.Tier == "" {
			return nil, fmt.Errorf("group %q: capacity tier is required in check mode", a.Group)
		}
		ev, err := connection.For(a.Connection)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", a.Group, err)
		}
		members, err := r.members(a)
		if err != nil {
			return nil, err
		}
		for _, mb := range members {
			out, err := r.evaluate(ev, mb, a.Tier)
			if err != nil {
				return nil, &FrameError{FrameID: mb.frame.ID, Group: a.Group, Connection: a.Connection, Err: err}
			}
			r.log.Debug("frame checked",
				zap.Int("frame", mb.frame.ID),
				zap.String("group", a.Group),
				zap.String("section", mb.section),
				zap.String("tier", a.Tier),
				zap.Stringer("check", out.Check),
				ratioField(out),
				zap.Int("cases", out.Cases),
			)
			b.Add(r.item(a, mb, a.Tier, out))
		}
	}

	res := b.Result()
	r.log.Info("connection check complete",
		zap.Int("frames", len(res.Items)),
		zap.Int("passed", res.Passed()),
	)
	return res, nil
}
