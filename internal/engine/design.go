package engine

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/alexiusacademia/goconn/internal/capacity"
	"github.com/alexiusacademia/goconn/internal/connection"
	"github.com/alexiusacademia/goconn/internal/model"
	"github.com/alexiusacademia/goconn/internal/report"
)

// Design searches, frame by frame, for the weakest tier each frame passes.
//
// Tiers are tried from weakest to strongest and the search stops at the
// first compliant tier. The group's design tier is whatever the last frame
// that passed chose, so a later, lightly loaded frame can replace the tier a
// heavier frame needed. Frames that fail at every tier are listed as
// non-compliant and reported with their outcome at the strongest tier.
// A tier with no library row counts as failed for that tier.
func Design(m *model.Model, lib *capacity.Library, combo string, assignments []Assignment, opts Options) (*report.Result, error) {
	r, err := newRun(m, lib, combo, opts)
	if err != nil {
		return nil, err
	}
	b := report.NewBuilder(report.ModeDesign, combo)

	for _, a := range assignments {
		ev, err := connection.For(a.Connection)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", a.Group, err)
		}
		tiers := opts.tiers(a.Connection)
		if len(tiers) == 0 {
			return nil, fmt.Errorf("group %q: no capacity tiers for %s", a.Group, a.Connection)
		}
		members, err := r.members(a)
		if err != nil {
			return nil, err
		}
		b.StartGroup(a.Group, a.Connection.String())

		for _, mb := range members {
			item, tier, err := r.search(ev, a, mb, tiers)
			if err != nil {
				return nil, err
			}
			if tier == "" {
				b.MarkNonCompliant(a.Group, mb.frame.ID)
			} else {
				b.SetTier(a.Group, tier)
			}
			b.Add(item)
		}
	}

	res := b.Result()
	failed := 0
	for _, c := range res.Compliance {
		failed += len(c.NonCompliant)
	}
	r.log.Info("connection design complete",
		zap.Int("frames", len(res.Items)),
		zap.Int("groups", len(res.Designs)),
		zap.Int("non_compliant", failed),
	)
	return res, nil
}

// search returns the item for the first tier the frame passes, and that
// tier. When none passes the tier is empty and the item reflects the last
// tier tried.
func (r *run) search(ev connection.Evaluator, a Assignment, mb member, tiers []string) (report.OutputItem, string, error) {
	var last report.OutputItem
	for _, tier := range tiers {
		out, err := r.evaluate(ev, mb, tier)
		if errors.Is(err, capacity.ErrMissingCapacity) {
			r.log.Debug("tier missing from library",
				zap.Int("frame", mb.frame.ID),
				zap.String("section", mb.section),
				zap.String("tier", tier),
			)
			last = r.item(a, mb, tier, connection.Outcome{Check: connection.CheckNotOK, Color: connection.Red})
			continue
		}
		if err != nil {
			return report.OutputItem{}, "", &FrameError{FrameID: mb.frame.ID, Group: a.Group, Connection: a.Connection, Err: err}
		}

		last = r.item(a, mb, tier, out)
		r.log.Debug("tier evaluated",
			zap.Int("frame", mb.frame.ID),
			zap.String("group", a.Group),
			zap.String("tier", tier),
			zap.Stringer("check", out.Check),
			ratioField(out),
		)
		if out.Check.Compliant() {
			return last, tier, nil
		}
	}
	return last, "", nil
}
