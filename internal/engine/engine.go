// Package engine runs connection checks and the design tier search over a
// structural model. Every call builds and returns its own result.
package engine

import (
	"errors"
	"fmt"
	"image/color"

	"go.uber.org/zap"

	"github.com/alexiusacademia/goconn/internal/capacity"
	"github.com/alexiusacademia/goconn/internal/connection"
	"github.com/alexiusacademia/goconn/internal/model"
	"github.com/alexiusacademia/goconn/internal/report"
)

// Assignment is the connection declared for one group. Tier is required in
// check mode and ignored in design mode.
type Assignment struct {
	Group      string
	Connection capacity.ConnectionType
	Color      color.RGBA
	Tier       string
}

// Options tune an evaluation call.
type Options struct {
	Logger *zap.Logger

	// Tiers overrides the weakest-to-strongest tier order per connection
	// type for the design search.
	Tiers map[capacity.ConnectionType][]string
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o Options) tiers(t capacity.ConnectionType) []string {
	if tiers, ok := o.Tiers[t]; ok && len(tiers) > 0 {
		return tiers
	}
	return capacity.DefaultTiers(t)
}

// FrameError is a fatal failure while evaluating one frame.
type FrameError struct {
	FrameID    int
	Group      string
	Connection capacity.ConnectionType
	Err        error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d (group %q, %s): %v", e.FrameID, e.Group, e.Connection, e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

// member is a frame resolved for evaluation.
type member struct {
	frame   model.Frame
	section string
	loads   *model.FrameLoads
}

// run holds what both modes share for one call.
type run struct {
	model *model.Model
	lib   *capacity.Library
	combo *model.Combination
	log   *zap.Logger
	seen  map[int]bool
}

func newRun(m *model.Model, lib *capacity.Library, comboName string, opts Options) (*run, error) {
	if m == nil || lib == nil {
		return nil, errors.New("model and capacity library are required")
	}
	combo, err := m.Combination(comboName)
	if err != nil {
		return nil, err
	}
	if err := m.ValidateCombination(combo); err != nil {
		return nil, err
	}
	return &run{
		model: m,
		lib:   lib,
		combo: combo,
		log:   opts.logger().With(zap.String("load_combo", comboName)),
		seen:  make(map[int]bool),
	}, nil
}

// members resolves the group's frames that no earlier assignment claimed.
// Every claimed frame must have a section and an entry in the combination.
func (r *run) members(a Assignment) ([]member, error) {
	group, ok := r.model.Group(a.Group)
	if !ok {
		return nil, &model.LookupError{Kind: "group", Name: a.Group, Context: "connection assignment"}
	}
	var out []member
	for _, id := range group.FrameIDs {
		if r.seen[id] {
			r.log.Debug("frame already assigned", zap.Int("frame", id), zap.String("group", a.Group))
			continue
		}
		r.seen[id] = true

		f, err := r.model.Frame(id)
		if err != nil {
			return nil, &FrameError{FrameID: id, Group: a.Group, Connection: a.Connection, Err: err}
		}
		section, ok := r.model.SectionOf(id)
		if !ok {
			err := &model.LookupError{Kind: "section assignment", ID: id, Context: "frame has no section"}
			return nil, &FrameError{FrameID: id, Group: a.Group, Connection: a.Connection, Err: err}
		}
		loads := r.combo.Loads(id)
		if loads == nil {
			err := &model.LookupError{Kind: "load entry", ID: id, Context: fmt.Sprintf("load combination %q", r.combo.Name)}
			return nil, &FrameError{FrameID: id, Group: a.Group, Connection: a.Connection, Err: err}
		}
		out = append(out, member{frame: f, section: section, loads: loads})
	}
	return out, nil
}

func (r *run) evaluate(ev connection.Evaluator, mb member, tier string) (connection.Outcome, error) {
	var rec *capacity.Record
	if found, ok := r.lib.Lookup(ev.Type(), mb.section, tier); ok {
		rec = &found
	}
	return ev.Evaluate(rec, mb.loads, connection.Context{Frame: mb.frame, Nodes: r.model})
}

func (r *run) item(a Assignment, mb member, tier string, out connection.Outcome) report.OutputItem {
	connType := a.Connection.String()
	if tier != "" {
		connType += " " + tier
	}
	return report.OutputItem{
		FrameID:     mb.frame.ID,
		GroupName:   a.Group,
		SectionName: mb.section,
		LoadCombo:   r.combo.Name,
		ConnType:    connType,
		V:           out.V,
		M:           out.M,
		P:           out.P,
		Vn:          out.Vn,
		Mn:          out.Mn,
		Pn:          out.Pn,
		Ratio:       out.Ratio,
		Check:       out.Check,
		Color:       out.Color,
		GroupColor:  a.Color,
	}
}

func ratioField(out connection.Outcome) zap.Field {
	if out.Ratio == nil {
		return zap.Skip()
	}
	return zap.Float64("ratio", *out.Ratio)
}
