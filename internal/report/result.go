package report

import (
	"fmt"
	"strings"
)

// Mode selects between validating assigned tiers and searching for them.
type Mode int

const (
	ModeCheck Mode = iota
	ModeDesign
)

func (m Mode) String() string {
	if m == ModeDesign {
		return "design"
	}
	return "check"
}

// ParseMode accepts "check"/"design" and the longer UI labels.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "check", "connection check":
		return ModeCheck, nil
	case "design", "connection design":
		return ModeDesign, nil
	}
	return ModeCheck, fmt.Errorf("unknown mode %q (want check or design)", s)
}

// GroupDesign is the tier selected for a group in design mode. Tier is empty
// when no frame of the group passed at any tier.
type GroupDesign struct {
	GroupName      string
	ConnectionType string
	Tier           string
}

// Label is the "<connection type> <tier>" text used in summaries.
func (d GroupDesign) Label() string {
	if d.Tier == "" {
		return Placeholder
	}
	return d.ConnectionType + " " + d.Tier
}

// Serialize renders the design summary row.
func (d GroupDesign) Serialize() Record {
	return Record{
		{"group_name", d.GroupName},
		{"con_type", d.Label()},
	}
}

// GroupCompliance lists the frames of a group that failed at every tier.
type GroupCompliance struct {
	GroupName    string
	NonCompliant []int
}

// Complies reports whether every frame found an adequate tier.
func (c GroupCompliance) Complies() bool {
	return len(c.NonCompliant) == 0
}

// Status is "Complies" or "Not Complies".
func (c GroupCompliance) Status() string {
	if c.Complies() {
		return "Complies"
	}
	return "Not Complies"
}

// Serialize renders the compliance summary row; an empty member list
// becomes Placeholder.
func (c GroupCompliance) Serialize() Record {
	var members any = Placeholder
	if !c.Complies() {
		members = append([]int(nil), c.NonCompliant...)
	}
	return Record{
		{"group_name", c.GroupName},
		{"compliance", c.Status()},
		{"non_comp_member", members},
	}
}

// Result is the complete output of one evaluation call.
type Result struct {
	Mode      Mode
	LoadCombo string
	Items     []OutputItem

	// Design mode only, in group order.
	Designs    []GroupDesign
	Compliance []GroupCompliance
}

// Passed counts items whose check is compliant.
func (r *Result) Passed() int {
	n := 0
	for _, it := range r.Items {
		if it.Check.Compliant() {
			n++
		}
	}
	return n
}

// Item returns the item for a frame.
func (r *Result) Item(frameID int) (OutputItem, bool) {
	for _, it := range r.Items {
		if it.FrameID == frameID {
			return it, true
		}
	}
	return OutputItem{}, false
}

// Document is the serialised form handed to renderers.
type Document struct {
	Mode      string   `json:"mode"`
	LoadCombo string   `json:"load_combo"`
	Table     []Record `json:"table"`
	Designs   []Record `json:"con_summary,omitempty"`
	Summary   []Record `json:"comp_summary,omitempty"`
}

// Serialize renders every record of the result.
func (r *Result) Serialize() Document {
	doc := Document{
		Mode:      r.Mode.String(),
		LoadCombo: r.LoadCombo,
		Table:     make([]Record, 0, len(r.Items)),
	}
	if doc.LoadCombo == "" {
		doc.LoadCombo = Placeholder
	}
	for _, it := range r.Items {
		doc.Table = append(doc.Table, it.Serialize())
	}
	for _, d := range r.Designs {
		doc.Designs = append(doc.Designs, d.Serialize())
	}
	for _, c := range r.Compliance {
		doc.Summary = append(doc.Summary, c.Serialize())
	}
	return doc
}

// Builder accumulates one evaluation's records. A Builder belongs to a
// single call and is discarded once Result is taken.
type Builder struct {
	result     Result
	groupOrder []string
	designs    map[string]*GroupDesign
	failures   map[string][]int
}

// NewBuilder starts a result for the given mode and load combination.
func NewBuilder(mode Mode, loadCombo string) *Builder {
	return &Builder{
		result:   Result{Mode: mode, LoadCombo: loadCombo},
		designs:  make(map[string]*GroupDesign),
		failures: make(map[string][]int),
	}
}

// Add appends a frame's item.
func (b *Builder) Add(it OutputItem) {
	b.result.Items = append(b.result.Items, it)
}

// StartGroup registers a group for the design summaries. Groups appear in
// the order they are started.
func (b *Builder) StartGroup(group, connType string) {
	if _, ok := b.designs[group]; ok {
		return
	}
	b.groupOrder = append(b.groupOrder, group)
	b.designs[group] = &GroupDesign{GroupName: group, ConnectionType: connType}
}

// SetTier records the tier chosen for a frame of the group. The last call
// for a group wins.
func (b *Builder) SetTier(group, tier string) {
	if d, ok := b.designs[group]; ok {
		d.Tier = tier
	}
}

// MarkNonCompliant records a frame that failed at every tier.
func (b *Builder) MarkNonCompliant(group string, frameID int) {
	b.failures[group] = append(b.failures[group], frameID)
}

// Result returns the accumulated result.
func (b *Builder) Result() *Result {
	res := b.result
	res.Items = append([]OutputItem(nil), b.result.Items...)
	if res.Mode == ModeDesign {
		for _, g := range b.groupOrder {
			res.Designs = append(res.Designs, *b.designs[g])
			res.Compliance = append(res.Compliance, GroupCompliance{
				GroupName:    g,
				NonCompliant: append([]int(nil), b.failures[g]...),
			})
		}
	}
	return &res
}
