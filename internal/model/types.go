package model

import "fmt"

// Model is a parsed snapshot of a structural analysis export.
//
// Nodes and frames are keyed by id; everything whose order affects an
// evaluation (groups, sections, load combinations) is held in slices so the
// input order survives.
type Model struct {
	Nodes        map[int]Node  `json:"-"`
	Frames       map[int]Frame `json:"-"`
	Groups       []Group       `json:"groups"`
	Sections     []Section     `json:"sections"`
	Combinations []Combination `json:"load_combinations"`
}

// Node is a point in global coordinates (mm).
type Node struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z"`
}

// Frame is a member between two nodes, referenced by node id.
type Frame struct {
	ID    int `json:"id"`
	NodeI int `json:"nodeI"`
	NodeJ int `json:"nodeJ"`
}

// Group is a named set of frames sharing a connection assignment.
type Group struct {
	Name     string `json:"name"`
	FrameIDs []int  `json:"frame_ids"`
}

// Section is a cross-section profile and the frames it is assigned to.
type Section struct {
	Name     string `json:"name"`
	FrameIDs []int  `json:"frame_ids"`
}

// LoadCase holds the six force/moment components at a frame end (kN, kN·m).
type LoadCase struct {
	F1 float64 `json:"F1"`
	F2 float64 `json:"F2"`
	F3 float64 `json:"F3"`
	M1 float64 `json:"M1"`
	M2 float64 `json:"M2"`
	M3 float64 `json:"M3"`
}

// NodeLoads is the ordered case list reported at one node of a frame.
type NodeLoads struct {
	NodeID int        `json:"node_id"`
	Cases  []LoadCase `json:"cases"`
}

// FrameLoads is the ordered per-node load list of one frame.
type FrameLoads struct {
	FrameID int         `json:"frame_id"`
	Nodes   []NodeLoads `json:"nodes"`
}

// Combination is a named load combination exported from the analysis.
type Combination struct {
	Name   string       `json:"name"`
	Frames []FrameLoads `json:"frames"`
}

// New returns an empty model ready to be filled by a loader.
func New() *Model {
	return &Model{
		Nodes:  make(map[int]Node),
		Frames: make(map[int]Frame),
	}
}

// Node returns the node with the given id.
func (m *Model) Node(id int) (Node, error) {
	n, ok := m.Nodes[id]
	if !ok {
		return Node{}, &LookupError{Kind: "node", ID: id}
	}
	return n, nil
}

// Frame returns the frame with the given id.
func (m *Model) Frame(id int) (Frame, error) {
	f, ok := m.Frames[id]
	if !ok {
		return Frame{}, &LookupError{Kind: "frame", ID: id}
	}
	return f, nil
}

// Group returns the group with the given name.
func (m *Model) Group(name string) (Group, bool) {
	for _, g := range m.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return Group{}, false
}

// SectionOf returns the name of the first section listing the frame.
func (m *Model) SectionOf(frameID int) (string, bool) {
	for _, s := range m.Sections {
		for _, id := range s.FrameIDs {
			if id == frameID {
				return s.Name, true
			}
		}
	}
	return "", false
}

// Combination returns the named load combination.
func (m *Model) Combination(name string) (*Combination, error) {
	for i := range m.Combinations {
		if m.Combinations[i].Name == name {
			return &m.Combinations[i], nil
		}
	}
	return nil, &LookupError{Kind: "load combination", Name: name}
}

// CombinationNames lists the load combinations in export order.
func (m *Model) CombinationNames() []string {
	names := make([]string, 0, len(m.Combinations))
	for _, c := range m.Combinations {
		names = append(names, c.Name)
	}
	return names
}

// Loads returns the frame's load entry, or nil when the combination has none.
func (c *Combination) Loads(frameID int) *FrameLoads {
	for i := range c.Frames {
		if c.Frames[i].FrameID == frameID {
			return &c.Frames[i]
		}
	}
	return nil
}

// CaseCount is the total number of cases over all nodes.
func (fl *FrameLoads) CaseCount() int {
	if fl == nil {
		return 0
	}
	n := 0
	for _, nl := range fl.Nodes {
		n += len(nl.Cases)
	}
	return n
}

// LookupError reports a reference to an id or name absent from the model.
type LookupError struct {
	Kind    string // "node", "frame", "load combination", ...
	ID      int
	Name    string
	Context string
}

func (e *LookupError) Error() string {
	key := fmt.Sprintf("%d", e.ID)
	if e.Name != "" {
		key = fmt.Sprintf("%q", e.Name)
	}
	if e.Context != "" {
		return fmt.Sprintf("%s %s not found (%s)", e.Kind, key, e.Context)
	}
	return fmt.Sprintf("%s %s not found", e.Kind, key)
}
