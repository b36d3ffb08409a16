package model

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"
)

// snapshot is the on-disk JSON layout. Nodes and frames are arrays there and
// become id-keyed maps once loaded.
type snapshot struct {
	Nodes        []Node        `json:"nodes"`
	Frames       []Frame       `json:"frames"`
	Groups       []Group       `json:"groups"`
	Sections     []Section     `json:"sections"`
	Combinations []Combination `json:"load_combinations"`
}

// LoadFromFile loads a model snapshot from a JSON file and validates it.
func LoadFromFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a JSON model snapshot and validates it.
func Parse(data []byte) (*Model, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}

	m := New()
	for _, n := range snap.Nodes {
		if _, dup := m.Nodes[n.ID]; dup {
			return nil, fmt.Errorf("duplicate node id %d", n.ID)
		}
		m.Nodes[n.ID] = n
	}
	for _, f := range snap.Frames {
		if _, dup := m.Frames[f.ID]; dup {
			return nil, fmt.Errorf("duplicate frame id %d", f.ID)
		}
		m.Frames[f.ID] = f
	}
	m.Groups = snap.Groups
	m.Sections = snap.Sections
	m.Combinations = snap.Combinations

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// MarshalJSON writes the model in the snapshot layout, nodes and frames
// sorted by id.
func (m *Model) MarshalJSON() ([]byte, error) {
	snap := snapshot{
		Nodes:        make([]Node, 0, len(m.Nodes)),
		Frames:       make([]Frame, 0, len(m.Frames)),
		Groups:       m.Groups,
		Sections:     m.Sections,
		Combinations: m.Combinations,
	}
	for _, id := range sortedKeys(m.Nodes) {
		snap.Nodes = append(snap.Nodes, m.Nodes[id])
	}
	for _, id := range sortedKeys(m.Frames) {
		snap.Frames = append(snap.Frames, m.Frames[id])
	}
	return json.Marshal(snap)
}

// Validate checks that every id referenced by frames, groups, sections and
// load combinations exists in the model.
func (m *Model) Validate() error {
	for _, id := range sortedKeys(m.Frames) {
		f := m.Frames[id]
		for _, nid := range []int{f.NodeI, f.NodeJ} {
			if _, ok := m.Nodes[nid]; !ok {
				return &LookupError{Kind: "node", ID: nid, Context: fmt.Sprintf("end of frame %d", f.ID)}
			}
		}
	}
	for _, g := range m.Groups {
		for _, fid := range g.FrameIDs {
			if _, ok := m.Frames[fid]; !ok {
				return &LookupError{Kind: "frame", ID: fid, Context: fmt.Sprintf("group %q", g.Name)}
			}
		}
	}
	for _, s := range m.Sections {
		for _, fid := range s.FrameIDs {
			if _, ok := m.Frames[fid]; !ok {
				return &LookupError{Kind: "frame", ID: fid, Context: fmt.Sprintf("section %q", s.Name)}
			}
		}
	}
	for _, c := range m.Combinations {
		if err := m.ValidateCombination(&c); err != nil {
			return err
		}
	}
	return nil
}

// ValidateCombination checks the frame and node ids referenced by one load
// combination.
func (m *Model) ValidateCombination(c *Combination) error {
	for _, fl := range c.Frames {
		if _, ok := m.Frames[fl.FrameID]; !ok {
			return &LookupError{Kind: "frame", ID: fl.FrameID, Context: fmt.Sprintf("load combination %q", c.Name)}
		}
		for _, nl := range fl.Nodes {
			if _, ok := m.Nodes[nl.NodeID]; !ok {
				return &LookupError{
					Kind:    "node",
					ID:      nl.NodeID,
					Context: fmt.Sprintf("load combination %q, frame %d", c.Name, fl.FrameID),
				}
			}
		}
	}
	return nil
}

func sortedKeys[V any](m map[int]V) []int {
	return slices.Sorted(maps.Keys(m))
}
