// Package etabs imports a structural model from an ETABS analysis results
// workbook (xlsx).
//
// Five tables are read: joint coordinates, group assignments, frame
// connectivity, frame section assignments and element joint forces. Each
// output case of the force table becomes one load combination. Rows whose
// identifiers are not numeric (unit rows, "Global" summary rows) are
// skipped.
package etabs

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/alexiusacademia/goconn/internal/model"
)

// Sheet names of the export.
const (
	SheetJoints   = "Objects and Elements - Joints"
	SheetGroups   = "Group Assignments"
	SheetFrames   = "Objects and Elements - Frames"
	SheetSections = "Frame Assigns - Summary"
	SheetForces   = "Element Joint Forces - Frames"
)

// Older exports name the force table in the singular.
var forceSheetNames = []string{SheetForces, "Element Joint Forces - Frame"}

var forceColumns = []string{"F1", "F2", "F3", "M1", "M2", "M3"}

// LoadWorkbook reads a model from an xlsx file.
func LoadWorkbook(path string) (*model.Model, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	return fromWorkbook(f)
}

// Load reads a model from an xlsx stream.
func Load(r io.Reader) (*model.Model, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	return fromWorkbook(f)
}

// ListCombinations returns the output case names of the force table in the
// order they first appear.
func ListCombinations(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	s, err := forceSheet(f)
	if err != nil {
		return nil, err
	}
	var names []string
	seen := make(map[string]bool)
	for _, row := range s.rows {
		name := s.text(row, "Output Case")
		if _, ok := s.id(row, "Joint"); !ok || name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names, nil
}

func fromWorkbook(f *excelize.File) (*model.Model, error) {
	m := model.New()

	steps := []func(*excelize.File, *model.Model) error{
		readJoints,
		readFrames,
		readGroups,
		readSections,
		readForces,
	}
	for _, step := range steps {
		if err := step(f, m); err != nil {
			return nil, err
		}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func readJoints(f *excelize.File, m *model.Model) error {
	s, err := readSheet(f, SheetJoints, "Object Name", "Global X", "Global Y", "Global Z")
	if err != nil {
		return err
	}
	for _, row := range s.rows {
		id, ok := s.id(row, "Object Name")
		if !ok {
			continue
		}
		x, okX := s.number(row, "Global X")
		y, okY := s.number(row, "Global Y")
		z, okZ := s.number(row, "Global Z")
		if !okX || !okY || !okZ {
			continue
		}
		if _, dup := m.Nodes[id]; dup {
			return fmt.Errorf("sheet %q: duplicate joint %d", s.name, id)
		}
		m.Nodes[id] = model.Node{ID: id, X: x, Y: y, Z: z}
	}
	return nil
}

func readFrames(f *excelize.File, m *model.Model) error {
	s, err := readSheet(f, SheetFrames, "Element Name", "Elm JtI", "Elm JtJ")
	if err != nil {
		return err
	}
	for _, row := range s.rows {
		id, ok := s.id(row, "Element Name")
		if !ok {
			continue
		}
		ni, okI := s.id(row, "Elm JtI")
		nj, okJ := s.id(row, "Elm JtJ")
		if !okI || !okJ {
			continue
		}
		if _, dup := m.Frames[id]; dup {
			return fmt.Errorf("sheet %q: duplicate frame %d", s.name, id)
		}
		m.Frames[id] = model.Frame{ID: id, NodeI: ni, NodeJ: nj}
	}
	return nil
}

func readGroups(f *excelize.File, m *model.Model) error {
	s, err := readSheet(f, SheetGroups, "Group Name", "Object Unique Name")
	if err != nil {
		return err
	}
	filterType := s.has("Object Type")
	index := make(map[string]int)
	for _, row := range s.rows {
		name := s.text(row, "Group Name")
		id, ok := s.id(row, "Object Unique Name")
		if name == "" || !ok {
			continue
		}
		if filterType && s.text(row, "Object Type") != "Frame" {
			continue
		}
		i, ok := index[name]
		if !ok {
			i = len(m.Groups)
			index[name] = i
			m.Groups = append(m.Groups, model.Group{Name: name})
		}
		m.Groups[i].FrameIDs = append(m.Groups[i].FrameIDs, id)
	}
	return nil
}

func readSections(f *excelize.File, m *model.Model) error {
	s, err := readSheet(f, SheetSections, "Design Section", "UniqueName")
	if err != nil {
		return err
	}
	index := make(map[string]int)
	for _, row := range s.rows {
		name := s.text(row, "Design Section")
		id, ok := s.id(row, "UniqueName")
		if name == "" || !ok {
			continue
		}
		i, ok := index[name]
		if !ok {
			i = len(m.Sections)
			index[name] = i
			m.Sections = append(m.Sections, model.Section{Name: name})
		}
		m.Sections[i].FrameIDs = append(m.Sections[i].FrameIDs, id)
	}
	return nil
}

func forceSheet(f *excelize.File) (*sheet, error) {
	var last error
	for _, name := range forceSheetNames {
		if idx, _ := f.GetSheetIndex(name); idx < 0 {
			continue
		}
		s, err := readSheet(f, name, append([]string{"Joint", "Output Case"}, forceColumns...)...)
		if err != nil {
			last = err
			continue
		}
		if !s.has("UniqueName") && !s.has("Frame") {
			return nil, fmt.Errorf("sheet %q: %w: UniqueName or Frame", name, ErrMissingColumns)
		}
		return s, nil
	}
	if last != nil {
		return nil, last
	}
	return nil, fmt.Errorf("sheet %q not found", SheetForces)
}

func readForces(f *excelize.File, m *model.Model) error {
	s, err := forceSheet(f)
	if err != nil {
		return err
	}
	frameCol := "UniqueName"
	if !s.has(frameCol) {
		frameCol = "Frame"
	}

	type frameKey struct {
		combo string
		frame int
	}
	type nodeKey struct {
		frameKey
		node int
	}
	combos := make(map[string]int)
	frames := make(map[frameKey]int)
	nodes := make(map[nodeKey]int)

	for i, row := range s.rows {
		frameID, okF := s.id(row, frameCol)
		nodeID, okN := s.id(row, "Joint")
		name := s.text(row, "Output Case")
		if !okF || !okN || name == "" {
			continue
		}

		var vals [6]float64
		for k, col := range forceColumns {
			v, ok := s.number(row, col)
			if !ok {
				return fmt.Errorf("sheet %q row %d: %s is not a number", s.name, i+1, col)
			}
			vals[k] = v
		}

		ci, ok := combos[name]
		if !ok {
			ci = len(m.Combinations)
			combos[name] = ci
			m.Combinations = append(m.Combinations, model.Combination{Name: name})
		}
		combo := &m.Combinations[ci]

		fk := frameKey{name, frameID}
		fi, ok := frames[fk]
		if !ok {
			fi = len(combo.Frames)
			frames[fk] = fi
			combo.Frames = append(combo.Frames, model.FrameLoads{FrameID: frameID})
		}
		fl := &combo.Frames[fi]

		nk := nodeKey{fk, nodeID}
		ni, ok := nodes[nk]
		if !ok {
			ni = len(fl.Nodes)
			nodes[nk] = ni
			fl.Nodes = append(fl.Nodes, model.NodeLoads{NodeID: nodeID})
		}
		fl.Nodes[ni].Cases = append(fl.Nodes[ni].Cases, model.LoadCase{
			F1: vals[0], F2: vals[1], F3: vals[2],
			M1: vals[3], M2: vals[4], M3: vals[5],
		})
	}
	return nil
}
