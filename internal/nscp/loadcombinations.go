package nscp

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/goconn/internal/model"
)

// LoadType is an unfactored load pattern category.
type LoadType int

const (
	Dead       LoadType = iota // D
	Live                       // L
	Roof                       // Lr
	Wind                       // W
	Earthquake                 // E
	Rain                       // R
)

// LoadTypes lists every load type in factor-table order.
var LoadTypes = []LoadType{Dead, Live, Roof, Wind, Earthquake, Rain}

func (t LoadType) String() string {
	switch t {
	case Dead:
		return "dead"
	case Live:
		return "live"
	case Roof:
		return "roof"
	case Wind:
		return "wind"
	case Earthquake:
		return "earthquake"
	case Rain:
		return "rain"
	}
	return fmt.Sprintf("LoadType(%d)", int(t))
}

// ParseLoadType accepts the names used in run files.
func ParseLoadType(s string) (LoadType, error) {
	for _, t := range LoadTypes {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown load type %q", s)
}

// LoadCombination represents an NSCP load combination
// Based on NSCP 2015 Section 203.3 - Load Combinations Using Strength Design
type LoadCombination struct {
	ID          string
	Description string
	// Load factors for each load type
	Dead       float64 // D - Dead load
	Live       float64 // L - Live load
	Roof       float64 // Lr - Roof live load
	Wind       float64 // W - Wind load
	Earthquake float64 // E - Earthquake load
	Rain       float64 // R - Rain load
}

// NSCP 2015 Section 203.3.1 - Basic Load Combinations
var LoadCombinations = []LoadCombination{
	{ID: "1", Description: "1.4D", Dead: 1.4},
	{ID: "2", Description: "1.2D + 1.6L + 0.5(Lr or R)", Dead: 1.2, Live: 1.6, Roof: 0.5, Rain: 0.5},
	{ID: "3", Description: "1.2D + 1.6(Lr or R) + (1.0L or 0.5W)", Dead: 1.2, Live: 1.0, Roof: 1.6, Rain: 1.6, Wind: 0.5},
	{ID: "4", Description: "1.2D + 1.0W + 1.0L + 0.5(Lr or R)", Dead: 1.2, Live: 1.0, Wind: 1.0, Roof: 0.5, Rain: 0.5},
	{ID: "5", Description: "1.2D + 1.0E + 1.0L", Dead: 1.2, Live: 1.0, Earthquake: 1.0},
	{ID: "6", Description: "0.9D + 1.0W", Dead: 0.9, Wind: 1.0},
	{ID: "7", Description: "0.9D + 1.0E", Dead: 0.9, Earthquake: 1.0},
}

// Find returns the basic combination with the given ID.
func Find(id string) (LoadCombination, error) {
	for _, lc := range LoadCombinations {
		if lc.ID == id {
			return lc, nil
		}
	}
	return LoadCombination{}, fmt.Errorf("unknown NSCP load combination %q", id)
}

// Name is the model combination name produced by Combine.
func (lc LoadCombination) Name() string {
	return "NSCP-" + lc.ID
}

// Factor returns the load factor applied to a load type.
func (lc LoadCombination) Factor(t LoadType) float64 {
	switch t {
	case Dead:
		return lc.Dead
	case Live:
		return lc.Live
	case Roof:
		return lc.Roof
	case Wind:
		return lc.Wind
	case Earthquake:
		return lc.Earthquake
	case Rain:
		return lc.Rain
	}
	return 0
}

// Combine superposes the unfactored pattern combinations of the model with
// the factors of lc. patterns maps each load type to the name of the model
// combination holding that pattern's results; unmapped types contribute
// nothing.
//
// Cases are matched by position within each node's list. A pattern with
// fewer cases at a node contributes zero to the extra positions. Frames and
// nodes keep the order in which they first appear.
func Combine(m *model.Model, lc LoadCombination, patterns map[LoadType]string) (model.Combination, error) {
	out := model.Combination{Name: lc.Name()}
	frameIdx := make(map[int]int)
	nodeIdx := make(map[[2]int]int)
	used := 0

	for _, t := range LoadTypes {
		factor := lc.Factor(t)
		name, ok := patterns[t]
		if !ok || factor == 0 {
			continue
		}
		src, err := m.Combination(name)
		if err != nil {
			return model.Combination{}, fmt.Errorf("%s pattern: %w", t, err)
		}
		used++

		for _, fl := range src.Frames {
			fi, ok := frameIdx[fl.FrameID]
			if !ok {
				fi = len(out.Frames)
				frameIdx[fl.FrameID] = fi
				out.Frames = append(out.Frames, model.FrameLoads{FrameID: fl.FrameID})
			}
			for _, nl := range fl.Nodes {
				key := [2]int{fl.FrameID, nl.NodeID}
				ni, ok := nodeIdx[key]
				if !ok {
					ni = len(out.Frames[fi].Nodes)
					nodeIdx[key] = ni
					out.Frames[fi].Nodes = append(out.Frames[fi].Nodes, model.NodeLoads{NodeID: nl.NodeID})
				}
				dst := &out.Frames[fi].Nodes[ni]
				for i, c := range nl.Cases {
					if i >= len(dst.Cases) {
						dst.Cases = append(dst.Cases, model.LoadCase{})
					}
					addScaled(&dst.Cases[i], c, factor)
				}
			}
		}
	}

	if used == 0 {
		return model.Combination{}, fmt.Errorf("combination %s: no mapped load pattern has a non-zero factor", lc.ID)
	}
	return out, nil
}

func addScaled(dst *model.LoadCase, c model.LoadCase, factor float64) {
	dst.F1 += factor * c.F1
	dst.F2 += factor * c.F2
	dst.F3 += factor * c.F3
	dst.M1 += factor * c.M1
	dst.M2 += factor * c.M2
	dst.M3 += factor * c.M3
}

// AddCombination builds the factored combination and appends it to the
// model, replacing any previous combination of the same name.
func AddCombination(m *model.Model, lc LoadCombination, patterns map[LoadType]string) (string, error) {
	combo, err := Combine(m, lc, patterns)
	if err != nil {
		return "", err
	}
	for i := range m.Combinations {
		if m.Combinations[i].Name == combo.Name {
			m.Combinations[i] = combo
			return combo.Name, nil
		}
	}
	m.Combinations = append(m.Combinations, combo)
	return combo.Name, nil
}

// Apply returns the factored sum of unfactored values per load type.
func (lc LoadCombination) Apply(values map[LoadType]float64) float64 {
	var sum float64
	for _, t := range LoadTypes {
		sum += lc.Factor(t) * values[t]
	}
	return sum
}

// Governing returns the combination with the largest factored magnitude
// and that factored value. Ties keep the earlier combination.
func Governing(values map[LoadType]float64, combos []LoadCombination) (float64, LoadCombination) {
	var best float64
	var gov LoadCombination
	for i, lc := range combos {
		v := lc.Apply(values)
		if i == 0 || math.Abs(v) > math.Abs(best) {
			best, gov = v, lc
		}
	}
	return best, gov
}
