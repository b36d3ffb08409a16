package capacity

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Library is the immutable connection-type → section → tier → Record table.
type Library struct {
	tables map[ConnectionType]map[string]map[string]Record
}

// New builds a library from nested tables. The input maps are copied.
func New(tables map[ConnectionType]map[string]map[string]Record) *Library {
	lib := &Library{tables: make(map[ConnectionType]map[string]map[string]Record, len(tables))}
	for t, sections := range tables {
		lib.tables[t] = copySections(sections)
	}
	return lib
}

func copySections(in map[string]map[string]Record) map[string]map[string]Record {
	out := make(map[string]map[string]Record, len(in))
	for section, tiers := range in {
		row := make(map[string]Record, len(tiers))
		for tier, rec := range tiers {
			row[tier] = rec
		}
		out[section] = row
	}
	return out
}

// Lookup returns the record for (type, section, tier).
func (l *Library) Lookup(t ConnectionType, section, tier string) (Record, bool) {
	if l == nil {
		return Record{}, false
	}
	rec, ok := l.tables[t][section][tier]
	return rec, ok
}

// HasSection reports whether the connection type has any row for the section.
func (l *Library) HasSection(t ConnectionType, section string) bool {
	if l == nil {
		return false
	}
	_, ok := l.tables[t][section]
	return ok
}

// Sections lists the section names of a connection type, sorted.
func (l *Library) Sections(t ConnectionType) []string {
	names := make([]string, 0, len(l.tables[t]))
	for name := range l.tables[t] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tiers lists the tiers stored for a section, standard tiers first in
// weakest-to-strongest order, then any others sorted by name.
func (l *Library) Tiers(t ConnectionType, section string) []string {
	row := l.tables[t][section]
	var tiers []string
	seen := make(map[string]bool)
	for _, tier := range defaultTiers[t] {
		if _, ok := row[tier]; ok {
			tiers = append(tiers, tier)
			seen[tier] = true
		}
	}
	var rest []string
	for tier := range row {
		if !seen[tier] {
			rest = append(rest, tier)
		}
	}
	sort.Strings(rest)
	return append(tiers, rest...)
}

// Size returns the number of records per connection type.
func (l *Library) Size(t ConnectionType) int {
	n := 0
	for _, row := range l.tables[t] {
		n += len(row)
	}
	return n
}

// Legacy file names used by the three-file library layout.
var legacyFiles = map[ConnectionType]string{
	MomentEndPlate: "mep_capacities.json",
	WebCleat:       "web_cope_capacities.json",
	BasePlate:      "bp_capacities.json",
}

// LoadFromFile reads a single JSON document keyed by connection type name:
//
//	{"Moment End Plate": {"UB 310x40": {"70%/35%": {"Shear": 120, ...}}}, ...}
func LoadFromFile(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a single-document library.
func Parse(data []byte) (*Library, error) {
	var raw map[string]map[string]map[string]Record
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode capacity library: %w", err)
	}
	tables := make(map[ConnectionType]map[string]map[string]Record, len(raw))
	for name, sections := range raw {
		t, err := ParseConnectionType(name)
		if err != nil {
			return nil, err
		}
		if _, dup := tables[t]; dup {
			return nil, fmt.Errorf("connection type %q defined twice", t)
		}
		tables[t] = sections
	}
	if err := validateTables(tables); err != nil {
		return nil, err
	}
	return &Library{tables: tables}, nil
}

// LoadDir reads the three-file layout (mep_capacities.json,
// web_cope_capacities.json, bp_capacities.json). Missing files leave that
// connection type empty.
func LoadDir(dir string) (*Library, error) {
	tables := make(map[ConnectionType]map[string]map[string]Record)
	found := 0
	for _, t := range ConnectionTypes {
		data, err := os.ReadFile(filepath.Join(dir, legacyFiles[t]))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		var sections map[string]map[string]Record
		if err := json.Unmarshal(data, &sections); err != nil {
			return nil, fmt.Errorf("decode %s: %w", legacyFiles[t], err)
		}
		tables[t] = sections
		found++
	}
	if found == 0 {
		return nil, fmt.Errorf("no capacity files found in %s", dir)
	}
	if err := validateTables(tables); err != nil {
		return nil, err
	}
	return &Library{tables: tables}, nil
}

// validateTables rejects non-positive capacities.
func validateTables(tables map[ConnectionType]map[string]map[string]Record) error {
	for t, sections := range tables {
		for section, tiers := range sections {
			for tier, rec := range tiers {
				for name, v := range map[string]*float64{
					"Shear":        rec.Shear,
					"Axial":        rec.Axial,
					"MomentTop":    rec.MomentTop,
					"MomentBottom": rec.MomentBottom,
				} {
					if v != nil && *v <= 0 {
						return fmt.Errorf("%s %q tier %q: %s must be positive, got %g", t, section, tier, name, *v)
					}
				}
			}
		}
	}
	return nil
}

// Load reads a library from a file or a legacy three-file directory.
func Load(path string) (*Library, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return LoadDir(path)
	}
	return LoadFromFile(path)
}
