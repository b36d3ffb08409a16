package etabs

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrMissingColumns is returned when no header row of a sheet carries
// every required column.
var ErrMissingColumns = errors.New("required columns not found")

// headerScan is how many leading rows are searched for the header row.
// Exports put a title row above it and a units row below it.
const headerScan = 5

// sheet is an exported ETABS table with its header row resolved.
type sheet struct {
	name string
	cols map[string]int
	rows [][]string
}

func readSheet(f *excelize.File, name string, required ...string) (*sheet, error) {
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", name, err)
	}

	for i := 0; i < len(rows) && i < headerScan; i++ {
		cols := make(map[string]int, len(rows[i]))
		for j, h := range rows[i] {
			h = strings.TrimSpace(h)
			if _, dup := cols[h]; h != "" && !dup {
				cols[h] = j
			}
		}
		if hasAll(cols, required) {
			return &sheet{name: name, cols: cols, rows: rows[i+1:]}, nil
		}
	}
	return nil, fmt.Errorf("sheet %q: %w: %s", name, ErrMissingColumns, strings.Join(required, ", "))
}

func hasAll(cols map[string]int, names []string) bool {
	for _, n := range names {
		if _, ok := cols[n]; !ok {
			return false
		}
	}
	return true
}

func (s *sheet) has(col string) bool {
	_, ok := s.cols[col]
	return ok
}

func (s *sheet) text(row []string, col string) string {
	j, ok := s.cols[col]
	if !ok || j >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[j])
}

// id parses an integer label. Labels written as "12.0" are accepted.
func (s *sheet) id(row []string, col string) (int, bool) {
	v := s.text(row, col)
	if n, err := strconv.Atoi(v); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func (s *sheet) number(row []string, col string) (float64, bool) {
	f, err := strconv.ParseFloat(s.text(row, col), 64)
	return f, err == nil
}
