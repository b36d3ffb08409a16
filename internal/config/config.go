// Package config reads the YAML run file that declares which connection
// each group gets and how the run is evaluated.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/alexiusacademia/goconn/internal/capacity"
	"github.com/alexiusacademia/goconn/internal/engine"
	"github.com/alexiusacademia/goconn/internal/nscp"
	"github.com/alexiusacademia/goconn/internal/report"
)

var validate = validator.New()

// RunFile is the run configuration.
type RunFile struct {
	Mode            string `yaml:"mode" validate:"required,oneof=check design"`
	LoadCombination string `yaml:"load_combination" validate:"required_without=NSCP"`
	Project         string `yaml:"project"`
	Author          string `yaml:"author"`
	Model           string `yaml:"model"`
	Library         string `yaml:"library"`

	Assignments []Assignment `yaml:"assignments" validate:"required,min=1,dive"`

	// Tiers overrides the weakest-to-strongest tier order, keyed by
	// connection type name.
	Tiers map[string][]string `yaml:"tiers" validate:"omitempty,dive,min=1,dive,required"`

	NSCP *NSCPRun `yaml:"nscp" validate:"omitempty"`
}

// Assignment declares the connection of one group.
type Assignment struct {
	Group      string `yaml:"group" validate:"required"`
	Connection string `yaml:"connection" validate:"required"`
	Color      string `yaml:"color" validate:"omitempty,hexcolor"`
	Tier       string `yaml:"tier"`
}

// NSCPRun builds the evaluated combination from unfactored load patterns.
// Patterns maps load type names ("dead", "live", ...) to model combination
// names.
type NSCPRun struct {
	Combination string            `yaml:"combination" validate:"required"`
	Patterns    map[string]string `yaml:"patterns" validate:"required,min=1,dive,required"`
}

// ValidationError represents a run file validation error
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func invalid(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// LoadFromFile reads and validates a YAML run file.
func LoadFromFile(path string) (*RunFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML run file.
func Parse(data []byte) (*RunFile, error) {
	var rf RunFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse run file: %w", err)
	}
	if err := rf.Validate(); err != nil {
		return nil, err
	}
	return &rf, nil
}

// Validate checks the run file's fields and the rules between them.
func (rf *RunFile) Validate() error {
	if err := validate.Struct(rf); err != nil {
		return formatValidationError(err)
	}

	seen := make(map[string]bool)
	for i, a := range rf.Assignments {
		if seen[a.Group] {
			return invalid("assignments[%d]: group %q is assigned more than once", i, a.Group)
		}
		seen[a.Group] = true
		if _, err := capacity.ParseConnectionType(a.Connection); err != nil {
			return invalid("assignments[%d]: %v", i, err)
		}
		if rf.Mode == report.ModeCheck.String() && a.Tier == "" {
			return invalid("assignments[%d]: group %q needs a tier in check mode", i, a.Group)
		}
	}

	for name := range rf.Tiers {
		if _, err := capacity.ParseConnectionType(name); err != nil {
			return invalid("tiers: %v", err)
		}
	}

	if rf.NSCP != nil {
		if _, err := nscp.Find(rf.NSCP.Combination); err != nil {
			return invalid("nscp: %v", err)
		}
		for name := range rf.NSCP.Patterns {
			if _, err := nscp.ParseLoadType(name); err != nil {
				return invalid("nscp.patterns: %v", err)
			}
		}
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, e := range verrs {
		field := e.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		switch e.Tag() {
		case "required", "required_without":
			return invalid("%s: field is required", field)
		case "oneof":
			return invalid("%s: must be one of [%s]", field, e.Param())
		case "min":
			return invalid("%s: must have at least %s entries", field, e.Param())
		case "hexcolor":
			return invalid("%s: %q is not a hex colour", field, e.Value())
		default:
			return invalid("%s: validation failed (%s)", field, e.Tag())
		}
	}
	return err
}

// RunMode returns the evaluation mode.
func (rf *RunFile) RunMode() report.Mode {
	if rf.Mode == report.ModeDesign.String() {
		return report.ModeDesign
	}
	return report.ModeCheck
}

// Combination is the name of the load combination to evaluate.
func (rf *RunFile) Combination() string {
	if rf.NSCP != nil {
		lc, err := nscp.Find(rf.NSCP.Combination)
		if err == nil {
			return lc.Name()
		}
	}
	return rf.LoadCombination
}

// EngineAssignments converts the assignments, in file order.
func (rf *RunFile) EngineAssignments() ([]engine.Assignment, error) {
	out := make([]engine.Assignment, 0, len(rf.Assignments))
	for _, a := range rf.Assignments {
		t, err := capacity.ParseConnectionType(a.Connection)
		if err != nil {
			return nil, err
		}
		c := color.RGBA{A: 255}
		if a.Color != "" {
			if c, err = ParseHexColor(a.Color); err != nil {
				return nil, fmt.Errorf("group %q: %w", a.Group, err)
			}
		}
		out = append(out, engine.Assignment{Group: a.Group, Connection: t, Color: c, Tier: a.Tier})
	}
	return out, nil
}

// TierOrder converts the tier overrides.
func (rf *RunFile) TierOrder() (map[capacity.ConnectionType][]string, error) {
	if len(rf.Tiers) == 0 {
		return nil, nil
	}
	out := make(map[capacity.ConnectionType][]string, len(rf.Tiers))
	for name, tiers := range rf.Tiers {
		t, err := capacity.ParseConnectionType(name)
		if err != nil {
			return nil, err
		}
		out[t] = append([]string(nil), tiers...)
	}
	return out, nil
}

// Patterns returns the NSCP combination and the load pattern mapping, or
// ok=false when the run evaluates a model combination directly.
func (rf *RunFile) Patterns() (lc nscp.LoadCombination, patterns map[nscp.LoadType]string, ok bool, err error) {
	if rf.NSCP == nil {
		return nscp.LoadCombination{}, nil, false, nil
	}
	lc, err = nscp.Find(rf.NSCP.Combination)
	if err != nil {
		return nscp.LoadCombination{}, nil, false, err
	}
	patterns = make(map[nscp.LoadType]string, len(rf.NSCP.Patterns))
	for name, combo := range rf.NSCP.Patterns {
		t, err := nscp.ParseLoadType(name)
		if err != nil {
			return nscp.LoadCombination{}, nil, false, err
		}
		patterns[t] = combo
	}
	return lc, patterns, true, nil
}

// ParseHexColor parses "#rgb", "#rgba", "#rrggbb" or "#rrggbbaa".
func ParseHexColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 || len(h) == 4 {
		var sb strings.Builder
		for _, r := range h {
			sb.WriteRune(r)
			sb.WriteRune(r)
		}
		h = sb.String()
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 || !strings.HasPrefix(s, "#") {
		return color.RGBA{}, fmt.Errorf("invalid hex colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex colour %q", s)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
