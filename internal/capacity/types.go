package capacity

import (
	"errors"
	"fmt"
	"strings"
)

// ConnectionType is the detailing category of a joint.
type ConnectionType int

const (
	MomentEndPlate ConnectionType = iota + 1
	WebCleat
	BasePlate
)

// ConnectionTypes lists every connection type in display order.
var ConnectionTypes = []ConnectionType{MomentEndPlate, WebCleat, BasePlate}

func (t ConnectionType) String() string {
	switch t {
	case MomentEndPlate:
		return "Moment End Plate"
	case WebCleat:
		return "Web Cleat"
	case BasePlate:
		return "Base Plate"
	}
	return fmt.Sprintf("ConnectionType(%d)", int(t))
}

// aliases maps lower-cased names found in libraries and older run files.
var aliases = map[string]ConnectionType{
	"moment end plate": MomentEndPlate,
	"moment-enplate":   MomentEndPlate,
	"moment-endplate":  MomentEndPlate,
	"mep":              MomentEndPlate,
	"web cleat":        WebCleat,
	"web cope":         WebCleat,
	"shear-tab":        WebCleat,
	"shear tab":        WebCleat,
	"wc":               WebCleat,
	"base plate":       BasePlate,
	"fixed-baseplate":  BasePlate,
	"bp":               BasePlate,
}

// ParseConnectionType resolves a display name or legacy alias.
func ParseConnectionType(s string) (ConnectionType, error) {
	if t, ok := aliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("unknown connection type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t ConnectionType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ConnectionType) UnmarshalText(b []byte) error {
	parsed, err := ParseConnectionType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ErrMissingCapacity is returned when a (section, tier) row is absent or
// lacks a field the check needs.
var ErrMissingCapacity = errors.New("capacity entry not found")

// Record is one row of the library. Which fields are set depends on the
// connection type.
type Record struct {
	Shear        *float64 `json:"Shear,omitempty"`        // kN
	Axial        *float64 `json:"Axial,omitempty"`        // kN
	MomentTop    *float64 `json:"MomentTop,omitempty"`    // kN·m, hogging side
	MomentBottom *float64 `json:"MomentBottom,omitempty"` // kN·m, sagging side
}

// Value returns a pointer to v, for building records in code.
func Value(v float64) *float64 {
	return &v
}

// Tier orders from weakest to strongest for the design search.
var defaultTiers = map[ConnectionType][]string{
	MomentEndPlate: {"70%/35%", "100%/50%"},
	WebCleat:       {"30%", "40%"},
	BasePlate:      {"15%", "30%", "50%", "80%"},
}

// DefaultTiers returns a copy of the standard tier order for a connection
// type.
func DefaultTiers(t ConnectionType) []string {
	return append([]string(nil), defaultTiers[t]...)
}
