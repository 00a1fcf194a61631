// Package record serializes particle initial states for the CFD solver.
package record

import (
	"fmt"
	"strings"
)

// Fixed particle properties written with every full record.
const (
	Diameter = 10.0e-6 // m
	Density  = 977.0   // kg/m³
)

// Header is written ahead of full-schema records when enabled.
const Header = "# location velocity \"start time\" diameter  density\n" +
	"# x y z       u v w\n"

// Schema selects the line layout. A run uses exactly one schema.
type Schema int

const (
	// Full is `x y z vx vy vz start_time diameter density id`, tab separated,
	// ids from 0.
	Full Schema = iota
	// Compact is `v, id, x, y, z`, ids from 1.
	Compact
)

func (s Schema) String() string {
	switch s {
	case Full:
		return "full"
	case Compact:
		return "compact"
	default:
		return fmt.Sprintf("schema(%d)", int(s))
	}
}

// FirstID is the identifier printed on the first record of a run.
func (s Schema) FirstID() int {
	if s == Compact {
		return 1
	}
	return 0
}

// ParseSchema accepts "full" and "compact" ("star" is kept as an alias for
// the compact layout).
func ParseSchema(name string) (Schema, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "full", "":
		return Full, nil
	case "compact", "star":
		return Compact, nil
	default:
		return 0, fmt.Errorf("unknown output schema %q (want full or compact)", name)
	}
}

func (s Schema) MarshalText() ([]byte, error) {
	if s != Full && s != Compact {
		return nil, fmt.Errorf("unknown output schema %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Schema) UnmarshalText(text []byte) error {
	parsed, err := ParseSchema(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
