// Package sampler draws particle release positions from the mouth and
// nostril source regions.
package sampler

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/san-kum/breathseed/internal/geom"
)

// ErrRejectionExhausted is returned when a nostril sampler cannot accept a
// candidate within its retry bound. It never happens for a positive radius.
var ErrRejectionExhausted = errors.New("sampler: rejection sampling did not converge")

type Region int

const (
	Mouth Region = iota
	LeftNostril
	RightNostril
)

func (r Region) String() string {
	switch r {
	case Mouth:
		return "mouth"
	case LeftNostril:
		return "left-nostril"
	case RightNostril:
		return "right-nostril"
	default:
		return fmt.Sprintf("region(%d)", int(r))
	}
}

// Regions lists the source regions in emission order.
var Regions = []Region{Mouth, LeftNostril, RightNostril}

// Sample is one accepted position. Local is the coordinate in the region's
// own sampling plane; Global is the coordinate handed to the writer.
type Sample struct {
	Region Region
	Local  geom.Vec3
	Global geom.Vec3
}

// NewSource returns the deterministic random source used by all samplers of
// a run.
func NewSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}
