package sampler

import (
	"fmt"
	"math/rand/v2"

	"github.com/san-kum/breathseed/internal/geom"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultMaxRetries bounds the candidates drawn per accepted nostril sample.
// With acceptance probability π/4 the chance of reaching it is negligible.
const DefaultMaxRetries = 10000

// Nostril samples uniformly over a disk of the given radius in its local
// z = 0 plane by rejection from the enclosing square, then maps accepted
// points into the mesh with Transform.
type Nostril struct {
	Region     Region
	Radius     float64
	Transform  geom.Affine
	MaxRetries int

	unit distuv.Uniform

	candidates int
	accepted   int
}

func NewNostril(region Region, radius float64, transform geom.Affine, maxRetries int, src rand.Source) *Nostril {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Nostril{
		Region:     region,
		Radius:     radius,
		Transform:  transform,
		MaxRetries: maxRetries,
		unit:       distuv.Uniform{Min: -1, Max: 1, Src: src},
	}
}

// Next draws one accepted sample.
func (n *Nostril) Next() (Sample, error) {
	r2 := n.Radius * n.Radius
	for try := 0; try < n.MaxRetries; try++ {
		x := n.Radius * n.unit.Rand()
		y := n.Radius * n.unit.Rand()
		n.candidates++
		if x*x+y*y < r2 {
			n.accepted++
			local := geom.Vec3{x, y, 0}
			return Sample{Region: n.Region, Local: local, Global: n.Transform.Apply(local)}, nil
		}
	}
	return Sample{}, fmt.Errorf("%w: %s after %d candidates (radius=%g)",
		ErrRejectionExhausted, n.Region, n.MaxRetries, n.Radius)
}

// Draw returns exactly count accepted samples or an error.
func (n *Nostril) Draw(count int) ([]Sample, error) {
	out := make([]Sample, 0, count)
	for i := 0; i < count; i++ {
		s, err := n.Next()
		if err != nil {
			return out, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Stats reports the candidates drawn and accepted so far.
func (n *Nostril) Stats() (candidates, accepted int) {
	return n.candidates, n.accepted
}

// AcceptanceRate is accepted/candidates, or 0 before the first draw.
func (n *Nostril) AcceptanceRate() float64 {
	if n.candidates == 0 {
		return 0
	}
	return float64(n.accepted) / float64(n.candidates)
}
