package sampler

import (
	"math"

	"github.com/san-kum/breathseed/internal/geom"
)

// Outline returns sides points on the rim of a nostril disk followed by its
// centre, all mapped into mesh coordinates. It is used to check nostril
// placement visually against the mesh.
func Outline(radius float64, transform geom.Affine, sides int) []geom.Vec3 {
	if sides < 0 {
		sides = 0
	}
	out := make([]geom.Vec3, 0, sides+1)
	for i := 0; i < sides; i++ {
		theta := 2 * float64(i) * math.Pi / float64(sides)
		out = append(out, transform.Apply(geom.Vec3{radius * math.Cos(theta), radius * math.Sin(theta), 0}))
	}
	return append(out, transform.Apply(geom.Vec3{}))
}
