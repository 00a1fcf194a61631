package sampler

import (
	"math/rand/v2"

	"github.com/san-kum/breathseed/internal/geom"
	"gonum.org/v1/gonum/stat/distuv"
)

// MouthSampler samples uniformly over the rectangle [YMin,YMax]×[ZMin,ZMax]
// in the plane x = X. The mouth plane is already in mesh coordinates.
type MouthSampler struct {
	X          float64
	YMin, YMax float64
	ZMin, ZMax float64

	dy, dz distuv.Uniform
}

func NewMouth(x, yMin, yMax, zMin, zMax float64, src rand.Source) *MouthSampler {
	return &MouthSampler{
		X:    x,
		YMin: yMin, YMax: yMax,
		ZMin: zMin, ZMax: zMax,
		dy:   distuv.Uniform{Min: 0, Max: yMax - yMin, Src: src},
		dz:   distuv.Uniform{Min: 0, Max: zMax - zMin, Src: src},
	}
}

// Next draws a single position.
func (m *MouthSampler) Next() Sample {
	y := m.YMin + m.dy.Rand()
	z := m.ZMin + m.dz.Rand()
	p := geom.Vec3{m.X, y, z}
	return Sample{Region: Mouth, Local: p, Global: p}
}

// Draw returns exactly n samples.
func (m *MouthSampler) Draw(n int) []Sample {
	out := make([]Sample, n)
	for i := range out {
		out[i] = m.Next()
	}
	return out
}

// boundsEps absorbs the rounding of YMin + (YMax-YMin)*u at the upper edge.
const boundsEps = 1e-12

// Contains reports whether p lies on the mouth rectangle.
func (m *MouthSampler) Contains(p geom.Vec3) bool {
	return p[0] == m.X &&
		p[1] >= m.YMin && p[1] <= m.YMax+boundsEps &&
		p[2] >= m.ZMin && p[2] <= m.ZMax+boundsEps
}
