package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// detTolerance is the smallest |det R| accepted by Validate.
const detTolerance = 1e-9

// Vec3 is a point or offset in mesh coordinates (metres).
type Vec3 [3]float64

func (v Vec3) X() float64 { return v[0] }
func (v Vec3) Y() float64 { return v[1] }
func (v Vec3) Z() float64 { return v[2] }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

// Norm is the Euclidean length of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Affine maps local coordinates p to R·p + T.
type Affine struct {
	R [3][3]float64
	T [3]float64
}

// Identity returns the transform that leaves every point unchanged.
func Identity() Affine {
	return Affine{R: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

// FromRows builds a transform from the 3×4 row layout.
func FromRows(rows [3][4]float64) Affine {
	var a Affine
	for i := 0; i < 3; i++ {
		a.R[i] = [3]float64{rows[i][0], rows[i][1], rows[i][2]}
		a.T[i] = rows[i][3]
	}
	return a
}

// Rows returns the 3×4 row layout of a.
func (a Affine) Rows() [3][4]float64 {
	var rows [3][4]float64
	for i := 0; i < 3; i++ {
		rows[i] = [4]float64{a.R[i][0], a.R[i][1], a.R[i][2], a.T[i]}
	}
	return rows
}

// Apply returns R·p + T. Malformed transforms are not checked here.
func (a Affine) Apply(p Vec3) Vec3 {
	return Vec3{
		a.R[0][0]*p[0] + a.R[0][1]*p[1] + a.R[0][2]*p[2] + a.T[0],
		a.R[1][0]*p[0] + a.R[1][1]*p[1] + a.R[1][2]*p[2] + a.T[1],
		a.R[2][0]*p[0] + a.R[2][1]*p[1] + a.R[2][2]*p[2] + a.T[2],
	}
}

func (a Affine) rotation() *mat.Dense {
	data := make([]float64, 0, 9)
	for i := 0; i < 3; i++ {
		data = append(data, a.R[i][:]...)
	}
	return mat.NewDense(3, 3, data)
}

// Det returns the determinant of the rotation block.
func (a Affine) Det() float64 {
	return mat.Det(a.rotation())
}

// Inverse returns the transform mapping global coordinates back into the
// local frame: R⁻¹·(q − T).
func (a Affine) Inverse() (Affine, error) {
	if err := a.Validate(); err != nil {
		return Affine{}, err
	}

	var inv mat.Dense
	if err := inv.Inverse(a.rotation()); err != nil {
		return Affine{}, fmt.Errorf("%w: %v", ErrSingular, err)
	}

	var out Affine
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out.R[i][j] = inv.At(i, j)
		}
	}

	t := mat.NewVecDense(3, a.T[:])
	var shift mat.VecDense
	shift.MulVec(&inv, t)
	for i := 0; i < 3; i++ {
		out.T[i] = -shift.AtVec(i)
	}
	return out, nil
}

// Validate rejects transforms with non-finite entries or a rotation block
// whose determinant is too close to zero to be a plausible rotation.
func (a Affine) Validate() error {
	for _, row := range a.Rows() {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return ErrNonFinite
			}
		}
	}
	if det := a.Det(); math.Abs(det) < detTolerance {
		return fmt.Errorf("%w (det=%g)", ErrSingular, det)
	}
	return nil
}
