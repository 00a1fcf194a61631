package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nostrilRows = [3][4]float64{
	{0.948, 0.000, -0.319, 0.00573},
	{0.000, 1.000, 0.000, -0.00875},
	{0.319, 0.000, 0.948, 1.71177},
}

func TestApplyRowConvention(t *testing.T) {
	a := FromRows([3][4]float64{
		{1, 2, 3, 10},
		{4, 5, 6, 20},
		{7, 8, 10, 30},
	})

	got := a.Apply(Vec3{1, -1, 2})

	assert.Equal(t, Vec3{1 - 2 + 6 + 10, 4 - 5 + 12 + 20, 7 - 8 + 20 + 30}, got)
}

func TestApplyIdentity(t *testing.T) {
	p := Vec3{0.001, -0.0005, 0}
	assert.Equal(t, p, Identity().Apply(p))
}

func TestApplyNostrilOrigin(t *testing.T) {
	a := FromRows(nostrilRows)
	got := a.Apply(Vec3{})
	assert.InDelta(t, 0.00573, got.X(), 1e-15)
	assert.InDelta(t, -0.00875, got.Y(), 1e-15)
	assert.InDelta(t, 1.71177, got.Z(), 1e-15)
}

func TestRowsRoundTrip(t *testing.T) {
	assert.Equal(t, nostrilRows, FromRows(nostrilRows).Rows())
}

func TestInverseRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		a    Affine
	}{
		{"identity", Identity()},
		{"nostril", FromRows(nostrilRows)},
		{"general", FromRows([3][4]float64{
			{2, 0.5, 0, 1},
			{0, 1, -3, -2},
			{1, 0, 4, 0.25},
		})},
	}

	points := []Vec3{
		{0, 0, 0},
		{0.001875, 0, 0},
		{-0.0012, 0.0009, 0},
		{3.2, -1.5, 7.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := tt.a.Inverse()
			require.NoError(t, err)

			for _, p := range points {
				back := inv.Apply(tt.a.Apply(p))
				assert.Less(t, back.Sub(p).Norm(), 1e-9, "point %v came back as %v", p, back)
			}
		})
	}
}

func TestInverseSingular(t *testing.T) {
	a := FromRows([3][4]float64{
		{1, 2, 3, 0},
		{2, 4, 6, 0},
		{0, 0, 1, 0},
	})

	_, err := a.Inverse()
	assert.ErrorIs(t, err, ErrSingular)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		a       Affine
		wantErr error
	}{
		{"identity", Identity(), nil},
		{"nostril", FromRows(nostrilRows), nil},
		{"zero", Affine{}, ErrSingular},
		{"nan", FromRows([3][4]float64{{math.NaN(), 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}}), ErrNonFinite},
		{"inf translation", FromRows([3][4]float64{{1, 0, 0, math.Inf(1)}, {0, 1, 0, 0}, {0, 0, 1, 0}}), ErrNonFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.a.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
