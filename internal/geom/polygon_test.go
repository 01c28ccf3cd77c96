package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func square() Polygon {
	return Polygon{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
}

func rotate(p Polygon, k int) Polygon {
	out := make(Polygon, len(p))
	for i := range p {
		out[i] = p[(i+k)%len(p)]
	}
	return out
}

func TestPolygonContains(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"centre", 5, 5, true},
		{"outside far", 20, 20, false},
		{"outside left", -1, 5, false},
		{"outside above", 5, -0.5, false},
		{"near corner inside", 0.1, 0.1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, square().Contains(tt.x, tt.y))
		})
	}
}

func TestPolygonContains_Concave(t *testing.T) {
	t.Parallel()
	// U shape opening upwards
	u := Polygon{{0, 0}, {30, 0}, {30, 30}, {20, 30}, {20, 10}, {10, 10}, {10, 30}, {0, 30}}

	assert.True(t, u.Contains(5, 20))
	assert.True(t, u.Contains(25, 20))
	assert.False(t, u.Contains(15, 20), "the notch is outside")
	assert.True(t, u.Contains(15, 5))
}

func TestPolygonContains_RotationInvariant(t *testing.T) {
	t.Parallel()
	shapes := []Polygon{
		square(),
		{{0, 0}, {30, 0}, {30, 30}, {20, 30}, {20, 10}, {10, 10}, {10, 30}, {0, 30}},
		{{5, 0}, {10, 8}, {0, 8}},
	}
	probes := []Point{{1, 1}, {5, 5}, {15, 20}, {25, 25}, {9.9, 7.9}, {-3, 4}, {5, 10}}

	for si, shape := range shapes {
		for k := 1; k < len(shape); k++ {
			rotated := rotate(shape, k)
			for _, pt := range probes {
				assert.Equal(t, shape.Contains(pt.X, pt.Y), rotated.Contains(pt.X, pt.Y),
					"shape %d rotation %d point %+v", si, k, pt)
			}
		}
	}
}

func TestPolygonContains_Degenerate(t *testing.T) {
	t.Parallel()
	assert.False(t, Polygon{}.Contains(0, 0))
	assert.False(t, Polygon{{0, 0}, {10, 10}}.Contains(5, 5))
}
