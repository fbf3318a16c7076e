package geom

import (
	"math"

	"github.com/matzehuels/noisering/pkg/errors"
)

// RegularPolygon returns the n vertices of a regular polygon of radius r
// centered at [Center]. Vertex k sits at angle k·2π/n, starting on the
// positive x axis and turning clockwise on screen (y grows downward).
//
// It returns an ErrCodeInvalidSides error for n < 3 and an
// ErrCodeInvalidRadius error for negative or non-finite r.
func RegularPolygon(n int, r float64) (Polygon, error) {
	return FillRegularPolygon(nil, n, r)
}

// FillRegularPolygon writes the polygon into dst, growing it only when its
// capacity is smaller than n, and returns the resulting slice.
func FillRegularPolygon(dst Polygon, n int, r float64) (Polygon, error) {
	if err := errors.ValidateSides(n); err != nil {
		return nil, err
	}
	if err := errors.ValidateRadius(r); err != nil {
		return nil, err
	}
	if cap(dst) < n {
		dst = make(Polygon, n)
	}
	dst = dst[:n]

	step := 2 * math.Pi / float64(n)
	for k := range dst {
		theta := float64(k) * step
		dst[k] = Point{
			X: Center.X + r*math.Cos(theta),
			Y: Center.Y + r*math.Sin(theta),
		}
	}
	return dst, nil
}

// MustRegularPolygon is like [RegularPolygon] but panics on invalid input.
func MustRegularPolygon(n int, r float64) Polygon {
	p, err := RegularPolygon(n, r)
	if err != nil {
		panic(err)
	}
	return p
}
