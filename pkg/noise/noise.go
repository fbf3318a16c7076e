// Package noise provides the coherent noise fields that drive ring distortion.
//
// A [Field] is a pure three-argument function returning values in [0, 1]:
// deterministic for a fixed seed, smooth, and spatially coherent. The
// renderer samples it with two spatial coordinates and one temporal one.
//
// [Simplex] is backed by OpenSimplex noise. [Fractal] layers octaves of any
// base field the way creative-coding toolkits do (4 octaves, falloff 0.5 by
// default). [Checked] guards the [0, 1] contract of untrusted fields.
package noise

import (
	"github.com/ojrac/opensimplex-go"
)

// Field is a deterministic coherent scalar field N: R³ → [0, 1].
type Field interface {
	Sample(x, y, z float64) float64
}

// Func adapts an ordinary function to [Field].
type Func func(x, y, z float64) float64

// Sample calls f(x, y, z).
func (f Func) Sample(x, y, z float64) float64 { return f(x, y, z) }

// Constant is a field that returns the same value everywhere.
type Constant float64

// Sample returns c.
func (c Constant) Sample(_, _, _ float64) float64 { return float64(c) }

// Simplex is a seeded OpenSimplex field normalized to [0, 1).
type Simplex struct {
	seed  int64
	noise opensimplex.Noise
}

// NewSimplex returns a simplex field for the given seed.
func NewSimplex(seed int64) *Simplex {
	return &Simplex{
		seed:  seed,
		noise: opensimplex.NewNormalized(seed),
	}
}

// Seed returns the seed the field was built with.
func (s *Simplex) Seed() int64 { return s.seed }

// Sample evaluates 3D simplex noise at (x, y, z).
func (s *Simplex) Sample(x, y, z float64) float64 {
	return s.noise.Eval3(x, y, z)
}

// Fractal sums octaves of a base field. Each octave doubles the frequency and
// scales the amplitude by Falloff. The sum is divided by the total amplitude so
// a base field in [0, 1] yields a fractal field in [0, 1].
type Fractal struct {
	Base    Field
	Octaves int
	Falloff float64
}

// Sample evaluates the octave sum at (x, y, z).
func (f Fractal) Sample(x, y, z float64) float64 {
	octaves := f.Octaves
	if octaves < 1 {
		octaves = 1
	}

	var total, maxValue float64
	frequency, amplitude := 1.0, 1.0
	for range octaves {
		total += f.Base.Sample(x*frequency, y*frequency, z*frequency) * amplitude
		maxValue += amplitude
		amplitude *= f.Falloff
		frequency *= 2
	}
	if maxValue == 0 {
		return 0
	}
	return total / maxValue
}
