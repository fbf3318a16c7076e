package noise

import (
	"math"

	"github.com/matzehuels/noisering/pkg/errors"
)

// Checked enforces the [0, 1] range contract of a wrapped field.
//
// In strict mode an out-of-range or NaN sample panics with an
// ErrCodeNoiseRange *errors.Error; the frame renderer recovers it and returns
// it from Draw. Otherwise samples are clamped, NaN becoming 0.
type Checked struct {
	Field  Field
	Strict bool
}

// Sample evaluates the wrapped field and applies the range policy.
func (c Checked) Sample(x, y, z float64) float64 {
	v := c.Field.Sample(x, y, z)
	if v >= 0 && v <= 1 {
		return v
	}
	if c.Strict {
		panic(errors.New(errors.ErrCodeNoiseRange,
			"noise(%g, %g, %g) = %g outside [0, 1]", x, y, z, v))
	}
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return 1
}

// Options configures the field built by [New].
type Options struct {
	Seed    int64   `toml:"seed" json:"seed"`
	Octaves int     `toml:"octaves" json:"octaves"`
	Falloff float64 `toml:"falloff" json:"falloff"`
	Strict  bool    `toml:"strict" json:"strict"`
}

// DefaultOptions matches the reference toolkit: 4 octaves with falloff 0.5.
func DefaultOptions() Options {
	return Options{Seed: 0, Octaves: 4, Falloff: 0.5, Strict: true}
}

// Validate checks the octave count and falloff.
func (o Options) Validate() error {
	if o.Octaves < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "noise.octaves must be at least 1, got %d", o.Octaves)
	}
	return errors.ValidateUnit("noise.falloff", o.Falloff, 1)
}

// New builds a checked simplex field from opts. A single octave skips the
// fractal layer.
func New(opts Options) Field {
	var f Field = NewSimplex(opts.Seed)
	if opts.Octaves > 1 {
		f = Fractal{Base: f, Octaves: opts.Octaves, Falloff: opts.Falloff}
	}
	return Checked{Field: f, Strict: opts.Strict}
}
