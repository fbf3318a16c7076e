package geom

import (
	"math"

	"github.com/matzehuels/noisering/pkg/errors"
)

// snapEpsilon absorbs representation error in (Stop-Start)/Step so that a
// range like [0.05, 0.70) with step 0.01 yields 65 rings, not 64 or 66.
const snapEpsilon = 1e-9

// MaxRings caps the number of radii a sweep may produce.
const MaxRings = 10000

// Sweep is a half-open radius range [Start, Stop) walked in Step increments.
type Sweep struct {
	Start float64 `toml:"start" json:"start"`
	Step  float64 `toml:"step" json:"step"`
	Stop  float64 `toml:"stop" json:"stop"`
}

// Validate reports whether the sweep describes a finite, walkable range.
func (s Sweep) Validate() error {
	if err := errors.ValidateNonNegative("sweep.start", s.Start); err != nil {
		return err
	}
	if err := errors.ValidatePositive("sweep.step", s.Step); err != nil {
		return err
	}
	if err := errors.ValidateFinite("sweep.stop", s.Stop); err != nil {
		return err
	}
	if n := (s.Stop - s.Start) / s.Step; n > MaxRings+snapEpsilon {
		return errors.New(errors.ErrCodeInvalidConfig,
			"sweep produces %.4g rings, at most %d allowed", n, MaxRings)
	}
	return nil
}

// Count returns the number of radii in the sweep: ⌈(Stop−Start)/Step⌉, or 0
// when Stop ≤ Start.
func (s Sweep) Count() int {
	if s.Step <= 0 || s.Stop <= s.Start {
		return 0
	}
	n := (s.Stop - s.Start) / s.Step
	if r := math.Round(n); math.Abs(n-r) < snapEpsilon {
		n = r
	}
	return int(math.Ceil(n))
}

// At returns the radius of ring i.
func (s Sweep) At(i int) float64 {
	return s.Start + float64(i)*s.Step
}

// Radii returns every radius of the sweep in increasing order.
func (s Sweep) Radii() []float64 {
	n := s.Count()
	radii := make([]float64, n)
	for i := range radii {
		radii[i] = s.At(i)
	}
	return radii
}
