package config

import (
	"slices"

	"github.com/matzehuels/noisering/pkg/distort"
	"github.com/matzehuels/noisering/pkg/errors"
	"github.com/matzehuels/noisering/pkg/geom"
)

// Variant names a sketch preset.
type Variant string

// Sketch presets, from the plain circle study to the animated rings.
const (
	VariantBasic    Variant = "basic"
	VariantPolygon  Variant = "polygon"
	VariantRings    Variant = "rings"
	VariantNudge    Variant = "nudge"
	VariantAnimated Variant = "animated"
)

// preset is the geometry and distortion a variant imposes.
type preset struct {
	sides       int
	radiusScale float64
	sweep       geom.Sweep
	mode        distort.Mode
}

var presets = map[Variant]preset{
	VariantBasic:    {sides: 128, radiusScale: 0.5, sweep: geom.Sweep{Start: 0.1, Step: 0.1, Stop: 1.0}, mode: distort.ModeNone},
	VariantPolygon:  {sides: 10, radiusScale: 1, sweep: geom.Sweep{Start: 0.1, Step: 0.05, Stop: 0.45}, mode: distort.ModeNone},
	VariantRings:    {sides: 20, radiusScale: 1, sweep: geom.Sweep{Start: 0.05, Step: 0.05, Stop: 0.45}, mode: distort.ModeNone},
	VariantNudge:    {sides: 20, radiusScale: 1, sweep: geom.Sweep{Start: 0.05, Step: 0.01, Stop: 0.7}, mode: distort.ModeStatic},
	VariantAnimated: {sides: 20, radiusScale: 1, sweep: geom.Sweep{Start: 0.05, Step: 0.01, Stop: 0.7}, mode: distort.ModeAnimated},
}

// Variants returns every preset name in alphabetical order.
func Variants() []Variant {
	names := make([]Variant, 0, len(presets))
	for v := range presets {
		names = append(names, v)
	}
	slices.Sort(names)
	return names
}

// ParseVariant returns the variant named s.
func ParseVariant(s string) (Variant, error) {
	v := Variant(s)
	if _, ok := presets[v]; !ok {
		return "", errors.New(errors.ErrCodeInvalidVariant, "unknown variant %q (want one of %v)", s, Variants())
	}
	return v, nil
}

// WithVariant returns c with the ring geometry and distortion mode of v.
// Colors, canvas, noise and distortion constants are left untouched.
func (c Config) WithVariant(v Variant) (Config, error) {
	p, ok := presets[v]
	if !ok {
		return Config{}, errors.New(errors.ErrCodeInvalidVariant, "unknown variant %q", string(v))
	}
	c.Rings = Rings{Sides: p.sides, RadiusScale: p.radiusScale, Sweep: p.sweep}
	c.Distortion.Mode = p.mode
	return c, nil
}
