// Package distort displaces polygon vertices through a coherent noise field.
//
// # Animated Distortion
//
// For a vertex p at distance d from the center and frame counter t:
//
//	z1 = t / SlowDivisor                      slow temporal axis
//	z2 = t / FastDivisor                      fast temporal axis
//	nx = (x + OffsetX) · d · SpatialScale + z2
//	ny = (y + OffsetY) · d · SpatialScale + z2
//	θ  = N(nx, ny, z1) · AngleMultiplier
//	a  = Amplitude − Amplitude · cos(t / SlowDivisor)
//	p' = p + a · (cos θ, sin θ)
//
// Scaling the noise coordinates by d stretches the field radially, so outer
// rings wobble at a higher spatial frequency than inner ones. The amplitude
// breathes on a slow cosine, collapsing the rings back onto true polygons
// every 1000π frames.
//
// # Static Distortion
//
// [ModeStatic] reproduces the frozen intermediate sketch: θ = N(x, y, 0) · 2π
// with a constant displacement of StaticAmplitude.
//
// A [Distorter] holds no mutable state; it is safe to share between
// goroutines as long as its field is.
package distort

import (
	"math"

	"github.com/matzehuels/noisering/pkg/errors"
	"github.com/matzehuels/noisering/pkg/geom"
	"github.com/matzehuels/noisering/pkg/noise"
)

// Mode selects the displacement rule.
type Mode string

const (
	ModeNone     Mode = "none"     // vertices pass through unchanged
	ModeStatic   Mode = "static"   // time-independent 2D nudge
	ModeAnimated Mode = "animated" // time-varying radial field
)

// Params holds the constants of the displacement rule.
type Params struct {
	Mode            Mode    `toml:"mode" json:"mode"`
	Amplitude       float64 `toml:"amplitude" json:"amplitude"`
	StaticAmplitude float64 `toml:"static_amplitude" json:"static_amplitude"`
	OffsetX         float64 `toml:"offset_x" json:"offset_x"`
	OffsetY         float64 `toml:"offset_y" json:"offset_y"`
	SpatialScale    float64 `toml:"spatial_scale" json:"spatial_scale"`
	AnglePi         float64 `toml:"angle_pi" json:"angle_pi"` // angle multiplier in units of π
	SlowDivisor     float64 `toml:"slow_divisor" json:"slow_divisor"`
	FastDivisor     float64 `toml:"fast_divisor" json:"fast_divisor"`
}

// DefaultParams returns the constants of the animated sketch.
func DefaultParams() Params {
	return Params{
		Mode:            ModeAnimated,
		Amplitude:       0.08,
		StaticAmplitude: 0.1,
		OffsetX:         0.31,
		OffsetY:         -1.73,
		SpatialScale:    2,
		AnglePi:         3,
		SlowDivisor:     500,
		FastDivisor:     200,
	}
}

// Validate checks the mode and the numeric constants.
func (p Params) Validate() error {
	switch p.Mode {
	case ModeNone, ModeStatic, ModeAnimated:
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"distortion.mode must be %q, %q or %q, got %q", ModeNone, ModeStatic, ModeAnimated, p.Mode)
	}
	checks := []error{
		errors.ValidateNonNegative("distortion.amplitude", p.Amplitude),
		errors.ValidateNonNegative("distortion.static_amplitude", p.StaticAmplitude),
		errors.ValidateFinite("distortion.offset_x", p.OffsetX),
		errors.ValidateFinite("distortion.offset_y", p.OffsetY),
		errors.ValidateFinite("distortion.spatial_scale", p.SpatialScale),
		errors.ValidateFinite("distortion.angle_pi", p.AnglePi),
		errors.ValidatePositive("distortion.slow_divisor", p.SlowDivisor),
		errors.ValidatePositive("distortion.fast_divisor", p.FastDivisor),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}

// Distorter applies [Params] with a fixed noise field.
type Distorter struct {
	params Params
	field  noise.Field
}

// New returns a distorter sampling field.
func New(params Params, field noise.Field) *Distorter {
	return &Distorter{params: params, field: field}
}

// Params returns the distorter's constants.
func (d *Distorter) Params() Params { return d.params }

// Amplitude returns the displacement length at time t. In animated mode it
// oscillates between 0 and 2·Amplitude with period 2π·SlowDivisor.
func (d *Distorter) Amplitude(t float64) float64 {
	switch d.params.Mode {
	case ModeAnimated:
		return d.params.Amplitude - d.params.Amplitude*math.Cos(t/d.params.SlowDivisor)
	case ModeStatic:
		return d.params.StaticAmplitude
	default:
		return 0
	}
}

// Angle returns the displacement direction of p at time t, in radians.
func (d *Distorter) Angle(p geom.Point, t float64) float64 {
	switch d.params.Mode {
	case ModeAnimated:
		dist := geom.Radius(p)
		z1 := t / d.params.SlowDivisor
		z2 := t / d.params.FastDivisor
		nx := (p.X+d.params.OffsetX)*dist*d.params.SpatialScale + z2
		ny := (p.Y+d.params.OffsetY)*dist*d.params.SpatialScale + z2
		return d.field.Sample(nx, ny, z1) * d.params.AnglePi * math.Pi
	case ModeStatic:
		return d.field.Sample(p.X, p.Y, 0) * 2 * math.Pi
	default:
		return 0
	}
}

// Distort returns p displaced for frame t.
func (d *Distorter) Distort(p geom.Point, t int) geom.Point {
	if d.params.Mode == ModeNone {
		return p
	}
	ft := float64(t)
	a := d.Amplitude(ft)
	theta := d.Angle(p, ft)
	return geom.Point{
		X: p.X + a*math.Cos(theta),
		Y: p.Y + a*math.Sin(theta),
	}
}

// DistortPolygon displaces every vertex of src into dst, which may alias src,
// and returns dst resized to len(src).
func (d *Distorter) DistortPolygon(dst, src geom.Polygon, t int) geom.Polygon {
	if cap(dst) < len(src) {
		dst = make(geom.Polygon, len(src))
	}
	dst = dst[:len(src)]
	for i, p := range src {
		dst[i] = d.Distort(p, t)
	}
	return dst
}
