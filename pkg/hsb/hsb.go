// Package hsb models colors in a hue/saturation/brightness color mode with
// configurable channel ranges, the way sketching toolkits do:
//
//	mode := hsb.Mode{Hue: 360, Saturation: 100, Brightness: 100, Alpha: 1}
//	white := hsb.Color{H: 0, S: 0, B: 100, A: 1}
//	rgba := mode.RGBA(white) // color.RGBA{255, 255, 255, 255}
//
// Conversion to RGB is delegated to go-colorful.
package hsb

import (
	"image/color"
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/noisering/pkg/errors"
)

// Mode holds the maximum value of each channel.
type Mode struct {
	Hue        float64 `toml:"hue" json:"hue"`
	Saturation float64 `toml:"saturation" json:"saturation"`
	Brightness float64 `toml:"brightness" json:"brightness"`
	Alpha      float64 `toml:"alpha" json:"alpha"`
}

// DefaultMode is HSB with hue in degrees, saturation and brightness in
// percent and alpha in [0, 1].
var DefaultMode = Mode{Hue: 360, Saturation: 100, Brightness: 100, Alpha: 1}

// Color is a color expressed in some [Mode]'s channel ranges.
type Color struct {
	H float64 `toml:"h" json:"h"`
	S float64 `toml:"s" json:"s"`
	B float64 `toml:"b" json:"b"`
	A float64 `toml:"a" json:"a"`
}

// Common colors in [DefaultMode].
var (
	White = Color{H: 0, S: 0, B: 100, A: 1}
	Black = Color{H: 0, S: 0, B: 0, A: 1}
)

// Validate checks that every channel maximum is positive.
func (m Mode) Validate() error {
	for _, ch := range []struct {
		name string
		v    float64
	}{
		{"color_mode.hue", m.Hue},
		{"color_mode.saturation", m.Saturation},
		{"color_mode.brightness", m.Brightness},
		{"color_mode.alpha", m.Alpha},
	} {
		if err := errors.ValidatePositive(ch.name, ch.v); err != nil {
			return err
		}
	}
	return nil
}

// ValidateColor checks that c lies within the mode's channel ranges.
func (m Mode) ValidateColor(field string, c Color) error {
	if err := errors.ValidateUnit(field+".h", c.H, m.Hue); err != nil {
		return err
	}
	if err := errors.ValidateUnit(field+".s", c.S, m.Saturation); err != nil {
		return err
	}
	if err := errors.ValidateUnit(field+".b", c.B, m.Brightness); err != nil {
		return err
	}
	return errors.ValidateUnit(field+".a", c.A, m.Alpha)
}

// Colorful converts c to an opaque go-colorful color, ignoring alpha.
func (m Mode) Colorful(c Color) colorful.Color {
	h := math.Mod(c.H/m.Hue*360, 360)
	if h < 0 {
		h += 360
	}
	return colorful.Hsv(h, clamp01(c.S/m.Saturation), clamp01(c.B/m.Brightness))
}

// RGBA converts c to a non-premultiplied 8-bit color.
func (m Mode) RGBA(c Color) color.NRGBA {
	r, g, b := m.Colorful(c).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(clamp01(c.A/m.Alpha) * 255))}
}

// Hex returns c as a #rrggbb string, ignoring alpha.
func (m Mode) Hex(c Color) string {
	return m.Colorful(c).Clamped().Hex()
}

// Lipgloss returns c as a terminal color.
func (m Mode) Lipgloss(c Color) lipgloss.Color {
	return lipgloss.Color(m.Hex(c))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
