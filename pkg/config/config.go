// Package config holds the configuration record of the ring renderer.
//
// Every constant of the sketches is a field here: canvas extent, color mode
// and colors, polygon side count and radius sweep, the distortion constants,
// the noise field and the animation range. [Default] reproduces the animated
// sketch exactly; [Load] overlays a TOML file on top of the defaults:
//
//	[canvas]
//	width = 800
//	height = 800
//
//	[distortion]
//	amplitude = 0.05
//
// Unknown keys are rejected so a typo never silently falls back to a default.
package config

import (
	"io"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/noisering/pkg/distort"
	"github.com/matzehuels/noisering/pkg/errors"
	"github.com/matzehuels/noisering/pkg/geom"
	"github.com/matzehuels/noisering/pkg/hsb"
	"github.com/matzehuels/noisering/pkg/noise"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultSize is the side of the square canvas in pixels.
	DefaultSize = 400

	// DefaultSides is the side count of every ring polygon.
	DefaultSides = 20

	// DefaultStrokeFactor scales the canvas width into the stroke width.
	DefaultStrokeFactor = 0.001

	// DefaultFPS is the animation rate of previews and GIF exports.
	DefaultFPS = 30

	// DefaultFrames is the length of an exported animation.
	DefaultFrames = 120
)

// =============================================================================
// Config
// =============================================================================

// Config is the complete parameter set of a sketch.
type Config struct {
	Canvas     Canvas         `toml:"canvas" json:"canvas"`
	ColorMode  hsb.Mode       `toml:"color_mode" json:"color_mode"`
	Style      Style          `toml:"style" json:"style"`
	Rings      Rings          `toml:"rings" json:"rings"`
	Distortion distort.Params `toml:"distortion" json:"distortion"`
	Noise      noise.Options  `toml:"noise" json:"noise"`
	Animation  Animation      `toml:"animation" json:"animation"`
}

// Canvas is the drawing surface extent in pixels.
type Canvas struct {
	Width  int `toml:"width" json:"width"`
	Height int `toml:"height" json:"height"`
}

// Style configures the drawing state applied at the start of every frame.
type Style struct {
	Background   hsb.Color `toml:"background" json:"background"`
	Stroke       hsb.Color `toml:"stroke" json:"stroke"`
	StrokeFactor float64   `toml:"stroke_width_factor" json:"stroke_width_factor"`
}

// Rings configures the nested polygon family.
type Rings struct {
	Sides int `toml:"sides" json:"sides"`
	// RadiusScale multiplies every swept value before it becomes a polygon
	// radius. The circle sketch sweeps diameters and uses 0.5.
	RadiusScale float64    `toml:"radius_scale" json:"radius_scale"`
	Sweep       geom.Sweep `toml:"sweep" json:"sweep"`
}

// Animation configures the frame range of exports and the preview rate.
type Animation struct {
	Start  int `toml:"start" json:"start"`
	Frames int `toml:"frames" json:"frames"`
	FPS    int `toml:"fps" json:"fps"`
}

// Default returns the configuration of the animated sketch.
func Default() Config {
	return Config{
		Canvas:    Canvas{Width: DefaultSize, Height: DefaultSize},
		ColorMode: hsb.DefaultMode,
		Style: Style{
			Background:   hsb.White,
			Stroke:       hsb.Black,
			StrokeFactor: DefaultStrokeFactor,
		},
		Rings: Rings{
			Sides:       DefaultSides,
			RadiusScale: 1,
			Sweep:       geom.Sweep{Start: 0.05, Step: 0.01, Stop: 0.70},
		},
		Distortion: distort.DefaultParams(),
		Noise:      noise.DefaultOptions(),
		Animation:  Animation{Start: 1, Frames: DefaultFrames, FPS: DefaultFPS},
	}
}

// Validate checks every section and returns the first ErrCodeInvalidConfig
// error found.
func (c Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"canvas must be at least 1x1 pixels, got %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	if err := c.ColorMode.Validate(); err != nil {
		return err
	}
	if err := c.ColorMode.ValidateColor("style.background", c.Style.Background); err != nil {
		return err
	}
	if err := c.ColorMode.ValidateColor("style.stroke", c.Style.Stroke); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("style.stroke_width_factor", c.Style.StrokeFactor); err != nil {
		return err
	}
	if err := errors.ValidateSides(c.Rings.Sides); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "rings.sides")
	}
	if err := errors.ValidatePositive("rings.radius_scale", c.Rings.RadiusScale); err != nil {
		return err
	}
	if err := c.Rings.Sweep.Validate(); err != nil {
		return err
	}
	if err := c.Distortion.Validate(); err != nil {
		return err
	}
	if err := c.Noise.Validate(); err != nil {
		return err
	}
	if c.Animation.Start < 0 || c.Animation.Frames < 1 || c.Animation.FPS < 1 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"animation needs start >= 0, frames >= 1 and fps >= 1, got start=%d frames=%d fps=%d",
			c.Animation.Start, c.Animation.Frames, c.Animation.FPS)
	}
	return nil
}

// StrokeWidth returns the stroke width in pixels for a canvas w pixels wide.
func (c Config) StrokeWidth(w float64) float64 {
	return c.Style.StrokeFactor * w
}

// =============================================================================
// TOML
// =============================================================================

// Load reads a TOML file over [Default] and validates the result.
func Load(path string) (Config, error) {
	return LoadInto(Default(), path)
}

// LoadInto reads a TOML file over base, so keys absent from the file keep
// the values of base, and validates the result.
func LoadInto(base Config, path string) (Config, error) {
	cfg := base
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "failed to read %s", path)
	}
	if err := checkUndecoded(md, path); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode reads TOML from r over [Default] and validates the result.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "failed to decode config")
	}
	if err := checkUndecoded(md, "config"); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

func checkUndecoded(md toml.MetaData, source string) error {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", source, undecoded[0].String())
	}
	return nil
}
