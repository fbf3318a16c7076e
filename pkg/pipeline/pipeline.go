// Package pipeline provides the frame pipeline shared by every noisering host.
//
// This package turns a configuration into encoded output: a single frame as
// PNG or ANSI text, or a frame range as an animated GIF or a PNG sequence.
// The CLI commands, the terminal preview and the HTTP server all go through
// a [Runner], so they agree on defaults and produce identical frames.
//
// # Architecture
//
// Each frame passes through three steps:
//
//  1. Setup: build a [render.Renderer] and size a sink for the format
//  2. Draw: render frame t with the configured noise field
//  3. Encode: serialize the sink (PNG, ANSI, or GIF after all frames)
//
// Animations fan frames out over a bounded errgroup. Frames are pure
// functions of their counter, so workers share one renderer and one noise
// field and results are reassembled in frame order.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.RenderFrame(ctx, pipeline.Options{
//	    Config: cfg,
//	    Format: pipeline.FormatPNG,
//	    Frame:  785,
//	})
//	if err != nil {
//	    return err
//	}
//	png := result.Artifacts[pipeline.FormatPNG]
//
// Render an animation:
//
//	result, err := runner.Animate(ctx, pipeline.Options{
//	    Config:  cfg,
//	    Format:  pipeline.FormatGIF,
//	    Frame:   1,
//	    Frames:  120,
//	    Workers: 8,
//	})
package pipeline

import (
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/noisering/pkg/config"
	"github.com/matzehuels/noisering/pkg/errors"
	"github.com/matzehuels/noisering/pkg/noise"
	"github.com/matzehuels/noisering/pkg/render/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, preview and server
// =============================================================================

const (
	// DefaultScale is the device pixel ratio of raster output.
	DefaultScale = 1.0

	// DefaultCols is the width of ANSI output in character cells.
	DefaultCols = 80

	// DefaultRows is the height of ANSI output in character cells.
	DefaultRows = 40

	// MaxFrames caps the length of a single animation request.
	MaxFrames = 10000

	// MaxScale caps the raster device pixel ratio.
	MaxScale = 8.0

	// MaxCols and MaxRows cap the size of ANSI output in character cells.
	MaxCols = 1000
	MaxRows = 1000
)

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatANSI = "ansi"
	FormatGIF  = "gif"
)

// FrameFormats is the set of formats a single frame can be encoded as.
var FrameFormats = map[string]bool{
	FormatPNG:  true,
	FormatANSI: true,
}

// AnimationFormats is the set of formats an animation can be encoded as.
// PNG produces one image per frame in [Result.Frames].
var AnimationFormats = map[string]bool{
	FormatGIF: true,
	FormatPNG: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Config is the sketch configuration. A zero Config means config.Default().
	Config config.Config `json:"config"`

	// Variant, when set, replaces the ring geometry and distortion mode of
	// Config with a named preset.
	Variant string `json:"variant,omitempty"`

	// Format selects the encoding, see FrameFormats and AnimationFormats.
	Format string `json:"format,omitempty"`

	// Frame is the frame counter to render, or the first one of an animation.
	Frame int `json:"frame"`

	// Frames is the animation length (default Config.Animation.Frames).
	Frames int `json:"frames,omitempty"`

	// Workers bounds concurrent frame rendering (default GOMAXPROCS).
	Workers int `json:"workers,omitempty"`

	// Scale is the raster device pixel ratio (default 1).
	Scale float64 `json:"scale,omitempty"`

	// Cols and Rows size ANSI output in character cells.
	Cols int `json:"cols,omitempty"`
	Rows int `json:"rows,omitempty"`

	// Palette names the GIF palette, see sink.Palettes (default plan9).
	Palette string `json:"palette,omitempty"`

	// Dither enables Floyd-Steinberg dithering of GIF frames.
	Dither bool `json:"dither,omitempty"`

	// Runtime options (not serialized)
	Logger       *log.Logger        `json:"-"`
	Noise        noise.Field        `json:"-"` // default noise.New(Config.Noise)
	ANSIRenderer *lipgloss.Renderer `json:"-"` // default lipgloss.DefaultRenderer()

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Artifacts contains encoded outputs keyed by format.
	Artifacts map[string][]byte

	// Frames contains one encoded image per frame of a PNG sequence.
	Frames [][]byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Frames     int
	Rings      int // per frame
	Vertices   int // per frame
	RenderTime time.Duration
	EncodeTime time.Duration
	Bytes      int
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFrameFormat checks that a single-frame format is valid.
func ValidateFrameFormat(format string) error {
	if !FrameFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, ansi)", format)
	}
	return nil
}

// ValidateAnimationFormat checks that an animation format is valid.
func ValidateAnimationFormat(format string) error {
	if !AnimationFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: gif, png)", format)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults resolves the configuration, applies defaults and
// checks everything that does not depend on the output kind.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Config == (config.Config{}) {
		o.Config = config.Default()
	}
	if o.Variant != "" {
		v, err := config.ParseVariant(o.Variant)
		if err != nil {
			return err
		}
		if o.Config, err = o.Config.WithVariant(v); err != nil {
			return err
		}
	}
	if err := o.Config.Validate(); err != nil {
		return err
	}
	if err := errors.ValidateFrame(o.Frame); err != nil {
		return err
	}
	if o.Frames < 0 || o.Frames > MaxFrames {
		return errors.New(errors.ErrCodeInvalidInput, "frames must be between 1 and %d, got %d", MaxFrames, o.Frames)
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "workers must not be negative, got %d", o.Workers)
	}
	if !(o.Scale >= 0 && o.Scale <= MaxScale) {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be between 0 and %v, got %v", MaxScale, o.Scale)
	}
	if o.Cols < 0 || o.Rows < 0 || o.Cols > MaxCols || o.Rows > MaxRows {
		return errors.New(errors.ErrCodeInvalidInput,
			"terminal size must be between 0x0 and %dx%d, got %dx%d", MaxCols, MaxRows, o.Cols, o.Rows)
	}

	if o.Palette == "" {
		o.Palette = sink.PalettePlan9
	}
	if _, ok := sink.Palettes[o.Palette]; !ok {
		return errors.New(errors.ErrCodeInvalidInput, "unknown palette %q (must be one of: gray, plan9, websafe)", o.Palette)
	}

	if o.Frames == 0 {
		o.Frames = o.Config.Animation.Frames
	}
	if o.Workers == 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Cols == 0 {
		o.Cols = DefaultCols
	}
	if o.Rows == 0 {
		o.Rows = DefaultRows
	}
	if o.Noise == nil {
		o.Noise = noise.New(o.Config.Noise)
	}
	if o.ANSIRenderer == nil {
		o.ANSIRenderer = lipgloss.DefaultRenderer()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ValidateForFrame validates and sets defaults for single-frame rendering.
func (o *Options) ValidateForFrame() error {
	if o.Format == "" {
		o.Format = FormatPNG
	}
	if err := o.ValidateAndSetDefaults(); err != nil {
		return err
	}
	return ValidateFrameFormat(o.Format)
}

// ValidateForAnimation validates and sets defaults for animation rendering.
func (o *Options) ValidateForAnimation() error {
	if o.Format == "" {
		o.Format = FormatGIF
	}
	if err := o.ValidateAndSetDefaults(); err != nil {
		return err
	}
	return ValidateAnimationFormat(o.Format)
}

// LastFrame returns the counter of the final animation frame.
func (o *Options) LastFrame() int {
	return o.Frame + max(o.Frames, 1) - 1
}
