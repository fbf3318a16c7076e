package sink

import (
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"

	"github.com/matzehuels/noisering/pkg/errors"
)

// Named GIF palettes.
const (
	PalettePlan9   = "plan9"
	PaletteWebSafe = "websafe"
	PaletteGray    = "gray"
)

// Palettes maps palette names to colors. The sketch draws black on white, so
// the gray ramp keeps the most tonal detail in 256 entries.
var Palettes = map[string]color.Palette{
	PalettePlan9:   palette.Plan9,
	PaletteWebSafe: palette.WebSafe,
	PaletteGray:    grayRamp(),
}

func grayRamp() color.Palette {
	p := make(color.Palette, 256)
	for i := range p {
		p[i] = color.Gray{Y: uint8(i)}
	}
	return p
}

// GIFOption configures a [GIF].
type GIFOption func(*GIF)

// WithPalette sets the frame palette (default Plan 9). Nil is ignored.
func WithPalette(p color.Palette) GIFOption {
	return func(g *GIF) {
		if p != nil {
			g.palette = p
		}
	}
}

// WithDither enables Floyd-Steinberg dithering when quantizing frames.
func WithDither() GIFOption {
	return func(g *GIF) { g.dither = true }
}

// GIF assembles rasterized frames into a looping animated GIF.
type GIF struct {
	delay   int
	palette color.Palette
	dither  bool
	frames  []*image.Paletted
}

// NewGIF returns an empty animation playing at fps frames per second.
// GIF delays have 10 ms resolution, so rates above 100 fps are clamped.
func NewGIF(fps int, opts ...GIFOption) *GIF {
	delay := 100 / max(fps, 1)
	g := &GIF{delay: max(delay, 1), palette: palette.Plan9}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Add quantizes img and appends it as the next frame.
func (g *GIF) Add(img image.Image) {
	b := img.Bounds()
	p := image.NewPaletted(b, g.palette)
	if g.dither {
		draw.FloydSteinberg.Draw(p, b, img, b.Min)
	} else {
		draw.Draw(p, b, img, b.Min, draw.Src)
	}
	g.frames = append(g.frames, p)
}

// Palette returns the colors frames are quantized to.
func (g *GIF) Palette() color.Palette { return g.palette }

// Len returns the number of frames added.
func (g *GIF) Len() int { return len(g.frames) }

// Delay returns the per-frame delay in hundredths of a second.
func (g *GIF) Delay() int { return g.delay }

// Encode writes the animation, looping forever.
func (g *GIF) Encode(w io.Writer) error {
	if len(g.frames) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "animation has no frames")
	}
	delays := make([]int, len(g.frames))
	for i := range delays {
		delays[i] = g.delay
	}
	anim := &gif.GIF{Image: g.frames, Delay: delays, LoopCount: 0}
	if err := gif.EncodeAll(w, anim); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "failed to encode GIF")
	}
	return nil
}
