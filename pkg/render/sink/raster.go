package sink

import (
	"image"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/noisering/pkg/errors"
	"github.com/matzehuels/noisering/pkg/hsb"
	"github.com/matzehuels/noisering/pkg/render"
)

var _ render.Canvas = (*Raster)(nil)

// RasterOption configures a [Raster].
type RasterOption func(*Raster)

// WithScale sets the device pixel ratio (default 1).
func WithScale(s float64) RasterOption {
	return func(r *Raster) { r.scale = s }
}

// Raster draws onto an in-memory RGBA image through a gg context.
//
// Like a fresh sketch, a new raster fills with white, strokes in black and
// uses a 1 px stroke until told otherwise.
type Raster struct {
	dc     *gg.Context
	scale  float64
	mode   hsb.Mode
	fill   *color.NRGBA
	stroke color.NRGBA
	weight float64
}

// NewRaster returns a raster canvas. It has no pixels until CreateCanvas.
func NewRaster(opts ...RasterOption) *Raster {
	r := &Raster{
		scale:  1,
		mode:   hsb.DefaultMode,
		fill:   &color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		stroke: color.NRGBA{A: 255},
		weight: 1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CreateCanvas allocates a w × h image, multiplied by the device pixel ratio.
// It fails on an empty extent or a non-finite scale.
func (r *Raster) CreateCanvas(w, h int) error {
	if w <= 0 || h <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "canvas must be at least 1x1 pixels, got %dx%d", w, h)
	}
	if r.scale <= 0 || math.IsNaN(r.scale) || math.IsInf(r.scale, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "raster scale must be positive, got %v", r.scale)
	}
	pw := int(math.Round(float64(w) * r.scale))
	ph := int(math.Round(float64(h) * r.scale))
	r.dc = gg.NewContext(max(pw, 1), max(ph, 1))
	return nil
}

// ColorMode sets the ranges used to read later colors.
func (r *Raster) ColorMode(m hsb.Mode) { r.mode = m }

// Background clears the whole image to c.
func (r *Raster) Background(c hsb.Color) {
	if r.dc == nil {
		return
	}
	r.dc.ClearPath()
	r.dc.SetColor(r.mode.RGBA(c))
	r.dc.Clear()
}

// NoFill leaves closed paths unfilled.
func (r *Raster) NoFill() { r.fill = nil }

// Stroke sets the outline color.
func (r *Raster) Stroke(c hsb.Color) { r.stroke = r.mode.RGBA(c) }

// StrokeWeight sets the outline width in sketch pixels. Zero disables
// outlines.
func (r *Raster) StrokeWeight(px float64) { r.weight = px }

// MoveTo starts a new polyline at (x, y).
func (r *Raster) MoveTo(x, y float64) {
	if r.dc != nil {
		r.dc.MoveTo(x*r.scale, y*r.scale)
	}
}

// LineTo extends the current polyline to (x, y).
func (r *Raster) LineTo(x, y float64) {
	if r.dc != nil {
		r.dc.LineTo(x*r.scale, y*r.scale)
	}
}

// ClosePath closes the current polyline and paints it with the current
// fill and stroke.
func (r *Raster) ClosePath() {
	if r.dc == nil {
		return
	}
	r.dc.ClosePath()
	if r.fill != nil {
		r.dc.SetColor(*r.fill)
		r.dc.FillPreserve()
	}
	if r.weight > 0 {
		r.dc.SetColor(r.stroke)
		r.dc.SetLineWidth(r.weight * r.scale)
		r.dc.StrokePreserve()
	}
	r.dc.ClearPath()
}

// Image returns the drawn image, or nil before CreateCanvas.
func (r *Raster) Image() image.Image {
	if r.dc == nil {
		return nil
	}
	return r.dc.Image()
}

// EncodePNG writes the drawn image as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	if r.dc == nil {
		return errors.New(errors.ErrCodeNotSetup, "raster has no canvas")
	}
	if err := r.dc.EncodePNG(w); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "failed to encode PNG")
	}
	return nil
}
