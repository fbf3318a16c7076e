package render

import (
	"sync/atomic"

	"github.com/matzehuels/noisering/pkg/config"
	"github.com/matzehuels/noisering/pkg/distort"
	"github.com/matzehuels/noisering/pkg/errors"
	"github.com/matzehuels/noisering/pkg/geom"
	"github.com/matzehuels/noisering/pkg/hsb"
	"github.com/matzehuels/noisering/pkg/noise"
)

// PathSink receives closed polylines in pixel coordinates.
type PathSink interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	ClosePath()
}

// Canvas is the drawing surface a [Renderer] draws on.
type Canvas interface {
	PathSink

	// CreateCanvas sizes the surface to w × h pixels.
	CreateCanvas(w, h int) error
	// ColorMode sets the channel ranges every later color is expressed in.
	ColorMode(m hsb.Mode)
	// Background clears the whole surface to c.
	Background(c hsb.Color)
	// NoFill disables polygon filling.
	NoFill()
	// Stroke sets the outline color.
	Stroke(c hsb.Color)
	// StrokeWeight sets the outline width in pixels.
	StrokeWeight(px float64)
}

// Frame carries the per-frame host state: the current surface extent, the
// frame counter and the noise field to sample.
type Frame struct {
	Width  int
	Height int
	T      int
	Noise  noise.Field
}

// Renderer draws frames for a fixed configuration. Draw keeps all working
// state on its own stack, so distinct frames may be drawn concurrently on
// distinct canvases.
type Renderer struct {
	cfg   config.Config
	ready atomic.Bool
}

// New validates cfg and returns a renderer for it.
func New(cfg config.Config) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Renderer{cfg: cfg}, nil
}

// Config returns the renderer's configuration.
func (r *Renderer) Config() config.Config { return r.cfg }

// Rings returns the number of rings drawn per frame.
func (r *Renderer) Rings() int { return r.cfg.Rings.Sweep.Count() }

// Frame returns a frame at counter t spanning the configured canvas.
func (r *Renderer) Frame(t int, field noise.Field) Frame {
	return Frame{Width: r.cfg.Canvas.Width, Height: r.cfg.Canvas.Height, T: t, Noise: field}
}

// Setup sizes c and sets its color mode. It must run before the first
// [Renderer.Draw].
func (r *Renderer) Setup(c Canvas) error {
	if err := c.CreateCanvas(r.cfg.Canvas.Width, r.cfg.Canvas.Height); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "failed to create %dx%d canvas",
			r.cfg.Canvas.Width, r.cfg.Canvas.Height)
	}
	c.ColorMode(r.cfg.ColorMode)
	r.ready.Store(true)
	return nil
}

// Draw renders frame f onto c.
//
// A noise field that breaks its [0, 1] contract surfaces as an
// ErrCodeNoiseRange error; the canvas may then hold a partial frame.
func (r *Renderer) Draw(f Frame, c Canvas) (err error) {
	if !r.ready.Load() {
		return errors.New(errors.ErrCodeNotSetup, "Draw called before Setup")
	}
	if err := r.checkFrame(f); err != nil {
		return err
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Recover(rec)
		}
	}()

	m := geom.NewMapper(f.Width, f.Height)
	c.Background(r.cfg.Style.Background)
	c.NoFill()
	c.Stroke(r.cfg.Style.Stroke)
	c.StrokeWeight(r.cfg.StrokeWidth(m.Width()))

	d := distort.New(r.cfg.Distortion, f.Noise)
	sweep := r.cfg.Rings.Sweep
	ring := make(geom.Polygon, 0, r.cfg.Rings.Sides)
	for i, n := 0, sweep.Count(); i < n; i++ {
		ring, err = geom.FillRegularPolygon(ring, r.cfg.Rings.Sides, sweep.At(i)*r.cfg.Rings.RadiusScale)
		if err != nil {
			return err
		}
		ring = d.DistortPolygon(ring, ring, f.T)
		emit(c, m, ring)
	}
	return nil
}

func (r *Renderer) checkFrame(f Frame) error {
	if f.Width <= 0 || f.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "frame must be at least 1x1 pixels, got %dx%d", f.Width, f.Height)
	}
	if err := errors.ValidateFrame(f.T); err != nil {
		return err
	}
	if f.Noise == nil && r.cfg.Distortion.Mode != distort.ModeNone {
		return errors.New(errors.ErrCodeInvalidInput, "frame has no noise field")
	}
	return nil
}

// emit writes poly as one closed polyline in pixel coordinates.
func emit(s PathSink, m geom.Mapper, poly geom.Polygon) {
	for k, p := range poly {
		x, y := m.Point(p)
		if k == 0 {
			s.MoveTo(x, y)
			continue
		}
		s.LineTo(x, y)
	}
	s.ClosePath()
}
