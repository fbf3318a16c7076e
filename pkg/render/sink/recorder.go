package sink

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/noisering/pkg/errors"
	"github.com/matzehuels/noisering/pkg/hsb"
	"github.com/matzehuels/noisering/pkg/render"
)

var _ render.Canvas = (*Recorder)(nil)

// Op identifies a recorded canvas call.
type Op string

const (
	OpCreateCanvas Op = "createCanvas"
	OpColorMode    Op = "colorMode"
	OpBackground   Op = "background"
	OpNoFill       Op = "noFill"
	OpStroke       Op = "stroke"
	OpStrokeWeight Op = "strokeWeight"
	OpMoveTo       Op = "moveTo"
	OpLineTo       Op = "lineTo"
	OpClosePath    Op = "closePath"
)

// Call is one recorded canvas call. Only the fields relevant to Op are set.
type Call struct {
	Op     Op
	W, H   int       // OpCreateCanvas
	Mode   hsb.Mode  // OpColorMode
	Color  hsb.Color // OpBackground, OpStroke
	Weight float64   // OpStrokeWeight
	X, Y   float64   // OpMoveTo, OpLineTo
}

// Path is a polyline assembled from MoveTo and LineTo calls.
type Path struct {
	Vertices []r2.Vec
	Closed   bool
}

// Stats summarizes what a recorder has seen.
type Stats struct {
	Calls    int
	Paths    int
	Vertices int
}

// Recorder is a canvas that remembers every call in order.
type Recorder struct {
	calls  []Call
	paths  []Path
	open   *Path
	w, h   int
	mode   hsb.Mode
	weight float64
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// CreateCanvas records the canvas extent.
func (r *Recorder) CreateCanvas(w, h int) error {
	if w <= 0 || h <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "canvas must be at least 1x1 pixels, got %dx%d", w, h)
	}
	r.w, r.h = w, h
	r.record(Call{Op: OpCreateCanvas, W: w, H: h})
	return nil
}

// ColorMode records m and keeps it as the current mode.
func (r *Recorder) ColorMode(m hsb.Mode) {
	r.mode = m
	r.record(Call{Op: OpColorMode, Mode: m})
}

// Background records a clear to c.
func (r *Recorder) Background(c hsb.Color) { r.record(Call{Op: OpBackground, Color: c}) }

// NoFill records that closed paths stay unfilled.
func (r *Recorder) NoFill() { r.record(Call{Op: OpNoFill}) }

// Stroke records the outline color.
func (r *Recorder) Stroke(c hsb.Color) { r.record(Call{Op: OpStroke, Color: c}) }

// StrokeWeight records the outline width.
func (r *Recorder) StrokeWeight(px float64) {
	r.weight = px
	r.record(Call{Op: OpStrokeWeight, Weight: px})
}

// MoveTo finishes any open path and starts a new one at (x, y).
func (r *Recorder) MoveTo(x, y float64) {
	r.flush(false)
	r.open = &Path{Vertices: []r2.Vec{{X: x, Y: y}}}
	r.record(Call{Op: OpMoveTo, X: x, Y: y})
}

// LineTo appends (x, y) to the open path.
func (r *Recorder) LineTo(x, y float64) {
	if r.open == nil {
		r.open = &Path{}
	}
	r.open.Vertices = append(r.open.Vertices, r2.Vec{X: x, Y: y})
	r.record(Call{Op: OpLineTo, X: x, Y: y})
}

// ClosePath finishes the open path as a closed polyline.
func (r *Recorder) ClosePath() {
	r.flush(true)
	r.record(Call{Op: OpClosePath})
}

// Calls returns every call recorded since creation or the last Reset.
func (r *Recorder) Calls() []Call { return r.calls }

// Paths returns the completed polylines, including a trailing open one.
func (r *Recorder) Paths() []Path {
	if r.open != nil {
		return append(r.paths[:len(r.paths):len(r.paths)], *r.open)
	}
	return r.paths
}

// Size returns the canvas extent set by CreateCanvas.
func (r *Recorder) Size() (w, h int) { return r.w, r.h }

// Mode returns the last color mode set.
func (r *Recorder) Mode() hsb.Mode { return r.mode }

// StrokeWidth returns the last stroke weight set.
func (r *Recorder) StrokeWidth() float64 { return r.weight }

// Stats counts the recorded calls, paths and vertices.
func (r *Recorder) Stats() Stats {
	s := Stats{Calls: len(r.calls)}
	for _, p := range r.Paths() {
		s.Paths++
		s.Vertices += len(p.Vertices)
	}
	return s
}

// Reset drops recorded calls and paths but keeps the canvas size and mode,
// so the recorder can capture the next frame.
func (r *Recorder) Reset() {
	r.calls = nil
	r.paths = nil
	r.open = nil
}

func (r *Recorder) record(c Call) { r.calls = append(r.calls, c) }

func (r *Recorder) flush(closed bool) {
	if r.open == nil {
		return
	}
	r.open.Closed = closed
	r.paths = append(r.paths, *r.open)
	r.open = nil
}
