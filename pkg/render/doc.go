// Package render draws one frame of noise-distorted concentric polygon rings.
//
// # Overview
//
// A [Renderer] is built from a [config.Config] and drives any [Canvas]. The
// canvas abstracts the drawing surface of a sketching host: it is told the
// canvas size and color mode once, then receives the background, stroke
// state and a sequence of closed polylines for every frame.
//
//	r, err := render.New(config.Default())
//	if err != nil {
//	    return err
//	}
//	canvas := sink.NewRecorder()
//	if err := r.Setup(canvas); err != nil {
//	    return err
//	}
//	err = r.Draw(r.Frame(42, noise.New(noise.DefaultOptions())), canvas)
//
// # Frame Composition
//
// [Renderer.Draw] clears the surface, disables fill, sets the stroke color
// and a stroke width proportional to the frame width, then walks the radius
// sweep from the innermost ring outward. Each ring is a regular polygon
// centered on the canvas whose vertices pass through the distorter before
// being mapped to pixels and emitted as MoveTo, LineTo..., ClosePath.
//
// A frame is a pure function of its counter and noise field: drawing the same
// frame twice produces identical call sequences.
//
// # Sinks
//
// Concrete canvases live in the [sink] subpackage: a call recorder, a PNG
// rasterizer, a half-block terminal grid and an animated GIF assembler.
//
// [sink]: github.com/matzehuels/noisering/pkg/render/sink
package render
