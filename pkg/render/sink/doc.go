// Package sink provides drawing surfaces for the ring renderer.
//
// # Overview
//
// A "sink" implements [render.Canvas] and turns the renderer's draw calls
// into something a host can use. This package provides:
//
//   - [Recorder]: the raw call sequence, for determinism checks and stats
//   - [Raster]: an RGBA image drawn with fogleman/gg, encoded as PNG
//   - [Terminal]: a half-block character grid colored with lipgloss
//   - [GIF]: an animated GIF assembled from rasterized frames
//
// # Raster Output
//
//	canvas := sink.NewRaster(sink.WithScale(2))
//	if err := r.Setup(canvas); err != nil {
//	    return err
//	}
//	if err := r.Draw(frame, canvas); err != nil {
//	    return err
//	}
//	err = canvas.EncodePNG(w)
//
// [WithScale] multiplies the pixel grid and the stroke width, so a 400×400
// sketch at scale 2 yields an 800×800 image with 0.8 px strokes.
//
// # Terminal Output
//
// [Terminal] maps the sketch onto cols × rows character cells, each cell
// showing two vertically stacked pixels through the upper half block '▀'
// (foreground is the top pixel, background the bottom one). Lines are one
// cell pixel wide regardless of the stroke weight.
//
//	term := sink.NewTerminal(80, 40)
//	...
//	fmt.Println(term.String())
package sink
