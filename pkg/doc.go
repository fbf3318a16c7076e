// Package pkg provides the core libraries of noisering.
//
// # Overview
//
// noisering draws a family of concentric regular polygons whose vertices are
// displaced through a 3D coherent noise field. The displacement breathes over
// time, so the rings collapse onto true polygons and swell back into a
// wobbling, organic form.
//
// The pkg directory is organized bottom-up:
//
//  1. [geom] - coordinate mapping, regular polygons, radius sweeps
//  2. [noise] - seeded fractal simplex noise with range checking
//  3. [distort] - the per-vertex displacement rule
//  4. [hsb] - color modes and HSB to RGB conversion
//  5. [config] - the parameter record, TOML files and sketch variants
//  6. [render] - per-frame drawing against a [render.Canvas]
//  7. [render/sink] - canvases: recorder, PNG raster, ANSI terminal, GIF
//  8. [pipeline] - orchestration (validate → draw → encode), animation fan-out
//  9. [cache] - in-memory frame cache
//  10. [observability] - render and serve hooks
//
// # Architecture
//
// The data flow of one frame:
//
//	config.Config
//	     ↓
//	[render] Renderer (sweep radii → polygons → distort → paths)
//	     ↓
//	[render/sink] Canvas (raster, terminal, recorder)
//	     ↓
//	PNG / ANSI / GIF output
//
// # Quick Start
//
// Render frame 100 of the animated sketch to PNG:
//
//	import (
//	    "context"
//	    "os"
//
//	    "github.com/matzehuels/noisering/pkg/pipeline"
//	)
//
//	result, err := pipeline.NewRunner(nil).RenderFrame(context.Background(), pipeline.Options{
//	    Frame: 100,
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("rings.png", result.Artifacts[pipeline.FormatPNG], 0o644)
//
// # Concurrency
//
// A [render.Renderer] keeps no per-frame state, so one renderer and one noise
// field may draw many frames at once as long as each goroutine owns its
// canvas. [pipeline.Runner.Animate] relies on this.
package pkg
