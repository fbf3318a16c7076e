package pipeline

import (
	"bytes"
	"context"
	"image"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/noisering/pkg/errors"
	"github.com/matzehuels/noisering/pkg/observability"
	"github.com/matzehuels/noisering/pkg/render"
	"github.com/matzehuels/noisering/pkg/render/sink"
)

// Runner executes pipeline runs.
//
// The Runner is stateless except for the logger - it doesn't store
// results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// RenderFrame renders opts.Frame and encodes it as opts.Format.
func (r *Runner) RenderFrame(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForFrame(); err != nil {
		return nil, err
	}
	rd, err := render.New(opts.Config)
	if err != nil {
		return nil, err
	}

	result := &Result{Artifacts: make(map[string][]byte)}
	r.frameStats(rd, &result.Stats)

	var data []byte
	switch opts.Format {
	case FormatANSI:
		term := sink.NewTerminal(opts.Cols, opts.Rows, sink.WithRenderer(opts.ANSIRenderer))
		if err := r.draw(ctx, rd, term, opts, opts.Frame, &result.Stats); err != nil {
			return nil, err
		}
		encodeStart := time.Now()
		data = []byte(term.String())
		result.Stats.EncodeTime = time.Since(encodeStart)
	default:
		raster := sink.NewRaster(sink.WithScale(opts.Scale))
		if err := r.draw(ctx, rd, raster, opts, opts.Frame, &result.Stats); err != nil {
			return nil, err
		}
		encodeStart := time.Now()
		var buf bytes.Buffer
		if err := raster.EncodePNG(&buf); err != nil {
			return nil, err
		}
		data = buf.Bytes()
		result.Stats.EncodeTime = time.Since(encodeStart)
	}

	result.Artifacts[opts.Format] = data
	result.Stats.Frames = 1
	result.Stats.Bytes = len(data)

	opts.Logger.Debug("rendered frame",
		"t", opts.Frame,
		"format", opts.Format,
		"bytes", len(data),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Animate renders opts.Frames consecutive frames starting at opts.Frame and
// encodes them as an animated GIF or a PNG sequence. Frames are drawn
// concurrently by up to opts.Workers goroutines.
func (r *Runner) Animate(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForAnimation(); err != nil {
		return nil, err
	}
	rd, err := render.New(opts.Config)
	if err != nil {
		return nil, err
	}

	result := &Result{Artifacts: make(map[string][]byte)}
	r.frameStats(rd, &result.Stats)

	renderStart := time.Now()
	images := make([]image.Image, opts.Frames)
	var pngs [][]byte
	if opts.Format == FormatPNG {
		pngs = make([][]byte, opts.Frames)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := range images {
		g.Go(func() error {
			raster := sink.NewRaster(sink.WithScale(opts.Scale))
			var stats Stats
			if err := r.draw(gctx, rd, raster, opts, opts.Frame+i, &stats); err != nil {
				return err
			}
			if pngs == nil {
				images[i] = raster.Image()
				return nil
			}
			var buf bytes.Buffer
			if err := raster.EncodePNG(&buf); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "frame %d", opts.Frame+i)
			}
			pngs[i] = buf.Bytes()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	result.Stats.RenderTime = time.Since(renderStart)
	result.Stats.Frames = opts.Frames

	opts.Logger.Info("rendered frames",
		"first", opts.Frame,
		"last", opts.LastFrame(),
		"workers", opts.Workers,
		"duration", result.Stats.RenderTime)

	encodeStart := time.Now()
	if pngs != nil {
		result.Frames = pngs
		for _, data := range pngs {
			result.Stats.Bytes += len(data)
		}
	} else {
		gifOpts := []sink.GIFOption{sink.WithPalette(sink.Palettes[opts.Palette])}
		if opts.Dither {
			gifOpts = append(gifOpts, sink.WithDither())
		}
		anim := sink.NewGIF(opts.Config.Animation.FPS, gifOpts...)
		for _, img := range images {
			anim.Add(img)
		}
		var buf bytes.Buffer
		if err := anim.Encode(&buf); err != nil {
			return nil, err
		}
		result.Artifacts[FormatGIF] = buf.Bytes()
		result.Stats.Bytes = buf.Len()
	}
	result.Stats.EncodeTime = time.Since(encodeStart)

	opts.Logger.Info("encoded animation",
		"format", opts.Format,
		"frames", result.Stats.Frames,
		"bytes", result.Stats.Bytes,
		"duration", result.Stats.EncodeTime)

	return result, nil
}

// draw sets up canvas and renders frame t onto it, reporting to the render
// hooks.
func (r *Runner) draw(ctx context.Context, rd *render.Renderer, canvas render.Canvas, opts Options, t int, stats *Stats) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	hooks := observability.Render()
	hooks.OnFrameStart(ctx, t)
	start := time.Now()
	defer func() {
		stats.RenderTime = time.Since(start)
		hooks.OnFrameComplete(ctx, t, rd.Rings(), stats.RenderTime, err)
	}()

	if err := rd.Setup(canvas); err != nil {
		return err
	}
	return rd.Draw(rd.Frame(t, opts.Noise), canvas)
}

func (r *Runner) frameStats(rd *render.Renderer, stats *Stats) {
	stats.Rings = rd.Rings()
	stats.Vertices = stats.Rings * rd.Config().Rings.Sides
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
