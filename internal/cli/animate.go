package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/noisering/pkg/observability"
	"github.com/matzehuels/noisering/pkg/pipeline"
	"github.com/matzehuels/noisering/pkg/render/sink"
)

// animateFlags are the output flags of the animate command.
type animateFlags struct {
	start   int
	frames  int
	fps     int
	format  string
	output  string
	scale   float64
	workers int
	palette string
	dither  bool

	startSet bool
}

// animateCommand creates the animate command for exporting a frame range.
func (c *CLI) animateCommand() *cobra.Command {
	var (
		sketch sketchFlags
		opts   = animateFlags{format: pipeline.FormatGIF, scale: pipeline.DefaultScale}
	)

	cmd := &cobra.Command{
		Use:   "animate",
		Short: "Render a frame range to an animated GIF or PNG sequence",
		Long: `Render a frame range to an animated GIF or PNG sequence.

Frames are rendered concurrently and written in order. With --format png the
output is a directory of numbered images (frame-000001.png, ...).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateAnimationFormat(opts.format); err != nil {
				return err
			}
			opts.startSet = cmd.Flags().Changed("start")
			return c.runAnimate(cmd.Context(), &sketch, opts)
		},
	}

	sketch.bind(cmd)
	cmd.Flags().IntVar(&opts.start, "start", 0, "first frame counter (default: animation start)")
	cmd.Flags().IntVarP(&opts.frames, "frames", "n", 0, "number of frames (default: animation frames)")
	cmd.Flags().IntVar(&opts.fps, "fps", 0, "playback rate (default: animation fps)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: gif (default), png")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (gif) or directory (png)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "device pixel ratio")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "concurrent frame renderers (default: GOMAXPROCS)")
	cmd.Flags().StringVar(&opts.palette, "palette", sink.PalettePlan9, "gif palette: plan9, websafe, gray")
	cmd.Flags().BoolVar(&opts.dither, "dither", false, "dither gif frames (Floyd-Steinberg)")

	return cmd
}

// runAnimate renders the animation and writes it to disk.
func (c *CLI) runAnimate(ctx context.Context, sketch *sketchFlags, opts animateFlags) error {
	logger := loggerFromContext(ctx)
	cfg, err := sketch.resolve()
	if err != nil {
		return err
	}
	if !opts.startSet {
		opts.start = cfg.Animation.Start
	}
	if opts.fps > 0 {
		cfg.Animation.FPS = opts.fps
	}

	popts := pipeline.Options{
		Config:  cfg,
		Format:  opts.format,
		Frame:   opts.start,
		Frames:  opts.frames,
		Workers: opts.workers,
		Scale:   opts.scale,
		Palette: opts.palette,
		Dither:  opts.dither,
		Logger:  logger,
	}
	if err := popts.ValidateForAnimation(); err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d frames...", popts.Frames))
	prev := observability.Render()
	observability.SetRenderHooks(&frameCounter{RenderHooks: prev, spinner: spinner, total: popts.Frames})
	defer observability.SetRenderHooks(prev)

	prog := newProgress(logger)
	spinner.Start()
	result, err := c.newRunner().Animate(ctx, popts)
	if err != nil {
		spinner.StopWithError("Animation failed")
		return fmt.Errorf("animate frames %d-%d: %w", popts.Frame, popts.LastFrame(), err)
	}
	spinner.Stop()

	paths, err := writeAnimation(result, popts, opts.output)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d frames", result.Stats.Frames), "workers", popts.Workers)

	printSuccess(c.Out, "Rendered frames %d-%d", popts.Frame, popts.LastFrame())
	for _, p := range paths {
		printFile(c.Out, p)
	}
	printStats(c.Out, result.Stats)
	return nil
}

// writeAnimation writes the GIF, or one PNG per frame into a directory, and
// returns what it wrote: the GIF path, or the directory for a PNG sequence.
func writeAnimation(result *pipeline.Result, opts pipeline.Options, output string) ([]string, error) {
	if opts.Format == pipeline.FormatGIF {
		path := output
		if path == "" {
			path = fmt.Sprintf("%s-%d-%d.gif", appName, opts.Frame, opts.LastFrame())
		}
		if err := writeFile(path, result.Artifacts[pipeline.FormatGIF]); err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	dir := output
	if dir == "" {
		dir = fmt.Sprintf("%s-%d-%d", appName, opts.Frame, opts.LastFrame())
	}
	dir = strings.TrimSuffix(dir, string(filepath.Separator))
	for i, data := range result.Frames {
		path := filepath.Join(dir, fmt.Sprintf("frame-%06d.png", opts.Frame+i))
		if err := writeFile(path, data); err != nil {
			return nil, err
		}
	}
	return []string{dir + string(filepath.Separator)}, nil
}

// frameCounter reports animation progress on a spinner and forwards every
// event to the hooks it replaced.
type frameCounter struct {
	observability.RenderHooks
	spinner *Spinner
	total   int
	done    atomic.Int64
}

func (f *frameCounter) OnFrameComplete(ctx context.Context, t int, rings int, d time.Duration, err error) {
	f.RenderHooks.OnFrameComplete(ctx, t, rings, d, err)
	if err != nil {
		return
	}
	n := f.done.Add(1)
	f.spinner.SetMessage(fmt.Sprintf("Rendering frames... %d/%d", n, f.total))
}
