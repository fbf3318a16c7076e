package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/matzehuels/noisering/pkg/pipeline"
)

// frameFlags are the per-frame output flags of the render command.
type frameFlags struct {
	frame  int
	format string
	output string
	scale  float64
	cols   int
	rows   int

	frameSet bool
}

// renderCommand creates the render command for drawing a single frame.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		sketch sketchFlags
		opts   = frameFlags{format: pipeline.FormatPNG, scale: pipeline.DefaultScale}
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a single frame to PNG or ANSI text",
		Long: `Render a single frame to PNG or ANSI text.

The frame counter drives the animation: frame 0 shows undistorted polygons,
the distortion peaks around frame 1571 and returns to zero every 3142 frames.
Without --frame the configured animation start is used.

ANSI output is written to stdout unless --output is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFrameFormat(opts.format); err != nil {
				return err
			}
			opts.frameSet = cmd.Flags().Changed("frame")
			return c.runRender(cmd.Context(), &sketch, opts)
		},
	}

	sketch.bind(cmd)
	cmd.Flags().IntVarP(&opts.frame, "frame", "t", 0, "frame counter (default: animation start)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: png (default), ansi")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default noisering-<frame>.png)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG device pixel ratio")
	cmd.Flags().IntVar(&opts.cols, "cols", pipeline.DefaultCols, "ANSI width in character cells")
	cmd.Flags().IntVar(&opts.rows, "rows", pipeline.DefaultRows, "ANSI height in character cells")

	return cmd
}

// runRender resolves the configuration, renders the frame and writes it.
func (c *CLI) runRender(ctx context.Context, sketch *sketchFlags, opts frameFlags) error {
	logger := loggerFromContext(ctx)
	cfg, err := sketch.resolve()
	if err != nil {
		return err
	}
	if !opts.frameSet {
		opts.frame = cfg.Animation.Start
	}

	toStdout := opts.format == pipeline.FormatANSI && opts.output == ""
	popts := pipeline.Options{
		Config:       cfg,
		Format:       opts.format,
		Frame:        opts.frame,
		Scale:        opts.scale,
		Cols:         opts.cols,
		Rows:         opts.rows,
		Logger:       logger,
		ANSIRenderer: ansiRenderer(c.Out, toStdout),
	}

	prog := newProgress(logger)
	result, err := c.newRunner().RenderFrame(ctx, popts)
	if err != nil {
		return fmt.Errorf("render frame %d: %w", opts.frame, err)
	}
	data := result.Artifacts[opts.format]

	if toStdout {
		_, err := fmt.Fprintln(c.Out, string(data))
		return err
	}

	path := opts.output
	if path == "" {
		path = defaultFramePath(opts.frame, opts.format)
	}
	if err := writeFile(path, data); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered frame %d", opts.frame), "format", opts.format)

	printSuccess(c.Out, "Rendered frame %d", opts.frame)
	printFile(c.Out, path)
	printStats(c.Out, result.Stats)
	return nil
}

// ansiRenderer returns a lipgloss renderer for ANSI output. Output bound for
// a terminal follows its color profile; files always get true color.
func ansiRenderer(w io.Writer, terminal bool) *lipgloss.Renderer {
	if terminal {
		return lipgloss.NewRenderer(w)
	}
	re := lipgloss.NewRenderer(io.Discard)
	re.SetColorProfile(termenv.TrueColor)
	return re
}

// defaultFramePath names the output of a single frame.
func defaultFramePath(frame int, format string) string {
	ext := format
	if format == pipeline.FormatANSI {
		ext = "ans"
	}
	return fmt.Sprintf("%s-%d.%s", appName, frame, ext)
}

// writeFile writes data to path, creating parent directories.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
