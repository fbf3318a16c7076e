package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/noisering/pkg/noise"
	"github.com/matzehuels/noisering/pkg/observability"
	"github.com/matzehuels/noisering/pkg/pipeline"
)

// previewCommand creates the preview command for the live terminal view.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		sketch sketchFlags
		start  int
		fps    int
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Play the animation in the terminal",
		Long: `Play the animation in the terminal using half-block characters.

The frame counter advances once per tick at the configured rate. The picture
follows the window size. Press q, esc or ctrl+c to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sketch.resolve()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("frame") {
				start = cfg.Animation.Start
			}
			if fps > 0 {
				cfg.Animation.FPS = fps
			}

			// The picture owns the screen; frame logs would tear it.
			prev := observability.Render()
			observability.SetRenderHooks(observability.NoopRenderHooks{})
			defer observability.SetRenderHooks(prev)

			quiet := log.New(io.Discard)
			opts := pipeline.Options{
				Config: cfg,
				Format: pipeline.FormatANSI,
				Frame:  start,
				Noise:  noise.New(cfg.Noise),
				Logger: quiet,
			}
			if err := opts.ValidateForFrame(); err != nil {
				return err
			}
			m := newPreviewModel(cmd.Context(), pipeline.NewRunner(quiet), opts, start)

			loggerFromContext(cmd.Context()).Debug("starting preview", "frame", start, "fps", cfg.Animation.FPS)
			final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return fmt.Errorf("preview: %w", err)
			}
			if pm, ok := final.(previewModel); ok && pm.err != nil {
				return pm.err
			}
			return nil
		},
	}

	sketch.bind(cmd)
	cmd.Flags().IntVarP(&start, "frame", "t", 0, "first frame counter (default: animation start)")
	cmd.Flags().IntVar(&fps, "fps", 0, "frames per second (default: animation fps)")
	return cmd
}

// =============================================================================
// Preview Model
// =============================================================================

type previewTickMsg time.Time

// previewModel is the bubbletea model of the preview command.
type previewModel struct {
	ctx    context.Context
	runner *pipeline.Runner
	opts   pipeline.Options
	frame  int
	width  int
	height int
	view   string
	err    error
}

func newPreviewModel(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, start int) previewModel {
	return previewModel{ctx: ctx, runner: runner, opts: opts, frame: start}
}

func (m previewModel) Init() tea.Cmd {
	return m.tick()
}

func (m previewModel) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(max(m.opts.Config.Animation.FPS, 1)), func(t time.Time) tea.Msg {
		return previewTickMsg(t)
	})
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.view = m.draw()

	case previewTickMsg:
		m.frame++
		m.view = m.draw()
		if m.err != nil {
			return m, tea.Quit
		}
		return m, m.tick()
	}

	return m, nil
}

// draw renders the current frame into the largest square that fits the
// window above the status line. Half blocks make cells two pixels tall.
func (m *previewModel) draw() string {
	side := min(m.width, 2*(m.height-1))
	if side < 2 {
		return ""
	}
	opts := m.opts
	opts.Frame = m.frame
	opts.Cols = side
	opts.Rows = side / 2

	result, err := m.runner.RenderFrame(m.ctx, opts)
	if err != nil {
		m.err = err
		return ""
	}
	return string(result.Artifacts[pipeline.FormatANSI])
}

func (m previewModel) View() string {
	if m.err != nil {
		return StyleWarning.Render(m.err.Error()) + "\n"
	}
	if m.view == "" {
		return StyleDim.Render("Waiting for window size...")
	}
	status := StyleDim.Render(fmt.Sprintf("frame %d · %d fps · q to quit", m.frame, m.opts.Config.Animation.FPS))
	return m.view + "\n" + status
}
