// Package cli implements the noisering command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/noisering/pkg/buildinfo"
	"github.com/matzehuels/noisering/pkg/config"
	"github.com/matzehuels/noisering/pkg/distort"
	"github.com/matzehuels/noisering/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "noisering"

	// configFileName is the file looked up in the config directory when no
	// --config flag is given.
	configFileName = "config.toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Out    io.Writer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "noisering draws noise-distorted concentric polygon rings",
		Long:         `noisering renders nested regular polygons whose vertices drift through a 3D noise field, as still frames, animations, a live terminal preview, or over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.animateCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// =============================================================================
// Paths
// =============================================================================

// configDir returns the config directory using XDG standard (~/.config/noisering/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// defaultConfigFile returns the user config file if it exists, or "".
func defaultConfigFile() string {
	dir, err := configDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, configFileName)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// =============================================================================
// Sketch Flags
// =============================================================================

// sketchFlags are the configuration flags shared by every drawing command.
// Precedence, lowest first: defaults, variant, config file, explicit flags.
type sketchFlags struct {
	configFile string
	variant    string
	size       int
	sides      int
	seed       int64
	amplitude  float64
	lenient    bool

	flags *pflag.FlagSet
}

// bind registers the flags on cmd.
func (s *sketchFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&s.configFile, "config", "c", "", "TOML config file (default ~/.config/noisering/config.toml if present)")
	fs.StringVar(&s.variant, "variant", string(config.VariantAnimated), "sketch preset: animated, basic, nudge, polygon, rings")
	fs.IntVar(&s.size, "size", config.DefaultSize, "canvas width and height in pixels")
	fs.IntVar(&s.sides, "sides", config.DefaultSides, "polygon side count")
	fs.Int64Var(&s.seed, "seed", 0, "noise seed")
	fs.Float64Var(&s.amplitude, "amplitude", distort.DefaultParams().Amplitude, "base distortion amplitude")
	fs.BoolVar(&s.lenient, "lenient", false, "clamp out-of-range noise instead of failing")
	s.flags = fs
}

// resolve builds the effective configuration.
func (s *sketchFlags) resolve() (config.Config, error) {
	v, err := config.ParseVariant(s.variant)
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Default().WithVariant(v)
	if err != nil {
		return config.Config{}, err
	}

	path := s.configFile
	if path == "" {
		path = defaultConfigFile()
	}
	if path != "" {
		if cfg, err = config.LoadInto(cfg, path); err != nil {
			return config.Config{}, err
		}
	}

	if s.changed("size") {
		cfg.Canvas = config.Canvas{Width: s.size, Height: s.size}
	}
	if s.changed("sides") {
		cfg.Rings.Sides = s.sides
	}
	if s.changed("seed") {
		cfg.Noise.Seed = s.seed
	}
	if s.changed("amplitude") {
		cfg.Distortion.Amplitude = s.amplitude
	}
	if s.changed("lenient") {
		cfg.Noise.Strict = !s.lenient
	}
	return cfg, cfg.Validate()
}

func (s *sketchFlags) changed(name string) bool {
	return s.flags != nil && s.flags.Changed(name)
}
