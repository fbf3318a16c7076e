package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/noisering/pkg/config"
)

// configCommand creates the config command and its subcommands.
func (c *CLI) configCommand() *cobra.Command {
	var sketch sketchFlags

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Long: `Print the effective configuration as TOML.

The output merges the defaults, the chosen variant, the config file and any
flags, and can be saved as a starting point for a config file:

  noisering config --variant nudge > ~/.config/noisering/config.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sketch.resolve()
			if err != nil {
				return err
			}
			return cfg.Encode(c.Out)
		},
	}
	sketch.bind(cmd)

	cmd.AddCommand(c.configValidateCommand())
	cmd.AddCommand(c.configVariantsCommand())
	cmd.AddCommand(c.configPathCommand())
	return cmd
}

// configValidateCommand checks config files without rendering anything.
func (c *CLI) configValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check config files for unknown keys and invalid values",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var failed int
			for _, path := range args {
				if _, err := config.Load(path); err != nil {
					printError(c.Out, "%v", err)
					failed++
					continue
				}
				printSuccess(c.Out, "%s is valid", path)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d config files invalid", failed, len(args))
			}
			return nil
		},
	}
}

// configVariantsCommand lists the sketch presets.
func (c *CLI) configVariantsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "List the sketch presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(c.Out, StyleTitle.Render("Variants"))
			for _, v := range config.Variants() {
				cfg, err := config.Default().WithVariant(v)
				if err != nil {
					return err
				}
				r := cfg.Rings
				printKeyValue(c.Out, string(v), fmt.Sprintf("%d rings of %d sides, radius %g..%g, distortion %s",
					r.Sweep.Count(), r.Sides, r.Sweep.Start*r.RadiusScale, r.Sweep.Stop*r.RadiusScale, cfg.Distortion.Mode))
			}
			return nil
		},
	}
}

// configPathCommand prints where the default config file is looked up.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the default config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := configDir()
			if err != nil {
				return err
			}
			path := filepath.Join(dir, configFileName)
			printFile(c.Out, path)
			if defaultConfigFile() == "" {
				printWarning(c.Out, "no config file found, defaults are used")
			}
			return nil
		},
	}
}
