// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/invowk/riot/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `riot config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage riot configuration",
		Long: `Manage riot configuration.

Configuration is read from the --config file, else from:
  - Linux: $XDG_CONFIG_HOME/riot/config.cue (~/.config/riot/config.cue)
  - macOS: ~/Library/Application Support/riot/config.cue
  - Windows: %APPDATA%\riot\config.cue
else from ./riot.config.cue. RIOT_* environment variables override it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}
			showConfig(cmd.OutOrStdout(), cfg)
			return nil
		},
	})

	var format string
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE or TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}

			out := cmd.OutOrStdout()
			switch format {
			case "cue":
				fmt.Fprint(out, config.GenerateCUE(cfg))
			case "toml":
				data, err := config.GenerateTOML(cfg)
				if err != nil {
					return app.fail(cmd, err)
				}
				fmt.Fprint(out, string(data))
			default:
				return fmt.Errorf("unknown format %q (valid: cue, toml)", format)
			}
			return nil
		},
	}
	dumpCmd.Flags().StringVar(&format, "format", "cue", "output format: cue or toml")
	cfgCmd.AddCommand(dumpCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.ConfigDir()
			if err != nil {
				return app.fail(cmd, err)
			}
			path, err := config.CreateDefaultConfig(dir)
			if err != nil {
				return app.fail(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", SuccessStyle.Render("Configuration file:"), path)
			return nil
		},
	})

	return cfgCmd
}

func showConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	source := SubtitleStyle.Render("(using defaults)")
	if cfg.Source != "" {
		source = cfg.Source
	}
	fmt.Fprintf(w, "%s: %s\n\n", KeyStyle.Render("Config file"), source)

	fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("env_dir"), cfg.EnvDir)
	fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("shell"), cfg.Shell)
	fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("executor"), cfg.Executor)

	fmt.Fprintf(w, "\n%s:\n", KeyStyle.Render("provision"))
	fmt.Fprintf(w, "  virtualenv: %s\n", cfg.Provision.Virtualenv)
	fmt.Fprintf(w, "  clone: %s\n", cfg.Provision.Clone)
	fmt.Fprintf(w, "  install: %s\n", cfg.Provision.Install)
	fmt.Fprintf(w, "  dev_install: %s\n", cfg.Provision.DevInstall)

	fmt.Fprintf(w, "\n%s:\n", KeyStyle.Render("ui"))
	fmt.Fprintf(w, "  verbose: %v\n", cfg.UI.Verbose)
	fmt.Fprintf(w, "  color: %s\n", cfg.UI.Color)
}
