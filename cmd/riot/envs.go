// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/invowk/riot/internal/provision"

	"github.com/spf13/cobra"
)

func newEnvsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "envs",
		Short: "List provisioned environments",
		Long: `List the environments riot provisioned in the env directory, read from
the metadata file written into each of them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}

			envs, err := provision.ListEnvs(cfg.EnvDir)
			if err != nil {
				return app.fail(cmd, err)
			}

			out := cmd.OutOrStdout()
			if len(envs) == 0 {
				fmt.Fprintf(out, "No environments in %s\n", cfg.EnvDir)
				return nil
			}
			for _, env := range envs {
				fmt.Fprintln(out, envLine(env))
			}
			return nil
		},
	}
}

// envLine renders "<path>  python<py> [dev] <pkgs>  (updated <time>)".
func envLine(env provision.EnvInfo) string {
	parts := []string{KeyStyle.Render(env.Path), " python" + env.Python}
	if env.DevInstalled {
		parts = append(parts, " [dev]")
	}
	if len(env.Packages) > 0 {
		parts = append(parts, " "+strings.Join(env.Packages, " "))
	}
	if !env.Updated.IsZero() {
		parts = append(parts, SubtitleStyle.Render("  (updated "+env.Updated.Format(time.RFC3339)+")"))
	}
	return strings.Join(parts, "")
}
