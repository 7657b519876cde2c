// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"slices"

	"github.com/invowk/riot/internal/session"

	"github.com/spf13/cobra"
)

func newGenerateCommand(app *App) *cobra.Command {
	var opts session.ProvisionOptions

	genCmd := &cobra.Command{
		Use:   "generate [pattern]",
		Short: "Provision base environments without running anything",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.openWorkspace(cmd.Context(), true)
			if err != nil {
				return app.fail(cmd, err)
			}

			opts.Pattern = patternArg(args)
			bases, err := ws.session.Provision(cmd.Context(), opts)
			if err != nil {
				return app.fail(cmd, err)
			}

			out := cmd.OutOrStdout()
			pys := make([]string, 0, len(bases.Venvs))
			for py := range bases.Venvs {
				pys = append(pys, py)
			}
			slices.Sort(pys)
			for _, py := range pys {
				fmt.Fprintf(out, "%s Python %s: %s\n", SuccessStyle.Render("✔"), py, bases.Venvs[py])
			}
			for _, py := range bases.Unavailable {
				fmt.Fprintf(out, "%s Python %s: %s\n", ErrorStyle.Render("✖"), py, "not available")
			}

			if len(bases.Unavailable) > 0 {
				cmd.SilenceUsage = true
				cmd.SilenceErrors = true
				return &ExitError{Code: 1}
			}
			return nil
		},
	}

	flags := genCmd.Flags()
	flags.BoolVarP(&opts.Recreate, "recreate-venvs", "r", false, "recreate the base environments")
	flags.BoolVarP(&opts.SkipDeps, "skip-base-install", "s", false, "do not install the project into the base environments")
	flags.StringSliceVarP(&opts.Pythons, "python", "p", nil, "only provision these Python versions")

	return genCmd
}
