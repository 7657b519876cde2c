// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/invowk/riot/internal/session"

	"github.com/spf13/cobra"
)

func newRunCommand(app *App) *cobra.Command {
	var opts session.RunOptions

	runCmd := &cobra.Command{
		Use:   "run [pattern]",
		Short: "Run the instances of the riotfile",
		Long: `Provision the base environment of every Python version in use, then run
each matching instance in its own environment and print a summary.

The exit status is 0 only when every instance passed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.openWorkspace(cmd.Context(), true)
			if err != nil {
				return app.fail(cmd, err)
			}

			opts.Pattern = patternArg(args)
			report, err := ws.session.Run(cmd.Context(), opts)
			if err != nil {
				return app.fail(cmd, err)
			}

			passed, failed := report.Counts()
			ws.logger.Debug("run finished", "passed", passed, "failed", failed, "interrupted", report.Interrupted)
			if report.Failed() {
				cmd.SilenceUsage = true
				cmd.SilenceErrors = true
				return &ExitError{Code: 1}
			}
			return nil
		},
	}

	flags := runCmd.Flags()
	flags.BoolVarP(&opts.RecreateVenvs, "recreate-venvs", "r", false, "recreate the base environments")
	flags.BoolVarP(&opts.SkipBaseInstall, "skip-base-install", "s", false, "do not install the project into the base environments")
	flags.BoolVar(&opts.PassEnv, "pass-env", false, "start instance environments from the current environment")
	flags.StringVar(&opts.CmdArgs, "cmdargs", "", "arguments substituted for {cmdargs} in commands")
	flags.StringSliceVarP(&opts.Pythons, "python", "p", nil, "only run instances for these Python versions")
	flags.StringArrayVar(&opts.EnvFiles, "env-file", nil, "dotenv file loaded into every instance (suffix with ? if optional)")

	return runCmd
}
