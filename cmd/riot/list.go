// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"
)

func newListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list [pattern]",
		Short: "List the instances of the riotfile",
		Long: `List every instance the riotfile expands to, one per line:

  <name> <VAR=value ...> Python <version> '<package><spec>' ...

The optional pattern is a regular expression matched against the start of
the instance names.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.openWorkspace(cmd.Context(), false)
			if err != nil {
				return app.fail(cmd, err)
			}

			if err := ws.session.List(cmd.Context(), patternArg(args), cmd.OutOrStdout()); err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}
}

func patternArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
