package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd(flags *rootFlags, build func(*rootFlags) (*AppContext, func(), error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every hook materialised from the graph directory, without evaluating or executing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := build(flags)
			if err != nil {
				return exitWithCode(exitMalformedInput, err)
			}
			defer cleanup()

			ctx, logger := app.CommandContext(cmd, "command.list")
			hooks, parseErrs, err := app.Orchestrator.ListHooks(ctx)
			if err != nil {
				if logger != nil {
					logger.Error(ctx, "list failed", "error", err.Error())
				}
				return exitWithCode(exitInfraFailure, err)
			}

			for _, h := range hooks {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d pipeline(s)\n", h.ID, h.Title, len(h.Pipelines))
			}
			for _, e := range parseErrs {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped: %v\n", e)
			}

			if len(parseErrs) > 0 {
				return exitWithCode(exitMalformedInput, fmt.Errorf("%d hook(s) could not be parsed", len(parseErrs)))
			}
			return nil
		},
	}

	return cmd
}
