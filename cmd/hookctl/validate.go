package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/knowledgehooks/khook/internal/domain/hook"
)

func newValidateCmd(flags *rootFlags, build func(*rootFlags) (*AppContext, func(), error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <hook-id>",
		Short: "Parse and plan a single hook's pipelines without executing any step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := build(flags)
			if err != nil {
				return exitWithCode(exitMalformedInput, err)
			}
			defer cleanup()

			ctx, logger := app.CommandContext(cmd, "command.validate")
			id := hook.HookID(args[0])
			if err := app.Orchestrator.ValidateHook(ctx, id); err != nil {
				if logger != nil {
					logger.Warn(ctx, "validate failed", "hook_id", args[0], "error", err.Error())
				}
				return exitWithCode(classifyErr(err), err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", id)
			return nil
		},
	}

	return cmd
}
