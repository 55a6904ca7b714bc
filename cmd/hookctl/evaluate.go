package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newEvaluateCmd(flags *rootFlags, build func(*rootFlags) (*AppContext, func(), error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Load the hook graph, evaluate every hook's predicate, and run triggered workflows",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := build(flags)
			if err != nil {
				return exitWithCode(exitMalformedInput, err)
			}
			defer cleanup()

			ctx, logger := app.CommandContext(cmd, "command.evaluate")
			result, err := app.Orchestrator.Evaluate(ctx)
			if err != nil {
				if logger != nil {
					logger.Error(ctx, "evaluate failed", "error", err.Error())
				}
				return exitWithCode(exitInfraFailure, err)
			}

			encoded, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return exitWithCode(exitInfraFailure, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(encoded))

			if result.WorkflowsExecuted > 0 && result.WorkflowsSuccessful < result.WorkflowsExecuted {
				return exitWithCode(exitWorkflowFailed, fmt.Errorf("%d of %d workflows failed", result.WorkflowsExecuted-result.WorkflowsSuccessful, result.WorkflowsExecuted))
			}
			if len(result.Metadata.MalformedHooks) > 0 {
				return exitWithCode(exitMalformedInput, fmt.Errorf("%d malformed hook(s) skipped", len(result.Metadata.MalformedHooks)))
			}
			return nil
		},
	}

	return cmd
}
