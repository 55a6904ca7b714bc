package main

import (
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/knowledgehooks/khook/internal/tui"
)

func newWatchCmd(flags *rootFlags, build func(*rootFlags) (*AppContext, func(), error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Render a live dashboard over one evaluate() run",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := build(flags)
			if err != nil {
				return exitWithCode(exitMalformedInput, err)
			}
			defer cleanup()

			ctx, logger := app.CommandContext(cmd, "command.watch")

			if !term.IsTerminal(int(os.Stdout.Fd())) {
				if logger != nil {
					logger.Info(ctx, "stdout is not a terminal, falling back to plain evaluate output")
				}
				result, err := app.Orchestrator.Evaluate(ctx)
				if err != nil {
					return exitWithCode(exitInfraFailure, err)
				}
				encoded, _ := json.MarshalIndent(result, "", "  ")
				fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
				if result.WorkflowsExecuted > 0 && result.WorkflowsSuccessful < result.WorkflowsExecuted {
					return exitWithCode(exitWorkflowFailed, fmt.Errorf("%d of %d workflows failed", result.WorkflowsExecuted-result.WorkflowsSuccessful, result.WorkflowsExecuted))
				}
				if len(result.Metadata.MalformedHooks) > 0 {
					return exitWithCode(exitMalformedInput, fmt.Errorf("%d malformed hook(s) skipped", len(result.Metadata.MalformedHooks)))
				}
				return nil
			}

			m := tui.NewModel(ctx, app.Orchestrator)
			p := tea.NewProgram(m, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return exitWithCode(exitInfraFailure, err)
			}
			return nil
		},
	}

	return cmd
}
