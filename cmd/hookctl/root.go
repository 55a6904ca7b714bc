package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
}

func newRootCmd(flags *rootFlags, build func(*rootFlags) (*AppContext, func(), error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "hookctl",
		Short:         "hookctl drives the Knowledge Hook Engine's evaluate/list/validate/watch lifecycle",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "./engine.yaml", "Path to the engine configuration file")

	cmd.AddCommand(newEvaluateCmd(flags, build))
	cmd.AddCommand(newListCmd(flags, build))
	cmd.AddCommand(newValidateCmd(flags, build))
	cmd.AddCommand(newWatchCmd(flags, build))

	return cmd
}
