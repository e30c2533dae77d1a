package main

import "github.com/spf13/cobra"

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Debug matrix processing",
	RunE: func(cmd *cobra.Command, args []string) error {
		return debugMatrix(cmd.OutOrStdout(), configFile)
	},
}

func registerDebugCommand(root *cobra.Command) {
	root.AddCommand(debugCmd)
}
