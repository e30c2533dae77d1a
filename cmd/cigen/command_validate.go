package main

import "github.com/spf13/cobra"

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the build matrix or a generated pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		if pipelineFile != "" {
			return validatePipelineFile(cmd.OutOrStdout(), pipelineFile)
		}
		return validateMatrix(cmd.OutOrStdout(), configFile, debugMode)
	},
}

func registerValidateCommand(root *cobra.Command) {
	root.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&pipelineFile, "pipeline", "p", "", "Validate an existing generated pipeline file instead of the matrix")
	validateCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug output")
}
