package main

import "github.com/spf13/cobra"

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Generate the CI pipeline from the build matrix",
	RunE: func(cmd *cobra.Command, args []string) error {
		progress := cmd.OutOrStdout()
		if dryRun {
			progress = cmd.ErrOrStderr()
		}
		return generatePipeline(progress, cmd.OutOrStdout(), generateOptions{
			configFile:   configFile,
			outputFile:   outputFile,
			debug:        debugMode,
			dryRun:       dryRun,
			changedOnly:  changedOnly,
			baseBranch:   baseBranch,
			changedFiles: changedFiles,
			solutionsDir: solutionsDir,
		})
	},
}

func registerGenerateCommand(root *cobra.Command) {
	root.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "generated_ci.yml", "Output pipeline file path")
	generateCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug output")
	generateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the pipeline to stdout instead of writing it")
	generateCmd.Flags().BoolVar(&changedOnly, "changed", false, "Only generate jobs for folders with changes (requires git unless --files is set)")
	generateCmd.Flags().StringVar(&baseBranch, "base", "main", "Base branch for change detection")
	generateCmd.Flags().StringSliceVar(&changedFiles, "files", nil, "Comma-separated changed files (overrides git diff calculation)")
	generateCmd.Flags().StringVar(&solutionsDir, "solutions-dir", "solutions", "Directory that holds the build folders, used by --changed")
}
