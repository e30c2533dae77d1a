package main

import "github.com/spf13/cobra"

var (
	configFile   string
	outputFile   string
	debugMode    bool
	dryRun       bool
	changedOnly  bool
	baseBranch   string
	changedFiles []string
	solutionsDir string
	pipelineFile string
	byTarget     bool
)

var rootCmd = &cobra.Command{
	Use:          "cigen",
	Short:        "Generator engine: Build matrix → CI pipeline",
	Long:         "cigen expands a matrix of build folders and chip targets into a CI pipeline where every job extends one shared template",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Build matrix file (.yaml, .yml or .hcl); built-in matrix when empty")

	registerGenerateCommand(rootCmd)
	registerValidateCommand(rootCmd)
	registerJobsCommand(rootCmd)
	registerDebugCommand(rootCmd)
}
