package main

import "github.com/spf13/cobra"

var jobsCmd = &cobra.Command{
	Use:     "jobs [folder]",
	Aliases: []string{"job"},
	Short:   "List the jobs the matrix expands to",
	Long:    "Show every generated job grouped by folder. Use 'cigen jobs <folder>' for one folder's jobs and variables.",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return listJobs(cmd.OutOrStdout(), configFile, args, byTarget)
	},
}

func registerJobsCommand(root *cobra.Command) {
	root.AddCommand(jobsCmd)

	jobsCmd.Flags().BoolVarP(&byTarget, "by-target", "t", false, "Group jobs by target instead of folder")
}
