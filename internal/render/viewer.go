package render

import (
	"fmt"
	"strings"

	"github.com/sourceplane/cigen/internal/expand"
	"github.com/sourceplane/cigen/internal/model"
)

// MatrixViewer provides human-readable views of an expanded build matrix
type MatrixViewer struct {
	config   *model.Config
	jobs     []model.Job
	analyzer *expand.MatrixAnalyzer
}

// NewMatrixViewer creates a new matrix viewer
func NewMatrixViewer(config *model.Config, jobs []model.Job) *MatrixViewer {
	return &MatrixViewer{
		config:   config,
		jobs:     jobs,
		analyzer: expand.NewMatrixAnalyzer(jobs),
	}
}

// ViewTree returns a folder → job tree of the whole matrix
func (mv *MatrixViewer) ViewTree() string {
	if len(mv.jobs) == 0 {
		return "No jobs in matrix"
	}

	folders := mv.analyzer.ByFolder()

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [stage: %s]\n", mv.config.Template.Key, mv.config.Jobs.Stage)

	for i, folder := range folders {
		isLastFolder := i == len(folders)-1

		folderPrefix := "├─ "
		connector := "│  "
		if isLastFolder {
			folderPrefix = "└─ "
			connector = "   "
		}
		fmt.Fprintf(&sb, "%s%s (%d targets)\n", folderPrefix, folder.Name, len(folder.Jobs))

		for j, job := range folder.Jobs {
			jobPrefix := "├─ "
			if j == len(folder.Jobs)-1 {
				jobPrefix = "└─ "
			}
			fmt.Fprintf(&sb, "%s%s%s [%s]\n", connector, jobPrefix, job.Name, job.Target)
		}
	}

	sb.WriteString("═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(&sb, "Summary: %d folders, %d targets, %d jobs\n", len(folders), len(mv.analyzer.Targets()), len(mv.jobs))

	return sb.String()
}

// ViewByTarget shows which folders build for each target
func (mv *MatrixViewer) ViewByTarget() string {
	if len(mv.jobs) == 0 {
		return "No jobs in matrix"
	}

	var sb strings.Builder
	sb.WriteString("Jobs by Target\n")
	sb.WriteString("═══════════════════════════════════════════════════════════\n\n")

	for _, target := range mv.analyzer.ByTarget() {
		fmt.Fprintf(&sb, "%s (%d jobs)\n", target.Name, len(target.Jobs))
		for i, job := range target.Jobs {
			prefix := "├─ "
			if i == len(target.Jobs)-1 {
				prefix = "└─ "
			}
			fmt.Fprintf(&sb, "%s%s (%s)\n", prefix, job.Name, job.Folder)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// ViewFolder shows a folder-focused view with every job and its variables
func (mv *MatrixViewer) ViewFolder(name string) string {
	folder, ok := mv.analyzer.Folder(name)
	if !ok {
		return fmt.Sprintf("No jobs found for folder: %s", name)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s]\n", folder.Name, mv.config.Template.Key)
	sb.WriteString("═══════════════════════════════════════════════════════════\n\n")

	for i, job := range folder.Jobs {
		prefix := "├─ "
		connector := "│  "
		if i == len(folder.Jobs)-1 {
			prefix = "└─ "
			connector = "   "
		}

		fmt.Fprintf(&sb, "%s%s\n", prefix, job.Name)
		fmt.Fprintf(&sb, "%s  Stage: %s\n", connector, job.Stage)
		fmt.Fprintf(&sb, "%s  Extends: %s\n", connector, job.Extends)
		fmt.Fprintf(&sb, "%s  Variables:\n", connector)
		for _, kv := range job.Variables {
			fmt.Fprintf(&sb, "%s    %s: %v\n", connector, kv.Name, kv.Value)
		}
	}

	return sb.String()
}
