package expand

import (
	"fmt"

	"github.com/sourceplane/cigen/internal/model"
)

// Expander handles folder × target expansion
type Expander struct {
	config  *model.Config
	include func(model.BuildSpec) bool
}

// NewExpander creates a new expander over a normalized config
func NewExpander(config *model.Config) *Expander {
	return &Expander{config: config}
}

// WithFilter restricts expansion to builds for which include returns true
func (e *Expander) WithFilter(include func(model.BuildSpec) bool) *Expander {
	e.include = include
	return e
}

// Expand produces one Job per (folder, target) pair, preserving input order
func (e *Expander) Expand() []model.Job {
	jobs := make([]model.Job, 0, e.config.PairCount())

	for _, build := range e.config.Builds {
		if e.include != nil && !e.include(build) {
			continue
		}
		for _, target := range build.Targets {
			jobs = append(jobs, e.newJob(build.Folder, target))
		}
	}

	return jobs
}

func (e *Expander) newJob(folder, target string) model.Job {
	defaults := e.config.Jobs
	return model.Job{
		Name:    JobName(defaults.NamePrefix, folder, target),
		Folder:  folder,
		Target:  target,
		Stage:   defaults.Stage,
		Extends: e.config.Template.Key,
		Variables: model.Variables{
			{Name: defaults.FolderVariable, Value: folder},
			{Name: defaults.TargetVariable, Value: target},
		},
	}
}

// JobName derives the unique job key for a folder/target pair
func JobName(prefix, folder, target string) string {
	return fmt.Sprintf("%s_%s_%s", prefix, folder, target)
}
