package expand

import (
	"sort"

	"github.com/sourceplane/cigen/internal/model"
)

// MatrixAnalyzer groups expanded jobs for inspection
type MatrixAnalyzer struct {
	jobs []model.Job
}

// NewMatrixAnalyzer creates a new analyzer over expanded jobs
func NewMatrixAnalyzer(jobs []model.Job) *MatrixAnalyzer {
	return &MatrixAnalyzer{jobs: jobs}
}

// Group is a set of jobs sharing a folder or a target
type Group struct {
	Name string
	Jobs []model.Job
}

// ByFolder groups jobs by folder, keeping matrix order
func (ma *MatrixAnalyzer) ByFolder() []Group {
	return ma.group(func(j model.Job) string { return j.Folder })
}

// ByTarget groups jobs by target, sorted by target name
func (ma *MatrixAnalyzer) ByTarget() []Group {
	groups := ma.group(func(j model.Job) string { return j.Target })
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Name < groups[j].Name
	})
	return groups
}

// Folder returns the jobs for one folder
func (ma *MatrixAnalyzer) Folder(name string) (Group, bool) {
	for _, g := range ma.ByFolder() {
		if g.Name == name {
			return g, true
		}
	}
	return Group{}, false
}

// Targets returns the distinct targets in the matrix, sorted
func (ma *MatrixAnalyzer) Targets() []string {
	groups := ma.ByTarget()
	targets := make([]string, len(groups))
	for i, g := range groups {
		targets[i] = g.Name
	}
	return targets
}

func (ma *MatrixAnalyzer) group(key func(model.Job) string) []Group {
	index := make(map[string]int)
	groups := make([]Group, 0)

	for _, job := range ma.jobs {
		k := key(job)
		i, exists := index[k]
		if !exists {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Name: k})
		}
		groups[i].Jobs = append(groups[i].Jobs, job)
	}

	return groups
}
