package git

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// ChangeDetector detects files that have changed in git
type ChangeDetector struct {
	baseBranch string // branch to compare against (e.g., "main", "develop")
	run        func(args ...string) ([]byte, error)

	files  []string
	loaded bool
}

// NewChangeDetector creates a change detector backed by the git CLI
func NewChangeDetector(baseBranch string) *ChangeDetector {
	return &ChangeDetector{
		baseBranch: baseBranch,
		run: func(args ...string) ([]byte, error) {
			return exec.Command("git", args...).Output()
		},
	}
}

// NewStaticChangeDetector creates a change detector over an explicit file
// list, bypassing git entirely
func NewStaticChangeDetector(files []string) *ChangeDetector {
	cd := &ChangeDetector{loaded: true}
	cd.files = normalizeFiles(files)
	return cd
}

// GetChangedFiles returns files changed relative to the base branch plus any
// uncommitted changes (staged and unstaged). The result is computed once.
func (cd *ChangeDetector) GetChangedFiles() ([]string, error) {
	if cd.loaded {
		return cd.files, nil
	}

	// Unstaged modifications. Failure here means git is unusable.
	files, err := cd.names("diff", "--name-only")
	if err != nil {
		return nil, fmt.Errorf("git diff failed (is git installed and is this a repository?): %w", err)
	}
	files = append(files, cd.bestEffort("diff", "--cached", "--name-only")...)

	compareRef := cd.baseBranch
	if compareRef == "" {
		compareRef = "main"
	}

	// Try the base branch first, then origin/<base> (common in CI)
	branchFiles := cd.bestEffort("diff", "--name-only", compareRef)
	if len(branchFiles) == 0 {
		branchFiles = cd.bestEffort("diff", "--name-only", "origin/"+compareRef)
	}

	// Fall back to merge-base (works in detached HEAD state)
	if len(branchFiles) == 0 {
		if base := cd.mergeBase(compareRef); base != "" {
			branchFiles = cd.bestEffort("diff", "--name-only", base)
		}
	}
	files = append(files, branchFiles...)

	cd.files = normalizeFiles(files)
	cd.loaded = true
	return cd.files, nil
}

// IsPathChanged checks if any files under a given path have changed
func (cd *ChangeDetector) IsPathChanged(path string) (bool, error) {
	files, err := cd.GetChangedFiles()
	if err != nil {
		return false, err
	}

	if path == "" || path == "./" || path == "." {
		return len(files) > 0, nil
	}

	path = strings.TrimSuffix(filepath.ToSlash(filepath.Clean(path)), "/")
	for _, file := range files {
		if strings.HasPrefix(file, path+"/") || file == path {
			return true, nil
		}
	}

	return false, nil
}

// IsFileChanged checks if a single file (for example the matrix config) has
// changed. Changed files are repository-relative: a relative file must match
// one exactly, an absolute file must end with one at a directory boundary.
func (cd *ChangeDetector) IsFileChanged(file string) (bool, error) {
	files, err := cd.GetChangedFiles()
	if err != nil {
		return false, err
	}

	candidate := filepath.ToSlash(filepath.Clean(file))
	absolute := filepath.IsAbs(file)
	for _, changed := range files {
		if changed == candidate {
			return true, nil
		}
		if absolute && strings.HasSuffix(candidate, "/"+changed) {
			return true, nil
		}
	}
	return false, nil
}

// ChangedFolders reports which of the given folders under root contain changes
func (cd *ChangeDetector) ChangedFolders(root string, folders []string) (map[string]bool, error) {
	changed := make(map[string]bool)
	for _, folder := range folders {
		ok, err := cd.IsPathChanged(filepath.Join(root, folder))
		if err != nil {
			return nil, err
		}
		if ok {
			changed[folder] = true
		}
	}
	return changed, nil
}

func (cd *ChangeDetector) mergeBase(ref string) string {
	attempts := [][]string{
		{"merge-base", "--fork-point", ref},
		{"merge-base", "HEAD", ref},
		{"merge-base", "HEAD", "origin/" + ref},
	}
	for _, args := range attempts {
		out, err := cd.run(args...)
		if err == nil && len(strings.TrimSpace(string(out))) > 0 {
			return strings.TrimSpace(string(out))
		}
	}
	return ""
}

// names runs git and splits its output into file names
func (cd *ChangeDetector) names(args ...string) ([]string, error) {
	out, err := cd.run(args...)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(out))) == 0 {
		return nil, nil
	}
	return strings.Split(strings.TrimSpace(string(out)), "\n"), nil
}

// bestEffort is names with failures treated as "no files", for refs that
// may legitimately be missing (no local base branch, shallow clones)
func (cd *ChangeDetector) bestEffort(args ...string) []string {
	files, _ := cd.names(args...)
	return files
}

func normalizeFiles(files []string) []string {
	set := make(map[string]bool, len(files))
	for _, f := range files {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		set[filepath.ToSlash(filepath.Clean(f))] = true
	}

	result := make([]string, 0, len(set))
	for f := range set {
		result = append(result, f)
	}
	sort.Strings(result)
	return result
}
