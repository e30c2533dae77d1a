package normalize

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/sourceplane/cigen/internal/model"
)

// Configuration errors. Returned errors wrap one of these.
var (
	ErrEmptyFolder        = errors.New("build folder must not be empty")
	ErrInvalidFolder      = errors.New("build folder must be a single path segment without whitespace")
	ErrDuplicateFolder    = errors.New("build folder is listed more than once")
	ErrNoTargets          = errors.New("build must list at least one target")
	ErrInvalidTarget      = errors.New("target must be a non-empty token without whitespace")
	ErrDuplicateTarget    = errors.New("target is listed more than once for the same folder")
	ErrInvalidTemplateKey = errors.New("template key must start with '.'")
	ErrEmptyScript        = errors.New("template script must not be empty")
	ErrArtifactsNoPaths   = errors.New("template artifacts set expire_in without any paths")
	ErrNoStages           = errors.New("at least one stage is required")
	ErrUnknownStage       = errors.New("job stage is not declared in stages")
	ErrInvalidVariable    = errors.New("variable name must be a non-empty token without whitespace")
	ErrInvalidNamePrefix  = errors.New("job name prefix must be a non-empty token without whitespace")
	ErrDuplicateVariable  = errors.New("variable is declared more than once")
)

// NormalizeConfig returns a canonical copy of cfg: whitespace trimmed, empty
// job settings defaulted, and every matrix invariant checked. The input is
// not modified.
func NormalizeConfig(cfg *model.Config) (*model.Config, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	normalized := cfg.Clone()

	if err := normalizeVariables(normalized.Variables); err != nil {
		return nil, err
	}

	// Stages
	stages := make([]string, 0, len(normalized.Stages))
	for _, s := range normalized.Stages {
		if s = strings.TrimSpace(s); s != "" {
			stages = append(stages, s)
		}
	}
	if len(stages) == 0 {
		return nil, ErrNoStages
	}
	normalized.Stages = stages

	// Job defaults
	jobs := &normalized.Jobs
	jobs.Stage = strings.TrimSpace(jobs.Stage)
	if jobs.Stage == "" {
		jobs.Stage = stages[0]
	}
	if !contains(stages, jobs.Stage) {
		return nil, fmt.Errorf("%w: %q (stages: %s)", ErrUnknownStage, jobs.Stage, strings.Join(stages, ", "))
	}
	if jobs.NamePrefix = strings.TrimSpace(jobs.NamePrefix); jobs.NamePrefix == "" {
		jobs.NamePrefix = model.DefaultNamePrefix
	}
	if jobs.FolderVariable = strings.TrimSpace(jobs.FolderVariable); jobs.FolderVariable == "" {
		jobs.FolderVariable = model.DefaultFolderVariable
	}
	if jobs.TargetVariable = strings.TrimSpace(jobs.TargetVariable); jobs.TargetVariable == "" {
		jobs.TargetVariable = model.DefaultTargetVariable
	}
	if !isToken(jobs.NamePrefix) {
		return nil, fmt.Errorf("jobs.namePrefix %q: %w", jobs.NamePrefix, ErrInvalidNamePrefix)
	}
	if !isToken(jobs.FolderVariable) || !isToken(jobs.TargetVariable) {
		return nil, fmt.Errorf("jobs variables %q/%q: %w", jobs.FolderVariable, jobs.TargetVariable, ErrInvalidVariable)
	}
	if jobs.FolderVariable == jobs.TargetVariable {
		return nil, fmt.Errorf("jobs variables %q: %w", jobs.FolderVariable, ErrDuplicateVariable)
	}

	// Template
	tmpl := &normalized.Template
	if tmpl.Key = strings.TrimSpace(tmpl.Key); tmpl.Key == "" {
		tmpl.Key = model.DefaultTemplateKey
	}
	if !strings.HasPrefix(tmpl.Key, ".") || len(tmpl.Key) < 2 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTemplateKey, tmpl.Key)
	}
	if len(tmpl.Script) == 0 {
		return nil, ErrEmptyScript
	}
	tmpl.Artifacts.ExpireIn = strings.TrimSpace(tmpl.Artifacts.ExpireIn)
	if tmpl.Artifacts.ExpireIn != "" && len(tmpl.Artifacts.Paths) == 0 {
		return nil, fmt.Errorf("%w: expire_in %q", ErrArtifactsNoPaths, tmpl.Artifacts.ExpireIn)
	}

	// Builds
	seen := make(map[string]int, len(normalized.Builds))
	for i := range normalized.Builds {
		b := &normalized.Builds[i]
		if err := normalizeBuild(b); err != nil {
			return nil, fmt.Errorf("builds[%d]: %w", i, err)
		}
		if prev, dup := seen[b.Folder]; dup {
			return nil, fmt.Errorf("builds[%d] %q (first at builds[%d]): %w", i, b.Folder, prev, ErrDuplicateFolder)
		}
		seen[b.Folder] = i
	}

	return normalized, nil
}

func normalizeBuild(b *model.BuildSpec) error {
	b.Folder = strings.TrimSpace(b.Folder)
	if b.Folder == "" {
		return ErrEmptyFolder
	}
	if !isToken(b.Folder) || strings.ContainsAny(b.Folder, `/\`) || strings.HasPrefix(b.Folder, ".") {
		return fmt.Errorf("%q: %w", b.Folder, ErrInvalidFolder)
	}
	if len(b.Targets) == 0 {
		return fmt.Errorf("%q: %w", b.Folder, ErrNoTargets)
	}

	seen := make(map[string]bool, len(b.Targets))
	for i, target := range b.Targets {
		target = strings.TrimSpace(target)
		if !isToken(target) {
			return fmt.Errorf("%q targets[%d] %q: %w", b.Folder, i, b.Targets[i], ErrInvalidTarget)
		}
		if seen[target] {
			return fmt.Errorf("%q target %q: %w", b.Folder, target, ErrDuplicateTarget)
		}
		seen[target] = true
		b.Targets[i] = target
	}

	return nil
}

func normalizeVariables(vars model.Variables) error {
	seen := make(map[string]bool, len(vars))
	for _, v := range vars {
		if !isToken(v.Name) {
			return fmt.Errorf("variable %q: %w", v.Name, ErrInvalidVariable)
		}
		if seen[v.Name] {
			return fmt.Errorf("variable %q: %w", v.Name, ErrDuplicateVariable)
		}
		seen[v.Name] = true
	}
	return nil
}

// isToken reports whether s is non-empty and free of whitespace
func isToken(s string) bool {
	if s == "" {
		return false
	}
	return strings.IndexFunc(s, unicode.IsSpace) < 0
}

// contains checks if a slice contains a string
func contains(slice []string, item string) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}
