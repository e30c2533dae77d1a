package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sourceplane/cigen/internal/expand"
	"github.com/sourceplane/cigen/internal/git"
	"github.com/sourceplane/cigen/internal/loader"
	"github.com/sourceplane/cigen/internal/model"
	"github.com/sourceplane/cigen/internal/normalize"
	"github.com/sourceplane/cigen/internal/render"
	"github.com/sourceplane/cigen/internal/schema"
)

type generateOptions struct {
	configFile   string
	outputFile   string
	debug        bool
	dryRun       bool
	changedOnly  bool
	baseBranch   string
	changedFiles []string
	solutionsDir string
}

// loadMatrix loads and normalizes the build matrix
func loadMatrix(out io.Writer, path string) (*model.Config, error) {
	source := path
	if source == "" {
		source = "built-in matrix"
	}
	fmt.Fprintf(out, "□ Loading build matrix (%s)...\n", source)
	cfg, err := loader.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load build matrix: %w", err)
	}

	fmt.Fprintln(out, "□ Normalizing build matrix...")
	normalized, err := normalize.NormalizeConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid build matrix: %w", err)
	}

	return normalized, nil
}

func generatePipeline(out, stdout io.Writer, opts generateOptions) error {
	cfg, err := loadMatrix(out, opts.configFile)
	if err != nil {
		return err
	}
	if len(cfg.Builds) == 0 {
		fmt.Fprintln(out, "! Build matrix is empty, generating skeleton only")
	}

	expander := expand.NewExpander(cfg)
	if opts.changedOnly {
		fmt.Fprintln(out, "□ Detecting changed folders...")
		include, err := changedFilter(out, cfg, opts)
		if err != nil {
			return fmt.Errorf("change detection failed: %w", err)
		}
		expander.WithFilter(include)
	}

	fmt.Fprintln(out, "□ Expanding (folder × target)...")
	jobs := expander.Expand()
	if opts.debug {
		fmt.Fprintf(out, "  Generated %d jobs from %d folders\n", len(jobs), len(cfg.Builds))
	}

	fmt.Fprintln(out, "□ Merging jobs into pipeline...")
	renderer := render.NewRenderer()
	doc, err := renderer.RenderDocument(cfg, jobs)
	if err != nil {
		return fmt.Errorf("failed to merge jobs: %w", err)
	}

	fmt.Fprintln(out, "□ Rendering pipeline...")
	data, err := renderer.RenderYAML(doc)
	if err != nil {
		return fmt.Errorf("failed to render pipeline: %w", err)
	}

	fmt.Fprintln(out, "□ Validating pipeline schema...")
	validator, err := schema.NewValidator()
	if err != nil {
		return err
	}
	if err := validator.ValidatePipeline(data); err != nil {
		return fmt.Errorf("generated pipeline failed validation: %w", err)
	}

	if opts.debug {
		fmt.Fprintln(out, "\n"+renderer.DebugDump(doc))
	}

	if opts.dryRun {
		if _, err := stdout.Write(data); err != nil {
			return fmt.Errorf("failed to write pipeline: %w", err)
		}
		fmt.Fprintf(out, "✓ Pipeline rendered with %d jobs (dry-run, nothing written)\n", len(jobs))
		return nil
	}

	if err := renderer.WriteFile(data, opts.outputFile); err != nil {
		return err
	}

	fmt.Fprintf(out, "✓ Pipeline generated with %d jobs\n", len(jobs))
	fmt.Fprintf(out, "✓ Saved to: %s\n", opts.outputFile)
	return nil
}

// changedFilter keeps builds whose folder under the solutions directory has
// changes. A changed matrix file keeps every build.
func changedFilter(out io.Writer, cfg *model.Config, opts generateOptions) (func(model.BuildSpec) bool, error) {
	var detector *git.ChangeDetector
	if len(opts.changedFiles) > 0 {
		detector = git.NewStaticChangeDetector(opts.changedFiles)
	} else {
		detector = git.NewChangeDetector(opts.baseBranch)
	}

	if opts.configFile != "" {
		matrixChanged, err := detector.IsFileChanged(opts.configFile)
		if err != nil {
			return nil, err
		}
		if matrixChanged {
			fmt.Fprintln(out, "  Build matrix changed, keeping every folder")
			return func(model.BuildSpec) bool { return true }, nil
		}
	}

	folders := make([]string, len(cfg.Builds))
	for i, b := range cfg.Builds {
		folders[i] = b.Folder
	}
	changed, err := detector.ChangedFolders(opts.solutionsDir, folders)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "  %d of %d folders changed\n", len(changed), len(folders))

	return func(b model.BuildSpec) bool { return changed[b.Folder] }, nil
}

func validateMatrix(out io.Writer, path string, debug bool) error {
	cfg, err := loadMatrix(out, path)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "✓ Build matrix is valid")

	fmt.Fprintln(out, "□ Checking job names...")
	jobs := expand.NewExpander(cfg).Expand()
	if _, err := render.NewRenderer().RenderDocument(cfg, jobs); err != nil {
		return fmt.Errorf("job name check failed: %w", err)
	}
	if debug {
		fmt.Fprintf(out, "  %d folders, %d jobs\n", len(cfg.Builds), len(jobs))
	}

	fmt.Fprintln(out, "✓ All validation passed")
	return nil
}

func validatePipelineFile(out io.Writer, path string) error {
	fmt.Fprintf(out, "□ Validating pipeline %s...\n", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read pipeline file: %w", err)
	}

	validator, err := schema.NewValidator()
	if err != nil {
		return err
	}
	if err := validator.ValidatePipeline(data); err != nil {
		return fmt.Errorf("pipeline %s is invalid: %w", path, err)
	}

	fmt.Fprintln(out, "✓ Pipeline is valid")
	return nil
}

func listJobs(out io.Writer, path string, args []string, groupByTarget bool) error {
	cfg, err := loader.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load build matrix: %w", err)
	}
	cfg, err = normalize.NormalizeConfig(cfg)
	if err != nil {
		return fmt.Errorf("invalid build matrix: %w", err)
	}

	viewer := render.NewMatrixViewer(cfg, expand.NewExpander(cfg).Expand())

	switch {
	case len(args) > 0:
		fmt.Fprintln(out, viewer.ViewFolder(args[0]))
	case groupByTarget:
		fmt.Fprintln(out, viewer.ViewByTarget())
	default:
		fmt.Fprintln(out, viewer.ViewTree())
	}

	if len(args) == 0 {
		fmt.Fprintln(out, "\nRun 'cigen jobs <folder>' for detailed information")
	}
	return nil
}

func debugMatrix(out io.Writer, path string) error {
	cfg, err := loadMatrix(out, path)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nMetadata: %+v\n", cfg.Metadata)
	fmt.Fprintf(out, "Variables: %d\n", len(cfg.Variables))
	for _, kv := range cfg.Variables {
		fmt.Fprintf(out, "  - %s=%v\n", kv.Name, kv.Value)
	}

	fmt.Fprintf(out, "Stages: %v\n", cfg.Stages)
	fmt.Fprintf(out, "Template: %s (before_script=%d, script=%d, artifacts=%d, expire_in=%q)\n",
		cfg.Template.Key, len(cfg.Template.BeforeScript), len(cfg.Template.Script),
		len(cfg.Template.Artifacts.Paths), cfg.Template.Artifacts.ExpireIn)
	fmt.Fprintf(out, "Jobs: stage=%s, prefix=%s, variables=%s/%s\n",
		cfg.Jobs.Stage, cfg.Jobs.NamePrefix, cfg.Jobs.FolderVariable, cfg.Jobs.TargetVariable)

	fmt.Fprintf(out, "Builds: %d (%d jobs)\n", len(cfg.Builds), cfg.PairCount())
	for _, b := range cfg.Builds {
		fmt.Fprintf(out, "  - %s: targets=%v\n", b.Folder, b.Targets)
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
