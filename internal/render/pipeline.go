package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/sourceplane/cigen/internal/model"
	"gopkg.in/yaml.v3"
)

// Renderer materializes expanded jobs into a pipeline document
type Renderer struct{}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// templateBody is the serialized form of the shared job template
type templateBody struct {
	BeforeScript []string         `yaml:"before_script,omitempty"`
	Script       []string         `yaml:"script"`
	Artifacts    *model.Artifacts `yaml:"artifacts,omitempty"`
}

// RenderDocument builds the pipeline skeleton (variables, stages, template)
// and merges the jobs into it
func (r *Renderer) RenderDocument(cfg *model.Config, jobs []model.Job) (*model.Document, error) {
	doc := model.NewDocument()

	variables := cfg.Variables
	if variables == nil {
		variables = model.Variables{}
	}
	if err := doc.Set("variables", variables); err != nil {
		return nil, err
	}
	if err := doc.Set("stages", cfg.Stages); err != nil {
		return nil, err
	}

	body := templateBody{
		BeforeScript: cfg.Template.BeforeScript,
		Script:       cfg.Template.Script,
	}
	if len(cfg.Template.Artifacts.Paths) > 0 {
		artifacts := cfg.Template.Artifacts
		body.Artifacts = &artifacts
	}
	if err := doc.Set(cfg.Template.Key, body); err != nil {
		return nil, fmt.Errorf("template: %w", err)
	}

	if err := r.MergeJobs(doc, jobs); err != nil {
		return nil, err
	}

	return doc, nil
}

// MergeJobs adds jobs at the top level of doc. A job whose name is already
// taken (by another job or a reserved key) aborts the merge.
func (r *Renderer) MergeJobs(doc *model.Document, jobs []model.Job) error {
	for _, job := range jobs {
		if err := doc.Set(job.Name, job); err != nil {
			return fmt.Errorf("job %s: %w", job.Name, err)
		}
	}
	return nil
}

// RenderYAML renders the document as block-style YAML with two-space indent
func (r *Renderer) RenderYAML(doc *model.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode pipeline: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode pipeline: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile atomically replaces path with data: the bytes go to a temporary
// file in the same directory which is then renamed over the destination
func (r *Renderer) WriteFile(data []byte, path string) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := renameio.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write pipeline to %s: %w", path, err)
	}

	return nil
}

// DebugDump outputs debug information about the document
func (r *Renderer) DebugDump(doc *model.Document) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Document: %d top-level keys\n", doc.Len())

	for _, key := range doc.Keys() {
		value, _ := doc.Get(key)
		switch v := value.(type) {
		case model.Job:
			fmt.Fprintf(&sb, "  Job: %s\n", key)
			fmt.Fprintf(&sb, "    Stage: %s\n", v.Stage)
			fmt.Fprintf(&sb, "    Extends: %s\n", v.Extends)
			for _, kv := range v.Variables {
				fmt.Fprintf(&sb, "    %s=%v\n", kv.Name, kv.Value)
			}
		case templateBody:
			fmt.Fprintf(&sb, "  Template: %s (%d script lines, %d artifact paths)\n", key, len(v.Script), artifactCount(v))
		default:
			fmt.Fprintf(&sb, "  Section: %s\n", key)
		}
	}

	return sb.String()
}

func artifactCount(body templateBody) int {
	if body.Artifacts == nil {
		return 0
	}
	return len(body.Artifacts.Paths)
}
