package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sourceplane/cigen/internal/model"
	"github.com/sourceplane/cigen/internal/schema"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads a build matrix. An empty path yields the built-in
// default matrix; otherwise the file extension selects the format.
func LoadConfig(path string) (*model.Config, error) {
	if path == "" {
		return model.DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		return ParseYAMLConfig(data)
	case ".hcl":
		return ParseHCLBuilds(data, path)
	default:
		return nil, fmt.Errorf("unsupported config format %q (want .yaml, .yml or .hcl)", ext)
	}
}

// ParseYAMLConfig validates a BuildMatrix document against the matrix schema
// and overlays it on the defaults. Each top-level section present in the
// document replaces the corresponding default section.
func ParseYAMLConfig(data []byte) (*model.Config, error) {
	validator, err := schema.NewValidator()
	if err != nil {
		return nil, err
	}
	if err := validator.ValidateMatrix(data); err != nil {
		return nil, fmt.Errorf("config does not match BuildMatrix schema: %w", err)
	}

	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	cfg := model.DefaultConfig()
	sections := []struct {
		key    string
		target interface{}
		reset  func()
	}{
		{"apiVersion", &cfg.APIVersion, func() { cfg.APIVersion = "" }},
		{"kind", &cfg.Kind, func() { cfg.Kind = "" }},
		{"metadata", &cfg.Metadata, func() { cfg.Metadata = model.Metadata{} }},
		{"variables", &cfg.Variables, func() { cfg.Variables = nil }},
		{"stages", &cfg.Stages, func() { cfg.Stages = nil }},
		{"template", &cfg.Template, func() { cfg.Template = model.JobTemplate{} }},
		{"jobs", &cfg.Jobs, func() { cfg.Jobs = model.JobDefaults{} }},
		{"builds", &cfg.Builds, func() { cfg.Builds = nil }},
	}

	for _, section := range sections {
		node, ok := raw[section.key]
		if !ok {
			continue
		}
		section.reset()
		if err := node.Decode(section.target); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", section.key, err)
		}
	}

	if cfg.Builds == nil {
		cfg.Builds = []model.BuildSpec{}
	}

	return cfg, nil
}
