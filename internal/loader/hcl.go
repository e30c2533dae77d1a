package loader

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/sourceplane/cigen/internal/model"
)

// hclBuildsFile is the top-level structure of a builds file:
//
//	stage = "build"
//
//	build "peer_demo" {
//	  targets = ["esp32", "esp32s3"]
//	}
type hclBuildsFile struct {
	Stage  *string     `hcl:"stage,optional"`
	Builds []*hclBuild `hcl:"build,block"`
}

type hclBuild struct {
	Folder  string   `hcl:"folder,label"`
	Targets []string `hcl:"targets"`
}

// ParseHCLBuilds decodes a builds-only HCL file. Everything except the
// build list and the job stage comes from the defaults.
func ParseHCLBuilds(data []byte, filename string) (*model.Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var parsed hclBuildsFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	cfg := model.DefaultConfig()
	if parsed.Stage != nil {
		cfg.Stages = []string{*parsed.Stage}
		cfg.Jobs.Stage = *parsed.Stage
	}

	cfg.Builds = make([]model.BuildSpec, 0, len(parsed.Builds))
	for _, b := range parsed.Builds {
		cfg.Builds = append(cfg.Builds, model.BuildSpec{
			Folder:  b.Folder,
			Targets: b.Targets,
		})
	}

	return cfg, nil
}
