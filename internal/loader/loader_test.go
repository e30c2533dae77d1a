package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sourceplane/cigen/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaultsWhenNoPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if diff := cmp.Diff(model.DefaultConfig(), cfg); diff != "" {
		t.Fatalf("expected default config (-want +got):\n%s", diff)
	}
}

func TestLoadConfigYAMLOverlaysSections(t *testing.T) {
	path := writeFile(t, "matrix.yaml", strings.TrimSpace(`
variables:
  IDF_VERSION_TAG: v5.5
  IDF_TAG_FLAG: true
builds:
  - folder: peer_demo
    targets: [esp32, esp32s3, esp32s2]
  - folder: openai_demo
    targets: [esp32s3]
`))

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	wantBuilds := []model.BuildSpec{
		{Folder: "peer_demo", Targets: []string{"esp32", "esp32s3", "esp32s2"}},
		{Folder: "openai_demo", Targets: []string{"esp32s3"}},
	}
	if diff := cmp.Diff(wantBuilds, cfg.Builds); diff != "" {
		t.Fatalf("builds mismatch (-want +got):\n%s", diff)
	}

	wantVars := model.Variables{
		{Name: "IDF_VERSION_TAG", Value: "v5.5"},
		{Name: "IDF_TAG_FLAG", Value: true},
	}
	if diff := cmp.Diff(wantVars, cfg.Variables); diff != "" {
		t.Fatalf("variables mismatch (-want +got):\n%s", diff)
	}

	// sections absent from the file keep their defaults
	defaults := model.DefaultConfig()
	if diff := cmp.Diff(defaults.Template, cfg.Template); diff != "" {
		t.Fatalf("template should come from defaults (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(defaults.Stages, cfg.Stages); diff != "" {
		t.Fatalf("stages should come from defaults (-want +got):\n%s", diff)
	}
}

func TestLoadConfigYAMLEmptyBuilds(t *testing.T) {
	path := writeFile(t, "matrix.yml", "builds: []\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Builds == nil || len(cfg.Builds) != 0 {
		t.Fatalf("expected empty non-nil builds, got %#v", cfg.Builds)
	}
}

func TestLoadConfigYAMLSchemaViolation(t *testing.T) {
	path := writeFile(t, "matrix.yaml", "builds:\n  - folder: peer_demo\n    targets: esp32\n")

	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "BuildMatrix schema") {
		t.Fatalf("expected schema error, got %v", err)
	}
}

func TestLoadConfigHCL(t *testing.T) {
	path := writeFile(t, "builds.hcl", strings.TrimSpace(`
stage = "firmware"

build "peer_demo" {
  targets = ["esp32", "esp32s3"]
}

build "doorbell_demo" {
  targets = ["esp32p4"]
}
`))

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	wantBuilds := []model.BuildSpec{
		{Folder: "peer_demo", Targets: []string{"esp32", "esp32s3"}},
		{Folder: "doorbell_demo", Targets: []string{"esp32p4"}},
	}
	if diff := cmp.Diff(wantBuilds, cfg.Builds); diff != "" {
		t.Fatalf("builds mismatch (-want +got):\n%s", diff)
	}
	if cfg.Jobs.Stage != "firmware" || len(cfg.Stages) != 1 || cfg.Stages[0] != "firmware" {
		t.Fatalf("expected stage override, got jobs.stage=%q stages=%v", cfg.Jobs.Stage, cfg.Stages)
	}
}

func TestLoadConfigHCLErrors(t *testing.T) {
	cases := map[string]string{
		"syntax":          "build \"x\" {\n",
		"missing targets": "build \"x\" {}\n",
		"unknown block":   "job \"x\" {}\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseHCLBuilds([]byte(src), "builds.hcl"); err == nil {
				t.Fatalf("expected error for %q", src)
			}
		})
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := LoadConfig(writeFile(t, "matrix.toml", "")); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestSampleConfigsMatchBuiltInMatrix(t *testing.T) {
	for _, name := range []string{"matrix.yaml", "builds.hcl"} {
		t.Run(name, func(t *testing.T) {
			cfg, err := LoadConfig(filepath.Join("..", "..", "configs", name))
			if err != nil {
				t.Fatalf("LoadConfig returned error: %v", err)
			}
			if diff := cmp.Diff(model.DefaultConfig(), cfg); diff != "" {
				t.Fatalf("sample config drifted from the built-in matrix (-want +got):\n%s", diff)
			}
		})
	}
}
