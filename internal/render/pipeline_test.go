package render

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sourceplane/cigen/internal/expand"
	"github.com/sourceplane/cigen/internal/model"
	"github.com/sourceplane/cigen/internal/schema"
	"gopkg.in/yaml.v3"
)

func renderConfig(t *testing.T, cfg *model.Config) []byte {
	t.Helper()
	r := NewRenderer()
	doc, err := r.RenderDocument(cfg, expand.NewExpander(cfg).Expand())
	if err != nil {
		t.Fatalf("RenderDocument returned error: %v", err)
	}
	data, err := r.RenderYAML(doc)
	if err != nil {
		t.Fatalf("RenderYAML returned error: %v", err)
	}
	return data
}

func parse(t *testing.T, data []byte) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := yaml.Unmarshal(data, &out); err != nil {
		t.Fatalf("generated YAML does not parse: %v\n%s", err, data)
	}
	return out
}

func jobKeys(doc map[string]interface{}) []string {
	var keys []string
	for k := range doc {
		if k == "variables" || k == "stages" || strings.HasPrefix(k, ".") {
			continue
		}
		keys = append(keys, k)
	}
	return keys
}

func twoFolderConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Builds = []model.BuildSpec{
		{Folder: "peer_demo", Targets: []string{"esp32", "esp32s3", "esp32s2"}},
		{Folder: "openai_demo", Targets: []string{"esp32s3"}},
	}
	return cfg
}

func TestRenderTwoFolderScenario(t *testing.T) {
	doc := parse(t, renderConfig(t, twoFolderConfig()))

	want := map[string]map[string]string{
		"build_peer_demo_esp32":     {"CI_BUILD_FOLDER": "peer_demo", "IDF_TARGET": "esp32"},
		"build_peer_demo_esp32s3":   {"CI_BUILD_FOLDER": "peer_demo", "IDF_TARGET": "esp32s3"},
		"build_peer_demo_esp32s2":   {"CI_BUILD_FOLDER": "peer_demo", "IDF_TARGET": "esp32s2"},
		"build_openai_demo_esp32s3": {"CI_BUILD_FOLDER": "openai_demo", "IDF_TARGET": "esp32s3"},
	}

	keys := jobKeys(doc)
	if len(keys) != len(want) {
		t.Fatalf("expected %d jobs, got %v", len(want), keys)
	}

	for name, vars := range want {
		raw, ok := doc[name].(map[string]interface{})
		if !ok {
			t.Fatalf("job %s missing from output", name)
		}
		if raw["stage"] != "build" {
			t.Fatalf("job %s: expected stage build, got %v", name, raw["stage"])
		}
		if raw["extends"] != ".build_template" {
			t.Fatalf("job %s: expected extends .build_template, got %v", name, raw["extends"])
		}
		gotVars := map[string]string{}
		for k, v := range raw["variables"].(map[string]interface{}) {
			gotVars[k] = v.(string)
		}
		if diff := cmp.Diff(vars, gotVars); diff != "" {
			t.Fatalf("job %s variables mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func TestRenderEmptyMatrixKeepsSkeleton(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Builds = []model.BuildSpec{}
	data := renderConfig(t, cfg)
	doc := parse(t, data)

	if keys := jobKeys(doc); len(keys) != 0 {
		t.Fatalf("expected no jobs, got %v", keys)
	}
	for _, key := range []string{"variables", "stages", ".build_template"} {
		if _, ok := doc[key]; !ok {
			t.Fatalf("skeleton key %s missing", key)
		}
	}

	validator, err := schema.NewValidator()
	if err != nil {
		t.Fatal(err)
	}
	if err := validator.ValidatePipeline(data); err != nil {
		t.Fatalf("skeleton does not validate: %v", err)
	}
}

func TestRenderTemplateArtifactsInOrder(t *testing.T) {
	cfg := twoFolderConfig()
	data := renderConfig(t, cfg)
	doc := parse(t, data)

	tmpl := doc[".build_template"].(map[string]interface{})
	artifacts := tmpl["artifacts"].(map[string]interface{})
	var paths []string
	for _, p := range artifacts["paths"].([]interface{}) {
		paths = append(paths, p.(string))
	}
	if diff := cmp.Diff(cfg.Template.Artifacts.Paths, paths); diff != "" {
		t.Fatalf("artifact paths mismatch (-want +got):\n%s", diff)
	}
	if artifacts["expire_in"] != "4 days" {
		t.Fatalf("expected expire_in 4 days, got %v", artifacts["expire_in"])
	}

	// the template is written once and referenced, never copied into jobs
	if n := bytes.Count(data, []byte("build*/size.json")); n != 1 {
		t.Fatalf("expected artifact path to appear once, got %d", n)
	}
}

func TestRenderGlobalSections(t *testing.T) {
	doc := parse(t, renderConfig(t, model.DefaultConfig()))

	vars := doc["variables"].(map[string]interface{})
	if vars["IDF_TAG_FLAG"] != false {
		t.Fatalf("expected boolean IDF_TAG_FLAG=false, got %#v", vars["IDF_TAG_FLAG"])
	}
	if vars["IDF_VERSION_TAG"] != "v5.4" {
		t.Fatalf("expected IDF_VERSION_TAG v5.4, got %#v", vars["IDF_VERSION_TAG"])
	}
	if diff := cmp.Diff([]interface{}{"build"}, doc["stages"]); diff != "" {
		t.Fatalf("stages mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderKeyOrderAndBlockStyle(t *testing.T) {
	data := renderConfig(t, twoFolderConfig())

	var top []string
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" || strings.HasPrefix(line, " ") {
			continue
		}
		top = append(top, strings.TrimSuffix(line, ":"))
	}
	want := []string{
		"variables",
		"stages",
		".build_template",
		"build_peer_demo_esp32",
		"build_peer_demo_esp32s3",
		"build_peer_demo_esp32s2",
		"build_openai_demo_esp32s3",
	}
	if diff := cmp.Diff(want, top); diff != "" {
		t.Fatalf("top-level order mismatch (-want +got):\n%s", diff)
	}

	if strings.Contains(string(data), "{CI_BUILD_FOLDER") || strings.Contains(string(data), "[build]") {
		t.Fatalf("expected block style output, got flow style:\n%s", data)
	}
}

func TestRenderIsByteStable(t *testing.T) {
	first := renderConfig(t, model.DefaultConfig())
	second := renderConfig(t, model.DefaultConfig())
	if !bytes.Equal(first, second) {
		t.Fatalf("rendering is not byte-stable:\n%s\n---\n%s", first, second)
	}
}

func TestMergeJobsRejectsCollisions(t *testing.T) {
	cfg := model.DefaultConfig()
	r := NewRenderer()

	doc, err := r.RenderDocument(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	jobs := []model.Job{
		{Name: "build_peer_demo_esp32", Stage: "build", Extends: ".build_template"},
		{Name: "build_peer_demo_esp32", Stage: "build", Extends: ".build_template"},
	}
	if err := r.MergeJobs(doc, jobs); !errors.Is(err, model.ErrKeyCollision) {
		t.Fatalf("expected ErrKeyCollision for duplicate job, got %v", err)
	}

	reserved := []model.Job{{Name: ".build_template"}}
	if err := r.MergeJobs(doc, reserved); !errors.Is(err, model.ErrKeyCollision) {
		t.Fatalf("expected ErrKeyCollision for template key, got %v", err)
	}

	if err := r.MergeJobs(doc, []model.Job{{Name: "stages"}}); !errors.Is(err, model.ErrKeyCollision) {
		t.Fatalf("expected ErrKeyCollision for stages key, got %v", err)
	}
}

func TestRenderedDefaultValidatesAgainstPipelineSchema(t *testing.T) {
	validator, err := schema.NewValidator()
	if err != nil {
		t.Fatal(err)
	}
	if err := validator.ValidatePipeline(renderConfig(t, model.DefaultConfig())); err != nil {
		t.Fatalf("generated pipeline failed schema validation: %v", err)
	}
}

func TestWriteFileReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "generated_ci.yml")
	r := NewRenderer()

	if err := r.WriteFile([]byte("old: content\nwith: more lines\n"), path); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}
	if err := r.WriteFile([]byte("new: content\n"), path); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new: content\n" {
		t.Fatalf("expected file to be fully replaced, got %q", got)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected no leftover temp files, found %d entries", len(entries))
	}
}

func TestDebugDump(t *testing.T) {
	cfg := twoFolderConfig()
	r := NewRenderer()
	doc, err := r.RenderDocument(cfg, expand.NewExpander(cfg).Expand())
	if err != nil {
		t.Fatal(err)
	}

	dump := r.DebugDump(doc)
	for _, want := range []string{
		"Document: 7 top-level keys",
		"Template: .build_template (1 script lines, 11 artifact paths)",
		"Job: build_openai_demo_esp32s3",
		"IDF_TARGET=esp32s2",
	} {
		if !strings.Contains(dump, want) {
			t.Fatalf("debug dump missing %q:\n%s", want, dump)
		}
	}
}
