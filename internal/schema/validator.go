package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schemas/*.schema.yaml
var schemaFS embed.FS

// Validator handles JSON schema validation
type Validator struct {
	matrixSchema   *jsonschema.Schema
	pipelineSchema *jsonschema.Schema
}

// NewValidator compiles the embedded matrix and pipeline schemas
func NewValidator() (*Validator, error) {
	v := &Validator{}

	matrixSchema, err := loadSchema("matrix")
	if err != nil {
		return nil, fmt.Errorf("failed to load matrix schema: %w", err)
	}
	v.matrixSchema = matrixSchema

	pipelineSchema, err := loadSchema("pipeline")
	if err != nil {
		return nil, fmt.Errorf("failed to load pipeline schema: %w", err)
	}
	v.pipelineSchema = pipelineSchema

	return v, nil
}

// ValidateMatrix validates a raw BuildMatrix YAML document
func (v *Validator) ValidateMatrix(data []byte) error {
	if v.matrixSchema == nil {
		return fmt.Errorf("matrix schema not loaded")
	}
	return validateYAML(v.matrixSchema, data)
}

// ValidatePipeline validates a serialized pipeline YAML document
func (v *Validator) ValidatePipeline(data []byte) error {
	if v.pipelineSchema == nil {
		return fmt.Errorf("pipeline schema not loaded")
	}
	return validateYAML(v.pipelineSchema, data)
}

// validateYAML parses YAML and validates its JSON form, so the schema sees
// exactly what a JSON consumer would
func validateYAML(schema *jsonschema.Schema, data []byte) error {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}

	jsonData, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to convert YAML to JSON: %w", err)
	}

	var instance interface{}
	dec := json.NewDecoder(bytes.NewReader(jsonData))
	dec.UseNumber()
	if err := dec.Decode(&instance); err != nil {
		return fmt.Errorf("failed to decode JSON: %w", err)
	}

	return schema.Validate(instance)
}

// loadSchema compiles one embedded schema file (YAML source)
func loadSchema(name string) (*jsonschema.Schema, error) {
	data, err := schemaFS.ReadFile(fmt.Sprintf("schemas/%s.schema.yaml", name))
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	var schemaData interface{}
	if err := yaml.Unmarshal(data, &schemaData); err != nil {
		return nil, fmt.Errorf("failed to parse schema file: %w", err)
	}

	jsonData, err := json.Marshal(schemaData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	schemaURI := fmt.Sprintf("cigen://schemas/%s.json", name)
	compiler := jsonschema.NewCompiler()
	compiler.LoadURL = func(url string) (io.ReadCloser, error) {
		if url == schemaURI {
			return io.NopCloser(bytes.NewReader(jsonData)), nil
		}
		return nil, fmt.Errorf("external schema reference not supported: %s", url)
	}

	schema, err := compiler.Compile(schemaURI)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return schema, nil
}
