package config

import (
	"embed"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schemas/*.json
var embeddedSchemas embed.FS

const errorFormat = "  - %s"

// ConfigType represents the type of configuration file
type ConfigType string

const (
	ConfigTypeSpeech ConfigType = "speechconfig"
)

// SchemaValidationError represents a validation error from JSON schema validation
type SchemaValidationError struct {
	Field       string
	Description string
	Value       interface{}
}

// Error implements the error interface
func (e SchemaValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("%s: %s (value: %v)", e.Field, e.Description, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Description)
}

// SchemaValidationResult contains the results of schema validation
type SchemaValidationResult struct {
	Valid  bool
	Errors []SchemaValidationError
}

// ValidateWithSchema validates YAML data against the schema embedded in the binary
func ValidateWithSchema(yamlData []byte, configType ConfigType) (*SchemaValidationResult, error) {
	schema, err := embeddedSchemas.ReadFile("schemas/" + string(configType) + ".json")
	if err != nil {
		return nil, fmt.Errorf("unknown config type %q: %w", configType, err)
	}
	return validateWithLoader(yamlData, gojsonschema.NewBytesLoader(schema))
}

// ValidateWithLocalSchema validates YAML data against a local JSON schema file
func ValidateWithLocalSchema(yamlData []byte, configType ConfigType, schemaDir string) (*SchemaValidationResult, error) {
	abs, err := filepath.Abs(filepath.Join(schemaDir, string(configType)+".json"))
	if err != nil {
		return nil, err
	}
	return validateWithLoader(yamlData, gojsonschema.NewReferenceLoader("file://"+filepath.ToSlash(abs)))
}

func validateWithLoader(yamlData []byte, schemaLoader gojsonschema.JSONLoader) (*SchemaValidationResult, error) {
	// Convert YAML to JSON for schema validation
	var data interface{}
	if err := yaml.Unmarshal(yamlData, &data); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to convert to JSON: %w", err)
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	validationResult := &SchemaValidationResult{
		Valid:  result.Valid(),
		Errors: make([]SchemaValidationError, 0),
	}

	if !result.Valid() {
		for _, err := range result.Errors() {
			validationResult.Errors = append(validationResult.Errors, SchemaValidationError{
				Field:       err.Field(),
				Description: err.Description(),
				Value:       err.Value(),
			})
		}
	}

	return validationResult, nil
}

// ValidateSpeechConfig validates a SpeechConfig manifest against its schema
func ValidateSpeechConfig(yamlData []byte) error {
	result, err := ValidateWithSchema(yamlData, ConfigTypeSpeech)
	if err != nil {
		return err
	}

	if !result.Valid {
		var errorMessages []string
		for _, e := range result.Errors {
			errorMessages = append(errorMessages, fmt.Sprintf(errorFormat, e.Error()))
		}
		return fmt.Errorf("speech configuration does not match schema:\n%s", strings.Join(errorMessages, "\n"))
	}

	return nil
}
