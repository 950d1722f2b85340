package tools

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaValidator handles JSON schema validation for tool inputs and config
type SchemaValidator struct {
	mu    sync.Mutex
	cache map[string]*gojsonschema.Schema
}

// NewSchemaValidator creates a new schema validator
func NewSchemaValidator() *SchemaValidator {
	return &SchemaValidator{
		cache: make(map[string]*gojsonschema.Schema),
	}
}

// ValidateArgs validates tool arguments against the input schema
func (sv *SchemaValidator) ValidateArgs(descriptor *ToolDescriptor, args json.RawMessage) error {
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}
	return sv.validate(descriptor.Name, "args_invalid", "input", descriptor.InputSchema, args)
}

// ValidateConfig validates a per-call config override against the config
// schema. An empty override is always valid; a tool without a config schema
// rejects any non-empty override.
func (sv *SchemaValidator) ValidateConfig(descriptor *ToolDescriptor, config json.RawMessage) error {
	if len(config) == 0 || string(config) == "null" {
		return nil
	}
	if len(descriptor.ConfigSchema) == 0 {
		return &ValidationError{Type: "config_invalid", Tool: descriptor.Name, Detail: "tool accepts no config"}
	}
	return sv.validate(descriptor.Name, "config_invalid", "config", descriptor.ConfigSchema, config)
}

// Compile checks that the descriptor's schemas parse.
func (sv *SchemaValidator) Compile(descriptor *ToolDescriptor) error {
	if _, err := sv.getSchema(string(descriptor.InputSchema)); err != nil {
		return fmt.Errorf("invalid input schema for tool %s: %w", descriptor.Name, err)
	}
	if len(descriptor.ConfigSchema) > 0 {
		if _, err := sv.getSchema(string(descriptor.ConfigSchema)); err != nil {
			return fmt.Errorf("invalid config schema for tool %s: %w", descriptor.Name, err)
		}
	}
	return nil
}

func (sv *SchemaValidator) validate(tool, errType, what string, schemaJSON, doc json.RawMessage) error {
	schema, err := sv.getSchema(string(schemaJSON))
	if err != nil {
		return fmt.Errorf("invalid %s schema for tool %s: %w", what, tool, err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return &ValidationError{Type: errType, Tool: tool, Detail: err.Error()}
	}
	if !result.Valid() {
		errors := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errors[i] = desc.String()
		}
		return &ValidationError{
			Type:   errType,
			Tool:   tool,
			Detail: fmt.Sprintf("%s validation failed: %v", what, errors),
		}
	}
	return nil
}

// getSchema retrieves or compiles a JSON schema
func (sv *SchemaValidator) getSchema(schemaJSON string) (*gojsonschema.Schema, error) {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	if schema, exists := sv.cache[schemaJSON]; exists {
		return schema, nil
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, err
	}

	sv.cache[schemaJSON] = schema
	return schema, nil
}
