// Package tools exposes the speech clients as agent-callable tools.
//
// This package implements:
//   - Tool descriptors with JSON Schema (draft-07) input and config schemas
//   - A registry that validates arguments and per-call config overrides
//   - Executors for transcription, synthesis, deferred job results and text files
//   - The string-result boundary: every failure becomes a readable message
//
// Executors never return an empty result; errors are rendered through
// ErrorFormatter into the messages the agent sees.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AltairaLabs/speechkit/runtime/artifacts"
)

// ToolDescriptor represents a tool definition as advertised to the agent.
type ToolDescriptor struct {
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description" yaml:"description"`
	InputSchema json.RawMessage `json:"input_schema" yaml:"input_schema"` // JSON Schema Draft-07

	// ConfigSchema describes the per-call config overrides the tool accepts,
	// with defaults. Empty means the tool takes no config.
	ConfigSchema json.RawMessage `json:"config_schema,omitempty" yaml:"config_schema,omitempty"`

	TimeoutMs int `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty"`
}

// ToolCall represents a tool invocation request
type ToolCall struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args"`
	ID   string          `json:"id,omitempty"`

	// Config overrides the tool's configured defaults for this call only.
	Config json.RawMessage `json:"config,omitempty"`
}

// ToolExecutionStatus represents how a tool call ended
type ToolExecutionStatus string

const (
	// ToolStatusComplete indicates the tool finished executing
	ToolStatusComplete ToolExecutionStatus = "complete"
	// ToolStatusPending indicates a job was submitted and can be collected later
	ToolStatusPending ToolExecutionStatus = "pending"
	// ToolStatusFailed indicates the tool execution failed
	ToolStatusFailed ToolExecutionStatus = "failed"
)

// ToolResult represents the result of a tool execution. Content is always
// set, including on failure.
type ToolResult struct {
	Name      string              `json:"name"`
	ID        string              `json:"id,omitempty"` // Matches ToolCall.ID
	Status    ToolExecutionStatus `json:"status"`
	Content   string              `json:"content"`
	Artifact  *artifacts.Artifact `json:"artifact,omitempty"`
	JobID     string              `json:"job_id,omitempty"`
	LatencyMs int64               `json:"latency_ms"`
	Error     string              `json:"error,omitempty"`
}

// Output is what an executor produces on success.
type Output struct {
	Text     string
	Artifact *artifacts.Artifact
	JobID    string
	Pending  bool
}

// Executor runs one tool.
type Executor interface {
	Descriptor() *ToolDescriptor
	Execute(ctx context.Context, args, config json.RawMessage) (*Output, error)
}

// ErrorFormatter renders executor errors as the message shown to the agent.
// Executors that do not implement it get "Error: <err>".
type ErrorFormatter interface {
	FormatError(err error) string
}

// ValidationError represents a tool validation failure
type ValidationError struct {
	Type   string `json:"type"` // "args_invalid" | "config_invalid"
	Tool   string `json:"tool"`
	Detail string `json:"detail"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("tool %s validation error (%s): %s", e.Tool, e.Type, e.Detail)
}
