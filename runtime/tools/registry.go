package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/AltairaLabs/speechkit/runtime/logger"
	"github.com/AltairaLabs/speechkit/runtime/metrics/prometheus"
	"github.com/AltairaLabs/speechkit/runtime/telemetry"
)

// Registry manages tool executors and validates calls before running them.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	executors map[string]Executor
	validator *SchemaValidator
	tracer    trace.TracerProvider
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithTracerProvider records tool spans on tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) RegistryOption {
	return func(r *Registry) { r.tracer = tp }
}

// NewRegistry creates an empty tool registry
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		executors: make(map[string]Executor),
		validator: NewSchemaValidator(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds an executor under its descriptor's name after checking the descriptor.
func (r *Registry) Register(executor Executor) error {
	descriptor := executor.Descriptor()
	if err := r.validateDescriptor(descriptor); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.executors[descriptor.Name]; exists {
		return fmt.Errorf("%w: %s", ErrToolAlreadyRegistered, descriptor.Name)
	}
	r.executors[descriptor.Name] = executor
	return nil
}

func (r *Registry) validateDescriptor(d *ToolDescriptor) error {
	switch {
	case d == nil || strings.TrimSpace(d.Name) == "":
		return ErrToolNameRequired
	case strings.TrimSpace(d.Description) == "":
		return fmt.Errorf("%s: %w", d.Name, ErrToolDescriptionRequired)
	case len(d.InputSchema) == 0:
		return fmt.Errorf("%s: %w", d.Name, ErrInputSchemaRequired)
	}
	return r.validator.Compile(d)
}

// Get retrieves a tool descriptor by name, or nil.
func (r *Registry) Get(name string) *ToolDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.executors[name]; ok {
		return e.Descriptor()
	}
	return nil
}

// List returns all tool names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.executors))
	for name := range r.executors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Descriptors returns all tool descriptors sorted by name.
func (r *Registry) Descriptors() []*ToolDescriptor {
	names := r.List()
	out := make([]*ToolDescriptor, 0, len(names))
	for _, name := range names {
		if d := r.Get(name); d != nil {
			out = append(out, d)
		}
	}
	return out
}

// Execute runs a tool call. Unknown tools and invalid arguments or config
// are returned as errors; everything that happens inside the tool is
// reported in the ToolResult.
func (r *Registry) Execute(ctx context.Context, call ToolCall) (*ToolResult, error) {
	r.mu.RLock()
	executor, ok := r.executors[call.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, call.Name)
	}

	descriptor := executor.Descriptor()
	if err := r.validator.ValidateArgs(descriptor, call.Args); err != nil {
		return nil, err
	}
	if err := r.validator.ValidateConfig(descriptor, call.Config); err != nil {
		return nil, err
	}

	ctx = logger.WithTool(ctx, call.Name)
	if descriptor.TimeoutMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(descriptor.TimeoutMs)*time.Millisecond)
		defer cancel()
	}
	ctx, span := telemetry.Tracer(r.tracer).Start(ctx, "speechkit.tool."+call.Name,
		trace.WithAttributes(attribute.String(telemetry.AttrTool, call.Name)))

	start := time.Now()
	out, err := executor.Execute(ctx, call.Args, call.Config)
	latency := time.Since(start)

	prometheus.RecordToolCall(call.Name, prometheus.StatusOf(err), latency.Seconds())
	logger.ToolCall(ctx, call.Name, latency, err)
	telemetry.EndSpan(span, err)

	result := &ToolResult{Name: call.Name, ID: call.ID, LatencyMs: latency.Milliseconds()}
	if err != nil {
		result.Status = ToolStatusFailed
		result.Content = formatError(executor, err)
		result.Error = err.Error()
		return result, nil
	}

	result.Status = ToolStatusComplete
	if out.Pending {
		result.Status = ToolStatusPending
	}
	result.Content = out.Text
	result.Artifact = out.Artifact
	result.JobID = out.JobID
	return result, nil
}

func formatError(executor Executor, err error) string {
	if f, ok := executor.(ErrorFormatter); ok {
		return f.FormatError(err)
	}
	return "Error: " + err.Error()
}

// IsCallError reports whether err from Execute is the caller's fault
// (unknown tool or invalid input) rather than an internal failure.
func IsCallError(err error) bool {
	var ve *ValidationError
	return errors.Is(err, ErrToolNotFound) || errors.As(err, &ve)
}

// mergeConfig overlays a per-call override onto base. Fields absent from
// the override keep their base values.
func mergeConfig[T any](base T, override json.RawMessage) (T, error) {
	if len(override) == 0 || string(override) == "null" {
		return base, nil
	}
	merged := base
	if err := json.Unmarshal(override, &merged); err != nil {
		return base, fmt.Errorf("decode config: %w", err)
	}
	return merged, nil
}

// decodeArgs unmarshals validated arguments.
func decodeArgs[T any](args json.RawMessage) (T, error) {
	var v T
	if len(args) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(args, &v); err != nil {
		return v, fmt.Errorf("decode arguments: %w", err)
	}
	return v, nil
}
