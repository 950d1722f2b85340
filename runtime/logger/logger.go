// Package logger provides structured logging with automatic credential redaction.
//
// This package wraps Go's standard log/slog with convenience functions for:
//   - Remote job lifecycle logging (submit, poll, terminal state)
//   - Tool execution logging
//   - HTTP request/response debug logging with API key redaction
//   - Contextual logging (job id, kind, tool, request id) pulled from context.Context
//   - Level-based verbosity control
//
// All exported functions use the global DefaultLogger which can be configured
// for different output formats and log levels.
package logger

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"
)

var (
	// DefaultLogger is the global structured logger instance.
	// It is safe for concurrent use and initialized with slog.LevelInfo by default.
	DefaultLogger *slog.Logger

	logOutput io.Writer = os.Stderr
	outputMu  sync.Mutex
)

func init() {
	level := slog.LevelInfo
	if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
		level = ParseLevel(envLevel)
	}
	initLogger(level, FormatText, nil)
}

// ParseLevel converts a level name to a slog.Level. Unknown names map to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace", "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func initLogger(level slog.Level, format string, commonFields []slog.Attr) {
	outputMu.Lock()
	defer outputMu.Unlock()

	opts := &slog.HandlerOptions{Level: level}
	var base slog.Handler
	if format == FormatJSON {
		base = slog.NewJSONHandler(logOutput, opts)
	} else {
		base = slog.NewTextHandler(logOutput, opts)
	}
	DefaultLogger = slog.New(NewContextHandler(base, commonFields...))
}

// SetLevel changes the logging level for all subsequent log operations.
func SetLevel(level slog.Level) {
	initLogger(level, FormatText, nil)
}

// SetVerbose enables debug-level logging when verbose is true, otherwise sets info-level.
// This is a convenience wrapper around SetLevel for command-line verbose flags.
func SetVerbose(verbose bool) {
	if verbose {
		SetLevel(slog.LevelDebug)
	} else {
		SetLevel(slog.LevelInfo)
	}
}

// SetOutput redirects log output and rebuilds the default logger at the given level.
// Primarily useful in tests.
func SetOutput(w io.Writer, level slog.Level) {
	outputMu.Lock()
	logOutput = w
	outputMu.Unlock()
	initLogger(level, FormatText, nil)
}

// Info logs an informational message with structured key-value attributes.
func Info(msg string, args ...any) {
	DefaultLogger.Info(msg, args...)
}

// InfoContext logs an informational message with context and structured attributes.
func InfoContext(ctx context.Context, msg string, args ...any) {
	DefaultLogger.InfoContext(ctx, msg, args...)
}

// Debug logs a debug-level message with structured attributes.
func Debug(msg string, args ...any) {
	DefaultLogger.Debug(msg, args...)
}

// DebugContext logs a debug message with context and structured attributes.
func DebugContext(ctx context.Context, msg string, args ...any) {
	DefaultLogger.DebugContext(ctx, msg, args...)
}

// Warn logs a warning message with structured attributes.
func Warn(msg string, args ...any) {
	DefaultLogger.Warn(msg, args...)
}

// WarnContext logs a warning message with context and structured attributes.
func WarnContext(ctx context.Context, msg string, args ...any) {
	DefaultLogger.WarnContext(ctx, msg, args...)
}

// Error logs an error message with structured attributes.
func Error(msg string, args ...any) {
	DefaultLogger.Error(msg, args...)
}

// ErrorContext logs an error message with context and structured attributes.
func ErrorContext(ctx context.Context, msg string, args ...any) {
	DefaultLogger.ErrorContext(ctx, msg, args...)
}

// JobSubmitted logs the acceptance of a remote job.
func JobSubmitted(ctx context.Context, kind, jobID, model string, wait bool, attrs ...any) {
	allAttrs := make([]any, 0, 8+len(attrs))
	allAttrs = append(allAttrs,
		"kind", kind,
		"job_id", jobID,
		"model", model,
		"wait", wait,
	)
	allAttrs = append(allAttrs, attrs...)
	InfoContext(ctx, "📤 Job submitted", allAttrs...)
}

// JobPolled logs a single status check at debug level.
func JobPolled(ctx context.Context, kind, jobID, status string, attempt int) {
	DebugContext(ctx, "🔄 Job polled",
		"kind", kind,
		"job_id", jobID,
		"status", status,
		"attempt", attempt,
	)
}

// JobFinished logs a job reaching a terminal (or abandoned) state.
// Failed and timed out jobs are logged at warn level.
func JobFinished(ctx context.Context, kind, jobID, status string, elapsed time.Duration, attrs ...any) {
	allAttrs := make([]any, 0, 8+len(attrs))
	allAttrs = append(allAttrs,
		"kind", kind,
		"job_id", jobID,
		"status", status,
		"elapsed_ms", elapsed.Milliseconds(),
	)
	allAttrs = append(allAttrs, attrs...)
	if status == "complete" {
		InfoContext(ctx, "✅ Job finished", allAttrs...)
		return
	}
	WarnContext(ctx, "⚠️ Job did not complete", allAttrs...)
}

// ToolCall logs a tool execution with its outcome and latency.
func ToolCall(ctx context.Context, tool string, latency time.Duration, err error) {
	if err != nil {
		ErrorContext(ctx, "❌ Tool failed", "tool", tool, "latency_ms", latency.Milliseconds(), "error", err)
		return
	}
	InfoContext(ctx, "🔧 Tool executed", "tool", tool, "latency_ms", latency.Milliseconds())
}

var (
	// apiKeyPatterns contains compiled regular expressions for detecting sensitive data.
	apiKeyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)("?x-api-key"?\s*[:=]\s*"?)[^",\s}]+`), // x-api-key header/body values
		regexp.MustCompile(`sk-[a-zA-Z0-9]{32,}`),                       // OpenAI-style secret keys
		regexp.MustCompile(`Bearer\s+[a-zA-Z0-9._-]+`),                  // Bearer tokens
	}
)

// RedactSensitiveData removes API keys and other sensitive information from strings.
//
// Supported patterns:
//   - x-api-key values (header maps, JSON bodies, key=value pairs): value replaced by [REDACTED]
//   - sk-... keys: first 4 chars kept
//   - Bearer tokens: "Bearer [REDACTED]"
func RedactSensitiveData(input string) string {
	result := apiKeyPatterns[0].ReplaceAllString(input, "${1}[REDACTED]")

	for _, pattern := range apiKeyPatterns[1:] {
		result = pattern.ReplaceAllStringFunc(result, func(match string) string {
			if strings.HasPrefix(match, "Bearer") {
				return "Bearer [REDACTED]"
			}
			if len(match) > 8 {
				return match[:4] + "...[REDACTED]"
			}
			return "[REDACTED]"
		})
	}

	return result
}

// APIRequest logs HTTP API request details at debug level with redaction.
// It is a no-op when debug logging is disabled.
func APIRequest(ctx context.Context, service, method, url string, headers map[string]string, body any) {
	if !DefaultLogger.Enabled(ctx, slog.LevelDebug) {
		return
	}

	attrs := make([]any, 0, 10)
	attrs = append(attrs,
		"service", service,
		"method", method,
		"url", RedactSensitiveData(url),
	)

	if len(headers) > 0 {
		redacted := make(map[string]string, len(headers))
		for key, value := range headers {
			if strings.EqualFold(key, "x-api-key") || strings.EqualFold(key, "Authorization") {
				redacted[key] = "[REDACTED]"
				continue
			}
			redacted[key] = RedactSensitiveData(value)
		}
		attrs = append(attrs, "headers", redacted)
	}

	if body != nil {
		bodyJSON, err := json.Marshal(body)
		if err != nil {
			attrs = append(attrs, "body_error", err.Error())
		} else {
			attrs = append(attrs, "body", truncate(RedactSensitiveData(string(bodyJSON))))
		}
	}

	DebugContext(ctx, "🔵 API Request", attrs...)
}

// APIResponse logs HTTP API response details at debug level with redaction.
func APIResponse(ctx context.Context, service string, statusCode int, body string, err error) {
	if !DefaultLogger.Enabled(ctx, slog.LevelDebug) {
		return
	}

	attrs := make([]any, 0, 6)
	attrs = append(attrs,
		"service", service,
		"status_code", statusCode,
	)

	if err != nil {
		attrs = append(attrs, "error", err.Error())
		ErrorContext(ctx, "🔴 API Response Error", attrs...)
		return
	}

	var emoji string
	switch {
	case statusCode >= 200 && statusCode < 300:
		emoji = "🟢"
	case statusCode >= 400:
		emoji = "🔴"
	default:
		emoji = "🟡"
	}

	if body != "" {
		attrs = append(attrs, "body", truncate(RedactSensitiveData(body)))
	}

	DebugContext(ctx, emoji+" API Response", attrs...)
}

// maxLoggedBody caps logged bodies; inline audio payloads can be megabytes of base64.
const maxLoggedBody = 2048

func truncate(s string) string {
	if len(s) <= maxLoggedBody {
		return s
	}
	return s[:maxLoggedBody] + "...(truncated)"
}
