package config

import (
	"strings"
	"testing"
)

func TestDefaultLoggingConfig(t *testing.T) {
	cfg := DefaultLoggingConfig()

	if cfg.DefaultLevel != LogLevelInfo {
		t.Errorf("DefaultLevel: expected %s, got %s", LogLevelInfo, cfg.DefaultLevel)
	}
	if cfg.Format != LogFormatText {
		t.Errorf("Format: expected %s, got %s", LogFormatText, cfg.Format)
	}
}

func TestLoggingConfigSpec_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     LoggingConfigSpec
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			cfg:     LoggingConfigSpec{DefaultLevel: LogLevelDebug, Format: LogFormatJSON},
			wantErr: false,
		},
		{
			name:    "empty config is valid",
			cfg:     LoggingConfigSpec{},
			wantErr: false,
		},
		{
			name:    "invalid default level",
			cfg:     LoggingConfigSpec{DefaultLevel: "invalid"},
			wantErr: true,
			errMsg:  "defaultLevel",
		},
		{
			name:    "invalid format",
			cfg:     LoggingConfigSpec{Format: "xml"},
			wantErr: true,
			errMsg:  "format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoggingConfigSpec_LoggerSpec(t *testing.T) {
	cfg := LoggingConfigSpec{DefaultLevel: LogLevelWarn, Format: LogFormatJSON, CommonFields: map[string]string{"env": "dev"}}
	spec := cfg.LoggerSpec()

	if spec.DefaultLevel != LogLevelWarn || spec.Format != LogFormatJSON || spec.CommonFields["env"] != "dev" {
		t.Errorf("unexpected logger spec: %+v", spec)
	}
}

func TestValidationError_Error(t *testing.T) {
	withValue := &ValidationError{Field: "f", Message: "bad", Value: "v"}
	if got := withValue.Error(); got != "config validation error: f: bad (got: v)" {
		t.Errorf("unexpected message %q", got)
	}
	without := &ValidationError{Field: "f", Message: "bad"}
	if got := without.Error(); got != "config validation error: f: bad" {
		t.Errorf("unexpected message %q", got)
	}
}
