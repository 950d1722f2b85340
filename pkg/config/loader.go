package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	pkgerrors "github.com/AltairaLabs/speechkit/pkg/errors"
	"github.com/AltairaLabs/speechkit/runtime/artifacts/local"
	"github.com/AltairaLabs/speechkit/runtime/tts"
)

const component = "config"

// LoadConfig reads, validates and defaults a SpeechConfig manifest.
func LoadConfig(filename string) (*SpeechConfig, error) {
	data, err := os.ReadFile(filename) //nolint:gosec // path comes from the operator
	if err != nil {
		return nil, pkgerrors.New(component, "LoadConfig", fmt.Errorf("failed to read config file: %w", err)).
			WithDetail("file", filename)
	}
	cfg, err := Parse(data)
	var ce *pkgerrors.ContextualError
	if errors.As(err, &ce) {
		return nil, ce.WithDetail("file", filename)
	}
	return cfg, err
}

// Parse validates a manifest against the embedded schema, decodes it, applies
// defaults and runs the checks the schema cannot express.
func Parse(data []byte) (*SpeechConfig, error) {
	// Step 1: JSON Schema validation (structure, types, kind and apiVersion)
	if err := ValidateSpeechConfig(data); err != nil {
		return nil, pkgerrors.New(component, "Parse", err)
	}

	var cfg SpeechConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, pkgerrors.New(component, "Parse", fmt.Errorf("failed to parse config: %w", err))
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, pkgerrors.New(component, "Validate", err)
	}
	return &cfg, nil
}

// Validate checks cross-field constraints. Call it after ApplyDefaults.
func (c *SpeechConfig) Validate() error {
	if c.APIVersion != APIVersion {
		return &ValidationError{Field: "apiVersion", Message: "unsupported version", Value: c.APIVersion}
	}
	if c.Kind != KindSpeechConfig {
		return &ValidationError{Field: "kind", Message: "must be " + KindSpeechConfig, Value: c.Kind}
	}
	if err := c.Spec.Logging.Validate(); err != nil {
		return err
	}
	if _, ok := tts.ParseFormat(c.Spec.TTS.AudioFormat); !ok {
		return &ValidationError{Field: "tts.audioFormat", Message: "unsupported audio format", Value: c.Spec.TTS.AudioFormat}
	}
	return c.Spec.Artifacts.validate()
}

func (a *ArtifactsSpec) validate() error {
	switch a.Backend {
	case ArtifactBackendLocal:
		if _, err := local.ParseRetention(a.Local.Retention); err != nil {
			return &ValidationError{Field: "artifacts.local.retention", Message: err.Error(), Value: a.Local.Retention}
		}
	case ArtifactBackendS3:
		if a.S3.Endpoint == "" {
			return &ValidationError{Field: "artifacts.s3.endpoint", Message: "is required for the s3 backend"}
		}
		if a.S3.Bucket == "" {
			return &ValidationError{Field: "artifacts.s3.bucket", Message: "is required for the s3 backend"}
		}
	default:
		return &ValidationError{Field: "artifacts.backend", Message: "must be one of: local, s3", Value: a.Backend}
	}
	return nil
}
