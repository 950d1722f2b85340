package config

import (
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// SpeechConfig is the speechkit configuration in K8s-style manifest format.
type SpeechConfig struct {
	APIVersion string            `yaml:"apiVersion"`
	Kind       string            `yaml:"kind"`
	Metadata   metav1.ObjectMeta `yaml:"metadata,omitempty"`
	Spec       Spec              `yaml:"spec"`
}

// Spec holds every configurable part of speechkit.
type Spec struct {
	STT       STTSpec           `yaml:"stt,omitempty"`
	TTS       TTSSpec           `yaml:"tts,omitempty"`
	Artifacts ArtifactsSpec     `yaml:"artifacts,omitempty"`
	Reader    ReaderSpec        `yaml:"reader,omitempty"`
	Logging   LoggingConfigSpec `yaml:"logging,omitempty"`
	Telemetry TelemetrySpec     `yaml:"telemetry,omitempty"`
	Server    ServerSpec        `yaml:"server,omitempty"`
}

// ServiceSpec holds the settings shared by the STT and TTS sections.
type ServiceSpec struct {
	BaseURL string `yaml:"baseURL,omitempty"`
	APIKey  string `yaml:"apiKey,omitempty"`

	// Wait makes calls poll until the job finishes. Default: true.
	Wait *bool `yaml:"wait,omitempty"`

	// ServerWait asks the service to hold submissions until done. Default: true.
	ServerWait *bool `yaml:"serverWait,omitempty"`

	AudioFormat string      `yaml:"audioFormat,omitempty"`
	SampleRate  int         `yaml:"sampleRate,omitempty"`
	Label       string      `yaml:"label,omitempty"`
	Polling     PollingSpec `yaml:"polling,omitempty"`
}

// STTSpec configures transcription.
type STTSpec struct {
	ServiceSpec `yaml:",inline"`

	Model                 string `yaml:"model,omitempty"`
	IncludeFiller         *bool  `yaml:"includeFiller,omitempty"`
	IncludePartialResults *bool  `yaml:"includePartialResults,omitempty"`
	AutoPunctuation       *bool  `yaml:"autoPunctuation,omitempty"`
	SpeakerCount          int    `yaml:"speakerCount,omitempty"`
}

// TTSSpec configures synthesis.
type TTSSpec struct {
	ServiceSpec `yaml:",inline"`

	Voice      string  `yaml:"voice,omitempty"`
	Pitch      float64 `yaml:"pitch,omitempty"`
	Tempo      float64 `yaml:"tempo,omitempty"`
	SignedURL  bool    `yaml:"signedURL,omitempty"`
	ScratchDir string  `yaml:"scratchDir,omitempty"`
}

// PollingSpec bounds how a job is waited for. Durations use Go syntax ("5s", "10m").
type PollingSpec struct {
	Interval    time.Duration `yaml:"interval,omitempty"`
	Timeout     time.Duration `yaml:"timeout,omitempty"`
	MaxAttempts int           `yaml:"maxAttempts,omitempty"`
	Retry       RetrySpec     `yaml:"retry,omitempty"`
}

// RetrySpec configures retries of a failed status check.
type RetrySpec struct {
	MaxRetries      int           `yaml:"maxRetries,omitempty"`
	InitialInterval time.Duration `yaml:"initialInterval,omitempty"`
	MaxInterval     time.Duration `yaml:"maxInterval,omitempty"`
}

// Artifact backends.
const (
	ArtifactBackendLocal = "local"
	ArtifactBackendS3    = "s3"
)

// ArtifactsSpec selects where generated audio is stored.
type ArtifactsSpec struct {
	Backend string            `yaml:"backend,omitempty"`
	Local   LocalArtifactSpec `yaml:"local,omitempty"`
	S3      S3ArtifactSpec    `yaml:"s3,omitempty"`
}

// LocalArtifactSpec configures the filesystem store.
type LocalArtifactSpec struct {
	Dir string `yaml:"dir,omitempty"`

	// Retention is a policy name such as "retain-24hours" or "delete-after-30min".
	// Empty keeps artifacts forever.
	Retention string `yaml:"retention,omitempty"`

	// SweepInterval is how often expired artifacts are removed by the server.
	SweepInterval time.Duration `yaml:"sweepInterval,omitempty"`
}

// S3ArtifactSpec configures the bucket store.
type S3ArtifactSpec struct {
	Endpoint      string        `yaml:"endpoint,omitempty"`
	AccessKey     string        `yaml:"accessKey,omitempty"`
	SecretKey     string        `yaml:"secretKey,omitempty"`
	Bucket        string        `yaml:"bucket,omitempty"`
	Region        string        `yaml:"region,omitempty"`
	Prefix        string        `yaml:"prefix,omitempty"`
	Secure        bool          `yaml:"secure,omitempty"`
	PublicBaseURL string        `yaml:"publicBaseURL,omitempty"`
	PresignExpiry time.Duration `yaml:"presignExpiry,omitempty"`
}

// ReaderSpec configures the text file reader tool.
type ReaderSpec struct {
	Root     string `yaml:"root,omitempty"`
	MaxBytes int64  `yaml:"maxBytes,omitempty"`
}

// TelemetrySpec configures tracing export. An empty endpoint disables export.
type TelemetrySpec struct {
	OTLPEndpoint string `yaml:"otlpEndpoint,omitempty"`
	ServiceName  string `yaml:"serviceName,omitempty"`
}

// ServerSpec configures the tool server.
type ServerSpec struct {
	Addr        string `yaml:"addr,omitempty"`
	MetricsPath string `yaml:"metricsPath,omitempty"`
}
