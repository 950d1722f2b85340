package config

import (
	"time"

	"github.com/AltairaLabs/speechkit/runtime/jobs"
	"github.com/AltairaLabs/speechkit/runtime/readers"
	"github.com/AltairaLabs/speechkit/runtime/stt"
	"github.com/AltairaLabs/speechkit/runtime/tts"
)

// Defaults for values that have no natural zero.
const (
	DefaultArtifactDir    = "artifacts"
	DefaultSweepInterval  = 10 * time.Minute
	DefaultServiceName    = "speechkit"
	DefaultServerAddr     = ":8080"
	DefaultMetricsPath    = "/metrics"
	DefaultTTSAudioFormat = "mp3"
)

// Default returns a manifest with every default applied.
func Default() *SpeechConfig {
	cfg := &SpeechConfig{APIVersion: APIVersion, Kind: KindSpeechConfig}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills every unset field. It is idempotent.
func (c *SpeechConfig) ApplyDefaults() {
	s := &c.Spec

	s.STT.applyDefaults()
	setDefault(&s.STT.Model, stt.DefaultModel)
	setBool(&s.STT.IncludeFiller, true)
	setBool(&s.STT.IncludePartialResults, true)
	setBool(&s.STT.AutoPunctuation, true)

	s.TTS.applyDefaults()
	setDefault(&s.TTS.Voice, tts.DefaultVoice)
	setDefault(&s.TTS.AudioFormat, DefaultTTSAudioFormat)
	setDefault(&s.TTS.ScratchDir, tts.DefaultScratchDir)

	setDefault(&s.Artifacts.Backend, ArtifactBackendLocal)
	setDefault(&s.Artifacts.Local.Dir, DefaultArtifactDir)
	if s.Artifacts.Local.SweepInterval == 0 {
		s.Artifacts.Local.SweepInterval = DefaultSweepInterval
	}

	if s.Reader.MaxBytes == 0 {
		s.Reader.MaxBytes = readers.DefaultMaxBytes
	}

	logDefaults := DefaultLoggingConfig()
	setDefault(&s.Logging.DefaultLevel, logDefaults.DefaultLevel)
	setDefault(&s.Logging.Format, logDefaults.Format)

	setDefault(&s.Telemetry.ServiceName, DefaultServiceName)
	setDefault(&s.Server.Addr, DefaultServerAddr)
	setDefault(&s.Server.MetricsPath, DefaultMetricsPath)
}

func (s *ServiceSpec) applyDefaults() {
	setBool(&s.Wait, true)
	setBool(&s.ServerWait, true)
	if s.Polling.Interval == 0 {
		s.Polling.Interval = jobs.DefaultPollInterval
	}
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

func setBool(field **bool, value bool) {
	if *field == nil {
		*field = &value
	}
}

func boolValue(b *bool) bool {
	return b != nil && *b
}
