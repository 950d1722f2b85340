package stt

import (
	"context"
)

const (
	// Default audio settings for raw PCM handed to the Service adapter.
	DefaultSampleRate = 16000
	DefaultChannels   = 1
	DefaultBitDepth   = 16

	// Common audio formats.
	FormatPCM = "pcm"
	FormatWAV = "wav"
	FormatMP3 = "mp3"
)

// Service transcribes audio to text synchronously.
// Client satisfies it through AsService, which always waits for the job.
type Service interface {
	// Name returns the provider identifier (for logging/debugging).
	Name() string

	// Transcribe converts audio to text.
	Transcribe(ctx context.Context, audio []byte, config TranscriptionConfig) (string, error)

	// SupportedFormats returns supported audio input formats.
	SupportedFormats() []string
}

// TranscriptionConfig describes audio handed to a Service.
type TranscriptionConfig struct {
	// Format is the audio format ("pcm", "wav", "mp3").
	// PCM is wrapped in a WAV header before submission.
	Format string

	// SampleRate, Channels and BitDepth describe PCM input.
	SampleRate int
	Channels   int
	BitDepth   int

	// Model overrides the client's configured model when set.
	Model string
}

// DefaultTranscriptionConfig returns defaults for 16 kHz mono PCM.
func DefaultTranscriptionConfig() TranscriptionConfig {
	return TranscriptionConfig{
		Format:     FormatPCM,
		SampleRate: DefaultSampleRate,
		Channels:   DefaultChannels,
		BitDepth:   DefaultBitDepth,
	}
}
