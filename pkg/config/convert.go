package config

import (
	"github.com/AltairaLabs/speechkit/runtime/artifacts/local"
	"github.com/AltairaLabs/speechkit/runtime/artifacts/s3"
	"github.com/AltairaLabs/speechkit/runtime/jobs"
	"github.com/AltairaLabs/speechkit/runtime/readers"
	"github.com/AltairaLabs/speechkit/runtime/stt"
	"github.com/AltairaLabs/speechkit/runtime/tts"
)

// Credentials returns the service credentials of the section.
func (s *ServiceSpec) Credentials() jobs.Credentials {
	return jobs.Credentials{BaseURL: s.BaseURL, APIKey: s.APIKey}
}

// PollerConfig converts the polling section.
func (p PollingSpec) PollerConfig() jobs.PollerConfig {
	return jobs.PollerConfig{
		Interval:    p.Interval,
		Timeout:     p.Timeout,
		MaxAttempts: p.MaxAttempts,
		Retry: jobs.RetryPolicy{
			MaxRetries:      p.Retry.MaxRetries,
			InitialInterval: p.Retry.InitialInterval,
			MaxInterval:     p.Retry.MaxInterval,
		},
	}
}

// ClientConfig converts the section into an stt.Client configuration.
func (s *STTSpec) ClientConfig() stt.Config {
	return stt.Config{
		Credentials:           s.Credentials(),
		Model:                 s.Model,
		Wait:                  boolValue(s.Wait),
		ServerWait:            boolValue(s.ServerWait),
		IncludeFiller:         boolValue(s.IncludeFiller),
		IncludePartialResults: boolValue(s.IncludePartialResults),
		AutoPunctuation:       boolValue(s.AutoPunctuation),
		SpeakerCount:          s.SpeakerCount,
		AudioFormat:           s.AudioFormat,
		SampleRate:            s.SampleRate,
		Label:                 s.Label,
		Poller:                s.Polling.PollerConfig(),
	}
}

// ClientConfig converts the section into a tts.Client configuration.
func (s *TTSSpec) ClientConfig() tts.Config {
	return tts.Config{
		Credentials: s.Credentials(),
		Voice:       s.Voice,
		Wait:        boolValue(s.Wait),
		ServerWait:  boolValue(s.ServerWait),
		AudioFormat: s.AudioFormat,
		SampleRate:  s.SampleRate,
		Pitch:       s.Pitch,
		Tempo:       s.Tempo,
		SignedURL:   s.SignedURL,
		ScratchDir:  s.ScratchDir,
		Label:       s.Label,
		Poller:      s.Polling.PollerConfig(),
	}
}

// FileStoreConfig converts the local artifact section.
func (a *ArtifactsSpec) FileStoreConfig() (local.FileStoreConfig, error) {
	retention, err := local.ParseRetention(a.Local.Retention)
	if err != nil {
		return local.FileStoreConfig{}, err
	}
	return local.FileStoreConfig{BaseDir: a.Local.Dir, Retention: retention}, nil
}

// S3Config converts the bucket section.
func (a *ArtifactsSpec) S3Config() s3.Config {
	return s3.Config{
		Endpoint:      a.S3.Endpoint,
		AccessKey:     a.S3.AccessKey,
		SecretKey:     a.S3.SecretKey,
		Bucket:        a.S3.Bucket,
		Region:        a.S3.Region,
		Prefix:        a.S3.Prefix,
		Secure:        a.S3.Secure,
		PublicBaseURL: a.S3.PublicBaseURL,
		PresignExpiry: a.S3.PresignExpiry,
	}
}

// TextReader builds the reader the text file tool uses.
func (r ReaderSpec) TextReader() readers.TextReader {
	return readers.TextReader{Root: r.Root, MaxBytes: r.MaxBytes}
}
