package tts

import "errors"

var (
	// ErrInvalidFormat is returned when the requested format is not supported.
	ErrInvalidFormat = errors.New("invalid or unsupported audio format")

	// ErrNoArtifactStore is returned when the service answers with inline
	// audio but the client has nowhere to put it.
	ErrNoArtifactStore = errors.New("no artifact store configured for inline audio")
)
