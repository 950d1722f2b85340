package stt

import "errors"

var (
	// ErrEmptyAudio is returned when the Service adapter receives no audio.
	ErrEmptyAudio = errors.New("audio data is empty")

	// ErrInvalidFormat is returned for an audio format the service does not accept.
	ErrInvalidFormat = errors.New("unsupported audio format")
)
