package jobs

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// PrimaryChannel is the only channel whose segments form the transcript.
// Multi-channel audio yields parallel segments for every other channel.
const PrimaryChannel = 0

// JoinTranscript joins the text of primary-channel segments with single
// spaces, in service order. An empty or absent list, or one with no
// primary-channel segment, returns ErrNoTranscriptData.
func JoinTranscript(segments []TranscriptSegment) (string, error) {
	if len(segments) == 0 {
		return "", ErrNoTranscriptData
	}
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s.Channel == PrimaryChannel {
			parts = append(parts, s.Text)
		}
	}
	if len(parts) == 0 {
		return "", ErrNoTranscriptData
	}
	return strings.Join(parts, " "), nil
}

// DecodeAudio returns the bytes of an Inline or Encoded payload.
// Reference and empty payloads return an error; callers handle references
// without decoding.
func DecodeAudio(p Payload) ([]byte, error) {
	switch p.Kind() {
	case PayloadInline:
		if len(p.Bytes()) == 0 {
			return nil, ErrNoAudioData
		}
		return p.Bytes(), nil
	case PayloadEncoded:
		data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(p.Encoded()))
		if err != nil {
			return nil, fmt.Errorf("decode base64 audio: %w", err)
		}
		if len(data) == 0 {
			return nil, ErrNoAudioData
		}
		return data, nil
	case PayloadReference:
		return nil, fmt.Errorf("cannot decode %s payload", p.Kind())
	case PayloadNone:
		return nil, ErrNoAudioData
	default:
		return nil, ErrNoAudioData
	}
}
