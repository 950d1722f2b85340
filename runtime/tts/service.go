package tts

import "strings"

// Voice models offered by the synthesis service.
const (
	VoiceDimasFormal = "tts-dimas-formal"
	VoiceOchaGentle  = "tts-ocha-gentle"

	// DefaultVoice is used when neither the request nor the config names one.
	DefaultVoice = VoiceDimasFormal
)

// Voice describes a synthesis voice model.
type Voice struct {
	// ID is the model name sent to the service.
	ID string

	// Gender is "male" or "female".
	Gender string

	Description string
}

// Voices lists the well-known voice models. The service may accept others.
func Voices() []Voice {
	return []Voice{
		{ID: VoiceDimasFormal, Gender: "male", Description: "Formal male voice"},
		{ID: VoiceOchaGentle, Gender: "female", Description: "Gentle female voice"},
	}
}

// LookupVoice returns the well-known voice with the given ID, matched
// case-insensitively. Synthesize uses it to normalise voice names.
func LookupVoice(id string) (Voice, bool) {
	for _, v := range Voices() {
		if strings.EqualFold(v.ID, id) {
			return v, true
		}
	}
	return Voice{}, false
}

// AudioFormat describes a synthesis output format.
type AudioFormat struct {
	// Name is the format identifier sent as audio_format.
	Name string

	// MIMEType is the content type of the produced audio.
	MIMEType string

	// Extension is the file extension used for spooled audio, with the dot.
	Extension string
}

// Supported output formats.
var (
	FormatMP3 = AudioFormat{Name: "mp3", MIMEType: "audio/mpeg", Extension: ".mp3"}
	FormatWAV = AudioFormat{Name: "wav", MIMEType: "audio/wav", Extension: ".wav"}
	FormatOGG = AudioFormat{Name: "ogg", MIMEType: "audio/ogg", Extension: ".ogg"}
)

// String returns the format name.
func (f AudioFormat) String() string {
	return f.Name
}

// ParseFormat resolves a format name case-insensitively.
func ParseFormat(name string) (AudioFormat, bool) {
	for _, f := range []AudioFormat{FormatMP3, FormatWAV, FormatOGG} {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return AudioFormat{}, false
}
