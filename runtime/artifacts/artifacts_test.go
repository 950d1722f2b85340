package artifacts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentType(t *testing.T) {
	assert.Equal(t, "audio/mpeg", ContentType("output_audio_1.mp3"))
	assert.Equal(t, "audio/wav", ContentType("a.wav"))
	assert.Equal(t, "audio/ogg", ContentType("a.ogg"))
	assert.Equal(t, "text/plain; charset=utf-8", ContentType("notes.txt"))
	assert.Equal(t, "application/octet-stream", ContentType("blob"))
}

func TestResolvePutOptions(t *testing.T) {
	assert.Equal(t, "audio/mpeg", ResolvePutOptions("a.mp3").ContentType)
	assert.Equal(t, "audio/ogg", ResolvePutOptions("blob", WithContentType("audio/ogg")).ContentType)
}
