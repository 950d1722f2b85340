package stt

import "encoding/binary"

const wavHeaderSize = 44

// WrapPCMAsWAV prefixes raw little-endian PCM with a canonical 44-byte WAV
// header. The transcription service accepts container formats only, so bare
// PCM handed to the Service adapter is wrapped before submission.
func WrapPCMAsWAV(pcm []byte, sampleRate, channels, bitsPerSample int) []byte {
	size := uint32(len(pcm)) //nolint:gosec // audio buffers stay far below 4 GiB
	blockAlign := channels * bitsPerSample / 8
	le := binary.LittleEndian

	wav := make([]byte, wavHeaderSize, wavHeaderSize+len(pcm))
	copy(wav[0:4], "RIFF")
	le.PutUint32(wav[4:8], 36+size)
	copy(wav[8:12], "WAVE")

	copy(wav[12:16], "fmt ")
	le.PutUint32(wav[16:20], 16)
	le.PutUint16(wav[20:22], 1) // PCM
	le.PutUint16(wav[22:24], u16(channels))
	le.PutUint32(wav[24:28], u32(sampleRate))
	le.PutUint32(wav[28:32], u32(sampleRate*blockAlign))
	le.PutUint16(wav[32:34], u16(blockAlign))
	le.PutUint16(wav[34:36], u16(bitsPerSample))

	copy(wav[36:40], "data")
	le.PutUint32(wav[40:44], size)
	return append(wav, pcm...)
}

func u16(v int) uint16 { return uint16(v) } //nolint:gosec // header fields are small
func u32(v int) uint32 { return uint32(v) } //nolint:gosec // header fields are small
