package tools

import "encoding/json"

// Tool names as registered with the agent framework.
const (
	NameTranscribe = "stt-test"
	NameSynthesize = "tts-test"
	NameReadText   = "text_file_reader_tool"
	NameJobResult  = "speech_job_result"
)

var sttInputSchema = json.RawMessage(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"uri": {"type": "string", "minLength": 1, "description": "The URI of the audio file"}
	},
	"required": ["uri"],
	"additionalProperties": false
}`)

var sttConfigSchema = json.RawMessage(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"stt_base_url": {"type": "string", "default": "", "description": "The base URL for the STT API"},
		"stt_api_key": {"type": "string", "default": "", "description": "The API key for the STT API"},
		"model": {"type": "string", "default": "stt-general", "description": "The model to use for the STT API"},
		"wait": {"type": "boolean", "default": true, "description": "Whether to wait for the STT API to complete"}
	},
	"additionalProperties": false
}`)

var ttsInputSchema = json.RawMessage(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"text": {"type": "string", "minLength": 1, "description": "The text to convert to speech"},
		"model": {
			"type": ["string", "null"],
			"description": "The TTS model to use. Options: 'tts-dimas-formal' (male voice) or 'tts-ocha-gentle' (female voice). If not specified, uses the default model from config."
		}
	},
	"required": ["text"],
	"additionalProperties": false
}`)

var ttsConfigSchema = json.RawMessage(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"tts_base_url": {"type": "string", "default": "", "description": "The base URL for the TTS API"},
		"tts_api_key": {"type": "string", "default": "", "description": "The API key for the TTS API"},
		"model": {"type": "string", "default": "tts-dimas-formal", "description": "The model to use for the TTS API"},
		"wait": {"type": "boolean", "default": true, "description": "Whether to wait for the TTS API to complete"}
	},
	"additionalProperties": false
}`)

var readTextInputSchema = json.RawMessage(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"file_path": {"type": "string", "minLength": 1, "description": "The path to the text file to read"}
	},
	"required": ["file_path"],
	"additionalProperties": false
}`)

var jobResultInputSchema = json.RawMessage(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"kind": {"type": "string", "enum": ["stt", "tts"], "description": "The job kind: stt for transcription, tts for synthesis"},
		"job_id": {"type": "string", "minLength": 1, "description": "The job id returned when the job was submitted"}
	},
	"required": ["kind", "job_id"],
	"additionalProperties": false
}`)
