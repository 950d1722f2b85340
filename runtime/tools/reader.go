package tools

import (
	"context"
	"encoding/json"

	"github.com/AltairaLabs/speechkit/runtime/readers"
)

// ReadTextTool returns the contents of a UTF-8 text file, typically to feed
// the synthesis tool.
type ReadTextTool struct {
	reader readers.TextReader
}

// NewReadTextTool creates the text file reader tool.
func NewReadTextTool(reader readers.TextReader) *ReadTextTool {
	return &ReadTextTool{reader: reader}
}

// Descriptor implements Executor.
func (t *ReadTextTool) Descriptor() *ToolDescriptor {
	return &ToolDescriptor{
		Name:        NameReadText,
		Description: "Reads text from a file and returns the contents of the file.",
		InputSchema: readTextInputSchema,
	}
}

// Execute implements Executor.
func (t *ReadTextTool) Execute(ctx context.Context, args, _ json.RawMessage) (*Output, error) {
	in, err := decodeArgs[struct {
		FilePath string `json:"file_path"`
	}](args)
	if err != nil {
		return nil, err
	}
	text, err := t.reader.Read(ctx, in.FilePath)
	if err != nil {
		return nil, err
	}
	return &Output{Text: text}, nil
}

// FormatError implements ErrorFormatter.
func (t *ReadTextTool) FormatError(err error) string {
	return "Error reading file: " + err.Error()
}

// RegisterBuiltins registers the transcription, synthesis, deferred result
// and text reader tools.
func RegisterBuiltins(r *Registry, transcribe *TranscribeTool, synthesize *SynthesizeTool, read *ReadTextTool) error {
	for _, e := range []Executor{transcribe, synthesize, NewJobResultTool(transcribe, synthesize), read} {
		if err := r.Register(e); err != nil {
			return err
		}
	}
	return nil
}
