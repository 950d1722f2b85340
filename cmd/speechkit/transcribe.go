package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AltairaLabs/speechkit/runtime/jobs"
	"github.com/AltairaLabs/speechkit/runtime/stt"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <uri>",
	Short: "Transcribe audio at a URI or in a local file",
	Long: `Submits a transcription job and prints the transcript of channel 0.

Examples:
  speechkit transcribe https://example.com/call.wav
  speechkit transcribe --file recording.mp3 --model stt-general
  speechkit transcribe --no-wait https://example.com/long.wav`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTranscribe,
}

var (
	transcribeFile   string
	transcribeModel  string
	transcribeNoWait bool
)

func init() {
	rootCmd.AddCommand(transcribeCmd)
	transcribeCmd.Flags().StringVar(&transcribeFile, "file", "", "Local audio file uploaded inline instead of a URI")
	transcribeCmd.Flags().StringVar(&transcribeModel, "model", "", "STT model (default from config)")
	transcribeCmd.Flags().BoolVar(&transcribeNoWait, "no-wait", false, "Return the job ID without waiting for the transcript")
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	src, err := transcribeSource(args)
	if err != nil {
		return err
	}
	a, err := newApp(cmd.Context(), settings)
	if err != nil {
		return err
	}
	client := a.transcriber(func(c *stt.Config) {
		if transcribeModel != "" {
			c.Model = transcribeModel
		}
		if transcribeNoWait {
			c.Wait = false
			c.ServerWait = false
		}
	})

	res, err := client.Transcribe(cmd.Context(), src)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if res.Pending {
		_, err = fmt.Fprintf(out, "Transcription submitted as job %s\n", res.JobID)
		return err
	}
	_, err = fmt.Fprintln(out, res.Text)
	return err
}

func transcribeSource(args []string) (jobs.Payload, error) {
	switch {
	case transcribeFile != "" && len(args) > 0:
		return jobs.Payload{}, fmt.Errorf("pass either a URI or --file, not both")
	case transcribeFile != "":
		data, err := os.ReadFile(transcribeFile)
		if err != nil {
			return jobs.Payload{}, fmt.Errorf("read audio: %w", err)
		}
		return jobs.Inline(data), nil
	case len(args) == 1:
		return jobs.Reference(args[0]), nil
	default:
		return jobs.Payload{}, fmt.Errorf("a URI or --file is required")
	}
}
