package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AltairaLabs/speechkit/runtime/tts"
)

var synthesizeCmd = &cobra.Command{
	Use:   "synthesize <text>",
	Short: "Generate speech from text",
	Long: `Submits a synthesis job and prints where the audio can be found:
the artifact reference for stored audio, or the hosted URL with --signed-url.

Examples:
  speechkit synthesize "Selamat pagi"
  speechkit synthesize --voice tts-ocha-gentle "Terima kasih"
  speechkit synthesize --signed-url "Halo"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSynthesize,
}

var (
	synthesizeVoice     string
	synthesizeNoWait    bool
	synthesizeSignedURL bool
)

func init() {
	rootCmd.AddCommand(synthesizeCmd)
	synthesizeCmd.Flags().StringVar(&synthesizeVoice, "voice", "", "Voice model: "+voiceList())
	synthesizeCmd.Flags().BoolVar(&synthesizeNoWait, "no-wait", false, "Return the job ID without waiting for the audio")
	synthesizeCmd.Flags().BoolVar(&synthesizeSignedURL, "signed-url", false, "Return the service's hosted URL instead of storing the audio")
}

func voiceList() string {
	ids := make([]string, 0, len(tts.Voices()))
	for _, v := range tts.Voices() {
		ids = append(ids, v.ID)
	}
	return strings.Join(ids, ", ")
}

func runSynthesize(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), settings)
	if err != nil {
		return err
	}
	client := a.synthesizer(func(c *tts.Config) {
		if synthesizeNoWait {
			c.Wait = false
			c.ServerWait = false
		}
		if synthesizeSignedURL {
			c.SignedURL = true
		}
	})

	res, err := client.Synthesize(cmd.Context(), tts.VoiceRequest{
		Text:  strings.Join(args, " "),
		Voice: synthesizeVoice,
	})
	if err != nil {
		return err
	}
	return printSynthesis(cmd, res)
}

func printSynthesis(cmd *cobra.Command, res *tts.Synthesis) error {
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintln(out, res.Message()); err != nil {
		return err
	}
	if res.Reference != "" {
		_, err := fmt.Fprintln(out, res.Reference)
		return err
	}
	return nil
}
