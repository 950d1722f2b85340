package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AltairaLabs/speechkit/runtime/version"
)

var rootCmd = &cobra.Command{
	Use:           "speechkit",
	Short:         "Speech-to-text and text-to-speech through an asynchronous job API",
	Version:       version.GetVersion(),
	SilenceUsage:  true,  // Don't print usage on error
	SilenceErrors: false, // Do print errors
	Long: `speechkit submits transcription and synthesis jobs to a remote speech
service, waits for them to finish and delivers the result.

Service endpoints and keys come from the config file, SPEECHKIT_* environment
variables, a .env file or flags, in increasing order of precedence.`,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		return loadSettings()
	},
}

func init() {
	registerGlobalFlags(rootCmd)
}

// setupVersion configures the version display
func setupVersion() {
	rootCmd.SetVersionTemplate(version.GetVersionInfo("speechkit") + "\n")
}

// Execute runs the root command.
func Execute() {
	setupVersion()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		// Error already printed by cobra
		os.Exit(1)
	}
}

func main() {
	Execute()
}
