package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AltairaLabs/speechkit/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a SpeechConfig manifest",
	Long: `Checks a manifest against the SpeechConfig JSON schema and the cross-field
rules applied at load time.

Examples:
  speechkit validate speechkit.yaml`,
	Args: cobra.ExactArgs(1),
	// Validation must not depend on the settings it is validating.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.LoadConfig(args[0]); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", filepath.Base(args[0]))
		return err
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
