package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var readCmd = &cobra.Command{
	Use:   "read <path>",
	Short: "Print a UTF-8 text file the way the reader tool returns it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := settings.Spec.Reader.TextReader().Read(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("error reading file: %w", err)
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), text)
		return err
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
}
