// Package cli wires the wordclip command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	outputJSON bool
)

// Execute runs the root cobra command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wordclip",
		Short: "Word overlay clip generator CLI",
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "wordclip.yaml", "Path to configuration file")
	cmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output machine-readable JSON")

	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newMergeCmd())
	cmd.AddCommand(newBuildCmd())
	cmd.AddCommand(newComposeCmd())
	cmd.AddCommand(newRenderCmd())

	return cmd
}
