// ABOUTME: CLI command to clear the entire knowledge base
// ABOUTME: Drops and recreates the collection after confirmation
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewClearCmd creates the clear command
func NewClearCmd() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every document from the knowledge base",
		Long: `Delete every document from the knowledge base.

Drops the collection and recreates it empty. This cannot be undone;
the --confirm flag is required.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				fmt.Fprintln(cmd.OutOrStdout(), "This will delete ALL documents from the knowledge base!")
				fmt.Fprintln(cmd.OutOrStdout(), "Run with --confirm to proceed")
				return nil
			}

			store, cleanup, err := newStore()
			if err != nil {
				return err
			}
			defer cleanup()

			if err := store.Clear(); err != nil {
				return fmt.Errorf("clearing knowledge base: %w", err)
			}
			if !quiet {
				fmt.Fprintln(cmd.OutOrStdout(), "Knowledge base cleared")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "confirm", false, "Confirm the clear operation")

	return cmd
}
