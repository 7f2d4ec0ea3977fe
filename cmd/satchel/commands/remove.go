// ABOUTME: CLI command to remove a document from the knowledge base
// ABOUTME: Deletes all chunks of a document by filename
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRemoveCmd creates the remove command
func NewRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <filename>",
		Short: "Remove a document from the knowledge base",
		Long: `Remove a document's chunks from the knowledge base.

The filename must match what 'satchel list' shows. Removing a
filename that is not indexed is a no-op, not an error.

Examples:
  satchel remove notes.md`,
		Args: cobra.ExactArgs(1),
		RunE: runRemove,
	}
	return cmd
}

func runRemove(cmd *cobra.Command, args []string) error {
	filename := args[0]

	store, cleanup, err := newStore()
	if err != nil {
		return err
	}
	defer cleanup()

	deleted, err := store.DeleteByFilename(filename)
	if err != nil {
		return fmt.Errorf("removing %s: %w", filename, err)
	}

	if quiet {
		return nil
	}
	if deleted == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No document named %q in the knowledge base\n", filename)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %q (%d chunk(s))\n", filename, deleted)
	return nil
}
