// ABOUTME: CLI command to list indexed documents and collection stats
// ABOUTME: Shows filenames plus chunk counts and embedding model
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List documents in the knowledge base",
		Long: `List the documents currently in the knowledge base.

Shows every indexed filename plus a summary of the collection:
total chunks, document count, and the embedding model in use.

Examples:
  satchel list
  satchel list --format json`,
		Args: cobra.NoArgs,
		RunE: runList,
	}
	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	store, cleanup, err := newStore()
	if err != nil {
		return err
	}
	defer cleanup()

	filenames, err := store.ListFilenames()
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}
	stats, err := store.Stats()
	if err != nil {
		return fmt.Errorf("reading stats: %w", err)
	}

	if outputFormat == "json" {
		payload := map[string]any{
			"filenames":       filenames,
			"num_documents":   len(filenames),
			"total_chunks":    stats.TotalChunks,
			"collection_name": stats.CollectionName,
			"embedding_model": stats.EmbeddingModel,
		}
		jsonData, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	if len(filenames) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "Knowledge base is empty. Run 'satchel ingest <path>' to add documents.")
		}
		return nil
	}

	for _, name := range filenames {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d document(s), %d chunk(s) in %q (%s)\n",
			len(filenames), stats.TotalChunks, stats.CollectionName, stats.EmbeddingModel)
	}
	return nil
}
