// ABOUTME: CLI command to search the knowledge base
// ABOUTME: Shows reranked chunks without generating an answer
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	searchLimit int
)

// NewSearchCmd creates the search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the knowledge base",
		Long: `Search the knowledge base and show the matching chunks.

Results are reranked by combining vector similarity with lexical
term overlap, so exact keyword matches surface even when semantically
similar chunks score close together.

Examples:
  satchel search "connection pooling"
  satchel search --limit 10 "retry backoff"
  satchel search --format json "API keys"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchLimit, "limit", 5, "Maximum results to return")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(searchLimit, "limit"); err != nil {
		return err
	}
	query := args[0]

	pipeline, cleanup, err := newPipeline()
	if err != nil {
		return err
	}
	defer cleanup()

	result := pipeline.Search(query, searchLimit)
	if !result.Success {
		return fmt.Errorf("search failed: %s", result.Error)
	}

	if len(result.Results) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No matches for query: %s\n", query)
		}
		return nil
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(result.Results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SCORE\tSIMILARITY\tSOURCE\tPREVIEW\n")
	fmt.Fprintf(w, "-----\t----------\t------\t-------\n")
	for _, res := range result.Results {
		fmt.Fprintf(w, "%.3f\t%.3f\t%s\t%s\n",
			res.CombinedScore,
			res.SimilarityScore,
			truncate(res.Source(), 25),
			truncate(res.Content, 60))
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nFound %d result(s)\n", len(result.Results))
	}
	return nil
}
