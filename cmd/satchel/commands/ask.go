// ABOUTME: CLI command to ask questions against the knowledge base
// ABOUTME: Retrieves context and generates a grounded answer with sources
package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question answered from your documents",
		Long: `Ask a question against the knowledge base.

The question is embedded, the most relevant chunks are retrieved and
reranked, and an answer is generated grounded in that context. Sources
are listed with the answer.

Examples:
  satchel ask "what is the warranty period?"
  satchel ask --format json "how do I configure the proxy?"`,
		Args: cobra.ExactArgs(1),
		RunE: runAsk,
	}
	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	pipeline, cleanup, err := newPipeline()
	if err != nil {
		return err
	}
	defer cleanup()

	result := pipeline.Query(question, nil)

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		if !result.Success {
			return fmt.Errorf("query failed")
		}
		return nil
	}

	if !result.Success {
		return fmt.Errorf("query failed: %s", result.Error)
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.Answer)
	if len(result.Sources) > 0 && !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nSources: %s\n", strings.Join(result.Sources, ", "))
	}
	if verbose {
		fmt.Fprintf(cmd.OutOrStdout(), "Context: %d chunk(s), %d chars\n",
			result.NumChunks, result.ContextLength)
	}
	return nil
}
