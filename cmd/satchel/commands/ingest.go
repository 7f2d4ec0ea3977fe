// ABOUTME: CLI command to ingest files or directories into the index
// ABOUTME: Chunks, embeds, and stores supported documents
package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/satchellabs/satchel/internal/core"
)

// NewIngestCmd creates the ingest command
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <path>",
		Short: "Ingest a file or directory into the knowledge base",
		Long: `Ingest documents into the knowledge base.

Accepts a single file or a directory. Directories are walked
recursively; supported files (.txt, .md) are chunked, embedded,
and indexed. Hidden and unsupported files are skipped.

Examples:
  satchel ingest notes.md
  satchel ingest ~/Documents/notes/
  satchel ingest --format json ./docs`,
		Args: cobra.ExactArgs(1),
		RunE: runIngest,
	}
	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", path, err)
	}

	pipeline, cleanup, err := newPipeline()
	if err != nil {
		return err
	}
	defer cleanup()

	if verbose {
		fmt.Fprintf(cmd.OutOrStdout(), "Ingesting %s...\n", path)
	}

	var result core.IngestResult
	if info.IsDir() {
		result = pipeline.IngestDirectory(path)
	} else {
		result = pipeline.IngestFile(path)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		if !result.Success {
			return fmt.Errorf("ingest failed")
		}
		return nil
	}

	for _, failure := range result.Failures {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped: %s\n", failure)
	}
	if !result.Success {
		return fmt.Errorf("ingest failed: %s", result.Error)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Ingested %d of %d file(s), %d chunk(s) written\n",
			result.FilesIngested, result.FilesFound, result.ChunksWritten)
	}
	return nil
}
