// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: Defines verbose/quiet/format globals shared by all commands
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
███████╗ █████╗ ████████╗ ██████╗██╗  ██╗███████╗██╗
██╔════╝██╔══██╗╚══██╔══╝██╔════╝██║  ██║██╔════╝██║
███████╗███████║   ██║   ██║     ███████║█████╗  ██║
╚════██║██╔══██║   ██║   ██║     ██╔══██║██╔══╝  ██║
███████║██║  ██║   ██║   ╚██████╗██║  ██║███████╗███████╗
╚══════╝╚═╝  ╚═╝   ╚═╝    ╚═════╝╚═╝  ╚═╝╚══════╝╚══════╝
`

// NewRootCmd creates the root command with all subcommands
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "satchel",
		Short: "Local knowledge base with semantic search",
		Long: banner + `
Satchel turns a folder of notes into a searchable knowledge base.

Documents are chunked, embedded, and indexed locally. Ask questions
in natural language and get answers grounded in your own files, with
sources. Runs as a CLI or as an MCP server for LLM agents.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, table, json")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewIngestCmd())
	cmd.AddCommand(NewAskCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewRemoveCmd())
	cmd.AddCommand(NewClearCmd())
	cmd.AddCommand(NewSyncCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
