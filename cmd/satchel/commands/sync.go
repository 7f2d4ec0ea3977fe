// ABOUTME: Sync commands for Charm cloud synchronization
// ABOUTME: Provides status, now, wipe, and keys management
package commands

import (
	"fmt"
	"os"

	charmclient "github.com/charmbracelet/charm/client"
	"github.com/spf13/cobra"

	"github.com/satchellabs/satchel/internal/config"
	"github.com/satchellabs/satchel/internal/storage/charmkv"
)

// NewSyncCmd creates the sync command group
func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Manage Charm cloud synchronization",
		Long: `Manage synchronization with Charm cloud.

With SATCHEL_INDEX_BACKEND=charm the knowledge base syncs
automatically across devices linked to the same Charm account via
SSH keys. These commands inspect and drive that sync.`,
	}

	cmd.AddCommand(newSyncStatusCmd())
	cmd.AddCommand(newSyncNowCmd())
	cmd.AddCommand(newSyncWipeCmd())
	cmd.AddCommand(newSyncKeysCmd())

	return cmd
}

// charmBackend opens the charm KV backend regardless of the configured
// index backend; sync commands only make sense against charm.
func charmBackend() (*charmkv.Backend, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}
	backend, err := charmkv.NewBackend(cfg.CharmHost, cfg.CharmDBName, false)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to Charm: %w", err)
	}
	return backend, cfg, nil
}

func newSyncStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show sync status and connection info",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := charmclient.NewClientWithDefaults()
			if err != nil {
				return fmt.Errorf("failed to create charm client: %w", err)
			}

			id, err := cc.ID()
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Status: Not connected")
				fmt.Fprintln(cmd.OutOrStdout(), "Run 'satchel sync keys' to check your SSH keys")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Status: Connected")
			fmt.Fprintf(cmd.OutOrStdout(), "User ID: %s\n", id)
			fmt.Fprintf(cmd.OutOrStdout(), "Host: %s\n", os.Getenv("CHARM_HOST"))

			return nil
		},
	}
}

func newSyncNowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "now",
		Short: "Force immediate sync with Charm cloud",
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, _, err := charmBackend()
			if err != nil {
				return err
			}
			defer backend.Close()

			fmt.Fprintln(cmd.OutOrStdout(), "Syncing...")
			if err := backend.Sync(); err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Sync complete")
			return nil
		},
	}
}

func newSyncWipeCmd() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Wipe all local data (nuclear option)",
		Long: `Completely wipe all local Charm data.

WARNING: This deletes all locally cached data. Your cloud data
remains intact and will be re-synced on next access.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				fmt.Fprintln(cmd.OutOrStdout(), "This will wipe ALL local data!")
				fmt.Fprintln(cmd.OutOrStdout(), "Run with --confirm to proceed")
				return nil
			}

			backend, _, err := charmBackend()
			if err != nil {
				return err
			}
			defer backend.Close()

			if err := backend.Reset(); err != nil {
				return fmt.Errorf("failed to wipe data: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Local data wiped successfully")
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "confirm", false, "Confirm the wipe operation")

	return cmd
}

func newSyncKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List authorized SSH keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := charmclient.NewClientWithDefaults()
			if err != nil {
				return fmt.Errorf("failed to create charm client: %w", err)
			}

			keys, err := cc.AuthorizedKeys()
			if err != nil {
				return fmt.Errorf("failed to get authorized keys: %w", err)
			}

			if keys == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No authorized keys found")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Authorized SSH keys:")
			fmt.Fprintln(cmd.OutOrStdout(), keys)

			return nil
		},
	}
}
