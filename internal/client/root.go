// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-pastor/internal/config"
	"github.com/MKhiriev/go-pastor/internal/logger"
)

// NewRootCommand creates the pastor command tree.
func (a *App) NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pastor",
		Short:         "pastor - a local-first encrypted vault",
		Long:          "pastor keeps logins, TOTP seeds and files in a password-encrypted vault that syncs between devices as an append-only log.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.loadConfig()
		},
	}

	cmd.PersistentFlags().StringVar(&a.vaultDir, "vault", "", "vault directory (default ~/.pastor)")
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "JSON config file")

	cmd.AddCommand(a.newInitCommand())
	cmd.AddCommand(a.newItemsCommand())
	cmd.AddCommand(a.newItemCommand())
	cmd.AddCommand(a.newValueCommand())
	cmd.AddCommand(a.newAttachmentCommand())
	cmd.AddCommand(a.newLogCommand())
	cmd.AddCommand(a.newSyncCommand())
	cmd.AddCommand(a.newSnapshotCommand())
	cmd.AddCommand(a.newVersionCommand())

	return cmd
}

// loadConfig merges env, flags and the JSON file into the vault view and
// sets up logging.
func (a *App) loadConfig() error {
	cfg, err := config.GetVaultConfig(&config.StructuredConfig{
		Vault:        config.Vault{Dir: a.vaultDir},
		JSONFilePath: a.configPath,
	})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	if a.logger == nil {
		a.logger = logger.NewFileLogger("pastor", cfg.Log.File)
	}
	return logger.SetLevel(cfg.Log.Level)
}

func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, line := range a.info.Lines() {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}
