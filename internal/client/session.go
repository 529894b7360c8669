// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-pastor/internal/blob"
	"github.com/MKhiriev/go-pastor/internal/vault"
)

func (a *App) vaultOptions() []vault.Option {
	opts := []vault.Option{
		vault.WithCodecVersion(a.cfg.CodecVersion),
		vault.WithKDFParams(a.cfg.KDF),
		vault.WithMetrics(a.metrics),
		vault.WithLogger(a.logger),
	}
	if a.cfg.DeviceID != "" {
		opts = append(opts, vault.WithDeviceID(a.cfg.DeviceID))
	}
	return opts
}

func (a *App) localStore() (*blob.FileStore, error) {
	return blob.NewFileStore(a.cfg.Dir)
}

// unlock opens the configured vault and unlocks it with the user's password.
func (a *App) unlock(ctx context.Context) (*vault.Vault, error) {
	store, err := a.localStore()
	if err != nil {
		return nil, err
	}

	v, err := vault.Open(ctx, store, a.vaultOptions()...)
	if errors.Is(err, blob.ErrNotFound) {
		return nil, fmt.Errorf("%w %s: run `pastor init` first", ErrNoVault, a.cfg.Dir)
	}
	if err != nil {
		return nil, err
	}

	password, err := a.passwords.ReadPassword(passwordPrompt)
	if err != nil {
		return nil, err
	}
	if err = v.Unlock(ctx, password); err != nil {
		if errors.Is(err, vault.ErrVaultLocked) {
			return nil, ErrWrongPassword
		}
		return nil, err
	}
	return v, nil
}

// read runs fn on the unlocked vault.
func (a *App) read(cmd *cobra.Command, fn func(ctx context.Context, v *vault.Vault) error) error {
	ctx := cmd.Context()
	v, err := a.unlock(ctx)
	if err != nil {
		return err
	}
	defer v.Lock()

	return fn(ctx, v)
}

// mutate runs fn on the unlocked vault and saves the snapshot afterwards.
func (a *App) mutate(cmd *cobra.Command, fn func(ctx context.Context, v *vault.Vault) error) error {
	return a.read(cmd, func(ctx context.Context, v *vault.Vault) error {
		if err := fn(ctx, v); err != nil {
			return err
		}
		if err := v.SaveSnapshot(ctx); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		return nil
	})
}

func (a *App) newInitCommand() *cobra.Command {
	var name, from string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new vault, or join one with --from",
		Long: "Create a new vault in the vault directory.\n\n" +
			"With --from, join an existing vault instead: pass the current-state.json of\n" +
			"another device. Copy only that file, never device-id; then run `pastor sync`.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.localStore()
			if err != nil {
				return err
			}
			if from != "" {
				return a.join(cmd, store, from)
			}

			password, err := readNewPassword(a.passwords)
			if err != nil {
				return err
			}

			v, err := vault.Create(cmd.Context(), store, name, password, a.vaultOptions()...)
			if err != nil {
				return err
			}

			a.logger.Info().Str("vault", v.ID()).Msg("vault initialised")
			fmt.Fprintf(cmd.OutOrStdout(), "Created vault %q (%s) in %s\n", v.Name(), v.ID(), a.cfg.Dir)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "My Vault", "vault name")
	cmd.Flags().StringVar(&from, "from", "", "current-state.json of a vault to join")
	cmd.MarkFlagsMutuallyExclusive("name", "from")
	return cmd
}

func (a *App) join(cmd *cobra.Command, store blob.Store, from string) error {
	document, err := os.ReadFile(from)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	password, err := a.passwords.ReadPassword(passwordPrompt)
	if err != nil {
		return err
	}

	v, err := vault.Join(cmd.Context(), store, document, password, a.vaultOptions()...)
	if errors.Is(err, vault.ErrVaultLocked) {
		return ErrWrongPassword
	}
	if err != nil {
		return err
	}

	a.logger.Info().Str("vault", v.ID()).Str("device", v.DeviceID()).Msg("joined vault")
	fmt.Fprintf(cmd.OutOrStdout(), "Joined vault %q (%s) in %s as device %s\n", v.Name(), v.ID(), a.cfg.Dir, v.DeviceID())
	return nil
}

func (a *App) newSnapshotCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Rebuild the state from the log and save current-state.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, func(ctx context.Context, v *vault.Vault) error {
				if err := v.Refresh(ctx); err != nil {
					return err
				}
				at, err := v.Position()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Snapshot saved at %s\n", at)
				return nil
			})
		},
	}
}
