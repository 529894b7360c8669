// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-pastor/internal/adapter"
	"github.com/MKhiriev/go-pastor/internal/blob"
	"github.com/MKhiriev/go-pastor/internal/blob/s3"
	"github.com/MKhiriev/go-pastor/internal/config"
	"github.com/MKhiriev/go-pastor/internal/replication"
	"github.com/MKhiriev/go-pastor/internal/store"
	"github.com/MKhiriev/go-pastor/internal/vault"
)

// newRemote builds the configured sync remote of vault v.
func (a *App) newRemote(ctx context.Context, v *vault.Vault) (replication.Remote, error) {
	sync := a.cfg.Sync
	switch sync.Backend {
	case config.SyncBackendNone:
		return nil, ErrSyncDisabled
	case config.SyncBackendRelay:
		return adapter.NewRelayClient(adapter.RelayClientConfig{
			Address:        sync.RelayAddress,
			VaultID:        v.ID(),
			AccessKey:      sync.AccessKey,
			RequestTimeout: sync.RequestTimeout,
		}, a.logger)
	case config.SyncBackendDir:
		dir, err := blob.NewFileStore(sync.RemoteDir)
		if err != nil {
			return nil, err
		}
		return replication.NewStoreRemote(dir), nil
	case config.SyncBackendS3:
		bucket, err := s3.New(ctx, store.S3Config(sync.S3))
		if err != nil {
			return nil, err
		}
		return replication.NewStoreRemote(bucket), nil
	}
	return nil, fmt.Errorf("%w: unknown sync backend %q", ErrInvalidArgument, sync.Backend)
}

func (a *App) newSyncCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Exchange write-log entries with the configured remote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.read(cmd, func(ctx context.Context, v *vault.Vault) error {
				remote, err := a.newRemote(ctx, v)
				if err != nil {
					return err
				}
				local, err := a.localStore()
				if err != nil {
					return err
				}
				replicator := replication.New(local, remote,
					replication.WithMetrics(a.metrics),
					replication.WithLogger(a.logger),
				)

				refresh := func(ctx context.Context) error {
					if err := v.Refresh(ctx); err != nil {
						return err
					}
					return v.SaveSnapshot(ctx)
				}

				if !watch {
					res, err := replicator.Sync(ctx)
					if err != nil {
						return err
					}
					if err = refresh(ctx); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Pushed %d, pulled %d\n", res.Pushed, res.Pulled)
					return nil
				}

				ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer stop()

				job := replication.NewJob(replicator, refresh, a.logger)
				if err = job.RunOnce(ctx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Syncing every %s, press Ctrl+C to stop\n", a.cfg.Sync.Interval)
				job.Start(ctx, a.cfg.Sync.Interval)
				<-ctx.Done()
				job.Stop()
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "keep syncing on the configured interval until interrupted")
	return cmd
}
