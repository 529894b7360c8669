// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-pastor/internal/vault"
	"github.com/MKhiriev/go-pastor/models"
)

func (a *App) newAttachmentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "attachment",
		Aliases: []string{"att"},
		Short:   "Attach files to items",
	}
	cmd.AddCommand(a.newAttachmentAddCommand())
	cmd.AddCommand(a.newAttachmentGetCommand())
	cmd.AddCommand(a.newAttachmentUpdateCommand())
	return cmd
}

func (a *App) newAttachmentAddCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add <item> <file>",
		Short: "Attach a file to an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			if name == "" {
				name = filepath.Base(args[1])
			}

			return a.mutate(cmd, func(ctx context.Context, v *vault.Vault) error {
				item, err := resolveItem(v, args[0])
				if err != nil {
					return err
				}
				value, err := v.AddAttachment(ctx, item.ID, models.Value{Name: name}, data)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), value.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "attachment name (default: file name)")
	return cmd
}

func (a *App) newAttachmentGetCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get <item> <attachment>",
		Short: "Write attachment content to a file or stdout",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.read(cmd, func(ctx context.Context, v *vault.Vault) error {
				item, err := resolveItem(v, args[0])
				if err != nil {
					return err
				}
				value, err := resolveValue(item, args[1])
				if err != nil {
					return err
				}
				data, err := v.FetchAttachmentData(ctx, value.ID)
				if err != nil {
					return err
				}

				if output == "" || output == "-" {
					_, err = cmd.OutOrStdout().Write(data)
					return err
				}
				return os.WriteFile(output, data, 0o600)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "destination file (default: stdout)")
	return cmd
}

func (a *App) newAttachmentUpdateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update <item> <attachment> <file>",
		Short: "Replace attachment content",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[2])
			if err != nil {
				return err
			}

			return a.mutate(cmd, func(ctx context.Context, v *vault.Vault) error {
				item, err := resolveItem(v, args[0])
				if err != nil {
					return err
				}
				value, err := resolveValue(item, args[1])
				if err != nil {
					return err
				}
				return v.UpdateAttachmentData(ctx, item.ID, value.ID, data)
			})
		},
	}
}
