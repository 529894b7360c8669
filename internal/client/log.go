// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-pastor/internal/vault"
)

func (a *App) newLogCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "log",
		Short: "List write-log entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.read(cmd, func(ctx context.Context, v *vault.Vault) error {
				records, err := v.Entries(ctx)
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "AT\tTYPE\tITEM\tKEY")
				for _, rec := range records {
					if rec.Err != nil {
						fmt.Fprintf(tw, "-\tquarantined\t-\t%s (%v)\n", rec.Key, rec.Err)
						continue
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", rec.At(), rec.Mutation.Type, rec.Mutation.ItemID, rec.Key)
				}
				return tw.Flush()
			})
		},
	}
}
