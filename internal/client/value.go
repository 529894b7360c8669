// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-pastor/internal/vault"
	"github.com/MKhiriev/go-pastor/models"
)

func (a *App) newValueCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "value",
		Short: "Add, update, remove or copy item values",
	}
	cmd.AddCommand(a.newValueAddCommand())
	cmd.AddCommand(a.newValueUpdateCommand())
	cmd.AddCommand(a.newValueRemoveCommand())
	cmd.AddCommand(a.newValueCopyCommand())
	return cmd
}

func (a *App) newValueAddCommand() *cobra.Command {
	var (
		kind string
		text string
	)

	cmd := &cobra.Command{
		Use:   "add <item> <name>",
		Short: "Add a string, password or totp value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, func(ctx context.Context, v *vault.Vault) error {
				item, err := resolveItem(v, args[0])
				if err != nil {
					return err
				}
				data, err := a.payload(models.ValueKind(kind), args[1], text, cmd.Flags().Changed("text"))
				if err != nil {
					return err
				}

				value, err := v.AddItemValue(ctx, item.ID, models.Value{Name: args[1], Data: data})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), value.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&kind, "kind", string(models.KindString), "value kind: string, password or totp")
	cmd.Flags().StringVar(&text, "text", "", "value content; prompted for when omitted")
	return cmd
}

func (a *App) newValueUpdateCommand() *cobra.Command {
	var (
		name string
		text string
	)

	cmd := &cobra.Command{
		Use:   "update <item> <value>",
		Short: "Rename a value or replace its content",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, func(ctx context.Context, v *vault.Vault) error {
				item, err := resolveItem(v, args[0])
				if err != nil {
					return err
				}
				value, err := resolveValue(item, args[1])
				if err != nil {
					return err
				}

				if cmd.Flags().Changed("name") {
					value.Name = name
				}
				if value.Kind() != models.KindAttachment {
					value.Data, err = a.payload(value.Kind(), value.Name, text, cmd.Flags().Changed("text"))
					if err != nil {
						return err
					}
				}
				return v.UpdateItemValue(ctx, item.ID, value)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new value name")
	cmd.Flags().StringVar(&text, "text", "", "new value content; prompted for when omitted")
	return cmd
}

func (a *App) newValueRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <item> <value>",
		Aliases: []string{"remove"},
		Short:   "Remove a value",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, func(ctx context.Context, v *vault.Vault) error {
				item, err := resolveItem(v, args[0])
				if err != nil {
					return err
				}
				value, err := resolveValue(item, args[1])
				if err != nil {
					return err
				}
				return v.RemoveItemValue(ctx, item.ID, value.ID)
			})
		},
	}
}

func (a *App) newValueCopyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "copy <item> <value>",
		Short: "Copy a value to the clipboard",
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
				text, ok := clipboardText(value)
				if !ok {
					return fmt.Errorf("%w: %s values cannot be copied", ErrInvalidArgument, value.Kind())
				}
				if err = a.clipboard.WriteAll(text); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Copied %s to the clipboard\n", value.Name)
				return nil
			})
		},
	}
}

// payload builds the data of a non-attachment value. Secrets are prompted
// for unless given on the command line.
func (a *App) payload(kind models.ValueKind, name, text string, given bool) (models.Payload, error) {
	switch kind {
	case models.KindString:
		return models.StringValue{Text: text}, nil
	case models.KindPassword, models.KindTOTP:
	default:
		return nil, fmt.Errorf("%w: unknown value kind %q", ErrInvalidArgument, kind)
	}

	if !given {
		var err error
		if text, err = a.passwords.ReadPassword(name + ": "); err != nil {
			return nil, err
		}
	}
	if kind == models.KindPassword {
		return models.PasswordValue{Secret: text}, nil
	}

	seed, err := decodeSeed(text)
	if err != nil {
		return nil, err
	}
	return models.TOTPValue{Seed: seed}, nil
}

// decodeSeed parses a base32 TOTP seed as shown by authenticator setups:
// case-insensitive, with optional spaces and padding.
func decodeSeed(text string) ([]byte, error) {
	s := strings.ToUpper(strings.Join(strings.Fields(text), ""))
	s = strings.TrimRight(s, "=")
	seed, err := seedEncoding.DecodeString(s)
	if err != nil || len(seed) == 0 {
		return nil, fmt.Errorf("%w: totp seed must be base32", ErrInvalidArgument)
	}
	return seed, nil
}
