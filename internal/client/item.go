// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-pastor/internal/vault"
	"github.com/MKhiriev/go-pastor/models"
)

func (a *App) newItemsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "items",
		Short: "List items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.read(cmd, func(ctx context.Context, v *vault.Vault) error {
				items, err := v.FetchItems()
				if err != nil {
					return err
				}
				printItems(cmd.OutOrStdout(), items)
				return nil
			})
		},
	}
}

func (a *App) newItemCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Add, show, rename or remove an item",
	}
	cmd.AddCommand(a.newItemAddCommand())
	cmd.AddCommand(a.newItemShowCommand())
	cmd.AddCommand(a.newItemRenameCommand())
	cmd.AddCommand(a.newItemRemoveCommand())
	return cmd
}

func (a *App) newItemAddCommand() *cobra.Command {
	var (
		fields  []string
		secrets []string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := make([]models.Value, 0, len(fields)+len(secrets))
			for _, field := range fields {
				name, text, ok := strings.Cut(field, "=")
				if !ok || name == "" {
					return fmt.Errorf("%w: --field wants name=text, got %q", ErrInvalidArgument, field)
				}
				values = append(values, models.Value{Name: name, Data: models.StringValue{Text: text}})
			}

			return a.mutate(cmd, func(ctx context.Context, v *vault.Vault) error {
				for _, name := range secrets {
					secret, err := a.passwords.ReadPassword(name + ": ")
					if err != nil {
						return err
					}
					values = append(values, models.Value{Name: name, Data: models.PasswordValue{Secret: secret}})
				}

				item, err := v.AddItem(ctx, args[0], values...)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), item.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringArrayVar(&fields, "field", nil, "text value as name=text (repeatable)")
	cmd.Flags().StringArrayVar(&secrets, "secret", nil, "password value name, prompted for (repeatable)")
	return cmd
}

func (a *App) newItemShowCommand() *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "show <item>",
		Short: "Show an item and its values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.read(cmd, func(ctx context.Context, v *vault.Vault) error {
				item, err := resolveItem(v, args[0])
				if err != nil {
					return err
				}
				printItem(cmd.OutOrStdout(), item, reveal)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&reveal, "reveal", false, "print secrets in clear text")
	return cmd
}

func (a *App) newItemRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <item> <new-name>",
		Short: "Rename an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, func(ctx context.Context, v *vault.Vault) error {
				item, err := resolveItem(v, args[0])
				if err != nil {
					return err
				}
				return v.RenameItem(ctx, item.ID, args[1])
			})
		},
	}
}

func (a *App) newItemRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <item>",
		Aliases: []string{"remove"},
		Short:   "Remove an item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, func(ctx context.Context, v *vault.Vault) error {
				item, err := resolveItem(v, args[0])
				if err != nil {
					return err
				}
				return v.RemoveItem(ctx, item.ID)
			})
		},
	}
}

// resolveItem finds an item by id, or else by its unique name.
func resolveItem(v *vault.Vault, ref string) (models.Item, error) {
	item, err := v.FetchItem(ref)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, vault.ErrItemNotFound) {
		return models.Item{}, err
	}

	items, err := v.FetchItems()
	if err != nil {
		return models.Item{}, err
	}
	var found []models.Item
	for _, it := range items {
		if it.Name == ref {
			found = append(found, it)
		}
	}
	switch len(found) {
	case 0:
		return models.Item{}, fmt.Errorf("%w: %s", vault.ErrItemNotFound, ref)
	case 1:
		return found[0], nil
	default:
		return models.Item{}, fmt.Errorf("%w: %q", ErrAmbiguousItem, ref)
	}
}

// resolveValue finds a value of item by id, or else by its unique name.
func resolveValue(item models.Item, ref string) (models.Value, error) {
	if value, n := item.Value(ref); n >= 0 {
		return value, nil
	}

	var found []models.Value
	for _, value := range item.Values {
		if value.Name == ref {
			found = append(found, value)
		}
	}
	switch len(found) {
	case 0:
		return models.Value{}, fmt.Errorf("%w: %s", vault.ErrValueNotFound, ref)
	case 1:
		return found[0], nil
	default:
		return models.Value{}, fmt.Errorf("%w: value name %q", ErrAmbiguousItem, ref)
	}
}
