// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"encoding/base32"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/MKhiriev/go-pastor/models"
)

func printItems(w io.Writer, items []models.Item) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tVALUES")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", item.ID, item.Name, len(item.Values))
	}
	tw.Flush()
}

func printItem(w io.Writer, item models.Item, reveal bool) {
	fmt.Fprintf(w, "%s (%s)\n", item.Name, item.ID)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, value := range item.Values {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", value.ID, value.Name, value.Kind(), displayValue(value, reveal))
	}
	tw.Flush()
}

// displayValue renders a value for humans. Secrets stay redacted unless
// reveal is set.
func displayValue(v models.Value, reveal bool) string {
	switch d := v.Data.(type) {
	case models.StringValue:
		return d.Text
	case models.PasswordValue:
		if reveal {
			return d.Secret
		}
		return d.String()
	case models.TOTPValue:
		if reveal {
			return encodeSeed(d.Seed)
		}
		return d.String()
	case models.AttachmentValue:
		if d.BlobKey == "" {
			return "(no data)"
		}
		return fmt.Sprintf("%d bytes", d.Size)
	}
	return ""
}

// clipboardText returns what copying v puts on the clipboard.
func clipboardText(v models.Value) (string, bool) {
	switch d := v.Data.(type) {
	case models.StringValue:
		return d.Text, true
	case models.PasswordValue:
		return d.Secret, true
	case models.TOTPValue:
		return encodeSeed(d.Seed), true
	}
	return "", false
}

var seedEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

func encodeSeed(seed []byte) string {
	return seedEncoding.EncodeToString(seed)
}
