// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package writelog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-pastor/models"
)

// Dir is the blob store prefix of the write log. Everything under it is
// replicated; nothing else is.
const Dir = "writes"

const (
	entrySuffix      = ".json"
	attachmentSuffix = "-attachments"
	secondLayout     = "15-04-05"
)

// EntryKey returns writes/yyyy/mm/dd/hh-mm-ss-<writeID>.json for the UTC wall
// clock of ts.
func EntryKey(ts models.LogicalTimestamp, writeID string) string {
	t := ts.Time()
	return fmt.Sprintf("%s/%04d/%02d/%02d/%02d-%02d-%02d-%s%s",
		Dir, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), writeID, entrySuffix)
}

// AttachmentKey returns the key of an attachment blob written next to the
// entry at entryKey.
func AttachmentKey(entryKey, attachmentID string) string {
	return strings.TrimSuffix(entryKey, entrySuffix) + attachmentSuffix + "/" + attachmentID
}

// IsEntryKey reports whether key addresses a write-log envelope.
func IsEntryKey(key string) bool {
	return strings.HasPrefix(key, Dir+"/") &&
		strings.HasSuffix(key, entrySuffix) &&
		!strings.Contains(key, attachmentSuffix+"/")
}

// OwnerOf returns the entry key an attachment blob belongs to, or false if
// key is not an attachment key.
func OwnerOf(key string) (string, bool) {
	dir, _, ok := cutLast(key, "/")
	if !ok || !strings.HasPrefix(key, Dir+"/") || !strings.HasSuffix(dir, attachmentSuffix) {
		return "", false
	}
	return strings.TrimSuffix(dir, attachmentSuffix) + entrySuffix, true
}

// parseEntryKey extracts the UTC second and the write id encoded in an entry
// key.
func parseEntryKey(key string) (time.Time, string, error) {
	rest, ok := strings.CutPrefix(key, Dir+"/")
	if !ok {
		return time.Time{}, "", fmt.Errorf("%w: %s is outside the write log", ErrDecode, key)
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 4 {
		return time.Time{}, "", fmt.Errorf("%w: malformed entry key %s", ErrDecode, key)
	}

	name, ok := strings.CutSuffix(parts[3], entrySuffix)
	if !ok || len(name) <= len(secondLayout)+1 || name[len(secondLayout)] != '-' {
		return time.Time{}, "", fmt.Errorf("%w: malformed entry name %s", ErrDecode, key)
	}

	second, err := time.Parse("2006/01/02/"+secondLayout,
		strings.Join(parts[:3], "/")+"/"+name[:len(secondLayout)])
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: entry key %s: %w", ErrDecode, key, err)
	}

	writeID := name[len(secondLayout)+1:]
	if _, err = uuid.Parse(writeID); err != nil {
		return time.Time{}, "", fmt.Errorf("%w: write id in %s: %w", ErrDecode, key, err)
	}
	return second, writeID, nil
}

// parseDay parses a yyyy/mm/dd directory path.
func parseDay(year, month, day string) (time.Time, bool) {
	t, err := time.Parse("2006/01/02", year+"/"+month+"/"+day)
	return t, err == nil
}

func cutLast(s, sep string) (before, after string, found bool) {
	if i := strings.LastIndex(s, sep); i >= 0 {
		return s[:i], s[i+len(sep):], true
	}
	return s, "", false
}
