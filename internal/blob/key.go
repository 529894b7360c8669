// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package blob

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// ValidateKey checks that key is a clean relative path that cannot escape
// the store root.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	if strings.HasPrefix(key, "/") || strings.HasSuffix(key, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for _, segment := range strings.Split(key, "/") {
		if segment == "" || segment == "." || segment == ".." || strings.Contains(segment, "\\") {
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return nil
}

// ValidatePrefix accepts the empty prefix (the root) and any valid key,
// with or without a trailing "/".
func ValidatePrefix(prefix string) error {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		return nil
	}
	return ValidateKey(prefix)
}

// Join joins key segments with "/".
func Join(segments ...string) string {
	return strings.Join(segments, "/")
}

// IsDir reports whether a child name returned by [Store.List] denotes a
// subdirectory.
func IsDir(name string) bool {
	return strings.HasSuffix(name, "/")
}

// Walk returns every leaf key under prefix in lexical order, descending into
// subdirectories.
func Walk(ctx context.Context, store Store, prefix string) ([]string, error) {
	prefix = strings.TrimSuffix(prefix, "/")

	children, err := store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(children))
	for _, child := range children {
		if err = ctx.Err(); err != nil {
			return nil, err
		}

		key := strings.TrimSuffix(child, "/")
		if prefix != "" {
			key = prefix + "/" + key
		}

		if !IsDir(child) {
			keys = append(keys, key)
			continue
		}

		nested, err := Walk(ctx, store, key)
		if err != nil {
			return nil, err
		}
		keys = append(keys, nested...)
	}

	sort.Strings(keys)
	return keys, nil
}

// ChildrenOf derives the immediate children of prefix from a flat key
// listing, in the format [Store.List] returns. It backs List for stores
// without native directories.
func ChildrenOf(prefix string, keys []string) []string {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}

	seen := make(map[string]struct{})
	children := make([]string, 0)
	for _, key := range keys {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		rest := key[len(prefix):]
		if rest == "" {
			continue
		}

		child := rest
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			child = rest[:i+1]
		}
		if _, ok := seen[child]; ok {
			continue
		}
		seen[child] = struct{}{}
		children = append(children, child)
	}

	sort.Strings(children)
	return children
}
