// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// tempPrefix marks in-flight writes. List never returns such names.
const tempPrefix = ".tmp-"

// FileStore implements [Store] on a local directory. Writes go to a temp
// file in the destination directory which is synced and then renamed over
// the target, so a crash never leaves a partially written key.
type FileStore struct {
	root string
}

// NewFileStore returns a FileStore rooted at root, creating the directory if
// needed.
func NewFileStore(root string) (*FileStore, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: empty root directory", ErrWrite)
	}
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, fmt.Errorf("%w: create root %s: %w", ErrWrite, root, err)
	}
	return &FileStore{root: root}, nil
}

// Root returns the directory the store is rooted at.
func (s *FileStore) Root() string {
	return s.root
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

// Read implements [Store].
func (s *FileStore) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w: %s", ErrRead, ErrNotFound, key)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, key, err)
	}
	return data, nil
}

// Write implements [Store].
func (s *FileStore) Write(ctx context.Context, key string, data []byte) error {
	if err := ValidateKey(key); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	target := s.path(key)
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("%w: create directory for %s: %w", ErrWrite, key, err)
	}

	tmp, err := os.CreateTemp(dir, tempPrefix+"*")
	if err != nil {
		return fmt.Errorf("%w: create temp file for %s: %w", ErrWrite, key, err)
	}
	tmpName := tmp.Name()

	// remove the temp file on every failure path
	fail := func(step string, err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %s %s: %w", ErrWrite, step, key, err)
	}

	if _, err = tmp.Write(data); err != nil {
		return fail("write", err)
	}
	if err = tmp.Sync(); err != nil {
		return fail("sync", err)
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: close %s: %w", ErrWrite, key, err)
	}
	if err = os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: rename %s: %w", ErrWrite, key, err)
	}

	return nil
}

// Remove implements [Store]. Directories are removed recursively.
func (s *FileStore) Remove(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	if err := os.RemoveAll(s.path(key)); err != nil {
		return fmt.Errorf("%w: remove %s: %w", ErrWrite, key, err)
	}
	return nil
}

// List implements [Store].
func (s *FileStore) List(ctx context.Context, prefix string) ([]string, error) {
	if err := ValidatePrefix(prefix); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}

	dir := s.root
	if p := strings.TrimSuffix(prefix, "/"); p != "" {
		dir = s.path(p)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("%w: list %s: %w", ErrRead, prefix, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, tempPrefix) {
			continue
		}
		if e.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}

	sort.Strings(names)
	return names, nil
}
