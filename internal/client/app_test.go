// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-pastor/internal/logger"
	"github.com/MKhiriev/go-pastor/internal/vault"
	"github.com/MKhiriev/go-pastor/models"
)

const testPassword = "correct horse battery staple"

// ─────────────────────────────────────────────
// fakes
// ─────────────────────────────────────────────

type fakePasswords struct {
	password string
	secrets  map[string]string
	prompts  []string
}

func (f *fakePasswords) ReadPassword(prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if s, ok := f.secrets[prompt]; ok {
		return s, nil
	}
	return f.password, nil
}

type fakeClipboard struct {
	text string
}

func (f *fakeClipboard) WriteAll(text string) error {
	f.text = text
	return nil
}

// ─────────────────────────────────────────────
// helpers
// ─────────────────────────────────────────────

type testCLI struct {
	t         *testing.T
	dir       string
	passwords *fakePasswords
	clipboard *fakeClipboard
}

// newTestCLI points the CLI at a fresh vault directory and keeps Argon2id
// cheap so commands run fast.
func newTestCLI(t *testing.T) *testCLI {
	t.Helper()
	t.Setenv("PASTOR_VAULT_KDF_TIME", "1")
	t.Setenv("PASTOR_VAULT_KDF_MEMORY", "64")
	t.Setenv("PASTOR_VAULT_KDF_THREADS", "1")
	t.Setenv("PASTOR_SYNC_BACKEND", "")
	t.Setenv("PASTOR_LOG_FILE", filepath.Join(t.TempDir(), "pastor.log"))

	return &testCLI{
		t:         t,
		dir:       filepath.Join(t.TempDir(), "vault"),
		passwords: &fakePasswords{password: testPassword, secrets: map[string]string{}},
		clipboard: &fakeClipboard{},
	}
}

func (c *testCLI) run(args ...string) (string, error) {
	c.t.Helper()
	var out, errOut bytes.Buffer
	app := NewApp(models.NewAppBuildInfo("v1.2.3", "2026-10-14", "abc123"),
		WithPasswordReader(c.passwords),
		WithClipboard(c.clipboard),
		WithStreams(strings.NewReader(""), &out, &errOut),
		WithLogger(logger.Nop()),
	)
	err := app.Run(context.Background(), append([]string{"--vault", c.dir}, args...))
	return out.String(), err
}

func (c *testCLI) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, "pastor %s", strings.Join(args, " "))
	return out
}

func (c *testCLI) addItem(name string, args ...string) string {
	c.t.Helper()
	return strings.TrimSpace(c.mustRun(append([]string{"item", "add", name}, args...)...))
}

// ── root ─────────────────────────────────────

// TestRootCommandHasSubcommands checks the command tree.
func TestRootCommandHasSubcommands(t *testing.T) {
	root := NewApp(models.AppBuildInfo{}).NewRootCommand()

	for _, name := range []string{"init", "items", "item", "value", "attachment", "log", "sync", "snapshot", "version"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}

	assert.NotNil(t, root.PersistentFlags().Lookup("vault"))
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

// TestVersionCommand prints build information without loading a vault.
func TestVersionCommand(t *testing.T) {
	c := newTestCLI(t)

	out := c.mustRun("version")

	assert.Contains(t, out, "Build version: v1.2.3")
	assert.Contains(t, out, "Build date: 2026-10-14")
	assert.Contains(t, out, "Build commit: abc123")
	assert.NoDirExists(t, c.dir)
}

// TestVersionCommandNA prints N/A for unset build fields.
func TestVersionCommandNA(t *testing.T) {
	var out bytes.Buffer
	app := NewApp(models.AppBuildInfo{}, WithStreams(nil, &out, &out), WithPasswordReader(&fakePasswords{}))

	require.NoError(t, app.Run(context.Background(), []string{"version"}))
	assert.Contains(t, out.String(), "Build version: N/A")
}

// ── init ─────────────────────────────────────

// TestInit creates the vault files and refuses to overwrite them.
func TestInit(t *testing.T) {
	c := newTestCLI(t)

	out := c.mustRun("init", "--name", "Personal")
	assert.Contains(t, out, `Created vault "Personal"`)
	assert.FileExists(t, filepath.Join(c.dir, vault.CurrentStateKey))

	_, err := c.run("init")
	assert.ErrorIs(t, err, vault.ErrVaultExists)
}

// TestInitPasswordMismatch fails when the confirmation differs.
func TestInitPasswordMismatch(t *testing.T) {
	c := newTestCLI(t)
	c.passwords.secrets[confirmPrompt] = "something else"

	_, err := c.run("init")

	assert.ErrorIs(t, err, ErrPasswordMismatch)
	assert.NoFileExists(t, filepath.Join(c.dir, vault.CurrentStateKey))
}

// TestInitEmptyPassword rejects an empty password.
func TestInitEmptyPassword(t *testing.T) {
	c := newTestCLI(t)
	c.passwords.password = ""

	_, err := c.run("init")

	assert.ErrorIs(t, err, ErrEmptyPassword)
}

// TestCommandsNeedVault reports a missing vault.
func TestCommandsNeedVault(t *testing.T) {
	c := newTestCLI(t)

	_, err := c.run("items")

	assert.ErrorIs(t, err, ErrNoVault)
}

// TestWrongPassword reports a password that does not unlock the vault.
func TestWrongPassword(t *testing.T) {
	c := newTestCLI(t)
	c.mustRun("init")

	c.passwords.password = "not the password"
	_, err := c.run("items")

	assert.ErrorIs(t, err, ErrWrongPassword)
}

// ── items ────────────────────────────────────

// TestItemLifecycle adds, lists, shows, renames and removes an item.
func TestItemLifecycle(t *testing.T) {
	c := newTestCLI(t)
	c.mustRun("init")
	c.passwords.secrets["password: "] = "hunter2"

	id := c.addItem("GitHub", "--field", "username=octocat", "--secret", "password")
	require.NotEmpty(t, id)

	out := c.mustRun("items")
	assert.Contains(t, out, id)
	assert.Contains(t, out, "GitHub")

	out = c.mustRun("item", "show", "GitHub")
	assert.Contains(t, out, "octocat")
	assert.Contains(t, out, "[redacted]")
	assert.NotContains(t, out, "hunter2")

	out = c.mustRun("item", "show", id, "--reveal")
	assert.Contains(t, out, "hunter2")

	c.mustRun("item", "rename", id, "GitHub Work")
	out = c.mustRun("items")
	assert.Contains(t, out, "GitHub Work")

	c.mustRun("item", "rm", "GitHub Work")
	out = c.mustRun("items")
	assert.NotContains(t, out, id)
}

// TestItemAddBadField rejects a field without "=".
func TestItemAddBadField(t *testing.T) {
	c := newTestCLI(t)
	c.mustRun("init")

	_, err := c.run("item", "add", "x", "--field", "novalue")

	assert.ErrorIs(t, err, ErrInvalidArgument)
}

// TestResolveItemByName fails on ambiguous and unknown names.
func TestResolveItemByName(t *testing.T) {
	c := newTestCLI(t)
	c.mustRun("init")
	c.addItem("Bank")
	c.addItem("Bank")

	_, err := c.run("item", "show", "Bank")
	assert.ErrorIs(t, err, ErrAmbiguousItem)

	_, err = c.run("item", "show", "Nope")
	assert.ErrorIs(t, err, vault.ErrItemNotFound)
}

// TestStatePersists checks a new process sees earlier mutations.
func TestStatePersists(t *testing.T) {
	c := newTestCLI(t)
	c.mustRun("init")
	id := c.addItem("Email")

	data, err := os.ReadFile(filepath.Join(c.dir, vault.CurrentStateKey))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Email", "item names are encrypted")

	assert.Contains(t, c.mustRun("items"), id)
}
