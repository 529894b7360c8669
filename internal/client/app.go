// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"io"

	"github.com/atotto/clipboard"

	"github.com/MKhiriev/go-pastor/internal/config"
	"github.com/MKhiriev/go-pastor/internal/logger"
	"github.com/MKhiriev/go-pastor/internal/metrics"
	"github.com/MKhiriev/go-pastor/models"
)

// App is the pastor command line.
type App struct {
	info      models.AppBuildInfo
	passwords PasswordReader
	clipboard Clipboard
	in        io.Reader
	out       io.Writer
	errOut    io.Writer

	// set from persistent flags
	vaultDir   string
	configPath string

	// set before every command runs
	cfg     *config.VaultConfig
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// Option configures an [App].
type Option func(*App)

// WithPasswordReader replaces the terminal password prompt.
func WithPasswordReader(r PasswordReader) Option {
	return func(a *App) { a.passwords = r }
}

// WithClipboard replaces the system clipboard.
func WithClipboard(c Clipboard) Option {
	return func(a *App) { a.clipboard = c }
}

// WithStreams sets the input and output streams.
func WithStreams(in io.Reader, out, errOut io.Writer) Option {
	return func(a *App) {
		a.in, a.out, a.errOut = in, out, errOut
	}
}

// WithLogger sets the logger instead of the vault's log file.
func WithLogger(l *logger.Logger) Option {
	return func(a *App) { a.logger = l }
}

// NewApp returns the command line application.
func NewApp(info models.AppBuildInfo, opts ...Option) *App {
	a := &App{
		info:      info,
		clipboard: systemClipboard{},
		metrics:   metrics.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.passwords == nil {
		a.passwords = NewTerminalPasswordReader(a.errOut)
	}
	return a
}

// Run executes the command line given by args.
func (a *App) Run(ctx context.Context, args []string) error {
	root := a.NewRootCommand()
	root.SetArgs(args)
	if a.in != nil {
		root.SetIn(a.in)
	}
	if a.out != nil {
		root.SetOut(a.out)
	}
	if a.errOut != nil {
		root.SetErr(a.errOut)
	}
	return root.ExecuteContext(ctx)
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}
