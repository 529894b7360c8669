// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "context"

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run executes the command line given by args and blocks until it
	// finishes.
	Run(ctx context.Context, args []string) error
}

// PasswordReader obtains secrets from the user.
type PasswordReader interface {
	ReadPassword(prompt string) (string, error)
}

// Clipboard receives copied values.
type Clipboard interface {
	WriteAll(text string) error
}
