// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// PasswordEnv names the variable that supplies the vault password without a
// prompt, for scripting.
const PasswordEnv = "PASTOR_PASSWORD"

// terminalPasswordReader reads secrets without echo when stdin is a
// terminal and as a plain line otherwise.
type terminalPasswordReader struct {
	prompt io.Writer
	stdin  *bufio.Reader
}

// NewTerminalPasswordReader returns a reader that prompts on w. The vault
// password comes from [PasswordEnv] when it is set.
func NewTerminalPasswordReader(w io.Writer) PasswordReader {
	if w == nil {
		w = os.Stderr
	}
	return &terminalPasswordReader{prompt: w, stdin: bufio.NewReader(os.Stdin)}
}

func (r *terminalPasswordReader) ReadPassword(prompt string) (string, error) {
	if prompt == passwordPrompt || prompt == confirmPrompt {
		if pw, ok := os.LookupEnv(PasswordEnv); ok {
			return pw, nil
		}
	}

	fmt.Fprint(r.prompt, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(r.prompt)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}

	line, err := r.stdin.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

const (
	passwordPrompt = "Vault password: "
	confirmPrompt  = "Repeat password: "
)

// readNewPassword asks for a new password twice.
func readNewPassword(r PasswordReader) (string, error) {
	pw, err := r.ReadPassword(passwordPrompt)
	if err != nil {
		return "", err
	}
	if pw == "" {
		return "", ErrEmptyPassword
	}
	again, err := r.ReadPassword(confirmPrompt)
	if err != nil {
		return "", err
	}
	if pw != again {
		return "", ErrPasswordMismatch
	}
	return pw, nil
}
