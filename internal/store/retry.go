// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"time"
)

const (
	maxAttempts  = 3
	retryBackoff = 50 * time.Millisecond
)

// withRetry runs op, retrying errors the classificator labels [Retryable]
// at most maxAttempts times with a growing pause between attempts.
func withRetry(ctx context.Context, classificator ErrorClassificator, op func() error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = op(); err == nil {
			return nil
		}
		if classificator == nil || classificator.Classify(err) != Retryable || attempt == maxAttempts {
			return err
		}

		timer := time.NewTimer(time.Duration(attempt) * retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
	return err
}
