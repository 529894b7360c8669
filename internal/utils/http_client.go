// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Retry policy of [HTTPClient]. Every relay request is idempotent, so a
// request that failed in transit or hit an unavailable relay is resent.
const (
	RetryCount       = 2
	RetryWaitTime    = 200 * time.Millisecond
	RetryMaxWaitTime = 2 * time.Second
)

// UserAgent identifies relay clients in server logs.
const UserAgent = "pastor"

// HTTPClient embeds *resty.Client so callers use its request builder
// directly.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns a client for baseURL. A zero timeout leaves requests
// unbounded.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", UserAgent).
		SetRetryCount(RetryCount).
		SetRetryWaitTime(RetryWaitTime).
		SetRetryMaxWaitTime(RetryMaxWaitTime).
		AddRetryCondition(retryUnavailable)

	return &HTTPClient{Client: client}
}

// retryUnavailable retries gateway errors and 503. Other statuses carry a
// definite answer.
func retryUnavailable(resp *resty.Response, err error) bool {
	if err != nil || resp == nil {
		return true
	}
	switch resp.StatusCode() {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}
