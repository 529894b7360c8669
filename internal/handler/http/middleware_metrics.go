// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"strconv"
)

// withMetrics counts requests by method and response status.
func (h *Handler) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mw := newResponseWriter(w)

		next.ServeHTTP(mw, r)

		h.metrics.RelayRequests.WithLabelValues(r.Method, strconv.Itoa(mw.Status())).Inc()
	})
}
