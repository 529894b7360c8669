// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// Content types served by the relay.
const (
	ContentTypeJSON   = "application/json"
	ContentTypeBinary = "application/octet-stream"
)

// WriteJSON encodes data as the JSON body of a statusCode response. If data
// cannot be encoded nothing but a 500 is written.
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	body, err := json.Marshal(data)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return 0, fmt.Errorf("encode JSON response: %w", err)
	}

	return write(w, ContentTypeJSON, body, statusCode)
}

// WriteBlob writes data unchanged as a 200 octet-stream body.
func WriteBlob(w http.ResponseWriter, data []byte) (int, error) {
	return write(w, ContentTypeBinary, data, http.StatusOK)
}

func write(w http.ResponseWriter, contentType string, body []byte, statusCode int) (int, error) {
	h := w.Header()
	h.Set("Content-Type", contentType)
	h.Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(statusCode)

	return w.Write(body)
}
