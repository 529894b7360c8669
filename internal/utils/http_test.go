// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWriteJSON encodes the body and sets the headers.
func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name   string
		data   any
		status int
		want   string
	}{
		{name: "object", data: map[string][]string{"keys": {"writes/a.json"}}, status: http.StatusOK, want: `{"keys":["writes/a.json"]}`},
		{name: "nil", data: nil, status: http.StatusOK, want: "null"},
		{name: "empty struct", data: struct{}{}, status: http.StatusCreated, want: "{}"},
		{name: "error status", data: map[string]string{"error": "not found"}, status: http.StatusNotFound, want: `{"error":"not found"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			n, err := WriteJSON(w, tt.data, tt.status)

			require.NoError(t, err)
			assert.Equal(t, len(tt.want), n)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, ContentTypeJSON, w.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.want, w.Body.String())
		})
	}
}

// TestWriteJSONUnencodable answers 500 for values JSON cannot represent.
func TestWriteJSONUnencodable(t *testing.T) {
	w := httptest.NewRecorder()

	_, err := WriteJSON(w, make(chan int), http.StatusOK)

	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEqual(t, ContentTypeJSON, w.Header().Get("Content-Type"))
}

// TestWriteBlob writes the bytes verbatim.
func TestWriteBlob(t *testing.T) {
	w := httptest.NewRecorder()
	data := []byte{0x00, 0x01, 0xff}

	n, err := WriteBlob(w, data)

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ContentTypeBinary, w.Header().Get("Content-Type"))
	assert.Equal(t, "3", w.Header().Get("Content-Length"))
	assert.Equal(t, data, w.Body.Bytes())
}
