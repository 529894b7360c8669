// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-pastor/models"
)

// TestGetServerVersion_ReturnsJSON checks the build info is encoded as
// JSON.
func TestGetServerVersion_ReturnsJSON(t *testing.T) {
	ms := newMockedRelay(t, uuid.NewString())
	want := models.VersionResponse{Version: "1.0.0", Date: "2026-10-14", Commit: "abc"}
	ms.appInfo.EXPECT().GetAppInfo(gomock.Any()).Return(want)

	rr := ms.do(http.MethodGet, "/api/version", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var got models.VersionResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, want, got)
}
