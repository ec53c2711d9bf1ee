// Copyright (C) 2025 Skiff Project
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skiffworks/skiff/services/completion/datatypes"
)

// =============================================================================
// Test Setup
// =============================================================================

func init() {
	// Set Gin to test mode to reduce noise in test output
	gin.SetMode(gin.TestMode)
}

// createTestRouter creates a Gin router with the completion handler mounted.
func createTestRouter() *gin.Engine {
	router := gin.New()
	router.POST("/api/completion", HandleCompletion())
	router.GET("/health", HealthCheck)
	return router
}

// performRequest executes an HTTP request against the test router.
func performRequest(router *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func marshalRequest(t *testing.T, req datatypes.CompletionRequest) []byte {
	t.Helper()
	data, err := json.Marshal(req)
	require.NoError(t, err)
	return data
}

// =============================================================================
// HandleCompletion Tests
// =============================================================================

func TestHandleCompletion_Success(t *testing.T) {
	router := createTestRouter()

	body := marshalRequest(t, datatypes.CompletionRequest{
		Input:  "Hello",
		Params: datatypes.DefaultParams(),
	})
	w := performRequest(router, "POST", "/api/completion", body)

	require.Equal(t, http.StatusOK, w.Code)

	var resp datatypes.CompletionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Message)
	assert.NotEmpty(t, resp.RequestID)
	assert.Greater(t, resp.Timestamp, int64(0))
}

// The stub ignores the input: every valid request gets the same
// acknowledgment, but each exchange carries its own request ID.
func TestHandleCompletion_StubIsInputIndependent(t *testing.T) {
	router := createTestRouter()

	first := performRequest(router, "POST", "/api/completion",
		marshalRequest(t, datatypes.CompletionRequest{Input: "one"}))
	second := performRequest(router, "POST", "/api/completion",
		marshalRequest(t, datatypes.CompletionRequest{Input: "two"}))

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)

	var a, b datatypes.CompletionResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))
	assert.Equal(t, a.Message, b.Message)
	assert.NotEqual(t, a.RequestID, b.RequestID)
}

func TestHandleCompletion_InvalidJSON(t *testing.T) {
	router := createTestRouter()

	w := performRequest(router, "POST", "/api/completion", []byte("{not json"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestHandleCompletion_MissingInput(t *testing.T) {
	router := createTestRouter()

	body := marshalRequest(t, datatypes.CompletionRequest{
		Params: datatypes.DefaultParams(),
	})
	w := performRequest(router, "POST", "/api/completion", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// Server-side validation reports the same message a client-side range
// check would produce.
func TestHandleCompletion_OutOfRangeTemperature(t *testing.T) {
	router := createTestRouter()

	temp := 5.0
	body := marshalRequest(t, datatypes.CompletionRequest{
		Input:  "Hello",
		Params: datatypes.GenerationParams{Temperature: &temp},
	})
	w := performRequest(router, "POST", "/api/completion", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "temperature out of range: must be between 0 and 2")
}

// A defined zero passes validation; zero values must never be treated
// as absent.
func TestHandleCompletion_DefinedZeroTemperature(t *testing.T) {
	router := createTestRouter()

	temp := 0.0
	body := marshalRequest(t, datatypes.CompletionRequest{
		Input:  "Hello",
		Params: datatypes.GenerationParams{Temperature: &temp},
	})
	w := performRequest(router, "POST", "/api/completion", body)

	assert.Equal(t, http.StatusOK, w.Code)
}

// =============================================================================
// HealthCheck Tests
// =============================================================================

func TestHealthCheck(t *testing.T) {
	router := createTestRouter()

	w := performRequest(router, "GET", "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}
