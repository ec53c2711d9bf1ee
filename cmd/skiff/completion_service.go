// Copyright (C) 2025 Skiff Project
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/skiffworks/skiff/services/completion/datatypes"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var clientTracer = otel.Tracer("skiff.cli.completion")

// TransportError reports a completion request that could not be completed:
// a network failure or a non-success status from the service. It is never
// retried automatically; the controller converts it into a visible
// assistant-role error message.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("send failed: %v", e.Err)
	}
	return "send failed"
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// completionService is the HTTP client for the completion endpoint.
//
// One call per invocation; the controller guards against overlapping calls.
// The client enforces no timeout of its own: cancellation, if wanted, comes
// in through the context.
type completionService struct {
	httpClient *http.Client
	baseURL    string
}

// newCompletionService creates a client for the given base URL
// (e.g. "http://localhost:8080", no trailing slash).
func newCompletionService(baseURL string) *completionService {
	return &completionService{
		httpClient: &http.Client{},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// SendMessage posts one completion request and returns the reply text.
//
// The request body is {input, params}; the session history never travels on
// the wire. Failures and non-2xx statuses come back as *TransportError. A
// success body missing both message and content degrades to the "no
// response" placeholder rather than failing.
func (s *completionService) SendMessage(ctx context.Context, input string,
	params datatypes.GenerationParams) (string, error) {

	ctx, span := clientTracer.Start(ctx, "completionService.SendMessage")
	defer span.End()
	span.SetAttributes(attribute.Int("completion.input_chars", len(input)))

	payload := datatypes.CompletionRequest{
		Input:  input,
		Params: params,
	}
	reqBody, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("failed to marshal the completion request: %w", err)
	}

	completionURL := s.baseURL + "/api/completion"

	// Use NewRequestWithContext to respect context cancellation
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, completionURL,
		bytes.NewBuffer(reqBody))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("failed to create the completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.Error("Completion request failed", "url", completionURL, "error", err)
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", &TransportError{Err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Error("Completion service returned an error",
			"status_code", resp.StatusCode, "response", string(respBody))
		return "", &TransportError{
			Err: fmt.Errorf("completion service returned status %d", resp.StatusCode),
		}
	}

	var completionResp datatypes.CompletionResponse
	if err := json.Unmarshal(respBody, &completionResp); err != nil {
		slog.Error("Failed to parse the completion response", "error", err,
			"response", string(respBody))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", &TransportError{Err: fmt.Errorf("parse response: %w", err)}
	}

	slog.Debug("Received completion reply", "request_id", completionResp.RequestID)
	return completionResp.Text(), nil
}
