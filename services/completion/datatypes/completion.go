// Copyright (C) 2025 Skiff Project
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import (
	"time"

	"github.com/google/uuid"
)

// NoResponseFallback is the reply text used when a success response carries
// neither a message nor a content field. Schema drift on the server side
// degrades to this placeholder instead of crashing the client.
const NoResponseFallback = "no response"

// CompletionRequest is the body of POST /api/completion.
//
// Each request is stateless from the server's point of view: only the
// current input and the sampling parameters travel on the wire, never the
// session history.
type CompletionRequest struct {
	Input  string           `json:"input" validate:"required"`
	Params GenerationParams `json:"params"`
}

// Validate checks the request: input must be non-empty and the nested
// parameters must pass their range checks. Range failures surface as
// *RangeError, exactly as client-side validation would report them.
func (r *CompletionRequest) Validate() error {
	if err := paramsValidate.Struct(r); err != nil {
		return translateFieldError(err)
	}
	return nil
}

// CompletionResponse is the body of a successful completion exchange.
//
// A well-formed response carries the reply in Message; Content is accepted
// as an alternative spelling so the client tolerates minor response schema
// drift. RequestID and Timestamp are generated server-side for diagnostics.
type CompletionResponse struct {
	Message   string `json:"message,omitempty"`
	Content   string `json:"content,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// NewCompletionResponse creates a response with a generated request ID and
// the current timestamp in milliseconds.
func NewCompletionResponse(message string) CompletionResponse {
	return CompletionResponse{
		Message:   message,
		RequestID: uuid.NewString(),
		Timestamp: time.Now().UnixMilli(),
	}
}

// Text returns the reply text: the message field if present, else the
// content field, else the NoResponseFallback placeholder.
func (r CompletionResponse) Text() string {
	if r.Message != "" {
		return r.Message
	}
	if r.Content != "" {
		return r.Content
	}
	return NoResponseFallback
}
