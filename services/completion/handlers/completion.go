// Copyright (C) 2025 Skiff Project
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skiffworks/skiff/services/completion/datatypes"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var completionTracer = otel.Tracer("skiff.completion.handlers")

// stubAcknowledgment is the canned reply body. A real model-serving backend
// would generate text here; the stub only proves the round trip.
const stubAcknowledgment = "Acknowledged. The stub completion service received your prompt; " +
	"a real model backend would reply here."

// HandleCompletion serves POST /api/completion.
//
// The raw request body is logged for diagnostics before parsing, then the
// request is validated (400 on bad JSON or out-of-range parameters) and
// answered with a canned acknowledgment. The service keeps no state between
// requests: the session history never reaches the wire.
func HandleCompletion() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := completionTracer.Start(c.Request.Context(), "HandleCompletion")
		defer span.End()

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Failed to read the completion request body", "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable request body"})
			return
		}
		slog.Info("Received completion request", "body", string(body))

		var req datatypes.CompletionRequest
		if err := json.Unmarshal(body, &req); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Failed to parse the completion request", "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		if err := req.Validate(); err != nil {
			slog.Warn("Rejected completion request", "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		span.SetAttributes(attribute.Int("completion.input_chars", len(req.Input)))

		resp := datatypes.NewCompletionResponse(stubAcknowledgment)
		slog.Debug("Sending stub completion reply",
			"request_id", resp.RequestID,
			"input_chars", len(req.Input),
		)
		c.JSON(http.StatusOK, resp)
	}
}

// HealthCheck reports service liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
