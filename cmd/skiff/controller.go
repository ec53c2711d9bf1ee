// Copyright (C) 2025 Skiff Project
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/skiffworks/skiff/services/completion/datatypes"
)

// ChatState is the controller's position in the submit cycle.
type ChatState string

const (
	StateIdle    ChatState = "idle"
	StatePending ChatState = "pending"
)

// failureIndicator prefixes assistant-role messages that report a failed
// request.
const failureIndicator = "✗"

// CompletionSender abstracts the completion client so the controller can be
// tested without a live service.
type CompletionSender interface {
	SendMessage(ctx context.Context, input string, params datatypes.GenerationParams) (string, error)
}

// ChatController orchestrates one chat session: it guards submissions,
// validates parameters, appends turns to the session, and drives the
// completion client.
//
// The machine cycles Idle → Pending → Idle for the life of the session;
// there is no terminal state. At most one request is ever in flight, so no
// locking is needed: everything runs on the chat loop's control thread.
type ChatController struct {
	session *Session
	client  CompletionSender
}

// NewChatController creates a controller for the given session and client.
func NewChatController(session *Session, client CompletionSender) *ChatController {
	return &ChatController{
		session: session,
		client:  client,
	}
}

// Session returns the session the controller owns.
func (c *ChatController) Session() *Session {
	return c.session
}

// State returns Idle or Pending.
func (c *ChatController) State() ChatState {
	if c.session.Pending() {
		return StatePending
	}
	return StateIdle
}

// Submit runs one turn of the chat protocol.
//
// Guards, in order:
//   - input empty after trimming: no-op, nothing appended
//   - a request already pending: no-op (no queue, no batching)
//   - parameter validation fails: the error is returned for out-of-band
//     display, no message is appended and no network call is made
//
// Past the guards the user message is appended, the controller enters
// Pending, and exactly one request goes out. A successful reply is appended
// as an assistant message; a transport failure is appended as an assistant
// message carrying the failure indicator and the underlying reason. Both
// paths resolve back to Idle and return nil: a failed request never
// corrupts the session or blocks the next submission.
func (c *ChatController) Submit(ctx context.Context, input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	if c.session.Pending() {
		slog.Debug("Ignoring submission while a request is pending",
			"session_id", c.session.ID)
		return nil
	}

	if err := c.session.Params().Validate(); err != nil {
		return err
	}

	c.session.Append(datatypes.NewMessage(datatypes.RoleUser, input))
	c.session.setPending(true)
	defer c.session.setPending(false)

	text, err := c.client.SendMessage(ctx, input, c.session.Params())
	if err != nil {
		slog.Error("Completion request failed", "session_id", c.session.ID, "error", err)
		c.session.Append(datatypes.NewMessage(datatypes.RoleAssistant,
			fmt.Sprintf("%s %v", failureIndicator, err)))
		return nil
	}

	c.session.Append(datatypes.NewMessage(datatypes.RoleAssistant, text))
	return nil
}

// Clear resets the message history, leaving parameters untouched.
func (c *ChatController) Clear() {
	c.session.Clear()
}
