// Copyright (C) 2025 Skiff Project
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/google/uuid"
	"github.com/skiffworks/skiff/services/completion/datatypes"
)

// Session holds the client-side state for one continuous chat view: the
// ordered message history, the current generation parameters, and the
// in-flight flag.
//
// The session is process-local and never persisted; the ID exists only so
// logs and the UI can tell sessions apart. All mutation happens on the
// single control thread of the chat loop, so there is no locking here.
type Session struct {
	ID       string
	messages []datatypes.Message
	params   datatypes.GenerationParams
	pending  bool
}

// NewSession creates an empty session with the default parameters
// (temperature 1.0, low reasoning effort, no topP/topK).
func NewSession() *Session {
	return &Session{
		ID:     uuid.NewString(),
		params: datatypes.DefaultParams(),
	}
}

// Append adds a message to the history. Append-only: messages are never
// edited or reordered after this point.
func (s *Session) Append(m datatypes.Message) {
	s.messages = append(s.messages, m)
}

// Clear empties the message history. Parameters are deliberately left
// untouched: clearing the conversation is not a settings reset.
func (s *Session) Clear() {
	s.messages = nil
}

// History returns the messages in insertion order. The slice is a copy, so
// callers cannot mutate the session through it.
func (s *Session) History() []datatypes.Message {
	out := make([]datatypes.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of turns in the history.
func (s *Session) Len() int {
	return len(s.messages)
}

// Params returns the current generation parameters.
func (s *Session) Params() datatypes.GenerationParams {
	return s.params
}

// UpdateParams applies a parameter patch. The topP/topK exclusion rule is
// enforced inside Apply, so it holds after every update made through here.
func (s *Session) UpdateParams(patch datatypes.ParamsPatch) {
	s.params.Apply(patch)
}

// Pending reports whether a request is in flight.
func (s *Session) Pending() bool {
	return s.pending
}

func (s *Session) setPending(v bool) {
	s.pending = v
}
