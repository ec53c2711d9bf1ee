// Copyright (C) 2025 Skiff Project
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes provides the data structures shared by the completion
// service and the Skiff CLI client.
//
// This file contains the chat turn types. For generation parameter types,
// see params.go; for wire types, see completion.go.
package datatypes

import (
	"fmt"
	"time"
)

// Role identifies the author of a chat turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn in a chat session.
//
// A Message is immutable once created: the history it lives in is
// append-only and ordered by insertion. Failed requests are represented as
// assistant-role messages whose content carries a failure indicator rather
// than a separate error type.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a Message stamped with the current time.
//
// The ID is the creation time in nanoseconds plus a role suffix, which keeps
// IDs unique and creation-ordered within a session without needing a
// counter.
func NewMessage(role Role, content string) Message {
	now := time.Now()
	return Message{
		ID:        fmt.Sprintf("%d-%s", now.UnixNano(), role),
		Role:      role,
		Content:   content,
		Timestamp: now,
	}
}
