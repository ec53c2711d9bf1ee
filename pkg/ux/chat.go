// Copyright (C) 2025 Skiff Project
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/skiffworks/skiff/services/completion/datatypes"
)

// ChatUI defines the interface for chat user interface operations.
// Implementations handle rendering chat elements to different outputs.
type ChatUI interface {
	// Header displays the chat session header.
	Header(sessionID string)

	// Prompt returns the styled input prompt string.
	Prompt() string

	// Response displays the assistant's response.
	Response(answer string)

	// Error displays a chat error message.
	Error(err error)

	// Notice displays an informational one-liner (e.g. after /clear).
	Notice(text string)

	// Params displays the current generation parameters.
	Params(p datatypes.GenerationParams)

	// SessionEnd displays session end information.
	SessionEnd(sessionID string, turns int)
}

// terminalChatUI implements ChatUI for terminal output
type terminalChatUI struct {
	writer io.Writer
}

// NewChatUI creates a new terminal-based ChatUI
func NewChatUI() ChatUI {
	return &terminalChatUI{writer: os.Stdout}
}

// NewChatUIWithWriter creates a ChatUI with a custom writer (for testing)
func NewChatUIWithWriter(w io.Writer) ChatUI {
	return &terminalChatUI{writer: w}
}

// write is a helper that writes formatted output. Terminal write errors are
// non-recoverable and silently ignored.
func (u *terminalChatUI) write(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(u.writer, format, args...)
}

func (u *terminalChatUI) writeln(args ...interface{}) {
	_, _ = fmt.Fprintln(u.writer, args...)
}

func (u *terminalChatUI) Header(sessionID string) {
	title := Styles.Title.Render("Skiff Chat")
	body := Styles.Muted.Render(fmt.Sprintf("session %s", sessionID))
	u.writeln(Styles.Box.Render(title + "\n" + body))
	u.writeln(Styles.Muted.Render("Type 'exit' to end. Commands: /clear /params /tune"))
	u.writeln()
}

func (u *terminalChatUI) Prompt() string {
	return Styles.Highlight.Render("> ")
}

func (u *terminalChatUI) Response(answer string) {
	u.writeln()
	u.writeln(answer)
}

func (u *terminalChatUI) Error(err error) {
	u.write("%s %s\n", IconError.Render(), Styles.Error.Render(fmt.Sprintf("Chat error: %v", err)))
}

func (u *terminalChatUI) Notice(text string) {
	u.write("%s %s\n", Styles.Muted.Render("│"), text)
}

// Params renders the current generation parameters, marking unset sampling
// fields explicitly so the defined-vs-unset distinction stays visible.
func (u *terminalChatUI) Params(p datatypes.GenerationParams) {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("temperature       %s\n", formatFloat(p.Temperature)))
	b.WriteString(fmt.Sprintf("top_p             %s\n", formatFloat(p.TopP)))
	b.WriteString(fmt.Sprintf("top_k             %s\n", formatInt(p.TopK)))
	b.WriteString(fmt.Sprintf("reasoning_effort  %s", formatEffort(p.ReasoningEffort)))

	title := Styles.Title.Render("Generation parameters")
	u.writeln(Styles.Box.Render(title + "\n" + b.String()))
}

func (u *terminalChatUI) SessionEnd(sessionID string, turns int) {
	u.writeln()
	u.write("%s %s\n", IconSuccess.Render(),
		Styles.Success.Render(fmt.Sprintf("Session %s ended (%d turns)", sessionID, turns)))
}

func formatFloat(v *float64) string {
	if v == nil {
		return Styles.Muted.Render("(unset)")
	}
	return fmt.Sprintf("%g", *v)
}

func formatInt(v *int) string {
	if v == nil {
		return Styles.Muted.Render("(unset)")
	}
	return fmt.Sprintf("%d", *v)
}

func formatEffort(e datatypes.ReasoningEffort) string {
	if e == "" {
		return Styles.Muted.Render("(unset)")
	}
	return string(e)
}
