// Copyright (C) 2025 Skiff Project
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package main contains the ChatRunner implementation.
//
// This file implements the interactive chat loop. It coordinates between
// the ChatController, ChatUI, and InputReader to provide the terminal
// chat experience.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/skiffworks/skiff/pkg/ux"
	"github.com/skiffworks/skiff/services/completion/datatypes"
)

// =============================================================================
// ChatRunner
// =============================================================================

// ChatRunner manages the interactive chat loop. It owns the display and
// input layers; everything that touches session state goes through the
// controller.
//
// Single use: the runner cannot be restarted after Run() returns.
type ChatRunner struct {
	controller *ChatController
	ui         ux.ChatUI
	input      InputReader
}

// NewChatRunner creates a chat runner with production dependencies: a
// terminal UI and an interactive stdin reader (with a plain reader
// fallback when stdin is not a TTY).
func NewChatRunner(controller *ChatController) *ChatRunner {
	return &ChatRunner{
		controller: controller,
		ui:         ux.NewChatUI(),
		input:      NewInteractiveInputReader(100),
	}
}

// NewChatRunnerWithDeps creates a chat runner with injected dependencies
// for testing. Use ux.NewChatUIWithWriter and MockInputReader.
func NewChatRunnerWithDeps(controller *ChatController, ui ux.ChatUI, input InputReader) *ChatRunner {
	return &ChatRunner{
		controller: controller,
		ui:         ui,
		input:      input,
	}
}

// Run executes the interactive chat loop until the user exits, input is
// exhausted, or the context is cancelled.
//
// The loop:
//  1. Displays the session header
//  2. Prompts for input
//  3. Handles exit commands ("exit", "quit") and slash commands
//     (/clear, /params, /tune)
//  4. Submits everything else through the controller, with a spinner
//     while the request is in flight
//  5. Renders the newest assistant message, which carries either the
//     reply or the failure indicator
//
// Parameter validation errors come back from Submit and are displayed
// out of band; they never enter the conversation history.
func (r *ChatRunner) Run(ctx context.Context) error {
	session := r.controller.Session()
	r.ui.Header(session.ID)

	if prompting, ok := r.input.(PromptingInputReader); ok {
		prompting.SetPrompt(r.ui.Prompt())
	}

	for {
		// Check for cancellation before blocking on input
		select {
		case <-ctx.Done():
			return r.handleShutdown(ctx)
		default:
		}

		if _, ok := r.input.(PromptingInputReader); !ok {
			fmt.Print(r.ui.Prompt())
		}
		input, err := r.input.ReadLine()
		if err != nil {
			if err == io.EOF {
				r.ui.SessionEnd(session.ID, session.Len())
				return nil
			}
			slog.Error("Failed to read input", "error", err)
			return fmt.Errorf("read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if isExitCommand(input) {
			r.ui.SessionEnd(session.ID, session.Len())
			return nil
		}

		if strings.HasPrefix(input, "/") {
			r.handleCommand(input)
			continue
		}

		if err := r.handleMessage(ctx, input); err != nil {
			if ctx.Err() != nil {
				return r.handleShutdown(ctx)
			}
			// Validation errors are non-fatal: display and continue
			r.ui.Error(err)
		}
	}
}

// handleCommand dispatches a slash command.
func (r *ChatRunner) handleCommand(input string) {
	switch input {
	case "/clear":
		r.controller.Clear()
		r.ui.Notice("History cleared. Parameters are unchanged.")
	case "/params":
		r.ui.Params(r.controller.Session().Params())
	case "/tune":
		if err := runParamsForm(r.controller.Session()); err != nil {
			r.ui.Error(err)
			return
		}
		r.ui.Params(r.controller.Session().Params())
	default:
		r.ui.Notice(fmt.Sprintf("Unknown command %q. Available: /clear /params /tune", input))
	}
}

// handleMessage submits one message and renders the resulting assistant
// turn. A transport failure surfaces as the newest assistant message, so
// rendering is the same on both paths.
func (r *ChatRunner) handleMessage(ctx context.Context, input string) error {
	spinner := ux.NewSpinner("Waiting for reply")
	spinner.Start()

	err := r.controller.Submit(ctx, input)
	spinner.Stop()
	if err != nil {
		return err
	}

	history := r.controller.Session().History()
	if len(history) == 0 {
		return nil
	}
	last := history[len(history)-1]
	if last.Role == datatypes.RoleAssistant {
		r.ui.Response(last.Content)
	}
	return nil
}

// handleShutdown handles context cancellation: display the session end
// and surface the context error.
func (r *ChatRunner) handleShutdown(ctx context.Context) error {
	session := r.controller.Session()
	slog.Info("Chat shutdown initiated", "session_id", session.ID)

	fmt.Println()
	r.ui.SessionEnd(session.ID, session.Len())
	return ctx.Err()
}

// isExitCommand reports whether the input ends the session.
func isExitCommand(input string) bool {
	switch strings.ToLower(input) {
	case "exit", "quit":
		return true
	}
	return false
}
