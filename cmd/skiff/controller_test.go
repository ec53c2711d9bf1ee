// Copyright (C) 2025 Skiff Project
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/skiffworks/skiff/services/completion/datatypes"
)

// =============================================================================
// Mock Implementations
// =============================================================================

// mockSender implements CompletionSender for controller testing.
type mockSender struct {
	sendFunc   func(ctx context.Context, input string, params datatypes.GenerationParams) (string, error)
	calls      []string
	lastParams datatypes.GenerationParams
}

func (m *mockSender) SendMessage(ctx context.Context, input string,
	params datatypes.GenerationParams) (string, error) {

	m.calls = append(m.calls, input)
	m.lastParams = params
	if m.sendFunc != nil {
		return m.sendFunc(ctx, input, params)
	}
	return "hi there", nil
}

func newTestController(sender *mockSender) *ChatController {
	return NewChatController(NewSession(), sender)
}

// =============================================================================
// Submit Tests
// =============================================================================

func TestSubmit_SuccessAppendsBothTurns(t *testing.T) {
	sender := &mockSender{}
	controller := newTestController(sender)

	if err := controller.Submit(context.Background(), "hello"); err != nil {
		t.Fatalf("Submit: unexpected error: %v", err)
	}

	history := controller.Session().History()
	if len(history) != 2 {
		t.Fatalf("got %d messages, want 2", len(history))
	}
	if history[0].Role != datatypes.RoleUser || history[0].Content != "hello" {
		t.Errorf("first turn wrong: %+v", history[0])
	}
	if history[1].Role != datatypes.RoleAssistant || history[1].Content != "hi there" {
		t.Errorf("second turn wrong: %+v", history[1])
	}
	if controller.State() != StateIdle {
		t.Errorf("controller must return to idle, got %q", controller.State())
	}
}

func TestSubmit_EmptyInputIsNoOp(t *testing.T) {
	sender := &mockSender{}
	controller := newTestController(sender)

	for _, input := range []string{"", "   ", "\t\n"} {
		if err := controller.Submit(context.Background(), input); err != nil {
			t.Fatalf("Submit(%q): unexpected error: %v", input, err)
		}
	}

	if len(sender.calls) != 0 {
		t.Errorf("empty input must not reach the network, got %d calls", len(sender.calls))
	}
	if controller.Session().Len() != 0 {
		t.Errorf("empty input must not be appended, got %d messages", controller.Session().Len())
	}
}

// A submission made while a request is pending is dropped, not queued.
// The reentrant sender submits from inside the in-flight call to observe
// the pending state.
func TestSubmit_PendingIsNoOp(t *testing.T) {
	sender := &mockSender{}
	controller := newTestController(sender)
	sender.sendFunc = func(ctx context.Context, input string, params datatypes.GenerationParams) (string, error) {
		if controller.State() != StatePending {
			t.Errorf("state during send must be pending, got %q", controller.State())
		}
		if err := controller.Submit(ctx, "while pending"); err != nil {
			t.Errorf("pending submit must be a silent no-op, got %v", err)
		}
		return "done", nil
	}

	if err := controller.Submit(context.Background(), "first"); err != nil {
		t.Fatalf("Submit: unexpected error: %v", err)
	}

	if len(sender.calls) != 1 {
		t.Errorf("the pending submission must be dropped, got calls %v", sender.calls)
	}
	if controller.Session().Len() != 2 {
		t.Errorf("got %d messages, want 2", controller.Session().Len())
	}
}

func TestSubmit_InvalidParamsReturnedOutOfBand(t *testing.T) {
	sender := &mockSender{}
	controller := newTestController(sender)

	temp := 5.0
	controller.Session().UpdateParams(datatypes.ParamsPatch{Temperature: &temp})

	err := controller.Submit(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected a validation error")
	}

	var rangeErr *datatypes.RangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("got %T, want *RangeError", err)
	}
	if rangeErr.Param != "temperature" {
		t.Errorf("got param %q, want temperature", rangeErr.Param)
	}
	if len(sender.calls) != 0 {
		t.Error("validation failure must not reach the network")
	}
	if controller.Session().Len() != 0 {
		t.Error("validation failure must not enter the history")
	}
	if controller.State() != StateIdle {
		t.Errorf("controller must stay idle, got %q", controller.State())
	}
}

// A transport failure becomes part of the conversation: an assistant-role
// message carrying the failure indicator and the reason. Submit itself
// returns nil and the next submission proceeds normally.
func TestSubmit_TransportFailureBecomesAssistantMessage(t *testing.T) {
	sender := &mockSender{}
	controller := newTestController(sender)
	sender.sendFunc = func(ctx context.Context, input string, params datatypes.GenerationParams) (string, error) {
		return "", &TransportError{Err: errors.New("connection refused")}
	}

	if err := controller.Submit(context.Background(), "hello"); err != nil {
		t.Fatalf("transport failure must not surface as an error, got %v", err)
	}

	history := controller.Session().History()
	if len(history) != 2 {
		t.Fatalf("got %d messages, want 2", len(history))
	}
	last := history[1]
	if last.Role != datatypes.RoleAssistant {
		t.Errorf("failure message must be assistant-role, got %q", last.Role)
	}
	if !strings.HasPrefix(last.Content, failureIndicator+" ") {
		t.Errorf("failure message must carry the indicator, got %q", last.Content)
	}
	if !strings.Contains(last.Content, "send failed") || !strings.Contains(last.Content, "connection refused") {
		t.Errorf("failure message must carry the reason, got %q", last.Content)
	}

	// Session stays usable
	sender.sendFunc = nil
	if err := controller.Submit(context.Background(), "again"); err != nil {
		t.Fatalf("Submit after failure: unexpected error: %v", err)
	}
	if controller.Session().Len() != 4 {
		t.Errorf("got %d messages, want 4", controller.Session().Len())
	}
}

func TestSubmit_SendsCurrentParams(t *testing.T) {
	sender := &mockSender{}
	controller := newTestController(sender)

	topK := 7
	controller.Session().UpdateParams(datatypes.ParamsPatch{TopK: &topK})

	if err := controller.Submit(context.Background(), "hello"); err != nil {
		t.Fatalf("Submit: unexpected error: %v", err)
	}

	if sender.lastParams.TopK == nil || *sender.lastParams.TopK != 7 {
		t.Errorf("params must travel with the request, got %+v", sender.lastParams.TopK)
	}
	if sender.lastParams.TopP != nil {
		t.Error("top_p must stay cleared when top_k is set")
	}
}

func TestClear_EmptiesHistoryOnly(t *testing.T) {
	sender := &mockSender{}
	controller := newTestController(sender)

	if err := controller.Submit(context.Background(), "hello"); err != nil {
		t.Fatalf("Submit: unexpected error: %v", err)
	}
	temp := 0.4
	controller.Session().UpdateParams(datatypes.ParamsPatch{Temperature: &temp})

	controller.Clear()

	if controller.Session().Len() != 0 {
		t.Errorf("history must be empty after clear, got %d", controller.Session().Len())
	}
	params := controller.Session().Params()
	if params.Temperature == nil || *params.Temperature != 0.4 {
		t.Error("clear must not reset parameters")
	}
}
