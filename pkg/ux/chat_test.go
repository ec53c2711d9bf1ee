// Copyright (C) 2025 Skiff Project
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/skiffworks/skiff/services/completion/datatypes"
)

func newBufferUI() (ChatUI, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewChatUIWithWriter(&buf), &buf
}

func TestHeader_ShowsSessionAndCommands(t *testing.T) {
	ui, buf := newBufferUI()
	ui.Header("sess-123")

	out := buf.String()
	if !strings.Contains(out, "sess-123") {
		t.Errorf("header must show the session ID, got %q", out)
	}
	if !strings.Contains(out, "/clear") || !strings.Contains(out, "/params") {
		t.Errorf("header must list the commands, got %q", out)
	}
}

func TestResponse_RendersAnswer(t *testing.T) {
	ui, buf := newBufferUI()
	ui.Response("the answer")

	if !strings.Contains(buf.String(), "the answer") {
		t.Errorf("got %q", buf.String())
	}
}

func TestError_RendersReason(t *testing.T) {
	ui, buf := newBufferUI()
	ui.Error(errors.New("something broke"))

	if !strings.Contains(buf.String(), "something broke") {
		t.Errorf("got %q", buf.String())
	}
}

func TestParams_MarksUnsetFields(t *testing.T) {
	ui, buf := newBufferUI()
	ui.Params(datatypes.DefaultParams())

	out := buf.String()
	if !strings.Contains(out, "1") {
		t.Errorf("default temperature must render, got %q", out)
	}
	if !strings.Contains(out, "(unset)") {
		t.Errorf("unset samplers must be marked, got %q", out)
	}
	if !strings.Contains(out, "low") {
		t.Errorf("effort must render, got %q", out)
	}
}

// A defined zero renders as 0, never as unset. The display must keep the
// distinction the data model makes.
func TestParams_DefinedZeroRendersAsZero(t *testing.T) {
	ui, buf := newBufferUI()

	zero := 0.0
	ui.Params(datatypes.GenerationParams{Temperature: &zero})

	lines := strings.Split(buf.String(), "\n")
	var tempLine string
	for _, line := range lines {
		if strings.Contains(line, "temperature") && !strings.Contains(line, "reasoning") {
			tempLine = line
			break
		}
	}
	if tempLine == "" {
		t.Fatalf("no temperature line in %q", buf.String())
	}
	if strings.Contains(tempLine, "(unset)") {
		t.Errorf("defined zero must not render as unset: %q", tempLine)
	}
	if !strings.Contains(tempLine, "0") {
		t.Errorf("defined zero must render as 0: %q", tempLine)
	}
}

func TestSessionEnd_ReportsTurnCount(t *testing.T) {
	ui, buf := newBufferUI()
	ui.SessionEnd("sess-123", 6)

	out := buf.String()
	if !strings.Contains(out, "sess-123") || !strings.Contains(out, "6 turns") {
		t.Errorf("got %q", out)
	}
}
