// Copyright (C) 2025 Skiff Project
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"strings"
	"testing"
)

// Raw-string help text renders verbatim, so indentation inside the
// literal would leak into --help output.
func TestHelpText_NoEmbeddedIndentation(t *testing.T) {
	if strings.Contains(rootCmd.Long, "\t") {
		t.Errorf("root help text embeds tab indentation: %q", rootCmd.Long)
	}
}
