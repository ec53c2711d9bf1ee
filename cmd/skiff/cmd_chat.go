// Copyright (C) 2025 Skiff Project
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/skiffworks/skiff/cmd/skiff/config"
	"github.com/skiffworks/skiff/pkg/ux"
	"github.com/skiffworks/skiff/services/completion/datatypes"
)

func runChatCommand(cmd *cobra.Command, args []string) {
	baseURL := getServerBaseURL()

	session := NewSession()
	applyFlagPatch(cmd, session)

	service := newCompletionService(baseURL)
	controller := NewChatController(session, service)
	runner := NewChatRunner(controller)

	// Set up graceful shutdown with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	// Run the chat loop
	if err := runner.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("Chat error: %v", err)
	}
}

func runParamsCommand(cmd *cobra.Command, args []string) {
	ui := ux.NewChatUI()
	ui.Params(datatypes.DefaultParams())
	ui.Notice("temperature: 0 to 2, top_p: 0 to 1, top_k: 0 to 20 (top_p and top_k are exclusive)")
}

// getServerBaseURL resolves the completion service URL: the --server flag
// wins, otherwise the config file, otherwise the built-in default.
func getServerBaseURL() string {
	if serverURL != "" {
		return serverURL
	}
	if err := config.Load(); err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	if config.Global.Server.BaseURL != "" {
		return config.Global.Server.BaseURL
	}
	return config.DefaultConfig().Server.BaseURL
}

// applyFlagPatch folds the chat flags into the session parameters.
//
// Changed() distinguishes a flag the user set from one left at its zero
// default, so --temperature 0 patches temperature to a defined zero while
// omitting the flag leaves the session default alone. The exclusion
// between top_p and top_k is enforced by the patch application itself;
// passing both keeps top_k.
func applyFlagPatch(cmd *cobra.Command, session *Session) {
	var patch datatypes.ParamsPatch

	if cmd.Flags().Changed("temperature") {
		v := flagTemperature
		patch.Temperature = &v
	}
	if cmd.Flags().Changed("top-p") {
		v := flagTopP
		patch.TopP = &v
	}
	if cmd.Flags().Changed("top-k") {
		v := flagTopK
		patch.TopK = &v
	}
	if cmd.Flags().Changed("effort") {
		effort, err := datatypes.ParseReasoningEffort(flagEffort)
		if err != nil {
			log.Fatalf("Invalid --effort value: %v", err)
		}
		patch.ReasoningEffort = &effort
	}

	session.UpdateParams(patch)
}
