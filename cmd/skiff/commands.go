// Copyright (C) 2025 Skiff Project
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/skiffworks/skiff/pkg/logging"
)

// --- Global Command Variables ---
var (
	serverURL       string
	flagTemperature float64
	flagTopP        float64
	flagTopK        int
	flagEffort      string
	logLevel        string

	rootCmd = &cobra.Command{
		Use:   "skiff",
		Short: "A cli chat front end for the Skiff completion service",
		Long: `Skiff is a small terminal chat client. It keeps the conversation
history on the client, sends one completion request per turn, and lets you
adjust generation parameters as you go.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := logging.LevelInfo
			switch logLevel {
			case "debug":
				level = logging.LevelDebug
			case "warn":
				level = logging.LevelWarn
			case "error":
				level = logging.LevelError
			}
			logger := logging.New(logging.Config{Level: level, Service: "skiff"})
			slog.SetDefault(logger.Slog())
		},
	}

	// --- Chat ---
	chatCmd = &cobra.Command{
		Use:   "chat",
		Short: "Starts an interactive chat session",
		Run:   runChatCommand, // Defined in cmd_chat.go
	}

	// --- Params ---
	paramsCmd = &cobra.Command{
		Use:   "params",
		Short: "Print the default generation parameters and their ranges",
		Run:   runParamsCommand, // Defined in cmd_chat.go
	}
)

// init runs when the Go program starts
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Log level: debug, info, warn, or error")

	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVar(&serverURL, "server", "",
		"Completion service base URL (overrides the config file)")
	chatCmd.Flags().Float64Var(&flagTemperature, "temperature", 0,
		"Sampling temperature, 0 to 2")
	chatCmd.Flags().Float64Var(&flagTopP, "top-p", 0,
		"Nucleus sampling threshold, 0 to 1 (exclusive with --top-k)")
	chatCmd.Flags().IntVar(&flagTopK, "top-k", 0,
		"Top-K sampling cutoff, 0 to 20 (exclusive with --top-p)")
	chatCmd.Flags().StringVar(&flagEffort, "effort", "",
		"Reasoning effort: minimal, low, medium, or high")

	rootCmd.AddCommand(paramsCmd)
}
