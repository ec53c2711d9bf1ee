// Copyright (C) 2025 Skiff Project
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

type SkiffConfig struct {
	// Server: where the completion service lives
	Server ServerConfig `yaml:"server"`

	// Logging: CLI-side log settings
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	BaseURL string `yaml:"base_url"` // e.g. http://localhost:8080
}

type LoggingConfig struct {
	Level string `yaml:"level"`             // debug, info, warn, error
	Dir   string `yaml:"dir,omitempty"`     // enables file logging when set
	Quiet bool   `yaml:"quiet,omitempty"`   // suppress stderr logs
}

func DefaultConfig() SkiffConfig {
	return SkiffConfig{
		Server: ServerConfig{
			BaseURL: "http://localhost:8080",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
