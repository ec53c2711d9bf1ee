// Copyright (C) 2025 Skiff Project
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// The completion service is a stand-in for a model-serving backend. It
// accepts completion requests from the Skiff CLI (or any client speaking the
// same contract) and answers with a canned acknowledgment.
package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/skiffworks/skiff/services/completion/middleware"
	"github.com/skiffworks/skiff/services/completion/routes"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func main() {
	port := os.Getenv("COMPLETION_PORT")
	if port == "" {
		port = "8080"
	}

	router := gin.Default()
	router.Use(otelgin.Middleware("completion-service"))
	router.Use(middleware.PermissiveCORS())

	routes.SetupRoutes(router)

	slog.Info("Starting the completion service", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
