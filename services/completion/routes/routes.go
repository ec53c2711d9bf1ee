// Copyright (C) 2025 Skiff Project
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/skiffworks/skiff/services/completion/handlers"
)

// SetupRoutes registers the completion service routes on the router.
func SetupRoutes(router *gin.Engine) {
	router.GET("/health", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/completion", handlers.HandleCompletion())
	}
}
