package main

import (
	"github.com/orbitads/orbit/backend/internal/health"
	"github.com/orbitads/orbit/backend/internal/httpapi/middleware"
	"github.com/orbitads/orbit/backend/internal/media"
)

// setupRoutes configures all the routes for the application
func (a *App) setupRoutes() {
	responseHandler := a.newResponseHandler()

	a.router.Use(middleware.RequestLoggerMiddleware(a.logger))

	// Health check
	healthHandler := health.NewHandler(responseHandler)
	a.router.GET("/health", healthHandler.HandleHealthCheck)

	// Media routes; identity comes from the upstream auth collaborator
	mediaHandler := media.NewHandler(a.media, a.registry, responseHandler, a.logger)
	mediaGroup := a.router.Group("/media")
	mediaGroup.Use(middleware.IdentityMiddleware())
	mediaHandler.RegisterRoutes(mediaGroup)
}
