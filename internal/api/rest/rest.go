package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/upravnik/assembly-engine/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Assembly management (building staff only)
		v1.POST("/assemblies", middleware.Auth(authCfg), handler.CreateAssembly)
		v1.GET("/assemblies/:id", handler.GetAssembly)

		// Attendance (check-in desk, building staff only)
		v1.POST("/assemblies/:id/attendees", middleware.Auth(authCfg), handler.RegisterAttendee)
		v1.GET("/assemblies/:id/attendees", handler.ListAttendees)
		v1.DELETE("/assemblies/:id/attendees/:attendeeId", middleware.Auth(authCfg), handler.RevokeAttendee)

		// Agenda lifecycle (chairperson, building staff only)
		v1.POST("/assemblies/:id/agenda", middleware.Auth(authCfg), handler.CreateAgendaItem)
		v1.GET("/assemblies/:id/agenda", handler.ListAgendaItems)
		v1.POST("/assemblies/:id/agenda/:itemId/open", middleware.Auth(authCfg), handler.OpenAgendaItem)
		v1.POST("/assemblies/:id/agenda/:itemId/close", middleware.Auth(authCfg), handler.CloseAgendaItem)

		// Voting (attendee devices in the room)
		v1.POST("/assemblies/:id/agenda/:itemId/votes", handler.CastVote)

		// Tally reads (public within the building portal)
		v1.GET("/assemblies/:id/agenda/:itemId/results", handler.GetLiveTally)
		v1.GET("/assemblies/:id/agenda/:itemId/result", handler.GetFinalResult)

		// Live tally stream (websocket)
		v1.GET("/assemblies/:id/live", handler.Live)
	}
}
