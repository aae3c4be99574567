package api

import (
	"fmt"
	"net/http"
	"time"

	authDelivery "mail-calendar-agent/internal/auth/delivery"

	"github.com/gin-gonic/gin"
)

const (
	apiVersion   = "1.0.0"
	maxBodyBytes = 10 << 20
)

var availableRoutes = []string{
	"GET /health",
	"GET /api/info",
	"GET /auth/login",
	"POST /api/agent/process/:email",
	"GET /api/emails/:email",
	"GET /api/calendar/:email/events",
	"GET /api/database/users",
}

func SetupRoutes(r *gin.Engine, h *Handler) {
	r.GET("/health", h.Health)
	r.GET("/api/info", h.Info)

	// Auth routes (public)
	h.authHandler.RegisterRoutes(r.Group("/auth"))

	protected := authDelivery.AuthMiddleware(h.authUsecase, h.config.AuthRequired)

	api := r.Group("/api")
	{
		emails := api.Group("/emails")
		emails.Use(protected)
		h.emailHandler.RegisterRoutes(emails)

		calendar := api.Group("/calendar")
		calendar.Use(protected)
		h.calendarHandler.RegisterRoutes(calendar)

		agent := api.Group("/agent")
		agent.Use(protected)
		h.agentHandler.RegisterRoutes(agent)

		dashboard := api.Group("/dashboard")
		dashboard.Use(protected)
		h.dashboardHandler.RegisterRoutes(dashboard)

		database := api.Group("/database")
		database.Use(protected)
		h.dashboardHandler.RegisterDatabaseRoutes(database)

		// Settings routes - runtime AI configuration
		settings := api.Group("/settings")
		settings.Use(protected)
		{
			settings.GET("/ai", h.settingsHandler.GetAISettings)
			settings.PUT("/ai", h.settingsHandler.UpdateAISettings)
			settings.POST("/ai/test", h.settingsHandler.TestOllamaConnection)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":           true,
			"message":         fmt.Sprintf("Route %s %s not found", c.Request.Method, c.Request.URL.Path),
			"availableRoutes": availableRoutes,
		})
	})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"message":     "Mail Calendar AI Agent Backend is running",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"version":     apiVersion,
		"environment": h.config.Environment,
	})
}

func (h *Handler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "Mail Calendar AI Agent API",
		"version": apiVersion,
		"endpoints": gin.H{
			"auth":      "/auth/*",
			"emails":    "/api/emails/*",
			"calendar":  "/api/calendar/*",
			"agent":     "/api/agent/*",
			"dashboard": "/api/dashboard/*",
			"database":  "/api/database/*",
			"settings":  "/api/settings/*",
		},
	})
}

func corsMiddleware(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func bodyLimitMiddleware(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
