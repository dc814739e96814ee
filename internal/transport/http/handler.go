// Package http provides the HTTP handlers for the chat widget backend.
package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/twistandthread/chatwidget/internal/config"
	"github.com/twistandthread/chatwidget/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
	config  *config.Config
}

// NewHandler creates a new handler.
func NewHandler(svc *service.Service, cfg *config.Config) *Handler {
	return &Handler{
		service: svc,
		config:  cfg,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/conversations", h.CreateConversation)
	e.POST("/api/conversations/:id/messages", h.PostMessage)
	e.GET("/api/conversations/:id/messages", h.ListMessages)

	e.POST("/api/documents", h.UploadDocument)
	e.GET("/api/documents/:id", h.GetDocument)
	e.DELETE("/api/documents/:id", h.DeleteDocument)

	e.POST("/api/knowledge-base/reload", h.ReloadKnowledgeBase)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
