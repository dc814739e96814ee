package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// CreateConversationRequest is the body of POST /api/conversations.
type CreateConversationRequest struct {
	SessionID  string `json:"sessionId"`
	DocumentID *int   `json:"documentId"`
}

// CreateConversation creates a conversation for a session, or returns
// the existing one.
// POST /api/conversations
func (h *Handler) CreateConversation(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateConversationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	conv, err := h.service.GetOrCreateConversation(ctx, req.SessionID, req.DocumentID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, conv)
}

// ListMessages returns a conversation's messages in creation order.
// GET /api/conversations/:id/messages
func (h *Handler) ListMessages(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	messages, err := h.service.GetConversationMessages(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, messages)
}
