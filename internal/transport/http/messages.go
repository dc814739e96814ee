package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// PostMessageRequest is the body of POST /api/conversations/:id/messages.
type PostMessageRequest struct {
	Content string `json:"content"`
}

// PostMessage runs one chat turn and returns both persisted messages.
// POST /api/conversations/:id/messages
func (h *Handler) PostMessage(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req PostMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	turn, err := h.service.SendMessage(ctx, id, req.Content)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, turn)
}
