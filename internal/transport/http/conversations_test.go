package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/twistandthread/chatwidget/internal/domain"
)

func postJSON(t *testing.T, e *echo.Echo, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCreateConversationIdempotent(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t)

	create := func() domain.Conversation {
		c, rec := postJSON(t, e, "/api/conversations", `{"sessionId":"widget-1"}`)
		if err := h.CreateConversation(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var conv domain.Conversation
		if err := json.Unmarshal(rec.Body.Bytes(), &conv); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		return conv
	}

	first := create()
	second := create()
	if first.ID != second.ID {
		t.Fatalf("expected same conversation for session, got %d and %d", first.ID, second.ID)
	}
}

func TestCreateConversationMissingSessionID(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t)

	c, rec := postJSON(t, e, "/api/conversations", `{}`)
	if err := h.CreateConversation(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPostMessageAndListMessages(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t)

	conv, err := h.service.GetOrCreateConversation(t.Context(), "widget-1", nil)
	if err != nil {
		t.Fatalf("GetOrCreateConversation failed: %v", err)
	}

	c, rec := postJSON(t, e, "/api/conversations/1/messages", `{"content":"Do you do embroidery?"}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.PostMessage(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var turn struct {
		UserMessage domain.Message `json:"userMessage"`
		AIMessage   domain.Message `json:"aiMessage"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &turn); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if turn.UserMessage.Role != domain.RoleUser || turn.AIMessage.Role != domain.RoleAssistant {
		t.Fatalf("unexpected roles: %+v", turn)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/conversations/1/messages", nil)
	listRec := httptest.NewRecorder()
	listCtx := e.NewContext(req, listRec)
	listCtx.SetParamNames("id")
	listCtx.SetParamValues("1")
	if err := h.ListMessages(listCtx); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if listRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", listRec.Code)
	}

	var messages []domain.Message
	if err := json.Unmarshal(listRec.Body.Bytes(), &messages); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].ConversationID != conv.ID {
		t.Fatalf("unexpected conversation id: %d", messages[0].ConversationID)
	}
}

func TestPostMessageMissingContent(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t)

	if _, err := h.service.GetOrCreateConversation(t.Context(), "widget-1", nil); err != nil {
		t.Fatalf("GetOrCreateConversation failed: %v", err)
	}

	c, rec := postJSON(t, e, "/api/conversations/1/messages", `{}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.PostMessage(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListMessagesUnknownConversation(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/conversations/42/messages", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("42")

	if err := h.ListMessages(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
