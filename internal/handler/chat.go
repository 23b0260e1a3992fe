package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"shoemart/internal/model"
	"shoemart/internal/service"

	"github.com/gin-gonic/gin"
)

// ChatHandler handles chat-related HTTP requests
type ChatHandler struct {
	sessions *service.SessionManager
}

// NewChatHandler creates a new chat handler
func NewChatHandler(sessions *service.SessionManager) *ChatHandler {
	return &ChatHandler{
		sessions: sessions,
	}
}

// Chat handles POST /api/v1/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	sessionID, reply, err := h.sessions.Chat(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSessionID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Chat failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.ChatResponse{
		SessionID: sessionID,
		Reply:     reply.Text,
		Intent:    reply.Intent,
		Timestamp: reply.Timestamp,
	})
}

// ChatStream handles POST /api/v1/chat/stream - the same turn as Chat,
// delivered as server-sent events (session, intent, reply, done)
func (h *ChatHandler) ChatStream(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming not supported"})
		return
	}

	sessionID, reply, err := h.sessions.Chat(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrInvalidSessionID) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	// Set SSE headers
	c.Header("Content-Type", "text/event-stream; charset=utf-8")
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	sendSSE(c, "session", map[string]any{"session_id": sessionID})
	sendSSE(c, "intent", map[string]any{"intent": reply.Intent})
	sendSSE(c, "reply", model.ChatResponse{
		SessionID: sessionID,
		Reply:     reply.Text,
		Intent:    reply.Intent,
		Timestamp: reply.Timestamp,
	})
	sendSSE(c, "done", nil)
	flusher.Flush()
}

// History handles GET /api/v1/chat/:session/history
func (h *ChatHandler) History(c *gin.Context) {
	sessionID := c.Param("session")

	turns, ok := h.sessions.History(sessionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	resp := model.HistoryResponse{
		SessionID: sessionID,
		Turns:     make([]model.TurnResponse, 0, len(turns)),
		Total:     len(turns),
	}
	for _, turn := range turns {
		resp.Turns = append(resp.Turns, model.TurnResponse{
			Timestamp: turn.Timestamp,
			User:      turn.UserText,
			Bot:       turn.BotText,
		})
	}

	c.JSON(http.StatusOK, resp)
}

// Delete handles DELETE /api/v1/chat/:session
func (h *ChatHandler) Delete(c *gin.Context) {
	if !h.sessions.Delete(c.Param("session")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// sendSSE sends a Server-Sent Event
func sendSSE(c *gin.Context, event string, data any) {
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			fmt.Fprintf(c.Writer, "event: error\ndata: {\"error\": \"JSON marshal failed\"}\n\n")
			return
		}
		fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, string(jsonData))
	} else {
		fmt.Fprintf(c.Writer, "event: %s\ndata: {}\n\n", event)
	}
}
