package model

import (
	"time"
)

// ChatRequest represents one user message sent to the chatbot
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message" binding:"required"`
}

// ChatResponse represents the bot reply to a ChatRequest
type ChatResponse struct {
	SessionID string    `json:"session_id"`
	Reply     string    `json:"reply"`
	Intent    Intent    `json:"intent"`
	Timestamp time.Time `json:"timestamp"`
}

// TurnResponse is one conversation turn as exposed over HTTP
type TurnResponse struct {
	Timestamp time.Time `json:"timestamp"`
	User      string    `json:"user"`
	Bot       string    `json:"bot"`
}

// HistoryResponse lists the retained turns of a session
type HistoryResponse struct {
	SessionID string         `json:"session_id"`
	Turns     []TurnResponse `json:"turns"`
	Total     int            `json:"total"`
}

// EmbeddingBatchRequest represents a batch embedding update request
type EmbeddingBatchRequest struct {
	Embeddings []EmbeddingItem `json:"embeddings" binding:"required"`
}

// EmbeddingItem represents a single embedding for a product
type EmbeddingItem struct {
	ProductID int64     `json:"product_id" binding:"required"`
	Embedding []float32 `json:"embedding" binding:"required"`
}

// EmbeddingUpdateRequest carries the embedding of one product
type EmbeddingUpdateRequest struct {
	Embedding []float32 `json:"embedding" binding:"required"`
}

// EmbeddingBatchResponse represents the response for batch embedding update
type EmbeddingBatchResponse struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// ChatLog is one persisted conversation turn
type ChatLog struct {
	ID          int64     `json:"id" db:"id"`
	SessionID   string    `json:"session_id" db:"session_id"`
	UserMessage string    `json:"user_message" db:"user_message"`
	BotReply    string    `json:"bot_reply" db:"bot_reply"`
	Intent      Intent    `json:"intent" db:"intent"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
