package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoemart/internal/model"
	"shoemart/internal/repository"
	"shoemart/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newChatRouter() (*gin.Engine, *service.SessionManager) {
	sessions := service.NewSessionManager(service.NewOfflineStorage(), nil, service.SessionOptions{
		Dispatcher: service.DispatcherOptions{BotName: "Test Bot"},
		RandomSeed: 1,
	})
	h := NewChatHandler(sessions)

	r := gin.New()
	r.POST("/api/v1/chat", h.Chat)
	r.POST("/api/v1/chat/stream", h.ChatStream)
	r.GET("/api/v1/chat/:session/history", h.History)
	r.DELETE("/api/v1/chat/:session", h.Delete)
	return r, sessions
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestChatHandler_Chat(t *testing.T) {
	r, _ := newChatRouter()

	w := doJSON(r, http.MethodPost, "/api/v1/chat", `{"message": "xin chào"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp model.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	_, err := uuid.Parse(resp.SessionID)
	assert.NoError(t, err)
	assert.Equal(t, model.IntentGreeting, resp.Intent)
	assert.NotEmpty(t, resp.Reply)
	assert.False(t, resp.Timestamp.IsZero())
}

func TestChatHandler_BadRequests(t *testing.T) {
	r, _ := newChatRouter()

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"message":`},
		{name: "missing message", body: `{"session_id": ""}`},
		{name: "invalid session id", body: `{"session_id": "abc", "message": "hi"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/api/v1/chat", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "error")
		})
	}
}

func TestChatHandler_HistoryAndDelete(t *testing.T) {
	r, _ := newChatRouter()

	w := doJSON(r, http.MethodPost, "/api/v1/chat", `{"message": "giày nike"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var first model.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))

	w = doJSON(r, http.MethodPost, "/api/v1/chat", `{"session_id": "`+first.SessionID+`", "message": "help"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/api/v1/chat/"+first.SessionID+"/history", "")
	require.Equal(t, http.StatusOK, w.Code)

	var history model.HistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	assert.Equal(t, 2, history.Total)
	require.Len(t, history.Turns, 2)
	assert.Equal(t, "giày nike", history.Turns[0].User)
	assert.Contains(t, history.Turns[0].Bot, "chế độ offline")
	assert.Equal(t, "help", history.Turns[1].User)

	w = doJSON(r, http.MethodDelete, "/api/v1/chat/"+first.SessionID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(r, http.MethodGet, "/api/v1/chat/"+first.SessionID+"/history", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodDelete, "/api/v1/chat/"+first.SessionID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChatHandler_ChatStream(t *testing.T) {
	r, _ := newChatRouter()

	w := doJSON(r, http.MethodPost, "/api/v1/chat/stream", `{"message": "help"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/event-stream")

	var events []string
	scanner := bufio.NewScanner(strings.NewReader(w.Body.String()))
	for scanner.Scan() {
		if line := scanner.Text(); strings.HasPrefix(line, "event: ") {
			events = append(events, strings.TrimPrefix(line, "event: "))
		}
	}
	assert.Equal(t, []string{"session", "intent", "reply", "done"}, events)
	assert.Contains(t, w.Body.String(), `"intent":"help"`)
}

type fakeProductStore struct {
	available bool
	product   *model.Product
	err       error
}

func (f *fakeProductStore) FetchProductByID(context.Context, int64) (*model.Product, error) {
	return f.product, f.err
}

func (f *fakeProductStore) IsAvailable(context.Context) bool {
	return f.available
}

func TestProductHandler_GetProduct(t *testing.T) {
	product := &model.Product{ID: 3, Name: "Converse Chuck Taylor", Price: 1_500_000, Category: "Sneakers"}

	tests := []struct {
		name       string
		path       string
		store      *fakeProductStore
		wantStatus int
		wantBody   string
	}{
		{name: "found", path: "/api/v1/products/3", store: &fakeProductStore{available: true, product: product}, wantStatus: http.StatusOK, wantBody: "Converse Chuck Taylor"},
		{name: "not found", path: "/api/v1/products/9", store: &fakeProductStore{available: true}, wantStatus: http.StatusNotFound, wantBody: "Product not found"},
		{name: "invalid id", path: "/api/v1/products/abc", store: &fakeProductStore{available: true}, wantStatus: http.StatusBadRequest, wantBody: "Invalid product ID"},
		{name: "negative id", path: "/api/v1/products/-1", store: &fakeProductStore{available: true}, wantStatus: http.StatusBadRequest, wantBody: "Invalid product ID"},
		{name: "offline", path: "/api/v1/products/3", store: &fakeProductStore{}, wantStatus: http.StatusServiceUnavailable, wantBody: "Database unavailable"},
		{name: "storage error", path: "/api/v1/products/3", store: &fakeProductStore{available: true, err: errors.New("boom")}, wantStatus: http.StatusInternalServerError, wantBody: "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/api/v1/products/:id", NewProductHandler(tt.store).GetProduct)

			w := doJSON(r, http.MethodGet, tt.path, "")

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

type fakeEmbeddingStore struct {
	items   []model.EmbeddingItem
	errs    []string
	missing bool
}

func (f *fakeEmbeddingStore) UpdateProductEmbedding(_ context.Context, productID int64, embedding []float32) error {
	if f.missing {
		return repository.ErrProductNotFound
	}
	f.items = append(f.items, model.EmbeddingItem{ProductID: productID, Embedding: embedding})
	return nil
}

func (f *fakeEmbeddingStore) BatchUpdateEmbeddings(_ context.Context, items []model.EmbeddingItem) (int, []string) {
	f.items = items
	return len(items) - len(f.errs), f.errs
}

func TestEmbeddingHandler_BatchUpdate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		errs       []string
		wantStatus int
		wantStored int
	}{
		{name: "ok", body: `{"embeddings": [{"product_id": 1, "embedding": [0.1, 0.2, 0.3]}]}`, wantStatus: http.StatusOK, wantStored: 1},
		{name: "partial", body: `{"embeddings": [{"product_id": 1, "embedding": [0.1, 0.2, 0.3]}, {"product_id": 2, "embedding": [1, 2, 3]}]}`, errs: []string{"product_id 2: not found"}, wantStatus: http.StatusPartialContent, wantStored: 2},
		{name: "wrong dimension", body: `{"embeddings": [{"product_id": 1, "embedding": [0.1]}]}`, wantStatus: http.StatusBadRequest},
		{name: "empty batch", body: `{"embeddings": []}`, wantStatus: http.StatusBadRequest},
		{name: "malformed", body: `{`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeEmbeddingStore{errs: tt.errs}
			r := gin.New()
			r.POST("/api/v1/products/embeddings/batch", NewEmbeddingHandler(store, 3).BatchUpdate)

			w := doJSON(r, http.MethodPost, "/api/v1/products/embeddings/batch", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Len(t, store.items, tt.wantStored)
		})
	}
}

func TestEmbeddingHandler_Update(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		missing    bool
		wantStatus int
	}{
		{name: "ok", path: "/api/v1/products/4/embedding", body: `{"embedding": [0.1, 0.2, 0.3]}`, wantStatus: http.StatusOK},
		{name: "unknown product", path: "/api/v1/products/404/embedding", body: `{"embedding": [0.1, 0.2, 0.3]}`, missing: true, wantStatus: http.StatusNotFound},
		{name: "wrong dimension", path: "/api/v1/products/4/embedding", body: `{"embedding": [0.1]}`, wantStatus: http.StatusBadRequest},
		{name: "invalid id", path: "/api/v1/products/x/embedding", body: `{"embedding": [0.1, 0.2, 0.3]}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeEmbeddingStore{missing: tt.missing}
			r := gin.New()
			r.PUT("/api/v1/products/:id/embedding", NewEmbeddingHandler(store, 3).Update)

			w := doJSON(r, http.MethodPut, tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				require.Len(t, store.items, 1)
				assert.Equal(t, int64(4), store.items[0].ProductID)
			}
		})
	}
}
