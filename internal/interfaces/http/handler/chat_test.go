package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	appChat "github.com/bookchat/backend/internal/application/chat"
	"github.com/bookchat/backend/internal/infrastructure/llm"
	"github.com/bookchat/backend/internal/infrastructure/vector"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRetriever 固定结果的检索桩
type stubRetriever struct {
	books []vector.ScoredBook
}

func (s *stubRetriever) Retrieve(ctx context.Context, query string) ([]vector.ScoredBook, error) {
	return s.books, nil
}

// stubGenerator 固定回答的生成桩
type stubGenerator struct {
	answer string
}

func (s *stubGenerator) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	return s.answer, nil
}

func (s *stubGenerator) ChatStream(ctx context.Context, messages []llm.Message, onToken llm.TokenCallback) (string, error) {
	if onToken != nil {
		if err := onToken(s.answer); err != nil {
			return "", err
		}
	}
	return s.answer, nil
}

// stubProbe 固定就绪状态
type stubProbe struct{ ready bool }

func (s *stubProbe) Ready(ctx context.Context) bool { return s.ready }

func newChatRouter(ready bool) *gin.Engine {
	gin.SetMode(gin.TestMode)

	service := appChat.NewService(
		appChat.NewSessionStore(5),
		&stubRetriever{},
		&stubGenerator{answer: "Bạn nên đọc Nhà Giả Kim."},
		&stubProbe{ready: ready},
		appChat.NewPromptBuilder(0),
	)
	h := NewChatHandler(service)

	router := gin.New()
	router.POST("/api/v1/chat/ask", h.Ask)
	router.GET("/api/v1/chat/sessions", h.Sessions)
	router.GET("/api/v1/chat/:user_id/history", h.History)
	router.DELETE("/api/v1/chat/:user_id/history", h.Clear)
	router.DELETE("/api/v1/chat/:user_id", h.End)
	router.GET("/ready", h.Ready)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestChatHandler_Ask(t *testing.T) {
	router := newChatRouter(true)

	w := doJSON(t, router, http.MethodPost, "/api/v1/chat/ask", gin.H{
		"user_id":  "u1",
		"question": "sách về hành trình?",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Code int `json:"code"`
		Data struct {
			Answer string `json:"answer"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Code)
	assert.Equal(t, "Bạn nên đọc Nhà Giả Kim.", resp.Data.Answer)
}

func TestChatHandler_AskBadRequest(t *testing.T) {
	router := newChatRouter(true)

	w := doJSON(t, router, http.MethodPost, "/api/v1/chat/ask", gin.H{"user_id": "u1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatHandler_AskNotReady(t *testing.T) {
	router := newChatRouter(false)

	w := doJSON(t, router, http.MethodPost, "/api/v1/chat/ask", gin.H{
		"user_id":  "u1",
		"question": "q",
	})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestChatHandler_HistoryAndClear(t *testing.T) {
	router := newChatRouter(true)

	w := doJSON(t, router, http.MethodPost, "/api/v1/chat/ask", gin.H{
		"user_id":  "u1",
		"question": "q1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/chat/u1/history", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Count int `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.Count)

	w = doJSON(t, router, http.MethodDelete, "/api/v1/chat/u1/history", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/chat/u1/history", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Data.Count)
}

func TestChatHandler_Sessions(t *testing.T) {
	router := newChatRouter(true)

	w := doJSON(t, router, http.MethodPost, "/api/v1/chat/ask", gin.H{
		"user_id":  "u1",
		"question": "q1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/chat/sessions", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			UserIDs []string `json:"user_ids"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"u1"}, resp.Data.UserIDs)

	w = doJSON(t, router, http.MethodDelete, "/api/v1/chat/u1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/chat/sessions", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data.UserIDs)
}

func TestChatHandler_Ready(t *testing.T) {
	router := newChatRouter(true)
	w := doJSON(t, router, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	router = newChatRouter(false)
	w = doJSON(t, router, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
