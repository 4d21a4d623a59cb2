package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	appChat "github.com/bookchat/backend/internal/application/chat"
	domainChat "github.com/bookchat/backend/internal/domain/chat"
	"github.com/bookchat/backend/internal/infrastructure/config"
	"github.com/bookchat/backend/internal/infrastructure/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// 流式消息类型
const (
	streamMsgToken = "token"
	streamMsgDone  = "done"
	streamMsgError = "error"
)

// streamMessage 下发给客户端的单条流式消息
type streamMessage struct {
	Type    string      `json:"type"`
	Content string      `json:"content,omitempty"`
	Answer  interface{} `json:"answer,omitempty"`
	Message string      `json:"message,omitempty"`
}

// StreamHandler WebSocket 流式问答处理器
// 每个连接处理一问一答：收到请求后逐 token 下发，结束时推送完整回答
type StreamHandler struct {
	service  *appChat.Service
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewStreamHandler 创建流式问答处理器
func NewStreamHandler(cfg *config.Config, service *appChat.Service) *StreamHandler {
	return &StreamHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
			WriteBufferSize: cfg.WebSocket.WriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return true // 本地服务允许所有来源
			},
		},
		logger: log.NewModuleLogger("chat", "stream_handler"),
	}
}

// Stream 处理 WebSocket 流式提问
// GET /api/v1/chat/stream
func (h *StreamHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	for {
		var req AskRequest
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read failed", "error", err)
			}
			return
		}
		if err := json.Unmarshal(message, &req); err != nil {
			h.writeError(conn, "invalid message format")
			continue
		}

		answer, err := h.service.AskStream(c.Request.Context(), req.UserID, req.Question, func(token string) error {
			return conn.WriteJSON(streamMessage{Type: streamMsgToken, Content: token})
		})
		if err != nil {
			h.writeAskError(conn, err)
			continue
		}

		if err := conn.WriteJSON(streamMessage{Type: streamMsgDone, Answer: answer}); err != nil {
			h.logger.Warn("websocket write failed", "error", err)
			return
		}
	}
}

func (h *StreamHandler) writeError(conn *websocket.Conn, message string) {
	if err := conn.WriteJSON(streamMessage{Type: streamMsgError, Message: message}); err != nil {
		h.logger.Warn("websocket write failed", "error", err)
	}
}

func (h *StreamHandler) writeAskError(conn *websocket.Conn, err error) {
	switch {
	case errors.Is(err, domainChat.ErrEmptyUserID),
		errors.Is(err, domainChat.ErrEmptyQuestion),
		errors.Is(err, domainChat.ErrEngineNotReady):
		h.writeError(conn, err.Error())
	default:
		h.logger.Error("stream ask failed", "error", err)
		h.writeError(conn, "ask failed")
	}
}
