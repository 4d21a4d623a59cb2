package handler

import (
	"errors"
	"net/http"

	"log/slog"

	appChat "github.com/bookchat/backend/internal/application/chat"
	domainChat "github.com/bookchat/backend/internal/domain/chat"
	"github.com/bookchat/backend/internal/infrastructure/log"
	"github.com/bookchat/backend/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
)

// ChatHandler 会话式问答处理器
type ChatHandler struct {
	service *appChat.Service
	logger  *slog.Logger
}

// NewChatHandler 创建问答处理器
func NewChatHandler(service *appChat.Service) *ChatHandler {
	return &ChatHandler{
		service: service,
		logger:  log.NewModuleLogger("chat", "handler"),
	}
}

// AskRequest 提问请求
type AskRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Question string `json:"question" binding:"required"`
}

// Ask 提问并返回完整回答
// POST /api/v1/chat/ask
func (h *ChatHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, 200001, "invalid request body")
		return
	}

	answer, err := h.service.Ask(c.Request.Context(), req.UserID, req.Question)
	if err != nil {
		h.writeAskError(c, err)
		return
	}

	response.Success(c, answer)
}

// writeAskError 将领域错误映射为 HTTP 状态
func (h *ChatHandler) writeAskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainChat.ErrEmptyUserID), errors.Is(err, domainChat.ErrEmptyQuestion):
		response.Error(c, http.StatusBadRequest, 200001, err.Error())
	case errors.Is(err, domainChat.ErrEngineNotReady):
		response.Error(c, http.StatusServiceUnavailable, 200002, "answer engine is not ready, try again later")
	default:
		h.logger.Error("ask failed", "error", err)
		response.ErrorWithDetail(c, http.StatusInternalServerError, 200003, "ask failed", err.Error())
	}
}

// History 获取用户的会话历史
// GET /api/v1/chat/:user_id/history
func (h *ChatHandler) History(c *gin.Context) {
	userID := c.Param("user_id")

	history, err := h.service.History(userID)
	if err != nil {
		response.Error(c, http.StatusBadRequest, 200001, err.Error())
		return
	}

	response.Success(c, gin.H{
		"user_id": userID,
		"history": history,
		"count":   len(history),
	})
}

// Clear 清空用户历史，会话保持存活
// DELETE /api/v1/chat/:user_id/history
func (h *ChatHandler) Clear(c *gin.Context) {
	userID := c.Param("user_id")

	if err := h.service.Clear(userID); err != nil {
		response.Error(c, http.StatusBadRequest, 200001, err.Error())
		return
	}

	response.Success(c, gin.H{"user_id": userID, "cleared": true})
}

// End 结束并移除用户会话
// DELETE /api/v1/chat/:user_id
func (h *ChatHandler) End(c *gin.Context) {
	userID := c.Param("user_id")

	if err := h.service.End(userID); err != nil {
		response.Error(c, http.StatusBadRequest, 200001, err.Error())
		return
	}

	response.Success(c, gin.H{"user_id": userID, "ended": true})
}

// Ready 问答引擎就绪探测
// GET /ready
func (h *ChatHandler) Ready(c *gin.Context) {
	if !h.service.Ready(c.Request.Context()) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Sessions 当前活跃会话列表
// GET /api/v1/chat/sessions
func (h *ChatHandler) Sessions(c *gin.Context) {
	users := h.service.ActiveSessions()
	response.Success(c, gin.H{
		"user_ids": users,
		"count":    len(users),
	})
}
