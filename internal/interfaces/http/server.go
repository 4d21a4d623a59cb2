package http

import (
	"context"
	"net/http"
	"time"

	"log/slog"

	"github.com/bookchat/backend/internal/infrastructure/config"
	"github.com/bookchat/backend/internal/infrastructure/log"
	"github.com/bookchat/backend/internal/interfaces/http/handler"
	"github.com/bookchat/backend/internal/interfaces/mcp"
	"github.com/gin-gonic/gin"
)

// HTTPServer HTTP 服务器
type HTTPServer struct {
	router   *gin.Engine
	httpPort string
	server   *http.Server
	logger   *slog.Logger
}

// NewServer 创建 HTTP 服务器
func NewServer(
	cfg *config.ServerConfig,
	chatHandler *handler.ChatHandler,
	streamHandler *handler.StreamHandler,
	syncHandler *handler.SyncHandler,
	mcpServer *mcp.MCPServer,
) *HTTPServer {
	router := gin.Default()

	logger := log.NewModuleLogger("http", "server")

	// 注册路由
	api := router.Group("/api/v1")
	{
		// 问答相关路由
		chat := api.Group("/chat")
		{
			chat.POST("/ask", chatHandler.Ask)
			chat.GET("/stream", streamHandler.Stream)
			chat.GET("/sessions", chatHandler.Sessions)
			chat.GET("/:user_id/history", chatHandler.History)
			chat.DELETE("/:user_id/history", chatHandler.Clear)
			chat.DELETE("/:user_id", chatHandler.End)
		}

		// 同步相关路由
		sync := api.Group("/sync")
		{
			sync.POST("", syncHandler.Trigger)
			sync.GET("/status", syncHandler.Status)
			sync.GET("/runs", syncHandler.ListRuns)
			sync.GET("/runs/:run_id", syncHandler.GetRun)
		}
	}

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/ready", chatHandler.Ready)

	// MCP SSE 端点
	if mcpServer != nil {
		router.Any("/mcp/sse", gin.WrapH(mcpServer.GetHandler()))
	}

	return &HTTPServer{
		router:   router,
		httpPort: cfg.HTTPPort,
		logger:   logger,
	}
}

// Start 启动服务器
func (s *HTTPServer) Start() error {
	s.server = &http.Server{
		Addr:    s.httpPort,
		Handler: s.router,
	}

	s.logger.Info("HTTP server starting",
		"port", s.httpPort,
	)

	return s.server.ListenAndServe()
}

// Shutdown 优雅关闭
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Stop 停止服务器
func (s *HTTPServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(ctx)
}
