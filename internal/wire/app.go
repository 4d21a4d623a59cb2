package wire

import (
	"context"
	"database/sql"
	"time"

	"log/slog"

	"github.com/bookchat/backend/internal/application/ingest"
	"github.com/bookchat/backend/internal/domain/events"
	applog "github.com/bookchat/backend/internal/infrastructure/log"
	"github.com/bookchat/backend/internal/infrastructure/vector"
	"github.com/bookchat/backend/internal/infrastructure/watcher"
	"github.com/bookchat/backend/internal/interfaces"
)

// App 应用主结构，组合所有服务
type App struct {
	HTTPServer *interfaces.HTTPServer
	MCPServer  *interfaces.MCPServer

	vectorStore   *vector.Store
	scheduler     *ingest.Scheduler
	corpusWatcher *watcher.CorpusWatcher
	eventBus      events.EventBus
	db            *sql.DB
	logger        *slog.Logger
}

// NewApp 创建应用实例
func NewApp(
	httpServer *interfaces.HTTPServer,
	mcpServer *interfaces.MCPServer,
	vectorStore *vector.Store,
	scheduler *ingest.Scheduler,
	corpusWatcher *watcher.CorpusWatcher,
	eventBus events.EventBus,
	db *sql.DB,
) *App {
	return &App{
		HTTPServer:    httpServer,
		MCPServer:     mcpServer,
		vectorStore:   vectorStore,
		scheduler:     scheduler,
		corpusWatcher: corpusWatcher,
		eventBus:      eventBus,
		db:            db,
		logger:        applog.NewModuleLogger("app", "main"),
	}
}

// Start 启动所有服务
func (a *App) Start() error {
	a.logger.Info("Starting bookchat backend application")

	// 连接向量库
	// 连接失败不致命：/ready 会反映状态，同步与问答在恢复前返回不可用
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.vectorStore.Connect(ctx); err != nil {
		a.logger.Error("Failed to connect vector store, continuing degraded",
			"error", err,
		)
	}

	// 启动同步调度器（订阅语料事件并执行启动同步）
	if err := a.scheduler.Start(); err != nil {
		a.logger.Error("Failed to start sync scheduler",
			"error", err,
		)
	}

	// 启动语料目录监听
	if a.corpusWatcher != nil {
		if err := a.corpusWatcher.Start(); err != nil {
			a.logger.Error("Failed to start corpus watcher",
				"error", err,
			)
		} else {
			a.logger.Info("Corpus watcher started successfully")
		}
	}

	// 启动 HTTP 服务器（goroutine）
	go func() {
		if err := a.HTTPServer.Start(); err != nil {
			a.logger.Error("Failed to start HTTP server",
				"error", err,
			)
		}
	}()

	a.logger.Info("Bookchat backend application started successfully")

	// MCP 服务器通过 HTTP Handler 提供服务，不需要单独启动
	// 已在 HTTP 服务器中注册 /mcp/sse 端点

	return nil
}

// Stop 停止所有服务
func (a *App) Stop() error {
	a.logger.Info("Stopping bookchat backend application")

	// 停止语料监听器
	if a.corpusWatcher != nil {
		a.corpusWatcher.Stop()
		a.logger.Info("Corpus watcher stopped")
	}

	// 停止同步调度器
	if err := a.scheduler.Stop(); err != nil {
		a.logger.Error("Failed to stop sync scheduler",
			"error", err,
		)
	}

	// 关闭事件总线
	if a.eventBus != nil {
		a.eventBus.Close()
		a.logger.Info("Event bus closed")
	}

	if err := a.HTTPServer.Stop(); err != nil {
		a.logger.Error("Failed to stop HTTP server",
			"error", err,
		)
		return err
	}

	// 关闭向量库连接
	if err := a.vectorStore.Close(); err != nil {
		a.logger.Error("Failed to close vector store",
			"error", err,
		)
	}

	// 关闭数据库连接
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("Failed to close database connection",
				"error", err,
			)
			return err
		}
	}

	a.logger.Info("Bookchat backend application stopped successfully")

	return nil
}
