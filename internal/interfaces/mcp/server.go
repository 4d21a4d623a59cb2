package mcp

import (
	"net/http"

	appChat "github.com/bookchat/backend/internal/application/chat"
	"github.com/bookchat/backend/internal/application/ingest"
	"github.com/bookchat/backend/internal/application/retrieval"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPServer MCP 服务器
type MCPServer struct {
	server      *mcp.Server
	handler     http.Handler
	retriever   *retrieval.Retriever
	chatService *appChat.Service
	scheduler   *ingest.Scheduler
}

// NewServer 创建 MCP 服务器
func NewServer(
	retriever *retrieval.Retriever,
	chatService *appChat.Service,
	scheduler *ingest.Scheduler,
) *MCPServer {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "bookchat-backend",
			Version: "0.1.0",
		},
		nil, // 使用默认能力
	)

	mcpServer := &MCPServer{
		server:      server,
		retriever:   retriever,
		chatService: chatService,
		scheduler:   scheduler,
	}

	// 注册工具：search_books
	mcp.AddTool(server, &mcp.Tool{
		Name: "search_books",
		Description: `Search the Vietnamese book catalogue by semantic similarity.
Parameters:
- query (string, required): Natural language description of the books you are looking for, e.g., "sách về kỹ năng giao tiếp"

Returns: List of matching books with title, genre, category, link, and popularity counters.`,
	}, mcpServer.searchBooksTool)

	// 注册工具：ask_librarian
	mcp.AddTool(server, &mcp.Tool{
		Name: "ask_librarian",
		Description: `Ask the librarian assistant a question about the book catalogue. Keeps per-user conversation history, so follow-up questions work.
Parameters:
- user_id (string, required): Stable identifier of the conversation owner
- question (string, required): The question, in Vietnamese or English

Returns: The assistant's answer plus the books it was grounded on.`,
	}, mcpServer.askLibrarianTool)

	// 注册工具：trigger_sync
	mcp.AddTool(server, &mcp.Tool{
		Name:        "trigger_sync",
		Description: "Trigger a corpus-to-index synchronization run. Returns triggered=false if a run is already in progress. No parameters required.",
	}, mcpServer.triggerSyncTool)

	handler := mcp.NewSSEHandler(
		func(r *http.Request) *mcp.Server {
			// 每个请求返回同一个服务器实例
			return server
		},
		nil, // SSEOptions，使用默认值
	)

	mcpServer.handler = handler
	return mcpServer
}

// GetHandler 获取 HTTP Handler（用于集成到 HTTP 服务器）
func (s *MCPServer) GetHandler() http.Handler {
	return s.handler
}
