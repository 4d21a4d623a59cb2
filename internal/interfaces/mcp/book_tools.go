package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchBooksInput 书目检索工具输入
type SearchBooksInput struct {
	Query string `json:"query" jsonschema:"Natural language description of the books to find (required)"`
}

// BookResult 单条书目结果
type BookResult struct {
	Title     string  `json:"title" jsonschema:"Book title"`
	Genre     string  `json:"genre" jsonschema:"Book genre"`
	Category  string  `json:"category" jsonschema:"Catalogue category the book was scraped under"`
	URL       string  `json:"url,omitempty" jsonschema:"Catalogue page link"`
	Views     int     `json:"views" jsonschema:"View counter from the catalogue"`
	Downloads int     `json:"downloads" jsonschema:"Download counter from the catalogue"`
	Score     float32 `json:"score" jsonschema:"Similarity score after re-ranking"`
}

// SearchBooksOutput 书目检索工具输出
type SearchBooksOutput struct {
	Results    []*BookResult `json:"results" jsonschema:"List of matching books"`
	TotalCount int           `json:"total_count" jsonschema:"Number of results returned"`
}

// searchBooksTool 书目检索工具实现
func (s *MCPServer) searchBooksTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input SearchBooksInput,
) (*mcp.CallToolResult, SearchBooksOutput, error) {
	output := SearchBooksOutput{Results: []*BookResult{}}

	if input.Query == "" {
		return nil, output, fmt.Errorf("query is required")
	}

	books, err := s.retriever.Retrieve(ctx, input.Query)
	if err != nil {
		return nil, output, fmt.Errorf("search failed: %w", err)
	}

	for _, book := range books {
		output.Results = append(output.Results, &BookResult{
			Title:     book.Meta.Title,
			Genre:     book.Meta.Genre,
			Category:  book.Meta.Category,
			URL:       book.Meta.URL,
			Views:     book.Meta.Views,
			Downloads: book.Meta.Downloads,
			Score:     book.Score,
		})
	}
	output.TotalCount = len(output.Results)

	return nil, output, nil
}

// AskLibrarianInput 馆员问答工具输入
type AskLibrarianInput struct {
	UserID   string `json:"user_id" jsonschema:"Stable identifier of the conversation owner (required)"`
	Question string `json:"question" jsonschema:"The question to ask (required)"`
}

// AskLibrarianOutput 馆员问答工具输出
type AskLibrarianOutput struct {
	Answer  string        `json:"answer" jsonschema:"The assistant's answer"`
	Sources []*BookResult `json:"sources" jsonschema:"Books the answer was grounded on"`
}

// askLibrarianTool 馆员问答工具实现
func (s *MCPServer) askLibrarianTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input AskLibrarianInput,
) (*mcp.CallToolResult, AskLibrarianOutput, error) {
	output := AskLibrarianOutput{Sources: []*BookResult{}}

	answer, err := s.chatService.Ask(ctx, input.UserID, input.Question)
	if err != nil {
		return nil, output, err
	}

	output.Answer = answer.Answer
	for _, book := range answer.Sources {
		output.Sources = append(output.Sources, &BookResult{
			Title:     book.Meta.Title,
			Genre:     book.Meta.Genre,
			Category:  book.Meta.Category,
			URL:       book.Meta.URL,
			Views:     book.Meta.Views,
			Downloads: book.Meta.Downloads,
			Score:     book.Score,
		})
	}

	return nil, output, nil
}

// TriggerSyncInput 同步触发工具输入（无参数）
type TriggerSyncInput struct{}

// TriggerSyncOutput 同步触发工具输出
type TriggerSyncOutput struct {
	Triggered bool `json:"triggered" jsonschema:"Whether a new sync run was started"`
	Syncing   bool `json:"syncing" jsonschema:"Whether a sync run is currently in progress"`
}

// triggerSyncTool 同步触发工具实现
func (s *MCPServer) triggerSyncTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input TriggerSyncInput,
) (*mcp.CallToolResult, TriggerSyncOutput, error) {
	triggered := s.scheduler.TriggerSync()
	return nil, TriggerSyncOutput{
		Triggered: triggered,
		Syncing:   s.scheduler.Syncing(),
	}, nil
}
