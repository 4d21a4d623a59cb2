package chat

import (
	"context"
	"fmt"
	"strings"

	"log/slog"

	domainChat "github.com/bookchat/backend/internal/domain/chat"
	"github.com/bookchat/backend/internal/infrastructure/llm"
	"github.com/bookchat/backend/internal/infrastructure/log"
	"github.com/bookchat/backend/internal/infrastructure/vector"
)

// Retriever 书目检索能力
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]vector.ScoredBook, error)
}

// Generator 回答生成能力
type Generator interface {
	Chat(ctx context.Context, messages []llm.Message) (string, error)
	ChatStream(ctx context.Context, messages []llm.Message, onToken llm.TokenCallback) (string, error)
}

// ReadinessProbe 引擎就绪探测
type ReadinessProbe interface {
	Ready(ctx context.Context) bool
}

// Answer 一次提问的完整结果
type Answer struct {
	UserID       string              `json:"user_id"`
	Question     string              `json:"question"`
	Answer       string              `json:"answer"`
	Sources      []vector.ScoredBook `json:"sources"`
	IsNewSession bool                `json:"is_new_session"`
}

// Service 会话式问答服务
// 检索与生成不持有会话锁，历史只在生成成功后落入会话
type Service struct {
	store     *SessionStore
	retriever Retriever
	generator Generator
	probe     ReadinessProbe
	prompts   *PromptBuilder
	logger    *slog.Logger
}

// NewService 创建问答服务
func NewService(
	store *SessionStore,
	retriever Retriever,
	generator Generator,
	probe ReadinessProbe,
	prompts *PromptBuilder,
) *Service {
	return &Service{
		store:     store,
		retriever: retriever,
		generator: generator,
		probe:     probe,
		prompts:   prompts,
		logger:    log.NewModuleLogger("chat", "service"),
	}
}

// validate 校验提问输入
func validate(userID, question string) error {
	if strings.TrimSpace(userID) == "" {
		return domainChat.ErrEmptyUserID
	}
	if strings.TrimSpace(question) == "" {
		return domainChat.ErrEmptyQuestion
	}
	return nil
}

// Ask 提问并返回完整回答
func (s *Service) Ask(ctx context.Context, userID, question string) (*Answer, error) {
	return s.ask(ctx, userID, question, nil)
}

// AskStream 提问并以 token 流返回回答
// onToken 在生成过程中逐片调用，完整回答仍在返回值中
func (s *Service) AskStream(ctx context.Context, userID, question string, onToken llm.TokenCallback) (*Answer, error) {
	return s.ask(ctx, userID, question, onToken)
}

func (s *Service) ask(ctx context.Context, userID, question string, onToken llm.TokenCallback) (*Answer, error) {
	if err := validate(userID, question); err != nil {
		return nil, err
	}
	if !s.probe.Ready(ctx) {
		return nil, domainChat.ErrEngineNotReady
	}

	// 历史快照在锁内取出，模型调用期间不持锁
	history, created := s.store.Snapshot(userID)

	books, err := s.retriever.Retrieve(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("retrieve failed: %w", err)
	}

	messages := s.prompts.Build(question, books, history)

	var answer string
	if onToken != nil {
		answer, err = s.generator.ChatStream(ctx, messages, onToken)
	} else {
		answer, err = s.generator.Chat(ctx, messages)
	}
	if err != nil {
		// 生成失败的轮次不进入历史
		return nil, fmt.Errorf("generate failed: %w", err)
	}

	s.store.Append(userID, question, answer)

	s.logger.Info("question answered",
		slog.String("user_id", userID),
		slog.Int("sources", len(books)),
		slog.Int("history_len", len(history)))

	return &Answer{
		UserID:       userID,
		Question:     question,
		Answer:       answer,
		Sources:      books,
		IsNewSession: created,
	}, nil
}

// History 获取用户的会话历史
func (s *Service) History(userID string) ([]domainChat.QAPair, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domainChat.ErrEmptyUserID
	}
	history, ok := s.store.History(userID)
	if !ok {
		return []domainChat.QAPair{}, nil
	}
	return history, nil
}

// Clear 清空用户历史，会话保持存活
func (s *Service) Clear(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return domainChat.ErrEmptyUserID
	}
	s.store.Clear(userID)
	return nil
}

// End 结束并移除用户会话
func (s *Service) End(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return domainChat.ErrEmptyUserID
	}
	s.store.Delete(userID)
	return nil
}

// ActiveSessions 当前活跃会话的用户列表
func (s *Service) ActiveSessions() []string {
	return s.store.ActiveUserIDs()
}

// Ready 问答引擎是否就绪
func (s *Service) Ready(ctx context.Context) bool {
	return s.probe.Ready(ctx)
}
