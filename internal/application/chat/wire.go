package chat

import (
	"github.com/google/wire"

	"github.com/bookchat/backend/internal/application/retrieval"
	"github.com/bookchat/backend/internal/infrastructure/config"
	"github.com/bookchat/backend/internal/infrastructure/llm"
	"github.com/bookchat/backend/internal/infrastructure/vector"
)

// ProvideSessionStore 按配置的窗口大小创建会话存储
func ProvideSessionStore(cfg *config.Config) *SessionStore {
	return NewSessionStore(cfg.Chat.WindowSize)
}

// ProvidePromptBuilder 按配置的 token 预算创建提示词组装器
func ProvidePromptBuilder(cfg *config.Config) *PromptBuilder {
	return NewPromptBuilder(cfg.Chat.MaxPromptTokens)
}

// ProvideService 绑定具体的检索门面、LLM 客户端与向量库就绪探测
func ProvideService(
	store *SessionStore,
	retriever *retrieval.Retriever,
	generator *llm.Client,
	probe *vector.Store,
	prompts *PromptBuilder,
) *Service {
	return NewService(store, retriever, generator, probe, prompts)
}

// ProviderSet 问答应用层 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideSessionStore,
	ProvidePromptBuilder,
	ProvideService,
)
