package retrieval

import (
	"github.com/google/wire"

	"github.com/bookchat/backend/internal/infrastructure/config"
	"github.com/bookchat/backend/internal/infrastructure/embedding"
	"github.com/bookchat/backend/internal/infrastructure/vector"
)

// ProvideRetriever 绑定具体的向量库与嵌入客户端
func ProvideRetriever(cfg *config.Config, store *vector.Store, embedder *embedding.Client) *Retriever {
	return NewRetriever(cfg, store, embedder)
}

// ProviderSet 检索应用层 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideRetriever,
)
