package ingest

import (
	"github.com/google/wire"

	"github.com/bookchat/backend/internal/domain/catalog"
	"github.com/bookchat/backend/internal/domain/events"
	"github.com/bookchat/backend/internal/infrastructure/corpus"
	"github.com/bookchat/backend/internal/infrastructure/embedding"
	"github.com/bookchat/backend/internal/infrastructure/vector"
)

// ProvideSynchronizer 绑定具体的加载器、向量库与嵌入客户端
func ProvideSynchronizer(
	loader *corpus.Loader,
	store *vector.Store,
	embedder *embedding.Client,
	repo catalog.SyncRunRepository,
	eventBus events.EventBus,
) *Synchronizer {
	return NewSynchronizer(loader, store, embedder, repo, eventBus)
}

// ProviderSet 同步应用层 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideSynchronizer,
	NewScheduler,
)
