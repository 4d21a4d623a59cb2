package infrastructure

import (
	"github.com/bookchat/backend/internal/infrastructure/config"
	"github.com/bookchat/backend/internal/infrastructure/corpus"
	"github.com/bookchat/backend/internal/infrastructure/embedding"
	"github.com/bookchat/backend/internal/infrastructure/llm"
	"github.com/bookchat/backend/internal/infrastructure/storage"
	"github.com/bookchat/backend/internal/infrastructure/vector"
	"github.com/bookchat/backend/internal/infrastructure/watcher"
	"github.com/google/wire"
)

// ProviderSet Infrastructure 层总 ProviderSet
var ProviderSet = wire.NewSet(
	config.ProviderSet,
	corpus.ProviderSet,
	embedding.ProviderSet,
	llm.ProviderSet,
	vector.ProviderSet,
	storage.ProviderSet,
	watcher.ProviderSet,
)
