package watcher

import (
	"github.com/bookchat/backend/internal/domain/events"
	"github.com/bookchat/backend/internal/infrastructure/config"
	"github.com/google/wire"
)

// ProvideEventBus 提供事件总线实例
func ProvideEventBus() events.EventBus {
	return NewEventBus()
}

// ProvideCorpusWatcher 提供语料监听器实例
func ProvideCorpusWatcher(cfg *config.CorpusConfig, eventBus events.EventBus) (*CorpusWatcher, error) {
	return NewCorpusWatcher(NewWatchConfig(cfg), eventBus)
}

// ProviderSet 语料监听 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideEventBus,
	ProvideCorpusWatcher,
)
