package ingest

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"log/slog"

	"github.com/bookchat/backend/internal/domain/events"
	"github.com/bookchat/backend/internal/infrastructure/config"
	"github.com/bookchat/backend/internal/infrastructure/log"
)

// Scheduler 同步调度器
// 串行化同步触发：启动时一次，语料文件变更时一次，可选的定时兜底
type Scheduler struct {
	synchronizer *Synchronizer
	eventBus     events.EventBus
	interval     time.Duration

	syncing  atomic.Bool
	mu       sync.Mutex
	ticker   *time.Ticker
	stopChan chan struct{}
	unsub    func()
	logger   *slog.Logger
}

// NewScheduler 创建同步调度器
func NewScheduler(cfg *config.CorpusConfig, synchronizer *Synchronizer, eventBus events.EventBus) *Scheduler {
	return &Scheduler{
		synchronizer: synchronizer,
		eventBus:     eventBus,
		interval:     time.Duration(cfg.SyncIntervalMin) * time.Minute,
		stopChan:     make(chan struct{}),
		logger:       log.NewModuleLogger("ingest", "scheduler"),
	}
}

// Start 启动调度器
// 订阅语料变更事件，执行一次启动同步
func (s *Scheduler) Start() error {
	s.unsub = s.eventBus.SubscribeMultiple(
		[]events.EventType{
			events.CorpusFileCreated,
			events.CorpusFileModified,
			events.CorpusFileDeleted,
		},
		events.HandlerFunc(func(event events.Event) error {
			s.logger.Info("corpus change detected, triggering sync",
				"event_type", event.Type())
			s.TriggerSync()
			return nil
		}),
	)

	s.mu.Lock()
	if s.interval > 0 {
		s.ticker = time.NewTicker(s.interval)
		go s.runPeriodicSync()
	}
	s.mu.Unlock()

	// 启动同步异步执行，不阻塞服务启动
	s.TriggerSync()

	return nil
}

// Stop 停止调度器
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.stopChan)

	return nil
}

// runPeriodicSync 运行定时同步
func (s *Scheduler) runPeriodicSync() {
	for {
		select {
		case <-s.ticker.C:
			s.TriggerSync()
		case <-s.stopChan:
			return
		}
	}
}

// TriggerSync 触发一次同步
// 已有同步在跑时直接返回 false，保证同一时刻只有一次同步
func (s *Scheduler) TriggerSync() bool {
	if !s.syncing.CompareAndSwap(false, true) {
		s.logger.Debug("sync already in progress, skipping trigger")
		return false
	}

	go func() {
		defer s.syncing.Store(false)

		if _, err := s.synchronizer.Sync(context.Background()); err != nil {
			s.logger.Error("scheduled sync failed", "error", err)
		}
	}()

	return true
}

// Syncing 当前是否有同步在运行
func (s *Scheduler) Syncing() bool {
	return s.syncing.Load()
}
