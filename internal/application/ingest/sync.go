package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/bookchat/backend/internal/domain/catalog"
	"github.com/bookchat/backend/internal/domain/events"
	"github.com/bookchat/backend/internal/infrastructure/log"
	"github.com/bookchat/backend/internal/infrastructure/vector"
)

// CorpusLoader 语料加载能力
type CorpusLoader interface {
	Load() ([]catalog.Document, error)
}

// IndexStore 向量索引能力
type IndexStore interface {
	ExistingIDs(ctx context.Context) (map[string]struct{}, error)
	Upsert(ctx context.Context, docs []catalog.Document, vectors [][]float32) error
}

// TextEmbedder 批量向量化能力
type TextEmbedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Synchronizer 语料到向量索引的同步器
// 以内容单元 ID 的索引成员关系为准：只有不在索引中的单元才会被向量化写入
type Synchronizer struct {
	loader   CorpusLoader
	store    IndexStore
	embedder TextEmbedder
	repo     catalog.SyncRunRepository
	eventBus events.EventBus
	logger   *slog.Logger
}

// NewSynchronizer 创建同步器
func NewSynchronizer(
	loader CorpusLoader,
	store IndexStore,
	embedder TextEmbedder,
	repo catalog.SyncRunRepository,
	eventBus events.EventBus,
) *Synchronizer {
	return &Synchronizer{
		loader:   loader,
		store:    store,
		embedder: embedder,
		repo:     repo,
		eventBus: eventBus,
		logger:   log.NewModuleLogger("ingest", "synchronizer"),
	}
}

// Sync 执行一次全量同步
// 整体语料读取失败或索引不可用时中止，不产生半份索引
func (s *Synchronizer) Sync(ctx context.Context) (*catalog.SyncRun, error) {
	run := &catalog.SyncRun{
		ID:        uuid.NewString(),
		StartedAt: time.Now().Unix(),
		Status:    catalog.SyncStatusRunning,
	}
	if err := s.repo.SaveRun(run); err != nil {
		return nil, fmt.Errorf("failed to save sync run: %w", err)
	}

	s.logger.Info("sync started", slog.String("run_id", run.ID))

	outcomes, err := s.doSync(ctx, run)

	run.FinishedAt = time.Now().Unix()
	if err != nil {
		run.Status = catalog.SyncStatusFailed
		run.Error = err.Error()
	} else {
		run.Status = catalog.SyncStatusCompleted
	}

	if saveErr := s.repo.SaveOutcomes(outcomes); saveErr != nil {
		s.logger.Error("failed to save sync outcomes", "error", saveErr)
	}
	if updateErr := s.repo.UpdateRun(run); updateErr != nil {
		s.logger.Error("failed to update sync run", "error", updateErr)
	}

	if err != nil {
		s.logger.Error("sync failed",
			slog.String("run_id", run.ID),
			slog.Any("error", err))
		return run, err
	}

	s.logger.Info("sync completed",
		slog.String("run_id", run.ID),
		slog.Int("total", run.TotalUnits),
		slog.Int("new", run.NewUnits),
		slog.Int("skipped", run.SkippedUnits),
		slog.Int("failed", run.FailedUnits))

	if s.eventBus != nil {
		s.eventBus.Publish(&events.SyncCompletedEvent{
			RunID:       run.ID,
			NewUnits:    run.NewUnits,
			FailedUnits: run.FailedUnits,
			EventTime:   time.Now(),
		})
	}

	return run, nil
}

// doSync 同步主流程，填充 run 的统计字段
func (s *Synchronizer) doSync(ctx context.Context, run *catalog.SyncRun) ([]*catalog.SyncItemOutcome, error) {
	docs, err := s.loader.Load()
	if err != nil {
		return nil, err
	}
	run.TotalUnits = len(docs)

	existing, err := s.store.ExistingIDs(ctx)
	if err != nil {
		return nil, err
	}

	var outcomes []*catalog.SyncItemOutcome
	var fresh []catalog.Document

	for _, doc := range docs {
		if _, ok := existing[doc.ID]; ok {
			run.SkippedUnits++
			outcomes = append(outcomes, &catalog.SyncItemOutcome{
				RunID:    run.ID,
				UnitID:   doc.ID,
				Title:    doc.Meta.Title,
				Category: doc.Meta.Category,
				Outcome:  catalog.OutcomeSkipped,
				Reason:   "already indexed",
			})
			continue
		}
		fresh = append(fresh, doc)
	}

	if len(fresh) == 0 {
		return outcomes, nil
	}

	texts := make([]string, len(fresh))
	for i, doc := range fresh {
		texts[i] = doc.Text
	}

	vectors, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		for _, doc := range fresh {
			run.FailedUnits++
			outcomes = append(outcomes, s.failedOutcome(run.ID, doc, "embedding failed"))
		}
		return outcomes, fmt.Errorf("failed to embed %d units: %w", len(fresh), err)
	}
	if len(vectors) != len(fresh) {
		return outcomes, fmt.Errorf("embedding count mismatch: %d vs %d", len(vectors), len(fresh))
	}

	// 新增单元一次性写入，保证要么全部入索引要么完全不入
	if err := s.store.Upsert(ctx, fresh, vectors); err != nil {
		for _, doc := range fresh {
			run.FailedUnits++
			outcomes = append(outcomes, s.failedOutcome(run.ID, doc, "index write failed"))
		}
		if errors.Is(err, catalog.ErrIndexUnavailable) {
			return outcomes, err
		}
		return outcomes, fmt.Errorf("%w: %v", catalog.ErrIndexUnavailable, err)
	}

	for _, doc := range fresh {
		run.NewUnits++
		outcomes = append(outcomes, &catalog.SyncItemOutcome{
			RunID:    run.ID,
			UnitID:   doc.ID,
			Title:    doc.Meta.Title,
			Category: doc.Meta.Category,
			Outcome:  catalog.OutcomeInserted,
		})
	}

	return outcomes, nil
}

func (s *Synchronizer) failedOutcome(runID string, doc catalog.Document, reason string) *catalog.SyncItemOutcome {
	return &catalog.SyncItemOutcome{
		RunID:    runID,
		UnitID:   doc.ID,
		Title:    doc.Meta.Title,
		Category: doc.Meta.Category,
		Outcome:  catalog.OutcomeFailed,
		Reason:   reason,
	}
}

// 确保 vector.Store 满足索引写入接口
var _ IndexStore = (*vector.Store)(nil)
