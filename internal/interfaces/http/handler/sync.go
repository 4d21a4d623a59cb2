package handler

import (
	"context"
	"net/http"
	"strconv"

	"log/slog"

	"github.com/bookchat/backend/internal/application/ingest"
	"github.com/bookchat/backend/internal/domain/catalog"
	"github.com/bookchat/backend/internal/infrastructure/log"
	"github.com/bookchat/backend/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
)

// IndexCounter 索引规模查询能力
type IndexCounter interface {
	Count(ctx context.Context) (uint64, error)
}

// SyncHandler 语料同步处理器
type SyncHandler struct {
	scheduler *ingest.Scheduler
	runRepo   catalog.SyncRunRepository
	counter   IndexCounter
	logger    *slog.Logger
}

// NewSyncHandler 创建同步处理器
func NewSyncHandler(scheduler *ingest.Scheduler, runRepo catalog.SyncRunRepository, counter IndexCounter) *SyncHandler {
	return &SyncHandler{
		scheduler: scheduler,
		runRepo:   runRepo,
		counter:   counter,
		logger:    log.NewModuleLogger("ingest", "handler"),
	}
}

// Trigger 触发一次语料同步
// 已有同步在跑时返回 triggered=false，不排队
// POST /api/v1/sync
func (h *SyncHandler) Trigger(c *gin.Context) {
	triggered := h.scheduler.TriggerSync()
	response.Success(c, gin.H{"triggered": triggered})
}

// Status 当前同步状态与索引规模
// GET /api/v1/sync/status
func (h *SyncHandler) Status(c *gin.Context) {
	status := gin.H{"syncing": h.scheduler.Syncing()}

	count, err := h.counter.Count(c.Request.Context())
	if err != nil {
		status["indexed_units"] = nil
	} else {
		status["indexed_units"] = count
	}

	response.Success(c, status)
}

// ListRuns 最近的同步运行记录
// GET /api/v1/sync/runs?limit=20
func (h *SyncHandler) ListRuns(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.Error(c, http.StatusBadRequest, 300001, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	runs, err := h.runRepo.ListRuns(limit)
	if err != nil {
		h.logger.Error("failed to list sync runs", "error", err)
		response.Error(c, http.StatusInternalServerError, 300002, "failed to list sync runs")
		return
	}

	response.Success(c, gin.H{"runs": runs, "count": len(runs)})
}

// GetRun 单次运行详情，含逐条处理结果
// GET /api/v1/sync/runs/:run_id
func (h *SyncHandler) GetRun(c *gin.Context) {
	runID := c.Param("run_id")

	run, err := h.runRepo.GetRun(runID)
	if err != nil {
		h.logger.Error("failed to get sync run", "run_id", runID, "error", err)
		response.Error(c, http.StatusInternalServerError, 300002, "failed to get sync run")
		return
	}
	if run == nil {
		response.Error(c, http.StatusNotFound, 300003, "sync run not found")
		return
	}

	outcomes, err := h.runRepo.GetOutcomes(runID)
	if err != nil {
		h.logger.Error("failed to get sync outcomes", "run_id", runID, "error", err)
		response.Error(c, http.StatusInternalServerError, 300002, "failed to get sync outcomes")
		return
	}

	response.Success(c, gin.H{"run": run, "outcomes": outcomes})
}
