package catalog

// SyncRun 一次语料同步的运行记录
type SyncRun struct {
	ID           string // UUID
	StartedAt    int64
	FinishedAt   int64
	TotalUnits   int
	NewUnits     int
	SkippedUnits int
	FailedUnits  int
	Status       string // running/completed/failed
	Error        string
}

// SyncItemOutcome 单个内容单元的结构化处理结果
// 让调用方能区分「没有新条目」和「每个条目都失败了」
type SyncItemOutcome struct {
	RunID    string
	UnitID   string
	Title    string
	Category string
	Outcome  string // inserted/skipped/failed
	Reason   string
}

// 同步状态常量
const (
	SyncStatusRunning   = "running"
	SyncStatusCompleted = "completed"
	SyncStatusFailed    = "failed"
)

// 单元处理结果常量
const (
	OutcomeInserted = "inserted"
	OutcomeSkipped  = "skipped"
	OutcomeFailed   = "failed"
)

// SyncRunRepository 同步运行记录仓库接口
type SyncRunRepository interface {
	SaveRun(run *SyncRun) error
	UpdateRun(run *SyncRun) error
	GetRun(runID string) (*SyncRun, error)
	ListRuns(limit int) ([]*SyncRun, error)

	SaveOutcomes(outcomes []*SyncItemOutcome) error
	GetOutcomes(runID string) ([]*SyncItemOutcome, error)

	ClearAll() error
}
