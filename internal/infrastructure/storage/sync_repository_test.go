package storage

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/bookchat/backend/internal/domain/catalog"
)

// setupTestDB 创建临时测试数据库
func setupTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "sync_test_*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := OpenDB(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.RemoveAll(tmpDir)
	}

	return db, cleanup
}

func newRun(id string) *catalog.SyncRun {
	return &catalog.SyncRun{
		ID:        id,
		StartedAt: time.Now().Unix(),
		Status:    catalog.SyncStatusRunning,
	}
}

func TestSyncRunRepository_SaveAndGet(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewSyncRunRepository(db)

	run := newRun("run-1")
	require.NoError(t, repo.SaveRun(run))

	got, err := repo.GetRun("run-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, catalog.SyncStatusRunning, got.Status)
	assert.Equal(t, run.StartedAt, got.StartedAt)
}

func TestSyncRunRepository_GetMissing(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewSyncRunRepository(db)

	got, err := repo.GetRun("missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSyncRunRepository_Update(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewSyncRunRepository(db)

	run := newRun("run-1")
	require.NoError(t, repo.SaveRun(run))

	run.FinishedAt = run.StartedAt + 3
	run.TotalUnits = 10
	run.NewUnits = 7
	run.SkippedUnits = 2
	run.FailedUnits = 1
	run.Status = catalog.SyncStatusCompleted
	require.NoError(t, repo.UpdateRun(run))

	got, err := repo.GetRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, catalog.SyncStatusCompleted, got.Status)
	assert.Equal(t, 7, got.NewUnits)
	assert.Equal(t, 1, got.FailedUnits)
}

func TestSyncRunRepository_UpdateMissing(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewSyncRunRepository(db)
	err := repo.UpdateRun(newRun("ghost"))
	assert.Error(t, err)
}

func TestSyncRunRepository_ListRuns(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewSyncRunRepository(db)

	older := newRun("run-old")
	older.StartedAt = 100
	newer := newRun("run-new")
	newer.StartedAt = 200
	require.NoError(t, repo.SaveRun(older))
	require.NoError(t, repo.SaveRun(newer))

	runs, err := repo.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-new", runs[0].ID, "应按开始时间倒序")

	limited, err := repo.ListRuns(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSyncRunRepository_Outcomes(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewSyncRunRepository(db)
	require.NoError(t, repo.SaveRun(newRun("run-1")))

	outcomes := []*catalog.SyncItemOutcome{
		{RunID: "run-1", UnitID: "u1", Title: "Sách A", Category: "cat1", Outcome: catalog.OutcomeInserted},
		{RunID: "run-1", UnitID: "u2", Title: "Sách B", Category: "cat1", Outcome: catalog.OutcomeSkipped, Reason: "already indexed"},
		{RunID: "run-1", UnitID: "u3", Title: "Sách C", Category: "cat2", Outcome: catalog.OutcomeFailed, Reason: "embed failed"},
	}
	require.NoError(t, repo.SaveOutcomes(outcomes))

	got, err := repo.GetOutcomes("run-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, catalog.OutcomeInserted, got[0].Outcome)
	assert.Equal(t, "already indexed", got[1].Reason)
	assert.Equal(t, "u3", got[2].UnitID)
}

func TestSyncRunRepository_ClearAll(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewSyncRunRepository(db)
	require.NoError(t, repo.SaveRun(newRun("run-1")))
	require.NoError(t, repo.SaveOutcomes([]*catalog.SyncItemOutcome{
		{RunID: "run-1", UnitID: "u1", Title: "t", Category: "c", Outcome: catalog.OutcomeInserted},
	}))

	require.NoError(t, repo.ClearAll())

	runs, err := repo.ListRuns(10)
	require.NoError(t, err)
	assert.Empty(t, runs)

	outcomes, err := repo.GetOutcomes("run-1")
	require.NoError(t, err)
	assert.Empty(t, outcomes)
}
