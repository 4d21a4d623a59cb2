package storage

import (
	"database/sql"
	"fmt"

	"github.com/bookchat/backend/internal/domain/catalog"
)

// 确保 SyncRunRepositoryImpl 实现了 catalog.SyncRunRepository 接口
var _ catalog.SyncRunRepository = (*SyncRunRepositoryImpl)(nil)

// SyncRunRepositoryImpl 同步运行记录仓库实现
type SyncRunRepositoryImpl struct {
	db *sql.DB
}

// NewSyncRunRepository 创建同步运行记录仓库实例
func NewSyncRunRepository(db *sql.DB) catalog.SyncRunRepository {
	return &SyncRunRepositoryImpl{db: db}
}

// SaveRun 保存运行记录
func (r *SyncRunRepositoryImpl) SaveRun(run *catalog.SyncRun) error {
	query := `
		INSERT INTO sync_runs (
			id, started_at, finished_at, total_units,
			new_units, skipped_units, failed_units, status, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.Exec(
		query,
		run.ID,
		run.StartedAt,
		run.FinishedAt,
		run.TotalUnits,
		run.NewUnits,
		run.SkippedUnits,
		run.FailedUnits,
		run.Status,
		run.Error,
	)
	return err
}

// UpdateRun 更新运行记录
func (r *SyncRunRepositoryImpl) UpdateRun(run *catalog.SyncRun) error {
	query := `
		UPDATE sync_runs SET
			finished_at = ?, total_units = ?, new_units = ?,
			skipped_units = ?, failed_units = ?, status = ?, error = ?
		WHERE id = ?`

	result, err := r.db.Exec(
		query,
		run.FinishedAt,
		run.TotalUnits,
		run.NewUnits,
		run.SkippedUnits,
		run.FailedUnits,
		run.Status,
		run.Error,
		run.ID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("sync run not found: %s", run.ID)
	}
	return nil
}

// GetRun 获取单条运行记录
func (r *SyncRunRepositoryImpl) GetRun(runID string) (*catalog.SyncRun, error) {
	query := `
		SELECT id, started_at, finished_at, total_units,
		       new_units, skipped_units, failed_units, status, error
		FROM sync_runs
		WHERE id = ?`

	var run catalog.SyncRun
	err := r.db.QueryRow(query, runID).Scan(
		&run.ID,
		&run.StartedAt,
		&run.FinishedAt,
		&run.TotalUnits,
		&run.NewUnits,
		&run.SkippedUnits,
		&run.FailedUnits,
		&run.Status,
		&run.Error,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns 按开始时间倒序列出运行记录
func (r *SyncRunRepositoryImpl) ListRuns(limit int) ([]*catalog.SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, started_at, finished_at, total_units,
		       new_units, skipped_units, failed_units, status, error
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT ?`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*catalog.SyncRun
	for rows.Next() {
		var run catalog.SyncRun
		err := rows.Scan(
			&run.ID,
			&run.StartedAt,
			&run.FinishedAt,
			&run.TotalUnits,
			&run.NewUnits,
			&run.SkippedUnits,
			&run.FailedUnits,
			&run.Status,
			&run.Error,
		)
		if err != nil {
			return nil, err
		}
		results = append(results, &run)
	}

	return results, rows.Err()
}

// SaveOutcomes 批量保存单元处理结果
func (r *SyncRunRepositoryImpl) SaveOutcomes(outcomes []*catalog.SyncItemOutcome) error {
	if len(outcomes) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO sync_item_outcomes (run_id, unit_id, title, category, outcome, reason)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, o := range outcomes {
		if _, err := stmt.Exec(o.RunID, o.UnitID, o.Title, o.Category, o.Outcome, o.Reason); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetOutcomes 获取一次运行的全部单元处理结果
func (r *SyncRunRepositoryImpl) GetOutcomes(runID string) ([]*catalog.SyncItemOutcome, error) {
	query := `
		SELECT run_id, unit_id, title, category, outcome, reason
		FROM sync_item_outcomes
		WHERE run_id = ?
		ORDER BY id`

	rows, err := r.db.Query(query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*catalog.SyncItemOutcome
	for rows.Next() {
		var o catalog.SyncItemOutcome
		err := rows.Scan(&o.RunID, &o.UnitID, &o.Title, &o.Category, &o.Outcome, &o.Reason)
		if err != nil {
			return nil, err
		}
		results = append(results, &o)
	}

	return results, rows.Err()
}

// ClearAll 清空全部同步记录
func (r *SyncRunRepositoryImpl) ClearAll() error {
	if _, err := r.db.Exec("DELETE FROM sync_item_outcomes"); err != nil {
		return err
	}
	_, err := r.db.Exec("DELETE FROM sync_runs")
	return err
}
