package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/bookchat/backend/internal/infrastructure/config"
)

// GetDBPath 获取数据库路径
// Windows: %USERPROFILE%\.bookchat\bookchat.db
// macOS/Linux: ~/.bookchat/bookchat.db
func GetDBPath(cfg *config.DatabaseConfig) string {
	if cfg != nil && cfg.Path != "" {
		return cfg.Path
	}
	return filepath.Join(config.GetDataDir(), "bookchat.db")
}

// OpenDB 打开数据库连接并初始化表结构
func OpenDB(dbPath string) (*sql.DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// ProvideDB wire 用的数据库 provider
func ProvideDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	return OpenDB(GetDBPath(cfg))
}

// initSchema 初始化表结构
func initSchema(db *sql.DB) error {
	createRunsSQL := `
	CREATE TABLE IF NOT EXISTS sync_runs (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL DEFAULT 0,
		total_units INTEGER NOT NULL DEFAULT 0,
		new_units INTEGER NOT NULL DEFAULT 0,
		skipped_units INTEGER NOT NULL DEFAULT 0,
		failed_units INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		error TEXT NOT NULL DEFAULT ''
	);`

	if _, err := db.Exec(createRunsSQL); err != nil {
		return fmt.Errorf("failed to create sync_runs table: %w", err)
	}

	createOutcomesSQL := `
	CREATE TABLE IF NOT EXISTS sync_item_outcomes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		unit_id TEXT NOT NULL,
		title TEXT NOT NULL,
		category TEXT NOT NULL,
		outcome TEXT NOT NULL,
		reason TEXT NOT NULL DEFAULT ''
	);`

	if _, err := db.Exec(createOutcomesSQL); err != nil {
		return fmt.Errorf("failed to create sync_item_outcomes table: %w", err)
	}

	createIndexSQL := `
	CREATE INDEX IF NOT EXISTS idx_sync_outcomes_run ON sync_item_outcomes(run_id);
	CREATE INDEX IF NOT EXISTS idx_sync_runs_started ON sync_runs(started_at);`

	if _, err := db.Exec(createIndexSQL); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}
