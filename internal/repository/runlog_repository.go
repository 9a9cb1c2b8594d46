package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/minhlq/boxoffice-etl/internal/model"
)

// RunLogRepo encapsulates access to the `etl_log` table in the control
// database.  The table is append-only: one row per captured log line per
// run, never updated or deleted by this system.
type RunLogRepo struct {
	db *sql.DB
}

// NewRunLogRepo constructs a RunLogRepo with the provided DB handle.
func NewRunLogRepo(db *sql.DB) *RunLogRepo {
	return &RunLogRepo{db: db}
}

// EnsureTable creates the etl_log table if it does not exist yet, so the
// first run against a fresh control database can still persist its log.
func (r *RunLogRepo) EnsureTable(ctx context.Context) error {
	const q = `CREATE TABLE IF NOT EXISTS etl_log (
		id INT AUTO_INCREMENT PRIMARY KEY,
		log_time DATETIME,
		log_level VARCHAR(20),
		message TEXT,
		source_file VARCHAR(255),
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`
	_, err := r.db.ExecContext(ctx, q)
	return err
}

// Append inserts all captured entries of a run as one batch.
func (r *RunLogRepo) Append(ctx context.Context, entries []model.RunLogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	placeholders := make([]string, 0, len(entries))
	args := make([]interface{}, 0, len(entries)*4)
	for _, e := range entries {
		placeholders = append(placeholders, "(?, ?, ?, ?)")
		args = append(args, e.LogTime, e.LogLevel, e.Message, e.SourceFile)
	}
	q := "INSERT INTO etl_log (log_time, log_level, message, source_file) VALUES " +
		strings.Join(placeholders, ",")
	_, err := r.db.ExecContext(ctx, q, args...)
	return err
}
