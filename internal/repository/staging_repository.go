// Package repository contains data access logic for the four logical
// MySQL databases, separated from the ETL stage logic.  Each repository
// wraps a *sql.DB opened against one database and exposes only the
// operations its stage needs.
package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/minhlq/boxoffice-etl/internal/model"
)

// StagingRepo encapsulates access to the `stg_boxoffice_raw` landing
// table.  The table holds at most one generation of raw data: every load
// truncates before inserting.  The extract stage writes it, the transform
// stage reads it; nothing else touches it.
type StagingRepo struct {
	db *sql.DB
}

// NewStagingRepo constructs a StagingRepo with the provided DB handle.
func NewStagingRepo(db *sql.DB) *StagingRepo {
	return &StagingRepo{db: db}
}

// Replace truncates the staging table and inserts the given rows as a
// single batch.  TRUNCATE commits implicitly in MySQL, so the two steps
// cannot share a transaction; the pipeline is the table's only writer.
func (r *StagingRepo) Replace(ctx context.Context, rows []model.RawRecord) error {
	if _, err := r.db.ExecContext(ctx, "TRUNCATE TABLE stg_boxoffice_raw"); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	placeholders := make([]string, 0, len(rows))
	args := make([]interface{}, 0, len(rows)*6)
	for _, row := range rows {
		placeholders = append(placeholders, "(?, ?, ?, ?, ?, ?)")
		args = append(args, row.FilmName, row.RevenueRaw, row.TicketsRaw,
			row.ShowtimesRaw, row.ScrapedDate, row.Source)
	}
	q := "INSERT INTO stg_boxoffice_raw (film_name, revenue_raw, tickets_raw, showtimes_raw, scraped_date, source) VALUES " +
		strings.Join(placeholders, ",")
	_, err := r.db.ExecContext(ctx, q, args...)
	return err
}

// FetchAll returns the full current contents of the staging table.  No
// filtering is applied: staging always holds exactly one generation.
func (r *StagingRepo) FetchAll(ctx context.Context) ([]model.RawRecord, error) {
	const q = `SELECT film_name, revenue_raw, tickets_raw, showtimes_raw, scraped_date, source
	           FROM stg_boxoffice_raw`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RawRecord
	for rows.Next() {
		var rec model.RawRecord
		if err := rows.Scan(&rec.FilmName, &rec.RevenueRaw, &rec.TicketsRaw,
			&rec.ShowtimesRaw, &rec.ScrapedDate, &rec.Source); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
