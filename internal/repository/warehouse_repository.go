package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/minhlq/boxoffice-etl/internal/model"
)

// WarehouseRepo encapsulates access to the dimensional model: the
// `dim_movie` and `dim_date` dimension tables and the append-only
// `fact_revenue` fact table.
type WarehouseRepo struct {
	db *sql.DB
}

// NewWarehouseRepo constructs a WarehouseRepo with the provided DB handle.
func NewWarehouseRepo(db *sql.DB) *WarehouseRepo {
	return &WarehouseRepo{db: db}
}

// MovieKeys loads the full existing movie_name -> movie_key mapping.  The
// loader keeps this map in memory for the duration of a run so that each
// new movie is inserted exactly once per batch.
func (r *WarehouseRepo) MovieKeys(ctx context.Context) (map[string]int64, error) {
	const q = "SELECT movie_key, movie_name FROM dim_movie"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[string]int64)
	for rows.Next() {
		var key int64
		var name string
		if err := rows.Scan(&key, &name); err != nil {
			return nil, err
		}
		keys[name] = key
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

// InsertMovie creates a new dim_movie row and returns its surrogate key.
// Dimension rows are never updated or deleted once created.
func (r *WarehouseRepo) InsertMovie(ctx context.Context, name string) (int64, error) {
	const q = "INSERT INTO dim_movie (movie_name) VALUES (?)"
	res, err := r.db.ExecContext(ctx, q, name)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// DateKeys loads the set of existing dim_date keys.
func (r *WarehouseRepo) DateKeys(ctx context.Context) (map[int]struct{}, error) {
	const q = "SELECT date_key FROM dim_date"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[int]struct{})
	for rows.Next() {
		var key int
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys[key] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

// InsertDate creates a new dim_date row.  The caller derives all fields
// from the calendar date via model.NewDimDate.
func (r *WarehouseRepo) InsertDate(ctx context.Context, d model.DimDate) error {
	const q = `INSERT INTO dim_date (date_key, full_date, year, month, day, quarter)
	           VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, d.DateKey, d.FullDate, d.Year, d.Month, d.Day, d.Quarter)
	return err
}

// InsertFacts appends all staged fact rows as one batch.  Every referenced
// dimension key must already be committed; the loader guarantees this by
// inserting dimensions before calling InsertFacts.
func (r *WarehouseRepo) InsertFacts(ctx context.Context, facts []model.FactRevenue) error {
	if len(facts) == 0 {
		return nil
	}
	placeholders := make([]string, 0, len(facts))
	args := make([]interface{}, 0, len(facts)*6)
	for _, f := range facts {
		placeholders = append(placeholders, "(?, ?, ?, ?, ?, ?)")
		args = append(args, f.MovieKey, f.DateKey, f.RevenueVND, f.TicketsSold, f.Showtimes, f.LoadDate)
	}
	q := "INSERT INTO fact_revenue (movie_key, date_key, revenue_vnd, tickets_sold, showtimes, load_date) VALUES " +
		strings.Join(placeholders, ",")
	_, err := r.db.ExecContext(ctx, q, args...)
	return err
}

// FetchFacts returns the entire fact history joined with its dimensions.
// The datamart aggregator recomputes its summaries from this full history
// on every run, not incrementally.
func (r *WarehouseRepo) FetchFacts(ctx context.Context) ([]model.FactRow, error) {
	const q = `SELECT m.movie_name, d.full_date, f.revenue_vnd, f.tickets_sold, f.showtimes
	           FROM fact_revenue f
	           JOIN dim_movie m ON f.movie_key = m.movie_key
	           JOIN dim_date d ON f.date_key = d.date_key
	           ORDER BY f.revenue_id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.FactRow
	for rows.Next() {
		var f model.FactRow
		if err := rows.Scan(&f.MovieName, &f.FullDate, &f.RevenueVND, &f.TicketsSold, &f.Showtimes); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
