package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/minhlq/boxoffice-etl/internal/model"
)

// DatamartRepo encapsulates access to the read-optimized datamart tables
// `dm_daily_revenue` and `dm_top_movies`.  The pipeline appends to them
// (never upserts or truncates); the dashboard API reads them.
type DatamartRepo struct {
	db *sql.DB
}

// NewDatamartRepo constructs a DatamartRepo with the provided DB handle.
func NewDatamartRepo(db *sql.DB) *DatamartRepo {
	return &DatamartRepo{db: db}
}

// AppendDailyRevenue inserts the aggregator's daily rows as one batch.
func (r *DatamartRepo) AppendDailyRevenue(ctx context.Context, rows []model.DailyRevenue) error {
	if len(rows) == 0 {
		return nil
	}
	placeholders := make([]string, 0, len(rows))
	args := make([]interface{}, 0, len(rows)*5)
	for _, row := range rows {
		placeholders = append(placeholders, "(?, ?, ?, ?, ?)")
		args = append(args, row.MovieName, row.FullDate, row.RevenueVND, row.TicketsSold, row.Showtimes)
	}
	q := "INSERT INTO dm_daily_revenue (movie_name, full_date, revenue_vnd, tickets_sold, showtimes) VALUES " +
		strings.Join(placeholders, ",")
	_, err := r.db.ExecContext(ctx, q, args...)
	return err
}

// AppendTopMovies inserts the aggregator's ranking rows as one batch.
func (r *DatamartRepo) AppendTopMovies(ctx context.Context, rows []model.TopMovie) error {
	if len(rows) == 0 {
		return nil
	}
	placeholders := make([]string, 0, len(rows))
	args := make([]interface{}, 0, len(rows)*5)
	for _, row := range rows {
		placeholders = append(placeholders, "(?, ?, ?, ?, ?)")
		args = append(args, row.MovieName, row.TotalRevenue, row.TotalTickets, row.TotalShowtimes, row.Ranking)
	}
	q := "INSERT INTO dm_top_movies (movie_name, total_revenue, total_tickets, total_showtimes, ranking) VALUES " +
		strings.Join(placeholders, ",")
	_, err := r.db.ExecContext(ctx, q, args...)
	return err
}

// DailyRevenue returns the full dm_daily_revenue table ordered by date
// ascending, for the dashboard API.  No pagination.
func (r *DatamartRepo) DailyRevenue(ctx context.Context) ([]model.DailyRevenue, error) {
	const q = `SELECT movie_name, full_date, revenue_vnd, tickets_sold, showtimes
	           FROM dm_daily_revenue
	           ORDER BY full_date ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.DailyRevenue
	for rows.Next() {
		var d model.DailyRevenue
		if err := rows.Scan(&d.MovieName, &d.FullDate, &d.RevenueVND, &d.TicketsSold, &d.Showtimes); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// TopMovies returns dm_top_movies deduplicated by movie name, taking the
// maximum observed totals and the best (lowest) rank per movie, ordered by
// rank ascending.  Deduplication is needed because the pipeline appends a
// fresh ranking snapshot every run.
func (r *DatamartRepo) TopMovies(ctx context.Context) ([]model.TopMovie, error) {
	const q = `SELECT movie_name,
	                  MAX(total_revenue)   AS total_revenue,
	                  MAX(total_tickets)   AS total_tickets,
	                  MAX(total_showtimes) AS total_showtimes,
	                  MIN(ranking)         AS ranking
	           FROM dm_top_movies
	           GROUP BY movie_name
	           ORDER BY ranking ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TopMovie
	for rows.Next() {
		var m model.TopMovie
		if err := rows.Scan(&m.MovieName, &m.TotalRevenue, &m.TotalTickets, &m.TotalShowtimes, &m.Ranking); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
