package etl

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/minhlq/boxoffice-etl/internal/model"
)

// WriteAggregateCSVs writes the aggregator output as two CSV artifacts
// under dir (created if absent), named with the run date:
// dm_daily_revenue_DDMMYYYY.csv and dm_top_movies_DDMMYYYY.csv.  The
// files are a convenience copy for ad hoc inspection; the datamart tables
// remain the source of truth.  Returns the two paths written.
func WriteAggregateCSVs(dir string, agg AggregateResult, runDate time.Time) (string, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	stamp := runDate.Format("02012006")

	dailyPath := filepath.Join(dir, "dm_daily_revenue_"+stamp+".csv")
	if err := writeDailyCSV(dailyPath, agg.Daily); err != nil {
		return "", "", err
	}
	topPath := filepath.Join(dir, "dm_top_movies_"+stamp+".csv")
	if err := writeTopCSV(topPath, agg.Top); err != nil {
		return "", "", err
	}
	return dailyPath, topPath, nil
}

func writeDailyCSV(path string, rows []model.DailyRevenue) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"movie_name", "full_date", "revenue_vnd", "tickets_sold", "showtimes"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.MovieName,
			r.FullDate.Format("2006-01-02"),
			strconv.FormatInt(r.RevenueVND, 10),
			strconv.FormatInt(r.TicketsSold, 10),
			strconv.FormatInt(r.Showtimes, 10),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeTopCSV(path string, rows []model.TopMovie) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"movie_name", "total_revenue", "total_tickets", "total_showtimes", "ranking"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.MovieName,
			strconv.FormatInt(r.TotalRevenue, 10),
			strconv.FormatInt(r.TotalTickets, 10),
			strconv.FormatInt(r.TotalShowtimes, 10),
			strconv.Itoa(r.Ranking),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
