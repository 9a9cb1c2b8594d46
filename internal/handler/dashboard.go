// Package handler exposes the HTTP handlers for the dashboard API.  The
// endpoints read the datamart only; the warehouse and staging databases
// are never queried at request time.  Responses carry the same field
// names the dashboard chart code consumes.
package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/minhlq/boxoffice-etl/internal/repository"
)

// DashboardHandler aggregates the repositories the dashboard reads from.
type DashboardHandler struct {
	DatamartRepo *repository.DatamartRepo // read access to dm_daily_revenue and dm_top_movies
}

// DailyRevenueRow is one point of the revenue-over-time chart.  The date
// is rendered as YYYY-MM-DD so the client can use it as an axis label
// without timezone handling.
type DailyRevenueRow struct {
	MovieName   string `json:"movie_name"`
	FullDate    string `json:"full_date"`
	RevenueVND  int64  `json:"revenue_vnd"`
	TicketsSold int64  `json:"tickets_sold"`
	Showtimes   int64  `json:"showtimes"`
}

// TopMovieRow is one bar of the top-movies ranking chart.
type TopMovieRow struct {
	MovieName      string `json:"movie_name"`
	TotalRevenue   int64  `json:"total_revenue"`
	TotalTickets   int64  `json:"total_tickets"`
	TotalShowtimes int64  `json:"total_showtimes"`
	Ranking        int    `json:"ranking"`
}

// GetDailyRevenue returns the full daily revenue history ordered by date
// ascending.  Response JSON contains an "items" array of DailyRevenueRow.
func (h *DashboardHandler) GetDailyRevenue(c echo.Context) error {
	ctx := c.Request().Context()
	rows, err := h.DatamartRepo.DailyRevenue(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]DailyRevenueRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, DailyRevenueRow{
			MovieName:   r.MovieName,
			FullDate:    r.FullDate.Format("2006-01-02"),
			RevenueVND:  r.RevenueVND,
			TicketsSold: r.TicketsSold,
			Showtimes:   r.Showtimes,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetTopMovies returns one row per movie with its all-time totals and
// revenue rank, ordered by rank ascending.  Response JSON contains an
// "items" array of TopMovieRow.
func (h *DashboardHandler) GetTopMovies(c echo.Context) error {
	ctx := c.Request().Context()
	rows, err := h.DatamartRepo.TopMovies(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]TopMovieRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, TopMovieRow{
			MovieName:      r.MovieName,
			TotalRevenue:   r.TotalRevenue,
			TotalTickets:   r.TotalTickets,
			TotalShowtimes: r.TotalShowtimes,
			Ranking:        r.Ranking,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetStatus reports the server time so the dashboard can show when its
// data was last fetched.
func (h *DashboardHandler) GetStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"server_time": time.Now().UTC().Format(time.RFC3339)})
}
