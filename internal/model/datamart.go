package model

import "time"

// DailyRevenue is one row of the `dm_daily_revenue` datamart table: the
// summed figures for a single (movie, date) pair across all matching fact
// rows.  The table is denormalized and append-only.
type DailyRevenue struct {
	MovieName   string    // dm_daily_revenue.movie_name
	FullDate    time.Time // dm_daily_revenue.full_date
	RevenueVND  int64     // dm_daily_revenue.revenue_vnd
	TicketsSold int64     // dm_daily_revenue.tickets_sold
	Showtimes   int64     // dm_daily_revenue.showtimes
}

// TopMovie is one row of the `dm_top_movies` datamart table: all-time
// totals for a single movie together with its revenue ranking.  Ranking is
// a 1-based dense position assigned by descending total revenue, ties
// broken by original iteration order.
type TopMovie struct {
	MovieName      string // dm_top_movies.movie_name
	TotalRevenue   int64  // dm_top_movies.total_revenue
	TotalTickets   int64  // dm_top_movies.total_tickets
	TotalShowtimes int64  // dm_top_movies.total_showtimes
	Ranking        int    // dm_top_movies.ranking, 1-based
}
