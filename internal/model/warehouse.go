package model

import "time"

// DimMovie is a row in the `dim_movie` dimension table.  A row is created
// the first time a movie name is seen by the warehouse loader and is never
// updated or deleted afterwards.  MovieName is the natural key; MovieKey is
// the surrogate referenced by fact rows.
type DimMovie struct {
	MovieKey  int64  // dim_movie.movie_key (auto increment)
	MovieName string // dim_movie.movie_name (unique)
}

// DimDate is a row in the `dim_date` dimension table.  DateKey is derived
// deterministically from FullDate as YYYYMMDD and is never independently
// assigned.  Rows are immutable after creation.
//
// Fields:
//  DateKey  – integer key, e.g. 20251118.
//  FullDate – the calendar date the key encodes.
//  Year, Month, Day – broken-out date parts.
//  Quarter  – calendar quarter 1..4.
type DimDate struct {
	DateKey  int       // dim_date.date_key
	FullDate time.Time // dim_date.full_date
	Year     int       // dim_date.year
	Month    int       // dim_date.month
	Day      int       // dim_date.day
	Quarter  int       // dim_date.quarter
}

// NewDimDate derives a DimDate from a calendar date.  The key and all
// broken-out parts are computed from the date itself.
func NewDimDate(d time.Time) DimDate {
	return DimDate{
		DateKey:  d.Year()*10000 + int(d.Month())*100 + d.Day(),
		FullDate: d,
		Year:     d.Year(),
		Month:    int(d.Month()),
		Day:      d.Day(),
		Quarter:  (int(d.Month())-1)/3 + 1,
	}
}

// FactRevenue is a row staged for insertion into the `fact_revenue` table.
// The table is append-only and carries no uniqueness constraint on
// (movie_key, date_key): a rerun against an already-loaded scrape date
// inserts duplicate facts.
type FactRevenue struct {
	RevenueID   int64     // fact_revenue.revenue_id (auto increment)
	MovieKey    int64     // fact_revenue.movie_key -> dim_movie
	DateKey     int       // fact_revenue.date_key -> dim_date
	RevenueVND  int64     // fact_revenue.revenue_vnd, >= 0
	TicketsSold int64     // fact_revenue.tickets_sold, >= 0
	Showtimes   int64     // fact_revenue.showtimes, >= 0
	LoadDate    time.Time // fact_revenue.load_date
}

// FactRow is one fact joined with its movie and date dimensions, as read
// back by the datamart aggregator.
type FactRow struct {
	MovieName   string    // dim_movie.movie_name
	FullDate    time.Time // dim_date.full_date
	RevenueVND  int64     // fact_revenue.revenue_vnd
	TicketsSold int64     // fact_revenue.tickets_sold
	Showtimes   int64     // fact_revenue.showtimes
}
