package model

import "time"

// RawRecord represents one scraped box-office row as it lands in the
// staging database.  All numeric columns are kept as raw text exactly as
// they appeared on the source page; cleaning happens later in the
// transform stage.  This struct corresponds to a row in the
// `stg_boxoffice_raw` table, which holds at most one generation of data
// (the table is truncated before every load).
//
// Fields:
//  FilmName     – movie title as printed on the source page.
//  RevenueRaw   – revenue text, e.g. "15.000.000đ".
//  TicketsRaw   – ticket count text, e.g. "1.500".
//  ShowtimesRaw – showtime count text, e.g. "200" or "3.0".
//  ScrapedDate  – calendar date the page was scraped for.
//  Source       – identifier of the upstream feed.
type RawRecord struct {
	FilmName     string    // stg_boxoffice_raw.film_name
	RevenueRaw   string    // stg_boxoffice_raw.revenue_raw
	TicketsRaw   string    // stg_boxoffice_raw.tickets_raw
	ShowtimesRaw string    // stg_boxoffice_raw.showtimes_raw
	ScrapedDate  time.Time // stg_boxoffice_raw.scraped_date
	Source       string    // stg_boxoffice_raw.source
}

// CleanedRecord is the typed output of the transform stage.  It is not
// persisted in its own table; it flows in memory from the transformer to
// the warehouse loader.  All three numeric fields are guaranteed to be
// non-negative: malformed source text normalizes to 0 rather than failing
// the row.
type CleanedRecord struct {
	FilmName    string    // trimmed movie title
	Revenue     int64     // revenue in VND, >= 0
	Tickets     int64     // tickets sold, >= 0
	Showtimes   int64     // number of showtimes, >= 0
	ScrapedDate time.Time // calendar date the figures apply to
}
