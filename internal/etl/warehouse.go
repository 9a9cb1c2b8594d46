package etl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/minhlq/boxoffice-etl/internal/model"
)

// WarehouseStore is the persistence surface the warehouse loader needs.
// *repository.WarehouseRepo satisfies it; tests use an in-memory fake.
type WarehouseStore interface {
	MovieKeys(ctx context.Context) (map[string]int64, error)
	InsertMovie(ctx context.Context, name string) (int64, error)
	DateKeys(ctx context.Context) (map[int]struct{}, error)
	InsertDate(ctx context.Context, d model.DimDate) error
	InsertFacts(ctx context.Context, facts []model.FactRevenue) error
}

// WarehouseLoader resolves dimension keys and appends fact rows for one
// cleaned batch.  Dimension resolution is read-then-write within a single
// run and is not safe under concurrent runs: two simultaneous runs can
// both observe a movie as absent and insert it twice.  Callers must
// serialize pipeline invocations externally.
type WarehouseLoader struct {
	store WarehouseStore
	log   *slog.Logger
	now   func() time.Time
}

// NewWarehouseLoader constructs a loader over the given store.
func NewWarehouseLoader(store WarehouseStore, log *slog.Logger) *WarehouseLoader {
	return &WarehouseLoader{store: store, log: log, now: time.Now}
}

// Load runs the per-batch state machine:
//
//  1. load the existing movie_name -> movie_key mapping
//  2. insert each distinct new movie once, recording its key in the map
//     before continuing (later rows of the same batch reuse the key)
//  3. load the existing date_key set
//  4. derive date keys from scraped dates, inserting missing dim_date rows
//  5. stage one fact row per cleaned record; records whose date is absent
//     are dropped, not fatal
//  6. bulk-insert the staged facts as one batch
//
// All dimension inserts are durably committed before the fact insert, so
// no fact can reference an unknown key.  Returns the number of facts
// inserted.
func (l *WarehouseLoader) Load(ctx context.Context, cleaned []model.CleanedRecord) (int, error) {
	movieKeys, err := l.store.MovieKeys(ctx)
	if err != nil {
		return 0, fmt.Errorf("load dim_movie keys: %w", err)
	}
	for _, rec := range cleaned {
		if _, ok := movieKeys[rec.FilmName]; ok {
			continue
		}
		key, err := l.store.InsertMovie(ctx, rec.FilmName)
		if err != nil {
			return 0, fmt.Errorf("insert dim_movie %q: %w", rec.FilmName, err)
		}
		movieKeys[rec.FilmName] = key
	}
	l.log.Info("dim_movie resolved", "total_movies", len(movieKeys))

	dateKeys, err := l.store.DateKeys(ctx)
	if err != nil {
		return 0, fmt.Errorf("load dim_date keys: %w", err)
	}

	loadDate := l.now()
	facts := make([]model.FactRevenue, 0, len(cleaned))
	insertedDates := make(map[int]struct{})
	warnedDates := make(map[int]struct{})
	skipped := 0
	for _, rec := range cleaned {
		if rec.ScrapedDate.IsZero() {
			// Unparseable date: drop the record from fact loading.
			skipped++
			continue
		}
		dim := model.NewDimDate(rec.ScrapedDate)
		if _, ok := dateKeys[dim.DateKey]; !ok {
			if err := l.store.InsertDate(ctx, dim); err != nil {
				return 0, fmt.Errorf("insert dim_date %d: %w", dim.DateKey, err)
			}
			dateKeys[dim.DateKey] = struct{}{}
			insertedDates[dim.DateKey] = struct{}{}
		} else if _, mine := insertedDates[dim.DateKey]; !mine {
			// A date_key known before this run means facts for this scrape
			// date were loaded by an earlier run; the append below will
			// duplicate them.
			if _, done := warnedDates[dim.DateKey]; !done {
				l.log.Warn("facts for existing date_key, rerun will duplicate", "date_key", dim.DateKey)
				warnedDates[dim.DateKey] = struct{}{}
			}
		}
		facts = append(facts, model.FactRevenue{
			MovieKey:    movieKeys[rec.FilmName],
			DateKey:     dim.DateKey,
			RevenueVND:  rec.Revenue,
			TicketsSold: rec.Tickets,
			Showtimes:   rec.Showtimes,
			LoadDate:    loadDate,
		})
	}
	if skipped > 0 {
		l.log.Warn("records dropped for unparseable date", "count", skipped)
	}

	if err := l.store.InsertFacts(ctx, facts); err != nil {
		return 0, fmt.Errorf("insert fact_revenue batch: %w", err)
	}
	l.log.Info("fact_revenue loaded", "rows", len(facts))
	return len(facts), nil
}
