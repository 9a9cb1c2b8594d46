package etl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhlq/boxoffice-etl/internal/model"
)

// fakeWarehouseStore keeps dimensions and facts in memory and records how
// often each mutation ran, so tests can assert on insert counts.
type fakeWarehouseStore struct {
	movies       map[string]int64
	dates        map[int]model.DimDate
	facts        []model.FactRevenue
	nextMovieKey int64
	movieInserts int
	failFacts    error
}

func newFakeWarehouseStore() *fakeWarehouseStore {
	return &fakeWarehouseStore{
		movies:       make(map[string]int64),
		dates:        make(map[int]model.DimDate),
		nextMovieKey: 1,
	}
}

func (s *fakeWarehouseStore) MovieKeys(_ context.Context) (map[string]int64, error) {
	out := make(map[string]int64, len(s.movies))
	for k, v := range s.movies {
		out[k] = v
	}
	return out, nil
}

func (s *fakeWarehouseStore) InsertMovie(_ context.Context, name string) (int64, error) {
	s.movieInserts++
	key := s.nextMovieKey
	s.nextMovieKey++
	s.movies[name] = key
	return key, nil
}

func (s *fakeWarehouseStore) DateKeys(_ context.Context) (map[int]struct{}, error) {
	out := make(map[int]struct{}, len(s.dates))
	for k := range s.dates {
		out[k] = struct{}{}
	}
	return out, nil
}

func (s *fakeWarehouseStore) InsertDate(_ context.Context, d model.DimDate) error {
	s.dates[d.DateKey] = d
	return nil
}

func (s *fakeWarehouseStore) InsertFacts(_ context.Context, facts []model.FactRevenue) error {
	if s.failFacts != nil {
		return s.failFacts
	}
	s.facts = append(s.facts, facts...)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWarehouseLoadResolvesDimensionsOncePerBatch(t *testing.T) {
	store := newFakeWarehouseStore()
	loader := NewWarehouseLoader(store, testLogger())
	date := time.Date(2025, 11, 18, 0, 0, 0, 0, time.UTC)

	// The same new movie appears twice in one batch: exactly one dim_movie
	// row may be created, and both facts must reuse its key.
	cleaned := []model.CleanedRecord{
		{FilmName: "Mai", Revenue: 100, Tickets: 10, Showtimes: 1, ScrapedDate: date},
		{FilmName: "Mai", Revenue: 200, Tickets: 20, Showtimes: 2, ScrapedDate: date},
		{FilmName: "Đất Rừng Phương Nam", Revenue: 300, Tickets: 30, Showtimes: 3, ScrapedDate: date},
	}

	n, err := loader.Load(context.Background(), cleaned)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 2, store.movieInserts)
	require.Len(t, store.facts, 3)
	assert.Equal(t, store.facts[0].MovieKey, store.facts[1].MovieKey)

	// One dim_date row for the single scrape date, fully derived.
	require.Len(t, store.dates, 1)
	d := store.dates[20251118]
	assert.Equal(t, 2025, d.Year)
	assert.Equal(t, 11, d.Month)
	assert.Equal(t, 18, d.Day)
	assert.Equal(t, 4, d.Quarter)
}

func TestWarehouseLoadReusesExistingDimensions(t *testing.T) {
	store := newFakeWarehouseStore()
	store.movies["Mai"] = 7
	store.nextMovieKey = 8
	store.dates[20251118] = model.NewDimDate(time.Date(2025, 11, 18, 0, 0, 0, 0, time.UTC))

	loader := NewWarehouseLoader(store, testLogger())
	cleaned := []model.CleanedRecord{
		{FilmName: "Mai", Revenue: 100, ScrapedDate: time.Date(2025, 11, 18, 0, 0, 0, 0, time.UTC)},
	}

	n, err := loader.Load(context.Background(), cleaned)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 0, store.movieInserts)
	require.Len(t, store.facts, 1)
	assert.Equal(t, int64(7), store.facts[0].MovieKey)
	assert.Equal(t, 20251118, store.facts[0].DateKey)
}

func TestWarehouseLoadSkipsUnparseableDates(t *testing.T) {
	store := newFakeWarehouseStore()
	loader := NewWarehouseLoader(store, testLogger())

	cleaned := []model.CleanedRecord{
		{FilmName: "Mai", Revenue: 100, ScrapedDate: time.Time{}}, // no date: dropped
		{FilmName: "Mai", Revenue: 200, ScrapedDate: time.Date(2025, 11, 18, 0, 0, 0, 0, time.UTC)},
	}

	n, err := loader.Load(context.Background(), cleaned)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, store.facts, 1)
	assert.Equal(t, int64(200), store.facts[0].RevenueVND)
}

func TestWarehouseLoadPropagatesFactInsertFailure(t *testing.T) {
	store := newFakeWarehouseStore()
	store.failFacts = assert.AnError
	loader := NewWarehouseLoader(store, testLogger())

	cleaned := []model.CleanedRecord{
		{FilmName: "Mai", Revenue: 100, ScrapedDate: time.Date(2025, 11, 18, 0, 0, 0, 0, time.UTC)},
	}

	_, err := loader.Load(context.Background(), cleaned)
	assert.ErrorIs(t, err, assert.AnError)
}
