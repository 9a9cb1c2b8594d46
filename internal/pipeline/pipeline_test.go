package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhlq/boxoffice-etl/internal/model"
	"github.com/minhlq/boxoffice-etl/internal/queue"
	"github.com/minhlq/boxoffice-etl/internal/runlog"
)

// ── stage fakes ──

type stubSource struct {
	rows []model.RawRecord
	err  error
}

func (s *stubSource) Fetch(_ context.Context, date time.Time) ([]model.RawRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]model.RawRecord, len(s.rows))
	copy(out, s.rows)
	for i := range out {
		out[i].ScrapedDate = date
	}
	return out, nil
}

type stubStaging struct {
	stored       []model.RawRecord
	replaceCalls int
}

func (s *stubStaging) Replace(_ context.Context, rows []model.RawRecord) error {
	s.replaceCalls++
	s.stored = rows
	return nil
}

func (s *stubStaging) FetchAll(_ context.Context) ([]model.RawRecord, error) {
	return s.stored, nil
}

type stubWarehouse struct {
	movies         map[string]int64
	dates          map[int]struct{}
	facts          []model.FactRevenue
	nextKey        int64
	failFacts      error
	fetchFactCalls int
}

func newStubWarehouse() *stubWarehouse {
	return &stubWarehouse{movies: map[string]int64{}, dates: map[int]struct{}{}, nextKey: 1}
}

func (s *stubWarehouse) MovieKeys(context.Context) (map[string]int64, error) {
	out := make(map[string]int64, len(s.movies))
	for k, v := range s.movies {
		out[k] = v
	}
	return out, nil
}

func (s *stubWarehouse) InsertMovie(_ context.Context, name string) (int64, error) {
	key := s.nextKey
	s.nextKey++
	s.movies[name] = key
	return key, nil
}

func (s *stubWarehouse) DateKeys(context.Context) (map[int]struct{}, error) {
	out := make(map[int]struct{}, len(s.dates))
	for k := range s.dates {
		out[k] = struct{}{}
	}
	return out, nil
}

func (s *stubWarehouse) InsertDate(_ context.Context, d model.DimDate) error {
	s.dates[d.DateKey] = struct{}{}
	return nil
}

func (s *stubWarehouse) InsertFacts(_ context.Context, facts []model.FactRevenue) error {
	if s.failFacts != nil {
		return s.failFacts
	}
	s.facts = append(s.facts, facts...)
	return nil
}

func (s *stubWarehouse) FetchFacts(context.Context) ([]model.FactRow, error) {
	s.fetchFactCalls++
	out := make([]model.FactRow, 0, len(s.facts))
	names := make(map[int64]string, len(s.movies))
	for name, key := range s.movies {
		names[key] = name
	}
	for _, f := range s.facts {
		out = append(out, model.FactRow{
			MovieName:   names[f.MovieKey],
			FullDate:    time.Date(f.DateKey/10000, time.Month(f.DateKey/100%100), f.DateKey%100, 0, 0, 0, 0, time.UTC),
			RevenueVND:  f.RevenueVND,
			TicketsSold: f.TicketsSold,
			Showtimes:   f.Showtimes,
		})
	}
	return out, nil
}

type stubDatamart struct {
	daily []model.DailyRevenue
	top   []model.TopMovie
	calls int
}

func (s *stubDatamart) AppendDailyRevenue(_ context.Context, rows []model.DailyRevenue) error {
	s.calls++
	s.daily = append(s.daily, rows...)
	return nil
}

func (s *stubDatamart) AppendTopMovies(_ context.Context, rows []model.TopMovie) error {
	s.calls++
	s.top = append(s.top, rows...)
	return nil
}

type stubRunLogStore struct {
	entries []model.RunLogEntry
	fail    error
}

func (s *stubRunLogStore) EnsureTable(context.Context) error { return s.fail }

func (s *stubRunLogStore) Append(_ context.Context, entries []model.RunLogEntry) error {
	s.entries = append(s.entries, entries...)
	return nil
}

type stubPublisher struct {
	events []queue.PipelineRunEvent
}

func (s *stubPublisher) PublishRunCompleted(_ context.Context, ev queue.PipelineRunEvent) error {
	s.events = append(s.events, ev)
	return nil
}

// ── fixtures ──

func scrapedRows() []model.RawRecord {
	return []model.RawRecord{
		{FilmName: "Mai", RevenueRaw: "15.000.000đ", TicketsRaw: "1.500", ShowtimesRaw: "20", Source: "test"},
		{FilmName: "Quật Mộ Trùng Ma", RevenueRaw: "8.000.000đ", TicketsRaw: "800", ShowtimesRaw: "10", Source: "test"},
	}
}

func newRun(src Source, stores Stores, pub Publisher) (*Orchestrator, *runlog.Recorder) {
	rec := runlog.NewRecorder("etl_pipeline_test.log", nil)
	o := New(src, stores, rec, Options{Publisher: pub})
	return o, rec
}

// ── tests ──

func TestRunFullPipeline(t *testing.T) {
	staging := &stubStaging{}
	wh := newStubWarehouse()
	dm := &stubDatamart{}
	logs := &stubRunLogStore{}
	pub := &stubPublisher{}

	o, _ := newRun(&stubSource{rows: scrapedRows()}, Stores{
		Staging: staging, Warehouse: wh, Datamart: dm, RunLog: logs,
	}, pub)

	state, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateDone, state)

	// Facts landed and the datamart received both result sets.
	assert.Len(t, wh.facts, 2)
	require.Len(t, dm.top, 2)
	assert.Equal(t, "Mai", dm.top[0].MovieName)
	assert.Equal(t, 1, dm.top[0].Ranking)
	assert.Len(t, dm.daily, 2)

	// Run log flushed, run event published with the terminal state.
	assert.NotEmpty(t, logs.entries)
	require.Len(t, pub.events, 1)
	assert.Equal(t, "DONE", pub.events[0].State)
	assert.Equal(t, 2, pub.events[0].RowsStaged)
	assert.Equal(t, 2, pub.events[0].FactsLoaded)
	assert.NotEmpty(t, pub.events[0].RunID)
}

func TestRunEmptyStagingSkipsDownstream(t *testing.T) {
	staging := &stubStaging{}
	wh := newStubWarehouse()
	dm := &stubDatamart{}
	logs := &stubRunLogStore{}

	o, rec := newRun(&stubSource{rows: nil}, Stores{
		Staging: staging, Warehouse: wh, Datamart: dm, RunLog: logs,
	}, nil)

	state, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateDone, state)

	// Warehouse and datamart were never touched.
	assert.Empty(t, wh.facts)
	assert.Equal(t, 0, wh.fetchFactCalls)
	assert.Equal(t, 0, dm.calls)

	// The skip was logged as a warning and persisted.
	var warned bool
	for _, e := range rec.Entries() {
		if e.LogLevel == model.LevelWarning {
			warned = true
		}
	}
	assert.True(t, warned)
	assert.NotEmpty(t, logs.entries)
}

func TestRunWarehouseFailureStopsPipeline(t *testing.T) {
	staging := &stubStaging{}
	wh := newStubWarehouse()
	wh.failFacts = assert.AnError
	dm := &stubDatamart{}
	logs := &stubRunLogStore{}
	pub := &stubPublisher{}

	o, _ := newRun(&stubSource{rows: scrapedRows()}, Stores{
		Staging: staging, Warehouse: wh, Datamart: dm, RunLog: logs,
	}, pub)

	state, err := o.Run(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, StateFailed, state)

	// Aggregate and datamart load never ran.
	assert.Equal(t, 0, wh.fetchFactCalls)
	assert.Equal(t, 0, dm.calls)

	// Every line emitted before the failure was still persisted,
	// including the terminal CRITICAL marker.
	require.NotEmpty(t, logs.entries)
	var critical bool
	for _, e := range logs.entries {
		if e.LogLevel == model.LevelCritical {
			critical = true
		}
	}
	assert.True(t, critical)

	// The published event carries the failure.
	require.Len(t, pub.events, 1)
	assert.Equal(t, "FAILED", pub.events[0].State)
	assert.NotEmpty(t, pub.events[0].Error)
}

func TestRunSourceUnavailableFailsExtract(t *testing.T) {
	staging := &stubStaging{}
	logs := &stubRunLogStore{}

	o, _ := newRun(&stubSource{err: assert.AnError}, Stores{
		Staging: staging, Warehouse: newStubWarehouse(), Datamart: &stubDatamart{}, RunLog: logs,
	}, nil)

	state, err := o.Run(context.Background())
	assert.Error(t, err)
	assert.Equal(t, StateFailed, state)
	assert.Equal(t, 0, staging.replaceCalls)
	assert.NotEmpty(t, logs.entries)
}

func TestRunLogFlushFailureIsIsolated(t *testing.T) {
	staging := &stubStaging{}
	logs := &stubRunLogStore{fail: assert.AnError}

	o, _ := newRun(&stubSource{rows: scrapedRows()}, Stores{
		Staging: staging, Warehouse: newStubWarehouse(), Datamart: &stubDatamart{}, RunLog: logs,
	}, nil)

	state, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateDone, state)
}
