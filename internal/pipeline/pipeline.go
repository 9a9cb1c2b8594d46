// Package pipeline contains the orchestrator that sequences the ETL
// stages.  Each stage is an explicit function returning an error value;
// there is no script-level control flow hidden in exception handlers.
// The orchestrator walks the stages in order, stops at the first hard
// failure and always flushes the run log as its final action.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/minhlq/boxoffice-etl/internal/etl"
	"github.com/minhlq/boxoffice-etl/internal/extract"
	"github.com/minhlq/boxoffice-etl/internal/model"
	"github.com/minhlq/boxoffice-etl/internal/queue"
	"github.com/minhlq/boxoffice-etl/internal/runlog"
)

// State identifies where a run currently is, or how it ended.
type State string

const (
	StateExtract       State = "EXTRACT"
	StateStage         State = "STAGE"
	StateTransform     State = "TRANSFORM"
	StateWarehouseLoad State = "WAREHOUSE_LOAD"
	StateAggregate     State = "AGGREGATE"
	StateDatamartLoad  State = "DATAMART_LOAD"
	StateDone          State = "DONE"
	StateFailed        State = "FAILED"
)

// Source produces the day's raw records.  *extract.Extractor satisfies it.
type Source interface {
	Fetch(ctx context.Context, scrapeDate time.Time) ([]model.RawRecord, error)
}

// StagingStore is the staging table surface.  *repository.StagingRepo
// satisfies it.
type StagingStore interface {
	Replace(ctx context.Context, rows []model.RawRecord) error
	FetchAll(ctx context.Context) ([]model.RawRecord, error)
}

// WarehouseStore extends the loader surface with the full-history read
// the aggregator needs.  *repository.WarehouseRepo satisfies it.
type WarehouseStore interface {
	etl.WarehouseStore
	FetchFacts(ctx context.Context) ([]model.FactRow, error)
}

// Publisher emits the terminal run event.  *queue.Publisher satisfies it;
// a nil Publisher disables the event feed.
type Publisher interface {
	PublishRunCompleted(ctx context.Context, event queue.PipelineRunEvent) error
}

// Stores bundles the per-database repositories a run writes to.
type Stores struct {
	Staging   StagingStore
	Warehouse WarehouseStore
	Datamart  etl.DatamartStore
	RunLog    runlog.Store
}

// Options carries the optional knobs of a run.
type Options struct {
	RawDataPath       string    // raw CSV artifact dir; empty disables
	AggregateDataPath string    // aggregate CSV artifact dir; empty disables
	Publisher         Publisher // run event feed; nil disables
	Now               func() time.Time
}

// Orchestrator sequences one pipeline run:
//
//	EXTRACT -> STAGE -> TRANSFORM -> WAREHOUSE_LOAD -> AGGREGATE -> DATAMART_LOAD
//
// Runs are strictly sequential; no locking is provided against concurrent
// runs and the warehouse loader's dimension resolution is unsafe under
// them.  Callers must serialize invocations externally.
type Orchestrator struct {
	source   Source
	stores   Stores
	recorder *runlog.Recorder
	opts     Options
}

// New constructs an Orchestrator.  The recorder is the run's log sink;
// every stage logs through it and its buffer is flushed to the control
// database when the run ends, whatever the outcome.
func New(source Source, stores Stores, recorder *runlog.Recorder, opts Options) *Orchestrator {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Orchestrator{source: source, stores: stores, recorder: recorder, opts: opts}
}

// Run executes the full pipeline once and returns the terminal state.
// The returned error is the stage failure that stopped the run, if any;
// the state is the sole success signal.  EmptyDataset conditions are not
// failures: they log a warning, skip the remaining data stages and end in
// DONE.
func (o *Orchestrator) Run(ctx context.Context) (state State, err error) {
	log := o.recorder.Logger()
	started := o.opts.Now()
	runID := uuid.NewString()
	y, m, d := started.Date()
	scrapeDate := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	var rowsStaged, factsLoaded int

	defer func() {
		// Flush the run log on every exit path.  Flush failure is
		// reported (console only, by construction) but never escalated.
		if flushErr := o.recorder.Flush(context.WithoutCancel(ctx), o.stores.RunLog); flushErr != nil {
			log.Error("push run log to control database failed", "error", flushErr)
		}
		if o.opts.Publisher != nil {
			ev := queue.PipelineRunEvent{
				RunID:       runID,
				State:       string(state),
				StartedAt:   started.UTC().Format(time.RFC3339),
				FinishedAt:  o.opts.Now().UTC().Format(time.RFC3339),
				RowsStaged:  rowsStaged,
				FactsLoaded: factsLoaded,
			}
			if err != nil {
				ev.Error = err.Error()
			}
			if pubErr := o.opts.Publisher.PublishRunCompleted(context.WithoutCancel(ctx), ev); pubErr != nil {
				log.Warn("publish run event failed", "error", pubErr)
			}
		}
	}()

	log.Info("Starting full ETL pipeline", "run_id", runID)

	// EXTRACT
	state = StateExtract
	log.Info("Step 1: Extract data")
	raw, err := o.source.Fetch(ctx, scrapeDate)
	if err != nil {
		return o.fail(state, err)
	}
	if o.opts.RawDataPath != "" {
		if path, csvErr := extract.SaveRawCSV(o.opts.RawDataPath, raw, scrapeDate); csvErr != nil {
			log.Warn("raw CSV artifact not written", "error", csvErr)
		} else {
			log.Info("Extract finished", "raw_file", path)
		}
	}

	// STAGE
	state = StateStage
	log.Info("Step 2: Load staging")
	if err = o.stores.Staging.Replace(ctx, raw); err != nil {
		return o.fail(state, err)
	}
	rowsStaged = len(raw)
	log.Info("Staging load finished", "rows", rowsStaged)

	// TRANSFORM
	state = StateTransform
	log.Info("Step 3: Transform data")
	staged, err := o.stores.Staging.FetchAll(ctx)
	if err != nil {
		return o.fail(state, err)
	}
	cleaned, err := etl.Transform(staged)
	if errors.Is(err, etl.ErrNoData) {
		err = nil
		log.Warn("Staging table empty, nothing to transform; skipping remaining stages")
		return o.done()
	}
	if err != nil {
		return o.fail(state, err)
	}
	log.Info("Transform finished", "rows", len(cleaned))

	// WAREHOUSE_LOAD
	state = StateWarehouseLoad
	log.Info("Step 4: Load warehouse")
	loader := etl.NewWarehouseLoader(o.stores.Warehouse, log)
	factsLoaded, err = loader.Load(ctx, cleaned)
	if err != nil {
		return o.fail(state, err)
	}
	log.Info("Warehouse load finished", "facts", factsLoaded)

	// AGGREGATE
	state = StateAggregate
	log.Info("Step 5: Aggregate data")
	facts, err := o.stores.Warehouse.FetchFacts(ctx)
	if err != nil {
		return o.fail(state, err)
	}
	agg := etl.Aggregate(facts)
	if agg.Empty() {
		log.Warn("No data found in fact_revenue; skipping datamart load")
		return o.done()
	}
	log.Info("Aggregate finished", "daily_rows", len(agg.Daily), "top_rows", len(agg.Top))
	if o.opts.AggregateDataPath != "" {
		if dailyPath, topPath, csvErr := etl.WriteAggregateCSVs(o.opts.AggregateDataPath, agg, started); csvErr != nil {
			log.Warn("aggregate CSV artifacts not written", "error", csvErr)
		} else {
			log.Info("Aggregate CSVs saved", "daily", dailyPath, "top", topPath)
		}
	}

	// DATAMART_LOAD
	state = StateDatamartLoad
	log.Info("Step 6: Load datamart")
	if err = etl.LoadDatamart(ctx, o.stores.Datamart, agg, log); err != nil {
		return o.fail(state, err)
	}
	log.Info("Datamart load finished")

	return o.done()
}

func (o *Orchestrator) done() (State, error) {
	o.recorder.Logger().Info("ETL pipeline finished", "state", string(StateDone))
	return StateDone, nil
}

func (o *Orchestrator) fail(at State, err error) (State, error) {
	log := o.recorder.Logger()
	log.Error("stage failed", "stage", string(at), "error", err)
	log.Log(context.Background(), runlog.LevelCritical, "ETL pipeline stopped", "stage", string(at))
	return StateFailed, err
}
