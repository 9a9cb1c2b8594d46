// Package etl implements the transform-and-load core of the pipeline: the
// transformer that cleans staged rows, the warehouse loader that resolves
// dimension keys and appends facts, the datamart aggregator and the
// datamart loader.  Stages operate on store interfaces so the logic can be
// exercised against in-memory fakes in tests.
package etl

import "errors"

// ErrNoData signals that a stage found zero input rows (empty staging
// table, empty fact history).  It is not a failure: the orchestrator logs
// a warning and skips the downstream stages with an explicit "nothing to
// do" outcome.
var ErrNoData = errors.New("no data")
