// Package queue defines the message payloads exchanged over the message
// broker and the publisher/consumer pair for them.
package queue

// RunQueueName is the durable queue carrying pipeline run events.
const RunQueueName = "etl.run.completed"

// PipelineRunEvent is published when a pipeline run reaches a terminal
// state.  It carries enough information for downstream consumers to log,
// alert or refresh dashboards without querying the control database.
type PipelineRunEvent struct {
	RunID       string `json:"run_id"`
	State       string `json:"state"` // DONE or FAILED
	StartedAt   string `json:"started_at"`
	FinishedAt  string `json:"finished_at"`
	RowsStaged  int    `json:"rows_staged"`
	FactsLoaded int    `json:"facts_loaded"`
	Error       string `json:"error,omitempty"`
}
