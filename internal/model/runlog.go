package model

import "time"

// Log levels persisted in `etl_log.log_level`.  They mirror the levels the
// pipeline emits; there is no DEBUG level in the durable log.
const (
	LevelInfo     = "INFO"
	LevelWarning  = "WARNING"
	LevelError    = "ERROR"
	LevelCritical = "CRITICAL"
)

// RunLogEntry is one captured log line of a pipeline run, persisted to the
// `etl_log` table in the control database at the end of the run.  Rows are
// append-only and never updated or deleted by this system.
//
// Fields:
//  LogTime    – when the line was emitted, second precision (no sub-second
//               component is persisted).
//  LogLevel   – one of the Level* constants.
//  Message    – the log message text.
//  SourceFile – logical name of the run that produced the line.
type RunLogEntry struct {
	LogTime    time.Time // etl_log.log_time
	LogLevel   string    // etl_log.log_level
	Message    string    // etl_log.message
	SourceFile string    // etl_log.source_file
}
