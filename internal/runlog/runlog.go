// Package runlog implements the per-run log recorder.  Instead of
// reconfiguring process-wide logging state and parsing text lines back
// out of a file, each pipeline run constructs one Recorder, passes the
// slog.Logger built on it to every stage, and flushes the captured typed
// entries to the control database as the run's final action.  The
// "<timestamp> - <level> - <message>" text form is a display concern
// only; it never round-trips through parsing.
package runlog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/minhlq/boxoffice-etl/internal/model"
)

// LevelCritical marks a failure that stops the whole pipeline.  slog has
// no built-in level above Error, so the orchestrator uses this custom one
// for its terminal failure line.
const LevelCritical = slog.LevelError + 4

// Store is the persistence surface the recorder flushes to.
// *repository.RunLogRepo satisfies it.
type Store interface {
	EnsureTable(ctx context.Context) error
	Append(ctx context.Context, entries []model.RunLogEntry) error
}

// state is the capture buffer shared by a Recorder and its WithAttrs
// derivatives.
type state struct {
	mu         sync.Mutex
	entries    []model.RunLogEntry
	sourceFile string
}

// Recorder is a slog.Handler that captures every record at Info and above
// as a typed RunLogEntry while forwarding it to an optional console
// handler.  Timestamps are truncated to second precision before capture;
// no sub-second component is persisted.
type Recorder struct {
	state   *state
	console slog.Handler
	attrs   []slog.Attr
}

// NewRecorder constructs a Recorder for one pipeline run.  sourceFile is
// the logical run name stored with every entry (e.g.
// "etl_pipeline_20251118_060000").  console may be nil when no terminal
// output is wanted, as in tests.
func NewRecorder(sourceFile string, console slog.Handler) *Recorder {
	return &Recorder{
		state:   &state{sourceFile: sourceFile},
		console: console,
	}
}

// Logger returns a slog.Logger emitting through this recorder.
func (r *Recorder) Logger() *slog.Logger {
	return slog.New(r)
}

// Enabled implements slog.Handler.  Debug records are displayed only if
// the console handler wants them; they are never captured.
func (r *Recorder) Enabled(ctx context.Context, level slog.Level) bool {
	if level >= slog.LevelInfo {
		return true
	}
	return r.console != nil && r.console.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (r *Recorder) Handle(ctx context.Context, rec slog.Record) error {
	var consoleErr error
	if r.console != nil && r.console.Enabled(ctx, rec.Level) {
		consoleErr = r.console.Handle(ctx, rec.Clone())
	}
	if rec.Level < slog.LevelInfo {
		return consoleErr
	}

	msg := renderMessage(rec, r.attrs)
	r.state.mu.Lock()
	r.state.entries = append(r.state.entries, model.RunLogEntry{
		LogTime:    rec.Time.Truncate(time.Second),
		LogLevel:   levelString(rec.Level),
		Message:    msg,
		SourceFile: r.state.sourceFile,
	})
	r.state.mu.Unlock()
	return consoleErr
}

// WithAttrs implements slog.Handler.  Derived handlers share the capture
// buffer so that stage-scoped loggers all flush together.
func (r *Recorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	console := r.console
	if console != nil {
		console = console.WithAttrs(attrs)
	}
	merged := make([]slog.Attr, 0, len(r.attrs)+len(attrs))
	merged = append(merged, r.attrs...)
	merged = append(merged, attrs...)
	return &Recorder{state: r.state, console: console, attrs: merged}
}

// WithGroup implements slog.Handler.  Groups are flattened in the
// captured message text; the console handler keeps its own grouping.
func (r *Recorder) WithGroup(name string) slog.Handler {
	console := r.console
	if console != nil {
		console = console.WithGroup(name)
	}
	return &Recorder{state: r.state, console: console, attrs: r.attrs}
}

// Entries returns a copy of everything captured so far.
func (r *Recorder) Entries() []model.RunLogEntry {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	out := make([]model.RunLogEntry, len(r.state.entries))
	copy(out, r.state.entries)
	return out
}

// Flush persists all captured entries to the store, creating the log
// table if it does not exist yet.  Flush runs on every pipeline exit
// path; its own failure is reported to the caller but must never be
// escalated into pipeline failure.
func (r *Recorder) Flush(ctx context.Context, store Store) error {
	if err := store.EnsureTable(ctx); err != nil {
		return fmt.Errorf("ensure etl_log table: %w", err)
	}
	if err := store.Append(ctx, r.Entries()); err != nil {
		return fmt.Errorf("append etl_log entries: %w", err)
	}
	return nil
}

// renderMessage flattens the record message and its attributes into the
// single text column persisted per entry.
func renderMessage(rec slog.Record, pre []slog.Attr) string {
	var b strings.Builder
	b.WriteString(rec.Message)
	for _, a := range pre {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
	}
	rec.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
		return true
	})
	return b.String()
}

func levelString(l slog.Level) string {
	switch {
	case l >= LevelCritical:
		return model.LevelCritical
	case l >= slog.LevelError:
		return model.LevelError
	case l >= slog.LevelWarn:
		return model.LevelWarning
	default:
		return model.LevelInfo
	}
}

// SourceFileName builds the logical run name from the run start time, in
// the same shape the historical log files used.
func SourceFileName(start time.Time) string {
	return "etl_pipeline_" + start.Format("20060102_150405") + ".log"
}
