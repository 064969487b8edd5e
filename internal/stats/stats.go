// Package stats provides Stats
package stats

// spellchecker:words rewritable

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/FAU-CDI/kdict/pkg/perf"
	"github.com/FAU-CDI/kdict/pkg/progress"
)

// Stats holds statistical information about the current stage of loading a dictionary.
// Updating the stats writes out detailed information to an underlying io.Writer.
//
// Stats is safe to access concurrently, however the caller is responsible for only logging to one stage at a time.
//
// A nil Stats is valid, and discards any information written to it.
type Stats struct {
	// once done, no further edits may be made.
	done atomic.Bool
	m    sync.RWMutex // m protects changes to current and all

	logger     *slog.Logger
	rewritable *progress.Rewritable

	current StageStats   // current holds information about the current stage
	all     []StageStats // all hold information about the old stages
}

// NewStats creates a new stats object that writes statistics to the given output.
// If w is nil, the returned stats do not log anything.
func NewStats(w io.Writer) *Stats {
	if w == nil {
		return &Stats{}
	}
	return NewStatsWithLogger(
		slog.New(slog.NewTextHandler(w, nil)),
		&progress.Rewritable{Writer: w, FlushInterval: progress.DefaultFlushInterval},
	)
}

// NewStatsWithLogger is like NewStats, but uses an existing logger.
// rewritable may be nil.
func NewStatsWithLogger(logger *slog.Logger, rewritable *progress.Rewritable) *Stats {
	return &Stats{
		logger:     logger,
		rewritable: rewritable,
	}
}

// Logger returns the logger used by these stats.
// It never returns nil.
func (st *Stats) Logger() *slog.Logger {
	if st == nil || st.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return st.logger
}

// Rewritable returns the rewritable associated with this status.
// It is automatically closed at the end of each stage
func (st *Stats) Rewritable() *progress.Rewritable {
	if st == nil {
		return nil
	}
	return st.rewritable
}

// All returns a copy of all stages, including the current one
func (st *Stats) All() []StageStats {
	if st == nil {
		return []StageStats{}
	}

	st.m.RLock()
	defer st.m.RUnlock()

	all := append([]StageStats{}, st.all...)
	if st.current.Stage != StageInitial {
		all = append(all, st.current)
	}
	return all
}

// Progress describes how far loading has come.
type Progress struct {
	Done bool // Done indicates if loading has finished

	Stage          Stage
	Current, Total int
}

// Progress returns information about the current stage
func (st *Stats) Progress() (progress Progress) {
	if st.Done() {
		return Progress{Done: true}
	}

	st.m.RLock()
	progress.Stage = st.current.Stage
	progress.Current = st.current.Current
	progress.Total = st.current.Total
	st.m.RUnlock()

	// check again if we're done now
	if st.Done() {
		return Progress{Done: true}
	}

	return progress
}

// Log logs an informational message with the provided key, value field pairs.
//
// When status or the associated logger are nil, no logging occurs.
func (st *Stats) Log(message string, fields ...any) {
	if st == nil || st.logger == nil {
		return
	}
	st.logger.Info(message, fields...)
}

// LogDebug logs a debug message with the provided key, value field pairs.
//
// When status or the associated logger are nil, no logging occurs.
func (st *Stats) LogDebug(message string, fields ...any) {
	if st == nil || st.logger == nil {
		return
	}
	st.logger.Debug(message, fields...)
}

// LogWarn logs a warning with the provided key, value field pairs.
//
// When status or the associated logger are nil, no logging occurs.
func (st *Stats) LogWarn(message string, fields ...any) {
	if st == nil || st.logger == nil {
		return
	}
	st.logger.Warn(message, fields...)
}

// LogError logs an error message containing the provided error and the provided key, value field pairs.
//
// When status or the associated logger are nil, no logging occurs.
func (st *Stats) LogError(message string, err error, fields ...any) {
	if st == nil || st.logger == nil {
		return
	}

	st.logger.Error("FAILED "+message, append([]any{"err", err}, fields...)...)
}

// Close marks this status as done.
// Future edits will have no effect.
func (st *Stats) Close() {
	if st == nil {
		return
	}
	st.done.Store(true)
}

// Done checks if further edits made to this status have any effect.
func (st *Stats) Done() bool {
	return st == nil || st.done.Load()
}

// Diff returns a performance diff starting at the first, and ending at the last stage.
// If status is nil, a zero diff is returned.
func (st *Stats) Diff() perf.Diff {
	if st == nil {
		return perf.Diff{}
	}

	st.m.RLock()
	defer st.m.RUnlock()

	if len(st.all) == 0 {
		return st.current.Diff()
	}

	first := st.all[0].Start
	last := st.all[len(st.all)-1].End
	for _, ss := range st.all {
		if ss.Start.Time.Before(first.Time) {
			first = ss.Start
		}
		if ss.End.Time.After(last.Time) {
			last = ss.End
		}
	}
	return last.Sub(first)
}

// Reset ends the current stage, and forgets about all finished stages.
//
// If st is done or nil, this function has no effect.
func (st *Stats) Reset() {
	if st == nil || st.done.Load() {
		return
	}

	st.m.Lock()
	defer st.m.Unlock()

	st.end()
	st.all = nil
}

// Start starts a new stage, ending the previous one.
//
// If st is done or nil, this function has no effect.
func (st *Stats) Start(stage Stage) {
	if st == nil || st.done.Load() {
		return
	}

	st.m.Lock()
	defer st.m.Unlock()

	st.end()

	st.current.Stage = stage
	st.current.Start = perf.Now()

	if st.logger != nil {
		st.logger.Info("start", "stage", stage)
	}
}

// End ends the current stage if any.
//
// If st is nil, this function has no effect.
func (st *Stats) End() (prev StageStats) {
	if st == nil || st.done.Load() {
		return
	}

	st.m.Lock()
	defer st.m.Unlock()

	return st.end()
}

// end implements End.
// st must not be nil st.m must be held for writing.
func (st *Stats) end() (prev StageStats) {
	if st.current.Stage == StageInitial {
		return
	}

	st.current.End = perf.Now()
	st.all = append(st.all, st.current)
	prev = st.current
	st.current = StageStats{}

	if st.rewritable != nil {
		st.rewritable.Close()
	}

	if st.logger != nil {
		if prev.Total != 0 || prev.Current != 0 {
			st.logger.Info("end", "stage", prev.Stage, "took", prev.Diff(), "current", prev.Current, "total", prev.Total)
		} else {
			st.logger.Info("end", "stage", prev.Stage, "took", prev.Diff())
		}
	}
	return
}

// DoStage is a convenience wrapper to start a new stage, call f, and log the resulting error if any.
//
// If st is nil, immediately invokes f.
func (st *Stats) DoStage(stage Stage, f func() error) error {
	if st == nil || st.done.Load() {
		return f()
	}

	st.Start(stage)
	err := f()
	st.End()

	if err != nil {
		st.LogError("stage", err, "stage", stage)
	}
	return err
}

// SetCT sets the current and total for the current stage.
// It the status is nil, or the status is done, has no effect.
func (st *Stats) SetCT(current, total int) {
	if st == nil || st.done.Load() {
		return
	}

	var progress string

	st.m.Lock()
	st.current.Current = current
	st.current.Total = total
	progress = st.current.Progress()
	st.m.Unlock()

	if st.rewritable != nil {
		st.rewritable.Write(progress)
	}
}

// StageStats holds the stats for a specific stage
type StageStats struct {
	Stage Stage

	Start perf.Snapshot // At the start of the stage
	End   perf.Snapshot // At the end of the stage

	Current int
	Total   int
}

// Progress returns a string holding progress information on the current stage
func (ss StageStats) Progress() string {
	if ss.Total == 0 {
		return ""
	}
	if ss.Current < ss.Total {
		return fmt.Sprintf("%s: %d/%d", string(ss.Stage), ss.Current, ss.Total)
	}
	return fmt.Sprintf("%s: %d", string(ss.Stage), ss.Current)
}

// Diff returns a diff of the given stage
func (ss StageStats) Diff() perf.Diff {
	return ss.End.Sub(ss.Start)
}

// Stage represents a stage used for statistics
type Stage string

const (
	StageInitial   Stage = ""
	StageFetch     Stage = "fetch"
	StageNormalize Stage = "normalize"
	StageIndex     Stage = "index"
	StageSearch    Stage = "search"
	StageExportSQL Stage = "export/sql"
	StageHandler   Stage = "handler"
)
