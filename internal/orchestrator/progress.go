package orchestrator

import "time"

// Progress is a structured snapshot of a stage's run, emitted after every
// page result and once more at stage end.
type Progress struct {
	Completed int
	Failed    int
	Total     int

	Elapsed            time.Duration
	AvgPerItem         time.Duration
	EstimatedRemaining time.Duration
}

// newProgress computes a Progress snapshot from raw counters.
func newProgress(completed, failed, total int, started time.Time) Progress {
	elapsed := time.Since(started)
	done := completed + failed
	p := Progress{Completed: completed, Failed: failed, Total: total, Elapsed: elapsed}
	if done > 0 {
		p.AvgPerItem = elapsed / time.Duration(done)
		remaining := total - done
		if remaining > 0 {
			p.EstimatedRemaining = p.AvgPerItem * time.Duration(remaining)
		}
	}
	return p
}

// StageResult is the operator-observable summary of a completed stage run
// .
type StageResult struct {
	PagesSucceeded  int
	PagesFailed     int
	ChaptersSkipped int
}

// ProgressFunc receives a Progress snapshot; callers may render it, log it,
// or ignore it.
type ProgressFunc func(Progress)
