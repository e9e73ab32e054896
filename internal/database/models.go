package database

import "github.com/TobiSchelling/textmetrics/internal/metrics"

// Run kinds.
const (
	KindExtract = "extract"
	KindAnalyze = "analyze"
)

// Fetch statuses.
const (
	FetchOK      = "ok"
	FetchFailed  = "failed"
	FetchSkipped = "skipped"
)

// Run is one execution of the extract or analyze task. An aborted run has a
// FinishedAt but its output was not written.
type Run struct {
	ID         int64
	Kind       string
	StartedAt  *string
	FinishedAt *string
	Processed  int
	Failed     int
	Aborted    bool
	Error      *string
}

// Fetch records the outcome of fetching one input record.
type Fetch struct {
	ID         int64
	RunID      int64
	RecordID   string
	URL        string
	Status     string
	StatusCode int
	Error      *string
	Title      *string
	TextPath   *string
	FetchedAt  *string
}

// DocumentMetrics is the metrics row computed for a document in a run.
type DocumentMetrics struct {
	RunID      int64
	DocumentID string
	RowIndex   int
	Row        metrics.Row
	ComputedAt *string
}

// Stats contains aggregate ledger statistics.
type Stats struct {
	ExtractRuns     int
	AnalyzeRuns     int
	FetchesOK       int
	FetchesFailed   int
	FetchesSkipped  int
	DocumentsScored int
	LastAnalyzeRun  *Run
}
