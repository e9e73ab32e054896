package database

import (
	"path/filepath"
	"testing"

	"github.com/TobiSchelling/textmetrics/internal/metrics"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func ptr(s string) *string { return &s }

func TestRunLifecycle(t *testing.T) {
	db := openTestDB(t)

	id, err := db.StartRun(KindAnalyze)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero run ID")
	}

	latest, err := db.GetLatestRun(KindAnalyze)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest != nil {
		t.Error("unfinished run should not be reported as latest")
	}

	if err := db.FinishRun(id, 5, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	latest, _ = db.GetLatestRun(KindAnalyze)
	if latest == nil || latest.ID != id {
		t.Fatalf("expected latest run %d, got %+v", id, latest)
	}
	if latest.Processed != 5 || latest.Failed != 1 || latest.FinishedAt == nil {
		t.Errorf("unexpected run %+v", latest)
	}

	missing, err := db.GetRun(9999)
	if err != nil || missing != nil {
		t.Errorf("expected nil run for unknown id, got %+v, %v", missing, err)
	}
}

func TestAbortRun(t *testing.T) {
	db := openTestDB(t)

	done, _ := db.StartRun(KindAnalyze)
	db.FinishRun(done, 3, 0)

	id, _ := db.StartRun(KindAnalyze)
	if err := db.AbortRun(id, 1, 0, "context canceled"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	run, err := db.GetRun(id)
	if err != nil || run == nil {
		t.Fatalf("expected aborted run, got %+v, %v", run, err)
	}
	if !run.Aborted || run.FinishedAt == nil || run.Error == nil || *run.Error != "context canceled" {
		t.Errorf("unexpected aborted run %+v", run)
	}
	if run.Processed != 1 {
		t.Errorf("expected processed 1, got %d", run.Processed)
	}

	latest, _ := db.GetLatestRun(KindAnalyze)
	if latest == nil || latest.ID != done {
		t.Errorf("aborted run should not be latest, got %+v", latest)
	}
	if latest != nil && latest.Aborted {
		t.Error("completed run reported as aborted")
	}
}

func TestStartRunRejectsUnknownKind(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.StartRun("triage"); err == nil {
		t.Error("expected check constraint failure")
	}
}

func TestFetchLifecycle(t *testing.T) {
	db := openTestDB(t)
	runID, _ := db.StartRun(KindExtract)

	db.InsertFetch(Fetch{RunID: runID, RecordID: "1", URL: "https://a.com", Status: FetchOK,
		StatusCode: 200, Title: ptr("A"), TextPath: ptr("extracted_texts/1.txt")})
	db.InsertFetch(Fetch{RunID: runID, RecordID: "2", URL: "https://b.com", Status: FetchFailed,
		StatusCode: 404, Error: ptr("Not Found")})

	all, err := db.GetFetchesForRun(runID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 fetches, got %d", len(all))
	}
	if all[0].RecordID != "1" || all[0].Title == nil || *all[0].Title != "A" {
		t.Errorf("unexpected first fetch %+v", all[0])
	}

	failed, _ := db.GetFailedFetches(runID)
	if len(failed) != 1 || failed[0].StatusCode != 404 {
		t.Errorf("expected one 404 failure, got %+v", failed)
	}
}

func TestMetricsLifecycle(t *testing.T) {
	db := openTestDB(t)
	runID, _ := db.StartRun(KindAnalyze)

	row := metrics.Row{
		PositiveScore:        3,
		NegativeScore:        1,
		PolarityScore:        0.5,
		SubjectivityScore:    0.1,
		AvgSentenceLength:    12.5,
		PercentComplexWords:  20,
		FogIndex:             13,
		AvgWordsPerSentence:  12.5,
		ComplexWordCountAlt:  7,
		WordCount:            50,
		SyllablesPerWord:     1.6,
		PersonalPronounCount: 2,
		AvgWordLength:        4.7,
		SentenceCount:        4,
		VaderCompound:        0.42,
	}
	if err := db.InsertMetrics(runID, "b", 3, row); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := db.InsertMetrics(runID, "a", 2, metrics.Row{WordCount: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all, err := db.GetMetricsForRun(runID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 || all[0].DocumentID != "a" {
		t.Fatalf("expected rows ordered by row index, got %+v", all)
	}

	got, err := db.GetDocumentMetrics(runID, "b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("expected stored metrics")
	}
	if got.Row != row {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got.Row, row)
	}
	if got.RowIndex != 3 {
		t.Errorf("expected row index 3, got %d", got.RowIndex)
	}

	none, err := db.GetDocumentMetrics(runID, "zzz")
	if err != nil || none != nil {
		t.Errorf("expected nil for unknown document, got %+v, %v", none, err)
	}
}

func TestGetStats(t *testing.T) {
	db := openTestDB(t)
	ex, _ := db.StartRun(KindExtract)
	db.InsertFetch(Fetch{RunID: ex, RecordID: "1", URL: "u", Status: FetchOK})
	db.InsertFetch(Fetch{RunID: ex, RecordID: "2", URL: "u", Status: FetchFailed})
	db.InsertFetch(Fetch{RunID: ex, RecordID: "", URL: "", Status: FetchSkipped})
	db.FinishRun(ex, 1, 1)

	an, _ := db.StartRun(KindAnalyze)
	db.InsertMetrics(an, "1", 2, metrics.Row{})
	db.FinishRun(an, 1, 0)

	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.ExtractRuns != 1 || stats.AnalyzeRuns != 1 {
		t.Errorf("unexpected run counts %+v", stats)
	}
	if stats.FetchesOK != 1 || stats.FetchesFailed != 1 || stats.FetchesSkipped != 1 {
		t.Errorf("unexpected fetch counts %+v", stats)
	}
	if stats.DocumentsScored != 1 {
		t.Errorf("expected 1 scored document, got %d", stats.DocumentsScored)
	}
	if stats.LastAnalyzeRun == nil || stats.LastAnalyzeRun.ID != an {
		t.Errorf("expected last analyze run %d, got %+v", an, stats.LastAnalyzeRun)
	}
}
