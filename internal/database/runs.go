package database

import "database/sql"

const runColumns = `id, kind, started_at, finished_at, processed, failed, aborted, error`

// StartRun opens a new run of the given kind and returns its ID.
func (db *DB) StartRun(kind string) (int64, error) {
	result, err := db.conn.Exec("INSERT INTO runs (kind) VALUES (?)", kind)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// FinishRun stamps a run as finished with its counts.
func (db *DB) FinishRun(runID int64, processed, failed int) error {
	_, err := db.conn.Exec(
		`UPDATE runs SET finished_at = datetime('now'), processed = ?, failed = ? WHERE id = ?`,
		processed, failed, runID,
	)
	return err
}

// AbortRun stamps a run as finished without output, recording why it stopped.
func (db *DB) AbortRun(runID int64, processed, failed int, reason string) error {
	_, err := db.conn.Exec(
		`UPDATE runs SET finished_at = datetime('now'), processed = ?, failed = ?, aborted = 1, error = ?
		WHERE id = ?`,
		processed, failed, reason, runID,
	)
	return err
}

// GetRun returns a run by ID, or nil if it does not exist.
func (db *DB) GetRun(runID int64) (*Run, error) {
	row := db.conn.QueryRow(
		`SELECT `+runColumns+` FROM runs WHERE id = ?`, runID,
	)
	return scanRun(row)
}

// GetLatestRun returns the most recent completed run of a kind, or nil.
// Unfinished and aborted runs are ignored.
func (db *DB) GetLatestRun(kind string) (*Run, error) {
	row := db.conn.QueryRow(
		`SELECT `+runColumns+` FROM runs
		WHERE kind = ? AND finished_at IS NOT NULL AND aborted = 0 ORDER BY id DESC LIMIT 1`, kind,
	)
	return scanRun(row)
}

// GetStats returns aggregate ledger statistics.
func (db *DB) GetStats() (*Stats, error) {
	s := &Stats{}
	queries := []struct {
		query string
		args  []any
		dest  *int
	}{
		{"SELECT COUNT(*) FROM runs WHERE kind = ?", []any{KindExtract}, &s.ExtractRuns},
		{"SELECT COUNT(*) FROM runs WHERE kind = ?", []any{KindAnalyze}, &s.AnalyzeRuns},
		{"SELECT COUNT(*) FROM fetches WHERE status = ?", []any{FetchOK}, &s.FetchesOK},
		{"SELECT COUNT(*) FROM fetches WHERE status = ?", []any{FetchFailed}, &s.FetchesFailed},
		{"SELECT COUNT(*) FROM fetches WHERE status = ?", []any{FetchSkipped}, &s.FetchesSkipped},
		{"SELECT COUNT(DISTINCT document_id) FROM metrics", nil, &s.DocumentsScored},
	}
	for _, q := range queries {
		if err := db.conn.QueryRow(q.query, q.args...).Scan(q.dest); err != nil {
			return nil, err
		}
	}

	last, err := db.GetLatestRun(KindAnalyze)
	if err != nil {
		return nil, err
	}
	s.LastAnalyzeRun = last
	return s, nil
}

func scanRun(row *sql.Row) (*Run, error) {
	var r Run
	err := row.Scan(&r.ID, &r.Kind, &r.StartedAt, &r.FinishedAt, &r.Processed, &r.Failed, &r.Aborted, &r.Error)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}
