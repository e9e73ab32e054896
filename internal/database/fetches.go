package database

import "database/sql"

// InsertFetch records the outcome of fetching one record.
func (db *DB) InsertFetch(f Fetch) (int64, error) {
	result, err := db.conn.Exec(
		`INSERT INTO fetches (run_id, record_id, url, status, status_code, error, title, text_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.RunID, f.RecordID, f.URL, f.Status, f.StatusCode, f.Error, f.Title, f.TextPath,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetFetchesForRun returns the fetch outcomes of a run in insertion order.
func (db *DB) GetFetchesForRun(runID int64) ([]Fetch, error) {
	rows, err := db.conn.Query(
		`SELECT id, run_id, record_id, url, status, status_code, error, title, text_path, fetched_at
		FROM fetches WHERE run_id = ? ORDER BY id`, runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFetches(rows)
}

// GetFailedFetches returns every failed fetch of a run.
func (db *DB) GetFailedFetches(runID int64) ([]Fetch, error) {
	rows, err := db.conn.Query(
		`SELECT id, run_id, record_id, url, status, status_code, error, title, text_path, fetched_at
		FROM fetches WHERE run_id = ? AND status = ? ORDER BY id`, runID, FetchFailed,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFetches(rows)
}

func scanFetches(rows *sql.Rows) ([]Fetch, error) {
	var fetches []Fetch
	for rows.Next() {
		var f Fetch
		if err := rows.Scan(&f.ID, &f.RunID, &f.RecordID, &f.URL, &f.Status, &f.StatusCode,
			&f.Error, &f.Title, &f.TextPath, &f.FetchedAt); err != nil {
			return nil, err
		}
		fetches = append(fetches, f)
	}
	return fetches, rows.Err()
}
