package database

import "database/sql"

// Migration represents a single schema migration step.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// migrations is the ordered list of all schema migrations.
// Append new migrations to the end with incrementing Version numbers.
var migrations = []Migration{
	{
		Version:     1,
		Description: "initial schema",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    kind TEXT NOT NULL CHECK(kind IN ('extract', 'analyze')),
    started_at TEXT DEFAULT (datetime('now')),
    finished_at TEXT,
    processed INTEGER DEFAULT 0,
    failed INTEGER DEFAULT 0
);

CREATE TABLE IF NOT EXISTS fetches (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL REFERENCES runs(id),
    record_id TEXT NOT NULL,
    url TEXT NOT NULL,
    status TEXT NOT NULL CHECK(status IN ('ok', 'failed', 'skipped')),
    status_code INTEGER DEFAULT 0,
    error TEXT,
    title TEXT,
    text_path TEXT,
    fetched_at TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS metrics (
    run_id INTEGER NOT NULL REFERENCES runs(id),
    document_id TEXT NOT NULL,
    row_index INTEGER NOT NULL,
    positive_score INTEGER NOT NULL,
    negative_score INTEGER NOT NULL,
    polarity_score REAL NOT NULL,
    subjectivity_score REAL NOT NULL,
    avg_sentence_length REAL NOT NULL,
    percentage_complex_words REAL NOT NULL,
    fog_index REAL NOT NULL,
    avg_words_per_sentence REAL NOT NULL,
    complex_word_count INTEGER NOT NULL,
    word_count INTEGER NOT NULL,
    syllables_per_word REAL NOT NULL,
    personal_pronouns INTEGER NOT NULL,
    avg_word_length REAL NOT NULL,
    sentence_count INTEGER DEFAULT 0,
    vader_compound REAL DEFAULT 0,
    computed_at TEXT DEFAULT (datetime('now')),
    PRIMARY KEY (run_id, document_id)
);

CREATE INDEX IF NOT EXISTS idx_runs_kind ON runs(kind);
CREATE INDEX IF NOT EXISTS idx_fetches_run ON fetches(run_id);
CREATE INDEX IF NOT EXISTS idx_fetches_record ON fetches(record_id);
CREATE INDEX IF NOT EXISTS idx_metrics_document ON metrics(document_id);
`)
			return err
		},
	},
	{
		Version:     2,
		Description: "record aborted runs",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
ALTER TABLE runs ADD COLUMN aborted INTEGER DEFAULT 0;
ALTER TABLE runs ADD COLUMN error TEXT;
`)
			return err
		},
	},
}

// latestVersion returns the highest migration version number.
func latestVersion() int {
	if len(migrations) == 0 {
		return 0
	}
	return migrations[len(migrations)-1].Version
}
