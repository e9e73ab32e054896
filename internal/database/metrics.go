package database

import (
	"database/sql"

	"github.com/TobiSchelling/textmetrics/internal/metrics"
)

const metricsColumns = `run_id, document_id, row_index, positive_score, negative_score,
	polarity_score, subjectivity_score, avg_sentence_length, percentage_complex_words,
	fog_index, avg_words_per_sentence, complex_word_count, word_count, syllables_per_word,
	personal_pronouns, avg_word_length, sentence_count, vader_compound, computed_at`

// InsertMetrics stores the row computed for a document in a run.
func (db *DB) InsertMetrics(runID int64, documentID string, rowIndex int, r metrics.Row) error {
	_, err := db.conn.Exec(
		`INSERT OR REPLACE INTO metrics (run_id, document_id, row_index, positive_score, negative_score,
		polarity_score, subjectivity_score, avg_sentence_length, percentage_complex_words,
		fog_index, avg_words_per_sentence, complex_word_count, word_count, syllables_per_word,
		personal_pronouns, avg_word_length, sentence_count, vader_compound)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, documentID, rowIndex, r.PositiveScore, r.NegativeScore,
		r.PolarityScore, r.SubjectivityScore, r.AvgSentenceLength, r.PercentComplexWords,
		r.FogIndex, r.AvgWordsPerSentence, r.ComplexWordCountAlt, r.WordCount, r.SyllablesPerWord,
		r.PersonalPronounCount, r.AvgWordLength, r.SentenceCount, r.VaderCompound,
	)
	return err
}

// GetMetricsForRun returns all rows of a run ordered by output row.
func (db *DB) GetMetricsForRun(runID int64) ([]DocumentMetrics, error) {
	rows, err := db.conn.Query(
		`SELECT `+metricsColumns+` FROM metrics WHERE run_id = ? ORDER BY row_index`, runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DocumentMetrics
	for rows.Next() {
		m, err := scanMetrics(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// GetDocumentMetrics returns one document's row in a run, or nil.
func (db *DB) GetDocumentMetrics(runID int64, documentID string) (*DocumentMetrics, error) {
	row := db.conn.QueryRow(
		`SELECT `+metricsColumns+` FROM metrics WHERE run_id = ? AND document_id = ?`, runID, documentID,
	)
	m, err := scanMetrics(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMetrics(s scanner) (*DocumentMetrics, error) {
	var m DocumentMetrics
	r := &m.Row
	if err := s.Scan(&m.RunID, &m.DocumentID, &m.RowIndex, &r.PositiveScore, &r.NegativeScore,
		&r.PolarityScore, &r.SubjectivityScore, &r.AvgSentenceLength, &r.PercentComplexWords,
		&r.FogIndex, &r.AvgWordsPerSentence, &r.ComplexWordCountAlt, &r.WordCount, &r.SyllablesPerWord,
		&r.PersonalPronounCount, &r.AvgWordLength, &r.SentenceCount, &r.VaderCompound, &m.ComputedAt); err != nil {
		return nil, err
	}
	return &m, nil
}
