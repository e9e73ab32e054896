package metrics

import (
	"strings"

	"github.com/TobiSchelling/textmetrics/internal/lexicon"
)

// epsilon keeps the polarity and subjectivity denominators non-zero.
const epsilon = 1e-6

// Sentiment holds dictionary-based sentiment scores for a text.
type Sentiment struct {
	Positive     int
	Negative     int
	Polarity     float64
	Subjectivity float64
	// Tokens is the number of tokens left after stop-word removal.
	Tokens int
}

// AnalyzeSentiment counts positive and negative words among the non-stop-word
// whitespace tokens of text.
func AnalyzeSentiment(text string, lex *lexicon.Lexicon) Sentiment {
	var s Sentiment
	for _, tok := range strings.Fields(text) {
		if lex.IsStopWord(tok) {
			continue
		}
		s.Tokens++
		w := strings.ToLower(tok)
		if lex.IsPositive(w) {
			s.Positive++
		}
		if lex.IsNegative(w) {
			s.Negative++
		}
	}

	total := s.Positive + s.Negative
	if total == 0 {
		return s
	}
	s.Polarity = float64(s.Positive-s.Negative) / (float64(total) + epsilon)
	s.Subjectivity = float64(total) / (float64(s.Tokens) + epsilon)
	return s
}
