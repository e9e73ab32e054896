// Package lexicon loads the stop-word and sentiment word lists used for scoring.
package lexicon

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode"

	"github.com/bbalet/stopwords"
)

// Sources names the word-list files that make up a lexicon.
type Sources struct {
	StopWords []string
	Positive  string
	Negative  string
	// Builtin is an ISO 639-1 code of a bundled stop-word list, or empty.
	Builtin string
}

// Lexicon holds the stop, positive and negative word sets. Entries are lower-case
// and every lookup lower-cases its argument, so matching is case-insensitive.
type Lexicon struct {
	stop     map[string]struct{}
	positive map[string]struct{}
	negative map[string]struct{}
	builtin  string
}

// New builds a lexicon from in-memory word lists. Positive and negative words
// that are also stop words are dropped.
func New(stop, positive, negative []string) *Lexicon {
	lex := &Lexicon{
		stop:     make(map[string]struct{}, len(stop)),
		positive: make(map[string]struct{}, len(positive)),
		negative: make(map[string]struct{}, len(negative)),
	}
	for _, w := range stop {
		lex.stop[strings.ToLower(w)] = struct{}{}
	}
	lex.positive = lex.withoutStopWords(toSet(positive))
	lex.negative = lex.withoutStopWords(toSet(negative))
	return lex
}

// LoadDictionaries reads every configured list. A missing or unreadable file is
// logged and contributes nothing; it never aborts the run.
func LoadDictionaries(src Sources, logger *slog.Logger) *Lexicon {
	lex := &Lexicon{
		stop:    make(map[string]struct{}),
		builtin: src.Builtin,
	}
	for _, path := range src.StopWords {
		for w := range loadOrEmpty(path, logger) {
			lex.stop[w] = struct{}{}
		}
	}
	lex.positive = lex.withoutStopWords(loadOrEmpty(src.Positive, logger))
	lex.negative = lex.withoutStopWords(loadOrEmpty(src.Negative, logger))

	logger.Info("lexicon loaded",
		"stop_words", len(lex.stop),
		"positive", len(lex.positive),
		"negative", len(lex.negative),
		"builtin", src.Builtin,
	)
	return lex
}

// LoadWords reads a newline-delimited word list. Blank lines and lines starting
// with ';' are skipped, and anything after a '|' is treated as an annotation.
func LoadWords(path string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening word list: %w", err)
	}
	defer f.Close()

	words := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '|'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		words[strings.ToLower(line)] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading word list %s: %w", path, err)
	}
	return words, nil
}

func loadOrEmpty(path string, logger *slog.Logger) map[string]struct{} {
	if path == "" {
		return map[string]struct{}{}
	}
	words, err := LoadWords(path)
	if err != nil {
		logger.Error("word list unavailable, continuing without it", "path", path, "err", err)
		return map[string]struct{}{}
	}
	return words
}

func (l *Lexicon) withoutStopWords(words map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(words))
	for w := range words {
		if !l.IsStopWord(w) {
			out[w] = struct{}{}
		}
	}
	return out
}

// IsStopWord reports whether the lower-cased token is an entry of any stop-word
// source.
func (l *Lexicon) IsStopWord(token string) bool {
	w := strings.ToLower(token)
	if _, ok := l.stop[w]; ok {
		return true
	}
	return l.builtin != "" && inBuiltinList(w, l.builtin)
}

// inBuiltinList reports whether w is itself an entry of the bundled list for
// lang. The package only exposes its lists through CleanString, whose segmenter
// keeps runs of letters, marks and apostrophes. For a token made only of those
// runes the segmenter returns the token whole, so an empty result means the
// token is a list entry. Anything else (numbers, amounts, punctuation) is never
// a list entry.
func inBuiltinList(w, lang string) bool {
	if !isListWord(w) {
		return false
	}
	return strings.TrimSpace(stopwords.CleanString(w, lang, false)) == ""
}

func isListWord(w string) bool {
	letters := false
	for _, r := range w {
		switch {
		case unicode.IsLetter(r):
			letters = true
		case unicode.In(r, unicode.Mn, unicode.Mc), r == '\'':
		default:
			return false
		}
	}
	return letters
}

// IsPositive reports whether the token is a positive word.
func (l *Lexicon) IsPositive(token string) bool {
	_, ok := l.positive[strings.ToLower(token)]
	return ok
}

// IsNegative reports whether the token is a negative word.
func (l *Lexicon) IsNegative(token string) bool {
	_, ok := l.negative[strings.ToLower(token)]
	return ok
}

// PositiveWords returns the positive set. Callers must not modify it.
func (l *Lexicon) PositiveWords() map[string]struct{} {
	return l.positive
}

// Size returns the number of stop, positive and negative entries.
func (l *Lexicon) Size() (stop, positive, negative int) {
	return len(l.stop), len(l.positive), len(l.negative)
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}
