package lexicon

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/TobiSchelling/textmetrics/internal/logging"
)

func writeList(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadWordsSkipsCommentsAndAnnotations(t *testing.T) {
	dir := t.TempDir()
	path := writeList(t, dir, "list.txt", "; header comment\n\nSMITH | Surnames from 1990 census\nAbout\n  the  \n")

	words, err := LoadWords(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(words) != 3 {
		t.Fatalf("expected 3 words, got %d: %v", len(words), words)
	}
	for _, w := range []string{"smith", "about", "the"} {
		if _, ok := words[w]; !ok {
			t.Errorf("expected %q in word list", w)
		}
	}
}

func TestLoadWordsMissingFile(t *testing.T) {
	if _, err := LoadWords(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadDictionaries(t *testing.T) {
	dir := t.TempDir()
	stopA := writeList(t, dir, "stop_a.txt", "THE\nAND\n")
	stopB := writeList(t, dir, "stop_b.txt", "WELL\n")
	pos := writeList(t, dir, "positive.txt", ";comment\ngood\nwell\ngreat\n")
	neg := writeList(t, dir, "negative.txt", "bad\nand\n")

	lex := LoadDictionaries(Sources{
		StopWords: []string{stopA, stopB, filepath.Join(dir, "missing.txt")},
		Positive:  pos,
		Negative:  neg,
	}, logging.Discard())

	stop, positive, negative := lex.Size()
	if stop != 3 {
		t.Errorf("expected 3 stop words, got %d", stop)
	}
	if positive != 2 {
		t.Errorf("expected 2 positive words after stop-word removal, got %d", positive)
	}
	if negative != 1 {
		t.Errorf("expected 1 negative word after stop-word removal, got %d", negative)
	}
	if lex.IsPositive("well") {
		t.Error("'well' is a stop word and must not be positive")
	}
	if !lex.IsStopWord("the") || !lex.IsStopWord("The") {
		t.Error("stop-word matching should be case-insensitive")
	}
	if !lex.IsPositive("GOOD") {
		t.Error("positive matching should be case-insensitive")
	}
	if !lex.IsNegative("Bad") {
		t.Error("negative matching should be case-insensitive")
	}
}

func TestLoadDictionariesAllMissing(t *testing.T) {
	dir := t.TempDir()
	lex := LoadDictionaries(Sources{
		StopWords: []string{filepath.Join(dir, "a.txt")},
		Positive:  filepath.Join(dir, "p.txt"),
		Negative:  filepath.Join(dir, "n.txt"),
	}, logging.Discard())

	stop, positive, negative := lex.Size()
	if stop+positive+negative != 0 {
		t.Errorf("expected empty lexicon, got %d/%d/%d", stop, positive, negative)
	}
}

func TestNewExcludesStopWords(t *testing.T) {
	lex := New([]string{"Fine"}, []string{"good", "fine"}, []string{"bad"})
	if lex.IsPositive("fine") {
		t.Error("expected 'fine' to be excluded as a stop word")
	}
	if !lex.IsPositive("good") {
		t.Error("expected 'good' to be positive")
	}
	if _, ok := lex.PositiveWords()["good"]; !ok {
		t.Error("expected 'good' in positive set")
	}
}

func TestBuiltinStopWords(t *testing.T) {
	lex := &Lexicon{stop: map[string]struct{}{}, builtin: "en"}
	if !lex.IsStopWord("the") {
		t.Error("expected built-in English list to contain 'the'")
	}
	if lex.IsStopWord("profitability") {
		t.Error("did not expect 'profitability' to be a built-in stop word")
	}
	if !lex.IsStopWord("About") {
		t.Error("expected built-in lookup to be case-insensitive")
	}
}

func TestBuiltinStopWordsOnlyMatchListEntries(t *testing.T) {
	lex := &Lexicon{stop: map[string]struct{}{}, builtin: "en"}
	for _, tok := range []string{"2023", "$100", "50%", "—", "-", "the,", "good,"} {
		if lex.IsStopWord(tok) {
			t.Errorf("%q is not in the built-in list and should not be a stop word", tok)
		}
	}
}

func TestBuiltinStopWordsKeepSubjectivityDenominator(t *testing.T) {
	lex := New(nil, []string{"gain"}, nil)
	lex.builtin = "en"

	tokens := 0
	for _, tok := range strings.Fields("the gain was $100 in 2023") {
		if !lex.IsStopWord(tok) {
			tokens++
		}
	}
	// "the", "was" and "in" are list entries.
	if tokens != 3 {
		t.Errorf("expected gain, $100 and 2023 to be kept, got %d tokens", tokens)
	}
}
