package metrics

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"gonum.org/v1/gonum/stat"
)

var pronounPattern = regexp.MustCompile(`(?i)\b(?:i|we|my|ours|us)\b`)

// CountWords returns the number of whitespace-separated tokens.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// FindPersonalPronouns counts whole-word, case-insensitive occurrences of
// I, we, my, ours and us.
func FindPersonalPronouns(text string) int {
	return len(pronounPattern.FindAllStringIndex(text, -1))
}

// AvgWordLength returns the mean rune length of the whitespace tokens.
func AvgWordLength(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}
	lengths := make([]float64, len(words))
	for i, w := range words {
		lengths[i] = float64(utf8.RuneCountInString(w))
	}
	return stat.Mean(lengths, nil)
}

// SyllablesPerWord returns the mean CountSyllables over the whitespace tokens.
func SyllablesPerWord(text string, exclude map[string]struct{}) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}
	counts := make([]float64, len(words))
	for i, w := range words {
		counts[i] = float64(CountSyllables(w, exclude))
	}
	return stat.Mean(counts, nil)
}

// CountComplexWordsAlt counts tokens with more than two syllables according to
// CountSyllablesAlt.
func CountComplexWordsAlt(text string) int {
	n := 0
	for _, w := range strings.Fields(text) {
		if CountSyllablesAlt(w) > 2 {
			n++
		}
	}
	return n
}
