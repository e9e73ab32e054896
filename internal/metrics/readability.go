package metrics

import (
	"fmt"
	"strings"

	"gopkg.in/neurosnap/sentences.v1/english"
)

// SentenceSplitter segments text into sentences.
type SentenceSplitter func(text string) []string

// NewPunktSplitter returns a splitter backed by the English punkt model, which
// knows common abbreviations and does not break on them.
func NewPunktSplitter() (SentenceSplitter, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("loading punkt model: %w", err)
	}
	return func(text string) []string {
		var out []string
		for _, s := range tokenizer.Tokenize(text) {
			if t := strings.TrimSpace(s.Text); t != "" {
				out = append(out, t)
			}
		}
		return out
	}, nil
}

// Readability holds the Gunning-Fog style readability figures for a text.
type Readability struct {
	AvgSentenceLength   float64
	PercentComplexWords float64
	FogIndex            float64
	Sentences           int
	Words               int
	ComplexWords        int
}

// AnalyzeReadability computes sentence length, complex-word percentage and fog
// index. Texts with no sentences or no words score zero throughout.
func AnalyzeReadability(text string, split SentenceSplitter) Readability {
	r := Readability{Sentences: len(split(text))}
	if r.Sentences == 0 {
		return r
	}

	words := strings.Fields(text)
	r.Words = len(words)
	if r.Words == 0 {
		return r
	}

	for _, w := range words {
		if CountSyllables(w, nil) > 2 {
			r.ComplexWords++
		}
	}

	r.AvgSentenceLength = float64(r.Words) / float64(r.Sentences)
	r.PercentComplexWords = 100 * float64(r.ComplexWords) / float64(r.Words)
	r.FogIndex = 0.4 * (r.AvgSentenceLength + r.PercentComplexWords)
	return r
}
