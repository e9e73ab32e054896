// Package metrics computes the sentiment, readability and lexical figures
// reported for every document.
package metrics

import (
	"github.com/jonreiter/govader"

	"github.com/TobiSchelling/textmetrics/internal/lexicon"
)

// Columns are the output table headers for Row.Values, in order.
var Columns = []string{
	"POSITIVE SCORE",
	"NEGATIVE SCORE",
	"POLARITY SCORE",
	"SUBJECTIVITY SCORE",
	"AVG SENTENCE LENGTH",
	"PERCENTAGE OF COMPLEX WORDS",
	"FOG INDEX",
	"AVG NUMBER OF WORDS PER SENTENCE",
	"COMPLEX WORD COUNT",
	"WORD COUNT",
	"SYLLABLE PER WORD",
	"PERSONAL PRONOUNS",
	"AVG WORD LENGTH",
}

// Row is the full set of figures for one document.
type Row struct {
	PositiveScore        int
	NegativeScore        int
	PolarityScore        float64
	SubjectivityScore    float64
	AvgSentenceLength    float64
	PercentComplexWords  float64
	FogIndex             float64
	AvgWordsPerSentence  float64
	ComplexWordCountAlt  int
	WordCount            int
	SyllablesPerWord     float64
	PersonalPronounCount int
	AvgWordLength        float64

	// Not part of the table.
	SentenceCount int
	VaderCompound float64
}

// Values returns the 13 table figures in Columns order.
func (r Row) Values() []float64 {
	return []float64{
		float64(r.PositiveScore),
		float64(r.NegativeScore),
		r.PolarityScore,
		r.SubjectivityScore,
		r.AvgSentenceLength,
		r.PercentComplexWords,
		r.FogIndex,
		r.AvgWordsPerSentence,
		float64(r.ComplexWordCountAlt),
		float64(r.WordCount),
		r.SyllablesPerWord,
		float64(r.PersonalPronounCount),
		r.AvgWordLength,
	}
}

// Analyzer scores documents against a fixed lexicon.
type Analyzer struct {
	lex   *lexicon.Lexicon
	split SentenceSplitter
	vader *govader.SentimentIntensityAnalyzer
}

// NewAnalyzer creates an analyzer. The lexicon is shared across every document.
func NewAnalyzer(lex *lexicon.Lexicon, split SentenceSplitter) *Analyzer {
	return &Analyzer{
		lex:   lex,
		split: split,
		vader: govader.NewSentimentIntensityAnalyzer(),
	}
}

// Analyze computes the Row for a document's text.
func (a *Analyzer) Analyze(text string) Row {
	sent := AnalyzeSentiment(text, a.lex)
	read := AnalyzeReadability(text, a.split)
	words := CountWords(text)

	row := Row{
		PositiveScore:        sent.Positive,
		NegativeScore:        sent.Negative,
		PolarityScore:        sent.Polarity,
		SubjectivityScore:    sent.Subjectivity,
		AvgSentenceLength:    read.AvgSentenceLength,
		PercentComplexWords:  read.PercentComplexWords,
		FogIndex:             read.FogIndex,
		ComplexWordCountAlt:  CountComplexWordsAlt(text),
		WordCount:            words,
		SyllablesPerWord:     SyllablesPerWord(text, a.lex.PositiveWords()),
		PersonalPronounCount: FindPersonalPronouns(text),
		AvgWordLength:        AvgWordLength(text),
		SentenceCount:        read.Sentences,
	}
	if read.Sentences > 0 {
		row.AvgWordsPerSentence = float64(words) / float64(read.Sentences)
	}
	if words > 0 {
		row.VaderCompound = a.vader.PolarityScores(text).Compound
	}
	return row
}
