// Package report renders the metrics of an analyze run as markdown.
package report

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/TobiSchelling/textmetrics/internal/database"
	"github.com/TobiSchelling/textmetrics/internal/metrics"
)

// Stat summarizes one metric column across the documents of a run.
type Stat struct {
	Column string
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summarize computes per-column statistics in metrics.Columns order. It
// returns nil when there are no documents.
func Summarize(docs []database.DocumentMetrics) []Stat {
	if len(docs) == 0 {
		return nil
	}

	columns := make([][]float64, len(metrics.Columns))
	for _, d := range docs {
		for i, v := range d.Row.Values() {
			columns[i] = append(columns[i], v)
		}
	}

	stats := make([]Stat, len(metrics.Columns))
	for i, values := range columns {
		mean, std := stat.MeanStdDev(values, nil)
		if len(values) < 2 {
			std = 0
		}
		stats[i] = Stat{
			Column: metrics.Columns[i],
			Mean:   mean,
			StdDev: std,
			Min:    floats.Min(values),
			Max:    floats.Max(values),
		}
	}
	return stats
}

// Build renders a run as markdown: a header, the summary table and one
// section per document.
func Build(run *database.Run, docs []database.DocumentMetrics) string {
	if run == nil {
		return "# Text metrics\n\nNo analysis run has finished yet."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Text metrics: run %d\n\n", run.ID)
	if run.FinishedAt != nil {
		fmt.Fprintf(&b, "Finished %s. ", *run.FinishedAt)
	}
	fmt.Fprintf(&b, "%d documents scored, %d unreadable.\n\n", run.Processed, run.Failed)

	if len(docs) == 0 {
		b.WriteString("No documents were scored in this run.")
		return b.String()
	}

	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Mean | Std dev | Min | Max |\n")
	b.WriteString("|---|---:|---:|---:|---:|\n")
	for _, s := range Summarize(docs) {
		fmt.Fprintf(&b, "| %s | %.4f | %.4f | %s | %s |\n",
			s.Column, s.Mean, s.StdDev, formatValue(s.Min), formatValue(s.Max))
	}

	sections := make([]string, 0, len(docs))
	for _, d := range docs {
		sections = append(sections, DocumentSection(d))
	}
	b.WriteString("\n")
	b.WriteString(strings.Join(sections, "\n\n---\n\n"))
	return b.String()
}

// DocumentSection renders the figures of one document.
func DocumentSection(d database.DocumentMetrics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Document %s\n\n", d.DocumentID)
	fmt.Fprintf(&b, "Output row %d, %d sentences, VADER compound %.4f.\n\n",
		d.RowIndex, d.Row.SentenceCount, d.Row.VaderCompound)
	b.WriteString("| Metric | Value |\n|---|---:|\n")
	for i, v := range d.Row.Values() {
		fmt.Fprintf(&b, "| %s | %s |\n", metrics.Columns[i], formatValue(v))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.4f", v)
}
