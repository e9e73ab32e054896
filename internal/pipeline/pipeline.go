package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/TobiSchelling/textmetrics/internal/config"
	"github.com/TobiSchelling/textmetrics/internal/corpus"
	"github.com/TobiSchelling/textmetrics/internal/database"
	"github.com/TobiSchelling/textmetrics/internal/fetch"
	"github.com/TobiSchelling/textmetrics/internal/lexicon"
	"github.com/TobiSchelling/textmetrics/internal/metrics"
	"github.com/TobiSchelling/textmetrics/internal/table"
)

// firstMetricColumn is where the 13 metric values start; columns 1-2 hold id and URL.
const firstMetricColumn = 3

// StepResult holds the result of a single pipeline step.
type StepResult struct {
	Name    string
	Summary string
	Err     error
}

// Result holds the results of a full pipeline run.
type Result struct {
	Steps []StepResult
}

// Err returns the first step error, if any.
func (r *Result) Err() error {
	for _, s := range r.Steps {
		if s.Err != nil {
			return fmt.Errorf("%s: %w", s.Name, s.Err)
		}
	}
	return nil
}

// AnalyzeResult counts what happened to each document during analysis.
type AnalyzeResult struct {
	RunID     int64
	Analyzed  int
	Unmatched int
	Failed    int
}

// Pipeline runs the extract and analyze tasks.
type Pipeline struct {
	cfg    *config.Config
	db     *database.DB
	store  *corpus.Store
	logger *slog.Logger
}

// New creates a new pipeline.
func New(cfg *config.Config, db *database.DB, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		cfg:    cfg,
		db:     db,
		store:  corpus.NewStore(cfg.Output.TextDir),
		logger: logger,
	}
}

// Run extracts every record and then analyzes the resulting corpus. Analysis
// is skipped when extraction cannot start.
func (p *Pipeline) Run(ctx context.Context) *Result {
	r := &Result{}

	step := p.ExtractStep(ctx)
	r.Steps = append(r.Steps, step)
	if step.Err != nil {
		return r
	}

	r.Steps = append(r.Steps, p.AnalyzeStep(ctx))
	return r
}

// DryRun shows what would be done without fetching or writing anything.
func (p *Pipeline) DryRun() *Result {
	r := &Result{}

	records, err := p.readRecords()
	if err != nil {
		r.Steps = append(r.Steps, StepResult{Name: "Extract", Err: err})
		return r
	}
	r.Steps = append(r.Steps, StepResult{
		Name:    "Extract",
		Summary: fmt.Sprintf("[dry-run] %d records would be fetched into %s", len(records), p.store.Dir()),
	})

	ids, err := p.store.List()
	if err != nil {
		r.Steps = append(r.Steps, StepResult{Name: "Analyze", Err: err})
		return r
	}
	r.Steps = append(r.Steps, StepResult{
		Name:    "Analyze",
		Summary: fmt.Sprintf("[dry-run] %d documents already in corpus would be scored into %s", len(ids), p.cfg.Output.Path),
	})
	return r
}

// ExtractStep wraps Extract as a StepResult.
func (p *Pipeline) ExtractStep(ctx context.Context) StepResult {
	p.logger.Info("Step 1/2: Extracting page text...")
	res, err := p.Extract(ctx)
	if err != nil {
		return StepResult{Name: "Extract", Err: err}
	}
	return StepResult{
		Name:    "Extract",
		Summary: fmt.Sprintf("Fetched %d pages, %d failed, %d skipped", res.Fetched, res.Failed, res.Skipped),
	}
}

// AnalyzeStep wraps Analyze as a StepResult.
func (p *Pipeline) AnalyzeStep(ctx context.Context) StepResult {
	p.logger.Info("Step 2/2: Computing text metrics...")
	res, err := p.Analyze(ctx)
	if err != nil {
		return StepResult{Name: "Analyze", Err: err}
	}
	summary := fmt.Sprintf("Scored %d documents into %s (%d without a row, %d unreadable)",
		res.Analyzed, p.cfg.Output.Path, res.Unmatched, res.Failed)
	return StepResult{Name: "Analyze", Summary: summary}
}

// Extract fetches every record of the input table into the corpus. A missing
// input table is an error; individual fetch failures are not.
func (p *Pipeline) Extract(ctx context.Context) (*fetch.Result, error) {
	records, err := p.readRecords()
	if err != nil {
		return nil, err
	}
	fetcher := fetch.NewFetcher(p.store, p.db, fetch.Options{
		Timeout:   p.cfg.Fetch.Timeout,
		UserAgent: p.cfg.Fetch.UserAgent,
		Mode:      p.cfg.Fetch.Extractor,
		Logger:    p.logger,
	})
	return fetcher.ExtractAll(ctx, records)
}

func (p *Pipeline) readRecords() ([]table.Record, error) {
	in, err := table.Open(p.cfg.Input.Path)
	if err != nil {
		return nil, fmt.Errorf("reading input table: %w", err)
	}
	defer in.Close()
	return in.Records()
}

// analysis is the state shared by every document of one analyze run.
type analysis struct {
	analyzer *metrics.Analyzer
	out      *table.Workbook
	rows     map[string]int
}

// Analyze scores every document in the corpus and writes each row into the
// output table row holding the same identifier. The table is saved once at the
// end, so an interrupted run leaves the previous file untouched.
func (p *Pipeline) Analyze(ctx context.Context) (*AnalyzeResult, error) {
	a, err := p.prepare()
	if err != nil {
		return nil, err
	}
	defer a.out.Close()

	ids, err := p.store.List()
	if err != nil {
		return nil, err
	}

	runID, err := p.db.StartRun(database.KindAnalyze)
	if err != nil {
		return nil, fmt.Errorf("starting analyze run: %w", err)
	}
	res := &AnalyzeResult{RunID: runID}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			p.abortRun(runID, res, err)
			return res, err
		}

		row, ok := a.rows[id]
		if !ok {
			p.logger.Warn("document has no row in output table", "id", id)
			res.Unmatched++
			continue
		}

		text, err := p.store.Load(id)
		if err != nil {
			p.logger.Error("cannot read document", "id", id, "err", err)
			res.Failed++
			continue
		}

		m := a.analyzer.Analyze(text)
		if err := a.out.SetValues(row, firstMetricColumn, m.Values()); err != nil {
			err = fmt.Errorf("writing row %d for %s: %w", row, id, err)
			p.abortRun(runID, res, err)
			return res, err
		}
		if err := p.db.InsertMetrics(runID, id, row, m); err != nil {
			p.logger.Warn("could not record metrics", "id", id, "err", err)
		}
		res.Analyzed++
		p.logger.Debug("scored document", "id", id, "row", row, "words", m.WordCount)
	}

	if err := a.out.Save(); err != nil {
		err = fmt.Errorf("saving output table: %w", err)
		p.abortRun(runID, res, err)
		return res, err
	}
	if err := p.db.FinishRun(runID, res.Analyzed, res.Failed); err != nil {
		return res, fmt.Errorf("finishing analyze run: %w", err)
	}
	p.logger.Info("analysis complete", "analyzed", res.Analyzed, "unmatched", res.Unmatched, "failed", res.Failed)
	return res, nil
}

// abortRun closes an analyze run whose table was not saved.
func (p *Pipeline) abortRun(runID int64, res *AnalyzeResult, cause error) {
	if err := p.db.AbortRun(runID, res.Analyzed, res.Failed, cause.Error()); err != nil {
		p.logger.Warn("could not mark run aborted", "run", runID, "err", err)
	}
	p.logger.Warn("analysis aborted, output table left unchanged", "run", runID, "err", cause)
}

func (p *Pipeline) prepare() (*analysis, error) {
	lex := lexicon.LoadDictionaries(lexicon.Sources{
		StopWords: p.cfg.Lexicon.StopWords,
		Positive:  p.cfg.Lexicon.Positive,
		Negative:  p.cfg.Lexicon.Negative,
		Builtin:   p.cfg.Lexicon.BuiltinStopWords,
	}, p.logger)

	split, err := metrics.NewPunktSplitter()
	if err != nil {
		return nil, err
	}

	out, err := p.openOutput()
	if err != nil {
		return nil, err
	}
	rows, dups, err := out.RowIndex()
	if err != nil {
		out.Close()
		return nil, err
	}
	for _, id := range dups {
		p.logger.Warn("duplicate identifier in output table, using first row", "id", id)
	}

	return &analysis{
		analyzer: metrics.NewAnalyzer(lex, split),
		out:      out,
		rows:     rows,
	}, nil
}

// openOutput opens the output table, seeding it from the input table when it
// does not exist yet.
func (p *Pipeline) openOutput() (*table.Workbook, error) {
	out, err := table.Open(p.cfg.Output.Path)
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("opening output table: %w", err)
	}

	in, err := table.Open(p.cfg.Input.Path)
	if err != nil {
		return nil, fmt.Errorf("seeding output table: %w", err)
	}
	defer in.Close()

	records, err := in.Records()
	if err != nil {
		return nil, err
	}
	header := []string{"URL_ID", "URL"}
	if h, _ := in.Header(); len(h) >= 2 {
		header = []string{h[0], h[1]}
	}
	header = append(header, metrics.Columns...)

	p.logger.Info("seeding output table from input", "path", p.cfg.Output.Path, "records", len(records))
	return table.Seed(p.cfg.Output.Path, header, records)
}
