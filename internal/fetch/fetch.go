package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"github.com/TobiSchelling/textmetrics/internal/corpus"
	"github.com/TobiSchelling/textmetrics/internal/database"
	"github.com/TobiSchelling/textmetrics/internal/table"
)

// Extraction modes.
const (
	ModeText        = "text"
	ModeReadability = "readability"
)

// Result holds the results of an extraction run.
type Result struct {
	RunID   int64
	Fetched int
	Failed  int
	Skipped int
}

// Options configures a Fetcher.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Mode      string
	Logger    *slog.Logger
}

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.Code, http.StatusText(e.Code))
}

// Fetcher downloads pages and stores their visible text in the corpus.
type Fetcher struct {
	store     *corpus.Store
	db        *database.DB
	client    *http.Client
	userAgent string
	mode      string
	logger    *slog.Logger
}

// NewFetcher creates a new fetcher.
func NewFetcher(store *corpus.Store, db *database.DB, opts Options) *Fetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Mode == "" {
		opts.Mode = ModeText
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Fetcher{
		store: store,
		db:    db,
		client: &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		userAgent: opts.UserAgent,
		mode:      opts.Mode,
		logger:    opts.Logger,
	}
}

// ExtractAll fetches every record in order. A failing record is logged,
// recorded in the ledger and skipped; it never stops the run.
func (f *Fetcher) ExtractAll(ctx context.Context, records []table.Record) (*Result, error) {
	runID, err := f.db.StartRun(database.KindExtract)
	if err != nil {
		return nil, fmt.Errorf("starting extract run: %w", err)
	}
	result := &Result{RunID: runID}

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			if aerr := f.db.AbortRun(runID, result.Fetched, result.Failed, err.Error()); aerr != nil {
				f.logger.Warn("could not mark run aborted", "run", runID, "err", aerr)
			}
			return result, err
		}

		entry := database.Fetch{RunID: runID, RecordID: rec.ID, URL: rec.URL}
		if rec.ID == "" || rec.URL == "" {
			f.logger.Warn("skipping incomplete record", "id", rec.ID, "url", rec.URL)
			entry.Status = database.FetchSkipped
			f.record(entry)
			result.Skipped++
			continue
		}

		title, path, err := f.Extract(ctx, rec)
		if err != nil {
			f.logger.Error("fetch failed", "id", rec.ID, "url", rec.URL, "err", err)
			entry.Status = database.FetchFailed
			msg := err.Error()
			entry.Error = &msg
			var se *StatusError
			if errors.As(err, &se) {
				entry.StatusCode = se.Code
			}
			f.record(entry)
			result.Failed++
			continue
		}

		entry.Status = database.FetchOK
		entry.StatusCode = http.StatusOK
		entry.Title = &title
		entry.TextPath = &path
		f.record(entry)
		result.Fetched++
		f.logger.Info("saved text", "id", rec.ID, "title", title)
	}

	if err := f.db.FinishRun(runID, result.Fetched, result.Failed); err != nil {
		return result, fmt.Errorf("finishing extract run: %w", err)
	}
	f.logger.Info("extraction complete", "fetched", result.Fetched, "failed", result.Failed, "skipped", result.Skipped)
	return result, nil
}

func (f *Fetcher) record(entry database.Fetch) {
	if _, err := f.db.InsertFetch(entry); err != nil {
		f.logger.Warn("could not record fetch outcome", "id", entry.RecordID, "err", err)
	}
}

// Extract fetches one record and saves "<title>\n\n<text>" to the corpus.
func (f *Fetcher) Extract(ctx context.Context, rec table.Record) (title, path string, err error) {
	body, pageURL, err := f.get(ctx, rec.URL)
	if err != nil {
		return "", "", err
	}

	title, text, err := ExtractText(bytes.NewReader(body), pageURL, f.mode)
	if err != nil {
		return "", "", err
	}

	path, err = f.store.Save(rec.ID, title, text)
	if err != nil {
		return "", "", err
	}
	return title, path, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, *url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("building request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("requesting %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("reading body: %w", err)
	}
	return body, resp.Request.URL, nil
}

// ExtractText pulls the page title and text out of an HTML document.
// In text mode every visible text node is kept; in readability mode only the
// main article content is.
func ExtractText(r io.Reader, pageURL *url.URL, mode string) (title, text string, err error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return "", "", fmt.Errorf("reading html: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("parsing html: %w", err)
	}
	title = strings.TrimSpace(doc.Find("title").First().Text())

	switch mode {
	case ModeReadability:
		article, err := readability.FromReader(bytes.NewReader(body), pageURL)
		if err != nil {
			return "", "", fmt.Errorf("extracting article: %w", err)
		}
		if t := strings.TrimSpace(article.Title); t != "" {
			title = t
		}
		return title, strings.TrimSpace(article.TextContent), nil
	case ModeText, "":
		return title, visibleText(doc), nil
	default:
		return "", "", fmt.Errorf("unknown extraction mode %q", mode)
	}
}

func visibleText(doc *goquery.Document) string {
	doc.Find("head, script, style, noscript, template").Remove()

	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}
