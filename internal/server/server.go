package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/TobiSchelling/textmetrics/internal/database"
	"github.com/TobiSchelling/textmetrics/internal/report"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

// Server is the HTTP server for browsing the latest analyze run.
type Server struct {
	db    *database.DB
	pages map[string]*template.Template
	mux   *http.ServeMux
}

// New creates a new Server.
func New(db *database.DB) (*Server, error) {
	funcMap := template.FuncMap{
		"markdown": renderMarkdown,
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}

	base, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	// Each page gets its own clone of base so "title" and "content" do not collide.
	pageNames := []string{"index.html", "document.html", "fetches.html"}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base for %s: %w", name, err)
		}
		_, err = clone.ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = clone
	}

	s := &Server{db: db, pages: pages, mux: http.NewServeMux()}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	staticSub, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/document/", s.handleDocument)
	s.mux.HandleFunc("/fetches", s.handleFetches)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	run, err := s.db.GetLatestRun(database.KindAnalyze)
	if err != nil {
		s.internalError(w, err)
		return
	}

	var docs []database.DocumentMetrics
	if run != nil {
		if docs, err = s.db.GetMetricsForRun(run.ID); err != nil {
			s.internalError(w, err)
			return
		}
	}

	s.render(w, http.StatusOK, "index.html", map[string]any{
		"Run":       run,
		"Documents": docs,
		"Report":    report.Build(run, docs),
	})
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/document/")
	if id == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	run, err := s.db.GetLatestRun(database.KindAnalyze)
	if err != nil {
		s.internalError(w, err)
		return
	}

	var doc *database.DocumentMetrics
	if run != nil {
		if doc, err = s.db.GetDocumentMetrics(run.ID, id); err != nil {
			s.internalError(w, err)
			return
		}
	}

	data := map[string]any{"ID": id, "Run": run}
	if doc == nil {
		s.render(w, http.StatusNotFound, "document.html", data)
		return
	}
	data["Section"] = report.DocumentSection(*doc)
	s.render(w, http.StatusOK, "document.html", data)
}

func (s *Server) handleFetches(w http.ResponseWriter, r *http.Request) {
	run, err := s.db.GetLatestRun(database.KindExtract)
	if err != nil {
		s.internalError(w, err)
		return
	}

	var fetches []database.Fetch
	if run != nil {
		if fetches, err = s.db.GetFetchesForRun(run.ID); err != nil {
			s.internalError(w, err)
			return
		}
	}

	s.render(w, http.StatusOK, "fetches.html", map[string]any{
		"Run":     run,
		"Fetches": fetches,
	})
}

func (s *Server) internalError(w http.ResponseWriter, err error) {
	slog.Error("request failed", "err", err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := s.pages[name]
	if !ok {
		slog.Error("template not found", "name", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		slog.Error("rendering template", "name", name, "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String()) //nolint: gosec
}

// Serve starts the HTTP server on the given port.
func Serve(db *database.DB, port int) error {
	srv, err := New(db)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	slog.Info("server listening", "url", "http://"+addr)
	return http.ListenAndServe(addr, srv.Handler())
}
