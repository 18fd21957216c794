//-------------------------------------------------------------------------
//
// pgEdge E-Commerce Dashboard
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package web serves the dashboard over HTTP.
package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/pgEdge/pgedge-dashboard/internal/analysis"
	"github.com/pgEdge/pgedge-dashboard/internal/dataset"
	"github.com/pgEdge/pgedge-dashboard/internal/logging"
)

// Title is the page heading.
const Title = "E-Commerce Data Analysis"

// ShutdownTimeout bounds how long Run waits for in-flight requests.
const ShutdownTimeout = 10 * time.Second

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Options configures a Server.
type Options struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	CurrencySymbol string
}

// Server renders the dashboard. It holds no dataset between requests:
// every page and chart request loads the source again and recomputes.
type Server struct {
	source dataset.Source
	opts   Options
	mux    *http.ServeMux
}

// NewServer creates a server reading from source.
func NewServer(source dataset.Source, opts Options) *Server {
	if opts.CurrencySymbol == "" {
		opts.CurrencySymbol = "R$"
	}
	s := &Server{
		source: source,
		opts:   opts,
		mux:    http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /chart", s.handleChart)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	return s
}

// Handler returns the routed handler wrapped with request logging.
func (s *Server) Handler() http.Handler {
	return requestLogger(s.mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().
			Str("addr", s.opts.Addr).
			Str("source", s.source.Describe()).
			Msg("Dashboard listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logging.Info().Msg("Shutting down dashboard")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type option struct {
	Slug     string
	Label    string
	Selected bool
}

type indexPage struct {
	Title    string
	Options  []option
	View     *view
	ChartURL string
}

type errorPage struct {
	Title   string
	Status  int
	Message string
}

// compute loads the dataset, runs every analysis and builds the view for
// kind, with its chart when withChart is set.
func (s *Server) compute(ctx context.Context, kind analysis.Kind, withChart bool) (*view, error) {
	start := time.Now()
	d, err := s.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	res, err := analysis.Run(d)
	if err != nil {
		return nil, err
	}
	v, err := s.render(kind, res, withChart)
	if err != nil {
		return nil, err
	}
	logging.Debug().
		Str("analysis", kind.Slug()).
		Dur("elapsed", time.Since(start)).
		Msg("Computed analyses")
	return v, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	kind, err := analysis.ParseKind(r.URL.Query().Get("analysis"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	v, err := s.compute(r.Context(), kind, false)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	page := indexPage{
		Title:    Title,
		View:     v,
		ChartURL: "/chart?analysis=" + kind.Slug(),
	}
	for _, k := range analysis.Kinds() {
		page.Options = append(page.Options, option{Slug: k.Slug(), Label: k.Label(), Selected: k == kind})
	}

	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, "index.html", page); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	kind, err := analysis.ParseKind(r.URL.Query().Get("analysis"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	v, err := s.compute(r.Context(), kind, true)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	var buf bytes.Buffer
	if err := v.chart.Render(&buf); err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Errorf("failed to render chart: %w", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// writeError replaces the whole response with an error page.
func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		logging.Error().Err(err).Int("status", status).Msg("Request failed")
	} else {
		logging.Warn().Err(err).Int("status", status).Msg("Bad request")
	}

	var buf bytes.Buffer
	if tmplErr := pages.ExecuteTemplate(&buf, "error.html", errorPage{
		Title:   Title,
		Status:  status,
		Message: err.Error(),
	}); tmplErr != nil {
		http.Error(w, err.Error(), status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
