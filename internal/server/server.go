// Package server serves the published map over HTTP: JSON snapshot,
// summary, SVG and PNG renders, lord listings and Prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/ChicagoDave/realmmap/pkg/access"
	"github.com/ChicagoDave/realmmap/pkg/generate"
	"github.com/ChicagoDave/realmmap/pkg/lords"
	"github.com/ChicagoDave/realmmap/pkg/metrics"
	"github.com/ChicagoDave/realmmap/pkg/realm"
	"github.com/ChicagoDave/realmmap/pkg/render"
	"github.com/ChicagoDave/realmmap/pkg/snapshot"
	"github.com/ChicagoDave/realmmap/pkg/store"
	"github.com/ChicagoDave/realmmap/pkg/validation"
)

// Options wires the server to the rest of the application. Store and
// Roster may be nil.
type Options struct {
	Addr      string
	Params    realm.Params
	Publisher *generate.Publisher
	Store     store.Store
	Token     access.Token
	Roster    *lords.Roster
	Logger    *slog.Logger
}

// Server is the HTTP front end.
type Server struct {
	opts Options
	log  *slog.Logger

	mu     sync.Mutex
	report *validation.Report
}

// New creates a server.
func New(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	if opts.Publisher == nil {
		opts.Publisher = generate.NewPublisher(nil)
	}
	return &Server{opts: opts, log: log, report: validation.NewReport()}
}

// Handler returns the routed handler with access logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/map", s.handleMap)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/validation", s.handleValidation)
	mux.HandleFunc("GET /api/render.svg", s.handleSVG)
	mux.HandleFunc("GET /api/render.png", s.handlePNG)
	mux.HandleFunc("GET /api/lords", s.handleLords)
	mux.HandleFunc("POST /api/regenerate", s.handleRegenerate)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /{$}", s.handleIndex)

	return accessLog(s.log, mux)
}

// Start listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("realmmap server starting", "addr", s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// current returns the published map or writes 404.
func (s *Server) current(w http.ResponseWriter) *realm.Map {
	m := s.opts.Publisher.Current()
	if m == nil {
		writeError(w, http.StatusNotFound, "no map has been generated yet")
	}
	return m
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<!DOCTYPE html>
<html><head><title>Realm Map</title></head>
<body style="margin:0;background:#2b2620;color:#f4ecd8;font-family:serif;text-align:center">
<h1>Realm Map</h1>
<img src="/api/render.svg" alt="realm map" style="max-width:95vw;max-height:85vh">
<form method="post" action="/api/regenerate"><button>Regenerate</button></form>
</body></html>`)
}

func (s *Server) handleMap(w http.ResponseWriter, _ *http.Request) {
	m := s.current(w)
	if m == nil {
		return
	}
	data, err := snapshot.Encode(m)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	m := s.current(w)
	if m == nil {
		return
	}
	writeJSON(w, http.StatusOK, m.Summarize())
}

func (s *Server) handleValidation(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	report := s.report
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	m := s.current(w)
	if m == nil {
		return
	}
	vp := render.FitViewport(m.Area.Width, m.Area.Height, queryInt(r, "width", 1024), queryInt(r, "height", 1024))
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := render.WriteSVG(w, render.Render(m), vp); err != nil {
		s.log.Warn("writing svg", "error", err)
	}
}

func (s *Server) handlePNG(w http.ResponseWriter, r *http.Request) {
	m := s.current(w)
	if m == nil {
		return
	}
	vp := render.FitViewport(m.Area.Width, m.Area.Height, queryInt(r, "width", 1024), queryInt(r, "height", 1024))
	w.Header().Set("Content-Type", "image/png")
	if err := render.WritePNG(w, render.Render(m), vp); err != nil {
		s.log.Warn("writing png", "error", err)
	}
}

type lordView struct {
	lords.Lord
	Display    string   `json:"display"`
	FullDomain []string `json:"full_domain"`
	OnMap      []string `json:"on_map"`
}

func (s *Server) handleLords(w http.ResponseWriter, _ *http.Request) {
	if s.opts.Roster == nil {
		writeError(w, http.StatusNotFound, "no lord roster configured")
		return
	}
	m := s.opts.Publisher.Current()
	views := []lordView{}
	for _, l := range s.opts.Roster.Lords() {
		v := lordView{Lord: l, Display: l.TitleAndName(), FullDomain: s.opts.Roster.FullDomain(l.ID)}
		if m != nil {
			for _, loc := range m.LocationsOwnedBy(l.ID) {
				v.OnMap = append(v.OnMap, loc.ID)
			}
		}
		views = append(views, v)
	}
	writeJSON(w, http.StatusOK, views)
}

// handleRegenerate builds a new map, optionally from ?seed=, publishes it
// and persists it when the server holds a write token.
func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	params := s.opts.Params
	if raw := r.URL.Query().Get("seed"); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "seed must be an integer")
			return
		}
		params.Seed = seed
	} else if m := s.opts.Publisher.Current(); m != nil {
		params.Seed = m.Seed + 1
	}

	res, err := s.opts.Publisher.Regenerate(r.Context(), params, lords.Owners(s.opts.Roster, s.log))
	if err != nil {
		var perr *generate.ParamsError
		if errors.As(err, &perr) {
			s.setReport(perr.Report)
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.setReport(res.Report)

	persisted := false
	if s.opts.Store != nil && s.opts.Token.CanWrite() {
		if err := snapshot.Save(r.Context(), s.opts.Store, res.Map, s.opts.Token); err != nil {
			metrics.StoreOpsTotal.WithLabelValues("save", "error").Inc()
			s.log.Error("persisting map", "error", err)
		} else {
			metrics.StoreOpsTotal.WithLabelValues("save", "ok").Inc()
			persisted = true
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"summary":   res.Map.Summarize(),
		"report":    res.Report,
		"persisted": persisted,
	})
}

func (s *Server) setReport(r *validation.Report) {
	s.mu.Lock()
	s.report = r
	s.mu.Unlock()
}

func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v <= 0 || v > 8192 {
		return def
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
