// Package server exposes practice sessions over HTTP.
//
// Sessions live in memory only. Each request locks its session, so two
// requests against one session never interleave; different sessions run
// independently.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/rebel47/mcq-generator/internal/extract"
	"github.com/rebel47/mcq-generator/internal/quiz"
	"github.com/rebel47/mcq-generator/internal/report"
)

// Config controls the HTTP surface.
type Config struct {
	Addr              string
	AllowedOrigins    []string
	MaxUploadBytes    int64
	GenerationTimeout time.Duration
	MinContentRunes   int
	SessionTTL        time.Duration // idle time before a session is dropped; 0 keeps sessions forever
	Style             report.Style
}

// DefaultConfig listens on localhost:8080, accepts uploads up to 32 MiB and
// drops sessions idle for two hours.
func DefaultConfig() Config {
	return Config{
		Addr:              "127.0.0.1:8080",
		AllowedOrigins:    []string{"http://localhost:3000"},
		MaxUploadBytes:    32 << 20,
		GenerationTimeout: 3 * time.Minute,
		MinContentRunes:   extract.DefaultMinContentRunes,
		SessionTTL:        2 * time.Hour,
		Style:             report.DefaultStyle(),
	}
}

type entry struct {
	mu   sync.Mutex
	sess *quiz.Session
	last *roundInfo
	used time.Time // guarded by Server.mu
}

type roundInfo struct {
	Requested int
	Accepted  int
	Rejected  int
}

// Server holds the live sessions.
type Server struct {
	cfg       Config
	svc       *quiz.Service
	extractor extract.Extractor
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

// New returns a Server that generates through svc and reads uploads with ex.
func New(svc *quiz.Service, ex extract.Extractor, cfg Config) *Server {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultConfig().MaxUploadBytes
	}
	if cfg.Style.PageWidth == 0 {
		cfg.Style = report.DefaultStyle()
	}
	return &Server{
		cfg:       cfg,
		svc:       svc,
		extractor: ex,
		now:       time.Now,
		sessions:  make(map[string]*entry),
	}
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger, middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "Content-Length"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.withSession(s.handleGet))
			r.Delete("/", s.handleDelete)
			r.Put("/answers/{index}", s.withSession(s.handleSelect))
			r.Post("/submit", s.withSession(s.handleSubmit))
			r.Post("/questions", s.withSession(s.handleAddQuestion))
			r.Get("/report", s.withSession(s.handleReport))
		})
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	var sweep <-chan time.Time
	if s.cfg.SessionTTL > 0 {
		ticker := time.NewTicker(max(s.cfg.SessionTTL/4, time.Minute))
		defer ticker.Stop()
		sweep = ticker.C
	}

	for {
		select {
		case err := <-errCh:
			return err
		case <-sweep:
			if n := s.Sweep(); n > 0 {
				slog.Info("expired idle sessions", "count", n, "live", s.Len())
			}
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		}
	}
}

func (s *Server) add(sess *quiz.Session, info *roundInfo) (string, *entry) {
	id := uuid.NewString()
	e := &entry{sess: sess, last: info}
	s.mu.Lock()
	e.used = s.now()
	s.sessions[id] = e
	s.mu.Unlock()
	return id, e
}

// lookup returns the session and marks it used.
func (s *Server) lookup(id string) (*entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if ok {
		e.used = s.now()
	}
	return e, ok
}

// Sweep drops sessions idle for longer than SessionTTL and returns how many
// were removed. A request already holding a dropped session finishes
// normally.
func (s *Server) Sweep() int {
	if s.cfg.SessionTTL <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.cfg.SessionTTL)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.sessions {
		if e.used.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

func (s *Server) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

// Len returns the number of live sessions.
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, id string, e *entry)

// withSession resolves {id} and holds the session lock for the request.
func (s *Server) withSession(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		e, ok := s.lookup(id)
		if !ok {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		e.mu.Lock()
		defer e.mu.Unlock()
		h(w, r, id, e)
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
