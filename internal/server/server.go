package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lazypower/halflife/internal/engine"
	"github.com/lazypower/halflife/internal/logging"
	"github.com/lazypower/halflife/internal/store"
	"github.com/sirupsen/logrus"
)

// Server is the halflife HTTP API server.
type Server struct {
	db      *store.DB
	engine  *engine.Engine
	router  chi.Router
	version string
	started time.Time
	log     *logrus.Entry
}

// New creates a new Server over the engine's database.
func New(eng *engine.Engine, version string) *Server {
	s := &Server{
		db:      eng.DB,
		engine:  eng,
		version: version,
		started: time.Now(),
		log:     logging.For("server"),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/status", s.handleStatus)
		r.Get("/queue", s.handleQueue)
		r.Get("/checkup", s.handleCheckup)
		r.Get("/export", s.handleExport)
		r.Get("/log", s.handleLog)

		r.Get("/facts", s.handleListFacts)
		r.Route("/facts/{key}", func(r chi.Router) {
			r.Get("/", s.handleFactInfo)
			r.Post("/learn", s.handleLearn)
			r.Post("/drill", s.handleDrill)
			r.Post("/skip", s.handleSkip)
		})

		r.Get("/sessions", s.handleRecentSessions)
		r.Post("/sessions", s.handleStartSession)
		r.Get("/sessions/{sessionID}", s.handleGetSession)
		r.Post("/sessions/{sessionID}/end", s.handleEndSession)
	})

	s.router = r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start).String(),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("request")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.Ping(); err != nil {
		dbOK = false
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
		"db_path": s.db.Path,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
