package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/lazypower/halflife/internal/deck"
	"github.com/lazypower/halflife/internal/engine"
	"github.com/lazypower/halflife/internal/memory"
	"github.com/lazypower/halflife/internal/recall"
	"github.com/lazypower/halflife/internal/scheduler"
	"github.com/lazypower/halflife/internal/store"
)

// statusOf maps engine errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, engine.ErrUnknownFact):
		return http.StatusNotFound
	case errors.Is(err, memory.ErrAlreadyInitialized),
		errors.Is(err, memory.ErrUninitialized),
		errors.Is(err, store.ErrSessionNotActive):
		return http.StatusConflict
	case errors.Is(err, recall.ErrDomain),
		errors.Is(err, engine.ErrUnknownRating):
		return http.StatusBadRequest
	case errors.Is(err, recall.ErrNumericPrecondition):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		s.log.WithError(err).Error("request failed")
	}
	writeError(w, code, err.Error())
}

func factKey(r *http.Request) (string, error) {
	return url.PathUnescape(chi.URLParam(r, "key"))
}

// parseQuery reads the topic, new and forgot filters shared by the list,
// queue and status endpoints.
func parseQuery(r *http.Request) (deck.Query, error) {
	v := r.URL.Query()
	q := deck.Query{Topics: v["topic"]}
	if s := v.Get("new"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return q, errors.New("new must be a boolean")
		}
		q.New = &b
	}
	if s := v.Get("forgot"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return q, errors.New("forgot must be a boolean")
		}
		q.ForgotOnly = b
	}
	return q, nil
}

func intParam(r *http.Request, name string, def int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	atRisk, err := intParam(r, "at_risk", 5)
	if err != nil || atRisk < 0 {
		writeError(w, http.StatusBadRequest, "at_risk must be a non-negative integer")
		return
	}
	writeJSON(w, http.StatusOK, s.engine.StatusOf(r.URL.Query()["topic"], atRisk))
}

func (s *Server) handleListFacts(w http.ResponseWriter, r *http.Request) {
	if m := r.URL.Query()["match"]; len(m) > 0 {
		writeJSON(w, http.StatusOK, map[string]any{"facts": s.engine.Match(m...)})
		return
	}
	q, err := parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"facts": s.engine.Facts(q)})
}

func (s *Server) handleQueue(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	n, err := intParam(r, "n", 6)
	if err != nil {
		writeError(w, http.StatusBadRequest, "n must be an integer")
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Queue(scheduler.Request{
		Topics:     q.Topics,
		Count:      n,
		New:        q.New != nil && *q.New,
		ForgotOnly: q.ForgotOnly,
	}))
}

func (s *Server) handleFactInfo(w http.ResponseWriter, r *http.Request) {
	key, err := factKey(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid key")
		return
	}
	info, err := s.engine.Info(key)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// decodeBody decodes an optional JSON body; an empty body leaves v unchanged.
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *Server) handleLearn(w http.ResponseWriter, r *http.Request) {
	key, err := factKey(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid key")
		return
	}
	var req struct {
		SessionID string      `json:"session_id"`
		Rating    string      `json:"rating"`
		Prior     *[3]float64 `json:"prior"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	var view engine.FactView
	switch {
	case req.Prior != nil:
		prior, perr := recall.FromParams(*req.Prior)
		if perr != nil {
			s.fail(w, perr)
			return
		}
		view, err = s.engine.Learn(req.SessionID, key, prior)
	case req.Rating != "":
		rating, rerr := engine.ParseRating(req.Rating)
		if rerr != nil {
			s.fail(w, rerr)
			return
		}
		view, err = s.engine.LearnRated(req.SessionID, key, rating)
	default:
		writeError(w, http.StatusBadRequest, "rating or prior required")
		return
	}
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleDrill(w http.ResponseWriter, r *http.Request) {
	key, err := factKey(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid key")
		return
	}
	var req struct {
		SessionID string  `json:"session_id"`
		Got       *bool   `json:"got"`
		Guess     *string `json:"guess"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Got == nil && req.Guess != nil {
		// A guess is checked against the answer's match string.
		f, err := s.engine.Fact(key)
		if err != nil {
			s.fail(w, err)
			return
		}
		got := f.Accepts(strings.TrimSpace(*req.Guess))
		req.Got = &got
	}
	if req.Got == nil {
		writeError(w, http.StatusBadRequest, "got or guess required")
		return
	}
	view, err := s.engine.Drill(req.SessionID, key, *req.Got)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleSkip(w http.ResponseWriter, r *http.Request) {
	key, err := factKey(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid key")
		return
	}
	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	view, err := s.engine.Skip(req.SessionID, key)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleCheckup(w http.ResponseWriter, r *http.Request) {
	c, err := s.engine.Checkup()
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := s.db.ExportJSON(w); err != nil {
		s.log.WithError(err).Error("export records")
	}
}

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/x-ndjson")
	if err := s.db.ExportLog(w); err != nil {
		s.log.WithError(err).Error("export log")
	}
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode string `json:"mode"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Mode != store.ModeLearn && req.Mode != store.ModeDrill {
		writeError(w, http.StatusBadRequest, "mode must be learn or drill")
		return
	}
	sess, err := s.engine.StartSession(req.Mode)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionJSON(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.db.GetSession(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.fail(w, err)
		return
	}
	if sess == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, sessionJSON(sess))
}

func (s *Server) handleRecentSessions(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 20)
	if err != nil || limit <= 0 {
		writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}
	sessions, err := s.db.GetRecentSessions(limit)
	if err != nil {
		s.fail(w, err)
		return
	}
	out := make([]map[string]any, len(sessions))
	for i := range sessions {
		out[i] = sessionJSON(&sessions[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": out})
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.engine.EndSession(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionJSON(sess))
}

func sessionJSON(sess *store.Session) map[string]any {
	return map[string]any{
		"session_id":     sess.SessionID,
		"mode":           sess.Mode,
		"status":         sess.Status,
		"started_at":     sess.StartedAt,
		"ended_at":       sess.EndedAt,
		"card_count":     sess.CardCount,
		"recalled_count": sess.RecalledCount,
	}
}
