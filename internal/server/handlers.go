package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rebel47/mcq-generator/internal/extract"
	"github.com/rebel47/mcq-generator/internal/mcq"
	"github.com/rebel47/mcq-generator/internal/quiz"
	"github.com/rebel47/mcq-generator/internal/report"
)

type questionView struct {
	Index       int          `json:"index"`
	Prompt      string       `json:"question"`
	Options     []mcq.Option `json:"options"`
	Selected    mcq.Label    `json:"selected,omitempty"`
	Correct     mcq.Label    `json:"correct_answer,omitempty"`
	Explanation string       `json:"explanation,omitempty"`
	IsCorrect   *bool        `json:"is_correct,omitempty"`
}

type scoreView struct {
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	Unanswered int     `json:"unanswered"`
	Percentage float64 `json:"percentage"`
	Verdict    string  `json:"verdict"`
}

type sessionView struct {
	ID              string         `json:"id"`
	State           string         `json:"state"`
	Difficulty      string         `json:"difficulty"`
	GenerationCount int            `json:"generation_count"`
	Questions       []questionView `json:"questions"`
	Unanswered      []int          `json:"unanswered"`
	Score           *scoreView     `json:"score,omitempty"`
	LastRound       *roundInfo     `json:"last_round,omitempty"`
}

// view renders a session. Answer keys and explanations are withheld until
// the session is submitted.
func view(id string, e *entry) sessionView {
	sess := e.sess
	submitted := sess.Submitted()
	v := sessionView{
		ID:              id,
		State:           sess.State().String(),
		Difficulty:      sess.Difficulty(),
		GenerationCount: sess.GenerationCount(),
		Unanswered:      sess.Unanswered(),
		LastRound:       e.last,
	}
	if v.Unanswered == nil {
		v.Unanswered = []int{}
	}
	for i, q := range sess.Questions() {
		qv := questionView{
			Index:    i,
			Prompt:   q.Prompt(),
			Options:  q.Options(),
			Selected: sess.Answer(i),
		}
		if submitted {
			ok := q.IsCorrect(qv.Selected)
			qv.Correct = q.Correct()
			qv.Explanation = q.Explanation()
			qv.IsCorrect = &ok
		}
		v.Questions = append(v.Questions, qv)
	}
	if submitted {
		sc := sess.Score()
		v.Score = &scoreView{
			Correct:    sc.Correct,
			Total:      sc.Total,
			Unanswered: sc.Unanswered,
			Percentage: sc.Percentage,
			Verdict:    sc.Verdict(),
		}
	}
	return v
}

func roundSummary(r *mcq.Round) *roundInfo {
	if r == nil {
		return nil
	}
	return &roundInfo{
		Requested: r.Requested,
		Accepted:  len(r.Accepted()),
		Rejected:  len(r.Result.Rejected),
	}
}

func (s *Server) generationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.GenerationTimeout > 0 {
		return context.WithTimeout(ctx, s.cfg.GenerationTimeout)
	}
	return context.WithCancel(ctx)
}

// handleCreate accepts a multipart upload with fields file, count and
// difficulty, and starts a session with the first round.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "expected a multipart form with a PDF file")
		return
	}

	req := quiz.DefaultRequest()
	if v := r.FormValue("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "count must be a number")
			return
		}
		req.Count = n
	}
	if v := strings.TrimSpace(r.FormValue("difficulty")); v != "" {
		req.Difficulty = v
	}
	if err := req.Validate(); err != nil {
		writeErr(w, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	text, err := s.extractor.Extract(r.Context(), file, header.Size)
	if err != nil {
		writeErr(w, err)
		return
	}
	if err := extract.CheckContent(text, s.cfg.MinContentRunes); err != nil {
		writeErr(w, err)
		return
	}

	sess := quiz.NewSession(text, req.Difficulty)
	ctx, cancel := s.generationContext(r.Context())
	defer cancel()
	round, err := s.svc.StartRound(ctx, sess, req)
	if err != nil {
		writeErr(w, err)
		return
	}

	info := roundSummary(round)
	id, e := s.add(sess, info)
	slog.Info("session created", "id", id, "file", header.Filename,
		"requested", info.Requested, "accepted", info.Accepted)

	e.mu.Lock()
	defer e.mu.Unlock()
	writeJSON(w, http.StatusCreated, view(id, e))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request, id string, e *entry) {
	writeJSON(w, http.StatusOK, view(id, e))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !s.remove(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSelect records one answer. The body is {"label": "B"}; an empty
// label clears the selection.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request, id string, e *entry) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "index must be a number")
		return
	}
	if e.sess.Submitted() {
		writeError(w, http.StatusConflict, "answers are locked after submission")
		return
	}

	var body struct {
		Label string `json:"label"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	label := mcq.Label(strings.ToUpper(strings.TrimSpace(body.Label)))
	if err := e.sess.Select(index, label); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view(id, e))
}

// handleSubmit refuses until every question is answered.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request, id string, e *entry) {
	if e.sess.State() == quiz.StateIdle {
		writeErr(w, quiz.ErrEmptyQuestionSet)
		return
	}
	if err := quiz.RequireComplete(e.sess); err != nil {
		var ie *quiz.IncompleteError
		errors.As(err, &ie)
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":   quiz.UserMessage(err),
			"missing": ie.Missing,
		})
		return
	}
	e.sess.Submit()
	writeJSON(w, http.StatusOK, view(id, e))
}

func (s *Server) handleAddQuestion(w http.ResponseWriter, r *http.Request, id string, e *entry) {
	ctx, cancel := s.generationContext(r.Context())
	defer cancel()
	q, err := s.svc.AddQuestion(ctx, e.sess)
	if err != nil {
		writeErr(w, err)
		return
	}
	e.last = &roundInfo{Requested: 1, Accepted: 1}
	slog.Info("question added", "id", id, "total", e.sess.Len(), "prompt", q.Prompt())
	writeJSON(w, http.StatusOK, view(id, e))
}

// handleReport returns the results PDF of a submitted session.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request, id string, e *entry) {
	if !e.sess.Submitted() {
		writeError(w, http.StatusConflict, "submit the quiz before downloading the report")
		return
	}
	now := s.now()
	pdf, err := report.Render(report.FromSession(e.sess, now), s.cfg.Style)
	if err != nil {
		writeErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName(now)))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.Write(pdf)
}
