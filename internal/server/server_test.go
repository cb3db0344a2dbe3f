package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebel47/mcq-generator/internal/extract"
	"github.com/rebel47/mcq-generator/internal/llm"
	"github.com/rebel47/mcq-generator/internal/mcq"
	"github.com/rebel47/mcq-generator/internal/quiz"
)

const lectureText = "Cells are the basic unit of life. Mitochondria produce energy for the cell."

type stubExtractor struct {
	text string
	err  error
}

func (s stubExtractor) Extract(context.Context, io.ReaderAt, int64) (string, error) {
	return s.text, s.err
}

func entry(i int, correct string) string {
	return fmt.Sprintf(`{"question": "Sample question number %d about cells?",
		"options": {"A": "One", "B": "Two", "C": "Three", "D": "Four"},
		"correct_answer": %q,
		"explanation": "Option %s is right for question %d because of reasons."}`, i, correct, correct, i)
}

func questionsJSON(entries ...string) llm.MockResponse {
	return llm.MockText(`{"questions": [` + strings.Join(entries, ",") + `]}`)
}

func newTestServer(t *testing.T, ex extract.Extractor, responses ...llm.MockResponse) (*Server, *llm.MockProvider, *httptest.Server) {
	t.Helper()
	mock := llm.NewMockProvider(responses...)
	svc := quiz.NewService(mcq.New(mock, mcq.DefaultConfig()))
	srv := New(svc, ex, DefaultConfig())
	srv.now = func() time.Time { return time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC) }
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return srv, mock, ts
}

func upload(t *testing.T, ts *httptest.Server, count, difficulty string) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "lecture.pdf")
	require.NoError(t, err)
	fw.Write([]byte("%PDF-1.4 stub"))
	if count != "" {
		mw.WriteField("count", count)
	}
	if difficulty != "" {
		mw.WriteField("difficulty", difficulty)
	}
	require.NoError(t, mw.Close())

	resp, err := http.Post(ts.URL+"/api/sessions", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthz(t *testing.T) {
	_, _, ts := newTestServer(t, stubExtractor{})
	resp := do(t, http.MethodGet, ts.URL+"/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSessionFlow(t *testing.T) {
	srv, mock, ts := newTestServer(t, stubExtractor{text: lectureText},
		questionsJSON(entry(1, "A"), entry(2, "B"), entry(3, "C")),
		questionsJSON(entry(4, "D")),
	)

	resp := upload(t, ts, "3", "Hard")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[sessionView](t, resp)
	require.Len(t, created.Questions, 3)
	assert.Equal(t, "active", created.State)
	assert.Equal(t, "Hard", created.Difficulty)
	assert.Empty(t, created.Questions[0].Correct, "answer key must be hidden before submit")
	assert.Equal(t, 1, srv.Len())

	base := ts.URL + "/api/sessions/" + created.ID

	// Submitting with gaps is refused.
	resp = do(t, http.MethodPost, base+"/submit", "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = do(t, http.MethodPut, base+"/answers/0", `{"label":"A"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = do(t, http.MethodPut, base+"/answers/1", `{"label":"c"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = do(t, http.MethodPut, base+"/answers/1", `{"label":"Z"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = do(t, http.MethodPut, base+"/answers/9", `{"label":"A"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Report before submit is refused.
	resp = do(t, http.MethodGet, base+"/report", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// One gap left: submission is still refused, with or without force.
	for _, path := range []string{"/submit", "/submit?force=true"} {
		resp = do(t, http.MethodPost, base+path, "")
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, path)
		refused := decode[struct {
			Missing []int `json:"missing"`
		}](t, resp)
		assert.Equal(t, []int{2}, refused.Missing)
	}

	resp = do(t, http.MethodPut, base+"/answers/2", `{"label":"D"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodPost, base+"/submit", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	submitted := decode[sessionView](t, resp)
	require.NotNil(t, submitted.Score)
	assert.Equal(t, 1, submitted.Score.Correct)
	assert.Equal(t, 0, submitted.Score.Unanswered)
	assert.InDelta(t, 33.3, submitted.Score.Percentage, 0.1)
	assert.Equal(t, "Keep practicing!", submitted.Score.Verdict)
	assert.Equal(t, mcq.Label("B"), submitted.Questions[1].Correct)
	require.NotNil(t, submitted.Questions[1].IsCorrect)
	assert.False(t, *submitted.Questions[1].IsCorrect)

	resp = do(t, http.MethodPut, base+"/answers/2", `{"label":"C"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "answers lock after submit")

	resp = do(t, http.MethodGet, base+"/report", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "quiz_results_20261014_093000.pdf")
	pdf, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))

	resp = do(t, http.MethodPost, base+"/questions", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	added := decode[sessionView](t, resp)
	assert.Len(t, added.Questions, 4)
	assert.Equal(t, "active", added.State)
	assert.Equal(t, mcq.Label("A"), added.Questions[0].Selected, "existing answers survive")

	req, ok := mock.LastRequest()
	require.True(t, ok)
	assert.Contains(t, req.Messages[0].Content, "Generate exactly 1 multiple choice")
	assert.Contains(t, req.Messages[0].Content, "Sample question number 3 about cells?")

	resp = do(t, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 0, srv.Len())
}

func TestCreate_Errors(t *testing.T) {
	t.Run("invalid count", func(t *testing.T) {
		_, mock, ts := newTestServer(t, stubExtractor{text: lectureText})
		resp := upload(t, ts, "26", "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, 0, mock.CallCount())
	})

	t.Run("invalid difficulty", func(t *testing.T) {
		_, _, ts := newTestServer(t, stubExtractor{text: lectureText})
		resp := upload(t, ts, "", "Impossible")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("scanned pdf", func(t *testing.T) {
		_, mock, ts := newTestServer(t, stubExtractor{text: "   "})
		resp := upload(t, ts, "3", "Easy")
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		body := decode[map[string]string](t, resp)
		assert.Contains(t, body["error"], "Could not extract text")
		assert.Equal(t, 0, mock.CallCount())
	})

	t.Run("unreadable pdf", func(t *testing.T) {
		_, _, ts := newTestServer(t, stubExtractor{err: &extract.ExtractionError{Source: "pdf", Err: io.ErrUnexpectedEOF}})
		resp := upload(t, ts, "3", "Easy")
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("malformed generation", func(t *testing.T) {
		srv, _, ts := newTestServer(t, stubExtractor{text: lectureText}, llm.MockText("sorry, no questions today"))
		resp := upload(t, ts, "3", "Easy")
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		body := decode[map[string]string](t, resp)
		assert.Contains(t, body["error"], "Failed to parse")
		assert.Equal(t, 0, srv.Len(), "no session on failure")
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, ts := newTestServer(t, stubExtractor{text: lectureText})
		resp := do(t, http.MethodPost, ts.URL+"/api/sessions", "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestUnknownSession(t *testing.T) {
	_, _, ts := newTestServer(t, stubExtractor{})
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/sessions/nope"},
		{http.MethodPost, "/api/sessions/nope/submit"},
		{http.MethodGet, "/api/sessions/nope/report"},
		{http.MethodDelete, "/api/sessions/nope"},
	} {
		resp := do(t, tc.method, ts.URL+tc.path, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "%s %s", tc.method, tc.path)
	}
}

func TestSweep_DropsIdleSessions(t *testing.T) {
	srv, _, ts := newTestServer(t, stubExtractor{text: lectureText},
		questionsJSON(entry(1, "A")),
		questionsJSON(entry(2, "B")),
	)
	var clock atomic.Int64
	clock.Store(time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC).UnixNano())
	advance := func(d time.Duration) { clock.Add(int64(d)) }
	srv.now = func() time.Time { return time.Unix(0, clock.Load()).UTC() }

	idle := decode[sessionView](t, upload(t, ts, "1", "Easy"))
	advance(90 * time.Minute)
	busy := decode[sessionView](t, upload(t, ts, "1", "Easy"))
	require.Equal(t, 2, srv.Len())

	advance(45 * time.Minute)
	resp := do(t, http.MethodGet, ts.URL+"/api/sessions/"+busy.ID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, 1, srv.Sweep())
	resp = do(t, http.MethodGet, ts.URL+"/api/sessions/"+idle.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = do(t, http.MethodGet, ts.URL+"/api/sessions/"+busy.ID, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	srv.cfg.SessionTTL = 0
	advance(24 * time.Hour)
	assert.Equal(t, 0, srv.Sweep(), "a zero TTL keeps sessions")
}
