package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebel47/mcq-generator/internal/mcq"
	"github.com/rebel47/mcq-generator/internal/quiz"
	"github.com/rebel47/mcq-generator/internal/store"
)

func testQuestions(t *testing.T, n int) []mcq.Question {
	t.Helper()
	labels := []mcq.Label{"A", "B", "C", "D"}
	var qs []mcq.Question
	for i := range n {
		q, err := mcq.NewQuestion(fmt.Sprintf("Sample question number %d?", i+1), []mcq.Option{
			{Label: "A", Text: "One"},
			{Label: "B", Text: "Two"},
			{Label: "C", Text: "Three"},
			{Label: "D", Text: "Four"},
		}, labels[i%4], "The explanation for this sample question is here.")
		require.NoError(t, err)
		qs = append(qs, q)
	}
	return qs
}

func writeQuiz(t *testing.T, qs []mcq.Question) string {
	t.Helper()
	data, err := mcq.MarshalQuestions(qs)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "quiz.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadQuestions(t *testing.T) {
	path := writeQuiz(t, testQuestions(t, 3))
	qs, err := loadQuestions(&cobra.Command{}, path)
	require.NoError(t, err)
	assert.Len(t, qs, 3)

	empty := writeQuiz(t, nil)
	_, err = loadQuestions(&cobra.Command{}, empty)
	assert.ErrorIs(t, err, quiz.ErrNoQuestions)
}

func TestApplyAnswers(t *testing.T) {
	sess := quiz.NewSession("", "Medium")
	require.NoError(t, sess.Start(testQuestions(t, 3)))

	require.NoError(t, applyAnswers(sess, "a, C ,"))
	assert.Equal(t, []mcq.Label{"A", "C", quiz.Unanswered}, sess.AnswerList())

	assert.ErrorIs(t, applyAnswers(sess, "A,B,X"), quiz.ErrUnknownLabel)
	assert.Error(t, applyAnswers(sess, "A,B,C,D"))
}

func TestSaveReport(t *testing.T) {
	sess := quiz.NewSession("", "Medium")
	require.NoError(t, sess.Start(testQuestions(t, 3)))
	require.NoError(t, applyAnswers(sess, "A,C,C"))
	sess.Submit()

	path := filepath.Join(t.TempDir(), "out.pdf")
	require.NoError(t, saveReport(sess, path, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))
	pdf, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))

	err = saveReport(sess, filepath.Join(t.TempDir(), "missing", "out.pdf"), time.Now())
	assert.ErrorContains(t, err, "write report")
}

func TestLLMPrinters(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	repo := st.EventRepo()
	require.NoError(t, repo.AppendLLMRequest(ctx, store.LLMRequestEventData{
		Provider: "gemini", Model: "gemini-2.0-flash", Purpose: "question-gen",
		InputTokens: 1200, OutputTokens: 800, LatencyMs: 950, Success: true,
		RequestBody: "[user]\nGenerate", ResponseBody: "{}",
	}))
	require.NoError(t, repo.AppendLLMRequest(ctx, store.LLMRequestEventData{
		Provider: "mock", Model: "mystery-model", Purpose: "add-question", Success: true,
	}))

	events, err := repo.QueryLLMEvents(ctx, store.QueryOpts{})
	require.NoError(t, err)
	var buf bytes.Buffer
	printEventList(&buf, events)
	assert.Contains(t, buf.String(), "question-gen")
	assert.Contains(t, buf.String(), "add-question")

	buf.Reset()
	printEvent(&buf, &events[len(events)-1])
	assert.Contains(t, buf.String(), "REQUEST")
	assert.Contains(t, buf.String(), "[user]\nGenerate")

	usage, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	buf.Reset()
	printModelCost(&buf, usage)
	assert.Contains(t, buf.String(), "TOTAL (partial)")
	assert.Contains(t, buf.String(), "Pricing unavailable for: mystery-model")
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.0012", formatCost(0.0012))
	assert.Equal(t, "$1.50", formatCost(1.5))
}
