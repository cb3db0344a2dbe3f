package quiz

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebel47/mcq-generator/internal/extract"
	"github.com/rebel47/mcq-generator/internal/llm"
	"github.com/rebel47/mcq-generator/internal/mcq"
)

type stubGenerator struct {
	rounds   []*mcq.Round
	err      error
	inputs   []mcq.GenerateInput
	purposes []string
}

func (g *stubGenerator) Generate(ctx context.Context, in mcq.GenerateInput) (*mcq.Round, error) {
	g.inputs = append(g.inputs, in)
	g.purposes = append(g.purposes, llm.PurposeFrom(ctx))
	if g.err != nil {
		return nil, g.err
	}
	r := g.rounds[0]
	g.rounds = g.rounds[1:]
	return r, nil
}

func roundOf(requested int, qs ...mcq.Question) *mcq.Round {
	return &mcq.Round{Requested: requested, Result: &mcq.ParseResult{Accepted: qs}}
}

func TestGenerationRequest_Validate(t *testing.T) {
	assert.NoError(t, DefaultRequest().Validate())
	assert.NoError(t, GenerationRequest{Count: 25, Difficulty: "Hard"}.Validate())

	err := GenerationRequest{Count: 26, Difficulty: "easy"}.Validate()
	var re *RequestError
	require.ErrorAs(t, err, &re)
	assert.Contains(t, re.Fields, "count")
	assert.Contains(t, re.Fields, "difficulty")
	assert.Equal(t, "invalid generation request: count must be between 1 and 25; difficulty must be one of Easy, Medium, Hard", re.Error())

	require.ErrorAs(t, GenerationRequest{Count: 0, Difficulty: "Medium"}.Validate(), &re)
	assert.NotContains(t, re.Fields, "difficulty")
}

func TestStartRound(t *testing.T) {
	gen := &stubGenerator{rounds: []*mcq.Round{roundOf(3, threeQuestions(t)...)}}
	svc := NewService(gen)
	sess := NewSession("material", "Medium")

	round, err := svc.StartRound(context.Background(), sess, GenerationRequest{Count: 3, Difficulty: "Hard"})
	require.NoError(t, err)
	assert.False(t, round.Partial())
	assert.Equal(t, 3, sess.Len())
	assert.Equal(t, "Hard", sess.Difficulty())
	assert.Equal(t, StateActive, sess.State())

	require.Len(t, gen.inputs, 1)
	assert.Equal(t, "material", gen.inputs[0].SourceText)
	assert.Empty(t, gen.inputs[0].Exclude)
}

func TestStartRound_PartialStillStarts(t *testing.T) {
	gen := &stubGenerator{rounds: []*mcq.Round{roundOf(5, testQuestion(t, 1, "A"))}}
	sess := NewSession("material", "Medium")

	round, err := NewService(gen).StartRound(context.Background(), sess, DefaultRequest())
	require.NoError(t, err)
	assert.True(t, round.Partial())
	assert.Equal(t, 1, sess.Len())
}

func TestStartRound_AllOrNothing(t *testing.T) {
	sess := NewSession("material", "Medium")
	require.NoError(t, sess.Start(threeQuestions(t)))
	sess.Select(0, "A")

	t.Run("generator error", func(t *testing.T) {
		gen := &stubGenerator{err: &mcq.MalformedResponseError{Reason: "no JSON object found"}}
		_, err := NewService(gen).StartRound(context.Background(), sess, DefaultRequest())
		assert.ErrorIs(t, err, mcq.ErrMalformedResponse)
		assert.Equal(t, 3, sess.Len())
		assert.Equal(t, mcq.Label("A"), sess.Answer(0))
	})

	t.Run("nothing accepted", func(t *testing.T) {
		gen := &stubGenerator{rounds: []*mcq.Round{roundOf(10)}}
		_, err := NewService(gen).StartRound(context.Background(), sess, DefaultRequest())
		assert.ErrorIs(t, err, ErrNoQuestions)
		assert.Equal(t, 1, sess.GenerationCount())
	})

	t.Run("invalid request", func(t *testing.T) {
		gen := &stubGenerator{}
		_, err := NewService(gen).StartRound(context.Background(), sess, GenerationRequest{Count: 30, Difficulty: "Medium"})
		var re *RequestError
		assert.ErrorAs(t, err, &re)
		assert.Empty(t, gen.inputs, "generator must not be called")
	})
}

func TestStartRound_PassesExclusions(t *testing.T) {
	gen := &stubGenerator{rounds: []*mcq.Round{
		roundOf(3, threeQuestions(t)...),
		roundOf(1, testQuestion(t, 4, "A")),
	}}
	svc := NewService(gen)
	sess := NewSession("material", "Medium")

	_, err := svc.StartRound(context.Background(), sess, GenerationRequest{Count: 3, Difficulty: "Easy"})
	require.NoError(t, err)
	_, err = svc.StartRound(context.Background(), sess, GenerationRequest{Count: 1, Difficulty: "Easy"})
	require.NoError(t, err)

	assert.Len(t, gen.inputs[1].Exclude, 3)
	assert.Equal(t, 2, sess.GenerationCount())
}

func TestAddQuestion(t *testing.T) {
	gen := &stubGenerator{rounds: []*mcq.Round{
		roundOf(3, threeQuestions(t)...),
		roundOf(1, testQuestion(t, 4, "D")),
	}}
	svc := NewService(gen)
	sess := NewSession("material", "Medium")
	_, err := svc.StartRound(context.Background(), sess, GenerationRequest{Count: 3, Difficulty: "Medium"})
	require.NoError(t, err)
	sess.Submit()

	q, err := svc.AddQuestion(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, mcq.Label("D"), q.Correct())
	assert.Equal(t, 4, sess.Len())
	assert.False(t, sess.Submitted())

	add := gen.inputs[1]
	assert.Equal(t, 1, add.Count)
	assert.Equal(t, "Medium", add.Difficulty)
	assert.Len(t, add.Exclude, 3)
	assert.Equal(t, "add-question", gen.purposes[1])
}

func TestAddQuestion_Errors(t *testing.T) {
	_, err := NewService(&stubGenerator{}).AddQuestion(context.Background(), NewSession("m", "Easy"))
	assert.ErrorIs(t, err, ErrEmptyQuestionSet)

	sess := NewSession("material", "Medium")
	require.NoError(t, sess.Start(threeQuestions(t)))
	sess.Submit()
	gen := &stubGenerator{rounds: []*mcq.Round{roundOf(1)}}
	_, err = NewService(gen).AddQuestion(context.Background(), sess)
	assert.ErrorIs(t, err, ErrNoQuestions)
	assert.Equal(t, 3, sess.Len())
	assert.True(t, sess.Submitted(), "failed add must not touch the session")
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{extract.ErrInsufficientContent, "Could not extract text"},
		{&extract.ExtractionError{Source: "x.pdf", Err: errors.New("bad xref")}, "Error reading PDF: bad xref"},
		{&mcq.SchemaError{Err: errors.New("missing questions")}, "Failed to parse"},
		{ErrNoQuestions, "No valid questions"},
		{&IncompleteError{Missing: []int{0, 2}}, "(2 unanswered)"},
		{&llm.ErrRateLimit{}, "rate limited"},
		{errors.New("boom"), "An error occurred: boom"},
	}
	for _, tt := range tests {
		got := UserMessage(tt.err)
		if tt.want == "" {
			assert.Empty(t, got)
			continue
		}
		assert.True(t, strings.Contains(got, tt.want), "UserMessage(%v) = %q, want substring %q", tt.err, got, tt.want)
	}
}
