package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rebel47/mcq-generator/internal/extract"
	"github.com/rebel47/mcq-generator/internal/llm"
	"github.com/rebel47/mcq-generator/internal/mcq"
	"github.com/rebel47/mcq-generator/internal/quiz"
	"github.com/rebel47/mcq-generator/internal/store"
)

// deps is everything a generating command needs.
type deps struct {
	store   *store.Store
	llmCfg  llm.Config
	service *quiz.Service
}

func (d *deps) Close() error {
	if d.store == nil {
		return nil
	}
	return d.store.Close()
}

// withTimeout bounds one generation call by the configured LLM timeout.
func (d *deps) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.llmCfg.Timeout > 0 {
		return context.WithTimeout(ctx, d.llmCfg.Timeout)
	}
	return context.WithCancel(ctx)
}

// openDeps opens the store, builds the LLM provider with event logging, and
// wires the quiz service. With --no-log the store is skipped.
func openDeps(cmd *cobra.Command) (*deps, error) {
	ctx := cmd.Context()
	d := &deps{}

	var repo store.EventRepo
	if noLog, _ := cmd.Flags().GetBool("no-log"); !noLog {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		d.store = st
		repo = st.EventRepo()
	}

	provider, cfg, err := llm.NewProviderFromEnv(ctx, repo)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("LLM provider not configured: %w", err)
	}
	d.llmCfg = cfg

	genCfg := mcq.DefaultConfig()
	if structured, _ := cmd.Flags().GetBool("structured"); structured {
		genCfg.StructuredOutput = true
	}
	d.service = quiz.NewService(mcq.New(provider, genCfg))
	return d, nil
}

// addGenerationFlags registers the flags shared by generating commands.
func addGenerationFlags(cmd *cobra.Command) {
	def := quiz.DefaultRequest()
	cmd.Flags().IntP("count", "n", def.Count, fmt.Sprintf("Number of questions to generate (%d-%d)", quiz.MinQuestions, quiz.MaxQuestions))
	cmd.Flags().StringP("difficulty", "d", def.Difficulty, "Difficulty level: Easy, Medium or Hard")
	cmd.Flags().String("extractor", "pdf", "Text extractor: pdf (built in) or pdftotext (poppler)")
	cmd.Flags().Bool("structured", false, "Ask the provider for schema-constrained JSON output")
	cmd.Flags().Bool("no-log", false, "Do not record LLM requests in the database")
}

func generationRequest(cmd *cobra.Command) (quiz.GenerationRequest, error) {
	count, _ := cmd.Flags().GetInt("count")
	difficulty, _ := cmd.Flags().GetString("difficulty")
	req := quiz.GenerationRequest{Count: count, Difficulty: difficulty}
	return req, req.Validate()
}

// readDocument extracts and checks the text of the PDF at path.
func readDocument(cmd *cobra.Command, path string) (string, error) {
	name, _ := cmd.Flags().GetString("extractor")
	ex, err := extract.ByName(name)
	if err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", &extract.ExtractionError{Source: name, Err: err}
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return "", &extract.ExtractionError{Source: name, Err: err}
	}

	text, err := ex.Extract(cmd.Context(), f, info.Size())
	if err != nil {
		return "", err
	}
	if err := extract.CheckContent(text, extract.DefaultMinContentRunes); err != nil {
		return "", err
	}
	return text, nil
}
