package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rebel47/mcq-generator/internal/mcq"
	"github.com/rebel47/mcq-generator/internal/quiz"
)

var generateCmd = &cobra.Command{
	Use:   "generate <slides.pdf>",
	Short: "Generate questions from a PDF and write them as JSON",
	Long: `Extract the text of a PDF, ask the configured LLM for multiple-choice
questions, and write the accepted questions as a {"questions": [...]} document.

The output can be fed back into "mcqgen practice --quiz" or "mcqgen report".`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	addGenerationFlags(generateCmd)
	generateCmd.Flags().StringP("out", "o", "", "Write questions to this file instead of stdout")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	req, err := generationRequest(cmd)
	if err != nil {
		return err
	}
	text, err := readDocument(cmd, args[0])
	if err != nil {
		return err
	}

	d, err := openDeps(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	sess := quiz.NewSession(text, req.Difficulty)
	ctx, cancel := d.withTimeout(cmd.Context())
	defer cancel()
	round, err := d.service.StartRound(ctx, sess, req)
	if err != nil {
		return err
	}
	if round.Partial() {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: only %d of %d requested questions were usable.\n",
			len(round.Accepted()), req.Count)
	}

	data, err := mcq.MarshalQuestions(sess.Questions())
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}
	data = append(data, '\n')

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d questions to %s\n", sess.Len(), out)
	return nil
}

// loadQuestions reads a questions document written by generate. Entries
// that fail validation are skipped with a warning.
func loadQuestions(cmd *cobra.Command, path string) ([]mcq.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read quiz: %w", err)
	}
	res, err := mcq.ParseAndValidate(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, rej := range res.Rejected {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: skipping %s\n", rej)
	}
	if len(res.Accepted) == 0 {
		return nil, quiz.ErrNoQuestions
	}
	return res.Accepted, nil
}
