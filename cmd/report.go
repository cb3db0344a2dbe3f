package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rebel47/mcq-generator/internal/mcq"
	"github.com/rebel47/mcq-generator/internal/quiz"
	"github.com/rebel47/mcq-generator/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Grade answers against a quiz file and export the results PDF",
	Long: `Grade a list of answers against a questions document written by generate
and write the results PDF.

Answers are comma separated, one per question in order; leave an entry
empty for an unanswered question, e.g. --answers "A,C,,B".`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().String("quiz", "", "Questions JSON file (required)")
	reportCmd.Flags().String("answers", "", "Comma separated answers in question order")
	reportCmd.Flags().StringP("out", "o", "", "Output PDF path (default quiz_results_<time>.pdf)")
	_ = reportCmd.MarkFlagRequired("quiz")
}

func runReport(cmd *cobra.Command, args []string) error {
	quizPath, _ := cmd.Flags().GetString("quiz")
	answers, _ := cmd.Flags().GetString("answers")
	out, _ := cmd.Flags().GetString("out")

	qs, err := loadQuestions(cmd, quizPath)
	if err != nil {
		return err
	}
	sess := quiz.NewSession("", quiz.DefaultDifficulty)
	if err := sess.Start(qs); err != nil {
		return err
	}
	if err := applyAnswers(sess, answers); err != nil {
		return err
	}
	sess.Submit()

	now := time.Now()
	pdf, err := report.Render(report.FromSession(sess, now), report.DefaultStyle())
	if err != nil {
		return err
	}
	if out == "" {
		out = report.FileName(now)
	}
	if err := os.WriteFile(out, pdf, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	score := sess.Score()
	fmt.Fprintf(cmd.OutOrStdout(), "Final Score: %s  %s\nWrote %s\n", score, score.Verdict(), out)
	return nil
}

// applyAnswers selects the comma separated labels in question order.
func applyAnswers(sess *quiz.Session, list string) error {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	parts := strings.Split(list, ",")
	if len(parts) > sess.Len() {
		return fmt.Errorf("%d answers given for %d questions", len(parts), sess.Len())
	}
	for i, p := range parts {
		label := mcq.Label(strings.ToUpper(strings.TrimSpace(p)))
		if err := sess.Select(i, label); err != nil {
			return err
		}
	}
	return nil
}
