package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/rebel47/mcq-generator/internal/mcq"
	"github.com/rebel47/mcq-generator/internal/quiz"
	"github.com/rebel47/mcq-generator/internal/report"
	"github.com/rebel47/mcq-generator/internal/screens/practice"
	"github.com/rebel47/mcq-generator/internal/ui/components"
	"github.com/rebel47/mcq-generator/internal/ui/theme"
)

var practiceCmd = &cobra.Command{
	Use:   "practice [slides.pdf]",
	Short: "Practice a quiz interactively in the terminal",
	Long: `Generate questions from a PDF (or load them with --quiz), answer them one by
one, and review the graded results. The quiz is submitted once every
question has an answer.

After submitting you can ask for one more question that avoids everything
already asked, or save the results as a PDF report.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPractice,
}

func init() {
	addGenerationFlags(practiceCmd)
	practiceCmd.Flags().String("quiz", "", "Practice questions from a JSON file written by generate")
	practiceCmd.Flags().String("report", "", "Path for the saved PDF report (default quiz_results_<time>.pdf)")
}

func runPractice(cmd *cobra.Command, args []string) error {
	quizPath, _ := cmd.Flags().GetString("quiz")
	if (quizPath == "") == (len(args) == 0) {
		return errors.New("give exactly one of a PDF argument or --quiz")
	}
	reportPath, _ := cmd.Flags().GetString("report")
	out := cmd.OutOrStdout()

	var (
		sess *quiz.Session
		add  practice.AddFunc
	)
	if quizPath != "" {
		qs, err := loadQuestions(cmd, quizPath)
		if err != nil {
			return err
		}
		difficulty, _ := cmd.Flags().GetString("difficulty")
		sess = quiz.NewSession("", difficulty)
		if err := sess.Start(qs); err != nil {
			return err
		}
	} else {
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

		sess = quiz.NewSession(text, req.Difficulty)
		fmt.Fprintf(out, "Generating %d %s questions...\n", req.Count, req.Difficulty)
		ctx, cancel := d.withTimeout(cmd.Context())
		round, err := d.service.StartRound(ctx, sess, req)
		cancel()
		if err != nil {
			return err
		}
		if round.Partial() {
			fmt.Fprintln(out, theme.Warning.Render(fmt.Sprintf("Only %d of %d questions were usable.", len(round.Accepted()), req.Count)))
		}

		add = func(ctx context.Context) (mcq.Question, error) {
			ctx, cancel := d.withTimeout(ctx)
			defer cancel()
			return d.service.AddQuestion(ctx, sess)
		}
	}

	screen := practice.New(cmd.Context(), sess, practice.Options{
		Add:  add,
		Save: func(path string) error { return saveReport(sess, path, time.Now()) },
		ReportPath: func() string {
			if reportPath != "" {
				return reportPath
			}
			return report.FileName(time.Now())
		},
	})
	prog := tea.NewProgram(screen,
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(out),
	)
	if _, err := prog.Run(); err != nil && cmd.Context().Err() == nil {
		return fmt.Errorf("run practice: %w", err)
	}

	if sess.Submitted() {
		fmt.Fprintln(out, components.ScoreSummary(sess.Score(), 40))
	}
	return nil
}

// saveReport renders the results of sess and writes them to path.
func saveReport(sess *quiz.Session, path string, now time.Time) error {
	pdf, err := report.Render(report.FromSession(sess, now), report.DefaultStyle())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
