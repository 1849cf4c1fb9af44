package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/wordnet/internal/review"
	"github.com/example/wordnet/internal/spaced_repetition"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review the words that are due",
	Long: `Review due words one at a time.

Press Enter to reveal the answer, then grade your recall:
  0  forgot
  3  hard
  4  good
  5  easy
Type q to stop.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return runReview(ctx, a.engine, cmd.InOrStdin(), cmd.OutOrStdout())
		})
	},
}

func init() {
	RootCmd.AddCommand(reviewCmd)
}

// runReview drives one session from line-based input until the queue is
// empty, the user quits or input ends.
func runReview(ctx context.Context, engine *review.Engine, in io.Reader, out io.Writer) error {
	s := engine.NewSession()
	if err := s.Start(ctx); err != nil {
		return err
	}
	scanner := bufio.NewScanner(in)

	for s.State() != review.Completed {
		w, ok := s.Current()
		if !ok {
			return fmt.Errorf("session %s has no current word in state %s", s.ID(), s.State())
		}

		switch s.State() {
		case review.Recalling:
			fmt.Fprintf(out, "\n%s\n[Enter] reveal  [q] quit: ", w.ID)
			line, more := readLine(scanner)
			if !more || line == "q" {
				return finishReview(s, out)
			}
			s.RevealAnswer()

		case review.Evaluating:
			if w.Meaning != "" {
				fmt.Fprintf(out, "  %s\n", w.Meaning)
			}
			if len(w.Morphemes) > 0 {
				fmt.Fprintf(out, "  %s\n", strings.Join(w.Morphemes, " + "))
			}
			fmt.Fprint(out, "Grade [0 forgot, 3 hard, 4 good, 5 easy]  [q] quit: ")
			line, more := readLine(scanner)
			if !more || line == "q" {
				return finishReview(s, out)
			}
			q, err := parseGrade(line)
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			if err := s.SubmitGrade(ctx, q); err != nil {
				return err
			}
		}
	}

	fmt.Fprintln(out, "\nNothing left to review.")
	return finishReview(s, out)
}

func readLine(scanner *bufio.Scanner) (string, bool) {
	if !scanner.Scan() {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(scanner.Text())), true
}

func parseGrade(s string) (spaced_repetition.QualityResponse, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 5 {
		return 0, fmt.Errorf("grade must be a number from 0 to 5, got %q", s)
	}
	return spaced_repetition.QualityResponse(n), nil
}

func finishReview(s *review.Session, out io.Writer) error {
	fmt.Fprintf(out, "Reviewed %d word(s).\n", s.GradedCount())
	return nil
}
