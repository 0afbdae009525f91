package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/examprep/examprep/internal/ingest"
	"github.com/examprep/examprep/internal/store"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Browse the stored question bank",
}

var questionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List questions (optionally filtered by subject)",
	RunE: func(cmd *cobra.Command, args []string) error {
		subject, _ := cmd.Flags().GetString("subject")
		limit, _ := cmd.Flags().GetInt("limit")
		out := cmd.OutOrStdout()

		svc, err := newServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		var qs []ingest.Question
		if subject != "" {
			qs, err = svc.bank.BySubject(cmd.Context(), subject)
		} else {
			qs, err = svc.bank.All(cmd.Context())
		}
		if err != nil {
			return fmt.Errorf("load questions: %w", err)
		}
		if len(qs) == 0 {
			fmt.Fprintln(out, "No questions found.")
			return nil
		}

		fmt.Fprintf(out, "%-6s  %-24s  %-4s  %s\n", "ID", "Subject", "Alts", "Statement")
		fmt.Fprintln(out, strings.Repeat("─", 100))
		for i, q := range qs {
			if limit > 0 && i >= limit {
				fmt.Fprintf(out, "... %d more\n", len(qs)-limit)
				break
			}
			fmt.Fprintf(out, "%-6d  %-24s  %-4d  %s\n",
				q.ID, truncate(q.Subject, 24), len(q.Alternatives), truncate(oneLine(q.Statement), 60))
		}
		return nil
	},
}

var questionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a question with its alternatives",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}
		reveal, _ := cmd.Flags().GetBool("answer")

		svc, err := newServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		q, err := svc.bank.Get(cmd.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("question %d not found", id)
			}
			return err
		}
		printQuestion(cmd, q, reveal)
		return nil
	},
}

func printQuestion(cmd *cobra.Command, q ingest.Question, reveal bool) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "#%d  %s\n\n%s\n\n", q.ID, q.Subject, q.Statement)
	for _, a := range q.Alternatives {
		mark := " "
		if reveal && a.IsCorrect {
			mark = "*"
		}
		fmt.Fprintf(out, " %s %s) %s\n", mark, a.Letter, a.Text)
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func init() {
	questionsListCmd.Flags().StringP("subject", "s", "", "Only list questions in this subject")
	questionsListCmd.Flags().IntP("limit", "n", 50, "Number of questions to show (0 for all)")
	questionsShowCmd.Flags().Bool("answer", false, "Mark the correct alternative")

	questionsCmd.AddCommand(questionsListCmd)
	questionsCmd.AddCommand(questionsShowCmd)
}
