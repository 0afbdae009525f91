package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/examprep/examprep/internal/export"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show your latest answers, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		out := cmd.OutOrStdout()

		svc, err := newServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		recs, err := svc.history.List(cmd.Context(), cfg.User, limit)
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		if len(recs) == 0 {
			fmt.Fprintln(out, "No answers recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-16s  %-6s  %-24s  %-6s  %-7s  %5s  %s\n",
			"Answered", "ID", "Subject", "Chosen", "Correct", "Secs", "Attempts")
		fmt.Fprintln(out, strings.Repeat("─", 90))
		for _, r := range recs {
			mark := "✓"
			if !r.IsCorrect {
				mark = "✗"
			}
			fmt.Fprintf(out, "%-16s  %-6d  %-24s  %-6s  %-7s  %5d  %d\n",
				r.AnsweredAt.Local().Format("2006-01-02 15:04"), r.QuestionID, truncate(r.Subject, 24),
				r.ChosenLetter+" "+mark, r.CorrectLetter, r.ResponseTimeSeconds, r.AttemptCount)
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all of your answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("refusing to clear history for %q without --yes", cfg.User)
		}

		svc, err := newServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		n, err := svc.history.Clear(cmd.Context(), cfg.User)
		if err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d answers.\n", n)
		return nil
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export your answer history as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("out")

		svc, err := newServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		recs, err := svc.history.List(cmd.Context(), cfg.User, 0)
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}

		if path == "" || path == "-" {
			return export.HistoryCSV(cmd.OutOrStdout(), recs)
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		if err := export.HistoryCSV(f, recs); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d answers to %s\n", len(recs), path)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 30, "Number of answers to show (0 for all)")
	historyClearCmd.Flags().Bool("yes", false, "Confirm deletion")
	historyExportCmd.Flags().StringP("out", "o", "", "Output file (default stdout)")

	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
}
