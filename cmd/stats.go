package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/examprep/examprep/internal/performance"
	"github.com/examprep/examprep/internal/schedule"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show accuracy and priority tier per subject",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		svc, err := newServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		perfs, err := svc.history.Performance(cmd.Context(), cfg.User)
		if err != nil {
			return fmt.Errorf("load performance: %w", err)
		}
		if len(perfs) == 0 {
			fmt.Fprintln(out, "No answers recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-32s  %8s  %8s  %8s  %s\n", "Subject", "Answered", "Correct", "Accuracy", "Tier")
		fmt.Fprintln(out, strings.Repeat("─", 76))
		var overall performance.SubjectPerformance
		for _, p := range perfs {
			fmt.Fprintf(out, "%-32s  %8d  %8d  %7.1f%%  %s\n",
				truncate(p.Subject, 32), p.TotalAnswered, p.CorrectCount, p.AccuracyPercent,
				schedule.Classify(p.AccuracyPercent))
			overall.TotalAnswered += p.TotalAnswered
			overall.CorrectCount += p.CorrectCount
		}
		fmt.Fprintln(out, strings.Repeat("─", 76))
		fmt.Fprintf(out, "%-32s  %8d  %8d  %7.1f%%\n", "TOTAL",
			overall.TotalAnswered, overall.CorrectCount,
			performance.Accuracy(overall.CorrectCount, overall.TotalAnswered))
		return nil
	},
}
