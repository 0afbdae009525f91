package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/examprep/examprep/internal/store"
)

var explainCmd = &cobra.Command{
	Use:   "explain <question-id> [letter]",
	Short: "Explain a question's answer, optionally against a chosen letter",
	Long: `Explain asks the AI assistant why the correct alternative is right. Without
a letter, your latest recorded answer to the question is used. When no
provider is configured a built-in explanation from the answer key is shown.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}
		out := cmd.OutOrStdout()

		svc, err := newServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		ctx := cmd.Context()
		q, err := svc.bank.Get(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("question %d not found", id)
			}
			return err
		}

		chosen := ""
		if len(args) == 2 {
			chosen = strings.ToUpper(args[1])
		} else if rec, err := svc.store.AnswerRepo().Get(ctx, cfg.User, id); err == nil {
			chosen = rec.ChosenLetter
		} else if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("load answer: %w", err)
		}

		e, err := svc.studyAid.Explain(ctx, q, chosen)
		if err != nil {
			return err
		}

		printQuestion(cmd, q, true)
		fmt.Fprintln(out)
		fmt.Fprintln(out, e.Explanation)
		if e.WhyChosenWrong != "" {
			fmt.Fprintf(out, "\nWhy %s is wrong: %s\n", e.ChosenLetter, e.WhyChosenWrong)
		}
		if e.KeyConcept != "" {
			fmt.Fprintf(out, "\nReview: %s\n", e.KeyConcept)
		}
		if e.Fallback {
			fmt.Fprintln(out, "\n(AI assistant unavailable; showing the answer key.)")
		}
		return nil
	},
}

var tipsCmd = &cobra.Command{
	Use:   "tips",
	Short: "Study tips for your weakest subjects",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		svc, err := newServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		ctx := cmd.Context()
		perfs, err := svc.history.Performance(ctx, cfg.User)
		if err != nil {
			return fmt.Errorf("load performance: %w", err)
		}
		plan, err := svc.planner.Latest(ctx, cfg.User)
		if err != nil {
			return fmt.Errorf("load plan: %w", err)
		}

		tips, err := svc.studyAid.StudyTips(ctx, perfs, plan)
		if err != nil {
			return err
		}
		if len(tips.Tips) == 0 {
			fmt.Fprintln(out, "No answers recorded yet. Practice first, then ask for tips.")
			return nil
		}
		for i, t := range tips.Tips {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "%s  (%.0f%%, %s)\n", t.Subject, t.AccuracyPercent, t.Tier)
			fmt.Fprintln(out, strings.Repeat("─", 40))
			fmt.Fprintln(out, t.Advice)
			for _, a := range t.Actions {
				fmt.Fprintf(out, "  • %s\n", a)
			}
		}
		if tips.Fallback {
			fmt.Fprintln(out, "\n(AI assistant unavailable; showing built-in advice.)")
		}
		return nil
	},
}
