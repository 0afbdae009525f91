package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/examprep/examprep/internal/ingest"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a question bank from .csv, .xlsx or .json",
	Long: `Import reads one alternative per row, groups rows into questions and
replaces the stored question bank. Malformed rows are skipped with a
warning; questions with fewer than two alternatives are dropped. A file
that yields no questions leaves the stored bank alone unless --force is
given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		force, _ := cmd.Flags().GetBool("force")
		out := cmd.OutOrStdout()

		svc, err := newServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		records, err := ingest.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read question file: %w", err)
		}
		questions := ingest.Ingest(records, svc.log)

		fmt.Fprintf(out, "%d rows read, %d questions built\n\n", len(records), len(questions))
		fmt.Fprintf(out, "%-40s  %8s\n", "Subject", "Questions")
		fmt.Fprintln(out, strings.Repeat("─", 50))
		for _, sc := range ingest.Summary(questions) {
			fmt.Fprintf(out, "%-40s  %8d\n", truncate(sc.Subject, 40), sc.Count)
		}

		if dryRun {
			fmt.Fprintln(out, "\nDry run: the stored bank was not changed.")
			return nil
		}

		if len(questions) == 0 && !force {
			return fmt.Errorf("no questions built from %s; the stored bank was not changed (use --force to clear it)", args[0])
		}

		batches, err := svc.store.QuestionRepo().ReplaceAll(cmd.Context(), questions)
		if err != nil {
			return fmt.Errorf("store questions: %w", err)
		}
		svc.bank.Invalidate()
		svc.log.Info("question bank imported", "file", args[0], "questions", len(questions), "batches", batches)
		fmt.Fprintf(out, "\nStored %d questions in %d batch(es).\n", len(questions), batches)
		return nil
	},
}

func init() {
	importCmd.Flags().Bool("dry-run", false, "Parse and summarize without storing")
	importCmd.Flags().Bool("force", false, "Replace the stored bank even when the file yields no questions")
}
