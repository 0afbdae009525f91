package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/examprep/examprep/internal/store"
)

var answerCmd = &cobra.Command{
	Use:   "answer <question-id> <letter>",
	Short: "Record an answer to a question",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}
		secs, _ := cmd.Flags().GetInt("seconds")
		out := cmd.OutOrStdout()

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

		rec, err := svc.history.Submit(cmd.Context(), cfg.User, q, args[1], time.Duration(secs)*time.Second)
		if err != nil {
			return err
		}
		if rec.IsCorrect {
			fmt.Fprintf(out, "Correct! (attempt %d)\n", rec.AttemptCount)
		} else {
			fmt.Fprintf(out, "Not quite: you chose %s, the answer is %s. (attempt %d)\n",
				rec.ChosenLetter, rec.CorrectLetter, rec.AttemptCount)
		}
		return nil
	},
}

func init() {
	answerCmd.Flags().Int("seconds", 0, "Response time in seconds")
}
