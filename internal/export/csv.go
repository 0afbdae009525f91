package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/examprep/examprep/internal/schedule"
	"github.com/examprep/examprep/internal/store"
)

var (
	planHeader    = []string{"date", "week", "day", "subject", "tier", "hours"}
	historyHeader = []string{
		"answered_at", "question_id", "subject", "chosen", "correct",
		"is_correct", "response_time_seconds", "attempts",
	}
)

// PlanCSV writes one row per dated session of plan, starting at start.
func PlanCSV(w io.Writer, plan schedule.Plan, start time.Time) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(planHeader); err != nil {
		return err
	}
	for _, e := range plan.Calendar(start) {
		rec := []string{
			e.Date.Format(dateLayout),
			strconv.Itoa(e.Week),
			e.Date.Weekday().String(),
			e.Subject,
			string(e.Tier),
			formatHours(e.Hours),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// HistoryCSV writes answer records in the given order.
func HistoryCSV(w io.Writer, records []store.AnswerRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(historyHeader); err != nil {
		return err
	}
	for _, r := range records {
		rec := []string{
			r.AnsweredAt.UTC().Format(time.RFC3339),
			strconv.Itoa(r.QuestionID),
			r.Subject,
			r.ChosenLetter,
			r.CorrectLetter,
			strconv.FormatBool(r.IsCorrect),
			strconv.Itoa(r.ResponseTimeSeconds),
			strconv.Itoa(r.AttemptCount),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
