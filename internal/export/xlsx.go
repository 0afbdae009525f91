package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/examprep/examprep/internal/schedule"
)

const (
	sessionsSheet = "Sessions"
	summarySheet  = "Summary"
)

// PlanXLSX writes a workbook with a dated session sheet and a per-subject
// summary sheet.
func PlanXLSX(w io.Writer, plan schedule.Plan, start time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sessionsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("add summary sheet: %w", err)
	}

	rows := [][]any{toAny(planHeader)}
	for _, e := range plan.Calendar(start) {
		rows = append(rows, []any{
			e.Date.Format(dateLayout), e.Week, e.Date.Weekday().String(),
			e.Subject, string(e.Tier), e.Hours,
		})
	}
	if err := writeRows(f, sessionsSheet, rows); err != nil {
		return err
	}

	rows = [][]any{{"subject", "tier", "accuracy_percent", "weekly_hours", "sessions"}}
	for _, it := range plan.Items {
		rows = append(rows, []any{
			it.Subject, string(it.Tier), it.AccuracyPercent, it.WeeklyHours, len(it.DailySessions),
		})
	}
	if err := writeRows(f, summarySheet, rows); err != nil {
		return err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("render workbook: %w", err)
	}
	_, err = buf.WriteTo(w)
	return err
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
