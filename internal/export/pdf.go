package export

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/examprep/examprep/internal/schedule"
)

var tierFill = map[schedule.Tier][3]int{
	schedule.TierCritical: {244, 204, 204},
	schedule.TierHigh:     {252, 229, 205},
	schedule.TierMedium:   {255, 242, 204},
	schedule.TierLow:      {217, 234, 211},
}

// PlanPDF renders the weekly calendar grid (subjects by study day) and a
// per-subject summary on an A4 landscape page.
func PlanPDF(w io.Writer, plan schedule.Plan, start time.Time) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Study plan", true)
	pdf.SetCreator("examprep", true)
	pdf.SetCreationDate(plan.CreatedAt)
	pdf.SetModificationDate(plan.CreatedAt)
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(true, 12)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageW - left - right

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 9, "Weekly study plan", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	meta := fmt.Sprintf("Strategy: %s   Budget: %s h/week   Planned: %s h/week   Weeks: %d from %s",
		plan.Strategy, formatHours(plan.WeeklyHoursBudget), formatHours(plan.TotalHours()),
		max(plan.Weeks, 1), startDay.Format(dateLayout))
	pdf.CellFormat(0, 6, tr(meta), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	days := plan.Days()
	subjectW := 60.0
	dayW := 0.0
	if len(days) > 0 {
		dayW = (usable - subjectW - 20) / float64(len(days))
	}

	// Calendar grid.
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(220, 220, 220)
	pdf.CellFormat(subjectW, 8, "Subject", "1", 0, "L", true, 0, "")
	for _, d := range days {
		pdf.CellFormat(dayW, 8, d.String()[:3], "1", 0, "C", true, 0, "")
	}
	pdf.CellFormat(20, 8, "Total", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, it := range plan.Items {
		perDay := make(map[time.Weekday]float64)
		for _, s := range it.DailySessions {
			perDay[s.Day] += s.DurationHours
		}
		fill := tierFill[it.Tier]
		pdf.SetFillColor(fill[0], fill[1], fill[2])
		pdf.CellFormat(subjectW, 7, tr(truncateRunes(it.Subject, 32)), "1", 0, "L", true, 0, "")
		for _, d := range days {
			txt := ""
			if h := perDay[d]; h > 0 {
				txt = formatHours(h)
			}
			pdf.CellFormat(dayW, 7, txt, "1", 0, "C", false, 0, "")
		}
		pdf.CellFormat(20, 7, formatHours(it.WeeklyHours), "1", 1, "C", false, 0, "")
	}

	// Summary.
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Subjects", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(220, 220, 220)
	cols := []struct {
		title string
		width float64
	}{
		{"Subject", subjectW}, {"Priority", 30}, {"Accuracy", 30}, {"Hours/week", 30}, {"Sessions", 30},
	}
	for i, c := range cols {
		ln := 0
		if i == len(cols)-1 {
			ln = 1
		}
		pdf.CellFormat(c.width, 8, c.title, "1", ln, "C", true, 0, "")
	}
	pdf.SetFont("Helvetica", "", 10)
	for _, it := range plan.Items {
		pdf.CellFormat(cols[0].width, 7, tr(truncateRunes(it.Subject, 32)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(cols[1].width, 7, string(it.Tier), "1", 0, "C", false, 0, "")
		pdf.CellFormat(cols[2].width, 7, fmt.Sprintf("%.0f%%", it.AccuracyPercent), "1", 0, "C", false, 0, "")
		pdf.CellFormat(cols[3].width, 7, formatHours(it.WeeklyHours), "1", 0, "C", false, 0, "")
		pdf.CellFormat(cols[4].width, 7, fmt.Sprintf("%d", len(it.DailySessions)), "1", 1, "C", false, 0, "")
	}

	if len(plan.Items) == 0 {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(0, 6, "No answered questions yet; practice first to get a plan.", "", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
