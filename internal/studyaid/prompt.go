package studyaid

import (
	"fmt"
	"strings"

	"github.com/examprep/examprep/internal/ingest"
	"github.com/examprep/examprep/internal/performance"
	"github.com/examprep/examprep/internal/schedule"
)

const explanationSystemPrompt = `You are a concise, encouraging tutor helping a student prepare for a standardized multiple-choice exam. You explain answers clearly and never invent facts that are not implied by the question.`

func buildExplanationUserMessage(q ingest.Question, chosen string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Subject: %s\n", q.Subject)
	fmt.Fprintf(&b, "Question:\n%s\n\nAlternatives:\n", q.Statement)
	for _, a := range q.Alternatives {
		fmt.Fprintf(&b, "(%s) %s\n", a.Letter, a.Text)
	}
	fmt.Fprintf(&b, "\nCorrect alternative: %s\n", q.CorrectLetter())
	if chosen != "" {
		fmt.Fprintf(&b, "Student chose: %s\n", chosen)
	}

	b.WriteString(`
Instructions:
1. Explain in 3-5 sentences why the correct alternative is right.
2. If the student chose a different alternative, explain briefly why it is wrong. Otherwise leave that field empty.
3. Name the key concept the student should review, in a few words.
4. Use plain text. No markdown.`)

	return b.String()
}

const tipsSystemPrompt = `You are a study coach preparing a student for a standardized exam. You give practical, specific advice based on measured accuracy per subject.`

func buildTipsUserMessage(weak []performance.SubjectPerformance, plan *schedule.Plan) string {
	var b strings.Builder

	b.WriteString("Weakest subjects:\n")
	for _, p := range weak {
		fmt.Fprintf(&b, "- %s: %.0f%% accuracy over %d questions (%s priority)\n",
			p.Subject, p.AccuracyPercent, p.TotalAnswered, schedule.Classify(p.AccuracyPercent))
	}

	if plan != nil && len(plan.Items) > 0 {
		fmt.Fprintf(&b, "\nCurrent weekly plan (%s, %.1f hours):\n", plan.Strategy, plan.WeeklyHoursBudget)
		for _, it := range plan.Items {
			fmt.Fprintf(&b, "- %s: %.1f hours in %d sessions\n", it.Subject, it.WeeklyHours, len(it.DailySessions))
		}
	}

	b.WriteString(`
Instructions:
For each subject listed above, give two or three sentences of advice and 2-4 concrete actions. Use the subject names exactly as written. Keep the tone direct and practical.`)

	return b.String()
}
