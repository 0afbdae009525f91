package studyaid

import (
	"fmt"
	"strings"

	"github.com/examprep/examprep/internal/ingest"
	"github.com/examprep/examprep/internal/performance"
	"github.com/examprep/examprep/internal/schedule"
)

func fallbackExplanation(q ingest.Question, chosen string) *Explanation {
	correct, _ := q.Alternative(q.CorrectLetter())
	e := &Explanation{
		QuestionID:    q.ID,
		Subject:       q.Subject,
		CorrectLetter: correct.Letter,
		ChosenLetter:  chosen,
		Explanation:   fmt.Sprintf("The correct alternative is (%s): %s", correct.Letter, correct.Text),
		KeyConcept:    q.Subject,
		Fallback:      true,
	}
	if chosen != "" && chosen != correct.Letter {
		if alt, ok := q.Alternative(chosen); ok {
			e.WhyChosenWrong = fmt.Sprintf("You chose (%s): %s. Compare it with the statement and with (%s).",
				alt.Letter, alt.Text, correct.Letter)
		}
	}
	return e
}

// unexplainable stands in for an explanation of a question whose bank
// entry marks no alternative as correct.
func unexplainable(q ingest.Question, chosen string) *Explanation {
	return &Explanation{
		QuestionID:   q.ID,
		Subject:      q.Subject,
		ChosenLetter: strings.ToUpper(strings.TrimSpace(chosen)),
		Explanation:  "This question has no alternative marked as correct, so it cannot be explained. Check the imported bank.",
		Fallback:     true,
	}
}

var tierAdvice = map[schedule.Tier]struct {
	advice  string
	actions []string
}{
	schedule.TierCritical: {
		advice: "Accuracy here is very low. Rebuild the fundamentals before doing timed practice.",
		actions: []string{
			"Review a summary of the core topics",
			"Redo every question you missed in this subject",
			"Practice in short untimed blocks",
		},
	},
	schedule.TierHigh: {
		advice: "You get some of these right but not consistently. Focus on the patterns behind your mistakes.",
		actions: []string{
			"Redo missed questions and note why each option was wrong",
			"Alternate review and practice in the same session",
		},
	},
	schedule.TierMedium: {
		advice: "You are close to solid ground. Keep practicing to turn partial knowledge into reliable answers.",
		actions: []string{
			"Do mixed question sets from this subject",
			"Review explanations for questions you guessed",
		},
	},
	schedule.TierLow: {
		advice: "This subject is a strength. Keep it fresh with light periodic review.",
		actions: []string{
			"Do a short mixed set once a week",
		},
	},
}

func staticTip(p performance.SubjectPerformance, plan *schedule.Plan) Tip {
	tier := schedule.Classify(p.AccuracyPercent)
	ta := tierAdvice[tier]
	actions := append([]string(nil), ta.actions...)
	if plan != nil {
		for _, it := range plan.Items {
			if it.Subject == p.Subject && it.WeeklyHours > 0 {
				actions = append(actions, fmt.Sprintf("Keep to the planned %.1f hours per week", it.WeeklyHours))
				break
			}
		}
	}
	return Tip{
		Subject:         p.Subject,
		Tier:            tier,
		AccuracyPercent: p.AccuracyPercent,
		Advice:          ta.advice,
		Actions:         actions,
	}
}

func fallbackTips(weak []performance.SubjectPerformance, plan *schedule.Plan) *Tips {
	tips := make([]Tip, 0, len(weak))
	for _, p := range weak {
		tips = append(tips, staticTip(p, plan))
	}
	return &Tips{Tips: tips, Fallback: true}
}
