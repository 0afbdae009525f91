package performance

import (
	"sort"

	"github.com/examprep/examprep/internal/store"
)

// SubjectPerformance summarizes a user's latest answers in one subject.
type SubjectPerformance struct {
	Subject         string  `json:"subject"`
	TotalAnswered   int     `json:"total_answered"`
	CorrectCount    int     `json:"correct_count"`
	AccuracyPercent float64 `json:"accuracy_percent"`
}

// FromHistory derives per-subject accuracy from answer records, sorted by
// subject. Each record counts once, whatever its attempt count.
func FromHistory(records []store.AnswerRecord) []SubjectPerformance {
	bySubject := make(map[string]*SubjectPerformance)
	for _, r := range records {
		p, ok := bySubject[r.Subject]
		if !ok {
			p = &SubjectPerformance{Subject: r.Subject}
			bySubject[r.Subject] = p
		}
		p.TotalAnswered++
		if r.IsCorrect {
			p.CorrectCount++
		}
	}

	out := make([]SubjectPerformance, 0, len(bySubject))
	for _, p := range bySubject {
		p.AccuracyPercent = Accuracy(p.CorrectCount, p.TotalAnswered)
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Subject < out[j].Subject })
	return out
}

// Overall aggregates every record into a single summary with an empty
// subject.
func Overall(records []store.AnswerRecord) SubjectPerformance {
	var p SubjectPerformance
	for _, r := range records {
		p.TotalAnswered++
		if r.IsCorrect {
			p.CorrectCount++
		}
	}
	p.AccuracyPercent = Accuracy(p.CorrectCount, p.TotalAnswered)
	return p
}

// Accuracy returns correct/total as a percentage, 0 when total is 0.
func Accuracy(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}
