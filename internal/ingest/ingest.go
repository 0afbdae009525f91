package ingest

import (
	"sort"
	"strings"

	"github.com/examprep/examprep/internal/logger"
)

// MinAlternatives is the smallest alternative count a usable question has.
const MinAlternatives = 2

type group struct {
	subject   string
	statement string
	alts      []Alternative
	seen      map[string]bool
}

// Ingest groups raw records into questions. Groups keep first-seen order,
// the first occurrence of a letter wins, groups with fewer than
// MinAlternatives alternatives are dropped and IDs are assigned 1..N.
// Malformed records are skipped with a warning.
func Ingest(records []Record, log *logger.Logger) []Question {
	log = logger.OrNop(log)

	var order []*group
	groups := make(map[string]*group)

	for i, rec := range records {
		row, err := rec.normalize()
		if row.Line == 0 {
			row.Line = i + 1
		}
		if err != nil {
			log.Warn("skipping malformed row", "line", row.Line, "group", row.GroupID, "reason", err.Error())
			continue
		}

		text := DecodeText(row.Text)
		if text == "" {
			log.Warn("skipping malformed row", "line", row.Line, "group", row.GroupID, "reason", errMissingText.Error())
			continue
		}

		g, ok := groups[row.GroupID]
		if !ok {
			g = &group{
				subject:   DecodeText(row.Subject),
				statement: DecodeText(row.Statement),
				seen:      make(map[string]bool),
			}
			groups[row.GroupID] = g
			order = append(order, g)
		}

		if g.seen[row.Letter] {
			continue
		}
		g.seen[row.Letter] = true
		g.alts = append(g.alts, Alternative{
			Letter:    row.Letter,
			Text:      text,
			IsCorrect: row.Correct,
		})
	}

	questions := make([]Question, 0, len(order))
	for _, g := range order {
		if len(g.alts) < MinAlternatives {
			continue
		}
		sort.SliceStable(g.alts, func(i, j int) bool {
			return strings.ToLower(g.alts[i].Letter) < strings.ToLower(g.alts[j].Letter)
		})
		questions = append(questions, Question{
			ID:           len(questions) + 1,
			Subject:      g.subject,
			Statement:    g.statement,
			Alternatives: g.alts,
		})
	}
	return questions
}

// SubjectCount is the number of questions in one subject.
type SubjectCount struct {
	Subject string
	Count   int
}

// Summary counts questions per subject, sorted by subject.
func Summary(questions []Question) []SubjectCount {
	counts := make(map[string]int)
	for _, q := range questions {
		counts[q.Subject]++
	}
	out := make([]SubjectCount, 0, len(counts))
	for s, n := range counts {
		out = append(out, SubjectCount{Subject: s, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Subject < out[j].Subject })
	return out
}
