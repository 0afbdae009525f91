package schedule

import (
	"math"
	"sort"
	"time"

	"github.com/examprep/examprep/internal/performance"
)

// Session is one study block on a weekday.
type Session struct {
	Day           time.Weekday `json:"day"`
	DurationHours float64      `json:"duration_hours"`
}

// PlanItem is one subject's weekly allocation.
type PlanItem struct {
	Subject         string    `json:"subject"`
	Tier            Tier      `json:"priority_tier"`
	AccuracyPercent float64   `json:"accuracy_percent"`
	WeeklyHours     float64   `json:"weekly_hours"`
	DailySessions   []Session `json:"daily_sessions"`
}

// Allocate distributes weeklyHoursBudget across subjects with the default
// policy.
func Allocate(performances []performance.SubjectPerformance, weeklyHoursBudget float64, strategy Strategy) []PlanItem {
	return AllocateWith(performances, weeklyHoursBudget, strategy, DefaultPolicy())
}

// AllocateWith distributes weeklyHoursBudget across subjects. Each
// occupied tier receives a fixed fraction of the budget, its share over
// the shares of all occupied tiers, and that fraction is split evenly
// among the tier's subjects. Uniform review ignores tiers and gives every
// subject budget/n. Hours are floored to the policy granularity, so the
// total never exceeds the budget, then cut into sessions of at most
// MaxSessionHours dealt round-robin over the study days.
//
// Items are ordered by tier, then accuracy, then subject. An empty input
// yields an empty plan; a non-positive budget yields zero hours for every
// subject.
func AllocateWith(performances []performance.SubjectPerformance, weeklyHoursBudget float64, strategy Strategy, policy Policy) []PlanItem {
	policy = policy.withDefaults()

	items := make([]PlanItem, 0, len(performances))
	for _, p := range performances {
		items = append(items, PlanItem{
			Subject:         p.Subject,
			Tier:            Classify(p.AccuracyPercent),
			AccuracyPercent: p.AccuracyPercent,
			DailySessions:   []Session{},
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Tier.Rank() != b.Tier.Rank() {
			return a.Tier.Rank() < b.Tier.Rank()
		}
		if a.AccuracyPercent != b.AccuracyPercent {
			return a.AccuracyPercent < b.AccuracyPercent
		}
		return a.Subject < b.Subject
	})

	if len(items) == 0 || !(weeklyHoursBudget > 0) || math.IsInf(weeklyHoursBudget, 0) {
		return items
	}

	for i, h := range subjectHours(items, weeklyHoursBudget, strategy, policy) {
		items[i].WeeklyHours = floorTo(h, policy.Granularity)
	}

	distribute(items, policy)
	return items
}

// subjectHours returns each item's unrounded share of budget.
func subjectHours(items []PlanItem, budget float64, strategy Strategy, policy Policy) []float64 {
	hours := make([]float64, len(items))
	shares, tiered := policy.shares(strategy)
	if !tiered {
		for i := range hours {
			hours[i] = budget / float64(len(items))
		}
		return hours
	}

	occupants := make(map[Tier]int)
	for _, it := range items {
		occupants[it.Tier]++
	}
	var total float64
	for tier := range occupants {
		total += shares.For(tier)
	}
	if total <= 0 {
		return hours
	}
	for i, it := range items {
		tierBudget := budget * shares.For(it.Tier) / total
		hours[i] = tierBudget / float64(occupants[it.Tier])
	}
	return hours
}

// distribute cuts each item's hours into sessions with a day cursor shared
// across subjects, so consecutive subjects start on different days.
func distribute(items []PlanItem, policy Policy) {
	days := policy.StudyDays
	cursor := 0
	for i := range items {
		remaining := items[i].WeeklyHours
		for remaining > 1e-9 {
			d := math.Min(remaining, policy.MaxSessionHours)
			items[i].DailySessions = append(items[i].DailySessions, Session{
				Day:           days[cursor%len(days)],
				DurationHours: d,
			})
			remaining -= d
			cursor++
		}
	}
}

// floorTo rounds v down to a multiple of step. The epsilon absorbs float
// error such as 2.4999999 for an exact 2.5.
func floorTo(v, step float64) float64 {
	return math.Floor(v/step+1e-9) * step
}
