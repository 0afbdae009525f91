package schedule

import (
	"fmt"
	"strings"
	"time"
)

// Strategy selects how strongly the budget is skewed toward weak subjects.
type Strategy string

const (
	WeakAreasFocus Strategy = "weak-areas-focus"
	Balanced       Strategy = "balanced"
	UniformReview  Strategy = "uniform-review"
)

// Strategies lists the supported strategies in menu order.
func Strategies() []Strategy {
	return []Strategy{WeakAreasFocus, Balanced, UniformReview}
}

// ParseStrategy parses a strategy name, ignoring case and surrounding space.
func ParseStrategy(s string) (Strategy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, st := range Strategies() {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown strategy %q (want one of weak-areas-focus, balanced, uniform-review)", s)
}

// Next returns the strategy after s, wrapping around.
func (s Strategy) Next() Strategy {
	all := Strategies()
	for i, st := range all {
		if st == s {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

// Tier is a priority bucket derived from a subject's accuracy.
type Tier string

const (
	TierCritical Tier = "critical"
	TierHigh     Tier = "high"
	TierMedium   Tier = "medium"
	TierLow      Tier = "low"
)

// Accuracy thresholds (percent) separating the tiers.
const (
	CriticalBelow = 25.0
	HighBelow     = 50.0
	MediumBelow   = 70.0
)

// Classify buckets an accuracy percentage into a tier.
func Classify(accuracyPercent float64) Tier {
	switch {
	case accuracyPercent < CriticalBelow:
		return TierCritical
	case accuracyPercent < HighBelow:
		return TierHigh
	case accuracyPercent < MediumBelow:
		return TierMedium
	default:
		return TierLow
	}
}

// Rank orders tiers from most (0) to least urgent.
func (t Tier) Rank() int {
	switch t {
	case TierCritical:
		return 0
	case TierHigh:
		return 1
	case TierMedium:
		return 2
	default:
		return 3
	}
}

// TierShares is the relative budget share of each tier. Only occupied
// tiers count, so a tier's fraction is its share over the sum of the
// occupied tiers' shares, whatever the number of subjects in it.
type TierShares struct {
	Critical float64
	High     float64
	Medium   float64
	Low      float64
}

// For returns the share of t.
func (w TierShares) For(t Tier) float64 {
	switch t {
	case TierCritical:
		return w.Critical
	case TierHigh:
		return w.High
	case TierMedium:
		return w.Medium
	default:
		return w.Low
	}
}

// Policy holds the tunables of the allocator.
type Policy struct {
	// Shares holds the tier split of each tiered strategy. A strategy
	// missing from it, uniform review included, splits per subject.
	Shares          map[Strategy]TierShares
	Granularity     float64 // hours are floored to a multiple of this
	MaxSessionHours float64
	StudyDays       []time.Weekday
}

// DefaultStudyDays is Monday through Saturday.
var DefaultStudyDays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday,
}

// DefaultPolicy returns the 60/30/10 weak-areas split, the 40/35/25
// balanced split, half-hour granularity and two-hour sessions.
func DefaultPolicy() Policy {
	return Policy{
		Shares: map[Strategy]TierShares{
			WeakAreasFocus: {Critical: 70, High: 60, Medium: 30, Low: 10},
			Balanced:       {Critical: 45, High: 40, Medium: 35, Low: 25},
		},
		Granularity:     0.5,
		MaxSessionHours: 2,
		StudyDays:       DefaultStudyDays,
	}
}

// withDefaults fills zero fields from DefaultPolicy.
func (p Policy) withDefaults() Policy {
	def := DefaultPolicy()
	if p.Shares == nil {
		p.Shares = def.Shares
	}
	if p.Granularity <= 0 {
		p.Granularity = def.Granularity
	}
	if p.MaxSessionHours <= 0 {
		p.MaxSessionHours = def.MaxSessionHours
	}
	if len(p.StudyDays) == 0 {
		p.StudyDays = def.StudyDays
	}
	return p
}

// shares reports the tier split of s; ok is false for per-subject
// strategies.
func (p Policy) shares(s Strategy) (TierShares, bool) {
	w, ok := p.Shares[s]
	return w, ok
}

// ParseWeekday parses an English weekday name or three-letter abbreviation.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}
