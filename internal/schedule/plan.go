package schedule

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/examprep/examprep/internal/performance"
	"github.com/examprep/examprep/internal/store"
)

// Plan is a generated study plan. Items is the weekly template repeated
// for Weeks weeks.
type Plan struct {
	ID                string
	UserID            string
	CreatedAt         time.Time
	Strategy          Strategy
	WeeklyHoursBudget float64
	Weeks             int
	Items             []PlanItem
}

// Request describes a plan to build.
type Request struct {
	UserID       string
	Performances []performance.SubjectPerformance
	WeeklyHours  float64
	Strategy     Strategy
	Weeks        int
}

// Build allocates a plan for req.
func Build(req Request, policy Policy, now time.Time) Plan {
	weeks := req.Weeks
	if weeks < 1 {
		weeks = 1
	}
	return Plan{
		ID:                uuid.NewString(),
		UserID:            req.UserID,
		CreatedAt:         now,
		Strategy:          req.Strategy,
		WeeklyHoursBudget: req.WeeklyHours,
		Weeks:             weeks,
		Items:             AllocateWith(req.Performances, req.WeeklyHours, req.Strategy, policy),
	}
}

// TotalHours is the sum of weekly hours across items.
func (p Plan) TotalHours() float64 {
	var total float64
	for _, it := range p.Items {
		total += it.WeeklyHours
	}
	return total
}

// DayLoad returns the hours scheduled per weekday.
func (p Plan) DayLoad() map[time.Weekday]float64 {
	load := make(map[time.Weekday]float64)
	for _, it := range p.Items {
		for _, s := range it.DailySessions {
			load[s.Day] += s.DurationHours
		}
	}
	return load
}

// Days returns the weekdays that carry sessions, Monday first.
func (p Plan) Days() []time.Weekday {
	load := p.DayLoad()
	var days []time.Weekday
	for i := 1; i <= 7; i++ {
		d := time.Weekday(i % 7)
		if load[d] > 0 {
			days = append(days, d)
		}
	}
	return days
}

// CalendarEntry is one session placed on a date.
type CalendarEntry struct {
	Date    time.Time
	Week    int
	Subject string
	Tier    Tier
	Hours   float64
}

// Calendar expands the weekly template into dated sessions. Week w covers
// the seven days starting start+7w; every weekday appears once in that
// window.
func (p Plan) Calendar(start time.Time) []CalendarEntry {
	anchor := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	weeks := max(p.Weeks, 1)

	var entries []CalendarEntry
	for w := 0; w < weeks; w++ {
		weekStart := anchor.AddDate(0, 0, 7*w)
		for _, it := range p.Items {
			for _, s := range it.DailySessions {
				offset := (int(s.Day) - int(weekStart.Weekday()) + 7) % 7
				entries = append(entries, CalendarEntry{
					Date:    weekStart.AddDate(0, 0, offset),
					Week:    w + 1,
					Subject: it.Subject,
					Tier:    it.Tier,
					Hours:   s.DurationHours,
				})
			}
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
	return entries
}

// Record encodes p for storage.
func (p Plan) Record() (*store.PlanRecord, error) {
	items, err := json.Marshal(p.Items)
	if err != nil {
		return nil, fmt.Errorf("marshal plan items: %w", err)
	}
	return &store.PlanRecord{
		ID:          p.ID,
		UserID:      p.UserID,
		CreatedAt:   p.CreatedAt,
		Strategy:    string(p.Strategy),
		WeeklyHours: p.WeeklyHoursBudget,
		Weeks:       p.Weeks,
		Items:       items,
	}, nil
}

// FromRecord decodes a stored plan.
func FromRecord(rec *store.PlanRecord) (Plan, error) {
	p := Plan{
		ID:                rec.ID,
		UserID:            rec.UserID,
		CreatedAt:         rec.CreatedAt,
		Strategy:          Strategy(rec.Strategy),
		WeeklyHoursBudget: rec.WeeklyHours,
		Weeks:             rec.Weeks,
	}
	if err := json.Unmarshal(rec.Items, &p.Items); err != nil {
		return p, fmt.Errorf("unmarshal plan %s: %w", rec.ID, err)
	}
	return p, nil
}
