package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/examprep/examprep/internal/logger"
	"github.com/examprep/examprep/internal/performance"
	"github.com/examprep/examprep/internal/store"
)

// PerformanceSource supplies a user's per-subject accuracy.
type PerformanceSource interface {
	Performance(ctx context.Context, userID string) ([]performance.SubjectPerformance, error)
}

// Service builds plans from a user's history and persists them.
type Service struct {
	perf   PerformanceSource
	plans  store.PlanRepo
	policy Policy
	log    *logger.Logger
	now    func() time.Time
}

// NewService creates a plan service.
func NewService(perf PerformanceSource, plans store.PlanRepo, policy Policy, log *logger.Logger) *Service {
	return &Service{
		perf:   perf,
		plans:  plans,
		policy: policy,
		log:    logger.OrNop(log),
		now:    time.Now,
	}
}

// Preview builds a plan for the user without saving it.
func (s *Service) Preview(ctx context.Context, userID string, weeklyHours float64, strategy Strategy, weeks int) (Plan, error) {
	perfs, err := s.perf.Performance(ctx, userID)
	if err != nil {
		return Plan{}, fmt.Errorf("load performance: %w", err)
	}
	return Build(Request{
		UserID:       userID,
		Performances: perfs,
		WeeklyHours:  weeklyHours,
		Strategy:     strategy,
		Weeks:        weeks,
	}, s.policy, s.now()), nil
}

// Generate builds a plan for the user and saves it.
func (s *Service) Generate(ctx context.Context, userID string, weeklyHours float64, strategy Strategy, weeks int) (Plan, error) {
	plan, err := s.Preview(ctx, userID, weeklyHours, strategy, weeks)
	if err != nil {
		return Plan{}, err
	}
	rec, err := plan.Record()
	if err != nil {
		return Plan{}, err
	}
	if err := s.plans.Save(ctx, rec); err != nil {
		return Plan{}, err
	}
	s.log.Info("study plan saved",
		"user", userID,
		"plan", plan.ID,
		"strategy", string(strategy),
		"budget", weeklyHours,
		"allocated", plan.TotalHours(),
		"subjects", len(plan.Items),
	)
	return plan, nil
}

// Latest returns the user's newest saved plan, or nil if there is none.
func (s *Service) Latest(ctx context.Context, userID string) (*Plan, error) {
	rec, err := s.plans.Latest(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	p, err := FromRecord(rec)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
