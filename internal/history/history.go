package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/examprep/examprep/internal/ingest"
	"github.com/examprep/examprep/internal/logger"
	"github.com/examprep/examprep/internal/performance"
	"github.com/examprep/examprep/internal/store"
)

// ErrUnknownLetter is returned when the chosen letter is not one of the
// question's alternatives.
var ErrUnknownLetter = errors.New("letter is not an alternative of the question")

// Service records answers and reads a user's history.
type Service struct {
	repo store.AnswerRepo
	log  *logger.Logger
	now  func() time.Time
}

// NewService creates a history service over repo.
func NewService(repo store.AnswerRepo, log *logger.Logger) *Service {
	return &Service{repo: repo, log: logger.OrNop(log), now: time.Now}
}

// Submit stores the user's answer to q. Answering the same question again
// increments the attempt count and replaces the previous answer.
func (s *Service) Submit(ctx context.Context, userID string, q ingest.Question, chosen string, responseTime time.Duration) (*store.AnswerRecord, error) {
	alt, ok := q.Alternative(chosen)
	if !ok {
		return nil, fmt.Errorf("%w: %q for question %d", ErrUnknownLetter, chosen, q.ID)
	}
	correct := q.CorrectLetter()

	alts := make([]ingest.Alternative, len(q.Alternatives))
	copy(alts, q.Alternatives)

	rec := &store.AnswerRecord{
		UserID:              userID,
		QuestionID:          q.ID,
		Subject:             q.Subject,
		Statement:           q.Statement,
		Alternatives:        alts,
		ChosenLetter:        alt.Letter,
		CorrectLetter:       correct,
		IsCorrect:           correct != "" && strings.EqualFold(alt.Letter, correct),
		AnsweredAt:          s.now(),
		ResponseTimeSeconds: seconds(responseTime),
	}

	stored, err := s.repo.Upsert(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("record answer: %w", err)
	}
	s.log.Debug("answer recorded",
		"user", userID,
		"question", q.ID,
		"correct", stored.IsCorrect,
		"attempt", stored.AttemptCount,
	)
	return stored, nil
}

// List returns the user's latest answers, newest first. limit <= 0 means
// no limit.
func (s *Service) List(ctx context.Context, userID string, limit int) ([]store.AnswerRecord, error) {
	return s.repo.List(ctx, userID, store.QueryOpts{Limit: limit})
}

// Clear deletes the user's whole history.
func (s *Service) Clear(ctx context.Context, userID string) (int, error) {
	n, err := s.repo.Clear(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.log.Info("history cleared", "user", userID, "records", n)
	return n, nil
}

// Performance derives per-subject accuracy from the user's history.
func (s *Service) Performance(ctx context.Context, userID string) ([]performance.SubjectPerformance, error) {
	records, err := s.List(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	return performance.FromHistory(records), nil
}

// AnsweredSet returns the IDs of questions the user has answered.
func (s *Service) AnsweredSet(ctx context.Context, userID string) (map[int]bool, error) {
	records, err := s.List(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	set := make(map[int]bool, len(records))
	for _, r := range records {
		set[r.QuestionID] = true
	}
	return set, nil
}

func seconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d.Round(time.Second) / time.Second)
}
