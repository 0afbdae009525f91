package studyaid

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/examprep/examprep/internal/ingest"
	"github.com/examprep/examprep/internal/llm"
	"github.com/examprep/examprep/internal/logger"
	"github.com/examprep/examprep/internal/performance"
	"github.com/examprep/examprep/internal/schedule"
)

// Service generates explanations and tips. A nil provider is valid; every
// call then returns the local fallback.
type Service struct {
	provider llm.Provider
	cfg      Config
	log      *logger.Logger

	mu      sync.Mutex
	seq     int
	pending *Explanation
	ready   bool
}

func NewService(provider llm.Provider, cfg Config, log *logger.Logger) *Service {
	if cfg.MaxSubjects <= 0 {
		cfg.MaxSubjects = DefaultConfig().MaxSubjects
	}
	return &Service{provider: provider, cfg: cfg, log: logger.OrNop(log)}
}

// Available reports whether a provider is configured.
func (s *Service) Available() bool {
	return s.provider != nil
}

type explanationOutput struct {
	Explanation    string `json:"explanation"`
	WhyChosenWrong string `json:"why_chosen_is_wrong"`
	KeyConcept     string `json:"key_concept"`
}

// Explain explains q's correct alternative to a learner who picked chosen
// (empty when unanswered). Provider failures degrade to the local
// explanation; the error return is reserved for a question with no
// correct alternative.
func (s *Service) Explain(ctx context.Context, q ingest.Question, chosen string) (*Explanation, error) {
	if q.CorrectLetter() == "" {
		return nil, fmt.Errorf("question %d has no correct alternative", q.ID)
	}
	chosen = strings.ToUpper(strings.TrimSpace(chosen))

	if s.provider == nil {
		return fallbackExplanation(q, chosen), nil
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeExplanation)
	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      explanationSystemPrompt,
		Prompt:      buildExplanationUserMessage(q, chosen),
		Schema:      ExplanationSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		s.log.Warn("explanation unavailable, using fallback", "question_id", q.ID, "error", err)
		return fallbackExplanation(q, chosen), nil
	}

	var out explanationOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil || strings.TrimSpace(out.Explanation) == "" {
		s.log.Warn("unusable explanation response, using fallback", "question_id", q.ID, "error", err)
		return fallbackExplanation(q, chosen), nil
	}

	e := &Explanation{
		QuestionID:    q.ID,
		Subject:       q.Subject,
		CorrectLetter: q.CorrectLetter(),
		ChosenLetter:  chosen,
		Explanation:   strings.TrimSpace(out.Explanation),
		KeyConcept:    strings.TrimSpace(out.KeyConcept),
	}
	if chosen != "" && chosen != e.CorrectLetter {
		e.WhyChosenWrong = strings.TrimSpace(out.WhyChosenWrong)
	}
	return e, nil
}

// RequestExplanation starts Explain in the background. Only the latest
// request is kept; results of superseded requests are dropped.
func (s *Service) RequestExplanation(ctx context.Context, q ingest.Question, chosen string) {
	s.mu.Lock()
	s.seq++
	id := s.seq
	s.pending = nil
	s.ready = false
	s.mu.Unlock()

	go func() {
		e, err := s.Explain(ctx, q, chosen)
		if err != nil {
			s.log.Warn("explanation request failed", "question_id", q.ID, "error", err)
			e = unexplainable(q, chosen)
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if id != s.seq {
			return
		}
		s.pending = e
		s.ready = true
	}()
}

// ConsumeExplanation returns the result of the latest request once it has
// finished and clears the slot. A finished request always yields a
// non-nil explanation; failures come back as a fallback.
func (s *Service) ConsumeExplanation() (*Explanation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil, false
	}
	e := s.pending
	s.pending = nil
	s.ready = false
	return e, true
}

type tipsOutput struct {
	Tips []struct {
		Subject string   `json:"subject"`
		Advice  string   `json:"advice"`
		Actions []string `json:"actions"`
	} `json:"tips"`
}

// StudyTips gives advice for the weakest subjects. plan may be nil.
func (s *Service) StudyTips(ctx context.Context, perfs []performance.SubjectPerformance, plan *schedule.Plan) (*Tips, error) {
	weak := weakest(perfs, s.cfg.MaxSubjects)
	if len(weak) == 0 {
		return &Tips{Tips: []Tip{}}, nil
	}
	if s.provider == nil {
		return fallbackTips(weak, plan), nil
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeStudyTips)
	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      tipsSystemPrompt,
		Prompt:      buildTipsUserMessage(weak, plan),
		Schema:      TipsSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		s.log.Warn("study tips unavailable, using fallback", "error", err)
		return fallbackTips(weak, plan), nil
	}

	var out tipsOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		s.log.Warn("unusable study tips response, using fallback", "error", err)
		return fallbackTips(weak, plan), nil
	}

	advice := make(map[string]int, len(out.Tips))
	for i, t := range out.Tips {
		advice[strings.ToLower(strings.TrimSpace(t.Subject))] = i
	}

	tips := make([]Tip, 0, len(weak))
	for _, p := range weak {
		i, ok := advice[strings.ToLower(p.Subject)]
		if !ok {
			tips = append(tips, staticTip(p, plan))
			continue
		}
		tips = append(tips, Tip{
			Subject:         p.Subject,
			Tier:            schedule.Classify(p.AccuracyPercent),
			AccuracyPercent: p.AccuracyPercent,
			Advice:          strings.TrimSpace(out.Tips[i].Advice),
			Actions:         out.Tips[i].Actions,
		})
	}
	return &Tips{Tips: tips}, nil
}

// weakest returns up to n subjects with answers, lowest accuracy first.
func weakest(perfs []performance.SubjectPerformance, n int) []performance.SubjectPerformance {
	out := make([]performance.SubjectPerformance, 0, len(perfs))
	for _, p := range perfs {
		if p.TotalAnswered > 0 {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AccuracyPercent != out[j].AccuracyPercent {
			return out[i].AccuracyPercent < out[j].AccuracyPercent
		}
		return out[i].Subject < out[j].Subject
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
