package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/examprep/examprep/internal/ingest"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is not checked here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	dsn := "file:" + t.TempDir() + "/examprep.db"
	for i := 0; i < 2; i++ {
		s, err := Open(dsn)
		if err != nil {
			t.Fatalf("open #%d: %v", i+1, err)
		}
		s.Close()
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var prev int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		if seq <= prev {
			t.Errorf("sequence %d not increasing (prev %d)", seq, prev)
		}
		prev = seq
	}
}

func makeQuestions(n int) []ingest.Question {
	qs := make([]ingest.Question, n)
	for i := range qs {
		qs[i] = ingest.Question{
			ID:        i + 1,
			Subject:   []string{"Math", "History", "Biology"}[i%3],
			Statement: fmt.Sprintf("question %d", i+1),
			Alternatives: []ingest.Alternative{
				{Letter: "A", Text: "yes", IsCorrect: i%2 == 0},
				{Letter: "B", Text: "no", IsCorrect: i%2 == 1},
			},
		}
	}
	return qs
}

func TestQuestionReplaceAllBatches(t *testing.T) {
	s := openTestStore(t)
	repo := s.QuestionRepo()
	ctx := context.Background()

	batches, err := repo.ReplaceAll(ctx, makeQuestions(1201))
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if batches != 3 {
		t.Errorf("batches = %d, want 3", batches)
	}
	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1201 {
		t.Errorf("count = %d, want 1201", n)
	}

	// A smaller bank removes the stale tail.
	if _, err := repo.ReplaceAll(ctx, makeQuestions(10)); err != nil {
		t.Fatalf("replace smaller: %v", err)
	}
	all, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 10 {
		t.Fatalf("len(all) = %d, want 10", len(all))
	}
	if all[9].ID != 10 || all[9].Statement != "question 10" {
		t.Errorf("last question = %+v", all[9])
	}
	if len(all[0].Alternatives) != 2 || !all[0].Alternatives[0].IsCorrect {
		t.Errorf("alternatives not round-tripped: %+v", all[0].Alternatives)
	}
}

func TestQuestionGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.QuestionRepo()
	ctx := context.Background()

	if _, err := repo.ReplaceAll(ctx, makeQuestions(3)); err != nil {
		t.Fatalf("replace: %v", err)
	}
	q, err := repo.Get(ctx, 2)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if q.Subject != "History" {
		t.Errorf("subject = %q, want History", q.Subject)
	}
	if _, err := repo.Get(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("get missing: err = %v, want ErrNotFound", err)
	}
}

func answer(user string, qid int, chosen string, correct bool, at time.Time) *AnswerRecord {
	return &AnswerRecord{
		UserID:        user,
		QuestionID:    qid,
		Subject:       "Math",
		Statement:     "2+2=?",
		Alternatives:  []ingest.Alternative{{Letter: "A", Text: "3"}, {Letter: "B", Text: "4", IsCorrect: true}},
		ChosenLetter:  chosen,
		CorrectLetter: "B",
		IsCorrect:     correct,
		AnsweredAt:    at,
	}
}

func TestAnswerUpsertIncrementsAttempts(t *testing.T) {
	s := openTestStore(t)
	repo := s.AnswerRepo()
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	rec, err := repo.Upsert(ctx, answer("ana", 1, "A", false, base))
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if rec.AttemptCount != 1 {
		t.Errorf("attempt count = %d, want 1", rec.AttemptCount)
	}

	second := answer("ana", 1, "B", true, base.Add(time.Minute))
	second.ResponseTimeSeconds = 12
	rec, err = repo.Upsert(ctx, second)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if rec.AttemptCount != 2 {
		t.Errorf("attempt count = %d, want 2", rec.AttemptCount)
	}
	if rec.ChosenLetter != "B" || !rec.IsCorrect {
		t.Errorf("latest answer not overwritten: %+v", rec)
	}
	if rec.ResponseTimeSeconds != 12 {
		t.Errorf("response time = %d, want 12", rec.ResponseTimeSeconds)
	}
	if !rec.AnsweredAt.Equal(base.Add(time.Minute)) {
		t.Errorf("answered at = %v, want %v", rec.AnsweredAt, base.Add(time.Minute))
	}

	// Another user answering the same question starts at one.
	other, err := repo.Upsert(ctx, answer("bo", 1, "B", true, base))
	if err != nil {
		t.Fatalf("other user upsert: %v", err)
	}
	if other.AttemptCount != 1 {
		t.Errorf("other user attempt count = %d, want 1", other.AttemptCount)
	}
}

func TestAnswerListAndClear(t *testing.T) {
	s := openTestStore(t)
	repo := s.AnswerRepo()
	ctx := context.Background()
	now := time.Now().UTC()

	for _, qid := range []int{1, 2, 3} {
		if _, err := repo.Upsert(ctx, answer("ana", qid, "B", true, now)); err != nil {
			t.Fatalf("upsert %d: %v", qid, err)
		}
	}
	// Re-answering moves question 1 to the front.
	if _, err := repo.Upsert(ctx, answer("ana", 1, "A", false, now)); err != nil {
		t.Fatalf("re-answer: %v", err)
	}
	if _, err := repo.Upsert(ctx, answer("bo", 9, "A", false, now)); err != nil {
		t.Fatalf("upsert bo: %v", err)
	}

	list, err := repo.List(ctx, "ana", QueryOpts{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len(list) = %d, want 3", len(list))
	}
	want := []int{1, 3, 2}
	for i, rec := range list {
		if rec.QuestionID != want[i] {
			t.Errorf("list[%d].QuestionID = %d, want %d", i, rec.QuestionID, want[i])
		}
	}

	limited, err := repo.List(ctx, "ana", QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("len(limited) = %d, want 2", len(limited))
	}

	n, err := repo.Clear(ctx, "ana")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if n != 3 {
		t.Errorf("cleared = %d, want 3", n)
	}
	if _, err := repo.Get(ctx, "ana", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after clear: err = %v, want ErrNotFound", err)
	}
	if _, err := repo.Get(ctx, "bo", 9); err != nil {
		t.Errorf("other user's history was cleared: %v", err)
	}
}

func TestPlanSaveAndLatest(t *testing.T) {
	s := openTestStore(t)
	repo := s.PlanRepo()
	ctx := context.Background()

	p, err := repo.Latest(ctx, "ana")
	if err != nil {
		t.Fatalf("latest (empty): %v", err)
	}
	if p != nil {
		t.Fatal("expected nil plan when none exist")
	}

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		err := repo.Save(ctx, &PlanRecord{
			ID:          fmt.Sprintf("plan-%d", i),
			UserID:      "ana",
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
			Strategy:    "balanced",
			WeeklyHours: 10.5,
			Weeks:       2,
			Items:       []byte(`[{"subject":"Math"}]`),
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	p, err = repo.Latest(ctx, "ana")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if p.ID != "plan-2" {
		t.Errorf("latest id = %q, want plan-2", p.ID)
	}
	if p.WeeklyHours != 10.5 || p.Weeks != 2 {
		t.Errorf("plan fields = %+v", p)
	}
	if string(p.Items) != `[{"subject":"Math"}]` {
		t.Errorf("items = %s", p.Items)
	}

	list, err := repo.List(ctx, "ana", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Errorf("len(list) = %d, want 3", len(list))
	}
	other, err := repo.Latest(ctx, "bo")
	if err != nil || other != nil {
		t.Errorf("other user latest = %v, %v; want nil, nil", other, err)
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "explanation", InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "explanation", InputTokens: 300, OutputTokens: 70, LatencyMs: 400, Success: true},
		{Provider: "gemini", Model: "gemini-2.0-flash", Purpose: "study-tips", InputTokens: 10, OutputTokens: 5, LatencyMs: 90, Success: false, ErrorMessage: "boom"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Purpose != "study-tips" || got[0].ErrorMessage != "boom" || got[0].Success {
		t.Errorf("newest event = %+v", got[0])
	}

	tips, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "explanation", Limit: 1})
	if err != nil {
		t.Fatalf("query by purpose: %v", err)
	}
	if len(tips) != 1 || tips[0].InputTokens != 300 {
		t.Errorf("newest explanation = %+v", tips)
	}

	e, err := repo.GetLLMEvent(ctx, got[1].ID)
	if err != nil || e == nil {
		t.Fatalf("get: %v, %v", e, err)
	}
	if e.InputTokens != 300 {
		t.Errorf("input tokens = %d, want 300", e.InputTokens)
	}
	missing, err := repo.GetLLMEvent(ctx, 999)
	if err != nil || missing != nil {
		t.Errorf("get missing = %v, %v; want nil, nil", missing, err)
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("len(byPurpose) = %d, want 2", len(byPurpose))
	}
	ex := byPurpose[0]
	if ex.Purpose != "explanation" || ex.Calls != 2 || ex.InputTokens != 400 || ex.OutputTokens != 120 || ex.AvgLatencyMs != 300 {
		t.Errorf("explanation usage = %+v", ex)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 || byModel[0].Model != "gemini-2.0-flash" {
		t.Errorf("usage by model = %+v", byModel)
	}
}
