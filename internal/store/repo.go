package store

import (
	"context"
	"errors"
	"time"

	"github.com/examprep/examprep/internal/ingest"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// MaxBatchSize is the largest number of records written in one batch.
const MaxBatchSize = 500

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To

	Purpose string // LLM events only; empty matches all
}

// QuestionRepo persists the shared question bank.
type QuestionRepo interface {
	// ReplaceAll overwrites the bank with questions, writing at most
	// MaxBatchSize records per batch, and returns the number of batches.
	ReplaceAll(ctx context.Context, questions []ingest.Question) (int, error)

	// All returns every question ordered by ID.
	All(ctx context.Context) ([]ingest.Question, error)

	// Get returns one question, or ErrNotFound.
	Get(ctx context.Context, id int) (*ingest.Question, error)

	// Count returns the bank size.
	Count(ctx context.Context) (int, error)
}

// AnswerRecord is the latest answer a user gave to one question. The
// question fields are a copy taken at answer time.
type AnswerRecord struct {
	UserID              string
	QuestionID          int
	Subject             string
	Statement           string
	Alternatives        []ingest.Alternative
	ChosenLetter        string
	CorrectLetter       string
	IsCorrect           bool
	AnsweredAt          time.Time
	ResponseTimeSeconds int
	AttemptCount        int
	Sequence            int64
}

// AnswerRepo manages per-user answer history.
type AnswerRepo interface {
	// Upsert stores rec. A repeat answer to the same question by the same
	// user increments the attempt count and overwrites the answer fields.
	// It returns the stored record.
	Upsert(ctx context.Context, rec *AnswerRecord) (*AnswerRecord, error)

	// Get returns the record for one question, or ErrNotFound.
	Get(ctx context.Context, userID string, questionID int) (*AnswerRecord, error)

	// List returns a user's records, most recently answered first.
	List(ctx context.Context, userID string, opts QueryOpts) ([]AnswerRecord, error)

	// Clear deletes a user's history and returns the number of rows removed.
	Clear(ctx context.Context, userID string) (int, error)
}

// PlanRecord is a persisted study plan. Items holds the JSON-encoded plan
// items.
type PlanRecord struct {
	ID          string
	UserID      string
	CreatedAt   time.Time
	Strategy    string
	WeeklyHours float64
	Weeks       int
	Items       []byte
}

// PlanRepo stores generated study plans per user.
type PlanRepo interface {
	Save(ctx context.Context, plan *PlanRecord) error

	// Latest returns the newest plan for a user, or nil if none exist.
	Latest(ctx context.Context, userID string) (*PlanRecord, error)

	// List returns a user's plans, newest first.
	List(ctx context.Context, userID string, limit int) ([]PlanRecord, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates token usage for one purpose or model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
