package llm

import "context"

// Purpose labels a request in the event log.
type Purpose string

const (
	PurposeExplanation Purpose = "question-explanation"
	PurposeStudyTips   Purpose = "study-tips"
	purposeUnknown     Purpose = "unknown"
)

type purposeKey struct{}

// WithPurpose tags every request made under ctx.
func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, purposeKey{}, p)
}

func purposeOf(ctx context.Context) Purpose {
	if p, ok := ctx.Value(purposeKey{}).(Purpose); ok && p != "" {
		return p
	}
	return purposeUnknown
}
