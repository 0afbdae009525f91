package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Kind classifies a provider failure.
type Kind int

const (
	// KindUnavailable covers network failures and vendor 5xx responses.
	KindUnavailable Kind = iota
	KindRateLimited
	// KindInvalidOutput means the reply did not parse or did not match the
	// request schema.
	KindInvalidOutput
	// KindTruncated means generation stopped at MaxTokens.
	KindTruncated
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate limited"
	case KindInvalidOutput:
		return "invalid output"
	case KindTruncated:
		return "truncated"
	default:
		return "unavailable"
	}
}

// Error is returned by every Provider for vendor-side failures.
type Error struct {
	Kind Kind

	// RetryAfter is the vendor's requested wait, when it sent one.
	RetryAfter time.Duration

	// Content holds the offending reply for KindInvalidOutput and
	// KindTruncated.
	Content json.RawMessage

	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "llm: " + e.Kind.String()
	}
	return fmt.Sprintf("llm: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the Kind of err. ok is false when err carries no *Error.
func KindOf(err error) (kind Kind, ok bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// fromStatus classifies a failed vendor call by its HTTP status. Anything
// other than 429 is treated as the vendor being unavailable.
func fromStatus(status int, header http.Header, err error) error {
	if status != http.StatusTooManyRequests {
		return &Error{Kind: KindUnavailable, Err: err}
	}
	e := &Error{Kind: KindRateLimited, Err: err}
	if header != nil {
		if secs, convErr := strconv.Atoi(header.Get("Retry-After")); convErr == nil && secs > 0 {
			e.RetryAfter = time.Duration(secs) * time.Second
		}
	}
	return e
}

func invalidOutput(content json.RawMessage, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidOutput, Content: content, Err: fmt.Errorf(format, args...)}
}
