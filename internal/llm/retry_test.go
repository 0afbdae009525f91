package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func newTestRetry(p Provider, attempts int) (*retrying, *[]time.Duration) {
	var waits []time.Duration
	r := WithRetry(p, RetryConfig{
		MaxAttempts: attempts,
		InitialWait: 100 * time.Millisecond,
		MaxWait:     time.Second,
		Multiplier:  2,
	}).(*retrying)
	r.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	return r, &waits
}

func TestRetry(t *testing.T) {
	ok := MockResponse{Content: json.RawMessage(`{"letter":"A"}`)}
	tests := []struct {
		name      string
		script    []MockResponse
		wantCalls int
		wantErr   bool
	}{
		{"first try", []MockResponse{ok}, 1, false},
		{"unavailable then ok", []MockResponse{{Err: &Error{Kind: KindUnavailable}}, ok}, 2, false},
		{"rate limited twice", []MockResponse{{Err: &Error{Kind: KindRateLimited}}, {Err: &Error{Kind: KindRateLimited}}, ok}, 3, false},
		{"unclassified error", []MockResponse{{Err: errors.New("connection reset")}, ok}, 2, false},
		{"invalid once", []MockResponse{{Err: &Error{Kind: KindInvalidOutput}}, ok}, 2, false},
		{"invalid twice", []MockResponse{{Err: &Error{Kind: KindInvalidOutput}}, {Err: &Error{Kind: KindInvalidOutput}}, ok}, 2, true},
		{"truncated", []MockResponse{{Err: &Error{Kind: KindTruncated}}, ok}, 1, true},
		{"canceled", []MockResponse{{Err: context.Canceled}, ok}, 1, true},
		{"exhausted", []MockResponse{{Err: &Error{Kind: KindUnavailable}}, {Err: &Error{Kind: KindUnavailable}}, {Err: &Error{Kind: KindUnavailable}}}, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.script...)
			r, _ := newTestRetry(mock, 3)

			_, err := r.Generate(context.Background(), Request{Schema: answerSchema})
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if n := len(mock.Requests()); n != tt.wantCalls {
				t.Errorf("calls = %d, want %d", n, tt.wantCalls)
			}
		})
	}
}

func TestRetryBackoffGrowsAndCaps(t *testing.T) {
	script := make([]MockResponse, 5)
	for i := range script {
		script[i] = MockResponse{Err: &Error{Kind: KindUnavailable}}
	}
	r, waits := newTestRetry(NewMockProvider(script...), 5)
	_, _ = r.Generate(context.Background(), Request{})

	want := []time.Duration{100, 200, 400, 800}
	if len(*waits) != len(want) {
		t.Fatalf("waits = %v", *waits)
	}
	for i, w := range *waits {
		base := want[i] * time.Millisecond
		if base > time.Second {
			base = time.Second
		}
		lo, hi := time.Duration(float64(base)*0.8), time.Duration(float64(base)*1.2)
		if w < lo || w > hi {
			t.Errorf("wait %d = %s, want within [%s, %s]", i, w, lo, hi)
		}
	}
}

func TestRetryHonorsRetryAfter(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &Error{Kind: KindRateLimited, RetryAfter: 7 * time.Second}},
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	r, waits := newTestRetry(mock, 3)
	if _, err := r.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(*waits) != 1 || (*waits)[0] != 7*time.Second {
		t.Fatalf("waits = %v, want [7s]", *waits)
	}
}

func TestRetryStopsWhenContextDone(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &Error{Kind: KindUnavailable}}, MockResponse{Content: json.RawMessage(`{}`)})
	r := WithRetry(mock, RetryConfig{MaxAttempts: 3, InitialWait: time.Hour}).(*retrying)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := r.Generate(ctx, Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want deadline exceeded", err)
	}
	if n := len(mock.Requests()); n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}
}

type blockingProvider struct{}

func (blockingProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingProvider) ModelID() string { return "blocking" }

func TestTimeout(t *testing.T) {
	p := WithTimeout(blockingProvider{}, 5*time.Millisecond)
	if _, err := p.Generate(context.Background(), Request{}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want deadline exceeded", err)
	}

	mock := NewMockProvider()
	if WithTimeout(mock, 0) != Provider(mock) {
		t.Fatal("zero timeout should not wrap")
	}
}
