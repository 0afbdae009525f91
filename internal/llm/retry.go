package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// retrying re-sends a request after transient failures with exponential
// backoff and ±20% jitter. A reply that fails validation is retried once;
// truncation and cancellation are never retried.
type retrying struct {
	next  Provider
	cfg   RetryConfig
	sleep func(context.Context, time.Duration) error
}

// WithRetry wraps p with the retry policy in cfg.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = 1
	}
	return &retrying{next: p, cfg: cfg, sleep: sleepCtx}
}

func (r *retrying) Generate(ctx context.Context, req Request) (*Response, error) {
	var (
		err           error
		invalidBefore bool
	)
	for attempt := 0; attempt < r.cfg.MaxAttempts; attempt++ {
		var resp *Response
		resp, err = r.next.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if !retryable(err, invalidBefore) || attempt == r.cfg.MaxAttempts-1 {
			return nil, err
		}
		if kind, ok := KindOf(err); ok && kind == KindInvalidOutput {
			invalidBefore = true
		}
		if serr := r.sleep(ctx, r.delay(attempt, err)); serr != nil {
			return nil, serr
		}
	}
	return nil, err
}

func (r *retrying) ModelID() string {
	return r.next.ModelID()
}

func retryable(err error, invalidBefore bool) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	kind, ok := KindOf(err)
	if !ok {
		// Unclassified errors are usually transport failures.
		return true
	}
	switch kind {
	case KindTruncated:
		return false
	case KindInvalidOutput:
		return !invalidBefore
	default:
		return true
	}
}

func (r *retrying) delay(attempt int, err error) time.Duration {
	var e *Error
	if errors.As(err, &e) && e.RetryAfter > 0 {
		return e.RetryAfter
	}
	d := float64(r.cfg.InitialWait) * math.Pow(r.cfg.Multiplier, float64(attempt))
	if maxWait := float64(r.cfg.MaxWait); maxWait > 0 && d > maxWait {
		d = maxWait
	}
	d += d * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(max(d, 0))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// deadline bounds a whole Generate call, retries included.
type deadline struct {
	next    Provider
	timeout time.Duration
}

// WithTimeout wraps p so every call runs under timeout. A non-positive
// timeout returns p unchanged.
func WithTimeout(p Provider, timeout time.Duration) Provider {
	if timeout <= 0 {
		return p
	}
	return &deadline{next: p, timeout: timeout}
}

func (d *deadline) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return d.next.Generate(ctx, req)
}

func (d *deadline) ModelID() string {
	return d.next.ModelID()
}
