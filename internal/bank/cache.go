package bank

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/examprep/examprep/internal/ingest"
	"github.com/examprep/examprep/internal/store"
)

// Loader reads the full question bank.
type Loader interface {
	All(ctx context.Context) ([]ingest.Question, error)
}

// Counter is implemented by loaders that can count the stored bank
// cheaply. Refresh uses it to notice imports made by other processes.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// snapshot is one loaded copy of the bank. It is never modified after
// ensure builds it, so readers may use it without holding the lock.
type snapshot struct {
	questions []ingest.Question
	byID      map[int]int
	subjects  []string
}

// Cache holds the question bank in memory after the first read. It is
// safe for concurrent use; Invalidate drops the cached copy so the next
// read goes back to the loader.
type Cache struct {
	loader Loader

	mu    sync.RWMutex
	snap  *snapshot
	loads int
}

// New creates an empty cache over loader.
func New(loader Loader) *Cache {
	return &Cache{loader: loader}
}

// Invalidate forgets the cached bank.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = nil
}

// Refresh invalidates the cache when the stored bank no longer has the
// cached number of questions. It does nothing for loaders that cannot
// count or when nothing is cached yet.
func (c *Cache) Refresh(ctx context.Context) error {
	counter, ok := c.loader.(Counter)
	if !ok {
		return nil
	}
	c.mu.RLock()
	snap := c.snap
	c.mu.RUnlock()
	if snap == nil {
		return nil
	}

	n, err := counter.Count(ctx)
	if err != nil {
		return fmt.Errorf("count question bank: %w", err)
	}
	if n == len(snap.questions) {
		return nil
	}
	c.mu.Lock()
	if c.snap == snap {
		c.snap = nil
	}
	c.mu.Unlock()
	return nil
}

// All returns every question ordered by ID. The slice is shared; callers
// must not modify it.
func (c *Cache) All(ctx context.Context) ([]ingest.Question, error) {
	snap, err := c.ensure(ctx)
	if err != nil {
		return nil, err
	}
	return snap.questions, nil
}

// Get returns the question with the given ID.
func (c *Cache) Get(ctx context.Context, id int) (ingest.Question, error) {
	snap, err := c.ensure(ctx)
	if err != nil {
		return ingest.Question{}, err
	}
	i, ok := snap.byID[id]
	if !ok {
		return ingest.Question{}, fmt.Errorf("question %d: %w", id, store.ErrNotFound)
	}
	return snap.questions[i], nil
}

// BySubject returns the questions of one subject, matched case-insensitively.
func (c *Cache) BySubject(ctx context.Context, subject string) ([]ingest.Question, error) {
	all, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	var out []ingest.Question
	for _, q := range all {
		if strings.EqualFold(q.Subject, subject) {
			out = append(out, q)
		}
	}
	return out, nil
}

// Subjects returns the distinct subjects, sorted.
func (c *Cache) Subjects(ctx context.Context) ([]string, error) {
	snap, err := c.ensure(ctx)
	if err != nil {
		return nil, err
	}
	return snap.subjects, nil
}
// Queue orders questions for practice: unanswered before answered, by ID
// within each group. An empty subject means all subjects.
func (c *Cache) Queue(ctx context.Context, subject string, answered map[int]bool) ([]ingest.Question, error) {
	var (
		qs  []ingest.Question
		err error
	)
	if subject == "" {
		qs, err = c.All(ctx)
	} else {
		qs, err = c.BySubject(ctx, subject)
	}
	if err != nil {
		return nil, err
	}

	out := make([]ingest.Question, 0, len(qs))
	for _, q := range qs {
		if !answered[q.ID] {
			out = append(out, q)
		}
	}
	for _, q := range qs {
		if answered[q.ID] {
			out = append(out, q)
		}
	}
	return out, nil
}

// ensure returns the cached snapshot, loading it first when needed.
func (c *Cache) ensure(ctx context.Context) (*snapshot, error) {
	c.mu.RLock()
	snap := c.snap
	c.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snap != nil {
		return c.snap, nil
	}

	qs, err := c.loader.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}
	sort.Slice(qs, func(i, j int) bool { return qs[i].ID < qs[j].ID })

	snap = &snapshot{questions: qs, byID: make(map[int]int, len(qs))}
	seen := make(map[string]bool)
	for i, q := range qs {
		snap.byID[q.ID] = i
		if !seen[q.Subject] {
			seen[q.Subject] = true
			snap.subjects = append(snap.subjects, q.Subject)
		}
	}
	sort.Strings(snap.subjects)

	c.snap = snap
	c.loads++
	return snap, nil
}
