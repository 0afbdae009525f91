package store

import (
	"context"
	"fmt"
	"sync"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// sequenceTable is a single-row counter. It is migrated with the other
// tables but is not part of Tables, which is derived from the ent schemas.
var sequenceTable = &schema.Table{
	Name: "global_sequence",
	Columns: []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	},
}

func init() {
	sequenceTable.PrimaryKey = sequenceTable.Columns[:1]
}

// sequenceCounter numbers answer records and LLM events from one shared
// sequence. Answers arrive faster than the timestamp resolution, so
// ordering relies on the sequence.
type sequenceCounter struct {
	mu  sync.Mutex
	drv *entsql.Driver
}

func newSequenceCounter(ctx context.Context, drv *entsql.Driver) (*sequenceCounter, error) {
	seed := sqlite.Insert(sequenceTable.Name).
		Columns("id", "next_val").
		Values(1, 1).
		OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing())
	if _, err := exec(ctx, drv, seed); err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}
	return &sequenceCounter{drv: drv}, nil
}

// Next returns the current value and advances the counter in the same
// statement, so separate processes sharing the file never get duplicates.
func (c *sequenceCounter) Next(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	q, args := sqlite.Update(sequenceTable.Name).
		Add("next_val", 1).
		Where(entsql.EQ("id", 1)).
		Returning("next_val").
		Query()
	rows := &entsql.Rows{}
	if err := c.drv.Query(ctx, q, args, rows); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	defer rows.Close()
	next, err := entsql.ScanInt64(rows)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return next - 1, nil
}
