package store

import (
	"context"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/examprep/examprep/internal/ingest"
)

type questionRepo struct {
	drv *entsql.Driver
}

type questionRow struct {
	ID           int    `sql:"id"`
	Subject      string `sql:"subject"`
	Statement    string `sql:"statement"`
	Alternatives string `sql:"alternatives"`
}

var questionColumns = []string{"id", "subject", "statement", "alternatives"}

func (r *questionRepo) ReplaceAll(ctx context.Context, questions []ingest.Question) (int, error) {
	batches := 0
	for start := 0; start < len(questions); start += MaxBatchSize {
		end := min(start+MaxBatchSize, len(questions))
		if err := r.writeBatch(ctx, questions[start:end]); err != nil {
			return batches, fmt.Errorf("write batch %d: %w", batches+1, err)
		}
		batches++
	}

	// IDs are dense, so everything past the new bank is stale.
	del := sqlite.Delete(questionsTable).Where(entsql.GT("id", len(questions)))
	if _, err := exec(ctx, r.drv, del); err != nil {
		return batches, fmt.Errorf("delete stale questions: %w", err)
	}
	return batches, nil
}

func (r *questionRepo) writeBatch(ctx context.Context, batch []ingest.Question) (err error) {
	ins := sqlite.Insert(questionsTable).Columns(questionColumns...)
	for _, q := range batch {
		alts, err := json.Marshal(q.Alternatives)
		if err != nil {
			return fmt.Errorf("marshal alternatives of question %d: %w", q.ID, err)
		}
		ins.Values(q.ID, q.Subject, q.Statement, string(alts))
	}
	ins.OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues())

	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = exec(ctx, tx, ins); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *questionRepo) All(ctx context.Context) ([]ingest.Question, error) {
	sel := sqlite.Select(questionColumns...).From(sqlite.Table(questionsTable)).OrderBy("id")
	var rows []questionRow
	if err := query(ctx, r.drv, sel, &rows); err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	out := make([]ingest.Question, 0, len(rows))
	for _, row := range rows {
		q, err := row.question()
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

func (r *questionRepo) Get(ctx context.Context, id int) (*ingest.Question, error) {
	sel := sqlite.Select(questionColumns...).
		From(sqlite.Table(questionsTable)).
		Where(entsql.EQ("id", id))
	var rows []questionRow
	if err := query(ctx, r.drv, sel, &rows); err != nil {
		return nil, fmt.Errorf("query question %d: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("question %d: %w", id, ErrNotFound)
	}
	q, err := rows[0].question()
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *questionRepo) Count(ctx context.Context) (int, error) {
	n, err := count(ctx, r.drv, questionsTable, nil)
	if err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}

func (row questionRow) question() (ingest.Question, error) {
	q := ingest.Question{ID: row.ID, Subject: row.Subject, Statement: row.Statement}
	if err := json.Unmarshal([]byte(row.Alternatives), &q.Alternatives); err != nil {
		return q, fmt.Errorf("unmarshal alternatives of question %d: %w", row.ID, err)
	}
	return q, nil
}
