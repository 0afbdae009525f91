package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type answerRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

type answerRow struct {
	Sequence            int64     `sql:"sequence"`
	UserID              string    `sql:"user_id"`
	QuestionID          int       `sql:"question_id"`
	Subject             string    `sql:"subject"`
	Statement           string    `sql:"statement"`
	Alternatives        string    `sql:"alternatives"`
	ChosenLetter        string    `sql:"chosen_letter"`
	CorrectLetter       string    `sql:"correct_letter"`
	IsCorrect           bool      `sql:"is_correct"`
	AnsweredAt          time.Time `sql:"answered_at"`
	ResponseTimeSeconds int       `sql:"response_time_seconds"`
	AttemptCount        int       `sql:"attempt_count"`
}

var answerColumns = []string{
	"sequence", "user_id", "question_id", "subject", "statement", "alternatives",
	"chosen_letter", "correct_letter", "is_correct", "answered_at",
	"response_time_seconds", "attempt_count",
}

// Columns overwritten when the same question is answered again.
var answerOverwrite = []string{
	"sequence", "subject", "statement", "alternatives", "chosen_letter",
	"correct_letter", "is_correct", "answered_at", "response_time_seconds",
}

func (r *answerRepo) Upsert(ctx context.Context, rec *AnswerRecord) (*AnswerRecord, error) {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("next sequence: %w", err)
	}
	alts, err := json.Marshal(rec.Alternatives)
	if err != nil {
		return nil, fmt.Errorf("marshal alternatives: %w", err)
	}
	answeredAt := rec.AnsweredAt
	if answeredAt.IsZero() {
		answeredAt = time.Now()
	}

	ins := sqlite.Insert(answersTable).
		Columns(answerColumns...).
		Values(
			seqNum, rec.UserID, rec.QuestionID, rec.Subject, rec.Statement, string(alts),
			rec.ChosenLetter, rec.CorrectLetter, rec.IsCorrect, answeredAt.UTC(),
			max(rec.ResponseTimeSeconds, 0), 1,
		).
		OnConflict(
			entsql.ConflictColumns("user_id", "question_id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				for _, c := range answerOverwrite {
					u.SetExcluded(c)
				}
				u.Add("attempt_count", 1)
			}),
		)
	if _, err := exec(ctx, r.drv, ins); err != nil {
		return nil, fmt.Errorf("upsert answer for question %d: %w", rec.QuestionID, err)
	}
	return r.Get(ctx, rec.UserID, rec.QuestionID)
}

func (r *answerRepo) Get(ctx context.Context, userID string, questionID int) (*AnswerRecord, error) {
	sel := sqlite.Select(answerColumns...).
		From(sqlite.Table(answersTable)).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("question_id", questionID)))
	var rows []answerRow
	if err := query(ctx, r.drv, sel, &rows); err != nil {
		return nil, fmt.Errorf("query answer: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("answer to question %d: %w", questionID, ErrNotFound)
	}
	return rows[0].record()
}

func (r *answerRepo) List(ctx context.Context, userID string, opts QueryOpts) ([]AnswerRecord, error) {
	sel := sqlite.Select(answerColumns...).
		From(sqlite.Table(answersTable)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("sequence"))
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("answered_at", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("answered_at", opts.To.UTC()))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	var rows []answerRow
	if err := query(ctx, r.drv, sel, &rows); err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	out := make([]AnswerRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.record()
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (r *answerRepo) Clear(ctx context.Context, userID string) (int, error) {
	n, err := exec(ctx, r.drv, sqlite.Delete(answersTable).Where(entsql.EQ("user_id", userID)))
	if err != nil {
		return 0, fmt.Errorf("clear answers: %w", err)
	}
	return n, nil
}

func (row answerRow) record() (*AnswerRecord, error) {
	rec := &AnswerRecord{
		UserID:              row.UserID,
		QuestionID:          row.QuestionID,
		Subject:             row.Subject,
		Statement:           row.Statement,
		ChosenLetter:        row.ChosenLetter,
		CorrectLetter:       row.CorrectLetter,
		IsCorrect:           row.IsCorrect,
		AnsweredAt:          row.AnsweredAt,
		ResponseTimeSeconds: row.ResponseTimeSeconds,
		AttemptCount:        row.AttemptCount,
		Sequence:            row.Sequence,
	}
	if err := json.Unmarshal([]byte(row.Alternatives), &rec.Alternatives); err != nil {
		return nil, fmt.Errorf("unmarshal alternatives of question %d: %w", row.QuestionID, err)
	}
	return rec, nil
}
