package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type planRepo struct {
	drv *entsql.Driver
}

type planRow struct {
	ID          string    `sql:"id"`
	UserID      string    `sql:"user_id"`
	CreatedAt   time.Time `sql:"created_at"`
	Strategy    string    `sql:"strategy"`
	WeeklyHours float64   `sql:"weekly_hours"`
	Weeks       int       `sql:"weeks"`
	Items       string    `sql:"items"`
}

var planColumns = []string{"id", "user_id", "created_at", "strategy", "weekly_hours", "weeks", "items"}

func (r *planRepo) Save(ctx context.Context, p *PlanRecord) error {
	ins := sqlite.Insert(plansTable).
		Columns(planColumns...).
		Values(p.ID, p.UserID, p.CreatedAt.UTC(), p.Strategy, p.WeeklyHours, p.Weeks, string(p.Items))
	if _, err := exec(ctx, r.drv, ins); err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	return nil
}

func (r *planRepo) Latest(ctx context.Context, userID string) (*PlanRecord, error) {
	plans, err := r.List(ctx, userID, 1)
	if err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return nil, nil
	}
	return &plans[0], nil
}

func (r *planRepo) List(ctx context.Context, userID string, limit int) ([]PlanRecord, error) {
	sel := sqlite.Select(planColumns...).
		From(sqlite.Table(plansTable)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("rowid"))
	if limit > 0 {
		sel.Limit(limit)
	}

	var rows []planRow
	if err := query(ctx, r.drv, sel, &rows); err != nil {
		return nil, fmt.Errorf("query plans: %w", err)
	}
	out := make([]PlanRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, PlanRecord{
			ID:          row.ID,
			UserID:      row.UserID,
			CreatedAt:   row.CreatedAt,
			Strategy:    row.Strategy,
			WeeklyHours: row.WeeklyHours,
			Weeks:       row.Weeks,
			Items:       []byte(row.Items),
		})
	}
	return out, nil
}
