package schema

import (
	"encoding/json"
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// SchedulePlan is a generated weekly study plan.
type SchedulePlan struct {
	ent.Schema
}

func (SchedulePlan) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Immutable().
			Comment("UUID"),
		field.String("user_id").
			NotEmpty(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.String("strategy"),
		field.Float("weekly_hours"),
		field.Int("weeks").
			Default(1),
		field.JSON("items", json.RawMessage{}).
			Comment("Per-subject allocations with daily sessions"),
	}
}

func (SchedulePlan) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id", "created_at"),
	}
}
