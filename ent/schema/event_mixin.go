package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"entgo.io/ent/schema/mixin"
)

// EventMixin is embedded by append-only logs. Rows are never updated, so
// both fields are immutable.
type EventMixin struct {
	mixin.Schema
}

func (EventMixin) Fields() []ent.Field {
	seq := field.Int64("sequence").Unique().Immutable().
		Comment("Shared with answer_records.sequence")
	at := field.Time("timestamp").Immutable().Default(time.Now)
	return []ent.Field{seq, at}
}

// Indexes makes time-range listing cheap.
func (EventMixin) Indexes() []ent.Index {
	return []ent.Index{index.Fields("timestamp")}
}
