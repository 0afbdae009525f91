package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AnswerRecord is the latest answer a user gave to a question. Re-answering
// overwrites the row and bumps attempt_count.
type AnswerRecord struct {
	ent.Schema
}

func (AnswerRecord) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("sequence").
			Comment("Global sequence at the latest attempt, used for newest-first listing"),
		field.String("user_id").
			NotEmpty(),
		field.Int("question_id"),
		field.String("subject").
			Comment("Copied from the question at answer time"),
		field.Text("statement"),
		field.Strings("alternatives"),
		field.String("chosen_letter").
			MaxLen(1),
		field.String("correct_letter").
			MaxLen(1),
		field.Bool("is_correct"),
		field.Time("answered_at").
			Default(time.Now),
		field.Int("response_time_seconds").
			Default(0).
			NonNegative(),
		field.Int("attempt_count").
			Default(1).
			Positive(),
	}
}

func (AnswerRecord) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id", "question_id").Unique(),
		index.Fields("user_id", "sequence"),
	}
}
