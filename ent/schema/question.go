package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Question is one multiple-choice item of the imported bank. The ID comes
// from the source spreadsheet, so it is not auto-incremented.
type Question struct {
	ent.Schema
}

func (Question) Fields() []ent.Field {
	return []ent.Field{
		field.Int("id").
			Positive().
			Immutable(),
		field.String("subject").
			NotEmpty(),
		field.Text("statement"),
		field.Strings("alternatives").
			Comment("Alternative texts in letter order, A first"),
	}
}

func (Question) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("subject"),
	}
}
