package store

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/examprep/examprep/ent/schema"
)

const (
	questionsTable = "questions"
	answersTable   = "answer_records"
	plansTable     = "schedule_plans"
	llmEventsTable = "llm_request_events"
)

// The tables are derived from the ent schemas in the same shape entc
// gives them: id first, mixin fields, then the schema's own fields, with
// indexes named after the lowercased type.
var (
	QuestionsTable        = tableOf(questionsTable, entschema.Question{})
	AnswerRecordsTable    = tableOf(answersTable, entschema.AnswerRecord{})
	SchedulePlansTable    = tableOf(plansTable, entschema.SchedulePlan{})
	LlmRequestEventsTable = tableOf(llmEventsTable, entschema.LLMRequestEvent{})

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		QuestionsTable,
		AnswerRecordsTable,
		SchedulePlansTable,
		LlmRequestEventsTable,
	}
)

// tableOf builds the migration table of one ent schema. A schema without
// its own "id" field gets an auto-increment integer key.
func tableOf(name string, s ent.Interface) *schema.Table {
	var fields []ent.Field
	var indexes []ent.Index
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	t := &schema.Table{Name: name}
	byName := make(map[string]*schema.Column)
	for _, f := range fields {
		c := columnOf(f.Descriptor())
		if c.Name == "id" {
			t.Columns = append([]*schema.Column{c}, t.Columns...)
		} else {
			t.Columns = append(t.Columns, c)
		}
		byName[c.Name] = c
	}
	if byName["id"] == nil {
		id := &schema.Column{Name: "id", Type: field.TypeInt, Increment: true}
		t.Columns = append([]*schema.Column{id}, t.Columns...)
		byName["id"] = id
	}
	t.PrimaryKey = []*schema.Column{byName["id"]}

	prefix := strings.ToLower(reflect.TypeOf(s).Name())
	for _, idx := range indexes {
		d := idx.Descriptor()
		cols := make([]*schema.Column, len(d.Fields))
		for i, f := range d.Fields {
			if cols[i] = byName[f]; cols[i] == nil {
				panic(fmt.Sprintf("store: index on %s references unknown field %q", name, f))
			}
		}
		t.Indexes = append(t.Indexes, &schema.Index{
			Name:    prefix + "_" + strings.Join(d.Fields, "_"),
			Unique:  d.Unique,
			Columns: cols,
		})
	}
	return t
}

func columnOf(d *field.Descriptor) *schema.Column {
	name := d.Name
	if d.StorageKey != "" {
		name = d.StorageKey
	}
	c := &schema.Column{
		Name:     name,
		Type:     d.Info.Type,
		Size:     int64(d.Size),
		Unique:   d.Unique,
		Nullable: d.Optional,
	}
	// Dynamic defaults such as time.Now are applied by the repositories.
	if d.Default != nil && reflect.TypeOf(d.Default).Kind() != reflect.Func {
		c.Default = d.Default
	}
	return c
}

// migrate creates or upgrades all tables.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	return m.Create(ctx, append(Tables[:len(Tables):len(Tables)], sequenceTable)...)
}
