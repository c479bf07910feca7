package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// MergeEvent records a personalization merge applied to a user's catalog.
type MergeEvent struct {
	ent.Schema
}

func (MergeEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}, UserMixin{}}
}

func (MergeEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("merge_id").
			NotEmpty().
			Comment("UUID of the merge run"),
		field.String("title").
			Default("").
			Comment("Title of the generated career path"),
		field.JSON("added", []string{}),
		field.JSON("replaced", []string{}),
		field.JSON("recommended_path", []string{}),
		field.JSON("warnings", []string{}).
			Comment("Dropped references and broken cycles"),
	}
}

func (MergeEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("merge_id").Unique(),
	}
}
