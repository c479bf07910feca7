package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// CompletionEvent records a node completion that changed progress.
type CompletionEvent struct {
	ent.Schema
}

func (CompletionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}, UserMixin{}}
}

func (CompletionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("node_id").NotEmpty(),
		field.Int("xp_awarded").
			Comment("XP granted by this completion"),
		field.Int("total_xp").
			Comment("Total XP after the completion"),
		field.Int("level").
			Comment("Level after the completion"),
		field.JSON("achievements", []string{}).
			Comment("Keys of achievements unlocked by this completion"),
	}
}

func (CompletionEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("node_id"),
	}
}
