package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// CatalogNode is a node a user's catalog holds on top of the built-in
// one, written by personalization merges.
type CatalogNode struct {
	ent.Schema
}

func (CatalogNode) Mixin() []ent.Mixin {
	return []ent.Mixin{UserMixin{}}
}

func (CatalogNode) Fields() []ent.Field {
	return []ent.Field{
		field.String("node_id").
			NotEmpty(),
		field.String("source").
			Default("ai").
			Comment("seed, file or ai"),
		field.JSON("data", map[string]any{}).
			Comment("Full node document"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

func (CatalogNode) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id", "node_id").Unique(),
	}
}
