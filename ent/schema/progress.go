package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// Progress is the current progression state of one user. Writes are
// guarded by the version column (compare-and-swap).
type Progress struct {
	ent.Schema
}

func (Progress) Fields() []ent.Field {
	return []ent.Field{
		field.String("user_id").
			NotEmpty().
			Unique().
			Immutable(),
		field.Int64("version").
			Comment("Incremented on every write; writers must present the version they read"),
		field.JSON("completed_nodes", []string{}).
			Comment("Completed node ids in completion order"),
		field.JSON("in_progress_nodes", []string{}),
		field.JSON("recommended_path", []string{}).
			Comment("Ordered node ids suggested by personalization"),
		field.Int("total_xp").
			Default(0),
		field.Int("level").
			Default(1).
			Comment("Always floor(total_xp/1000)+1"),
		field.JSON("achievements", []map[string]any{}),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}
