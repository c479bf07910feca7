package store

import (
	"context"
	"fmt"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	sqlschema "entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	"github.com/abhisek/careertree/ent/schema"
)

const (
	tableProgress         = "progress"
	tableCatalogNodes     = "catalog_nodes"
	tableCompletionEvents = "completion_events"
	tableMergeEvents      = "merge_events"
	tableLLMRequestEvents = "llm_request_events"
)

// entities maps every table to the ent schema that declares it.
var entities = []struct {
	table  string
	schema ent.Interface
}{
	{tableProgress, schema.Progress{}},
	{tableCatalogNodes, schema.CatalogNode{}},
	{tableCompletionEvents, schema.CompletionEvent{}},
	{tableMergeEvents, schema.MergeEvent{}},
	{tableLLMRequestEvents, schema.LLMRequestEvent{}},
}

// migrate creates or upgrades every table declared in ent/schema.
func migrate(ctx context.Context, drv dialect.Driver) error {
	tables, err := buildTables()
	if err != nil {
		return err
	}
	m, err := sqlschema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	return m.Create(ctx, tables...)
}

func buildTables() ([]*sqlschema.Table, error) {
	tables := make([]*sqlschema.Table, 0, len(entities))
	for _, e := range entities {
		t, err := tableFromSchema(e.table, e.schema)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// tableFromSchema translates an ent schema (mixins first, then its own
// fields and indexes) into a migration table with an auto-increment id.
func tableFromSchema(name string, s ent.Interface) (*sqlschema.Table, error) {
	id := &sqlschema.Column{Name: "id", Type: field.TypeInt, Increment: true}
	t := &sqlschema.Table{
		Name:       name,
		Columns:    []*sqlschema.Column{id},
		PrimaryKey: []*sqlschema.Column{id},
	}
	byName := map[string]*sqlschema.Column{"id": id}

	var fields []ent.Field
	var indexes []ent.Index
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, d.Name, d.Err)
		}
		col := &sqlschema.Column{
			Name:     d.Name,
			Type:     d.Info.Type,
			Unique:   d.Unique,
			Nullable: d.Optional,
			Size:     int64(d.Size),
		}
		t.Columns = append(t.Columns, col)
		byName[d.Name] = col
	}

	for _, idx := range indexes {
		d := idx.Descriptor()
		cols := make([]*sqlschema.Column, 0, len(d.Fields))
		for _, f := range d.Fields {
			col, ok := byName[f]
			if !ok {
				return nil, fmt.Errorf("%s: index references unknown column %q", name, f)
			}
			cols = append(cols, col)
		}
		t.Indexes = append(t.Indexes, &sqlschema.Index{
			Name:    name + "_" + strings.Join(d.Fields, "_"),
			Unique:  d.Unique,
			Columns: cols,
		})
	}
	return t, nil
}
