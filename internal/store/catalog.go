package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// catalogRepo implements CatalogRepo.
type catalogRepo struct {
	db *sql.DB
}

func (r *catalogRepo) Upsert(ctx context.Context, userID string, nodes []CatalogNodeData) error {
	if len(nodes) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin catalog upsert: %w", err)
	}
	defer tx.Rollback()

	if err := upsertNodes(ctx, tx, userID, nodes); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit catalog upsert: %w", err)
	}
	return nil
}

func upsertNodes(ctx context.Context, db execer, userID string, nodes []CatalogNodeData) error {
	now := time.Now().UTC()
	for _, n := range nodes {
		source := n.Source
		if source == "" {
			source = "ai"
		}
		query, args := builder().Insert(tableCatalogNodes).
			Columns("user_id", "node_id", "source", "data", "created_at", "updated_at").
			Values(userID, n.NodeID, source, string(n.Data), now, now).
			OnConflict(
				entsql.ConflictColumns("user_id", "node_id"),
				entsql.ResolveWith(func(u *entsql.UpdateSet) {
					u.SetExcluded("source")
					u.SetExcluded("data")
					u.SetExcluded("updated_at")
				}),
			).
			Query()
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert catalog node %q: %w", n.NodeID, err)
		}
	}
	return nil
}

func (r *catalogRepo) List(ctx context.Context, userID string) ([]CatalogNodeData, error) {
	query, args := builder().Select("node_id", "source", "data", "updated_at").
		From(entsql.Table(tableCatalogNodes)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("id").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query catalog nodes: %w", err)
	}
	defer rows.Close()

	var result []CatalogNodeData
	for rows.Next() {
		var n CatalogNodeData
		if err := rows.Scan(&n.NodeID, &n.Source, &n.Data, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan catalog node: %w", err)
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

func (r *catalogRepo) Delete(ctx context.Context, userID string) error {
	query, args := builder().Delete(tableCatalogNodes).
		Where(entsql.EQ("user_id", userID)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete catalog nodes: %w", err)
	}
	return nil
}
