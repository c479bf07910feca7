package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	json "github.com/goccy/go-json"
)

func (r *eventRepo) AppendCompletion(ctx context.Context, data CompletionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	achievements, err := marshalList(data.Achievements)
	if err != nil {
		return err
	}

	query, args := builder().Insert(tableCompletionEvents).
		Columns("sequence", "timestamp", "user_id", "node_id", "xp_awarded", "total_xp", "level", "achievements").
		Values(seqNum, time.Now().UTC(), data.UserID, data.NodeID, data.XPAwarded, data.TotalXP, data.Level, achievements).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save completion event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryCompletions(ctx context.Context, userID string, opts QueryOpts) ([]CompletionEvent, error) {
	s := builder().Select("id", "sequence", "timestamp", "user_id", "node_id", "xp_awarded", "total_xp", "level", "achievements").
		From(entsql.Table(tableCompletionEvents)).
		Where(entsql.EQ("user_id", userID))
	query, args := applyQueryOpts(s, opts).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query completion events: %w", err)
	}
	defer rows.Close()

	var result []CompletionEvent
	for rows.Next() {
		var (
			e   CompletionEvent
			raw []byte
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp, &e.UserID, &e.NodeID,
			&e.XPAwarded, &e.TotalXP, &e.Level, &raw); err != nil {
			return nil, fmt.Errorf("scan completion event: %w", err)
		}
		if err := json.Unmarshal(raw, &e.Achievements); err != nil {
			return nil, fmt.Errorf("decode completion achievements: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (r *eventRepo) AppendMerge(ctx context.Context, data MergeEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	lists := make([]string, 0, 4)
	for _, l := range [][]string{data.Added, data.Replaced, data.RecommendedPath, data.Warnings} {
		enc, err := marshalList(l)
		if err != nil {
			return err
		}
		lists = append(lists, enc)
	}

	query, args := builder().Insert(tableMergeEvents).
		Columns("sequence", "timestamp", "user_id", "merge_id", "title", "added", "replaced", "recommended_path", "warnings").
		Values(seqNum, time.Now().UTC(), data.UserID, data.MergeID, data.Title, lists[0], lists[1], lists[2], lists[3]).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save merge event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryMerges(ctx context.Context, userID string, opts QueryOpts) ([]MergeEvent, error) {
	s := builder().Select("id", "sequence", "timestamp", "user_id", "merge_id", "title", "added", "replaced", "recommended_path", "warnings").
		From(entsql.Table(tableMergeEvents)).
		Where(entsql.EQ("user_id", userID))
	query, args := applyQueryOpts(s, opts).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query merge events: %w", err)
	}
	defer rows.Close()

	var result []MergeEvent
	for rows.Next() {
		var (
			e                               MergeEvent
			added, replaced, path, warnings []byte
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp, &e.UserID, &e.MergeID, &e.Title,
			&added, &replaced, &path, &warnings); err != nil {
			return nil, fmt.Errorf("scan merge event: %w", err)
		}
		for _, f := range []struct {
			raw []byte
			dst *[]string
		}{
			{added, &e.Added}, {replaced, &e.Replaced}, {path, &e.RecommendedPath}, {warnings, &e.Warnings},
		} {
			if err := json.Unmarshal(f.raw, f.dst); err != nil {
				return nil, fmt.Errorf("decode merge event: %w", err)
			}
		}
		result = append(result, e)
	}
	return result, rows.Err()
}
