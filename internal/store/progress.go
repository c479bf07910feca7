package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	json "github.com/goccy/go-json"
)

// progressRepo implements ProgressRepo with a version column guarding
// every write.
type progressRepo struct {
	db *sql.DB
}

var progressColumns = []string{
	"user_id", "version", "completed_nodes", "in_progress_nodes", "recommended_path",
	"total_xp", "level", "achievements", "created_at", "updated_at",
}

func (r *progressRepo) Load(ctx context.Context, userID string) (*ProgressData, error) {
	query, args := builder().Select(progressColumns...).
		From(entsql.Table(tableProgress)).
		Where(entsql.EQ("user_id", userID)).
		Query()

	var (
		d                               ProgressData
		completed, inProgress, path, ac []byte
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&d.UserID, &d.Version, &completed, &inProgress, &path,
		&d.TotalXP, &d.Level, &ac, &d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}

	for _, f := range []struct {
		raw []byte
		dst any
	}{
		{completed, &d.CompletedNodes},
		{inProgress, &d.InProgressNodes},
		{path, &d.RecommendedPath},
		{ac, &d.Achievements},
	} {
		if err := json.Unmarshal(f.raw, f.dst); err != nil {
			return nil, fmt.Errorf("decode progress of %q: %w", userID, err)
		}
	}
	return &d, nil
}

// execer is what *sql.DB and *sql.Tx have in common.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *progressRepo) Save(ctx context.Context, d ProgressData) (int64, error) {
	return saveProgress(ctx, r.db, d)
}

func (r *progressRepo) SaveWithNodes(ctx context.Context, d ProgressData, nodes []CatalogNodeData) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin progress save: %w", err)
	}
	defer tx.Rollback()

	v, err := saveProgress(ctx, tx, d)
	if err != nil {
		return 0, err
	}
	if err := upsertNodes(ctx, tx, d.UserID, nodes); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit progress save: %w", err)
	}
	return v, nil
}

func saveProgress(ctx context.Context, db execer, d ProgressData) (int64, error) {
	completed, err := marshalList(d.CompletedNodes)
	if err != nil {
		return 0, err
	}
	inProgress, err := marshalList(d.InProgressNodes)
	if err != nil {
		return 0, err
	}
	path, err := marshalList(d.RecommendedPath)
	if err != nil {
		return 0, err
	}
	if d.Achievements == nil {
		d.Achievements = []AchievementData{}
	}
	ab, err := json.Marshal(d.Achievements)
	if err != nil {
		return 0, fmt.Errorf("encode achievements: %w", err)
	}
	achievements := string(ab)
	now := time.Now().UTC()
	next := d.Version + 1

	var query string
	var args []any
	if d.Version == 0 {
		query, args = builder().Insert(tableProgress).
			Columns(progressColumns...).
			Values(d.UserID, next, completed, inProgress, path, d.TotalXP, d.Level, achievements, now, now).
			OnConflict(entsql.ConflictColumns("user_id"), entsql.DoNothing()).
			Query()
	} else {
		query, args = builder().Update(tableProgress).
			Set("version", next).
			Set("completed_nodes", completed).
			Set("in_progress_nodes", inProgress).
			Set("recommended_path", path).
			Set("total_xp", d.TotalXP).
			Set("level", d.Level).
			Set("achievements", achievements).
			Set("updated_at", now).
			Where(entsql.And(
				entsql.EQ("user_id", d.UserID),
				entsql.EQ("version", d.Version),
			)).
			Query()
	}

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("save progress: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("save progress: %w", err)
	}
	if n == 0 {
		return 0, &ErrVersionConflict{UserID: d.UserID, Expected: d.Version}
	}
	return next, nil
}

func (r *progressRepo) Delete(ctx context.Context, userID string) error {
	query, args := builder().Delete(tableProgress).
		Where(entsql.EQ("user_id", userID)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	return nil
}

// marshalList encodes ids as a JSON array text, never as null.
func marshalList(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("encode id list: %w", err)
	}
	return string(b), nil
}
