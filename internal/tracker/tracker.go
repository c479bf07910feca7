package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/abhisek/careertree/internal/eligibility"
	"github.com/abhisek/careertree/internal/personalize"
	"github.com/abhisek/careertree/internal/progress"
	"github.com/abhisek/careertree/internal/questionnaire"
	"github.com/abhisek/careertree/internal/skilltree"
	"github.com/abhisek/careertree/internal/store"
)

// maxSaveAttempts bounds the reload-and-retry loop on version conflicts.
const maxSaveAttempts = 5

// ErrPersonalizationDisabled is returned by Personalize when the tracker
// has no generator.
var ErrPersonalizationDisabled = errors.New("personalization is not configured")

// Config wires a Tracker.
type Config struct {
	// Base is the catalog every user starts from. Nil means skilltree.Seed().
	Base *skilltree.Catalog

	Progress store.ProgressRepo
	Catalogs store.CatalogRepo
	// Events is optional; nil skips event recording.
	Events store.EventRepo

	// Generator is optional; nil disables Personalize.
	Generator *personalize.Generator

	Options Options
	Logger  *slog.Logger
}

// Tracker is the per-user progression service. Operations on one user are
// serialized in process; writes are compare-and-swap on the stored
// version, so concurrent writers in other processes are retried.
type Tracker struct {
	base      *skilltree.Catalog
	progress  store.ProgressRepo
	catalogs  store.CatalogRepo
	events    store.EventRepo
	generator *personalize.Generator
	opts      Options
	logger    *slog.Logger

	cache *eligibility.Cache
	locks *userLocks
}

// New creates a Tracker.
func New(cfg Config) *Tracker {
	t := &Tracker{
		base:      cfg.Base,
		progress:  cfg.Progress,
		catalogs:  cfg.Catalogs,
		events:    cfg.Events,
		generator: cfg.Generator,
		opts:      cfg.Options,
		logger:    cfg.Logger,
		cache:     eligibility.NewCache(),
		locks:     newUserLocks(),
	}
	if t.base == nil {
		t.base = skilltree.Seed()
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	return t
}

// CanPersonalize reports whether a generator is configured.
func (t *Tracker) CanPersonalize() bool {
	return t.generator != nil
}

// Catalog returns the user's catalog: the base catalog extended with the
// nodes personalization stored for the user.
func (t *Tracker) Catalog(ctx context.Context, userID string) (*skilltree.Catalog, error) {
	if t.catalogs == nil {
		return t.base, nil
	}
	rows, err := t.catalogs.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load catalog of %q: %w", userID, err)
	}
	if len(rows) == 0 {
		return t.base, nil
	}
	nodes, err := decodeNodes(rows)
	if err != nil {
		return nil, err
	}
	c, err := t.base.Extend(nodes)
	if err != nil {
		return nil, fmt.Errorf("build catalog of %q: %w", userID, err)
	}
	return c, nil
}

// Progress returns the user's progress, or the empty progress of a new
// account.
func (t *Tracker) Progress(ctx context.Context, userID string) (progress.Progress, error) {
	d, err := t.progress.Load(ctx, userID)
	if err != nil {
		return progress.Progress{}, fmt.Errorf("load progress of %q: %w", userID, err)
	}
	return fromData(d), nil
}

// State loads the user's catalog and progress together.
func (t *Tracker) State(ctx context.Context, userID string) (*skilltree.Catalog, progress.Progress, error) {
	c, err := t.Catalog(ctx, userID)
	if err != nil {
		return nil, progress.Progress{}, err
	}
	p, err := t.Progress(ctx, userID)
	if err != nil {
		return nil, progress.Progress{}, err
	}
	return c, p, nil
}

// Snapshot returns the statuses of every node for the user. Snapshots are
// memoized until the catalog or progress changes.
func (t *Tracker) Snapshot(ctx context.Context, userID string) (*eligibility.Snapshot, error) {
	c, p, err := t.State(ctx, userID)
	if err != nil {
		return nil, err
	}
	return t.cache.Get(userID, c, p), nil
}

// Graph returns the presentation graph of the user's tree.
func (t *Tracker) Graph(ctx context.Context, userID string) (eligibility.Graph, error) {
	c, p, err := t.State(ctx, userID)
	if err != nil {
		return eligibility.Graph{}, err
	}
	return eligibility.BuildGraph(c, p, t.cache.Get(userID, c, p)), nil
}

// Complete marks nodeID completed for the user and persists the result.
func (t *Tracker) Complete(ctx context.Context, userID, nodeID string) (Outcome, progress.Progress, error) {
	unlock := t.locks.lock(userID)
	defer unlock()

	for attempt := 1; ; attempt++ {
		c, p, err := t.State(ctx, userID)
		if err != nil {
			return Outcome{}, progress.Progress{}, err
		}
		next, out, err := CompleteNode(p, nodeID, c, t.opts)
		if err != nil || out.AlreadyCompleted {
			return out, next, err
		}

		saved, err := t.save(ctx, userID, next)
		if retryable(err, attempt) {
			t.logger.DebugContext(ctx, "progress changed concurrently, retrying", "user", userID, "attempt", attempt)
			continue
		}
		if err != nil {
			return Outcome{}, progress.Progress{}, err
		}

		t.logger.InfoContext(ctx, "node completed",
			"user", userID, "node", nodeID, "xp", out.XPAwarded,
			"total_xp", saved.TotalXP, "level", saved.Level, "achievements", len(out.Achievements))
		t.record(ctx, "completion", func(events store.EventRepo) error {
			return events.AppendCompletion(ctx, store.CompletionEventData{
				UserID:       userID,
				NodeID:       nodeID,
				XPAwarded:    out.XPAwarded,
				TotalXP:      saved.TotalXP,
				Level:        saved.Level,
				Achievements: achievementKeys(out.Achievements),
			})
		})
		return out, saved, nil
	}
}

// Start marks nodeID in progress for the user. It reports whether the
// progress changed.
func (t *Tracker) Start(ctx context.Context, userID, nodeID string) (bool, progress.Progress, error) {
	unlock := t.locks.lock(userID)
	defer unlock()

	for attempt := 1; ; attempt++ {
		c, p, err := t.State(ctx, userID)
		if err != nil {
			return false, progress.Progress{}, err
		}
		next, changed, err := StartNode(p, nodeID, c, t.opts)
		if err != nil || !changed {
			return false, next, err
		}

		saved, err := t.save(ctx, userID, next)
		if retryable(err, attempt) {
			continue
		}
		if err != nil {
			return false, progress.Progress{}, err
		}
		return true, saved, nil
	}
}

// Personalize validates answers, generates a career path and merges it
// into the user's catalog and recommended path.
//
// Generation runs without holding the user's lock. The merge is then
// applied under the lock against freshly loaded state, so completions
// made meanwhile are never lost.
func (t *Tracker) Personalize(ctx context.Context, userID string, answers questionnaire.Answers) (*personalize.Result, error) {
	if t.generator == nil {
		return nil, ErrPersonalizationDisabled
	}
	if err := questionnaire.Validate(questionnaire.Bank(), answers); err != nil {
		return nil, err
	}

	c, p, err := t.State(ctx, userID)
	if err != nil {
		return nil, err
	}
	candidate, err := t.generator.Generate(ctx, answers, c, p.CompletedNodes)
	if err != nil {
		return nil, err
	}
	return t.ApplyCandidate(ctx, userID, *candidate)
}

// ApplyCandidate merges an already generated candidate into the user's
// state. Personalize uses it after generation; it is exported for
// candidates read from files.
func (t *Tracker) ApplyCandidate(ctx context.Context, userID string, candidate personalize.Candidate) (*personalize.Result, error) {
	unlock := t.locks.lock(userID)
	defer unlock()

	for attempt := 1; ; attempt++ {
		c, p, err := t.State(ctx, userID)
		if err != nil {
			return nil, err
		}
		res, err := personalize.Merge(c, p.CompletedNodes, candidate)
		if err != nil {
			return nil, err
		}

		if len(res.Delta) > 0 && t.catalogs == nil {
			return nil, errors.New("catalog repository is not configured")
		}
		rows, err := encodeNodes(res.Delta)
		if err != nil {
			return nil, err
		}

		// New nodes and the path that points at them land together.
		next := p.Clone()
		next.AIRecommendedPath = res.RecommendedPath
		_, err = t.progress.SaveWithNodes(ctx, toData(userID, next), rows)
		if retryable(err, attempt) {
			continue
		}
		if err != nil {
			return nil, err
		}

		for _, w := range res.Warnings {
			t.logger.WarnContext(ctx, "personalization repaired generated path", "user", userID, "detail", w)
		}
		t.logger.InfoContext(ctx, "career path merged",
			"user", userID, "added", len(res.Added), "replaced", len(res.Replaced),
			"kept", len(res.Kept), "path", len(res.RecommendedPath))

		mergeID := uuid.NewString()
		t.record(ctx, "merge", func(events store.EventRepo) error {
			return events.AppendMerge(ctx, store.MergeEventData{
				UserID:          userID,
				MergeID:         mergeID,
				Title:           res.Title,
				Added:           res.Added,
				Replaced:        res.Replaced,
				RecommendedPath: res.RecommendedPath,
				Warnings:        res.Warnings,
			})
		})
		return res, nil
	}
}

// Reset deletes the user's progress and personalized nodes.
func (t *Tracker) Reset(ctx context.Context, userID string) error {
	unlock := t.locks.lock(userID)
	defer unlock()

	if err := t.progress.Delete(ctx, userID); err != nil {
		return err
	}
	if t.catalogs != nil {
		if err := t.catalogs.Delete(ctx, userID); err != nil {
			return err
		}
	}
	t.cache.Invalidate(userID)
	t.logger.InfoContext(ctx, "progress reset", "user", userID)
	return nil
}

// Activity is a user's recorded history, newest first.
type Activity struct {
	Completions []store.CompletionEvent `json:"completions"`
	Merges      []store.MergeEvent      `json:"merges"`
}

// History returns the user's completion and merge events.
func (t *Tracker) History(ctx context.Context, userID string, opts store.QueryOpts) (Activity, error) {
	if t.events == nil {
		return Activity{}, nil
	}
	completions, err := t.events.QueryCompletions(ctx, userID, opts)
	if err != nil {
		return Activity{}, err
	}
	merges, err := t.events.QueryMerges(ctx, userID, opts)
	if err != nil {
		return Activity{}, err
	}
	return Activity{Completions: completions, Merges: merges}, nil
}

// save writes p with compare-and-swap on its version and returns p with
// the new version.
func (t *Tracker) save(ctx context.Context, userID string, p progress.Progress) (progress.Progress, error) {
	v, err := t.progress.Save(ctx, toData(userID, p))
	if err != nil {
		return progress.Progress{}, err
	}
	p.Version = v
	return p, nil
}

// record appends an event. Progress is already saved at this point, so a
// failure is logged rather than returned.
func (t *Tracker) record(ctx context.Context, kind string, appendFn func(store.EventRepo) error) {
	if t.events == nil {
		return
	}
	if err := appendFn(t.events); err != nil {
		t.logger.WarnContext(ctx, "failed to record event", "kind", kind, "error", err)
	}
}

func retryable(err error, attempt int) bool {
	var conflict *store.ErrVersionConflict
	return errors.As(err, &conflict) && attempt < maxSaveAttempts
}

// userLocks is a keyed mutex. Entries are dropped when no goroutine holds
// or waits for them.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[string]*userLock)}
}

func (l *userLocks) lock(userID string) (unlock func()) {
	l.mu.Lock()
	ul, ok := l.locks[userID]
	if !ok {
		ul = &userLock{}
		l.locks[userID] = ul
	}
	ul.refs++
	l.mu.Unlock()

	ul.mu.Lock()
	return func() {
		ul.mu.Unlock()
		l.mu.Lock()
		ul.refs--
		if ul.refs == 0 {
			delete(l.locks, userID)
		}
		l.mu.Unlock()
	}
}
