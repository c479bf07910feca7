package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/careertree/internal/eligibility"
	"github.com/abhisek/careertree/internal/llm"
	"github.com/abhisek/careertree/internal/personalize"
	"github.com/abhisek/careertree/internal/questionnaire"
	"github.com/abhisek/careertree/internal/skilltree"
	"github.com/abhisek/careertree/internal/store"
)

const candidateJSON = `{
	"title": "Data Engineering",
	"description": "Build data platforms.",
	"primaryPath": "Data Engineering",
	"nodes": [
		{"id": "sql-basics", "title": "SQL Basics", "description": "Query data.", "category": "foundation",
		 "level": "beginner", "prerequisites": [], "estimatedHours": 30, "priority": "high"},
		{"id": "data-pipelines", "title": "Data Pipelines", "description": "Pipelines.", "category": "core-skills",
		 "level": "intermediate", "prerequisites": ["sql-basics", "ghost"], "estimatedHours": 80, "priority": "high"}
	],
	"recommendations": ["Ship a pipeline"]
}`

func testAnswers() questionnaire.Answers {
	return questionnaire.Answers{
		"education-level":     questionnaire.Text("College Graduate"),
		"experience-level":    questionnaire.Text("0-2 years experience"),
		"career-interests":    questionnaire.List("Data Science & Analytics"),
		"work-environment":    questionnaire.Text("Remote work"),
		"learning-preference": questionnaire.Text("Hands-on projects"),
		"career-goals":        questionnaire.Text("Switch to a new career"),
		"timeline":            questionnaire.Text("1-2 years"),
		"time-commitment":     questionnaire.Text("8-15 hours"),
		"work-style":          questionnaire.Text("I work best in small teams"),
		"challenge-level":     questionnaire.Number(3),
	}
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTracker(t *testing.T, provider llm.Provider) (*Tracker, *store.Store) {
	t.Helper()
	s := openTestStore(t)
	cfg := Config{
		Progress: s.ProgressRepo(),
		Catalogs: s.CatalogRepo(),
		Events:   s.EventRepo(),
		Options:  testOptions(),
		Logger:   quietLogger(),
	}
	if provider != nil {
		cfg.Generator = personalize.NewGenerator(provider, personalize.DefaultConfig())
	}
	return New(cfg), s
}

func TestTracker_NewUser(t *testing.T) {
	tr, _ := newTestTracker(t, nil)
	ctx := t.Context()

	p, err := tr.Progress(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, p.CompletedNodes)
	assert.Equal(t, 1, p.Level)
	assert.Zero(t, p.Version)

	c, err := tr.Catalog(ctx, "alice")
	require.NoError(t, err)
	assert.Same(t, skilltree.Seed(), c)

	snap, err := tr.Snapshot(ctx, "alice")
	require.NoError(t, err)
	st, _ := snap.Status("foundation-basics")
	assert.Equal(t, eligibility.StatusAvailable, st)
	assert.Equal(t, 1, snap.Count(eligibility.StatusAvailable))
}

func TestTracker_Complete(t *testing.T) {
	tr, _ := newTestTracker(t, nil)
	ctx := t.Context()

	out, p, err := tr.Complete(ctx, "alice", "foundation-basics")
	require.NoError(t, err)
	assert.Equal(t, 100, out.XPAwarded)
	assert.Equal(t, int64(1), p.Version)

	loaded, err := tr.Progress(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"foundation-basics"}, loaded.CompletedNodes)
	assert.Equal(t, 100, loaded.TotalXP)
	assert.Len(t, loaded.Achievements, 2)

	again, _, err := tr.Complete(ctx, "alice", "foundation-basics")
	require.NoError(t, err)
	assert.True(t, again.AlreadyCompleted)

	snap, err := tr.Snapshot(ctx, "alice")
	require.NoError(t, err)
	st, _ := snap.Status("science-gateway")
	assert.Equal(t, eligibility.StatusAvailable, st)

	hist, err := tr.History(ctx, "alice", store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, hist.Completions, 1, "no event for a repeated completion")
	assert.Equal(t, "foundation-basics", hist.Completions[0].NodeID)
	assert.Equal(t, []string{"first_unlock", "category:foundation"}, hist.Completions[0].Achievements)
}

func TestTracker_CompleteIneligibleWritesNothing(t *testing.T) {
	tr, _ := newTestTracker(t, nil)
	ctx := t.Context()

	_, _, err := tr.Complete(ctx, "alice", "software-developer")
	var inel *ErrIneligibleNode
	require.True(t, errors.As(err, &inel))

	p, err := tr.Progress(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, p.Version)
}

func TestTracker_ConcurrentCompletions(t *testing.T) {
	tr, _ := newTestTracker(t, nil)
	ctx := t.Context()

	_, _, err := tr.Complete(ctx, "alice", "foundation-basics")
	require.NoError(t, err)

	gateways := []string{"science-gateway", "commerce-gateway", "arts-gateway"}
	var wg sync.WaitGroup
	errs := make(chan error, len(gateways))
	for _, id := range gateways {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := tr.Complete(ctx, "alice", id)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	p, err := tr.Progress(ctx, "alice")
	require.NoError(t, err)
	assert.ElementsMatch(t, append([]string{"foundation-basics"}, gateways...), p.CompletedNodes)
	assert.Equal(t, 100+3*150, p.TotalXP)
	assert.Equal(t, int64(4), p.Version)
}

// conflictingRepo fails the first n saves with a version conflict.
type conflictingRepo struct {
	store.ProgressRepo
	mu        sync.Mutex
	conflicts int
	saves     int
}

func (r *conflictingRepo) conflict(d store.ProgressData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	if r.conflicts == 0 {
		return nil
	}
	r.conflicts--
	return &store.ErrVersionConflict{UserID: d.UserID, Expected: d.Version}
}

func (r *conflictingRepo) Save(ctx context.Context, d store.ProgressData) (int64, error) {
	if err := r.conflict(d); err != nil {
		return 0, err
	}
	return r.ProgressRepo.Save(ctx, d)
}

func (r *conflictingRepo) SaveWithNodes(ctx context.Context, d store.ProgressData, nodes []store.CatalogNodeData) (int64, error) {
	if err := r.conflict(d); err != nil {
		return 0, err
	}
	return r.ProgressRepo.SaveWithNodes(ctx, d, nodes)
}

// brokenRepo reads normally but every write fails.
type brokenRepo struct {
	store.ProgressRepo
}

var errDiskFull = errors.New("disk full")

func (brokenRepo) Save(context.Context, store.ProgressData) (int64, error) {
	return 0, errDiskFull
}

func (brokenRepo) SaveWithNodes(context.Context, store.ProgressData, []store.CatalogNodeData) (int64, error) {
	return 0, errDiskFull
}

func TestTracker_RetriesVersionConflict(t *testing.T) {
	s := openTestStore(t)
	repo := &conflictingRepo{ProgressRepo: s.ProgressRepo(), conflicts: 2}
	tr := New(Config{Progress: repo, Catalogs: s.CatalogRepo(), Logger: quietLogger()})

	_, p, err := tr.Complete(t.Context(), "alice", "foundation-basics")
	require.NoError(t, err)
	assert.Equal(t, 3, repo.saves)
	assert.Equal(t, int64(1), p.Version)
}

func TestTracker_GivesUpAfterRepeatedConflicts(t *testing.T) {
	s := openTestStore(t)
	repo := &conflictingRepo{ProgressRepo: s.ProgressRepo(), conflicts: 100}
	tr := New(Config{Progress: repo, Logger: quietLogger()})

	_, _, err := tr.Complete(t.Context(), "alice", "foundation-basics")

	var conflict *store.ErrVersionConflict
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, maxSaveAttempts, repo.saves)
}

func TestTracker_Personalize(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(candidateJSON)})
	tr, _ := newTestTracker(t, mock)
	ctx := t.Context()

	_, _, err := tr.Complete(ctx, "alice", "foundation-basics")
	require.NoError(t, err)

	res, err := tr.Personalize(ctx, "alice", testAnswers())
	require.NoError(t, err)
	assert.Equal(t, []string{"sql-basics", "data-pipelines"}, res.Added)
	assert.NotEmpty(t, res.Warnings, "ghost prerequisite is reported")

	c, err := tr.Catalog(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, skilltree.Seed().Len()+2, c.Len())
	dp, ok := c.Node("data-pipelines")
	require.True(t, ok)
	assert.Equal(t, []string{"sql-basics"}, dp.Prerequisites)
	assert.Equal(t, skilltree.SourceAI, dp.Source)

	p, err := tr.Progress(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"sql-basics", "data-pipelines"}, p.AIRecommendedPath)
	assert.Equal(t, []string{"foundation-basics"}, p.CompletedNodes, "completions survive personalization")

	snap, err := tr.Snapshot(ctx, "alice")
	require.NoError(t, err)
	st, _ := snap.Status("data-pipelines")
	assert.Equal(t, eligibility.StatusRecommended, st)

	// Other users keep the base catalog.
	other, err := tr.Catalog(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, other.Has("sql-basics"))

	hist, err := tr.History(ctx, "alice", store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, hist.Merges, 1)
	assert.Equal(t, []string{"sql-basics", "data-pipelines"}, hist.Merges[0].RecommendedPath)
	assert.NotEmpty(t, hist.Merges[0].MergeID)

	graph, err := tr.Graph(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, c.Len(), graph.Stats.TotalNodes)
}

func TestTracker_PersonalizeErrors(t *testing.T) {
	ctx := t.Context()

	t.Run("disabled", func(t *testing.T) {
		tr, _ := newTestTracker(t, nil)
		_, err := tr.Personalize(ctx, "alice", testAnswers())
		assert.ErrorIs(t, err, ErrPersonalizationDisabled)
	})

	t.Run("invalid answers", func(t *testing.T) {
		mock := llm.NewMockProvider()
		tr, _ := newTestTracker(t, mock)
		_, err := tr.Personalize(ctx, "alice", questionnaire.Answers{})
		var invalid *questionnaire.ErrInvalidAnswers
		assert.True(t, errors.As(err, &invalid))
		assert.Zero(t, mock.CallCount())
	})

	t.Run("provider failure", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{Err: errors.New("boom")})
		tr, _ := newTestTracker(t, mock)
		_, err := tr.Personalize(ctx, "alice", testAnswers())
		var ext *personalize.ErrExternalService
		assert.True(t, errors.As(err, &ext))

		p, err := tr.Progress(ctx, "alice")
		require.NoError(t, err)
		assert.Zero(t, p.Version)
	})
}

func TestTracker_PersonalizeFailedSaveWritesNothing(t *testing.T) {
	s := openTestStore(t)
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(candidateJSON)})
	tr := New(Config{
		Progress:  brokenRepo{s.ProgressRepo()},
		Catalogs:  s.CatalogRepo(),
		Generator: personalize.NewGenerator(mock, personalize.DefaultConfig()),
		Logger:    quietLogger(),
	})
	ctx := t.Context()

	_, err := tr.Personalize(ctx, "alice", testAnswers())
	require.ErrorIs(t, err, errDiskFull)

	c, err := tr.Catalog(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, skilltree.Seed().Len(), c.Len())
	assert.False(t, c.Has("sql-basics"))

	p, err := tr.Progress(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, p.AIRecommendedPath)
}

func TestTracker_PersonalizeRetriesConflict(t *testing.T) {
	s := openTestStore(t)
	repo := &conflictingRepo{ProgressRepo: s.ProgressRepo(), conflicts: 1}
	tr := New(Config{Progress: repo, Catalogs: s.CatalogRepo(), Logger: quietLogger()})

	var cand personalize.Candidate
	require.NoError(t, json.Unmarshal([]byte(candidateJSON), &cand))

	res, err := tr.ApplyCandidate(t.Context(), "alice", cand)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.saves)
	assert.Equal(t, []string{"sql-basics", "data-pipelines"}, res.Added)
	assert.Empty(t, res.Replaced)

	c, err := tr.Catalog(t.Context(), "alice")
	require.NoError(t, err)
	assert.Equal(t, skilltree.Seed().Len()+2, c.Len())
}

func TestTracker_Reset(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(candidateJSON)})
	tr, _ := newTestTracker(t, mock)
	ctx := t.Context()

	_, _, err := tr.Complete(ctx, "alice", "foundation-basics")
	require.NoError(t, err)
	_, err = tr.Personalize(ctx, "alice", testAnswers())
	require.NoError(t, err)

	require.NoError(t, tr.Reset(ctx, "alice"))

	p, err := tr.Progress(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, p.CompletedNodes)
	assert.Zero(t, p.Version)

	c, err := tr.Catalog(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, skilltree.Seed().Len(), c.Len())
}

func TestUserLocks_ReleasesEntries(t *testing.T) {
	l := newUserLocks()
	unlock := l.lock("alice")
	assert.Len(t, l.locks, 1)
	unlock()
	assert.Empty(t, l.locks)
}
