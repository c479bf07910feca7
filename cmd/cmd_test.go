package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/careertree/internal/eligibility"
	"github.com/abhisek/careertree/internal/progress"
)

// isolate points config, data and provider discovery at nothing so the
// developer's own setup never leaks into a test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, k := range []string{
		"CAREERTREE_DB", "CAREERTREE_USER", "CAREERTREE_CATALOG", "CAREERTREE_LLM_PROVIDER",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
	return filepath.Join(dir, "careertree.db")
}

// resetFlags restores every flag to its default. rootCmd is package
// state, so values set by one Execute would otherwise leak into the next.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// resetContexts clears the context cobra caches on subcommands. Cobra
// only hands the root's context to a subcommand whose context is nil, so
// a previous test's (now canceled) t.Context() would otherwise stick.
func resetContexts(c *cobra.Command) {
	for _, sub := range c.Commands() {
		sub.SetContext(nil) //nolint:staticcheck // nil restores cobra's inherit-from-root behavior
		resetContexts(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	resetContexts(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestTree_JSON(t *testing.T) {
	db := isolate(t)

	out, err := execute(t, "tree", "--db", db, "--json")
	require.NoError(t, err)

	var g eligibility.Graph
	require.NoError(t, json.Unmarshal([]byte(out), &g))
	assert.Equal(t, 13, g.Stats.TotalNodes)
	assert.Zero(t, g.Stats.Completed)
}

func TestTree_RejectsUnknownFilter(t *testing.T) {
	db := isolate(t)

	_, err := execute(t, "tree", "--db", db, "--category", "astrology")
	assert.ErrorContains(t, err, "unknown category")

	_, err = execute(t, "tree", "--db", db, "--status", "done")
	assert.ErrorContains(t, err, "unknown status")
}

func TestCompleteAndProgress(t *testing.T) {
	db := isolate(t)

	out, err := execute(t, "complete", "foundation-basics", "--db", db, "--user", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "+100 XP")

	out, err = execute(t, "complete", "foundation-basics", "--db", db, "--user", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "already completed")

	out, err = execute(t, "progress", "--db", db, "--user", "alice", "--json")
	require.NoError(t, err)
	var p progress.Progress
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, 100, p.TotalXP)
	assert.Equal(t, []string{"foundation-basics"}, p.CompletedNodes)

	// Another user is untouched.
	out, err = execute(t, "progress", "--db", db, "--user", "bob", "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Zero(t, p.TotalXP)
}

func TestComplete_LockedNode(t *testing.T) {
	db := isolate(t)

	_, err := execute(t, "complete", "science-gateway", "--db", db)
	assert.ErrorContains(t, err, "complete first: foundation-basics")

	_, err = execute(t, "complete", "astronaut", "--db", db)
	assert.ErrorContains(t, err, "astronaut")
}

func TestStart(t *testing.T) {
	db := isolate(t)

	out, err := execute(t, "start", "foundation-basics", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Started foundation-basics")

	out, err = execute(t, "start", "foundation-basics", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "already started")
}

func TestReset_RequiresConfirmation(t *testing.T) {
	db := isolate(t)

	_, err := execute(t, "complete", "foundation-basics", "--db", db)
	require.NoError(t, err)

	_, err = execute(t, "reset", "--db", db)
	assert.ErrorContains(t, err, "--yes")

	_, err = execute(t, "reset", "--db", db, "--yes")
	require.NoError(t, err)

	out, err := execute(t, "progress", "--db", db, "--json")
	require.NoError(t, err)
	var p progress.Progress
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Empty(t, p.CompletedNodes)
}

func TestHistory(t *testing.T) {
	db := isolate(t)

	out, err := execute(t, "history", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No activity yet")

	_, err = execute(t, "complete", "foundation-basics", "--db", db)
	require.NoError(t, err)

	out, err = execute(t, "history", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "completed foundation-basics")
}

const candidateJSON = `{
	"title": "Data Engineering",
	"description": "Build data platforms.",
	"primaryPath": "Data Engineering",
	"nodes": [
		{"id": "sql-basics", "title": "SQL Basics", "description": "Query data.", "category": "foundation",
		 "level": "beginner", "prerequisites": [], "estimatedHours": 30, "priority": "high"}
	],
	"recommendations": ["Ship a pipeline"]
}`

func TestPersonalize_Candidate(t *testing.T) {
	db := isolate(t)
	path := filepath.Join(t.TempDir(), "candidate.json")
	require.NoError(t, os.WriteFile(path, []byte(candidateJSON), 0o644))

	out, err := execute(t, "personalize", "--db", db, "--candidate", path, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "SQL Basics (sql-basics)")
	assert.Contains(t, out, "nothing was saved")

	out, err = execute(t, "progress", "--db", db, "--json")
	require.NoError(t, err)
	var p progress.Progress
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Empty(t, p.AIRecommendedPath)

	_, err = execute(t, "personalize", "--db", db, "--candidate", path)
	require.NoError(t, err)
	out, err = execute(t, "progress", "--db", db, "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, []string{"sql-basics"}, p.AIRecommendedPath)
}

func TestPersonalize_WithoutProvider(t *testing.T) {
	db := isolate(t)
	path := filepath.Join(t.TempDir(), "answers.yaml")
	require.NoError(t, os.WriteFile(path, []byte("education-level: College Graduate\n"), 0o644))

	_, err := execute(t, "personalize", "--db", db, "--answers", path)
	assert.ErrorContains(t, err, "not configured")

	_, err = execute(t, "personalize", "--db", db)
	assert.ErrorContains(t, err, "required")
}

const answersYAML = `education-level: College Graduate
experience-level: 0-2 years experience
career-interests:
  - Technology & Software Development
  - Data Science & Analytics
work-environment: Remote work
learning-preference: Hands-on projects
career-goals: Switch to a new career
timeline: 1-2 years
time-commitment: 8-15 hours
work-style: I work best in small teams
challenge-level: 4
`

func TestPersonalize_MockProvider(t *testing.T) {
	db := isolate(t)
	dir := t.TempDir()
	reply := filepath.Join(dir, "reply.json")
	answers := filepath.Join(dir, "answers.yaml")
	conf := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(reply, []byte(candidateJSON), 0o644))
	require.NoError(t, os.WriteFile(answers, []byte(answersYAML), 0o644))
	require.NoError(t, os.WriteFile(conf, []byte("[llm]\nprovider = \"mock\"\n\n[llm.mock]\nresponse_file = \""+filepath.ToSlash(reply)+"\"\n"), 0o644))

	out, err := execute(t, "personalize", "--config", conf, "--db", db, "--answers", answers)
	require.NoError(t, err)
	assert.Contains(t, out, "Data Engineering")
	assert.Contains(t, out, "SQL Basics (sql-basics)")

	out, err = execute(t, "progress", "--config", conf, "--db", db, "--json")
	require.NoError(t, err)
	var p progress.Progress
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, []string{"sql-basics"}, p.AIRecommendedPath)

	out, err = execute(t, "llm", "list", "--config", conf, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "personalize")

	out, err = execute(t, "llm", "view", "1", "--config", conf, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Provider:  mock")
	assert.Contains(t, out, "Purpose:   personalize")
	assert.Contains(t, out, "Success:   true")

	_, err = execute(t, "llm", "view", "99", "--config", conf, "--db", db)
	assert.ErrorContains(t, err, "event 99 not found")
}

func TestCatalogValidate(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte(`schema_version: v1.0.0
nodes:
  - id: intro
    title: Intro
    category: foundation
    difficulty: 1
    xpReward: 50
  - id: next
    title: Next
    category: science
    prerequisites: [intro]
    difficulty: 2
    xpReward: 100
`), 0o644))
	out, err := execute(t, "catalog", "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "2 nodes OK")

	cyclic := filepath.Join(dir, "cyclic.yaml")
	require.NoError(t, os.WriteFile(cyclic, []byte(`schema_version: v1.0.0
nodes:
  - {id: a, title: A, prerequisites: [b], difficulty: 1}
  - {id: b, title: B, prerequisites: [a], difficulty: 1}
`), 0o644))
	_, err = execute(t, "catalog", "validate", cyclic)
	assert.Error(t, err)
}

func TestCatalogShow_JSON(t *testing.T) {
	db := isolate(t)

	out, err := execute(t, "catalog", "show", "--db", db, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"schema_version": "v1.0.0"`)
	assert.Contains(t, out, "foundation-basics")

	_, err = execute(t, "catalog", "show", "--db", db, "--format", "toml")
	assert.ErrorContains(t, err, "yaml or json")
}

func TestQuestions(t *testing.T) {
	out, err := execute(t, "questions")
	require.NoError(t, err)
	assert.Contains(t, out, "id: education-level")
	assert.Contains(t, out, "id: biggest-challenge")
}
