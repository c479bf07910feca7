package summary

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/careertree/internal/personalize"
	"github.com/abhisek/careertree/internal/router"
	"github.com/abhisek/careertree/internal/skilltree"
)

func testResult() *personalize.Result {
	return &personalize.Result{
		Catalog:         skilltree.Seed(),
		Added:           []string{"sql-basics"},
		RecommendedPath: []string{"foundation-basics", "sql-basics"},
		Title:           "Data Engineering",
		Description:     "Build data platforms.",
		Recommendations: []string{"Ship a pipeline"},
		Warnings:        []string{"dropped prerequisite ghost"},
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testResult())
	if s.Title() != "Your Career Path" {
		t.Errorf("Title = %q, want %q", s.Title(), "Your Career Path")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	view := New(testResult()).View(100, 30)
	for _, want := range []string{"Data Engineering", "Basic Education", "sql-basics", "Ship a pipeline", "1 generated links"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSummaryScreen_NilResult(t *testing.T) {
	if view := New(nil).View(80, 24); !strings.Contains(view, "Nothing was generated") {
		t.Errorf("unexpected view %q", view)
	}
}

func TestSummaryScreen_Navigation_Enter(t *testing.T) {
	s := New(testResult())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	if _, ok := cmd().(router.HomeMsg); !ok {
		t.Error("Enter should return home")
	}
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	if hints := New(testResult()).KeyHints(); len(hints) != 1 {
		t.Errorf("KeyHints length = %d, want 1", len(hints))
	}
}
