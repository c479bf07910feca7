// Package questions walks the user through the career questionnaire and
// runs personalization on the answers.
package questions

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/careertree/internal/personalize"
	"github.com/abhisek/careertree/internal/questionnaire"
	"github.com/abhisek/careertree/internal/router"
	"github.com/abhisek/careertree/internal/screen"
	"github.com/abhisek/careertree/internal/screens/summary"
	"github.com/abhisek/careertree/internal/tracker"
	"github.com/abhisek/careertree/internal/ui/components"
	"github.com/abhisek/careertree/internal/ui/layout"
	"github.com/abhisek/careertree/internal/ui/theme"
)

const textAnswerLimit = 200

type phase int

const (
	phaseAsking phase = iota
	phaseGenerating
	phaseFailed
)

type personalizedMsg struct {
	result *personalize.Result
	err    error
}

// Screen asks one question at a time.
type Screen struct {
	tracker *tracker.Tracker
	userID  string

	bank    []questionnaire.Question
	idx     int
	answers questionnaire.Answers

	choice components.Choice
	text   components.TextInput

	phase phase
	hint  string
	err   error
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
)

// New creates the questionnaire screen.
func New(t *tracker.Tracker, userID string) *Screen {
	s := &Screen{
		tracker: t,
		userID:  userID,
		bank:    questionnaire.Bank(),
		answers: questionnaire.Answers{},
	}
	s.prepare()
	return s
}

func (s *Screen) Init() tea.Cmd {
	if s.current().Type == questionnaire.TypeText {
		return s.text.Init()
	}
	return nil
}

func (s *Screen) Title() string {
	return "Personalize"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch {
	case s.phase == phaseFailed:
		return []layout.KeyHint{{Key: "r", Description: "Retry"}, {Key: "Esc", Description: "Back"}}
	case s.phase == phaseGenerating:
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	case s.current().Type == questionnaire.TypeMultiple:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Space", Description: "Toggle"},
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Back"},
		}
	default:
		return []layout.KeyHint{{Key: "Enter", Description: "Next"}, {Key: "Esc", Description: "Back"}}
	}
}

func (s *Screen) current() questionnaire.Question {
	return s.bank[s.idx]
}

// prepare builds the input widget for the current question, prefilled
// with any earlier answer.
func (s *Screen) prepare() {
	q := s.current()
	prev := s.answers[q.ID]
	switch q.Type {
	case questionnaire.TypeText:
		s.text = components.NewTextInput("Type your answer", prev.Text(), textAnswerLimit)
	case questionnaire.TypeScale:
		var opts []string
		for n := questionnaire.ScaleMin; n <= questionnaire.ScaleMax; n++ {
			opts = append(opts, strconv.Itoa(n))
		}
		var preset []string
		if prev.Kind() == questionnaire.KindNumber {
			preset = []string{strconv.Itoa(int(prev.Number()))}
		}
		s.choice = components.NewChoice(opts, false, preset...)
	case questionnaire.TypeMultiple:
		s.choice = components.NewChoice(q.Options, true, prev.List()...)
	default:
		var preset []string
		if prev.Kind() == questionnaire.KindText {
			preset = []string{prev.Text()}
		}
		s.choice = components.NewChoice(q.Options, false, preset...)
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case personalizedMsg:
		if msg.err != nil {
			s.phase = phaseFailed
			s.err = msg.err
			return s, nil
		}
		res := msg.result
		return s, tea.Batch(
			router.Replace(summary.New(res)),
			screen.ProgressChanged,
		)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch s.phase {
	case phaseGenerating:
		return s, nil
	case phaseFailed:
		if msg.String() == "r" {
			return s, s.submit()
		}
		return s, nil
	}

	q := s.current()
	if q.Type == questionnaire.TypeText {
		if msg.String() != "enter" {
			var cmd tea.Cmd
			s.text, cmd = s.text.Update(msg)
			return s, cmd
		}
		return s, s.record(questionnaire.Text(strings.TrimSpace(s.text.Value())))
	}

	s.choice, _ = s.choice.Update(msg)
	if !s.choice.Submitted {
		return s, nil
	}
	values := s.choice.Values()
	switch {
	case q.Type == questionnaire.TypeMultiple:
		return s, s.record(questionnaire.List(values...))
	case len(values) == 0:
		return s, s.record(questionnaire.Answer{})
	case q.Type == questionnaire.TypeScale:
		n, _ := strconv.Atoi(values[0])
		return s, s.record(questionnaire.Number(float64(n)))
	default:
		return s, s.record(questionnaire.Text(values[0]))
	}
}

// record stores the answer to the current question and advances. An
// empty answer to a required question keeps the user on it.
func (s *Screen) record(a questionnaire.Answer) tea.Cmd {
	q := s.current()
	if a.Empty() && q.Required {
		s.hint = "This question needs an answer."
		s.prepare()
		return nil
	}
	s.hint = ""
	if a.Empty() {
		delete(s.answers, q.ID)
	} else {
		s.answers[q.ID] = a
	}

	if s.idx < len(s.bank)-1 {
		s.idx++
		s.prepare()
		return s.Init()
	}
	if err := questionnaire.Validate(s.bank, s.answers); err != nil {
		s.phase = phaseFailed
		s.err = err
		return nil
	}
	return s.submit()
}

func (s *Screen) submit() tea.Cmd {
	s.phase = phaseGenerating
	s.err = nil
	answers := s.answers
	return func() tea.Msg {
		res, err := s.tracker.Personalize(context.Background(), s.userID, answers)
		return personalizedMsg{result: res, err: err}
	}
}

func (s *Screen) View(width, height int) string {
	contentWidth := min(width-8, 76)

	var b strings.Builder
	switch s.phase {
	case phaseGenerating:
		b.WriteString(theme.Title.Render("Building your career path..."))
		b.WriteString("\n\n")
		b.WriteString(theme.Dim.Render("This can take up to a minute."))
	case phaseFailed:
		b.WriteString(theme.ErrorText.Render(describeError(s.err)))
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("Press r to try again."))
	default:
		q := s.current()
		b.WriteString(theme.Dim.Render(fmt.Sprintf("Question %d of %d · %s", s.idx+1, len(s.bank), q.Category)))
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Width(contentWidth).Bold(true).Foreground(theme.Text).Render(q.Question))
		b.WriteString("\n")
		if q.Description != "" {
			b.WriteString(theme.Hint.Render(q.Description))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		if q.Type == questionnaire.TypeText {
			b.WriteString(s.text.View())
		} else {
			b.WriteString(s.choice.View())
		}
		if s.hint != "" {
			b.WriteString("\n")
			b.WriteString(theme.ErrorText.Render(s.hint))
		}
	}

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top,
		lipgloss.NewStyle().Padding(1, 4).Render(b.String()))
}

func describeError(err error) string {
	var (
		invalid  *questionnaire.ErrInvalidAnswers
		external *personalize.ErrExternalService
		conflict *personalize.ErrMergeConflict
	)
	switch {
	case errors.As(err, &invalid):
		return "Some answers need fixing:\n  " + strings.Join(invalid.Problems, "\n  ")
	case errors.As(err, &external) && !external.Retryable:
		return "The career path service rejected the request. Check the AI provider settings."
	case errors.As(err, &external):
		return "The career path service is unavailable right now."
	case errors.As(err, &conflict):
		return "The generated path clashes with your tree: " + conflict.Error()
	case errors.Is(err, tracker.ErrPersonalizationDisabled):
		return "Personalization is not configured."
	default:
		return err.Error()
	}
}
