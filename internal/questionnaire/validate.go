package questionnaire

import (
	"fmt"
	"math"
	"strings"
)

// ErrInvalidAnswers lists every problem found in a set of answers.
type ErrInvalidAnswers struct {
	Problems []string
}

func (e *ErrInvalidAnswers) Error() string {
	return "invalid answers: " + strings.Join(e.Problems, "; ")
}

// Validate checks answers against bank: every id must name a question,
// required questions must be answered, and each answer must have the
// shape its question type asks for. Optional questions may be left out
// or answered with an empty value.
func Validate(bank []Question, answers Answers) error {
	var problems []string
	known := make(map[string]bool, len(bank))

	for _, q := range bank {
		known[q.ID] = true
		a, ok := answers[q.ID]
		if !ok || a.Empty() {
			if q.Required {
				problems = append(problems, fmt.Sprintf("%s: answer required", q.ID))
			}
			continue
		}
		problems = append(problems, checkAnswer(q, a)...)
	}

	for _, id := range answers.IDs() {
		if !known[id] {
			problems = append(problems, fmt.Sprintf("%s: unknown question", id))
		}
	}

	if len(problems) > 0 {
		return &ErrInvalidAnswers{Problems: problems}
	}
	return nil
}

func checkAnswer(q Question, a Answer) []string {
	want := map[QuestionType]AnswerKind{
		TypeSingle:   KindText,
		TypeMultiple: KindList,
		TypeText:     KindText,
		TypeScale:    KindNumber,
	}[q.Type]
	if a.Kind() != want {
		return []string{fmt.Sprintf("%s: expected a %s answer, got %s", q.ID, want, a.Kind())}
	}

	var problems []string
	switch q.Type {
	case TypeSingle:
		if !q.HasOption(a.Text()) {
			problems = append(problems, fmt.Sprintf("%s: %q is not an option", q.ID, a.Text()))
		}
	case TypeMultiple:
		seen := make(map[string]bool)
		for _, item := range a.List() {
			switch {
			case !q.HasOption(item):
				problems = append(problems, fmt.Sprintf("%s: %q is not an option", q.ID, item))
			case seen[item]:
				problems = append(problems, fmt.Sprintf("%s: %q selected twice", q.ID, item))
			}
			seen[item] = true
		}
	case TypeScale:
		n := a.Number()
		if n != math.Trunc(n) || n < ScaleMin || n > ScaleMax {
			problems = append(problems, fmt.Sprintf("%s: %v is not a whole number from %d to %d", q.ID, n, ScaleMin, ScaleMax))
		}
	}
	return problems
}

// Summary renders answers one per line as "question-id: value", in bank
// order. Unanswered questions are skipped.
func Summary(bank []Question, answers Answers) string {
	var b strings.Builder
	for _, q := range bank {
		a, ok := answers[q.ID]
		if !ok || a.Empty() {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", q.ID, a)
	}
	return b.String()
}
