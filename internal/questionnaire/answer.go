package questionnaire

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// AnswerKind is the shape of an answer value.
type AnswerKind int

const (
	KindNone AnswerKind = iota
	KindText
	KindList
	KindNumber
)

func (k AnswerKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindList:
		return "list"
	case KindNumber:
		return "number"
	default:
		return "none"
	}
}

// Answer is a string, a list of strings or a number. The zero value is
// an absent answer.
type Answer struct {
	kind   AnswerKind
	text   string
	list   []string
	number float64
}

// Text returns a text answer.
func Text(s string) Answer { return Answer{kind: KindText, text: s} }

// List returns a multi-choice answer.
func List(items ...string) Answer {
	return Answer{kind: KindList, list: append([]string{}, items...)}
}

// Number returns a numeric answer.
func Number(n float64) Answer { return Answer{kind: KindNumber, number: n} }

func (a Answer) Kind() AnswerKind { return a.kind }
func (a Answer) Text() string     { return a.text }
func (a Answer) Number() float64  { return a.number }

// List returns a copy of the selected items.
func (a Answer) List() []string { return append([]string(nil), a.list...) }

// Empty reports whether the answer carries no content: absent, blank
// text or an empty selection.
func (a Answer) Empty() bool {
	switch a.kind {
	case KindText:
		return strings.TrimSpace(a.text) == ""
	case KindList:
		return len(a.list) == 0
	case KindNumber:
		return false
	default:
		return true
	}
}

// String renders the answer for prompts and terminal output.
func (a Answer) String() string {
	switch a.kind {
	case KindText:
		return a.text
	case KindList:
		return strings.Join(a.list, ", ")
	case KindNumber:
		return strconv.FormatFloat(a.number, 'f', -1, 64)
	default:
		return ""
	}
}

func (a Answer) value() any {
	switch a.kind {
	case KindText:
		return a.text
	case KindList:
		return a.list
	case KindNumber:
		return a.number
	default:
		return nil
	}
}

func (a Answer) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.value())
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*a = Answer{}
	case string:
		*a = Text(t)
	case float64:
		*a = Number(t)
	case []any:
		items := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return fmt.Errorf("answer list items must be strings, got %T", e)
			}
			items = append(items, s)
		}
		*a = List(items...)
	default:
		return fmt.Errorf("answer must be a string, list of strings or number, got %T", v)
	}
	return nil
}

func (a Answer) MarshalYAML() (any, error) {
	return a.value(), nil
}

func (a *Answer) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.Tag {
		case "!!null":
			*a = Answer{}
		case "!!int", "!!float":
			var n float64
			if err := node.Decode(&n); err != nil {
				return err
			}
			*a = Number(n)
		default:
			*a = Text(node.Value)
		}
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return fmt.Errorf("line %d: answer list items must be strings: %w", node.Line, err)
		}
		*a = List(items...)
	default:
		return fmt.Errorf("line %d: answer must be a string, list of strings or number", node.Line)
	}
	return nil
}

// Answers maps question ids to answers.
type Answers map[string]Answer

// IDs returns the answered question ids, sorted.
func (as Answers) IDs() []string {
	ids := make([]string, 0, len(as))
	for id := range as {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LoadAnswers reads an answers document. Files ending in .json are
// decoded as JSON, anything else as YAML.
func LoadAnswers(path string) (Answers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	var as Answers
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &as)
	} else {
		err = yaml.Unmarshal(data, &as)
	}
	if err != nil {
		return nil, fmt.Errorf("parse answers %s: %w", path, err)
	}
	if as == nil {
		as = Answers{}
	}
	return as, nil
}
