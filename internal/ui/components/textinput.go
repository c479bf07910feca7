package components

import (
	"fmt"
	"unicode/utf8"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/careertree/internal/ui/theme"
)

// TextInput is a focused single-line input for free-text answers. When
// limited, it shows how many characters are left.
type TextInput struct {
	model textinput.Model
}

func NewTextInput(placeholder, value string, charLimit int) TextInput {
	m := textinput.New()
	m.Prompt = "› "
	m.Placeholder = placeholder
	m.CharLimit = max(charLimit, 0)
	m.SetValue(value)
	m.CursorEnd()
	m.Focus()
	return TextInput{model: m}
}

func (t TextInput) Init() tea.Cmd { return textinput.Blink }

func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.model, cmd = t.model.Update(msg)
	return t, cmd
}

func (t TextInput) Value() string { return t.model.Value() }

// Remaining returns the characters left before the limit, or -1 when
// unlimited.
func (t TextInput) Remaining() int {
	if t.model.CharLimit == 0 {
		return -1
	}
	return t.model.CharLimit - utf8.RuneCountInString(t.model.Value())
}

func (t TextInput) View() string {
	v := t.model.View()
	if left := t.Remaining(); left >= 0 {
		v += "\n" + theme.Dim.Render(fmt.Sprintf("%d characters left", left))
	}
	return v
}
