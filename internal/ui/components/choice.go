package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/careertree/internal/ui/theme"
)

// Choice is a vertical option picker. In single mode Enter picks the
// option under the cursor. In multi mode Space toggles options and Enter
// confirms the set.
type Choice struct {
	Options   []string
	Multi     bool
	Cursor    int
	Submitted bool

	checked map[int]bool
}

// NewChoice creates a picker over options. preset marks options that
// start selected; unknown values are ignored.
func NewChoice(options []string, multi bool, preset ...string) Choice {
	c := Choice{Options: options, Multi: multi, checked: make(map[int]bool)}
	for _, v := range preset {
		for i, opt := range options {
			if opt == v {
				c.checked[i] = true
				if !multi {
					c.Cursor = i
				}
			}
		}
	}
	return c
}

// Update handles keyboard navigation and selection.
func (c Choice) Update(msg tea.Msg) (Choice, tea.Cmd) {
	if c.Submitted {
		return c, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Options)-1 {
			c.Cursor++
		}
	case "space", " ":
		if c.Multi {
			c.checked[c.Cursor] = !c.checked[c.Cursor]
		}
	case "enter":
		if !c.Multi {
			clear(c.checked)
			c.checked[c.Cursor] = true
		}
		c.Submitted = true
	}
	return c, nil
}

// Values returns the selected options in option order.
func (c Choice) Values() []string {
	var out []string
	for i, opt := range c.Options {
		if c.checked[i] {
			out = append(out, opt)
		}
	}
	return out
}

// View renders the options with the cursor and check marks.
func (c Choice) View() string {
	var b strings.Builder
	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Cursor && !c.Submitted {
			prefix = "▸ "
		}
		mark := ""
		if c.Multi {
			mark = "[ ] "
			if c.checked[i] {
				mark = "[x] "
			}
		}

		line := prefix + mark + opt
		switch {
		case i == c.Cursor && !c.Submitted:
			b.WriteString(theme.Selected.Render(line))
		case c.checked[i]:
			b.WriteString(theme.Body.Foreground(theme.Success).Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
