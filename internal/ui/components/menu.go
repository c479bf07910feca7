package components

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/careertree/internal/ui/theme"
)

var (
	menuUp     = key.NewBinding(key.WithKeys("up", "k"))
	menuDown   = key.NewBinding(key.WithKeys("down", "j"))
	menuChoose = key.NewBinding(key.WithKeys("enter"))
)

// MenuItem is one entry of a Menu. Shortcut, when set, triggers the item
// from anywhere in the menu. Description is shown under the selected
// item.
type MenuItem struct {
	Label       string
	Shortcut    string
	Description string
	Action      func() tea.Cmd
	Disabled    bool
}

// Menu is a vertical list the cursor walks over, skipping disabled items.
type Menu struct {
	Items    []MenuItem
	Selected int
}

func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.move(0, 1)
	return m
}

// move steps the cursor from start in direction dir until it lands on an
// enabled item. It stays put when there is none.
func (m *Menu) move(start, dir int) {
	for i := start; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			m.Selected = i
			return
		}
	}
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(kmsg, menuUp):
		m.move(m.Selected-1, -1)
	case key.Matches(kmsg, menuDown):
		m.move(m.Selected+1, 1)
	case key.Matches(kmsg, menuChoose):
		return m, m.run(m.Selected)
	default:
		for i, item := range m.Items {
			if item.Shortcut != "" && kmsg.String() == item.Shortcut {
				m.Selected = i
				return m, m.run(i)
			}
		}
	}
	return m, nil
}

func (m Menu) run(i int) tea.Cmd {
	if i < 0 || i >= len(m.Items) {
		return nil
	}
	item := m.Items[i]
	if item.Disabled || item.Action == nil {
		return nil
	}
	return item.Action()
}

func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		label := item.Label
		if item.Shortcut != "" {
			label += " " + theme.Dim.Render("("+item.Shortcut+")")
		}
		switch {
		case item.Disabled:
			b.WriteString(theme.Dim.Render("    " + item.Label))
		case i == m.Selected:
			b.WriteString(theme.Selected.Render("  ▸ ") + theme.Selected.Render(label))
			if item.Description != "" {
				b.WriteString("\n      " + theme.Hint.Render(item.Description))
			}
		default:
			b.WriteString("    " + theme.Unselected.Render(label))
		}
		b.WriteString("\n")
	}
	return b.String()
}
