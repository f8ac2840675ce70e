package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// confirmState asks before removing every contact with a given name.
type confirmState struct {
	name  string
	count int // Contacts that share the name, all of which are removed.
}

// Update processes key presses: y/enter emits RemoveConfirmedMsg,
// n/esc emits CancelMsg, anything else is ignored.
func (cs confirmState) Update(msg tea.Msg) (confirmState, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return cs, nil
	}
	switch km.String() {
	case "y", "enter":
		name := cs.name
		return cs, func() tea.Msg { return RemoveConfirmedMsg{Name: name} }
	case "n", "esc":
		return cs, func() tea.Msg { return CancelMsg{} }
	}
	return cs, nil
}

// View renders the confirmation screen.
func (cs confirmState) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Remove %q?", cs.name)
	if cs.count > 1 {
		fmt.Fprintf(&b, "\n\n  %d contacts share this name; all of them will be removed.", cs.count)
	}
	b.WriteString("\n\n  [y] Remove   [n] Keep")
	return b.String()
}

// countNamed returns how many rows in names equal name.
func countNamed(names []string, name string) int {
	n := 0
	for _, s := range names {
		if s == name {
			n++
		}
	}
	return n
}
