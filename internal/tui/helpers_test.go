package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/smileynet/contacts/internal/contact"
)

var (
	alice = contact.Contact{Name: "Alice", Phone: "555-1111", Email: "a@x.com", Address: "1 Main St"}
	bob   = contact.Contact{Name: "Bob", Phone: "555-2222", Email: "b@x.com", Address: "2 Oak Ave"}
)

// containsPlainText checks if s contains sub after stripping ANSI escapes.
func containsPlainText(s, sub string) bool {
	return strings.Contains(ansi.Strip(s), sub)
}

// update feeds msg to m and returns the concrete model.
func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

// follow runs cmd and feeds its message back into m, repeating while the
// result produces another command. Only use it for commands the model
// itself emits; textinput blink commands sleep.
func follow(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return m
		}
		m, cmd = update(t, m, msg)
	}
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyType(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

// typeText sends s as typed text. Returned commands are discarded.
func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	m, _ = update(t, m, keyRunes(s))
	return m
}

func newSizedModel(t *testing.T, book Book, opts ...Option) Model {
	t.Helper()
	m, _ := update(t, NewModel(book, opts...), tea.WindowSizeMsg{Width: 120, Height: 30})
	return m
}
