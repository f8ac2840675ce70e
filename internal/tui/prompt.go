package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// promptState is a single-line input for a name or a file path.
type promptState struct {
	kind  PromptKind
	input textinput.Model
}

// newPromptState returns a focused prompt of the given kind prefilled with value.
func newPromptState(kind PromptKind, value string) promptState {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 0
	ti.Width = 50
	ti.SetValue(value)
	ti.CursorEnd()
	ti.Focus()
	return promptState{kind: kind, input: ti}
}

// Update processes messages for the prompt. Enter emits PromptSubmittedMsg
// and esc emits CancelMsg.
func (ps promptState) Update(msg tea.Msg) (promptState, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return ps, func() tea.Msg { return CancelMsg{} }
		case "enter":
			kind, value := ps.kind, ps.input.Value()
			return ps, func() tea.Msg { return PromptSubmittedMsg{Kind: kind, Value: value} }
		}
	}

	var cmd tea.Cmd
	ps.input, cmd = ps.input.Update(msg)
	return ps, cmd
}

// Label returns the question shown before the input.
func (ps promptState) Label() string {
	switch ps.kind {
	case PromptSave:
		return "Enter filename to save:"
	case PromptLoad:
		return "Enter filename to load:"
	case PromptExport:
		return "Enter spreadsheet filename to export:"
	default:
		return "Enter name to search:"
	}
}

// View renders the label and the input.
func (ps promptState) View() string {
	return labelText.Render(ps.Label()) + "\n\n  " + ps.input.View()
}
