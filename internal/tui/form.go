package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/contacts/internal/contact"
)

// formState collects the four fields of a new contact.
type formState struct {
	inputs [len(ColumnTitles)]textinput.Model
	focus  int
}

// newFormState returns an empty form with the name field focused.
func newFormState() formState {
	var fs formState
	for i, title := range ColumnTitles {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = title
		ti.CharLimit = 0 // no limit
		ti.Width = 40
		fs.inputs[i] = ti
	}
	fs.inputs[0].Focus()
	return fs
}

// Update processes messages for the form. Completing the last field emits
// ContactSubmittedMsg; esc emits CancelMsg.
func (fs formState) Update(msg tea.Msg) (formState, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return fs, func() tea.Msg { return CancelMsg{} }

		case "enter":
			if fs.focus == len(fs.inputs)-1 {
				c := fs.Contact()
				return fs, func() tea.Msg { return ContactSubmittedMsg{Contact: c} }
			}
			return fs.setFocus(fs.focus + 1), nil

		case "tab", "down":
			return fs.setFocus((fs.focus + 1) % len(fs.inputs)), nil

		case "shift+tab", "up":
			return fs.setFocus((fs.focus + len(fs.inputs) - 1) % len(fs.inputs)), nil
		}
	}

	var cmd tea.Cmd
	fs.inputs[fs.focus], cmd = fs.inputs[fs.focus].Update(msg)
	return fs, cmd
}

func (fs formState) setFocus(i int) formState {
	fs.inputs[fs.focus].Blur()
	fs.focus = i
	fs.inputs[fs.focus].Focus()
	return fs
}

// Contact returns the contact described by the current field values.
// Values are taken verbatim.
func (fs formState) Contact() contact.Contact {
	return contact.Contact{
		Name:    fs.inputs[0].Value(),
		Phone:   fs.inputs[1].Value(),
		Email:   fs.inputs[2].Value(),
		Address: fs.inputs[3].Value(),
	}
}

// View renders the form with one labelled line per field.
func (fs formState) View() string {
	var b strings.Builder
	b.WriteString(titleText.Render("New contact"))
	b.WriteString("\n")
	for i, title := range ColumnTitles {
		b.WriteString("\n")
		marker := "  "
		if i == fs.focus {
			marker = "▸ "
		}
		b.WriteString(marker)
		b.WriteString(labelText.Render(padRight(title+":", 21)))
		b.WriteString(fs.inputs[i].View())
	}
	return b.String()
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}
