// Package tui implements the interactive address book: a contact table with
// add, remove, search, save, load and export actions. The model depends only
// on the Book contract; it never holds contacts beyond the rows it renders.
package tui

import "github.com/smileynet/contacts/internal/contact"

// Mode represents the current view mode.
type Mode int

const (
	ModeBrowse  Mode = iota // Browsing the contact table.
	ModeAdd                 // Filling in the new contact form.
	ModePrompt              // Entering a name or file path.
	ModeConfirm             // Confirming a removal.
	ModeResult              // Showing a search result.
)

// PromptKind identifies what a single-line prompt collects.
type PromptKind int

const (
	PromptSearch PromptKind = iota
	PromptSave
	PromptLoad
	PromptExport
)

// FileOp identifies a file operation reported by FileOpMsg.
type FileOp string

const (
	OpSave     FileOp = "save"
	OpAutosave FileOp = "autosave"
	OpLoad     FileOp = "load"
	OpExport   FileOp = "export"
)

// --- Consumer-side interfaces ---

// Book is the address book contract the UI drives.
type Book interface {
	Add(c contact.Contact)
	Remove(name string) int
	Search(name string) (contact.Contact, bool)
	List() []contact.Contact
	Len() int
	Save(path string) error
	Load(path string) error
}

// ExportFunc writes contacts to a file at path.
type ExportFunc func(path string, contacts []contact.Contact) error

// --- tea.Msg types ---

// ContactSubmittedMsg signals the add form was completed.
type ContactSubmittedMsg struct {
	Contact contact.Contact
}

// PromptSubmittedMsg signals a prompt was answered.
type PromptSubmittedMsg struct {
	Kind  PromptKind
	Value string
}

// RemoveConfirmedMsg signals the user confirmed removing every contact named Name.
type RemoveConfirmedMsg struct {
	Name string
}

// CancelMsg signals the current form, prompt or confirmation was dismissed.
type CancelMsg struct{}

// FileOpMsg carries the result of an asynchronous file operation.
type FileOpMsg struct {
	Op    FileOp
	Path  string
	Count int
	Err   error
}
