package tui

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/smileynet/contacts/internal/contact"
)

// chromeHeight is the number of lines around the table: title, blank line,
// status line and help bar.
const chromeHeight = 4

// defaultTableHeight is used until the first WindowSizeMsg arrives.
const defaultTableHeight = 10

// Model is the root Bubble Tea model for the address book.
// It routes messages by mode and rebuilds the table from Book.List after
// every change to the book.
type Model struct {
	book   Book
	path   string
	export ExportFunc
	logger *zap.Logger

	confirmRemove bool
	autosave      bool

	mode    Mode
	table   table.Model
	help    help.Model
	form    formState
	prompt  promptState
	confirm confirmState
	result  resultState

	status    string
	statusErr bool
	width     int
	height    int
}

// resultState holds the outcome of a search.
type resultState struct {
	query   string
	contact contact.Contact
	found   bool
}

// Option configures a Model.
type Option func(*Model)

// WithPath sets the file offered by the save and load prompts.
func WithPath(path string) Option {
	return func(m *Model) { m.path = path }
}

// WithConfirmRemove toggles the confirmation screen before removal.
func WithConfirmRemove(on bool) Option {
	return func(m *Model) { m.confirmRemove = on }
}

// WithAutosave makes every add and remove save the book to the current path.
func WithAutosave(on bool) Option {
	return func(m *Model) { m.autosave = on }
}

// WithExporter sets the function used by the export action.
func WithExporter(fn ExportFunc) Option {
	return func(m *Model) { m.export = fn }
}

// WithLogger sets the logger for book operations.
func WithLogger(l *zap.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// NewModel creates a Model in browse mode showing the contents of book.
func NewModel(book Book, opts ...Option) Model {
	m := Model{
		book:          book,
		path:          "contacts.json",
		logger:        zap.NewNop(),
		confirmRemove: true,
		mode:          ModeBrowse,
		help:          help.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}

	m.table = table.New(
		table.WithColumns(Columns(0)),
		table.WithFocused(true),
		table.WithHeight(defaultTableHeight),
		table.WithStyles(TableStyles()),
		table.WithKeyMap(tableKeyMap()),
	)
	m.refreshRows()
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages with mode-based routing.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetColumns(Columns(msg.Width))
		m.table.SetWidth(msg.Width)
		m.table.SetHeight(m.tableHeight())
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.handleKey(msg)

	case ContactSubmittedMsg:
		return m.addContact(msg.Contact)

	case PromptSubmittedMsg:
		return m.handlePrompt(msg)

	case RemoveConfirmedMsg:
		return m.removeContact(msg.Name)

	case CancelMsg:
		m.mode = ModeBrowse
		m.setStatus("Cancelled.", false)
		return m, nil

	case FileOpMsg:
		return m.handleFileOp(msg)
	}

	return m, nil
}

// handleKey routes key messages to the active mode.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.mode {
	case ModeAdd:
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	case ModePrompt:
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	case ModeConfirm:
		m.confirm, cmd = m.confirm.Update(msg)
		return m, cmd
	case ModeResult:
		m.mode = ModeBrowse
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "a":
		m.mode = ModeAdd
		m.form = newFormState()
		return m, nil
	case "d", "delete":
		return m.requestRemove()
	case "/":
		return m.openPrompt(PromptSearch, ""), nil
	case "s":
		return m.openPrompt(PromptSave, m.path), nil
	case "l":
		return m.openPrompt(PromptLoad, m.path), nil
	case "x":
		return m.openPrompt(PromptExport, exportPath(m.path)), nil
	case "?":
		m.help.ShowAll = !m.help.ShowAll
		m.table.SetHeight(m.tableHeight())
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) openPrompt(kind PromptKind, value string) Model {
	m.mode = ModePrompt
	m.prompt = newPromptState(kind, value)
	return m
}

// requestRemove starts removal of the selected row's name, asking first when
// confirmation is enabled.
func (m Model) requestRemove() (tea.Model, tea.Cmd) {
	row := m.table.SelectedRow()
	if row == nil {
		m.setStatus("Please select a contact to remove.", true)
		return m, nil
	}
	name := row[0]
	if !m.confirmRemove {
		return m.removeContact(name)
	}

	names := make([]string, 0, len(m.table.Rows()))
	for _, r := range m.table.Rows() {
		names = append(names, r[0])
	}
	m.confirm = confirmState{name: name, count: countNamed(names, name)}
	m.mode = ModeConfirm
	return m, nil
}

func (m Model) addContact(c contact.Contact) (tea.Model, tea.Cmd) {
	m.book.Add(c)
	m.logger.Info("contact added", zap.String("name", c.Name), zap.Int("count", m.book.Len()))
	m.mode = ModeBrowse
	m.refreshRows()
	m.table.GotoBottom()
	m.setStatus(fmt.Sprintf("Added %q.", c.Name), false)
	return m, m.autosaveCmd()
}

func (m Model) removeContact(name string) (tea.Model, tea.Cmd) {
	removed := m.book.Remove(name)
	m.logger.Info("contact removed", zap.String("name", name), zap.Int("removed", removed))
	m.mode = ModeBrowse
	m.refreshRows()
	m.setStatus(fmt.Sprintf("Removed %d contact(s) named %q.", removed, name), false)
	if removed == 0 {
		return m, nil
	}
	return m, m.autosaveCmd()
}

// handlePrompt answers a submitted prompt. Search runs inline; file
// operations run as commands and report back with FileOpMsg.
func (m Model) handlePrompt(msg PromptSubmittedMsg) (tea.Model, tea.Cmd) {
	m.mode = ModeBrowse

	if msg.Kind == PromptSearch {
		c, found := m.book.Search(msg.Value)
		m.logger.Debug("contact search", zap.String("name", msg.Value), zap.Bool("found", found))
		m.result = resultState{query: msg.Value, contact: c, found: found}
		m.mode = ModeResult
		return m, nil
	}

	path := msg.Value
	if strings.TrimSpace(path) == "" {
		m.setStatus("No file name given.", true)
		return m, nil
	}

	switch msg.Kind {
	case PromptSave:
		m.setStatus("Saving "+path+"...", false)
		return m, saveCmd(m.book, OpSave, path)
	case PromptLoad:
		m.setStatus("Loading "+path+"...", false)
		return m, loadCmd(m.book, path)
	case PromptExport:
		m.setStatus("Exporting "+path+"...", false)
		return m, exportCmd(m.book, m.export, path)
	}
	return m, nil
}

func (m Model) handleFileOp(msg FileOpMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.logger.Error("file operation failed",
			zap.String("op", string(msg.Op)), zap.String("path", msg.Path), zap.Error(msg.Err))
		m.setStatus(fileOpFailure(msg), true)
		return m, nil
	}

	m.logger.Info("file operation complete",
		zap.String("op", string(msg.Op)), zap.String("path", msg.Path), zap.Int("count", msg.Count))

	switch msg.Op {
	case OpSave:
		m.path = msg.Path
		m.setStatus(fmt.Sprintf("Saved %d contact(s) to %s.", msg.Count, msg.Path), false)
	case OpAutosave:
		// Keep the status of the change that triggered the save.
	case OpLoad:
		m.path = msg.Path
		m.refreshRows()
		m.table.GotoTop()
		m.setStatus(fmt.Sprintf("Loaded %d contact(s) from %s.", msg.Count, msg.Path), false)
	case OpExport:
		m.setStatus(fmt.Sprintf("Exported %d contact(s) to %s.", msg.Count, msg.Path), false)
	}
	return m, nil
}

func fileOpFailure(msg FileOpMsg) string {
	switch {
	case msg.Op == OpLoad && errors.Is(msg.Err, fs.ErrNotExist):
		return fmt.Sprintf("Error occurred while loading: %s does not exist.", msg.Path)
	case msg.Op == OpAutosave:
		return fmt.Sprintf("Autosave failed: %v", msg.Err)
	default:
		return fmt.Sprintf("Error occurred while trying to %s: %v", msg.Op, msg.Err)
	}
}

func (m Model) autosaveCmd() tea.Cmd {
	if !m.autosave {
		return nil
	}
	return saveCmd(m.book, OpAutosave, m.path)
}

func saveCmd(book Book, op FileOp, path string) tea.Cmd {
	return func() tea.Msg {
		err := book.Save(path)
		return FileOpMsg{Op: op, Path: path, Count: book.Len(), Err: err}
	}
}

func loadCmd(book Book, path string) tea.Cmd {
	return func() tea.Msg {
		err := book.Load(path)
		return FileOpMsg{Op: OpLoad, Path: path, Count: book.Len(), Err: err}
	}
}

func exportCmd(book Book, export ExportFunc, path string) tea.Cmd {
	return func() tea.Msg {
		if export == nil {
			return FileOpMsg{Op: OpExport, Path: path, Err: errors.New("export is not configured")}
		}
		contacts := book.List()
		err := export(path, contacts)
		return FileOpMsg{Op: OpExport, Path: path, Count: len(contacts), Err: err}
	}
}

// exportPath suggests a spreadsheet name next to the book file.
func exportPath(bookPath string) string {
	if i := strings.LastIndex(bookPath, "."); i > strings.LastIndexAny(bookPath, `/\`) && i > 0 {
		return bookPath[:i] + ".xlsx"
	}
	return bookPath + ".xlsx"
}

// refreshRows rebuilds the table rows from the book and keeps the cursor in range.
func (m *Model) refreshRows() {
	contacts := m.book.List()
	rows := make([]table.Row, len(contacts))
	for i, c := range contacts {
		rows[i] = table.Row{c.Name, c.Phone, c.Email, c.Address}
	}
	m.table.SetRows(rows)
	switch {
	case len(rows) == 0:
		m.table.SetCursor(0)
	case m.table.Cursor() >= len(rows):
		m.table.SetCursor(len(rows) - 1)
	case m.table.Cursor() < 0:
		m.table.SetCursor(0)
	}
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// tableHeight returns the rows available to the table, accounting for
// chrome and an expanded help bar.
func (m Model) tableHeight() int {
	if m.height == 0 {
		return defaultTableHeight
	}
	h := m.height - chromeHeight
	if m.help.ShowAll {
		h -= fullHelpRows(BrowseKeyMap()) - 1
	}
	if h < 3 {
		return 3
	}
	return h
}

// fullHelpRows returns the height of the expanded help bar for km.
func fullHelpRows(km help.KeyMap) int {
	rows := 1
	for _, group := range km.FullHelp() {
		rows = max(rows, len(group))
	}
	return rows
}

// View renders the title, the active mode's content, the status line and help bar.
func (m Model) View() string {
	title := titleText.Render("Address Book") +
		mutedText.Render(fmt.Sprintf("  %s · %d contact(s)", m.path, m.book.Len()))

	var body string
	switch m.mode {
	case ModeAdd:
		body = m.form.View()
	case ModePrompt:
		body = m.prompt.View()
	case ModeConfirm:
		body = m.confirm.View()
	case ModeResult:
		body = m.result.View()
	default:
		body = m.table.View()
		if m.book.Len() == 0 {
			body += "\n" + mutedText.Render("No contacts. Press a to add one or l to load a file.")
		}
	}

	status := m.status
	if status != "" {
		if m.statusErr {
			status = errorText.Render(status)
		} else {
			status = successText.Render(status)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		body,
		status,
		m.help.View(HelpBindings(m.mode)),
	)
}

// View renders the search result or a not-found message.
func (rs resultState) View() string {
	if !rs.found {
		return fmt.Sprintf("Contact not found.\n\n  No contact is named %q.", rs.query)
	}
	var b strings.Builder
	values := [len(ColumnTitles)]string{rs.contact.Name, rs.contact.Phone, rs.contact.Email, rs.contact.Address}
	for i, title := range ColumnTitles {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(labelText.Render(padRight(title+":", 21)))
		b.WriteString(values[i])
	}
	return b.String()
}
