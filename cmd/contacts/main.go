package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/smileynet/contacts/internal/config"
	"github.com/smileynet/contacts/internal/contact"
	"github.com/smileynet/contacts/internal/export"
	"github.com/smileynet/contacts/internal/logging"
	"github.com/smileynet/contacts/internal/tui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errNotFound reports a search that matched nothing.
var errNotFound = errors.New("contact not found")

// Globals are flags shared by every command.
type Globals struct {
	File string `help:"Contacts file (overrides book.path)." short:"f" type:"path"`
}

// CLI is the top-level command structure for contacts.
type CLI struct {
	Globals

	Version kong.VersionFlag `help:"Show version." short:"V"`
	UI      UICmd            `cmd:"" default:"1" help:"Open the interactive address book (default)."`
	Add     AddCmd           `cmd:"" help:"Add a contact."`
	Remove  RemoveCmd        `cmd:"" help:"Remove every contact with the given name."`
	Search  SearchCmd        `cmd:"" help:"Show the first contact with the given name."`
	List    ListCmd          `cmd:"" help:"List all contacts."`
	Export  ExportCmd        `cmd:"" help:"Export contacts to an xlsx spreadsheet."`
}

// env is the resolved configuration and logger for one command.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
}

func (e env) path() string { return e.cfg.Book.Path }

func (e env) close() { _ = e.logger.Sync() }

// setup loads layered config, applies the global flags, and opens the log.
func setup(g *Globals) (env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return env{}, err
	}
	if g.File != "" {
		cfg.Book.Path = g.File
	}
	if err := cfg.Validate(); err != nil {
		return env{}, err
	}
	logger, err := logging.New(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return env{}, err
	}
	return env{cfg: cfg, logger: logger}, nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadLayered(
		os.ExpandEnv("$HOME/.config/contacts/config.yaml"),
		".contacts.yaml",
	)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openBook loads the book at path. With missingOK a missing file yields an
// empty book.
func openBook(path string, missingOK bool) (*contact.Book, error) {
	book := contact.NewBook()
	if err := book.Load(path); err != nil {
		if missingOK && errors.Is(err, fs.ErrNotExist) {
			return book, nil
		}
		return nil, err
	}
	return book, nil
}

// --- UI command ---

// UICmd opens the interactive address book.
type UICmd struct{}

// teaRunner abstracts Bubble Tea program execution for testing.
type teaRunner interface {
	Run() (tea.Model, error)
}

// Run loads the configured book and launches the TUI.
func (u *UICmd) Run(g *Globals) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("ui: requires a terminal (TTY)")
	}

	e, err := setup(g)
	if err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	defer e.close()

	book, err := openBook(e.path(), true)
	if err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	e.logger.Info("ui started", zap.String("path", e.path()), zap.Int("count", book.Len()))

	m := tui.NewModel(book,
		tui.WithPath(e.path()),
		tui.WithConfirmRemove(e.cfg.UI.ConfirmRemove),
		tui.WithAutosave(e.cfg.Book.Autosave),
		tui.WithExporter(export.WriteFile),
		tui.WithLogger(e.logger),
	)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	return u.run(true, prog)
}

// run executes the tea program, enabling testable wiring.
func (u *UICmd) run(isTTY bool, prog teaRunner) error {
	if !isTTY {
		return fmt.Errorf("ui: requires a terminal (TTY)")
	}
	_, err := prog.Run()
	return err
}

// --- Book commands ---

// AddCmd appends a contact to the book file.
type AddCmd struct {
	Name    string `arg:"" help:"Contact name."`
	Phone   string `arg:"" help:"Phone number."`
	Email   string `arg:"" help:"Email address."`
	Address string `arg:"" help:"Residential address."`
}

// Run executes the add command.
func (a *AddCmd) Run(g *Globals) error {
	e, err := setup(g)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	defer e.close()
	return a.run(os.Stdout, e.path(), e.logger)
}

// run adds the contact to the book at path; a missing file starts a new book.
func (a *AddCmd) run(w io.Writer, path string, logger *zap.Logger) error {
	book, err := openBook(path, true)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}

	book.Add(contact.Contact{Name: a.Name, Phone: a.Phone, Email: a.Email, Address: a.Address})
	if err := book.Save(path); err != nil {
		logger.Error("save failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("add: %w", err)
	}
	logger.Info("contact added", zap.String("name", a.Name), zap.String("path", path), zap.Int("count", book.Len()))

	_, _ = fmt.Fprintf(w, "Added %q (%d contact(s) in %s)\n", a.Name, book.Len(), path)
	return nil
}

// RemoveCmd removes every contact with a name.
type RemoveCmd struct {
	Name string `arg:"" help:"Name of the contacts to remove."`
}

// Run executes the remove command.
func (r *RemoveCmd) Run(g *Globals) error {
	e, err := setup(g)
	if err != nil {
		return fmt.Errorf("remove: %w", err)
	}
	defer e.close()
	return r.run(os.Stdout, e.path(), e.logger)
}

// run removes matching contacts and saves only when something changed.
func (r *RemoveCmd) run(w io.Writer, path string, logger *zap.Logger) error {
	book, err := openBook(path, false)
	if err != nil {
		return fmt.Errorf("remove: %w", err)
	}

	removed := book.Remove(r.Name)
	if removed > 0 {
		if err := book.Save(path); err != nil {
			logger.Error("save failed", zap.String("path", path), zap.Error(err))
			return fmt.Errorf("remove: %w", err)
		}
	}
	logger.Info("contact removed", zap.String("name", r.Name), zap.String("path", path), zap.Int("removed", removed))

	_, _ = fmt.Fprintf(w, "Removed %d contact(s)\n", removed)
	return nil
}

// SearchCmd shows the first contact with a name.
type SearchCmd struct {
	Name string `arg:"" help:"Name to look up."`
}

// Run executes the search command.
func (s *SearchCmd) Run(g *Globals) error {
	e, err := setup(g)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	defer e.close()
	return s.run(os.Stdout, e.path(), e.logger)
}

// run prints the labelled fields of the match, or reports errNotFound.
func (s *SearchCmd) run(w io.Writer, path string, logger *zap.Logger) error {
	book, err := openBook(path, false)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	c, found := book.Search(s.Name)
	logger.Debug("contact search", zap.String("name", s.Name), zap.Bool("found", found))
	if !found {
		_, _ = fmt.Fprintln(w, "Contact not found.")
		return fmt.Errorf("search: %q: %w", s.Name, errNotFound)
	}

	values := []string{c.Name, c.Phone, c.Email, c.Address}
	for i, title := range tui.ColumnTitles {
		_, _ = fmt.Fprintf(w, "%-21s%s\n", title+":", values[i])
	}
	return nil
}

// ListCmd prints every contact.
type ListCmd struct {
	Plain bool `help:"Print tab-separated lines instead of a table." default:"false"`
}

// Run executes the list command.
func (l *ListCmd) Run(g *Globals) error {
	e, err := setup(g)
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	defer e.close()
	isTTY := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	return l.run(os.Stdout, e.path(), isTTY)
}

// run prints the book at path as a table, or as plain lines when asked to
// or when w is not a terminal.
func (l *ListCmd) run(w io.Writer, path string, isTTY bool) error {
	book, err := openBook(path, false)
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	contacts := book.List()

	if l.Plain || !isTTY {
		for _, c := range contacts {
			_, _ = fmt.Fprintln(w, strings.Join([]string{c.Name, c.Phone, c.Email, c.Address}, "\t"))
		}
		return nil
	}

	if len(contacts) == 0 {
		_, _ = fmt.Fprintln(w, "No contacts.")
		return nil
	}
	_, _ = fmt.Fprintln(w, contactTable(contacts))
	return nil
}

// contactTable renders contacts as a rounded lipgloss table.
func contactTable(contacts []contact.Contact) string {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(tui.ColumnTitles[:]...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	for _, c := range contacts {
		t.Row(c.Name, c.Phone, c.Email, c.Address)
	}
	return t.String()
}

// ExportCmd writes the book to a spreadsheet.
type ExportCmd struct {
	Out string `arg:"" help:"Output .xlsx file." type:"path"`
}

// Run executes the export command.
func (x *ExportCmd) Run(g *Globals) error {
	e, err := setup(g)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer e.close()
	return x.run(os.Stdout, e.path(), e.logger)
}

func (x *ExportCmd) run(w io.Writer, path string, logger *zap.Logger) error {
	book, err := openBook(path, false)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	contacts := book.List()
	if err := export.WriteFile(x.Out, contacts); err != nil {
		logger.Error("export failed", zap.String("path", x.Out), zap.Error(err))
		return fmt.Errorf("export: %w", err)
	}
	logger.Info("contacts exported", zap.String("path", x.Out), zap.Int("count", len(contacts)))

	_, _ = fmt.Fprintf(w, "Exported %d contact(s) to %s\n", len(contacts), x.Out)
	return nil
}

const (
	exitSuccess  = 0
	exitNotFound = 1
	exitError    = 2
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, errNotFound):
		return exitNotFound
	default:
		return exitError
	}
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("contacts"),
		kong.Description("A single-user address book."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run(&cli.Globals)
	if err != nil {
		// Search has already said so on stdout.
		if !errors.Is(err, errNotFound) {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
		}
		os.Exit(exitCode(err))
	}
}
