package contact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var (
	alice = Contact{Name: "Alice", Phone: "555-1111", Email: "a@x.com", Address: "1 Main St"}
	bob   = Contact{Name: "Bob", Phone: "555-2222", Email: "b@x.com", Address: "2 Oak Ave"}
	carol = Contact{Name: "Carol", Phone: "555-3333", Email: "c@x.com", Address: "3 Elm Rd"}
)

func TestBook_Scenario(t *testing.T) {
	// Given an empty book
	b := NewBook()

	// When Alice and Bob are added
	b.Add(alice)
	b.Add(bob)

	// Then List returns them in insertion order
	if diff := cmp.Diff([]Contact{alice, bob}, b.List()); diff != "" {
		t.Errorf("List() after adds mismatch (-want +got):\n%s", diff)
	}

	// When Alice is removed
	if n := b.Remove("Alice"); n != 1 {
		t.Errorf("Remove(Alice) = %d, want 1", n)
	}

	// Then only Bob remains
	if diff := cmp.Diff([]Contact{bob}, b.List()); diff != "" {
		t.Errorf("List() after remove mismatch (-want +got):\n%s", diff)
	}

	// And Bob is found while Carol is not
	got, ok := b.Search("Bob")
	if !ok {
		t.Fatal("Search(Bob) found = false, want true")
	}
	if got != bob {
		t.Errorf("Search(Bob) = %+v, want %+v", got, bob)
	}
	if _, ok := b.Search("Carol"); ok {
		t.Error("Search(Carol) found = true, want false")
	}
}

func TestBook_AddAllowsDuplicates(t *testing.T) {
	// Given a book with two contacts sharing a name
	b := NewBook()
	first := Contact{Name: "Sam", Phone: "1"}
	second := Contact{Name: "Sam", Phone: "2"}
	b.Add(first)
	b.Add(second)

	// Then both are stored
	if b.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", b.Len())
	}

	// And Search returns the first inserted
	got, ok := b.Search("Sam")
	if !ok || got != first {
		t.Errorf("Search(Sam) = %+v, %v; want %+v, true", got, ok, first)
	}
}

func TestBook_RemoveAllMatches(t *testing.T) {
	// Given a book with duplicate names interleaved with others
	b := NewBook(
		Contact{Name: "Sam", Phone: "1"},
		alice,
		Contact{Name: "Sam", Phone: "2"},
		bob,
	)

	// When Sam is removed
	n := b.Remove("Sam")

	// Then every Sam is removed and the rest keep their order
	if n != 2 {
		t.Errorf("Remove(Sam) = %d, want 2", n)
	}
	if diff := cmp.Diff([]Contact{alice, bob}, b.List()); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
}

func TestBook_RemoveNoMatch(t *testing.T) {
	// Given a populated book
	b := NewBook(alice, bob)

	// When a name that is not present is removed
	n := b.Remove("Carol")

	// Then nothing changes
	if n != 0 {
		t.Errorf("Remove(Carol) = %d, want 0", n)
	}
	if diff := cmp.Diff([]Contact{alice, bob}, b.List()); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
}

func TestBook_MatchIsExactAndCaseSensitive(t *testing.T) {
	b := NewBook(alice)

	tests := []string{"alice", "ALICE", "Alice ", " Alice", "Ali"}
	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			if _, ok := b.Search(name); ok {
				t.Errorf("Search(%q) found = true, want false", name)
			}
			if n := b.Remove(name); n != 0 {
				t.Errorf("Remove(%q) = %d, want 0", name, n)
			}
		})
	}
	if b.Len() != 1 {
		t.Errorf("Len() = %d, want 1", b.Len())
	}
}

func TestBook_ListIsSnapshot(t *testing.T) {
	// Given a snapshot taken from a populated book
	b := NewBook(alice, bob)
	snapshot := b.List()

	// When the book is mutated
	b.Remove("Alice")
	b.Add(carol)

	// Then the snapshot is unaffected
	if diff := cmp.Diff([]Contact{alice, bob}, snapshot); diff != "" {
		t.Errorf("snapshot changed (-want +got):\n%s", diff)
	}

	// And mutating the snapshot does not reach the book
	snapshot[0].Name = "Mallory"
	if diff := cmp.Diff([]Contact{bob, carol}, b.List()); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
}

func TestBook_EmptyFieldsStoredVerbatim(t *testing.T) {
	b := NewBook()
	b.Add(Contact{})

	got, ok := b.Search("")
	if !ok {
		t.Fatal("Search(\"\") found = false, want true")
	}
	if got != (Contact{}) {
		t.Errorf("Search(\"\") = %+v, want zero contact", got)
	}
}

func TestBook_SaveAndLoad(t *testing.T) {
	// Given a populated book with awkward field values
	path := filepath.Join(t.TempDir(), "contacts.json")
	orig := NewBook(
		alice,
		Contact{Name: "Zoë \"Z\" O'Neil", Phone: "", Email: "<z@x.com>", Address: "Flat 2\nHigh St"},
		bob,
		Contact{},
		Contact{Name: "Alice", Phone: "dup"},
	)

	// When it is saved and loaded into a fresh book
	if err := orig.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded := NewBook()
	if err := loaded.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Then the contents and order are identical
	if diff := cmp.Diff(orig.List(), loaded.List()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestBook_SaveEmptyBook(t *testing.T) {
	// Given an empty book saved to disk
	path := filepath.Join(t.TempDir(), "contacts.json")
	if err := NewBook().Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// When the file is loaded over a populated book
	b := NewBook(alice)
	if err := b.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Then the book is emptied
	if b.Len() != 0 {
		t.Errorf("Len() = %d, want 0", b.Len())
	}
	if got := b.List(); len(got) != 0 {
		t.Errorf("List() = %v, want empty", got)
	}
}

func TestBook_SaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.json")
	if err := NewBook(alice, bob, carol).Save(path); err != nil {
		t.Fatalf("first Save() error = %v", err)
	}
	if err := NewBook(bob).Save(path); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	b := NewBook()
	if err := b.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff([]Contact{bob}, b.List()); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}

	// No temporary files are left next to the target.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory entries = %v, want only contacts.json", names)
	}
}

func TestBook_SaveUnwritableDestination(t *testing.T) {
	// Given a destination inside a directory that does not exist
	path := filepath.Join(t.TempDir(), "missing", "contacts.json")
	b := NewBook(alice)

	// When Save is called
	err := b.Save(path)

	// Then it reports failure, writes nothing, and keeps the book intact
	if err == nil {
		t.Fatal("Save() error = nil, want error")
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("Save() error = %q, want it to name %q", err, path)
	}
	if _, statErr := os.Stat(path); !errors.Is(statErr, fs.ErrNotExist) {
		t.Errorf("Stat(%s) error = %v, want not exist", path, statErr)
	}
	if diff := cmp.Diff([]Contact{alice}, b.List()); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
}

func TestBook_SaveRejectsInvalidUTF8(t *testing.T) {
	// Given a saved book and a contact whose name is Latin-1 bytes
	path := filepath.Join(t.TempDir(), "contacts.json")
	if err := NewBook(alice).Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	b := NewBook(bob, Contact{Name: "Jos\xe9", Phone: "555-0000"})

	// When the book is saved over the file
	err := b.Save(path)

	// Then the save fails instead of rewriting the name, and the file is untouched
	if !errors.Is(err, ErrInvalidText) {
		t.Fatalf("Save() error = %v, want ErrInvalidText", err)
	}
	loaded := NewBook()
	if err := loaded.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff([]Contact{alice}, loaded.List()); diff != "" {
		t.Errorf("file contents changed (-want +got):\n%s", diff)
	}
}

func TestBook_EncodeRejectsInvalidUTF8(t *testing.T) {
	tests := []struct {
		name string
		c    Contact
	}{
		{name: "name", c: Contact{Name: "Jos\xe9"}},
		{name: "phone", c: Contact{Phone: "\xff"}},
		{name: "email", c: Contact{Email: "a\xc3@x.com"}},
		{name: "address", c: Contact{Address: "Stra\xdfe 1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sb strings.Builder
			err := NewBook(tt.c).Encode(&sb)
			if !errors.Is(err, ErrInvalidText) {
				t.Fatalf("Encode() error = %v, want ErrInvalidText", err)
			}
			if !strings.Contains(err.Error(), tt.name) {
				t.Errorf("Encode() error = %q, want it to name the %s field", err, tt.name)
			}
			if sb.Len() != 0 {
				t.Errorf("Encode() wrote %q, want nothing", sb.String())
			}
		})
	}
}

func TestBook_SaveKeepsFilePermissions(t *testing.T) {
	// Given a contacts file the user made private
	path := filepath.Join(t.TempDir(), "contacts.json")
	if err := NewBook(alice).Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		t.Fatal(err)
	}

	// When the book is saved again
	if err := NewBook(alice, bob).Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Then the file is still private
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := fi.Mode().Perm(); got != 0o600 {
		t.Errorf("mode after Save = %v, want %v", got, os.FileMode(0o600))
	}
}

func TestBook_SaveNewFileMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.json")
	if err := NewBook(alice).Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := fi.Mode().Perm(); got != 0o644 {
		t.Errorf("mode = %v, want %v", got, os.FileMode(0o644))
	}
}

func TestBook_LoadMissingFile(t *testing.T) {
	// Given a populated book
	b := NewBook(alice, bob)

	// When a nonexistent file is loaded
	err := b.Load(filepath.Join(t.TempDir(), "nope.json"))

	// Then it reports not-exist and keeps the previous contents
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want fs.ErrNotExist", err)
	}
	if diff := cmp.Diff([]Contact{alice, bob}, b.List()); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
}

func TestBook_LoadCorruptFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "empty file", content: "", wantErr: ErrInvalidDocument},
		{name: "whitespace only", content: "  \n\t", wantErr: ErrInvalidDocument},
		{name: "not json", content: "hello", wantErr: ErrInvalidDocument},
		{name: "truncated", content: `{"version": 1, "contacts": [`, wantErr: ErrInvalidDocument},
		{name: "null", content: "null", wantErr: ErrInvalidDocument},
		{name: "missing version", content: `{"contacts": []}`, wantErr: ErrInvalidDocument},
		{name: "missing contacts", content: `{"version": 1}`, wantErr: ErrInvalidDocument},
		{name: "string version", content: `{"version": "1", "contacts": []}`, wantErr: ErrInvalidDocument},
		{name: "future version", content: `{"version": 2, "contacts": []}`, wantErr: ErrUnsupportedVersion},
		{name: "zero version", content: `{"version": 0, "contacts": []}`, wantErr: ErrUnsupportedVersion},
		{
			name:    "missing field",
			content: `{"version": 1, "contacts": [{"name": "a", "phone": "", "email": ""}]}`,
			wantErr: ErrInvalidDocument,
		},
		{
			name:    "unknown field",
			content: `{"version": 1, "contacts": [{"name": "a", "phone": "", "email": "", "address": "", "age": 3}]}`,
			wantErr: ErrInvalidDocument,
		},
		{
			name:    "non-string field",
			content: `{"version": 1, "contacts": [{"name": "a", "phone": 5551111, "email": "", "address": ""}]}`,
			wantErr: ErrInvalidDocument,
		},
		{
			name:    "contacts not an array",
			content: `{"version": 1, "contacts": {"name": "a"}}`,
			wantErr: ErrInvalidDocument,
		},
		{
			name:    "unknown top-level field",
			content: `{"version": 1, "contacts": [], "owner": "me"}`,
			wantErr: ErrInvalidDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given a populated book and a corrupt file
			path := filepath.Join(t.TempDir(), "contacts.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			b := NewBook(alice, bob)

			// When the file is loaded
			err := b.Load(path)

			// Then the failure is reported and the book is unchanged
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Load() error = %v, want %v", err, tt.wantErr)
			}
			if diff := cmp.Diff([]Contact{alice, bob}, b.List()); diff != "" {
				t.Errorf("List() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBook_EncodeFormat(t *testing.T) {
	var sb strings.Builder
	if err := NewBook(Contact{Name: "A"}).Encode(&sb); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	want := `{
  "version": 1,
  "contacts": [
    {
      "name": "A",
      "phone": "",
      "email": "",
      "address": ""
    }
  ]
}
`
	if diff := cmp.Diff(want, sb.String()); diff != "" {
		t.Errorf("Encode() mismatch (-want +got):\n%s", diff)
	}
}

func TestBook_EncodeEmptyWritesArray(t *testing.T) {
	var sb strings.Builder
	if err := NewBook().Encode(&sb); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !strings.Contains(sb.String(), `"contacts": []`) {
		t.Errorf("Encode() = %s, want an empty contacts array", sb.String())
	}
}

func TestBook_DecodeReplaces(t *testing.T) {
	// Given a book and a valid document in a reader
	b := NewBook(carol)
	doc := `{"version": 1, "contacts": [
		{"name": "Alice", "phone": "555-1111", "email": "a@x.com", "address": "1 Main St"},
		{"name": "Bob", "phone": "555-2222", "email": "b@x.com", "address": "2 Oak Ave"}
	]}`

	// When it is decoded
	if err := b.Decode(strings.NewReader(doc)); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	// Then the previous contents are fully replaced
	if diff := cmp.Diff([]Contact{alice, bob}, b.List()); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestBook_DecodeReadError(t *testing.T) {
	b := NewBook(alice)

	err := b.Decode(failingReader{})

	if err == nil || !strings.Contains(err.Error(), "disk on fire") {
		t.Errorf("Decode() error = %v, want read error", err)
	}
	if b.Len() != 1 {
		t.Errorf("Len() = %d, want 1", b.Len())
	}
}

func TestBook_ConcurrentMutationDuringSave(t *testing.T) {
	// Given a book being saved while other goroutines add contacts
	dir := t.TempDir()
	b := NewBook()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 25 {
				b.Add(Contact{Name: fmt.Sprintf("w%d-%d", i, j)})
			}
		}()
	}
	for i := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := b.Save(filepath.Join(dir, fmt.Sprintf("c%d.json", i))); err != nil {
				t.Errorf("Save() error = %v", err)
			}
		}()
	}
	wg.Wait()

	// Then every add lands and a final save round-trips
	if b.Len() != 200 {
		t.Fatalf("Len() = %d, want 200", b.Len())
	}
	path := filepath.Join(dir, "final.json")
	if err := b.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded := NewBook()
	if err := loaded.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(b.List(), loaded.List()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestContact_String(t *testing.T) {
	want := "Name: Alice, Phone Number: 555-1111, Email Address: a@x.com, Residential Address: 1 Main St"
	if got := alice.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
