package contact

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/smileynet/contacts/internal/atomicfile"
)

// Book owns an ordered sequence of contacts. Insertion order is preserved
// and duplicate names are allowed; lookups act on exact, case-sensitive
// name equality.
//
// All methods are safe for concurrent use. Save encodes under the lock and
// Load swaps the decoded sequence in one step, so neither observes or
// produces a half-applied state.
type Book struct {
	mu       sync.RWMutex
	contacts []Contact
}

// NewBook returns a Book holding contacts in the given order.
func NewBook(contacts ...Contact) *Book {
	return &Book{contacts: append([]Contact(nil), contacts...)}
}

// Add appends c to the end of the book.
func (b *Book) Add(c Contact) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.contacts = append(b.contacts, c)
}

// Remove deletes every contact whose name equals name and returns how many
// were removed. No match is not an error.
func (b *Book) Remove(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	kept := b.contacts[:0]
	for _, c := range b.contacts {
		if c.Name != name {
			kept = append(kept, c)
		}
	}
	removed := len(b.contacts) - len(kept)
	// Zero the tail so removed entries are not retained by the backing array.
	clear(b.contacts[len(kept):])
	b.contacts = kept
	return removed
}

// Search returns the first contact in insertion order named name.
// The boolean is false when no such contact exists.
func (b *Book) Search(name string) (Contact, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, c := range b.contacts {
		if c.Name == name {
			return c, true
		}
	}
	return Contact{}, false
}

// List returns a snapshot of all contacts in insertion order.
func (b *Book) List() []Contact {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Contact(nil), b.contacts...)
}

// Len returns the number of contacts.
func (b *Book) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.contacts)
}

// Encode writes the book as a versioned document to w.
func (b *Book) Encode(w io.Writer) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := encode(w, b.contacts); err != nil {
		return fmt.Errorf("contact: %w", err)
	}
	return nil
}

// Decode replaces the book's contents with the document read from r.
// On any error the book is left unchanged.
func (b *Book) Decode(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("contact: reading document: %w", err)
	}
	contacts, err := decode(data)
	if err != nil {
		return fmt.Errorf("contact: decoding: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.contacts = contacts
	return nil
}

// Save writes the whole book to path. The document is written to a
// temporary file in the same directory and renamed into place, so a failed
// save never leaves a partial file at path. An existing file keeps its
// permission bits.
func (b *Book) Save(path string) error {
	var buf bytes.Buffer
	b.mu.RLock()
	err := encode(&buf, b.contacts)
	b.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("contact: saving %s: %w", path, err)
	}

	err = atomicfile.Write(path, func(w io.Writer) error {
		_, err := w.Write(buf.Bytes())
		return err
	})
	if err != nil {
		return fmt.Errorf("contact: saving %s: %w", path, err)
	}
	return nil
}

// Load replaces the book's contents with the document at path.
// A missing file yields an error matching fs.ErrNotExist. On any error the
// book is left unchanged.
func (b *Book) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("contact: reading %s: %w", path, err)
	}
	contacts, err := decode(data)
	if err != nil {
		return fmt.Errorf("contact: loading %s: %w", path, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.contacts = contacts
	return nil
}
