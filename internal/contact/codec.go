package contact

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/xeipuuv/gojsonschema"
)

// FormatVersion is the document version written by Encode.
const FormatVersion = 1

var (
	// ErrInvalidDocument indicates the input is not a well-formed contact document.
	ErrInvalidDocument = errors.New("invalid contact document")

	// ErrUnsupportedVersion indicates a document written by an incompatible format version.
	ErrUnsupportedVersion = errors.New("unsupported document version")

	// ErrInvalidText indicates a field that is not valid UTF-8 and so cannot
	// be stored without altering it.
	ErrInvalidText = errors.New("field is not valid UTF-8")
)

//go:embed schema.json
var schemaJSON []byte

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
})

// document is the on-disk representation of a Book.
type document struct {
	Version  int       `json:"version"`
	Contacts []Contact `json:"contacts"`
}

func encode(w io.Writer, contacts []Contact) error {
	if err := checkText(contacts); err != nil {
		return err
	}
	doc := document{Version: FormatVersion, Contacts: contacts}
	if doc.Contacts == nil {
		doc.Contacts = []Contact{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	return nil
}

// checkText reports the first field that JSON would rewrite. The encoder
// replaces invalid UTF-8 with U+FFFD, which would break the round trip.
func checkText(contacts []Contact) error {
	for i, c := range contacts {
		fields := [...]struct{ name, value string }{
			{"name", c.Name}, {"phone", c.Phone}, {"email", c.Email}, {"address", c.Address},
		}
		for _, f := range fields {
			if !utf8.ValidString(f.value) {
				return fmt.Errorf("%w: contact %d %s %q", ErrInvalidText, i+1, f.name, f.value)
			}
		}
	}
	return nil
}

// decode parses and validates a document. It returns the decoded contacts,
// never nil, or an error wrapping ErrInvalidDocument or ErrUnsupportedVersion.
func decode(data []byte) ([]Contact, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidDocument)
	}

	// Check the version first so documents from other format versions are
	// reported as such rather than as schema violations.
	var head struct {
		Version *int `json:"version"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if head.Version != nil && *head.Version != FormatVersion {
		return nil, fmt.Errorf("%w: %d (want %d)", ErrUnsupportedVersion, *head.Version, FormatVersion)
	}

	if err := validate(data); err != nil {
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if doc.Contacts == nil {
		doc.Contacts = []Contact{}
	}
	return doc.Contacts, nil
}

func validate(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compiling document schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(msgs, "; "))
}
