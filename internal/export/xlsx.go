// Package export writes the address book to spreadsheet files.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/smileynet/contacts/internal/atomicfile"
	"github.com/smileynet/contacts/internal/contact"
)

// SheetName is the name of the worksheet holding the contacts.
const SheetName = "Contacts"

// Header lists the column titles in field order.
var Header = []string{"Name", "Phone Number", "Email Address", "Residential Address"}

// XLSX writes contacts as a single-sheet workbook to w, one row per contact
// in the given order below a bold header row.
func XLSX(w io.Writer, contacts []contact.Contact) error {
	f := excelize.NewFile()
	defer f.Close()

	// A new workbook starts with "Sheet1"; rename it rather than add a second sheet.
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("export: naming sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("export: creating header style: %w", err)
	}

	if err := writeRow(f, 1, Header); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", "D1", bold); err != nil {
		return fmt.Errorf("export: styling header: %w", err)
	}

	for i, c := range contacts {
		if err := writeRow(f, i+2, []string{c.Name, c.Phone, c.Email, c.Address}); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(SheetName, "A", "D", 24); err != nil {
		return fmt.Errorf("export: sizing columns: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export: writing workbook: %w", err)
	}
	return nil
}

// WriteFile exports contacts to a workbook at path. The workbook replaces
// path only once it is fully written; on failure an existing file is kept.
func WriteFile(path string, contacts []contact.Contact) error {
	err := atomicfile.Write(path, func(w io.Writer) error {
		return XLSX(w, contacts)
	})
	if err != nil {
		return fmt.Errorf("export: writing %s: %w", path, err)
	}
	return nil
}

func writeRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("export: row %d: %w", row, err)
	}
	vals := make([]any, len(values))
	for i, v := range values {
		vals[i] = v
	}
	if err := f.SetSheetRow(SheetName, cell, &vals); err != nil {
		return fmt.Errorf("export: row %d: %w", row, err)
	}
	return nil
}
