// Package contact implements the address book: an ordered list of contacts
// with name lookup and whole-file persistence.
package contact

import "fmt"

// Contact is a single address book entry. It is treated as an immutable
// value; the Book stores and returns copies.
type Contact struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// String formats the contact with labelled fields.
func (c Contact) String() string {
	return fmt.Sprintf("Name: %s, Phone Number: %s, Email Address: %s, Residential Address: %s",
		c.Name, c.Phone, c.Email, c.Address)
}
