// Package models defines the patient record as it appears in the directory
// document.
package models

import (
	"strconv"
	"strings"
)

// Contact is one entry of a patient's contact list.
type Contact struct {
	Address string `json:"address"`
	Number  string `json:"number"`
	Email   string `json:"email"`
}

// Patient is one entry in the directory. Any field may be missing in the
// source document; zero values stand for "absent".
type Patient struct {
	ID           int       `json:"patient_id"`
	Name         string    `json:"patient_name"`
	Age          *int      `json:"age"`
	PhotoURL     string    `json:"photo_url"`
	Contacts     []Contact `json:"contact"`
	MedicalIssue string    `json:"medical_issue"`
}

// FirstContact returns the only contact entry the directory ever consults.
func (p Patient) FirstContact() (Contact, bool) {
	if len(p.Contacts) == 0 {
		return Contact{}, false
	}
	return p.Contacts[0], true
}

// AgeOrZero is the age used for comparisons and bucketing.
func (p Patient) AgeOrZero() int {
	if p.Age == nil {
		return 0
	}
	return *p.Age
}

// Email returns the first contact's email, or "".
func (p Patient) Email() string {
	c, _ := p.FirstContact()
	return c.Email
}

// Location is the trimmed text after the final comma of the first contact
// address. A record without an address has no location.
func (p Patient) Location() string {
	c, ok := p.FirstContact()
	if !ok || c.Address == "" {
		return ""
	}
	idx := strings.LastIndex(c.Address, ",")
	return strings.TrimSpace(c.Address[idx+1:])
}

// DisplayID is the record id, or a positional placeholder when the id is
// absent. start is the offset of the page, index the position within it.
func (p Patient) DisplayID(start, index int) string {
	if p.ID != 0 {
		return strconv.Itoa(p.ID)
	}
	return "ID-" + strconv.Itoa(start+index+1)
}

// HasPhoto reports whether PhotoURL is worth attempting at all.
func (p Patient) HasPhoto() bool {
	return p.PhotoURL != "" && !strings.EqualFold(p.PhotoURL, "null")
}
