package model

import (
	"fmt"
	"time"

	"golang.org/x/text/currency"
)

// Status is the publication state of a document
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusInactive  Status = "inactive"
)

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusInactive:
		return true
	}
	return false
}

// DefaultCurrency is the ISO 4217 code assigned to new documents
const DefaultCurrency = "BRL"

// Document is a menu: metadata plus an ordered list of sections.
type Document struct {
	ID               string
	Name             string
	ShortDescription string
	Category         string
	Status           Status
	Currency         string // ISO 4217 code
	LogoRef          string
	FooterNote       string
	UpdatedAt        time.Time // set by persistence, never by the edit package
	Sections         []Section
}

// NewDocument creates an empty draft document
func NewDocument(id, name string) *Document {
	return &Document{
		ID:       id,
		Name:     name,
		Status:   StatusDraft,
		Currency: DefaultCurrency,
		Sections: make([]Section, 0),
	}
}

// SectionCount returns the number of sections
func (d *Document) SectionCount() int {
	return len(d.Sections)
}

// SectionByID returns the section with the given id and its index, or
// (nil, -1) when no section matches.
func (d *Document) SectionByID(id string) (Section, int) {
	for i, s := range d.Sections {
		if s.Header().ID == id {
			return s, i
		}
	}
	return nil, -1
}

// ItemGroupByID returns the item group section with the given id
func (d *Document) ItemGroupByID(id string) (*ItemGroup, bool) {
	s, _ := d.SectionByID(id)
	g, ok := s.(*ItemGroup)
	return g, ok
}

// Clone returns a deep copy of the document. Exports lay out a clone so that
// later edits to the live document cannot race with them.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	c := *d
	c.Sections = make([]Section, len(d.Sections))
	for i, s := range d.Sections {
		c.Sections[i] = s.clone()
	}
	return &c
}

// ImageRefs returns every image reference layout may need, in document
// order and without duplicates: the logo, image sections, and gallery images.
func (d *Document) ImageRefs() []string {
	seen := make(map[string]bool)
	var refs []string
	add := func(ref string) {
		if ref == "" || seen[ref] {
			return
		}
		seen[ref] = true
		refs = append(refs, ref)
	}

	add(d.LogoRef)
	for _, s := range d.Sections {
		switch v := s.(type) {
		case *Image:
			add(v.ImageRef)
		case *Gallery:
			for _, img := range v.Images {
				add(img.ImageRef)
			}
		}
	}
	return refs
}

// ValidateCurrency checks that code is a known ISO 4217 currency code
func ValidateCurrency(code string) error {
	if _, err := currency.ParseISO(code); err != nil {
		return fmt.Errorf("unknown currency %q", code)
	}
	return nil
}

// CurrencySymbol returns the symbol printed in front of prices
func (d *Document) CurrencySymbol() string {
	switch d.Currency {
	case "USD":
		return "$"
	case "EUR":
		return "€"
	case "GBP":
		return "£"
	case "BRL", "":
		return "R$"
	}
	return d.Currency
}
