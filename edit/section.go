package edit

import (
	"fmt"

	"github.com/tsawler/menudoc/model"
)

// Placeholder content for new sections
const (
	DefaultHeadingTitle   = "New section heading"
	DefaultRichTextHTML   = "<p>Click to edit this text block...</p>"
	DefaultItemGroupTitle = "New item section"
	DefaultSpacerHeight   = 24.0
)

// DefaultListItems are the bullets a new list starts with
var DefaultListItems = []string{"Item 1", "Item 2"}

// NewSection builds a section of kind with a fresh id and placeholder
// content, without adding it to any document.
func (e *Editor) NewSection(kind model.Kind) (model.Section, error) {
	s := model.New(kind)
	if s == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
	s.Header().ID = e.newID()

	switch v := s.(type) {
	case *model.Heading:
		v.Title = DefaultHeadingTitle
	case *model.RichText:
		v.HTML = DefaultRichTextHTML
	case *model.ItemGroup:
		v.Title = DefaultItemGroupTitle
	case *model.List:
		v.Items = append(v.Items, DefaultListItems...)
	case *model.Spacer:
		v.Height = DefaultSpacerHeight
	}
	return s, nil
}

// AddSection appends a new section of kind with order = len(sections)
func (e *Editor) AddSection(doc *model.Document, kind model.Kind) (*model.Document, model.Section, error) {
	s, err := e.NewSection(kind)
	if err != nil {
		return doc, nil, err
	}
	out := doc.Clone()
	s.Header().Order = len(out.Sections)
	out.Sections = append(out.Sections, s)
	return out, s, nil
}

// InsertSection adds a new section of kind at index and renumbers the
// sections after it.
func (e *Editor) InsertSection(doc *model.Document, kind model.Kind, index int) (*model.Document, model.Section, error) {
	if index < 0 || index > len(doc.Sections) {
		return doc, nil, fmt.Errorf("%w: insert at %d, length %d", ErrIndexRange, index, len(doc.Sections))
	}
	out, s, err := e.AddSection(doc, kind)
	if err != nil {
		return doc, nil, err
	}
	out, err = MoveSection(out, len(out.Sections)-1, index)
	if err != nil {
		return doc, nil, err
	}
	added, _ := out.SectionByID(s.Header().ID)
	return out, added, nil
}

// UpdateSection applies patch to the section with id. A patch for another
// kind is rejected with model.ErrKindMismatch; invalid field values are
// rejected with a *model.ValidationError.
func (e *Editor) UpdateSection(doc *model.Document, id string, patch Patch) (*model.Document, error) {
	return UpdateSection(doc, id, patch)
}

// UpdateSection is the Editor-free form of Editor.UpdateSection
func UpdateSection(doc *model.Document, id string, patch Patch) (*model.Document, error) {
	if patch == nil {
		return doc, fmt.Errorf("nil patch")
	}
	out := doc.Clone()
	s, _ := out.SectionByID(id)
	if s == nil {
		return doc, fmt.Errorf("section %q: %w", id, model.ErrNotFound)
	}
	if s.Kind() != patch.Kind() {
		return doc, fmt.Errorf("%w: %s patch for %s section %q", model.ErrKindMismatch, patch.Kind(), s.Kind(), id)
	}

	var v model.ValidationError
	patch.validate(&v)
	if err := v.Err(); err != nil {
		return doc, err
	}
	patch.apply(s)
	return out, nil
}

// DeleteSection removes the section with id and closes the order gap
func DeleteSection(doc *model.Document, id string) (*model.Document, error) {
	_, idx := doc.SectionByID(id)
	if idx < 0 {
		return doc, fmt.Errorf("section %q: %w", id, model.ErrNotFound)
	}
	out := doc.Clone()
	out.Sections = append(out.Sections[:idx], out.Sections[idx+1:]...)
	renumberSections(out)
	return out, nil
}

// DuplicateSection inserts a deep copy of the section with id directly after
// it. The copy and all of its children receive fresh ids.
func (e *Editor) DuplicateSection(doc *model.Document, id string) (*model.Document, model.Section, error) {
	src, idx := doc.SectionByID(id)
	if idx < 0 {
		return doc, nil, fmt.Errorf("section %q: %w", id, model.ErrNotFound)
	}

	dup := model.CloneSection(src)
	dup.Header().ID = e.newID()
	switch v := dup.(type) {
	case *model.ItemGroup:
		for i := range v.Items {
			v.Items[i].ID = e.newID()
		}
	case *model.Gallery:
		for i := range v.Images {
			v.Images[i].ID = e.newID()
		}
	case *model.FAQ:
		for i := range v.Entries {
			v.Entries[i].ID = e.newID()
		}
	}

	out := doc.Clone()
	sections := make([]model.Section, 0, len(out.Sections)+1)
	sections = append(sections, out.Sections[:idx+1]...)
	sections = append(sections, dup)
	sections = append(sections, out.Sections[idx+1:]...)
	out.Sections = sections
	renumberSections(out)
	return out, dup, nil
}

func itemGroup(doc *model.Document, sectionID string) (*model.ItemGroup, error) {
	s, _ := doc.SectionByID(sectionID)
	if s == nil {
		return nil, fmt.Errorf("section %q: %w", sectionID, model.ErrNotFound)
	}
	g, ok := s.(*model.ItemGroup)
	if !ok {
		return nil, fmt.Errorf("%w: section %q is %s, not itemGroup", model.ErrKindMismatch, sectionID, s.Kind())
	}
	return g, nil
}

func gallery(doc *model.Document, sectionID string) (*model.Gallery, error) {
	s, _ := doc.SectionByID(sectionID)
	if s == nil {
		return nil, fmt.Errorf("section %q: %w", sectionID, model.ErrNotFound)
	}
	g, ok := s.(*model.Gallery)
	if !ok {
		return nil, fmt.Errorf("%w: section %q is %s, not gallery", model.ErrKindMismatch, sectionID, s.Kind())
	}
	return g, nil
}

func faq(doc *model.Document, sectionID string) (*model.FAQ, error) {
	s, _ := doc.SectionByID(sectionID)
	if s == nil {
		return nil, fmt.Errorf("section %q: %w", sectionID, model.ErrNotFound)
	}
	f, ok := s.(*model.FAQ)
	if !ok {
		return nil, fmt.Errorf("%w: section %q is %s, not faq", model.ErrKindMismatch, sectionID, s.Kind())
	}
	return f, nil
}
