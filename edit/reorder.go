package edit

import (
	"fmt"

	"github.com/tsawler/menudoc/model"
)

// Move returns a copy of list with the element at from reinserted at to.
// Every other element keeps its relative order. Moving an element onto its
// own index returns an equal copy.
func Move[T any](list []T, from, to int) ([]T, error) {
	n := len(list)
	if from < 0 || from >= n {
		return nil, fmt.Errorf("%w: source %d, length %d", ErrIndexRange, from, n)
	}
	if to < 0 || to >= n {
		return nil, fmt.Errorf("%w: destination %d, length %d", ErrIndexRange, to, n)
	}

	out := make([]T, n)
	copy(out, list)
	if from == to {
		return out, nil
	}

	moved := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = moved
	return out, nil
}

// MoveSection moves the section at sourceIndex to destIndex and renumbers
// every section's order to its new position.
func MoveSection(doc *model.Document, sourceIndex, destIndex int) (*model.Document, error) {
	out := doc.Clone()
	sections, err := Move(out.Sections, sourceIndex, destIndex)
	if err != nil {
		return doc, err
	}
	out.Sections = sections
	renumberSections(out)
	return out, nil
}

// MoveItem reorders items within one item group
func MoveItem(doc *model.Document, sectionID string, sourceIndex, destIndex int) (*model.Document, error) {
	out := doc.Clone()
	g, err := itemGroup(out, sectionID)
	if err != nil {
		return doc, err
	}
	items, err := Move(g.Items, sourceIndex, destIndex)
	if err != nil {
		return doc, err
	}
	g.Items = items
	renumberItems(g)
	return out, nil
}

// MoveGalleryImage reorders images within one gallery
func MoveGalleryImage(doc *model.Document, sectionID string, sourceIndex, destIndex int) (*model.Document, error) {
	out := doc.Clone()
	g, err := gallery(out, sectionID)
	if err != nil {
		return doc, err
	}
	images, err := Move(g.Images, sourceIndex, destIndex)
	if err != nil {
		return doc, err
	}
	g.Images = images
	renumberImages(g)
	return out, nil
}

// MoveFaqEntry reorders entries within one FAQ block
func MoveFaqEntry(doc *model.Document, sectionID string, sourceIndex, destIndex int) (*model.Document, error) {
	out := doc.Clone()
	f, err := faq(out, sectionID)
	if err != nil {
		return doc, err
	}
	entries, err := Move(f.Entries, sourceIndex, destIndex)
	if err != nil {
		return doc, err
	}
	f.Entries = entries
	renumberEntries(f)
	return out, nil
}

// DragEvent is a thin adapter for drag-and-drop widgets. Destination is
// nil when the drop landed outside the list.
type DragEvent struct {
	Source      int
	Destination *int
}

// Indices returns the move indices for the event and whether the event
// should be applied at all.
func (e DragEvent) Indices() (from, to int, ok bool) {
	if e.Destination == nil {
		return 0, 0, false
	}
	return e.Source, *e.Destination, true
}
