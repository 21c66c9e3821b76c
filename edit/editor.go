package edit

import (
	"errors"

	"github.com/google/uuid"
	"github.com/tsawler/menudoc/model"
)

var (
	// ErrIndexRange is returned when a move index is outside the list
	ErrIndexRange = errors.New("index out of range")

	// ErrCancelled is returned when a confirmation gate declines a command
	ErrCancelled = errors.New("cancelled")

	// ErrUnknownKind is returned when adding a section of an unknown kind
	ErrUnknownKind = errors.New("unknown section kind")
)

// IDFunc generates opaque, globally unique ids
type IDFunc func() string

// Editor applies mutations to documents. It holds no document state; the
// document is always passed in and returned, and the caller owns it.
type Editor struct {
	newID IDFunc
}

// Option configures an Editor
type Option func(*Editor)

// WithIDs replaces the id generator, e.g. with a deterministic sequence in tests
func WithIDs(f IDFunc) Option {
	return func(e *Editor) {
		if f != nil {
			e.newID = f
		}
	}
}

// New creates an Editor that assigns random UUIDs
func New(opts ...Option) *Editor {
	e := &Editor{newID: uuid.NewString}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// String returns a pointer to s, for building patches
func String(s string) *string { return &s }

// Float returns a pointer to f, for building patches
func Float(f float64) *float64 { return &f }

// Bool returns a pointer to b, for building patches
func Bool(b bool) *bool { return &b }

// Strings returns a pointer to a copy of s, for building patches
func Strings(s ...string) *[]string {
	c := append(make([]string, 0, len(s)), s...)
	return &c
}

// renumberSections rewrites every section's order to its index
func renumberSections(doc *model.Document) {
	for i, s := range doc.Sections {
		s.Header().Order = i
	}
}

func renumberItems(g *model.ItemGroup) {
	for i := range g.Items {
		g.Items[i].Order = i
	}
}

func renumberImages(g *model.Gallery) {
	for i := range g.Images {
		g.Images[i].Order = i
	}
}

func renumberEntries(f *model.FAQ) {
	for i := range f.Entries {
		f.Entries[i].Order = i
	}
}
