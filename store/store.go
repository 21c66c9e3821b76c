// Package store persists menu documents.
//
// Store is the contract the rest of the module depends on. Memory keeps
// documents in process, optionally backed by a JSON snapshot file; the
// postgres subpackage stores them in PostgreSQL.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tsawler/menudoc/model"
)

// ErrNotFound is returned for unknown document ids. It wraps
// model.ErrNotFound.
var ErrNotFound = fmt.Errorf("document %w", model.ErrNotFound)

// Store loads and saves whole documents. Implementations never retain
// the *model.Document values passed in or handed out.
type Store interface {
	Load(ctx context.Context, id string) (*model.Document, error)

	// Save inserts or replaces doc and returns the stored copy, with an id
	// assigned when doc.ID is empty and UpdatedAt set to the save time
	Save(ctx context.Context, doc *model.Document) (*model.Document, error)

	Delete(ctx context.Context, id string) error

	// List returns summaries most recently updated first. An empty status
	// matches every document.
	List(ctx context.Context, status model.Status) ([]Summary, error)
}

// Summary is the listing view of a document
type Summary struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Category  string       `json:"category,omitempty"`
	Status    model.Status `json:"status"`
	Sections  int          `json:"sections"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Summarize builds the Summary of doc
func Summarize(doc *model.Document) Summary {
	return Summary{
		ID:        doc.ID,
		Name:      doc.Name,
		Category:  doc.Category,
		Status:    doc.Status,
		Sections:  len(doc.Sections),
		UpdatedAt: doc.UpdatedAt,
	}
}

// Clock returns the current time
type Clock func() time.Time

// Prepare returns the copy of doc to store: doc is validated, cloned, given
// an id when it has none and stamped with now. Store implementations call
// it at the start of Save.
func Prepare(doc *model.Document, now time.Time) (*model.Document, error) {
	if doc == nil {
		return nil, fmt.Errorf("store: nil document")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	out := doc.Clone()
	if out.ID == "" {
		out.ID = uuid.NewString()
	}
	if out.Status == "" {
		out.Status = model.StatusDraft
	}
	if out.Currency == "" {
		out.Currency = model.DefaultCurrency
	}
	out.UpdatedAt = now.UTC().Truncate(time.Microsecond)
	return out, nil
}
