// Package menudoc exports menu documents as paginated PDF files.
//
// Basic usage:
//
//	exp := menudoc.New(store).WithResolver(resolver)
//	artifact, err := exp.Export(ctx, "menu-id")
//	if err != nil {
//	    // err is an *ExportError with a readable Reason
//	}
//	if len(artifact.Warnings) > 0 {
//	    log.Println("Warnings:", menudoc.FormatWarnings(artifact.Warnings))
//	}
//
// With options:
//
//	artifact, err := menudoc.New(store).
//	    WithResolver(resolver).
//	    Geometry(layout.LetterGeometry()).
//	    ImageTimeout(2 * time.Second).
//	    WithCache(cache.NewMemory(time.Hour, time.Minute), time.Hour).
//	    ExportDocument(ctx, doc)
//
// The exporter takes a snapshot of the document when an export starts,
// resolves every image it references, lays the snapshot out and writes the
// PDF. Images that cannot be loaded are drawn as placeholders and reported
// as warnings. For lower level control use the layout and pdf packages
// directly.
package menudoc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tsawler/menudoc/model"
)

// Warning codes
const (
	// WarnImageUnavailable means an image could not be resolved and a
	// placeholder was laid out instead
	WarnImageUnavailable = "image_unavailable"

	// WarnImageNotEmbedded means a resolved image could not be written to
	// the PDF and was replaced by a placeholder
	WarnImageNotEmbedded = "image_not_embedded"
)

// Warning describes a non-fatal problem found during an export
type Warning struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Ref       string `json:"ref,omitempty"`
	SectionID string `json:"sectionId,omitempty"`
}

func (w Warning) String() string {
	var b strings.Builder
	b.WriteString("[" + w.Code + "]")
	if w.SectionID != "" {
		b.WriteString(" section " + w.SectionID)
	}
	if w.Ref != "" {
		fmt.Fprintf(&b, " %q", w.Ref)
	}
	b.WriteString(": " + w.Message)
	return b.String()
}

// FormatWarnings renders warnings one per line
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}

// Artifact is a finished export
type Artifact struct {
	Bytes    []byte
	Filename string
	Pages    int
	Warnings []Warning
	Cached   bool // served from the export cache
}

// Filename returns the download name for doc: its name with runs of
// whitespace replaced by underscores, plus ".pdf". Blank names give
// "menu.pdf".
func Filename(doc *model.Document) string {
	if doc == nil {
		return "menu.pdf"
	}
	name := strings.Join(strings.Fields(doc.Name), "_")
	if name == "" {
		return "menu.pdf"
	}
	return name + ".pdf"
}

// ErrNotShareable is returned by ShareURL for documents that are not
// published
var ErrNotShareable = errors.New("document is not published")

// ShareURL returns the public read-only address of a published document:
// baseURL followed by /menu/<id>.
func ShareURL(baseURL string, doc *model.Document) (string, error) {
	if doc == nil || doc.ID == "" {
		return "", fmt.Errorf("share: document has no id")
	}
	if doc.Status != model.StatusPublished {
		return "", fmt.Errorf("share %s: %w", doc.ID, ErrNotShareable)
	}
	if strings.TrimSpace(baseURL) == "" {
		return "", fmt.Errorf("share: no base url configured")
	}
	return strings.TrimRight(baseURL, "/") + "/menu/" + doc.ID, nil
}

// Must is a helper that wraps a call returning (T, error) and panics if
// the error is non-nil. It is intended for scripts and tests.
//
//	artifact := menudoc.Must(exp.ExportDocument(ctx, doc))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
