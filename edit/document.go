package edit

import (
	"strings"

	"github.com/tsawler/menudoc/model"
)

// DocumentPatch replaces selected document metadata
type DocumentPatch struct {
	Name             *string
	ShortDescription *string
	Category         *string
	Currency         *string
	LogoRef          *string
	FooterNote       *string
}

func (p DocumentPatch) validate(v *model.ValidationError) {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		v.Add("name", "name is required")
	}
	if p.Currency != nil {
		if err := model.ValidateCurrency(*p.Currency); err != nil {
			v.Add("currency", "%v", err)
		}
	}
}

// UpdateDocument applies patch to the document metadata
func UpdateDocument(doc *model.Document, patch DocumentPatch) (*model.Document, error) {
	var v model.ValidationError
	patch.validate(&v)
	if err := v.Err(); err != nil {
		return doc, err
	}

	out := doc.Clone()
	if patch.Name != nil {
		out.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.ShortDescription != nil {
		out.ShortDescription = *patch.ShortDescription
	}
	if patch.Category != nil {
		out.Category = *patch.Category
	}
	if patch.Currency != nil {
		out.Currency = strings.ToUpper(strings.TrimSpace(*patch.Currency))
	}
	if patch.LogoRef != nil {
		out.LogoRef = *patch.LogoRef
	}
	if patch.FooterNote != nil {
		out.FooterNote = *patch.FooterNote
	}
	return out, nil
}

// SetStatus changes the publication state
func SetStatus(doc *model.Document, status model.Status) (*model.Document, error) {
	if !status.Valid() {
		var v model.ValidationError
		v.Add("status", "unknown status %q", status)
		return doc, v.Err()
	}
	out := doc.Clone()
	out.Status = status
	return out, nil
}

// Publish marks the document as published. A document without a name can
// not be published.
func Publish(doc *model.Document) (*model.Document, error) {
	if strings.TrimSpace(doc.Name) == "" {
		var v model.ValidationError
		v.Add("name", "name is required to publish")
		return doc, v.Err()
	}
	return SetStatus(doc, model.StatusPublished)
}
