package edit

import (
	"fmt"
	"strings"

	"github.com/tsawler/menudoc/model"
)

// GalleryImagePatch replaces selected fields of a gallery image
type GalleryImagePatch struct {
	ImageRef *string
	Caption  *string
}

// FaqEntryPatch replaces selected fields of a FAQ entry
type FaqEntryPatch struct {
	Question *string
	Answer   *string
}

// AddGalleryImage appends an image to the gallery with sectionID
func (e *Editor) AddGalleryImage(doc *model.Document, sectionID, imageRef, caption string) (*model.Document, model.GalleryImage, error) {
	if strings.TrimSpace(imageRef) == "" {
		var v model.ValidationError
		v.Add("imageRef", "image reference is required")
		return doc, model.GalleryImage{}, v.Err()
	}
	out := doc.Clone()
	g, err := gallery(out, sectionID)
	if err != nil {
		return doc, model.GalleryImage{}, err
	}
	img := model.GalleryImage{
		ID:       e.newID(),
		ImageRef: imageRef,
		Caption:  caption,
		Order:    len(g.Images),
	}
	g.Images = append(g.Images, img)
	return out, img, nil
}

// UpdateGalleryImage applies patch to one gallery image
func UpdateGalleryImage(doc *model.Document, sectionID, imageID string, patch GalleryImagePatch) (*model.Document, error) {
	if patch.ImageRef != nil && strings.TrimSpace(*patch.ImageRef) == "" {
		var v model.ValidationError
		v.Add("imageRef", "image reference is required")
		return doc, v.Err()
	}
	out := doc.Clone()
	g, err := gallery(out, sectionID)
	if err != nil {
		return doc, err
	}
	for i := range g.Images {
		if g.Images[i].ID != imageID {
			continue
		}
		if patch.ImageRef != nil {
			g.Images[i].ImageRef = *patch.ImageRef
		}
		if patch.Caption != nil {
			g.Images[i].Caption = *patch.Caption
		}
		return out, nil
	}
	return doc, fmt.Errorf("gallery image %q: %w", imageID, model.ErrNotFound)
}

// DeleteGalleryImage removes one image and renumbers the gallery
func DeleteGalleryImage(doc *model.Document, sectionID, imageID string) (*model.Document, error) {
	out := doc.Clone()
	g, err := gallery(out, sectionID)
	if err != nil {
		return doc, err
	}
	for i := range g.Images {
		if g.Images[i].ID == imageID {
			g.Images = append(g.Images[:i], g.Images[i+1:]...)
			renumberImages(g)
			return out, nil
		}
	}
	return doc, fmt.Errorf("gallery image %q: %w", imageID, model.ErrNotFound)
}

// AddFaqEntry appends a question to the FAQ block with sectionID
func (e *Editor) AddFaqEntry(doc *model.Document, sectionID, question, answer string) (*model.Document, model.FaqEntry, error) {
	if strings.TrimSpace(question) == "" {
		var v model.ValidationError
		v.Add("question", "question is required")
		return doc, model.FaqEntry{}, v.Err()
	}
	out := doc.Clone()
	f, err := faq(out, sectionID)
	if err != nil {
		return doc, model.FaqEntry{}, err
	}
	entry := model.FaqEntry{
		ID:       e.newID(),
		Question: strings.TrimSpace(question),
		Answer:   answer,
		Order:    len(f.Entries),
	}
	f.Entries = append(f.Entries, entry)
	return out, entry, nil
}

// UpdateFaqEntry applies patch to one FAQ entry
func UpdateFaqEntry(doc *model.Document, sectionID, entryID string, patch FaqEntryPatch) (*model.Document, error) {
	if patch.Question != nil && strings.TrimSpace(*patch.Question) == "" {
		var v model.ValidationError
		v.Add("question", "question is required")
		return doc, v.Err()
	}
	out := doc.Clone()
	f, err := faq(out, sectionID)
	if err != nil {
		return doc, err
	}
	for i := range f.Entries {
		if f.Entries[i].ID != entryID {
			continue
		}
		if patch.Question != nil {
			f.Entries[i].Question = strings.TrimSpace(*patch.Question)
		}
		if patch.Answer != nil {
			f.Entries[i].Answer = *patch.Answer
		}
		return out, nil
	}
	return doc, fmt.Errorf("faq entry %q: %w", entryID, model.ErrNotFound)
}

// DeleteFaqEntry removes one entry and renumbers the block
func DeleteFaqEntry(doc *model.Document, sectionID, entryID string) (*model.Document, error) {
	out := doc.Clone()
	f, err := faq(out, sectionID)
	if err != nil {
		return doc, err
	}
	for i := range f.Entries {
		if f.Entries[i].ID == entryID {
			f.Entries = append(f.Entries[:i], f.Entries[i+1:]...)
			renumberEntries(f)
			return out, nil
		}
	}
	return doc, fmt.Errorf("faq entry %q: %w", entryID, model.ErrNotFound)
}
