package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// documentWire is the JSON shape of a Document
type documentWire struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	ShortDescription string            `json:"shortDescription,omitempty"`
	Category         string            `json:"category,omitempty"`
	Status           Status            `json:"status"`
	Currency         string            `json:"currency"`
	LogoRef          string            `json:"logoRef,omitempty"`
	FooterNote       string            `json:"footerNote,omitempty"`
	UpdatedAt        *time.Time        `json:"updatedAt,omitempty"`
	Sections         []json.RawMessage `json:"sections"`
}

type kindTag struct {
	Kind Kind `json:"kind"`
}

// MarshalJSON encodes the document with kind-tagged sections
func (d *Document) MarshalJSON() ([]byte, error) {
	w := documentWire{
		ID:               d.ID,
		Name:             d.Name,
		ShortDescription: d.ShortDescription,
		Category:         d.Category,
		Status:           d.Status,
		Currency:         d.Currency,
		LogoRef:          d.LogoRef,
		FooterNote:       d.FooterNote,
		Sections:         make([]json.RawMessage, len(d.Sections)),
	}
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		w.UpdatedAt = &t
	}
	for i, s := range d.Sections {
		raw, err := MarshalSection(s)
		if err != nil {
			return nil, fmt.Errorf("section %d: %w", i, err)
		}
		w.Sections[i] = raw
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a document, rejecting sections with unknown kinds or
// with fields that belong to another kind.
func (d *Document) UnmarshalJSON(data []byte) error {
	var w documentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	out := Document{
		ID:               w.ID,
		Name:             w.Name,
		ShortDescription: w.ShortDescription,
		Category:         w.Category,
		Status:           w.Status,
		Currency:         w.Currency,
		LogoRef:          w.LogoRef,
		FooterNote:       w.FooterNote,
		Sections:         make([]Section, len(w.Sections)),
	}
	if w.UpdatedAt != nil {
		out.UpdatedAt = *w.UpdatedAt
	}
	for i, raw := range w.Sections {
		s, err := UnmarshalSection(raw)
		if err != nil {
			return fmt.Errorf("section %d: %w", i, err)
		}
		out.Sections[i] = s
	}

	*d = out
	return nil
}

// MarshalSection encodes one section with its "kind" tag first
func MarshalSection(s Section) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("nil section")
	}
	return json.Marshal(tagged(s))
}

// UnmarshalSection decodes one kind-tagged section
func UnmarshalSection(raw []byte) (Section, error) {
	var tag kindTag
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, err
	}
	if tag.Kind == KindUnknown {
		return nil, fmt.Errorf("missing section kind")
	}

	s := New(tag.Kind)
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(tagged(s)); err != nil {
		return nil, fmt.Errorf("%s section: %w", tag.Kind, err)
	}
	return s, nil
}

// tagged wraps a section so the kind tag and the variant fields share one
// JSON object.
func tagged(s Section) interface{} {
	tag := kindTag{Kind: s.Kind()}
	switch v := s.(type) {
	case *Heading:
		return &struct {
			kindTag
			*Heading
		}{tag, v}
	case *RichText:
		return &struct {
			kindTag
			*RichText
		}{tag, v}
	case *ItemGroup:
		return &struct {
			kindTag
			*ItemGroup
		}{tag, v}
	case *Image:
		return &struct {
			kindTag
			*Image
		}{tag, v}
	case *List:
		return &struct {
			kindTag
			*List
		}{tag, v}
	case *Divider:
		return &struct {
			kindTag
			*Divider
		}{tag, v}
	case *Spacer:
		return &struct {
			kindTag
			*Spacer
		}{tag, v}
	case *Video:
		return &struct {
			kindTag
			*Video
		}{tag, v}
	case *Gallery:
		return &struct {
			kindTag
			*Gallery
		}{tag, v}
	case *FAQ:
		return &struct {
			kindTag
			*FAQ
		}{tag, v}
	}
	panic(fmt.Sprintf("model: unhandled section type %T", s))
}
