package edit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/tsawler/menudoc/model"
)

// MaxSpacerHeight bounds spacer heights, in points
const MaxSpacerHeight = model.MaxSpacerHeight

// Patch replaces selected fields of one section kind. Nil fields are left
// unchanged. Each kind has exactly one patch type.
type Patch interface {
	Kind() model.Kind
	validate(v *model.ValidationError)
	apply(s model.Section)
}

// HeadingPatch updates a heading section
type HeadingPatch struct {
	Title *string `json:"title"`
}

// RichTextPatch updates a rich text section
type RichTextPatch struct {
	Title *string `json:"title"`
	HTML  *string `json:"html"`
}

// ItemGroupPatch updates an item group's title. Items change through the
// item operations.
type ItemGroupPatch struct {
	Title *string `json:"title"`
}

// ImagePatch updates an image section
type ImagePatch struct {
	Title    *string `json:"title"`
	ImageRef *string `json:"imageRef"`
	Caption  *string `json:"caption"`
}

// ListPatch updates a list section. Blank bullets are dropped.
type ListPatch struct {
	Title *string   `json:"title"`
	Items *[]string `json:"items"`
}

// DividerPatch updates a divider's title
type DividerPatch struct {
	Title *string `json:"title"`
}

// SpacerPatch updates a spacer section
type SpacerPatch struct {
	Title  *string  `json:"title"`
	Height *float64 `json:"height"`
}

// VideoPatch updates a video section
type VideoPatch struct {
	Title    *string `json:"title"`
	VideoRef *string `json:"videoRef"`
	Caption  *string `json:"caption"`
}

// GalleryPatch updates a gallery's title. Images change through the
// gallery operations.
type GalleryPatch struct {
	Title *string `json:"title"`
}

// FAQPatch updates a FAQ block's title. Entries change through the FAQ
// operations.
type FAQPatch struct {
	Title *string `json:"title"`
}

func (HeadingPatch) Kind() model.Kind   { return model.KindHeading }
func (RichTextPatch) Kind() model.Kind  { return model.KindRichText }
func (ItemGroupPatch) Kind() model.Kind { return model.KindItemGroup }
func (ImagePatch) Kind() model.Kind     { return model.KindImage }
func (ListPatch) Kind() model.Kind      { return model.KindList }
func (DividerPatch) Kind() model.Kind   { return model.KindDivider }
func (SpacerPatch) Kind() model.Kind    { return model.KindSpacer }
func (VideoPatch) Kind() model.Kind     { return model.KindVideo }
func (GalleryPatch) Kind() model.Kind   { return model.KindGallery }
func (FAQPatch) Kind() model.Kind       { return model.KindFAQ }

func (p HeadingPatch) validate(v *model.ValidationError) {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		v.Add("title", "heading title must not be empty")
	}
}

func (RichTextPatch) validate(*model.ValidationError)  {}
func (ItemGroupPatch) validate(*model.ValidationError) {}
func (ImagePatch) validate(*model.ValidationError)     {}
func (DividerPatch) validate(*model.ValidationError)   {}
func (VideoPatch) validate(*model.ValidationError)     {}
func (GalleryPatch) validate(*model.ValidationError)   {}
func (FAQPatch) validate(*model.ValidationError)       {}

func (p ListPatch) validate(v *model.ValidationError) {
	if p.Items != nil && len(cleanList(*p.Items)) == 0 {
		v.Add("items", "list needs at least one non-blank item")
	}
}

func (p SpacerPatch) validate(v *model.ValidationError) {
	if p.Height == nil {
		return
	}
	h := *p.Height
	switch {
	case math.IsNaN(h) || math.IsInf(h, 0):
		v.Add("height", "height must be a number")
	case h < 0:
		v.Add("height", "height must not be negative")
	case h > MaxSpacerHeight:
		v.Add("height", "height must be at most %g", MaxSpacerHeight)
	}
}

func setTitle(s model.Section, title *string) {
	if title != nil {
		s.Header().Title = *title
	}
}

func (p HeadingPatch) apply(s model.Section)   { setTitle(s, p.Title) }
func (p ItemGroupPatch) apply(s model.Section) { setTitle(s, p.Title) }
func (p DividerPatch) apply(s model.Section)   { setTitle(s, p.Title) }
func (p GalleryPatch) apply(s model.Section)   { setTitle(s, p.Title) }
func (p FAQPatch) apply(s model.Section)       { setTitle(s, p.Title) }

func (p RichTextPatch) apply(s model.Section) {
	setTitle(s, p.Title)
	if p.HTML != nil {
		s.(*model.RichText).HTML = *p.HTML
	}
}

func (p ImagePatch) apply(s model.Section) {
	setTitle(s, p.Title)
	img := s.(*model.Image)
	if p.ImageRef != nil {
		img.ImageRef = *p.ImageRef
	}
	if p.Caption != nil {
		img.Caption = *p.Caption
	}
}

func (p ListPatch) apply(s model.Section) {
	setTitle(s, p.Title)
	if p.Items != nil {
		s.(*model.List).Items = cleanList(*p.Items)
	}
}

func (p SpacerPatch) apply(s model.Section) {
	setTitle(s, p.Title)
	if p.Height != nil {
		s.(*model.Spacer).Height = *p.Height
	}
}

func (p VideoPatch) apply(s model.Section) {
	setTitle(s, p.Title)
	vid := s.(*model.Video)
	if p.VideoRef != nil {
		vid.VideoRef = *p.VideoRef
	}
	if p.Caption != nil {
		vid.Caption = *p.Caption
	}
}

// cleanList trims bullets and drops blank ones
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if t := strings.TrimSpace(it); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// SplitList splits editor input on ';' or newlines into bullets
func SplitList(s string) []string {
	return cleanList(strings.FieldsFunc(s, func(r rune) bool {
		return r == ';' || r == '\n'
	}))
}

// emptyPatch returns the zero patch for kind
func emptyPatch(kind model.Kind) Patch {
	switch kind {
	case model.KindHeading:
		return &HeadingPatch{}
	case model.KindRichText:
		return &RichTextPatch{}
	case model.KindItemGroup:
		return &ItemGroupPatch{}
	case model.KindImage:
		return &ImagePatch{}
	case model.KindList:
		return &ListPatch{}
	case model.KindDivider:
		return &DividerPatch{}
	case model.KindSpacer:
		return &SpacerPatch{}
	case model.KindVideo:
		return &VideoPatch{}
	case model.KindGallery:
		return &GalleryPatch{}
	case model.KindFAQ:
		return &FAQPatch{}
	}
	return nil
}

// patchFields lists the JSON fields each kind's patch accepts
var patchFields = map[model.Kind][]string{
	model.KindHeading:   {"title"},
	model.KindRichText:  {"title", "html"},
	model.KindItemGroup: {"title"},
	model.KindImage:     {"title", "imageRef", "caption"},
	model.KindList:      {"title", "items"},
	model.KindDivider:   {"title"},
	model.KindSpacer:    {"title", "height"},
	model.KindVideo:     {"title", "videoRef", "caption"},
	model.KindGallery:   {"title"},
	model.KindFAQ:       {"title"},
}

// ParsePatch decodes a JSON object of field changes for a section of kind.
// Every field that does not belong to kind, or does not decode, is reported
// in the returned *model.ValidationError.
func ParsePatch(kind model.Kind, data []byte) (Patch, error) {
	allowed, ok := patchFields[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("patch must be a JSON object: %w", err)
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var v model.ValidationError
	for _, k := range keys {
		if !contains(allowed, k) {
			v.Add(k, "field does not apply to %s sections", kind)
		}
	}

	patch := emptyPatch(kind)
	if len(v.Fields) == 0 {
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(patch); err != nil {
			v.Add("patch", "%v", err)
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	// return the value form so callers can type-switch on HeadingPatch etc.
	return deref(patch), nil
}

func deref(p Patch) Patch {
	switch v := p.(type) {
	case *HeadingPatch:
		return *v
	case *RichTextPatch:
		return *v
	case *ItemGroupPatch:
		return *v
	case *ImagePatch:
		return *v
	case *ListPatch:
		return *v
	case *DividerPatch:
		return *v
	case *SpacerPatch:
		return *v
	case *VideoPatch:
		return *v
	case *GalleryPatch:
		return *v
	case *FAQPatch:
		return *v
	}
	return p
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
