package model

import "fmt"

// Kind discriminates the section variants
type Kind int

const (
	KindUnknown Kind = iota
	KindHeading
	KindRichText
	KindItemGroup
	KindImage
	KindList
	KindDivider
	KindSpacer
	KindVideo
	KindGallery
	KindFAQ
)

var kindNames = [...]string{
	KindUnknown:   "unknown",
	KindHeading:   "heading",
	KindRichText:  "richText",
	KindItemGroup: "itemGroup",
	KindImage:     "image",
	KindList:      "list",
	KindDivider:   "divider",
	KindSpacer:    "spacer",
	KindVideo:     "video",
	KindGallery:   "gallery",
	KindFAQ:       "faq",
}

// Kinds lists every concrete section kind in declaration order
func Kinds() []Kind {
	return []Kind{
		KindHeading, KindRichText, KindItemGroup, KindImage, KindList,
		KindDivider, KindSpacer, KindVideo, KindGallery, KindFAQ,
	}
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindUnknown]
	}
	return kindNames[k]
}

// ParseKind converts a wire tag into a Kind
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if kindNames[k] == s {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown section kind %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (k Kind) MarshalText() ([]byte, error) {
	if k == KindUnknown || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("cannot encode section kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Section is one ordered block of document content. The concrete type
// determines the kind; see the package documentation for the variants.
type Section interface {
	Kind() Kind
	Header() *SectionHeader
	clone() Section
}

// SectionHeader holds the fields every section kind shares
type SectionHeader struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
	Title string `json:"title,omitempty"`
}

// Header returns the shared fields. It is promoted to every variant.
func (h *SectionHeader) Header() *SectionHeader { return h }

// Heading is a section title
type Heading struct {
	SectionHeader
}

// RichText is a block of HTML text. Only the text content is exported.
type RichText struct {
	SectionHeader
	HTML string `json:"html"`
}

// ItemGroup holds priced items
type ItemGroup struct {
	SectionHeader
	Items []Item `json:"items"`
}

// Image is a single image with an optional caption
type Image struct {
	SectionHeader
	ImageRef string `json:"imageRef"`
	Caption  string `json:"caption,omitempty"`
}

// List is a bulleted list
type List struct {
	SectionHeader
	Items []string `json:"items"`
}

// Divider is a horizontal rule
type Divider struct {
	SectionHeader
}

// Spacer is empty vertical space
type Spacer struct {
	SectionHeader
	Height float64 `json:"height"`
}

// Video references an external video. Exports render the title and caption.
type Video struct {
	SectionHeader
	VideoRef string `json:"videoRef"`
	Caption  string `json:"caption,omitempty"`
}

// Gallery holds ordered images
type Gallery struct {
	SectionHeader
	Images []GalleryImage `json:"images"`
}

// FAQ holds ordered question/answer pairs
type FAQ struct {
	SectionHeader
	Entries []FaqEntry `json:"entries"`
}

func (s *Heading) Kind() Kind   { return KindHeading }
func (s *RichText) Kind() Kind  { return KindRichText }
func (s *ItemGroup) Kind() Kind { return KindItemGroup }
func (s *Image) Kind() Kind     { return KindImage }
func (s *List) Kind() Kind      { return KindList }
func (s *Divider) Kind() Kind   { return KindDivider }
func (s *Spacer) Kind() Kind    { return KindSpacer }
func (s *Video) Kind() Kind     { return KindVideo }
func (s *Gallery) Kind() Kind   { return KindGallery }
func (s *FAQ) Kind() Kind       { return KindFAQ }

func (s *Heading) clone() Section  { c := *s; return &c }
func (s *RichText) clone() Section { c := *s; return &c }
func (s *Image) clone() Section    { c := *s; return &c }
func (s *Divider) clone() Section  { c := *s; return &c }
func (s *Spacer) clone() Section   { c := *s; return &c }
func (s *Video) clone() Section    { c := *s; return &c }

func (s *ItemGroup) clone() Section {
	c := *s
	c.Items = make([]Item, len(s.Items))
	for i, item := range s.Items {
		c.Items[i] = item.Clone()
	}
	return &c
}

func (s *List) clone() Section {
	c := *s
	c.Items = append(make([]string, 0, len(s.Items)), s.Items...)
	return &c
}

func (s *Gallery) clone() Section {
	c := *s
	c.Images = append(make([]GalleryImage, 0, len(s.Images)), s.Images...)
	return &c
}

func (s *FAQ) clone() Section {
	c := *s
	c.Entries = append(make([]FaqEntry, 0, len(s.Entries)), s.Entries...)
	return &c
}

// CloneSection returns a deep copy of s
func CloneSection(s Section) Section {
	if s == nil {
		return nil
	}
	return s.clone()
}

// New returns a zero-valued section of the given kind, or nil for an
// unknown kind.
func New(kind Kind) Section {
	switch kind {
	case KindHeading:
		return &Heading{}
	case KindRichText:
		return &RichText{}
	case KindItemGroup:
		return &ItemGroup{Items: make([]Item, 0)}
	case KindImage:
		return &Image{}
	case KindList:
		return &List{Items: make([]string, 0)}
	case KindDivider:
		return &Divider{}
	case KindSpacer:
		return &Spacer{}
	case KindVideo:
		return &Video{}
	case KindGallery:
		return &Gallery{Images: make([]GalleryImage, 0)}
	case KindFAQ:
		return &FAQ{Entries: make([]FaqEntry, 0)}
	}
	return nil
}
