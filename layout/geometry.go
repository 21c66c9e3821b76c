package layout

import (
	"errors"
	"fmt"
	"math"
)

// ErrGeometry is wrapped by every Geometry validation error
var ErrGeometry = errors.New("invalid geometry")

// FontSizes holds the font size of every text role, in points
type FontSizes struct {
	Title      float64 `json:"title"`
	Heading    float64 `json:"heading"`
	GroupTitle float64 `json:"groupTitle"`
	Item       float64 `json:"item"`
	Body       float64 `json:"body"`
	Secondary  float64 `json:"secondary"`
	Caption    float64 `json:"caption"`
}

// Geometry drives every layout decision. Lengths are in points.
type Geometry struct {
	PageWidth  float64   `json:"pageWidth"`
	PageHeight float64   `json:"pageHeight"`
	Margin     float64   `json:"margin"`
	LineHeight float64   `json:"lineHeight"`
	FontSizes  FontSizes `json:"fontSizes"`

	// SectionSpacing separates consecutive sections on the same page
	SectionSpacing float64 `json:"sectionSpacing"`

	// ImageMaxWidth is the widest an image may be, as a fraction of the
	// content width
	ImageMaxWidth float64 `json:"imageMaxWidth"`

	// LogoMaxWidth and LogoHeight bound the document logo
	LogoMaxWidth float64 `json:"logoMaxWidth"`
	LogoHeight   float64 `json:"logoHeight"`

	PlaceholderHeight float64 `json:"placeholderHeight"`
	DividerHeight     float64 `json:"dividerHeight"`

	// Indent is the left inset of item and list text
	Indent float64 `json:"indent"`
}

const mm = 72 / 25.4

// DefaultGeometry returns an A4 portrait page with 15mm margins
func DefaultGeometry() Geometry {
	return Geometry{
		PageWidth:  595.28,
		PageHeight: 841.89,
		Margin:     15 * mm,
		LineHeight: 6 * mm,
		FontSizes: FontSizes{
			Title:      18,
			Heading:    14,
			GroupTitle: 12,
			Item:       11,
			Body:       10,
			Secondary:  9,
			Caption:    8,
		},
		SectionSpacing:    3 * mm,
		ImageMaxWidth:     0.8,
		LogoMaxWidth:      0.3,
		LogoHeight:        25 * mm,
		PlaceholderHeight: 40,
		DividerHeight:     10,
		Indent:            5 * mm,
	}
}

// LetterGeometry returns a US Letter portrait page with default styling
func LetterGeometry() Geometry {
	g := DefaultGeometry()
	g.PageWidth = 612
	g.PageHeight = 792
	return g
}

// ContentWidth is the page width inside the margins
func (g Geometry) ContentWidth() float64 {
	return g.PageWidth - 2*g.Margin
}

// ContentHeight is the page height inside the margins
func (g Geometry) ContentHeight() float64 {
	return g.PageHeight - 2*g.Margin
}

// Bottom is the lowest y content may reach
func (g Geometry) Bottom() float64 {
	return g.PageHeight - g.Margin
}

// Advance is the vertical space one line of text at size occupies
func (g Geometry) Advance(size float64) float64 {
	return math.Max(g.LineHeight, size*1.2)
}

// Validate checks that the geometry leaves room for content
func (g Geometry) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"pageWidth", g.PageWidth}, {"pageHeight", g.PageHeight}, {"margin", g.Margin},
		{"lineHeight", g.LineHeight}, {"sectionSpacing", g.SectionSpacing},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s is not a number", ErrGeometry, f.name)
		}
	}

	switch {
	case g.PageWidth <= 0 || g.PageHeight <= 0:
		return fmt.Errorf("%w: page size %gx%g", ErrGeometry, g.PageWidth, g.PageHeight)
	case g.Margin < 0:
		return fmt.Errorf("%w: negative margin %g", ErrGeometry, g.Margin)
	case g.ContentWidth() <= 0 || g.ContentHeight() <= 0:
		return fmt.Errorf("%w: margin %g leaves no content area", ErrGeometry, g.Margin)
	case g.LineHeight <= 0:
		return fmt.Errorf("%w: line height must be positive", ErrGeometry)
	case g.SectionSpacing < 0:
		return fmt.Errorf("%w: negative section spacing", ErrGeometry)
	case g.ImageMaxWidth <= 0 || g.ImageMaxWidth > 1:
		return fmt.Errorf("%w: image max width %g is not in (0, 1]", ErrGeometry, g.ImageMaxWidth)
	}

	f := g.FontSizes
	for _, size := range []float64{f.Title, f.Heading, f.GroupTitle, f.Item, f.Body, f.Secondary, f.Caption} {
		if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
			return fmt.Errorf("%w: font sizes must be positive", ErrGeometry)
		}
	}
	return nil
}
