package layout

import (
	"fmt"
	"strings"

	"github.com/tsawler/menudoc/font"
	"github.com/tsawler/menudoc/model"
)

// Color is an RGB color with 8 bits per channel
type Color struct {
	R, G, B uint8
}

// Text colors
var (
	Black     = Color{0, 0, 0}
	DarkGray  = Color{50, 50, 50}
	Gray      = Color{80, 80, 80}
	MidGray   = Color{100, 100, 100}
	LightGray = Color{120, 120, 120}
	PaleGray  = Color{150, 150, 150}
	Red       = Color{200, 0, 0}
)

// Align is the horizontal alignment of a text run inside its box
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// String returns a string representation of the alignment
func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// Primitive is one positioned draw command. Coordinates use a top-left
// origin with Y growing downward.
type Primitive interface {
	Bounds() model.BBox
	shift(dy float64) Primitive
}

// TextRun is a single line of text. X and Y locate the top-left corner of
// the line box; Width is the measured text width and Height the line
// advance. The text baseline sits at Baseline().
type TextRun struct {
	X, Y   float64
	Width  float64
	Height float64
	Text   string
	Size   float64
	Face   font.Face
	Color  Color
}

func (t TextRun) Bounds() model.BBox {
	return model.NewBBox(t.X, t.Y, t.Width, t.Height)
}

// Baseline returns the y of the text baseline, with the glyphs centred
// vertically in the line box.
func (t TextRun) Baseline() float64 {
	f := font.Standard(t.Face)
	glyphs := f.Ascent(t.Size) + f.Descent(t.Size)
	return t.Y + (t.Height-glyphs)/2 + f.Ascent(t.Size)
}

func (t TextRun) String() string {
	return fmt.Sprintf("text(%.2f,%.2f %s %.1f %q)", t.X, t.Y, t.Face, t.Size, t.Text)
}

func (t TextRun) shift(dy float64) Primitive { t.Y += dy; return t }

// Rule is a straight line
type Rule struct {
	X1, Y1, X2, Y2 float64
	Width          float64
	Color          Color
}

func (r Rule) Bounds() model.BBox {
	x, y := r.X1, r.Y1
	if r.X2 < x {
		x = r.X2
	}
	if r.Y2 < y {
		y = r.Y2
	}
	w, h := r.X2-r.X1, r.Y2-r.Y1
	if w < 0 {
		w = -w
	}
	if h < 0 {
		h = -h
	}
	return model.NewBBox(x, y, w, h)
}

func (r Rule) shift(dy float64) Primitive { r.Y1 += dy; r.Y2 += dy; return r }

// ImagePlacement draws the resolved image Ref scaled into Box
type ImagePlacement struct {
	Ref string
	Box model.BBox
}

func (i ImagePlacement) Bounds() model.BBox { return i.Box }

func (i ImagePlacement) shift(dy float64) Primitive { i.Box = i.Box.Translate(0, dy); return i }

// Placeholder stands in for an image that could not be resolved
type Placeholder struct {
	Ref    string
	Box    model.BBox
	Notice string
}

func (p Placeholder) Bounds() model.BBox { return p.Box }

func (p Placeholder) shift(dy float64) Primitive { p.Box = p.Box.Translate(0, dy); return p }

// Space reserves vertical room and draws nothing
type Space struct {
	Box model.BBox
}

func (s Space) Bounds() model.BBox { return s.Box }

func (s Space) shift(dy float64) Primitive { s.Box = s.Box.Translate(0, dy); return s }

// Page is one laid out page
type Page struct {
	Number     int // 1-based
	Width      float64
	Height     float64
	Primitives []Primitive
}

// Texts returns the text runs of the page in drawing order
func (p *Page) Texts() []TextRun {
	var out []TextRun
	for _, prim := range p.Primitives {
		if t, ok := prim.(TextRun); ok {
			out = append(out, t)
		}
	}
	return out
}

// Text returns the page's text, one run per line
func (p *Page) Text() string {
	runs := p.Texts()
	lines := make([]string, len(runs))
	for i, t := range runs {
		lines[i] = t.Text
	}
	return strings.Join(lines, "\n")
}

// Placeholders returns the placeholder primitives of the page
func (p *Page) Placeholders() []Placeholder {
	var out []Placeholder
	for _, prim := range p.Primitives {
		if ph, ok := prim.(Placeholder); ok {
			out = append(out, ph)
		}
	}
	return out
}

// Images returns the image placements of the page
func (p *Page) Images() []ImagePlacement {
	var out []ImagePlacement
	for _, prim := range p.Primitives {
		if img, ok := prim.(ImagePlacement); ok {
			out = append(out, img)
		}
	}
	return out
}

// ContentBottom returns the lowest y touched by a non-space primitive, or 0
func (p *Page) ContentBottom() float64 {
	bottom := 0.0
	for _, prim := range p.Primitives {
		if _, ok := prim.(Space); ok {
			continue
		}
		if b := prim.Bounds().Bottom(); b > bottom {
			bottom = b
		}
	}
	return bottom
}
