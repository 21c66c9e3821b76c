package contentstream

import (
	"bytes"

	"github.com/tsawler/menudoc/core"
)

// Builder writes content stream operators. Numbers are formatted like
// core.Real so equal drawing produces equal bytes.
type Builder struct {
	buf bytes.Buffer
}

// NewBuilder returns an empty builder
func NewBuilder() *Builder {
	return &Builder{}
}

// Op writes one operation
func (b *Builder) Op(operator string, operands ...core.Object) *Builder {
	for _, o := range operands {
		b.buf.WriteString(o.String())
		b.buf.WriteByte(' ')
	}
	b.buf.WriteString(operator)
	b.buf.WriteByte('\n')
	return b
}

func (b *Builder) nums(operator string, vals ...float64) *Builder {
	ops := make([]core.Object, len(vals))
	for i, v := range vals {
		ops[i] = core.Real(v)
	}
	return b.Op(operator, ops...)
}

// Save pushes the graphics state (q)
func (b *Builder) Save() *Builder { return b.Op("q") }

// Restore pops the graphics state (Q)
func (b *Builder) Restore() *Builder { return b.Op("Q") }

// Transform concatenates a matrix to the CTM (cm)
func (b *Builder) Transform(a, bb, c, d, e, f float64) *Builder {
	return b.nums("cm", a, bb, c, d, e, f)
}

// FillRGB sets the non-stroking color from 8-bit channels (rg)
func (b *Builder) FillRGB(r, g, bl uint8) *Builder {
	return b.nums("rg", channel(r), channel(g), channel(bl))
}

// StrokeRGB sets the stroking color from 8-bit channels (RG)
func (b *Builder) StrokeRGB(r, g, bl uint8) *Builder {
	return b.nums("RG", channel(r), channel(g), channel(bl))
}

func channel(v uint8) float64 { return float64(v) / 255 }

// LineWidth sets the stroke width (w)
func (b *Builder) LineWidth(w float64) *Builder { return b.nums("w", w) }

// Dash sets a dash pattern (d); no lengths gives a solid line
func (b *Builder) Dash(phase float64, lengths ...float64) *Builder {
	return b.Op("d", core.Reals(lengths...), core.Real(phase))
}

// MoveTo starts a subpath (m)
func (b *Builder) MoveTo(x, y float64) *Builder { return b.nums("m", x, y) }

// LineTo appends a line segment (l)
func (b *Builder) LineTo(x, y float64) *Builder { return b.nums("l", x, y) }

// Rect appends a rectangle (re)
func (b *Builder) Rect(x, y, w, h float64) *Builder { return b.nums("re", x, y, w, h) }

// Stroke strokes the path (S)
func (b *Builder) Stroke() *Builder { return b.Op("S") }

// Fill fills the path (f)
func (b *Builder) Fill() *Builder { return b.Op("f") }

// BeginText starts a text object (BT)
func (b *Builder) BeginText() *Builder { return b.Op("BT") }

// EndText ends a text object (ET)
func (b *Builder) EndText() *Builder { return b.Op("ET") }

// Font selects a font resource and size (Tf)
func (b *Builder) Font(resource string, size float64) *Builder {
	return b.Op("Tf", core.Name(resource), core.Real(size))
}

// TextAt moves to the start of the line at x, y (Td). Call it once per
// BT block so the offset is from the origin.
func (b *Builder) TextAt(x, y float64) *Builder { return b.nums("Td", x, y) }

// ShowText shows encoded text (Tj)
func (b *Builder) ShowText(encoded []byte) *Builder {
	return b.Op("Tj", core.String(encoded))
}

// DrawXObject paints a named XObject (Do)
func (b *Builder) DrawXObject(resource string) *Builder {
	return b.Op("Do", core.Name(resource))
}

// Bytes returns the content written so far
func (b *Builder) Bytes() []byte {
	return b.buf.Bytes()
}

// Len returns the number of bytes written
func (b *Builder) Len() int {
	return b.buf.Len()
}
