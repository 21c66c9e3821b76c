package font

import "golang.org/x/text/unicode/norm"

// Face selects one of the faces used by exported menus
type Face int

const (
	Regular Face = iota
	Bold
	Italic
)

func (f Face) String() string {
	switch f {
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	default:
		return "regular"
	}
}

// Font is a Standard 14 font with its character widths
type Font struct {
	Name     string // resource name used in content streams, e.g. "F1"
	BaseFont string
	Subtype  string
	Encoding string

	// widths for runes 32..126, in 1000ths of em
	ascii *[95]float64

	// widths for common non-ASCII WinAnsi glyphs
	extra map[rune]float64
}

var faces = [...]*Font{
	Regular: newFont("F1", "Helvetica", &helveticaWidths, helveticaExtra),
	Bold:    newFont("F2", "Helvetica-Bold", &helveticaBoldWidths, helveticaBoldExtra),
	Italic:  newFont("F3", "Helvetica-Oblique", &helveticaWidths, helveticaExtra),
}

func newFont(name, baseFont string, ascii *[95]float64, extra map[rune]float64) *Font {
	return &Font{
		Name:     name,
		BaseFont: baseFont,
		Subtype:  "Type1",
		Encoding: "WinAnsiEncoding",
		ascii:    ascii,
		extra:    extra,
	}
}

// Standard returns the shared font for a face. Fonts are read-only and safe
// for concurrent use.
func Standard(face Face) *Font {
	if face < 0 || int(face) >= len(faces) {
		return faces[Regular]
	}
	return faces[face]
}

// All returns every face's font in Face order
func All() []*Font {
	return []*Font{faces[Regular], faces[Bold], faces[Italic]}
}

// GetWidth returns the width of a character (in 1000ths of em).
// Accented letters take the width of their base letter.
func (f *Font) GetWidth(r rune) float64 {
	if r >= 32 && r <= 126 {
		return f.ascii[r-32]
	}
	if w, ok := f.extra[r]; ok {
		return w
	}

	// Decompose "ã" into "a" + tilde and measure the base letter
	if d := norm.NFD.String(string(r)); d != string(r) {
		for _, base := range d {
			if base >= 32 && base <= 126 {
				return f.ascii[base-32]
			}
			break
		}
	}

	// Default width if not found
	return 500.0
}

// GetStringWidth calculates the total width of a string in font units
func (f *Font) GetStringWidth(s string) float64 {
	total := 0.0
	for _, r := range NormalizeUnicode(s) {
		total += f.GetWidth(r)
	}
	return total
}

// Measure returns the width of s in points at the given font size
func (f *Font) Measure(s string, size float64) float64 {
	return f.GetStringWidth(s) * size / 1000
}

// Ascent returns the distance from the baseline to the top of capital
// letters, in points.
func (f *Font) Ascent(size float64) float64 {
	return 0.718 * size
}

// Descent returns the depth below the baseline, in points (positive)
func (f *Font) Descent(size float64) float64 {
	return 0.207 * size
}

// Helvetica widths for runes 32 through 126
var helveticaWidths = [95]float64{
	278, 278, 355, 556, 556, 889, 667, 191, 333, 333, 389, 584, 278, 333, 278, 278, // ' ' .. '/'
	556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 278, 278, 584, 584, 584, 556, // '0' .. '?'
	1015, 667, 667, 722, 722, 667, 611, 778, 722, 278, 500, 667, 556, 833, 722, 778, // '@' .. 'O'
	667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 278, 278, 278, 469, 556, // 'P' .. '_'
	333, 556, 556, 500, 556, 556, 278, 556, 556, 222, 222, 500, 222, 833, 556, 556, // '`' .. 'o'
	556, 556, 333, 500, 278, 556, 500, 722, 500, 500, 500, 334, 260, 334, 584, // 'p' .. '~'
}

// Helvetica-Bold widths for runes 32 through 126
var helveticaBoldWidths = [95]float64{
	278, 333, 474, 556, 556, 889, 722, 238, 333, 333, 389, 584, 278, 333, 278, 278,
	556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 333, 333, 584, 584, 584, 611,
	975, 722, 722, 722, 722, 667, 611, 778, 722, 278, 556, 722, 611, 833, 722, 778,
	667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 333, 278, 333, 584, 556,
	333, 556, 611, 556, 611, 556, 333, 611, 611, 278, 278, 556, 278, 889, 611, 611,
	611, 611, 389, 556, 333, 611, 556, 778, 556, 556, 500, 389, 280, 389, 584,
}

var helveticaExtra = map[rune]float64{
	'€':      556,
	'£':      556,
	'•':      350,
	'…':      1000,
	'–':      556,
	'—':      1000,
	'‘':      222,
	'’':      222,
	'“':      333,
	'”':      333,
	'°':      400,
	'ª':      370,
	'º':      365,
	'ß':      611,
	'·':      278,
	'\u00a0': 278,
}

var helveticaBoldExtra = map[rune]float64{
	'€':      556,
	'£':      556,
	'•':      350,
	'…':      1000,
	'–':      556,
	'—':      1000,
	'‘':      278,
	'’':      278,
	'“':      500,
	'”':      500,
	'°':      400,
	'ª':      370,
	'º':      365,
	'ß':      611,
	'·':      278,
	'\u00a0': 278,
}
