package layout

import (
	"strings"

	"github.com/tsawler/menudoc/font"
)

// Ellipsis is appended to text shortened by Truncate
const Ellipsis = "..."

// Measure returns the width of s in points
func Measure(s string, size float64, face font.Face) float64 {
	return font.Standard(face).Measure(s, size)
}

// Wrap breaks text into lines no wider than width, breaking only at
// whitespace. Line breaks in text are kept. A word wider than width is
// placed on a line of its own and never split, so joining the lines with
// single spaces always gives back the words of text in order.
func Wrap(text string, width, size float64, face font.Face) []string {
	f := font.Standard(face)
	space := f.Measure(" ", size)

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}

		var cur strings.Builder
		curWidth := 0.0
		for _, w := range words {
			ww := f.Measure(w, size)
			if cur.Len() == 0 {
				cur.WriteString(w)
				curWidth = ww
				continue
			}
			if curWidth+space+ww <= width {
				cur.WriteByte(' ')
				cur.WriteString(w)
				curWidth += space + ww
				continue
			}
			lines = append(lines, cur.String())
			cur.Reset()
			cur.WriteString(w)
			curWidth = ww
		}
		lines = append(lines, cur.String())
	}
	return lines
}

// Truncate shortens text to a single line no wider than width, ending it
// with an ellipsis when anything was cut.
func Truncate(text string, width, size float64, face font.Face) string {
	text = strings.Join(strings.Fields(text), " ")
	f := font.Standard(face)
	if f.Measure(text, size) <= width {
		return text
	}

	limit := width - f.Measure(Ellipsis, size)
	runes := []rune(text)
	n := len(runes)
	for n > 0 && f.Measure(string(runes[:n]), size) > limit {
		n--
	}
	return strings.TrimRight(string(runes[:n]), " ") + Ellipsis
}
