package pdf

import (
	"github.com/tsawler/menudoc/layout"
	"github.com/tsawler/menudoc/model"
)

// pageSpace converts layout coordinates (origin top-left, Y down) to PDF
// user space (origin bottom-left, Y up). All flipping happens here.
type pageSpace struct {
	flip model.Matrix
}

func newPageSpace(pageHeight float64) pageSpace {
	return pageSpace{flip: model.FlipY(pageHeight)}
}

// point maps a layout point
func (s pageSpace) point(x, y float64) (float64, float64) {
	p := s.flip.Transform(model.Point{X: x, Y: y})
	return p.X, p.Y
}

// rect maps a layout box to its lower-left corner and size in PDF space.
// The box's bottom edge in layout space becomes its lower edge.
func (s pageSpace) rect(b model.BBox) (x, y, w, h float64) {
	x, y = s.point(b.X, b.Y+b.Height)
	return x, y, b.Width, b.Height
}

// baseline returns the PDF position of a text run's baseline start
func (s pageSpace) baseline(t layout.TextRun) (float64, float64) {
	return s.point(t.X, t.Baseline())
}
