package model

// Point is a position in points (1/72 inch)
type Point struct {
	X, Y float64
}

// BBox is a rectangle in layout space: X is the left edge and Y the top
// edge, with Y growing down the page.
type BBox struct {
	X, Y          float64
	Width, Height float64
}

// NewBBox returns the box with top-left corner x, y and the given size
func NewBBox(x, y, width, height float64) BBox {
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// Right is the X coordinate of the right edge
func (b BBox) Right() float64 { return b.X + b.Width }

// Bottom is the Y coordinate of the bottom edge, the largest Y in the box
func (b BBox) Bottom() float64 { return b.Y + b.Height }

// Translate returns the box moved by dx, dy
func (b BBox) Translate(dx, dy float64) BBox {
	b.X += dx
	b.Y += dy
	return b
}

// Within reports whether b lies inside outer, edges included
func (b BBox) Within(outer BBox) bool {
	return b.X >= outer.X && b.Y >= outer.Y &&
		b.Right() <= outer.Right() && b.Bottom() <= outer.Bottom()
}

// Matrix is a PDF affine transformation [a b c d e f], mapping
// (x, y) to (a*x + c*y + e, b*x + d*y + f).
type Matrix [6]float64

// Identity returns the identity matrix
func Identity() Matrix {
	return Matrix{1, 0, 0, 1, 0, 0}
}

// Translate returns a translation by tx, ty
func Translate(tx, ty float64) Matrix {
	return Matrix{1, 0, 0, 1, tx, ty}
}

// Scale returns a scaling by sx, sy
func Scale(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, sy, 0, 0}
}

// FlipY maps top-left origin coordinates on a page of the given height to
// bottom-left origin coordinates. The flip is its own inverse.
func FlipY(pageHeight float64) Matrix {
	return Matrix{1, 0, 0, -1, 0, pageHeight}
}

// Transform applies m to p
func (m Matrix) Transform(p Point) Point {
	return Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// Multiply returns the matrix that applies m first and then other
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		m[0]*other[0] + m[1]*other[2],
		m[0]*other[1] + m[1]*other[3],
		m[2]*other[0] + m[3]*other[2],
		m[2]*other[1] + m[3]*other[3],
		m[4]*other[0] + m[5]*other[2] + other[4],
		m[4]*other[1] + m[5]*other[3] + other[5],
	}
}

// IsIdentity reports whether m is the identity
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}
