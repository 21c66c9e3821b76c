package graphicsstate

import (
	"fmt"
	"math"

	"github.com/tsawler/menudoc/contentstream"
	"github.com/tsawler/menudoc/core"
	"github.com/tsawler/menudoc/font"
	"github.com/tsawler/menudoc/model"
)

// Text is a shown string. X and Baseline locate the start of its baseline.
type Text struct {
	X, Baseline float64
	Text        string
	Font        string
	Size        float64
	Color       Color
}

// Line is a stroked straight segment
type Line struct {
	X1, Y1, X2, Y2 float64
	Width          float64
	Color          Color
}

// Rect is a painted rectangle
type Rect struct {
	Box    model.BBox
	Filled bool
	Color  Color
}

// Image is a drawn XObject and the box the unit square was mapped to
type Image struct {
	Name string
	Box  model.BBox
}

// Drawing is everything a content stream painted, in drawing order per kind
type Drawing struct {
	Texts  []Text
	Lines  []Line
	Rects  []Rect
	Images []Image
}

// Replay parses content and replays it on a page of the given height
func Replay(content []byte, pageHeight float64) (*Drawing, error) {
	ops, err := contentstream.NewParser(content).Parse()
	if err != nil {
		return nil, err
	}
	return ReplayOperations(ops, pageHeight)
}

// ReplayOperations replays already parsed operations
func ReplayOperations(ops []contentstream.Operation, pageHeight float64) (*Drawing, error) {
	r := &replayer{
		gs:   newStack(),
		flip: model.FlipY(pageHeight),
		out:  &Drawing{},
	}
	for i, op := range ops {
		if err := r.apply(op); err != nil {
			return nil, fmt.Errorf("operation %d (%s): %w", i, op.Operator, err)
		}
	}
	return r.out, nil
}

type segment struct {
	from, to model.Point
}

type replayer struct {
	gs   *stack
	flip model.Matrix
	out  *Drawing

	// current path in user space
	cursor   model.Point
	segments []segment
	rects    [][4]model.Point
}

func (r *replayer) apply(op contentstream.Operation) error {
	switch op.Operator {
	case "q":
		r.gs.save()
	case "Q":
		return r.gs.restore()
	case "cm":
		v, err := numbers(op, 6)
		if err != nil {
			return err
		}
		r.gs.transform(model.Matrix{v[0], v[1], v[2], v[3], v[4], v[5]})
	case "w":
		v, err := numbers(op, 1)
		if err != nil {
			return err
		}
		r.gs.cur.LineWidth = v[0]
	case "rg", "RG":
		v, err := numbers(op, 3)
		if err != nil {
			return err
		}
		if op.Operator == "rg" {
			r.gs.cur.Fill = toColor(v[0], v[1], v[2])
		} else {
			r.gs.cur.Stroke = toColor(v[0], v[1], v[2])
		}
	case "m", "l":
		v, err := numbers(op, 2)
		if err != nil {
			return err
		}
		p := r.user(v[0], v[1])
		if op.Operator == "l" {
			r.segments = append(r.segments, segment{r.cursor, p})
		}
		r.cursor = p
	case "re":
		v, err := numbers(op, 4)
		if err != nil {
			return err
		}
		x, y, w, h := v[0], v[1], v[2], v[3]
		r.rects = append(r.rects, [4]model.Point{
			r.user(x, y), r.user(x+w, y), r.user(x+w, y+h), r.user(x, y+h),
		})
		r.cursor = r.user(x, y)
	case "S":
		r.stroke()
	case "f", "F", "f*":
		r.fill()
	case "n":
		r.clearPath()
	case "BT":
		r.gs.beginText()
	case "Tf":
		if len(op.Operands) != 2 {
			return fmt.Errorf("want 2 operands, got %d", len(op.Operands))
		}
		name, ok := op.Operands[0].(core.Name)
		if !ok {
			return fmt.Errorf("font operand %v is not a name", op.Operands[0])
		}
		size, ok := toFloat(op.Operands[1])
		if !ok {
			return fmt.Errorf("font size %v is not a number", op.Operands[1])
		}
		r.gs.cur.Text.FontName = string(name)
		r.gs.cur.Text.FontSize = size
	case "Td":
		v, err := numbers(op, 2)
		if err != nil {
			return err
		}
		r.gs.moveText(v[0], v[1])
	case "Tj":
		if len(op.Operands) != 1 {
			return fmt.Errorf("want 1 operand, got %d", len(op.Operands))
		}
		s, ok := op.Operands[0].(core.String)
		if !ok {
			return fmt.Errorf("operand %v is not a string", op.Operands[0])
		}
		r.show(string(s))
	case "Do":
		if len(op.Operands) != 1 {
			return fmt.Errorf("want 1 operand, got %d", len(op.Operands))
		}
		name, ok := op.Operands[0].(core.Name)
		if !ok {
			return fmt.Errorf("operand %v is not a name", op.Operands[0])
		}
		ctm := r.gs.cur.CTM
		unit := [4]model.Point{
			ctm.Transform(model.Point{X: 0, Y: 0}),
			ctm.Transform(model.Point{X: 1, Y: 0}),
			ctm.Transform(model.Point{X: 1, Y: 1}),
			ctm.Transform(model.Point{X: 0, Y: 1}),
		}
		r.out.Images = append(r.out.Images, Image{Name: string(name), Box: r.box(unit)})
	}
	return nil
}

func (r *replayer) user(x, y float64) model.Point {
	return r.gs.cur.CTM.Transform(model.Point{X: x, Y: y})
}

func (r *replayer) page(p model.Point) model.Point {
	return r.flip.Transform(p)
}

// box maps user space corners to a layout space bounding box
func (r *replayer) box(corners [4]model.Point) model.BBox {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		p := r.page(c)
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return model.NewBBox(minX, minY, maxX-minX, maxY-minY)
}

func (r *replayer) stroke() {
	for _, s := range r.segments {
		a, b := r.page(s.from), r.page(s.to)
		r.out.Lines = append(r.out.Lines, Line{
			X1: a.X, Y1: a.Y, X2: b.X, Y2: b.Y,
			Width: r.gs.cur.LineWidth,
			Color: r.gs.cur.Stroke,
		})
	}
	for _, c := range r.rects {
		r.out.Rects = append(r.out.Rects, Rect{Box: r.box(c), Color: r.gs.cur.Stroke})
	}
	r.clearPath()
}

func (r *replayer) fill() {
	for _, c := range r.rects {
		r.out.Rects = append(r.out.Rects, Rect{Box: r.box(c), Filled: true, Color: r.gs.cur.Fill})
	}
	r.clearPath()
}

func (r *replayer) clearPath() {
	r.segments = r.segments[:0]
	r.rects = r.rects[:0]
}

func (r *replayer) show(encoded string) {
	origin := r.page(r.gs.textOrigin())
	r.out.Texts = append(r.out.Texts, Text{
		X:        origin.X,
		Baseline: origin.Y,
		Text:     font.DecodeWinAnsi([]byte(encoded)),
		Font:     r.gs.cur.Text.FontName,
		Size:     r.gs.fontSize(),
		Color:    r.gs.cur.Fill,
	})
}

func numbers(op contentstream.Operation, n int) ([]float64, error) {
	if len(op.Operands) != n {
		return nil, fmt.Errorf("want %d operands, got %d", n, len(op.Operands))
	}
	out := make([]float64, n)
	for i, o := range op.Operands {
		f, ok := toFloat(o)
		if !ok {
			return nil, fmt.Errorf("operand %v is not a number", o)
		}
		out[i] = f
	}
	return out, nil
}

func toFloat(obj core.Object) (float64, bool) {
	switch v := obj.(type) {
	case core.Int:
		return float64(v), true
	case core.Real:
		return float64(v), true
	}
	return 0, false
}
