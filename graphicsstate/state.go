package graphicsstate

import (
	"fmt"
	"math"

	"github.com/tsawler/menudoc/model"
)

// Color is an RGB color with 8 bits per channel
type Color struct {
	R, G, B uint8
}

// State is the part of the PDF graphics state a replay tracks
type State struct {
	// CTM is the current transformation matrix
	CTM model.Matrix

	LineWidth float64
	Fill      Color
	Stroke    Color

	Text TextState
}

// TextState holds the text object state set between BT and ET
type TextState struct {
	FontName string
	FontSize float64

	// Matrix and LineMatrix are the text matrix and text line matrix
	Matrix     model.Matrix
	LineMatrix model.Matrix
}

// NewState returns the initial state of a page
func NewState() State {
	return State{
		CTM:       model.Identity(),
		LineWidth: 1,
		Text: TextState{
			Matrix:     model.Identity(),
			LineMatrix: model.Identity(),
		},
	}
}

// stack is the q/Q save stack
type stack struct {
	cur   State
	saved []State
}

func newStack() *stack {
	return &stack{cur: NewState()}
}

func (s *stack) save() {
	s.saved = append(s.saved, s.cur)
}

func (s *stack) restore() error {
	if len(s.saved) == 0 {
		return fmt.Errorf("graphics state stack underflow")
	}
	s.cur = s.saved[len(s.saved)-1]
	s.saved = s.saved[:len(s.saved)-1]
	return nil
}

// transform concatenates m onto the CTM (cm operator)
func (s *stack) transform(m model.Matrix) {
	s.cur.CTM = m.Multiply(s.cur.CTM)
}

func (s *stack) beginText() {
	s.cur.Text.Matrix = model.Identity()
	s.cur.Text.LineMatrix = model.Identity()
}

// moveText starts a new line offset from the current one (Td operator)
func (s *stack) moveText(tx, ty float64) {
	s.cur.Text.LineMatrix = model.Translate(tx, ty).Multiply(s.cur.Text.LineMatrix)
	s.cur.Text.Matrix = s.cur.Text.LineMatrix
}

// textOrigin returns the current text position in user space
func (s *stack) textOrigin() model.Point {
	return s.cur.Text.Matrix.Multiply(s.cur.CTM).Transform(model.Point{})
}

// fontSize is the text size after the text matrix and CTM are applied
func (s *stack) fontSize() float64 {
	m := s.cur.Text.Matrix.Multiply(s.cur.CTM)
	return s.cur.Text.FontSize * math.Hypot(m[2], m[3])
}

func toColor(r, g, b float64) Color {
	return Color{channel(r), channel(g), channel(b)}
}

func channel(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(math.Round(v * 255))
}
