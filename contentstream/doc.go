// Package contentstream writes and parses PDF content streams.
//
// Content streams contain the instructions for rendering page content,
// including text display, graphics operations, and image placement.
//
// # Writing
//
// A [Builder] emits operators with formatted operands:
//
//	b := contentstream.NewBuilder()
//	b.BeginText().Font("F1", 11).TextAt(42.52, 780).ShowText(encoded).EndText()
//	b.StrokeRGB(0, 0, 0).LineWidth(0.5).MoveTo(42.52, 770).LineTo(552.76, 770).Stroke()
//	data := b.Bytes()
//
// # Parsing
//
// A [Parser] turns a stream back into operations:
//
//	ops, err := contentstream.NewParser(data).Parse()
//	for _, op := range ops {
//	    fmt.Printf("Operator: %s, Operands: %v\n", op.Operator, op.Operands)
//	}
//
// # Common Operators
//
// Text operators:
//   - BT, ET - Begin/end text object
//   - Tf - Set font and size
//   - Td - Move text position
//   - Tj - Show text
//
// Graphics state operators:
//   - q, Q - Save/restore graphics state
//   - cm - Modify CTM (current transformation matrix)
//   - w - Set line width
//   - d - Set dash pattern
//   - rg, RG - Set fill and stroke color
//
// Path operators:
//   - m, l - Move to, line to
//   - re - Rectangle
//   - S, f - Stroke and fill paths
//
// XObject operators:
//   - Do - Paint an image
package contentstream
