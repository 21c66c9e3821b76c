// Package graphicsstate replays page content streams and reports what they
// draw in layout coordinates (origin top-left, Y down).
//
// It understands the operators the pdf package writes: the state stack
// (q, Q, cm, w), colors (rg, RG), paths (m, l, re, S, f), text (BT, ET,
// Tf, Td, Tj) and image XObjects (Do). Anything else is ignored.
//
// Example usage:
//
//	d, err := graphicsstate.Replay(content, page.Height)
//	for _, t := range d.Texts {
//		fmt.Println(t.X, t.Baseline, t.Text)
//	}
//
// The replay is the inverse of the pdf serializer's coordinate flip, which
// makes it useful for checking that primitives land where layout put them.
package graphicsstate
