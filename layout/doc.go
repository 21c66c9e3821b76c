// Package layout places a menu document onto fixed-size pages.
//
// Layout is a pure function of the document, a [Geometry], and the outcome
// of image resolution:
//
//	res, err := layout.Layout(doc, layout.DefaultGeometry(), images)
//	for _, page := range res.Pages {
//		fmt.Println(page.Number, page.Text())
//	}
//
// # Coordinates
//
// Pages use a top-left origin with Y growing downward, in points. Writers
// for formats with a bottom-left origin flip the Y axis when serializing.
//
// # Primitives
//
// Each [Page] holds positioned primitives in drawing order:
//
//   - [TextRun] - one line of text in a standard font face
//   - [Rule] - a straight line, used under headings and for dividers
//   - [ImagePlacement] - a resolved image scaled into a box
//   - [Placeholder] - a box standing in for an image that failed to load
//   - [Space] - reserved room that draws nothing
//
// # Pagination
//
// Content is written top to bottom from the top margin. A section that does
// not fit in the space left on a page moves to a new page before anything
// is drawn; a section longer than a page breaks between lines. Text wraps
// at whitespace only, and a word wider than the column gets a line to
// itself. The footer note is anchored to the bottom margin of the last
// page, or placed on a page of its own when the last page is full.
package layout
