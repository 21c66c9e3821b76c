// Package pdf serializes laid out pages as PDF 1.4.
//
//	res, _ := layout.Layout(doc, geometry, images)
//	data, warnings, err := pdf.Render(res.Pages, pdf.Options{Title: doc.Name, Images: images})
//
// Text uses the standard Helvetica faces with WinAnsiEncoding, so no font
// data is embedded. JPEG images are embedded as stored; other formats are
// decoded and written as compressed RGB. Layout coordinates have a top-left
// origin; the conversion to PDF's bottom-left origin is done in one place
// (pageSpace) with model.FlipY.
//
// The writer adds no timestamps or random identifiers: the same pages
// always give the same bytes.
package pdf
