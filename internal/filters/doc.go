// Package filters implements the Flate stream filter used for page content
// and image data.
//
//	encoded, err := filters.FlateEncode(content, filters.Params{})
//	decoded, err := filters.FlateDecode(encoded, filters.Params{})
//
// Image rows can be run through the PNG Up predictor first:
//
//	p := filters.RowParams(width, 3)
//	encoded, err := filters.FlateEncode(rgb, p)
//
// p.Dict() gives the matching DecodeParms entries.
package filters
