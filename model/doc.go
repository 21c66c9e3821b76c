// Package model provides the content model for menu documents.
//
// A [Document] is an ordered list of sections plus document-level metadata
// (name, currency, logo, footer note). Every mutation of a Document goes
// through the edit package; this package only defines the types, their
// invariants, and the wire encoding.
//
// # Sections
//
// [Section] is a closed tagged union. The concrete variants are:
//
//   - [Heading] - a section title
//   - [RichText] - an HTML text block
//   - [ItemGroup] - priced [Item] entries
//   - [Image] - a single image with caption
//   - [List] - a bulleted list of strings
//   - [Divider] - a horizontal rule
//   - [Spacer] - vertical whitespace of a fixed height
//   - [Video] - a video reference, exported as a textual summary
//   - [Gallery] - ordered [GalleryImage] entries
//   - [FAQ] - ordered [FaqEntry] question/answer pairs
//
// Each variant carries only the fields of its kind. The union is sealed by an
// unexported method, so no type outside this package can pose as a Section.
//
// # Ordering
//
// Sections, and the children of item groups, galleries and FAQ blocks, carry
// an Order field. Between mutations Order is always the dense sequence
// 0..n-1 matching the slice position. [Document.CheckOrder] verifies this.
//
// # Wire format
//
// Documents encode to JSON field-for-field, with sections discriminated by a
// "kind" tag. Decoding rejects fields that do not belong to the section kind.
//
// # Geometry
//
// [BBox] and [Point] are expressed in a top-left origin space with Y growing
// downward, the convention used by the layout engine.
package model
