// Package core provides the PDF object model and a file writer.
//
// # Object Types
//
// PDF defines eight basic object types, all implemented as types satisfying the
// Object interface:
//
//   - [Null] - represents the PDF null object
//   - [Bool] - represents PDF boolean values (true/false)
//   - [Int] - represents PDF integers
//   - [Real] - represents PDF real numbers, written without exponents
//   - [String] - represents PDF string objects, written as escaped literals
//   - [Name] - represents PDF name objects (e.g., /Type, /Font)
//   - [Array] - represents PDF arrays
//   - [Dict] - represents PDF dictionaries, written with sorted keys
//
// Additionally, [Stream] represents a PDF stream (dictionary + binary data),
// and [IndirectRef] represents a reference to an indirect object.
//
// Every object's String method returns its PDF syntax.
//
// # Writing
//
// A [Writer] numbers indirect objects in the order they are added and
// writes them with a cross-reference table and trailer:
//
//	w := core.NewWriter()
//	pages := w.Reserve()
//	catalog := w.Add(core.Dict{"Type": core.Name("Catalog"), "Pages": pages})
//	...
//	_, err := w.WriteTo(out, catalog, core.IndirectRef{})
//
// The output contains no timestamps or random identifiers, so equal input
// gives byte-identical files.
package core
