package core

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Header is written at the start of every file. The comment line of high
// bytes marks the file as binary.
const Header = "%PDF-1.4\n%\xe2\xe3\xcf\xd3\n"

// ErrUnsetObject is returned by WriteTo when a reserved object was never set
var ErrUnsetObject = errors.New("reserved object was never set")

// Writer collects indirect objects and writes them as a complete PDF file
// with a cross-reference table. Object numbers are assigned in the order
// objects are added or reserved.
type Writer struct {
	objects []Object
}

// NewWriter returns an empty writer
func NewWriter() *Writer {
	return &Writer{}
}

// Add stores obj as a new indirect object and returns its reference
func (w *Writer) Add(obj Object) IndirectRef {
	w.objects = append(w.objects, obj)
	return IndirectRef{Number: len(w.objects)}
}

// Reserve allocates an object number to be filled in later with Set, so
// objects can refer to each other
func (w *Writer) Reserve() IndirectRef {
	return w.Add(nil)
}

// Set stores obj under a reserved reference
func (w *Writer) Set(ref IndirectRef, obj Object) error {
	if ref.Number < 1 || ref.Number > len(w.objects) {
		return fmt.Errorf("object %d was not reserved", ref.Number)
	}
	w.objects[ref.Number-1] = obj
	return nil
}

// Len returns the number of indirect objects
func (w *Writer) Len() int {
	return len(w.objects)
}

// countingWriter tracks the byte offset for the cross-reference table
type countingWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func (c *countingWriter) WriteString(s string) {
	if c.err != nil {
		return
	}
	n, err := c.w.WriteString(s)
	c.n += int64(n)
	c.err = err
}

func (c *countingWriter) Write(p []byte) {
	if c.err != nil {
		return
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
}

// WriteTo writes the file with root as the document catalog. info may be
// the zero reference to omit the Info dictionary.
func (w *Writer) WriteTo(out io.Writer, root, info IndirectRef) (int64, error) {
	for i, obj := range w.objects {
		if obj == nil {
			return 0, fmt.Errorf("object %d: %w", i+1, ErrUnsetObject)
		}
	}

	cw := &countingWriter{w: bufio.NewWriter(out)}
	cw.WriteString(Header)

	offsets := make([]int64, len(w.objects))
	for i, obj := range w.objects {
		offsets[i] = cw.n
		cw.WriteString(strconv.Itoa(i+1) + " 0 obj\n")
		if s, ok := obj.(*Stream); ok {
			writeStream(cw, s)
		} else {
			cw.WriteString(obj.String())
		}
		cw.WriteString("\nendobj\n")
	}

	xref := cw.n
	cw.WriteString(fmt.Sprintf("xref\n0 %d\n", len(w.objects)+1))
	cw.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		cw.WriteString(fmt.Sprintf("%010d 00000 n \n", off))
	}

	trailer := Dict{
		"Size": Int(len(w.objects) + 1),
		"Root": root,
	}
	if info.Number > 0 {
		trailer["Info"] = info
	}
	cw.WriteString("trailer\n" + trailer.String() + "\n")
	cw.WriteString(fmt.Sprintf("startxref\n%d\n%%%%EOF\n", xref))

	if cw.err != nil {
		return cw.n, cw.err
	}
	return cw.n, cw.w.Flush()
}

func writeStream(cw *countingWriter, s *Stream) {
	dict := Dict{}
	for k, v := range s.Dict {
		dict[k] = v
	}
	dict["Length"] = Int(len(s.Data))
	cw.WriteString(dict.String())
	cw.WriteString("\nstream\n")
	cw.Write(s.Data)
	cw.WriteString("\nendstream")
}
