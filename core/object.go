package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Object is a PDF object. String returns the object in PDF syntax. The
// set of objects is closed.
type Object interface {
	String() string
	object()
}

// Null represents a PDF null object
type Null struct{}

func (n Null) String() string { return "null" }

func (Null) object() {}

// Bool represents a PDF boolean
type Bool bool

func (Bool) object() {}
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Int represents a PDF integer
type Int int64

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

func (Int) object() {}

// Real represents a PDF real number. It is written with at most four
// decimals and no exponent, since PDF has no exponent syntax.
type Real float64

func (r Real) String() string { return FormatReal(float64(r)) }

func (Real) object() {}

// FormatReal formats f the way Real is written
func FormatReal(f float64) string {
	s := strconv.FormatFloat(f, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}

// String represents a PDF string. Its content is raw bytes, usually text
// already encoded for a font.
type String string

func (String) object() {}

// String returns s as a literal string with delimiters and backslashes
// escaped and control bytes written in octal
func (s String) String() string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('(')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '(', ')', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if c < 0x20 || c == 0x7f {
				fmt.Fprintf(&b, "\\%03o", c)
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte(')')
	return b.String()
}

// Name represents a PDF name
type Name string

func (Name) object() {}

// String returns the name with a leading slash. Bytes outside the regular
// character set are written as #xx.
func (n Name) String() string {
	var b strings.Builder
	b.WriteByte('/')
	for i := 0; i < len(n); i++ {
		c := n[i]
		if c <= ' ' || c >= 0x7f || c == '#' || strings.IndexByte("()<>[]{}/%", c) >= 0 {
			fmt.Fprintf(&b, "#%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Array represents a PDF array
type Array []Object

func (Array) object() {}
func (a Array) String() string {
	parts := make([]string, len(a))
	for i, obj := range a {
		parts[i] = obj.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Reals builds an array of reals
func Reals(vals ...float64) Array {
	a := make(Array, len(vals))
	for i, v := range vals {
		a[i] = Real(v)
	}
	return a
}

// Dict represents a PDF dictionary
type Dict map[string]Object

func (Dict) object() {}

// String writes the entries sorted by key so output is reproducible
func (d Dict) String() string {
	keys := d.Keys()
	parts := make([]string, len(keys))
	for i, key := range keys {
		parts[i] = Name(key).String() + " " + d[key].String()
	}
	return "<<" + strings.Join(parts, " ") + ">>"
}

// Get retrieves a value from the dictionary
func (d Dict) Get(key string) Object {
	return d[key]
}

// GetName retrieves a name value
func (d Dict) GetName(key string) (Name, bool) {
	name, ok := d[key].(Name)
	return name, ok
}

// GetInt retrieves an integer value
func (d Dict) GetInt(key string) (Int, bool) {
	i, ok := d[key].(Int)
	return i, ok
}

// GetDict retrieves a dictionary value
func (d Dict) GetDict(key string) (Dict, bool) {
	dict, ok := d[key].(Dict)
	return dict, ok
}

// Has checks if a key exists in the dictionary
func (d Dict) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// Set sets a value in the dictionary
func (d Dict) Set(key string, value Object) {
	d[key] = value
}

// Keys returns all keys in sorted order
func (d Dict) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Stream represents a PDF stream object. Length is filled in when the
// stream is written.
type Stream struct {
	Dict Dict
	Data []byte
}

func (*Stream) object() {}
func (s *Stream) String() string {
	return fmt.Sprintf("stream %s (%d bytes)", s.Dict.String(), len(s.Data))
}

// IndirectRef represents an indirect object reference
type IndirectRef struct {
	Number     int
	Generation int
}

func (IndirectRef) object() {}
func (r IndirectRef) String() string {
	return fmt.Sprintf("%d %d R", r.Number, r.Generation)
}
