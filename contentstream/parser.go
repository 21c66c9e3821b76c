package contentstream

import (
	"fmt"
	"strconv"

	"github.com/tsawler/menudoc/core"
)

// Operation represents a single content stream operation consisting of an
// operator and its operands. Operands are PDF objects that precede the operator.
type Operation struct {
	Operator string        // The operator (e.g., "Tj", "cm", "q")
	Operands []core.Object // The operands
}

// String returns the operation in content stream syntax
func (op Operation) String() string {
	s := ""
	for _, o := range op.Operands {
		s += o.String() + " "
	}
	return s + op.Operator
}

// Parser parses PDF content streams into a sequence of operations.
type Parser struct {
	data  []byte
	pos   int
	stack []core.Object
}

// NewParser creates a new content stream parser for the given data.
func NewParser(data []byte) *Parser {
	return &Parser{data: data}
}

// Parse returns all operations in order. Operands left over at the end of
// the stream are an error.
func (p *Parser) Parse() ([]Operation, error) {
	var ops []Operation
	for {
		p.skipSpace()
		if p.pos >= len(p.data) {
			break
		}
		start := p.pos
		if isRegular(p.data[p.pos]) && !isNumberStart(p.data[p.pos]) {
			word := p.word()
			switch word {
			case "true":
				p.stack = append(p.stack, core.Bool(true))
			case "false":
				p.stack = append(p.stack, core.Bool(false))
			case "null":
				p.stack = append(p.stack, core.Null{})
			default:
				ops = append(ops, Operation{Operator: word, Operands: p.stack})
				p.stack = nil
			}
			continue
		}
		obj, err := p.operand()
		if err != nil {
			return nil, fmt.Errorf("at position %d: %w", start, err)
		}
		p.stack = append(p.stack, obj)
	}
	if len(p.stack) > 0 {
		return nil, fmt.Errorf("%d operands without an operator at end of stream", len(p.stack))
	}
	return ops, nil
}

func (p *Parser) operand() (core.Object, error) {
	c := p.data[p.pos]
	switch {
	case isNumberStart(c):
		return p.number()
	case c == '(':
		return p.literal()
	case c == '/':
		p.pos++
		return core.Name(p.name()), nil
	case c == '[':
		return p.array()
	case c == '<' && p.peek(1) == '<':
		return p.dict()
	case c == '<':
		return p.hex()
	}
	return nil, fmt.Errorf("unexpected character %q", c)
}

func (p *Parser) peek(n int) byte {
	if p.pos+n < len(p.data) {
		return p.data[p.pos+n]
	}
	return 0
}

// skipSpace skips whitespace and comments
func (p *Parser) skipSpace() {
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		switch {
		case isSpace(c):
			p.pos++
		case c == '%':
			for p.pos < len(p.data) && p.data[p.pos] != '\n' && p.data[p.pos] != '\r' {
				p.pos++
			}
		default:
			return
		}
	}
}

// word reads a run of regular characters
func (p *Parser) word() string {
	start := p.pos
	for p.pos < len(p.data) && isRegular(p.data[p.pos]) {
		p.pos++
	}
	return string(p.data[start:p.pos])
}

func (p *Parser) number() (core.Object, error) {
	s := p.word()
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return core.Int(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", s)
	}
	return core.Real(f), nil
}

// literal reads a (...) string, balancing nested parentheses
func (p *Parser) literal() (core.Object, error) {
	p.pos++
	var out []byte
	depth := 1
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		p.pos++
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return core.String(out), nil
			}
		case '\\':
			if b, ok := p.escape(); ok {
				out = append(out, b)
			}
			continue
		}
		out = append(out, c)
	}
	return nil, fmt.Errorf("unclosed string")
}

// escape decodes the sequence after a backslash. It reports false for a
// line continuation, which produces no byte.
func (p *Parser) escape() (byte, bool) {
	if p.pos >= len(p.data) {
		return 0, false
	}
	c := p.data[p.pos]
	p.pos++
	switch c {
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 't':
		return '\t', true
	case 'b':
		return '\b', true
	case 'f':
		return '\f', true
	case '\r':
		if p.pos < len(p.data) && p.data[p.pos] == '\n' {
			p.pos++
		}
		return 0, false
	case '\n':
		return 0, false
	}
	if c >= '0' && c <= '7' {
		v := int(c - '0')
		for i := 0; i < 2 && p.pos < len(p.data); i++ {
			d := p.data[p.pos]
			if d < '0' || d > '7' {
				break
			}
			v = v*8 + int(d-'0')
			p.pos++
		}
		return byte(v), true
	}
	return c, true
}

// name reads a name after its slash, decoding #xx escapes
func (p *Parser) name() string {
	var out []byte
	for p.pos < len(p.data) && isRegular(p.data[p.pos]) {
		c := p.data[p.pos]
		if c == '#' && isHex(p.peek(1)) && isHex(p.peek(2)) {
			out = append(out, unhex(p.peek(1))<<4|unhex(p.peek(2)))
			p.pos += 3
			continue
		}
		out = append(out, c)
		p.pos++
	}
	return string(out)
}

// hex reads a <...> string; an odd final digit is padded with 0
func (p *Parser) hex() (core.Object, error) {
	p.pos++
	var out []byte
	var hi byte
	half := false
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		p.pos++
		switch {
		case c == '>':
			if half {
				out = append(out, hi<<4)
			}
			return core.String(out), nil
		case isSpace(c):
		case isHex(c):
			if half {
				out = append(out, hi<<4|unhex(c))
			} else {
				hi = unhex(c)
			}
			half = !half
		default:
			return nil, fmt.Errorf("invalid hex digit %q", c)
		}
	}
	return nil, fmt.Errorf("unclosed hex string")
}

func (p *Parser) array() (core.Object, error) {
	p.pos++
	arr := core.Array{}
	for {
		p.skipSpace()
		if p.pos >= len(p.data) {
			return nil, fmt.Errorf("unclosed array")
		}
		if p.data[p.pos] == ']' {
			p.pos++
			return arr, nil
		}
		obj, err := p.element()
		if err != nil {
			return nil, err
		}
		arr = append(arr, obj)
	}
}

func (p *Parser) dict() (core.Object, error) {
	p.pos += 2
	d := core.Dict{}
	for {
		p.skipSpace()
		if p.pos >= len(p.data) {
			return nil, fmt.Errorf("unclosed dictionary")
		}
		if p.data[p.pos] == '>' && p.peek(1) == '>' {
			p.pos += 2
			return d, nil
		}
		if p.data[p.pos] != '/' {
			return nil, fmt.Errorf("dictionary key must be a name")
		}
		p.pos++
		key := p.name()
		p.skipSpace()
		if p.pos >= len(p.data) {
			return nil, fmt.Errorf("unclosed dictionary")
		}
		val, err := p.element()
		if err != nil {
			return nil, err
		}
		d[key] = val
	}
}

// element reads an array or dictionary member, where keywords are values
func (p *Parser) element() (core.Object, error) {
	if c := p.data[p.pos]; isRegular(c) && !isNumberStart(c) {
		switch w := p.word(); w {
		case "true":
			return core.Bool(true), nil
		case "false":
			return core.Bool(false), nil
		case "null":
			return core.Null{}, nil
		default:
			return nil, fmt.Errorf("unexpected keyword %q", w)
		}
	}
	return p.operand()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isRegular(c byte) bool { return !isSpace(c) && !isDelimiter(c) }

func isNumberStart(c byte) bool {
	return c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9')
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case c >= 'a':
		return c - 'a' + 10
	case c >= 'A':
		return c - 'A' + 10
	}
	return c - '0'
}
