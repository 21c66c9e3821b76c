package contentstream

import (
	"reflect"
	"testing"

	"github.com/tsawler/menudoc/core"
)

func parse(t *testing.T, src string) []Operation {
	t.Helper()
	ops, err := NewParser([]byte(src)).Parse()
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", src, err)
	}
	return ops
}

func TestParseOperands(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []Operation
	}{
		{"bare operator", "q", []Operation{{Operator: "q"}}},
		{"integers", "10 20 m", []Operation{{Operator: "m", Operands: []core.Object{core.Int(10), core.Int(20)}}}},
		{"reals", "-1.5 .25 +3. l", []Operation{{Operator: "l", Operands: []core.Object{core.Real(-1.5), core.Real(0.25), core.Real(3)}}}},
		{"font", "/F1 11 Tf", []Operation{{Operator: "Tf", Operands: []core.Object{core.Name("F1"), core.Int(11)}}}},
		{"string", "(Bruschetta) Tj", []Operation{{Operator: "Tj", Operands: []core.Object{core.String("Bruschetta")}}}},
		{"nested parens", "(a (b) c) Tj", []Operation{{Operator: "Tj", Operands: []core.Object{core.String("a (b) c")}}}},
		{"escapes", `(a\(b\)\\\n\101\0) Tj`, []Operation{{Operator: "Tj", Operands: []core.Object{core.String("a(b)\\\nA\x00")}}}},
		{"continuation", "(ab\\\ncd) Tj", []Operation{{Operator: "Tj", Operands: []core.Object{core.String("abcd")}}}},
		{"hex", "<48 65 6c6C6f> Tj", []Operation{{Operator: "Tj", Operands: []core.Object{core.String("Hello")}}}},
		{"hex odd", "<414> Tj", []Operation{{Operator: "Tj", Operands: []core.Object{core.String("A@")}}}},
		{"name escape", "/A#20B Do", []Operation{{Operator: "Do", Operands: []core.Object{core.Name("A B")}}}},
		{"array", "[3 /X (y) [1]] 0 d", []Operation{{Operator: "d", Operands: []core.Object{
			core.Array{core.Int(3), core.Name("X"), core.String("y"), core.Array{core.Int(1)}}, core.Int(0),
		}}}},
		{"dict", "/Span <</MCID 0 /Flag true>> BDC", []Operation{{Operator: "BDC", Operands: []core.Object{
			core.Name("Span"), core.Dict{"MCID": core.Int(0), "Flag": core.Bool(true)},
		}}}},
		{"keywords", "true false null x", []Operation{{Operator: "x", Operands: []core.Object{core.Bool(true), core.Bool(false), core.Null{}}}}},
		{"star and quote operators", "T* (a) ' f*", []Operation{
			{Operator: "T*"},
			{Operator: "'", Operands: []core.Object{core.String("a")}},
			{Operator: "f*"},
		}},
		{"comments", "% header\nq % save\nQ", []Operation{{Operator: "q"}, {Operator: "Q"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parse(t, tt.src)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	for _, src := range []string{"", "  \n\t "} {
		if ops := parse(t, src); len(ops) != 0 {
			t.Errorf("Parse(%q) = %v", src, ops)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unclosed string", "(abc Tj"},
		{"unclosed array", "[1 2"},
		{"unclosed hex", "<414"},
		{"bad hex", "<4G> Tj"},
		{"unclosed dict", "<</A 1"},
		{"dict key", "<<1 2>> x"},
		{"stray delimiter", ") Tj"},
		{"bad number", "1.2.3 w"},
		{"trailing operands", "1 2"},
		{"keyword in array", "[q] x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewParser([]byte(tt.src)).Parse(); err == nil {
				t.Errorf("Parse(%q) should fail", tt.src)
			}
		})
	}
}

func TestParserDoesNotShareState(t *testing.T) {
	// operands are per parser; a failed parse must not leak into the next
	NewParser([]byte("1 2 3")).Parse()
	ops := parse(t, "Q")
	if len(ops) != 1 || len(ops[0].Operands) != 0 {
		t.Errorf("got %v", ops)
	}
}

func TestOperationString(t *testing.T) {
	op := Operation{Operator: "Tf", Operands: []core.Object{core.Name("F1"), core.Real(11)}}
	if got := op.String(); got != "/F1 11 Tf" {
		t.Errorf("String() = %q", got)
	}
}

// ============================================================================
// Builder
// ============================================================================

func TestBuilderOutput(t *testing.T) {
	b := NewBuilder()
	b.Save().Transform(100, 0, 0, 50, 10.5, 20).DrawXObject("Im1").Restore()
	want := "q\n100 0 0 50 10.5 20 cm\n/Im1 Do\nQ\n"
	if got := string(b.Bytes()); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if b.Len() != len(want) {
		t.Errorf("Len() = %d", b.Len())
	}
}

func TestBuilderRoundTrip(t *testing.T) {
	b := NewBuilder()
	b.BeginText().Font("F2", 11).FillRGB(255, 0, 0).TextAt(42.52, 780.1234).ShowText([]byte("R$ 28.00 (x)")).EndText()
	b.StrokeRGB(0, 0, 0).LineWidth(0.5).Dash(0, 3, 2).MoveTo(0, 0).LineTo(10, 0).Stroke()
	b.Rect(1, 2, 3, 4).Fill()

	ops := parse(t, string(b.Bytes()))
	var names []string
	for _, op := range ops {
		names = append(names, op.Operator)
	}
	want := []string{"BT", "Tf", "rg", "Td", "Tj", "ET", "RG", "w", "d", "m", "l", "S", "re", "f"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("operators %v, want %v", names, want)
	}

	if s := ops[4].Operands[0]; s != core.String("R$ 28.00 (x)") {
		t.Errorf("Tj operand = %v", s)
	}
	if x := ops[3].Operands[1]; x != core.Real(780.1234) {
		t.Errorf("Td y = %v", x)
	}
	if r := ops[2].Operands[0]; r != core.Int(1) {
		t.Errorf("rg red = %v", r)
	}
	if d, ok := ops[8].Operands[0].(core.Array); !ok || len(d) != 2 {
		t.Errorf("dash array = %v", ops[8].Operands[0])
	}
}
