package filters

import (
	"bytes"
	"compress/zlib"
	"testing"
)

// zlibCompress compresses data for testing
func zlibCompress(data []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	w.Write(data)
	w.Close()
	return buf.Bytes()
}

func TestFlateRoundTrip(t *testing.T) {
	original := []byte("BT /F1 11 Tf 42.52 780 Td (Bruschetta) Tj ET")
	encoded, err := FlateEncode(original, Params{})
	if err != nil {
		t.Fatalf("FlateEncode failed: %v", err)
	}
	decoded, err := FlateDecode(encoded, Params{})
	if err != nil {
		t.Fatalf("FlateDecode failed: %v", err)
	}
	if !bytes.Equal(decoded, original) {
		t.Errorf("got %q, want %q", decoded, original)
	}
}

func TestFlateEncodeDeterministic(t *testing.T) {
	data := bytes.Repeat([]byte("menu"), 500)
	a, _ := FlateEncode(data, Params{})
	b, _ := FlateEncode(data, Params{})
	if !bytes.Equal(a, b) {
		t.Error("two encodings of the same data differ")
	}
	if len(a) >= len(data) {
		t.Errorf("compressed %d bytes to %d", len(data), len(a))
	}
}

func TestFlateUpPredictorRoundTrip(t *testing.T) {
	// 3x2 RGB image
	rgb := []byte{
		10, 20, 30, 11, 21, 31, 12, 22, 32,
		15, 25, 35, 200, 100, 50, 0, 0, 255,
	}
	p := RowParams(3, 3)
	encoded, err := FlateEncode(rgb, p)
	if err != nil {
		t.Fatalf("FlateEncode failed: %v", err)
	}
	decoded, err := FlateDecode(encoded, p)
	if err != nil {
		t.Fatalf("FlateDecode failed: %v", err)
	}
	if !bytes.Equal(decoded, rgb) {
		t.Errorf("got %v, want %v", decoded, rgb)
	}
}

func TestEncodeUpRows(t *testing.T) {
	got, err := encodeUp([]byte{1, 2, 3, 4, 6, 8}, Params{Predictor: PredictorPNGUp, Columns: 3, Colors: 1})
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{2, 1, 2, 3, 2, 3, 4, 5}
	if !bytes.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPNGFilters(t *testing.T) {
	params := Params{Predictor: 10, Columns: 3, Colors: 1}
	tests := []struct {
		name string
		data []byte
		want []byte
	}{
		{"none", []byte{0, 1, 2, 3, 0, 4, 5, 6}, []byte{1, 2, 3, 4, 5, 6}},
		{"sub", []byte{1, 1, 1, 1, 1, 5, 1, 1}, []byte{1, 2, 3, 5, 6, 7}},
		{"up", []byte{0, 1, 2, 3, 2, 1, 1, 1}, []byte{1, 2, 3, 2, 3, 4}},
		{"average", []byte{0, 2, 4, 6, 3, 1, 1, 1}, []byte{2, 4, 6, 2, 4, 6}},
		{"paeth", []byte{0, 1, 2, 3, 4, 1, 1, 1}, []byte{1, 2, 3, 2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FlateDecode(zlibCompress(tt.data), params)
			if err != nil {
				t.Fatalf("FlateDecode failed: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPaeth(t *testing.T) {
	tests := []struct {
		a, b, c, want byte
	}{
		{10, 20, 15, 15},
		{0, 0, 0, 0},
		{100, 50, 50, 100},
		{50, 100, 50, 100},
	}
	for _, tt := range tests {
		if got := paeth(tt.a, tt.b, tt.c); got != tt.want {
			t.Errorf("paeth(%d, %d, %d) = %d, want %d", tt.a, tt.b, tt.c, got, tt.want)
		}
	}
}

func TestParamsDict(t *testing.T) {
	if d := (Params{}).Dict(); d != nil {
		t.Errorf("no predictor gave %v", d)
	}
	d := RowParams(4, 3).Dict()
	if d["Predictor"] != PredictorPNGUp || d["Columns"] != 4 || d["Colors"] != 3 || d["BitsPerComponent"] != 8 {
		t.Errorf("Dict() = %v", d)
	}
}

func TestFlateErrors(t *testing.T) {
	if _, err := FlateDecode([]byte("not zlib"), Params{}); err == nil {
		t.Error("expected error for invalid zlib data")
	}
	if _, err := FlateDecode(zlibCompress([]byte{1, 2}), Params{Predictor: 7}); err == nil {
		t.Error("expected error for unsupported predictor")
	}
	if _, err := FlateDecode(zlibCompress([]byte{0, 1, 2}), Params{Predictor: 10, Columns: 3, Colors: 1}); err == nil {
		t.Error("expected error for short row")
	}
	if _, err := FlateDecode(zlibCompress([]byte{9, 1, 2, 3}), Params{Predictor: 10, Columns: 3, Colors: 1}); err == nil {
		t.Error("expected error for unknown row filter")
	}
	if _, err := FlateEncode([]byte{1, 2, 3, 4}, RowParams(3, 1)); err == nil {
		t.Error("expected error for partial row")
	}
	if _, err := FlateEncode([]byte{1}, Params{Predictor: PredictorPNGUp}); err == nil {
		t.Error("expected error for zero columns")
	}
}
