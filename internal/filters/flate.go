package filters

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// Params holds the DecodeParms entries of a Flate stream
type Params struct {
	// Predictor is 1 for none or 10-15 for PNG prediction
	Predictor int
	Columns   int
	Colors    int
}

// RowParams returns PNG Up prediction parameters for 8-bit rows of
// columns pixels with colors components each
func RowParams(columns, colors int) Params {
	return Params{Predictor: PredictorPNGUp, Columns: columns, Colors: colors}
}

// Predictor values written to DecodeParms
const (
	PredictorNone  = 1
	PredictorPNGUp = 12
)

// Dict returns the DecodeParms entries for p, or nil when no predictor is
// in use
func (p Params) Dict() map[string]int {
	if p.Predictor <= PredictorNone {
		return nil
	}
	return map[string]int{
		"Predictor":        p.Predictor,
		"Columns":          p.Columns,
		"Colors":           p.Colors,
		"BitsPerComponent": 8,
	}
}

func (p Params) rowLength() (int, error) {
	if p.Columns <= 0 || p.Colors <= 0 {
		return 0, fmt.Errorf("predictor needs positive Columns and Colors, got %d and %d", p.Columns, p.Colors)
	}
	return p.Columns * p.Colors, nil
}

// FlateEncode compresses data at the best compression level, applying the
// PNG Up predictor when p asks for one. Output is deterministic.
func FlateEncode(data []byte, p Params) ([]byte, error) {
	if p.Predictor > PredictorNone {
		var err error
		if data, err = encodeUp(data, p); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("compressing: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("compressing: %w", err)
	}
	return buf.Bytes(), nil
}

// FlateDecode decompresses zlib data and reverses PNG prediction
func FlateDecode(data []byte, p Params) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}
	defer r.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}

	switch {
	case p.Predictor <= PredictorNone:
		return buf.Bytes(), nil
	case p.Predictor >= 10 && p.Predictor <= 15:
		return decodePNG(buf.Bytes(), p)
	}
	return nil, fmt.Errorf("unsupported predictor: %d", p.Predictor)
}

// encodeUp prefixes every row with the Up filter byte and replaces each
// sample by its difference from the sample above
func encodeUp(data []byte, p Params) ([]byte, error) {
	n, err := p.rowLength()
	if err != nil {
		return nil, err
	}
	if len(data)%n != 0 {
		return nil, fmt.Errorf("data size %d is not a multiple of row size %d", len(data), n)
	}

	rows := len(data) / n
	out := make([]byte, 0, rows*(n+1))
	for row := 0; row < rows; row++ {
		cur := data[row*n : (row+1)*n]
		out = append(out, 2)
		if row == 0 {
			out = append(out, cur...)
			continue
		}
		prev := data[(row-1)*n : row*n]
		for i := range cur {
			out = append(out, cur[i]-prev[i])
		}
	}
	return out, nil
}

// decodePNG reverses per-row PNG filters (None, Sub, Up, Average, Paeth)
func decodePNG(data []byte, p Params) ([]byte, error) {
	n, err := p.rowLength()
	if err != nil {
		return nil, err
	}
	stride := n + 1
	if len(data)%stride != 0 {
		return nil, fmt.Errorf("data size %d is not a multiple of row size %d", len(data), stride)
	}

	bpp := p.Colors
	rows := len(data) / stride
	out := make([]byte, rows*n)
	prev := make([]byte, n)
	for row := 0; row < rows; row++ {
		filter := data[row*stride]
		in := data[row*stride+1 : (row+1)*stride]
		cur := out[row*n : (row+1)*n]

		for i := range in {
			var left, upLeft byte
			if i >= bpp {
				left = cur[i-bpp]
				upLeft = prev[i-bpp]
			}
			up := prev[i]

			var pred byte
			switch filter {
			case 0:
			case 1:
				pred = left
			case 2:
				pred = up
			case 3:
				pred = byte((int(left) + int(up)) / 2)
			case 4:
				pred = paeth(left, up, upLeft)
			default:
				return nil, fmt.Errorf("row %d: unknown PNG filter %d", row, filter)
			}
			cur[i] = in[i] + pred
		}
		prev = cur
	}
	return out, nil
}

// paeth picks the neighbour closest to a + b - c
func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
