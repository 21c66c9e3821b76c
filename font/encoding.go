package font

import (
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// NormalizeUnicode converts s to NFC so composed and decomposed input
// measure and encode identically.
func NormalizeUnicode(s string) string {
	return norm.NFC.String(s)
}

// EncodeWinAnsi encodes s for a WinAnsiEncoding font. Characters the
// encoding cannot represent become '?'.
func EncodeWinAnsi(s string) []byte {
	s = NormalizeUnicode(s)
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			b = '?'
		}
		out = append(out, b)
	}
	return out
}

// DecodeWinAnsi is the inverse of EncodeWinAnsi
func DecodeWinAnsi(data []byte) string {
	out, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(out)
}

// CanEncode reports whether every character of s survives WinAnsi encoding
func CanEncode(s string) bool {
	for _, r := range NormalizeUnicode(s) {
		if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
			return false
		}
	}
	return true
}
