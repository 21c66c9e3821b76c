// Package font provides the Standard 14 fonts used for exported menus.
//
// Exports use Helvetica in three faces. The package supplies their
// character widths for line wrapping and right alignment, and WinAnsi
// encoding for writing text into PDF content streams.
//
// # Faces
//
//	f := font.Standard(font.Bold)
//	width := f.Measure("Bruschetta", 11) // points
//
// # Character Widths
//
// Widths are expressed in 1000ths of an em:
//
//	width := f.GetWidth('A')          // Single character
//	width := f.GetStringWidth(text)   // String width in font units
//
// Accented Latin letters are measured as their base letter.
//
// # Encodings
//
// Text is normalized to NFC and encoded with Windows-1252, which is the
// byte encoding PDF calls WinAnsiEncoding. Characters outside it are
// replaced with '?'.
package font
