package textengine

import (
	"bytes"
	"encoding/binary"
	"io"
	"unicode/utf16"
	"unsafe"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/gogpu/textengine/layout"
	"github.com/gogpu/textengine/style"
	"github.com/gogpu/textengine/surface"
)

// StructSizes reports the in-memory size of every value type that crosses
// the engine boundary. Callers on the far side of a foreign function
// interface compare them against their own declarations.
type StructSizes struct {
	ParagraphStyle           uintptr
	TextStyle                uintptr
	BackgroundAndBorderStyle uintptr
	Metrics                  uintptr
	LineMetrics              uintptr
	HitTestMetrics           uintptr
	PointHit                 uintptr
	Matrix                   uintptr
}

// GetStructSizes returns the sizes of the boundary structs.
func GetStructSizes() StructSizes {
	return StructSizes{
		ParagraphStyle:           unsafe.Sizeof(style.ParagraphStyle{}),
		TextStyle:                unsafe.Sizeof(style.TextStyle{}),
		BackgroundAndBorderStyle: unsafe.Sizeof(style.BackgroundAndBorderStyle{}),
		Metrics:                  unsafe.Sizeof(layout.Metrics{}),
		LineMetrics:              unsafe.Sizeof(layout.LineMetrics{}),
		HitTestMetrics:           unsafe.Sizeof(layout.HitTestMetrics{}),
		PointHit:                 unsafe.Sizeof(layout.PointHit{}),
		Matrix:                   unsafe.Sizeof(surface.Matrix{}),
	}
}

// EncodeText converts s to UTF-16 code units. Invalid UTF-8 becomes
// U+FFFD.
func EncodeText(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

// DecodeUTF16LE reinterprets a little-endian byte buffer as UTF-16 code
// units. Unpaired surrogates are kept; layouts render them as U+FFFD.
func DecodeUTF16LE(b []byte) ([]uint16, error) {
	if b == nil {
		return nil, ErrNullParameter
	}
	if len(b)%2 != 0 {
		return nil, ErrOddLength
	}
	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(b[2*i:])
	}
	return units, nil
}

// ReadText reads a text file as UTF-8, or as UTF-16 when it starts with a
// byte order mark.
func ReadText(r io.Reader) (string, error) {
	if r == nil {
		return "", ErrNullParameter
	}
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, transform.NewReader(r, dec)); err != nil {
		return "", err
	}
	return buf.String(), nil
}
