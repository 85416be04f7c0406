package stylecache

import "github.com/gogpu/textengine/style"

// defaultTabStopEms is the incremental tab stop, in ems, used when a
// paragraph style leaves TabStop at zero.
const defaultTabStopEms = 4

// Format is a prepared paragraph and text style: the face is resolved and
// the wrapping, alignment and trimming rules are attached. Formats are
// immutable and shared by every layout created with an equal FormatKey.
type Format struct {
	Key  style.FormatKey
	Face *ResolvedFace
	// Metrics are the face metrics at Key.FontSize.
	Metrics FaceMetrics
	// TabStop is the effective incremental tab stop.
	TabStop float32
	// Ellipsis is the trimming sign, nil unless the key asks for one.
	Ellipsis *EllipsisSign
	// Generation is the collection generation the format was built from.
	Generation uint64
}

// Size returns the font size in pixels.
func (f *Format) Size() float32 { return f.Key.FontSize }

// EllipsisSign is the marker appended to trimmed lines.
type EllipsisSign struct {
	// Text is the preferred sign.
	Text string
	// Fallback is used when the face has no glyph for Text.
	Fallback string
}

func newEllipsisSign() *EllipsisSign {
	return &EllipsisSign{Text: "\u2026", Fallback: "..."}
}

// For returns the sign text the face can render.
func (e *EllipsisSign) For(f *Face) string {
	for _, r := range e.Text {
		if _, ok := f.GlyphIndex(r); !ok {
			return e.Fallback
		}
	}
	return e.Text
}
