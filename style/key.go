package style

// FormatKey is the subset of a paragraph and text style that affects
// shaping. Color, decorations, shadow, outline and kerning are applied
// after shaping and are not part of the key.
//
// FormatKey is comparable; two keys are equal iff every field is equal.
type FormatKey struct {
	FontFace    string
	FontSize    float32
	FontWeight  FontWeight
	FontStyle   FontStyle
	FontStretch FontStretch

	TextAlignment      TextAlignment
	ParagraphAlignment ParagraphAlignment
	WordWrapping       WordWrapping
	Trimming           Trimming
	TrimmingSign       TrimmingSign
	TabStop            float32
	LineSpacing        LineSpacing
	LineHeight         float32
}

// NewFormatKey derives the format key of a style pair.
func NewFormatKey(p ParagraphStyle, t TextStyle) FormatKey {
	return FormatKey{
		FontFace:           t.FontFace,
		FontSize:           t.FontSize,
		FontWeight:         t.FontWeight.Resolved(),
		FontStyle:          t.FontStyle,
		FontStretch:        t.FontStretch,
		TextAlignment:      p.TextAlignment,
		ParagraphAlignment: p.ParagraphAlignment,
		WordWrapping:       p.WordWrapping,
		Trimming:           p.Trimming,
		TrimmingSign:       p.TrimmingSign,
		TabStop:            p.TabStop,
		LineSpacing:        p.LineSpacing,
		LineHeight:         p.LineHeight,
	}
}
