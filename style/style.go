package style

import (
	"fmt"
	"math"
)

// ParagraphStyle holds the paragraph-level layout settings.
type ParagraphStyle struct {
	// HangingIndent pulls the first line left by Indent relative to the
	// wrapped continuation lines.
	HangingIndent bool
	// Indent is the hanging indent width in logical pixels.
	Indent float32
	// TabStop is the incremental tab stop distance. Zero selects the default.
	TabStop float32

	TextAlignment      TextAlignment
	ParagraphAlignment ParagraphAlignment
	WordWrapping       WordWrapping
	Trimming           Trimming
	TrimmingSign       TrimmingSign
	LineSpacing        LineSpacing
	// LineHeight is an absolute height for SpacingUniform and a factor for
	// SpacingProportional. It is ignored by SpacingDefault.
	LineHeight float32
}

// DefaultParagraphStyle returns a left aligned, word wrapped paragraph.
func DefaultParagraphStyle() ParagraphStyle {
	return ParagraphStyle{}
}

// Validate checks the paragraph style for contract violations.
func (p ParagraphStyle) Validate() error {
	switch {
	case !finite(p.Indent) || p.Indent < 0:
		return fmt.Errorf("%w: indent %v", ErrInvalidStyle, p.Indent)
	case !finite(p.TabStop) || p.TabStop < 0:
		return fmt.Errorf("%w: tab stop %v", ErrInvalidStyle, p.TabStop)
	case p.TextAlignment < AlignLeft || p.TextAlignment > AlignJustified:
		return fmt.Errorf("%w: text alignment %d", ErrInvalidStyle, p.TextAlignment)
	case p.ParagraphAlignment < ParagraphNear || p.ParagraphAlignment > ParagraphCenter:
		return fmt.Errorf("%w: paragraph alignment %d", ErrInvalidStyle, p.ParagraphAlignment)
	case p.WordWrapping < WrapWord || p.WordWrapping > WrapCharacter:
		return fmt.Errorf("%w: word wrapping %d", ErrInvalidStyle, p.WordWrapping)
	case p.Trimming < TrimNone || p.Trimming > TrimWord:
		return fmt.Errorf("%w: trimming %d", ErrInvalidStyle, p.Trimming)
	case p.TrimmingSign < SignNone || p.TrimmingSign > SignEllipsis:
		return fmt.Errorf("%w: trimming sign %d", ErrInvalidStyle, p.TrimmingSign)
	case p.LineSpacing < SpacingDefault || p.LineSpacing > SpacingProportional:
		return fmt.Errorf("%w: line spacing %d", ErrInvalidStyle, p.LineSpacing)
	case p.LineSpacing != SpacingDefault && (!finite(p.LineHeight) || p.LineHeight <= 0):
		return fmt.Errorf("%w: line height %v", ErrInvalidStyle, p.LineHeight)
	}
	return nil
}

// TextStyle holds the character-level settings of a layout.
type TextStyle struct {
	// FontFace is the family name. It is required.
	FontFace string
	// FontSize is the em size in logical pixels.
	FontSize float32
	Color    ARGB

	Underline     bool
	Strikethrough bool
	Kerning       bool

	FontStretch FontStretch
	FontStyle   FontStyle
	FontWeight  FontWeight

	// DropShadowColor draws a shadow one device pixel down and right.
	// A transparent color disables the shadow.
	DropShadowColor ARGB
	// OutlineColor strokes glyph outlines with OutlineWidth.
	// A transparent color or a zero width disables the outline.
	OutlineColor ARGB
	OutlineWidth float32
}

// DefaultTextStyle returns opaque black, normal weight text.
func DefaultTextStyle(face string, size float32) TextStyle {
	return TextStyle{
		FontFace:    face,
		FontSize:    size,
		Color:       0xFF000000,
		Kerning:     true,
		FontStretch: StretchNormal,
		FontStyle:   StyleNormal,
		FontWeight:  WeightNormal,
	}
}

// Validate checks the text style for contract violations.
func (t TextStyle) Validate() error {
	switch {
	case t.FontFace == "":
		return fmt.Errorf("%w: font face is required", ErrInvalidStyle)
	case !finite(t.FontSize) || t.FontSize <= 0:
		return fmt.Errorf("%w: font size %v", ErrInvalidStyle, t.FontSize)
	case t.FontWeight < WeightUndefined || t.FontWeight > 999:
		return fmt.Errorf("%w: font weight %d", ErrInvalidStyle, t.FontWeight)
	case t.FontStretch < StretchUndefined || t.FontStretch > StretchUltraExpanded:
		return fmt.Errorf("%w: font stretch %d", ErrInvalidStyle, t.FontStretch)
	case t.FontStyle < StyleNormal || t.FontStyle > StyleItalic:
		return fmt.Errorf("%w: font style %d", ErrInvalidStyle, t.FontStyle)
	case !finite(t.OutlineWidth) || t.OutlineWidth < 0:
		return fmt.Errorf("%w: outline width %v", ErrInvalidStyle, t.OutlineWidth)
	}
	return nil
}

// HasShadow reports whether a drop shadow is drawn.
func (t TextStyle) HasShadow() bool { return !t.DropShadowColor.IsTransparent() }

// HasOutline reports whether glyph outlines are stroked.
func (t TextStyle) HasOutline() bool {
	return !t.OutlineColor.IsTransparent() && t.OutlineWidth > 0
}

// PropertyMask selects the TextStyle fields applied by a range update.
type PropertyMask uint32

const (
	PropFontFace PropertyMask = 1 << iota
	PropFontSize
	PropUnderline
	PropLineThrough
	PropFontStretch
	PropFontStyle
	PropFontWeight
	PropKerning
	PropColor
	PropDropShadowColor
	PropOutline

	// PropShaping is the set of properties that change glyph selection or
	// advances and therefore require reshaping.
	PropShaping = PropFontFace | PropFontSize | PropFontStretch | PropFontStyle | PropFontWeight | PropKerning

	// PropRender is the color, shadow and outline group.
	PropRender = PropColor | PropDropShadowColor | PropOutline

	// PropAll selects every property.
	PropAll = PropShaping | PropRender | PropUnderline | PropLineThrough
)

// Has reports whether any bit of p is set in m.
func (m PropertyMask) Has(p PropertyMask) bool { return m&p != 0 }

// BackgroundAndBorderStyle describes a filled, optionally bordered box.
type BackgroundAndBorderStyle struct {
	// BackgroundColor fills the box. Transparent disables the fill.
	BackgroundColor ARGB
	// BorderColor strokes the box edge. Transparent disables the border.
	BorderColor ARGB
	// BorderWidth is the stroke width, drawn inside the box.
	BorderWidth float32
	// CornerRadius rounds the corners when positive.
	CornerRadius float32
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
