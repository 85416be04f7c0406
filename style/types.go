// Package style defines the paragraph and text styles accepted by the text
// engine, the cache key derived from them and the packed color format.
//
// Styles are plain values. Enumerations are 32-bit so that the structs keep
// a fixed layout across the engine boundary.
package style

import "errors"

// ErrInvalidStyle reports a caller contract violation in a style value.
// It is checked before any font or cache work is done.
var ErrInvalidStyle = errors.New("style: invalid style")

// unknownStr is the string returned for unknown enum values.
const unknownStr = "Unknown"

// TextAlignment positions lines horizontally inside the layout box.
type TextAlignment int32

const (
	// AlignLeft aligns lines to the left edge.
	AlignLeft TextAlignment = iota
	// AlignCenter centers lines.
	AlignCenter
	// AlignRight aligns lines to the right edge.
	AlignRight
	// AlignJustified stretches inter-word spaces so lines fill the width.
	// The last line of a paragraph is left aligned.
	AlignJustified
)

// String returns the string representation of the alignment.
func (a TextAlignment) String() string {
	switch a {
	case AlignLeft:
		return "Left"
	case AlignCenter:
		return "Center"
	case AlignRight:
		return "Right"
	case AlignJustified:
		return "Justified"
	default:
		return unknownStr
	}
}

// ParagraphAlignment positions the block of lines vertically.
type ParagraphAlignment int32

const (
	// ParagraphNear places text at the top of the layout box.
	ParagraphNear ParagraphAlignment = iota
	// ParagraphFar places text at the bottom of the layout box.
	ParagraphFar
	// ParagraphCenter centers text vertically.
	ParagraphCenter
)

// String returns the string representation of the alignment.
func (a ParagraphAlignment) String() string {
	switch a {
	case ParagraphNear:
		return "Near"
	case ParagraphFar:
		return "Far"
	case ParagraphCenter:
		return "Center"
	default:
		return unknownStr
	}
}

// WordWrapping selects where lines may break.
type WordWrapping int32

const (
	// WrapWord breaks between words and splits a word that does not fit.
	WrapWord WordWrapping = iota
	// WrapNone breaks only at explicit line separators.
	WrapNone
	// WrapEmergencyBreak breaks between words, splitting over-long words.
	WrapEmergencyBreak
	// WrapWholeWord breaks between words and never splits one.
	WrapWholeWord
	// WrapCharacter breaks between any two characters.
	WrapCharacter
)

// String returns the string representation of the wrapping mode.
func (w WordWrapping) String() string {
	switch w {
	case WrapWord:
		return "Wrap"
	case WrapNone:
		return "NoWrap"
	case WrapEmergencyBreak:
		return "EmergencyBreak"
	case WrapWholeWord:
		return "WholeWord"
	case WrapCharacter:
		return "Character"
	default:
		return unknownStr
	}
}

// Trimming selects the granularity at which overflowing text is cut.
type Trimming int32

const (
	// TrimNone lets text overflow the layout box.
	TrimNone Trimming = iota
	// TrimCharacter cuts at a character boundary.
	TrimCharacter
	// TrimWord cuts at a word boundary.
	TrimWord
)

// String returns the string representation of the trimming mode.
func (t Trimming) String() string {
	switch t {
	case TrimNone:
		return "None"
	case TrimCharacter:
		return "Character"
	case TrimWord:
		return "Word"
	default:
		return unknownStr
	}
}

// TrimmingSign is the marker appended to trimmed text.
type TrimmingSign int32

const (
	// SignNone appends nothing.
	SignNone TrimmingSign = iota
	// SignEllipsis appends an ellipsis.
	SignEllipsis
)

// String returns the string representation of the sign.
func (s TrimmingSign) String() string {
	switch s {
	case SignNone:
		return "None"
	case SignEllipsis:
		return "Ellipsis"
	default:
		return unknownStr
	}
}

// LineSpacing selects how line height is computed.
type LineSpacing int32

const (
	// SpacingDefault uses the font's natural line height.
	SpacingDefault LineSpacing = iota
	// SpacingUniform uses LineHeight as an absolute height for every line.
	SpacingUniform
	// SpacingProportional multiplies the natural line height by LineHeight.
	SpacingProportional
)

// String returns the string representation of the spacing method.
func (s LineSpacing) String() string {
	switch s {
	case SpacingDefault:
		return "Default"
	case SpacingUniform:
		return "Uniform"
	case SpacingProportional:
		return "Proportional"
	default:
		return unknownStr
	}
}

// FontStretch is the 9-step width class of a face.
// The zero value means undefined and is treated as normal.
type FontStretch int32

const (
	StretchUndefined FontStretch = iota
	StretchUltraCondensed
	StretchExtraCondensed
	StretchCondensed
	StretchSemiCondensed
	StretchNormal
	StretchSemiExpanded
	StretchExpanded
	StretchExtraExpanded
	StretchUltraExpanded
)

// stretchFactors maps width classes to a fraction of the normal width.
var stretchFactors = [...]float32{1, 0.5, 0.625, 0.75, 0.875, 1, 1.125, 1.25, 1.5, 2}

// Factor returns the stretch as a fraction of the normal width.
func (s FontStretch) Factor() float32 {
	if s < 0 || int(s) >= len(stretchFactors) {
		return 1
	}
	return stretchFactors[s]
}

// StretchFromFactor returns the width class closest to a width fraction.
func StretchFromFactor(f float32) FontStretch {
	best := StretchNormal
	bestDist := float32(-1)
	for s := StretchUltraCondensed; s <= StretchUltraExpanded; s++ {
		d := stretchFactors[s] - f
		if d < 0 {
			d = -d
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = s, d
		}
	}
	return best
}

// FontStyle is the slant of a face.
type FontStyle int32

const (
	// StyleNormal is upright.
	StyleNormal FontStyle = iota
	// StyleOblique is a slanted version of the upright design.
	StyleOblique
	// StyleItalic is a cursive design.
	StyleItalic
)

// String returns the string representation of the style.
func (s FontStyle) String() string {
	switch s {
	case StyleNormal:
		return "Normal"
	case StyleOblique:
		return "Oblique"
	case StyleItalic:
		return "Italic"
	default:
		return unknownStr
	}
}

// FontWeight is the numeric weight of a face, 1 to 999. The zero value,
// WeightUndefined, selects WeightNormal.
type FontWeight int32

const (
	WeightUndefined  FontWeight = 0
	WeightThin       FontWeight = 100
	WeightExtraLight FontWeight = 200
	WeightLight      FontWeight = 300
	WeightSemiLight  FontWeight = 350
	WeightNormal     FontWeight = 400
	WeightMedium     FontWeight = 500
	WeightSemiBold   FontWeight = 600
	WeightBold       FontWeight = 700
	WeightExtraBold  FontWeight = 800
	WeightBlack      FontWeight = 900
	WeightExtraBlack FontWeight = 950
)

// Resolved returns w, or WeightNormal for WeightUndefined.
func (w FontWeight) Resolved() FontWeight {
	if w == WeightUndefined {
		return WeightNormal
	}
	return w
}
