package layout

import (
	"unicode"

	"github.com/gogpu/textengine/style"
)

// breakClass is a simplified UAX #14 line breaking class.
type breakClass uint8

const (
	breakOther breakClass = iota
	breakSpace
	breakZero
	breakOpen
	breakClose
	breakHyphen
	breakIdeographic
	breakNewline
)

// breakOpportunity is the break status before a rune.
type breakOpportunity uint8

const (
	breakNo breakOpportunity = iota
	breakAllowed
	breakMandatory
)

func classifyRune(r rune) breakClass {
	switch r {
	case ' ', '\t', '\u3000':
		return breakSpace
	case '\u200B':
		return breakZero
	case '(', '[', '{', '\u201C', '\u2018', '\u00AB':
		return breakOpen
	case ')', ']', '}', '\u201D', '\u2019', '\u00BB', '!', '?', ';', ':', ',', '.':
		return breakClose
	case '-', '\u2010', '\u2013', '\u2014':
		return breakHyphen
	case '\n', '\r', '\v', '\f', '\u0085', '\u2028', '\u2029':
		return breakNewline
	}
	if isCJKRune(r) {
		return breakIdeographic
	}
	return breakOther
}

func isCJKRune(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) || // CJK Unified Ideographs
		(r >= 0x3400 && r <= 0x4DBF) || // CJK Extension A
		(r >= 0x20000 && r <= 0x2A6DF) || // CJK Extension B
		(r >= 0x3040 && r <= 0x309F) || // Hiragana
		(r >= 0x30A0 && r <= 0x30FF) || // Katakana
		(r >= 0xAC00 && r <= 0xD7AF) || // Hangul Syllables
		(r >= 0xFF00 && r <= 0xFFEF) // Fullwidth forms
}

// isNewline reports whether r ends a line unconditionally.
func isNewline(r rune) bool { return classifyRune(r) == breakNewline }

// isWhitespace reports whether r hangs at the end of a line.
func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\u3000'
}

// isControl reports whether r is laid out without a visible glyph.
func isControl(r rune) bool {
	return r == '\t' || r == '\u200B' || isNewline(r) || unicode.Is(unicode.Cc, r)
}

// findBreaks returns the break opportunity before every rune of text.
// Index 0 is always breakNo.
func findBreaks(text []rune, mode style.WordWrapping) []breakOpportunity {
	n := len(text)
	breaks := make([]breakOpportunity, n)
	if n == 0 {
		return breaks
	}
	classes := make([]breakClass, n)
	for i, r := range text {
		classes[i] = classifyRune(r)
	}
	for i := 1; i < n; i++ {
		breaks[i] = computeBreak(text, classes, i, mode)
	}
	return breaks
}

func computeBreak(text []rune, classes []breakClass, i int, mode style.WordWrapping) breakOpportunity {
	prev, curr := text[i-1], text[i]
	prevClass, currClass := classes[i-1], classes[i]

	if prevClass == breakNewline {
		// CR LF is one separator.
		if prev == '\r' && curr == '\n' {
			return breakNo
		}
		return breakMandatory
	}
	if mode == style.WrapNone {
		return breakNo
	}
	// Separators stay on the line they end.
	if currClass == breakNewline || currClass == breakSpace {
		return breakNo
	}
	if currClass == breakClose {
		return breakNo
	}
	if prevClass == breakOpen {
		return breakNo
	}
	if prevClass == breakZero {
		return breakAllowed
	}
	if mode == style.WrapCharacter {
		return breakAllowed
	}
	return computeWordBreak(prev, curr, prevClass, currClass)
}

func computeWordBreak(prev, curr rune, prevClass, currClass breakClass) breakOpportunity {
	if prevClass == breakSpace {
		return breakAllowed
	}
	if prevClass == breakHyphen && currClass != breakHyphen && unicode.IsLetter(curr) {
		return breakAllowed
	}
	if currClass == breakIdeographic {
		return breakAllowed
	}
	if prevClass == breakIdeographic && currClass != breakClose {
		return breakAllowed
	}
	if unicode.IsPunct(prev) && prev != '\'' && prevClass != breakClose && unicode.IsLetter(curr) {
		return breakAllowed
	}
	return breakNo
}

// allowsEmergencyBreak reports whether a word wider than the line may be
// split between characters.
func allowsEmergencyBreak(mode style.WordWrapping) bool {
	return mode == style.WrapWord || mode == style.WrapEmergencyBreak || mode == style.WrapCharacter
}
