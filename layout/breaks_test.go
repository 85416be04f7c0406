package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gogpu/textengine/style"
)

func TestFindBreaks(t *testing.T) {
	tests := []struct {
		name string
		text string
		mode style.WordWrapping
		want map[int]breakOpportunity
	}{
		{"space", "ab cd", style.WrapWord, map[int]breakOpportunity{1: breakNo, 2: breakNo, 3: breakAllowed, 4: breakNo}},
		{"newline", "a\nb", style.WrapWord, map[int]breakOpportunity{1: breakNo, 2: breakMandatory}},
		{"crlf", "a\r\nb", style.WrapWord, map[int]breakOpportunity{2: breakNo, 3: breakMandatory}},
		{"line separator", "a\u2028b", style.WrapNone, map[int]breakOpportunity{2: breakMandatory}},
		{"paragraph separator", "a\u2029b", style.WrapNone, map[int]breakOpportunity{2: breakMandatory}},
		{"nowrap", "ab cd", style.WrapNone, map[int]breakOpportunity{3: breakNo}},
		{"character", "abc", style.WrapCharacter, map[int]breakOpportunity{1: breakAllowed, 2: breakAllowed}},
		{"open punctuation", "(a", style.WrapCharacter, map[int]breakOpportunity{1: breakNo}},
		{"close punctuation", "a)", style.WrapCharacter, map[int]breakOpportunity{1: breakNo}},
		{"hyphen", "ab-cd", style.WrapWord, map[int]breakOpportunity{2: breakNo, 3: breakAllowed}},
		{"ideographs", "\u4E2D\u6587", style.WrapWord, map[int]breakOpportunity{1: breakAllowed}},
		{"zero width space", "ab\u200Bcd", style.WrapWord, map[int]breakOpportunity{3: breakAllowed}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			breaks := findBreaks([]rune(tt.text), tt.mode)
			assert.Equal(t, breakNo, breaks[0])
			for i, want := range tt.want {
				assert.Equal(t, want, breaks[i], "break before rune %d", i)
			}
		})
	}
}

func TestFindBreaksEmpty(t *testing.T) {
	assert.Empty(t, findBreaks(nil, style.WrapWord))
}

func TestAllowsEmergencyBreak(t *testing.T) {
	assert.True(t, allowsEmergencyBreak(style.WrapWord))
	assert.True(t, allowsEmergencyBreak(style.WrapEmergencyBreak))
	assert.True(t, allowsEmergencyBreak(style.WrapCharacter))
	assert.False(t, allowsEmergencyBreak(style.WrapWholeWord))
	assert.False(t, allowsEmergencyBreak(style.WrapNone))
}

func TestRuneClasses(t *testing.T) {
	assert.True(t, isWhitespace(' '))
	assert.True(t, isWhitespace('\t'))
	assert.False(t, isWhitespace('\n'))
	assert.True(t, isNewline('\r'))
	assert.True(t, isNewline('\u2028'))
	assert.True(t, isControl('\t'))
	assert.True(t, isControl('\u200B'))
	assert.False(t, isControl('a'))
}
