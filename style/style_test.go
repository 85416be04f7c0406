package style

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestARGBColorDividesBy256(t *testing.T) {
	c := ARGB(0xFF804020).Color()
	assert.Equal(t, float32(128)/256, c.R)
	assert.Equal(t, float32(64)/256, c.G)
	assert.Equal(t, float32(32)/256, c.B)
	assert.Equal(t, float32(255)/256, c.A)

	assert.Equal(t, float32(0.5), c.R)
	assert.Equal(t, float32(0.99609375), c.A)
}

func TestARGBChannels(t *testing.T) {
	c := ARGB(0x11223344)
	assert.Equal(t, uint8(0x11), c.A())
	assert.Equal(t, uint8(0x22), c.R())
	assert.Equal(t, uint8(0x33), c.G())
	assert.Equal(t, uint8(0x44), c.B())
	assert.False(t, c.IsTransparent())
	assert.True(t, ARGB(0x00FFFFFF).IsTransparent())
	assert.Equal(t, "#11223344", c.String())
}

func TestColorRGBAPremultiplies(t *testing.T) {
	r, g, b, a := Color{R: 1, G: 0.5, B: 0, A: 0.5}.RGBA()
	assert.Equal(t, uint32(0x8000), a)
	assert.Equal(t, uint32(0x8000), r)
	assert.Equal(t, uint32(0x4000), g)
	assert.Equal(t, uint32(0), b)

	_, _, _, a = Color{A: 1}.WithOpacity(0.25).RGBA()
	assert.Equal(t, uint32(0x4000), a)
}

func TestFormatKeyIgnoresRenderFields(t *testing.T) {
	p := DefaultParagraphStyle()
	base := DefaultTextStyle("Go", 12)
	key := NewFormatKey(p, base)

	variants := map[string]func(*TextStyle){
		"color":         func(t *TextStyle) { t.Color = 0xFFFF0000 },
		"underline":     func(t *TextStyle) { t.Underline = true },
		"strikethrough": func(t *TextStyle) { t.Strikethrough = true },
		"kerning":       func(t *TextStyle) { t.Kerning = !t.Kerning },
		"shadow":        func(t *TextStyle) { t.DropShadowColor = 0x80000000 },
		"outline": func(t *TextStyle) {
			t.OutlineColor = 0xFF00FF00
			t.OutlineWidth = 2
		},
	}
	for name, mutate := range variants {
		t.Run(name, func(t *testing.T) {
			ts := base
			mutate(&ts)
			assert.Equal(t, key, NewFormatKey(p, ts))
		})
	}
}

func TestFormatKeyTracksShapingFields(t *testing.T) {
	p := DefaultParagraphStyle()
	base := DefaultTextStyle("Go", 12)
	key := NewFormatKey(p, base)

	ts := base
	ts.FontSize = 13
	assert.NotEqual(t, key, NewFormatKey(p, ts))

	ts = base
	ts.FontWeight = WeightBold
	assert.NotEqual(t, key, NewFormatKey(p, ts))

	pp := p
	pp.WordWrapping = WrapNone
	assert.NotEqual(t, key, NewFormatKey(pp, base))

	pp = p
	pp.HangingIndent = true
	pp.Indent = 20
	assert.Equal(t, key, NewFormatKey(pp, base), "indent is applied by the layout, not the format")
}

func TestTextStyleValidate(t *testing.T) {
	valid := DefaultTextStyle("Go", 12)
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*TextStyle)
	}{
		{"empty face", func(t *TextStyle) { t.FontFace = "" }},
		{"zero size", func(t *TextStyle) { t.FontSize = 0 }},
		{"nan size", func(t *TextStyle) { t.FontSize = float32(math.NaN()) }},
		{"weight", func(t *TextStyle) { t.FontWeight = 1000 }},
		{"stretch", func(t *TextStyle) { t.FontStretch = 10 }},
		{"style", func(t *TextStyle) { t.FontStyle = 3 }},
		{"outline", func(t *TextStyle) { t.OutlineWidth = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := valid
			tt.mutate(&ts)
			assert.ErrorIs(t, ts.Validate(), ErrInvalidStyle)
		})
	}
}

func TestUndefinedWeight(t *testing.T) {
	ts := TextStyle{FontFace: "Go", FontSize: 12}
	assert.NoError(t, ts.Validate())
	assert.Equal(t, WeightNormal, WeightUndefined.Resolved())
	assert.Equal(t, WeightBold, WeightBold.Resolved())

	p := DefaultParagraphStyle()
	assert.Equal(t, NewFormatKey(p, DefaultTextStyle("Go", 12)).FontWeight, NewFormatKey(p, ts).FontWeight)

	ts.FontWeight = -1
	assert.ErrorIs(t, ts.Validate(), ErrInvalidStyle)
}

func TestParagraphStyleValidate(t *testing.T) {
	assert.NoError(t, DefaultParagraphStyle().Validate())

	p := DefaultParagraphStyle()
	p.LineSpacing = SpacingUniform
	assert.ErrorIs(t, p.Validate(), ErrInvalidStyle, "uniform spacing needs a height")
	p.LineHeight = 20
	assert.NoError(t, p.Validate())

	p = DefaultParagraphStyle()
	p.Indent = -1
	assert.ErrorIs(t, p.Validate(), ErrInvalidStyle)

	p = DefaultParagraphStyle()
	p.WordWrapping = 9
	assert.ErrorIs(t, p.Validate(), ErrInvalidStyle)
}

func TestStretchFactor(t *testing.T) {
	assert.Equal(t, float32(1), StretchUndefined.Factor())
	assert.Equal(t, float32(0.5), StretchUltraCondensed.Factor())
	assert.Equal(t, float32(2), StretchUltraExpanded.Factor())
	assert.Equal(t, StretchCondensed, StretchFromFactor(0.75))
	assert.Equal(t, StretchNormal, StretchFromFactor(1))
	assert.Equal(t, StretchExpanded, StretchFromFactor(1.3))
}

func TestPropertyMask(t *testing.T) {
	m := PropFontSize | PropColor
	assert.True(t, m.Has(PropShaping))
	assert.True(t, m.Has(PropRender))
	assert.False(t, m.Has(PropUnderline))
	assert.True(t, PropAll.Has(PropOutline))
}
