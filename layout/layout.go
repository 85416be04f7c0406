package layout

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/gogpu/textengine/style"
	"github.com/gogpu/textengine/stylecache"
)

// charProps is the resolved style of a character. Runs of characters share
// one *charProps until a range update gives them a copy.
type charProps struct {
	family    string
	weight    style.FontWeight
	fontStyle style.FontStyle
	stretch   style.FontStretch
	size      float32

	face    *stylecache.ResolvedFace
	metrics stylecache.FaceMetrics

	kerning       bool
	underline     bool
	strikethrough bool

	// render is the per-range render style; nil selects the layout default.
	render *stylecache.RenderStyle
}

func (p *charProps) sameShaping(q *charProps) bool {
	return p == q || (p.face == q.face && p.size == q.size && p.kerning == q.kerning)
}

type inlineSpan struct {
	start, end int // rune range
	obj        InlineObject
}

// TextLayout is shaped, styled text inside a layout box. It is created by
// an Engine and stays valid until dropped; fonts reloaded afterwards do not
// affect it.
//
// Metrics are computed lazily and cached until the box size or a style
// changes. A TextLayout is not safe for concurrent use.
type TextLayout struct {
	engine *Engine
	format *stylecache.Format

	// units is the layout text, including the hanging indent marker.
	units    []uint16
	runes    []rune
	runeUnit []int
	unitRune []int
	breaks   []breakOpportunity
	levels   []uint8
	baseRTL  bool

	hanging bool
	indent  float32

	maxWidth, maxHeight float32

	base         *charProps
	props        []*charProps
	defaultStyle *stylecache.RenderStyle
	inlines      []inlineSpan

	shaped   *shapeResult
	measured *measurement
}

func (l *TextLayout) setText(units []uint16) {
	l.units = units
	l.runes, l.runeUnit, l.unitRune = decodeUTF16(units)
	l.breaks = findBreaks(l.runes, l.format.Key.WordWrapping)
	l.levels, l.baseRTL = bidiLevels(l.runes)
}

// markerLen is the number of code units the hanging indent marker adds in
// front of the caller's text.
func (l *TextLayout) markerLen() int {
	if l.hanging {
		return 1
	}
	return 0
}

// Format returns the format the layout was created with.
func (l *TextLayout) Format() *stylecache.Format { return l.format }

// DefaultStyle returns the render style used where no range override
// applies.
func (l *TextLayout) DefaultStyle() *stylecache.RenderStyle { return l.defaultStyle }

// Text returns a copy of the caller's text.
func (l *TextLayout) Text() []uint16 {
	return append([]uint16(nil), l.units[l.markerLen():]...)
}

// Len returns the text length in UTF-16 code units.
func (l *TextLayout) Len() int { return len(l.units) - l.markerLen() }

// Indent returns the hanging indent, or zero when it is disabled.
func (l *TextLayout) Indent() float32 { return l.indent }

// MaxWidth returns the layout box width used for line breaking. With a
// hanging indent it is the outer width minus the indent.
func (l *TextLayout) MaxWidth() float32 { return l.maxWidth }

// MaxHeight returns the layout box height.
func (l *TextLayout) MaxHeight() float32 { return l.maxHeight }

// SetMaxWidth changes the box width. Shaping is kept; metrics are
// recomputed on next use. The hanging indent is subtracted as it is at
// creation.
func (l *TextLayout) SetMaxWidth(w float32) {
	w = sanitizeExtent(w - l.indent)
	if w != l.maxWidth {
		l.maxWidth = w
		l.measured = nil
	}
}

// SetMaxHeight changes the box height. Metrics are recomputed on next use.
func (l *TextLayout) SetMaxHeight(h float32) {
	h = sanitizeExtent(h)
	if h != l.maxHeight {
		l.maxHeight = h
		l.measured = nil
	}
}

// runeRange converts a caller range in code units to an internal rune range.
func (l *TextLayout) runeRange(start, length int) (int, int) {
	if start < 0 {
		length += start
		start = 0
	}
	u0 := min(start+l.markerLen(), len(l.units))
	u1 := u0
	if length > 0 {
		u1 = min(u0+length, len(l.units))
	}
	r0, r1 := l.unitRune[u0], l.unitRune[u1]
	if r1 < len(l.runes) && l.runeUnit[r1] < u1 {
		r1++
	}
	return r0, r1
}

// SetStyle applies the properties selected by mask from t to the text range
// [start, start+length). Positions are code unit offsets into the caller's
// text. Setting any of Color, DropShadowColor or Outline replaces the
// render style of the range with one built from all three fields of t.
//
// Face and size changes reshape the layout. On error the layout is not
// modified.
func (l *TextLayout) SetStyle(start, length int, mask style.PropertyMask, t style.TextStyle) error {
	if err := validateMasked(mask, t); err != nil {
		return err
	}
	r0, r1 := l.runeRange(start, length)
	if mask == 0 || r0 >= r1 {
		return nil
	}

	var render *stylecache.RenderStyle
	if mask.Has(style.PropRender) {
		render = l.engine.cache.RenderStyle(t)
	}
	derived := make(map[*charProps]*charProps)
	faces := make(map[faceRequest]*stylecache.ResolvedFace)
	updated := make([]*charProps, r1-r0)
	for i := r0; i < r1; i++ {
		old := l.props[i]
		p, ok := derived[old]
		if !ok {
			var err error
			p, err = l.derive(old, mask, t, render, faces)
			if err != nil {
				return err
			}
			derived[old] = p
		}
		updated[i-r0] = p
	}
	copy(l.props[r0:r1], updated)

	if mask.Has(style.PropShaping) {
		l.shaped = nil
	}
	l.measured = nil
	return nil
}

type faceRequest struct {
	family  string
	weight  style.FontWeight
	fstyle  style.FontStyle
	stretch style.FontStretch
}

func (l *TextLayout) derive(old *charProps, mask style.PropertyMask, t style.TextStyle, render *stylecache.RenderStyle, faces map[faceRequest]*stylecache.ResolvedFace) (*charProps, error) {
	p := *old
	if mask.Has(style.PropFontFace) {
		p.family = t.FontFace
	}
	if mask.Has(style.PropFontWeight) {
		p.weight = t.FontWeight.Resolved()
	}
	if mask.Has(style.PropFontStyle) {
		p.fontStyle = t.FontStyle
	}
	if mask.Has(style.PropFontStretch) {
		p.stretch = t.FontStretch
	}
	if mask.Has(style.PropFontSize) {
		p.size = t.FontSize
	}
	if mask.Has(style.PropKerning) {
		p.kerning = t.Kerning
	}
	if mask.Has(style.PropUnderline) {
		p.underline = t.Underline
	}
	if mask.Has(style.PropLineThrough) {
		p.strikethrough = t.Strikethrough
	}
	if render != nil {
		p.render = render
	}

	if mask.Has(style.PropFontFace | style.PropFontWeight | style.PropFontStyle | style.PropFontStretch) {
		req := faceRequest{p.family, p.weight, p.fontStyle, p.stretch}
		face, ok := faces[req]
		if !ok {
			var err error
			face, err = l.engine.cache.ResolveFace(req.family, req.weight, req.fstyle, req.stretch)
			if err != nil {
				return nil, err
			}
			faces[req] = face
		}
		p.face = face
	}
	if p.face != old.face || p.size != old.size {
		p.metrics = p.face.Metrics(p.size)
	}
	return &p, nil
}

func validateMasked(mask style.PropertyMask, t style.TextStyle) error {
	switch {
	case mask.Has(style.PropFontFace) && t.FontFace == "":
		return fmt.Errorf("%w: font face is required", style.ErrInvalidStyle)
	case mask.Has(style.PropFontSize) && (!(t.FontSize > 0) || math.IsInf(float64(t.FontSize), 0)):
		return fmt.Errorf("%w: font size %v", style.ErrInvalidStyle, t.FontSize)
	case mask.Has(style.PropFontWeight) && (t.FontWeight < style.WeightUndefined || t.FontWeight > 999):
		return fmt.Errorf("%w: font weight %d", style.ErrInvalidStyle, t.FontWeight)
	case mask.Has(style.PropFontStyle) && (t.FontStyle < style.StyleNormal || t.FontStyle > style.StyleItalic):
		return fmt.Errorf("%w: font style %d", style.ErrInvalidStyle, t.FontStyle)
	case mask.Has(style.PropFontStretch) && (t.FontStretch < style.StretchUndefined || t.FontStretch > style.StretchUltraExpanded):
		return fmt.Errorf("%w: font stretch %d", style.ErrInvalidStyle, t.FontStretch)
	case mask.Has(style.PropOutline) && (!(t.OutlineWidth >= 0) || math.IsInf(float64(t.OutlineWidth), 0)):
		return fmt.Errorf("%w: outline width %v", style.ErrInvalidStyle, t.OutlineWidth)
	}
	return nil
}

// SetInlineObject replaces the text range [start, start+length) with obj.
// The range becomes a single cluster as wide as the object. A nil obj
// removes any object starting at start.
func (l *TextLayout) SetInlineObject(start, length int, obj InlineObject) error {
	r0, r1 := l.runeRange(start, length)
	if obj != nil && r0 >= r1 {
		return fmt.Errorf("%w: empty inline object range", style.ErrInvalidStyle)
	}
	kept := l.inlines[:0:0]
	for _, s := range l.inlines {
		switch {
		case l.hanging && s.start == 0:
			kept = append(kept, s)
		case obj == nil:
			if s.start != r0 {
				kept = append(kept, s)
			}
		case s.end <= r0 || s.start >= r1:
			kept = append(kept, s)
		}
	}
	if obj != nil {
		kept = append(kept, inlineSpan{start: r0, end: r1, obj: obj})
	}
	slices.SortFunc(kept, func(a, b inlineSpan) int { return cmp.Compare(a.start, b.start) })
	l.inlines = kept
	l.shaped = nil
	l.measured = nil
	return nil
}
