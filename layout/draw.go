package layout

import (
	"github.com/gogpu/textengine/stylecache"
)

// DrawContext carries the per-call drawing state to a Renderer.
type DrawContext struct {
	// Default is the render style of text without a range override.
	Default *stylecache.RenderStyle
	// Opacity scales every color drawn, in [0, 1].
	Opacity float32
}

// Effective returns effect, or the default style when effect is nil.
func (c *DrawContext) Effective(effect *stylecache.RenderStyle) *stylecache.RenderStyle {
	if effect != nil {
		return effect
	}
	return c.Default
}

// GlyphRun is a sequence of glyphs sharing one face and size. Glyphs are in
// visual order, left to right from the run origin.
type GlyphRun struct {
	Face *stylecache.ResolvedFace
	Size float32
	// Glyphs, Advances and Offsets have equal length. The pen moves right
	// by Advances[i] after glyph i; Offsets displace a glyph from the pen
	// with Y positive upwards.
	Glyphs   []uint16
	Advances []float32
	Offsets  []GlyphOffset
	// BidiLevel is the embedding level of the text the run came from.
	BidiLevel uint8
	// TextPosition is the code unit offset of the first character of the
	// run in the layout text.
	TextPosition int
}

// GlyphOffset displaces a glyph from its pen position.
type GlyphOffset struct {
	X, Y float32
}

// Width returns the sum of the run advances.
func (g *GlyphRun) Width() float32 {
	var w float32
	for _, a := range g.Advances {
		w += a
	}
	return w
}

// Decoration describes an underline or strikethrough.
type Decoration struct {
	Width     float32
	Thickness float32
	// Offset is the distance from the baseline to the top edge of the
	// line, positive downwards.
	Offset    float32
	BidiLevel uint8
}

// InlineMetrics is the box of an inline object.
type InlineMetrics struct {
	Width  float32
	Height float32
	// Baseline is the distance from the top of the box to the baseline.
	Baseline float32
}

// InlineObject is a non-text element placed in the text flow.
type InlineObject interface {
	Metrics() InlineMetrics
	// Draw renders the object with its top-left corner at (x, y).
	Draw(ctx *DrawContext, r Renderer, x, y float32, rtl bool, effect *stylecache.RenderStyle) error
}

// Renderer receives the drawing callbacks of TextLayout.Draw.
// Coordinates are logical pixels. Glyph runs and decorations are
// positioned at their baseline origin.
type Renderer interface {
	DrawGlyphRun(ctx *DrawContext, x, y float32, run *GlyphRun, effect *stylecache.RenderStyle) error
	DrawUnderline(ctx *DrawContext, x, y float32, d *Decoration, effect *stylecache.RenderStyle) error
	DrawStrikethrough(ctx *DrawContext, x, y float32, d *Decoration, effect *stylecache.RenderStyle) error
	DrawInlineObject(ctx *DrawContext, x, y float32, obj InlineObject, rtl bool, effect *stylecache.RenderStyle) error
}

// hangingMarker is the inline object that pulls the first line back by
// the hanging indent. It has a negative width and draws nothing.
type hangingMarker struct {
	width float32
}

func (m hangingMarker) Metrics() InlineMetrics { return InlineMetrics{Width: m.width} }

func (hangingMarker) Draw(*DrawContext, Renderer, float32, float32, bool, *stylecache.RenderStyle) error {
	return nil
}

// Draw renders the layout with its origin at (x, y). With a hanging indent
// the text is drawn Indent pixels to the right so that the first line
// starts at x. Drawing stops at the first renderer error.
func (l *TextLayout) Draw(r Renderer, x, y, opacity float32) error {
	m := l.measure()
	s := l.shaped
	ctx := &DrawContext{Default: l.defaultStyle, Opacity: opacity}
	x += l.indent

	for li := range m.lines {
		ln := &m.lines[li]
		baseline := y + ln.top + ln.baseline
		for _, seg := range l.segments(s, ln) {
			if err := l.drawSegment(r, ctx, x, baseline, m, seg); err != nil {
				return err
			}
		}
		if e := ln.ellipsis; e != nil && len(e.glyphs) > 0 {
			run := &GlyphRun{
				Face:         e.props.face,
				Size:         e.props.size,
				TextPosition: max(l.runeUnit[ln.visibleEnd]-l.markerLen(), 0),
			}
			for _, g := range e.glyphs {
				run.Glyphs = append(run.Glyphs, g.ID)
				run.Advances = append(run.Advances, g.Advance)
				run.Offsets = append(run.Offsets, GlyphOffset{X: g.XOffset, Y: g.YOffset})
			}
			if err := r.DrawGlyphRun(ctx, x+e.x, baseline, run, e.props.render); err != nil {
				return err
			}
		}
	}
	return nil
}

// segment is a visually contiguous part of a line drawn with one call.
type segment struct {
	heads    []int
	inline   InlineObject
	trailing bool
}

// segments groups the drawn clusters of a line into runs that share a
// shaped run, style and trailing whitespace state.
func (l *TextLayout) segments(s *shapeResult, ln *lineInfo) []segment {
	var segs []segment
	for _, h := range ln.order {
		c := &s.clusters[h]
		if c.inline != nil {
			segs = append(segs, segment{heads: []int{h}, inline: c.inline})
			continue
		}
		trailing := h >= ln.contentEnd
		if n := len(segs); n > 0 {
			last := &segs[n-1]
			p := last.heads[len(last.heads)-1]
			if last.inline == nil && last.trailing == trailing &&
				s.clusters[p].run == c.run && l.props[p] == l.props[h] {
				last.heads = append(last.heads, h)
				continue
			}
		}
		segs = append(segs, segment{heads: []int{h}, trailing: trailing})
	}
	return segs
}

func (l *TextLayout) drawSegment(r Renderer, ctx *DrawContext, x, baseline float32, m *measurement, seg segment) error {
	first := seg.heads[0]
	props := l.props[first]
	if seg.inline != nil {
		if _, ok := seg.inline.(hangingMarker); ok {
			return nil
		}
		om := seg.inline.Metrics()
		top := baseline - om.Baseline
		return r.DrawInlineObject(ctx, x+m.x[first], top, seg.inline, l.rtl(first), props.render)
	}

	s := l.shaped
	run := &GlyphRun{
		Face:         props.face,
		Size:         props.size,
		BidiLevel:    l.levels[first],
		TextPosition: max(l.runeUnit[first]-l.markerLen(), 0),
	}
	origin := m.x[first]
	var glyphX []float32
	var width float32
	for _, h := range seg.heads {
		width += m.adv[h]
		if isControl(l.runes[h]) {
			continue
		}
		c := &s.clusters[h]
		sr := &s.runs[c.run]
		pen := m.x[h]
		var natural float32
		for g := c.g0; g < c.g1; g++ {
			natural += sr.glyphs[g].Advance
		}
		extra := m.adv[h] - natural
		for g := c.g0; g < c.g1; g++ {
			gl := sr.glyphs[g]
			run.Glyphs = append(run.Glyphs, gl.ID)
			run.Offsets = append(run.Offsets, GlyphOffset{X: gl.XOffset, Y: gl.YOffset})
			adv := gl.Advance
			if g == c.g1-1 {
				adv += extra
			}
			run.Advances = append(run.Advances, adv)
			glyphX = append(glyphX, pen)
			pen += gl.Advance
		}
	}
	// Skipped control clusters move the following glyphs; fold the gaps
	// into the advances.
	for i := 0; i+1 < len(glyphX); i++ {
		run.Advances[i] = glyphX[i+1] - glyphX[i]
	}

	if len(run.Glyphs) > 0 {
		if err := r.DrawGlyphRun(ctx, x+glyphX[0], baseline, run, props.render); err != nil {
			return err
		}
	}
	if seg.trailing || width <= 0 {
		return nil
	}
	fm := props.metrics
	if props.underline {
		d := &Decoration{
			Width:     width,
			Thickness: fm.UnderlineThickness,
			Offset:    fm.UnderlinePosition,
			BidiLevel: run.BidiLevel,
		}
		if err := r.DrawUnderline(ctx, x+origin, baseline, d, props.render); err != nil {
			return err
		}
	}
	if props.strikethrough {
		d := &Decoration{
			Width:     width,
			Thickness: fm.StrikethroughThickness,
			Offset:    -fm.StrikethroughPosition,
			BidiLevel: run.BidiLevel,
		}
		if err := r.DrawStrikethrough(ctx, x+origin, baseline, d, props.render); err != nil {
			return err
		}
	}
	return nil
}
