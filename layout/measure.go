package layout

import (
	"math"
	"slices"

	"github.com/gogpu/textengine/style"
)

// widthEpsilon absorbs float rounding when comparing against the box.
const widthEpsilon = 1.0 / 256

// Metrics describes the laid out text as a whole.
type Metrics struct {
	// Left is the x of the leftmost line content, relative to the layout
	// origin.
	Left float32
	// Top is the y of the first line, relative to the layout origin.
	Top float32
	// Width is the width of the widest line, excluding trailing whitespace.
	Width float32
	// WidthIncludingTrailingWhitespace is the width of the widest line,
	// including trailing whitespace.
	WidthIncludingTrailingWhitespace float32
	// Height is the sum of the line heights.
	Height float32
	// LayoutWidth and LayoutHeight are the layout box the text was fitted
	// into.
	LayoutWidth  float32
	LayoutHeight float32
	// MaxBidiReorderingDepth is the highest bidi level plus one.
	MaxBidiReorderingDepth int
	// LineCount is the number of visible lines.
	LineCount int
}

// LineMetrics describes one line. Lengths are in UTF-16 code units.
type LineMetrics struct {
	// Length includes trailing whitespace and the line separator.
	Length                   int
	TrailingWhitespaceLength int
	NewlineLength            int
	Height                   float32
	// Baseline is the distance from the line top to its baseline.
	Baseline float32
	// IsTrimmed reports whether the line was cut to fit the box.
	IsTrimmed bool
}

type lineInfo struct {
	start, end int // rune range, separator included
	contentEnd int // end of content before trailing whitespace
	visibleEnd int // end of drawn content; before contentEnd when trimmed
	trailing   int // trailing whitespace runes
	newline    int // separator runes

	width   float32
	widthWS float32
	left    float32

	top      float32
	height   float32
	baseline float32

	paraEnd  bool
	trimmed  bool
	ellipsis *ellipsisRun

	// order lists the drawn cluster heads in visual order.
	order []int
}

type ellipsisRun struct {
	x      float32
	width  float32
	props  *charProps
	glyphs []Glyph
}

type measurement struct {
	lines []lineInfo
	// x and adv hold the left edge and advance of every cluster head.
	// Other runes repeat the x of their head with a zero advance.
	x, adv  []float32
	metrics Metrics
}

// Metrics returns the layout metrics, measuring if needed.
func (l *TextLayout) Metrics() Metrics { return l.measure().metrics }

// LineMetrics fills buf with one entry per visible line. It returns the
// number of lines and true, or the required length and false when buf is
// too small; buf is left untouched in that case.
func (l *TextLayout) LineMetrics(buf []LineMetrics) (int, bool) {
	m := l.measure()
	n := len(m.lines)
	if len(buf) < n {
		return n, false
	}
	for i, ln := range m.lines {
		sepStart := ln.end - ln.newline
		length := l.runeUnit[ln.end] - l.runeUnit[ln.start]
		if l.hanging && ln.start == 0 && ln.end > 0 {
			length--
		}
		buf[i] = LineMetrics{
			Length:                   length,
			TrailingWhitespaceLength: l.runeUnit[sepStart] - l.runeUnit[ln.contentEnd],
			NewlineLength:            l.runeUnit[ln.end] - l.runeUnit[sepStart],
			Height:                   ln.height,
			Baseline:                 ln.baseline,
			IsTrimmed:                ln.trimmed,
		}
	}
	return n, true
}

func (l *TextLayout) measure() *measurement {
	if l.measured != nil {
		return l.measured
	}
	s := l.ensureShaped()
	n := len(l.runes)
	m := &measurement{x: make([]float32, n), adv: make([]float32, n)}
	key := l.format.Key

	lines := l.breakLines(s, m.adv)
	for i := range lines {
		l.finishLine(s, &lines[i], m.adv)
	}

	trimming := key.Trimming != style.TrimNone
	visible := len(lines)
	if trimming {
		var y float32
		for i := range lines {
			if i > 0 && y+lines[i].height > l.maxHeight+widthEpsilon {
				visible = i
				break
			}
			y += lines[i].height
		}
	}
	cut := visible < len(lines)
	if cut {
		for _, ln := range lines[visible:] {
			for i := ln.start; i < ln.end; i++ {
				m.adv[i] = 0
			}
		}
		lines = lines[:visible]
	}
	if trimming {
		for i := range lines {
			ln := &lines[i]
			if ln.width > l.maxWidth+widthEpsilon || (cut && i == len(lines)-1) {
				l.trimLine(s, ln, m.adv)
			}
		}
	}

	var total float32
	for i := range lines {
		ln := &lines[i]
		slack := l.maxWidth - ln.width
		switch key.TextAlignment {
		case style.AlignRight:
			ln.left = slack
		case style.AlignCenter:
			ln.left = slack / 2
		case style.AlignJustified:
			if !ln.paraEnd && !ln.trimmed && slack > 0 {
				l.justify(s, ln, m.adv, slack)
			}
		}
		total += ln.height
	}

	var top float32
	switch key.ParagraphAlignment {
	case style.ParagraphFar:
		top = l.maxHeight - total
	case style.ParagraphCenter:
		top = (l.maxHeight - total) / 2
	}

	met := Metrics{
		Top:                    top,
		Height:                 total,
		LayoutWidth:            l.maxWidth,
		LayoutHeight:           l.maxHeight,
		MaxBidiReorderingDepth: int(slices.Max(append([]uint8{0}, l.levels...))) + 1,
		LineCount:              len(lines),
		Left:                   float32(math.Inf(1)),
	}
	y := top
	for i := range lines {
		ln := &lines[i]
		ln.top = y
		y += ln.height
		left := l.placeLine(s, ln, m)
		met.Left = min(met.Left, left+l.indent)
		met.Width = max(met.Width, ln.width)
		met.WidthIncludingTrailingWhitespace = max(met.WidthIncludingTrailingWhitespace, ln.widthWS)
	}
	m.lines = lines
	m.metrics = met
	l.measured = m
	return m
}

// breakLines splits the text into lines and records the advance of every
// cluster head, with tabs resolved against their line.
func (l *TextLayout) breakLines(s *shapeResult, adv []float32) []lineInfo {
	n := len(l.runes)
	if n == 0 {
		return []lineInfo{{}}
	}
	mode := l.format.Key.WordWrapping
	wrap := mode != style.WrapNone
	emergency := allowsEmergencyBreak(mode)
	limit := l.maxWidth + widthEpsilon

	var lines []lineInfo
	for start := 0; start < n; {
		var pen float32
		lastBreak, end := -1, n
		for i := start; i < n; i = s.nextHead(i) {
			if i > start {
				if l.breaks[i] == breakMandatory {
					end = i
					break
				}
				if l.breaks[i] == breakAllowed {
					lastBreak = i
				}
			}
			a := l.headAdvance(s, i, pen)
			if wrap && i > start && !l.hangs(s, i) && pen+a > limit {
				if lastBreak > start {
					end = lastBreak
					break
				}
				if emergency {
					end = i
					break
				}
			}
			adv[i] = a
			pen += a
		}
		lines = append(lines, lineInfo{start: start, end: end})
		start = end
	}
	if isNewline(l.runes[n-1]) && s.clusters[n-1].inline == nil {
		lines = append(lines, lineInfo{start: n, end: n})
	}
	return lines
}

// headAdvance returns the advance of the cluster at head i when the pen is
// at x, relative to the line start.
func (l *TextLayout) headAdvance(s *shapeResult, i int, x float32) float32 {
	c := &s.clusters[i]
	if c.inline != nil {
		return c.advance
	}
	switch r := l.runes[i]; {
	case r == '\t':
		tab := l.format.TabStop
		next := (float32(math.Floor(float64((x+widthEpsilon)/tab))) + 1) * tab
		return next - x
	case isNewline(r):
		return 0
	}
	return c.advance
}

// hangs reports whether the cluster at head i may extend past the box.
func (l *TextLayout) hangs(s *shapeResult, i int) bool {
	if s.clusters[i].inline != nil {
		return false
	}
	r := l.runes[i]
	return isWhitespace(r) || isNewline(r)
}

func (l *TextLayout) finishLine(s *shapeResult, ln *lineInfo, adv []float32) {
	e := ln.end
	for e > ln.start && isNewline(l.runes[e-1]) && s.clusters[e-1].inline == nil {
		e--
	}
	ln.newline = ln.end - e
	c := e
	for c > ln.start {
		h := s.clusters[c-1].head
		if !l.hangs(s, h) {
			break
		}
		c = h
	}
	ln.trailing = e - c
	ln.contentEnd = c
	ln.visibleEnd = c
	ln.paraEnd = ln.newline > 0 || ln.end == len(l.runes)

	for i := ln.start; i < e; i = s.nextHead(i) {
		if i < c {
			ln.width += adv[i]
		}
		ln.widthWS += adv[i]
	}
	l.lineHeight(s, ln)
}

// lineHeight sets the height and baseline of a line from the tallest face
// and inline object on it.
func (l *TextLayout) lineHeight(s *shapeResult, ln *lineInfo) {
	var ascent, descent, gap float32
	text := false
	for i := ln.start; i < ln.end; i = s.nextHead(i) {
		if obj := s.clusters[i].inline; obj != nil {
			om := obj.Metrics()
			ascent = max(ascent, om.Baseline)
			descent = max(descent, om.Height-om.Baseline)
			continue
		}
		fm := l.props[i].metrics
		ascent = max(ascent, fm.Ascent)
		descent = max(descent, fm.Descent)
		gap = max(gap, fm.LineGap)
		text = true
	}
	if !text {
		fm := l.base.metrics
		if i := min(ln.start, len(l.props)-1); i >= 0 {
			fm = l.props[i].metrics
		}
		ascent = max(ascent, fm.Ascent)
		descent = max(descent, fm.Descent)
		gap = max(gap, fm.LineGap)
	}

	key := l.format.Key
	switch key.LineSpacing {
	case style.SpacingUniform:
		ln.height = key.LineHeight
		ln.baseline = 0.8 * key.LineHeight
	case style.SpacingProportional:
		ln.height = (ascent + descent + gap) * key.LineHeight
		ln.baseline = ascent * key.LineHeight
	default:
		ln.height = ascent + descent + gap
		ln.baseline = ascent
	}
}

// trimLine cuts a line so that its content and the trimming sign fit the
// box width.
func (l *TextLayout) trimLine(s *shapeResult, ln *lineInfo, adv []float32) {
	var ell *ellipsisRun
	if sign := l.format.Ellipsis; sign != nil {
		props := l.base
		if i := min(max(ln.contentEnd-1, ln.start), len(l.props)-1); i >= 0 {
			props = l.props[i]
		}
		text := []rune(sign.For(props.face.Face))
		ell = &ellipsisRun{props: props}
		ell.glyphs = l.engine.shaper.Shape(ShapeRequest{
			Text:    text,
			End:     len(text),
			Face:    props.face,
			Size:    props.size,
			Kerning: props.kerning,
		})
		for _, g := range ell.glyphs {
			ell.width += g.Advance
		}
	}
	var ew float32
	if ell != nil {
		ew = ell.width
	}

	avail := l.maxWidth - ew + widthEpsilon
	var pen float32
	k, lastWord := ln.start, -1
	for i := ln.start; i < ln.contentEnd; i = s.nextHead(i) {
		if i > ln.start && l.breaks[i] == breakAllowed {
			lastWord = i
		}
		if pen+adv[i] > avail {
			break
		}
		pen += adv[i]
		k = s.nextHead(i)
	}
	if l.format.Key.Trimming == style.TrimWord && k < ln.contentEnd && lastWord > ln.start && lastWord <= k {
		k = lastWord
	}
	for k > ln.start && s.clusters[k-1].inline == nil && isWhitespace(l.runes[k-1]) {
		k--
	}
	if l.hanging && ln.start == 0 {
		k = max(k, min(1, ln.end))
	}

	ln.visibleEnd = k
	ln.trimmed = true
	ln.ellipsis = ell
	ln.width = ew
	for i := ln.start; i < ln.end; i = s.nextHead(i) {
		if i < k {
			ln.width += adv[i]
			continue
		}
		adv[i] = 0
	}
	ln.widthWS = ln.width
}

// justify spreads slack over the inter-word spaces of a line.
func (l *TextLayout) justify(s *shapeResult, ln *lineInfo, adv []float32, slack float32) {
	var spaces []int
	for i := ln.start; i < ln.contentEnd; i = s.nextHead(i) {
		if s.clusters[i].inline == nil && isWhitespace(l.runes[i]) && l.runes[i] != '\t' {
			spaces = append(spaces, i)
		}
	}
	if len(spaces) == 0 {
		return
	}
	extra := slack / float32(len(spaces))
	for _, i := range spaces {
		adv[i] += extra
	}
	ln.width += slack
	ln.widthWS += slack
}

// placeLine orders the clusters of a line visually and assigns their x
// positions. It returns the left edge of the line content.
func (l *TextLayout) placeLine(s *shapeResult, ln *lineInfo, m *measurement) float32 {
	shown := ln.end
	if ln.trimmed {
		shown = ln.visibleEnd
	}
	var heads []int
	var levels []uint8
	base := uint8(0)
	if l.baseRTL {
		base = 1
	}
	for i := ln.start; i < shown; i = s.nextHead(i) {
		heads = append(heads, i)
		if i >= ln.contentEnd {
			levels = append(levels, base)
		} else {
			levels = append(levels, l.levels[i])
		}
	}
	ln.order = visualOrder(heads, levels)

	left := ln.left
	pen := ln.left
	right := ln.left
	for _, h := range ln.order {
		m.x[h] = pen
		left = min(left, pen)
		pen += m.adv[h]
		if h < ln.visibleEnd {
			right = max(right, pen)
		}
	}
	if ln.ellipsis != nil {
		ln.ellipsis.x = right
	}
	for i := ln.start; i < ln.end; i++ {
		switch h := s.clusters[i].head; {
		case i >= shown:
			m.x[i] = right
			m.adv[i] = 0
		case h != i:
			m.x[i] = m.x[h]
		}
	}
	return left
}

// visualOrder reorders heads by reversing every maximal sequence at or
// above each odd level, from the highest level down.
func visualOrder(heads []int, levels []uint8) []int {
	order := slices.Clone(heads)
	if len(levels) == 0 {
		return order
	}
	lv := slices.Clone(levels)
	hi := slices.Max(lv)
	for lvl := hi; lvl >= 1; lvl-- {
		for i := 0; i < len(order); {
			if lv[i] < lvl {
				i++
				continue
			}
			j := i
			for j < len(order) && lv[j] >= lvl {
				j++
			}
			slices.Reverse(order[i:j])
			slices.Reverse(lv[i:j])
			i = j
		}
	}
	return order
}
