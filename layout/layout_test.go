package layout

import (
	"testing"
	"unicode"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	textfont "github.com/gogpu/textengine/font"
	"github.com/gogpu/textengine/style"
	"github.com/gogpu/textengine/stylecache"
)

const delta = 0.01

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	cat := textfont.NewCatalog()
	_, err := cat.AddFontFile("Go-Regular.ttf", goregular.TTF)
	require.NoError(t, err)
	_, err = cat.AddFontFile("Go-Bold.ttf", gobold.TTF)
	require.NoError(t, err)
	cache, err := stylecache.New(cat)
	require.NoError(t, err)
	return NewEngine(cache, opts...)
}

func newLayout(t *testing.T, e *Engine, p style.ParagraphStyle, text string, w, h float32) *TextLayout {
	t.Helper()
	l, err := e.CreateLayoutString(p, style.DefaultTextStyle("Go", 12), text, w, h)
	require.NoError(t, err)
	return l
}

func nowrap() style.ParagraphStyle {
	p := style.DefaultParagraphStyle()
	p.WordWrapping = style.WrapNone
	return p
}

func lineMetrics(t *testing.T, l *TextLayout) []LineMetrics {
	t.Helper()
	n, ok := l.LineMetrics(nil)
	if ok {
		return nil
	}
	buf := make([]LineMetrics, n)
	n, ok = l.LineMetrics(buf)
	require.True(t, ok)
	return buf[:n]
}

func textWidth(t *testing.T, e *Engine, text string) float32 {
	t.Helper()
	return newLayout(t, e, nowrap(), text, 1e6, 1e6).Metrics().Width
}

func TestCreateLayoutRequiresFace(t *testing.T) {
	e := newTestEngine(t)
	ts := style.DefaultTextStyle("", 12)

	_, err := e.CreateLayoutString(style.DefaultParagraphStyle(), ts, "x", 100, 100)
	require.ErrorIs(t, err, style.ErrInvalidStyle)

	stats := e.Cache().FormatStats()
	assert.Zero(t, stats.Misses, "cache must not be consulted")
	assert.Zero(t, stats.Built)
}

func TestCreateLayoutInvalidSize(t *testing.T) {
	e := newTestEngine(t)
	for _, size := range []float32{0, -3} {
		_, err := e.CreateLayoutString(style.DefaultParagraphStyle(), style.DefaultTextStyle("Go", size), "x", 100, 100)
		assert.ErrorIs(t, err, style.ErrInvalidStyle)
	}
}

func TestCreateLayoutUnknownFace(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.CreateLayoutString(style.DefaultParagraphStyle(), style.DefaultTextStyle("Nope", 12), "x", 100, 100)
	require.ErrorIs(t, err, stylecache.ErrFaceNotFound)
	var se *stylecache.ShapingError
	assert.ErrorAs(t, err, &se)
}

func TestSingleLine(t *testing.T) {
	e := newTestEngine(t)
	l := newLayout(t, e, style.DefaultParagraphStyle(), "Hello", 1000, 1000)

	m := l.Metrics()
	fm := l.Format().Metrics
	assert.Equal(t, 1, m.LineCount)
	assert.Greater(t, m.Width, float32(0))
	assert.Less(t, m.Width, float32(1000))
	assert.InDelta(t, fm.Ascent+fm.Descent+fm.LineGap, m.Height, delta)
	assert.Equal(t, float32(1000), m.LayoutWidth)
	assert.Equal(t, float32(1000), m.LayoutHeight)
	assert.Equal(t, 1, m.MaxBidiReorderingDepth)
	assert.Zero(t, m.Top)
	assert.Zero(t, m.Left)
}

func TestSharedFormat(t *testing.T) {
	e := newTestEngine(t)
	a := newLayout(t, e, style.DefaultParagraphStyle(), "first", 100, 100)
	b := newLayout(t, e, style.DefaultParagraphStyle(), "second text", 100, 100)

	assert.NotSame(t, a, b)
	assert.Same(t, a.Format(), b.Format())
	assert.Equal(t, uint64(1), e.Cache().FormatStats().Built)
}

func TestEmptyText(t *testing.T) {
	e := newTestEngine(t)
	l := newLayout(t, e, style.DefaultParagraphStyle(), "", 100, 100)

	m := l.Metrics()
	assert.Equal(t, 1, m.LineCount)
	assert.Zero(t, m.Width)
	assert.Greater(t, m.Height, float32(0))

	lines := lineMetrics(t, l)
	require.Len(t, lines, 1)
	assert.Zero(t, lines[0].Length)
}

func TestWordWrap(t *testing.T) {
	e := newTestEngine(t)
	w := textWidth(t, e, "aaa bbb")
	l := newLayout(t, e, style.DefaultParagraphStyle(), "aaa bbb ccc", w+1, 1000)

	lines := lineMetrics(t, l)
	require.Len(t, lines, 2)
	assert.Equal(t, 8, lines[0].Length)
	assert.Equal(t, 1, lines[0].TrailingWhitespaceLength)
	assert.Equal(t, 3, lines[1].Length)
	assert.Zero(t, lines[1].TrailingWhitespaceLength)

	m := l.Metrics()
	assert.InDelta(t, w, m.Width, delta, "trailing whitespace is excluded")
	assert.Greater(t, m.WidthIncludingTrailingWhitespace, m.Width)
	assert.InDelta(t, lines[0].Height+lines[1].Height, m.Height, delta)
}

func TestEmergencyBreak(t *testing.T) {
	e := newTestEngine(t)
	for _, mode := range []style.WordWrapping{style.WrapWord, style.WrapEmergencyBreak, style.WrapCharacter} {
		p := style.DefaultParagraphStyle()
		p.WordWrapping = mode
		l := newLayout(t, e, p, "abcdefghijkl", 20, 1000)
		assert.Greater(t, l.Metrics().LineCount, 1, mode.String())
	}

	p := style.DefaultParagraphStyle()
	p.WordWrapping = style.WrapWholeWord
	l := newLayout(t, e, p, "abcdefghijkl", 20, 1000)
	assert.Equal(t, 1, l.Metrics().LineCount)
	assert.Greater(t, l.Metrics().Width, float32(20))
}

func TestWholeWordBreaksBetweenWords(t *testing.T) {
	e := newTestEngine(t)
	p := style.DefaultParagraphStyle()
	p.WordWrapping = style.WrapWholeWord
	l := newLayout(t, e, p, "abcdefghijkl mn", 30, 1000)

	lines := lineMetrics(t, l)
	require.Len(t, lines, 2)
	assert.Equal(t, 13, lines[0].Length)
	assert.Equal(t, 2, lines[1].Length)
}

func TestMandatoryBreaks(t *testing.T) {
	e := newTestEngine(t)
	l := newLayout(t, e, nowrap(), "a\nb\r\nc", 1000, 1000)

	lines := lineMetrics(t, l)
	require.Len(t, lines, 3)
	assert.Equal(t, []int{2, 3, 1}, []int{lines[0].Length, lines[1].Length, lines[2].Length})
	assert.Equal(t, []int{1, 2, 0}, []int{lines[0].NewlineLength, lines[1].NewlineLength, lines[2].NewlineLength})
}

func TestTrailingNewlineAddsLine(t *testing.T) {
	e := newTestEngine(t)
	l := newLayout(t, e, nowrap(), "a\n", 1000, 1000)
	lines := lineMetrics(t, l)
	require.Len(t, lines, 2)
	assert.Zero(t, lines[1].Length)
}

func TestLineMetricsTwoCall(t *testing.T) {
	e := newTestEngine(t)
	l := newLayout(t, e, nowrap(), "a\nb\nc", 1000, 1000)

	n, ok := l.LineMetrics(nil)
	assert.False(t, ok)
	assert.Equal(t, 3, n)

	small := make([]LineMetrics, 2)
	n, ok = l.LineMetrics(small)
	assert.False(t, ok)
	assert.Equal(t, 3, n)
	assert.Equal(t, make([]LineMetrics, 2), small, "buffer is untouched")

	buf := make([]LineMetrics, 4)
	n, ok = l.LineMetrics(buf)
	assert.True(t, ok)
	assert.Equal(t, 3, n)
	assert.Equal(t, 2, buf[0].Length)
}

func TestTabStops(t *testing.T) {
	e := newTestEngine(t)
	l := newLayout(t, e, nowrap(), "a\tb", 1000, 1000)

	x, _, _ := l.HitTestTextPosition(2, false)
	assert.InDelta(t, l.Format().TabStop, x, delta)
	assert.InDelta(t, 48, l.Format().TabStop, delta, "default tab stop is four ems")
}

func TestTextAlignment(t *testing.T) {
	e := newTestEngine(t)
	w := textWidth(t, e, "Hi")

	p := nowrap()
	p.TextAlignment = style.AlignRight
	l := newLayout(t, e, p, "Hi", 200, 100)
	x, _, _ := l.HitTestTextPosition(0, false)
	assert.InDelta(t, 200-w, x, delta)

	p.TextAlignment = style.AlignCenter
	l = newLayout(t, e, p, "Hi", 200, 100)
	x, _, _ = l.HitTestTextPosition(0, false)
	assert.InDelta(t, (200-w)/2, x, delta)
	assert.InDelta(t, (200-w)/2, l.Metrics().Left, delta)
}

func TestJustified(t *testing.T) {
	e := newTestEngine(t)
	w := textWidth(t, e, "aaa bbb ccc")
	p := style.DefaultParagraphStyle()
	p.TextAlignment = style.AlignJustified
	maxWidth := w + 5
	l := newLayout(t, e, p, "aaa bbb ccc ddd eee", maxWidth, 1000)

	lines := lineMetrics(t, l)
	require.Len(t, lines, 2)
	last := lines[0].Length - lines[0].TrailingWhitespaceLength - 1
	x, _, _ := l.HitTestTextPosition(last, true)
	assert.InDelta(t, maxWidth, x, delta, "first line fills the box")

	// The last line of a paragraph keeps its natural width.
	x, _, _ = l.HitTestTextPosition(len("aaa bbb ccc ddd eee")-1, true)
	assert.Less(t, x, maxWidth)
}

func TestParagraphAlignment(t *testing.T) {
	e := newTestEngine(t)
	p := style.DefaultParagraphStyle()
	p.ParagraphAlignment = style.ParagraphFar
	l := newLayout(t, e, p, "Hello", 100, 100)
	m := l.Metrics()
	assert.InDelta(t, 100-m.Height, m.Top, delta)

	p.ParagraphAlignment = style.ParagraphCenter
	l = newLayout(t, e, p, "Hello", 100, 100)
	m = l.Metrics()
	assert.InDelta(t, (100-m.Height)/2, m.Top, delta)
}

func TestLineSpacing(t *testing.T) {
	e := newTestEngine(t)
	p := nowrap()
	p.LineSpacing = style.SpacingUniform
	p.LineHeight = 30
	l := newLayout(t, e, p, "a\nb", 100, 100)
	lines := lineMetrics(t, l)
	require.Len(t, lines, 2)
	assert.InDelta(t, 30, lines[0].Height, delta)
	assert.InDelta(t, 24, lines[0].Baseline, delta)
	assert.InDelta(t, 60, l.Metrics().Height, delta)

	natural := newLayout(t, e, nowrap(), "a", 100, 100)
	nl := lineMetrics(t, natural)
	p.LineSpacing = style.SpacingProportional
	p.LineHeight = 2
	l = newLayout(t, e, p, "a", 100, 100)
	lines = lineMetrics(t, l)
	assert.InDelta(t, 2*nl[0].Height, lines[0].Height, delta)
	assert.InDelta(t, 2*nl[0].Baseline, lines[0].Baseline, delta)
}

func TestVerticalTrimming(t *testing.T) {
	e := newTestEngine(t)
	h := newLayout(t, e, nowrap(), "a", 100, 100).Metrics().Height
	p := nowrap()
	p.Trimming = style.TrimCharacter
	l := newLayout(t, e, p, "a\nb\nc", 100, 1.5*h)

	m := l.Metrics()
	assert.Equal(t, 1, m.LineCount)
	lines := lineMetrics(t, l)
	require.Len(t, lines, 1)
	assert.True(t, lines[0].IsTrimmed)

	p.Trimming = style.TrimNone
	l = newLayout(t, e, p, "a\nb\nc", 100, 1.5*h)
	assert.Equal(t, 3, l.Metrics().LineCount, "without trimming text overflows")
}

func TestHorizontalTrimmingWithEllipsis(t *testing.T) {
	e := newTestEngine(t)
	p := nowrap()
	p.Trimming = style.TrimCharacter
	p.TrimmingSign = style.SignEllipsis
	l := newLayout(t, e, p, "The quick brown fox jumps", 60, 100)

	m := l.Metrics()
	assert.LessOrEqual(t, m.Width, float32(60+delta))
	lines := lineMetrics(t, l)
	require.Len(t, lines, 1)
	assert.True(t, lines[0].IsTrimmed)
	assert.Equal(t, 25, lines[0].Length, "trimming keeps the line text range")

	rec := &recorder{}
	require.NoError(t, l.Draw(rec, 0, 0, 1))
	runs := rec.kind("glyphs")
	require.Len(t, runs, 2, "content and ellipsis")
	ell := runs[1]
	assert.InDelta(t, m.Width, ell.x+ell.run.Width(), delta)
}

func TestWordTrimming(t *testing.T) {
	e := newTestEngine(t)
	w := textWidth(t, e, "The quick")
	p := nowrap()
	p.Trimming = style.TrimWord
	l := newLayout(t, e, p, "The quick brown", w+2, 100)

	lines := lineMetrics(t, l)
	require.Len(t, lines, 1)
	assert.True(t, lines[0].IsTrimmed)
	assert.InDelta(t, w, l.Metrics().Width, delta, "cut after a whole word")
}

func TestSetMaxWidthRewraps(t *testing.T) {
	e := newTestEngine(t)
	l := newLayout(t, e, style.DefaultParagraphStyle(), "aaa bbb ccc", 1000, 1000)
	require.Equal(t, 1, l.Metrics().LineCount)
	shaped := l.shaped

	l.SetMaxWidth(textWidth(t, e, "aaa") + 1)
	assert.Nil(t, l.measured)
	assert.Equal(t, 3, l.Metrics().LineCount)
	assert.Same(t, shaped, l.shaped, "width changes keep the shaping")

	l.SetMaxHeight(5)
	assert.InDelta(t, 5, l.Metrics().LayoutHeight, delta)
}

func TestSetStyleFontSizeRemeasures(t *testing.T) {
	e := newTestEngine(t)
	l := newLayout(t, e, style.DefaultParagraphStyle(), "Hello world", 1000, 1000)
	before := l.Metrics()

	big := style.DefaultTextStyle("Go", 24)
	require.NoError(t, l.SetStyle(0, 5, style.PropFontSize, big))
	assert.Nil(t, l.shaped)
	after := l.Metrics()
	assert.Greater(t, after.Height, before.Height)
	assert.Greater(t, after.Width, before.Width)
}

func TestSetStyleColorKeepsShaping(t *testing.T) {
	e := newTestEngine(t)
	l := newLayout(t, e, style.DefaultParagraphStyle(), "Hello", 1000, 1000)
	shaped := l.shaped

	red := style.DefaultTextStyle("Go", 12)
	red.Color = 0xFFFF0000
	require.NoError(t, l.SetStyle(1, 2, style.PropColor, red))
	assert.Same(t, shaped, l.ensureShaped())

	assert.Nil(t, l.props[0].render)
	require.NotNil(t, l.props[1].render)
	assert.Equal(t, style.ARGB(0xFFFF0000), l.props[1].render.Fill.Packed())
	assert.Same(t, l.props[1], l.props[2], "one derived style per range")
	assert.Nil(t, l.props[3].render)
}

func TestSetStyleBoldResolvesFace(t *testing.T) {
	e := newTestEngine(t)
	l := newLayout(t, e, style.DefaultParagraphStyle(), "Hello", 1000, 1000)
	bold := style.DefaultTextStyle("Go", 12)
	bold.FontWeight = style.WeightBold

	require.NoError(t, l.SetStyle(0, 5, style.PropFontWeight, bold))
	face := l.props[0].face
	assert.Equal(t, style.WeightBold, face.Weight)
	assert.Zero(t, face.Simulations)
}

func TestSetStyleErrors(t *testing.T) {
	e := newTestEngine(t)
	l := newLayout(t, e, style.DefaultParagraphStyle(), "Hello", 1000, 1000)
	props := append([]*charProps(nil), l.props...)

	err := l.SetStyle(0, 5, style.PropFontFace, style.DefaultTextStyle("", 12))
	assert.ErrorIs(t, err, style.ErrInvalidStyle)

	err = l.SetStyle(0, 5, style.PropFontFace, style.DefaultTextStyle("Missing", 12))
	assert.ErrorIs(t, err, stylecache.ErrFaceNotFound)

	err = l.SetStyle(0, 5, style.PropFontSize, style.DefaultTextStyle("Go", -1))
	assert.ErrorIs(t, err, style.ErrInvalidStyle)

	assert.Equal(t, props, l.props, "failed updates leave the layout unchanged")
}

func TestSetStyleOutOfRange(t *testing.T) {
	e := newTestEngine(t)
	l := newLayout(t, e, style.DefaultParagraphStyle(), "Hi", 1000, 1000)
	red := style.DefaultTextStyle("Go", 12)
	red.Color = 0xFFFF0000

	require.NoError(t, l.SetStyle(10, 5, style.PropColor, red))
	require.NoError(t, l.SetStyle(0, 0, style.PropColor, red))
	assert.Nil(t, l.props[0].render)
	assert.Nil(t, l.props[1].render)
}

func TestSurrogatePairs(t *testing.T) {
	runes, runeUnit, unitRune := decodeUTF16(utf16.Encode([]rune("a\U0001F600b")))
	assert.Equal(t, []rune("a\U0001F600b"), runes)
	assert.Equal(t, []int{0, 1, 3, 4}, runeUnit)
	assert.Equal(t, []int{0, 1, 1, 2, 3}, unitRune)

	runes, _, _ = decodeUTF16([]uint16{0xD800, 'a'})
	assert.Equal(t, []rune{unicode.ReplacementChar, 'a'}, runes)
}

func TestSurrogatePositions(t *testing.T) {
	e := newTestEngine(t)
	l := newLayout(t, e, nowrap(), "a\U0001F600b", 1000, 1000)
	assert.Equal(t, 4, l.Len())

	lines := lineMetrics(t, l)
	require.Len(t, lines, 1)
	assert.Equal(t, 4, lines[0].Length)

	_, _, hm := l.HitTestTextPosition(2, false)
	assert.Equal(t, 1, hm.TextPosition, "inside a pair maps to its start")
	assert.Equal(t, 2, hm.Length)
}

func TestBidiLevels(t *testing.T) {
	e := newTestEngine(t)
	l := newLayout(t, e, nowrap(), "abc \u05D0\u05D1\u05D2", 1000, 1000)
	assert.Equal(t, 2, l.Metrics().MaxBidiReorderingDepth)

	x4, _, _ := l.HitTestTextPosition(4, false)
	x6, _, _ := l.HitTestTextPosition(6, false)
	assert.Greater(t, x4, x6, "right-to-left text runs leftwards")
}

func TestVisualOrder(t *testing.T) {
	assert.Equal(t, []int{0, 2, 1, 3}, visualOrder([]int{0, 1, 2, 3}, []uint8{0, 1, 1, 0}))
	assert.Equal(t, []int{2, 3, 1, 0}, visualOrder([]int{0, 1, 2, 3}, []uint8{1, 1, 2, 2}))
	assert.Empty(t, visualOrder(nil, nil))
}

type call struct {
	kind   string
	x, y   float32
	ctx    DrawContext
	run    *GlyphRun
	deco   *Decoration
	obj    InlineObject
	effect *stylecache.RenderStyle
}

// recorder is a Renderer that records every callback.
type recorder struct {
	calls []call
}

func (r *recorder) DrawGlyphRun(ctx *DrawContext, x, y float32, run *GlyphRun, effect *stylecache.RenderStyle) error {
	r.calls = append(r.calls, call{kind: "glyphs", x: x, y: y, ctx: *ctx, run: run, effect: effect})
	return nil
}

func (r *recorder) DrawUnderline(ctx *DrawContext, x, y float32, d *Decoration, effect *stylecache.RenderStyle) error {
	r.calls = append(r.calls, call{kind: "underline", x: x, y: y, ctx: *ctx, deco: d, effect: effect})
	return nil
}

func (r *recorder) DrawStrikethrough(ctx *DrawContext, x, y float32, d *Decoration, effect *stylecache.RenderStyle) error {
	r.calls = append(r.calls, call{kind: "strikethrough", x: x, y: y, ctx: *ctx, deco: d, effect: effect})
	return nil
}

func (r *recorder) DrawInlineObject(ctx *DrawContext, x, y float32, obj InlineObject, rtl bool, effect *stylecache.RenderStyle) error {
	r.calls = append(r.calls, call{kind: "inline", x: x, y: y, ctx: *ctx, obj: obj, effect: effect})
	return obj.Draw(ctx, r, x, y, rtl, effect)
}

func (r *recorder) kind(k string) []call {
	var out []call
	for _, c := range r.calls {
		if c.kind == k {
			out = append(out, c)
		}
	}
	return out
}

type box struct {
	m     InlineMetrics
	drawn int
}

func (b *box) Metrics() InlineMetrics { return b.m }

func (b *box) Draw(*DrawContext, Renderer, float32, float32, bool, *stylecache.RenderStyle) error {
	b.drawn++
	return nil
}

func hanging(indent float32) style.ParagraphStyle {
	p := style.DefaultParagraphStyle()
	p.HangingIndent = true
	p.Indent = indent
	return p
}

const longText = "one two three four five six seven eight nine ten"

func TestHangingIndentLines(t *testing.T) {
	e := newTestEngine(t)
	l := newLayout(t, e, hanging(20), longText, 100, 1000)

	assert.Equal(t, len(longText), l.Len())
	assert.Equal(t, []uint16(utf16.Encode([]rune(longText))), l.Text())
	assert.InDelta(t, 80, l.MaxWidth(), delta)
	assert.InDelta(t, 80, l.Metrics().LayoutWidth, delta)

	lines := lineMetrics(t, l)
	require.Greater(t, len(lines), 1)
	total := 0
	for _, ln := range lines {
		total += ln.Length
	}
	assert.Equal(t, len(longText), total)
	assert.Zero(t, l.Metrics().Left, "first line starts at the origin")
}

func TestHangingIndentFirstLineIsWider(t *testing.T) {
	e := newTestEngine(t)
	l := newLayout(t, e, hanging(20), longText, 100, 1000)
	lines := lineMetrics(t, l)
	require.Greater(t, len(lines), 1)

	// The first line may use the full outer width.
	x, _, _ := l.HitTestTextPosition(lines[0].Length-lines[0].TrailingWhitespaceLength-1, true)
	assert.LessOrEqual(t, x, float32(100+delta))

	x, _, _ = l.HitTestTextPosition(0, false)
	assert.InDelta(t, 0, x, delta)

	x, _, hm := l.HitTestTextPosition(lines[0].Length, false)
	assert.InDelta(t, 20, x, delta, "continuation lines are indented")
	assert.Equal(t, lines[0].Length, hm.TextPosition)
	assert.InDelta(t, 20, hm.Left, delta)
}

func TestHangingIndentGutter(t *testing.T) {
	e := newTestEngine(t)
	l := newLayout(t, e, hanging(20), longText, 100, 1000)
	lines := lineMetrics(t, l)
	require.Greater(t, len(lines), 1)

	var y float32
	for i, ln := range lines {
		for _, x := range []float32{-5, 0, 2, 10, 19.5} {
			hit := l.HitTestPoint(x, y+ln.Height/2)
			assert.False(t, hit.IsInside, "line %d x %v", i, x)
			assert.False(t, hit.IsTrailingHit, "line %d x %v", i, x)
			assert.Zero(t, hit.Metrics.TextPosition, "line %d x %v", i, x)
			assert.Zero(t, hit.Metrics.Length, "line %d x %v", i, x)
		}
		y += ln.Height
	}

	// Past the indent the text is hit again.
	hit := l.HitTestPoint(22, lines[0].Height/2)
	assert.True(t, hit.IsInside)
	assert.Positive(t, hit.Metrics.TextPosition)

	hit = l.HitTestPoint(22, lines[0].Height+lines[1].Height/2)
	assert.True(t, hit.IsInside)
	assert.Equal(t, lines[0].Length, hit.Metrics.TextPosition)
}

func TestHangingIndentSetStyle(t *testing.T) {
	e := newTestEngine(t)
	l := newLayout(t, e, hanging(20), longText, 100, 1000)
	red := style.DefaultTextStyle("Go", 12)
	red.Color = 0xFFFF0000

	require.NoError(t, l.SetStyle(1, 5, style.PropColor, red))
	for i, p := range l.props {
		changed := i >= 2 && i < 7
		assert.Equal(t, changed, p.render != nil, "rune %d", i)
	}
}

func TestHangingIndentDraw(t *testing.T) {
	e := newTestEngine(t)
	l := newLayout(t, e, hanging(20), longText, 100, 1000)
	rec := &recorder{}
	require.NoError(t, l.Draw(rec, 5, 7, 1))

	assert.Empty(t, rec.kind("inline"), "the indent marker is not drawn")
	runs := rec.kind("glyphs")
	require.Greater(t, len(runs), 1)
	assert.InDelta(t, 5, runs[0].x, delta)
	assert.Zero(t, runs[0].run.TextPosition)

	lines := lineMetrics(t, l)
	var second *call
	for i := range runs {
		if runs[i].run.TextPosition == lines[0].Length {
			second = &runs[i]
			break
		}
	}
	require.NotNil(t, second)
	assert.InDelta(t, 25, second.x, delta, "continuation lines are indented")
}

func TestDraw(t *testing.T) {
	e := newTestEngine(t)
	l := newLayout(t, e, nowrap(), "Hello world", 1000, 1000)
	rec := &recorder{}
	require.NoError(t, l.Draw(rec, 10, 20, 0.5))

	runs := rec.kind("glyphs")
	require.Len(t, runs, 1)
	c := runs[0]
	lines := lineMetrics(t, l)
	assert.InDelta(t, 10, c.x, delta)
	assert.InDelta(t, 20+lines[0].Baseline, c.y, delta)
	assert.InDelta(t, float32(0.5), c.ctx.Opacity, delta)
	assert.Same(t, l.DefaultStyle(), c.ctx.Default)
	assert.Nil(t, c.effect)
	assert.Len(t, c.run.Glyphs, 11)
	assert.Len(t, c.run.Advances, 11)
	assert.InDelta(t, l.Metrics().Width, c.run.Width(), delta)
	assert.Empty(t, rec.kind("underline"))
}

func TestDrawStyledRanges(t *testing.T) {
	e := newTestEngine(t)
	l := newLayout(t, e, nowrap(), "Hello world", 1000, 1000)
	red := style.DefaultTextStyle("Go", 12)
	red.Color = 0xFFFF0000
	require.NoError(t, l.SetStyle(6, 5, style.PropColor, red))

	rec := &recorder{}
	require.NoError(t, l.Draw(rec, 0, 0, 1))
	runs := rec.kind("glyphs")
	require.Len(t, runs, 2)
	assert.Nil(t, runs[0].effect)
	require.NotNil(t, runs[1].effect)
	assert.Equal(t, style.ARGB(0xFFFF0000), runs[1].effect.Fill.Packed())
	assert.Equal(t, 6, runs[1].run.TextPosition)
	assert.Same(t, runs[1].effect, runs[1].ctx.Effective(runs[1].effect))
	assert.Same(t, l.DefaultStyle(), runs[0].ctx.Effective(nil))
}

func TestDrawDecorations(t *testing.T) {
	e := newTestEngine(t)
	l := newLayout(t, e, nowrap(), "Hello world", 1000, 1000)
	deco := style.DefaultTextStyle("Go", 12)
	deco.Underline = true
	deco.Strikethrough = true
	require.NoError(t, l.SetStyle(0, 11, style.PropUnderline|style.PropLineThrough, deco))

	rec := &recorder{}
	require.NoError(t, l.Draw(rec, 0, 0, 1))
	fm := l.Format().Metrics

	under := rec.kind("underline")
	require.Len(t, under, 1)
	assert.InDelta(t, l.Metrics().Width, under[0].deco.Width, delta)
	assert.InDelta(t, fm.UnderlinePosition, under[0].deco.Offset, delta)
	assert.InDelta(t, fm.UnderlineThickness, under[0].deco.Thickness, delta)

	strike := rec.kind("strikethrough")
	require.Len(t, strike, 1)
	assert.InDelta(t, -fm.StrikethroughPosition, strike[0].deco.Offset, delta)
	assert.Less(t, strike[0].deco.Offset, float32(0), "strikethrough sits above the baseline")
}

func TestInlineObject(t *testing.T) {
	e := newTestEngine(t)
	l := newLayout(t, e, nowrap(), "ab cd", 1000, 1000)
	w := l.Metrics().Width
	obj := &box{m: InlineMetrics{Width: 30, Height: 40, Baseline: 35}}

	require.NoError(t, l.SetInlineObject(2, 1, obj))
	m := l.Metrics()
	assert.InDelta(t, w-textWidth(t, e, " ")+30, m.Width, 0.5)

	lines := lineMetrics(t, l)
	require.Len(t, lines, 1)
	assert.InDelta(t, 35, lines[0].Baseline, delta)

	_, _, hm := l.HitTestTextPosition(2, false)
	assert.False(t, hm.IsText)
	assert.InDelta(t, 30, hm.Width, delta)

	rec := &recorder{}
	require.NoError(t, l.Draw(rec, 0, 0, 1))
	inl := rec.kind("inline")
	require.Len(t, inl, 1)
	assert.Same(t, obj, inl[0].obj)
	assert.InDelta(t, 0, inl[0].y, delta, "top of the object box")
	assert.Equal(t, 1, obj.drawn)

	require.NoError(t, l.SetInlineObject(2, 0, nil))
	assert.InDelta(t, w, l.Metrics().Width, delta)
	assert.Error(t, l.SetInlineObject(2, 0, obj))
}

func TestHitTestPoint(t *testing.T) {
	e := newTestEngine(t)
	l := newLayout(t, e, nowrap(), "Hello", 1000, 1000)
	h := l.Metrics().Height

	x, _, hm := l.HitTestTextPosition(1, false)
	hit := l.HitTestPoint(x+1, h/2)
	assert.True(t, hit.IsInside)
	assert.False(t, hit.IsTrailingHit)
	assert.Equal(t, 1, hit.Metrics.TextPosition)
	assert.Equal(t, hm, hit.Metrics)

	hit = l.HitTestPoint(x+hm.Width-0.5, h/2)
	assert.True(t, hit.IsTrailingHit)

	hit = l.HitTestPoint(500, h/2)
	assert.False(t, hit.IsInside)
	assert.True(t, hit.IsTrailingHit)
	assert.Equal(t, 4, hit.Metrics.TextPosition)

	hit = l.HitTestPoint(1, -5)
	assert.False(t, hit.IsInside)
	hit = l.HitTestPoint(1, h+5)
	assert.False(t, hit.IsInside)
}

func TestHitTestTextPositionEnd(t *testing.T) {
	e := newTestEngine(t)
	l := newLayout(t, e, nowrap(), "Hello", 1000, 1000)

	x, y, hm := l.HitTestTextPosition(5, false)
	assert.InDelta(t, l.Metrics().Width, x, delta)
	assert.Zero(t, y)
	assert.Equal(t, 5, hm.TextPosition)
	assert.Zero(t, hm.Length)

	x2, _, _ := l.HitTestTextPosition(99, false)
	assert.Equal(t, x, x2, "positions past the end clamp")
}

func TestHitTestTextRange(t *testing.T) {
	e := newTestEngine(t)
	w := textWidth(t, e, "aaa bbb")
	l := newLayout(t, e, style.DefaultParagraphStyle(), "aaa bbb ccc", w+1, 1000)

	n, ok := l.HitTestTextRange(0, 3, 0, 0, nil)
	assert.False(t, ok)
	assert.Equal(t, 1, n)

	buf := make([]HitTestMetrics, 4)
	n, ok = l.HitTestTextRange(0, 3, 10, 20, buf)
	require.True(t, ok)
	require.Equal(t, 1, n)
	assert.InDelta(t, 10, buf[0].Left, delta)
	assert.InDelta(t, 20, buf[0].Top, delta)
	assert.InDelta(t, textWidth(t, e, "aaa"), buf[0].Width, delta)
	assert.Equal(t, 0, buf[0].TextPosition)
	assert.Equal(t, 3, buf[0].Length)

	n, ok = l.HitTestTextRange(4, 6, 0, 0, buf)
	require.True(t, ok)
	require.Equal(t, 2, n, "one rectangle per line")
	assert.Equal(t, 4, buf[0].TextPosition)
	assert.Equal(t, 4, buf[0].Length)
	assert.Equal(t, 8, buf[1].TextPosition)
	assert.Equal(t, 2, buf[1].Length)
	assert.Greater(t, buf[1].Top, buf[0].Top)

	n, ok = l.HitTestTextRange(2, 0, 0, 0, buf)
	require.True(t, ok)
	require.Equal(t, 1, n)
	assert.Zero(t, buf[0].Width, "empty ranges give a caret")
}
