package renderer

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	textfont "github.com/gogpu/textengine/font"
	"github.com/gogpu/textengine/layout"
	"github.com/gogpu/textengine/style"
	"github.com/gogpu/textengine/stylecache"
	"github.com/gogpu/textengine/surface"
)

type fixture struct {
	cache    *stylecache.Cache
	engine   *layout.Engine
	target   *surface.ImageSurface
	canvas   *surface.Canvas
	renderer *GlyphRenderer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cat := textfont.NewCatalog()
	_, err := cat.AddFontFile("Go-Regular.ttf", goregular.TTF)
	require.NoError(t, err)
	cache, err := stylecache.New(cat)
	require.NoError(t, err)

	target := surface.NewImageSurface(200, 100)
	canvas := surface.NewCanvas()
	canvas.SetRenderTarget(target)
	canvas.Clear(color.White)
	return &fixture{
		cache:    cache,
		engine:   layout.NewEngine(cache),
		target:   target,
		canvas:   canvas,
		renderer: NewGlyphRenderer(canvas, cache),
	}
}

func (f *fixture) layout(t *testing.T, text string, ts style.TextStyle) *layout.TextLayout {
	t.Helper()
	p := style.DefaultParagraphStyle()
	p.WordWrapping = style.WrapNone
	l, err := f.engine.CreateLayoutString(p, ts, text, 180, 80)
	require.NoError(t, err)
	return l
}

// count returns the number of pixels matching fn.
func count(img *image.RGBA, fn func(c color.RGBA) bool) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if fn(img.RGBAAt(x, y)) {
				n++
			}
		}
	}
	return n
}

func isDark(c color.RGBA) bool    { return c.R < 128 && c.G < 128 && c.B < 128 }
func isReddish(c color.RGBA) bool { return c.R > 200 && c.G < 100 && c.B < 100 }
func isBluish(c color.RGBA) bool  { return c.B > 200 && c.R < 100 && c.G < 100 }
func notWhite(c color.RGBA) bool  { return c != color.RGBA{255, 255, 255, 255} }

// redTint matches partially covered red pixels over white or black.
func redTint(c color.RGBA) bool { return int(c.R) > int(c.G)+40 && int(c.R) > int(c.B)+40 }

func TestRenderTextPaintsGlyphs(t *testing.T) {
	f := newFixture(t)
	l := f.layout(t, "Hello", style.DefaultTextStyle("Go", 24))
	require.NoError(t, l.Draw(f.renderer, 10, 10, 1))

	img := f.target.Snapshot()
	assert.Greater(t, count(img, isDark), 20)

	// Nothing is drawn left of the origin or above the box.
	right := 10 + int(l.Metrics().Width) + 2
	for y := 0; y < 100; y++ {
		for x := 0; x < 200; x++ {
			if x < 9 || y < 9 || x > right {
				require.Equal(t, color.RGBA{255, 255, 255, 255}, img.RGBAAt(x, y), "pixel %d,%d", x, y)
			}
		}
	}
	assert.Positive(t, f.renderer.OutlineCacheLen())
}

func TestRenderZeroOpacity(t *testing.T) {
	f := newFixture(t)
	l := f.layout(t, "Hello", style.DefaultTextStyle("Go", 24))
	require.NoError(t, l.Draw(f.renderer, 10, 10, 0))
	assert.Zero(t, count(f.target.Snapshot(), notWhite))
}

func TestRenderDropShadow(t *testing.T) {
	f := newFixture(t)
	ts := style.DefaultTextStyle("Go", 32)
	ts.DropShadowColor = 0xFFFF0000
	l := f.layout(t, "Il", ts)
	require.NoError(t, l.Draw(f.renderer, 10, 10, 1))

	img := f.target.Snapshot()
	assert.Positive(t, count(img, redTint), "shadow shows below and right")
	assert.Positive(t, count(img, isDark))
}

func TestRenderOutline(t *testing.T) {
	f := newFixture(t)
	ts := style.DefaultTextStyle("Go", 32)
	ts.Color = 0xFFFFFFFF
	ts.OutlineColor = 0xFF0000FF
	ts.OutlineWidth = 2
	l := f.layout(t, "H", ts)
	require.NoError(t, l.Draw(f.renderer, 10, 10, 1))
	assert.Positive(t, count(f.target.Snapshot(), isBluish))
}

func TestRenderRangeStyle(t *testing.T) {
	f := newFixture(t)
	l := f.layout(t, "HH", style.DefaultTextStyle("Go", 32))
	red := style.DefaultTextStyle("Go", 32)
	red.Color = 0xFFFF0000
	require.NoError(t, l.SetStyle(1, 1, style.PropColor, red))
	require.NoError(t, l.Draw(f.renderer, 10, 10, 1))

	img := f.target.Snapshot()
	assert.Positive(t, count(img, isReddish))
	assert.Positive(t, count(img, isDark))
}

func TestDrawUnderline(t *testing.T) {
	f := newFixture(t)
	ctx := &layout.DrawContext{Default: f.cache.RenderStyle(style.DefaultTextStyle("Go", 12)), Opacity: 1}
	d := &layout.Decoration{Width: 100, Thickness: 4, Offset: 2}
	require.NoError(t, f.renderer.DrawUnderline(ctx, 10, 50, d, nil))

	img := f.target.Snapshot()
	assert.True(t, isDark(img.RGBAAt(60, 53)))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, img.RGBAAt(60, 49))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, img.RGBAAt(115, 53))

	// Strikethroughs sit above the baseline with a negative offset.
	d = &layout.Decoration{Width: 100, Thickness: 4, Offset: -20}
	require.NoError(t, f.renderer.DrawStrikethrough(ctx, 10, 50, d, nil))
	assert.True(t, isDark(f.target.Snapshot().RGBAAt(60, 32)))
}

func TestDrawLayoutDecorations(t *testing.T) {
	f := newFixture(t)
	ts := style.DefaultTextStyle("Go", 64)
	ts.Underline = true
	l := f.layout(t, "a  a", ts)
	require.NoError(t, l.Draw(f.renderer, 10, 10, 1))

	lines := make([]layout.LineMetrics, 1)
	_, ok := l.LineMetrics(lines)
	require.True(t, ok)
	fm := l.Format().Metrics
	y := 10 + lines[0].Baseline + fm.UnderlinePosition + fm.UnderlineThickness/2
	// The underline continues below the spaces.
	x, _, _ := l.HitTestTextPosition(2, false)
	assert.True(t, isDark(f.target.Snapshot().RGBAAt(10+int(x)+2, int(y))))
}

func TestDrawGlyphRunWithoutFace(t *testing.T) {
	f := newFixture(t)
	ctx := &layout.DrawContext{Default: f.cache.RenderStyle(style.DefaultTextStyle("Go", 12)), Opacity: 1}
	err := f.renderer.DrawGlyphRun(ctx, 0, 0, &layout.GlyphRun{Glyphs: []uint16{1}, Advances: []float32{1}}, nil)

	var re *surface.RenderError
	require.ErrorAs(t, err, &re)
	assert.ErrorIs(t, err, ErrNoFace)
	assert.NoError(t, f.renderer.DrawGlyphRun(ctx, 0, 0, &layout.GlyphRun{}, nil))
}

type failingObject struct{}

func (failingObject) Metrics() layout.InlineMetrics { return layout.InlineMetrics{Width: 5, Height: 5} }

func (failingObject) Draw(*layout.DrawContext, layout.Renderer, float32, float32, bool, *stylecache.RenderStyle) error {
	return errors.New("boom")
}

func TestDrawInlineObjectError(t *testing.T) {
	f := newFixture(t)
	l := f.layout(t, "a b", style.DefaultTextStyle("Go", 12))
	require.NoError(t, l.SetInlineObject(1, 1, failingObject{}))

	err := l.Draw(f.renderer, 0, 0, 1)
	var re *surface.RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "draw inline object", re.Op)
}

func TestBackgroundAndBorder(t *testing.T) {
	f := newFixture(t)
	s := style.BackgroundAndBorderStyle{
		BackgroundColor: 0xFFFF0000,
		BorderColor:     0xFF0000FF,
		BorderWidth:     4,
	}
	require.NoError(t, f.renderer.DrawBackgroundAndBorder(10, 10, 60, 40, s))

	img := f.target.Snapshot()
	assert.True(t, isReddish(img.RGBAAt(40, 30)), "background")
	assert.True(t, isBluish(img.RGBAAt(11, 30)), "border is inside the box")
	assert.True(t, isBluish(img.RGBAAt(68, 30)))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, img.RGBAAt(8, 30))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, img.RGBAAt(72, 30))
}

func TestRoundedBackground(t *testing.T) {
	f := newFixture(t)
	s := style.BackgroundAndBorderStyle{BackgroundColor: 0xFFFF0000, CornerRadius: 10}
	require.NoError(t, f.renderer.DrawBackgroundAndBorder(10, 10, 60, 40, s))

	img := f.target.Snapshot()
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, img.RGBAAt(10, 10), "corner is cut")
	assert.True(t, isReddish(img.RGBAAt(40, 11)))
}

func TestBackgroundAndBorderValidation(t *testing.T) {
	f := newFixture(t)
	err := f.renderer.DrawBackgroundAndBorder(0, 0, 10, 10, style.BackgroundAndBorderStyle{BorderWidth: -1})
	assert.ErrorIs(t, err, style.ErrInvalidStyle)

	require.NoError(t, f.renderer.DrawBackgroundAndBorder(0, 0, 0, 10, style.BackgroundAndBorderStyle{BackgroundColor: 0xFF000000}))
	assert.Zero(t, count(f.target.Snapshot(), notWhite))
}

func TestBoxInlineObject(t *testing.T) {
	f := newFixture(t)
	l := f.layout(t, "a b", style.DefaultTextStyle("Go", 12))
	box := &Box{Width: 20, Height: 10, Style: style.BackgroundAndBorderStyle{BackgroundColor: 0xFFFF0000}}
	require.NoError(t, l.SetInlineObject(1, 1, box))

	m := box.Metrics()
	assert.InDelta(t, 10, m.Baseline, 1e-6, "bottom sits on the baseline")

	require.NoError(t, l.Draw(f.renderer, 0, 0, 1))
	x, _, _ := l.HitTestTextPosition(1, false)
	lines := make([]layout.LineMetrics, 1)
	_, ok := l.LineMetrics(lines)
	require.True(t, ok)
	img := f.target.Snapshot()
	assert.True(t, isReddish(img.RGBAAt(int(x)+10, int(lines[0].Baseline)-5)))
}

func TestCanvasTransformMovesText(t *testing.T) {
	f := newFixture(t)
	f.canvas.SetTransform(surface.Translate(100, 0))
	l := f.layout(t, "H", style.DefaultTextStyle("Go", 24))
	require.NoError(t, l.Draw(f.renderer, 0, 10, 1))

	img := f.target.Snapshot()
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			require.Equal(t, color.RGBA{255, 255, 255, 255}, img.RGBAAt(x, y))
		}
	}
	assert.Positive(t, count(img, isDark))
}
