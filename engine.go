package textengine

import (
	"fmt"
	"image/color"
	"log/slog"

	textfont "github.com/gogpu/textengine/font"
	"github.com/gogpu/textengine/layout"
	"github.com/gogpu/textengine/renderer"
	"github.com/gogpu/textengine/style"
	"github.com/gogpu/textengine/stylecache"
	"github.com/gogpu/textengine/surface"
)

// Engine owns the font catalog, the style cache, the layout engine, the
// drawing canvas and the glyph renderer of one rendering context.
//
// Engine is not safe for concurrent use. After Free every method returns
// ErrNullParameter.
type Engine struct {
	catalog  *textfont.Catalog
	cache    *stylecache.Cache
	layouts  *layout.Engine
	canvas   *surface.Canvas
	renderer *renderer.GlyphRenderer
	backend  string
	logger   *slog.Logger

	// live tracks layouts created by this engine until FreeTextLayout.
	live map[*layout.TextLayout]struct{}
}

// CreateEngine creates an engine. Fonts given with WithFontFile are loaded
// before the first font collection is built; later fonts become visible
// after ReloadFontFamilies.
func CreateEngine(opts ...Option) (*Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.resolveLogger()

	catalog := textfont.NewCatalog()
	for _, f := range o.fonts {
		if _, err := catalog.AddFontFile(f.name, f.data); err != nil {
			return nil, fmt.Errorf("textengine: add font %q: %w", f.name, err)
		}
	}
	cache, err := stylecache.New(catalog,
		stylecache.WithFormatCapacity(o.formatCapacity),
		stylecache.WithBrushCapacity(o.brushCapacity),
		stylecache.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("textengine: build font collection: %w", err)
	}

	shaper := o.shaper
	if shaper == nil {
		shaper = layout.NewHarfBuzzShaper()
	}
	canvas := surface.NewCanvas()
	if o.canvasW != 0 || o.canvasH != 0 {
		if err := canvas.SetCanvasSize(o.canvasW, o.canvasH); err != nil {
			return nil, err
		}
	}

	e := &Engine{
		catalog: catalog,
		cache:   cache,
		layouts: layout.NewEngine(cache, layout.WithShaper(shaper), layout.WithLogger(logger)),
		canvas:  canvas,
		renderer: renderer.NewGlyphRenderer(canvas, cache,
			renderer.WithLogger(logger),
			renderer.WithOutlineCacheSize(o.outlineCap),
		),
		backend: o.backend,
		logger:  logger,
		live:    make(map[*layout.TextLayout]struct{}),
	}
	logger.Debug("textengine: engine created",
		"fonts", catalog.Len(), "families", cache.FontFamilyCount(), "shaper", fmt.Sprintf("%T", shaper))
	return e, nil
}

// Free releases the engine. The bound render target is detached and every
// layout created by the engine must not be drawn afterwards. Free on a
// freed or nil engine is a no-op.
func (e *Engine) Free() {
	if e == nil || e.cache == nil {
		return
	}
	e.canvas.SetRenderTarget(nil)
	e.logger.Debug("textengine: engine freed", "layouts", len(e.live))
	e.live = nil
	e.renderer = nil
	e.layouts = nil
	e.canvas = nil
	e.cache = nil
	e.catalog = nil
}

func (e *Engine) valid() bool {
	return e != nil && e.cache != nil
}

// Cache returns the style cache, or nil after Free.
func (e *Engine) Cache() *stylecache.Cache {
	if !e.valid() {
		return nil
	}
	return e.cache
}

// Canvas returns the drawing canvas, or nil after Free.
func (e *Engine) Canvas() *surface.Canvas {
	if !e.valid() {
		return nil
	}
	return e.canvas
}

// AddFontFile appends a font file to the catalog and returns its index.
// The fonts become visible after ReloadFontFamilies.
func (e *Engine) AddFontFile(name string, data []byte) (int, error) {
	if !e.valid() || data == nil {
		return 0, ErrNullParameter
	}
	return e.catalog.AddFontFile(name, data)
}

// AddFontFileFromPath reads a font file from disk and appends it.
func (e *Engine) AddFontFileFromPath(path string) (int, error) {
	if !e.valid() {
		return 0, ErrNullParameter
	}
	return e.catalog.AddFontFileFromPath(path)
}

// ReloadFontFamilies rebuilds the font collection from the catalog and
// drops every cached format. Existing layouts keep the faces they were
// shaped with until they are re-styled.
func (e *Engine) ReloadFontFamilies() error {
	if !e.valid() {
		return ErrNullParameter
	}
	return e.cache.ReloadFontFamilies()
}

// FontFamilyCount returns the number of font families in the collection.
func (e *Engine) FontFamilyCount() int {
	if !e.valid() {
		return 0
	}
	return e.cache.FontFamilyCount()
}

// FontFamilyName returns the name of family i.
func (e *Engine) FontFamilyName(i int) string {
	if !e.valid() {
		return ""
	}
	return e.cache.FontFamilyName(i)
}

// CreateTextLayout lays out UTF-16 text with the given styles inside a box
// of maxWidth by maxHeight logical pixels.
func (e *Engine) CreateTextLayout(p style.ParagraphStyle, t style.TextStyle, text []uint16, maxWidth, maxHeight float32) (*layout.TextLayout, error) {
	if !e.valid() {
		return nil, ErrNullParameter
	}
	l, err := e.layouts.CreateLayout(p, t, text, maxWidth, maxHeight)
	if err != nil {
		return nil, err
	}
	e.live[l] = struct{}{}
	return l, nil
}

// CreateTextLayoutString is CreateTextLayout for Go strings.
func (e *Engine) CreateTextLayoutString(p style.ParagraphStyle, t style.TextStyle, text string, maxWidth, maxHeight float32) (*layout.TextLayout, error) {
	return e.CreateTextLayout(p, t, EncodeText(text), maxWidth, maxHeight)
}

// FreeTextLayout releases a layout created by this engine.
func (e *Engine) FreeTextLayout(l *layout.TextLayout) error {
	if !e.valid() || l == nil {
		return ErrNullParameter
	}
	delete(e.live, l)
	return nil
}

// LiveLayouts returns the number of layouts not yet freed.
func (e *Engine) LiveLayouts() int {
	if !e.valid() {
		return 0
	}
	return len(e.live)
}

// RenderTextLayout draws l with its origin at (x, y) in user coordinates.
// Opacity scales every color of the layout.
func (e *Engine) RenderTextLayout(l *layout.TextLayout, x, y, opacity float32) error {
	if !e.valid() || l == nil {
		return ErrNullParameter
	}
	return l.Draw(e.renderer, x, y, opacity)
}

// RenderBackgroundAndBorder fills and strokes a box in user coordinates.
func (e *Engine) RenderBackgroundAndBorder(x, y, w, h float32, s style.BackgroundAndBorderStyle) error {
	if !e.valid() {
		return ErrNullParameter
	}
	return e.renderer.DrawBackgroundAndBorder(x, y, w, h, s)
}

// CreateRenderTarget creates a surface of width by height pixels with the
// configured backend, cleared to background when it is not nil.
func (e *Engine) CreateRenderTarget(width, height int, background color.Color) (surface.Surface, error) {
	if !e.valid() {
		return nil, ErrNullParameter
	}
	opts := surface.Options{Width: width, Height: height, Background: background}
	if e.backend == "" {
		return surface.NewSurface(opts)
	}
	return surface.NewSurfaceByName(e.backend, opts)
}

// SetRenderTarget binds s as the drawing target. Nil detaches the target.
func (e *Engine) SetRenderTarget(s surface.Surface) error {
	if !e.valid() {
		return ErrNullParameter
	}
	e.canvas.SetRenderTarget(s)
	return nil
}

// SetCanvasSize sets the logical size mapped onto the render target.
func (e *Engine) SetCanvasSize(width, height float64) error {
	if !e.valid() {
		return ErrNullParameter
	}
	return e.canvas.SetCanvasSize(width, height)
}

// CanvasScale returns the device pixels per logical unit on each axis.
func (e *Engine) CanvasScale() (sx, sy float64) {
	if !e.valid() {
		return 1, 1
	}
	return e.canvas.CanvasScale()
}

// BeginDraw starts a drawing session.
func (e *Engine) BeginDraw() error {
	if !e.valid() {
		return ErrNullParameter
	}
	return e.canvas.BeginDraw()
}

// EndDraw finishes a drawing session and flushes the target.
func (e *Engine) EndDraw() error {
	if !e.valid() {
		return ErrNullParameter
	}
	return e.canvas.EndDraw()
}

// Clear fills the whole render target with col.
func (e *Engine) Clear(col color.Color) error {
	if !e.valid() {
		return ErrNullParameter
	}
	e.canvas.Clear(col)
	return nil
}

// PushClipRect clips drawing to a rectangle in user coordinates.
func (e *Engine) PushClipRect(left, top, right, bottom float64, antiAliased bool) error {
	if !e.valid() {
		return ErrNullParameter
	}
	e.canvas.PushClipRect(left, top, right, bottom, antiAliased)
	return nil
}

// PopClipRect removes the most recent clip.
func (e *Engine) PopClipRect() error {
	if !e.valid() {
		return ErrNullParameter
	}
	e.canvas.PopClipRect()
	return nil
}

// SetTransform replaces the user transform.
func (e *Engine) SetTransform(m surface.Matrix) error {
	if !e.valid() {
		return ErrNullParameter
	}
	e.canvas.SetTransform(m)
	return nil
}

// Transform returns the user transform.
func (e *Engine) Transform() surface.Matrix {
	if !e.valid() {
		return surface.Identity()
	}
	return e.canvas.Transform()
}
