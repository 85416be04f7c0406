package renderer

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/gogpu/textengine/layout"
	"github.com/gogpu/textengine/style"
	"github.com/gogpu/textengine/stylecache"
	"github.com/gogpu/textengine/surface"
)

// ErrNoFace is returned for glyph runs without a font face.
var ErrNoFace = errors.New("renderer: glyph run has no face")

// obliqueAngle is the slant of synthetic oblique text in degrees.
const obliqueAngle = 12

// Option configures a GlyphRenderer.
type Option func(*GlyphRenderer)

// WithLogger sets the logger for renderer diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *GlyphRenderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithOutlineCacheSize sets the number of cached glyph outlines.
func WithOutlineCacheSize(n int) Option {
	return func(r *GlyphRenderer) {
		if n > 0 {
			r.outlines = newOutlineCache(n)
		}
	}
}

// GlyphRenderer draws text layouts onto a surface.Canvas. It implements
// layout.Renderer.
//
// Glyph runs are drawn as filled outlines in user coordinates; the canvas
// maps them to device pixels. A drop shadow is drawn first, one device
// pixel down and right. Faces with COLR/CPAL tables draw their color
// glyphs layer by layer.
//
// GlyphRenderer is not safe for concurrent use.
type GlyphRenderer struct {
	canvas   *surface.Canvas
	cache    *stylecache.Cache
	outlines *outlineCache
	// colors holds the parsed color tables per face; nil values mark faces
	// without usable tables.
	colors map[*stylecache.Face]*colorTable
	logger *slog.Logger
}

// NewGlyphRenderer creates a renderer drawing through canvas. Brushes for
// backgrounds and borders are resolved through cache.
func NewGlyphRenderer(canvas *surface.Canvas, cache *stylecache.Cache, opts ...Option) *GlyphRenderer {
	r := &GlyphRenderer{
		canvas:   canvas,
		cache:    cache,
		outlines: newOutlineCache(DefaultOutlineCacheSize),
		colors:   make(map[*stylecache.Face]*colorTable),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Canvas returns the canvas the renderer draws through.
func (r *GlyphRenderer) Canvas() *surface.Canvas { return r.canvas }

// OutlineCacheLen returns the number of cached glyph outlines.
func (r *GlyphRenderer) OutlineCacheLen() int { return r.outlines.stats().Len }

// DrawGlyphRun draws run with its baseline origin at (x, y).
func (r *GlyphRenderer) DrawGlyphRun(ctx *layout.DrawContext, x, y float32, run *layout.GlyphRun, effect *stylecache.RenderStyle) error {
	if run == nil || len(run.Glyphs) == 0 {
		return nil
	}
	if run.Face == nil || run.Face.Face == nil {
		return &surface.RenderError{Op: "draw glyph run", Err: ErrNoFace}
	}
	rs := ctx.Effective(effect)
	if rs == nil || rs.Fill == nil {
		return nil
	}

	layers, err := r.colorLayers(x, y, run)
	if err != nil {
		return &surface.RenderError{Op: "draw glyph run", Err: err}
	}
	var placed *surface.Path
	if layers == nil {
		if placed, err = r.place(x, y, run); err != nil {
			return &surface.RenderError{Op: "draw glyph run", Err: err}
		}
	}

	if rs.Shadow != nil {
		d := r.canvas.DeviceTransform().Invert().TransformVector(surface.Pt(1, 1))
		shadow := surface.NewPath()
		if layers != nil {
			for _, l := range layers {
				shadow.Append(l.path)
			}
		} else {
			shadow.Append(placed)
		}
		r.canvas.FillPath(shadow.Transform(surface.Translate(d.X, d.Y)), rs.Shadow.Paint(ctx.Opacity))
	}

	if layers != nil {
		for _, l := range layers {
			c := rs.Fill.Paint(ctx.Opacity)
			if !l.foreground {
				c = l.color.Color().WithOpacity(ctx.Opacity)
			}
			r.canvas.FillPath(l.path, c)
		}
		return nil
	}

	fill := rs.Fill.Paint(ctx.Opacity)
	r.canvas.FillPath(placed, fill)
	if run.Face.Simulations&stylecache.SimBold != 0 {
		r.canvas.StrokePath(placed, strokeStyle(fill, float64(run.Size)/24))
	}
	if rs.HasOutline() {
		r.canvas.StrokePath(placed, strokeStyle(rs.Outline.Paint(ctx.Opacity), float64(rs.OutlineWidth)))
	}
	return nil
}

// glyphMatrix returns the transform from glyph space to user space for a
// glyph whose origin is at (ox, oy).
func glyphMatrix(face *stylecache.ResolvedFace, ox, oy float64) surface.Matrix {
	m := surface.Translate(ox, oy)
	if face.Simulations&stylecache.SimOblique != 0 {
		m = surface.Skew(-math.Tan(obliqueAngle*math.Pi/180), 0).Then(m)
	}
	return m
}

// place builds the combined outline path of a run.
func (r *GlyphRenderer) place(x, y float32, run *layout.GlyphRun) (*surface.Path, error) {
	p := surface.NewPath()
	err := r.walk(x, y, run, func(i int, m surface.Matrix) error {
		o, err := r.outlines.get(run.Face.Face, run.Glyphs[i], run.Size)
		if err != nil {
			return err
		}
		o.AppendTo(p, m)
		return nil
	})
	return p, err
}

// walk calls fn with the glyph space transform of every glyph of run.
func (r *GlyphRenderer) walk(x, y float32, run *layout.GlyphRun, fn func(i int, m surface.Matrix) error) error {
	pen := float64(x)
	for i := range run.Glyphs {
		ox, oy := pen, float64(y)
		if i < len(run.Offsets) {
			ox += float64(run.Offsets[i].X)
			oy -= float64(run.Offsets[i].Y)
		}
		if err := fn(i, glyphMatrix(run.Face, ox, oy)); err != nil {
			return err
		}
		if i < len(run.Advances) {
			pen += float64(run.Advances[i])
		}
	}
	return nil
}

type colorLayer struct {
	path       *surface.Path
	foreground bool
	color      style.ARGB
}

// colorLayers returns the layers to draw for a run with color glyphs, or
// nil when the face has none. Glyphs without layers become a foreground
// layer so that the run keeps its drawing order.
func (r *GlyphRenderer) colorLayers(x, y float32, run *layout.GlyphRun) ([]colorLayer, error) {
	t := r.colorTable(run.Face.Face)
	if t == nil {
		return nil, nil
	}
	colored := false
	for _, g := range run.Glyphs {
		if t.layersOf(g) != nil {
			colored = true
			break
		}
	}
	if !colored {
		return nil, nil
	}

	var out []colorLayer
	err := r.walk(x, y, run, func(i int, m surface.Matrix) error {
		gid := run.Glyphs[i]
		layers := t.layersOf(gid)
		if layers == nil {
			layers = []ColorLayer{{GlyphID: gid, PaletteIndex: foregroundPalette}}
		}
		for _, l := range layers {
			o, err := r.outlines.get(run.Face.Face, l.GlyphID, run.Size)
			if err != nil {
				return err
			}
			p := surface.NewPath()
			o.AppendTo(p, m)
			out = append(out, colorLayer{path: p, foreground: l.IsForeground(), color: l.Color})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// colorTable returns the parsed color tables of face, parsing them once.
func (r *GlyphRenderer) colorTable(face *stylecache.Face) *colorTable {
	if t, ok := r.colors[face]; ok {
		return t
	}
	var t *colorTable
	if face.HasColorGlyphs() {
		colr, cpal := face.ColorTables()
		var err error
		t, err = parseColorTables(colr, cpal)
		if err != nil {
			r.logger.Debug("renderer: ignoring color tables", "family", face.Family, "err", err)
			t = nil
		}
	}
	r.colors[face] = t
	return t
}

func strokeStyle(c style.Color, width float64) surface.StrokeStyle {
	return surface.DefaultStrokeStyle().
		WithColor(c).
		WithWidth(width).
		WithJoin(surface.LineJoinRound)
}

// DrawUnderline fills the underline rectangle below the baseline origin.
func (r *GlyphRenderer) DrawUnderline(ctx *layout.DrawContext, x, y float32, d *layout.Decoration, effect *stylecache.RenderStyle) error {
	return r.decoration(ctx, x, y, d, effect)
}

// DrawStrikethrough fills the strikethrough rectangle.
func (r *GlyphRenderer) DrawStrikethrough(ctx *layout.DrawContext, x, y float32, d *layout.Decoration, effect *stylecache.RenderStyle) error {
	return r.decoration(ctx, x, y, d, effect)
}

func (r *GlyphRenderer) decoration(ctx *layout.DrawContext, x, y float32, d *layout.Decoration, effect *stylecache.RenderStyle) error {
	if d == nil {
		return nil
	}
	rs := ctx.Effective(effect)
	if rs == nil || rs.Fill == nil {
		return nil
	}
	r.canvas.FillRect(float64(x), float64(y+d.Offset), float64(d.Width), float64(d.Thickness), rs.Fill.Paint(ctx.Opacity))
	return nil
}

// DrawInlineObject lets obj draw itself with its top-left corner at (x, y).
func (r *GlyphRenderer) DrawInlineObject(ctx *layout.DrawContext, x, y float32, obj layout.InlineObject, rtl bool, effect *stylecache.RenderStyle) error {
	if obj == nil {
		return nil
	}
	if err := obj.Draw(ctx, r, x, y, rtl, effect); err != nil {
		var re *surface.RenderError
		if errors.As(err, &re) {
			return err
		}
		return &surface.RenderError{Op: "draw inline object", Err: err}
	}
	return nil
}

// DrawBackgroundAndBorder fills a box and strokes its border. The border
// lies inside the box. A positive CornerRadius rounds the corners.
func (r *GlyphRenderer) DrawBackgroundAndBorder(x, y, w, h float32, s style.BackgroundAndBorderStyle) error {
	if !(s.BorderWidth >= 0) || math.IsInf(float64(s.BorderWidth), 0) {
		return fmt.Errorf("%w: border width %v", style.ErrInvalidStyle, s.BorderWidth)
	}
	if !(s.CornerRadius >= 0) || math.IsInf(float64(s.CornerRadius), 0) {
		return fmt.Errorf("%w: corner radius %v", style.ErrInvalidStyle, s.CornerRadius)
	}
	if !(w > 0) || !(h > 0) {
		return nil
	}

	if !s.BackgroundColor.IsTransparent() {
		p := boxPath(float64(x), float64(y), float64(w), float64(h), float64(s.CornerRadius))
		r.canvas.FillPath(p, r.cache.Brush(s.BackgroundColor).Color())
	}
	if !s.BorderColor.IsTransparent() && s.BorderWidth > 0 {
		bw := float64(min(s.BorderWidth, w/2, h/2))
		half := bw / 2
		radius := max(float64(s.CornerRadius)-half, 0)
		p := boxPath(float64(x)+half, float64(y)+half, float64(w)-bw, float64(h)-bw, radius)
		st := surface.DefaultStrokeStyle().
			WithColor(r.cache.Brush(s.BorderColor).Color()).
			WithWidth(bw)
		r.canvas.StrokePath(p, st)
	}
	return nil
}

func boxPath(x, y, w, h, radius float64) *surface.Path {
	p := surface.NewPath()
	if radius > 0 {
		p.RoundedRectangle(x, y, w, h, min(radius, w/2, h/2))
	} else {
		p.Rectangle(x, y, w, h)
	}
	return p
}
