package scene

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"path/filepath"

	"github.com/gogpu/textengine"
	"github.com/gogpu/textengine/renderer"
	"github.com/gogpu/textengine/style"
	"github.com/gogpu/textengine/surface"
)

// DefaultFace is the font family used by text blocks without a face.
const DefaultFace = "Go"

// DefaultSize is the font size used by text blocks without a size.
const DefaultSize = 16

// Renderer draws scenes through an engine.
type Renderer struct {
	engine *textengine.Engine
	// BaseDir resolves relative font paths.
	BaseDir string
	// Scale is the number of device pixels per scene unit.
	Scale float64
}

// NewRenderer creates a scene renderer drawing with e.
func NewRenderer(e *textengine.Engine) *Renderer {
	return &Renderer{engine: e, Scale: 1}
}

// snapshotter is implemented by surfaces that can copy out their pixels.
type snapshotter interface {
	Snapshot() *image.RGBA
}

// Render draws s onto a new render target and returns its pixels.
func (r *Renderer) Render(s *Scene) (*image.RGBA, error) {
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("%s: invalid scene size %vx%v", s.Pos, s.Width, s.Height)
	}
	if err := r.loadFonts(s.Items); err != nil {
		return nil, err
	}

	e := r.engine
	scale := r.Scale
	if !(scale > 0) {
		scale = 1
	}
	w := int(math.Ceil(s.Width * scale))
	h := int(math.Ceil(s.Height * scale))
	target, err := e.CreateRenderTarget(w, h, color.White)
	if err != nil {
		return nil, err
	}
	snap, ok := target.(snapshotter)
	if !ok {
		return nil, fmt.Errorf("scene: render target %T cannot be read back", target)
	}
	if err := e.SetRenderTarget(target); err != nil {
		return nil, err
	}
	defer func() { _ = e.SetRenderTarget(nil) }()
	if err := e.SetCanvasSize(s.Width, s.Height); err != nil {
		return nil, err
	}
	if err := e.SetTransform(surface.Identity()); err != nil {
		return nil, err
	}

	if err := e.BeginDraw(); err != nil {
		return nil, err
	}
	if err := r.drawItems(s.Items); err != nil {
		_ = e.EndDraw()
		return nil, err
	}
	if err := e.EndDraw(); err != nil {
		return nil, err
	}
	return snap.Snapshot(), nil
}

// loadFonts adds every font file named by the scene and reloads the
// collection once.
func (r *Renderer) loadFonts(items []*Item) error {
	added := 0
	var walk func(items []*Item) error
	walk = func(items []*Item) error {
		for _, it := range items {
			switch {
			case it.Font != nil:
				path := string(*it.Font)
				if !filepath.IsAbs(path) && r.BaseDir != "" {
					path = filepath.Join(r.BaseDir, path)
				}
				if _, err := r.engine.AddFontFileFromPath(path); err != nil {
					return fmt.Errorf("%s: %w", it.Pos, err)
				}
				added++
			case it.Clip != nil:
				if err := walk(it.Clip.Items); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(items); err != nil {
		return err
	}
	if added == 0 {
		return nil
	}
	return r.engine.ReloadFontFamilies()
}

func (r *Renderer) drawItems(items []*Item) error {
	e := r.engine
	for _, it := range items {
		var err error
		switch {
		case it.Background != nil:
			err = e.Clear(style.ARGB(*it.Background).Color())
		case it.Translate != nil:
			err = e.SetTransform(surface.Translate(it.Translate.X, it.Translate.Y).Then(e.Transform()))
		case it.Scale != nil:
			err = e.SetTransform(surface.Scale(it.Scale.X, it.Scale.Y).Then(e.Transform()))
		case it.Rotate != nil:
			err = e.SetTransform(surface.Rotate(*it.Rotate * math.Pi / 180).Then(e.Transform()))
		case it.Reset:
			err = e.SetTransform(surface.Identity())
		case it.Clip != nil:
			err = r.drawClip(it.Clip)
		case it.Box != nil:
			err = r.drawBox(it.Box)
		case it.Text != nil:
			err = r.drawText(it.Text)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", it.Pos, err)
		}
	}
	return nil
}

func (r *Renderer) drawClip(c *ClipDecl) error {
	e := r.engine
	rc := c.Rect
	if err := e.PushClipRect(rc.X, rc.Y, rc.X+rc.W, rc.Y+rc.H, !c.Aliased); err != nil {
		return err
	}
	saved := e.Transform()
	err := r.drawItems(c.Items)
	_ = e.SetTransform(saved)
	if perr := e.PopClipRect(); err == nil {
		err = perr
	}
	return err
}

func (r *Renderer) drawBox(b *BoxDecl) error {
	var s style.BackgroundAndBorderStyle
	for _, p := range b.Props {
		switch {
		case p.Fill != nil:
			s.BackgroundColor = style.ARGB(*p.Fill)
		case p.Border != nil:
			s.BorderColor = style.ARGB(*p.Border)
			if s.BorderWidth == 0 {
				s.BorderWidth = 1
			}
		case p.Width != nil:
			s.BorderWidth = float32(*p.Width)
		case p.Radius != nil:
			s.CornerRadius = float32(*p.Radius)
		}
	}
	rc := b.Rect
	return r.engine.RenderBackgroundAndBorder(float32(rc.X), float32(rc.Y), float32(rc.W), float32(rc.H), s)
}

// textBlock is a text declaration resolved into styles and overrides.
type textBlock struct {
	para    style.ParagraphStyle
	text    style.TextStyle
	content string
	opacity float32
	spans   []*SpanDecl
	inlines []*InlineDecl
}

func (r *Renderer) resolveText(t *TextDecl) (*textBlock, error) {
	b := &textBlock{
		para:    style.DefaultParagraphStyle(),
		text:    style.DefaultTextStyle(DefaultFace, DefaultSize),
		opacity: 1,
	}
	for _, p := range t.Props {
		switch {
		case p.Content != nil:
			b.content += string(*p.Content)
		case p.Char != nil:
			applyChar(&b.text, p.Char)
		case p.Align != nil:
			b.para.TextAlignment = alignments[*p.Align]
		case p.VAlign != nil:
			b.para.ParagraphAlignment = paragraphAlignments[*p.VAlign]
		case p.Wrap != nil:
			b.para.WordWrapping = wrappings[*p.Wrap]
		case p.Trim != nil:
			b.para.Trimming = trimmings[p.Trim.Mode]
			if p.Trim.Ellipsis {
				b.para.TrimmingSign = style.SignEllipsis
			}
		case p.Spacing != nil:
			b.para.LineSpacing = spacings[p.Spacing.Method]
			if p.Spacing.Height != nil {
				b.para.LineHeight = float32(*p.Spacing.Height)
			}
		case p.Hanging != nil:
			b.para.HangingIndent = true
			b.para.Indent = float32(*p.Hanging)
		case p.Tab != nil:
			b.para.TabStop = float32(*p.Tab)
		case p.Opacity != nil:
			if *p.Opacity < 0 || *p.Opacity > 1 {
				return nil, fmt.Errorf("opacity %v out of range [0, 1]", *p.Opacity)
			}
			b.opacity = float32(*p.Opacity)
		case p.Span != nil:
			b.spans = append(b.spans, p.Span)
		case p.Inline != nil:
			b.inlines = append(b.inlines, p.Inline)
		}
	}
	return b, nil
}

func (r *Renderer) drawText(t *TextDecl) error {
	b, err := r.resolveText(t)
	if err != nil {
		return err
	}
	e := r.engine
	rc := t.Rect
	l, err := e.CreateTextLayoutString(b.para, b.text, b.content, float32(rc.W), float32(rc.H))
	if err != nil {
		return err
	}
	defer func() { _ = e.FreeTextLayout(l) }()

	for _, sp := range b.spans {
		ts := b.text
		var mask style.PropertyMask
		for _, cp := range sp.Props {
			mask |= applyChar(&ts, cp)
		}
		if err := l.SetStyle(sp.Start, sp.Length, mask, ts); err != nil {
			return err
		}
	}
	for _, in := range b.inlines {
		box := &renderer.Box{
			Width:  float32(in.Width),
			Height: float32(in.Height),
			Style:  style.BackgroundAndBorderStyle{BackgroundColor: style.ARGB(in.Fill)},
		}
		if err := l.SetInlineObject(in.Start, in.Length, box); err != nil {
			return err
		}
	}
	return e.RenderTextLayout(l, float32(rc.X), float32(rc.Y), b.opacity)
}

// applyChar applies a character property and returns the property mask
// it touched.
func applyChar(ts *style.TextStyle, p *CharProp) style.PropertyMask {
	switch {
	case p.Face != nil:
		ts.FontFace = string(*p.Face)
		return style.PropFontFace
	case p.Size != nil:
		ts.FontSize = float32(*p.Size)
		return style.PropFontSize
	case p.Color != nil:
		ts.Color = style.ARGB(*p.Color)
		return style.PropColor
	case p.Weight != nil:
		ts.FontWeight = style.FontWeight(*p.Weight)
		return style.PropFontWeight
	case p.Bold:
		ts.FontWeight = style.WeightBold
		return style.PropFontWeight
	case p.Italic:
		ts.FontStyle = style.StyleItalic
		return style.PropFontStyle
	case p.Oblique:
		ts.FontStyle = style.StyleOblique
		return style.PropFontStyle
	case p.Underline:
		ts.Underline = true
		return style.PropUnderline
	case p.Strikethrough:
		ts.Strikethrough = true
		return style.PropLineThrough
	case p.NoKerning:
		ts.Kerning = false
		return style.PropKerning
	case p.Shadow != nil:
		ts.DropShadowColor = style.ARGB(*p.Shadow)
		return style.PropDropShadowColor
	case p.Outline != nil:
		ts.OutlineColor = style.ARGB(p.Outline.Color)
		ts.OutlineWidth = float32(p.Outline.Width)
		return style.PropOutline
	}
	return 0
}

var (
	alignments = map[string]style.TextAlignment{
		"left": style.AlignLeft, "center": style.AlignCenter,
		"right": style.AlignRight, "justified": style.AlignJustified,
	}
	paragraphAlignments = map[string]style.ParagraphAlignment{
		"near": style.ParagraphNear, "center": style.ParagraphCenter, "far": style.ParagraphFar,
	}
	wrappings = map[string]style.WordWrapping{
		"word": style.WrapWord, "none": style.WrapNone, "emergency": style.WrapEmergencyBreak,
		"wholeword": style.WrapWholeWord, "character": style.WrapCharacter,
	}
	trimmings = map[string]style.Trimming{
		"none": style.TrimNone, "character": style.TrimCharacter, "word": style.TrimWord,
	}
	spacings = map[string]style.LineSpacing{
		"default": style.SpacingDefault, "uniform": style.SpacingUniform, "proportional": style.SpacingProportional,
	}
)
