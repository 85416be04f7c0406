package layout

import (
	"fmt"
	"log/slog"
	"math"
	"unicode"
	"unicode/utf16"

	"github.com/gogpu/textengine/style"
	"github.com/gogpu/textengine/stylecache"
)

// Option configures an Engine.
type Option func(*Engine)

// WithShaper selects the shaper. The default is SimpleShaper.
func WithShaper(s Shaper) Option {
	return func(e *Engine) {
		if s != nil {
			e.shaper = s
		}
	}
}

// WithLogger sets the logger used for layout diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// Engine creates text layouts from styles and text. It resolves formats
// through a style cache and shapes with the configured Shaper.
//
// Engine is not safe for concurrent use.
type Engine struct {
	cache  *stylecache.Cache
	shaper Shaper
	logger *slog.Logger
}

// NewEngine creates a layout engine backed by cache.
func NewEngine(cache *stylecache.Cache, opts ...Option) *Engine {
	e := &Engine{
		cache:  cache,
		shaper: SimpleShaper{},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Cache returns the style cache the engine resolves formats with.
func (e *Engine) Cache() *stylecache.Cache { return e.cache }

// Shaper returns the configured shaper.
func (e *Engine) Shaper() Shaper { return e.shaper }

// CreateLayoutString is CreateLayout for Go strings.
func (e *Engine) CreateLayoutString(p style.ParagraphStyle, t style.TextStyle, text string, maxWidth, maxHeight float32) (*TextLayout, error) {
	return e.CreateLayout(p, t, utf16.Encode([]rune(text)), maxWidth, maxHeight)
}

// CreateLayout shapes text with the given styles into a layout box of
// maxWidth by maxHeight. Text is UTF-16; every position the layout takes or
// returns is a UTF-16 code unit offset into it.
//
// With p.HangingIndent set, the first line starts Indent pixels left of the
// continuation lines. Draw and HitTestPoint account for the indent so
// callers pass the outer box origin.
func (e *Engine) CreateLayout(p style.ParagraphStyle, t style.TextStyle, text []uint16, maxWidth, maxHeight float32) (*TextLayout, error) {
	if t.FontFace == "" {
		return nil, fmt.Errorf("%w: font face is required", style.ErrInvalidStyle)
	}
	if !(t.FontSize > 0) || math.IsInf(float64(t.FontSize), 0) {
		return nil, fmt.Errorf("%w: font size %v", style.ErrInvalidStyle, t.FontSize)
	}
	format, err := e.cache.Format(p, t)
	if err != nil {
		return nil, err
	}

	l := &TextLayout{
		engine:       e,
		format:       format,
		hanging:      p.HangingIndent,
		defaultStyle: e.cache.RenderStyle(t),
		maxWidth:     sanitizeExtent(maxWidth),
		maxHeight:    sanitizeExtent(maxHeight),
	}
	units := text
	if l.hanging {
		l.indent = p.Indent
		units = make([]uint16, 0, len(text)+1)
		units = append(units, ' ')
		units = append(units, text...)
		l.maxWidth = sanitizeExtent(maxWidth - p.Indent)
	} else {
		units = append([]uint16(nil), text...)
	}
	l.setText(units)

	base := &charProps{
		family:        t.FontFace,
		weight:        t.FontWeight.Resolved(),
		fontStyle:     t.FontStyle,
		stretch:       t.FontStretch,
		size:          t.FontSize,
		face:          format.Face,
		metrics:       format.Metrics,
		kerning:       t.Kerning,
		underline:     t.Underline,
		strikethrough: t.Strikethrough,
	}
	l.props = make([]*charProps, len(l.runes))
	for i := range l.props {
		l.props[i] = base
	}
	l.base = base

	if l.hanging {
		l.inlines = []inlineSpan{{start: 0, end: 1, obj: hangingMarker{width: -l.indent}}}
		if len(l.breaks) > 1 && l.breaks[1] == breakAllowed {
			l.breaks[1] = breakNo
		}
	}
	l.ensureShaped()

	e.logger.Debug("layout: created",
		"units", len(text), "face", t.FontFace, "size", t.FontSize,
		"hanging", l.hanging, "maxWidth", maxWidth, "maxHeight", maxHeight)
	return l, nil
}

// sanitizeExtent clamps a layout box extent to a non-negative value.
// NaN is treated as zero.
func sanitizeExtent(v float32) float32 {
	if !(v > 0) {
		return 0
	}
	return v
}

// decodeUTF16 decodes units to runes and builds the index maps between
// the two. runeUnit has len(runes)+1 entries and unitRune len(units)+1.
// Unpaired surrogates decode to U+FFFD.
func decodeUTF16(units []uint16) (runes []rune, runeUnit, unitRune []int) {
	runes = make([]rune, 0, len(units))
	runeUnit = make([]int, 0, len(units)+1)
	unitRune = make([]int, len(units)+1)
	for u := 0; u < len(units); {
		ri := len(runes)
		unitRune[u] = ri
		runeUnit = append(runeUnit, u)
		c := units[u]
		if utf16.IsSurrogate(rune(c)) && u+1 < len(units) {
			if r := utf16.DecodeRune(rune(c), rune(units[u+1])); r != unicode.ReplacementChar {
				runes = append(runes, r)
				unitRune[u+1] = ri
				u += 2
				continue
			}
		}
		if utf16.IsSurrogate(rune(c)) {
			runes = append(runes, unicode.ReplacementChar)
		} else {
			runes = append(runes, rune(c))
		}
		u++
	}
	runeUnit = append(runeUnit, len(units))
	unitRune[len(units)] = len(runes)
	return runes, runeUnit, unitRune
}
