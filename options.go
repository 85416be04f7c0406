package textengine

import (
	"log/slog"
	"os"

	"github.com/gogpu/textengine/layout"
	"github.com/gogpu/textengine/renderer"
	"github.com/gogpu/textengine/stylecache"
)

// Option configures an Engine during creation.
//
// Example:
//
//	e, err := textengine.CreateEngine(
//	    textengine.WithCanvasSize(800, 600),
//	    textengine.WithFormatCacheSize(100),
//	)
type Option func(*engineOptions)

// engineOptions holds optional configuration for Engine creation.
type engineOptions struct {
	debug          bool
	logger         *slog.Logger
	formatCapacity int
	brushCapacity  int
	outlineCap     int
	shaper         layout.Shaper
	canvasW        float64
	canvasH        float64
	backend        string
	fonts          []fontFile
}

type fontFile struct {
	name string
	data []byte
}

// defaultOptions returns the default engine options.
func defaultOptions() engineOptions {
	return engineOptions{
		formatCapacity: stylecache.DefaultFormatCapacity,
		brushCapacity:  stylecache.DefaultBrushCapacity,
		outlineCap:     renderer.DefaultOutlineCacheSize,
	}
}

// resolveLogger picks the engine logger: an explicit logger first, then a
// debug handler on stderr, then the package logger.
func (o *engineOptions) resolveLogger() *slog.Logger {
	switch {
	case o.logger != nil:
		return o.logger
	case o.debug:
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return Logger()
	}
}

// WithDebug enables debug diagnostics on stderr when no logger is given.
func WithDebug(debug bool) Option {
	return func(o *engineOptions) {
		o.debug = debug
	}
}

// WithLogger sets the logger for the engine and its caches, layouts and
// renderer.
func WithLogger(l *slog.Logger) Option {
	return func(o *engineOptions) {
		o.logger = l
	}
}

// WithFormatCacheSize bounds the number of cached text formats.
// Non-positive values keep the default of 500.
func WithFormatCacheSize(n int) Option {
	return func(o *engineOptions) {
		if n > 0 {
			o.formatCapacity = n
		}
	}
}

// WithBrushCacheSize bounds the number of cached brushes.
// Non-positive values keep the default of 256.
func WithBrushCacheSize(n int) Option {
	return func(o *engineOptions) {
		if n > 0 {
			o.brushCapacity = n
		}
	}
}

// WithOutlineCacheSize bounds the number of cached glyph outlines.
func WithOutlineCacheSize(n int) Option {
	return func(o *engineOptions) {
		if n > 0 {
			o.outlineCap = n
		}
	}
}

// WithShaper replaces the HarfBuzz shaper used by text layouts.
//
// Example:
//
//	e, err := textengine.CreateEngine(textengine.WithShaper(layout.SimpleShaper{}))
func WithShaper(s layout.Shaper) Option {
	return func(o *engineOptions) {
		o.shaper = s
	}
}

// WithCanvasSize sets the logical canvas size. Once a render target is
// bound, the canvas scale maps this size onto the target's pixels.
func WithCanvasSize(width, height float64) Option {
	return func(o *engineOptions) {
		o.canvasW, o.canvasH = width, height
	}
}

// WithBackend selects the surface backend used by CreateRenderTarget.
// An empty name picks the highest-priority registered backend.
func WithBackend(name string) Option {
	return func(o *engineOptions) {
		o.backend = name
	}
}

// WithFontFile adds a font file to the catalog before the first font
// collection is built.
func WithFontFile(name string, data []byte) Option {
	return func(o *engineOptions) {
		o.fonts = append(o.fonts, fontFile{name: name, data: data})
	}
}
