// Package stylecache memoizes prepared text formats and solid-color brushes
// and owns the font collection built from a font catalog.
//
// Formats are keyed by style.FormatKey and brushes by packed color. Both
// caches are bounded LRUs. Reloading the font families discards every
// format and keeps every brush.
//
// A Cache is not safe for concurrent use; it belongs to the drawing
// goroutine of its engine.
package stylecache

import (
	"log/slog"

	textfont "github.com/gogpu/textengine/font"
	"github.com/gogpu/textengine/internal/lru"
	"github.com/gogpu/textengine/style"
)

// Default cache capacities.
const (
	DefaultFormatCapacity = 500
	DefaultBrushCapacity  = 256
)

// Option configures a Cache.
type Option func(*options)

type options struct {
	formatCapacity int
	brushCapacity  int
	logger         *slog.Logger
}

func defaultOptions() options {
	return options{
		formatCapacity: DefaultFormatCapacity,
		brushCapacity:  DefaultBrushCapacity,
		logger:         slog.New(slog.DiscardHandler),
	}
}

// WithFormatCapacity bounds the number of cached formats.
func WithFormatCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.formatCapacity = n
		}
	}
}

// WithBrushCapacity bounds the number of cached brushes.
func WithBrushCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.brushCapacity = n
		}
	}
}

// WithLogger sets the logger for cache diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Cache memoizes formats and brushes for one engine.
type Cache struct {
	catalog    *textfont.Catalog
	collection *Collection
	generation uint64

	formats  *lru.Cache[style.FormatKey, *Format]
	brushes  *lru.Cache[style.ARGB, *Brush]
	ellipsis *EllipsisSign

	formatsBuilt uint64
	brushesBuilt uint64

	logger *slog.Logger
}

// New creates a cache over catalog and builds the first collection.
func New(catalog *textfont.Catalog, opts ...Option) (*Cache, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &Cache{
		catalog: catalog,
		formats: lru.New[style.FormatKey, *Format](o.formatCapacity),
		brushes: lru.New[style.ARGB, *Brush](o.brushCapacity),
		logger:  o.logger,
	}
	c.formats.OnEvict(func(k style.FormatKey, _ *Format) {
		c.logger.Debug("stylecache: format released", "face", k.FontFace, "size", k.FontSize)
	})
	c.brushes.OnEvict(func(k style.ARGB, _ *Brush) {
		c.logger.Debug("stylecache: brush released", "color", k.String())
	})

	if err := c.ReloadFontFamilies(); err != nil {
		return nil, err
	}
	return c, nil
}

// Format returns the prepared format for a style pair, building it on a
// cache miss. Equal keys return the identical *Format until the next
// ReloadFontFamilies.
func (c *Cache) Format(p style.ParagraphStyle, t style.TextStyle) (*Format, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	key := style.NewFormatKey(p, t)
	return c.formats.GetOrCreate(key, func() (*Format, error) {
		return c.buildFormat(key)
	})
}

func (c *Cache) buildFormat(key style.FormatKey) (*Format, error) {
	face, err := c.collection.Match(key.FontFace, key.FontWeight, key.FontStyle, key.FontStretch)
	if err != nil {
		return nil, err
	}
	f := &Format{
		Key:        key,
		Face:       face,
		Metrics:    face.Metrics(key.FontSize),
		TabStop:    key.TabStop,
		Generation: c.generation,
	}
	if f.TabStop <= 0 {
		f.TabStop = defaultTabStopEms * key.FontSize
	}
	if key.TrimmingSign == style.SignEllipsis {
		if c.ellipsis == nil {
			c.ellipsis = newEllipsisSign()
		}
		f.Ellipsis = c.ellipsis
	}
	c.formatsBuilt++
	c.logger.Debug("stylecache: format built",
		"face", key.FontFace, "size", key.FontSize, "weight", key.FontWeight,
		"matched", face.Family, "simulations", face.Simulations)
	return f, nil
}

// ResolveFace matches a face request against the current collection.
// Layouts use it for per-range font overrides.
func (c *Cache) ResolveFace(family string, weight style.FontWeight, fs style.FontStyle, stretch style.FontStretch) (*ResolvedFace, error) {
	return c.collection.Match(family, weight, fs, stretch)
}

// Brush returns the memoized brush for a packed color.
func (c *Cache) Brush(color style.ARGB) *Brush {
	b, _ := c.brushes.GetOrCreate(color, func() (*Brush, error) {
		c.brushesBuilt++
		return &Brush{packed: color, color: color.Color()}, nil
	})
	return b
}

// RenderStyle resolves the color, shadow and outline of a text style to
// brushes.
func (c *Cache) RenderStyle(t style.TextStyle) *RenderStyle {
	rs := &RenderStyle{Fill: c.Brush(t.Color)}
	if t.HasShadow() {
		rs.Shadow = c.Brush(t.DropShadowColor)
	}
	if t.HasOutline() {
		rs.Outline = c.Brush(t.OutlineColor)
		rs.OutlineWidth = t.OutlineWidth
	}
	return rs
}

// ReloadFontFamilies rebuilds the collection from the catalog under a new
// generation and discards every cached format. Brushes are kept. On error
// the previous collection and formats stay in place.
func (c *Cache) ReloadFontFamilies() error {
	gen := c.generation + 1
	coll, err := BuildCollection(c.catalog, gen)
	if err != nil {
		c.logger.Warn("stylecache: font reload failed", "error", err)
		return err
	}
	for _, se := range coll.Skipped() {
		c.logger.Debug("stylecache: skipping font file", "file", se.Face, "error", se.Err)
	}
	c.formats.Purge()
	c.collection = coll
	c.generation = gen
	c.logger.Info("stylecache: font families reloaded",
		"generation", gen, "files", c.catalog.Len(), "skipped", len(coll.Skipped()), "families", coll.FamilyCount())
	return nil
}

// Generation returns the current collection generation.
func (c *Cache) Generation() uint64 { return c.generation }

// Collection returns the current font collection.
func (c *Cache) Collection() *Collection { return c.collection }

// FontFamilyCount returns the number of families in the collection.
func (c *Cache) FontFamilyCount() int { return c.collection.FamilyCount() }

// FontFamilyName returns the name of family i, or a sentinel name for an
// out-of-range index or a family without a name.
func (c *Cache) FontFamilyName(i int) string { return c.collection.FamilyName(i) }

// Stats contains statistics for one of the two caches.
type Stats struct {
	Len       int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
	// Built counts constructions of new entries.
	Built uint64
}

// FormatStats returns format cache statistics.
func (c *Cache) FormatStats() Stats {
	return toStats(c.formats.Stats(), c.formatsBuilt)
}

// BrushStats returns brush cache statistics.
func (c *Cache) BrushStats() Stats {
	return toStats(c.brushes.Stats(), c.brushesBuilt)
}

func toStats(s lru.Stats, built uint64) Stats {
	return Stats{
		Len:       s.Len,
		Capacity:  s.Capacity,
		Hits:      s.Hits,
		Misses:    s.Misses,
		Evictions: s.Evictions,
		Built:     built,
	}
}
