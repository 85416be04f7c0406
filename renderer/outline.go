package renderer

import (
	"errors"
	"fmt"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/textengine/internal/lru"
	"github.com/gogpu/textengine/stylecache"
	"github.com/gogpu/textengine/surface"
)

// DefaultOutlineCacheSize is the number of glyph outlines kept by a
// GlyphRenderer.
const DefaultOutlineCacheSize = 1024

// OutlineOp is the type of an outline segment.
type OutlineOp uint8

const (
	// OutlineOpMoveTo starts a new contour.
	OutlineOpMoveTo OutlineOp = iota
	// OutlineOpLineTo draws a line to the target point.
	OutlineOpLineTo
	// OutlineOpQuadTo draws a quadratic Bezier curve.
	OutlineOpQuadTo
	// OutlineOpCubicTo draws a cubic Bezier curve.
	OutlineOpCubicTo
)

// String returns a string representation of the operation.
func (op OutlineOp) String() string {
	switch op {
	case OutlineOpMoveTo:
		return "MoveTo"
	case OutlineOpLineTo:
		return "LineTo"
	case OutlineOpQuadTo:
		return "QuadTo"
	case OutlineOpCubicTo:
		return "CubicTo"
	default:
		return "Unknown"
	}
}

// OutlineSegment is one segment of a glyph outline.
//
//   - MoveTo, LineTo: Points[0] is the target
//   - QuadTo: Points[0] is the control point, Points[1] the target
//   - CubicTo: Points[0] and Points[1] are controls, Points[2] the target
type OutlineSegment struct {
	Op     OutlineOp
	Points [3]surface.Point
}

// GlyphOutline is the vector outline of a glyph in pixels at one size,
// relative to the glyph origin on the baseline with y pointing down.
type GlyphOutline struct {
	Segments []OutlineSegment
	Bounds   surface.Rect
}

// IsEmpty reports whether the outline has no segments.
func (o *GlyphOutline) IsEmpty() bool {
	return o == nil || len(o.Segments) == 0
}

// AppendTo appends the outline to p, transformed by m.
func (o *GlyphOutline) AppendTo(p *surface.Path, m surface.Matrix) {
	if o.IsEmpty() {
		return
	}
	var t [3]surface.Point
	for i, seg := range o.Segments {
		if seg.Op == OutlineOpMoveTo && i > 0 {
			p.Close()
		}
		for j := range seg.Op.pointCount() {
			t[j] = m.TransformPoint(seg.Points[j])
		}
		switch seg.Op {
		case OutlineOpMoveTo:
			p.MoveTo(t[0].X, t[0].Y)
		case OutlineOpLineTo:
			p.LineTo(t[0].X, t[0].Y)
		case OutlineOpQuadTo:
			p.QuadTo(t[0].X, t[0].Y, t[1].X, t[1].Y)
		case OutlineOpCubicTo:
			p.CubicTo(t[0].X, t[0].Y, t[1].X, t[1].Y, t[2].X, t[2].Y)
		}
	}
	p.Close()
}

func (op OutlineOp) pointCount() int {
	switch op {
	case OutlineOpQuadTo:
		return 2
	case OutlineOpCubicTo:
		return 3
	default:
		return 1
	}
}

// outlineKey identifies a cached outline. Size is in 26.6 fixed point so
// that equal float sizes share an entry.
type outlineKey struct {
	face *stylecache.Face
	gid  uint16
	size fixed.Int26_6
}

// outlineCache extracts glyph outlines and keeps the most recently used.
type outlineCache struct {
	entries *lru.Cache[outlineKey, *GlyphOutline]
}

func newOutlineCache(capacity int) *outlineCache {
	return &outlineCache{entries: lru.New[outlineKey, *GlyphOutline](capacity)}
}

// get returns the outline of gid at size. Glyphs without an outline, such
// as spaces or bitmap-only glyphs, return an empty outline and no error.
func (c *outlineCache) get(face *stylecache.Face, gid uint16, size float32) (*GlyphOutline, error) {
	key := outlineKey{face: face, gid: gid, size: fixed.Int26_6(size * 64)}
	return c.entries.GetOrCreate(key, func() (*GlyphOutline, error) {
		return extractOutline(face, gid, size)
	})
}

func (c *outlineCache) stats() lru.Stats { return c.entries.Stats() }

// extractOutline converts the sfnt segments of a glyph to a GlyphOutline.
// Face.LoadGlyph reuses its buffer, so the points are copied.
func extractOutline(face *stylecache.Face, gid uint16, size float32) (*GlyphOutline, error) {
	segments, err := face.LoadGlyph(gid, size)
	if err != nil {
		if errors.Is(err, sfnt.ErrNotFound) || errors.Is(err, sfnt.ErrColoredGlyph) {
			return &GlyphOutline{}, nil
		}
		return nil, fmt.Errorf("load glyph %d: %w", gid, err)
	}

	out := &GlyphOutline{Segments: make([]OutlineSegment, 0, len(segments))}
	first := true
	grow := func(p surface.Point) {
		if first {
			out.Bounds = surface.Rect{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
			first = false
			return
		}
		out.Bounds.MinX = min(out.Bounds.MinX, p.X)
		out.Bounds.MinY = min(out.Bounds.MinY, p.Y)
		out.Bounds.MaxX = max(out.Bounds.MaxX, p.X)
		out.Bounds.MaxY = max(out.Bounds.MaxY, p.Y)
	}
	for _, seg := range segments {
		var s OutlineSegment
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			s.Op = OutlineOpMoveTo
		case sfnt.SegmentOpLineTo:
			s.Op = OutlineOpLineTo
		case sfnt.SegmentOpQuadTo:
			s.Op = OutlineOpQuadTo
		case sfnt.SegmentOpCubeTo:
			s.Op = OutlineOpCubicTo
		default:
			continue
		}
		for i := range s.Op.pointCount() {
			s.Points[i] = fixedPoint(seg.Args[i])
			grow(s.Points[i])
		}
		out.Segments = append(out.Segments, s)
	}
	return out, nil
}

func fixedPoint(p fixed.Point26_6) surface.Point {
	return surface.Point{X: float64(p.X) / 64, Y: float64(p.Y) / 64}
}
