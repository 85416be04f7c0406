// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import "math"

// Verb identifies a path segment kind.
type Verb uint8

const (
	// VerbMoveTo starts a new subpath. Consumes one point.
	VerbMoveTo Verb = iota
	// VerbLineTo draws a line. Consumes one point.
	VerbLineTo
	// VerbQuadTo draws a quadratic Bezier. Consumes two points.
	VerbQuadTo
	// VerbCubicTo draws a cubic Bezier. Consumes three points.
	VerbCubicTo
	// VerbClose closes the current subpath. Consumes no points.
	VerbClose
)

// pointCount returns the number of points consumed by the verb.
func (v Verb) pointCount() int {
	switch v {
	case VerbMoveTo, VerbLineTo:
		return 1
	case VerbQuadTo:
		return 2
	case VerbCubicTo:
		return 3
	default:
		return 0
	}
}

// Path represents a vector path for drawing operations.
//
// Example:
//
//	p := surface.NewPath()
//	p.MoveTo(100, 100)
//	p.LineTo(200, 100)
//	p.LineTo(150, 200)
//	p.Close()
type Path struct {
	verbs  []Verb
	points []Point
	start  Point
	cur    Point
}

// NewPath creates a new empty path.
func NewPath() *Path {
	return &Path{
		verbs:  make([]Verb, 0, 16),
		points: make([]Point, 0, 32),
	}
}

// MoveTo starts a new subpath at the given point.
func (p *Path) MoveTo(x, y float64) {
	p.verbs = append(p.verbs, VerbMoveTo)
	p.points = append(p.points, Point{x, y})
	p.start = Point{x, y}
	p.cur = p.start
}

// LineTo adds a line from the current point to (x, y).
func (p *Path) LineTo(x, y float64) {
	if len(p.verbs) == 0 {
		p.MoveTo(x, y)
		return
	}
	p.verbs = append(p.verbs, VerbLineTo)
	p.points = append(p.points, Point{x, y})
	p.cur = Point{x, y}
}

// QuadTo adds a quadratic Bezier curve from the current point.
// (cx, cy) is the control point, (x, y) is the endpoint.
func (p *Path) QuadTo(cx, cy, x, y float64) {
	if len(p.verbs) == 0 {
		p.MoveTo(cx, cy)
	}
	p.verbs = append(p.verbs, VerbQuadTo)
	p.points = append(p.points, Point{cx, cy}, Point{x, y})
	p.cur = Point{x, y}
}

// CubicTo adds a cubic Bezier curve from the current point.
// (c1x, c1y) and (c2x, c2y) are control points, (x, y) is the endpoint.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	if len(p.verbs) == 0 {
		p.MoveTo(c1x, c1y)
	}
	p.verbs = append(p.verbs, VerbCubicTo)
	p.points = append(p.points, Point{c1x, c1y}, Point{c2x, c2y}, Point{x, y})
	p.cur = Point{x, y}
}

// Close closes the current subpath by connecting to the start point.
func (p *Path) Close() {
	if len(p.verbs) == 0 {
		return
	}
	p.verbs = append(p.verbs, VerbClose)
	p.cur = p.start
}

// Clear removes all elements from the path.
func (p *Path) Clear() {
	p.verbs = p.verbs[:0]
	p.points = p.points[:0]
	p.start = Point{}
	p.cur = Point{}
}

// IsEmpty returns true if the path has no elements.
func (p *Path) IsEmpty() bool {
	return p == nil || len(p.verbs) == 0
}

// Verbs returns the verb slice. The slice must not be modified.
func (p *Path) Verbs() []Verb {
	return p.verbs
}

// Points returns the point slice. The slice must not be modified.
func (p *Path) Points() []Point {
	return p.points
}

// Clone creates a deep copy of the path.
func (p *Path) Clone() *Path {
	clone := &Path{
		verbs:  make([]Verb, len(p.verbs)),
		points: make([]Point, len(p.points)),
		start:  p.start,
		cur:    p.cur,
	}
	copy(clone.verbs, p.verbs)
	copy(clone.points, p.points)
	return clone
}

// CurrentPoint returns the current point.
func (p *Path) CurrentPoint() Point {
	return p.cur
}

// Append adds all subpaths of other to p.
func (p *Path) Append(other *Path) {
	if other.IsEmpty() {
		return
	}
	p.verbs = append(p.verbs, other.verbs...)
	p.points = append(p.points, other.points...)
	p.start = other.start
	p.cur = other.cur
}

// Transform returns a copy of the path with every point mapped through m.
func (p *Path) Transform(m Matrix) *Path {
	out := p.Clone()
	for i, pt := range out.points {
		out.points[i] = m.TransformPoint(pt)
	}
	out.start = m.TransformPoint(out.start)
	out.cur = m.TransformPoint(out.cur)
	return out
}

// Walk calls fn for each verb with the points it consumes.
func (p *Path) Walk(fn func(v Verb, pts []Point)) {
	idx := 0
	for _, v := range p.verbs {
		n := v.pointCount()
		fn(v, p.points[idx:idx+n])
		idx += n
	}
}

// Rectangle adds a rectangle to the path.
func (p *Path) Rectangle(x, y, w, h float64) {
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
}

// RoundedRectangle adds a rectangle with rounded corners.
// The radius is clamped to half of the shorter side.
func (p *Path) RoundedRectangle(x, y, w, h, r float64) {
	maxR := math.Min(w, h) / 2
	if r > maxR {
		r = maxR
	}
	if r <= 0 {
		p.Rectangle(x, y, w, h)
		return
	}

	const k = 0.5522847498307936 // Bezier circle approximation constant
	ctl := r * k

	p.MoveTo(x+r, y)
	p.LineTo(x+w-r, y)
	p.CubicTo(x+w-r+ctl, y, x+w, y+r-ctl, x+w, y+r)
	p.LineTo(x+w, y+h-r)
	p.CubicTo(x+w, y+h-r+ctl, x+w-r+ctl, y+h, x+w-r, y+h)
	p.LineTo(x+r, y+h)
	p.CubicTo(x+r-ctl, y+h, x, y+h-r+ctl, x, y+h-r)
	p.LineTo(x, y+r)
	p.CubicTo(x, y+r-ctl, x+r-ctl, y, x+r, y)
	p.Close()
}

// Bounds returns the bounding box of the path's points, control points
// included. An empty path has empty bounds.
func (p *Path) Bounds() Rect {
	if p.IsEmpty() || len(p.points) == 0 {
		return Rect{}
	}
	first := p.points[0]
	r := Rect{MinX: first.X, MinY: first.Y, MaxX: first.X, MaxY: first.Y}
	for _, pt := range p.points[1:] {
		r.MinX = math.Min(r.MinX, pt.X)
		r.MinY = math.Min(r.MinY, pt.Y)
		r.MaxX = math.Max(r.MaxX, pt.X)
		r.MaxY = math.Max(r.MaxY, pt.Y)
	}
	return r
}
