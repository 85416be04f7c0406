// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import "math"

// defaultStrokeTolerance is the flattening tolerance in device pixels.
const defaultStrokeTolerance = 0.25

// vec2 is a 2D displacement.
type vec2 struct {
	X, Y float64
}

func (p Point) add(v vec2) Point { return Point{p.X + v.X, p.Y + v.Y} }
func (p Point) sub(q Point) vec2 { return vec2{p.X - q.X, p.Y - q.Y} }
func (p Point) lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

func (v vec2) scale(s float64) vec2 { return vec2{v.X * s, v.Y * s} }
func (v vec2) neg() vec2 { return vec2{-v.X, -v.Y} }
func (v vec2) dot(w vec2) float64 { return v.X*w.X + v.Y*w.Y }
func (v vec2) cross(w vec2) float64 { return v.X*w.Y - v.Y*w.X }
func (v vec2) length() float64 { return math.Hypot(v.X, v.Y) }
func (v vec2) lengthSquared() float64 { return v.X*v.X + v.Y*v.Y }
func (v vec2) perp() vec2 { return vec2{-v.Y, v.X} }
func (v vec2) angle() float64 { return math.Atan2(v.Y, v.X) }

// strokeExpander converts a stroked path into a fill path that covers the
// same pixels under the non-zero rule.
//
// Each subpath is offset on both sides into two polylines. The forward side
// is emitted as-is, the backward side reversed, and caps connect them. A
// closed subpath becomes two rings of opposite orientation.
type strokeExpander struct {
	style     StrokeStyle
	tolerance float64

	forward  []Point
	backward []Point
	out      *Path

	startPt   Point
	startNorm vec2
	startTan  vec2
	lastPt    Point
	lastTan   vec2
	lastNorm  vec2

	// Joins whose angle change is below this are skipped.
	joinThresh float64
}

// expandStroke returns the fill outline of p stroked with style.
// A non-positive width yields an empty path.
func expandStroke(p *Path, style StrokeStyle, tolerance float64) *Path {
	out := NewPath()
	if style.Width <= 0 || p.IsEmpty() {
		return out
	}
	if tolerance <= 0 {
		tolerance = defaultStrokeTolerance
	}
	if style.MiterLimit <= 0 {
		style.MiterLimit = 4
	}
	e := &strokeExpander{
		style:      style,
		tolerance:  tolerance,
		out:        out,
		joinThresh: 2.0 * tolerance / style.Width,
	}
	p.Walk(e.element)
	e.finish()
	return out
}

func (e *strokeExpander) element(v Verb, pts []Point) {
	switch v {
	case VerbMoveTo:
		e.finish()
		e.startPt = pts[0]
		e.lastPt = pts[0]
	case VerbLineTo:
		e.lineTo(pts[0])
	case VerbQuadTo:
		for _, pt := range e.flattenQuad(e.lastPt, pts[0], pts[1])[1:] {
			e.lineTo(pt)
		}
	case VerbCubicTo:
		for _, pt := range e.flattenCubic(e.lastPt, pts[0], pts[1], pts[2])[1:] {
			e.lineTo(pt)
		}
	case VerbClose:
		e.lineTo(e.startPt)
		e.finishClosed()
		e.lastPt = e.startPt
	}
}

func (e *strokeExpander) lineTo(p1 Point) {
	tangent := p1.sub(e.lastPt)
	if tangent.lengthSquared() <= 1e-12 {
		return
	}
	e.doJoin(tangent)
	e.lastTan = tangent

	norm := tangent.perp().scale(0.5 * e.style.Width / tangent.length())
	e.forward = append(e.forward, p1.add(norm.neg()))
	e.backward = append(e.backward, p1.add(norm))
	e.lastPt = p1
	e.lastNorm = norm
}

// doJoin connects the segment starting at lastPt with tangent tan0 to the
// previous one.
func (e *strokeExpander) doJoin(tan0 vec2) {
	norm := tan0.perp().scale(0.5 * e.style.Width / tan0.length())
	p0 := e.lastPt

	if len(e.forward) == 0 {
		e.forward = append(e.forward, p0.add(norm.neg()))
		e.backward = append(e.backward, p0.add(norm))
		e.startTan = tan0
		e.startNorm = norm
		return
	}

	ab := e.lastTan
	cd := tan0
	cross := ab.cross(cd)
	dot := ab.dot(cd)
	hypot := math.Hypot(cross, dot)

	if dot > 0.0 && math.Abs(cross) < hypot*e.joinThresh {
		e.forward = append(e.forward, p0.add(norm.neg()))
		e.backward = append(e.backward, p0.add(norm))
		return
	}

	switch e.style.Join {
	case LineJoinMiter:
		if 2.0*hypot < (hypot+dot)*e.style.MiterLimit*e.style.MiterLimit {
			e.miterPoint(p0, norm, ab, cd, cross)
		}
	case LineJoinRound:
		angle := math.Atan2(cross, dot)
		if angle > 0.0 {
			e.forward = e.arc(e.forward, p0, e.lastNorm.neg(), angle)
		} else {
			e.backward = e.arc(e.backward, p0, e.lastNorm, angle)
		}
	}
	e.forward = append(e.forward, p0.add(norm.neg()))
	e.backward = append(e.backward, p0.add(norm))
}

// miterPoint adds the miter tip on the outer side and routes the inner side
// through the join center.
func (e *strokeExpander) miterPoint(p0 Point, norm, ab, cd vec2, cross float64) {
	lastNorm := e.lastNorm
	switch {
	case cross > 0.0:
		fpLast := p0.add(lastNorm.neg())
		fpThis := p0.add(norm.neg())
		h := ab.cross(fpThis.sub(fpLast)) / cross
		e.forward = append(e.forward, fpThis.add(cd.scale(-h)))
		e.backward = append(e.backward, p0)
	case cross < 0.0:
		fpLast := p0.add(lastNorm)
		fpThis := p0.add(norm)
		h := ab.cross(fpThis.sub(fpLast)) / cross
		e.backward = append(e.backward, fpThis.add(cd.scale(-h)))
		e.forward = append(e.forward, p0)
	}
}

// arc appends points on the circle around center, starting at center+from
// and sweeping the signed angle. The start point itself is not appended.
func (e *strokeExpander) arc(dst []Point, center Point, from vec2, sweep float64) []Point {
	radius := from.length()
	if radius <= 0 {
		return dst
	}
	step := math.Pi / 2
	if e.tolerance < radius {
		step = math.Min(step, 2*math.Acos(1-e.tolerance/radius))
	}
	n := int(math.Ceil(math.Abs(sweep) / step))
	if n < 1 {
		n = 1
	}
	a0 := from.angle()
	for i := 1; i <= n; i++ {
		a := a0 + sweep*float64(i)/float64(n)
		sin, cos := math.Sincos(a)
		dst = append(dst, Point{center.X + radius*cos, center.Y + radius*sin})
	}
	return dst
}

// capTo emits a cap at center that starts at center+from (already the
// current point) and ends at center-from, bulging away from the stroke.
func (e *strokeExpander) capTo(center Point, from vec2) {
	switch e.style.Cap {
	case LineCapRound:
		for _, pt := range e.arc(nil, center, from, math.Pi) {
			e.out.LineTo(pt.X, pt.Y)
		}
	case LineCapSquare:
		outward := from.perp()
		a := center.add(from).add(outward)
		b := center.add(from.neg()).add(outward)
		e.out.LineTo(a.X, a.Y)
		e.out.LineTo(b.X, b.Y)
		end := center.add(from.neg())
		e.out.LineTo(end.X, end.Y)
	default:
		end := center.add(from.neg())
		e.out.LineTo(end.X, end.Y)
	}
}

// finish completes an open subpath with caps on both ends.
func (e *strokeExpander) finish() {
	if len(e.forward) == 0 {
		return
	}
	e.out.MoveTo(e.forward[0].X, e.forward[0].Y)
	for _, pt := range e.forward[1:] {
		e.out.LineTo(pt.X, pt.Y)
	}
	e.capTo(e.lastPt, e.lastNorm.neg())
	for i := len(e.backward) - 2; i >= 0; i-- {
		e.out.LineTo(e.backward[i].X, e.backward[i].Y)
	}
	e.capTo(e.startPt, e.startNorm)
	e.out.Close()
	e.forward = e.forward[:0]
	e.backward = e.backward[:0]
}

// finishClosed joins the last segment to the first and emits both rings.
func (e *strokeExpander) finishClosed() {
	if len(e.forward) == 0 {
		return
	}
	e.doJoin(e.startTan)

	e.out.MoveTo(e.forward[0].X, e.forward[0].Y)
	for _, pt := range e.forward[1:] {
		e.out.LineTo(pt.X, pt.Y)
	}
	e.out.Close()

	last := len(e.backward) - 1
	e.out.MoveTo(e.backward[last].X, e.backward[last].Y)
	for i := last - 1; i >= 0; i-- {
		e.out.LineTo(e.backward[i].X, e.backward[i].Y)
	}
	e.out.Close()

	e.forward = e.forward[:0]
	e.backward = e.backward[:0]
}

// flattenQuad flattens a quadratic Bezier curve to points, p0 included.
func (e *strokeExpander) flattenQuad(p0, p1, p2 Point) []Point {
	points := []Point{p0}
	e.flattenQuadRec(p0, p1, p2, 0, &points)
	return points
}

func (e *strokeExpander) flattenQuadRec(p0, p1, p2 Point, depth int, points *[]Point) {
	if depth >= 16 || distanceToLine(p1, p0, p2) < e.tolerance {
		*points = append(*points, p2)
		return
	}
	q0 := p0.lerp(p1, 0.5)
	q1 := p1.lerp(p2, 0.5)
	q2 := q0.lerp(q1, 0.5)
	e.flattenQuadRec(p0, q0, q2, depth+1, points)
	e.flattenQuadRec(q2, q1, p2, depth+1, points)
}

// flattenCubic flattens a cubic Bezier curve to points, p0 included.
func (e *strokeExpander) flattenCubic(p0, p1, p2, p3 Point) []Point {
	points := []Point{p0}
	e.flattenCubicRec(p0, p1, p2, p3, 0, &points)
	return points
}

func (e *strokeExpander) flattenCubicRec(p0, p1, p2, p3 Point, depth int, points *[]Point) {
	dist := math.Max(distanceToLine(p1, p0, p3), distanceToLine(p2, p0, p3))
	if depth >= 16 || dist < e.tolerance {
		*points = append(*points, p3)
		return
	}
	q0 := p0.lerp(p1, 0.5)
	q1 := p1.lerp(p2, 0.5)
	q2 := p2.lerp(p3, 0.5)
	r0 := q0.lerp(q1, 0.5)
	r1 := q1.lerp(q2, 0.5)
	s := r0.lerp(r1, 0.5)
	e.flattenCubicRec(p0, q0, r0, s, depth+1, points)
	e.flattenCubicRec(s, r1, q2, p3, depth+1, points)
}

// distanceToLine returns the distance from p to segment (a, b).
func distanceToLine(p, a, b Point) float64 {
	ab := b.sub(a)
	lenSq := ab.lengthSquared()
	if lenSq < 1e-20 {
		return p.sub(a).length()
	}
	t := p.sub(a).dot(ab) / lenSq
	switch {
	case t < 0:
		return p.sub(a).length()
	case t > 1:
		return p.sub(b).length()
	}
	return p.sub(a.add(ab.scale(t))).length()
}
