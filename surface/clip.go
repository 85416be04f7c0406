// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import "math"

// clipStack manages nested rectangular clip regions in device space.
// The effective region is the intersection of every pushed rectangle.
type clipStack struct {
	entries []clipEntry
	bounds  Rect
}

// clipEntry records the bounds that were active before a push.
type clipEntry struct {
	prevBounds Rect
	antiAlias  bool
}

// newClipStack creates a clip stack limited to the given bounds
// (typically the surface size).
func newClipStack(bounds Rect) *clipStack {
	return &clipStack{
		entries: make([]clipEntry, 0, 8),
		bounds:  bounds,
	}
}

// push intersects the current region with r. Aliased rectangles are
// snapped to whole pixels first; anti-aliased ones keep fractional edges.
func (cs *clipStack) push(r Rect, antiAlias bool) {
	if !antiAlias {
		r = Rect{
			MinX: math.Round(r.MinX),
			MinY: math.Round(r.MinY),
			MaxX: math.Round(r.MaxX),
			MaxY: math.Round(r.MaxY),
		}
	}
	cs.entries = append(cs.entries, clipEntry{
		prevBounds: cs.bounds,
		antiAlias:  antiAlias,
	})
	cs.bounds = cs.bounds.Intersect(r)
}

// pop restores the region active before the most recent push.
// Popping an empty stack is a no-op and reports false.
func (cs *clipStack) pop() bool {
	if len(cs.entries) == 0 {
		return false
	}
	last := len(cs.entries) - 1
	cs.bounds = cs.entries[last].prevBounds
	cs.entries = cs.entries[:last]
	return true
}

// reset drops every entry and sets new outer bounds.
func (cs *clipStack) reset(bounds Rect) {
	cs.entries = cs.entries[:0]
	cs.bounds = bounds
}

func (cs *clipStack) depth() int {
	return len(cs.entries)
}

// pixelBounds returns the integer pixel range touched by the region.
func (cs *clipStack) pixelBounds() (x0, y0, x1, y1 int) {
	if cs.bounds.IsEmpty() {
		return 0, 0, 0, 0
	}
	return int(math.Floor(cs.bounds.MinX)), int(math.Floor(cs.bounds.MinY)),
		int(math.Ceil(cs.bounds.MaxX)), int(math.Ceil(cs.bounds.MaxY))
}

// coverage returns the fraction (0..1) of pixel (x, y) inside the region.
func (cs *clipStack) coverage(x, y int) float64 {
	fx := overlap(float64(x), float64(x+1), cs.bounds.MinX, cs.bounds.MaxX)
	if fx == 0 {
		return 0
	}
	return fx * overlap(float64(y), float64(y+1), cs.bounds.MinY, cs.bounds.MaxY)
}

// overlap returns the length of the intersection of [a0, a1) and [b0, b1).
func overlap(a0, a1, b0, b1 float64) float64 {
	lo := math.Max(a0, b0)
	hi := math.Min(a1, b1)
	if hi <= lo {
		return 0
	}
	return hi - lo
}
