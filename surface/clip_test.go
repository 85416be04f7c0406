// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClipStackAliasedSnaps(t *testing.T) {
	cs := newClipStack(Rect{MaxX: 100, MaxY: 100})
	cs.push(Rect{MinX: 0.4, MinY: 0.4, MaxX: 10.6, MaxY: 10.6}, false)

	assert.Equal(t, Rect{MaxX: 11, MaxY: 11}, cs.bounds)
	assert.Equal(t, 1.0, cs.coverage(0, 0))
	assert.Equal(t, 1.0, cs.coverage(10, 10))
	assert.Equal(t, 0.0, cs.coverage(11, 5))
}

func TestClipStackAntiAliasedEdges(t *testing.T) {
	cs := newClipStack(Rect{MaxX: 100, MaxY: 100})
	cs.push(Rect{MinX: 0.5, MaxX: 10, MaxY: 10.25}, true)

	assert.InDelta(t, 0.5, cs.coverage(0, 0), 1e-12)
	assert.InDelta(t, 1.0, cs.coverage(5, 5), 1e-12)
	assert.InDelta(t, 0.25, cs.coverage(5, 10), 1e-12)
	assert.InDelta(t, 0.125, cs.coverage(0, 10), 1e-12)

	x0, y0, x1, y1 := cs.pixelBounds()
	assert.Equal(t, []int{0, 0, 10, 11}, []int{x0, y0, x1, y1})
}

func TestClipStackNestingAndPop(t *testing.T) {
	outer := Rect{MaxX: 100, MaxY: 100}
	cs := newClipStack(outer)

	cs.push(Rect{MinX: 10, MinY: 10, MaxX: 50, MaxY: 50}, false)
	cs.push(Rect{MinX: 30, MinY: 0, MaxX: 80, MaxY: 40}, false)
	assert.Equal(t, Rect{MinX: 30, MinY: 10, MaxX: 50, MaxY: 40}, cs.bounds)
	assert.Equal(t, 2, cs.depth())

	assert.True(t, cs.pop())
	assert.Equal(t, Rect{MinX: 10, MinY: 10, MaxX: 50, MaxY: 50}, cs.bounds)
	assert.True(t, cs.pop())
	assert.Equal(t, outer, cs.bounds)
	assert.False(t, cs.pop(), "popping an empty stack")

	cs.push(Rect{MinX: 200, MinY: 200, MaxX: 300, MaxY: 300}, true)
	assert.True(t, cs.bounds.IsEmpty())
	assert.Equal(t, 0.0, cs.coverage(0, 0))

	cs.reset(outer)
	assert.Equal(t, 0, cs.depth())
}
