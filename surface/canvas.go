// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"fmt"
	"image/color"
)

// DefaultDPI is the DPI at which one logical unit equals one device pixel.
const DefaultDPI = 96.0

// Canvas is the drawing facade the text renderer draws through. It binds a
// render target, brackets drawing with BeginDraw/EndDraw, and maps user
// coordinates to device pixels through the current transform followed by
// the DPI scale.
//
// A Canvas without a render target accepts every call; draws are no-ops.
// Canvas is not safe for concurrent use.
type Canvas struct {
	target  Surface
	drawing bool

	transform Matrix

	// Logical canvas size set by SetCanvasSize; zero means unset.
	logicalW, logicalH float64
	dpiX, dpiY         float64

	// Clips pushed on the current target.
	clips int
}

// NewCanvas creates a canvas with an identity transform at 96 DPI and no
// render target.
func NewCanvas() *Canvas {
	return &Canvas{
		transform: Identity(),
		dpiX:      DefaultDPI,
		dpiY:      DefaultDPI,
	}
}

// SetRenderTarget binds s as the drawing target. Nil detaches the current
// target. Clips pushed on the previous target are popped and an open
// BeginDraw is abandoned without flushing.
func (c *Canvas) SetRenderTarget(s Surface) {
	if c.target != nil {
		for ; c.clips > 0; c.clips-- {
			c.target.PopClip()
		}
	}
	c.target = s
	c.drawing = false
	c.clips = 0
	c.updateDPI()
}

// RenderTarget returns the bound target, or nil.
func (c *Canvas) RenderTarget() Surface {
	return c.target
}

// SetCanvasSize sets the logical size of the canvas. The DPI becomes
// 96 * actual / logical per axis, where actual is the target size in pixels.
func (c *Canvas) SetCanvasSize(width, height float64) error {
	if !(width > 0) || !(height > 0) {
		return fmt.Errorf("%w: %vx%v", ErrInvalidCanvasSize, width, height)
	}
	c.logicalW, c.logicalH = width, height
	c.updateDPI()
	return nil
}

// CanvasSize returns the logical size set by SetCanvasSize, or the target
// size when none was set.
func (c *Canvas) CanvasSize() (width, height float64) {
	if c.logicalW > 0 {
		return c.logicalW, c.logicalH
	}
	if c.target != nil {
		return float64(c.target.Width()), float64(c.target.Height())
	}
	return 0, 0
}

func (c *Canvas) updateDPI() {
	c.dpiX, c.dpiY = DefaultDPI, DefaultDPI
	if c.target == nil || c.logicalW <= 0 || c.logicalH <= 0 {
		return
	}
	c.dpiX = DefaultDPI * float64(c.target.Width()) / c.logicalW
	c.dpiY = DefaultDPI * float64(c.target.Height()) / c.logicalH
}

// DPI returns the horizontal and vertical DPI.
func (c *Canvas) DPI() (x, y float64) {
	return c.dpiX, c.dpiY
}

// CanvasScale returns the device pixels per logical unit on each axis.
func (c *Canvas) CanvasScale() (sx, sy float64) {
	return c.dpiX / DefaultDPI, c.dpiY / DefaultDPI
}

// BeginDraw starts a drawing session on the bound target.
func (c *Canvas) BeginDraw() error {
	if c.target == nil {
		return &RenderError{Op: "begin draw", Err: ErrNoRenderTarget}
	}
	if c.drawing {
		return &RenderError{Op: "begin draw", Err: ErrAlreadyDrawing}
	}
	c.drawing = true
	return nil
}

// EndDraw finishes the drawing session, pops clips left on the stack and
// flushes the target.
func (c *Canvas) EndDraw() error {
	if !c.drawing || c.target == nil {
		return &RenderError{Op: "end draw", Err: ErrNotDrawing}
	}
	c.drawing = false
	for ; c.clips > 0; c.clips-- {
		c.target.PopClip()
	}
	if err := c.target.Flush(); err != nil {
		return &RenderError{Op: "end draw", Err: err}
	}
	return nil
}

// IsDrawing reports whether a BeginDraw is outstanding.
func (c *Canvas) IsDrawing() bool {
	return c.drawing
}

// SetTransform replaces the user transform.
func (c *Canvas) SetTransform(m Matrix) {
	c.transform = m
}

// Transform returns the user transform.
func (c *Canvas) Transform() Matrix {
	return c.transform
}

// DeviceTransform returns the full user-to-device mapping: the user
// transform followed by the DPI scale.
func (c *Canvas) DeviceTransform() Matrix {
	sx, sy := c.CanvasScale()
	return c.transform.Then(Scale(sx, sy))
}

// PushClipRect clips subsequent drawing to the rectangle given by its
// left, top, right and bottom edges in user coordinates. Under a rotating
// transform the clip is the device-space bounding box of the rectangle.
func (c *Canvas) PushClipRect(left, top, right, bottom float64, antiAliased bool) {
	if c.target == nil {
		return
	}
	r := c.DeviceTransform().TransformRect(RectLTRB(left, top, right, bottom))
	c.target.PushClip(r, antiAliased)
	c.clips++
}

// PopClipRect removes the most recent clip. Extra pops are ignored.
func (c *Canvas) PopClipRect() {
	if c.target == nil || c.clips == 0 {
		return
	}
	c.target.PopClip()
	c.clips--
}

// ClipDepth returns the number of clips pushed through this canvas.
func (c *Canvas) ClipDepth() int {
	return c.clips
}

// Clear fills the whole target with col.
func (c *Canvas) Clear(col color.Color) {
	if c.target == nil {
		return
	}
	c.target.Clear(col)
}

// FillPath fills a path given in user coordinates.
func (c *Canvas) FillPath(p *Path, col color.Color) {
	if c.target == nil || p.IsEmpty() {
		return
	}
	c.target.Fill(p.Transform(c.DeviceTransform()), FillStyle{Color: col})
}

// StrokePath strokes a path given in user coordinates. The stroke width is
// scaled by the transform.
func (c *Canvas) StrokePath(p *Path, style StrokeStyle) {
	if c.target == nil || p.IsEmpty() || style.Width <= 0 {
		return
	}
	m := c.DeviceTransform()
	style.Width *= m.ScaleFactor()
	c.target.Stroke(p.Transform(m), style)
}

// FillRect fills an axis-aligned rectangle in user coordinates.
func (c *Canvas) FillRect(x, y, w, h float64, col color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	p := NewPath()
	p.Rectangle(x, y, w, h)
	c.FillPath(p, col)
}
