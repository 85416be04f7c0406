// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface provides the drawing target used by the text renderer.
//
// It has three layers:
//
//   - Surface: a device-space render target. ImageSurface rasterizes paths
//     into an *image.RGBA with golang.org/x/image/vector and supports a
//     stack of rectangular clips.
//   - Path, Matrix and the stroke expander: geometry shared by all backends.
//   - Canvas: the drawing facade. It binds a target, brackets drawing with
//     BeginDraw/EndDraw, keeps the user transform and derives the DPI from
//     the logical canvas size.
//
// # Usage
//
//	s := surface.NewImageSurface(800, 600)
//	c := surface.NewCanvas()
//	c.SetRenderTarget(s)
//	_ = c.SetCanvasSize(400, 300) // 192 DPI, every unit is 2 pixels
//
//	if err := c.BeginDraw(); err != nil {
//	    return err
//	}
//	c.PushClipRect(10, 10, 200, 100, true)
//	c.FillRect(0, 0, 400, 300, color.Black)
//	c.PopClipRect()
//	if err := c.EndDraw(); err != nil {
//	    return err
//	}
//
// Surfaces can also be created by name through the backend registry:
//
//	s, err := surface.NewSurfaceByName("image", surface.Options{Width: 800, Height: 600})
//
// # Thread Safety
//
// Surfaces and canvases are NOT thread-safe. The registry is.
package surface
