// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import "errors"

var (
	// ErrNoRenderTarget is returned when drawing starts without a bound target.
	ErrNoRenderTarget = errors.New("surface: no render target")

	// ErrAlreadyDrawing is returned by BeginDraw inside a BeginDraw/EndDraw pair.
	ErrAlreadyDrawing = errors.New("surface: already drawing")

	// ErrNotDrawing is returned by EndDraw without a matching BeginDraw.
	ErrNotDrawing = errors.New("surface: not drawing")

	// ErrSurfaceClosed is returned when flushing a closed surface.
	ErrSurfaceClosed = errors.New("surface: surface closed")

	// ErrInvalidCanvasSize is returned for non-positive canvas dimensions.
	ErrInvalidCanvasSize = errors.New("surface: invalid canvas size")
)

// RenderError reports a failed drawing operation.
type RenderError struct {
	Op  string
	Err error
}

func (e *RenderError) Error() string {
	if e.Err == nil {
		return "surface: " + e.Op + " failed"
	}
	return "surface: " + e.Op + ": " + e.Err.Error()
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
