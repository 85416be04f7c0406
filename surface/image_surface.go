// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// ImageSurface is a CPU-based surface that renders to an *image.RGBA.
//
// Coverage is computed by golang.org/x/image/vector (non-zero winding),
// multiplied by the clip coverage and composited source-over onto the
// premultiplied pixels.
//
// Example:
//
//	s := surface.NewImageSurface(800, 600)
//	defer s.Close()
//
//	s.Clear(color.White)
//	s.Fill(path, surface.FillStyle{Color: color.Black})
//
//	img := s.Snapshot()
type ImageSurface struct {
	width  int
	height int
	img    *image.RGBA
	clip   *clipStack

	rast *vector.Rasterizer
	mask *image.Alpha

	// tolerance is the stroke flattening tolerance in pixels.
	tolerance float64
	closed    bool
}

// NewImageSurface creates a new image surface with the given dimensions.
// Non-positive dimensions are clamped to 1.
func NewImageSurface(width, height int) *ImageSurface {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	return NewImageSurfaceFromImage(image.NewRGBA(image.Rect(0, 0, width, height)))
}

// NewImageSurfaceFromImage creates a surface drawing into an existing image.
// The image origin must be (0, 0).
func NewImageSurfaceFromImage(img *image.RGBA) *ImageSurface {
	b := img.Bounds()
	return &ImageSurface{
		width:     b.Dx(),
		height:    b.Dy(),
		img:       img,
		clip:      newClipStack(Rect{MaxX: float64(b.Dx()), MaxY: float64(b.Dy())}),
		rast:      vector.NewRasterizer(0, 0),
		tolerance: defaultStrokeTolerance,
	}
}

// Width returns the surface width.
func (s *ImageSurface) Width() int {
	return s.width
}

// Height returns the surface height.
func (s *ImageSurface) Height() int {
	return s.height
}

// Clear fills the entire surface with the given color.
func (s *ImageSurface) Clear(c color.Color) {
	if s.closed {
		return
	}
	if c == nil {
		c = color.Transparent
	}
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// Fill fills the given path using the specified style.
func (s *ImageSurface) Fill(path *Path, style FillStyle) {
	if s.closed || path.IsEmpty() {
		return
	}
	src := premultiplied(style.Color)
	if src.A == 0 {
		return
	}

	area := s.coverageArea(path.Bounds())
	if area.Empty() {
		return
	}
	s.rasterize(path, area)
	s.composite(area, src)
}

// Stroke strokes the given path using the specified style.
func (s *ImageSurface) Stroke(path *Path, style StrokeStyle) {
	if s.closed || path.IsEmpty() || style.Width <= 0 {
		return
	}
	outline := expandStroke(path, style, s.tolerance)
	s.Fill(outline, FillStyle{Color: style.Color})
}

// PushClip intersects the clip region with r.
func (s *ImageSurface) PushClip(r Rect, antiAlias bool) {
	s.clip.push(r, antiAlias)
}

// PopClip removes the most recent clip.
func (s *ImageSurface) PopClip() bool {
	return s.clip.pop()
}

// ClipBounds returns the current clip region in device pixels.
func (s *ImageSurface) ClipBounds() Rect {
	return s.clip.bounds
}

// Flush ensures all pending operations are complete.
// For ImageSurface, this only checks the surface is still open.
func (s *ImageSurface) Flush() error {
	if s.closed {
		return ErrSurfaceClosed
	}
	return nil
}

// Snapshot returns a copy of the current surface contents.
func (s *ImageSurface) Snapshot() *image.RGBA {
	if s.closed {
		return nil
	}
	result := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	copy(result.Pix, s.img.Pix)
	return result
}

// Close releases resources associated with the surface.
func (s *ImageSurface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.img = nil
	s.mask = nil
	s.rast = nil
	return nil
}

// Image returns the underlying image.RGBA.
// This is a direct reference, not a copy.
func (s *ImageSurface) Image() *image.RGBA {
	return s.img
}

// coverageArea returns the pixel rectangle where a shape with the given
// bounds can leave coverage, limited by the clip and the surface.
func (s *ImageSurface) coverageArea(bounds Rect) image.Rectangle {
	cx0, cy0, cx1, cy1 := s.clip.pixelBounds()
	shape := image.Rect(
		int(math.Floor(bounds.MinX)), int(math.Floor(bounds.MinY)),
		int(math.Ceil(bounds.MaxX)), int(math.Ceil(bounds.MaxY)),
	)
	return shape.Intersect(image.Rect(cx0, cy0, cx1, cy1)).Intersect(s.img.Bounds())
}

// rasterize renders the path coverage for area into s.mask, whose origin
// corresponds to area.Min.
func (s *ImageSurface) rasterize(path *Path, area image.Rectangle) {
	w, h := area.Dx(), area.Dy()
	s.rast.Reset(w, h)
	s.rast.DrawOp = draw.Src

	ox, oy := float64(area.Min.X), float64(area.Min.Y)
	pt := func(p Point) (float32, float32) {
		return float32(p.X - ox), float32(p.Y - oy)
	}
	// The rasterizer does not close subpaths on MoveTo; fills close them
	// implicitly.
	open := false
	path.Walk(func(v Verb, pts []Point) {
		switch v {
		case VerbMoveTo:
			if open {
				s.rast.ClosePath()
			}
			s.rast.MoveTo(pt(pts[0]))
			open = false
		case VerbLineTo:
			s.rast.LineTo(pt(pts[0]))
			open = true
		case VerbQuadTo:
			bx, by := pt(pts[0])
			cx, cy := pt(pts[1])
			s.rast.QuadTo(bx, by, cx, cy)
			open = true
		case VerbCubicTo:
			bx, by := pt(pts[0])
			cx, cy := pt(pts[1])
			dx, dy := pt(pts[2])
			s.rast.CubeTo(bx, by, cx, cy, dx, dy)
			open = true
		case VerbClose:
			s.rast.ClosePath()
			open = false
		}
	})
	if open {
		s.rast.ClosePath()
	}

	if s.mask == nil || s.mask.Rect.Dx() != w || s.mask.Rect.Dy() != h {
		s.mask = image.NewAlpha(image.Rect(0, 0, w, h))
	}
	s.rast.Draw(s.mask, s.mask.Bounds(), image.Opaque, image.Point{})
}

// composite blends src over the target through s.mask and the clip coverage.
func (s *ImageSurface) composite(area image.Rectangle, src color.RGBA64) {
	for y := area.Min.Y; y < area.Max.Y; y++ {
		maskRow := s.mask.Pix[(y-area.Min.Y)*s.mask.Stride:]
		for x := area.Min.X; x < area.Max.X; x++ {
			m := maskRow[x-area.Min.X]
			if m == 0 {
				continue
			}
			cov := float64(m) / 255 * s.clip.coverage(x, y)
			if cov <= 0 {
				continue
			}
			s.blendPixel(x, y, src, cov)
		}
	}
}

// blendPixel composites a premultiplied color with coverage onto (x, y).
func (s *ImageSurface) blendPixel(x, y int, src color.RGBA64, cov float64) {
	idx := s.img.PixOffset(x, y)
	pix := s.img.Pix[idx : idx+4 : idx+4]

	sa := float64(src.A) / 0xffff * cov
	inv := 1 - sa
	pix[0] = blendChannel(float64(src.R)/0xffff*cov, pix[0], inv)
	pix[1] = blendChannel(float64(src.G)/0xffff*cov, pix[1], inv)
	pix[2] = blendChannel(float64(src.B)/0xffff*cov, pix[2], inv)
	pix[3] = blendChannel(sa, pix[3], inv)
}

func blendChannel(src float64, dst uint8, inv float64) uint8 {
	v := src*255 + float64(dst)*inv
	if v >= 255 {
		return 255
	}
	if v <= 0 {
		return 0
	}
	return uint8(v + 0.5)
}

// premultiplied converts any color to 16-bit premultiplied form.
// A nil color is black.
func premultiplied(c color.Color) color.RGBA64 {
	if c == nil {
		return color.RGBA64{A: 0xffff}
	}
	r, g, b, a := c.RGBA()
	//nolint:gosec // G115: RGBA() values are 16-bit
	return color.RGBA64{R: uint16(r), G: uint16(g), B: uint16(b), A: uint16(a)}
}

// Verify ImageSurface implements Surface interface.
var _ Surface = (*ImageSurface)(nil)
