// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import "math"

// Matrix is a 2D affine transformation in row-major order:
//
//	| a  b  c |
//	| d  e  f |
//
// mapping
//
//	x' = a*x + b*y + c
//	y' = d*x + e*y + f
//
// The zero Matrix is degenerate; use Identity for "no transform".
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transformation matrix.
func Identity() Matrix {
	return Matrix{A: 1, E: 1}
}

// Translate creates a translation matrix.
func Translate(x, y float64) Matrix {
	return Matrix{A: 1, C: x, E: 1, F: y}
}

// Scale creates a scaling matrix.
func Scale(x, y float64) Matrix {
	return Matrix{A: x, E: y}
}

// Rotate creates a rotation matrix (angle in radians).
func Rotate(angle float64) Matrix {
	sin, cos := math.Sincos(angle)
	return Matrix{
		A: cos, B: -sin,
		D: sin, E: cos,
	}
}

// Skew creates a horizontal/vertical skew matrix. Synthetic oblique text
// uses Skew(-tan(angle), 0) so that glyph tops lean right in y-down space.
func Skew(x, y float64) Matrix {
	return Matrix{A: 1, B: x, D: y, E: 1}
}

// Multiply returns m * other: other is applied first, then m.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// Then returns the transform that applies m first and next afterwards.
func (m Matrix) Then(next Matrix) Matrix {
	return next.Multiply(m)
}

// TransformPoint applies the transformation to a point.
func (m Matrix) TransformPoint(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// TransformVector applies the transformation to a vector (no translation).
func (m Matrix) TransformVector(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y,
		Y: m.D*p.X + m.E*p.Y,
	}
}

// TransformRect returns the axis-aligned bounds of the transformed rectangle.
func (m Matrix) TransformRect(r Rect) Rect {
	corners := [4]Point{
		m.TransformPoint(Point{r.MinX, r.MinY}),
		m.TransformPoint(Point{r.MaxX, r.MinY}),
		m.TransformPoint(Point{r.MaxX, r.MaxY}),
		m.TransformPoint(Point{r.MinX, r.MaxY}),
	}
	out := Rect{MinX: corners[0].X, MinY: corners[0].Y, MaxX: corners[0].X, MaxY: corners[0].Y}
	for _, c := range corners[1:] {
		out.MinX = math.Min(out.MinX, c.X)
		out.MinY = math.Min(out.MinY, c.Y)
		out.MaxX = math.Max(out.MaxX, c.X)
		out.MaxY = math.Max(out.MaxY, c.Y)
	}
	return out
}

// Invert returns the inverse matrix.
// Returns the identity matrix if the matrix is not invertible.
func (m Matrix) Invert() Matrix {
	det := m.A*m.E - m.B*m.D
	if math.Abs(det) < 1e-10 {
		return Identity()
	}

	invDet := 1.0 / det
	return Matrix{
		A: m.E * invDet,
		B: -m.B * invDet,
		C: (m.B*m.F - m.C*m.E) * invDet,
		D: -m.D * invDet,
		E: m.A * invDet,
		F: (m.C*m.D - m.A*m.F) * invDet,
	}
}

// IsIdentity returns true if the matrix is the identity matrix.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// IsTranslation returns true if the matrix is only a translation.
func (m Matrix) IsTranslation() bool {
	return m.A == 1 && m.B == 0 && m.D == 0 && m.E == 1
}

// IsAxisAligned reports whether the matrix maps axis-aligned rectangles to
// axis-aligned rectangles.
func (m Matrix) IsAxisAligned() bool {
	return (m.B == 0 && m.D == 0) || (m.A == 0 && m.E == 0)
}

// ScaleFactor returns the geometric mean of the axis scales, used to convert
// user-space lengths such as stroke widths into device pixels.
func (m Matrix) ScaleFactor() float64 {
	return math.Sqrt(math.Abs(m.A*m.E - m.B*m.D))
}
