package stylecache

import "github.com/gogpu/textengine/style"

// Brush is an immutable solid-color paint.
type Brush struct {
	packed style.ARGB
	color  style.Color
}

// Packed returns the packed color the brush was built from.
func (b *Brush) Packed() style.ARGB { return b.packed }

// Color returns the normalized brush color.
func (b *Brush) Color() style.Color { return b.color }

// Paint returns the brush color with its alpha scaled by opacity.
func (b *Brush) Paint(opacity float32) style.Color {
	return b.color.WithOpacity(opacity)
}

// RenderStyle is the resolved rendering part of a text style.
// Shadow and Outline are nil when disabled.
type RenderStyle struct {
	Fill         *Brush
	Shadow       *Brush
	Outline      *Brush
	OutlineWidth float32
}

// HasOutline reports whether outlines are stroked.
func (r *RenderStyle) HasOutline() bool {
	return r.Outline != nil && r.OutlineWidth > 0
}
