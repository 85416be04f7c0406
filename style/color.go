package style

import "fmt"

// ARGB is a packed 32-bit color, alpha in the high byte.
type ARGB uint32

// A returns the alpha channel.
func (c ARGB) A() uint8 { return uint8(c >> 24) }

// R returns the red channel.
func (c ARGB) R() uint8 { return uint8(c >> 16) }

// G returns the green channel.
func (c ARGB) G() uint8 { return uint8(c >> 8) }

// B returns the blue channel.
func (c ARGB) B() uint8 { return uint8(c) }

// IsTransparent reports whether the alpha channel is zero.
func (c ARGB) IsTransparent() bool { return c.A() == 0 }

// Color converts to normalized channels. Each channel is divided by 256,
// so 0xFF maps to 255/256 rather than 1.
func (c ARGB) Color() Color {
	return Color{
		R: float32(c.R()) / 256,
		G: float32(c.G()) / 256,
		B: float32(c.B()) / 256,
		A: float32(c.A()) / 256,
	}
}

// String formats the color as #AARRGGBB.
func (c ARGB) String() string {
	return fmt.Sprintf("#%08X", uint32(c))
}

// Color is a non-premultiplied color with float32 channels.
type Color struct {
	R, G, B, A float32
}

// WithOpacity returns the color with alpha scaled by opacity.
func (c Color) WithOpacity(opacity float32) Color {
	c.A *= clamp01(opacity)
	return c
}

// RGBA implements color.Color with alpha-premultiplied 16-bit channels.
func (c Color) RGBA() (r, g, b, a uint32) {
	alpha := clamp01(c.A)
	a = uint32(alpha*0xffff + 0.5)
	r = uint32(clamp01(c.R)*alpha*0xffff + 0.5)
	g = uint32(clamp01(c.G)*alpha*0xffff + 0.5)
	b = uint32(clamp01(c.B)*alpha*0xffff + 0.5)
	return r, g, b, a
}

func clamp01(v float32) float32 {
	switch {
	case v < 0 || v != v:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
