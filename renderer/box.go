package renderer

import (
	"github.com/gogpu/textengine/layout"
	"github.com/gogpu/textengine/style"
	"github.com/gogpu/textengine/stylecache"
)

// BackgroundDrawer is implemented by renderers that can draw boxes.
type BackgroundDrawer interface {
	DrawBackgroundAndBorder(x, y, w, h float32, s style.BackgroundAndBorderStyle) error
}

// Box is an inline object drawn as a filled, bordered rectangle, for
// example a placeholder for an icon inside text.
type Box struct {
	Width, Height float32
	// Baseline is the distance from the top of the box to the text
	// baseline. Zero places the bottom of the box on the baseline.
	Baseline float32
	Style    style.BackgroundAndBorderStyle
}

// Metrics implements layout.InlineObject.
func (b *Box) Metrics() layout.InlineMetrics {
	baseline := b.Baseline
	if baseline == 0 {
		baseline = b.Height
	}
	return layout.InlineMetrics{Width: b.Width, Height: b.Height, Baseline: baseline}
}

// Draw implements layout.InlineObject. Renderers that cannot draw boxes
// draw nothing.
func (b *Box) Draw(_ *layout.DrawContext, r layout.Renderer, x, y float32, _ bool, _ *stylecache.RenderStyle) error {
	d, ok := r.(BackgroundDrawer)
	if !ok {
		return nil
	}
	return d.DrawBackgroundAndBorder(x, y, b.Width, b.Height, b.Style)
}
