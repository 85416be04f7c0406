// Package textengine lays out and renders styled text.
//
// # Overview
//
// An Engine ties together the pieces of the text pipeline:
//
//   - font: the append-only catalog of embedded font files
//   - stylecache: resolved faces, prepared formats and brushes
//   - layout: shaping, bidi, line breaking, metrics and hit testing
//   - renderer: glyph outlines, shadows, color glyphs and decorations
//   - surface: the canvas, clip stack and software rasterizer
//
// # Quick Start
//
//	e, err := textengine.CreateEngine(
//	    textengine.WithFontFile("Go-Regular.ttf", goregular.TTF),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer e.Free()
//
//	target, _ := e.CreateRenderTarget(400, 100, color.White)
//	_ = e.SetRenderTarget(target)
//
//	l, err := e.CreateTextLayoutString(style.DefaultParagraphStyle(),
//	    style.DefaultTextStyle("Go", 24), "Hello, World!", 400, 100)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = e.BeginDraw()
//	_ = e.RenderTextLayout(l, 0, 0, 1)
//	_ = e.EndDraw()
//
// # Text Encoding
//
// Layout text is UTF-16. Text positions and lengths in metrics and hit
// tests count UTF-16 code units. EncodeText converts Go strings and
// DecodeUTF16LE converts little-endian byte buffers.
//
// # Coordinate System
//
// Layouts are measured in logical pixels at 96 DPI. The canvas maps user
// coordinates through the current transform and then through the canvas
// scale, which SetCanvasSize derives from the render target size.
//
// # Logging
//
// The engine logs through log/slog. By default nothing is logged; use
// SetLogger, WithLogger or WithDebug to enable output.
package textengine
