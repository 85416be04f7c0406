// Package layout shapes styled text into lines and exposes metrics, hit
// testing and drawing callbacks.
//
// An Engine resolves a paragraph and text style to a prepared format
// through a stylecache.Cache and shapes the text into a TextLayout:
//
//	engine := layout.NewEngine(cache)
//	l, err := engine.CreateLayoutString(p, t, "Hello, GoGPU!", 200, 100)
//	if err != nil {
//	    return err
//	}
//	l.SetStyle(0, 5, style.PropFontWeight, bold)
//	m := l.Metrics()
//
// # Text positions
//
// Text is UTF-16. Every position and length taken or returned by a
// TextLayout is a UTF-16 code unit offset into the caller's text.
//
// # Line breaking
//
// Lines break at the opportunities of a simplified UAX #14 classifier
// according to the paragraph WordWrapping mode. Trailing whitespace hangs
// past the box edge and is excluded from line widths. Tabs advance to the
// next multiple of the format tab stop.
//
// # Hanging indent
//
// A paragraph with HangingIndent is laid out Indent pixels narrower, with a
// negative-width inline object in front of the text that pulls the first
// line back to the box edge. The marker never appears in positions,
// lengths or hit test results, and Draw shifts the text right by Indent so
// the continuation lines are indented.
//
// # Drawing
//
// Draw walks the lines and calls a Renderer for every glyph run, underline,
// strikethrough and inline object. Opacity and the default render style are
// passed in a DrawContext; per-range render styles are passed as the
// effect argument.
package layout
