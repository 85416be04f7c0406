// Package renderer draws text layouts as vector outlines on a
// surface.Canvas.
//
// GlyphRenderer implements layout.Renderer. For every glyph run it draws,
// in order:
//
//   - the drop shadow, one device pixel down and right, when the render
//     style has a shadow brush
//   - the COLR color layers when the face has color glyphs in the run
//   - otherwise the filled glyph outlines, stroked when the style has an
//     outline
//
// Underlines and strikethroughs are filled rectangles in the fill color.
// The draw opacity scales every color and is passed with each call.
//
// Glyph outlines come from golang.org/x/image/font/sfnt and are cached per
// face, glyph and size.
package renderer
