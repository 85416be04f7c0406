package scene

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/gogpu/textengine/style"
)

var (
	sceneLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d*|\.\d+|\d+)`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Punct", Pattern: `[{};]`},
	})

	sceneParser = participle.MustBuild[Scene](
		participle.Lexer(sceneLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment"),
	)
)

// Scene is the root of a scene file: the canvas size and the items drawn
// on it in order.
type Scene struct {
	Pos    lexer.Position `parser:""`
	Width  float64        `parser:"Newline* 'scene' @Number"`
	Height float64        `parser:"@Number"`
	Items  []*Item        `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}' Newline*"`
}

// Item is one top-level statement.
type Item struct {
	Pos        lexer.Position `parser:""`
	Background *Color         `parser:"  'background' @Color"`
	Font       *StringLiteral `parser:"| 'font' @String"`
	Translate  *Vector        `parser:"| 'translate' @@"`
	Scale      *Vector        `parser:"| 'scale' @@"`
	Rotate     *float64       `parser:"| 'rotate' @Number"`
	Reset      bool           `parser:"| @'reset'"`
	Clip       *ClipDecl      `parser:"| @@"`
	Box        *BoxDecl       `parser:"| @@"`
	Text       *TextDecl      `parser:"| @@"`
}

// Vector is a pair of numbers.
type Vector struct {
	X float64 `parser:"@Number"`
	Y float64 `parser:"@Number"`
}

// Rect is a box given as x, y, width and height.
type Rect struct {
	X float64 `parser:"@Number"`
	Y float64 `parser:"@Number"`
	W float64 `parser:"@Number"`
	H float64 `parser:"@Number"`
}

// ClipDecl draws its items clipped to a rectangle.
type ClipDecl struct {
	Rect    Rect    `parser:"'clip' @@"`
	Aliased bool    `parser:"@'aliased'?"`
	Items   []*Item `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// BoxDecl draws a background and border.
type BoxDecl struct {
	Rect  Rect       `parser:"'box' @@"`
	Props []*BoxProp `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// BoxProp is one property of a box.
type BoxProp struct {
	Fill   *Color   `parser:"  'fill' @Color"`
	Border *Color   `parser:"| 'border' @Color"`
	Width  *float64 `parser:"| 'width' @Number"`
	Radius *float64 `parser:"| 'radius' @Number"`
}

// TextDecl lays out and draws a text block inside a rectangle.
type TextDecl struct {
	Pos   lexer.Position `parser:""`
	Rect  Rect           `parser:"'text' @@"`
	Props []*TextProp    `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// TextProp is a paragraph or character property, a content string, a
// styled span or an inline box.
type TextProp struct {
	Content *StringLiteral `parser:"  @String"`
	Char    *CharProp      `parser:"| @@"`
	Align   *string        `parser:"| 'align' @('left' | 'center' | 'right' | 'justified')"`
	VAlign  *string        `parser:"| 'valign' @('near' | 'center' | 'far')"`
	Wrap    *string        `parser:"| 'wrap' @('word' | 'none' | 'emergency' | 'wholeword' | 'character')"`
	Trim    *TrimProp      `parser:"| 'trim' @@"`
	Spacing *SpacingProp   `parser:"| 'spacing' @@"`
	Hanging *float64       `parser:"| 'hanging' @Number"`
	Tab     *float64       `parser:"| 'tab' @Number"`
	Opacity *float64       `parser:"| 'opacity' @Number"`
	Span    *SpanDecl      `parser:"| @@"`
	Inline  *InlineDecl    `parser:"| @@"`
}

// CharProp is a character property usable in text blocks and spans.
type CharProp struct {
	Face          *StringLiteral `parser:"  'face' @String"`
	Size          *float64       `parser:"| 'size' @Number"`
	Color         *Color         `parser:"| 'color' @Color"`
	Weight        *int           `parser:"| 'weight' @Number"`
	Bold          bool           `parser:"| @'bold'"`
	Italic        bool           `parser:"| @'italic'"`
	Oblique       bool           `parser:"| @'oblique'"`
	Underline     bool           `parser:"| @'underline'"`
	Strikethrough bool           `parser:"| @'strikethrough'"`
	NoKerning     bool           `parser:"| @'nokerning'"`
	Shadow        *Color         `parser:"| 'shadow' @Color"`
	Outline       *OutlineProp   `parser:"| 'outline' @@"`
}

// OutlineProp is an outline color and width.
type OutlineProp struct {
	Color Color   `parser:"@Color"`
	Width float64 `parser:"@Number"`
}

// TrimProp selects the trimming granularity and sign.
type TrimProp struct {
	Mode     string `parser:"@('none' | 'character' | 'word')"`
	Ellipsis bool   `parser:"@'ellipsis'?"`
}

// SpacingProp selects the line spacing method and height.
type SpacingProp struct {
	Method string   `parser:"@('default' | 'uniform' | 'proportional')"`
	Height *float64 `parser:"@Number?"`
}

// SpanDecl overrides character properties on a range of UTF-16 code units.
type SpanDecl struct {
	Start  int         `parser:"'span' @Number"`
	Length int         `parser:"@Number"`
	Props  []*CharProp `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// InlineDecl replaces a range of text with an inline box.
type InlineDecl struct {
	Start  int     `parser:"'inline' @Number"`
	Length int     `parser:"@Number"`
	Width  float64 `parser:"@Number"`
	Height float64 `parser:"@Number"`
	Fill   Color   `parser:"@Color"`
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Color is a #RGB, #RRGGBB or #AARRGGBB color literal.
type Color style.ARGB

// Capture implements participle.Capture.
func (c *Color) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("color capture requires value")
	}
	v, err := ParseColor(values[0])
	if err != nil {
		return err
	}
	*c = Color(v)
	return nil
}

// ParseColor parses a #RGB, #RRGGBB or #AARRGGBB literal. Colors without
// alpha are opaque.
func ParseColor(s string) (style.ARGB, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return 0, fmt.Errorf("scene: color %q must start with #", s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	switch len(hex) {
	case 6:
		hex = "FF" + hex
	case 8:
	default:
		return 0, fmt.Errorf("scene: color %q has %d digits", s, len(hex))
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("scene: color %q: %w", s, err)
	}
	return style.ARGB(v), nil
}

// Parse parses a scene from r. The name is used in error positions.
func Parse(name string, r io.Reader) (*Scene, error) {
	return sceneParser.Parse(name, r)
}

// ParseString parses a scene from a string.
func ParseString(name, input string) (*Scene, error) {
	return sceneParser.ParseString(name, input)
}
