package layout

import (
	"slices"
	"sync"
	"unicode"

	"github.com/go-text/typesetting/di"
	ot "github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/textengine/stylecache"
)

// Glyph is a single shaped glyph.
type Glyph struct {
	// ID is the glyph index in the face.
	ID uint16
	// Cluster is the index of the first rune of the cluster the glyph
	// belongs to, relative to the whole layout text.
	Cluster int
	// Advance is the horizontal advance in pixels.
	Advance float32
	// XOffset and YOffset displace the glyph from its pen position.
	// YOffset is positive upwards.
	XOffset, YOffset float32
}

// ShapeRequest describes one run of uniformly styled, single direction text.
type ShapeRequest struct {
	// Text is the whole layout text. Only Text[Start:End] is shaped; the
	// rest is context.
	Text       []rune
	Start, End int
	Face       *stylecache.ResolvedFace
	Size       float32
	RTL        bool
	Kerning    bool
}

// Shaper converts runs of runes into positioned glyphs.
//
// Shape returns glyphs in logical order: clusters appear in increasing
// text order even for right-to-left runs.
type Shaper interface {
	Shape(req ShapeRequest) []Glyph
}

// SimpleShaper maps each rune to one glyph through the face cmap and
// applies pair kerning from the kern table. It does no substitution and no
// mark positioning.
type SimpleShaper struct{}

// Shape implements Shaper.
func (SimpleShaper) Shape(req ShapeRequest) []Glyph {
	face := req.Face.Face
	glyphs := make([]Glyph, 0, req.End-req.Start)
	for i := req.Start; i < req.End; i++ {
		r := req.Text[i]
		if isControl(r) {
			glyphs = append(glyphs, Glyph{Cluster: i})
			continue
		}
		gid, _ := face.GlyphIndex(r)
		if gid == 0 && unicode.Is(unicode.Mn, r) && len(glyphs) > 0 {
			// An unsupported combining mark joins the previous cluster.
			glyphs = append(glyphs, Glyph{Cluster: glyphs[len(glyphs)-1].Cluster})
			continue
		}
		g := Glyph{ID: gid, Cluster: i, Advance: face.GlyphAdvance(gid, req.Size)}
		if req.Kerning && len(glyphs) > 0 {
			prev := &glyphs[len(glyphs)-1]
			if prev.ID != 0 {
				prev.Advance += face.Kern(prev.ID, gid, req.Size)
			}
		}
		glyphs = append(glyphs, g)
	}
	return glyphs
}

// HarfBuzzShaper shapes with the go-text HarfBuzz port. It handles
// ligatures, contextual forms, mark positioning and GPOS kerning.
type HarfBuzzShaper struct {
	pool sync.Pool
}

// NewHarfBuzzShaper creates a HarfBuzz shaper.
func NewHarfBuzzShaper() *HarfBuzzShaper {
	return &HarfBuzzShaper{
		pool: sync.Pool{
			New: func() any { return &shaping.HarfbuzzShaper{} },
		},
	}
}

var kernOff = []shaping.FontFeature{{Tag: ot.MustNewTag("kern"), Value: 0}}

// Shape implements Shaper.
func (s *HarfBuzzShaper) Shape(req ShapeRequest) []Glyph {
	if req.End <= req.Start {
		return nil
	}
	hb, _ := s.pool.Get().(*shaping.HarfbuzzShaper)
	defer s.pool.Put(hb)

	input := shaping.Input{
		Text:      req.Text,
		RunStart:  req.Start,
		RunEnd:    req.End,
		Direction: mapDirection(req.RTL),
		Face:      req.Face.ShapingFace(),
		Size:      floatToFixed(req.Size),
		Script:    detectScript(req.Text[req.Start:req.End]),
		Language:  language.NewLanguage("en"),
	}
	if !req.Kerning {
		input.FontFeatures = kernOff
	}

	out := hb.Shape(input)
	glyphs := make([]Glyph, len(out.Glyphs))
	for i, g := range out.Glyphs {
		cluster := g.TextIndex()
		gid := uint16(g.GlyphID)
		adv := fixedToFloat(g.Advance)
		if isControl(req.Text[cluster]) {
			gid, adv = 0, 0
		}
		glyphs[i] = Glyph{
			ID:      gid,
			Cluster: cluster,
			Advance: adv,
			XOffset: fixedToFloat(g.XOffset),
			YOffset: fixedToFloat(g.YOffset),
		}
	}
	if req.RTL {
		reverseClusters(glyphs)
	}
	return glyphs
}

// reverseClusters turns visually ordered RTL output into logical order
// while keeping the glyph order inside each cluster.
func reverseClusters(glyphs []Glyph) {
	slices.Reverse(glyphs)
	for i := 0; i < len(glyphs); {
		j := i + 1
		for j < len(glyphs) && glyphs[j].Cluster == glyphs[i].Cluster {
			j++
		}
		slices.Reverse(glyphs[i:j])
		i = j
	}
}

func mapDirection(rtl bool) di.Direction {
	if rtl {
		return di.DirectionRTL
	}
	return di.DirectionLTR
}

// detectScript returns the script of the first rune with a specific script.
func detectScript(text []rune) language.Script {
	for _, r := range text {
		s := language.LookupScript(r)
		if s != language.Common && s != language.Inherited && s != language.Unknown {
			return s
		}
	}
	return language.Latin
}

func floatToFixed(v float32) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
