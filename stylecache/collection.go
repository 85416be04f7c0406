package stylecache

import (
	"fmt"
	"strings"

	gotext "github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	textfont "github.com/gogpu/textengine/font"
	"github.com/gogpu/textengine/style"
)

// Sentinel family names returned by the introspection queries.
const (
	FamilyIndexOutOfRange = "<index out of range>"
	FamilyUnnamed         = "<unnamed family>"
)

var (
	tagCOLR = ot.MustNewTag("COLR")
	tagCPAL = ot.MustNewTag("CPAL")
)

// Face is one font face of the collection.
//
// A Face keeps parsing buffers and is not safe for concurrent use.
type Face struct {
	Family  string
	Weight  style.FontWeight
	Style   style.FontStyle
	Stretch style.FontStretch

	// File is the catalog index of the file holding the face and Index the
	// face index inside that file.
	File  int
	Index int

	sfnt   *sfnt.Font
	font   *gotext.Font
	shaped *gotext.Face
	colr   []byte
	cpal   []byte
	buf    sfnt.Buffer
}

// SFNT returns the x/image parsed font.
func (f *Face) SFNT() *sfnt.Font { return f.sfnt }

// ShapingFace returns the go-text face used by the HarfBuzz shaper and for
// decoration metrics.
func (f *Face) ShapingFace() *gotext.Face {
	if f.shaped == nil {
		f.shaped = gotext.NewFace(f.font)
	}
	return f.shaped
}

// ColorTables returns the raw COLR and CPAL tables, nil when absent.
func (f *Face) ColorTables() (colr, cpal []byte) { return f.colr, f.cpal }

// HasColorGlyphs reports whether the face carries layered color glyphs.
func (f *Face) HasColorGlyphs() bool { return len(f.colr) > 0 && len(f.cpal) > 0 }

// GlyphIndex returns the glyph for r; false when the face has no glyph.
func (f *Face) GlyphIndex(r rune) (uint16, bool) {
	gid, err := f.sfnt.GlyphIndex(&f.buf, r)
	if err != nil || gid == 0 {
		return 0, false
	}
	return uint16(gid), true
}

// GlyphAdvance returns the unhinted advance of a glyph at size pixels.
func (f *Face) GlyphAdvance(gid uint16, size float32) float32 {
	adv, err := f.sfnt.GlyphAdvance(&f.buf, sfnt.GlyphIndex(gid), toFixed(size), font.HintingNone)
	if err != nil {
		return 0
	}
	return fromFixed(adv)
}

// Kern returns the kerning adjustment between two glyphs, 0 when the face
// has no kern table or no pair.
func (f *Face) Kern(g0, g1 uint16, size float32) float32 {
	k, err := f.sfnt.Kern(&f.buf, sfnt.GlyphIndex(g0), sfnt.GlyphIndex(g1), toFixed(size), font.HintingNone)
	if err != nil {
		return 0
	}
	return fromFixed(k)
}

// LoadGlyph returns the outline of a glyph at size pixels, y axis down.
// The segments are only valid until the next call on the face.
func (f *Face) LoadGlyph(gid uint16, size float32) (sfnt.Segments, error) {
	return f.sfnt.LoadGlyph(&f.buf, sfnt.GlyphIndex(gid), toFixed(size), nil)
}

// FaceMetrics are the vertical metrics of a face at one size, in pixels.
type FaceMetrics struct {
	Ascent    float32
	Descent   float32
	LineGap   float32
	XHeight   float32
	CapHeight float32

	UnderlinePosition      float32 // below the baseline when positive
	UnderlineThickness     float32
	StrikethroughPosition  float32 // above the baseline when positive
	StrikethroughThickness float32
}

// LineHeight returns ascent + descent + line gap.
func (m FaceMetrics) LineHeight() float32 { return m.Ascent + m.Descent + m.LineGap }

// Metrics returns the face metrics at size pixels.
func (f *Face) Metrics(size float32) FaceMetrics {
	var m FaceMetrics
	if fm, err := f.sfnt.Metrics(&f.buf, toFixed(size), font.HintingNone); err == nil {
		m.Ascent = fromFixed(fm.Ascent)
		m.Descent = fromFixed(fm.Descent)
		m.LineGap = fromFixed(fm.Height) - m.Ascent - m.Descent
		if m.LineGap < 0 {
			m.LineGap = 0
		}
		m.XHeight = fromFixed(fm.XHeight)
		m.CapHeight = fromFixed(fm.CapHeight)
	}

	scale := size / float32(f.font.Upem())
	gf := f.ShapingFace()
	m.UnderlinePosition = -gf.LineMetric(gotext.UnderlinePosition) * scale
	m.UnderlineThickness = gf.LineMetric(gotext.UnderlineThickness) * scale
	m.StrikethroughPosition = gf.LineMetric(gotext.StrikethroughPosition) * scale
	m.StrikethroughThickness = gf.LineMetric(gotext.StrikethroughThickness) * scale

	// Fallbacks for fonts without post/OS2 decoration data.
	if m.UnderlineThickness <= 0 {
		m.UnderlineThickness = size / 14
	}
	if m.UnderlinePosition == 0 {
		m.UnderlinePosition = m.Descent / 2
	}
	if m.StrikethroughThickness <= 0 {
		m.StrikethroughThickness = m.UnderlineThickness
	}
	if m.StrikethroughPosition == 0 {
		m.StrikethroughPosition = m.XHeight / 2
		if m.StrikethroughPosition == 0 {
			m.StrikethroughPosition = m.Ascent / 3
		}
	}
	return m
}

// Simulations are synthetic styles applied when the matched face does not
// carry the requested weight or slant.
type Simulations uint8

const (
	// SimBold emboldens outlines.
	SimBold Simulations = 1 << iota
	// SimOblique slants outlines.
	SimOblique
)

// ResolvedFace is a face plus the simulations needed to honor a request.
type ResolvedFace struct {
	*Face
	Simulations Simulations
}

// Family is a named group of faces.
type Family struct {
	Name  string
	Faces []*Face
}

// Collection is the immutable set of families built from a catalog.
// It is rebuilt, never mutated, when fonts are reloaded.
type Collection struct {
	generation uint64
	families   []*Family
	byName     map[string]*Family
	skipped    []*ShapingError
}

// BuildCollection parses every file of the catalog. Families are ordered
// by first appearance in the catalog. Files no parser accepts contribute
// no faces and are reported by Skipped.
func BuildCollection(catalog *textfont.Catalog, generation uint64) (*Collection, error) {
	c := &Collection{
		generation: generation,
		byName:     make(map[string]*Family),
	}
	e := catalog.Enumerator()
	for e.MoveNext() {
		stream, err := e.Current()
		if err != nil {
			return nil, err
		}
		faces, err := parseFile(stream, e.Index())
		if err != nil {
			c.skipped = append(c.skipped, &ShapingError{Op: "parse font file", Face: stream.Name(), Err: err})
			continue
		}
		for _, f := range faces {
			c.add(f)
		}
	}
	return c, nil
}

func parseFile(stream *textfont.Stream, fileIndex int) ([]*Face, error) {
	loaders, err := ot.NewLoaders(stream)
	if err != nil {
		return nil, err
	}
	coll, err := sfnt.ParseCollection(stream.Bytes())
	if err != nil {
		return nil, err
	}
	if coll.NumFonts() != len(loaders) {
		return nil, fmt.Errorf("face count mismatch: %d vs %d", coll.NumFonts(), len(loaders))
	}

	faces := make([]*Face, 0, len(loaders))
	for i, ld := range loaders {
		sf, err := coll.Font(i)
		if err != nil {
			return nil, fmt.Errorf("face %d: %w", i, err)
		}
		ft, err := gotext.NewFont(ld)
		if err != nil {
			return nil, fmt.Errorf("face %d: %w", i, err)
		}
		desc := ft.Describe()
		f := &Face{
			Family:  strings.TrimSpace(desc.Family),
			Weight:  style.FontWeight(desc.Aspect.Weight),
			Style:   style.StyleNormal,
			Stretch: style.StretchFromFactor(float32(desc.Aspect.Stretch)),
			File:    fileIndex,
			Index:   i,
			sfnt:    sf,
			font:    ft,
		}
		if desc.Aspect.Style == gotext.StyleItalic {
			f.Style = style.StyleItalic
		}
		if f.Family == "" {
			if name, err := sf.Name(nil, sfnt.NameIDFamily); err == nil {
				f.Family = strings.TrimSpace(name)
			}
		}
		f.colr, _ = ld.RawTable(tagCOLR)
		f.cpal, _ = ld.RawTable(tagCPAL)
		faces = append(faces, f)
	}
	return faces, nil
}

func (c *Collection) add(f *Face) {
	key := gotext.NormalizeFamily(f.Family)
	fam, ok := c.byName[key]
	if !ok || f.Family == "" {
		fam = &Family{Name: f.Family}
		c.families = append(c.families, fam)
		if f.Family != "" {
			c.byName[key] = fam
		}
	}
	fam.Faces = append(fam.Faces, f)
}

// Generation returns the key the collection was built under.
func (c *Collection) Generation() uint64 { return c.generation }

// Skipped returns one error per catalog file that could not be parsed.
func (c *Collection) Skipped() []*ShapingError { return c.skipped }

// FamilyCount returns the number of families.
func (c *Collection) FamilyCount() int { return len(c.families) }

// FamilyName returns the name of family i or a sentinel name.
func (c *Collection) FamilyName(i int) string {
	if i < 0 || i >= len(c.families) {
		return FamilyIndexOutOfRange
	}
	if c.families[i].Name == "" {
		return FamilyUnnamed
	}
	return c.families[i].Name
}

// Family returns the family with the given name, ignoring case and spaces.
func (c *Collection) Family(name string) (*Family, bool) {
	f, ok := c.byName[gotext.NormalizeFamily(name)]
	return f, ok
}

// Match resolves a face request to the closest face of the named family.
// Slant is matched first, then weight following the CSS font matching
// rule, then stretch.
func (c *Collection) Match(family string, weight style.FontWeight, fs style.FontStyle, stretch style.FontStretch) (*ResolvedFace, error) {
	fam, ok := c.Family(family)
	if !ok || len(fam.Faces) == 0 {
		return nil, &ShapingError{Op: "resolve", Face: family, Err: ErrFaceNotFound}
	}
	if stretch == style.StretchUndefined {
		stretch = style.StretchNormal
	}
	weight = weight.Resolved()

	var match *Face
	for _, f := range fam.Faces {
		if match == nil || closer(f, match, weight, fs, stretch) {
			match = f
		}
	}

	rf := &ResolvedFace{Face: match}
	if weight >= style.WeightSemiBold && match.Weight < style.WeightSemiBold {
		rf.Simulations |= SimBold
	}
	if fs != style.StyleNormal && match.Style == style.StyleNormal {
		rf.Simulations |= SimOblique
	}
	return rf, nil
}

// closer reports whether a is a better match than b.
func closer(a, b *Face, weight style.FontWeight, fs style.FontStyle, stretch style.FontStretch) bool {
	if da, db := styleDistance(fs, a.Style), styleDistance(fs, b.Style); da != db {
		return da < db
	}
	if da, db := weightDistance(weight, a.Weight), weightDistance(weight, b.Weight); da != db {
		return da < db
	}
	if da, db := absInt(int(stretch)-int(a.Stretch)), absInt(int(stretch)-int(b.Stretch)); da != db {
		return da < db
	}
	return a.Weight < b.Weight
}

func styleDistance(want, have style.FontStyle) int {
	if want == have {
		return 0
	}
	if want == style.StyleNormal || have == style.StyleNormal {
		return 2
	}
	// italic and oblique substitute for each other
	return 1
}

// weightDistance ranks have against the requested weight; lower is
// better. Between 400 and 500 heavier weights up to 500 come first, then
// lighter ones, then those above 500. Below 400 lighter weights come first,
// above 500 heavier ones.
func weightDistance(want, have style.FontWeight) int {
	const fallback, last = 1000, 2000
	d := absInt(int(want) - int(have))
	switch {
	case want >= 400 && want <= 500:
		switch {
		case have >= want && have <= 500:
			return d
		case have < want:
			return fallback + d
		default:
			return last + d
		}
	case want < 400:
		if have <= want {
			return d
		}
		return fallback + d
	default:
		if have >= want {
			return d
		}
		return fallback + d
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func toFixed(v float32) fixed.Int26_6 {
	return fixed.Int26_6(v*64 + 0.5)
}

func fromFixed(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
