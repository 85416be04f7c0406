package renderer

import (
	"encoding/binary"
	"errors"
	"sort"

	"github.com/gogpu/textengine/style"
)

// COLR/CPAL table format errors.
var (
	// ErrInvalidCOLRData indicates the COLR table data is malformed.
	ErrInvalidCOLRData = errors.New("renderer: invalid COLR table data")

	// ErrInvalidCPALData indicates the CPAL table data is malformed.
	ErrInvalidCPALData = errors.New("renderer: invalid CPAL table data")

	// ErrUnsupportedCOLRVersion indicates a COLR version above 1.
	ErrUnsupportedCOLRVersion = errors.New("renderer: unsupported COLR version")
)

// foregroundPalette is the palette index of layers drawn in the text color.
const foregroundPalette = 0xFFFF

// ColorLayer is one layer of a color glyph: a glyph drawn in one color.
type ColorLayer struct {
	GlyphID      uint16
	PaletteIndex uint16
	// Color is the palette color, zero for foreground layers.
	Color style.ARGB
}

// IsForeground reports whether the layer uses the text color.
func (l ColorLayer) IsForeground() bool {
	return l.PaletteIndex == foregroundPalette
}

// colorTable holds the parsed version 0 layer records of a COLR table and
// the first CPAL palette. Version 1 paint graphs are not interpreted; their
// base glyphs fall back to the version 0 records when present.
type colorTable struct {
	baseGlyphs []baseGlyphRecord
	layers     []layerRecord
	palette    []style.ARGB
}

type baseGlyphRecord struct {
	glyphID    uint16
	firstLayer uint16
	numLayers  uint16
}

type layerRecord struct {
	glyphID      uint16
	paletteIndex uint16
}

// parseColorTables parses raw COLR and CPAL tables.
func parseColorTables(colr, cpal []byte) (*colorTable, error) {
	t := &colorTable{}
	if err := t.parseCOLR(colr); err != nil {
		return nil, err
	}
	if err := t.parseCPAL(cpal); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *colorTable) parseCOLR(data []byte) error {
	if len(data) < 14 {
		return ErrInvalidCOLRData
	}
	if binary.BigEndian.Uint16(data[0:2]) > 1 {
		return ErrUnsupportedCOLRVersion
	}
	numBase := int(binary.BigEndian.Uint16(data[2:4]))
	baseOffset := int(binary.BigEndian.Uint32(data[4:8]))
	layerOffset := int(binary.BigEndian.Uint32(data[8:12]))
	numLayers := int(binary.BigEndian.Uint16(data[12:14]))

	if numBase > 0 && baseOffset+numBase*6 > len(data) {
		return ErrInvalidCOLRData
	}
	t.baseGlyphs = make([]baseGlyphRecord, numBase)
	for i := range t.baseGlyphs {
		pos := baseOffset + i*6
		t.baseGlyphs[i] = baseGlyphRecord{
			glyphID:    binary.BigEndian.Uint16(data[pos:]),
			firstLayer: binary.BigEndian.Uint16(data[pos+2:]),
			numLayers:  binary.BigEndian.Uint16(data[pos+4:]),
		}
	}

	if numLayers > 0 && layerOffset+numLayers*4 > len(data) {
		return ErrInvalidCOLRData
	}
	t.layers = make([]layerRecord, numLayers)
	for i := range t.layers {
		pos := layerOffset + i*4
		t.layers[i] = layerRecord{
			glyphID:      binary.BigEndian.Uint16(data[pos:]),
			paletteIndex: binary.BigEndian.Uint16(data[pos+2:]),
		}
	}
	return nil
}

func (t *colorTable) parseCPAL(data []byte) error {
	if len(data) < 12 {
		return ErrInvalidCPALData
	}
	numEntries := int(binary.BigEndian.Uint16(data[2:4]))
	numPalettes := int(binary.BigEndian.Uint16(data[4:6]))
	recordsOffset := int(binary.BigEndian.Uint32(data[8:12]))
	if numPalettes == 0 {
		return nil
	}
	if len(data) < 14 {
		return ErrInvalidCPALData
	}
	first := int(binary.BigEndian.Uint16(data[12:14]))
	t.palette = make([]style.ARGB, numEntries)
	for j := range t.palette {
		pos := recordsOffset + (first+j)*4
		if pos+4 > len(data) {
			return ErrInvalidCPALData
		}
		// CPAL stores colors as BGRA.
		b, g, r, a := data[pos], data[pos+1], data[pos+2], data[pos+3]
		t.palette[j] = style.ARGB(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
	}
	return nil
}

// layersOf returns the layers of a color glyph, or nil when gid has none.
// Layers are ordered bottom to top.
func (t *colorTable) layersOf(gid uint16) []ColorLayer {
	i := sort.Search(len(t.baseGlyphs), func(i int) bool { return t.baseGlyphs[i].glyphID >= gid })
	if i == len(t.baseGlyphs) || t.baseGlyphs[i].glyphID != gid {
		return nil
	}
	rec := t.baseGlyphs[i]
	out := make([]ColorLayer, 0, rec.numLayers)
	for k := range int(rec.numLayers) {
		idx := int(rec.firstLayer) + k
		if idx >= len(t.layers) {
			break
		}
		l := ColorLayer{GlyphID: t.layers[idx].glyphID, PaletteIndex: t.layers[idx].paletteIndex}
		if !l.IsForeground() && int(l.PaletteIndex) < len(t.palette) {
			l.Color = t.palette[l.PaletteIndex]
		}
		out = append(out, l)
	}
	return out
}
