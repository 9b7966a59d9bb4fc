package ot

import (
	"fmt"
)

// GlyfTable holds the outlines of TrueType glyphs. Access to single glyphs is
// through table 'loca', which is wired to the glyf table during parsing.
type GlyfTable struct {
	tableBase
	loca *LocaTable
}

func newGlyfTable(tag Tag, b binarySegm, offset, size uint32) *GlyfTable {
	t := &GlyfTable{}
	t.tableBase = makeTableBase(tag, b, offset, size)
	t.self = t
	return t
}

// GlyphData returns the raw outline data for glyph gid. Glyphs without an
// outline (e.g., a space) have no data.
func (t *GlyfTable) GlyphData(gid GlyphIndex) []byte {
	if t.loca == nil {
		return nil
	}
	from, to := t.loca.GlyphRange(gid)
	if to <= from {
		return nil
	}
	return t.data.Slice(int(from), int(to))
}

// Glyph decodes the outline header of glyph gid.
func (t *GlyfTable) Glyph(gid GlyphIndex) (GlyphOutline, error) {
	g, err := DecodeGlyph(t.GlyphData(gid))
	if err != nil {
		return g, errFontFormat(fmt.Sprintf("glyph %d: %v", gid, err))
	}
	return g, nil
}

// --- Glyph outlines --------------------------------------------------------

// GlyphOutline is a decoded glyph header of table 'glyf'.
// Simple glyphs are not decoded any further, as subsetting does not need to
// touch their contours. Composite glyphs are decoded into their components.
type GlyphOutline struct {
	Contours   int16 // numberOfContours; negative for composite glyphs
	XMin, YMin int16 // bounding box
	XMax, YMax int16
	Components []Component // for composite glyphs only
	Data       []byte      // raw glyph data, a view into the font binary
}

// IsEmpty is true for glyphs without an outline.
func (g GlyphOutline) IsEmpty() bool {
	return len(g.Data) == 0
}

// IsComposite is true for glyphs made of references to other glyphs.
func (g GlyphOutline) IsComposite() bool {
	return g.Contours < 0
}

// Component is a reference of a composite glyph to another glyph.
type Component struct {
	Flags  uint16     // component flags
	Glyph  GlyphIndex // glyph referenced
	Offset int        // byte offset of the glyphIndex field within the glyph's data
}

// Flags of composite glyph components.
const (
	ArgsAreWords       uint16 = 0x0001 // ARG_1_AND_2_ARE_WORDS
	ArgsAreXYValues    uint16 = 0x0002 // ARGS_ARE_XY_VALUES
	WeHaveAScale       uint16 = 0x0008 // WE_HAVE_A_SCALE
	MoreComponents     uint16 = 0x0020 // MORE_COMPONENTS
	WeHaveXAndYScale   uint16 = 0x0040 // WE_HAVE_AN_X_AND_Y_SCALE
	WeHaveTwoByTwo     uint16 = 0x0080 // WE_HAVE_A_TWO_BY_TWO
	WeHaveInstructions uint16 = 0x0100 // WE_HAVE_INSTRUCTIONS
	UseMyMetrics       uint16 = 0x0200 // USE_MY_METRICS
)

// componentLength returns the byte size of a component record with the given
// flags: flags, glyphIndex, two arguments, and an optional transformation.
func componentLength(flags uint16) int {
	n := 4 + 2 // flags, glyphIndex, args as bytes
	if flags&ArgsAreWords != 0 {
		n += 2
	}
	switch {
	case flags&WeHaveAScale != 0:
		n += 2
	case flags&WeHaveXAndYScale != 0:
		n += 4
	case flags&WeHaveTwoByTwo != 0:
		n += 8
	}
	return n
}

// DecodeGlyph decodes the header of a glyph and, for composite glyphs, the list
// of components. Empty data yields an empty glyph.
func DecodeGlyph(data []byte) (GlyphOutline, error) {
	g := GlyphOutline{Data: data}
	if len(data) == 0 {
		return g, nil
	}
	b := binarySegm(data)
	if len(b) < 10 {
		return g, fmt.Errorf("glyph header truncated")
	}
	g.Contours, _ = b.i16(0)
	g.XMin, _ = b.i16(2)
	g.YMin, _ = b.i16(4)
	g.XMax, _ = b.i16(6)
	g.YMax, _ = b.i16(8)
	if g.Contours >= 0 {
		return g, nil
	}
	pos := 10
	for {
		if pos+4 > len(b) {
			return g, fmt.Errorf("composite glyph truncated")
		}
		flags := b.U16(pos)
		c := Component{Flags: flags, Glyph: GlyphIndex(b.U16(pos + 2)), Offset: pos + 2}
		g.Components = append(g.Components, c)
		pos += componentLength(flags)
		if pos > len(b) {
			return g, fmt.Errorf("composite glyph component truncated")
		}
		if flags&MoreComponents == 0 {
			break
		}
	}
	return g, nil
}

// RemapComponents returns a copy of the glyph's data with the glyph indices of
// all components replaced according to newIndex. Simple glyphs are returned
// unchanged (no copy). If a component cannot be remapped, an error is returned.
func (g GlyphOutline) RemapComponents(newIndex func(GlyphIndex) (GlyphIndex, bool)) ([]byte, error) {
	if !g.IsComposite() {
		return g.Data, nil
	}
	data := make([]byte, len(g.Data))
	copy(data, g.Data)
	for _, c := range g.Components {
		n, ok := newIndex(c.Glyph)
		if !ok {
			return nil, errFontFormat(fmt.Sprintf("composite glyph references unknown glyph %d", c.Glyph))
		}
		putU16(data, c.Offset, uint16(n))
	}
	return data, nil
}
