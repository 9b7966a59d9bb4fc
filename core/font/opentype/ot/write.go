package ot

import (
	"fmt"
	"math/bits"
	"sort"
)

// FontBuilder collects the binary data of font tables and serializes them
// into an SFNT container.
type FontBuilder struct {
	fontType uint32
	tables   map[Tag][]byte
}

// NewFontBuilder creates a builder for a font of the given type, usually
// TrueTypeFont.
func NewFontBuilder(fontType uint32) *FontBuilder {
	return &FontBuilder{
		fontType: fontType,
		tables:   make(map[Tag][]byte),
	}
}

// AddTable sets the data of table tag. Data is copied only when the font is
// serialized; clients should not modify it after adding. A nil data slice
// removes the table.
func (fb *FontBuilder) AddTable(tag Tag, data []byte) {
	if data == nil {
		delete(fb.tables, tag)
		return
	}
	fb.tables[tag] = data
}

// HasTable returns true if the builder contains a table for tag.
func (fb *FontBuilder) HasTable(tag Tag) bool {
	_, ok := fb.tables[tag]
	return ok
}

// Tags returns the tags of all tables collected so far, in ascending order.
func (fb *FontBuilder) Tags() []Tag {
	tags := make([]Tag, 0, len(fb.tables))
	for tag := range fb.tables {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// Build serializes the tables into a font binary. Table records are sorted by
// tag, every table starts on a 4-byte boundary and is zero padded. Table
// checksums are calculated and field checkSumAdjustment of table 'head' is
// set such that the checksum of the whole font equals 0xB1B0AFBA.
func (fb *FontBuilder) Build() ([]byte, error) {
	if _, ok := fb.tables[T("head")]; !ok {
		return nil, errFontFormat("cannot build font without table head")
	}
	tags := fb.Tags()
	numTables := len(tags)
	if numTables > 0xffff {
		return nil, errFontFormat("too many tables")
	}
	entrySelector := bits.Len(uint(numTables)) - 1
	searchRange := 16 << entrySelector
	w := appender{}
	w.u32(fb.fontType)
	w.u16(uint16(numTables))
	w.u16(uint16(searchRange))
	w.u16(uint16(entrySelector))
	w.u16(uint16(numTables*16 - searchRange))
	offset := uint64(12 + 16*numTables)
	var headOffset int
	for _, tag := range tags {
		data := fb.tables[tag]
		w.u32(uint32(tag))
		w.u32(tableChecksum(tag, data))
		w.u32(uint32(offset))
		w.u32(uint32(len(data)))
		if tag == T("head") {
			headOffset = int(offset)
		}
		offset += uint64(len(data)+3) &^ 3
		if offset > 0xffffffff {
			return nil, errFontFormat("font exceeds 4 GB")
		}
	}
	for _, tag := range tags {
		w.bytes(fb.tables[tag])
		w.pad(4)
	}
	if len(fb.tables[T("head")]) < 12 {
		return nil, errFontFormat("size of head table")
	}
	putU32(w, headOffset+8, 0)
	putU32(w, headOffset+8, 0xb1b0afba-Checksum(w))
	tracer().Debugf("built font with %d tables, %d bytes", numTables, len(w))
	return w, nil
}

// --- cmap ------------------------------------------------------------------

// CMapping maps a code-point to a glyph.
type CMapping struct {
	Rune  rune
	Glyph GlyphIndex
}

// EncodeCMap encodes a 'cmap' table for a list of mappings. Mappings are
// sorted by code-point; duplicate code-points keep the first mapping.
// Code-points of the Basic Multilingual Plane are encoded in a format 4
// subtable for platforms Unicode (0/3) and Windows (3/1). If any code-point
// lies outside the BMP, format 12 subtables for 0/4 and 3/10 are added.
func EncodeCMap(mappings []CMapping) ([]byte, error) {
	m := make([]CMapping, len(mappings))
	copy(m, mappings)
	sort.SliceStable(m, func(i, j int) bool { return m[i].Rune < m[j].Rune })
	var uniq []CMapping
	wide := false
	for _, cm := range m {
		if cm.Rune < 0 || cm.Rune > 0x10ffff {
			return nil, errFontFormat(fmt.Sprintf("code-point out of range: %x", cm.Rune))
		}
		if n := len(uniq); n > 0 && uniq[n-1].Rune == cm.Rune {
			continue
		}
		if cm.Rune > 0xffff {
			wide = true
		}
		uniq = append(uniq, cm)
	}
	f4, err := encodeCMapFormat4(uniq)
	if err != nil {
		return nil, err
	}
	type record struct {
		platform, encoding uint16
		subtable           []byte
	}
	records := []record{{0, 3, f4}, {3, 1, f4}}
	if wide {
		f12 := encodeCMapFormat12(uniq)
		records = []record{{0, 3, f4}, {0, 4, f12}, {3, 1, f4}, {3, 10, f12}}
	}
	w := appender{}
	w.u16(0) // version
	w.u16(uint16(len(records)))
	offsets := make(map[*byte]uint32)
	var body appender
	start := uint32(4 + 8*len(records))
	for _, rec := range records {
		off, ok := offsets[&rec.subtable[0]]
		if !ok {
			off = start + uint32(len(body))
			offsets[&rec.subtable[0]] = off
			body.bytes(rec.subtable)
		}
		w.u16(rec.platform)
		w.u16(rec.encoding)
		w.u32(off)
	}
	w.bytes(body)
	return w, nil
}

// encodeCMapFormat4 encodes the BMP part of sorted mappings. Runs of
// consecutive code-points with consecutive glyphs form one segment using
// idDelta; idRangeOffset is always zero.
func encodeCMapFormat4(mappings []CMapping) ([]byte, error) {
	type segment struct{ start, end, delta uint16 }
	var segs []segment
	for _, cm := range mappings {
		if cm.Rune >= 0xffff {
			break
		}
		c := uint16(cm.Rune)
		delta := uint16(cm.Glyph) - c
		if n := len(segs); n > 0 && segs[n-1].end+1 == c && segs[n-1].delta == delta {
			segs[n-1].end = c
			continue
		}
		segs = append(segs, segment{start: c, end: c, delta: delta})
	}
	segs = append(segs, segment{start: 0xffff, end: 0xffff, delta: 1})
	segCount := len(segs)
	length := 16 + 8*segCount
	if length > 0xffff {
		return nil, errFontFormat("too many cmap segments for format 4")
	}
	entrySelector := bits.Len(uint(segCount)) - 1
	searchRange := 2 << entrySelector
	w := appender{}
	w.u16(4)
	w.u16(uint16(length))
	w.u16(0) // language
	w.u16(uint16(2 * segCount))
	w.u16(uint16(searchRange))
	w.u16(uint16(entrySelector))
	w.u16(uint16(2*segCount - searchRange))
	for _, s := range segs {
		w.u16(s.end)
	}
	w.u16(0) // reservedPad
	for _, s := range segs {
		w.u16(s.start)
	}
	for _, s := range segs {
		w.u16(s.delta)
	}
	for range segs {
		w.u16(0) // idRangeOffset
	}
	return w, nil
}

// encodeCMapFormat12 encodes sorted mappings as sequential map groups.
func encodeCMapFormat12(mappings []CMapping) []byte {
	type group struct {
		start, end rune
		glyph      GlyphIndex
	}
	var groups []group
	for _, cm := range mappings {
		if n := len(groups); n > 0 {
			g := &groups[n-1]
			if g.end+1 == cm.Rune && rune(g.glyph)+(cm.Rune-g.start) == rune(cm.Glyph) {
				g.end = cm.Rune
				continue
			}
		}
		groups = append(groups, group{start: cm.Rune, end: cm.Rune, glyph: cm.Glyph})
	}
	w := appender{}
	w.u16(12)
	w.u16(0) // reserved
	w.u32(uint32(16 + 12*len(groups)))
	w.u32(0) // language
	w.u32(uint32(len(groups)))
	for _, g := range groups {
		w.u32(uint32(g.start))
		w.u32(uint32(g.end))
		w.u32(uint32(g.glyph))
	}
	return w
}

// --- loca and hmtx ---------------------------------------------------------

// EncodeLoca encodes glyph offsets into table 'glyf' as table 'loca'.
// offsets has one entry more than there are glyphs. The short format is
// chosen if every offset is even and fits; the format is returned as it has
// to be stored in head.indexToLocFormat.
func EncodeLoca(offsets []uint32) ([]byte, uint16) {
	short := true
	for _, off := range offsets {
		if off&1 != 0 || off > 0x1fffe {
			short = false
			break
		}
	}
	w := appender{}
	if short {
		for _, off := range offsets {
			w.u16(uint16(off / 2))
		}
		return w, 0
	}
	for _, off := range offsets {
		w.u32(off)
	}
	return w, 1
}

// HMetric is the horizontal metric of a glyph.
type HMetric struct {
	Advance uint16
	LSB     int16
}

// EncodeHMtx encodes table 'hmtx' for the metrics of all glyphs, in glyph
// order. Trailing glyphs sharing the advance width of their predecessor are
// stored as left side bearings only. The second return value is
// numberOfHMetrics for table 'hhea'.
func EncodeHMtx(metrics []HMetric) ([]byte, int) {
	n := len(metrics)
	for n > 1 && metrics[n-1].Advance == metrics[n-2].Advance {
		n--
	}
	w := appender{}
	for i, m := range metrics {
		if i < n {
			w.u16(m.Advance)
		}
		w.i16(m.LSB)
	}
	return w, n
}
