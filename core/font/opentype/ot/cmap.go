package ot

/*
We replicate some of the code of the Go core team here, available from
https://github.com/golang/image/tree/master/font/sfnt.
I understand it's legal to do so, as long as the license information stays intact.

   Copyright 2017 The Go Authors. All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

// CMapTable represents an OpenType cmap table, i.e. the table to receive glyphs
// from code-points.
//
// See https://docs.microsoft.com/de-de/typography/opentype/spec/cmap
//
// Consulting the cmap table is a very frequent operation on fonts. We therefore
// construct an internal representation of the lookup table. A cmap table may contain
// more than one lookup table, but we will only instantiate the most appropriate one.
type CMapTable struct {
	tableBase
	GlyphIndexMap CMapGlyphIndex
	Format        uint16 // format of the selected subtable, 4 or 12
}

func newCMapTable(tag Tag, b binarySegm, offset, size uint32) *CMapTable {
	t := &CMapTable{}
	t.tableBase = makeTableBase(tag, b, offset, size)
	t.self = t
	return t
}

// platformEncodingWidth returns the number of bytes per character assumed by
// the given Platform ID and Platform Specific ID.
//
// Old fonts, from when Unicode meant the Basic Multilingual Plane (BMP),
// assume that 2 bytes per character is sufficient.
//
// Recent fonts naturally support the full range of Unicode code points, which
// can take up to 4 bytes per character.
func platformEncodingWidth(pid, psid uint16) int {
	switch pid {
	case 0: // Unicode platform
		switch psid {
		case 3: // Unicode BMB
			return 2
		case 4, 10: // Unicode full  (include 10 from FontForge bug)
			return 4
		}
	case 3: // Windows platform
		switch psid {
		case 1: // Unicode BMP
			return 2
		case 10: // Unicode full
			return 4
		}
	}
	return 0 // width 0 will never get selected
}

// Right now we do not support variable fonts nor fallback fonts.
// All in all, we only support the following plaform/encoding/format combinations:
//
//	0 (Unicode)  3    4   Unicode BMB
//	0 (Unicode)  4    12  Unicode full  (10 from FontForge, error)
//	3 (Win)      1    4   Unicode BMP
//	3 (Win)      10   12  Unicode full
//
// Note that FontForge may generate a bogus Platform Specific ID (value 10)
// for the Unicode Platform ID (value 0). See
// https://github.com/fontforge/fontforge/issues/2728
func supportedCmapFormat(format, pid, psid uint16) bool {
	tracer().Debugf("checking supported cmap format (%d | %d | %d)", pid, psid, format)
	return (pid == 0 && psid == 3 && format == 4) ||
		(pid == 0 && (psid == 4 || psid == 10) && format == 12) ||
		(pid == 3 && psid == 1 && format == 4) ||
		(pid == 3 && psid == 10 && format == 12)
}

// Dispatcher to create the correct implementation of a CMapGlyphIndex from a given format.
func makeGlyphIndex(which encodingRecord) (CMapGlyphIndex, error) {
	switch which.format {
	case 4:
		return makeGlyphIndexFormat4(which.subtable)
	case 12:
		return makeGlyphIndexFormat12(which.subtable)
	}
	return nil, errFontFormat("unsupported cmap format")
}

// CMapGlyphIndex represents a CMap table index to receive a glyph index from
// a code-point.
type CMapGlyphIndex interface {
	Lookup(rune) GlyphIndex                 // central activiy of CMap; 0 for unmapped code-points
	ReverseLookup(GlyphIndex) rune          // this is non-standard, but helps with tests
	Each(func(r rune, gid GlyphIndex) bool) // iterate over all mapped code-points in ascending order
}

// Format 4: Segment mapping to delta values
// This is the standard character-to-glyph-index mapping subtable for fonts that support
// only Unicode Basic Multilingual Plane characters (U+0000 to U+FFFF).
type format4GlyphIndex struct {
	entries  []cmapEntry16
	glyphIds array
}

// Format 4 holds four parallel arrays to describe the segments (one segment for
// each contiguous range of codes).
// see https://docs.microsoft.com/en-us/typography/opentype/spec/cmap#format-4-segment-mapping-to-delta-values
type cmapEntry16 struct {
	end, start, delta, offset uint16
}

func (f4 format4GlyphIndex) Lookup(r rune) GlyphIndex {
	if r < 0 || r > 0xffff { // format 4 is for BMP code-points only
		return 0 // return index for 'missing character'
	}
	c := uint16(r)
	N := len(f4.entries)
	for i, j := 0, N; i < j; {
		h := i + (j-i)/2 // do a binary search on f4.entries (which may get large)
		entry := &f4.entries[h]
		if c < entry.start {
			j = h
		} else if entry.end < c {
			i = h + 1
		} else {
			return f4.glyphInSegment(h, c)
		}
	}
	return GlyphIndex(0)
}

func (f4 format4GlyphIndex) glyphInSegment(h int, c uint16) GlyphIndex {
	entry := &f4.entries[h]
	if entry.offset == 0 {
		return GlyphIndex(c + entry.delta)
	}
	// The spec describes the calculation the find the link into the glyph ID array
	// as follows:
	// “The character code offset from startCode is added to the idRangeOffset value.
	//  This sum is used as an offset from the current location within idRangeOffset
	//  itself to index out the correct glyphIdArray value. This obscure indexing
	//  trick works because glyphIdArray immediately follows idRangeOffset in the
	//  font file.”
	// We sliced the cmap into sub-segments, so we calculate a clean index into
	// the glyph ID array: cut off the part of offset which results from
	// skipping over to the start of the glyph ID array.
	deltaToEndOfEntries := (len(f4.entries) - h) * 2 // 2 = byte size of offset array entry
	offset := int(entry.offset) - deltaToEndOfEntries
	index := offset/2 + int(c-entry.start)
	glyphInx := f4.glyphIds.Get(index).U16(0)
	if glyphInx > 0 {
		// If the value obtained from the indexing operation is not 0 (which indicates
		// missingGlyph), idDelta[i] is added to it to get the glyph index
		glyphInx += entry.delta
	}
	return GlyphIndex(glyphInx) // will be 0 in case of indexing error
}

// ReverseLookup retrieves a code-point for a given glyph. The Cmap tables do not
// support this operation, thus this operation is inefficient.
// However, for testing and debugging purposes it is often useful.
func (f4 format4GlyphIndex) ReverseLookup(gid GlyphIndex) rune {
	if gid == 0 {
		return 0
	}
	var found rune
	f4.Each(func(r rune, g GlyphIndex) bool {
		if g == gid {
			found = r
			return false
		}
		return true
	})
	return found
}

// Each calls f for every code-point mapped to a glyph other than 0, in
// ascending order of code-points, until f returns false.
func (f4 format4GlyphIndex) Each(f func(r rune, gid GlyphIndex) bool) {
	for h, entry := range f4.entries {
		if entry.end < entry.start || entry.start == 0xffff {
			continue
		}
		for c := uint32(entry.start); c <= uint32(entry.end); c++ {
			if gid := f4.glyphInSegment(h, uint16(c)); gid != 0 {
				if !f(rune(c), gid) {
					return
				}
			}
		}
	}
}

// The format's data is divided into three parts, which must occur in the following order:
//
// - A four-word header gives parameters for an optimized search of the segment list;
// - Four parallel arrays describe the segments (one segment for each contiguous range of codes);
// - A variable-length array of glyph IDs (unsigned words).
func makeGlyphIndexFormat4(b binarySegm) (CMapGlyphIndex, error) {
	const headerSize = 14
	if headerSize > b.Size() {
		return nil, errFontFormat("cmap subtable bounds overflow")
	}
	size := int(b.U16(2))
	segCount := b.U16(6)
	if segCount&1 != 0 {
		tracer().Debugf("cmap format 4 segment count is %d", segCount)
		return nil, errFontFormat("cmap table format, illegal segment count")
	}
	segCount /= 2
	if size > b.Size() { // some fonts get the length wrong; trust the table bounds
		size = b.Size()
	}
	eLength := 8*int(segCount) + 2
	if headerSize+eLength > size {
		return nil, errFontFormat("cmap internal structure")
	}
	b = b[headerSize:size]
	endCodes := viewArray16(b[:segCount*2])
	next := endCodes.Size() + 2 // 2 is a padding entry in the cmap table
	startCodes := viewArray16(b[next : next+int(segCount)*2])
	next += startCodes.Size()
	deltas := viewArray16(b[next : next+int(segCount)*2])
	next += deltas.Size()
	offsets := viewArray16(b[next : next+int(segCount)*2])
	next += offsets.Size()
	entries := make([]cmapEntry16, segCount)
	for i := range entries {
		entries[i] = cmapEntry16{
			end:    endCodes.Get(i).U16(0),
			start:  startCodes.Get(i).U16(0),
			delta:  deltas.Get(i).U16(0),
			offset: offsets.Get(i).U16(0),
		}
	}
	glyphTable := viewArray16(b[next:])
	tracer().Debugf("cmap format 4 glyph table starts at offset %d", next)
	return format4GlyphIndex{
		entries:  entries,
		glyphIds: glyphTable,
	}, nil
}

type cmapEntry32 struct {
	start, end, delta uint32
}

// Each sequential map group record specifies a character range and the starting glyph ID
// mapped from the first character. Glyph IDs for subsequent characters follow in sequence.
type format12GlyphIndex struct {
	entries []cmapEntry32
}

func (f12 format12GlyphIndex) Lookup(r rune) GlyphIndex {
	if r < 0 {
		return 0
	}
	c := uint32(r)
	for i, j := 0, len(f12.entries); i < j; {
		h := i + (j-i)/2 // do a binary search on f12.entries (which may get large)
		entry := &f12.entries[h]
		if c < entry.start {
			j = h
		} else if entry.end < c {
			i = h + 1
		} else {
			return GlyphIndex(c - entry.start + entry.delta)
		}
	}
	return 0
}

// ReverseLookup retrieves a code-point for a given glyph. The Cmap tables do not
// support this operation, thus this operation is inefficient.
// However, for testing and debugging purposes it is often useful.
func (f12 format12GlyphIndex) ReverseLookup(gid GlyphIndex) rune {
	if gid == 0 {
		return 0
	}
	cid := uint32(gid)
	for _, entry := range f12.entries {
		if cid >= entry.delta && cid-entry.delta <= entry.end-entry.start {
			return rune(entry.start + cid - entry.delta)
		}
	}
	return 0
}

// Each calls f for every code-point mapped to a glyph other than 0, in
// ascending order of code-points, until f returns false.
func (f12 format12GlyphIndex) Each(f func(r rune, gid GlyphIndex) bool) {
	for _, entry := range f12.entries {
		for c := entry.start; c <= entry.end && c <= 0x10ffff; c++ {
			gid := GlyphIndex(c - entry.start + entry.delta)
			if gid == 0 {
				continue
			}
			if !f(rune(c), gid) {
				return
			}
		}
	}
}

// This is the standard character-to-glyph-index mapping subtable for fonts supporting
// Unicode character repertoires that include supplementary-plane characters (U+10000 to
// U+10FFFF).
//
// Format 12 is similar to format 4 in that it defines segments for sparse representation.
// It differs, however, in that it uses 32-bit character codes, and Glyph ID lookup
// and calculation is a lot simpler.
func makeGlyphIndexFormat12(b binarySegm) (CMapGlyphIndex, error) {
	const headerSize = 16
	if headerSize > b.Size() {
		return nil, errFontFormat("cmap subtable bounds overflow")
	}
	size := int(b.U32(4))
	grpCount := int(b.U32(12))
	if size > b.Size() {
		size = b.Size()
	}
	eLength := 12 * grpCount
	if eLength+headerSize > size {
		return nil, errFontFormat("cmap internal structure")
	}
	b = b[headerSize:size]
	// SequentialMapGroup Record:
	// Type     Name            Description
	// uint32   startCharCode   First character code in this group
	// uint32   endCharCode     Last character code in this group
	// uint32   startGlyphID    Glyph index corresponding to the starting character code
	groups := viewArray(b, 12) // 12 is byte size of group-record
	entries := make([]cmapEntry32, grpCount)
	for i := range entries {
		g := groups.Get(i)
		entries[i] = cmapEntry32{
			start: g.U32(0),
			end:   g.U32(4),
			delta: g.U32(8),
		}
		if entries[i].end < entries[i].start {
			return nil, errFontFormat("cmap format 12 group with end < start")
		}
	}
	return format12GlyphIndex{
		entries: entries,
	}, nil
}
