package ot

import (
	"fmt"
)

// ---------------------------------------------------------------------------

// Parse parses an SFNT font from a byte slice.
// An ot.Font needs ongoing access to the fonts byte-data after the Parse function returns.
// Its elements are assumed immutable while the ot.Font remains in use.
//
// Parse fails with an error of code core.EINVALID if the font's signature,
// its table directory or the checksum of any table is invalid, or if a table
// required for subsetting is missing or inconsistent.
func Parse(font []byte) (*Font, error) {
	// https://www.microsoft.com/typography/otspec/otff.htm: Offset Table is 12 bytes.
	src := binarySegm(font)
	if len(src) < 12 {
		return nil, errFontFormat("font too short for offset table")
	}
	h := FontHeader{
		FontType:      src.U32(0),
		TableCount:    src.U16(4),
		SearchRange:   src.U16(6),
		EntrySelector: src.U16(8),
		RangeShift:    src.U16(10),
	}
	tracer().Debugf("header = %v, tag = %x|%s", h, h.FontType, Tag(h.FontType).String())
	switch h.FontType {
	case TrueTypeFont, OpenTypeFont, AppleTrueType:
	case 0x774f4646, 0x774f4632: // wOFF, wOF2
		return nil, errFontFormat("compressed WOFF container, decompress to TTF/OTF first")
	case 0x74746366: // ttcf
		return nil, errFontFormat("font collections are not supported")
	default:
		return nil, errFontFormat(fmt.Sprintf("font type not supported: %x", h.FontType))
	}
	if h.TableCount == 0 {
		return nil, errFontFormat("empty table directory")
	}
	otf := &Font{Header: &h, tables: make(map[Tag]Table), size: len(font)}
	// "The Offset Table is followed immediately by the Table Record entries …
	// sorted in ascending order by tag", 16 bytes each.
	buf, err := src.view(12, 16*int(h.TableCount))
	if err != nil {
		return nil, errFontFormat("table record entries")
	}
	for b, prevTag := buf, Tag(0); len(b) > 0; b = b[16:] {
		tag := MakeTag(b)
		if tag < prevTag {
			return nil, errFontFormat("table order")
		}
		prevTag = tag
		checksum, off, size := u32(b[4:8]), u32(b[8:12]), u32(b[12:16])
		if off&3 != 0 { // "all tables must begin on four byte boundries".
			return nil, errFontFormat("invalid table offset for " + tag.String())
		}
		if uint64(off)+uint64(size) > uint64(len(font)) {
			return nil, errFontFormat("table " + tag.String() + " exceeds font data")
		}
		data := src[off : off+size]
		if sum := tableChecksum(tag, data); sum != checksum {
			tracer().Errorf("checksum of table %s is %x, expected %x", tag, sum, checksum)
			return nil, errFontFormat("checksum mismatch for table " + tag.String())
		}
		t, err := parseTable(tag, data, off, size)
		if err != nil {
			return nil, err
		}
		setChecksum(t, checksum)
		otf.tables[tag] = t
	}
	if err := extractEssentials(otf); err != nil {
		return nil, err
	}
	tracer().Infof("parsed font with %d tables and %d glyphs", len(otf.tables), otf.NumGlyphs())
	return otf, nil
}

// According to the OpenType spec, the following tables are
// required for the font to function correctly. We do not need 'post' and
// 'OS/2' for subsetting, thus we accept fonts without them.
var RequiredTables = []string{
	"cmap", "head", "hhea", "hmtx", "maxp", "name",
}

// Consistency check and shortcuts to essential tables.
func extractEssentials(otf *Font) error {
	for _, tag := range RequiredTables {
		h := otf.tables[T(tag)]
		if h == nil {
			return errFontFormat("missing required table " + tag)
		}
	}
	otf.CMap = otf.tables[T("cmap")].Self().AsCMap()
	otf.Head = otf.tables[T("head")].Self().AsHead()
	otf.HHea = otf.tables[T("hhea")].Self().AsHHea()
	otf.HMtx = otf.tables[T("hmtx")].Self().AsHMtx()
	otf.MaxP = otf.tables[T("maxp")].Self().AsMaxP()
	otf.Name = otf.tables[T("name")].Self().AsName()
	if os2 := otf.tables[T("OS/2")]; os2 != nil {
		otf.OS2 = os2.Self().AsOS2()
	}
	// The number of glyphs in the font is restricted only by the value stated in
	// the 'maxp' table.
	numGlyphs := otf.MaxP.NumGlyphs
	if numGlyphs == 0 {
		return errFontFormat("font has no glyphs")
	}
	nhm := otf.HHea.NumberOfHMetrics
	if nhm == 0 || nhm > numGlyphs {
		return errFontFormat("hhea.numberOfHMetrics out of range")
	}
	if int(otf.HMtx.length) < 4*nhm+2*(numGlyphs-nhm) {
		return errFontFormat("size of hmtx table")
	}
	otf.HMtx.NumberOfHMetrics = nhm
	lo, gl := otf.tables[T("loca")], otf.tables[T("glyf")]
	switch {
	case lo != nil && gl != nil:
		otf.Loca = lo.Self().AsLoca()
		otf.Glyf = gl.Self().AsGlyf()
		if err := wireLoca(otf.Loca, otf.Head.IndexToLocFormat, numGlyphs, otf.Glyf.length); err != nil {
			return err
		}
		otf.Glyf.loca = otf.Loca
	case otf.Header.FontType == OpenTypeFont:
		if otf.tables[T("CFF ")] == nil && otf.tables[T("CFF2")] == nil {
			return errFontFormat("missing outline tables (glyf/loca or CFF)")
		}
	default:
		return errFontFormat("missing outline tables glyf/loca")
	}
	return nil
}

// wireLoca sets the format and the number of locations of table 'loca' and
// checks that glyph offsets are non-decreasing and inside table 'glyf'.
func wireLoca(loca *LocaTable, format uint16, numGlyphs int, glyfSize uint32) error {
	var entrySize int
	switch format {
	case 0:
		entrySize = 2
	case 1:
		entrySize = 4
		loca.inx2loc = longLocaVersion
	default:
		return errFontFormat("head.indexToLocFormat invalid")
	}
	if int(loca.length) < (numGlyphs+1)*entrySize {
		return errFontFormat("size of loca table")
	}
	loca.locCnt = numGlyphs
	prev := uint32(0)
	for i := 0; i <= numGlyphs; i++ {
		loc := loca.inx2loc(loca, i)
		if loc < prev || loc > glyfSize {
			return errFontFormat(fmt.Sprintf("loca entry %d out of order or beyond glyf", i))
		}
		prev = loc
	}
	return nil
}

// setChecksum stores the checksum of the table record with the table.
func setChecksum(t Table, checksum uint32) {
	if tb := t.Self().tableBase; tb != nil {
		tb.checksum = checksum
	}
}

func parseTable(t Tag, b binarySegm, offset, size uint32) (Table, error) {
	switch t {
	case T("cmap"):
		return parseCMap(t, b, offset, size)
	case T("head"):
		return parseHead(t, b, offset, size)
	case T("glyf"):
		return newGlyfTable(t, b, offset, size), nil
	case T("hhea"):
		return parseHHea(t, b, offset, size)
	case T("hmtx"):
		return newHMtxTable(t, b, offset, size), nil
	case T("loca"):
		return newLocaTable(t, b, offset, size), nil
	case T("maxp"):
		return parseMaxP(t, b, offset, size)
	case T("name"):
		return parseName(t, b, offset, size)
	case T("OS/2"):
		return parseOS2(t, b, offset, size)
	}
	tracer().Debugf("font contains table (%s), will not be interpreted", t)
	return newTable(t, b, offset, size), nil
}

// --- Checksums -------------------------------------------------------------

// Checksum calculates the checksum of a table or of a font: the sum of the
// data as big-endian uint32 words, with a trailing partial word padded by zeros.
func Checksum(b []byte) uint32 {
	var sum uint32
	n := len(b) &^ 3
	for i := 0; i < n; i += 4 {
		sum += u32(b[i:])
	}
	if rest := len(b) - n; rest > 0 {
		var last [4]byte
		copy(last[:], b[n:])
		sum += u32(last[:])
	}
	return sum
}

// tableChecksum calculates the checksum of a table. For table 'head', field
// checkSumAdjustment is treated as zero.
func tableChecksum(tag Tag, b []byte) uint32 {
	sum := Checksum(b)
	if tag == T("head") && len(b) >= 12 {
		sum -= u32(b[8:12])
	}
	return sum
}

// --- Head table ------------------------------------------------------------

func parseHead(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	if size < 54 {
		return nil, errFontFormat("size of head table")
	}
	if magic := b.U32(12); magic != 0x5f0f3cf5 {
		return nil, errFontFormat("head table magic number")
	}
	t := newHeadTable(tag, b, offset, size)
	t.Revision = b.U32(4)
	t.Flags = b.U16(16)      // flags
	t.UnitsPerEm = b.U16(18) // units per em
	t.XMin, _ = b.i16(36)
	t.YMin, _ = b.i16(38)
	t.XMax, _ = b.i16(40)
	t.YMax, _ = b.i16(42)
	// IndexToLocFormat is needed to interpret the loca table:
	// 0 for short offsets, 1 for long
	t.IndexToLocFormat = b.U16(50)
	if t.UnitsPerEm < 16 || t.UnitsPerEm > 16384 {
		return nil, errFontFormat("head.unitsPerEm out of range")
	}
	return t, nil
}

// --- HHea table ------------------------------------------------------------

func parseHHea(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	if size < 36 {
		return nil, errFontFormat("size of hhea table")
	}
	t := newHHeaTable(tag, b, offset, size)
	t.Ascender, _ = b.i16(4)
	t.Descender, _ = b.i16(6)
	t.LineGap, _ = b.i16(8)
	t.AdvanceWidthMax = b.U16(10)
	t.NumberOfHMetrics = int(b.U16(34))
	return t, nil
}

// --- MaxP table ------------------------------------------------------------

func parseMaxP(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	if size < 6 {
		return nil, errFontFormat("size of maxp table")
	}
	t := newMaxPTable(tag, b, offset, size)
	t.NumGlyphs = int(b.U16(4))
	return t, nil
}

// --- OS/2 table ------------------------------------------------------------

func parseOS2(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	t := newOS2Table(tag, b, offset, size)
	t.Version = b.U16(0)
	if size >= 78 {
		t.FirstCharIndex = b.U16(64)
		t.LastCharIndex = b.U16(66)
		t.TypoAscender, _ = b.i16(68)
		t.TypoDescender, _ = b.i16(70)
		t.TypoLineGap, _ = b.i16(72)
		t.WinAscent = b.U16(74)
		t.WinDescent = b.U16(76)
		t.hasTypoMetrics = true
	} else {
		tracer().Infof("OS/2 table too short for vertical metrics: %d bytes", size)
	}
	return t, nil
}

// --- CMap table ------------------------------------------------------------

// This table defines mapping of character codes to a default glyph index. Different
// subtables may be defined that each contain mappings for different character encoding
// schemes. The table header indicates the character encodings for which subtables are
// present.
//
// From the OpenType specification: “Apart from a format 14 subtable, all other subtables are exclusive:
// applications should select and use one and ignore the others. […]
// If a font includes Unicode subtables for both 16-bit encoding (typically, format 4)
// and also 32-bit encoding (formats 10 or 12), then the characters supported by the
// subtable for 32-bit encoding should be a superset of the characters supported by
// the subtable for 16-bit encoding, and the 32-bit encoding should be used by
// applications.”
//
// All in all, we only support the following plaform/encoding/format combinations:
//
//	0 (Unicode)  3    4   Unicode BMB
//	0 (Unicode)  4    12  Unicode full
//	3 (Win)      1    4   Unicode BMP
//	3 (Win)      10   12  Unicode full
func parseCMap(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	n, _ := b.u16(2) // number of sub-tables
	tracer().Debugf("font cmap has %d sub-tables in %d|%d bytes", n, len(b), size)
	t := newCMapTable(tag, b, offset, size)
	const headerSize, entrySize = 4, 8
	if size < headerSize+entrySize*uint32(n) {
		return nil, errFontFormat("size of cmap table")
	}
	var enc encodingRecord
	for i := 0; i < int(n); i++ {
		rec, _ := b.view(headerSize+entrySize*i, entrySize)
		pid, psid := u16(rec), u16(rec[2:])
		width := platformEncodingWidth(pid, psid)
		if width <= enc.width {
			continue
		}
		off := u32(rec[4:])
		if uint64(off)+2 > uint64(size) {
			tracer().Infof("cmap sub-table cannot be parsed")
			continue
		}
		subtable := b[off:]
		format := subtable.U16(0)
		tracer().Debugf("cmap table contains subtable with format %d", format)
		if supportedCmapFormat(format, pid, psid) {
			enc = encodingRecord{
				platformId: pid,
				encodingId: psid,
				format:     format,
				width:      width,
				subtable:   subtable,
			}
		}
	}
	if enc.width == 0 {
		return nil, errFontFormat("no supported cmap format found")
	}
	var err error
	if t.GlyphIndexMap, err = makeGlyphIndex(enc); err != nil {
		return nil, err
	}
	t.Format = enc.format
	return t, nil
}

type encodingRecord struct {
	platformId uint16
	encodingId uint16
	subtable   binarySegm
	format     uint16
	width      int // encoding width in bytes
}
