package ot

// Functions in this file produce updated copies of tables whose values depend
// on the set of glyphs in a font. Fields not mentioned are copied unchanged.

// HeadValues are the values of table 'head' depending on the glyph set.
type HeadValues struct {
	IndexToLocFormat       uint16
	XMin, YMin, XMax, YMax int16
}

// PatchHead returns a copy of table 'head' with new glyph bounds and loca
// format. checkSumAdjustment is zeroed; it is set when the font is built.
func PatchHead(head *HeadTable, v HeadValues) []byte {
	b := clone(head.Binary())
	putU32(b, 8, 0)
	putU16(b, 36, uint16(v.XMin))
	putU16(b, 38, uint16(v.YMin))
	putU16(b, 40, uint16(v.XMax))
	putU16(b, 42, uint16(v.YMax))
	putU16(b, 50, v.IndexToLocFormat)
	return b
}

// PatchHHea returns a copy of table 'hhea' with a new count of long metrics
// and maximum advance width.
func PatchHHea(hhea *HHeaTable, numberOfHMetrics int, advanceWidthMax uint16) []byte {
	b := clone(hhea.Binary())
	putU16(b, 10, advanceWidthMax)
	putU16(b, 34, uint16(numberOfHMetrics))
	return b
}

// PatchMaxP returns a copy of table 'maxp' with a new glyph count. The maxima
// of version 1.0 tables stay valid for any subset of glyphs.
func PatchMaxP(maxp *MaxPTable, numGlyphs int) []byte {
	b := clone(maxp.Binary())
	putU16(b, 4, uint16(numGlyphs))
	return b
}

// PatchOS2 returns a copy of table 'OS/2' with the character range set to
// [first…last], clamped to the BMP as required.
func PatchOS2(os2 *OS2Table, first, last rune) []byte {
	b := clone(os2.Binary())
	if len(b) < 68 {
		return b
	}
	putU16(b, 64, clampBMP(first))
	putU16(b, 66, clampBMP(last))
	return b
}

func clampBMP(r rune) uint16 {
	if r > 0xffff {
		return 0xffff
	}
	return uint16(r)
}

// EncodePost3 returns a 'post' table of version 3.0, i.e. without glyph names.
// The header values are copied from post, if present.
func EncodePost3(post Table) []byte {
	b := make([]byte, 32)
	if post != nil && len(post.Binary()) >= 32 {
		copy(b, post.Binary()[:32])
	}
	putU32(b, 0, 0x00030000)
	return b
}

func clone(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
