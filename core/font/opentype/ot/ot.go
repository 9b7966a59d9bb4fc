package ot

import (
	"sort"
)

// Font represents the internal structure of an SFNT font.
// It is used to access the tables of a font for subsetting tasks.
type Font struct {
	Header *FontHeader
	tables map[Tag]Table
	CMap   *CMapTable // CMAP table is mandatory
	Head   *HeadTable // 'head' table is mandatory
	HHea   *HHeaTable // 'hhea' table is mandatory
	HMtx   *HMtxTable // 'hmtx' table is mandatory
	MaxP   *MaxPTable // 'maxp' table is mandatory
	Name   *NameTable // 'name' table is mandatory
	Loca   *LocaTable // nil for fonts with CFF outlines
	Glyf   *GlyfTable // nil for fonts with CFF outlines
	OS2    *OS2Table  // optional on Mac platforms
	size   int        // byte size of the font binary
}

// FontHeader is a directory of the top-level tables in a font. If the font file
// contains only one font, the table directory will begin at byte 0 of the file.
//
// OpenType fonts that contain TrueType outlines should use the value of 0x00010000
// for the FontType. OpenType fonts containing CFF data (version 1 or 2) should
// use 0x4F54544F ('OTTO', when re-interpreted as a Tag).
// The Apple specification for TrueType fonts allows for 'true' and 'typ1',
// but these version tags should not be used for OpenType fonts.
type FontHeader struct {
	FontType      uint32
	TableCount    uint16
	SearchRange   uint16
	EntrySelector uint16
	RangeShift    uint16
}

// Font types
const (
	TrueTypeFont  uint32 = 0x00010000
	OpenTypeFont  uint32 = 0x4f54544f // OTTO
	AppleTrueType uint32 = 0x74727565 // true
)

// Table returns the font table for a given tag. If a table for a tag cannot
// be found in the font, nil is returned.
func (otf *Font) Table(tag Tag) Table {
	if t, ok := otf.tables[tag]; ok {
		return t
	}
	return nil
}

// TableTags returns a list of tags, one for each table contained in the font,
// in ascending order.
func (otf *Font) TableTags() []Tag {
	tags := make([]Tag, 0, len(otf.tables))
	for tag := range otf.tables {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// NumGlyphs returns the number of glyphs in the font, as stated by table 'maxp'.
func (otf *Font) NumGlyphs() int {
	if otf.MaxP == nil {
		return 0
	}
	return otf.MaxP.NumGlyphs
}

// HasGlyfOutlines is true if the font carries TrueType outlines, i.e. tables
// 'glyf' and 'loca'.
func (otf *Font) HasGlyfOutlines() bool {
	return otf.Glyf != nil && otf.Loca != nil
}

// Size returns the size of the font binary in bytes.
func (otf *Font) Size() int {
	return otf.size
}

// GlyphIndex is a glyph index in a font.
type GlyphIndex uint16

// Tag is defined by the OpenType specification as:
// Array of four uint8s (length = 32 bits) used to identify a table,
// design-variation axis, script, language system, feature, or baseline
type Tag uint32

// MakeTag creates a Tag from 4 bytes, e.g.,
// If b is shorter or longer, it will be silently extended or cut as appropriate
func MakeTag(b []byte) Tag {
	if b == nil {
		b = []byte{0, 0, 0, 0}
	} else if len(b) > 4 {
		b = b[:4]
	} else if len(b) < 4 {
		b = append([]byte{0, 0, 0, 0}[:4-len(b)], b...)
	}
	return Tag(u32(b))
}

// T returns a Tag from a (4-letter) string.
// If t is shorter or longer, it will be silently extended or cut as appropriate
func T(t string) Tag {
	t = (t + "    ")[:4]
	return Tag(u32([]byte(t)))
}

func (t Tag) String() string {
	bytes := []byte{
		byte(t >> 24 & 0xff),
		byte(t >> 16 & 0xff),
		byte(t >> 8 & 0xff),
		byte(t & 0xff),
	}
	return string(bytes)
}

// --- Table -----------------------------------------------------------------

// Table represents one of the various SFNT font tables.
//
// Please note that the current implementation will not interpret every kind of
// font table. However, `Table` will return at least a generic table type for
// each table contained in the font, i.e. no table information will be dropped.
type Table interface {
	Extent() (uint32, uint32) // offset and byte size within the font's binary data
	Binary() []byte           // the bytes of this table; should be treatet as read-only by clients
	Checksum() uint32         // checksum as stated in the table record
	Self() TableSelf          // reference to itself
}

func newTable(tag Tag, b binarySegm, offset, size uint32) *genericTable {
	t := &genericTable{}
	t.tableBase = makeTableBase(tag, b, offset, size)
	t.self = t
	return t
}

type genericTable struct {
	tableBase
}

// tableBase is a common parent for all kinds of SFNT tables.
type tableBase struct {
	data     binarySegm // a table is a slice of font data
	name     Tag        // 4-byte name as an integer
	offset   uint32     // from offset
	length   uint32     // to offset + length
	checksum uint32     // from the table record
	self     interface{}
}

func makeTableBase(tag Tag, b binarySegm, offset, size uint32) tableBase {
	return tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
}

// Extent returns offset and byte size of this table within the font.
func (tb *tableBase) Extent() (uint32, uint32) {
	return tb.offset, tb.length
}

// Binary returns the bytes of this table. Should be treatet as read-only by
// clients, as it is a view into the original data.
func (tb *tableBase) Binary() []byte {
	return tb.data
}

// Checksum returns the checksum stated in the table directory.
func (tb *tableBase) Checksum() uint32 {
	return tb.checksum
}

func (tb *tableBase) Self() TableSelf {
	return TableSelf{tableBase: tb}
}

// TableSelf is a reference to a table. Its primary use is for converting
// a generic table to a concrete table flavour, and for reproducing the
// name tag of a table.
type TableSelf struct {
	tableBase *tableBase
}

// NameTag returns the 4-letter name of a table.
func (tself TableSelf) NameTag() Tag {
	if tself.tableBase == nil {
		return 0
	}
	return tself.tableBase.name
}

func safeSelf(tself TableSelf) interface{} {
	if tself.tableBase == nil || tself.tableBase.self == nil {
		return TableSelf{}
	}
	return tself.tableBase.self
}

// AsCMap returns this table as a cmap table, or nil.
func (tself TableSelf) AsCMap() *CMapTable {
	if k, ok := safeSelf(tself).(*CMapTable); ok {
		return k
	}
	return nil
}

// AsHead returns this table as a head table, or nil.
func (tself TableSelf) AsHead() *HeadTable {
	if k, ok := safeSelf(tself).(*HeadTable); ok {
		return k
	}
	return nil
}

// AsLoca returns this table as a loca table, or nil.
func (tself TableSelf) AsLoca() *LocaTable {
	if k, ok := safeSelf(tself).(*LocaTable); ok {
		return k
	}
	return nil
}

// AsGlyf returns this table as a glyf table, or nil.
func (tself TableSelf) AsGlyf() *GlyfTable {
	if k, ok := safeSelf(tself).(*GlyfTable); ok {
		return k
	}
	return nil
}

// AsMaxP returns this table as a maxp table, or nil.
func (tself TableSelf) AsMaxP() *MaxPTable {
	if k, ok := safeSelf(tself).(*MaxPTable); ok {
		return k
	}
	return nil
}

// AsHHea returns this table as a hhea table, or nil.
func (tself TableSelf) AsHHea() *HHeaTable {
	if k, ok := safeSelf(tself).(*HHeaTable); ok {
		return k
	}
	return nil
}

// AsHMtx returns this table as a hmtx table, or nil.
func (tself TableSelf) AsHMtx() *HMtxTable {
	if k, ok := safeSelf(tself).(*HMtxTable); ok {
		return k
	}
	return nil
}

// AsName returns this table as a name table, or nil.
func (tself TableSelf) AsName() *NameTable {
	if k, ok := safeSelf(tself).(*NameTable); ok {
		return k
	}
	return nil
}

// AsOS2 returns this table as an OS/2 table, or nil.
func (tself TableSelf) AsOS2() *OS2Table {
	if k, ok := safeSelf(tself).(*OS2Table); ok {
		return k
	}
	return nil
}

// --- Concrete tables -------------------------------------------------------

// HeadTable gives global information about the font.
// Only a small subset of fields are made public by HeadTable, as they are
// needed for consistency-checks and subsetting.
type HeadTable struct {
	tableBase
	Flags            uint16 // see https://docs.microsoft.com/en-us/typography/opentype/spec/head
	UnitsPerEm       uint16 // values 16 … 16384 are valid
	XMin, YMin       int16  // bounding box for all glyph bounding boxes
	XMax, YMax       int16
	IndexToLocFormat uint16 // needed to interpret loca table
	Revision         uint32 // fontRevision, a 16.16 fixed value
}

func newHeadTable(tag Tag, b binarySegm, offset, size uint32) *HeadTable {
	t := &HeadTable{}
	t.tableBase = makeTableBase(tag, b, offset, size)
	t.self = t
	return t
}

// LocaTable stores the offsets to the locations of the glyphs in the font,
// relative to the beginning of the glyph data table.
// By definition, index zero points to the “missing character”, which is the character
// that appears if a character is not found in the font. The missing character is
// commonly represented by a blank box or a space.
type LocaTable struct {
	tableBase
	inx2loc func(t *LocaTable, n int) uint32 // returns location entry #n
	locCnt  int                              // number of glyphs, i.e. locations - 1
}

// IndexToLocation offsets, indexed by glyph IDs, which provide the location of each
// glyph data block within the 'glyf' table. Glyph gid spans from
// IndexToLocation(gid) up to IndexToLocation(gid+1).
func (t *LocaTable) IndexToLocation(gid GlyphIndex) uint32 {
	return t.inx2loc(t, int(gid))
}

// GlyphRange returns start and end of glyph gid within table 'glyf'.
func (t *LocaTable) GlyphRange(gid GlyphIndex) (uint32, uint32) {
	if int(gid) >= t.locCnt {
		return 0, 0
	}
	return t.inx2loc(t, int(gid)), t.inx2loc(t, int(gid)+1)
}

func newLocaTable(tag Tag, b binarySegm, offset, size uint32) *LocaTable {
	t := &LocaTable{}
	t.tableBase = makeTableBase(tag, b, offset, size)
	t.inx2loc = shortLocaVersion // may get changed by font consistency check
	t.locCnt = 0                 // has to be set during consistency check
	t.self = t
	return t
}

func shortLocaVersion(t *LocaTable, n int) uint32 {
	// in case of error link to 'missing character' at location 0
	if n > t.locCnt {
		return 0
	}
	loc, err := t.data.u16(n * 2)
	if err != nil {
		return 0
	}
	return uint32(loc) * 2
}

func longLocaVersion(t *LocaTable, n int) uint32 {
	// in case of error link to 'missing character' at location 0
	if n > t.locCnt {
		return 0
	}
	loc, err := t.data.u32(n * 4)
	if err != nil {
		return 0
	}
	return loc
}

// MaxPTable establishes the memory requirements for this font.
// The 'maxp' table contains a count for the number of glyphs in the font.
// Whenever this value changes, other tables which depend on it should also be updated.
type MaxPTable struct {
	tableBase
	NumGlyphs int
}

func newMaxPTable(tag Tag, b binarySegm, offset, size uint32) *MaxPTable {
	t := &MaxPTable{}
	t.tableBase = makeTableBase(tag, b, offset, size)
	t.self = t
	return t
}

// HHeaTable contains information for horizontal layout.
type HHeaTable struct {
	tableBase
	Ascender         int16
	Descender        int16
	LineGap          int16
	AdvanceWidthMax  uint16
	NumberOfHMetrics int
}

func newHHeaTable(tag Tag, b binarySegm, offset, size uint32) *HHeaTable {
	t := &HHeaTable{}
	t.tableBase = makeTableBase(tag, b, offset, size)
	t.self = t
	return t
}

// HMtxTable contains metric information for the horizontal layout each of the glyphs in
// the font. Each element in the contained hMetrics-array has two parts: the advance width
// and left side bearing. The value NumberOfHMetrics is taken from the `hhea` table. In
// a monospaced font, only one entry is required but that entry may not be omitted.
// Optionally, an array of left side bearings follows.
// The corresponding glyphs are assumed to have the same
// advance width as that found in the last entry in the hMetrics array.
type HMtxTable struct {
	tableBase
	NumberOfHMetrics int
}

func newHMtxTable(tag Tag, b binarySegm, offset, size uint32) *HMtxTable {
	t := &HMtxTable{}
	t.tableBase = makeTableBase(tag, b, offset, size)
	t.self = t
	return t
}

// HMetrics returns the advance width and left side bearing of a glyph.
func (t *HMtxTable) HMetrics(g GlyphIndex) (uint16, int16) {
	if t.NumberOfHMetrics <= 0 {
		return 0, 0
	}
	if int(g) < t.NumberOfHMetrics {
		a, _ := t.data.u16(int(g) * 4)
		lsb, _ := t.data.i16(int(g)*4 + 2)
		return a, lsb
	}
	// glyphs beyond numberOfHMetrics share the last advance width
	a, _ := t.data.u16((t.NumberOfHMetrics - 1) * 4)
	diff := int(g) - t.NumberOfHMetrics
	lsb, _ := t.data.i16(t.NumberOfHMetrics*4 + diff*2)
	return a, lsb
}

// OS2Table holds OS/2 and Windows specific metrics. We only interpret the
// fields needed for vertical metrics and character ranges.
type OS2Table struct {
	tableBase
	Version          uint16
	FirstCharIndex   uint16
	LastCharIndex    uint16
	TypoAscender     int16
	TypoDescender    int16
	TypoLineGap      int16
	WinAscent        uint16
	WinDescent       uint16
	hasTypoMetrics   bool
	hasWindowsMetric bool
}

// HasTypoMetrics is true if the table is long enough to carry sTypoAscender etc.
func (t *OS2Table) HasTypoMetrics() bool {
	return t.hasTypoMetrics
}

func newOS2Table(tag Tag, b binarySegm, offset, size uint32) *OS2Table {
	t := &OS2Table{}
	t.tableBase = makeTableBase(tag, b, offset, size)
	t.self = t
	return t
}
