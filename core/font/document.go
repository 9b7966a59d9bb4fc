package font

import (
	"path/filepath"
	"strings"
)

// CharMap maps code-points to glyphs.
type CharMap interface {
	Lookup(r rune) GlyphIndex               // NotDef for unmapped code-points
	Each(func(r rune, gid GlyphIndex) bool) // mapped code-points in ascending order
}

// Info holds the naming and global metrics of a font.
type Info struct {
	FamilyName string // preferred family name
	StyleName  string // preferred subfamily name, e.g. "Bold Italic"
	UnitsPerEm uint16
	Ascender   int16
	Descender  int16
	Version    string // version string of the font, if any
	Format     string // "TrueType" or "CFF"
}

// Document is the immutable parsed view of a font.
//
// Documents are created by codecs with NewDocument. Clients must treat all
// data reachable from a Document as read-only.
type Document struct {
	Info
	glyphs []Glyph
	cmap   CharMap
	size   int         // byte size of the source binary
	native interface{} // codec-specific representation
}

// NewDocument creates a document from parsed font data. It is intended to be
// called by codecs. glyphs must be ordered by index, starting with .notdef.
// native is a codec-specific representation the codec needs for encoding
// subsets, e.g. the parsed table directory.
func NewDocument(info Info, glyphs []Glyph, cmap CharMap, size int, native interface{}) *Document {
	return &Document{
		Info:   info,
		glyphs: glyphs,
		cmap:   cmap,
		size:   size,
		native: native,
	}
}

// NumGlyphs returns the total number of glyphs in the font, including .notdef.
func (doc *Document) NumGlyphs() int {
	return len(doc.glyphs)
}

// Glyph returns the glyph at index gid. If the index is out of range, false
// is returned.
func (doc *Document) Glyph(gid GlyphIndex) (Glyph, bool) {
	if int(gid) >= len(doc.glyphs) {
		return Glyph{}, false
	}
	return doc.glyphs[gid], true
}

// Lookup returns the glyph mapped to a code-point, or NotDef.
func (doc *Document) Lookup(r rune) GlyphIndex {
	if doc.cmap == nil {
		return NotDef
	}
	return doc.cmap.Lookup(r)
}

// CharMap returns the character map of the font.
func (doc *Document) CharMap() CharMap {
	return doc.cmap
}

// Covers returns true if the font maps code-point r to a glyph other than
// .notdef.
func (doc *Document) Covers(r rune) bool {
	return doc.Lookup(r) != NotDef
}

// Coverage returns how many distinct characters of text the font maps, and
// the number of distinct characters in text.
func (doc *Document) Coverage(text string) (covered int, total int) {
	chars := NewCharacterSet(text)
	chars.Each(func(r rune) {
		if doc.Covers(r) {
			covered++
		}
	})
	return covered, chars.Len()
}

// SizeInBytes returns the size of the binary the document has been parsed from.
func (doc *Document) SizeInBytes() int {
	return doc.size
}

// Native returns the codec-specific representation of the font.
func (doc *Document) Native() interface{} {
	return doc.native
}

// FamilyFromFilename derives a family name from a font's file name, as a
// fallback for fonts without usable naming information: the part of the base
// name before the first dot. Empty names yield "ImportedFont".
func FamilyFromFilename(filename string) string {
	base := filepath.Base(filepath.ToSlash(filename))
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	if base == "" || base == "/" {
		return "ImportedFont"
	}
	return base
}
