package otquery

import (
	"github.com/ethanz-code/font-subsetting/core/font/opentype/ot"
	"golang.org/x/image/font/sfnt"
)

// --- Font and glyph metrics ------------------------------------------------

// FontMetricsInfo contains selected metric information for a font.
type FontMetricsInfo struct {
	UnitsPerEm      sfnt.Units // ad-hoc units per em
	Ascent, Descent sfnt.Units // ascender and descender
	MaxAdvance      sfnt.Units // maximum advance width value in 'hmtx' table
	LineGap         sfnt.Units // typographic line gap
}

// GlyphMetricsInfo contains all the metric information for a glyph.
type GlyphMetricsInfo struct {
	Advance  sfnt.Units  // advance width
	LSB, RSB sfnt.Units  // side bearings
	BBox     BoundingBox // bounding box
}

// BoundingBox describes the bounding box of a glyph.
type BoundingBox struct {
	MinX, MinY sfnt.Units
	MaxX, MaxY sfnt.Units
}

// Empty is a predicate: has this box a zero area?
func (bbox BoundingBox) Empty() bool {
	return bbox.MaxX-bbox.MinX == 0 || bbox.MaxY-bbox.MinY == 0
}

// Dx is the horizontal extent of this box.
func (bbox BoundingBox) Dx() sfnt.Units {
	return bbox.MaxX - bbox.MinX
}

// Dy is the vertical extent of this box.
func (bbox BoundingBox) Dy() sfnt.Units {
	return bbox.MaxY - bbox.MinY
}

// Union returns the smallest box enclosing both bbox and other. Empty boxes
// are ignored.
func (bbox BoundingBox) Union(other BoundingBox) BoundingBox {
	if other.Empty() {
		return bbox
	}
	if bbox.Empty() {
		return other
	}
	if other.MinX < bbox.MinX {
		bbox.MinX = other.MinX
	}
	if other.MinY < bbox.MinY {
		bbox.MinY = other.MinY
	}
	if other.MaxX > bbox.MaxX {
		bbox.MaxX = other.MaxX
	}
	if other.MaxY > bbox.MaxY {
		bbox.MaxY = other.MaxY
	}
	return bbox
}

// --- Font Information -------------------------------------------------

// FontMetrics retrieves selected metrics of a font.
// Ascent and descent are taken from table 'hhea'. Fonts which leave them
// zero get the typographic values of table 'OS/2', if present.
func FontMetrics(otf *ot.Font) FontMetricsInfo {
	metrics := FontMetricsInfo{}
	if hhea := otf.HHea; hhea != nil {
		metrics.Ascent = sfnt.Units(hhea.Ascender)
		metrics.Descent = sfnt.Units(hhea.Descender)
		metrics.LineGap = sfnt.Units(hhea.LineGap)
		metrics.MaxAdvance = sfnt.Units(hhea.AdvanceWidthMax)
	}
	if metrics.Ascent == 0 && metrics.Descent == 0 {
		if os2 := otf.OS2; os2 != nil && os2.HasTypoMetrics() {
			tracer().Debugf("OS/2")
			if a := sfnt.Units(os2.TypoAscender); a > metrics.Ascent {
				tracer().Debugf("override of ascent: %d -> %d", metrics.Ascent, a)
				metrics.Ascent = a
			}
			if d := sfnt.Units(os2.TypoDescender); d < metrics.Descent {
				tracer().Debugf("override of descent: %d -> %d", metrics.Descent, d)
				metrics.Descent = d
			}
			if metrics.LineGap == 0 {
				metrics.LineGap = sfnt.Units(os2.TypoLineGap)
			}
		}
	}
	if otf.Head != nil {
		metrics.UnitsPerEm = sfnt.Units(otf.Head.UnitsPerEm)
	}
	return metrics
}

// --- Glyph Routines --------------------------------------------------------

// GlyphIndex returns the glyph index for a give code-point.
// If the code-point cannot be found, 0 is returned.
//
// From the OpenType specification: character codes that do not correspond to any glyph in
// the font should be mapped to glyph index 0. The glyph at this location must be a special
// glyph representing a missing character, commonly known as '.notdef'.
func GlyphIndex(otf *ot.Font, codepoint rune) ot.GlyphIndex {
	if otf.CMap == nil || otf.CMap.GlyphIndexMap == nil {
		return 0
	}
	return otf.CMap.GlyphIndexMap.Lookup(codepoint)
}

// CodePointForGlyph returns the code-point for a given glyph index.
//
// This is an inefficient operation: All code-points contained in the font's CMap
// are checked sequentially if they produce the given glyph.
// If the glyph index does not correspond to a code-point, 0 is returned.
func CodePointForGlyph(otf *ot.Font, gid ot.GlyphIndex) rune {
	if gid == 0 || otf.CMap == nil || otf.CMap.GlyphIndexMap == nil {
		return 0
	}
	return otf.CMap.GlyphIndexMap.ReverseLookup(gid)
}

// GlyphMetrics retrieves metrics for a given glyph.
func GlyphMetrics(otf *ot.Font, gid ot.GlyphIndex) GlyphMetricsInfo {
	metrics := GlyphMetricsInfo{}
	//
	// table HMtx: advance width and left side bearing
	if otf.HMtx != nil {
		a, lsb := otf.HMtx.HMetrics(gid)
		metrics.Advance, metrics.LSB = sfnt.Units(a), sfnt.Units(lsb)
	}
	//
	// table glyf: bounding box
	if otf.HasGlyfOutlines() {
		if g, err := otf.Glyf.Glyph(gid); err == nil && !g.IsEmpty() {
			metrics.BBox = BoundingBox{
				MinX: sfnt.Units(g.XMin),
				MinY: sfnt.Units(g.YMin),
				MaxX: sfnt.Units(g.XMax),
				MaxY: sfnt.Units(g.YMax),
			}
		}
	}
	// RSB calculation: rsb = aw - (lsb + xMax - xMin)
	// From the OpenType specification:
	// If a glyph has no contours, xMax/xMin are not defined. The left side bearing indicated
	// in the 'hmtx' table for such glyphs should be zero.
	if !metrics.BBox.Empty() { // leave RSB for empty bboxes
		metrics.RSB = metrics.Advance - (metrics.LSB + metrics.BBox.Dx())
	}
	return metrics
}
