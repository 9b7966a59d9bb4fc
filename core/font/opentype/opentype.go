/*
Package opentype handles OpenType fonts.

It implements a font.Codec for SFNT fonts with TrueType outlines. Decoding
validates the table directory and extracts names, metrics, glyphs and the
character map into a font.Document. Encoding rebuilds the tables that depend
on the set of glyphs (glyf, loca, hmtx, cmap, and the header tables
referencing them) for a subset, and serializes a new font binary around them.

Fonts with CFF outlines may be decoded, but cannot be subset.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package opentype

import (
	"strings"

	"github.com/ethanz-code/font-subsetting/core"
	"github.com/ethanz-code/font-subsetting/core/font"
	"github.com/ethanz-code/font-subsetting/core/font/opentype/ot"
	"github.com/ethanz-code/font-subsetting/core/font/opentype/otquery"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/text/language"
)

// tracer writes to trace with key 'fontsubset.fonts'
func tracer() tracing.Trace {
	return tracing.Select("fontsubset.fonts")
}

// Codec is a font.Codec for OpenType and TrueType fonts. The zero value is
// ready to use and is safe for concurrent use.
type Codec struct {
	// Language selects the localization of names to prefer. The zero value
	// selects US English.
	Language language.Tag
}

var _ font.Codec = Codec{}

// Decode parses a font binary into a document. Glyph outline data of the
// document references data, which must not be modified afterwards.
func (c Codec) Decode(data []byte, filename string) (*font.Document, error) {
	otf, err := ot.Parse(data)
	if err != nil {
		return nil, err
	}
	lang := c.Language
	if lang == language.Und {
		lang = language.AmericanEnglish
	}
	names := otquery.NameInfo(otf, lang)
	metrics := otquery.FontMetrics(otf)
	info := font.Info{
		FamilyName: familyName(names, filename),
		StyleName:  names["subfamily"],
		UnitsPerEm: uint16(metrics.UnitsPerEm),
		Ascender:   int16(metrics.Ascent),
		Descender:  int16(metrics.Descent),
		Version:    names["version"],
		Format:     "TrueType",
	}
	if info.StyleName == "" {
		info.StyleName = "Regular"
	}
	if info.Version == "" {
		info.Version = otquery.FontRevision(otf)
	}
	if !otf.HasGlyfOutlines() {
		info.Format = "CFF"
	}
	glyphs, err := decodeGlyphs(otf)
	if err != nil {
		return nil, err
	}
	tracer().Infof("decoded font %q (%s, %s): %d glyphs, %d tables",
		info.FamilyName, info.StyleName, info.Format, len(glyphs), len(otf.TableTags()))
	return font.NewDocument(info, glyphs, charMap{otf.CMap.GlyphIndexMap}, len(data), otf), nil
}

func familyName(names map[string]string, filename string) string {
	if fam := strings.TrimSpace(names["family"]); fam != "" {
		return fam
	}
	return font.FamilyFromFilename(filename)
}

func decodeGlyphs(otf *ot.Font) ([]font.Glyph, error) {
	n := otf.NumGlyphs()
	glyphs := make([]font.Glyph, n)
	for i := 0; i < n; i++ {
		gid := ot.GlyphIndex(i)
		g := &glyphs[i]
		g.Index = font.GlyphIndex(i)
		g.AdvanceWidth, g.LSB = otf.HMtx.HMetrics(gid)
		if !otf.HasGlyfOutlines() {
			continue
		}
		outline, err := otf.Glyf.Glyph(gid)
		if err != nil {
			return nil, err
		}
		g.Data = outline.Data
		for _, comp := range outline.Components {
			if int(comp.Glyph) >= n {
				return nil, core.Error(core.EINVALID,
					"font format: composite glyph %d references unknown glyph %d", i, comp.Glyph)
			}
			g.Components = append(g.Components, font.GlyphIndex(comp.Glyph))
		}
	}
	return glyphs, nil
}

// charMap adapts a cmap subtable to font.CharMap.
type charMap struct {
	index ot.CMapGlyphIndex
}

func (cm charMap) Lookup(r rune) font.GlyphIndex {
	return font.GlyphIndex(cm.index.Lookup(r))
}

func (cm charMap) Each(f func(r rune, gid font.GlyphIndex) bool) {
	cm.index.Each(func(r rune, gid ot.GlyphIndex) bool {
		return f(r, font.GlyphIndex(gid))
	})
}
