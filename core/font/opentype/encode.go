package opentype

import (
	"strings"

	"github.com/ethanz-code/font-subsetting/core"
	"github.com/ethanz-code/font-subsetting/core/font"
	"github.com/ethanz-code/font-subsetting/core/font/opentype/ot"
	"github.com/ethanz-code/font-subsetting/core/font/opentype/otquery"
	"golang.org/x/image/font/sfnt"
)

// Tables rebuilt for a subset.
var rebuiltTables = []string{"glyf", "loca", "hmtx", "hhea", "maxp", "cmap", "head", "name", "post", "OS/2"}

// Tables indexed by glyph ID which cannot be carried over into a subset.
// Hinting data tied to glyph programs (fpgm, prep, cvt) does not reference
// glyph IDs and stays.
var droppedTables = []string{"GSUB", "GPOS", "GDEF", "BASE", "JSTF", "kern", "hdmx", "LTSH", "VDMX", "DSIG"}

// Encode serializes a subset of a decoded font into a new font binary.
// The source document of subset must have been decoded by this codec.
func (c Codec) Encode(subset *font.Subset) ([]byte, error) {
	if subset == nil || subset.Source == nil {
		return nil, core.Error(core.EINTERNAL, "no subset to encode")
	}
	otf, ok := subset.Source.Native().(*ot.Font)
	if !ok {
		return nil, core.Error(core.EINTERNAL, "font document has not been decoded as OpenType")
	}
	if !otf.HasGlyfOutlines() {
		return nil, core.Error(core.EINVALID, "font format: CFF outlines cannot be subset")
	}
	if len(subset.Glyphs) == 0 || subset.Glyphs[0] != font.NotDef {
		return nil, core.Error(core.EINTERNAL, "subset must start with glyph .notdef")
	}
	fb := ot.NewFontBuilder(ot.TrueTypeFont)
	for _, tag := range otf.TableTags() {
		if contains(rebuiltTables, tag.String()) {
			continue
		}
		if contains(droppedTables, tag.String()) {
			tracer().Debugf("dropping table %s", tag)
			continue
		}
		fb.AddTable(tag, otf.Table(tag).Binary())
	}
	g, err := encodeGlyphs(subset)
	if err != nil {
		return nil, err
	}
	fb.AddTable(ot.T("glyf"), g.glyf)
	loca, locFormat := ot.EncodeLoca(g.offsets)
	fb.AddTable(ot.T("loca"), loca)
	hmtx, numberOfHMetrics := ot.EncodeHMtx(g.metrics)
	fb.AddTable(ot.T("hmtx"), hmtx)
	fb.AddTable(ot.T("hhea"), ot.PatchHHea(otf.HHea, numberOfHMetrics, g.advanceWidthMax))
	fb.AddTable(ot.T("maxp"), ot.PatchMaxP(otf.MaxP, len(subset.Glyphs)))
	fb.AddTable(ot.T("head"), ot.PatchHead(otf.Head, ot.HeadValues{
		IndexToLocFormat: locFormat,
		XMin:             int16(g.bbox.MinX),
		YMin:             int16(g.bbox.MinY),
		XMax:             int16(g.bbox.MaxX),
		YMax:             int16(g.bbox.MaxY),
	}))
	mappings := make([]ot.CMapping, len(subset.CMap))
	for i, m := range subset.CMap {
		mappings[i] = ot.CMapping{Rune: m.Rune, Glyph: ot.GlyphIndex(m.Glyph)}
	}
	cmap, err := ot.EncodeCMap(mappings)
	if err != nil {
		return nil, err
	}
	fb.AddTable(ot.T("cmap"), cmap)
	if otf.OS2 != nil {
		var first, last rune
		if len(subset.CMap) > 0 {
			first, last = subset.CMap[0].Rune, subset.CMap[len(subset.CMap)-1].Rune
		}
		fb.AddTable(ot.T("OS/2"), ot.PatchOS2(otf.OS2, first, last))
	}
	fb.AddTable(ot.T("post"), ot.EncodePost3(otf.Table(ot.T("post"))))
	family := subset.FamilyName
	if family == "" {
		family = subset.Source.FamilyName
	}
	name, err := ot.EncodeNameTable(renameRecords(otf.Name.Records, family, subset.Source.StyleName))
	if err != nil {
		return nil, err
	}
	fb.AddTable(ot.T("name"), name)
	b, err := fb.Build()
	if err != nil {
		return nil, err
	}
	tracer().Infof("encoded subset %q: %d glyphs, %d tables, %d bytes",
		family, len(subset.Glyphs), len(fb.Tags()), len(b))
	return b, nil
}

type encodedGlyphs struct {
	glyf            []byte
	offsets         []uint32
	metrics         []ot.HMetric
	advanceWidthMax uint16
	bbox            otquery.BoundingBox
}

// encodeGlyphs concatenates the outlines of the subset's glyphs, in output
// order, with composite references rewritten to output indices.
func encodeGlyphs(subset *font.Subset) (encodedGlyphs, error) {
	newIndex := subset.NewIndex()
	remap := func(gid ot.GlyphIndex) (ot.GlyphIndex, bool) {
		n, ok := newIndex(font.GlyphIndex(gid))
		return ot.GlyphIndex(n), ok
	}
	enc := encodedGlyphs{
		offsets: make([]uint32, 0, len(subset.Glyphs)+1),
		metrics: make([]ot.HMetric, 0, len(subset.Glyphs)),
	}
	for _, gid := range subset.Glyphs {
		glyph, ok := subset.Source.Glyph(gid)
		if !ok {
			return enc, core.Error(core.EINVALID, "font format: glyph %d does not exist", gid)
		}
		enc.offsets = append(enc.offsets, uint32(len(enc.glyf)))
		enc.metrics = append(enc.metrics, ot.HMetric{Advance: glyph.AdvanceWidth, LSB: glyph.LSB})
		if glyph.AdvanceWidth > enc.advanceWidthMax {
			enc.advanceWidthMax = glyph.AdvanceWidth
		}
		if glyph.IsEmpty() {
			continue
		}
		outline, err := ot.DecodeGlyph(glyph.Data)
		if err != nil {
			return enc, core.WrapError(err, core.EINVALID, "font format: glyph %d", gid)
		}
		data, err := outline.RemapComponents(remap)
		if err != nil {
			return enc, err
		}
		enc.bbox = enc.bbox.Union(otquery.BoundingBox{
			MinX: sfnt.Units(outline.XMin),
			MinY: sfnt.Units(outline.YMin),
			MaxX: sfnt.Units(outline.XMax),
			MaxY: sfnt.Units(outline.YMax),
		})
		enc.glyf = append(enc.glyf, data...)
		for len(enc.glyf)%4 != 0 {
			enc.glyf = append(enc.glyf, 0)
		}
	}
	enc.offsets = append(enc.offsets, uint32(len(enc.glyf)))
	return enc, nil
}

// renameRecords replaces the naming of a font with a new family name. Records
// for family, subfamily, unique ID, full name and PostScript name (including
// the typographic variants) are replaced; all others are kept.
func renameRecords(records []ot.NameRecord, family, style string) []ot.NameRecord {
	if style == "" {
		style = "Regular"
	}
	full := family
	if style != "Regular" {
		full = family + " " + style
	}
	winEnglish := func(id ot.NameID, value string) ot.NameRecord {
		return ot.NameRecord{PlatformID: 3, EncodingID: 1, LanguageID: 0x0409, NameID: id, Value: value}
	}
	renamed := []ot.NameRecord{
		winEnglish(ot.NameFamily, family),
		winEnglish(ot.NameSubfamily, style),
		winEnglish(ot.NameUniqueID, PostScriptName(family, style)+";subset"),
		winEnglish(ot.NameFull, full),
		winEnglish(ot.NamePostScript, PostScriptName(family, style)),
		winEnglish(ot.NameTypographicFamily, family),
		winEnglish(ot.NameTypographicSubfam, style),
	}
	for _, rec := range records {
		switch rec.NameID {
		case ot.NameFamily, ot.NameSubfamily, ot.NameUniqueID, ot.NameFull, ot.NamePostScript,
			ot.NameTypographicFamily, ot.NameTypographicSubfam:
			continue
		}
		renamed = append(renamed, rec)
	}
	return renamed
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// PostScriptName derives a PostScript font name (name ID 6) from family and
// style. Only printable ASCII is kept, without whitespace and the characters
// "[](){}<>/%". Families with nothing left are named "Subset". The result is
// at most 63 characters long.
func PostScriptName(family, style string) string {
	name := psChars(family)
	if name == "" {
		name = "Subset"
	}
	if st := psChars(style); st != "" {
		name += "-" + st
	}
	if len(name) > 63 {
		name = name[:63]
	}
	return name
}

func psChars(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r > ' ' && r < 0x7f && !strings.ContainsRune("[](){}<>/%", r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
