package otquery

import (
	"fmt"

	"github.com/ethanz-code/font-subsetting/core/font/opentype/ot"
	"golang.org/x/text/language"
)

// FontType returns the font type, encoded in the font header, as a string.
func FontType(otf *ot.Font) string {
	if otf.Header == nil {
		return "<empty>"
	}
	switch otf.Header.FontType {
	case ot.OpenTypeFont:
		return "OpenType (CFF outlines)"
	case ot.TrueTypeFont:
		return "TrueType"
	case ot.AppleTrueType:
		return "TrueType (Mac legacy)"
	}
	return "<unknown>"
}

// NameInfo returns a map with selected fields from OpenType table `name`.
// Will include (if available in the font) "family", "subfamily", "full",
// "postscript" and "version".
//
// Typographic family and subfamily names (IDs 16 and 17) take precedence over
// the legacy ones. Parameter lang selects a localization; if the font has no
// record for lang, the first localization found is used.
func NameInfo(otf *ot.Font, lang language.Tag) map[string]string {
	names := make(map[string]string)
	if otf.Name == nil {
		tracer().Debugf("no name table found in font")
		return names
	}
	put := func(key string, ids ...ot.NameID) {
		for _, id := range ids {
			if val := otf.Name.Lookup(id, lang); val != "" {
				names[key] = val
				return
			}
		}
	}
	put("family", ot.NameTypographicFamily, ot.NameFamily)
	put("subfamily", ot.NameTypographicSubfam, ot.NameSubfamily)
	put("full", ot.NameFull)
	put("postscript", ot.NamePostScript)
	put("version", ot.NameVersion)
	return names
}

// FontRevision returns the revision number from table 'head' as a string,
// e.g. "2.010".
func FontRevision(otf *ot.Font) string {
	if otf.Head == nil {
		return ""
	}
	r := otf.Head.Revision
	return fmt.Sprintf("%d.%03d", r>>16, (r&0xffff)*1000/0x10000)
}

// LayoutTables returns a list of tag strings, one for each layout-table a font includes.
//
// From the OpenType specification:
// OpenType Layout makes use of five tables: GSUB, GPOS, BASE, JSTF, and GDEF.
func LayoutTables(otf *ot.Font) []string {
	var lt []string
	tags := otf.TableTags()
	for _, tag := range tags {
		switch tag.String() {
		case "GSUB", "GPOS", "BASE", "JSTF", "GDEF":
			lt = append(lt, tag.String())
		}
	}
	return lt
}
