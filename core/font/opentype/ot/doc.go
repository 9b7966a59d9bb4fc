/*
Package ot provides low-level access to the tables of SFNT fonts (TrueType and
OpenType), and the means to write a new SFNT container from a set of tables.

Intended audience for this package are font subsetters and other applications
needing the internal structure of a font file available. Package `ot` will not
interpret every table of a font, but rather expose the tables to the client and
wrap those in Go types which a subsetter has to understand:

▪︎ 'head', 'hhea', 'maxp' for global font values and glyph counts

▪︎ 'loca' and 'glyf' for glyph outlines, including composite glyphs

▪︎ 'hmtx' for horizontal metrics

▪︎ 'cmap' for the mapping of code-points to glyphs

▪︎ 'name' and 'OS/2' for naming and vertical metrics

All other tables are available as generic tables, i.e. as a view on their bytes.

Parsing

	otf, err := ot.Parse(fontbytes)

will check the table directory of the font, including table checksums. An
ot.Font does not copy the font's binary data, but keeps views into it.
Clients must treat the font bytes as read-only as long as the ot.Font is in use.
After parsing, an ot.Font is never modified, thus it may be shared between
goroutines.

Writing

Type FontBuilder collects tables and serializes them into a valid SFNT
container: table records are sorted, tables are padded to 4-byte boundaries,
checksums are computed, and head.checkSumAdjustment is set.
Encoders for 'cmap' (formats 4 and 12), 'loca', 'hmtx' and 'name' are
available as functions.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package ot

import (
	"github.com/ethanz-code/font-subsetting/core"
	"github.com/npillmayer/schuko/tracing"
)

// Code comments often will cite passages from the
// OpenType specification version 1.8.4;
// see https://docs.microsoft.com/en-us/typography/opentype/spec/.

// tracer writes to trace with key 'fontsubset.fonts'
func tracer() tracing.Trace {
	return tracing.Select("fontsubset.fonts")
}

// errFontFormat produces user level errors for font parsing.
func errFontFormat(x string) error {
	return core.Error(core.EINVALID, "font format: %s", x)
}
