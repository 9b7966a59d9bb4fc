/*
Package subset reduces a font to the glyphs needed for a set of characters.

Build computes the glyph closure for a character set: glyph .notdef, the
glyphs the characters map to, and all glyphs referenced by composite glyphs,
recursively. Glyphs are deduplicated in first-seen order and renumbered
densely, starting with .notdef at index 0. The reduced font is then
serialized by a font.Codec.

# Unmapped characters

A character the font does not map resolves to .notdef. As .notdef is part of
every subset anyway, this never adds a glyph: glyphs are deduplicated by
index, so .notdef occurs exactly once. Option SkipUnmapped drops unmapped
characters before glyph resolution instead; both policies produce the same
glyph set and differ only in the statistics reported.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package subset

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontsubset.fonts'
func tracer() tracing.Trace {
	return tracing.Select("fontsubset.fonts")
}
