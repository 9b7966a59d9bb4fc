/*
Package font holds the format-independent model of a font for subsetting.

We will stick to the following definitions:

* A "document" is the immutable parsed view of a single font file: its
names, global metrics, the ordered sequence of glyphs and the mapping of
code-points to glyphs. A document is created once per load and is never
mutated afterwards; any number of subset operations may read the same
document concurrently.

* A "glyph" is identified by its index within the font's glyph sequence.
Glyph 0 is always the special glyph ".notdef", which is displayed for
characters the font does not map.

* A "character set" is the set of code-points a subset has to cover.

Binary formats are handled by codecs (see interface Codec). Package
opentype implements a codec for TrueType/OpenType fonts; tests may use
fakes.

Website for fonts:
https://www.fontsquirrel.com/fonts/list/popular

OpenType explained:
https://docs.microsoft.com/en-us/typography/opentype/

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package font

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontsubset.fonts'
func tracer() tracing.Trace {
	return tracing.Select("fontsubset.fonts")
}

// NotDef is the glyph index of the glyph displayed for unmapped characters.
const NotDef GlyphIndex = 0

// GlyphIndex is a glyph index in a font.
type GlyphIndex uint16

// Glyph is a glyph of a font document. Outline data is kept in the binary
// format of the font's codec and is opaque to clients; composite glyphs
// list the glyphs they reference.
type Glyph struct {
	Index        GlyphIndex   // index in source-original numbering
	Data         []byte       // outline data, empty for glyphs without outline
	Components   []GlyphIndex // glyphs referenced by a composite glyph
	AdvanceWidth uint16       // in font units
	LSB          int16        // left side bearing, in font units
}

// IsComposite returns true if the glyph is built from references to other glyphs.
func (g Glyph) IsComposite() bool {
	return len(g.Components) > 0
}

// IsEmpty returns true for glyphs without outline, e.g. a space.
func (g Glyph) IsEmpty() bool {
	return len(g.Data) == 0
}

func (g Glyph) String() string {
	if g.IsComposite() {
		return fmt.Sprintf("glyph[%d, composite %v, adv=%d]", g.Index, g.Components, g.AdvanceWidth)
	}
	return fmt.Sprintf("glyph[%d, %d bytes, adv=%d]", g.Index, len(g.Data), g.AdvanceWidth)
}

// Descriptor describes a font family available from a font source, e.g.
// a font directory service or the local system.
type Descriptor struct {
	Family   string            // family name, e.g. "Noto Sans"
	Path     string            // file path or URL for the default variant, if known
	Variants []string          // variant names, e.g. "regular", "700italic"
	Files    map[string]string // variant name to file path or URL
}
