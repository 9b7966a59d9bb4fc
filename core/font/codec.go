package font

// Codec translates between a binary font format and the format-independent
// model of this package.
//
// Decode parses a complete font binary into a document. It is a pure
// function: no I/O, no side effects. filename may be empty; it serves as a
// fallback for the family name only. Decode fails with an error of code
// core.EINVALID for data it cannot interpret.
//
// Encode serializes a subset of a document into a new font binary. The
// source document must have been created by the same codec. Encode never
// modifies the source document.
type Codec interface {
	Decode(data []byte, filename string) (*Document, error)
	Encode(subset *Subset) ([]byte, error)
}

// Mapping maps a code-point to a glyph.
type Mapping struct {
	Rune  rune
	Glyph GlyphIndex
}

// Subset describes a reduced font to be encoded by a codec.
type Subset struct {
	Source     *Document    // the document to take glyphs and tables from
	FamilyName string       // family name for the new font
	Glyphs     []GlyphIndex // source glyph indices, in output order; Glyphs[0] is .notdef
	CMap       []Mapping    // code-points of the new font, mapped to output glyph indices, ascending
}

// NewIndex returns a function mapping source glyph indices to output indices.
func (s *Subset) NewIndex() func(GlyphIndex) (GlyphIndex, bool) {
	index := make(map[GlyphIndex]GlyphIndex, len(s.Glyphs))
	for i, gid := range s.Glyphs {
		index[gid] = GlyphIndex(i)
	}
	return func(gid GlyphIndex) (GlyphIndex, bool) {
		n, ok := index[gid]
		return n, ok
	}
}
