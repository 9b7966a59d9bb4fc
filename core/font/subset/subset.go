package subset

import (
	"context"
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/sets/linkedhashset"
	"github.com/emirpasic/gods/utils"
	"github.com/ethanz-code/font-subsetting/core"
	"github.com/ethanz-code/font-subsetting/core/font"
	"github.com/ethanz-code/font-subsetting/core/font/opentype"
)

// Options control a subset build.
type Options struct {
	FamilyName   string     // family name of the subset; defaults to the source's family
	Codec        font.Codec // codec to serialize the subset; defaults to opentype.Codec
	SkipUnmapped bool       // drop unmapped characters instead of resolving them to .notdef
}

// Result is the outcome of a subset build.
type Result struct {
	FontBytes    []byte  // the subset font binary
	FamilyName   string  // family name of the subset
	FileName     string  // file name for the subset font, derived from the family name
	OriginalSize int     // size of the source font in bytes
	SubsetSize   int     // size of FontBytes
	SavingsRatio float64 // 1 - SubsetSize/OriginalSize; may be negative
	CSSSnippet   string  // stylesheet declaring the subset font
	GlyphCount   int     // number of glyphs in the subset, including .notdef
	CharCount    int     // number of distinct characters requested
	Unmapped     []rune  // requested characters the font does not map

	// Mapping maps source glyph indices to subset glyph indices.
	Mapping map[font.GlyphIndex]font.GlyphIndex
}

// closureCheckInterval is the number of glyphs processed between checks
// for cancellation.
const closureCheckInterval = 256

// Build creates a subset of doc containing the glyphs for chars.
//
// Build never modifies doc and may be called concurrently on the same document.
// It fails with core.ErrEmptySubset if no character of chars maps to a glyph
// other than .notdef, and with core.ErrInvalidFormat if a composite glyph
// references a glyph the font does not contain. Cancellation of ctx is
// honored between steps and during glyph closure.
func Build(ctx context.Context, doc *font.Document, chars *font.CharacterSet, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.Canceled(err)
	}
	if doc == nil || doc.NumGlyphs() == 0 {
		return nil, core.Error(core.EINVALID, "font has no glyphs")
	}
	family := strings.TrimSpace(opts.FamilyName)
	if family == "" {
		family = doc.FamilyName
	}
	codec := opts.Codec
	if codec == nil {
		codec = opentype.Codec{}
	}
	glyphs, cmap, unmapped := resolve(doc, chars, opts.SkipUnmapped)
	order, err := closure(ctx, doc, glyphs)
	if err != nil {
		return nil, err
	}
	if len(order) <= 1 {
		return nil, core.Error(core.EEMPTY,
			"none of the %d requested characters is contained in font %s", chars.Len(), doc.FamilyName)
	}
	subset := &font.Subset{
		Source:     doc,
		FamilyName: family,
		Glyphs:     order,
	}
	mapping := make(map[font.GlyphIndex]font.GlyphIndex, len(order))
	for i, gid := range order {
		mapping[gid] = font.GlyphIndex(i)
	}
	it := cmap.Iterator()
	for it.Next() {
		subset.CMap = append(subset.CMap, font.Mapping{
			Rune:  it.Key().(rune),
			Glyph: mapping[it.Value().(font.GlyphIndex)],
		})
	}
	if err := ctx.Err(); err != nil {
		return nil, core.Canceled(err)
	}
	b, err := codec.Encode(subset)
	if err != nil {
		return nil, err
	}
	res := &Result{
		FontBytes:    b,
		FamilyName:   family,
		FileName:     FileName(family),
		OriginalSize: doc.SizeInBytes(),
		SubsetSize:   len(b),
		GlyphCount:   len(order),
		CharCount:    chars.Len(),
		Unmapped:     unmapped,
		Mapping:      mapping,
	}
	res.SavingsRatio = SavingsRatio(res.OriginalSize, res.SubsetSize)
	res.CSSSnippet = Stylesheet(family, res.FileName)
	tracer().Infof("subset %q: %d characters (%d unmapped) -> %d glyphs, %d -> %d bytes",
		family, res.CharCount, len(unmapped), res.GlyphCount, res.OriginalSize, res.SubsetSize)
	return res, nil
}

// resolve maps the characters to glyphs. It returns the set of glyphs in
// first-seen order, starting with .notdef, and the characters mapped to glyphs
// other than .notdef, sorted by code-point.
func resolve(doc *font.Document, chars *font.CharacterSet, skipUnmapped bool) (*linkedhashset.Set, *treemap.Map, []rune) {
	glyphs := linkedhashset.New(font.NotDef)
	cmap := treemap.NewWith(utils.Int32Comparator)
	var unmapped []rune
	chars.Each(func(r rune) {
		gid := doc.Lookup(r)
		if gid == font.NotDef {
			unmapped = append(unmapped, r)
			if skipUnmapped {
				tracer().Debugf("skipping unmapped character %#U", r)
				return
			}
			tracer().Debugf("character %#U resolves to .notdef", r)
		} else {
			cmap.Put(r, gid)
		}
		glyphs.Add(gid)
	})
	return glyphs, cmap, unmapped
}

// closure adds all glyphs referenced by composite glyphs, recursively, and
// returns the glyphs in first-seen order.
func closure(ctx context.Context, doc *font.Document, glyphs *linkedhashset.Set) ([]font.GlyphIndex, error) {
	order := make([]font.GlyphIndex, 0, glyphs.Size())
	it := glyphs.Iterator()
	for it.Next() {
		order = append(order, it.Value().(font.GlyphIndex))
	}
	for i := 0; i < len(order); i++ {
		if i%closureCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, core.Canceled(err)
			}
		}
		g, ok := doc.Glyph(order[i])
		if !ok {
			return nil, core.Error(core.EINVALID, "font format: glyph %d does not exist", order[i])
		}
		for _, c := range g.Components {
			if int(c) >= doc.NumGlyphs() {
				return nil, core.Error(core.EINVALID,
					"font format: composite glyph %d references unknown glyph %d", g.Index, c)
			}
			if !glyphs.Contains(c) {
				tracer().Debugf("composite glyph %d adds component %d", g.Index, c)
				glyphs.Add(c)
				order = append(order, c)
			}
		}
	}
	return order, nil
}

// SavingsRatio returns 1 - subsetSize/originalSize. The ratio is negative if
// the subset is larger than the original; it is 0 for an unknown original
// size.
func SavingsRatio(originalSize, subsetSize int) float64 {
	if originalSize <= 0 {
		return 0
	}
	return 1 - float64(subsetSize)/float64(originalSize)
}
