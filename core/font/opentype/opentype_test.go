package opentype

import (
	"errors"
	"strings"
	"testing"

	"github.com/ethanz-code/font-subsetting/core"
	"github.com/ethanz-code/font-subsetting/core/font"
	"github.com/ethanz-code/font-subsetting/core/font/opentype/ot"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

func TestDecode(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.fonts")
	defer teardown()
	//
	doc, err := Codec{}.Decode(goregular.TTF, "goregular.ttf")
	require.NoError(t, err)
	assert.Equal(t, "Go", doc.FamilyName)
	assert.Equal(t, "Regular", doc.StyleName)
	assert.Equal(t, "TrueType", doc.Format)
	assert.Equal(t, uint16(2048), doc.UnitsPerEm)
	assert.Equal(t, int16(1935), doc.Ascender)
	assert.Equal(t, int16(-432), doc.Descender)
	assert.Equal(t, 712, doc.NumGlyphs())
	assert.Equal(t, len(goregular.TTF), doc.SizeInBytes())
	assert.Equal(t, font.GlyphIndex(36), doc.Lookup('A'))
	a, ok := doc.Glyph(36)
	require.True(t, ok)
	assert.Equal(t, uint16(1366), a.AdvanceWidth)
	assert.False(t, a.IsEmpty())
	space, _ := doc.Glyph(doc.Lookup(' '))
	assert.True(t, space.IsEmpty())
	n := 0
	doc.CharMap().Each(func(r rune, gid font.GlyphIndex) bool {
		n++
		return true
	})
	assert.Equal(t, 709, n)
}

func TestDecodeInvalid(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.fonts")
	defer teardown()
	//
	_, err := Codec{}.Decode([]byte("definitely not a font"), "x.ttf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidFormat))
	_, err = Codec{}.Decode(append([]byte("wOFF"), make([]byte, 40)...), "x.woff")
	assert.True(t, errors.Is(err, core.ErrInvalidFormat))
}

func TestFamilyName(t *testing.T) {
	assert.Equal(t, "Go", familyName(map[string]string{"family": " Go "}, "x.ttf"))
	assert.Equal(t, "MyFont", familyName(map[string]string{}, "/tmp/MyFont.Bold.ttf"))
	assert.Equal(t, "ImportedFont", familyName(nil, ""))
}

func TestEncodeSubset(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.fonts")
	defer teardown()
	//
	doc, err := Codec{}.Decode(goregular.TTF, "")
	require.NoError(t, err)
	subset := &font.Subset{
		Source:     doc,
		FamilyName: "Go Subset",
		Glyphs:     []font.GlyphIndex{0, doc.Lookup('A'), doc.Lookup('B'), doc.Lookup('C')},
		CMap:       []font.Mapping{{Rune: 'A', Glyph: 1}, {Rune: 'B', Glyph: 2}, {Rune: 'C', Glyph: 3}},
	}
	b, err := Codec{}.Encode(subset)
	require.NoError(t, err)
	assert.Less(t, len(b), len(goregular.TTF))
	assert.Equal(t, uint32(0xb1b0afba), ot.Checksum(b))
	//
	// validate with an independent parser
	f, err := sfnt.Parse(b)
	require.NoError(t, err)
	assert.Equal(t, 4, f.NumGlyphs())
	var buf sfnt.Buffer
	gid, err := f.GlyphIndex(&buf, 'B')
	require.NoError(t, err)
	assert.Equal(t, sfnt.GlyphIndex(2), gid)
	gid, err = f.GlyphIndex(&buf, 'D')
	require.NoError(t, err)
	assert.Equal(t, sfnt.GlyphIndex(0), gid)
	adv, err := f.GlyphAdvance(&buf, 1, fixed.I(2048), xfont.HintingNone)
	require.NoError(t, err)
	assert.Equal(t, fixed.I(1366), adv)
	fam, err := f.Name(&buf, sfnt.NameIDFamily)
	require.NoError(t, err)
	assert.Equal(t, "Go Subset", fam)
	//
	// and with our own decoder
	sub, err := Codec{}.Decode(b, "")
	require.NoError(t, err)
	assert.Equal(t, "Go Subset", sub.FamilyName)
	assert.Equal(t, doc.UnitsPerEm, sub.UnitsPerEm)
	assert.Equal(t, doc.Ascender, sub.Ascender)
	assert.Equal(t, doc.Descender, sub.Descender)
	assert.Equal(t, font.GlyphIndex(3), sub.Lookup('C'))
	assert.False(t, sub.Covers('D'))
	otf := sub.Native().(*ot.Font)
	assert.Nil(t, otf.Table(ot.T("GPOS")))
	assert.Equal(t, uint16('A'), otf.OS2.FirstCharIndex)
	assert.Equal(t, uint16('C'), otf.OS2.LastCharIndex)
}

func TestEncodeRejects(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.fonts")
	defer teardown()
	//
	_, err := Codec{}.Encode(nil)
	assert.Error(t, err)
	fake := font.NewDocument(font.Info{FamilyName: "Fake"}, []font.Glyph{{}}, nil, 0, nil)
	_, err = Codec{}.Encode(&font.Subset{Source: fake, Glyphs: []font.GlyphIndex{0}})
	assert.Equal(t, core.EINTERNAL, core.Code(err))
	doc, err := Codec{}.Decode(goregular.TTF, "")
	require.NoError(t, err)
	_, err = Codec{}.Encode(&font.Subset{Source: doc, Glyphs: []font.GlyphIndex{36}})
	assert.Error(t, err, "subset without .notdef")
	_, err = Codec{}.Encode(&font.Subset{Source: doc, Glyphs: []font.GlyphIndex{0, 5000}})
	assert.True(t, errors.Is(err, core.ErrInvalidFormat))
}

func TestRenameRecords(t *testing.T) {
	records := []ot.NameRecord{
		{PlatformID: 3, EncodingID: 1, LanguageID: 0x0409, NameID: ot.NameFamily, Value: "Old"},
		{PlatformID: 3, EncodingID: 1, LanguageID: 0x0407, NameID: ot.NameFamily, Value: "Alt"},
		{PlatformID: 3, EncodingID: 1, LanguageID: 0x0409, NameID: ot.NameCopyright, Value: "(c)"},
	}
	renamed := renameRecords(records, "My Font", "Bold Italic")
	values := map[ot.NameID]string{}
	for _, rec := range renamed {
		if _, ok := values[rec.NameID]; !ok {
			values[rec.NameID] = rec.Value
		}
		assert.NotEqual(t, "Old", rec.Value)
		assert.NotEqual(t, "Alt", rec.Value)
	}
	assert.Equal(t, "My Font", values[ot.NameFamily])
	assert.Equal(t, "My Font Bold Italic", values[ot.NameFull])
	assert.Equal(t, "MyFont-BoldItalic", values[ot.NamePostScript])
	assert.Equal(t, "(c)", values[ot.NameCopyright])
	//
	renamed = renameRecords(nil, "思源黑体", "Regular")
	for _, rec := range renamed {
		if rec.NameID == ot.NamePostScript {
			assert.Equal(t, "Subset-Regular", rec.Value)
		}
	}
}

func TestPostScriptName(t *testing.T) {
	assert.Equal(t, "Subset-Regular", PostScriptName("思源黑体", "Regular"))
	assert.Equal(t, "NotoSansSC-Bold", PostScriptName("Noto Sans SC 思源", "Bold"))
	assert.Equal(t, "ABC-Italic", PostScriptName("A (B) [C]/<%>", "Italic"))
	assert.Equal(t, "Go", PostScriptName("Go", "标准"))
	long := PostScriptName(strings.Repeat("x", 80), "Regular")
	assert.Len(t, long, 63)
	for _, r := range PostScriptName("Ünïcode\tName", "Black") {
		assert.True(t, r > ' ' && r < 0x7f, "rune %q is not printable ASCII", r)
	}
}
