package ot

import (
	"errors"
	"testing"

	"github.com/ethanz-code/font-subsetting/core"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/text/language"
)

func TestTags(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.fonts")
	defer teardown()
	//
	tag := Tag(0x636d6170)
	if tag.String() != "cmap" {
		t.Errorf("expected tag 0x636d6170 to be 'cmap', is %s", tag.String())
	}
	tag = MakeTag([]byte("cmap"))
	if tag.String() != "cmap" {
		t.Errorf("expected tag MakeTag(cmap) to be 'cmap', is %s", tag.String())
	}
	tag = T("OS/2")
	if tag.String() != "OS/2" {
		t.Errorf("expected tag T(OS/2) to be 'OS/2', is %s", tag.String())
	}
}

func TestTableName(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.fonts")
	defer teardown()
	//
	tb := tableBase{}
	tb.name = 0x636d6170
	s := tb.Self().NameTag().String()
	if s != "cmap" {
		t.Errorf("expected table name to be cmap, is %v", s)
	}
}

func TestParseHeader(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.fonts")
	defer teardown()
	//
	otf := parseGoRegular(t)
	if otf.Header.FontType != TrueTypeFont {
		t.Fatalf("expected Go Regular to be TrueType 0x0001000, is %x", otf.Header.FontType)
	}
	assert.Equal(t, 14, len(otf.TableTags()))
	assert.Equal(t, 712, otf.NumGlyphs())
	assert.Equal(t, uint16(2048), otf.Head.UnitsPerEm)
	assert.Equal(t, int16(1935), otf.HHea.Ascender)
	assert.Equal(t, int16(-432), otf.HHea.Descender)
	assert.True(t, otf.HasGlyfOutlines())
	assert.Equal(t, len(goregular.TTF), otf.Size())
	require.NotNil(t, otf.OS2)
	assert.True(t, otf.OS2.HasTypoMetrics())
	assert.Equal(t, int16(1579), otf.OS2.TypoAscender)
}

func TestParseLongLoca(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.fonts")
	defer teardown()
	//
	otf, err := Parse(gomono.TTF)
	require.NoError(t, err)
	assert.Equal(t, uint16(1), otf.Head.IndexToLocFormat)
	assert.Equal(t, 1, otf.HMtx.NumberOfHMetrics)
	a, _ := otf.HMtx.HMetrics(otf.CMap.GlyphIndexMap.Lookup('A'))
	w, _ := otf.HMtx.HMetrics(otf.CMap.GlyphIndexMap.Lookup('W'))
	assert.Equal(t, a, w, "expected monospaced advances")
}

func TestParseRejects(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.fonts")
	defer teardown()
	//
	_, err := Parse([]byte("short"))
	assert.True(t, errors.Is(err, core.ErrInvalidFormat))
	woff := append([]byte("wOFF"), make([]byte, 40)...)
	_, err = Parse(woff)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WOFF")
	ttc := append([]byte("ttcf"), make([]byte, 40)...)
	_, err = Parse(ttc)
	assert.True(t, errors.Is(err, core.ErrInvalidFormat))
	// corrupt one byte of table 'glyf'
	corrupt := make([]byte, len(goregular.TTF))
	copy(corrupt, goregular.TTF)
	otf := parseGoRegular(t)
	off, _ := otf.Table(T("glyf")).Extent()
	corrupt[off+100] ^= 0xff
	_, err = Parse(corrupt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum")
}

func TestFontChecksum(t *testing.T) {
	assert.Equal(t, uint32(0xb1b0afba), Checksum(goregular.TTF))
	assert.Equal(t, uint32(0x01020304), Checksum([]byte{1, 2, 3, 4}))
	assert.Equal(t, uint32(0x01020304+0x05000000), Checksum([]byte{1, 2, 3, 4, 5}))
}

func TestCMapTableGlyphIndex(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.fonts")
	defer teardown()
	//
	otf := parseGoRegular(t)
	cmap := otf.Table(T("cmap")).Self().AsCMap()
	require.NotNil(t, cmap, "cannot convert cmap table")
	assert.Equal(t, uint16(4), cmap.Format)
	glyph := cmap.GlyphIndexMap.Lookup('A')
	if glyph != 36 {
		t.Errorf("expected glyph position for 'A' to be 36, got %d", glyph)
	}
	assert.Equal(t, GlyphIndex(3), cmap.GlyphIndexMap.Lookup(' '))
	assert.Equal(t, GlyphIndex(0), cmap.GlyphIndexMap.Lookup(0x1F600))
	assert.Equal(t, 'B', cmap.GlyphIndexMap.ReverseLookup(37))
	prev, count := rune(-1), 0
	cmap.GlyphIndexMap.Each(func(r rune, gid GlyphIndex) bool {
		if r <= prev {
			t.Fatalf("code-points not ascending: %#U after %#U", r, prev)
		}
		if gid == 0 {
			t.Fatalf("Each reported .notdef for %#U", r)
		}
		prev = r
		count++
		return true
	})
	assert.Equal(t, 709, count)
}

func TestNameLookup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.fonts")
	defer teardown()
	//
	otf := parseGoRegular(t)
	assert.Equal(t, "Go", otf.Name.Lookup(NameFamily, language.English))
	assert.Equal(t, "Regular", otf.Name.Lookup(NameSubfamily, language.German))
	assert.Equal(t, "", otf.Name.Lookup(NameTypographicFamily, language.English))
}

func TestHMetrics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.fonts")
	defer teardown()
	//
	otf := parseGoRegular(t)
	a, lsb := otf.HMtx.HMetrics(36)
	assert.Equal(t, uint16(1366), a)
	assert.Equal(t, int16(19), lsb)
	a, _ = otf.HMtx.HMetrics(0)
	assert.Equal(t, uint16(1536), a)
}

func TestGlyphData(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.fonts")
	defer teardown()
	//
	otf := parseGoRegular(t)
	notdef, err := otf.Glyf.Glyph(0)
	require.NoError(t, err)
	assert.False(t, notdef.IsEmpty())
	assert.False(t, notdef.IsComposite())
	space, err := otf.Glyf.Glyph(3)
	require.NoError(t, err)
	assert.True(t, space.IsEmpty())
	assert.Nil(t, otf.Glyf.GlyphData(5000))
}

func TestCompositeGlyph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.fonts")
	defer teardown()
	//
	data := compositeGlyph(
		component{flags: ArgsAreWords | ArgsAreXYValues | MoreComponents, glyph: 36},
		component{flags: ArgsAreXYValues | WeHaveAScale | MoreComponents, glyph: 100},
		component{flags: ArgsAreXYValues | WeHaveTwoByTwo, glyph: 7},
	)
	g, err := DecodeGlyph(data)
	require.NoError(t, err)
	require.True(t, g.IsComposite())
	require.Len(t, g.Components, 3)
	assert.Equal(t, GlyphIndex(36), g.Components[0].Glyph)
	assert.Equal(t, GlyphIndex(100), g.Components[1].Glyph)
	assert.Equal(t, GlyphIndex(7), g.Components[2].Glyph)
	remap := map[GlyphIndex]GlyphIndex{36: 1, 100: 2, 7: 3}
	out, err := g.RemapComponents(func(gid GlyphIndex) (GlyphIndex, bool) {
		n, ok := remap[gid]
		return n, ok
	})
	require.NoError(t, err)
	h, err := DecodeGlyph(out)
	require.NoError(t, err)
	assert.Equal(t, GlyphIndex(1), h.Components[0].Glyph)
	assert.Equal(t, GlyphIndex(2), h.Components[1].Glyph)
	assert.Equal(t, GlyphIndex(3), h.Components[2].Glyph)
	assert.Equal(t, GlyphIndex(36), g.Components[0].Glyph, "original data must not change")
	//
	delete(remap, 7)
	_, err = g.RemapComponents(func(gid GlyphIndex) (GlyphIndex, bool) {
		n, ok := remap[gid]
		return n, ok
	})
	assert.True(t, errors.Is(err, core.ErrInvalidFormat))
	_, err = DecodeGlyph(data[:len(data)-4])
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------

func parseGoRegular(t *testing.T) *Font {
	otf, err := Parse(goregular.TTF)
	if err != nil {
		core.UserError(err)
		t.Fatal(err)
	}
	return otf
}

type component struct {
	flags uint16
	glyph GlyphIndex
}

// compositeGlyph creates the data of a composite glyph with zero arguments
// and transforms.
func compositeGlyph(comps ...component) []byte {
	w := appender{}
	w.i16(-1)
	w.i16(0)
	w.i16(0)
	w.i16(100)
	w.i16(100)
	for _, c := range comps {
		w.u16(c.flags)
		w.u16(uint16(c.glyph))
		w.bytes(make([]byte, componentLength(c.flags)-4))
	}
	return w
}
