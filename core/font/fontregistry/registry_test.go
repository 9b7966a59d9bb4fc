package fontregistry

import (
	"errors"
	"sync"
	"testing"

	"github.com/ethanz-code/font-subsetting/core"
	"github.com/ethanz-code/font-subsetting/core/font"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xfont "golang.org/x/image/font"
)

func TestRegistry(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.fonts")
	defer teardown()
	//
	fr := NewRegistry()
	doc := font.NewDocument(font.Info{FamilyName: "Test"}, []font.Glyph{{}}, nil, 10, nil)
	other := font.NewDocument(font.Info{FamilyName: "Other"}, []font.Glyph{{}}, nil, 10, nil)
	fr.StoreDocument("test", doc)
	fr.StoreDocument("test", other) // must not override
	fr.StoreDocument("nil", nil)
	assert.Equal(t, 1, fr.Len())
	d, err := fr.Document("test")
	require.NoError(t, err)
	assert.Same(t, doc, d)
	_, err = fr.Document("unknown")
	assert.True(t, errors.Is(err, core.ErrMissing))
	fr.LogFontList()
	fr.Remove("test")
	assert.Equal(t, 0, fr.Len())
}

func TestRegistryConcurrentUse(t *testing.T) {
	fr := NewRegistry()
	doc := font.NewDocument(font.Info{FamilyName: "Test"}, []font.Glyph{{}}, nil, 10, nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fr.StoreDocument("test", doc)
			_, _ = fr.Document("test")
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, fr.Len())
}

func TestNormalizeFamily(t *testing.T) {
	assert.Equal(t, "noto-sans-sc", NormalizeFamily("Noto  Sans SC"))
	assert.Equal(t, "go", NormalizeFamily(" Go\t"))
	assert.Equal(t, "思源黑体", NormalizeFamily("思源黑体"))
	assert.Equal(t, "", NormalizeFamily("   "))
	assert.Equal(t, "ac-dc", NormalizeFamily("AC/DC"))
	assert.Equal(t, "a-b-c", NormalizeFamily(`a\b / c`))
	assert.Equal(t, "", NormalizeFamily("/"))
}

func TestNormalizeFontname(t *testing.T) {
	assert.Equal(t, "noto_sans-italic-bold", NormalizeFontname("Noto Sans.ttf", xfont.StyleItalic, xfont.WeightBold))
	assert.Equal(t, "go", NormalizeFontname("Go", xfont.StyleNormal, xfont.WeightNormal))
}

func TestGuessStyle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.fonts")
	defer teardown()
	//
	s, w := GuessStyleAndWeight("fonts/Roboto-Bold.ttf")
	assert.Equal(t, xfont.StyleNormal, s)
	assert.Equal(t, xfont.WeightBold, w)
	s, w = GuessStyleAndWeight("OpenSans_LightItalic.ttf")
	assert.Equal(t, xfont.StyleItalic, s)
	assert.Equal(t, xfont.WeightLight, w)
	assert.True(t, Matches("/usr/share/fonts/Roboto-Regular.ttf", "roboto", xfont.StyleNormal, xfont.WeightNormal))
	assert.False(t, Matches("/usr/share/fonts/Roboto-Bold.ttf", "roboto", xfont.StyleNormal, xfont.WeightNormal))
	assert.False(t, Matches("/usr/share/fonts/Lato-Regular.ttf", "roboto", xfont.StyleNormal, xfont.WeightNormal))
}

func TestClosestMatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.fonts")
	defer teardown()
	//
	fdescs := []font.Descriptor{
		{Family: "Lato", Variants: []string{"regular", "700"}},
		{Family: "Roboto", Variants: []string{"regular", "italic", "700", "700italic"}},
	}
	match, variant, conf := ClosestMatch(fdescs, "^roboto$", xfont.StyleNormal, xfont.WeightNormal)
	assert.Equal(t, "Roboto", match.Family)
	assert.Equal(t, "regular", variant)
	assert.Equal(t, PerfectConfidence, conf)
	_, variant, _ = ClosestMatch(fdescs, "roboto", xfont.StyleNormal, xfont.WeightBold)
	assert.Equal(t, "700", variant)
	_, variant, _ = ClosestMatch(fdescs, "roboto", xfont.StyleItalic, xfont.WeightBold)
	assert.Equal(t, "700italic", variant)
	_, variant, _ = ClosestMatch(fdescs, "roboto", xfont.StyleItalic, xfont.WeightNormal)
	assert.Equal(t, "italic", variant)
	_, _, conf = ClosestMatch(fdescs, "helvetica", xfont.StyleNormal, xfont.WeightNormal)
	assert.Equal(t, NoConfidence, conf)
	_, _, conf = ClosestMatch(fdescs, "([", xfont.StyleNormal, xfont.WeightNormal)
	assert.Equal(t, NoConfidence, conf)
}

func TestWeightName(t *testing.T) {
	assert.Equal(t, "700", WeightName(xfont.WeightBold))
	assert.Equal(t, "400", WeightName(xfont.WeightNormal))
	assert.Equal(t, PerfectConfidence, MatchWeight(WeightName(xfont.WeightLight), xfont.WeightLight))
}
