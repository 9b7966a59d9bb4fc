package resources

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/ethanz-code/font-subsetting/core/font"
	"github.com/ethanz-code/font-subsetting/core/font/fontregistry"
	"github.com/flopp/go-findfont"
	xfont "golang.org/x/image/font"
)

// SystemFonts lists the fonts installed on the local system, grouped by
// family. The family of a font is derived from its file name, variants are
// guessed from file name suffixes. Font collections (.ttc) are skipped.
func SystemFonts() []font.Descriptor {
	return systemFonts(findfont.List())
}

func systemFonts(paths []string) []font.Descriptor {
	families := make(map[string]*font.Descriptor)
	ttc := 0
	for _, p := range paths {
		if strings.EqualFold(filepath.Ext(p), ".ttc") {
			ttc++
			continue
		}
		if !IsSupportedFile(p) {
			continue
		}
		family, variant := splitVariant(p)
		desc, ok := families[family]
		if !ok {
			desc = &font.Descriptor{Family: family, Files: make(map[string]string)}
			families[family] = desc
		}
		if _, dup := desc.Files[variant]; dup {
			continue
		}
		desc.Variants = append(desc.Variants, variant)
		desc.Files[variant] = p
		if variant == "regular" || desc.Path == "" {
			desc.Path = p
		}
	}
	if ttc > 0 {
		tracer().Infof("skipping %d platform fonts: TTC not supported", ttc)
	}
	descs := make([]font.Descriptor, 0, len(families))
	for _, d := range families {
		descs = append(descs, *d)
	}
	sort.Slice(descs, func(i, j int) bool { return descs[i].Family < descs[j].Family })
	return descs
}

// splitVariant splits a font file name like "Roboto-BoldItalic.ttf" into a
// family name and a variant name in Google Fonts notation ("700italic").
func splitVariant(p string) (string, string) {
	base := filepath.Base(p)
	base = base[:len(base)-len(filepath.Ext(base))]
	family := base
	if i := strings.IndexAny(base, "-_"); i > 0 {
		family = base[:i]
	}
	style, weight := fontregistry.GuessStyleAndWeight(p)
	return family, variantName(style, weight)
}

func variantName(style xfont.Style, weight xfont.Weight) string {
	italic := style == xfont.StyleItalic || style == xfont.StyleOblique
	if weight == xfont.WeightNormal {
		if italic {
			return "italic"
		}
		return "regular"
	}
	name := fontregistry.WeightName(weight)
	if italic {
		name += "italic"
	}
	return name
}

// FindSystemFont searches for a locally installed font variant, given a name
// pattern, a style and a weight. If pattern names an existing file or the
// file name of an installed font, this file is returned. Otherwise an
// installed file whose name contains pattern and indicates style and weight is
// chosen (see fontregistry.Matches). Failing that, the installed families are
// matched against pattern (see fontregistry.ClosestMatch). If no font matches
// with sufficient confidence, an error of code core.EMISSING is returned.
func FindSystemFont(pattern string, style xfont.Style, weight xfont.Weight) (string, error) {
	if IsSupportedFile(pattern) {
		if p, err := findfont.Find(pattern); err == nil {
			return p, nil
		}
	}
	return findSystemFont(findfont.List(), pattern, style, weight)
}

func findSystemFont(paths []string, pattern string, style xfont.Style, weight xfont.Weight) (string, error) {
	for _, p := range paths {
		if IsSupportedFile(p) && fontregistry.Matches(p, pattern, style, weight) {
			tracer().Debugf("system font file %s matches %s", p, pattern)
			return p, nil
		}
	}
	desc, variant, confidence := fontregistry.ClosestMatch(systemFonts(paths), pattern, style, weight)
	tracer().Debugf("closest system font match confidence for %s|%s = %d", desc.Family, variant, confidence)
	if confidence > fontregistry.LowConfidence {
		if p, ok := desc.Files[variant]; ok {
			return p, nil
		}
		if desc.Path != "" {
			return desc.Path, nil
		}
	}
	return "", NotFound(pattern)
}
