package fontregistry

import (
	"path"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/ethanz-code/font-subsetting/core"
	"github.com/ethanz-code/font-subsetting/core/font"
	"github.com/npillmayer/schuko/tracing"
	xfont "golang.org/x/image/font"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Registry is a type for holding loaded font documents, keyed by a
// normalized name. A registry is safe for concurrent use.
type Registry struct {
	sync.Mutex
	docs map[string]*font.Document
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	fr := &Registry{
		docs: make(map[string]*font.Document),
	}
	return fr
}

// StoreDocument pushes a font document into the registry if it isn't contained yet.
//
// The document will be stored using the normalized name as a key. If this
// key is already associated with a document, that document will not be overridden.
func (fr *Registry) StoreDocument(normalizedName string, doc *font.Document) {
	if doc == nil {
		tracer().Errorf("registry cannot store null font")
		return
	}
	fr.Lock()
	defer fr.Unlock()
	if _, ok := fr.docs[normalizedName]; !ok {
		tracer().Debugf("registry stores font %s as %s", doc.FamilyName, normalizedName)
		fr.docs[normalizedName] = doc
	}
}

// Document returns the font document stored under key normalizedName.
// If no such document has been stored, an error with code core.EMISSING is
// returned.
func (fr *Registry) Document(normalizedName string) (*font.Document, error) {
	tracer().Debugf("registry searches for font %s", normalizedName)
	fr.Lock()
	defer fr.Unlock()
	if doc, ok := fr.docs[normalizedName]; ok {
		tracer().Infof("registry found font %s", normalizedName)
		return doc, nil
	}
	tracer().Infof("registry does not contain font %s", normalizedName)
	return nil, core.Error(core.EMISSING, "font %s not found in registry", normalizedName)
}

// Remove deletes the document stored under key normalizedName, if any.
func (fr *Registry) Remove(normalizedName string) {
	fr.Lock()
	defer fr.Unlock()
	delete(fr.docs, normalizedName)
}

// Len returns the number of documents in the registry.
func (fr *Registry) Len() int {
	fr.Lock()
	defer fr.Unlock()
	return len(fr.docs)
}

// LogFontList is a helper function to dump the list of known fonts
// in a registry to the trace-file (log-level Info).
func (fr *Registry) LogFontList() {
	fr.Lock()
	defer fr.Unlock()
	level := tracer().GetTraceLevel()
	tracer().SetTraceLevel(tracing.LevelInfo)
	tracer().Infof("--- registered fonts ---")
	for k, v := range fr.docs {
		tracer().Infof("font [%s] = %s %s, %d glyphs", k, v.FamilyName, v.StyleName, v.NumGlyphs())
	}
	tracer().Infof("------------------------")
	tracer().SetTraceLevel(level)
}

// NormalizeFamily normalizes a family name for use in file names: lower-cased,
// with runs of whitespace and path separators collapsed to a single hyphen.
// "Noto  Sans SC" becomes "noto-sans-sc", "AC/DC" becomes "ac-dc".
func NormalizeFamily(family string) string {
	lower := cases.Lower(language.Und).String(family)
	return strings.Join(strings.FieldsFunc(lower, isNameSeparator), "-")
}

func isNameSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == '/' || r == '\\'
}

// NormalizeFontname normalizes a font name, including indicators for style and
// weight. It is used to derive registry keys.
func NormalizeFontname(fname string, style xfont.Style, weight xfont.Weight) string {
	fname = strings.TrimSpace(fname)
	fname = strings.ReplaceAll(fname, " ", "_")
	if dot := strings.LastIndex(fname, "."); dot > 0 {
		fname = fname[:dot]
	}
	fname = strings.ToLower(fname)
	switch style {
	case xfont.StyleItalic, xfont.StyleOblique:
		fname += "-italic"
	}
	switch weight {
	case xfont.WeightLight, xfont.WeightExtraLight:
		fname += "-light"
	case xfont.WeightBold, xfont.WeightExtraBold, xfont.WeightSemiBold:
		fname += "-bold"
	}
	return fname
}

// GuessStyleAndWeight trys to guess a font's style and weight from the
// font's file name.
func GuessStyleAndWeight(fontfilename string) (xfont.Style, xfont.Weight) {
	fontfilename = path.Base(fontfilename)
	ext := path.Ext(fontfilename)
	fontfilename = strings.ToLower(fontfilename[:len(fontfilename)-len(ext)])
	s := strings.Split(fontfilename, "-")
	if len(s) > 1 {
		switch s[len(s)-1] {
		case "light", "xlight":
			return xfont.StyleNormal, xfont.WeightLight
		case "normal", "medium", "regular", "r":
			return xfont.StyleNormal, xfont.WeightNormal
		case "bold", "b":
			return xfont.StyleNormal, xfont.WeightBold
		case "xbold", "black":
			return xfont.StyleNormal, xfont.WeightExtraBold
		}
	}
	style, weight := xfont.StyleNormal, xfont.WeightNormal
	if strings.Contains(fontfilename, "italic") {
		style = xfont.StyleItalic
	}
	if strings.Contains(fontfilename, "light") {
		weight = xfont.WeightLight
	}
	if strings.Contains(fontfilename, "bold") {
		weight = xfont.WeightBold
	}
	return style, weight
}

// Matches returns true if a font's filename contains pattern and indicators
// for a given style and weight.
func Matches(fontfilename, pattern string, style xfont.Style, weight xfont.Weight) bool {
	basename := path.Base(fontfilename)
	basename = basename[:len(basename)-len(path.Ext(basename))]
	basename = strings.ToLower(basename)
	tracer().Debugf("basename of font = %s", basename)
	if !strings.Contains(basename, strings.ToLower(pattern)) {
		return false
	}
	s, w := GuessStyleAndWeight(basename)
	if s == style && w == weight {
		return true
	}
	return false
}

// MatchConfidence is a type for expressing the confidence level of font matching.
type MatchConfidence int

const (
	NoConfidence      MatchConfidence = 0
	LowConfidence     MatchConfidence = 2
	HighConfidence    MatchConfidence = 3
	PerfectConfidence MatchConfidence = 4
)

// ClosestMatch scans a list of font desriptors and returns the closest match
// for a given set of parametesrs.
// If no variant matches, returns `NoConfidence`.
func ClosestMatch(fdescs []font.Descriptor, pattern string, style xfont.Style,
	weight xfont.Weight) (match font.Descriptor, variant string, confidence MatchConfidence) {
	//
	r, err := regexp.Compile(strings.ToLower(pattern))
	if err != nil {
		tracer().Errorf("invalid font name pattern")
		return
	}
	for _, fdesc := range fdescs {
		//trace().Debugf("trying to match %s", strings.ToLower(fdesc.Family))
		if !r.MatchString(strings.ToLower(fdesc.Family)) {
			continue
		}
		for _, v := range fdesc.Variants {
			s := MatchStyle(v, style)
			w := MatchWeight(v, weight)
			if (s+w)/2 > confidence {
				//trace().Debugf("variant %+v match confidence = %d + %d", v, s, w)
				confidence = (s + w) / 2
				variant = v
				match = fdesc
			}
		}
	}
	return
}

// ---------------------------------------------------------------------------

// MatchStyle trys to match a font-variant to a given style.
func MatchStyle(variantName string, style xfont.Style) MatchConfidence {
	variantName = strings.ToLower(variantName)
	switch style {
	case xfont.StyleNormal:
		if strings.Contains(variantName, "italic") || strings.Contains(variantName, "obliq") {
			return NoConfidence
		}
		return PerfectConfidence
	case xfont.StyleItalic:
		if strings.Contains(variantName, "italic") {
			return PerfectConfidence
		}
		if strings.Contains(variantName, "obliq") {
			return HighConfidence
		}
		return NoConfidence
	case xfont.StyleOblique:
		if strings.Contains(variantName, "obliq") {
			return PerfectConfidence
		}
		if strings.Contains(variantName, "italic") {
			return HighConfidence
		}
		return NoConfidence
	}
	return NoConfidence
}

// MatchWeight trys to match a font-variant to a given weight.
func MatchWeight(variantName string, weight xfont.Weight) MatchConfidence {
	/* from https://pkg.go.dev/golang.org/x/image/font
	WeightThin       Weight = -3 // CSS font-weight value 100.
	WeightExtraLight Weight = -2 // CSS font-weight value 200.
	WeightLight      Weight = -1 // CSS font-weight value 300.
	WeightNormal     Weight = +0 // CSS font-weight value 400.
	WeightMedium     Weight = +1 // CSS font-weight value 500.
	WeightSemiBold   Weight = +2 // CSS font-weight value 600.
	WeightBold       Weight = +3 // CSS font-weight value 700.
	WeightExtraBold  Weight = +4 // CSS font-weight value 800.
	WeightBlack      Weight = +5 // CSS font-weight value 900.
	*/
	variantName = strings.ToLower(variantName)
	if w := strings.TrimSuffix(variantName, "italic"); w != "" && w != variantName {
		variantName = w // Google Fonts style variants, e.g. "700italic"
	}
	if strconv.Itoa((int(weight)+4)*100) == variantName {
		return PerfectConfidence
	}
	switch variantName {
	case "regular", "400", "italic", "oblique", "normal", "text":
		switch weight {
		case xfont.WeightNormal, xfont.WeightMedium:
			return PerfectConfidence
		case xfont.WeightThin, xfont.WeightExtraLight, xfont.WeightLight:
			return LowConfidence
		}
		return NoConfidence
	case "100", "200", "300":
		switch weight {
		case xfont.WeightThin, xfont.WeightExtraLight, xfont.WeightLight:
			return PerfectConfidence
		case xfont.WeightNormal, xfont.WeightMedium:
			return LowConfidence
		}
		return NoConfidence
	case "500":
		switch weight {
		case xfont.WeightMedium:
			return PerfectConfidence
		case xfont.WeightSemiBold:
			return HighConfidence
		case xfont.WeightNormal, xfont.WeightBold:
			return LowConfidence
		}
		return NoConfidence
	case "bold", "700":
		switch weight {
		case xfont.WeightBold:
			return PerfectConfidence
		case xfont.WeightSemiBold, xfont.WeightExtraBold:
			return HighConfidence
		}
		return NoConfidence
	case "extrabold", "600", "800", "900":
		switch weight {
		case xfont.WeightSemiBold:
			return LowConfidence
		case xfont.WeightBold:
			return HighConfidence
		}
		return NoConfidence
	}
	return NoConfidence
}

// WeightName returns the CSS font-weight value of a weight, e.g. "700" for
// xfont.WeightBold.
func WeightName(weight xfont.Weight) string {
	return strconv.Itoa((int(weight) + 4) * 100)
}
