package suggest

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethanz-code/font-subsetting/core"
	"golang.org/x/text/language"
)

// Kind selects the kind of text to suggest.
type Kind string

// Kinds of suggestions.
const (
	CommonChinese Kind = "common_cn" // frequently used Simplified Chinese characters
	ASCII         Kind = "ascii"     // printable ASCII characters
	Pangram       Kind = "pangram"   // sentences covering many letters
	Marketing     Kind = "marketing" // a short slogan
)

// Kinds lists all kinds of suggestions.
var Kinds = []Kind{CommonChinese, ASCII, Pangram, Marketing}

// ParseKind returns the kind named s. Unknown names result in an error of
// code core.EINVALID.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == strings.ToLower(strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return "", core.Error(core.EINVALID, "unknown kind of suggestion: %q", s)
}

// Client proposes texts for font subsets.
//
// Suggest returns a text of the requested kind, or "" if no suggestion is
// available. SuggestStack returns a CSS font-family value with the given
// family first; it falls back to FallbackStack(family).
type Client interface {
	Suggest(ctx context.Context, kind Kind, locale language.Tag) string
	SuggestStack(ctx context.Context, family string) string
}

// FallbackStack is the font-family value used if no better stack is known.
func FallbackStack(family string) string {
	return fmt.Sprintf("%q, sans-serif", family)
}

// Apply merges a suggestion into the current subset text. ASCII suggestions
// replace the text, all others are appended, separated by a space. Empty
// suggestions leave the text unchanged.
func Apply(current string, kind Kind, suggestion string) string {
	if suggestion == "" {
		return current
	}
	if kind == ASCII {
		return suggestion
	}
	return current + " " + suggestion
}

// isChinese returns true for locales with base language Chinese.
func isChinese(locale language.Tag) bool {
	base, _ := locale.Base()
	zh, _ := language.Chinese.Base()
	return base == zh
}
