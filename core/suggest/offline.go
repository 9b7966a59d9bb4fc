package suggest

import (
	"context"
	"strings"

	"golang.org/x/text/language"
)

// Offline is a Client returning built-in texts.
type Offline struct{}

var _ Client = Offline{}

// commonChinese holds frequently used Simplified Chinese characters, most
// frequent first.
const commonChinese = "的一是不了人我在有他这为之大来以个中上们到说国和地也子时道出而要于就下得可你年生自会" +
	"那后能对着事其里所去行过家十用发天如然作方成者多日都三小军二无同么经法当起与好看学进种将还分此心前面" +
	"又定见只主没公从知使现两文意本明动实部开手力理长高全体新最已"

// Suggest returns a fixed text of the requested kind.
func (Offline) Suggest(ctx context.Context, kind Kind, locale language.Tag) string {
	zh := isChinese(locale)
	switch kind {
	case CommonChinese:
		return commonChinese
	case ASCII:
		return printableASCII()
	case Pangram:
		if zh {
			return "天地玄黄，宇宙洪荒。日月盈昃，辰宿列张。"
		}
		return "The quick brown fox jumps over the lazy dog."
	case Marketing:
		if zh {
			return "简约设计，非凡表达。"
		}
		return "Design that speaks. Less noise, more meaning."
	}
	return ""
}

// SuggestStack returns FallbackStack(family).
func (Offline) SuggestStack(ctx context.Context, family string) string {
	return FallbackStack(family)
}

func printableASCII() string {
	var b strings.Builder
	for c := ' '; c <= '~'; c++ {
		b.WriteRune(c)
	}
	return b.String()
}
