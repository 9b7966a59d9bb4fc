package subset

import (
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/ethanz-code/font-subsetting/core/font/fontregistry"
)

// FileName returns the file name of a subset font for a family, e.g.
// "noto-sans-subset.ttf" for family "Noto Sans".
func FileName(family string) string {
	name := fontregistry.NormalizeFamily(family)
	if name == "" {
		name = fontregistry.NormalizeFamily(defaultFamily)
	}
	return name + "-subset.ttf"
}

const defaultFamily = "Imported Font"

// Stylesheet returns a stylesheet with an @font-face rule for a subset font
// and a body rule using it, with a sans-serif fallback.
func Stylesheet(family, filename string) string {
	family = strings.TrimSpace(family)
	if family == "" {
		family = defaultFamily
	}
	quoted := "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(family) + "'"
	fontFace := css.NewRule(css.AtRule)
	fontFace.Name = "@font-face"
	fontFace.Declarations = []*css.Declaration{
		{Property: "font-family", Value: quoted},
		{Property: "src", Value: "url('./" + filename + "') format('truetype')"},
		{Property: "font-weight", Value: "normal"},
		{Property: "font-style", Value: "normal"},
		{Property: "font-display", Value: "swap"},
	}
	body := css.NewRule(css.QualifiedRule)
	body.Prelude = "body"
	body.Selectors = []string{"body"}
	body.Declarations = []*css.Declaration{
		{Property: "font-family", Value: quoted + ", sans-serif"},
	}
	sheet := css.NewStylesheet()
	sheet.Rules = append(sheet.Rules, fontFace, body)
	return "/* Generated by fontsubset */\n" + sheet.String() + "\n"
}
