/*
Package otquery queries metrics and other information from OpenType fonts.

Package otquery provides functions to query naming and metric information from a
font. It knows about the various tables contained in OpenType fonts and which ones to
address for queries, including the fallbacks between them (e.g., typographic family
names in 'name' and vertical metrics in 'OS/2').
Clients of this package will, amongst other, be:

▪︎ font codecs, which need a font's naming and metrics for a format-independent model

▪︎ command-line tools displaying information about a font

No font collections nor variable fonts are supported.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package otquery

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontsubset.fonts'
func tracer() tracing.Trace {
	return tracing.Select("fontsubset.fonts")
}
