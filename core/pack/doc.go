/*
Package pack bundles a subset font into a package ready for use on the web:
the font file, a stylesheet declaring it, and a demo page.

Packages are serialized by an ArchiveWriter; the default writes zip archives.
Package pack also manages temporary previews of subset fonts (see NewPreview).

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package pack

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontsubset.package'
func tracer() tracing.Trace {
	return tracing.Select("fontsubset.package")
}
