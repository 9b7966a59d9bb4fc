/*
Package fontregistry manages a registry for loaded font documents and
provides helpers for naming and matching fonts.

Font names are normalized (see NormalizeFontname and NormalizeFamily) and
font variants are matched by style and weight, either from file names
(GuessStyleAndWeight, Matches) or from variant names as used by font
directory services (ClosestMatch).

There is no application-wide registry; clients create their own with
NewRegistry.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package fontregistry

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'fontsubset.fonts'
func tracer() tracing.Trace {
	return tracing.Select("fontsubset.fonts")
}
