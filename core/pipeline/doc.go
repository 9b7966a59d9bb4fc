/*
Package pipeline drives a subset job from a font source to a package:

	load (file, URL or installed font) → decode → subset → assemble

A Session runs one job at a time. Packages used by the pipeline keep no
global state, so independent sessions may run concurrently.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package pipeline

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'fontsubset.pipeline'.
func tracer() tracing.Trace {
	return tracing.Select("fontsubset.pipeline")
}
