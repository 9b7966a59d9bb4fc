/*
Package suggest proposes texts for font subsets and CSS font-family stacks.

Suggestions are a convenience: clients of this package never fail because a
suggestion service is unavailable. A Client returns an empty text (or, for
font stacks, a generic fallback stack) instead of an error.

Two clients are provided. Gemini asks a generative language model, Offline
returns built-in texts and needs no network access.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package suggest

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'fontsubset.suggest'.
func tracer() tracing.Trace {
	return tracing.Select("fontsubset.suggest")
}
