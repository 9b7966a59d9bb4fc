/*
Package resources loads font binaries from local files, from URLs and from
font directory services.

As resource loading may be a time-consuming task, some functions in this
package will work in an async/await fashion by returning a promise.
Functions named

	Resolve…(…)

will return a resource-specific promise type, which the client will call later
to receive the loaded resource. The call to the promise-function will then block
until loading has completed.

Loading reports progress as percentages (see package percent). Progress
notifications of a single load are non-decreasing and end with exactly one
notification of 100, sent on success only.

URLs of Google Fonts stylesheets are resolved to the first font file they
reference. Stylesheets are requested through a relay service, as font
services usually reject cross-origin reads.

There is no package-level state: directories, clients and cache locations
are passed explicitly.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package resources

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'fontsubset.resources'.
func tracer() tracing.Trace {
	return tracing.Select("fontsubset.resources")
}
