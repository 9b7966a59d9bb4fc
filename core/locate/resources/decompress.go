package resources

import (
	"github.com/ethanz-code/font-subsetting/core"
	webfont "github.com/tdewolff/font"
)

// Decompressor unpacks compressed web font containers (WOFF, WOFF2) into
// plain SFNT data.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// WebFonts is the default Decompressor.
type WebFonts struct{}

// Decompress converts WOFF and WOFF2 data to SFNT.
func (WebFonts) Decompress(data []byte) ([]byte, error) {
	return webfont.ToSFNT(data)
}

func (opts Options) decompressor() Decompressor {
	if opts.Decompressor != nil {
		return opts.Decompressor
	}
	return WebFonts{}
}

// Container returns "WOFF" or "WOFF2" for compressed web font data, and an
// empty string otherwise.
func Container(data []byte) string {
	if len(data) < 4 {
		return ""
	}
	switch string(data[:4]) {
	case "wOFF":
		return "WOFF"
	case "wOF2":
		return "WOFF2"
	}
	return ""
}

// Unpack decompresses web font containers with d. Other data is returned
// unchanged. Corrupt containers result in an error of code core.EINVALID.
func Unpack(data []byte, d Decompressor) ([]byte, error) {
	kind := Container(data)
	if kind == "" {
		return data, nil
	}
	if d == nil {
		d = WebFonts{}
	}
	sfnt, err := d.Decompress(data)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot decompress %s font", kind)
	}
	tracer().Debugf("decompressed %s font: %d -> %d bytes", kind, len(data), len(sfnt))
	return sfnt, nil
}
