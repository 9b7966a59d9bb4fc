package resources

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethanz-code/font-subsetting/core"
	"github.com/ethanz-code/font-subsetting/core/percent"
)

// SupportedExtensions lists the file extensions accepted for local font files.
var SupportedExtensions = []string{".ttf", ".otf", ".woff", ".woff2"}

// IsSupportedFile returns true if the extension of path is one of SupportedExtensions.
func IsSupportedFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// LoadFontFile reads a local font file.
//
// Files with an extension not in SupportedExtensions are rejected with an
// error of code core.EINVALID. Compressed web fonts (WOFF, WOFF2) are unpacked
// with opts.Decompressor; corrupt containers are rejected with core.EINVALID.
// A missing file results in core.EMISSING. Progress is reported to
// opts.Progress while reading and reaches 100 on success only.
func LoadFontFile(ctx context.Context, path string, opts Options) (*FontData, error) {
	if !IsSupportedFile(path) {
		return nil, core.Error(core.EINVALID, "please select a valid font file (.ttf, .otf, .woff, .woff2)")
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, core.WrapError(err, core.EMISSING, "font file not found: %s", path)
		}
		return nil, core.WrapError(err, core.EINTERNAL, "cannot open font file %s", path)
	}
	defer f.Close()
	var size int64
	if fi, err := f.Stat(); err == nil {
		size = fi.Size()
	}
	tracker := percent.NewTracker(opts.Progress)
	var buf bytes.Buffer
	chunk := make([]byte, chunkSize)
	var read int64
	for {
		if err := ctx.Err(); err != nil {
			return nil, core.Canceled(err)
		}
		n, err := f.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			read += int64(n)
			tracker.Report(percent.OfTotal(read, size))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, core.WrapError(err, core.EINTERNAL, "cannot read font file %s", path)
		}
	}
	data, err := Unpack(buf.Bytes(), opts.decompressor())
	if err != nil {
		return nil, err
	}
	tracer().Infof("loaded %d bytes from %s", len(data), path)
	tracker.Done()
	return &FontData{Data: data, Name: filepath.Base(path), Source: path}, nil
}
