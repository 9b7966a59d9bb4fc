package pack

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/ethanz-code/font-subsetting/core"
	"github.com/ethanz-code/font-subsetting/core/font/subset"
)

// PreviewLength is the number of characters a preview page shows.
const PreviewLength = 300

// Preview is a temporary on-disk rendition of a subset font: a directory
// holding the font, a stylesheet and a page showing sample text with the font.
type Preview struct {
	Dir      string // temporary directory
	FontPath string // path of the font file
	PagePath string // path of the preview page
}

// NewPreview creates a preview for a subset font. Clients must call the
// returned release function when done with the preview, on every path:
//
//	preview, release, err := pack.NewPreview(res.FontBytes, res.FamilyName, text)
//	if err != nil {
//	    return err
//	}
//	defer release()
//
// Release removes the preview's directory. It may be called more than once.
func NewPreview(fontBytes []byte, family, text string) (*Preview, func(), error) {
	dir, err := os.MkdirTemp("", "fontsubset-preview-*")
	if err != nil {
		return nil, func() {}, core.WrapError(err, core.EINTERNAL, "cannot create preview directory")
	}
	var once sync.Once
	release := func() {
		once.Do(func() {
			if err := os.RemoveAll(dir); err != nil {
				tracer().Errorf("cannot remove preview %s: %v", dir, err)
				return
			}
			tracer().Debugf("released preview %s", dir)
		})
	}
	fontName := subset.FileName(family)
	p := &Preview{
		Dir:      dir,
		FontPath: filepath.Join(dir, fontName),
		PagePath: filepath.Join(dir, "preview.html"),
	}
	page, err := renderPage(family, "preview.css", text, PreviewLength)
	if err == nil {
		err = os.WriteFile(p.FontPath, fontBytes, 0o644)
	}
	if err == nil {
		err = os.WriteFile(filepath.Join(dir, "preview.css"), []byte(subset.Stylesheet(family, fontName)), 0o644)
	}
	if err == nil {
		err = os.WriteFile(p.PagePath, page, 0o644)
	}
	if err != nil {
		release()
		return nil, func() {}, core.WrapError(err, core.EINTERNAL, "cannot create preview")
	}
	tracer().Debugf("created preview %s", dir)
	return p, release, nil
}
