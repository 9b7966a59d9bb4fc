package pack

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethanz-code/font-subsetting/core"
	"github.com/ethanz-code/font-subsetting/core/font/fontregistry"
	"github.com/ethanz-code/font-subsetting/core/font/subset"
)

// Names of the package entries besides the font file.
const (
	StylesheetName = "fonts.css"
	DemoPageName   = "demo.html"
)

// Entry is a named file of a package.
type Entry struct {
	Name string
	Data []byte
}

// Package is an assembled font package.
type Package struct {
	Name    string  // file name of the archive, e.g. "noto-sans-subset.zip"
	Family  string  // family name of the subset font
	Entries []Entry // font, stylesheet and demo page, in this order
	Archive []byte  // serialized archive of the entries
	Savings Savings
}

// Entry returns the package entry with a given name.
func (pkg *Package) Entry(name string) (Entry, bool) {
	for _, e := range pkg.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Options control the assembly of a package.
type Options struct {
	Archive ArchiveWriter // defaults to ZipWriter
}

// Assemble bundles a subset font with a stylesheet and a demo page. family
// overrides the family name of the subset for the stylesheet and file names,
// if non-empty. The demo page shows the first 100 characters of demoChars.
func Assemble(res *subset.Result, family, demoChars string, opts Options) (*Package, error) {
	if res == nil || len(res.FontBytes) == 0 {
		return nil, core.Error(core.EINTERNAL, "no subset font to package")
	}
	family = strings.TrimSpace(family)
	if family == "" {
		family = res.FamilyName
	}
	fontName := subset.FileName(family)
	css := res.CSSSnippet
	if css == "" || fontName != res.FileName {
		css = subset.Stylesheet(family, fontName)
	}
	demo, err := DemoPage(family, demoChars)
	if err != nil {
		return nil, err
	}
	pkg := &Package{
		Name:   ArchiveName(family),
		Family: family,
		Entries: []Entry{
			{Name: fontName, Data: res.FontBytes},
			{Name: StylesheetName, Data: []byte(css)},
			{Name: DemoPageName, Data: demo},
		},
		Savings: Savings{OriginalSize: res.OriginalSize, SubsetSize: res.SubsetSize},
	}
	archive := opts.Archive
	if archive == nil {
		archive = ZipWriter{}
	}
	var buf bytes.Buffer
	if err := archive.WriteArchive(&buf, pkg.Entries); err != nil {
		return nil, core.WrapError(err, core.EINTERNAL, "cannot create archive for %s", family)
	}
	pkg.Archive = buf.Bytes()
	tracer().Infof("assembled package %s: %d entries, %d bytes", pkg.Name, len(pkg.Entries), len(pkg.Archive))
	return pkg, nil
}

// WriteFile writes the archive of a package to directory dir and returns
// the path of the file written.
func WriteFile(pkg *Package, dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", core.WrapError(err, core.EMISSING, "cannot create output directory %s", dir)
	}
	path := filepath.Join(dir, pkg.Name)
	if err := os.WriteFile(path, pkg.Archive, 0o644); err != nil {
		return "", core.WrapError(err, core.EINTERNAL, "cannot write package %s", path)
	}
	tracer().Infof("package written to %s", path)
	return path, nil
}

// ArchiveName returns the archive file name for a family. Families without
// a usable name get the generic name "font-subset-package.zip".
func ArchiveName(family string) string {
	name := fontregistry.NormalizeFamily(family)
	if name == "" {
		return "font-subset-package.zip"
	}
	return name + "-subset.zip"
}

// --- Savings ---------------------------------------------------------------

// Savings relates the size of a subset font to the size of its source.
type Savings struct {
	OriginalSize int
	SubsetSize   int
}

// Ratio is 1 - SubsetSize/OriginalSize. It may be negative for very small
// fonts, where the tables of the subset outweigh the glyphs removed.
func (s Savings) Ratio() float64 {
	return subset.SavingsRatio(s.OriginalSize, s.SubsetSize)
}

// Percent returns the savings ratio in percent, rounded to one decimal.
func (s Savings) Percent() float64 {
	return math.Round(s.Ratio()*1000) / 10
}

func (s Savings) String() string {
	return fmt.Sprintf("%s -> %s (%.1f%% saved)", HumanSize(s.OriginalSize), HumanSize(s.SubsetSize), s.Percent())
}

// HumanSize formats a byte count, e.g. "812 B", "35.2 KB" or "4.1 MB".
func HumanSize(n int) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	}
	return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
}
