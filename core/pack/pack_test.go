package pack

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/cascadia"
	"github.com/ethanz-code/font-subsetting/core"
	"github.com/ethanz-code/font-subsetting/core/font"
	"github.com/ethanz-code/font-subsetting/core/font/opentype"
	"github.com/ethanz-code/font-subsetting/core/font/subset"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/net/html"
)

func TestAssemble(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.package")
	defer teardown()
	//
	res := buildSubset(t, "Hello World")
	pkg, err := Assemble(res, "", "Hello World", Options{})
	require.NoError(t, err)
	assert.Equal(t, "go-subset.zip", pkg.Name)
	require.Len(t, pkg.Entries, 3)
	assert.Equal(t, "go-subset.ttf", pkg.Entries[0].Name)
	assert.Equal(t, StylesheetName, pkg.Entries[1].Name)
	assert.Equal(t, DemoPageName, pkg.Entries[2].Name)
	assert.Equal(t, res.FontBytes, pkg.Entries[0].Data)
	assert.Equal(t, res.CSSSnippet, string(pkg.Entries[1].Data))
	//
	z, err := zip.NewReader(bytes.NewReader(pkg.Archive), int64(len(pkg.Archive)))
	require.NoError(t, err)
	var names []string
	for _, f := range z.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"go-subset.ttf", "fonts.css", "demo.html"}, names)
	r, err := z.File[0].Open()
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, res.FontBytes, data)
}

func TestAssembleFamilyOverride(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.package")
	defer teardown()
	//
	res := buildSubset(t, "abc")
	pkg, err := Assemble(res, "My  Brand Font", "abc", Options{})
	require.NoError(t, err)
	assert.Equal(t, "my-brand-font-subset.zip", pkg.Name)
	e, ok := pkg.Entry("my-brand-font-subset.ttf")
	require.True(t, ok)
	assert.Equal(t, res.FontBytes, e.Data)
	css, ok := pkg.Entry(StylesheetName)
	require.True(t, ok)
	assert.Contains(t, string(css.Data), "url('./my-brand-font-subset.ttf')")
	assert.Contains(t, string(css.Data), "font-family: 'My  Brand Font', sans-serif;")
	_, ok = pkg.Entry("go-subset.ttf")
	assert.False(t, ok)
}

func TestAssembleErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.package")
	defer teardown()
	//
	_, err := Assemble(nil, "", "", Options{})
	assert.Error(t, err)
	res := buildSubset(t, "abc")
	_, err = Assemble(res, "", "abc", Options{Archive: failingArchive{}})
	require.Error(t, err)
	assert.Equal(t, core.EINTERNAL, core.Code(err))
}

func TestDemoPage(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.package")
	defer teardown()
	//
	chars := strings.Repeat("字", 120)
	page, err := DemoPage("Noto <Sans>", chars)
	require.NoError(t, err)
	doc, err := html.Parse(bytes.NewReader(page))
	require.NoError(t, err)
	preview := cascadia.MustCompile("p.preview").MatchFirst(doc)
	require.NotNil(t, preview)
	text := preview.FirstChild.Data
	assert.Equal(t, strings.Repeat("字", 100)+"...", text)
	link := cascadia.MustCompile(`link[rel="stylesheet"]`).MatchFirst(doc)
	require.NotNil(t, link)
	assert.Contains(t, link.Attr, html.Attribute{Key: "href", Val: "fonts.css"})
	small := cascadia.MustCompile("p > small").MatchFirst(doc)
	require.NotNil(t, small)
	assert.Equal(t, "Only the characters above are included in this font file.", small.FirstChild.Data)
	title := cascadia.MustCompile("head > title").MatchFirst(doc)
	require.NotNil(t, title)
	assert.Equal(t, "Noto <Sans> Subset Demo", title.FirstChild.Data)
	assert.NotContains(t, string(page), "<Sans>", "text must be escaped")
	//
	page, err = DemoPage("Go", "ABC")
	require.NoError(t, err)
	doc, err = html.Parse(bytes.NewReader(page))
	require.NoError(t, err)
	assert.Equal(t, "ABC", cascadia.MustCompile("p.preview").MatchFirst(doc).FirstChild.Data)
}

func TestWriteFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.package")
	defer teardown()
	//
	res := buildSubset(t, "abc")
	pkg, err := Assemble(res, "", "abc", Options{Archive: ZipWriter{Modified: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}})
	require.NoError(t, err)
	dir := filepath.Join(t.TempDir(), "out")
	path, err := WriteFile(pkg, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "go-subset.zip"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, pkg.Archive, data)
}

func TestPreview(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.package")
	defer teardown()
	//
	res := buildSubset(t, "abc")
	p, release, err := NewPreview(res.FontBytes, res.FamilyName, strings.Repeat("abc", 200))
	require.NoError(t, err)
	assert.FileExists(t, p.FontPath)
	assert.FileExists(t, p.PagePath)
	page, err := os.ReadFile(p.PagePath)
	require.NoError(t, err)
	doc, err := html.Parse(bytes.NewReader(page))
	require.NoError(t, err)
	text := cascadia.MustCompile("p.preview").MatchFirst(doc).FirstChild.Data
	assert.Equal(t, PreviewLength+3, len([]rune(text)))
	release()
	assert.NoDirExists(t, p.Dir)
	release() // must be idempotent
}

func TestSavings(t *testing.T) {
	s := Savings{OriginalSize: 200000, SubsetSize: 12345}
	assert.Equal(t, 93.8, s.Percent())
	neg := Savings{OriginalSize: 1000, SubsetSize: 1500}
	assert.Equal(t, -50.0, neg.Percent())
	assert.Less(t, neg.Ratio(), 0.0)
	assert.Equal(t, "195.3 KB -> 12.1 KB (93.8% saved)", s.String())
	assert.Equal(t, "812 B", HumanSize(812))
	assert.Equal(t, "1.0 KB", HumanSize(1024))
	assert.Equal(t, "4.1 MB", HumanSize(4300000))
	assert.Equal(t, "font-subset-package.zip", ArchiveName("  "))
	assert.Equal(t, "ac-dc-subset.zip", ArchiveName("AC/DC"))
	assert.NotContains(t, ArchiveName(`a\b`), `\`)
}

// --- Helpers ---------------------------------------------------------------

func buildSubset(t *testing.T, text string) *subset.Result {
	doc, err := opentype.Codec{}.Decode(goregular.TTF, "goregular.ttf")
	require.NoError(t, err)
	res, err := subset.Build(context.Background(), doc, font.NewCharacterSet(text), subset.Options{})
	require.NoError(t, err)
	return res
}

type failingArchive struct{}

func (failingArchive) WriteArchive(io.Writer, []Entry) error {
	return errors.New("disk full")
}
