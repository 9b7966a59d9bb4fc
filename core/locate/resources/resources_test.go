package resources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/ethanz-code/font-subsetting/core"
	"github.com/ethanz-code/font-subsetting/core/percent"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const googleCSS = "https://fonts.googleapis.com/css2?family=Go"

// fontServer serves goregular under /fonts/go.ttf and /fonts/go.woff, a relay for stylesheets
// under /relay and some pages for the error cases.
func fontServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	var srv *httptest.Server
	woff := woffOf(t, goregular.TTF)
	mux.HandleFunc("/fonts/go.ttf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "font/ttf")
		w.Header().Set("Content-Length", strconv.Itoa(len(goregular.TTF)))
		w.Write(goregular.TTF)
	})
	mux.HandleFunc("/fonts/chunked.ttf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "font/ttf")
		for i := 0; i < len(goregular.TTF); i += 8192 {
			end := i + 8192
			if end > len(goregular.TTF) {
				end = len(goregular.TTF)
			}
			w.Write(goregular.TTF[i:end])
			w.(http.Flusher).Flush()
		}
	})
	mux.HandleFunc("/fonts/go.woff", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "font/woff")
		w.Write(woff)
	})
	mux.HandleFunc("/relay", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/css")
		switch r.URL.Query().Get("url") {
		case googleCSS:
			fmt.Fprintf(w, "/* latin */\n@font-face {\n  font-family: 'Go';\n  font-style: normal;\n"+
				"  src: url('%s/fonts/go.ttf') format('truetype');\n}\n", srv.URL)
		default:
			fmt.Fprint(w, "body { color: red; }\n")
		}
	})
	mux.HandleFunc("/specimen", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, `<html><head><link rel="stylesheet" href="%s"></head><body>Go</body></html>`,
			strings.ReplaceAll(googleCSS, "&", "&amp;"))
	})
	mux.HandleFunc("/plain", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><head><link rel="stylesheet" href="/site.css"></head></html>`)
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type progressRecorder struct {
	values []percent.Percent
}

func (rec *progressRecorder) record(p percent.Percent) {
	rec.values = append(rec.values, p)
}

func (rec *progressRecorder) assertWellFormed(t *testing.T) {
	require.NotEmpty(t, rec.values)
	for i := 1; i < len(rec.values); i++ {
		assert.LessOrEqual(t, rec.values[i-1], rec.values[i], "progress must not decrease")
	}
	hundreds := 0
	for _, p := range rec.values {
		if p == 100 {
			hundreds++
		}
	}
	assert.Equal(t, 1, hundreds)
	assert.Equal(t, percent.Percent(100), rec.values[len(rec.values)-1])
}

func TestFetchDirect(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.resources")
	defer teardown()
	//
	srv := fontServer(t)
	rec := &progressRecorder{}
	fd, err := FetchFont(context.Background(), srv.URL+"/fonts/go.ttf", Options{Progress: rec.record})
	require.NoError(t, err)
	assert.Equal(t, goregular.TTF, fd.Data)
	assert.Equal(t, "", fd.Name)
	rec.assertWellFormed(t)
	assert.Greater(t, len(rec.values), 2, "expected intermediate progress")
}

func TestFetchUnknownSize(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.resources")
	defer teardown()
	//
	srv := fontServer(t)
	rec := &progressRecorder{}
	fd, err := FetchFont(context.Background(), srv.URL+"/fonts/chunked.ttf", Options{Progress: rec.record})
	require.NoError(t, err)
	assert.Equal(t, len(goregular.TTF), len(fd.Data))
	rec.assertWellFormed(t)
	for _, p := range rec.values[:len(rec.values)-1] {
		assert.LessOrEqual(t, p, percent.Percent(90))
	}
}

func TestFetchThroughStylesheet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.resources")
	defer teardown()
	//
	srv := fontServer(t)
	opts := Options{RelayURL: srv.URL + "/relay?url="}
	fd, err := FetchFont(context.Background(), googleCSS, opts)
	require.NoError(t, err)
	assert.Equal(t, goregular.TTF, fd.Data)
	assert.Equal(t, srv.URL+"/fonts/go.ttf", fd.Source)
	//
	fd, err = FetchFont(context.Background(), srv.URL+"/specimen", opts)
	require.NoError(t, err, "expected landing page to be followed")
	assert.Equal(t, goregular.TTF, fd.Data)
	//
	_, err = FetchFont(context.Background(), "https://fonts.googleapis.com/css?family=None", opts)
	assert.True(t, errors.Is(err, core.ErrParseFailure))
	_, err = FetchFont(context.Background(), srv.URL+"/plain", opts)
	assert.True(t, errors.Is(err, core.ErrInvalidFormat))
}

func TestFetchFailures(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.resources")
	defer teardown()
	//
	srv := fontServer(t)
	rec := &progressRecorder{}
	_, err := FetchFont(context.Background(), srv.URL+"/missing.ttf", Options{Progress: rec.record})
	assert.True(t, errors.Is(err, core.ErrNetworkFailure))
	assert.NotContains(t, rec.values, percent.Percent(100))
	//
	closed := httptest.NewServer(http.NotFoundHandler())
	closed.Close()
	_, err = FetchFont(context.Background(), closed.URL+"/go.ttf", Options{})
	assert.True(t, errors.Is(err, core.ErrNetworkFailure))
	//
	_, err = FetchFont(context.Background(), "  ", Options{})
	assert.Equal(t, core.EMISSING, core.Code(err))
	//
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = FetchFont(ctx, srv.URL+"/fonts/go.ttf", Options{})
	assert.True(t, errors.Is(err, core.ErrCanceled))
}

func TestResolveURL(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.resources")
	defer teardown()
	//
	srv := fontServer(t)
	promise := ResolveURL(context.Background(), srv.URL+"/fonts/go.ttf", Options{})
	fd, err := promise.Font()
	require.NoError(t, err)
	assert.Equal(t, len(goregular.TTF), len(fd.Data))
	//
	ctx, cancel := context.WithCancel(context.Background())
	promise = ResolveURL(ctx, srv.URL+"/slow", Options{})
	cancel()
	_, err = promise.Await(ctx)
	assert.True(t, errors.Is(err, core.ErrCanceled))
	//
	promise = ResolveURL(context.Background(), srv.URL+"/missing.ttf", Options{})
	fd, err = promise.Font()
	assert.Nil(t, fd)
	assert.True(t, errors.Is(err, core.ErrNetworkFailure))
	fd, err = promise.Font()
	assert.Nil(t, fd)
	assert.True(t, errors.Is(err, core.ErrNetworkFailure), "repeated wait must see the same error")
	_, again := promise.Await(context.Background())
	assert.Equal(t, err, again)
}

func TestFontReference(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.resources")
	defer teardown()
	//
	css := `@font-face { font-family: 'A'; src: url("https://x.test/a.ttf") format('truetype'); }
@font-face { font-family: 'B'; src: url(https://x.test/b.ttf); }`
	ref, err := FontReference(css)
	require.NoError(t, err)
	assert.Equal(t, "https://x.test/a.ttf", ref)
	m := srcPattern.FindStringSubmatch(css)
	assert.Equal(t, ref, unquote(m[1]), "parser and pattern must agree on first reference")
	//
	ref, err = FontReference(`@font-face { src: url( 'b.woff2' )`)
	require.NoError(t, err, "expected fallback for malformed CSS")
	assert.Equal(t, "b.woff2", ref)
	//
	_, err = FontReference(`body { font-family: serif; }`)
	assert.True(t, errors.Is(err, core.ErrParseFailure))
	//
	abs, err := absoluteURL("https://fonts.googleapis.com/css2?family=Go", "/s/go/v1/go.ttf")
	require.NoError(t, err)
	assert.Equal(t, "https://fonts.googleapis.com/s/go/v1/go.ttf", abs)
	assert.True(t, IsStylesheetURL(googleCSS))
	assert.False(t, IsStylesheetURL("https://fonts.gstatic.com/s/go.ttf"))
}

func TestLoadFontFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.resources")
	defer teardown()
	//
	dir := t.TempDir()
	path := filepath.Join(dir, "Go-Regular.ttf")
	require.NoError(t, os.WriteFile(path, goregular.TTF, 0644))
	rec := &progressRecorder{}
	fd, err := LoadFontFile(context.Background(), path, Options{Progress: rec.record})
	require.NoError(t, err)
	assert.Equal(t, "Go-Regular.ttf", fd.Name)
	assert.Equal(t, goregular.TTF, fd.Data)
	rec.assertWellFormed(t)
	//
	fd, err = ResolveFile(context.Background(), path, Options{}).Font()
	require.NoError(t, err)
	assert.Equal(t, len(goregular.TTF), len(fd.Data))
	//
	_, err = LoadFontFile(context.Background(), filepath.Join(dir, "none.otf"), Options{})
	assert.True(t, errors.Is(err, core.ErrMissing))
	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("hello"), 0644))
	_, err = LoadFontFile(context.Background(), txt, Options{})
	assert.True(t, errors.Is(err, core.ErrInvalidFormat))
	//
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = LoadFontFile(ctx, path, Options{})
	assert.True(t, errors.Is(err, core.ErrCanceled))
}

func TestSystemFonts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.resources")
	defer teardown()
	//
	paths := []string{
		"/f/Roboto-Regular.ttf",
		"/f/Roboto-Bold.ttf",
		"/f/Roboto-BoldItalic.ttf",
		"/f/Lato-Regular.otf",
		"/f/Helvetica.ttc",
		"/f/readme.txt",
	}
	descs := systemFonts(paths)
	require.Len(t, descs, 2)
	assert.Equal(t, "Lato", descs[0].Family)
	assert.Equal(t, "Roboto", descs[1].Family)
	assert.Equal(t, []string{"regular", "700", "700italic"}, descs[1].Variants)
	assert.Equal(t, "/f/Roboto-Regular.ttf", descs[1].Path)
	//
	p, err := findSystemFont(paths, "roboto", xfont.StyleItalic, xfont.WeightBold)
	require.NoError(t, err)
	assert.Equal(t, "/f/Roboto-BoldItalic.ttf", p)
	p, err = findSystemFont(paths, "lato", xfont.StyleNormal, xfont.WeightNormal)
	require.NoError(t, err)
	assert.Equal(t, "/f/Lato-Regular.otf", p)
	p, err = findSystemFont(paths, "Roboto-Bold", xfont.StyleNormal, xfont.WeightBold)
	require.NoError(t, err, "file name fragments must match installed files")
	assert.Equal(t, "/f/Roboto-Bold.ttf", p)
	p, err = findSystemFont(paths, "^lato$", xfont.StyleNormal, xfont.WeightNormal)
	require.NoError(t, err, "family patterns fall back to the closest match")
	assert.Equal(t, "/f/Lato-Regular.otf", p)
	_, err = findSystemFont(paths, "helvetica", xfont.StyleNormal, xfont.WeightNormal)
	assert.True(t, errors.Is(err, core.ErrMissing))
}

const directoryJSON = `{
  "kind": "webfonts#webfontList",
  "items": [
    {
      "family": "Lato",
      "variants": ["regular", "700"],
      "subsets": ["latin"],
      "version": "v24",
      "files": {
        "regular": "https://fonts.gstatic.test/s/lato/v24/lato-regular.ttf",
        "700": "https://fonts.gstatic.test/s/lato/v24/lato-700.ttf"
      }
    },
    {
      "family": "Roboto",
      "variants": ["regular", "italic", "700"],
      "subsets": ["latin", "cyrillic"],
      "version": "v30",
      "files": {
        "regular": "https://fonts.gstatic.test/s/roboto/v30/roboto-regular.ttf",
        "italic": "https://fonts.gstatic.test/s/roboto/v30/roboto-italic.ttf",
        "700": "https://fonts.gstatic.test/s/roboto/v30/roboto-700.ttf"
      }
    }
  ]
}`

func TestGoogleFontsDirectory(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.resources")
	defer teardown()
	//
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "secret" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, directoryJSON)
	}))
	defer srv.Close()
	//
	_, err := LoadGoogleFontsDirectory(context.Background(), nil, srv.URL, "")
	assert.True(t, errors.Is(err, core.ErrMissing))
	_, err = LoadGoogleFontsDirectory(context.Background(), nil, srv.URL, "wrong")
	assert.True(t, errors.Is(err, core.ErrNetworkFailure))
	//
	dir, err := LoadGoogleFontsDirectory(context.Background(), srv.Client(), srv.URL, "secret")
	require.NoError(t, err)
	require.Len(t, dir.Items, 2)
	info, u, err := dir.Find("roboto", xfont.StyleNormal, xfont.WeightBold)
	require.NoError(t, err)
	assert.Equal(t, "Roboto", info.Family)
	assert.Equal(t, "https://fonts.gstatic.test/s/roboto/v30/roboto-700.ttf", u)
	_, u, _ = dir.Find("roboto", xfont.StyleItalic, xfont.WeightNormal)
	assert.True(t, strings.HasSuffix(u, "roboto-italic.ttf"))
	_, _, err = dir.Find("comic", xfont.StyleNormal, xfont.WeightNormal)
	assert.True(t, errors.Is(err, core.ErrMissing))
	//
	infos, err := dir.List("^L")
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "v24", infos[0].Version)
	_, err = dir.List("([")
	assert.True(t, errors.Is(err, core.ErrInvalidFormat))
}

func TestKeepDownload(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontsubset.resources")
	defer teardown()
	//
	dir := t.TempDir()
	p, err := KeepDownload(dir, "https://fonts.gstatic.test/s/go/v1/go.ttf?x=1", []byte("data"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(p, "-go.ttf"))
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))
	//
	srv := fontServer(t)
	_, err = FetchFont(context.Background(), srv.URL+"/fonts/go.ttf", Options{CacheDir: dir})
	require.NoError(t, err)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
