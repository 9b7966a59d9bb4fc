package resources

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/aymerick/douceur/parser"
	"github.com/ethanz-code/font-subsetting/core"
	"github.com/ethanz-code/font-subsetting/core/percent"
	"golang.org/x/net/html"
)

// chunkSize is the size of reads while streaming a download.
const chunkSize = 32 * 1024

var srcPattern = regexp.MustCompile(`src:\s*url\(([^)]+)\)`)
var urlPattern = regexp.MustCompile(`url\(([^)]+)\)`)

// IsStylesheetURL returns true for URLs of the Google Fonts stylesheet API.
func IsStylesheetURL(rawurl string) bool {
	return strings.Contains(rawurl, "fonts.googleapis.com/css")
}

// FetchFont loads a font binary from a URL.
//
// If rawurl denotes a Google Fonts stylesheet, the stylesheet is requested
// through the relay service configured in opts and the first font file it
// references is downloaded. If a direct request yields an HTML page which
// links a Google Fonts stylesheet (e.g., a specimen page), this stylesheet is
// followed instead. WOFF and WOFF2 downloads are unpacked with
// opts.Decompressor.
//
// Failing requests and non-success responses result in an error of code
// core.ECONNECTION, stylesheets without font reference in core.EPARSE.
// If ctx is canceled during the download, an error of code core.ECANCELED is
// returned. Progress is reported to opts.Progress; it reaches 100 on success
// only.
func FetchFont(ctx context.Context, rawurl string, opts Options) (*FontData, error) {
	target := strings.TrimSpace(rawurl)
	if target == "" {
		return nil, core.Error(core.EMISSING, "please provide a font URL")
	}
	tracker := percent.NewTracker(opts.Progress)
	client := opts.client()
	if IsStylesheetURL(target) {
		ref, err := resolveStylesheet(ctx, client, target, opts.RelayURL)
		if err != nil {
			return nil, err
		}
		target = ref
	}
	tracer().Infof("fetching font from %s", target)
	resp, err := get(ctx, client, target)
	if err != nil {
		return nil, err
	}
	if isHTML(resp) {
		page, err := readAll(ctx, resp, nil)
		if err != nil {
			return nil, err
		}
		css, ok := scanLandingPage(page, target)
		if !ok {
			return nil, core.Error(core.EINVALID, "URL %s does not point to a font file", target)
		}
		tracer().Debugf("page %s links stylesheet %s", target, css)
		if target, err = resolveStylesheet(ctx, client, css, opts.RelayURL); err != nil {
			return nil, err
		}
		if resp, err = get(ctx, client, target); err != nil {
			return nil, err
		}
	}
	data, err := readAll(ctx, resp, tracker)
	if err != nil {
		return nil, err
	}
	tracer().Infof("fetched %d bytes from %s", len(data), target)
	if opts.CacheDir != "" {
		if _, err := KeepDownload(opts.CacheDir, target, data); err != nil {
			tracer().Errorf("cannot keep download: %v", err)
		}
	}
	if data, err = Unpack(data, opts.decompressor()); err != nil {
		return nil, err
	}
	tracker.Done()
	return &FontData{Data: data, Source: target}, nil
}

// resolveStylesheet fetches a stylesheet, possibly through a relay, and
// returns the absolute URL of the first font file it references.
func resolveStylesheet(ctx context.Context, client *http.Client, cssURL, relay string) (string, error) {
	requestURL := cssURL
	if relay != "" {
		requestURL = relay + url.QueryEscape(cssURL)
	}
	tracer().Debugf("requesting stylesheet %s", requestURL)
	resp, err := get(ctx, client, requestURL)
	if err != nil {
		return "", err
	}
	css, err := readAll(ctx, resp, nil)
	if err != nil {
		return "", err
	}
	ref, err := FontReference(string(css))
	if err != nil {
		return "", err
	}
	return absoluteURL(cssURL, ref)
}

// FontReference extracts the first font file reference of a stylesheet, i.e.
// the first url(…) of a src property. Quotes are stripped. An error of code
// core.EPARSE is returned if the stylesheet does not reference a font file.
func FontReference(css string) (string, error) {
	if ref := firstFaceSource(css); ref != "" {
		return ref, nil
	}
	m := srcPattern.FindStringSubmatch(css)
	if m == nil {
		return "", core.Error(core.EPARSE, "could not find font URL in CSS")
	}
	if ref := unquote(m[1]); ref != "" {
		return ref, nil
	}
	return "", core.Error(core.EPARSE, "could not find font URL in CSS")
}

// firstFaceSource looks for the first @font-face rule with a src declaration.
// It returns "" if the stylesheet cannot be parsed.
func firstFaceSource(css string) string {
	sheet, err := parser.Parse(css)
	if err != nil {
		tracer().Debugf("stylesheet does not parse: %v", err)
		return ""
	}
	for _, rule := range sheet.Rules {
		if rule.Name != "@font-face" {
			continue
		}
		for _, decl := range rule.Declarations {
			if decl.Property != "src" {
				continue
			}
			if m := urlPattern.FindStringSubmatch(decl.Value); m != nil {
				return unquote(m[1])
			}
		}
	}
	return ""
}

func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"'`)
}

func absoluteURL(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", core.WrapError(err, core.EPARSE, "invalid stylesheet URL %s", base)
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", core.WrapError(err, core.EPARSE, "invalid font URL %s", ref)
	}
	return b.ResolveReference(r).String(), nil
}

var stylesheetLinks = cascadia.MustCompile(`link[rel="stylesheet"]`)

// scanLandingPage looks for a link to a Google Fonts stylesheet in an HTML page.
func scanLandingPage(page []byte, base string) (string, bool) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return "", false
	}
	for _, link := range cascadia.QueryAll(doc, stylesheetLinks) {
		for _, a := range link.Attr {
			if a.Key != "href" {
				continue
			}
			href, err := absoluteURL(base, a.Val)
			if err == nil && IsStylesheetURL(href) {
				return href, true
			}
		}
	}
	return "", false
}

func isHTML(resp *http.Response) bool {
	return strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html")
}

// get issues a GET request. Non-success responses are closed and reported as
// errors of code core.ECONNECTION.
func get(ctx context.Context, client *http.Client, rawurl string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return nil, core.WrapError(err, core.ECONNECTION, "cannot request %s", rawurl)
	}
	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, core.Canceled(ctx.Err())
		}
		return nil, core.WrapError(err, core.ECONNECTION, "cannot fetch %s", rawurl)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		err = fmt.Errorf("HTTP status %s", resp.Status)
		return nil, core.WrapError(err, core.ECONNECTION, "fetching %s failed with status %d",
			rawurl, resp.StatusCode)
	}
	return resp, nil
}

// readAll streams a response body, reporting progress to tracker, which may
// be nil. ctx is checked between chunks.
func readAll(ctx context.Context, resp *http.Response, tracker *percent.Tracker) ([]byte, error) {
	defer resp.Body.Close()
	var buf bytes.Buffer
	if resp.ContentLength > 0 {
		buf.Grow(int(resp.ContentLength))
	}
	chunk := make([]byte, chunkSize)
	var received int64
	for {
		if err := ctx.Err(); err != nil {
			return nil, core.Canceled(err)
		}
		n, err := resp.Body.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			received += int64(n)
			tracker.Report(percent.OfTotal(received, resp.ContentLength))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, core.Canceled(ctx.Err())
			}
			return nil, core.WrapError(err, core.ECONNECTION, "download interrupted")
		}
	}
	return buf.Bytes(), nil
}

// fileNameOf returns the last path segment of a URL, or "".
func fileNameOf(rawurl string) string {
	u, err := url.Parse(rawurl)
	if err != nil || u.Path == "" {
		return ""
	}
	name := path.Base(u.Path)
	if name == "/" || name == "." {
		return ""
	}
	return name
}
