package resources

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ethanz-code/font-subsetting/core"
	"github.com/ethanz-code/font-subsetting/core/percent"
)

// NotFound returns an application error for a missing resource.
func NotFound(res string) error {
	e := fmt.Errorf("resource missing: %v", res)
	return core.WrapError(e, core.EMISSING, "font not found: %s", res)
}

// FontData is a font binary together with information about its origin.
type FontData struct {
	Data   []byte
	Name   string // file name for local fonts; empty for fonts loaded from a URL
	Source string // path or URL the font has been loaded from
}

// Options control the loading of fonts.
type Options struct {
	Client       *http.Client // defaults to a client with DefaultTimeout
	RelayURL     string       // prefix for relayed stylesheet requests; empty for direct requests
	Progress     percent.Func // receives progress notifications; may be nil
	CacheDir     string       // if set, downloaded fonts are kept in this directory
	Decompressor Decompressor // unpacks WOFF and WOFF2; defaults to WebFonts
}

// DefaultTimeout is the timeout for HTTP requests of the default client.
const DefaultTimeout = 60 * time.Second

// DefaultRelayURL is the default prefix for relayed stylesheet requests.
// The URL-escaped target URL is appended.
const DefaultRelayURL = "https://api.allorigins.win/raw?url="

func (opts Options) client() *http.Client {
	if opts.Client != nil {
		return opts.Client
	}
	return &http.Client{Timeout: DefaultTimeout}
}

// --- Fonts -----------------------------------------------------------------

type fontPlusErr struct {
	font *FontData
	err  error
}

// FontPromise is the promise of a font binary being loaded.
type FontPromise interface {
	Font() (*FontData, error)                    // wait for the font
	Await(ctx context.Context) (*FontData, error) // wait for the font, or until ctx is done
}

type fontLoader struct {
	await func(ctx context.Context) (*FontData, error)
}

func (loader fontLoader) Font() (*FontData, error) {
	return loader.await(context.Background())
}

func (loader fontLoader) Await(ctx context.Context) (*FontData, error) {
	return loader.await(ctx)
}

// ResolveURL loads a font from a URL in the background. See FetchFont.
func ResolveURL(ctx context.Context, rawurl string, opts Options) FontPromise {
	return resolve(func() (*FontData, error) {
		return FetchFont(ctx, rawurl, opts)
	})
}

// ResolveFile loads a font from a local file in the background. See LoadFontFile.
func ResolveFile(ctx context.Context, path string, opts Options) FontPromise {
	return resolve(func() (*FontData, error) {
		return LoadFontFile(ctx, path, opts)
	})
}

// resolve starts load in the background. The promise may be awaited any
// number of times; every call sees the same result.
func resolve(load func() (*FontData, error)) FontPromise {
	done := make(chan struct{})
	var result fontPlusErr
	go func() {
		result.font, result.err = load()
		close(done)
	}()
	return fontLoader{
		await: func(ctx context.Context) (*FontData, error) {
			select {
			case <-ctx.Done():
				return nil, core.Canceled(ctx.Err())
			case <-done:
				return result.font, result.err
			}
		},
	}
}
