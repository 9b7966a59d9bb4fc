package pipeline

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/ethanz-code/font-subsetting/core"
	"github.com/ethanz-code/font-subsetting/core/font"
	"github.com/ethanz-code/font-subsetting/core/font/fontregistry"
	"github.com/ethanz-code/font-subsetting/core/font/opentype"
	"github.com/ethanz-code/font-subsetting/core/font/subset"
	"github.com/ethanz-code/font-subsetting/core/locate/resources"
	"github.com/ethanz-code/font-subsetting/core/pack"
	"github.com/ethanz-code/font-subsetting/core/percent"
	xfont "golang.org/x/image/font"
)

// DefaultText is the subset text used if a job does not specify one.
const DefaultText = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789.,!?"

// Job describes a subset job.
type Job struct {
	Source       string // file path, URL, or name of an installed font
	Text         string // characters to keep; DefaultText if empty
	FamilyName   string // family name of the subset; defaults to the family of the source
	SkipUnmapped bool   // see subset.Options
}

// Deps are the collaborators of a pipeline. The zero value is usable.
type Deps struct {
	Codec    font.Codec                           // defaults to opentype.Codec{}
	Fetch    resources.Options                    // options for loading fonts; Progress is ignored
	Registry *fontregistry.Registry               // caches decoded documents by source, if set
	Archive  pack.ArchiveWriter                   // defaults to pack.ZipWriter
	FindFont func(pattern string) (string, error) // resolves names of installed fonts to paths
}

func (deps Deps) codec() font.Codec {
	if deps.Codec == nil {
		return opentype.Codec{}
	}
	return deps.Codec
}

func (deps Deps) findFont(pattern string) (string, error) {
	if deps.FindFont != nil {
		return deps.FindFont(pattern)
	}
	return resources.FindSystemFont(pattern, xfont.StyleNormal, xfont.WeightNormal)
}

// Outcome is the result of a successful job.
type Outcome struct {
	Document *font.Document
	Result   *subset.Result
	Package  *pack.Package
}

// IsURL returns true for sources to be fetched over the network.
func IsURL(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Load loads and decodes the font denoted by source: an http(s) URL, a path
// of a local font file, or the name of an installed font. Progress of
// loading is reported to progress, which may be nil.
func Load(ctx context.Context, source string, deps Deps, progress percent.Func) (*font.Document, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, core.Error(core.EMISSING, "no font source given")
	}
	key := RegistryKey(source)
	if deps.Registry != nil {
		if doc, err := deps.Registry.Document(key); err == nil {
			percent.NewTracker(progress).Done()
			return doc, nil
		}
	}
	opts := deps.Fetch
	opts.Progress = progress
	var promise resources.FontPromise
	if IsURL(source) {
		promise = resources.ResolveURL(ctx, source, opts)
	} else {
		path := source
		if !exists(path) {
			var err error
			if path, err = deps.findFont(source); err != nil {
				return nil, err
			}
			tracer().Infof("font %q resolved to %s", source, path)
		}
		promise = resources.ResolveFile(ctx, path, opts)
	}
	fd, err := promise.Await(ctx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, core.Canceled(err)
	}
	doc, err := deps.codec().Decode(fd.Data, fd.Name)
	if err != nil {
		return nil, err
	}
	tracer().Infof("loaded font %s %s, %d glyphs, %d bytes", doc.FamilyName, doc.StyleName,
		doc.NumGlyphs(), doc.SizeInBytes())
	if deps.Registry != nil {
		deps.Registry.StoreDocument(key, doc)
	}
	return doc, nil
}

// RegistryKey returns the key under which the document loaded from source is
// cached. URLs and paths of existing files are used verbatim. Names of
// installed fonts are normalized, so "Roboto Bold" and "roboto bold" share an
// entry.
func RegistryKey(source string) string {
	source = strings.TrimSpace(source)
	if IsURL(source) || exists(source) {
		return source
	}
	style, weight := fontregistry.GuessStyleAndWeight(source)
	return fontregistry.NormalizeFontname(source, style, weight)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Process subsets a loaded document and assembles the package.
func Process(ctx context.Context, doc *font.Document, job Job, deps Deps) (*Outcome, error) {
	text := job.Text
	if text == "" {
		text = DefaultText
	}
	res, err := subset.Build(ctx, doc, font.NewCharacterSet(text), subset.Options{
		FamilyName:   job.FamilyName,
		Codec:        deps.codec(),
		SkipUnmapped: job.SkipUnmapped,
	})
	if err != nil {
		return nil, err
	}
	pkg, err := pack.Assemble(res, res.FamilyName, text, pack.Options{Archive: deps.Archive})
	if err != nil {
		return nil, err
	}
	tracer().Infof("job done: %s", pkg.Savings)
	return &Outcome{Document: doc, Result: res, Package: pkg}, nil
}

// Run performs a job: load, subset and assemble.
func Run(ctx context.Context, job Job, deps Deps, progress percent.Func) (*Outcome, error) {
	doc, err := Load(ctx, job.Source, deps, progress)
	if err != nil {
		return nil, err
	}
	return Process(ctx, doc, job, deps)
}

// Session runs jobs one at a time.
type Session struct {
	deps Deps
	mx   sync.Mutex
	busy bool
}

// NewSession creates a session. If deps carries no registry, the session
// creates one, so repeated jobs for the same source decode the font once.
func NewSession(deps Deps) *Session {
	if deps.Registry == nil {
		deps.Registry = fontregistry.NewRegistry()
	}
	return &Session{deps: deps}
}

// Busy returns true while a job is running.
func (s *Session) Busy() bool {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.busy
}

func (s *Session) acquire() error {
	s.mx.Lock()
	defer s.mx.Unlock()
	if s.busy {
		return core.Error(core.EINTERNAL, "job in progress")
	}
	s.busy = true
	return nil
}

func (s *Session) release() {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.busy = false
}

// Run performs a job. While a job is running, further jobs are rejected with
// an error of code core.EINTERNAL.
func (s *Session) Run(ctx context.Context, job Job, progress percent.Func) (*Outcome, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.release()
	return Run(ctx, job, s.deps, progress)
}

// Load loads a font within the session, see Load.
func (s *Session) Load(ctx context.Context, source string, progress percent.Func) (*font.Document, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.release()
	return Load(ctx, source, s.deps, progress)
}

// Forget drops the cached document for source, so the next Load reads it
// again. The remaining cache entries are dumped to the trace.
func (s *Session) Forget(source string) {
	s.deps.Registry.Remove(RegistryKey(source))
	s.deps.Registry.LogFontList()
}

// Process subsets a loaded document within the session, see Process.
func (s *Session) Process(ctx context.Context, doc *font.Document, job Job) (*Outcome, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.release()
	return Process(ctx, doc, job, s.deps)
}
