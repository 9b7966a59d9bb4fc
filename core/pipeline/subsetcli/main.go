/*
Command subsetcli creates font subsets from the command line.

Usage:

	subsetcli -font Roboto-Regular.ttf -text "Hello World" -out ./dist
	subsetcli -font https://fonts.googleapis.com/css2?family=Roboto -suggest pangram
	subsetcli -google "Noto Sans" -textfile chars.txt -family "Noto Tiny"
	subsetcli -font Roboto -i

A font source may be a file path, a URL or the name of an installed font.
Without a font source, the built-in Go Regular font is used. With flag -i an
interactive editor is started to adjust the subset text before exporting.

Configuration is read from an optional YAML file (flag -config) and from
environment variables prefixed with FONTSUBSET_.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/ethanz-code/font-subsetting/core"
	"github.com/ethanz-code/font-subsetting/core/config"
	"github.com/ethanz-code/font-subsetting/core/font"
	"github.com/ethanz-code/font-subsetting/core/font/opentype"
	"github.com/ethanz-code/font-subsetting/core/locate/resources"
	"github.com/ethanz-code/font-subsetting/core/pack"
	"github.com/ethanz-code/font-subsetting/core/percent"
	"github.com/ethanz-code/font-subsetting/core/pipeline"
	"github.com/ethanz-code/font-subsetting/core/suggest"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pterm/pterm"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/text/language"
)

// tracer traces with key 'fontsubset.pipeline'
func tracer() tracing.Trace {
	return tracing.Select("fontsubset.pipeline")
}

var traceKeys = []string{
	"trace.fontsubset.fonts",
	"trace.fontsubset.resources",
	"trace.fontsubset.package",
	"trace.fontsubset.suggest",
	"trace.fontsubset.pipeline",
}

func main() {
	initDisplay()

	// command line flags
	fontsrc := flag.String("font", "", "Font to subset: path, URL, or name of an installed font")
	text := flag.String("text", "", "Characters to keep")
	textfile := flag.String("textfile", "", "File containing the characters to keep")
	family := flag.String("family", "", "Family name of the subset font")
	outdir := flag.String("out", ".", "Output directory for the package")
	confpath := flag.String("config", "", "Configuration file (YAML)")
	kind := flag.String("suggest", "", "Add suggested text [common_cn|ascii|pangram|marketing]")
	locale := flag.String("locale", "", "Locale for suggestions, e.g. 'en' or 'zh'")
	skip := flag.Bool("skip-unmapped", false, "Drop characters the font does not contain")
	preview := flag.Bool("preview", false, "Create a preview page for the subset")
	google := flag.String("google", "", "Load a family from the Google Fonts directory")
	interactive := flag.Bool("i", false, "Start the interactive editor")
	tlevel := flag.String("trace", "", "Trace level [Debug|Info|Error]")
	flag.Parse()

	// set up configuration and logging
	conf := config.New()
	if err := conf.Load(*confpath); err != nil {
		core.UserError(err)
		os.Exit(2)
	}
	if *tlevel != "" {
		for _, key := range traceKeys {
			conf.Set(key, *tlevel)
		}
	}
	if *locale != "" {
		conf.Set(config.KeySuggestLocale, *locale)
	}
	if err := config.InitTracing(conf.KConf); err != nil {
		fmt.Println("error configuring tracing")
		os.Exit(1)
	}
	pterm.Info.Println("Welcome to the font subsetter") // colored welcome message

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	app, err := newApp(ctx, conf)
	if err != nil {
		core.UserError(err)
		os.Exit(3)
	}
	app.job = pipeline.Job{
		Source:       *fontsrc,
		Text:         *text,
		FamilyName:   *family,
		SkipUnmapped: *skip,
	}
	if *textfile != "" {
		b, err := os.ReadFile(*textfile)
		if err != nil {
			core.UserError(core.WrapError(err, core.EMISSING, "cannot read text file %s", *textfile))
			os.Exit(3)
		}
		app.job.Text += string(b)
	}
	if app.job.Text == "" {
		app.job.Text = pipeline.DefaultText
	}
	if *google != "" {
		if app.job.Source, err = app.googleFont(*google); err != nil {
			core.UserError(err)
			os.Exit(4)
		}
	}
	if err := app.load(); err != nil {
		core.UserError(err)
		os.Exit(4)
	}
	if *kind != "" {
		if err := app.suggest(*kind); err != nil {
			core.UserError(err)
			os.Exit(3)
		}
	}
	if *interactive {
		repl, err := newEditor(app)
		if err != nil {
			tracer().Errorf(err.Error())
			os.Exit(3)
		}
		pterm.Info.Println("Quit with <ctrl>D") // inform user how to stop the CLI
		repl.REPL()                              // go into interactive mode
		return
	}
	if err := app.export(*outdir); err != nil {
		core.UserError(err)
		os.Exit(5)
	}
	if *preview {
		if err := app.preview(true); err != nil {
			core.UserError(err)
			os.Exit(5)
		}
	}
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// app holds the state of a subset session.
type app struct {
	ctx     context.Context
	conf    *config.Config
	session *pipeline.Session
	deps    pipeline.Deps
	advisor suggest.Client
	locale  language.Tag
	doc     *font.Document
	job     pipeline.Job
	outcome *pipeline.Outcome
	release func() // removes the current preview
}

func newApp(ctx context.Context, conf *config.Config) (*app, error) {
	fetch := resources.Options{
		RelayURL: conf.GetString(config.KeyRelayURL),
		Client:   &http.Client{Timeout: resources.DefaultTimeout},
	}
	if timeout := conf.Duration(config.KeyHTTPTimeout); timeout > 0 {
		fetch.Client.Timeout = timeout
	}
	if conf.GetBool(config.KeyCacheKeep) {
		dir, err := resources.CacheDirPath(conf.GetString(config.KeyAppKey), "downloads")
		if err != nil {
			return nil, core.WrapError(err, core.EINTERNAL, "cannot create cache directory")
		}
		fetch.CacheDir = dir
	}
	a := &app{
		ctx:  ctx,
		conf: conf,
		deps: pipeline.Deps{Codec: opentype.Codec{}, Fetch: fetch},
	}
	a.session = pipeline.NewSession(a.deps)
	a.locale = language.English
	if tag, err := language.Parse(conf.GetString(config.KeySuggestLocale)); err == nil {
		a.locale = tag
	}
	if key := conf.GetString(config.KeySuggestAPIKey); key != "" {
		a.advisor = suggest.Gemini{
			Endpoint: conf.GetString(config.KeySuggestURL),
			Model:    conf.GetString(config.KeySuggestModel),
			APIKey:   key,
			Client:   fetch.Client,
		}
	} else {
		tracer().Infof("no API key for suggestions configured, using built-in texts")
		a.advisor = suggest.Offline{}
	}
	return a, nil
}

// load loads the font of the current job, showing a progress bar.
func (a *app) load() (err error) {
	if a.job.Source == "" {
		pterm.Info.Println("No font given, using built-in Go Regular")
		a.doc, err = opentype.Codec{}.Decode(goregular.TTF, "Go-Regular.ttf")
		return err
	}
	bar, _ := pterm.DefaultProgressbar.WithTotal(100).WithTitle("Loading font").Start()
	var shown percent.Percent
	a.doc, err = a.session.Load(a.ctx, a.job.Source, func(p percent.Percent) {
		if bar != nil && p > shown {
			bar.Add(int(p - shown))
			shown = p
		}
	})
	if bar != nil {
		_, _ = bar.Stop()
	}
	if err != nil {
		return err
	}
	covered, total := a.doc.Coverage(a.job.Text)
	pterm.Success.Printfln("Loaded %s %s: %d glyphs, %s", a.doc.FamilyName, a.doc.StyleName,
		a.doc.NumGlyphs(), pack.HumanSize(a.doc.SizeInBytes()))
	pterm.Info.Printfln("Font covers %d of %d characters of the subset text", covered, total)
	return nil
}

// googleFont looks up a family in the Google Fonts directory and returns the
// URL of its regular variant.
func (a *app) googleFont(family string) (string, error) {
	dir, err := resources.LoadGoogleFontsDirectory(a.ctx, a.deps.Fetch.Client,
		resources.GoogleFontsAPI, a.conf.GetString(config.KeyGoogleAPIKey))
	if err != nil {
		return "", err
	}
	info, url, err := dir.Find(family, xfont.StyleNormal, xfont.WeightNormal)
	if err != nil {
		return "", err
	}
	pterm.Info.Printfln("Found %s (%s) in Google Fonts directory", info.Family, info.Version)
	return url, nil
}

// suggest applies a text suggestion to the subset text.
func (a *app) suggest(kindName string) error {
	kind, err := suggest.ParseKind(kindName)
	if err != nil {
		return err
	}
	spinner, _ := pterm.DefaultSpinner.Start("Asking for suggestions")
	s := a.advisor.Suggest(a.ctx, kind, a.locale)
	if s == "" {
		spinner.Warning("No suggestion available")
		return nil
	}
	spinner.Success("Got suggestion")
	a.job.Text = suggest.Apply(a.job.Text, kind, s)
	return nil
}

// build creates the subset for the current job.
func (a *app) build() error {
	out, err := a.session.Process(a.ctx, a.doc, a.job)
	if err != nil {
		return err
	}
	a.outcome = out
	if n := len(out.Result.Unmapped); n > 0 {
		pterm.Warning.Printfln("%d characters are not contained in the font: %s", n,
			strings.TrimSpace(string(out.Result.Unmapped)))
	}
	return nil
}

// export builds the subset and writes the package to dir.
func (a *app) export(dir string) error {
	if err := a.build(); err != nil {
		return err
	}
	path, err := pack.WriteFile(a.outcome.Package, dir)
	if err != nil {
		return err
	}
	a.stats()
	pterm.Success.Printfln("Package written to %s", path)
	return nil
}

// stats prints the figures of the last subset.
func (a *app) stats() {
	if a.outcome == nil {
		pterm.Warning.Println("No subset created yet")
		return
	}
	res, savings := a.outcome.Result, a.outcome.Package.Savings
	_ = pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"Family", "Characters", "Glyphs", "Original", "Subset", "Saved"},
		{
			res.FamilyName,
			fmt.Sprint(res.CharCount),
			fmt.Sprint(res.GlyphCount),
			pack.HumanSize(savings.OriginalSize),
			pack.HumanSize(savings.SubsetSize),
			fmt.Sprintf("%.1f%%", savings.Percent()),
		},
	}).Render()
}

// preview creates a preview page of the current subset, replacing an earlier
// one. If wait is set, it waits for the user before removing the preview;
// otherwise the preview is kept until closePreview is called.
func (a *app) preview(wait bool) error {
	if a.outcome == nil {
		if err := a.build(); err != nil {
			return err
		}
	}
	a.closePreview()
	p, release, err := pack.NewPreview(a.outcome.Result.FontBytes, a.outcome.Result.FamilyName, a.job.Text)
	if err != nil {
		return err
	}
	a.release = release
	pterm.Info.Printfln("Preview: file://%s", p.PagePath)
	if wait {
		defer a.closePreview()
		pterm.Info.Println("Press <Enter> to remove the preview")
		fmt.Scanln()
	}
	return nil
}

func (a *app) closePreview() {
	if a.release != nil {
		a.release()
		a.release = nil
	}
}
