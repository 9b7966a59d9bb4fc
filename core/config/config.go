/*
Package config is for application configuration with knadh/koanf.

Configuration values are merged from several sources, lowest precedence first:

  - built-in defaults
  - an optional YAML file
  - environment variables with prefix FONTSUBSET_ (a double underscore
    separates key levels, e.g. FONTSUBSET_SUGGEST__API_KEY → suggest.api-key)
  - explicit calls to Set, usually from command-line flags

A Config wraps a schuko koanfadapter.KConf and may therefore be used to
configure tracing:

	conf := config.New()
	if err := conf.Load("fontsubset.yaml"); err != nil { … }
	config.InitTracing(conf.KConf)

Packages of this module never read configuration globally. Clients pass
configuration values explicitly, usually through option structs.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package config

import (
	"os"
	"strings"
	"time"

	"github.com/ethanz-code/font-subsetting/core"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/schukonf/koanfadapter"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
)

// EnvPrefix is the prefix of environment variables overriding configuration
// values.
const EnvPrefix = "FONTSUBSET_"

// Configuration keys.
const (
	KeyRelayURL       = "relay-url"
	KeyHTTPTimeout    = "http.timeout"
	KeyGoogleAPIKey   = "google-api-key"
	KeySuggestURL     = "suggest.endpoint"
	KeySuggestModel   = "suggest.model"
	KeySuggestAPIKey  = "suggest.api-key"
	KeySuggestLocale  = "suggest.locale"
	KeyCacheKeep      = "cache.keep"
	KeyAppKey         = "app-key"
	KeyTracingAdapter = "tracing.adapter"
)

// Defaults holds the built-in configuration values.
var Defaults = map[string]interface{}{
	KeyRelayURL:                  "https://api.allorigins.win/raw?url=",
	KeyHTTPTimeout:               60,
	KeySuggestURL:                "https://generativelanguage.googleapis.com",
	KeySuggestModel:              "gemini-2.5-flash",
	KeySuggestLocale:             "en",
	KeyCacheKeep:                 false,
	KeyAppKey:                    "fontsubset",
	KeyTracingAdapter:            "go",
	"trace.root":                 "Error",
	"trace.fontsubset.fonts":     "Error",
	"trace.fontsubset.resources": "Error",
	"trace.fontsubset.package":   "Error",
	"trace.fontsubset.suggest":   "Error",
	"trace.fontsubset.pipeline":  "Info",
}

// Config is a schuko koanf adapter extended by file and environment loading.
// Getters and Set are those of koanfadapter.KConf.
type Config struct {
	*koanfadapter.KConf
}

var _ schuko.Configuration = &Config{}

// New creates a configuration populated with the built-in defaults.
// Configuration files are never searched for implicitly.
func New() *Config {
	c := &Config{KConf: koanfadapter.New(koanf.New("."), "", nil)}
	c.InitDefaults()
	return c
}

// InitDefaults loads the adapter defaults and the built-in default values.
func (c *Config) InitDefaults() {
	c.KConf.InitDefaults()
	_ = c.Koanf().Load(confmap.Provider(Defaults, c.Koanf().Delim()), nil)
}

// Load merges configuration from a YAML file, if path is non-empty, and from
// the environment. A missing or malformed file is an error with code
// core.EMISSING or core.EINVALID, respectively.
func (c *Config) Load(path string) error {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return core.WrapError(err, core.EMISSING, "configuration file %q not found", path)
		}
		if err := c.Koanf().Load(file.Provider(path), yaml.Parser()); err != nil {
			return core.WrapError(err, core.EINVALID, "cannot read configuration file %q", path)
		}
	}
	return c.LoadEnv()
}

// LoadEnv merges configuration from environment variables with prefix
// EnvPrefix.
func (c *Config) LoadEnv() error {
	k := c.Koanf()
	if err := k.Load(env.Provider(EnvPrefix, k.Delim(), envKey), nil); err != nil {
		return core.WrapError(err, core.EINVALID, "cannot read environment")
	}
	return nil
}

// envKey maps FONTSUBSET_SUGGEST__API_KEY to suggest.api-key.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.Split(s, "__")
	for i, p := range parts {
		parts[i] = strings.ReplaceAll(p, "_", "-")
	}
	return strings.Join(parts, ".")
}

// Duration returns a configuration property given in seconds as a duration.
func (c *Config) Duration(key string) time.Duration {
	return time.Duration(c.Koanf().Int64(key)) * time.Second
}

// --- Tracing ---------------------------------------------------------------

// InitTracing sets up tracing from configuration conf: it registers the Go
// logger adapter and installs a trace2go root tracer. Trace levels are read
// from keys "trace.<selector>", e.g. "trace.fontsubset.fonts".
func InitTracing(conf *koanfadapter.KConf) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return core.WrapError(err, core.EINTERNAL, "error configuring tracing")
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return nil
}
