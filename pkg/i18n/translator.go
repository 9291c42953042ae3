// Package i18n translates user-facing messages. Catalogs are YAML files,
// one per language, with nested keys addressed by dot notation:
//
//	auth:
//	  required: "Требуется авторизация"
//
//	t.T("ru", "auth.required")
//
// Placeholders use the %{name} form and are filled from key/value pairs.
// The request language is negotiated from Accept-Language with
// golang.org/x/text/language.
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultLanguage is used when negotiation finds no better match.
const DefaultLanguage = "ru"

//go:embed locales/*.yaml
var locales embed.FS

var (
	ErrNoCatalogs      = errors.New("i18n: no catalogs found")
	ErrInvalidCatalog  = errors.New("i18n: invalid catalog")
	ErrUnknownLanguage = errors.New("i18n: default language has no catalog")
)

// Translator is safe for concurrent use once built.
type Translator struct {
	catalogs    map[string]map[string]string
	defaultLang string
	tags        []language.Tag
	matcher     language.Matcher
	logger      *slog.Logger
}

// Option configures a Translator.
type Option func(*Translator)

// WithDefaultLanguage sets the fallback language. Empty keeps the default.
func WithDefaultLanguage(lang string) Option {
	return func(t *Translator) {
		if lang != "" {
			t.defaultLang = lang
		}
	}
}

// WithLogger enables warnings about missing keys.
func WithLogger(l *slog.Logger) Option {
	return func(t *Translator) {
		t.logger = l
	}
}

// New builds a Translator from the embedded catalogs.
func New(opts ...Option) (*Translator, error) {
	return NewFromFS(locales, "locales", opts...)
}

// NewFromFS loads every *.yaml or *.yml file in dir. The file name without
// extension is the language code.
func NewFromFS(fsys fs.FS, dir string, opts ...Option) (*Translator, error) {
	t := &Translator{
		catalogs:    map[string]map[string]string{},
		defaultLang: DefaultLanguage,
	}
	for _, opt := range opts {
		opt(t)
	}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("i18n: read %s: %w", dir, err)
	}
	for _, e := range entries {
		ext := path.Ext(e.Name())
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		raw, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", e.Name(), err)
		}
		var tree map[string]any
		if err := yaml.Unmarshal(raw, &tree); err != nil {
			return nil, errors.Join(ErrInvalidCatalog, fmt.Errorf("%s: %w", e.Name(), err))
		}
		flat := map[string]string{}
		flatten("", tree, flat)
		t.catalogs[strings.TrimSuffix(e.Name(), ext)] = flat
	}

	if len(t.catalogs) == 0 {
		return nil, ErrNoCatalogs
	}
	if _, ok := t.catalogs[t.defaultLang]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLanguage, t.defaultLang)
	}

	// The default language goes first so the matcher falls back to it.
	t.tags = []language.Tag{language.Make(t.defaultLang)}
	for lang := range t.catalogs {
		if lang != t.defaultLang {
			t.tags = append(t.tags, language.Make(lang))
		}
	}
	t.matcher = language.NewMatcher(t.tags)
	return t, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case string:
			out[key] = val
		case nil:
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// Languages returns the loaded language codes, default first.
func (t *Translator) Languages() []string {
	out := make([]string, len(t.tags))
	for i, tag := range t.tags {
		out[i] = tag.String()
	}
	return out
}

// Match negotiates an Accept-Language header value against the loaded catalogs.
func (t *Translator) Match(acceptLanguage string) string {
	if acceptLanguage == "" {
		return t.defaultLang
	}
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return t.defaultLang
	}
	_, idx, conf := t.matcher.Match(prefs...)
	if conf == language.No {
		return t.defaultLang
	}
	return t.tags[idx].String()
}

// T translates key into lang, falling back to the default language and
// then to the key itself. args are name/value pairs for %{name} placeholders.
func (t *Translator) T(lang, key string, args ...string) string {
	msg, ok := t.catalogs[lang][key]
	if !ok {
		msg, ok = t.catalogs[t.defaultLang][key]
	}
	if !ok {
		if t.logger != nil {
			t.logger.Warn("missing translation", slog.String("lang", lang), slog.String("key", key))
		}
		msg = key
	}
	return substitute(msg, args)
}

// Has reports whether key exists in lang.
func (t *Translator) Has(lang, key string) bool {
	_, ok := t.catalogs[lang][key]
	return ok
}

func substitute(msg string, args []string) string {
	if len(args) < 2 || !strings.Contains(msg, "%{") {
		return msg
	}
	pairs := make([]string, 0, len(args))
	for i := 0; i+1 < len(args); i += 2 {
		pairs = append(pairs, "%{"+args[i]+"}", args[i+1])
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}
