// Package slug turns page titles into URL-safe ASCII slugs. Cyrillic is
// transliterated, Latin diacritics are stripped, and every other run of
// characters collapses into a single separator.
//
//	slug.Make("Начало работы")  // "nachalo-raboty"
//	slug.Make("Café résumé")    // "cafe-resume"
package slug

import (
	"crypto/rand"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Option configures Make.
type Option func(*config)

type config struct {
	maxLength    int
	separator    string
	suffixLength int
}

// MaxLength caps the slug length, suffix included. Zero means no limit.
func MaxLength(n int) Option {
	return func(c *config) {
		c.maxLength = n
	}
}

// Separator replaces the default "-".
func Separator(s string) Option {
	return func(c *config) {
		c.separator = s
	}
}

// WithSuffix appends a random lowercase alphanumeric suffix of the given length.
func WithSuffix(length int) Option {
	return func(c *config) {
		c.suffixLength = length
	}
}

// cyrillic maps lowercase Russian, Ukrainian and Belarusian letters to
// their Latin transliteration.
var cyrillic = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "e",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "shch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
	'і': "i", 'ї': "yi", 'є': "ye", 'ґ': "g", 'ў': "u",
}

// ligatures covers Latin letters without a canonical decomposition.
var ligatures = map[rune]string{
	'ß': "ss", 'æ': "ae", 'œ': "oe", 'ø': "o", 'đ': "d", 'ł': "l", 'þ': "th",
}

// Make builds a slug from s.
func Make(s string, opts ...Option) string {
	cfg := &config{separator: "-"}
	for _, opt := range opts {
		opt(cfg)
	}

	ascii := toASCII(s)

	var b strings.Builder
	b.Grow(len(ascii))
	pendingSep := false
	for _, r := range ascii {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteString(cfg.separator)
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	result := b.String()

	if cfg.suffixLength > 0 {
		suffixLen := cfg.suffixLength
		if cfg.maxLength > 0 && suffixLen > cfg.maxLength {
			suffixLen = cfg.maxLength
		}
		suffix := randomSuffix(suffixLen)

		room := -1
		if cfg.maxLength > 0 {
			room = cfg.maxLength - suffixLen - len(cfg.separator)
		}
		if cfg.maxLength > 0 && room <= 0 {
			return suffix
		}
		result = truncate(result, room, cfg.separator)
		if result == "" {
			return suffix
		}
		return result + cfg.separator + suffix
	}

	if cfg.maxLength > 0 {
		result = truncate(result, cfg.maxLength, cfg.separator)
	}
	return result
}

// toASCII lowercases s, transliterates Cyrillic and drops combining marks.
func toASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if t, ok := cyrillic[r]; ok {
			b.WriteString(t)
			continue
		}
		if t, ok := ligatures[r]; ok {
			b.WriteString(t)
			continue
		}
		b.WriteRune(r)
	}

	stripped, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		b.String(),
	)
	if err != nil {
		return b.String()
	}
	return stripped
}

// truncate cuts an ASCII slug to n bytes without leaving a trailing separator.
// A negative n means no limit.
func truncate(s string, n int, sep string) string {
	if n < 0 || len(s) <= n {
		return s
	}
	s = s[:n]
	for sep != "" && strings.HasSuffix(s, sep) {
		s = strings.TrimSuffix(s, sep)
	}
	return s
}

func randomSuffix(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"

	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		for i := range b {
			b[i] = charset[i%len(charset)]
		}
		return string(b)
	}
	for i := range b {
		b[i] = charset[int(b[i])%len(charset)]
	}
	return string(b)
}
