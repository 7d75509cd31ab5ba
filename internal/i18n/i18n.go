// Package i18n loads the static translation bundles shipped with the portal.
package i18n

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const Fallback = "en"

//go:embed locales/*.yaml
var files embed.FS

type Bundle struct {
	messages map[string]map[string]string
	codes    []string
	matcher  language.Matcher
}

// Load parses every embedded locale file.
func Load() (*Bundle, error) {
	entries, err := files.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}

	b := &Bundle{messages: make(map[string]map[string]string)}
	for _, entry := range entries {
		raw, err := files.ReadFile(path.Join("locales", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		var tree map[string]any
		if err := yaml.Unmarshal(raw, &tree); err != nil {
			return nil, fmt.Errorf("parse %s: %w", entry.Name(), err)
		}
		flat := make(map[string]string)
		flatten("", tree, flat)
		b.messages[strings.TrimSuffix(entry.Name(), ".yaml")] = flat
	}

	// The fallback goes first so it wins ties.
	b.codes = b.Locales()
	sort.Slice(b.codes, func(i, j int) bool {
		if b.codes[i] == Fallback || b.codes[j] == Fallback {
			return b.codes[i] == Fallback
		}
		return b.codes[i] < b.codes[j]
	})
	tags := make([]language.Tag, len(b.codes))
	for i, code := range b.codes {
		tags[i] = language.Make(code)
	}
	b.matcher = language.NewMatcher(tags)
	return b, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for key, value := range node {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch v := value.(type) {
		case map[string]any:
			flatten(full, v, out)
		case string:
			out[full] = v
		default:
			out[full] = fmt.Sprint(v)
		}
	}
}

// Locales lists the loaded locale codes.
func (b *Bundle) Locales() []string {
	locales := make([]string, 0, len(b.messages))
	for locale := range b.messages {
		locales = append(locales, locale)
	}
	return locales
}

// Has reports whether locale is loaded.
func (b *Bundle) Has(locale string) bool {
	_, ok := b.messages[Normalize(locale)]
	return ok
}

// T translates key, formatting args into the message when given. Missing
// keys fall back to English, then to the key itself.
func (b *Bundle) T(locale, key string, args ...any) string {
	msg, ok := b.messages[Normalize(locale)][key]
	if !ok {
		msg, ok = b.messages[Fallback][key]
	}
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// Normalize turns "vi-VN" or "VI_vn" into "vi".
func Normalize(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		locale = locale[:i]
	}
	return locale
}

// FromAcceptLanguage picks the loaded locale that best matches an
// Accept-Language header, honouring q-weights, or def.
func (b *Bundle) FromAcceptLanguage(header, def string) string {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return def
	}
	_, index, confidence := b.matcher.Match(tags...)
	if confidence == language.No {
		return def
	}
	return b.codes[index]
}
