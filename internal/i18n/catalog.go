package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	winwinerrors "winwin/internal/errors"
)

//go:embed locales/*.yaml
var embeddedLocales embed.FS

// FallbackTier names the dictionary that finally answered a lookup.
type FallbackTier string

const (
	TierDefault FallbackTier = "default"
	TierKey     FallbackTier = "key"
)

// FallbackObserver is told about every lookup the active dictionary could not answer.
type FallbackObserver func(language Language, key string, tier FallbackTier)

// Dictionary maps translation keys to text for one language.
type Dictionary map[string]string

// Catalog holds one dictionary per supported language. It is built once at
// startup and only read afterwards.
type Catalog struct {
	dictionaries map[Language]Dictionary
	observer     FallbackObserver
}

// LoadEmbedded loads the dictionaries compiled into the binary.
func LoadEmbedded() (*Catalog, error) {
	return LoadFromFS(embeddedLocales)
}

// LoadFromFS reads locales/<code>.yaml for every supported language.
func LoadFromFS(fsys fs.FS) (*Catalog, error) {
	catalog := &Catalog{dictionaries: make(map[Language]Dictionary, len(supportedCodes))}
	for _, code := range supportedCodes {
		path := fmt.Sprintf("locales/%s.yaml", code)
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", winwinerrors.ErrMissingDictionary, code, err)
		}
		var dictionary Dictionary
		if err := yaml.Unmarshal(data, &dictionary); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if dictionary == nil {
			dictionary = Dictionary{}
		}
		catalog.dictionaries[code] = dictionary
	}
	if len(catalog.dictionaries[DefaultLanguage]) == 0 {
		return nil, fmt.Errorf("%w: default language %s is empty", winwinerrors.ErrMissingDictionary, DefaultLanguage)
	}
	return catalog, nil
}

// NewCatalog builds a catalog from in-memory dictionaries. Supported
// languages without an entry get an empty dictionary.
func NewCatalog(dictionaries map[Language]Dictionary) *Catalog {
	catalog := &Catalog{dictionaries: make(map[Language]Dictionary, len(supportedCodes))}
	for _, code := range supportedCodes {
		dictionary := Dictionary{}
		for key, value := range dictionaries[code] {
			dictionary[key] = value
		}
		catalog.dictionaries[code] = dictionary
	}
	return catalog
}

// WithObserver returns a catalog sharing c's dictionaries that reports fallbacks to observer.
func (c *Catalog) WithObserver(observer FallbackObserver) *Catalog {
	return &Catalog{dictionaries: c.dictionaries, observer: observer}
}

// Lookup returns the text for key in lang's own dictionary only.
func (c *Catalog) Lookup(lang Language, key string) (string, bool) {
	if c == nil {
		return "", false
	}
	value, ok := c.dictionaries[lang][key]
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// Translate resolves key in lang, then in the default language, then returns
// the key itself. The result is never empty for a non-empty key.
func (c *Catalog) Translate(lang Language, key string) string {
	if value, ok := c.Lookup(lang, key); ok {
		return value
	}
	if value, ok := c.Lookup(DefaultLanguage, key); ok {
		c.notify(lang, key, TierDefault)
		return value
	}
	c.notify(lang, key, TierKey)
	return key
}

func (c *Catalog) notify(lang Language, key string, tier FallbackTier) {
	if c == nil || c.observer == nil {
		return
	}
	if tier == TierDefault && lang == DefaultLanguage {
		return
	}
	c.observer(lang, key, tier)
}

// Messages returns the effective dictionary for lang: the default
// dictionary overlaid with lang's own entries.
func (c *Catalog) Messages(lang Language) map[string]string {
	out := make(map[string]string)
	if c == nil {
		return out
	}
	for key, value := range c.dictionaries[DefaultLanguage] {
		if value != "" {
			out[key] = value
		}
	}
	for key, value := range c.dictionaries[lang] {
		if value != "" {
			out[key] = value
		}
	}
	return out
}

// Keys returns the default dictionary's keys in sorted order.
func (c *Catalog) Keys() []string {
	if c == nil {
		return nil
	}
	keys := make([]string, 0, len(c.dictionaries[DefaultLanguage]))
	for key := range c.dictionaries[DefaultLanguage] {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// MissingKeys lists default-language keys that lang does not translate.
func (c *Catalog) MissingKeys(lang Language) []string {
	missing := make([]string, 0)
	for _, key := range c.Keys() {
		if _, ok := c.Lookup(lang, key); !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// AdminKey maps an admin console key onto the admin_ namespace.
func AdminKey(key string) string {
	if strings.HasPrefix(key, "admin_") || key == "language" {
		return key
	}
	return "admin_" + key
}
