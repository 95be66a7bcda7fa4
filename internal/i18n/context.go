package i18n

import (
	"context"
	"net/url"
	"strings"
)

// SwitchPath is the endpoint that persists an explicit language choice.
const SwitchPath = "/api/locale"

// Context is the translation state of one request. It is derived from the
// request path and never stored between requests.
type Context struct {
	catalog  *Catalog
	path     string
	language Language
}

// LanguageOption is one entry of the language selector.
type LanguageOption struct {
	Code        Language
	DisplayName string
	Href        string
	Active      bool
}

// NewContext derives the active language from path.
func NewContext(catalog *Catalog, path string) *Context {
	if path == "" {
		path = "/"
	}
	lang, ok := LanguagePrefix(path)
	if !ok {
		lang = DefaultLanguage
	}
	return &Context{catalog: catalog, path: path, language: lang}
}

// Language returns the active language.
func (c *Context) Language() Language {
	return c.language
}

// Path returns the full request path the context was derived from.
func (c *Context) Path() string {
	return c.path
}

// PathWithoutLanguagePrefix drops the active language's prefix when the
// active language is not the default one.
func (c *Context) PathWithoutLanguagePrefix() string {
	if c.language.IsDefault() {
		return c.path
	}
	rest := strings.TrimPrefix(c.path, "/"+string(c.language))
	if rest == "" {
		return "/"
	}
	return rest
}

// RoutePath is the application route with any supported prefix removed.
func (c *Context) RoutePath() string {
	return StripLanguagePrefix(c.path)
}

// T translates key for the active language.
func (c *Context) T(key string) string {
	return c.catalog.Translate(c.language, key)
}

// AdminT translates an admin console key.
func (c *Context) AdminT(key string) string {
	return c.catalog.Translate(c.language, AdminKey(key))
}

// LocalizedPath prefixes path with the active language.
func (c *Context) LocalizedPath(path string) string {
	return LocalizedPath(path, c.language)
}

// LocalizedPathFor prefixes path with lang.
func (c *Context) LocalizedPathFor(path string, lang Language) string {
	return LocalizedPath(path, lang)
}

// Dir is the text direction of the active language.
func (c *Context) Dir() string {
	return c.language.Direction()
}

// HTMLLang is the value of the document lang attribute.
func (c *Context) HTMLLang() string {
	return string(c.language)
}

// IsRTL reports whether the active language is written right to left.
func (c *Context) IsRTL() bool {
	return c.language.Direction() == DirectionRTL
}

// LanguageOptions lists every supported language with a link that switches
// to it while staying on the current route.
func (c *Context) LanguageOptions() []LanguageOption {
	route := c.RoutePath()
	options := make([]LanguageOption, 0, len(supportedLanguages))
	for _, lang := range supportedLanguages {
		query := url.Values{}
		query.Set("lang", string(lang.Code))
		query.Set("next", route)
		options = append(options, LanguageOption{
			Code:        lang.Code,
			DisplayName: lang.DisplayName,
			Href:        SwitchPath + "?" + query.Encode(),
			Active:      lang.Code == c.language,
		})
	}
	return options
}

// ActiveLanguageName returns the display name of the active language.
func (c *Context) ActiveLanguageName() string {
	return c.language.DisplayName()
}

type contextKey struct{}

// WithContext stores tc in ctx.
func WithContext(ctx context.Context, tc *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

// FromContext returns the request's translation context. Without one, a
// default-language context with no dictionaries is returned, so lookups
// still yield their keys.
func FromContext(ctx context.Context) *Context {
	if tc, ok := ctx.Value(contextKey{}).(*Context); ok && tc != nil {
		return tc
	}
	return NewContext(nil, "/")
}
