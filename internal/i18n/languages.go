package i18n

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Language is a supported UI language code.
type Language string

const (
	LanguageEnglish    Language = "en"
	LanguageFrench     Language = "fr"
	LanguageArabic     Language = "ar"
	LanguagePortuguese Language = "pt"
)

// DefaultLanguage is never represented by a URL prefix.
const DefaultLanguage = LanguageEnglish

const (
	DirectionLTR = "ltr"
	DirectionRTL = "rtl"
)

// SupportedLanguage pairs a code with the language's name in itself.
type SupportedLanguage struct {
	Code        Language `json:"code"`
	DisplayName string   `json:"displayName"`
}

var supportedCodes = []Language{LanguageEnglish, LanguageFrench, LanguageArabic, LanguagePortuguese}

var supportedLanguages = buildSupportedLanguages(supportedCodes)

func buildSupportedLanguages(codes []Language) []SupportedLanguage {
	out := make([]SupportedLanguage, 0, len(codes))
	for _, code := range codes {
		out = append(out, SupportedLanguage{Code: code, DisplayName: displayName(code)})
	}
	return out
}

func displayName(code Language) string {
	tag := language.Make(string(code))
	name := display.Self.Name(tag)
	if name == "" {
		return string(code)
	}
	return cases.Title(tag).String(name)
}

// Supported returns the supported languages in display order.
func Supported() []SupportedLanguage {
	out := make([]SupportedLanguage, len(supportedLanguages))
	copy(out, supportedLanguages)
	return out
}

// Codes returns the supported language codes in display order.
func Codes() []Language {
	out := make([]Language, len(supportedCodes))
	copy(out, supportedCodes)
	return out
}

// FromCode returns the language for an exact supported code.
func FromCode(value string) (Language, bool) {
	for _, code := range supportedCodes {
		if string(code) == value {
			return code, true
		}
	}
	return "", false
}

// IsSupported reports whether value is exactly a supported code.
func IsSupported(value string) bool {
	_, ok := FromCode(value)
	return ok
}

// IsDefault reports whether l is the default language.
func (l Language) IsDefault() bool {
	return l == DefaultLanguage
}

// Direction is the text direction used to render l.
func (l Language) Direction() string {
	if l == LanguageArabic {
		return DirectionRTL
	}
	return DirectionLTR
}

// DisplayName returns the language's name in itself, or the code when unknown.
func (l Language) DisplayName() string {
	for _, lang := range supportedLanguages {
		if lang.Code == l {
			return lang.DisplayName
		}
	}
	return string(l)
}

// LanguagePrefix inspects the first path segment and reports whether it is a
// supported code. Both the locale resolver and the translation context use it.
func LanguagePrefix(path string) (Language, bool) {
	segments := strings.Split(path, "/")
	if len(segments) < 2 {
		return "", false
	}
	return FromCode(segments[1])
}

// LocalizedPath prefixes an application path with lang. The default language
// is never prefixed and the root of a prefixed language has no trailing slash.
func LocalizedPath(path string, lang Language) string {
	if path == "" {
		path = "/"
	}
	if lang.IsDefault() {
		return path
	}
	if path == "/" {
		return "/" + string(lang)
	}
	return "/" + string(lang) + path
}

// StripLanguagePrefix removes any supported prefix from path.
func StripLanguagePrefix(path string) string {
	lang, ok := LanguagePrefix(path)
	if !ok {
		return path
	}
	rest := path[len(lang)+1:]
	if rest == "" {
		return "/"
	}
	return rest
}
