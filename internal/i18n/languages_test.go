package i18n_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"winwin/internal/i18n"
)

func TestFromCode(t *testing.T) {
	tests := []struct {
		input    string
		expected i18n.Language
		ok       bool
	}{
		{"en", i18n.LanguageEnglish, true},
		{"fr", i18n.LanguageFrench, true},
		{"ar", i18n.LanguageArabic, true},
		{"pt", i18n.LanguagePortuguese, true},
		{"FR", "", false},
		{"fr-CA", "", false},
		{"de", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := i18n.FromCode(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSupported_OrderAndNames(t *testing.T) {
	langs := i18n.Supported()
	codes := make([]i18n.Language, 0, len(langs))
	for _, lang := range langs {
		codes = append(codes, lang.Code)
		assert.NotEmpty(t, lang.DisplayName)
	}
	assert.Equal(t, []i18n.Language{"en", "fr", "ar", "pt"}, codes)
	assert.Equal(t, "English", i18n.LanguageEnglish.DisplayName())
	assert.Equal(t, "Français", i18n.LanguageFrench.DisplayName())
	assert.Equal(t, "xx", i18n.Language("xx").DisplayName())
}

func TestSupported_ReturnsCopy(t *testing.T) {
	langs := i18n.Supported()
	langs[0].Code = "zz"
	assert.Equal(t, i18n.LanguageEnglish, i18n.Supported()[0].Code)
}

func TestDirection(t *testing.T) {
	assert.Equal(t, i18n.DirectionRTL, i18n.LanguageArabic.Direction())
	for _, lang := range []i18n.Language{i18n.LanguageEnglish, i18n.LanguageFrench, i18n.LanguagePortuguese} {
		assert.Equal(t, i18n.DirectionLTR, lang.Direction(), string(lang))
	}
}

func TestLanguagePrefix(t *testing.T) {
	tests := []struct {
		path     string
		expected i18n.Language
		ok       bool
	}{
		{"/fr/training", i18n.LanguageFrench, true},
		{"/ar", i18n.LanguageArabic, true},
		{"/en/support", i18n.LanguageEnglish, true},
		{"/training", "", false},
		{"/french/x", "", false},
		{"/", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := i18n.LanguagePrefix(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLocalizedPath(t *testing.T) {
	assert.Equal(t, "/training", i18n.LocalizedPath("/training", i18n.LanguageEnglish))
	assert.Equal(t, "/", i18n.LocalizedPath("/", i18n.LanguageEnglish))
	assert.Equal(t, "/fr/training", i18n.LocalizedPath("/training", i18n.LanguageFrench))
	assert.Equal(t, "/ar", i18n.LocalizedPath("/", i18n.LanguageArabic))
	assert.Equal(t, "/pt", i18n.LocalizedPath("", i18n.LanguagePortuguese))
}

func TestStripLanguagePrefix(t *testing.T) {
	assert.Equal(t, "/training", i18n.StripLanguagePrefix("/fr/training"))
	assert.Equal(t, "/", i18n.StripLanguagePrefix("/ar"))
	assert.Equal(t, "/support", i18n.StripLanguagePrefix("/en/support"))
	assert.Equal(t, "/media", i18n.StripLanguagePrefix("/media"))
}
