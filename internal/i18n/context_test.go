package i18n_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"winwin/internal/i18n"
)

func TestNewContext_Language(t *testing.T) {
	tests := []struct {
		path     string
		expected i18n.Language
	}{
		{"/", i18n.LanguageEnglish},
		{"", i18n.LanguageEnglish},
		{"/training", i18n.LanguageEnglish},
		{"/fr/training", i18n.LanguageFrench},
		{"/ar", i18n.LanguageArabic},
		{"/pt/support", i18n.LanguagePortuguese},
		{"/de/training", i18n.LanguageEnglish},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, i18n.NewContext(testCatalog(), tt.path).Language())
		})
	}
}

func TestContext_PathWithoutLanguagePrefix(t *testing.T) {
	assert.Equal(t, "/training", i18n.NewContext(nil, "/fr/training").PathWithoutLanguagePrefix())
	assert.Equal(t, "/", i18n.NewContext(nil, "/ar").PathWithoutLanguagePrefix())
	assert.Equal(t, "/training", i18n.NewContext(nil, "/training").PathWithoutLanguagePrefix())
	assert.Equal(t, "/en/training", i18n.NewContext(nil, "/en/training").PathWithoutLanguagePrefix())
}

func TestContext_RoutePath(t *testing.T) {
	assert.Equal(t, "/training", i18n.NewContext(nil, "/en/training").RoutePath())
	assert.Equal(t, "/training/7", i18n.NewContext(nil, "/pt/training/7").RoutePath())
	assert.Equal(t, "/", i18n.NewContext(nil, "/fr").RoutePath())
}

func TestContext_T(t *testing.T) {
	tc := i18n.NewContext(testCatalog(), "/fr/training")
	assert.Equal(t, "Accueil", tc.T("home"))
	assert.Equal(t, "Training", tc.T("training"))
	assert.Equal(t, "nonexistentKey", tc.T("nonexistentKey"))
}

func TestContext_AdminT(t *testing.T) {
	tc := i18n.NewContext(testCatalog(), "/fr/admin")
	assert.Equal(t, "Tableau de bord", tc.AdminT("dashboard"))
	assert.Equal(t, "Tableau de bord", tc.AdminT("admin_dashboard"))
	assert.Equal(t, "Log out", tc.AdminT("logout"))
	assert.Equal(t, "Language", tc.AdminT("language"))
	assert.Equal(t, "admin_unknown", tc.AdminT("unknown"))
}

func TestContext_LocalizedPath(t *testing.T) {
	fr := i18n.NewContext(nil, "/fr/training")
	assert.Equal(t, "/fr/support", fr.LocalizedPath("/support"))
	assert.Equal(t, "/fr", fr.LocalizedPath("/"))
	assert.Equal(t, "/support", fr.LocalizedPathFor("/support", i18n.LanguageEnglish))
	assert.Equal(t, "/ar/support", fr.LocalizedPathFor("/support", i18n.LanguageArabic))

	en := i18n.NewContext(nil, "/training")
	assert.Equal(t, "/support", en.LocalizedPath("/support"))
}

func TestContext_Direction(t *testing.T) {
	ar := i18n.NewContext(nil, "/ar/training")
	assert.Equal(t, "rtl", ar.Dir())
	assert.True(t, ar.IsRTL())
	assert.Equal(t, "ar", ar.HTMLLang())

	fr := i18n.NewContext(nil, "/fr")
	assert.Equal(t, "ltr", fr.Dir())
	assert.False(t, fr.IsRTL())
}

func TestContext_LanguageOptions(t *testing.T) {
	tc := i18n.NewContext(nil, "/fr/training")
	options := tc.LanguageOptions()
	assert.Len(t, options, 4)

	var active []i18n.Language
	for _, opt := range options {
		if opt.Active {
			active = append(active, opt.Code)
		}
	}
	assert.Equal(t, []i18n.Language{i18n.LanguageFrench}, active)
	assert.Equal(t, "/api/locale?lang=ar&next=%2Ftraining", options[2].Href)
	assert.Equal(t, "Français", tc.ActiveLanguageName())
}

func TestFromContext(t *testing.T) {
	tc := i18n.NewContext(testCatalog(), "/pt")
	ctx := i18n.WithContext(context.Background(), tc)
	assert.Same(t, tc, i18n.FromContext(ctx))

	fallback := i18n.FromContext(context.Background())
	assert.Equal(t, i18n.LanguageEnglish, fallback.Language())
	assert.Equal(t, "home", fallback.T("home"))
}
