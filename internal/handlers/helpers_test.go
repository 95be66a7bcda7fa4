package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"winwin/internal/backend"
	"winwin/internal/content"
	"winwin/internal/handlers"
	"winwin/internal/i18n"
	"winwin/internal/session"
)

const (
	testPublicURL = "https://files.example.com"
	testToken     = "opaque-admin-token"
)

func page(name, body string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(`{{define "content"}}` + name + body + `{{end}}`)}
}

func testWebFS() fstest.MapFS {
	return fstest.MapFS{
		"templates/layout.html": &fstest.MapFile{Data: []byte(
			`<html lang="{{.I18n.HTMLLang}}" dir="{{.I18n.Dir}}"><title>{{if .Admin}}{{.I18n.AdminT .Title}}{{else}}{{.I18n.T .Title}}{{end}}</title>{{template "nav" .}}{{template "content" .}}</html>`,
		)},
		"templates/partials/nav.html": &fstest.MapFile{Data: []byte(`{{define "nav"}}<nav>{{.Section}}</nav>{{end}}`)},
		"templates/pages/index.html":  page("home", `{{range .Data}} {{$.I18n.T .TitleKey}}{{end}}`),
		"templates/pages/training.html": page("training",
			`{{with .Data}}{{if .ErrorKey}} error:{{.ErrorKey}}{{end}}{{range .Courses}} course:{{.Title}}/{{.Level}}{{end}}{{range .Levels}}{{if .Active}} active:{{.Key}}{{end}}{{end}}{{end}}`),
		"templates/pages/course.html": page("course",
			`{{with .Data}} active:{{.Active.Title}} lang:{{.Active.Language.Code}}{{range .Versions}} version:{{.Code}}{{if .Active}}*{{end}}{{end}} {{markdown .Active.Description}}{{end}}`),
		"templates/pages/support.html":     page("support", ""),
		"templates/pages/coming-soon.html": page("coming-soon", ` {{.Section}}`),
		"templates/pages/not-found.html":   page("not-found", ""),
		"templates/pages/admin-login.html": page("admin-login",
			`{{with .Data}}{{if .Expired}} expired{{end}}{{if .ErrorKey}} error:{{.ErrorKey}}{{end}} user:{{.Username}}{{end}}`),
		"templates/pages/admin-dashboard.html": page("admin-dashboard",
			`{{with .Data}} content:{{.ContentCount}} languages:{{.LanguageCount}} visits:{{.TotalVisits}} recent:{{len .Recent}}{{if .ErrorKey}} error:{{.ErrorKey}}{{end}}{{end}}`),
		"templates/pages/admin-content.html": page("admin-content",
			`{{with .Data}}{{range .Items}} item:{{.Title}}{{end}}{{if .Notice}} notice:{{.Notice}}{{end}}{{if .ErrorKey}} error:{{.ErrorKey}}{{end}}{{end}}`),
		"templates/pages/admin-content-form.html": page("admin-content-form",
			`{{with .Data}} id:{{.ID}} title:{{.Payload.Title}}{{range .Payload.Translations}} translation:{{.LanguageID}}{{end}} removed:{{.Payload.RemovedTranslationIDs}}{{if .ErrorKey}} error:{{.ErrorKey}}{{end}}{{end}}`),
		"templates/pages/admin-languages.html": page("admin-languages",
			`{{with .Data}}{{range .Languages}} {{.Code}}{{end}}{{if .ErrorKey}} error:{{.ErrorKey}}{{end}}{{end}}`),
		"templates/pages/admin-stats.html": page("admin-stats",
			`{{with .Data}} total:{{.Stats.TotalVisits}} average:{{.Average}} max:{{.MaxCount}}{{range .Stats.ContentVisits}} bar:{{percent .Count $.Data.MaxCount}}{{end}}{{end}}`),
	}
}

func testCatalog() *i18n.Catalog {
	return i18n.NewCatalog(map[i18n.Language]i18n.Dictionary{
		i18n.LanguageEnglish: {
			"home":                "Home",
			"multilingualContent": "Multilingual content",
			"notFoundTitle":       "Page not found",
			"admin_login":         "Admin login",
			"admin_dashboard":     "Dashboard",
		},
		i18n.LanguageFrench: {
			"home":                "Accueil",
			"multilingualContent": "Contenu multilingue",
		},
	})
}

type fixture struct {
	router   chi.Router
	backend  *backend.MockClient
	site     *handlers.Site
	failures []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	renderer, err := handlers.NewRenderer(testWebFS(), testPublicURL)
	require.NoError(t, err)

	f := &fixture{backend: &backend.MockClient{}}
	f.site = handlers.NewSite(handlers.SiteOptions{
		Backend:          f.backend,
		Renderer:         renderer,
		Sessions:         session.NewManager(session.DefaultCookieName, false),
		PublicURL:        testPublicURL,
		AnalyticsFailure: func(kind string) { f.failures = append(f.failures, kind) },
	})

	router := chi.NewRouter()
	router.Use(i18n.Middleware(testCatalog()))
	handlers.RegisterPublicRoutes(router, f.site)
	handlers.RegisterAdminRoutes(router, f.site, nil)
	f.router = router
	return f
}

func (f *fixture) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	f.site.Wait()
	return rec
}

func (f *fixture) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	return f.do(t, httptest.NewRequest(http.MethodGet, target, nil))
}

func (f *fixture) adminGet(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: testToken})
	return f.do(t, req)
}

func (f *fixture) adminPost(t *testing.T, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: testToken})
	return f.do(t, req)
}

func lang(id int, code, name string) content.Language {
	return content.Language{ID: id, Code: code, Name: name}
}

func sampleCourse() content.WithTranslations {
	return content.WithTranslations{
		Original: content.Content{
			ID: 1, Title: "Leadership", Description: "**Lead** well",
			FileLink: "/uploads/leadership.pdf", Language: lang(1, "en", "English"), Type: content.TypeCourse,
		},
		Translations: []content.Content{
			{ID: 2, Title: "Leadership FR", Description: "Diriger", FileLink: "https://cdn.example.com/fr.pdf", Language: lang(2, "fr", "Français")},
			{ID: 3, Title: "Leadership AR", Description: "قيادة", FileLink: content.NoFile, Language: lang(3, "ar", "العربية")},
		},
	}
}

func intPtr(v int) *int {
	return &v
}
