package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"winwin/internal/backend"
	"winwin/internal/content"
	winwinerrors "winwin/internal/errors"
	"winwin/internal/i18n"
	"winwin/internal/logger"
	"winwin/middleware"
)

type featureCard struct {
	TitleKey       string
	DescriptionKey string
}

var homeFeatures = []featureCard{
	{TitleKey: "multilingualContent", DescriptionKey: "multilingualDescription"},
	{TitleKey: "structuredLearning", DescriptionKey: "structuredDescription"},
	{TitleKey: "communitySupport", DescriptionKey: "communityDescription"},
}

type levelOption struct {
	Value  string
	Key    string
	Href   string
	Active bool
}

type trainingData struct {
	Courses  []content.Course
	Levels   []levelOption
	ErrorKey string
}

type courseData struct {
	Course   content.WithTranslations
	Active   content.Content
	Versions []versionOption
}

type versionOption struct {
	Code   string
	Name   string
	Href   string
	Active bool
}

// RegisterPublicRoutes registers the visitor-facing pages. Paths are the
// unprefixed routes; the i18n middleware maps /{lang}/... onto them.
func RegisterPublicRoutes(router chi.Router, site *Site) {
	router.Get("/", site.Home)
	router.Get("/training", site.Training)
	router.Get("/training/{id}", site.Course)
	router.Post("/training/{id}/download", site.Download)
	router.Get("/support", site.Support)
	router.Get("/media", site.comingSoon("media"))
	router.Get("/partnership", site.comingSoon("partnership"))
	router.NotFound(site.NotFound)
}

// Home renders the landing page.
func (s *Site) Home(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "index.html", View{Title: "home", Section: "home", Data: homeFeatures})
}

// Support renders the contact page.
func (s *Site) Support(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "support.html", View{Title: "supportTitle", Section: "support"})
}

func (s *Site) comingSoon(section string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, r, http.StatusOK, "coming-soon.html", View{Title: section, Section: section})
	}
}

// Training lists the courses available in the active language.
func (s *Site) Training(w http.ResponseWriter, r *http.Request) {
	tc := i18n.FromContext(r.Context())
	level := normalizeLevel(r.URL.Query().Get("level"))
	data := trainingData{Levels: levelOptions(tc, level)}

	items, err := s.backend.ListContent(r.Context(), backend.ContentQuery{Language: string(tc.Language()), Type: content.TypeCourse})
	if err != nil {
		logger.HTTPError(r.Method, r.URL.Path, http.StatusBadGateway, err).
			Str("request_id", middleware.GetRequestID(r.Context())).
			Msg("failed to load courses")
		data.ErrorKey = "failedLoadCourses"
		data.Courses = []content.Course{}
	} else {
		data.Courses = content.MapContentsToCourses(items, level)
	}

	s.logVisit(r, nil)
	s.render(w, r, http.StatusOK, "training.html", View{Title: "training", Section: "training", Data: data})
}

func normalizeLevel(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	switch value {
	case "beginner", "intermediate", "advanced":
		return value
	default:
		return ""
	}
}

func levelOptions(tc *i18n.Context, active string) []levelOption {
	values := []struct{ value, key string }{
		{"", "allCourses"},
		{"beginner", "beginner"},
		{"intermediate", "intermediate"},
		{"advanced", "advanced"},
	}
	options := make([]levelOption, 0, len(values))
	for _, v := range values {
		href := tc.LocalizedPath("/training")
		if v.value != "" {
			href += "?level=" + url.QueryEscape(v.value)
		}
		options = append(options, levelOption{Value: v.value, Key: v.key, Href: href, Active: v.value == active})
	}
	return options
}

// Course renders one course with its language versions.
func (s *Site) Course(w http.ResponseWriter, r *http.Request) {
	id, ok := content.ParseID(chi.URLParam(r, "id"))
	if !ok {
		s.NotFound(w, r)
		return
	}
	course, err := s.loadCourse(r, id)
	if err != nil {
		s.courseError(w, r, id, err)
		return
	}

	tc := i18n.FromContext(r.Context())
	active := course.ActiveVersion(r.URL.Query().Get("version"), string(tc.Language()))
	data := courseData{Course: course, Active: active, Versions: versionOptions(tc, id, course, active)}

	s.logVisit(r, &active.ID)
	s.render(w, r, http.StatusOK, "course.html", View{Title: "courseDetails", Section: "training", Data: data})
}

// Download records the download of the active version and sends the
// browser to its file.
func (s *Site) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := content.ParseID(chi.URLParam(r, "id"))
	if !ok {
		s.NotFound(w, r)
		return
	}
	course, err := s.loadCourse(r, id)
	if err != nil {
		s.courseError(w, r, id, err)
		return
	}

	tc := i18n.FromContext(r.Context())
	requested := r.FormValue("version")
	active := course.ActiveVersion(requested, string(tc.Language()))
	s.logDownload(r, active.ID)

	fileURL := content.ResolveFileURL(s.publicURL, active.FileLink)
	if fileURL == "" {
		back := "/training/" + strconv.Itoa(id)
		if requested != "" {
			back += "?version=" + url.QueryEscape(requested)
		}
		redirectLocalized(w, r, back)
		return
	}
	http.Redirect(w, r, fileURL, http.StatusSeeOther)
}

// loadCourse finds content id: first in the active language, then with all
// of its translations, then through the public listing without a language.
func (s *Site) loadCourse(r *http.Request, id int) (content.WithTranslations, error) {
	ctx := r.Context()
	tc := i18n.FromContext(ctx)
	items, err := s.backend.ListContent(ctx, backend.ContentQuery{Language: string(tc.Language()), ID: id})
	if err == nil && len(items) > 0 {
		return content.WithTranslations{Original: items[0], Translations: []content.Content{}}, nil
	}

	token, _ := s.sessions.Token(r)
	course, err := s.backend.GetContentWithTranslations(ctx, id, token)
	if err == nil {
		return course, nil
	}
	if errors.Is(err, winwinerrors.ErrContentNotFound) {
		return content.WithTranslations{}, err
	}
	logger.Get().Debug().Err(err).Int("content_id", id).Msg("translations unavailable, falling back to public content")

	items, err = s.backend.ListContent(ctx, backend.ContentQuery{ID: id})
	if err != nil {
		return content.WithTranslations{}, err
	}
	if len(items) == 0 {
		return content.WithTranslations{}, winwinerrors.ErrContentNotFound
	}
	return content.WithTranslations{Original: items[0], Translations: []content.Content{}}, nil
}

func (s *Site) courseError(w http.ResponseWriter, r *http.Request, id int, err error) {
	if errors.Is(err, winwinerrors.ErrContentNotFound) {
		s.NotFound(w, r)
		return
	}
	logger.HTTPError(r.Method, r.URL.Path, http.StatusBadGateway, err).
		Str("request_id", middleware.GetRequestID(r.Context())).
		Int("content_id", id).
		Msg("failed to load course")
	s.render(w, r, http.StatusBadGateway, "course.html", View{Title: "errorLoadingCourse", Section: "training", Data: courseData{}})
}

func versionOptions(tc *i18n.Context, id int, course content.WithTranslations, active content.Content) []versionOption {
	versions := course.Versions()
	options := make([]versionOption, 0, len(versions))
	for _, version := range versions {
		code := version.Language.Code
		options = append(options, versionOption{
			Code:   code,
			Name:   version.Language.Name,
			Href:   tc.LocalizedPath("/training/"+strconv.Itoa(id)) + "?version=" + url.QueryEscape(code),
			Active: version.ID == active.ID && code == active.Language.Code,
		})
	}
	return options
}
