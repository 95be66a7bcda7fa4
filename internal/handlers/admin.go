package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"winwin/internal/backend"
	"winwin/internal/content"
	winwinerrors "winwin/internal/errors"
	"winwin/internal/logger"
	"winwin/internal/validation"
	"winwin/middleware"
)

const (
	recentContentCount = 5
	maxFormMemory      = 8 << 20
)

var contentTypes = []string{content.TypeCourse, content.TypeModule}

type adminTokenKey struct{}

type loginData struct {
	Username string
	Expired  bool
	ErrorKey string
}

type dashboardData struct {
	ContentCount  int
	LanguageCount int
	TotalVisits   int
	Recent        []content.Content
	ErrorKey      string
}

type contentListData struct {
	Items     []content.Content
	Languages []content.Language
	Types     []string
	Lang      string
	Type      string
	Query     string
	Notice    string
	ErrorKey  string
}

type contentFormData struct {
	ID        int
	Payload   content.Payload
	Languages []content.Language
	Types     []string
	ErrorKey  string
}

type languagesData struct {
	Languages []content.Language
	ErrorKey  string
}

type statsData struct {
	Stats        content.VisitStats
	ContentCount int
	Average      float64
	MaxCount     int
	ErrorKey     string
}

// RegisterAdminRoutes registers the admin console. loginLimiter throttles
// credential submissions and may be nil.
func RegisterAdminRoutes(router chi.Router, site *Site, loginLimiter func(http.Handler) http.Handler) {
	if loginLimiter == nil {
		loginLimiter = func(next http.Handler) http.Handler { return next }
	}
	router.Route("/admin", func(r chi.Router) {
		r.Use(middleware.CSRFProtection)

		r.Get("/login", site.AdminLoginPage)
		r.With(loginLimiter).Post("/login", site.AdminLogin)
		r.Post("/logout", site.AdminLogout)
		r.Post("/upload", site.AdminUpload)

		r.Group(func(r chi.Router) {
			r.Use(site.requireAdmin)
			r.Get("/", site.AdminDashboard)
			r.Get("/content", site.AdminContentList)
			r.Get("/content/new", site.AdminContentNew)
			r.Post("/content/new", site.AdminContentSave)
			r.Get("/content/{id}/edit", site.AdminContentEdit)
			r.Post("/content/{id}/edit", site.AdminContentSave)
			r.Post("/content/{id}/delete", site.AdminContentDelete)
			r.Get("/languages", site.AdminLanguages)
			r.Get("/stats", site.AdminStats)
		})
	})
}

// requireAdmin lets requests with a live admin token through and sends
// everybody else to the login page.
func (s *Site) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := s.sessions.Token(r)
		if !ok {
			redirectLocalized(w, r, "/admin/login")
			return
		}
		ctx := context.WithValue(r.Context(), adminTokenKey{}, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func adminToken(r *http.Request) string {
	token, _ := r.Context().Value(adminTokenKey{}).(string)
	return token
}

// sessionEnded handles a rejected or missing token by clearing the cookie
// and returning to the login page. It reports whether it responded.
func (s *Site) sessionEnded(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, winwinerrors.ErrSessionExpired) && !errors.Is(err, winwinerrors.ErrTokenMissing) {
		return false
	}
	s.sessions.Clear(w)
	redirectLocalized(w, r, "/admin/login?expired=1")
	return true
}

func (s *Site) logAdminError(r *http.Request, err error, msg string) {
	logger.HTTPError(r.Method, r.URL.Path, http.StatusBadGateway, err).
		Str("request_id", middleware.GetRequestID(r.Context())).
		Msg(msg)
}

// AdminLoginPage shows the login form, or the dashboard when already signed in.
func (s *Site) AdminLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.sessions.Token(r); ok {
		redirectLocalized(w, r, "/admin")
		return
	}
	data := loginData{Expired: r.URL.Query().Get("expired") != ""}
	s.render(w, r, http.StatusOK, "admin-login.html", View{Title: "admin_login", Admin: true, Data: data})
}

// AdminLogin exchanges credentials for a backend token.
func (s *Site) AdminLogin(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	data := loginData{Username: username}

	if err := validation.ValidateCredentials(username, password); err != nil {
		data.ErrorKey = "credentialsRequired"
		s.render(w, r, http.StatusBadRequest, "admin-login.html", View{Title: "admin_login", Admin: true, Data: data})
		return
	}

	token, err := s.backend.Login(r.Context(), username, password)
	if err != nil {
		status := http.StatusBadGateway
		data.ErrorKey = "loginFailed"
		if errors.Is(err, winwinerrors.ErrInvalidCredentials) {
			status = http.StatusUnauthorized
			data.ErrorKey = "invalidCredentials"
		} else {
			s.logAdminError(r, err, "admin login failed")
		}
		s.render(w, r, status, "admin-login.html", View{Title: "admin_login", Admin: true, Data: data})
		return
	}

	s.sessions.Set(w, token)
	logger.Get().Info().
		Str("request_id", middleware.GetRequestID(r.Context())).
		Str("username", username).
		Msg("admin signed in")
	redirectLocalized(w, r, "/admin")
}

// AdminLogout forgets the admin token.
func (s *Site) AdminLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Clear(w)
	redirectLocalized(w, r, "/admin/login")
}

// AdminDashboard shows content, language and visit totals.
func (s *Site) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := adminToken(r)
	data := dashboardData{}

	items, err := s.backend.AdminListContent(ctx, token, backend.ContentQuery{})
	if s.sessionEnded(w, r, err) {
		return
	}
	if err != nil {
		s.logAdminError(r, err, "failed to load dashboard content")
		data.ErrorKey = "failedLoadContent"
	}
	data.ContentCount = len(items)
	data.Recent = recentContent(items, recentContentCount)

	if languages, err := s.backend.ListLanguages(ctx); err == nil {
		data.LanguageCount = len(languages)
	} else if data.ErrorKey == "" {
		s.logAdminError(r, err, "failed to load languages")
		data.ErrorKey = "failedLoadLanguages"
	}

	stats, err := s.backend.VisitStats(ctx, token)
	if s.sessionEnded(w, r, err) {
		return
	}
	if err != nil && data.ErrorKey == "" {
		s.logAdminError(r, err, "failed to load visit stats")
		data.ErrorKey = "failedLoadStats"
	}
	data.TotalVisits = stats.TotalVisits

	s.render(w, r, http.StatusOK, "admin-dashboard.html", View{Title: "admin_dashboard", Section: "dashboard", Admin: true, Data: data})
}

// recentContent returns the n most recently updated items.
func recentContent(items []content.Content, n int) []content.Content {
	sorted := make([]content.Content, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UpdatedAt > sorted[j].UpdatedAt
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// AdminContentList lists content with language, type and text filters.
func (s *Site) AdminContentList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()
	data := contentListData{
		Types:  contentTypes,
		Lang:   strings.TrimSpace(query.Get("lang")),
		Type:   strings.TrimSpace(query.Get("type")),
		Query:  strings.TrimSpace(query.Get("q")),
		Notice: listNotice(query.Get("saved"), query.Get("deleted")),
	}
	if query.Get("failed") == "delete" {
		data.ErrorKey = "failedDeleteContent"
	}

	items, err := s.backend.AdminListContent(ctx, adminToken(r), backend.ContentQuery{Language: data.Lang, Type: data.Type})
	if s.sessionEnded(w, r, err) {
		return
	}
	if err != nil {
		s.logAdminError(r, err, "failed to load content")
		data.ErrorKey = "failedLoadContent"
	}
	data.Items = filterContent(items, data.Query)

	if languages, err := s.backend.ListLanguages(ctx); err == nil {
		data.Languages = languages
	}

	s.render(w, r, http.StatusOK, "admin-content.html", View{Title: "admin_contentManagement", Section: "content", Admin: true, Data: data})
}

func listNotice(saved, deleted string) string {
	switch {
	case saved != "":
		return "saved"
	case deleted != "":
		return "deleted"
	default:
		return ""
	}
}

// filterContent keeps items whose title or description contains query,
// ignoring case.
func filterContent(items []content.Content, query string) []content.Content {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]content.Content, 0, len(items))
	for _, item := range items {
		if query == "" ||
			strings.Contains(strings.ToLower(item.Title), query) ||
			strings.Contains(strings.ToLower(item.Description), query) {
			out = append(out, item)
		}
	}
	return out
}

// AdminContentNew shows an empty content form.
func (s *Site) AdminContentNew(w http.ResponseWriter, r *http.Request) {
	data := contentFormData{
		Payload: content.Payload{Type: content.TypeCourse, IsOriginal: true, RemovedTranslationIDs: []int{}},
	}
	s.renderContentForm(w, r, http.StatusOK, data)
}

// AdminContentEdit loads content and its translations into the form.
func (s *Site) AdminContentEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := content.ParseID(chi.URLParam(r, "id"))
	if !ok {
		s.NotFound(w, r)
		return
	}
	loaded, err := s.backend.GetContentWithTranslations(r.Context(), id, adminToken(r))
	if s.sessionEnded(w, r, err) {
		return
	}
	if errors.Is(err, winwinerrors.ErrContentNotFound) {
		s.NotFound(w, r)
		return
	}
	data := contentFormData{ID: id}
	if err != nil {
		s.logAdminError(r, err, "failed to load content for editing")
		data.ErrorKey = "failedLoadContent"
		s.renderContentForm(w, r, http.StatusBadGateway, data)
		return
	}
	data.Payload = content.PayloadFrom(loaded)
	s.renderContentForm(w, r, http.StatusOK, data)
}

func (s *Site) renderContentForm(w http.ResponseWriter, r *http.Request, status int, data contentFormData) {
	data.Types = contentTypes
	if data.Languages == nil {
		languages, err := s.backend.ListLanguages(r.Context())
		if err != nil {
			s.logAdminError(r, err, "failed to load languages")
			if data.ErrorKey == "" {
				data.ErrorKey = "failedLoadLanguages"
			}
		}
		data.Languages = languages
	}
	title := "admin_createContent"
	if data.ID > 0 {
		title = "admin_editContent"
	}
	s.render(w, r, status, "admin-content-form.html", View{Title: title, Section: "content", Admin: true, Data: data})
}

// AdminContentSave handles every submit of the content form: adding or
// removing a translation row re-renders the form, saving creates or updates.
func (s *Site) AdminContentSave(w http.ResponseWriter, r *http.Request) {
	data := contentFormData{}
	if raw := chi.URLParam(r, "id"); raw != "" {
		id, ok := content.ParseID(raw)
		if !ok {
			s.NotFound(w, r)
			return
		}
		data.ID = id
	}

	payload, err := parseContentForm(r)
	if err != nil {
		data.ErrorKey = "failedSaveContent"
		s.renderContentForm(w, r, http.StatusBadRequest, data)
		return
	}
	data.Payload = payload

	action := r.PostFormValue("action")
	switch {
	case action == "add_translation":
		s.addTranslation(w, r, data)
		return
	case strings.HasPrefix(action, "remove_translation:"):
		index, convErr := strconv.Atoi(strings.TrimPrefix(action, "remove_translation:"))
		data.Payload = removeTranslation(data.Payload, index)
		if convErr != nil {
			data.ErrorKey = "failedSaveContent"
		}
		s.renderContentForm(w, r, http.StatusOK, data)
		return
	}

	token := adminToken(r)
	if err := s.attachUploads(r, token, &data.Payload); err != nil {
		if s.sessionEnded(w, r, err) {
			return
		}
		data.ErrorKey = errorKey(err, "failedUpload")
		if data.ErrorKey == "failedUpload" {
			s.logAdminError(r, err, "failed to upload content file")
		}
		s.renderContentForm(w, r, http.StatusBadRequest, data)
		return
	}

	data.Payload = validation.NormalizeContentPayload(data.Payload)
	if err := validation.ValidateContentPayload(data.Payload); err != nil {
		data.ErrorKey = errorKey(err, "failedSaveContent")
		s.renderContentForm(w, r, http.StatusUnprocessableEntity, data)
		return
	}

	if data.ID > 0 {
		err = s.backend.UpdateContent(r.Context(), token, data.ID, data.Payload)
	} else {
		err = s.backend.CreateContent(r.Context(), token, data.Payload)
	}
	if s.sessionEnded(w, r, err) {
		return
	}
	if err != nil {
		s.logAdminError(r, err, "failed to save content")
		data.ErrorKey = "failedSaveContent"
		s.renderContentForm(w, r, http.StatusBadGateway, data)
		return
	}

	logger.Get().Info().
		Str("request_id", middleware.GetRequestID(r.Context())).
		Int("content_id", data.ID).
		Str("title", data.Payload.Title).
		Msg("content saved")
	redirectLocalized(w, r, "/admin/content?saved=1")
}

func (s *Site) addTranslation(w http.ResponseWriter, r *http.Request, data contentFormData) {
	languages, err := s.backend.ListLanguages(r.Context())
	if err != nil {
		s.logAdminError(r, err, "failed to load languages")
		data.ErrorKey = "failedLoadLanguages"
		s.renderContentForm(w, r, http.StatusBadGateway, data)
		return
	}
	data.Languages = languages
	next, err := validation.NextAvailableLanguage(languages, data.Payload.UsedLanguageIDs())
	if err != nil {
		data.ErrorKey = "allLanguagesUsed"
	} else {
		data.Payload.Translations = append(data.Payload.Translations, content.TranslationPayload{LanguageID: next.ID})
	}
	s.renderContentForm(w, r, http.StatusOK, data)
}

// removeTranslation drops row index and remembers its id for the backend.
func removeTranslation(p content.Payload, index int) content.Payload {
	if index < 0 || index >= len(p.Translations) {
		return p
	}
	if id := p.Translations[index].ID; id != nil {
		p.RemovedTranslationIDs = append(p.RemovedTranslationIDs, *id)
	}
	p.Translations = append(p.Translations[:index:index], p.Translations[index+1:]...)
	return p
}

// parseContentForm reads the content form. Translation rows arrive as
// parallel translation_* fields.
func parseContentForm(r *http.Request) (content.Payload, error) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return content.Payload{}, fmt.Errorf("failed to parse content form: %w", err)
	}
	form := r.PostForm
	p := content.Payload{
		Title:                 form.Get("title"),
		Description:           form.Get("description"),
		FileLink:              form.Get("file_link"),
		LanguageID:            atoi(form.Get("language_id")),
		Type:                  form.Get("type"),
		IsOriginal:            form.Get("is_original") != "",
		RemovedTranslationIDs: []int{},
	}
	for _, raw := range form["removed_translation_ids"] {
		if id, ok := content.ParseID(raw); ok {
			p.RemovedTranslationIDs = append(p.RemovedTranslationIDs, id)
		}
	}

	languageIDs := form["translation_language_id"]
	ids := form["translation_id"]
	titles := form["translation_title"]
	descriptions := form["translation_description"]
	links := form["translation_file_link"]
	p.Translations = make([]content.TranslationPayload, 0, len(languageIDs))
	for i, rawLanguage := range languageIDs {
		t := content.TranslationPayload{
			Title:       valueAt(titles, i),
			Description: valueAt(descriptions, i),
			FileLink:    valueAt(links, i),
			LanguageID:  atoi(rawLanguage),
		}
		if id, ok := content.ParseID(valueAt(ids, i)); ok {
			t.ID = &id
		}
		p.Translations = append(p.Translations, t)
	}
	return p, nil
}

// attachUploads uploads files picked in the form and stores their URLs in
// the matching file_link fields.
func (s *Site) attachUploads(r *http.Request, token string, p *content.Payload) error {
	if r.MultipartForm == nil {
		return nil
	}
	upload := func(field string) (string, bool, error) {
		headers := r.MultipartForm.File[field]
		if len(headers) == 0 || headers[0].Filename == "" || headers[0].Size == 0 {
			return "", false, nil
		}
		header := headers[0]
		if err := validation.ValidateUploadFilename(header.Filename); err != nil {
			return "", false, err
		}
		file, err := header.Open()
		if err != nil {
			return "", false, fmt.Errorf("failed to open upload: %w", err)
		}
		defer file.Close()
		fileURL, err := s.backend.UploadFile(r.Context(), token, header.Filename, file)
		if err != nil {
			return "", false, err
		}
		return fileURL, true, nil
	}

	if fileURL, ok, err := upload("file"); err != nil {
		return err
	} else if ok {
		p.FileLink = fileURL
	}
	for i := range p.Translations {
		fileURL, ok, err := upload("translation_file_" + strconv.Itoa(i))
		if err != nil {
			return err
		}
		if ok {
			p.Translations[i].FileLink = fileURL
		}
	}
	return nil
}

// AdminContentDelete removes content and returns to the list.
func (s *Site) AdminContentDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := content.ParseID(chi.URLParam(r, "id"))
	if !ok {
		s.NotFound(w, r)
		return
	}
	err := s.backend.DeleteContent(r.Context(), adminToken(r), id)
	if s.sessionEnded(w, r, err) {
		return
	}
	if err != nil {
		s.logAdminError(r, err, "failed to delete content")
		redirectLocalized(w, r, "/admin/content?failed=delete")
		return
	}
	logger.Get().Info().
		Str("request_id", middleware.GetRequestID(r.Context())).
		Int("content_id", id).
		Msg("content deleted")
	redirectLocalized(w, r, "/admin/content?deleted=1")
}

// AdminLanguages lists the backend's languages.
func (s *Site) AdminLanguages(w http.ResponseWriter, r *http.Request) {
	data := languagesData{}
	languages, err := s.backend.ListLanguages(r.Context())
	if err != nil {
		s.logAdminError(r, err, "failed to load languages")
		data.ErrorKey = "failedLoadLanguages"
	}
	data.Languages = languages
	s.render(w, r, http.StatusOK, "admin-languages.html", View{Title: "admin_languages", Section: "languages", Admin: true, Data: data})
}

// AdminStats shows visit totals and their distribution over content.
func (s *Site) AdminStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := adminToken(r)
	data := statsData{}

	stats, err := s.backend.VisitStats(ctx, token)
	if s.sessionEnded(w, r, err) {
		return
	}
	if err != nil {
		s.logAdminError(r, err, "failed to load visit stats")
		data.ErrorKey = "failedLoadStats"
	}
	items, err := s.backend.AdminListContent(ctx, token, backend.ContentQuery{})
	if s.sessionEnded(w, r, err) {
		return
	}
	if err != nil && data.ErrorKey == "" {
		s.logAdminError(r, err, "failed to load content")
		data.ErrorKey = "failedLoadContent"
	}

	data.Stats = stats
	data.ContentCount = len(items)
	data.Average = stats.AveragePerContent(len(items))
	data.MaxCount = stats.MaxCount()
	s.render(w, r, http.StatusOK, "admin-stats.html", View{Title: "admin_statistics", Section: "stats", Admin: true, Data: data})
}

// AdminUpload forwards one multipart file to the backend and answers with
// its URL as JSON.
func (s *Site) AdminUpload(w http.ResponseWriter, r *http.Request) {
	token, ok := s.sessions.Token(r)
	if !ok {
		writeJSONError(w, r, http.StatusUnauthorized, winwinerrors.ErrSessionExpired)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, r, http.StatusBadRequest, winwinerrors.ErrFileRequired)
		return
	}
	defer file.Close()
	if err := validation.ValidateUploadFilename(header.Filename); err != nil {
		writeJSONError(w, r, http.StatusBadRequest, err)
		return
	}

	fileURL, err := s.backend.UploadFile(r.Context(), token, header.Filename, file)
	switch {
	case errors.Is(err, winwinerrors.ErrSessionExpired):
		s.sessions.Clear(w)
		writeJSONError(w, r, http.StatusUnauthorized, err)
		return
	case err != nil:
		s.logAdminError(r, err, "failed to upload file")
		writeJSONError(w, r, http.StatusBadGateway, errors.New("upload failed"))
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"file_url": fileURL})
}

// errorKey maps validation and upload errors to admin translation keys.
func errorKey(err error, fallback string) string {
	switch {
	case errors.Is(err, winwinerrors.ErrTitleRequired):
		return "titleRequired"
	case errors.Is(err, winwinerrors.ErrLanguageRequired):
		return "languageRequired"
	case errors.Is(err, winwinerrors.ErrDuplicateLanguage):
		return "duplicateLanguage"
	case errors.Is(err, winwinerrors.ErrUnsupportedFileType):
		return "unsupportedFileType"
	case errors.Is(err, winwinerrors.ErrNoLanguageAvailable):
		return "allLanguagesUsed"
	default:
		return fallback
	}
}

func atoi(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return n
}

func valueAt(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}
