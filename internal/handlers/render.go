package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"time"

	"winwin/internal/i18n"
	"winwin/internal/logger"
	"winwin/middleware"
)

const layoutTemplate = "layout.html"

// View is what a handler hands to the layout.
type View struct {
	Title   string // translation key
	Section string // active navigation entry
	Admin   bool
	Data    any
}

type pageData struct {
	View
	I18n      *i18n.Context
	RequestID string
	Year      int
}

// Renderer executes page templates inside the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses templates/layout.html and templates/partials/*.html,
// then one template set per file in templates/pages/.
func NewRenderer(webFS fs.FS, publicURL string) (*Renderer, error) {
	base, err := template.New(layoutTemplate).
		Funcs(templateFuncMap(publicURL)).
		ParseFS(webFS, "templates/"+layoutTemplate, "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout templates: %w", err)
	}
	files, err := fs.Glob(webFS, "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list page templates: %w", err)
	}
	renderer := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		page, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layout for %s: %w", file, err)
		}
		if _, err := page.ParseFS(webFS, file); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}
		renderer.pages[path.Base(file)] = page
	}
	return renderer, nil
}

// Has reports whether page was loaded.
func (rd *Renderer) Has(page string) bool {
	_, ok := rd.pages[page]
	return ok
}

// Render writes page with status. The page is rendered to a buffer first so
// that a template failure still produces a clean 500.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, page string, view View) {
	requestID := middleware.GetRequestID(r.Context())
	tmpl, ok := rd.pages[page]
	if !ok {
		logger.HTTPError(r.Method, r.URL.Path, http.StatusInternalServerError, fmt.Errorf("unknown page %q", page)).
			Str("request_id", requestID).
			Msg("failed to render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	data := pageData{
		View:      view,
		I18n:      i18n.FromContext(r.Context()),
		RequestID: requestID,
		Year:      time.Now().Year(),
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, layoutTemplate, data); err != nil {
		logger.HTTPError(r.Method, r.URL.Path, http.StatusInternalServerError, err).
			Str("request_id", requestID).
			Str("page", page).
			Msg("failed to render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.Get().Debug().Err(err).Str("request_id", requestID).Msg("failed to write page response")
	}
}
