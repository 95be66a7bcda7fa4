package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"winwin/internal/backend"
	"winwin/internal/i18n"
	"winwin/internal/logger"
	"winwin/internal/session"
	"winwin/middleware"
)

const defaultAnalyticsTimeout = 5 * time.Second

// SiteOptions wires the page handlers to their collaborators.
type SiteOptions struct {
	Backend          backend.Client
	Renderer         *Renderer
	Sessions         *session.Manager
	PublicURL        string
	UploadMaxBytes   int64
	AnalyticsTimeout time.Duration
	// AnalyticsFailure is told the kind ("visit" or "download") of every
	// analytics call the backend rejected.
	AnalyticsFailure func(kind string)
}

// Site serves the public pages and the admin console.
type Site struct {
	backend          backend.Client
	renderer         *Renderer
	sessions         *session.Manager
	publicURL        string
	uploadMaxBytes   int64
	analyticsTimeout time.Duration
	analyticsFailure func(kind string)
	pending          sync.WaitGroup
}

// NewSite builds a Site from opts.
func NewSite(opts SiteOptions) *Site {
	timeout := opts.AnalyticsTimeout
	if timeout <= 0 {
		timeout = defaultAnalyticsTimeout
	}
	sessions := opts.Sessions
	if sessions == nil {
		sessions = session.NewManager(session.DefaultCookieName, false)
	}
	return &Site{
		backend:          opts.Backend,
		renderer:         opts.Renderer,
		sessions:         sessions,
		publicURL:        opts.PublicURL,
		uploadMaxBytes:   opts.UploadMaxBytes,
		analyticsTimeout: timeout,
		analyticsFailure: opts.AnalyticsFailure,
	}
}

// Wait blocks until every detached analytics call has finished.
func (s *Site) Wait() {
	s.pending.Wait()
}

// logVisit records a visit in the background. The request never waits for
// it and its failure is only logged.
func (s *Site) logVisit(r *http.Request, contentID *int) {
	ctx := context.WithoutCancel(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(ctx, s.analyticsTimeout)
		defer cancel()
		if err := s.backend.LogVisit(ctx, contentID); err != nil {
			s.analyticsFailed("visit", requestID, err)
		}
	}()
}

// logDownload records a download before the browser is sent to the file.
func (s *Site) logDownload(r *http.Request, contentID int) {
	ctx, cancel := context.WithTimeout(r.Context(), s.analyticsTimeout)
	defer cancel()
	if err := s.backend.LogDownload(ctx, contentID); err != nil {
		s.analyticsFailed("download", middleware.GetRequestID(r.Context()), err)
	}
}

func (s *Site) analyticsFailed(kind, requestID string, err error) {
	logger.AnalyticsError(kind, err).Str("request_id", requestID).Msg("failed to record analytics event")
	if s.analyticsFailure != nil {
		s.analyticsFailure(kind)
	}
}

func (s *Site) render(w http.ResponseWriter, r *http.Request, status int, page string, view View) {
	s.renderer.Render(w, r, status, page, view)
}

// redirectLocalized sends the browser to path in the request's language.
func redirectLocalized(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, i18n.FromContext(r.Context()).LocalizedPath(path), http.StatusSeeOther)
}

// NotFound renders the localized 404 page.
func (s *Site) NotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "not-found.html", View{Title: "notFoundTitle"})
}
