package main

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
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
	uploadsPrefix  = "/uploads/"
	maxUploadBytes = 50 << 20
)

type api struct {
	store  *store
	issuer *issuer
}

func registerRoutes(r chi.Router, a *api) {
	r.Get("/api/languages", a.languages)
	r.Get("/api/content", a.listContent)
	r.Post("/api/visit", a.logVisit)
	r.Post("/api/download/{id}", a.logDownload)
	r.Post("/api/admin/login", a.login)
	r.With(a.issuer.optionalToken).Get("/api/admin/content/{id}", a.getContent)
	r.Get(uploadsPrefix+"{name}", a.serveFile)

	r.Group(func(r chi.Router) {
		r.Use(a.issuer.requireToken)
		r.Get("/api/admin/content", a.listContent)
		r.Post("/api/admin/content", a.createContent)
		r.Put("/api/admin/content/{id}", a.updateContent)
		r.Delete("/api/admin/content/{id}", a.deleteContent)
		r.Post("/api/admin/upload", a.upload)
		r.Get("/api/admin/stats/visits", a.visitStats)
	})
}

func (a *api) languages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"data": a.store.Languages()})
}

func (a *api) listContent(w http.ResponseWriter, r *http.Request) {
	query := backend.ContentQuery{
		Language: r.URL.Query().Get("lang"),
		Type:     r.URL.Query().Get("type"),
	}
	if raw := r.URL.Query().Get("id"); raw != "" {
		id, ok := content.ParseID(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, winwinerrors.ErrInvalidContentID)
			return
		}
		query.ID = id
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": a.store.List(query)})
}

func (a *api) getContent(w http.ResponseWriter, r *http.Request) {
	id, ok := content.ParseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusBadRequest, winwinerrors.ErrInvalidContentID)
		return
	}
	result, err := a.store.WithTranslations(id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *api) logVisit(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ContentID *int `json:"content_id"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	a.store.LogVisit(body.ContentID)
	writeJSON(w, http.StatusCreated, map[string]string{"status": "recorded"})
}

func (a *api) logDownload(w http.ResponseWriter, r *http.Request) {
	id, ok := content.ParseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusBadRequest, winwinerrors.ErrInvalidContentID)
		return
	}
	if err := a.store.LogDownload(id); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "recorded"})
}

func (a *api) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := validation.ValidateCredentials(body.Username, body.Password); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	token, ok, err := a.issuer.Login(body.Username, body.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		logger.Get().Warn().
			Str("request_id", middleware.GetRequestID(r.Context())).
			Str("username", body.Username).
			Msg("Rejected admin login")
		writeError(w, http.StatusUnauthorized, winwinerrors.ErrInvalidCredentials)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (a *api) createContent(w http.ResponseWriter, r *http.Request) {
	var payload content.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	id, err := a.store.Create(payload)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"id": id})
}

func (a *api) updateContent(w http.ResponseWriter, r *http.Request) {
	id, ok := content.ParseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusBadRequest, winwinerrors.ErrInvalidContentID)
		return
	}
	var payload content.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.store.Update(id, payload); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"id": id})
}

func (a *api) deleteContent(w http.ResponseWriter, r *http.Request) {
	id, ok := content.ParseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusBadRequest, winwinerrors.ErrInvalidContentID)
		return
	}
	if err := a.store.Delete(id); err != nil {
		writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, winwinerrors.ErrFileRequired)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	fileURL, err := a.store.SaveFile(header.Filename, data)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"file_url": fileURL})
}

func (a *api) visitStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.store.Stats())
}

func (a *api) serveFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	data, ok := a.store.File(name)
	if !ok {
		http.NotFound(w, r)
		return
	}
	contentType := mime.TypeByExtension(strings.ToLower(path.Ext(name)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, winwinerrors.ErrContentNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, winwinerrors.ErrTitleRequired),
		errors.Is(err, winwinerrors.ErrLanguageRequired),
		errors.Is(err, winwinerrors.ErrDuplicateLanguage),
		errors.Is(err, winwinerrors.ErrUnsupportedFileType),
		errors.Is(err, winwinerrors.ErrFileRequired):
		writeError(w, http.StatusUnprocessableEntity, err)
	default:
		logger.HTTPError(r.Method, r.URL.Path, http.StatusInternalServerError, err).
			Str("request_id", middleware.GetRequestID(r.Context())).
			Msg("store operation failed")
		writeError(w, http.StatusInternalServerError, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
