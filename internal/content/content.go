// Package content holds the backend's content model and the view models
// the pages render from it.
package content

import (
	"time"
)

// NoFile is the placeholder file link the backend stores for content without an attachment.
const NoFile = "no-file"

// Types the backend accepts for the content type field.
const (
	TypeCourse = "course"
	TypeModule = "module"
)

// Language is a language row as the backend exposes it.
type Language struct {
	ID   int    `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// Content is one language version of a piece of training content.
type Content struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	FileLink    string   `json:"file_link"`
	Language    Language `json:"language"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
	CourseID    *int     `json:"course_id,omitempty"`
	IsOriginal  bool     `json:"is_original"`
	Type        string   `json:"type,omitempty"`
}

// HasFile reports whether the content carries a real attachment.
func (c Content) HasFile() bool {
	return HasFile(c.FileLink)
}

// UpdatedDate formats the update timestamp as a date, or returns it
// unchanged when it is not RFC 3339.
func (c Content) UpdatedDate() string {
	parsed, err := time.Parse(time.RFC3339, c.UpdatedAt)
	if err != nil {
		return c.UpdatedAt
	}
	return parsed.Format("2006-01-02")
}

// WithTranslations groups an original with its other language versions.
type WithTranslations struct {
	Original     Content   `json:"original"`
	Translations []Content `json:"translations"`
}

// Versions returns the original followed by its translations.
func (w WithTranslations) Versions() []Content {
	out := make([]Content, 0, 1+len(w.Translations))
	out = append(out, w.Original)
	return append(out, w.Translations...)
}

// Version returns the version written in code, if any.
func (w WithTranslations) Version(code string) (Content, bool) {
	for _, version := range w.Versions() {
		if version.Language.Code == code {
			return version, true
		}
	}
	return Content{}, false
}

// ActiveVersion picks the version to display: the explicitly requested
// version when available, else the one in the UI language, else the original.
func (w WithTranslations) ActiveVersion(requested, uiLanguage string) Content {
	if requested != "" {
		if version, ok := w.Version(requested); ok {
			return version
		}
	}
	for _, translation := range w.Translations {
		if translation.Language.Code == uiLanguage {
			return translation
		}
	}
	return w.Original
}

// TranslationPayload is one translation in an admin write.
type TranslationPayload struct {
	ID          *int   `json:"id,omitempty"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	FileLink    string `json:"file_link"`
	LanguageID  int    `json:"language_id" validate:"gt=0"`
}

// Payload is the body of an admin create or update.
type Payload struct {
	Title                 string               `json:"title" validate:"required"`
	Description           string               `json:"description"`
	FileLink              string               `json:"file_link"`
	LanguageID            int                  `json:"language_id" validate:"gt=0"`
	Type                  string               `json:"type"`
	IsOriginal            bool                 `json:"is_original"`
	Translations          []TranslationPayload `json:"translations" validate:"dive"`
	RemovedTranslationIDs []int                `json:"removed_translation_ids,omitempty"`
}

// ContentVisit is the visit count of a single piece of content.
type ContentVisit struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Count int    `json:"count"`
}

// VisitStats is the backend's visit summary.
type VisitStats struct {
	TotalVisits   int            `json:"total_visits"`
	ContentVisits []ContentVisit `json:"content_visits"`
}

// AveragePerContent divides total visits by contentCount, rounding to one decimal.
func (s VisitStats) AveragePerContent(contentCount int) float64 {
	if contentCount <= 0 {
		return 0
	}
	avg := float64(s.TotalVisits) / float64(contentCount)
	return float64(int(avg*10+0.5)) / 10
}

// MaxCount is the highest per-content visit count, used to scale bars.
func (s VisitStats) MaxCount() int {
	highest := 0
	for _, visit := range s.ContentVisits {
		if visit.Count > highest {
			highest = visit.Count
		}
	}
	return highest
}

// PayloadFrom turns loaded content into the form an admin edits.
func PayloadFrom(w WithTranslations) Payload {
	p := Payload{
		Title:                 w.Original.Title,
		Description:           w.Original.Description,
		FileLink:              w.Original.FileLink,
		LanguageID:            w.Original.Language.ID,
		Type:                  w.Original.Type,
		IsOriginal:            true,
		Translations:          make([]TranslationPayload, 0, len(w.Translations)),
		RemovedTranslationIDs: []int{},
	}
	if p.Type == "" {
		p.Type = TypeCourse
	}
	for _, t := range w.Translations {
		id := t.ID
		p.Translations = append(p.Translations, TranslationPayload{
			ID:          &id,
			Title:       t.Title,
			Description: t.Description,
			FileLink:    t.FileLink,
			LanguageID:  t.Language.ID,
		})
	}
	return p
}

// UsedLanguageIDs lists the languages the payload already covers.
func (p Payload) UsedLanguageIDs() []int {
	ids := make([]int, 0, 1+len(p.Translations))
	if p.LanguageID > 0 {
		ids = append(ids, p.LanguageID)
	}
	for _, t := range p.Translations {
		if t.LanguageID > 0 {
			ids = append(ids, t.LanguageID)
		}
	}
	return ids
}
