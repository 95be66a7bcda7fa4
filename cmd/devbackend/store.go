package main

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"winwin/internal/backend"
	"winwin/internal/content"
	winwinerrors "winwin/internal/errors"
	"winwin/internal/validation"
)

// store keeps content, analytics and uploaded files in memory. Translations
// are rows whose CourseID points at their original.
type store struct {
	mu          sync.RWMutex
	languages   []content.Language
	items       map[int]content.Content
	nextID      int
	totalVisits int
	visits      map[int]int
	downloads   map[int]int
	files       map[string][]byte
	now         func() time.Time
}

func newStore(languages []content.Language, items []content.Content) *store {
	s := &store{
		languages: languages,
		items:     make(map[int]content.Content, len(items)),
		visits:    make(map[int]int),
		downloads: make(map[int]int),
		files:     make(map[string][]byte),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, item := range items {
		s.items[item.ID] = item
		s.nextID = max(s.nextID, item.ID)
	}
	return s
}

func (s *store) Languages() []content.Language {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]content.Language, len(s.languages))
	copy(out, s.languages)
	return out
}

func (s *store) language(id int) (content.Language, bool) {
	for _, lang := range s.languages {
		if lang.ID == id {
			return lang, true
		}
	}
	return content.Language{}, false
}

// List returns rows matching every non-zero field of query, ordered by ID.
func (s *store) List(query backend.ContentQuery) []content.Content {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]content.Content, 0, len(s.items))
	for _, item := range s.items {
		if query.ID > 0 && item.ID != query.ID {
			continue
		}
		if query.Language != "" && item.Language.Code != query.Language {
			continue
		}
		if query.Type != "" && s.typeOf(item) != query.Type {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *store) typeOf(item content.Content) string {
	if item.CourseID != nil {
		if original, ok := s.items[*item.CourseID]; ok {
			item = original
		}
	}
	if item.Type == "" {
		return content.TypeCourse
	}
	return item.Type
}

// WithTranslations resolves id, original or translation, to its whole group.
func (s *store) WithTranslations(id int) (content.WithTranslations, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return content.WithTranslations{}, winwinerrors.ErrContentNotFound
	}
	if item.CourseID != nil {
		if original, ok := s.items[*item.CourseID]; ok {
			item = original
		}
	}
	result := content.WithTranslations{Original: item, Translations: []content.Content{}}
	for _, candidate := range s.items {
		if candidate.CourseID != nil && *candidate.CourseID == item.ID {
			result.Translations = append(result.Translations, candidate)
		}
	}
	sort.Slice(result.Translations, func(i, j int) bool { return result.Translations[i].ID < result.Translations[j].ID })
	return result, nil
}

// Create stores an original and its translations and returns the original's ID.
func (s *store) Create(p content.Payload) (int, error) {
	p = validation.NormalizeContentPayload(p)
	if err := validation.ValidateContentPayload(p); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLanguages(p); err != nil {
		return 0, err
	}
	now := s.timestamp()
	s.nextID++
	originalID := s.nextID
	lang, _ := s.language(p.LanguageID)
	s.items[originalID] = content.Content{
		ID:          originalID,
		Title:       p.Title,
		Description: p.Description,
		FileLink:    fileLinkOrPlaceholder(p.FileLink),
		Language:    lang,
		CreatedAt:   now,
		UpdatedAt:   now,
		IsOriginal:  true,
		Type:        p.Type,
	}
	for _, t := range p.Translations {
		s.insertTranslation(originalID, t, now)
	}
	return originalID, nil
}

// Update rewrites original id, upserts its translations and deletes the
// removed ones.
func (s *store) Update(id int, p content.Payload) error {
	p = validation.NormalizeContentPayload(p)
	if err := validation.ValidateContentPayload(p); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	original, ok := s.items[id]
	if !ok || original.CourseID != nil {
		return winwinerrors.ErrContentNotFound
	}
	if err := s.checkLanguages(p); err != nil {
		return err
	}
	for _, t := range p.Translations {
		if t.ID == nil {
			continue
		}
		if existing, ok := s.items[*t.ID]; !ok || existing.CourseID == nil || *existing.CourseID != id {
			return fmt.Errorf("translation %d: %w", *t.ID, winwinerrors.ErrContentNotFound)
		}
	}
	now := s.timestamp()
	for _, removed := range p.RemovedTranslationIDs {
		if item, ok := s.items[removed]; ok && item.CourseID != nil && *item.CourseID == id {
			delete(s.items, removed)
		}
	}
	lang, _ := s.language(p.LanguageID)
	original.Title = p.Title
	original.Description = p.Description
	original.FileLink = fileLinkOrPlaceholder(p.FileLink)
	original.Language = lang
	original.Type = p.Type
	original.UpdatedAt = now
	s.items[id] = original

	for _, t := range p.Translations {
		if t.ID == nil {
			s.insertTranslation(id, t, now)
			continue
		}
		existing := s.items[*t.ID]
		tlang, _ := s.language(t.LanguageID)
		existing.Title = t.Title
		existing.Description = t.Description
		existing.FileLink = fileLinkOrPlaceholder(t.FileLink)
		existing.Language = tlang
		existing.UpdatedAt = now
		s.items[existing.ID] = existing
	}
	return nil
}

func (s *store) insertTranslation(originalID int, t content.TranslationPayload, now string) {
	s.nextID++
	lang, _ := s.language(t.LanguageID)
	courseID := originalID
	s.items[s.nextID] = content.Content{
		ID:          s.nextID,
		Title:       t.Title,
		Description: t.Description,
		FileLink:    fileLinkOrPlaceholder(t.FileLink),
		Language:    lang,
		CreatedAt:   now,
		UpdatedAt:   now,
		CourseID:    &courseID,
	}
}

func (s *store) checkLanguages(p content.Payload) error {
	for _, id := range p.UsedLanguageIDs() {
		if _, ok := s.language(id); !ok {
			return winwinerrors.ErrLanguageRequired
		}
	}
	return nil
}

// Delete removes content id and, for an original, its translations.
func (s *store) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return winwinerrors.ErrContentNotFound
	}
	delete(s.items, id)
	for itemID, item := range s.items {
		if item.CourseID != nil && *item.CourseID == id {
			delete(s.items, itemID)
		}
	}
	return nil
}

// LogVisit counts a site visit and, when contentID is set, a content view.
func (s *store) LogVisit(contentID *int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalVisits++
	if contentID != nil {
		s.visits[*contentID]++
	}
}

func (s *store) LogDownload(contentID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[contentID]; !ok {
		return winwinerrors.ErrContentNotFound
	}
	s.downloads[contentID]++
	return nil
}

// Stats lists the visited content, most visited first.
func (s *store) Stats() content.VisitStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := content.VisitStats{TotalVisits: s.totalVisits, ContentVisits: []content.ContentVisit{}}
	for id, count := range s.visits {
		title := ""
		if item, ok := s.items[id]; ok {
			title = item.Title
		}
		stats.ContentVisits = append(stats.ContentVisits, content.ContentVisit{ID: id, Title: title, Count: count})
	}
	sort.Slice(stats.ContentVisits, func(i, j int) bool {
		if stats.ContentVisits[i].Count != stats.ContentVisits[j].Count {
			return stats.ContentVisits[i].Count > stats.ContentVisits[j].Count
		}
		return stats.ContentVisits[i].ID < stats.ContentVisits[j].ID
	})
	return stats
}

// SaveFile keeps data under a fresh name with filename's extension and
// returns the path it is served from.
func (s *store) SaveFile(filename string, data []byte) (string, error) {
	if err := validation.ValidateUploadFilename(filename); err != nil {
		return "", err
	}
	name := uuid.NewString() + strings.ToLower(path.Ext(filename))
	s.mu.Lock()
	s.files[name] = data
	s.mu.Unlock()
	return uploadsPrefix + name, nil
}

func (s *store) File(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.files[name]
	return data, ok
}

func (s *store) timestamp() string {
	return s.now().Format(time.RFC3339)
}

func fileLinkOrPlaceholder(link string) string {
	if link == "" {
		return content.NoFile
	}
	return link
}
