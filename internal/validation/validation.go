package validation

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/go-playground/validator/v10"

	"winwin/internal/content"
	winwinerrors "winwin/internal/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// UploadExtensions lists the attachment formats the admin console accepts.
var UploadExtensions = []string{
	".pdf", ".doc", ".docx", ".ppt", ".pptx", ".xls", ".xlsx", ".txt",
	".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg",
	".mp4", ".webm", ".mov",
}

func ValidateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return winwinerrors.ErrCredentialsRequired
	}
	return nil
}

// NormalizeContentPayload trims text fields and drops a "no-file" link.
func NormalizeContentPayload(p content.Payload) content.Payload {
	p.Title = strings.TrimSpace(p.Title)
	p.Description = strings.TrimSpace(p.Description)
	p.FileLink = normalizeFileLink(p.FileLink)
	p.Type = strings.TrimSpace(p.Type)
	if p.Type == "" {
		p.Type = content.TypeCourse
	}
	translations := make([]content.TranslationPayload, 0, len(p.Translations))
	for _, t := range p.Translations {
		t.Title = strings.TrimSpace(t.Title)
		t.Description = strings.TrimSpace(t.Description)
		t.FileLink = normalizeFileLink(t.FileLink)
		translations = append(translations, t)
	}
	p.Translations = translations
	if p.RemovedTranslationIDs == nil {
		p.RemovedTranslationIDs = []int{}
	}
	return p
}

func normalizeFileLink(link string) string {
	link = strings.TrimSpace(link)
	if link == content.NoFile {
		return ""
	}
	return link
}

// ValidateContentPayload checks required fields and that no language is
// used twice across the main content and its translations.
func ValidateContentPayload(p content.Payload) error {
	if err := validate.Struct(p); err != nil {
		return mapValidationError(err)
	}
	seen := map[int]struct{}{p.LanguageID: {}}
	for _, t := range p.Translations {
		if _, ok := seen[t.LanguageID]; ok {
			return winwinerrors.ErrDuplicateLanguage
		}
		seen[t.LanguageID] = struct{}{}
	}
	return nil
}

func mapValidationError(err error) error {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return err
	}
	switch fieldErrors[0].Field() {
	case "Title":
		return winwinerrors.ErrTitleRequired
	case "LanguageID":
		return winwinerrors.ErrLanguageRequired
	default:
		return fmt.Errorf("invalid %s", strings.ToLower(fieldErrors[0].Field()))
	}
}

// NextAvailableLanguage returns the first language not yet used by the
// content, in the backend's order.
func NextAvailableLanguage(languages []content.Language, used []int) (content.Language, error) {
	taken := make(map[int]struct{}, len(used))
	for _, id := range used {
		taken[id] = struct{}{}
	}
	for _, lang := range languages {
		if _, ok := taken[lang.ID]; !ok {
			return lang, nil
		}
	}
	return content.Language{}, winwinerrors.ErrNoLanguageAvailable
}

// ValidateUploadFilename checks the extension against UploadExtensions.
func ValidateUploadFilename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return winwinerrors.ErrFileRequired
	}
	ext := strings.ToLower(path.Ext(name))
	for _, allowed := range UploadExtensions {
		if ext == allowed {
			return nil
		}
	}
	return winwinerrors.ErrUnsupportedFileType
}
