package errors

import "errors"

var (
	ErrSessionExpired      = errors.New("session expired")
	ErrTokenMissing        = errors.New("authentication token not found")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrCredentialsRequired = errors.New("username and password are required")
	ErrContentNotFound     = errors.New("content not found")
	ErrInvalidContentID    = errors.New("invalid content id")
	ErrTitleRequired       = errors.New("title is required")
	ErrLanguageRequired    = errors.New("language is required")
	ErrDuplicateLanguage   = errors.New("language already used by this content")
	ErrNoLanguageAvailable = errors.New("all languages are already used")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileRequired        = errors.New("file is required")
	ErrInvalidBackendURL   = errors.New("invalid backend url")
	ErrMissingDictionary   = errors.New("missing translation dictionary")
	ErrBackendUnavailable  = errors.New("backend unavailable")
)
