// Package backend talks to the external content API: public content,
// languages, analytics and the authenticated admin endpoints.
package backend

import (
	"context"
	"io"

	"winwin/internal/content"
)

// ContentQuery filters a content listing. Zero values are omitted.
type ContentQuery struct {
	Language string
	Type     string
	ID       int
}

// Client defines the interface for interacting with the content backend.
type Client interface {
	CheckConnection(ctx context.Context) error
	ListContent(ctx context.Context, query ContentQuery) ([]content.Content, error)
	GetContentWithTranslations(ctx context.Context, id int, token string) (content.WithTranslations, error)
	ListLanguages(ctx context.Context) ([]content.Language, error)
	LogVisit(ctx context.Context, contentID *int) error
	LogDownload(ctx context.Context, contentID int) error
	Login(ctx context.Context, username, password string) (string, error)
	AdminListContent(ctx context.Context, token string, query ContentQuery) ([]content.Content, error)
	CreateContent(ctx context.Context, token string, payload content.Payload) error
	UpdateContent(ctx context.Context, token string, id int, payload content.Payload) error
	DeleteContent(ctx context.Context, token string, id int) error
	UploadFile(ctx context.Context, token, filename string, file io.Reader) (string, error)
	VisitStats(ctx context.Context, token string) (content.VisitStats, error)
	InvalidateCache()
}
