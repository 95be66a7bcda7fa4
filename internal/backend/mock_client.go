package backend

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"winwin/internal/content"
)

// MockClient is a testify mock implementing Client.
type MockClient struct {
	mock.Mock
}

var _ Client = (*MockClient)(nil)

func (m *MockClient) CheckConnection(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockClient) ListContent(ctx context.Context, query ContentQuery) ([]content.Content, error) {
	args := m.Called(ctx, query)
	if items, ok := args.Get(0).([]content.Content); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockClient) GetContentWithTranslations(ctx context.Context, id int, token string) (content.WithTranslations, error) {
	args := m.Called(ctx, id, token)
	return args.Get(0).(content.WithTranslations), args.Error(1)
}

func (m *MockClient) ListLanguages(ctx context.Context) ([]content.Language, error) {
	args := m.Called(ctx)
	if languages, ok := args.Get(0).([]content.Language); ok {
		return languages, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockClient) LogVisit(ctx context.Context, contentID *int) error {
	args := m.Called(ctx, contentID)
	return args.Error(0)
}

func (m *MockClient) LogDownload(ctx context.Context, contentID int) error {
	args := m.Called(ctx, contentID)
	return args.Error(0)
}

func (m *MockClient) Login(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

func (m *MockClient) AdminListContent(ctx context.Context, token string, query ContentQuery) ([]content.Content, error) {
	args := m.Called(ctx, token, query)
	if items, ok := args.Get(0).([]content.Content); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockClient) CreateContent(ctx context.Context, token string, payload content.Payload) error {
	args := m.Called(ctx, token, payload)
	return args.Error(0)
}

func (m *MockClient) UpdateContent(ctx context.Context, token string, id int, payload content.Payload) error {
	args := m.Called(ctx, token, id, payload)
	return args.Error(0)
}

func (m *MockClient) DeleteContent(ctx context.Context, token string, id int) error {
	args := m.Called(ctx, token, id)
	return args.Error(0)
}

func (m *MockClient) UploadFile(ctx context.Context, token, filename string, file io.Reader) (string, error) {
	args := m.Called(ctx, token, filename, file)
	return args.String(0), args.Error(1)
}

func (m *MockClient) VisitStats(ctx context.Context, token string) (content.VisitStats, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(content.VisitStats), args.Error(1)
}

func (m *MockClient) InvalidateCache() {
	m.Called()
}
