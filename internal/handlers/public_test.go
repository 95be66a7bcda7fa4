package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"winwin/internal/backend"
	"winwin/internal/content"
	winwinerrors "winwin/internal/errors"
)

func TestHome_RendersPresentationAttributes(t *testing.T) {
	tests := []struct {
		path    string
		lang    string
		dir     string
		feature string
	}{
		{"/", "en", "ltr", "Multilingual content"},
		{"/fr", "fr", "ltr", "Contenu multilingue"},
		{"/ar", "ar", "rtl", "Multilingual content"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			f := newFixture(t)
			rec := f.get(t, tt.path)

			assert.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			assert.Contains(t, body, `lang="`+tt.lang+`" dir="`+tt.dir+`"`)
			assert.Contains(t, body, tt.feature)
			assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
		})
	}
}

func TestStaticPages(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/fr/support")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "support")

	rec = f.get(t, "/media")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "coming-soon media")

	rec = f.get(t, "/pt/partnership")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "coming-soon partnership")
}

func TestNotFound(t *testing.T) {
	f := newFixture(t)
	rec := f.get(t, "/fr/nowhere")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not-found")
	assert.Contains(t, rec.Body.String(), `lang="fr"`)
}

func TestTraining_ListsCoursesInActiveLanguage(t *testing.T) {
	f := newFixture(t)
	items := []content.Content{
		{ID: 1, Title: "Basics", Language: lang(2, "fr", "Français"), Type: "course"},
		{ID: 2, Title: "Deep dive", Language: lang(2, "fr", "Français"), Type: "advanced course"},
	}
	f.backend.On("ListContent", mock.Anything, backend.ContentQuery{Language: "fr", Type: content.TypeCourse}).Return(items, nil)
	f.backend.On("LogVisit", mock.Anything, (*int)(nil)).Return(nil)

	rec := f.get(t, "/fr/training")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "course:Basics/Beginner")
	assert.Contains(t, body, "course:Deep dive/Advanced")
	assert.Contains(t, body, "active:allCourses")
	f.backend.AssertExpectations(t)
}

func TestTraining_FiltersByLevel(t *testing.T) {
	f := newFixture(t)
	items := []content.Content{
		{ID: 1, Title: "Basics", Type: "course"},
		{ID: 2, Title: "Deep dive", Type: "advanced course"},
	}
	f.backend.On("ListContent", mock.Anything, mock.Anything).Return(items, nil)
	f.backend.On("LogVisit", mock.Anything, mock.Anything).Return(nil)

	rec := f.get(t, "/training?level=Advanced")

	body := rec.Body.String()
	assert.NotContains(t, body, "Basics")
	assert.Contains(t, body, "course:Deep dive/Advanced")
	assert.Contains(t, body, "active:advanced")
}

func TestTraining_BackendFailureShowsInlineError(t *testing.T) {
	f := newFixture(t)
	f.backend.On("ListContent", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))
	f.backend.On("LogVisit", mock.Anything, mock.Anything).Return(errors.New("still down"))

	rec := f.get(t, "/training")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "error:failedLoadCourses")
	assert.Equal(t, []string{"visit"}, f.failures)
}

func TestCourse_FoundInActiveLanguage(t *testing.T) {
	f := newFixture(t)
	item := content.Content{ID: 7, Title: "Communication", Description: "Talk *clearly*", Language: lang(2, "fr", "Français")}
	f.backend.On("ListContent", mock.Anything, backend.ContentQuery{Language: "fr", ID: 7}).Return([]content.Content{item}, nil)
	f.backend.On("LogVisit", mock.Anything, mock.MatchedBy(func(id *int) bool { return id != nil && *id == 7 })).Return(nil)

	rec := f.get(t, "/fr/training/7")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "active:Communication lang:fr")
	assert.Contains(t, body, "<em>clearly</em>")
	f.backend.AssertNotCalled(t, "GetContentWithTranslations", mock.Anything, mock.Anything, mock.Anything)
	f.backend.AssertExpectations(t)
}

func TestCourse_FallsBackToTranslations(t *testing.T) {
	f := newFixture(t)
	f.backend.On("ListContent", mock.Anything, backend.ContentQuery{Language: "fr", ID: 1}).Return([]content.Content{}, nil)
	f.backend.On("GetContentWithTranslations", mock.Anything, 1, "").Return(sampleCourse(), nil)
	f.backend.On("LogVisit", mock.Anything, mock.MatchedBy(func(id *int) bool { return id != nil && *id == 2 })).Return(nil)

	rec := f.get(t, "/fr/training/1")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "active:Leadership FR lang:fr")
	assert.Contains(t, body, "version:en version:fr* version:ar")
	f.backend.AssertExpectations(t)
}

func TestCourse_ExplicitVersionWins(t *testing.T) {
	f := newFixture(t)
	f.backend.On("ListContent", mock.Anything, mock.Anything).Return([]content.Content{}, nil)
	f.backend.On("GetContentWithTranslations", mock.Anything, 1, "").Return(sampleCourse(), nil)
	f.backend.On("LogVisit", mock.Anything, mock.Anything).Return(nil)

	rec := f.get(t, "/fr/training/1?version=ar")

	assert.Contains(t, rec.Body.String(), "active:Leadership AR lang:ar")
}

func TestCourse_ForwardsAdminToken(t *testing.T) {
	f := newFixture(t)
	f.backend.On("ListContent", mock.Anything, mock.Anything).Return([]content.Content{}, nil)
	f.backend.On("GetContentWithTranslations", mock.Anything, 1, testToken).Return(sampleCourse(), nil)
	f.backend.On("LogVisit", mock.Anything, mock.Anything).Return(nil)

	rec := f.adminGet(t, "/training/1")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "active:Leadership lang:en")
	f.backend.AssertExpectations(t)
}

func TestCourse_FallsBackToPublicContent(t *testing.T) {
	f := newFixture(t)
	item := content.Content{ID: 4, Title: "Public only", Language: lang(1, "en", "English")}
	f.backend.On("ListContent", mock.Anything, backend.ContentQuery{Language: "en", ID: 4}).Return([]content.Content{}, nil)
	f.backend.On("GetContentWithTranslations", mock.Anything, 4, "").Return(content.WithTranslations{}, winwinerrors.ErrSessionExpired)
	f.backend.On("ListContent", mock.Anything, backend.ContentQuery{ID: 4}).Return([]content.Content{item}, nil)
	f.backend.On("LogVisit", mock.Anything, mock.Anything).Return(nil)

	rec := f.get(t, "/training/4")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "active:Public only")
}

func TestCourse_NotFound(t *testing.T) {
	f := newFixture(t)
	f.backend.On("ListContent", mock.Anything, mock.Anything).Return([]content.Content{}, nil)
	f.backend.On("GetContentWithTranslations", mock.Anything, 9, "").Return(content.WithTranslations{}, winwinerrors.ErrContentNotFound)

	rec := f.get(t, "/training/9")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not-found")
	f.backend.AssertNotCalled(t, "LogVisit", mock.Anything, mock.Anything)
}

func TestCourse_InvalidID(t *testing.T) {
	f := newFixture(t)
	rec := f.get(t, "/training/abc")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCourse_BackendFailure(t *testing.T) {
	f := newFixture(t)
	f.backend.On("ListContent", mock.Anything, backend.ContentQuery{Language: "en", ID: 5}).Return(nil, errors.New("timeout"))
	f.backend.On("GetContentWithTranslations", mock.Anything, 5, "").Return(content.WithTranslations{}, errors.New("timeout"))
	f.backend.On("ListContent", mock.Anything, backend.ContentQuery{ID: 5}).Return(nil, errors.New("timeout"))

	rec := f.get(t, "/training/5")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "course")
}

func downloadRequest(target, version string) *http.Request {
	form := url.Values{}
	if version != "" {
		form.Set("version", version)
	}
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestDownload_RedirectsToResolvedFile(t *testing.T) {
	f := newFixture(t)
	f.backend.On("ListContent", mock.Anything, mock.Anything).Return([]content.Content{}, nil)
	f.backend.On("GetContentWithTranslations", mock.Anything, 1, "").Return(sampleCourse(), nil)
	f.backend.On("LogDownload", mock.Anything, 1).Return(nil).Once()

	rec := f.do(t, downloadRequest("/training/1/download", "en"))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, testPublicURL+"/uploads/leadership.pdf", rec.Header().Get("Location"))
	f.backend.AssertExpectations(t)
}

func TestDownload_UsesUILanguageVersion(t *testing.T) {
	f := newFixture(t)
	f.backend.On("ListContent", mock.Anything, mock.Anything).Return([]content.Content{}, nil)
	f.backend.On("GetContentWithTranslations", mock.Anything, 1, "").Return(sampleCourse(), nil)
	f.backend.On("LogDownload", mock.Anything, 2).Return(errors.New("analytics down"))

	rec := f.do(t, downloadRequest("/fr/training/1/download", ""))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "https://cdn.example.com/fr.pdf", rec.Header().Get("Location"))
	assert.Equal(t, []string{"download"}, f.failures)
}

func TestDownload_WithoutFileReturnsToCourse(t *testing.T) {
	f := newFixture(t)
	f.backend.On("ListContent", mock.Anything, mock.Anything).Return([]content.Content{}, nil)
	f.backend.On("GetContentWithTranslations", mock.Anything, 1, "").Return(sampleCourse(), nil)
	f.backend.On("LogDownload", mock.Anything, 3).Return(nil)

	rec := f.do(t, downloadRequest("/ar/training/1/download", "ar"))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/ar/training/1?version=ar", rec.Header().Get("Location"))
}
