package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"winwin/internal/cache"
	"winwin/internal/content"
	winwinerrors "winwin/internal/errors"
	"winwin/internal/logger"
)

const (
	maxResponseBytes   = 10 << 20
	languagesCacheKey  = "languages"
	contentCachePrefix = "content?"
)

// RequestObserver is notified once per backend request. Status is 0 when
// no response was received.
type RequestObserver func(operation string, status int, duration time.Duration)

// Options configures the HTTP client.
type Options struct {
	BaseURL      string
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	CacheTTL     time.Duration
	Observer     RequestObserver
}

// HTTPClient is the Client implementation backed by the REST API.
type HTTPClient struct {
	baseURL   *url.URL
	http      *retryablehttp.Client
	languages *cache.Cache[[]content.Language]
	contents  *cache.Cache[[]content.Content]
	observer  RequestObserver
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds a client for the backend at opts.BaseURL.
func NewHTTPClient(opts Options) (*HTTPClient, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"))
	if err != nil || base.Host == "" || (base.Scheme != "http" && base.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", winwinerrors.ErrInvalidBackendURL, opts.BaseURL)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.Logger = retryLogger{}
	retryClient.RetryMax = max(opts.RetryMax, 0)
	if opts.RetryWaitMin > 0 {
		retryClient.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		retryClient.RetryWaitMax = opts.RetryWaitMax
	}
	if opts.Timeout > 0 {
		retryClient.HTTPClient.Timeout = opts.Timeout
	}
	retryClient.CheckRetry = retryPolicy
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &HTTPClient{
		baseURL:   base,
		http:      retryClient,
		languages: cache.New[[]content.Language](opts.CacheTTL),
		contents:  cache.New[[]content.Content](opts.CacheTTL),
		observer:  opts.Observer,
	}, nil
}

type noRetryKey struct{}

func withoutRetry(ctx context.Context) context.Context {
	return context.WithValue(ctx, noRetryKey{}, true)
}

// retryPolicy retries idempotent reads only. Writes and analytics are
// marked with withoutRetry and go out exactly once.
func retryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if noRetry, _ := ctx.Value(noRetryKey{}).(bool); noRetry {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// CacheLen reports how many responses are currently cached.
func (c *HTTPClient) CacheLen() int {
	return c.languages.Len() + c.contents.Len()
}

// Cleanup drops expired cache entries.
func (c *HTTPClient) Cleanup() {
	c.languages.Cleanup()
	c.contents.Cleanup()
}

// StartJanitor periodically drops expired cache entries until ctx is done.
func (c *HTTPClient) StartJanitor(ctx context.Context, interval time.Duration) {
	c.languages.StartJanitor(ctx, interval)
	c.contents.StartJanitor(ctx, interval)
}

// InvalidateCache forgets every cached response.
func (c *HTTPClient) InvalidateCache() {
	c.languages.Clear()
	c.contents.Clear()
}

// CheckConnection verifies that the backend answers the language listing.
func (c *HTTPClient) CheckConnection(ctx context.Context) error {
	resp, err := c.do(withoutRetry(ctx), request{operation: "check_connection", method: http.MethodGet, path: "/api/languages"})
	if err != nil {
		return fmt.Errorf("backend health check failed: %w", err)
	}
	defer drain(resp)
	if err := checkStatus(resp, false); err != nil {
		return fmt.Errorf("backend health check failed: %w", err)
	}
	return nil
}

// ListContent returns public content matching query. Results are cached.
func (c *HTTPClient) ListContent(ctx context.Context, query ContentQuery) ([]content.Content, error) {
	values := query.values()
	key := contentCachePrefix + values.Encode()
	if cached, ok := c.contents.Get(key); ok {
		return cached, nil
	}

	var items []content.Content
	err := c.getList(ctx, request{operation: "list_content", method: http.MethodGet, path: "/api/content", query: values}, &items)
	if err != nil {
		return nil, fmt.Errorf("failed to list content: %w", err)
	}
	c.contents.Set(key, items)
	return items, nil
}

// GetContentWithTranslations loads content id with all of its language
// versions. token is forwarded when not empty.
func (c *HTTPClient) GetContentWithTranslations(ctx context.Context, id int, token string) (content.WithTranslations, error) {
	var result content.WithTranslations
	req := request{
		operation:     "get_content_translations",
		method:        http.MethodGet,
		path:          "/api/admin/content/" + strconv.Itoa(id),
		token:         token,
		authenticated: token != "",
	}
	if err := c.doJSON(ctx, req, &result); err != nil {
		if apiErr := (*APIError)(nil); errors.As(err, &apiErr) && apiErr.NotFound() {
			return result, fmt.Errorf("content %d: %w", id, winwinerrors.ErrContentNotFound)
		}
		return result, fmt.Errorf("failed to get content %d: %w", id, err)
	}
	if result.Original.ID == 0 {
		return result, fmt.Errorf("content %d: %w", id, winwinerrors.ErrContentNotFound)
	}
	if result.Translations == nil {
		result.Translations = []content.Content{}
	}
	return result, nil
}

// ListLanguages returns the languages the backend knows. Results are cached.
func (c *HTTPClient) ListLanguages(ctx context.Context) ([]content.Language, error) {
	if cached, ok := c.languages.Get(languagesCacheKey); ok {
		return cached, nil
	}
	var languages []content.Language
	if err := c.getList(ctx, request{operation: "list_languages", method: http.MethodGet, path: "/api/languages"}, &languages); err != nil {
		return nil, fmt.Errorf("failed to list languages: %w", err)
	}
	c.languages.Set(languagesCacheKey, languages)
	return languages, nil
}

// LogVisit records a site visit, optionally for one content item.
func (c *HTTPClient) LogVisit(ctx context.Context, contentID *int) error {
	body := struct {
		ContentID *int `json:"content_id"`
	}{ContentID: contentID}
	req := request{operation: "log_visit", method: http.MethodPost, path: "/api/visit", body: body}
	if err := c.doJSON(withoutRetry(ctx), req, nil); err != nil {
		return fmt.Errorf("failed to log visit: %w", err)
	}
	return nil
}

// LogDownload records a file download for contentID.
func (c *HTTPClient) LogDownload(ctx context.Context, contentID int) error {
	req := request{operation: "log_download", method: http.MethodPost, path: "/api/download/" + strconv.Itoa(contentID)}
	if err := c.doJSON(withoutRetry(ctx), req, nil); err != nil {
		return fmt.Errorf("failed to log download: %w", err)
	}
	return nil
}

// Login exchanges admin credentials for a bearer token.
func (c *HTTPClient) Login(ctx context.Context, username, password string) (string, error) {
	body := map[string]string{"username": username, "password": password}
	var result struct {
		Token string `json:"token"`
	}
	req := request{operation: "login", method: http.MethodPost, path: "/api/admin/login", body: body}
	if err := c.doJSON(withoutRetry(ctx), req, &result); err != nil {
		if apiErr := (*APIError)(nil); errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return "", winwinerrors.ErrInvalidCredentials
		}
		return "", fmt.Errorf("login failed: %w", err)
	}
	if result.Token == "" {
		return "", fmt.Errorf("login failed: %w", winwinerrors.ErrTokenMissing)
	}
	return result.Token, nil
}

// AdminListContent lists content through the authenticated endpoint.
func (c *HTTPClient) AdminListContent(ctx context.Context, token string, query ContentQuery) ([]content.Content, error) {
	if token == "" {
		return nil, winwinerrors.ErrTokenMissing
	}
	var items []content.Content
	req := request{operation: "admin_list_content", method: http.MethodGet, path: "/api/admin/content", query: query.values(), token: token, authenticated: true}
	if err := c.getList(ctx, req, &items); err != nil {
		return nil, fmt.Errorf("failed to list admin content: %w", err)
	}
	return items, nil
}

// CreateContent stores new content with its translations.
func (c *HTTPClient) CreateContent(ctx context.Context, token string, payload content.Payload) error {
	return c.write(ctx, token, request{operation: "create_content", method: http.MethodPost, path: "/api/admin/content", body: payload})
}

// UpdateContent replaces content id. removed_translation_ids is always sent.
func (c *HTTPClient) UpdateContent(ctx context.Context, token string, id int, payload content.Payload) error {
	if payload.RemovedTranslationIDs == nil {
		payload.RemovedTranslationIDs = []int{}
	}
	body := struct {
		content.Payload
		RemovedTranslationIDs []int `json:"removed_translation_ids"`
	}{Payload: payload, RemovedTranslationIDs: payload.RemovedTranslationIDs}
	return c.write(ctx, token, request{operation: "update_content", method: http.MethodPut, path: "/api/admin/content/" + strconv.Itoa(id), body: body})
}

// DeleteContent removes content id.
func (c *HTTPClient) DeleteContent(ctx context.Context, token string, id int) error {
	return c.write(ctx, token, request{operation: "delete_content", method: http.MethodDelete, path: "/api/admin/content/" + strconv.Itoa(id)})
}

func (c *HTTPClient) write(ctx context.Context, token string, req request) error {
	if token == "" {
		return winwinerrors.ErrTokenMissing
	}
	req.token = token
	req.authenticated = true
	if err := c.doJSON(withoutRetry(ctx), req, nil); err != nil {
		return fmt.Errorf("%s failed: %w", req.operation, err)
	}
	c.InvalidateCache()
	return nil
}

// UploadFile sends file as multipart field "file" and returns the stored URL.
func (c *HTTPClient) UploadFile(ctx context.Context, token, filename string, file io.Reader) (string, error) {
	if token == "" {
		return "", winwinerrors.ErrTokenMissing
	}
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to prepare upload: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to prepare upload: %w", err)
	}

	var result struct {
		FileURL string `json:"file_url"`
	}
	req := request{
		operation:     "upload_file",
		method:        http.MethodPost,
		path:          "/api/admin/upload",
		raw:           buf.Bytes(),
		contentType:   writer.FormDataContentType(),
		token:         token,
		authenticated: true,
	}
	if err := c.doJSON(withoutRetry(ctx), req, &result); err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	return result.FileURL, nil
}

// VisitStats returns the visit summary.
func (c *HTTPClient) VisitStats(ctx context.Context, token string) (content.VisitStats, error) {
	var stats content.VisitStats
	if token == "" {
		return stats, winwinerrors.ErrTokenMissing
	}
	req := request{operation: "visit_stats", method: http.MethodGet, path: "/api/admin/stats/visits", token: token, authenticated: true}
	if err := c.doJSON(ctx, req, &stats); err != nil {
		return stats, fmt.Errorf("failed to load visit stats: %w", err)
	}
	if stats.ContentVisits == nil {
		stats.ContentVisits = []content.ContentVisit{}
	}
	return stats, nil
}

type request struct {
	operation     string
	method        string
	path          string
	query         url.Values
	body          any
	raw           []byte
	contentType   string
	token         string
	authenticated bool
}

func (q ContentQuery) values() url.Values {
	values := url.Values{}
	if q.Language != "" {
		values.Set("lang", q.Language)
	}
	if q.Type != "" {
		values.Set("type", q.Type)
	}
	if q.ID > 0 {
		values.Set("id", strconv.Itoa(q.ID))
	}
	return values
}

func (c *HTTPClient) endpoint(path string, query url.Values) string {
	target := *c.baseURL
	target.Path = strings.TrimRight(target.Path, "/") + path
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}
	return target.String()
}

func (c *HTTPClient) do(ctx context.Context, r request) (*http.Response, error) {
	var body interface{}
	contentType := r.contentType
	switch {
	case r.raw != nil:
		body = r.raw
	case r.body != nil:
		encoded, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = encoded
		contentType = "application/json"
	}

	target := c.endpoint(r.path, r.query)
	req, err := retryablehttp.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	if c.observer != nil {
		c.observer(r.operation, status, duration)
	}
	logger.BackendEvent(r.operation, r.method, target, status, float64(duration.Microseconds())/1000).Msg("backend request")

	if err != nil {
		if resp != nil {
			drain(resp)
		}
		return nil, err
	}
	return resp, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, r request, out any) error {
	resp, err := c.do(ctx, r)
	if err != nil {
		return err
	}
	defer drain(resp)
	if err := checkStatus(resp, r.authenticated); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// getList decodes list endpoints that answer {"data": [...]}, a bare
// array or null. Anything empty becomes an empty, non-nil slice.
func (c *HTTPClient) getList(ctx context.Context, r request, out any) error {
	var raw json.RawMessage
	if err := c.doJSON(ctx, r, &raw); err != nil {
		return err
	}
	return decodeList(raw, out)
}

func decodeList(raw json.RawMessage, out any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		raw = bytes.TrimSpace(envelope.Data)
	}
	if len(raw) == 0 || raw[0] != '[' {
		raw = json.RawMessage("[]")
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func checkStatus(resp *http.Response, authenticated bool) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if authenticated && resp.StatusCode == http.StatusUnauthorized {
		return winwinerrors.ErrSessionExpired
	}
	return &APIError{Status: resp.StatusCode, Message: errorMessage(resp.Body)}
}

func errorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		return payload.Message
	}
	return ""
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
	_ = resp.Body.Close()
}
