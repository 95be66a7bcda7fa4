package httputil

import (
	"net/url"
	"strings"
)

// LocalPath returns next when it is a path on this site, otherwise fallback.
// Scheme-relative (//host) and backslash tricks are rejected.
func LocalPath(next, fallback string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") {
		return fallback
	}
	if strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return fallback
	}
	parsed, err := url.Parse(next)
	if err != nil || parsed.Scheme != "" || parsed.Host != "" {
		return fallback
	}
	return next
}

// SplitQuery separates a local path from its query string.
func SplitQuery(local string) (string, string) {
	p, query, _ := strings.Cut(local, "?")
	return p, query
}
