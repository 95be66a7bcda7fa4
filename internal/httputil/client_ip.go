package httputil

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the address the login rate limiter keys on.
//
// With trustProxy (TRUST_PROXY=true, the hub behind a reverse proxy) the first
// entry of X-Forwarded-For that parses as an IP wins, then X-Real-IP. Without
// trustProxy only the connection address counts.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		for _, value := range strings.Split(r.Header.Get("X-Forwarded-For"), ",") {
			if ip := parseIP(value); ip != "" {
				return ip
			}
		}
		if ip := parseIP(r.Header.Get("X-Real-IP")); ip != "" {
			return ip
		}
	}
	remote := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(remote); err == nil {
		return host
	}
	return remote
}

// parseIP accepts a bare IP or one carrying a port, as some proxies send.
func parseIP(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(value); err == nil {
		value = host
	}
	ip := net.ParseIP(strings.Trim(value, "[]"))
	if ip == nil {
		return ""
	}
	return ip.String()
}
