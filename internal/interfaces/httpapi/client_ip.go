package httpapi

import (
	"net"
	"net/http"
	"strings"
)

// resolveClientIP prefers proxy headers over the socket address.
func resolveClientIP(r *http.Request) string {
	candidates := []string{
		r.Header.Get("Fly-Client-IP"),
		r.Header.Get("X-Forwarded-For"),
		r.Header.Get("X-Real-IP"),
		r.RemoteAddr,
	}
	for _, candidate := range candidates {
		if ip := normalizeIP(candidate); ip != "" {
			return ip
		}
	}
	return ""
}

func normalizeIP(raw string) string {
	value := strings.TrimSpace(raw)
	if first, _, found := strings.Cut(value, ","); found {
		value = strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(value); err == nil {
		value = strings.TrimSpace(host)
	}
	parsed := net.ParseIP(value)
	if parsed == nil {
		return ""
	}
	return parsed.String()
}
