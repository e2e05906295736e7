package edge

import (
	"net/http"
	"net/url"
	"strings"
)

// ContentSecurityPolicy allows API calls to apiURL's origin only.
func ContentSecurityPolicy(apiURL string) string {
	connect := []string{"'self'"}
	if u, err := url.Parse(apiURL); err == nil && u.Scheme != "" && u.Host != "" {
		connect = append(connect, u.Scheme+"://"+u.Host)
	}

	directives := []string{
		"default-src 'self'",
		"script-src 'self' 'unsafe-inline'",
		"style-src 'self' 'unsafe-inline'",
		"img-src 'self' data: blob: https:",
		"font-src 'self' data:",
		"connect-src " + strings.Join(connect, " "),
		"frame-ancestors 'none'",
		"base-uri 'self'",
		"form-action 'self'",
	}
	return strings.Join(directives, "; ")
}

func SecurityHeaders(apiURL string) func(http.Handler) http.Handler {
	csp := ContentSecurityPolicy(apiURL)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Content-Security-Policy", csp)
			h.Set("X-Frame-Options", "DENY")
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")

			if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}
