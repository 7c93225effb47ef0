package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tendant/simple-blog/internal/config"
)

func serveWithHeaders(cfg config.SecurityHeadersConfig) http.Header {
	handler := SecurityHeaders(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/post", nil))
	return rec.Header()
}

func TestSecurityHeaders(t *testing.T) {
	header := serveWithHeaders(config.SecurityHeadersConfig{
		Enabled:            true,
		CSP:                "default-src 'none'",
		HSTSMaxAge:         3600,
		FrameOptions:       "DENY",
		ContentTypeOptions: "nosniff",
		XSSProtection:      "1; mode=block",
		ReferrerPolicy:     "no-referrer",
		PermissionsPolicy:  "camera=()",
	})

	want := map[string]string{
		"Content-Security-Policy":   "default-src 'none'",
		"Strict-Transport-Security": "max-age=3600; includeSubDomains",
		"X-Frame-Options":           "DENY",
		"X-Content-Type-Options":    "nosniff",
		"X-XSS-Protection":          "1; mode=block",
		"Referrer-Policy":           "no-referrer",
		"Permissions-Policy":        "camera=()",
	}
	for name, value := range want {
		if got := header.Get(name); got != value {
			t.Errorf("%s = %q, want %q", name, got, value)
		}
	}
}

func TestSecurityHeaders_SkipsEmptyValues(t *testing.T) {
	header := serveWithHeaders(config.SecurityHeadersConfig{
		Enabled:      true,
		FrameOptions: "SAMEORIGIN",
	})

	if got := header.Get("X-Frame-Options"); got != "SAMEORIGIN" {
		t.Errorf("X-Frame-Options = %q, want SAMEORIGIN", got)
	}
	for _, name := range []string{"Content-Security-Policy", "Strict-Transport-Security", "Referrer-Policy"} {
		if _, ok := header[name]; ok {
			t.Errorf("%s should not be set when unconfigured", name)
		}
	}
}

func TestSecurityHeaders_Disabled(t *testing.T) {
	header := serveWithHeaders(config.SecurityHeadersConfig{
		Enabled:      false,
		CSP:          "default-src 'self'",
		FrameOptions: "DENY",
	})

	if len(header) != 0 {
		t.Errorf("headers = %v, want none when disabled", header)
	}
}
