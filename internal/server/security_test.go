package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	handler := SecurityHeadersMiddleware()(okHandler())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/get_user_data", nil)
	handler.ServeHTTP(rec, req)

	checks := map[string]string{
		HeaderContentType:    HeaderValueNoSniff,
		HeaderFrameOptions:   HeaderValueSameOrigin,
		HeaderXSSProtection:  HeaderValueXSSBlock,
		HeaderReferrerPolicy: HeaderValueReferrerStrictOrigin,
	}
	for header, want := range checks {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("header %s = %q, want %q", header, got, want)
		}
	}
}

func TestRequestSizeLimitMiddleware(t *testing.T) {
	var readErr error
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 64)
		for readErr == nil {
			_, readErr = r.Body.Read(buf)
		}
		w.WriteHeader(http.StatusOK)
	})
	handler := RequestSizeLimitMiddleware(16)(inner)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/open_case", strings.NewReader(strings.Repeat("x", 64)))
	handler.ServeHTTP(rec, req)

	if readErr == nil || !strings.Contains(readErr.Error(), "request body too large") {
		t.Errorf("expected body-too-large error, got %v", readErr)
	}
}

func TestRateLimitMiddleware_BlocksAfterBudget(t *testing.T) {
	detector := NewSuspiciousActivityDetector()
	handler := RateLimitMiddleware(nil, detector)(okHandler())

	var lastStatus int
	for i := 0; i < 1001; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/cases", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		handler.ServeHTTP(rec, req)
		lastStatus = rec.Code
	}

	if lastStatus != http.StatusTooManyRequests {
		t.Errorf("expected 429 after exceeding budget, got %d", lastStatus)
	}
}

func TestRateLimitMiddleware_PerIPBudgets(t *testing.T) {
	detector := NewSuspiciousActivityDetector()
	handler := RateLimitMiddleware(nil, detector)(okHandler())

	// Exhaust one IP's budget.
	for i := 0; i < 1001; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/cases", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		handler.ServeHTTP(rec, req)
	}

	// A different IP is unaffected.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/cases", nil)
	req.RemoteAddr = "10.0.0.2:12345"
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected fresh IP to pass, got %d", rec.Code)
	}
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		name           string
		remoteAddr     string
		forwardedFor   string
		trustedProxies []string
		want           string
	}{
		{
			name:       "direct connection",
			remoteAddr: "203.0.113.7:54321",
			want:       "203.0.113.7",
		},
		{
			name:         "forwarded header ignored from untrusted peer",
			remoteAddr:   "203.0.113.7:54321",
			forwardedFor: "198.51.100.1",
			want:         "203.0.113.7",
		},
		{
			name:           "forwarded header honored from trusted proxy",
			remoteAddr:     "10.0.0.1:443",
			forwardedFor:   "198.51.100.1",
			trustedProxies: []string{"10.0.0.1"},
			want:           "198.51.100.1",
		},
		{
			name:           "rightmost hop wins with proxy chain",
			remoteAddr:     "10.0.0.1:443",
			forwardedFor:   "198.51.100.1, 192.0.2.5",
			trustedProxies: []string{"10.0.0.1"},
			want:           "192.0.2.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwardedFor != "" {
				req.Header.Set(HeaderForwardedFor, tt.forwardedFor)
			}
			if got := extractIP(req, tt.trustedProxies); got != tt.want {
				t.Errorf("extractIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResponseWriter_CapturesStatus(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusBadRequest, http.StatusBadGateway} {
		t.Run(fmt.Sprintf("status_%d", status), func(t *testing.T) {
			rec := httptest.NewRecorder()
			rw := newResponseWriter(rec)
			rw.WriteHeader(status)
			rw.WriteHeader(http.StatusTeapot) // second write must not override

			if rw.statusCode != status {
				t.Errorf("captured status = %d, want %d", rw.statusCode, status)
			}
		})
	}
}
