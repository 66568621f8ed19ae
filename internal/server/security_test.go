package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	detector := NewSuspiciousActivityDetector(DefaultDetectorLimits, nil)
	h := AuthMiddleware("s3cret", nil, detector)(okHandler())

	tests := []struct {
		name       string
		key        string
		wantStatus int
	}{
		{"valid key", "s3cret", http.StatusOK},
		{"wrong key", "guess", http.StatusUnauthorized},
		{"missing key", "", http.StatusUnauthorized},
		{"prefix of key", "s3cre", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/players/p1/progress", nil)
			if tt.key != "" {
				req.Header.Set(HeaderAPIKey, tt.key)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}

	// three rejected attempts from the same httptest address
	assert.Equal(t, 4, detector.RecordFailedAuth("192.0.2.1"))
}

func TestDetector_RateLimitAndWindowReset(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	d := NewSuspiciousActivityDetector(DetectorLimits{Window: time.Minute, MaxRequests: 3, FailedAuthAlert: 2}, clock)

	for i := 0; i < 3; i++ {
		assert.True(t, d.RecordRequest("10.0.0.1"), "request %d", i+1)
	}
	assert.False(t, d.RecordRequest("10.0.0.1"))
	assert.True(t, d.RecordRequest("10.0.0.2"), "limits are per IP")

	now = now.Add(61 * time.Second)
	assert.True(t, d.RecordRequest("10.0.0.1"))
	assert.Equal(t, 1, d.RecordFailedAuth("10.0.0.1"))
}

func TestRateLimitMiddleware(t *testing.T) {
	d := NewSuspiciousActivityDetector(DetectorLimits{Window: time.Minute, MaxRequests: 1, FailedAuthAlert: 5}, nil)
	h := RateLimitMiddleware(nil, d)(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		trusted    []string
		want       string
	}{
		{"direct", "203.0.113.5:4000", "", nil, "203.0.113.5"},
		{"untrusted proxy header ignored", "203.0.113.5:4000", "1.1.1.1", nil, "203.0.113.5"},
		{"trusted proxy uses rightmost hop", "10.0.0.1:4000", "6.6.6.6, 198.51.100.7", []string{"10.0.0.1"}, "198.51.100.7"},
		{"trusted proxy without header", "10.0.0.1:4000", "", []string{"10.0.0.1"}, "10.0.0.1"},
		{"unparseable remote addr", "garbage", "", nil, "garbage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set(HeaderForwardedFor, tt.forwarded)
			}
			assert.Equal(t, tt.want, extractIP(req, tt.trusted))
		})
	}
}

func TestRequestSizeLimitMiddleware(t *testing.T) {
	var readErr error
	h := RequestSizeLimitMiddleware(4)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 16)
		_, readErr = r.Body.Read(buf)
		for readErr == nil {
			_, readErr = r.Body.Read(buf)
		}
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789"))
	h.ServeHTTP(httptest.NewRecorder(), req)

	var maxErr *http.MaxBytesError
	assert.ErrorAs(t, readErr, &maxErr)
}
