package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rirwin/stock-analysis/internal/api/middleware"
)

// TestNewCORS tests preflight handling for allowed and unknown origins.
//
// WHY: the frontend posts order batches cross-origin; an unknown origin must
// not be granted access.
func TestNewCORS(t *testing.T) {
	handler := middleware.NewCORS([]string{"http://localhost:3000"}).Handler(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	tests := []struct {
		name       string
		origin     string
		method     string
		wantOrigin string
	}{
		{"allowed origin POST", "http://localhost:3000", http.MethodPost, "http://localhost:3000"},
		{"allowed origin GET", "http://localhost:3000", http.MethodGet, "http://localhost:3000"},
		{"unknown origin", "http://evil.example", http.MethodPost, ""},
		{"method not allowed", "http://localhost:3000", http.MethodDelete, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/api/prices", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", tt.method)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
		})
	}
}
