package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/rirwin/stock-analysis/internal/api/middleware"
)

func requestWithParam(key, value string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestValidateUserIDMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		wantCalled bool
		wantStatus int
	}{
		{"passes through valid user ID", "42", true, http.StatusOK},
		{"returns 400 for non-numeric user ID", "abc", false, http.StatusBadRequest},
		{"returns 400 for zero user ID", "0", false, http.StatusBadRequest},
		{"returns 400 for negative user ID", "-3", false, http.StatusBadRequest},
		{"returns 400 for empty user ID", "", false, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			w := httptest.NewRecorder()
			middleware.ValidateUserIDMiddleware(next).ServeHTTP(w, requestWithParam("userID", tt.userID))

			if handlerCalled != tt.wantCalled {
				t.Errorf("Expected next handler called=%v, got %v", tt.wantCalled, handlerCalled)
			}
			if w.Code != tt.wantStatus {
				t.Errorf("Expected %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestValidateTickerMiddleware(t *testing.T) {
	t.Run("returns 400 for blank ticker", func(t *testing.T) {
		handlerCalled := false
		next := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			handlerCalled = true
		})

		w := httptest.NewRecorder()
		middleware.ValidateTickerMiddleware(next).ServeHTTP(w, requestWithParam("ticker", "  "))

		if handlerCalled {
			t.Error("Expected next handler NOT to be called")
		}
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}
