// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rirwin/stock-analysis/internal/api/response"
	"github.com/rirwin/stock-analysis/internal/validation"
)

// ValidateUserIDMiddleware validates that the userID URL parameter is a positive integer.
// Returns 400 Bad Request if the user ID is missing or invalid.
//
// Example usage in router:
//
//	r.Route("/users/{userID}", func(r chi.Router) {
//	    r.Use(middleware.ValidateUserIDMiddleware)
//	    r.Get("/orders", handler.Orders)
//	})
func ValidateUserIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")

		if userID == "" {
			response.RespondError(w, http.StatusBadRequest, "user ID is required", "")
			return
		}

		if _, err := validation.ParseUserID(userID); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid user ID", err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ValidateTickerMiddleware rejects a blank ticker URL parameter.
func ValidateTickerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := validation.NormalizeTicker(chi.URLParam(r, "ticker")); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid ticker", err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}
