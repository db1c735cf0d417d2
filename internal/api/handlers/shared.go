package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rirwin/stock-analysis/internal/api/response"
	"github.com/rirwin/stock-analysis/internal/model"
	"github.com/rirwin/stock-analysis/internal/validation"
)

// now is the clock used for default query dates.
var now = time.Now

// userIDParam parses the userID URL parameter, responding 400 on failure.
func userIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, err := validation.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid user ID", err.Error())
		return 0, false
	}
	return userID, true
}

// tickerParam normalizes the ticker URL parameter, responding 400 on failure.
func tickerParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	ticker, err := validation.NormalizeTicker(chi.URLParam(r, "ticker"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid ticker", err.Error())
		return "", false
	}
	return ticker, true
}

// dateQuery parses a YYYY-MM-DD query parameter, defaulting to def when absent.
func dateQuery(w http.ResponseWriter, r *http.Request, key string, def time.Time) (time.Time, bool) {
	date, err := validation.ParseDate(r.URL.Query().Get(key), def)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid "+key, err.Error())
		return time.Time{}, false
	}
	return date, true
}

func today() time.Time {
	return model.Day(now())
}

func isJSON(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return ct == "" || strings.HasPrefix(ct, "application/json")
}
