package response

import (
	"errors"
	"net/http"

	"github.com/rirwin/stock-analysis/internal/apperrors"
	"github.com/rirwin/stock-analysis/internal/logger"
)

// StatusFor maps a service error onto an HTTP status code.
//
//   - invalid input: 400
//   - no matching price: 404
//   - insufficient data or a short position: 422
//   - anything else: 500
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidOrder),
		errors.Is(err, apperrors.ErrInvalidPrice),
		errors.Is(err, apperrors.ErrInvalidUserID),
		errors.Is(err, apperrors.ErrInvalidTicker),
		errors.Is(err, apperrors.ErrInvalidDate):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrPriceNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrInsufficientData),
		errors.Is(err, apperrors.ErrNegativePosition):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// RespondServiceError sends err with the status StatusFor picks.
// Server errors are logged since their details are not meant for the client.
func RespondServiceError(w http.ResponseWriter, message string, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		logger.Get().Errorw(message, "error", err)
	}
	RespondError(w, status, message, err.Error())
}
