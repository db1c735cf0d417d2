package validation

import (
	"github.com/rirwin/stock-analysis/internal/apperrors"
	"github.com/rirwin/stock-analysis/internal/model"
)

// ValidatePrice checks a daily close before it is stored and normalizes it.
func ValidatePrice(p model.TickerDatePrice) (model.TickerDatePrice, error) {
	errors := make(map[string]string)

	ticker, err := NormalizeTicker(p.Ticker)
	if err != nil {
		errors["ticker"] = "ticker is required"
	}

	if p.Date.IsZero() {
		errors["date"] = "date is required"
	}

	if !p.Price.IsPositive() {
		errors["price"] = "price must be positive"
	}

	if len(errors) > 0 {
		return model.TickerDatePrice{}, &Error{Err: apperrors.ErrInvalidPrice, Fields: errors}
	}

	p.Ticker = ticker
	p.Date = model.Day(p.Date)
	return p, nil
}
