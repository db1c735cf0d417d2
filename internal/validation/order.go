package validation

import (
	"fmt"

	"github.com/rirwin/stock-analysis/internal/apperrors"
	"github.com/rirwin/stock-analysis/internal/model"
)

// ValidateOrder checks an order before it is stored.
//
// Required fields:
//   - userId: positive
//   - orderType: B or S
//   - ticker: non-blank
//   - date: set
//   - numShares: positive
//   - price: positive
//
// Returns the order with its ticker normalized and date truncated to the day.
func ValidateOrder(o model.Order) (model.Order, error) {
	errors := make(map[string]string)

	if o.UserID <= 0 {
		errors["userId"] = "userId must be positive"
	}

	if !o.Type.Valid() {
		errors["orderType"] = fmt.Sprintf("invalid type: %q", string(o.Type))
	}

	ticker, err := NormalizeTicker(o.Ticker)
	if err != nil {
		errors["ticker"] = "ticker is required"
	}

	if o.Date.IsZero() {
		errors["date"] = "date is required"
	}

	if o.NumShares <= 0 {
		errors["numShares"] = "numShares must be positive"
	}

	if !o.Price.IsPositive() {
		errors["price"] = "price must be positive"
	}

	if len(errors) > 0 {
		return model.Order{}, &Error{Err: apperrors.ErrInvalidOrder, Fields: errors}
	}

	o.Ticker = ticker
	o.Date = model.Day(o.Date)
	return o, nil
}
