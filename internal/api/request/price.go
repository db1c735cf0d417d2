package request

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rirwin/stock-analysis/internal/apperrors"
	"github.com/rirwin/stock-analysis/internal/model"
)

// CreatePriceRequest is one daily close in a POST /api/prices body.
type CreatePriceRequest struct {
	Ticker string          `json:"ticker"`
	Date   string          `json:"date"`
	Price  decimal.Decimal `json:"price"`
}

// CreatePricesRequest is the body of POST /api/prices; its prices are stored as one batch.
type CreatePricesRequest struct {
	Prices []CreatePriceRequest `json:"prices"`
}

// ToPrices converts the batch into daily closes.
func (r CreatePricesRequest) ToPrices() ([]model.TickerDatePrice, error) {
	if len(r.Prices) == 0 {
		return nil, fmt.Errorf("%w: at least one price is required", apperrors.ErrInvalidPrice)
	}

	prices := make([]model.TickerDatePrice, len(r.Prices))
	for i, p := range r.Prices {
		date, err := model.ParseDate(p.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: price %d: date %q is not YYYY-MM-DD", apperrors.ErrInvalidPrice, i, p.Date)
		}
		prices[i] = model.TickerDatePrice{Ticker: p.Ticker, Date: date, Price: p.Price}
	}
	return prices, nil
}
