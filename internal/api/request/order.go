// Package request holds the JSON bodies accepted by the API and their conversion to domain types.
package request

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rirwin/stock-analysis/internal/apperrors"
	"github.com/rirwin/stock-analysis/internal/model"
)

// CreateOrderRequest is one order in a CreateOrdersRequest.
// OrderType accepts "B", "S", "BUY" or "SELL"; Date is YYYY-MM-DD.
type CreateOrderRequest struct {
	OrderType string          `json:"orderType"`
	Ticker    string          `json:"ticker"`
	Date      string          `json:"date"`
	NumShares int64           `json:"numShares"`
	Price     decimal.Decimal `json:"price"`
}

// CreateOrdersRequest is a batch of orders stored all-or-nothing.
type CreateOrdersRequest struct {
	Orders []CreateOrderRequest `json:"orders"`
}

// ToOrders converts the batch into orders owned by userID.
// Field-level checks beyond parsing are left to validation.ValidateOrder.
func (r CreateOrdersRequest) ToOrders(userID int64) ([]model.Order, error) {
	if len(r.Orders) == 0 {
		return nil, fmt.Errorf("%w: at least one order is required", apperrors.ErrInvalidOrder)
	}

	orders := make([]model.Order, len(r.Orders))
	for i, o := range r.Orders {
		orderType, ok := model.ParseOrderType(o.OrderType)
		if !ok {
			return nil, fmt.Errorf("%w: order %d: unknown orderType %q", apperrors.ErrInvalidOrder, i, o.OrderType)
		}
		date, err := model.ParseDate(o.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: order %d: date %q is not YYYY-MM-DD", apperrors.ErrInvalidOrder, i, o.Date)
		}

		orders[i] = model.Order{
			UserID:    userID,
			Type:      orderType,
			Ticker:    o.Ticker,
			Date:      date,
			NumShares: o.NumShares,
			Price:     o.Price,
		}
	}
	return orders, nil
}
