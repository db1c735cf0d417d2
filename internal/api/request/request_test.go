package request

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rirwin/stock-analysis/internal/apperrors"
	"github.com/rirwin/stock-analysis/internal/model"
)

// WHY: clients send either stored codes or side names; both must map to the same
// order type, and unparseable fields must surface as invalid input rather than zero values.
func TestCreateOrdersRequest_ToOrders(t *testing.T) {
	t.Run("converts side names and codes", func(t *testing.T) {
		req := CreateOrdersRequest{Orders: []CreateOrderRequest{
			{OrderType: "buy", Ticker: "AAPL", Date: "2017-06-12", NumShares: 3, Price: decimal.NewFromInt(150)},
			{OrderType: "S", Ticker: "AAPL", Date: "2017-06-13", NumShares: 1, Price: decimal.NewFromInt(151)},
		}}

		orders, err := req.ToOrders(7)
		if err != nil {
			t.Fatalf("ToOrders() returned unexpected error: %v", err)
		}
		if len(orders) != 2 {
			t.Fatalf("Expected 2 orders, got %d", len(orders))
		}
		if orders[0].Type != model.OrderTypeBuy || orders[1].Type != model.OrderTypeSell {
			t.Errorf("Unexpected order types: %s, %s", orders[0].Type, orders[1].Type)
		}
		if orders[0].UserID != 7 {
			t.Errorf("Expected user 7, got %d", orders[0].UserID)
		}
		if !orders[1].Date.Equal(model.NewDate(2017, 6, 13)) {
			t.Errorf("Unexpected date: %v", orders[1].Date)
		}
	})

	tests := []struct {
		name string
		req  CreateOrdersRequest
	}{
		{"empty batch", CreateOrdersRequest{}},
		{"unknown type", CreateOrdersRequest{Orders: []CreateOrderRequest{{OrderType: "X", Ticker: "AAPL", Date: "2017-06-12"}}}},
		{"bad date", CreateOrdersRequest{Orders: []CreateOrderRequest{{OrderType: "B", Ticker: "AAPL", Date: "06/12/17"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.req.ToOrders(1)
			if !errors.Is(err, apperrors.ErrInvalidOrder) {
				t.Errorf("Expected ErrInvalidOrder, got %v", err)
			}
		})
	}
}

func TestCreatePricesRequest_ToPrices(t *testing.T) {
	t.Run("rejects bad date", func(t *testing.T) {
		req := CreatePricesRequest{Prices: []CreatePriceRequest{{Ticker: "AAPL", Date: "2017-13-01", Price: decimal.NewFromInt(1)}}}
		if _, err := req.ToPrices(); !errors.Is(err, apperrors.ErrInvalidPrice) {
			t.Errorf("Expected ErrInvalidPrice, got %v", err)
		}
	})

	t.Run("rejects empty batch", func(t *testing.T) {
		if _, err := (CreatePricesRequest{}).ToPrices(); !errors.Is(err, apperrors.ErrInvalidPrice) {
			t.Errorf("Expected ErrInvalidPrice, got %v", err)
		}
	})
}
