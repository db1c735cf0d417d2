package validation_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rirwin/stock-analysis/internal/apperrors"
	"github.com/rirwin/stock-analysis/internal/model"
	"github.com/rirwin/stock-analysis/internal/validation"
)

func validOrder() model.Order {
	return model.Order{
		UserID:    1,
		Type:      model.OrderTypeBuy,
		Ticker:    " aapl ",
		Date:      time.Date(2017, 6, 12, 15, 30, 0, 0, time.UTC),
		NumShares: 2,
		Price:     decimal.RequireFromString("150.25"),
	}
}

func TestValidateOrder(t *testing.T) {
	t.Run("normalizes a valid order", func(t *testing.T) {
		o, err := validation.ValidateOrder(validOrder())
		if err != nil {
			t.Fatalf("ValidateOrder() returned unexpected error: %v", err)
		}
		if o.Ticker != "AAPL" {
			t.Errorf("Expected ticker AAPL, got %q", o.Ticker)
		}
		if !o.Date.Equal(model.NewDate(2017, time.June, 12)) {
			t.Errorf("Expected date truncated to the day, got %v", o.Date)
		}
	})

	tests := []struct {
		name   string
		mutate func(*model.Order)
		field  string
	}{
		{"zero user", func(o *model.Order) { o.UserID = 0 }, "userId"},
		{"unknown type", func(o *model.Order) { o.Type = "X" }, "orderType"},
		{"blank ticker", func(o *model.Order) { o.Ticker = "  " }, "ticker"},
		{"missing date", func(o *model.Order) { o.Date = time.Time{} }, "date"},
		{"zero shares", func(o *model.Order) { o.NumShares = 0 }, "numShares"},
		{"negative price", func(o *model.Order) { o.Price = decimal.NewFromInt(-1) }, "price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := validOrder()
			tt.mutate(&o)

			_, err := validation.ValidateOrder(o)
			if !errors.Is(err, apperrors.ErrInvalidOrder) {
				t.Fatalf("Expected ErrInvalidOrder, got %v", err)
			}

			var vErr *validation.Error
			if !errors.As(err, &vErr) {
				t.Fatalf("Expected *validation.Error, got %T", err)
			}
			if _, ok := vErr.Fields[tt.field]; !ok {
				t.Errorf("Expected field %q in %v", tt.field, vErr.Fields)
			}
		})
	}
}

func TestValidatePrice(t *testing.T) {
	p, err := validation.ValidatePrice(model.TickerDatePrice{
		Ticker: "msft",
		Date:   model.NewDate(2017, time.June, 12),
		Price:  decimal.NewFromInt(70),
	})
	if err != nil {
		t.Fatalf("ValidatePrice() returned unexpected error: %v", err)
	}
	if p.Ticker != "MSFT" {
		t.Errorf("Expected ticker MSFT, got %q", p.Ticker)
	}

	_, err = validation.ValidatePrice(model.TickerDatePrice{Ticker: "MSFT", Date: p.Date})
	if !errors.Is(err, apperrors.ErrInvalidPrice) {
		t.Errorf("Expected ErrInvalidPrice for zero price, got %v", err)
	}
}

func TestParseParameters(t *testing.T) {
	if id, err := validation.ParseUserID("7"); err != nil || id != 7 {
		t.Errorf("ParseUserID(7) = %d, %v", id, err)
	}
	for _, bad := range []string{"", "0", "-3", "abc"} {
		if _, err := validation.ParseUserID(bad); !errors.Is(err, apperrors.ErrInvalidUserID) {
			t.Errorf("ParseUserID(%q) expected ErrInvalidUserID, got %v", bad, err)
		}
	}

	def := model.NewDate(2020, time.January, 1)
	if d, err := validation.ParseDate("", def); err != nil || !d.Equal(def) {
		t.Errorf("ParseDate(\"\") = %v, %v; want default", d, err)
	}
	if _, err := validation.ParseDate("06/12/17", def); !errors.Is(err, apperrors.ErrInvalidDate) {
		t.Errorf("Expected ErrInvalidDate, got %v", err)
	}
}
