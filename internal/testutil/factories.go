package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rirwin/stock-analysis/internal/model"
)

// OrderBuilder provides a fluent interface for creating test orders.
//
// Example usage:
//
//	// 1 share of AAPL at $150 on 2017-06-12 for user 1
//	order := testutil.NewOrder().Build(t, db)
//
//	// Customized order
//	order := testutil.NewOrder().
//	    WithTicker("MSFT").
//	    Sell().
//	    WithShares(3).
//	    WithPrice(70.5).
//	    Build(t, db)
type OrderBuilder struct {
	order model.Order
}

// NewOrder creates an OrderBuilder with sensible defaults.
func NewOrder() *OrderBuilder {
	return &OrderBuilder{order: model.Order{
		UserID:    1,
		Type:      model.OrderTypeBuy,
		Ticker:    "AAPL",
		Date:      model.NewDate(2017, time.June, 12),
		NumShares: 1,
		Price:     decimal.NewFromInt(150),
	}}
}

func (b *OrderBuilder) WithUserID(id int64) *OrderBuilder {
	b.order.UserID = id
	return b
}

func (b *OrderBuilder) WithTicker(ticker string) *OrderBuilder {
	b.order.Ticker = ticker
	return b
}

func (b *OrderBuilder) WithDate(date time.Time) *OrderBuilder {
	b.order.Date = date
	return b
}

func (b *OrderBuilder) WithShares(n int64) *OrderBuilder {
	b.order.NumShares = n
	return b
}

func (b *OrderBuilder) WithPrice(price float64) *OrderBuilder {
	b.order.Price = decimal.NewFromFloat(price)
	return b
}

// Sell turns the order into a SELL order.
func (b *OrderBuilder) Sell() *OrderBuilder {
	b.order.Type = model.OrderTypeSell
	return b
}

// Order returns the order without storing it.
func (b *OrderBuilder) Order() model.Order {
	return b.order
}

// Build inserts the order directly into order_history, bypassing validation,
// and returns it.
func (b *OrderBuilder) Build(t *testing.T, db *sql.DB) model.Order {
	t.Helper()

	o := b.order
	o.ID = uuid.New().String()

	query := `
		INSERT INTO order_history (id, user_id, order_type, ticker, date, num_shares, price)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.Exec(query, o.ID, o.UserID, string(o.Type), o.Ticker, model.FormatDate(o.Date), o.NumShares, o.Price.String())
	if err != nil {
		t.Fatalf("Failed to create test order: %v", err)
	}

	return o
}

// NewPrice returns a daily close; price is converted exactly from its decimal representation.
func NewPrice(ticker string, date time.Time, price float64) model.TickerDatePrice {
	return model.TickerDatePrice{
		Ticker: ticker,
		Date:   date,
		Price:  decimal.NewFromFloat(price),
	}
}

// PriceRamp returns days consecutive closes starting at start, beginning at price and
// rising by one each day.
//
// Example usage:
//
//	// 150, 151, 152, 153, 154 from 2017-06-12
//	prices := testutil.PriceRamp("AAPL", model.NewDate(2017, time.June, 12), 150, 5)
func PriceRamp(ticker string, start time.Time, price float64, days int) []model.TickerDatePrice {
	prices := make([]model.TickerDatePrice, days)
	for i := range prices {
		prices[i] = NewPrice(ticker, start.AddDate(0, 0, i), price+float64(i))
	}
	return prices
}

// CreatePrice inserts a price row directly into price_history.
func CreatePrice(t *testing.T, db *sql.DB, p model.TickerDatePrice) {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO price_history (id, ticker, date, price) VALUES (?, ?, ?, ?)`,
		uuid.New().String(), p.Ticker, model.FormatDate(p.Date), p.Price.String(),
	)
	if err != nil {
		t.Fatalf("Failed to create test price: %v", err)
	}
}

// CreatePrices inserts every price in order.
func CreatePrices(t *testing.T, db *sql.DB, prices []model.TickerDatePrice) {
	t.Helper()
	for _, p := range prices {
		CreatePrice(t, db, p)
	}
}
