package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderType is the stored code of an order side.
type OrderType string

const (
	OrderTypeBuy  OrderType = "B"
	OrderTypeSell OrderType = "S"
)

// Valid reports whether t is a known order side.
func (t OrderType) Valid() bool {
	return t == OrderTypeBuy || t == OrderTypeSell
}

// ParseOrderType accepts a stored code ("B", "S") or a side name ("BUY", "SELL"), in any case.
func ParseOrderType(s string) (OrderType, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "B", "BUY":
		return OrderTypeBuy, true
	case "S", "SELL":
		return OrderTypeSell, true
	}
	return OrderType(s), false
}

// String returns the human readable side.
func (t OrderType) String() string {
	switch t {
	case OrderTypeBuy:
		return "BUY"
	case OrderTypeSell:
		return "SELL"
	}
	return string(t)
}

// Order is a single executed buy or sell of a ticker by a user.
// Orders are immutable once stored; duplicates are legal.
type Order struct {
	ID        string          `json:"id,omitempty"`
	UserID    int64           `json:"userId"`
	Type      OrderType       `json:"orderType"`
	Ticker    string          `json:"ticker"`
	Date      time.Time       `json:"date"`
	NumShares int64           `json:"numShares"`
	Price     decimal.Decimal `json:"price"`
}

// Amount returns shares × price per share.
func (o Order) Amount() decimal.Decimal {
	return o.Price.Mul(decimal.NewFromInt(o.NumShares))
}

// SignedShares returns the share delta the order applies to a position.
func (o Order) SignedShares() int64 {
	if o.Type == OrderTypeSell {
		return -o.NumShares
	}
	return o.NumShares
}

// TickerDate pairs a ticker with a date, e.g. the earliest order date for that ticker.
type TickerDate struct {
	Ticker string    `json:"ticker"`
	Date   time.Time `json:"date"`
}
