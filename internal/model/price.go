package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TickerDatePrice is the closing price of a ticker on a trading date.
type TickerDatePrice struct {
	Ticker string          `json:"ticker"`
	Date   time.Time       `json:"date"`
	Price  decimal.Decimal `json:"price"`
}
