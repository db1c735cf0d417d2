package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding is the position in one ticker on a date, valued with the price on or before it.
// Price and Value are nil when no price exists at or before the date.
type Holding struct {
	Ticker string           `json:"ticker"`
	Date   time.Time        `json:"date"`
	Shares int64            `json:"shares"`
	Price  *TickerDatePrice `json:"price,omitempty"`
	Value  *decimal.Decimal `json:"value,omitempty"`
}

// StockSummary aggregates the current metrics of one ticker for a user.
// When the ticker cannot be valued, Error carries the reason and the valuation
// fields are left nil.
type StockSummary struct {
	Ticker      string           `json:"ticker"`
	Shares      int64            `json:"shares"`
	CostBasis   decimal.Decimal  `json:"costBasis"`
	LatestPrice *TickerDatePrice `json:"latestPrice,omitempty"`
	Value       *decimal.Decimal `json:"value,omitempty"`
	PercentGain *decimal.Decimal `json:"percentGain,omitempty"`
	Error       string           `json:"error,omitempty"`
}
