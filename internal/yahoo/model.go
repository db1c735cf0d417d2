package yahoo

import (
	"time"

	"github.com/shopspring/decimal"
)

// Response represents the raw JSON response structure from the Yahoo Finance chart API.
//
// The structure includes:
//   - Chart.Result: Array of result objects (typically contains one element)
//   - Chart.Result[].Meta: Symbol metadata
//   - Chart.Result[].Timestamp: Unix timestamps for each trading day
//   - Chart.Result[].Indicators: Close prices, null on days without a quote
//   - Chart.Error: Optional error object from the API
type Response struct {
	Chart Chart `json:"chart"`
}

type Chart struct {
	Result []Result    `json:"result"`
	Error  *ChartError `json:"error"`
}

type Result struct {
	Meta struct {
		Currency     string `json:"currency"`
		Symbol       string `json:"symbol"`
		ExchangeName string `json:"exchangeName"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

type ChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// PriceChart is the parsed form of a Response: one daily close per trading day.
type PriceChart struct {
	Symbol   string
	Currency string
	Closes   []DailyClose
}

// DailyClose is the closing price of one trading day. Date is midnight UTC.
type DailyClose struct {
	Date  time.Time
	Close decimal.Decimal
}
