package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rirwin/stock-analysis/internal/model"
)

// DefaultBaseURL is the Yahoo Finance chart endpoint.
const DefaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// FinanceClient fetches historical daily closes from the Yahoo Finance chart API.
type FinanceClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewFinanceClient creates a Yahoo Finance client. An empty baseURL selects DefaultBaseURL.
func NewFinanceClient(baseURL string) *FinanceClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &FinanceClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
	}
}

// ParseChart converts a raw Yahoo Finance API response into a price chart.
// Days with a null close are dropped.
//
// Returns an error if:
//   - the response carries no result
//   - the close series is missing
//   - timestamps and closes have mismatched lengths
func ParseChart(yahooResult Response) (PriceChart, error) {
	if len(yahooResult.Chart.Result) == 0 {
		return PriceChart{}, fmt.Errorf("no results returned")
	}
	result := yahooResult.Chart.Result[0]

	chart := PriceChart{
		Symbol:   result.Meta.Symbol,
		Currency: result.Meta.Currency,
	}
	if len(result.Timestamp) == 0 {
		return chart, nil
	}
	if len(result.Indicators.Quote) == 0 {
		return PriceChart{}, fmt.Errorf("no close prices returned")
	}

	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		return PriceChart{}, fmt.Errorf("mismatched data lengths")
	}

	for i, ts := range result.Timestamp {
		if closes[i] == nil {
			continue
		}
		chart.Closes = append(chart.Closes, DailyClose{
			Date:  model.Day(time.Unix(ts, 0).UTC()),
			Close: decimal.NewFromFloat(*closes[i]),
		})
	}
	return chart, nil
}

// QuerySymbolByDateRange fetches daily price data for a symbol within a date range.
// Both ends are inclusive.
func (c *FinanceClient) QuerySymbolByDateRange(ctx context.Context, symbol string, startDate, endDate time.Time) (Response, error) {
	u := fmt.Sprintf(
		"%s/%s?interval=1d&period1=%d&period2=%d",
		c.baseURL,
		url.PathEscape(symbol),
		model.Day(startDate).Unix(),
		model.Day(endDate).AddDate(0, 0, 1).Unix(),
	)
	return c.queryYahoo(ctx, u)
}

// DailyCloses returns the closes of ticker between startDate and endDate inclusive
// as price records ready to store.
func (c *FinanceClient) DailyCloses(ctx context.Context, ticker string, startDate, endDate time.Time) ([]model.TickerDatePrice, error) {
	resp, err := c.QuerySymbolByDateRange(ctx, ticker, startDate, endDate)
	if err != nil {
		return nil, err
	}

	chart, err := ParseChart(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse chart for %s: %w", ticker, err)
	}

	prices := make([]model.TickerDatePrice, 0, len(chart.Closes))
	for _, dc := range chart.Closes {
		if dc.Date.Before(model.Day(startDate)) || dc.Date.After(model.Day(endDate)) {
			continue
		}
		prices = append(prices, model.TickerDatePrice{
			Ticker: ticker,
			Date:   dc.Date,
			Price:  dc.Close,
		})
	}
	return prices, nil
}

// queryYahoo executes a GET against the chart API and decodes the response.
// A browser User-Agent is required or the API answers 429.
func (c *FinanceClient) queryYahoo(ctx context.Context, u string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Response{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, err
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		return Response{}, fmt.Errorf("yahoo returned %d: %w", resp.StatusCode, err)
	}

	if response.Chart.Error != nil {
		return response, fmt.Errorf("yahoo error: %s: %s", response.Chart.Error.Code, response.Chart.Error.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return response, fmt.Errorf("yahoo returned status %d", resp.StatusCode)
	}

	return response, nil
}
