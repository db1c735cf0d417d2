package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/rirwin/stock-analysis/internal/model"
)

// FeedCall records one DailyCloses request.
type FeedCall struct {
	Ticker string
	Start  time.Time
	End    time.Time
}

// MockPriceFeed is an in-memory service.PriceFeed for testing.
// It answers from Prices, restricted to the requested range, and fails for tickers in Errors.
type MockPriceFeed struct {
	mu     sync.Mutex
	Prices map[string][]model.TickerDatePrice
	Errors map[string]error
	Calls  []FeedCall
}

// NewMockPriceFeed creates an empty mock feed.
func NewMockPriceFeed() *MockPriceFeed {
	return &MockPriceFeed{
		Prices: map[string][]model.TickerDatePrice{},
		Errors: map[string]error{},
	}
}

// WithPrices adds closes to the feed.
func (m *MockPriceFeed) WithPrices(prices ...model.TickerDatePrice) *MockPriceFeed {
	for _, p := range prices {
		m.Prices[p.Ticker] = append(m.Prices[p.Ticker], p)
	}
	return m
}

// WithError configures the feed to fail for ticker.
func (m *MockPriceFeed) WithError(ticker string, err error) *MockPriceFeed {
	m.Errors[ticker] = err
	return m
}

func (m *MockPriceFeed) DailyCloses(_ context.Context, ticker string, start, end time.Time) ([]model.TickerDatePrice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, FeedCall{Ticker: ticker, Start: start, End: end})
	if err := m.Errors[ticker]; err != nil {
		return nil, err
	}

	var out []model.TickerDatePrice
	for _, p := range m.Prices[ticker] {
		if p.Date.Before(start) || p.Date.After(end) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// CallsFor returns the recorded requests for ticker.
func (m *MockPriceFeed) CallsFor(ticker string) []FeedCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	var calls []FeedCall
	for _, c := range m.Calls {
		if c.Ticker == ticker {
			calls = append(calls, c)
		}
	}
	return calls
}
