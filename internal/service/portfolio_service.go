package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rirwin/stock-analysis/internal/apperrors"
	"github.com/rirwin/stock-analysis/internal/model"
)

var hundred = decimal.NewFromInt(100)

// OrderHistoryReader is the read side of the order history logic used for valuation.
type OrderHistoryReader interface {
	GetOrdersForUserTicker(ctx context.Context, userID int64, ticker string) ([]model.Order, error)
	GetTickerToOrders(ctx context.Context, userID int64) (map[string][]model.Order, error)
	GetPortfolioSharesOwnedOnDate(ctx context.Context, userID int64, date time.Time) (map[string]int64, error)
}

// PriceHistoryReader is the read side of the price history logic used for valuation.
type PriceHistoryReader interface {
	GetLatestPrice(ctx context.Context, ticker string) (model.TickerDatePrice, error)
	GetPriceOnOrBefore(ctx context.Context, ticker string, date time.Time) (model.TickerDatePrice, error)
}

// PortfolioService computes valuation metrics by joining order history with price history.
// It holds no state between calls: every call re-reads both histories.
type PortfolioService struct {
	orders OrderHistoryReader
	prices PriceHistoryReader
}

// NewPortfolioService creates a new PortfolioService on top of the order and price logic.
func NewPortfolioService(orders OrderHistoryReader, prices PriceHistoryReader) *PortfolioService {
	return &PortfolioService{
		orders: orders,
		prices: prices,
	}
}

// stockMetrics is the valuation of one ticker for one user as of now.
type stockMetrics struct {
	Shares      int64
	CostBasis   decimal.Decimal // BUY amounts minus SELL amounts
	LatestPrice model.TickerDatePrice
	Value       decimal.Decimal
}

// evaluate values a ticker from its complete order list.
//
// Errors:
//   - ErrInsufficientData when there are no orders or no price history at all
//   - ErrNegativePosition when the orders net to a short position
func (s *PortfolioService) evaluate(ctx context.Context, ticker string, orders []model.Order) (stockMetrics, error) {
	if len(orders) == 0 {
		return stockMetrics{}, fmt.Errorf("%w: no orders for %s", apperrors.ErrInsufficientData, ticker)
	}

	m := stockMetrics{
		Shares:    model.NetShares(orders),
		CostBasis: costBasis(orders),
	}
	if m.Shares < 0 {
		return stockMetrics{}, fmt.Errorf("%w: %s nets to %d shares", apperrors.ErrNegativePosition, ticker, m.Shares)
	}

	price, err := s.prices.GetLatestPrice(ctx, ticker)
	if errors.Is(err, apperrors.ErrPriceNotFound) {
		return stockMetrics{}, fmt.Errorf("%w: no price history for %s", apperrors.ErrInsufficientData, ticker)
	}
	if err != nil {
		return stockMetrics{}, err
	}

	m.LatestPrice = price
	m.Value = price.Price.Mul(decimal.NewFromInt(m.Shares))
	return m, nil
}

// percentGain returns 100 × (value − costBasis) / costBasis.
func (m stockMetrics) percentGain(ticker string) (decimal.Decimal, error) {
	if m.CostBasis.IsZero() {
		return decimal.Decimal{}, fmt.Errorf("%w: zero cost basis for %s", apperrors.ErrInsufficientData, ticker)
	}
	return m.Value.Sub(m.CostBasis).Mul(hundred).Div(m.CostBasis), nil
}

// GetStockValue returns current shares × latest price for the user's position in ticker.
// Current shares nets every BUY and SELL order regardless of date.
func (s *PortfolioService) GetStockValue(ctx context.Context, userID int64, ticker string) (decimal.Decimal, error) {
	orders, err := s.orders.GetOrdersForUserTicker(ctx, userID, ticker)
	if err != nil {
		return decimal.Decimal{}, err
	}

	m, err := s.evaluate(ctx, ticker, orders)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return m.Value, nil
}

// GetPercentGain returns 100 × (current value − cost basis) / cost basis for the user's
// position in ticker. The cost basis is the total of BUY shares × price minus the total of
// SELL shares × price: several purchases are summed, not averaged.
// A zero cost basis yields ErrInsufficientData.
func (s *PortfolioService) GetPercentGain(ctx context.Context, userID int64, ticker string) (decimal.Decimal, error) {
	orders, err := s.orders.GetOrdersForUserTicker(ctx, userID, ticker)
	if err != nil {
		return decimal.Decimal{}, err
	}

	m, err := s.evaluate(ctx, ticker, orders)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return m.percentGain(ticker)
}

// GetHoldingsOnDate values every ticker the user held on date using the price on or before
// that date. Tickers with no such price are returned without Price and Value.
// Results are sorted by ticker.
func (s *PortfolioService) GetHoldingsOnDate(ctx context.Context, userID int64, date time.Time) ([]model.Holding, error) {
	date = model.Day(date)

	shares, err := s.orders.GetPortfolioSharesOwnedOnDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	holdings := make([]model.Holding, 0, len(shares))
	for _, ticker := range sortedTickers(shares) {
		n := shares[ticker]
		if n < 0 {
			return nil, fmt.Errorf("%w: %s nets to %d shares on %s",
				apperrors.ErrNegativePosition, ticker, n, model.FormatDate(date))
		}

		h := model.Holding{Ticker: ticker, Date: date, Shares: n}

		price, err := s.prices.GetPriceOnOrBefore(ctx, ticker, date)
		switch {
		case errors.Is(err, apperrors.ErrPriceNotFound):
			// not backfilled yet; reported without a value
		case err != nil:
			return nil, err
		default:
			value := price.Price.Mul(decimal.NewFromInt(n))
			h.Price = &price
			h.Value = &value
		}

		holdings = append(holdings, h)
	}

	return holdings, nil
}

// GetPortfolioSummary returns current metrics for every ticker the user ever ordered,
// sorted by ticker. A ticker that cannot be valued carries the reason in Error.
func (s *PortfolioService) GetPortfolioSummary(ctx context.Context, userID int64) ([]model.StockSummary, error) {
	byTicker, err := s.orders.GetTickerToOrders(ctx, userID)
	if err != nil {
		return nil, err
	}

	tickers := make([]string, 0, len(byTicker))
	for t := range byTicker {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	summaries := make([]model.StockSummary, 0, len(tickers))
	for _, ticker := range tickers {
		orders := byTicker[ticker]
		summary := model.StockSummary{
			Ticker:    ticker,
			Shares:    model.NetShares(orders),
			CostBasis: costBasis(orders),
		}

		m, err := s.evaluate(ctx, ticker, orders)
		if err == nil {
			var gain decimal.Decimal
			gain, err = m.percentGain(ticker)
			summary.LatestPrice = &m.LatestPrice
			summary.Value = &m.Value
			if err == nil {
				summary.PercentGain = &gain
			}
		}
		if err != nil {
			if !errors.Is(err, apperrors.ErrInsufficientData) && !errors.Is(err, apperrors.ErrNegativePosition) {
				return nil, err
			}
			summary.Error = err.Error()
		}

		summaries = append(summaries, summary)
	}

	return summaries, nil
}

func costBasis(orders []model.Order) decimal.Decimal {
	var total decimal.Decimal
	for _, o := range orders {
		if o.Type == model.OrderTypeSell {
			total = total.Sub(o.Amount())
		} else {
			total = total.Add(o.Amount())
		}
	}
	return total
}

func sortedTickers(m map[string]int64) []string {
	tickers := make([]string, 0, len(m))
	for t := range m {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}
