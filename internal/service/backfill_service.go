package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rirwin/stock-analysis/internal/logger"
	"github.com/rirwin/stock-analysis/internal/model"
)

// PriceFeed returns historical daily closes for a ticker, both dates inclusive.
type PriceFeed interface {
	DailyCloses(ctx context.Context, ticker string, startDate, endDate time.Time) ([]model.TickerDatePrice, error)
}

// BackfillResult reports one backfill run.
type BackfillResult struct {
	Tickers int               `json:"tickers"`
	Prices  int               `json:"prices"`
	Failed  map[string]string `json:"failed,omitempty"`
}

// BackfillService fills price history for every ordered ticker from its earliest order date
// (or the day after its latest stored price) up to today.
type BackfillService struct {
	orders      *OrderHistoryService
	prices      *PriceHistoryService
	feed        PriceFeed
	concurrency int
	now         func() time.Time
}

// NewBackfillService creates a BackfillService fetching at most concurrency tickers at once.
func NewBackfillService(
	orders *OrderHistoryService,
	prices *PriceHistoryService,
	feed PriceFeed,
	concurrency int,
) *BackfillService {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &BackfillService{
		orders:      orders,
		prices:      prices,
		feed:        feed,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// WithClock returns a copy of the service using now as the current time.
func (s *BackfillService) WithClock(now func() time.Time) *BackfillService {
	c := *s
	c.now = now
	return &c
}

// Run backfills all tickers. A failing ticker is logged and reported in the result;
// it does not stop the others. Each ticker's new prices are stored in one atomic batch.
func (s *BackfillService) Run(ctx context.Context) (BackfillResult, error) {
	tickerDates, err := s.orders.GetAllOrderTickersMinDate(ctx)
	if err != nil {
		return BackfillResult{}, err
	}

	today := model.Day(s.now().UTC())
	log := logger.Named("backfill")

	result := BackfillResult{Tickers: len(tickerDates), Failed: map[string]string{}}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, td := range tickerDates {
		td := td
		g.Go(func() error {
			n, err := s.backfillTicker(gctx, td, today)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warnw("price backfill failed", "ticker", td.Ticker, "error", err)
				result.Failed[td.Ticker] = err.Error()
				return nil
			}
			result.Prices += n
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return result, err
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	log.Infow("price backfill finished",
		"tickers", result.Tickers,
		"prices", result.Prices,
		"failed", sortedFailures(result.Failed),
	)
	return result, nil
}

func (s *BackfillService) backfillTicker(ctx context.Context, td model.TickerDate, today time.Time) (int, error) {
	start := td.Date

	latest, ok, err := s.prices.GetLatestPriceDate(ctx, td.Ticker)
	if err != nil {
		return 0, err
	}
	if ok && !latest.Before(start) {
		start = latest.AddDate(0, 0, 1)
	}
	if start.After(today) {
		return 0, nil
	}

	fetched, err := s.feed.DailyCloses(ctx, td.Ticker, start, today)
	if err != nil {
		return 0, err
	}

	prices := make([]model.TickerDatePrice, 0, len(fetched))
	for _, p := range fetched {
		if p.Date.Before(start) || p.Date.After(today) || !p.Price.IsPositive() {
			continue
		}
		p.Ticker = td.Ticker
		prices = append(prices, p)
	}

	if err := s.prices.AddPrices(ctx, prices); err != nil {
		return 0, err
	}
	return len(prices), nil
}

func sortedFailures(failed map[string]string) []string {
	tickers := make([]string, 0, len(failed))
	for t := range failed {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}
