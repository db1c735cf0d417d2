package testutil

import (
	"database/sql"
	"testing"

	"github.com/rirwin/stock-analysis/internal/repository"
	"github.com/rirwin/stock-analysis/internal/service"
)

func NewTestOrderHistoryService(t *testing.T, db *sql.DB) *service.OrderHistoryService {
	t.Helper()

	return service.NewOrderHistoryService(db, repository.NewOrderRepository(db))
}

func NewTestPriceHistoryService(t *testing.T, db *sql.DB) *service.PriceHistoryService {
	t.Helper()

	return service.NewPriceHistoryService(db, repository.NewPriceRepository(db))
}

func NewTestPortfolioService(t *testing.T, db *sql.DB) *service.PortfolioService {
	t.Helper()

	return service.NewPortfolioService(
		NewTestOrderHistoryService(t, db),
		NewTestPriceHistoryService(t, db),
	)
}

// NewTestBackfillService creates a BackfillService fetching from feed.
func NewTestBackfillService(t *testing.T, db *sql.DB, feed service.PriceFeed) *service.BackfillService {
	t.Helper()

	return service.NewBackfillService(
		NewTestOrderHistoryService(t, db),
		NewTestPriceHistoryService(t, db),
		feed,
		2,
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}
