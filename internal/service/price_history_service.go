package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rirwin/stock-analysis/internal/apperrors"
	"github.com/rirwin/stock-analysis/internal/logger"
	"github.com/rirwin/stock-analysis/internal/model"
	"github.com/rirwin/stock-analysis/internal/repository"
	"github.com/rirwin/stock-analysis/internal/validation"
)

// PriceHistoryService handles daily close lookups and inserts.
// Price series are sparse (no weekends or holidays) so every date lookup resolves to the
// most recent price on or before the date, never to an exact match only.
type PriceHistoryService struct {
	db        *sql.DB
	priceRepo *repository.PriceRepository
}

// NewPriceHistoryService creates a new PriceHistoryService.
func NewPriceHistoryService(db *sql.DB, priceRepo *repository.PriceRepository) *PriceHistoryService {
	return &PriceHistoryService{
		db:        db,
		priceRepo: priceRepo,
	}
}

// AddPrices validates and stores a batch of prices atomically.
// Prices for an already stored (ticker, date) are added alongside the existing ones.
func (s *PriceHistoryService) AddPrices(ctx context.Context, prices []model.TickerDatePrice) error {
	if len(prices) == 0 {
		return nil
	}

	batch := make([]model.TickerDatePrice, len(prices))
	for i, p := range prices {
		valid, err := validation.ValidatePrice(p)
		if err != nil {
			return fmt.Errorf("price %d: %w", i, err)
		}
		batch[i] = valid
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %w", apperrors.ErrPersistence, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := s.priceRepo.WithTx(tx).InsertPrices(ctx, batch); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit prices: %w", apperrors.ErrPersistence, err)
	}

	logger.Named("prices").Debugw("prices added", "count", len(batch))
	return nil
}

// GetPriceOnOrBefore returns the price of ticker with the latest date <= date.
// Returns ErrPriceNotFound when no such price exists.
func (s *PriceHistoryService) GetPriceOnOrBefore(ctx context.Context, ticker string, date time.Time) (model.TickerDatePrice, error) {
	return s.priceRepo.GetPriceOnOrBefore(ctx, ticker, model.Day(date))
}

// GetLatestPrice returns the most recent price of ticker, or ErrPriceNotFound.
func (s *PriceHistoryService) GetLatestPrice(ctx context.Context, ticker string) (model.TickerDatePrice, error) {
	return s.priceRepo.GetLatestPrice(ctx, ticker)
}

// GetPrices returns the stored closes of ticker between startDate and endDate inclusive.
func (s *PriceHistoryService) GetPrices(ctx context.Context, ticker string, startDate, endDate time.Time) ([]model.TickerDatePrice, error) {
	if startDate.After(endDate) {
		return nil, fmt.Errorf("%w: start %s is after end %s", apperrors.ErrInvalidDate,
			model.FormatDate(startDate), model.FormatDate(endDate))
	}
	return s.priceRepo.GetPrices(ctx, ticker, model.Day(startDate), model.Day(endDate))
}

// GetLatestPriceDate returns the date of the most recent stored price of ticker.
func (s *PriceHistoryService) GetLatestPriceDate(ctx context.Context, ticker string) (time.Time, bool, error) {
	return s.priceRepo.GetLatestPriceDate(ctx, ticker)
}
