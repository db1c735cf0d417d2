package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rirwin/stock-analysis/internal/apperrors"
	"github.com/rirwin/stock-analysis/internal/logger"
	"github.com/rirwin/stock-analysis/internal/model"
	"github.com/rirwin/stock-analysis/internal/repository"
	"github.com/rirwin/stock-analysis/internal/validation"
)

// OrderHistoryService handles order history business logic: batch inserts and
// aggregations over a user's orders.
type OrderHistoryService struct {
	db        *sql.DB
	orderRepo *repository.OrderRepository
}

// NewOrderHistoryService creates a new OrderHistoryService with the provided repository dependencies.
func NewOrderHistoryService(
	db *sql.DB,
	orderRepo *repository.OrderRepository,
) *OrderHistoryService {
	return &OrderHistoryService{
		db:        db,
		orderRepo: orderRepo,
	}
}

type userTicker struct {
	userID int64
	ticker string
}

// AddOrders validates and stores a batch of orders in a single transaction.
// Either every order is stored or none is. The batch is rejected with
// ErrNegativePosition if, once stored, any affected position would go short.
func (s *OrderHistoryService) AddOrders(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	batch := make([]model.Order, len(orders))
	affected := make(map[userTicker]struct{})
	for i, o := range orders {
		valid, err := validation.ValidateOrder(o)
		if err != nil {
			return fmt.Errorf("order %d: %w", i, err)
		}
		batch[i] = valid
		affected[userTicker{valid.UserID, valid.Ticker}] = struct{}{}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %w", apperrors.ErrPersistence, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	repo := s.orderRepo.WithTx(tx)
	if err := repo.InsertOrders(ctx, batch); err != nil {
		return err
	}

	for _, key := range sortedKeys(affected) {
		history, err := repo.GetOrdersForUserTicker(ctx, key.userID, key.ticker)
		if err != nil {
			return err
		}
		if day, short := model.FirstShortfall(history); short {
			return fmt.Errorf("%w: user %d, %s on %s",
				apperrors.ErrNegativePosition, key.userID, key.ticker, model.FormatDate(day))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit orders: %w", apperrors.ErrPersistence, err)
	}

	logger.Named("orders").Debugw("orders added", "count", len(batch), "positions", len(affected))
	return nil
}

func sortedKeys(m map[userTicker]struct{}) []userTicker {
	keys := make([]userTicker, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].userID != keys[j].userID {
			return keys[i].userID < keys[j].userID
		}
		return keys[i].ticker < keys[j].ticker
	})
	return keys
}

// GetOrdersForUser returns every order of the user, in no particular order.
func (s *OrderHistoryService) GetOrdersForUser(ctx context.Context, userID int64) ([]model.Order, error) {
	return s.orderRepo.GetOrdersForUser(ctx, userID)
}

// GetOrdersForUserTicker returns the user's orders for one ticker, oldest first.
func (s *OrderHistoryService) GetOrdersForUserTicker(ctx context.Context, userID int64, ticker string) ([]model.Order, error) {
	return s.orderRepo.GetOrdersForUserTicker(ctx, userID, ticker)
}

// GetTickersAndMinDatesForUser returns each ticker the user ordered with its earliest order date.
// This is the date from which the ticker's price history is needed.
func (s *OrderHistoryService) GetTickersAndMinDatesForUser(ctx context.Context, userID int64) ([]model.TickerDate, error) {
	return s.orderRepo.GetTickersAndMinDatesForUser(ctx, userID)
}

// GetAllOrderTickersMinDate returns each ticker ordered by anyone with its earliest order date.
func (s *OrderHistoryService) GetAllOrderTickersMinDate(ctx context.Context) ([]model.TickerDate, error) {
	return s.orderRepo.GetAllOrderTickersMinDate(ctx)
}

// GetPortfolioSharesOwnedOnDate returns net shares (BUY minus SELL) per ticker over orders
// dated on or before date. Tickers netting to zero or below are returned as-is.
func (s *OrderHistoryService) GetPortfolioSharesOwnedOnDate(ctx context.Context, userID int64, date time.Time) (map[string]int64, error) {
	return s.orderRepo.GetSharesOwnedOnDate(ctx, userID, model.Day(date))
}

// GetTickerToOrders groups the user's orders by ticker.
func (s *OrderHistoryService) GetTickerToOrders(ctx context.Context, userID int64) (map[string][]model.Order, error) {
	orders, err := s.orderRepo.GetOrdersForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	byTicker := make(map[string][]model.Order)
	for _, o := range orders {
		byTicker[o.Ticker] = append(byTicker[o.Ticker], o)
	}
	return byTicker, nil
}

// GetTickerTotalPurchasedSold sums shares × price per ticker, separately for BUY and SELL orders.
// A ticker with no BUY orders is absent from purchased; likewise for SELL orders and sold.
func (s *OrderHistoryService) GetTickerTotalPurchasedSold(ctx context.Context, userID int64) (purchased, sold map[string]decimal.Decimal, err error) {
	orders, err := s.orderRepo.GetOrdersForUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	purchased = make(map[string]decimal.Decimal)
	sold = make(map[string]decimal.Decimal)
	for _, o := range orders {
		switch o.Type {
		case model.OrderTypeBuy:
			purchased[o.Ticker] = purchased[o.Ticker].Add(o.Amount())
		case model.OrderTypeSell:
			sold[o.Ticker] = sold[o.Ticker].Add(o.Amount())
		}
	}
	return purchased, sold, nil
}
