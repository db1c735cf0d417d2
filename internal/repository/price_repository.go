package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rirwin/stock-analysis/internal/apperrors"
	"github.com/rirwin/stock-analysis/internal/model"
)

// PriceRepository provides data access methods for the price_history table.
// Several rows may share a (ticker, date); single-row lookups prefer the most
// recently inserted one.
type PriceRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPriceRepository creates a new PriceRepository with the provided database connection.
func NewPriceRepository(db *sql.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

// WithTx returns a copy of the repository that runs every statement on tx.
func (r *PriceRepository) WithTx(tx *sql.Tx) *PriceRepository {
	return &PriceRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *PriceRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// InsertPrices appends one row per price. Existing rows for the same (ticker, date) are kept.
func (r *PriceRepository) InsertPrices(ctx context.Context, prices []model.TickerDatePrice) error {
	query := `
		INSERT INTO price_history (id, ticker, date, price)
		VALUES (?, ?, ?, ?)
	`

	q := r.getQuerier()
	for _, p := range prices {
		_, err := q.ExecContext(ctx, query,
			uuid.New().String(),
			p.Ticker,
			model.FormatDate(p.Date),
			p.Price.String(),
		)
		if err != nil {
			return persistenceErr("failed to insert price_history", err)
		}
	}

	return nil
}

// GetPriceOnOrBefore returns the price with the latest date <= date for ticker.
// Returns ErrPriceNotFound when there is none.
func (r *PriceRepository) GetPriceOnOrBefore(ctx context.Context, ticker string, date time.Time) (model.TickerDatePrice, error) {
	query := `
		SELECT ticker, date, price
		FROM price_history
		WHERE ticker = ? AND date <= ?
		ORDER BY date DESC, rowid DESC
		LIMIT 1
	`
	desc := fmt.Sprintf("%s on or before %s", ticker, model.FormatDate(date))
	return r.queryPrice(ctx, ticker, desc, query, ticker, model.FormatDate(date))
}

// GetLatestPrice returns the price with the maximum date for ticker.
// Returns ErrPriceNotFound when the ticker has no prices.
func (r *PriceRepository) GetLatestPrice(ctx context.Context, ticker string) (model.TickerDatePrice, error) {
	query := `
		SELECT ticker, date, price
		FROM price_history
		WHERE ticker = ?
		ORDER BY date DESC, rowid DESC
		LIMIT 1
	`
	return r.queryPrice(ctx, ticker, ticker, query, ticker)
}

// queryPrice scans a single price row of ticker. desc names the lookup in the not-found error.
func (r *PriceRepository) queryPrice(ctx context.Context, ticker, desc, query string, args ...any) (model.TickerDatePrice, error) {
	q := r.getQuerier()
	if err := checkDates(ctx, q, "price_history", "ticker = ?", ticker); err != nil {
		return model.TickerDatePrice{}, err
	}

	var p model.TickerDatePrice
	var dateStr, priceStr string

	err := q.QueryRowContext(ctx, query, args...).Scan(&p.Ticker, &dateStr, &priceStr)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TickerDatePrice{}, fmt.Errorf("%w: %s", apperrors.ErrPriceNotFound, desc)
	}
	if err != nil {
		return model.TickerDatePrice{}, persistenceErr("failed to query price_history table", err)
	}

	if p.Date, err = parseStoredDate("price_history", dateStr); err != nil {
		return model.TickerDatePrice{}, err
	}
	if p.Price, err = parseStoredPrice("price_history", priceStr); err != nil {
		return model.TickerDatePrice{}, err
	}

	return p, nil
}

// GetPrices retrieves the price series of ticker between startDate and endDate inclusive,
// oldest first. Duplicate dates are returned as stored, in insertion order.
func (r *PriceRepository) GetPrices(ctx context.Context, ticker string, startDate, endDate time.Time) ([]model.TickerDatePrice, error) {
	if startDate.After(endDate) {
		return nil, fmt.Errorf("startDate (%s) must be before or equal to endDate (%s)",
			model.FormatDate(startDate), model.FormatDate(endDate))
	}

	query := `
		SELECT ticker, date, price
		FROM price_history
		WHERE ticker = ?
		AND date >= ?
		AND date <= ?
		ORDER BY date ASC, rowid ASC
	`

	q := r.getQuerier()
	if err := checkDates(ctx, q, "price_history", "ticker = ?", ticker); err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, query, ticker, model.FormatDate(startDate), model.FormatDate(endDate))
	if err != nil {
		return nil, persistenceErr("failed to query price_history table", err)
	}
	defer rows.Close()

	prices := []model.TickerDatePrice{}

	for rows.Next() {
		var p model.TickerDatePrice
		var dateStr, priceStr string

		if err := rows.Scan(&p.Ticker, &dateStr, &priceStr); err != nil {
			return nil, persistenceErr("failed to scan price_history table results", err)
		}
		if p.Date, err = parseStoredDate("price_history", dateStr); err != nil {
			return nil, err
		}
		if p.Price, err = parseStoredPrice("price_history", priceStr); err != nil {
			return nil, err
		}

		prices = append(prices, p)
	}

	if err = rows.Err(); err != nil {
		return nil, persistenceErr("error iterating price_history table", err)
	}

	return prices, nil
}

// GetLatestPriceDate returns the most recent date with a stored price for ticker.
// ok is false when the ticker has no prices.
func (r *PriceRepository) GetLatestPriceDate(ctx context.Context, ticker string) (date time.Time, ok bool, err error) {
	q := r.getQuerier()
	if err = checkDates(ctx, q, "price_history", "ticker = ?", ticker); err != nil {
		return time.Time{}, false, err
	}

	var dateStr sql.NullString

	err = q.QueryRowContext(ctx,
		`SELECT MAX(date) FROM price_history WHERE ticker = ?`, ticker,
	).Scan(&dateStr)
	if err != nil {
		return time.Time{}, false, persistenceErr("failed to query latest price date", err)
	}
	if !dateStr.Valid {
		return time.Time{}, false, nil
	}

	date, err = parseStoredDate("price_history", dateStr.String)
	if err != nil {
		return time.Time{}, false, err
	}
	return date, true, nil
}
