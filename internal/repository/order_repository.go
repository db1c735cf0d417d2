package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rirwin/stock-analysis/internal/apperrors"
	"github.com/rirwin/stock-analysis/internal/model"
)

// OrderRepository provides data access methods for the order_history table.
type OrderRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewOrderRepository creates a new OrderRepository with the provided database connection.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// WithTx returns a copy of the repository that runs every statement on tx.
func (r *OrderRepository) WithTx(tx *sql.Tx) *OrderRepository {
	return &OrderRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *OrderRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// InsertOrders appends one row per order. Atomicity is the caller's concern: run it on a
// repository bound with WithTx to commit the batch as a unit.
// IDs are assigned to orders that do not carry one; the slice is updated in place.
func (r *OrderRepository) InsertOrders(ctx context.Context, orders []model.Order) error {
	query := `
		INSERT INTO order_history (id, user_id, order_type, ticker, date, num_shares, price)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	q := r.getQuerier()
	for i := range orders {
		o := &orders[i]
		if o.ID == "" {
			o.ID = uuid.New().String()
		}
		_, err := q.ExecContext(ctx, query,
			o.ID,
			o.UserID,
			string(o.Type),
			o.Ticker,
			model.FormatDate(o.Date),
			o.NumShares,
			o.Price.String(),
		)
		if err != nil {
			return persistenceErr("failed to insert order_history", err)
		}
	}

	return nil
}

// GetOrdersForUser retrieves every order of the user. Order of rows is not guaranteed.
// Returns an empty slice if the user has no orders.
func (r *OrderRepository) GetOrdersForUser(ctx context.Context, userID int64) ([]model.Order, error) {
	query := `
		SELECT id, user_id, order_type, ticker, date, num_shares, price
		FROM order_history
		WHERE user_id = ?
	`
	return r.queryOrders(ctx, query, userID)
}

// GetOrdersForUserTicker retrieves the orders of one user for one ticker, oldest first.
// On the same date BUY orders come before SELL orders.
func (r *OrderRepository) GetOrdersForUserTicker(ctx context.Context, userID int64, ticker string) ([]model.Order, error) {
	query := `
		SELECT id, user_id, order_type, ticker, date, num_shares, price
		FROM order_history
		WHERE user_id = ? AND ticker = ?
		ORDER BY date ASC, order_type ASC, rowid ASC
	`
	return r.queryOrders(ctx, query, userID, ticker)
}

func (r *OrderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistenceErr("failed to query order_history table", err)
	}
	defer rows.Close()

	orders := []model.Order{}

	for rows.Next() {
		var dateStr, priceStr, typeStr string
		var o model.Order

		err := rows.Scan(
			&o.ID,
			&o.UserID,
			&typeStr,
			&o.Ticker,
			&dateStr,
			&o.NumShares,
			&priceStr,
		)
		if err != nil {
			return nil, persistenceErr("failed to scan order_history table results", err)
		}

		o.Type = model.OrderType(typeStr)
		if !o.Type.Valid() {
			return nil, fmt.Errorf("%w: order_history.order_type %q", apperrors.ErrDataCorruption, typeStr)
		}
		if o.Date, err = parseStoredDate("order_history", dateStr); err != nil {
			return nil, err
		}
		if o.Price, err = parseStoredPrice("order_history", priceStr); err != nil {
			return nil, err
		}

		orders = append(orders, o)
	}

	if err = rows.Err(); err != nil {
		return nil, persistenceErr("error iterating order_history table", err)
	}

	return orders, nil
}

// GetTickersAndMinDatesForUser returns one row per ticker the user ever ordered,
// with the earliest order date for that ticker.
func (r *OrderRepository) GetTickersAndMinDatesForUser(ctx context.Context, userID int64) ([]model.TickerDate, error) {
	return r.queryTickerDates(ctx, "user_id = ?", userID)
}

// GetAllOrderTickersMinDate is GetTickersAndMinDatesForUser across all users.
func (r *OrderRepository) GetAllOrderTickersMinDate(ctx context.Context) ([]model.TickerDate, error) {
	return r.queryTickerDates(ctx, "1 = 1")
}

// queryTickerDates returns MIN(date) per ticker over the rows selected by where.
func (r *OrderRepository) queryTickerDates(ctx context.Context, where string, args ...any) ([]model.TickerDate, error) {
	q := r.getQuerier()
	if err := checkDates(ctx, q, "order_history", where, args...); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT ticker, MIN(date)
		FROM order_history
		WHERE %s
		GROUP BY ticker
		ORDER BY ticker
	`, where)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistenceErr("failed to query order_history min dates", err)
	}
	defer rows.Close()

	tickerDates := []model.TickerDate{}

	for rows.Next() {
		var td model.TickerDate
		var dateStr string

		if err := rows.Scan(&td.Ticker, &dateStr); err != nil {
			return nil, persistenceErr("failed to scan order_history min dates", err)
		}
		if td.Date, err = parseStoredDate("order_history", dateStr); err != nil {
			return nil, err
		}

		tickerDates = append(tickerDates, td)
	}

	if err = rows.Err(); err != nil {
		return nil, persistenceErr("error iterating order_history min dates", err)
	}

	return tickerDates, nil
}

// GetSharesOwnedOnDate nets BUY minus SELL shares per ticker over the user's orders dated
// on or before date. Tickers netting to zero are kept.
func (r *OrderRepository) GetSharesOwnedOnDate(ctx context.Context, userID int64, date time.Time) (map[string]int64, error) {
	query := `
		SELECT
			ticker,
			SUM(
				CASE
					WHEN order_type = 'B' THEN num_shares
					WHEN order_type = 'S' THEN -1 * num_shares
				END
			) AS num_shares
		FROM order_history
		WHERE user_id = ?
		AND date <= ?
		GROUP BY ticker
		ORDER BY ticker
	`

	q := r.getQuerier()
	if err := checkDates(ctx, q, "order_history", "user_id = ?", userID); err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, query, userID, model.FormatDate(date))
	if err != nil {
		return nil, persistenceErr("failed to query shares owned", err)
	}
	defer rows.Close()

	shares := make(map[string]int64)

	for rows.Next() {
		var ticker string
		var n int64
		if err := rows.Scan(&ticker, &n); err != nil {
			return nil, persistenceErr("failed to scan shares owned", err)
		}
		shares[ticker] = n
	}

	if err = rows.Err(); err != nil {
		return nil, persistenceErr("error iterating shares owned", err)
	}

	return shares, nil
}
