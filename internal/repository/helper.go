package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rirwin/stock-analysis/internal/apperrors"
	"github.com/rirwin/stock-analysis/internal/model"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// persistenceErr tags a store failure so callers can match it with errors.Is.
func persistenceErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", apperrors.ErrPersistence, op, err)
}

// parseStoredDate parses a YYYY-MM-DD column value. Anything else is corruption.
func parseStoredDate(table, str string) (time.Time, error) {
	t, err := model.ParseDate(str)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s.date %q: %w", apperrors.ErrDataCorruption, table, str, err)
	}
	return t, nil
}

// parseStoredPrice parses a decimal price column value.
func parseStoredPrice(table, str string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(str)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s.price %q: %w", apperrors.ErrDataCorruption, table, str, err)
	}
	return d, nil
}

// checkDates fails with ErrDataCorruption when any row of table selected by where holds a
// date that is not a canonical YYYY-MM-DD calendar date. Queries that filter, sort or
// aggregate on the date text run it first, since such rows would otherwise be skipped
// or misordered without ever being parsed.
func checkDates(ctx context.Context, q querier, table, where string, args ...any) error {
	query := fmt.Sprintf(`
		SELECT date
		FROM %s
		WHERE %s
		AND date(date) IS NOT date
		LIMIT 1
	`, table, where)

	var bad string
	err := q.QueryRowContext(ctx, query, args...).Scan(&bad)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return persistenceErr(fmt.Sprintf("failed to check %s dates", table), err)
	}
	return fmt.Errorf("%w: %s.date %q is not a YYYY-MM-DD calendar date", apperrors.ErrDataCorruption, table, bad)
}
