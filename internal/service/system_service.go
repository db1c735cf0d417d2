package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rirwin/stock-analysis/internal/apperrors"
	"github.com/rirwin/stock-analysis/internal/database"
	"github.com/rirwin/stock-analysis/internal/model"
)

// SystemService reports on the database backing the order and price histories.
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{
		db: db,
	}
}

// CheckHealth pings the database.
func (s *SystemService) CheckHealth(ctx context.Context) error {
	return database.HealthCheck(ctx, s.db)
}

// Status returns the applied schema version and the number of stored orders and prices.
func (s *SystemService) Status(ctx context.Context) (model.SystemStatus, error) {
	var status model.SystemStatus

	version, err := database.SchemaVersion(ctx, s.db)
	if err != nil {
		return model.SystemStatus{}, fmt.Errorf("%w: %w", apperrors.ErrPersistence, err)
	}
	status.SchemaVersion = version

	err = s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM order_history),
			(SELECT COUNT(*) FROM price_history)
	`).Scan(&status.Orders, &status.Prices)
	if err != nil {
		return model.SystemStatus{}, fmt.Errorf("%w: failed to count rows: %w", apperrors.ErrPersistence, err)
	}

	return status, nil
}
