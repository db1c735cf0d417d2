package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rirwin/stock-analysis/internal/config"
	"github.com/rirwin/stock-analysis/internal/database"
	"github.com/rirwin/stock-analysis/internal/logger"
	"github.com/rirwin/stock-analysis/internal/repository"
	"github.com/rirwin/stock-analysis/internal/service"
)

// app holds the services a command runs against.
type app struct {
	cfg       *config.Config
	db        *sql.DB
	orders    *service.OrderHistoryService
	prices    *service.PriceHistoryService
	portfolio *service.PortfolioService
}

// openApp loads configuration, opens and migrates the database and wires the services.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Init(cfg.Env)

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	if _, err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	orders := service.NewOrderHistoryService(db, repository.NewOrderRepository(db))
	prices := service.NewPriceHistoryService(db, repository.NewPriceRepository(db))

	return &app{
		cfg:       cfg,
		db:        db,
		orders:    orders,
		prices:    prices,
		portfolio: service.NewPortfolioService(orders, prices),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}
