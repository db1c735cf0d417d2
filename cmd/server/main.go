package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/rirwin/stock-analysis/internal/api"
	"github.com/rirwin/stock-analysis/internal/config"
	"github.com/rirwin/stock-analysis/internal/database"
	"github.com/rirwin/stock-analysis/internal/logger"
	"github.com/rirwin/stock-analysis/internal/repository"
	"github.com/rirwin/stock-analysis/internal/service"
	"github.com/rirwin/stock-analysis/internal/yahoo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Get().Fatalw("Failed to load configuration", "error", err)
	}

	logger.Init(cfg.Env)
	defer logger.Sync()
	log := logger.Get()

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalw("Failed to open database", "error", err)
	}
	defer db.Close()

	version, err := database.Migrate(context.Background(), db)
	if err != nil {
		log.Fatalw("Failed to migrate database", "error", err)
	}
	log.Infow("Connected to database", "path", cfg.Database.Path, "schema_version", version)

	// Create repositories
	orderRepo := repository.NewOrderRepository(db)
	priceRepo := repository.NewPriceRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	orderService := service.NewOrderHistoryService(db, orderRepo)
	priceService := service.NewPriceHistoryService(db, priceRepo)
	portfolioService := service.NewPortfolioService(orderService, priceService)
	backfillService := service.NewBackfillService(
		orderService,
		priceService,
		yahoo.NewFinanceClient(yahoo.DefaultBaseURL),
		cfg.Backfill.Concurrency,
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	scheduler := scheduleBackfill(ctx, cfg.Backfill.Schedule, backfillService)

	// Create router
	router := api.NewRouter(api.Services{
		System:    systemService,
		Orders:    orderService,
		Prices:    priceService,
		Portfolio: portfolioService,
	}, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Infow("Starting server", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("Server failed to start", "error", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	stopBackfill(scheduler, stop)

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Server forced to shutdown", "error", err)
	}

	log.Info("Server exited")
}

type backfillRunner interface {
	Run(ctx context.Context) (service.BackfillResult, error)
}

// scheduleBackfill runs the price backfill on spec. Runs never overlap.
// An empty spec disables scheduling and returns nil.
func scheduleBackfill(ctx context.Context, spec string, backfill backfillRunner) *cron.Cron {
	log := logger.Named("scheduler")
	if spec == "" {
		log.Info("Price backfill schedule disabled")
		return nil
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(spec, func() {
		if _, err := backfill.Run(ctx); err != nil {
			log.Errorw("Scheduled price backfill failed", "error", err)
		}
	})
	if err != nil {
		log.Fatalw("Invalid price backfill schedule", "schedule", spec, "error", err)
	}

	c.Start()
	log.Infow("Price backfill scheduled", "schedule", spec)
	return c
}

// stopBackfill cancels a running backfill through cancel, then waits for the
// scheduler to finish its jobs. scheduler may be nil.
func stopBackfill(scheduler *cron.Cron, cancel context.CancelFunc) {
	cancel()
	if scheduler != nil {
		<-scheduler.Stop().Done()
	}
}
