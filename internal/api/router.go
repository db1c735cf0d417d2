package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rirwin/stock-analysis/internal/api/handlers"
	custommiddleware "github.com/rirwin/stock-analysis/internal/api/middleware"
	"github.com/rirwin/stock-analysis/internal/config"
	"github.com/rirwin/stock-analysis/internal/service"
)

// Services groups the services the HTTP API delegates to.
type Services struct {
	System    *service.SystemService
	Orders    *service.OrderHistoryService
	Prices    *service.PriceHistoryService
	Portfolio *service.PortfolioService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	systemHandler := handlers.NewSystemHandler(svc.System)
	orderHandler := handlers.NewOrderHandler(svc.Orders)
	priceHandler := handlers.NewPriceHandler(svc.Prices)
	portfolioHandler := handlers.NewPortfolioHandler(svc.Portfolio)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			r.Get("/health", systemHandler.Health)
		})

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Use(custommiddleware.ValidateUserIDMiddleware)

			r.Get("/orders", orderHandler.Orders)
			r.Post("/orders", orderHandler.CreateOrders)
			r.Get("/tickers", orderHandler.Tickers)
			r.Get("/shares", orderHandler.Shares)
			r.Get("/totals", orderHandler.Totals)

			r.Get("/holdings", portfolioHandler.Holdings)
			r.Get("/summary", portfolioHandler.Summary)

			r.Route("/stocks/{ticker}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateTickerMiddleware)
				r.Get("/value", portfolioHandler.StockValue)
				r.Get("/gain", portfolioHandler.StockGain)
			})
		})

		r.Route("/prices", func(r chi.Router) {
			r.Post("/", priceHandler.CreatePrices)

			r.Route("/{ticker}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateTickerMiddleware)
				r.Get("/", priceHandler.PriceOnOrBefore)
				r.Get("/latest", priceHandler.LatestPrice)
				r.Get("/history", priceHandler.History)
			})
		})
	})

	return r
}
