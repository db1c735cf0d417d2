package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/rirwin/stock-analysis/internal/api/response"
	"github.com/rirwin/stock-analysis/internal/model"
	"github.com/rirwin/stock-analysis/internal/service"
)

// PortfolioHandler handles HTTP requests for portfolio valuation.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the PortfolioService.
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler with the provided service dependency.
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// HoldingResponse is one ticker held on a date. Price fields are omitted when
// no close exists on or before the date.
type HoldingResponse struct {
	Ticker    string           `json:"ticker"`
	Date      string           `json:"date"`
	Shares    int64            `json:"shares"`
	PriceDate string           `json:"priceDate,omitempty"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	Value     *decimal.Decimal `json:"value,omitempty"`
}

// StockSummaryResponse is the current valuation of one ticker.
type StockSummaryResponse struct {
	Ticker      string           `json:"ticker"`
	Shares      int64            `json:"shares"`
	CostBasis   decimal.Decimal  `json:"costBasis"`
	PriceDate   string           `json:"priceDate,omitempty"`
	LatestPrice *decimal.Decimal `json:"latestPrice,omitempty"`
	Value       *decimal.Decimal `json:"value,omitempty"`
	PercentGain *decimal.Decimal `json:"percentGain,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// StockMetricResponse carries a single valuation figure.
type StockMetricResponse struct {
	Ticker string          `json:"ticker"`
	Value  decimal.Decimal `json:"value"`
}

// Holdings handles GET requests valuing every ticker held on a date (default today).
//
// Endpoint: GET /api/users/{userID}/holdings?date=YYYY-MM-DD
// Response: 200 OK with array of HoldingResponse
// Error: 422 Unprocessable Entity if a position is short on the date
func (h *PortfolioHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	date, ok := dateQuery(w, r, "date", today())
	if !ok {
		return
	}

	holdings, err := h.portfolioService.GetHoldingsOnDate(r.Context(), userID, date)
	if err != nil {
		response.RespondServiceError(w, "failed to retrieve holdings", err)
		return
	}

	out := make([]HoldingResponse, len(holdings))
	for i, hd := range holdings {
		out[i] = HoldingResponse{
			Ticker: hd.Ticker,
			Date:   model.FormatDate(hd.Date),
			Shares: hd.Shares,
			Value:  hd.Value,
		}
		if hd.Price != nil {
			out[i].PriceDate = model.FormatDate(hd.Price.Date)
			out[i].Price = &hd.Price.Price
		}
	}
	response.RespondJSON(w, http.StatusOK, out)
}

// Summary handles GET requests for the current metrics of every ticker the user ordered.
// Tickers that cannot be valued carry the reason in error.
//
// Endpoint: GET /api/users/{userID}/summary
// Response: 200 OK with array of StockSummaryResponse
func (h *PortfolioHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	summaries, err := h.portfolioService.GetPortfolioSummary(r.Context(), userID)
	if err != nil {
		response.RespondServiceError(w, "failed to retrieve summary", err)
		return
	}

	out := make([]StockSummaryResponse, len(summaries))
	for i, s := range summaries {
		out[i] = StockSummaryResponse{
			Ticker:      s.Ticker,
			Shares:      s.Shares,
			CostBasis:   s.CostBasis,
			Value:       s.Value,
			PercentGain: s.PercentGain,
			Error:       s.Error,
		}
		if s.LatestPrice != nil {
			out[i].PriceDate = model.FormatDate(s.LatestPrice.Date)
			out[i].LatestPrice = &s.LatestPrice.Price
		}
	}
	response.RespondJSON(w, http.StatusOK, out)
}

// StockValue handles GET requests for current shares × latest close.
//
// Endpoint: GET /api/users/{userID}/stocks/{ticker}/value
// Response: 200 OK with StockMetricResponse
// Error: 422 Unprocessable Entity if there are no orders or no prices
func (h *PortfolioHandler) StockValue(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	ticker, ok := tickerParam(w, r)
	if !ok {
		return
	}

	value, err := h.portfolioService.GetStockValue(r.Context(), userID, ticker)
	if err != nil {
		response.RespondServiceError(w, "failed to compute value", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, StockMetricResponse{Ticker: ticker, Value: value})
}

// StockGain handles GET requests for the percent gain over cost basis.
//
// Endpoint: GET /api/users/{userID}/stocks/{ticker}/gain
// Response: 200 OK with StockMetricResponse
// Error: 422 Unprocessable Entity if there are no orders, no prices or a zero cost basis
func (h *PortfolioHandler) StockGain(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	ticker, ok := tickerParam(w, r)
	if !ok {
		return
	}

	gain, err := h.portfolioService.GetPercentGain(r.Context(), userID, ticker)
	if err != nil {
		response.RespondServiceError(w, "failed to compute gain", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, StockMetricResponse{Ticker: ticker, Value: gain.Round(4)})
}
