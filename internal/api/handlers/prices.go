package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rirwin/stock-analysis/internal/api/request"
	"github.com/rirwin/stock-analysis/internal/api/response"
	"github.com/rirwin/stock-analysis/internal/model"
	"github.com/rirwin/stock-analysis/internal/service"
)

// PriceHandler handles HTTP requests for daily closing prices.
type PriceHandler struct {
	priceService *service.PriceHistoryService
}

// NewPriceHandler creates a new PriceHandler with the provided service dependency.
func NewPriceHandler(priceService *service.PriceHistoryService) *PriceHandler {
	return &PriceHandler{
		priceService: priceService,
	}
}

// PriceResponse is the API representation of a daily close.
type PriceResponse struct {
	Ticker string          `json:"ticker"`
	Date   string          `json:"date"`
	Price  decimal.Decimal `json:"price"`
}

func newPriceResponse(p model.TickerDatePrice) PriceResponse {
	return PriceResponse{Ticker: p.Ticker, Date: model.FormatDate(p.Date), Price: p.Price}
}

// LatestPrice handles GET requests for the most recent close of a ticker.
//
// Endpoint: GET /api/prices/{ticker}/latest
// Response: 200 OK with PriceResponse
// Error: 404 Not Found if the ticker has no prices
func (h *PriceHandler) LatestPrice(w http.ResponseWriter, r *http.Request) {
	ticker, ok := tickerParam(w, r)
	if !ok {
		return
	}

	price, err := h.priceService.GetLatestPrice(r.Context(), ticker)
	if err != nil {
		response.RespondServiceError(w, "failed to retrieve price", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, newPriceResponse(price))
}

// PriceOnOrBefore handles GET requests for the close on the given date, or the closest
// earlier one. The date defaults to today.
//
// Endpoint: GET /api/prices/{ticker}?date=YYYY-MM-DD
// Response: 200 OK with PriceResponse
// Error: 404 Not Found if there is no price on or before the date
func (h *PriceHandler) PriceOnOrBefore(w http.ResponseWriter, r *http.Request) {
	ticker, ok := tickerParam(w, r)
	if !ok {
		return
	}
	date, ok := dateQuery(w, r, "date", today())
	if !ok {
		return
	}

	price, err := h.priceService.GetPriceOnOrBefore(r.Context(), ticker, date)
	if err != nil {
		response.RespondServiceError(w, "failed to retrieve price", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, newPriceResponse(price))
}

// History handles GET requests for the closes of a ticker between two dates, oldest first.
// start is required; end defaults to today.
//
// Endpoint: GET /api/prices/{ticker}/history?start=YYYY-MM-DD&end=YYYY-MM-DD
// Response: 200 OK with array of PriceResponse
// Error: 400 Bad Request if start is missing or after end
func (h *PriceHandler) History(w http.ResponseWriter, r *http.Request) {
	ticker, ok := tickerParam(w, r)
	if !ok {
		return
	}
	start, ok := dateQuery(w, r, "start", time.Time{})
	if !ok {
		return
	}
	if start.IsZero() {
		response.RespondError(w, http.StatusBadRequest, "start is required", "")
		return
	}
	end, ok := dateQuery(w, r, "end", today())
	if !ok {
		return
	}

	prices, err := h.priceService.GetPrices(r.Context(), ticker, start, end)
	if err != nil {
		response.RespondServiceError(w, "failed to retrieve prices", err)
		return
	}

	out := make([]PriceResponse, len(prices))
	for i, p := range prices {
		out[i] = newPriceResponse(p)
	}
	response.RespondJSON(w, http.StatusOK, out)
}

// CreatePrices handles POST requests storing a batch of daily closes all-or-nothing.
//
// Endpoint: POST /api/prices
// Request: CreatePricesRequest
// Response: 201 Created with CreatedResponse
// Error: 400 Bad Request if the body or a price is invalid
func (h *PriceHandler) CreatePrices(w http.ResponseWriter, r *http.Request) {
	if !isJSON(r) {
		response.RespondError(w, http.StatusUnsupportedMediaType, "content type must be application/json", "")
		return
	}

	var req request.CreatePricesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	prices, err := req.ToPrices()
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	if err := h.priceService.AddPrices(r.Context(), prices); err != nil {
		response.RespondServiceError(w, "failed to create prices", err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, CreatedResponse{Created: len(prices)})
}
