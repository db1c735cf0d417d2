package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/rirwin/stock-analysis/internal/api/request"
	"github.com/rirwin/stock-analysis/internal/api/response"
	"github.com/rirwin/stock-analysis/internal/model"
	"github.com/rirwin/stock-analysis/internal/service"
	"github.com/rirwin/stock-analysis/internal/validation"
)

// OrderHandler handles HTTP requests for a user's order history.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the OrderHistoryService.
type OrderHandler struct {
	orderService *service.OrderHistoryService
}

// NewOrderHandler creates a new OrderHandler with the provided service dependency.
func NewOrderHandler(orderService *service.OrderHistoryService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// OrderResponse is the API representation of a stored order.
type OrderResponse struct {
	ID        string          `json:"id"`
	OrderType string          `json:"orderType"`
	Ticker    string          `json:"ticker"`
	Date      string          `json:"date"`
	NumShares int64           `json:"numShares"`
	Price     decimal.Decimal `json:"price"`
}

// CreatedResponse reports how many records a batch stored.
type CreatedResponse struct {
	Created int `json:"created"`
}

// TickerDateResponse pairs a ticker with its earliest order date.
type TickerDateResponse struct {
	Ticker         string `json:"ticker"`
	FirstOrderDate string `json:"firstOrderDate"`
}

// TotalsResponse holds shares × price summed per ticker for each side.
type TotalsResponse struct {
	Purchased map[string]decimal.Decimal `json:"purchased"`
	Sold      map[string]decimal.Decimal `json:"sold"`
}

func newOrderResponses(orders []model.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = OrderResponse{
			ID:        o.ID,
			OrderType: o.Type.String(),
			Ticker:    o.Ticker,
			Date:      model.FormatDate(o.Date),
			NumShares: o.NumShares,
			Price:     o.Price,
		}
	}
	return out
}

// Orders handles GET requests for a user's orders, optionally restricted to one ticker.
//
// Endpoint: GET /api/users/{userID}/orders?ticker=
// Response: 200 OK with array of OrderResponse
// Error: 400 Bad Request if the user ID is invalid
// Error: 500 Internal Server Error if retrieval fails
func (h *OrderHandler) Orders(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	var (
		orders []model.Order
		err    error
	)
	if raw := r.URL.Query().Get("ticker"); raw != "" {
		ticker, terr := validation.NormalizeTicker(raw)
		if terr != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid ticker", terr.Error())
			return
		}
		orders, err = h.orderService.GetOrdersForUserTicker(r.Context(), userID, ticker)
	} else {
		orders, err = h.orderService.GetOrdersForUser(r.Context(), userID)
	}
	if err != nil {
		response.RespondServiceError(w, "failed to retrieve orders", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, newOrderResponses(orders))
}

// CreateOrders handles POST requests storing a batch of orders for a user.
// The batch is stored all-or-nothing.
//
// Endpoint: POST /api/users/{userID}/orders
// Request: CreateOrdersRequest
// Response: 201 Created with CreatedResponse
// Error: 400 Bad Request if the body or an order is invalid
// Error: 422 Unprocessable Entity if a sell would exceed the shares held
// Error: 500 Internal Server Error if storing fails
func (h *OrderHandler) CreateOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	if !isJSON(r) {
		response.RespondError(w, http.StatusUnsupportedMediaType, "content type must be application/json", "")
		return
	}

	var req request.CreateOrdersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	orders, err := req.ToOrders(userID)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	if err := h.orderService.AddOrders(r.Context(), orders); err != nil {
		response.RespondServiceError(w, "failed to create orders", err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, CreatedResponse{Created: len(orders)})
}

// Tickers handles GET requests for each ticker the user ordered with its earliest order date.
//
// Endpoint: GET /api/users/{userID}/tickers
// Response: 200 OK with array of TickerDateResponse
func (h *OrderHandler) Tickers(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	tickers, err := h.orderService.GetTickersAndMinDatesForUser(r.Context(), userID)
	if err != nil {
		response.RespondServiceError(w, "failed to retrieve tickers", err)
		return
	}

	out := make([]TickerDateResponse, len(tickers))
	for i, td := range tickers {
		out[i] = TickerDateResponse{Ticker: td.Ticker, FirstOrderDate: model.FormatDate(td.Date)}
	}
	response.RespondJSON(w, http.StatusOK, out)
}

// Shares handles GET requests for net shares per ticker on a date (default today).
//
// Endpoint: GET /api/users/{userID}/shares?date=YYYY-MM-DD
// Response: 200 OK with an object mapping ticker to shares
func (h *OrderHandler) Shares(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	date, ok := dateQuery(w, r, "date", today())
	if !ok {
		return
	}

	shares, err := h.orderService.GetPortfolioSharesOwnedOnDate(r.Context(), userID, date)
	if err != nil {
		response.RespondServiceError(w, "failed to retrieve shares", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, shares)
}

// Totals handles GET requests for total purchased and sold amounts per ticker.
//
// Endpoint: GET /api/users/{userID}/totals
// Response: 200 OK with TotalsResponse
func (h *OrderHandler) Totals(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	purchased, sold, err := h.orderService.GetTickerTotalPurchasedSold(r.Context(), userID)
	if err != nil {
		response.RespondServiceError(w, "failed to retrieve totals", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, TotalsResponse{Purchased: purchased, Sold: sold})
}
