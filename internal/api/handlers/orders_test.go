package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rirwin/stock-analysis/internal/testutil"
)

func TestOrderHandler_CreateOrders(t *testing.T) {
	params := map[string]string{"userID": "1"}

	t.Run("stores the batch", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewOrderHandler(testutil.NewTestOrderHistoryService(t, db))

		req := testutil.NewJSONRequestWithURLParams(http.MethodPost, "/api/users/1/orders", `{"orders":[
			{"orderType":"B","ticker":"AAPL","date":"2017-06-12","numShares":2,"price":"150"},
			{"orderType":"SELL","ticker":"AAPL","date":"2017-06-13","numShares":1,"price":"151.5"}
		]}`, params)
		w := httptest.NewRecorder()

		handler.CreateOrders(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}
		var response CreatedResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)
		if response.Created != 2 {
			t.Errorf("Expected 2 created, got %d", response.Created)
		}
		testutil.AssertRowCount(t, db, "order_history", 2)
	})

	t.Run("rejects non-JSON body", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewOrderHandler(testutil.NewTestOrderHistoryService(t, db))

		req := testutil.NewJSONRequestWithURLParams(http.MethodPost, "/api/users/1/orders", `orders`, params)
		req.Header.Set("Content-Type", "text/csv")
		w := httptest.NewRecorder()

		handler.CreateOrders(w, req)

		if w.Code != http.StatusUnsupportedMediaType {
			t.Errorf("Expected 415, got %d", w.Code)
		}
	})
}

func TestOrderHandler_Reads(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewOrderHandler(testutil.NewTestOrderHistoryService(t, db))
	params := map[string]string{"userID": "1"}

	testutil.NewOrder().WithShares(3).WithPrice(150).WithDate(day(12)).Build(t, db)
	testutil.NewOrder().Sell().WithShares(1).WithPrice(160).WithDate(day(20)).Build(t, db)
	testutil.NewOrder().WithTicker("MSFT").WithShares(2).WithPrice(70).WithDate(day(14)).Build(t, db)

	t.Run("shares on a date", func(t *testing.T) {
		req := testutil.WithQueryParams(
			testutil.NewRequestWithURLParams(http.MethodGet, "/api/users/1/shares", params),
			map[string]string{"date": "2017-06-15"},
		)
		w := httptest.NewRecorder()

		handler.Shares(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var response map[string]int64
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)
		if response["AAPL"] != 3 || response["MSFT"] != 2 {
			t.Errorf("Unexpected shares: %v", response)
		}
	})

	t.Run("totals", func(t *testing.T) {
		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/users/1/totals", params)
		w := httptest.NewRecorder()

		handler.Totals(w, req)

		var response TotalsResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)
		if response.Purchased["AAPL"].String() != "450" || response.Sold["AAPL"].String() != "160" {
			t.Errorf("Unexpected totals: %+v", response)
		}
		if _, ok := response.Sold["MSFT"]; ok {
			t.Error("Expected MSFT absent from sold")
		}
	})

	t.Run("tickers with first order date", func(t *testing.T) {
		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/users/1/tickers", params)
		w := httptest.NewRecorder()

		handler.Tickers(w, req)

		var response []TickerDateResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)
		if len(response) != 2 || response[0].FirstOrderDate != "2017-06-12" || response[1].Ticker != "MSFT" {
			t.Errorf("Unexpected tickers: %+v", response)
		}
	})

	t.Run("invalid user id", func(t *testing.T) {
		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/users/x/orders", map[string]string{"userID": "x"})
		w := httptest.NewRecorder()

		handler.Orders(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}
