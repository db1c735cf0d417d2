package yahoo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rirwin/stock-analysis/internal/model"
	"github.com/rirwin/stock-analysis/internal/yahoo"
)

// 2017-06-12 .. 2017-06-14 at 13:30 UTC (US market open); the 13th has no close.
const chartJSON = `{
  "chart": {
    "result": [{
      "meta": {"currency": "USD", "symbol": "AAPL", "exchangeName": "NMS"},
      "timestamp": [1497274200, 1497360600, 1497447000],
      "indicators": {"quote": [{"close": [148.98, null, 145.42]}]}
    }],
    "error": null
  }
}`

func TestFinanceClient_DailyCloses(t *testing.T) {
	t.Run("parses closes and skips null days", func(t *testing.T) {
		var gotPath, gotAgent string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAgent = r.Header.Get("User-Agent")
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(chartJSON))
		}))
		defer srv.Close()

		client := yahoo.NewFinanceClient(srv.URL)
		start := model.NewDate(2017, time.June, 12)
		end := model.NewDate(2017, time.June, 14)

		prices, err := client.DailyCloses(context.Background(), "AAPL", start, end)
		if err != nil {
			t.Fatalf("DailyCloses() returned unexpected error: %v", err)
		}

		if gotPath != "/AAPL" {
			t.Errorf("Expected request path /AAPL, got %s", gotPath)
		}
		if !strings.Contains(gotAgent, "Mozilla") {
			t.Errorf("Expected browser user agent, got %q", gotAgent)
		}

		if len(prices) != 2 {
			t.Fatalf("Expected 2 prices, got %d", len(prices))
		}
		if !prices[0].Date.Equal(start) || prices[0].Price.String() != "148.98" {
			t.Errorf("Unexpected first price: %+v", prices[0])
		}
		if !prices[1].Date.Equal(end) || prices[1].Price.String() != "145.42" {
			t.Errorf("Unexpected second price: %+v", prices[1])
		}
		if prices[0].Ticker != "AAPL" {
			t.Errorf("Expected ticker AAPL, got %s", prices[0].Ticker)
		}
	})

	t.Run("drops closes outside the requested range", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(chartJSON))
		}))
		defer srv.Close()

		client := yahoo.NewFinanceClient(srv.URL)
		day := model.NewDate(2017, time.June, 14)

		prices, err := client.DailyCloses(context.Background(), "AAPL", day, day)
		if err != nil {
			t.Fatalf("DailyCloses() returned unexpected error: %v", err)
		}
		if len(prices) != 1 || !prices[0].Date.Equal(day) {
			t.Errorf("Expected only the close of %s, got %+v", model.FormatDate(day), prices)
		}
	})

	t.Run("surfaces api errors", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
		}))
		defer srv.Close()

		client := yahoo.NewFinanceClient(srv.URL)
		_, err := client.DailyCloses(context.Background(), "NOPE", time.Now(), time.Now())
		if err == nil || !strings.Contains(err.Error(), "delisted") {
			t.Errorf("Expected yahoo error, got %v", err)
		}
	})
}

func TestParseChart(t *testing.T) {
	t.Run("mismatched lengths", func(t *testing.T) {
		one := 1.0
		var resp yahoo.Response
		resp.Chart.Result = make([]yahoo.Result, 1)
		resp.Chart.Result[0].Timestamp = []int64{1, 2}
		resp.Chart.Result[0].Indicators.Quote = append(resp.Chart.Result[0].Indicators.Quote,
			struct {
				Close []*float64 `json:"close"`
			}{Close: []*float64{&one}})

		if _, err := yahoo.ParseChart(resp); err == nil {
			t.Error("Expected error for mismatched data lengths")
		}
	})

	t.Run("empty result", func(t *testing.T) {
		if _, err := yahoo.ParseChart(yahoo.Response{}); err == nil {
			t.Error("Expected error for empty response")
		}
	})
}
