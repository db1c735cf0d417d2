package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rirwin/stock-analysis/internal/apperrors"
	"github.com/rirwin/stock-analysis/internal/model"
	"github.com/rirwin/stock-analysis/internal/repository"
	"github.com/rirwin/stock-analysis/internal/testutil"
)

// TestPriceRepository_GetPriceOnOrBefore tests resolution of sparse price series.
//
// WHY: weekends and holidays have no close. A lookup must fall back to the closest
// earlier close and must never return a close dated after the requested date.
func TestPriceRepository_GetPriceOnOrBefore(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewPriceRepository(db)

	testutil.CreatePrices(t, db, []model.TickerDatePrice{
		testutil.NewPrice("AAPL", day(12), 150),
		testutil.NewPrice("AAPL", day(14), 154),
		testutil.NewPrice("MSFT", day(13), 70),
	})

	tests := []struct {
		name     string
		date     int
		wantDate int
		want     int64
	}{
		{"exact match", 12, 12, 150},
		{"gap resolves to earlier close", 13, 12, 150},
		{"later exact match", 14, 14, 154},
		{"after series end", 30, 14, 154},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.GetPriceOnOrBefore(ctx, "AAPL", day(tt.date))
			if err != nil {
				t.Fatalf("GetPriceOnOrBefore() returned unexpected error: %v", err)
			}
			if got.Date.After(day(tt.date)) {
				t.Errorf("Returned close %v is after requested date %v", got.Date, day(tt.date))
			}
			if !got.Date.Equal(day(tt.wantDate)) || !got.Price.Equal(decimal.NewFromInt(tt.want)) {
				t.Errorf("Expected %d on day %d, got %s on %v", tt.want, tt.wantDate, got.Price, got.Date)
			}
		})
	}

	t.Run("before series start is not found", func(t *testing.T) {
		_, err := repo.GetPriceOnOrBefore(ctx, "AAPL", day(11))
		if !errors.Is(err, apperrors.ErrPriceNotFound) {
			t.Errorf("Expected ErrPriceNotFound, got %v", err)
		}
	})

	t.Run("unknown ticker is not found", func(t *testing.T) {
		_, err := repo.GetLatestPrice(ctx, "GOOG")
		if !errors.Is(err, apperrors.ErrPriceNotFound) {
			t.Errorf("Expected ErrPriceNotFound, got %v", err)
		}
	})
}

// TestPriceRepository_DuplicateDates tests the tie-break between closes stored for the same date.
//
// WHY: duplicates are allowed to coexist, so lookups need a deterministic winner.
// The most recently inserted close is the correction and wins.
func TestPriceRepository_DuplicateDates(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewPriceRepository(db)

	testutil.CreatePrice(t, db, testutil.NewPrice("AAPL", day(12), 150))
	testutil.CreatePrice(t, db, testutil.NewPrice("AAPL", day(12), 151))

	testutil.AssertRowCount(t, db, "price_history", 2)

	latest, err := repo.GetLatestPrice(ctx, "AAPL")
	if err != nil {
		t.Fatalf("GetLatestPrice() returned unexpected error: %v", err)
	}
	if !latest.Price.Equal(decimal.NewFromInt(151)) {
		t.Errorf("Expected last inserted price 151, got %s", latest.Price)
	}

	onDate, err := repo.GetPriceOnOrBefore(ctx, "AAPL", day(12))
	if err != nil {
		t.Fatalf("GetPriceOnOrBefore() returned unexpected error: %v", err)
	}
	if !onDate.Price.Equal(latest.Price) {
		t.Errorf("Lookups disagree: latest %s, on date %s", latest.Price, onDate.Price)
	}
}

func TestPriceRepository_GetPrices(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewPriceRepository(db)

	// inserted newest first to check ordering
	ramp := testutil.PriceRamp("AAPL", day(12), 150, 5)
	for i := len(ramp) - 1; i >= 0; i-- {
		testutil.CreatePrice(t, db, ramp[i])
	}

	got, err := repo.GetPrices(ctx, "AAPL", day(13), day(15))
	if err != nil {
		t.Fatalf("GetPrices() returned unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 prices, got %d", len(got))
	}
	for i, p := range got {
		if !p.Date.Equal(day(13 + i)) {
			t.Errorf("Position %d: expected day %d, got %v", i, 13+i, p.Date)
		}
	}
}

func TestPriceRepository_GetLatestPriceDate(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewPriceRepository(db)

	t.Run("no prices", func(t *testing.T) {
		_, ok, err := repo.GetLatestPriceDate(ctx, "AAPL")
		if err != nil {
			t.Fatalf("GetLatestPriceDate() returned unexpected error: %v", err)
		}
		if ok {
			t.Error("Expected ok=false with no prices")
		}
	})

	t.Run("returns max date", func(t *testing.T) {
		testutil.CreatePrices(t, db, testutil.PriceRamp("AAPL", day(12), 150, 3))

		date, ok, err := repo.GetLatestPriceDate(ctx, "AAPL")
		if err != nil {
			t.Fatalf("GetLatestPriceDate() returned unexpected error: %v", err)
		}
		if !ok || !date.Equal(day(14)) {
			t.Errorf("Expected day 14, got %v (ok=%v)", date, ok)
		}
	})
}

func TestPriceRepository_DataCorruption(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewPriceRepository(db)

	_, err := db.Exec(`INSERT INTO price_history (id, ticker, date, price) VALUES ('x', 'AAPL', '2017-6-12', '150')`)
	if err != nil {
		t.Fatalf("Failed to insert corrupt row: %v", err)
	}

	_, err = repo.GetLatestPrice(context.Background(), "AAPL")
	if !errors.Is(err, apperrors.ErrDataCorruption) {
		t.Errorf("Expected ErrDataCorruption, got %v", err)
	}
}

// TestPriceRepository_MalformedDateInLookups tests that every date-ordered lookup reports
// a malformed stored date.
//
// WHY: "2017-6-13" compares greater than "2017-06-14" as text, so the on-or-before lookup
// would skip it and quietly return an older close.
func TestPriceRepository_MalformedDateInLookups(t *testing.T) {
	lookups := []struct {
		name string
		run  func(ctx context.Context, repo *repository.PriceRepository) error
	}{
		{"on or before", func(ctx context.Context, repo *repository.PriceRepository) error {
			_, err := repo.GetPriceOnOrBefore(ctx, "AAPL", day(14))
			return err
		}},
		{"latest", func(ctx context.Context, repo *repository.PriceRepository) error {
			_, err := repo.GetLatestPrice(ctx, "AAPL")
			return err
		}},
		{"range", func(ctx context.Context, repo *repository.PriceRepository) error {
			_, err := repo.GetPrices(ctx, "AAPL", day(1), day(30))
			return err
		}},
		{"latest date", func(ctx context.Context, repo *repository.PriceRepository) error {
			_, _, err := repo.GetLatestPriceDate(ctx, "AAPL")
			return err
		}},
	}

	for _, l := range lookups {
		t.Run(l.name, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			repo := repository.NewPriceRepository(db)

			testutil.CreatePrice(t, db, testutil.NewPrice("AAPL", day(12), 150))
			_, err := db.Exec(`INSERT INTO price_history (id, ticker, date, price) VALUES ('x', 'AAPL', '2017-6-13', '999')`)
			if err != nil {
				t.Fatalf("Failed to insert corrupt row: %v", err)
			}

			err = l.run(context.Background(), repo)
			if !errors.Is(err, apperrors.ErrDataCorruption) {
				t.Errorf("Expected ErrDataCorruption, got %v", err)
			}
		})
	}

	t.Run("other tickers are unaffected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPriceRepository(db)

		testutil.CreatePrice(t, db, testutil.NewPrice("MSFT", day(12), 70))
		_, err := db.Exec(`INSERT INTO price_history (id, ticker, date, price) VALUES ('x', 'AAPL', '2017-6-13', '999')`)
		if err != nil {
			t.Fatalf("Failed to insert corrupt row: %v", err)
		}

		got, err := repo.GetPriceOnOrBefore(context.Background(), "MSFT", day(14))
		if err != nil {
			t.Fatalf("GetPriceOnOrBefore() error = %v", err)
		}
		if !got.Price.Equal(decimal.NewFromInt(70)) {
			t.Errorf("Expected price 70, got %s", got.Price)
		}
	})
}
