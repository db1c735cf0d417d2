package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/rirwin/stock-analysis/internal/database"
	"github.com/rirwin/stock-analysis/internal/logger"
)

// SetupTestDB creates a migrated SQLite database in a per-test temp directory.
// A file is used instead of :memory: so every pooled connection sees the same data.
// The database is automatically closed when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	logger.Init("test")

	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	if _, err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	return db
}

// CleanDatabase deletes every row of the application tables.
// Useful for reusing the same database across multiple subtests.
func CleanDatabase(t *testing.T, db *sql.DB) {
	t.Helper()

	for _, table := range []string{"order_history", "price_history"} {
		//nolint:gosec // G202: Table names are from hardcoded slice, no SQL injection risk
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("Failed to clean table %s: %v", table, err)
		}
	}
}

// CountRows returns the number of rows in a table.
//
// Example usage:
//
//	count := testutil.CountRows(t, db, "order_history")
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var count int
	query := "SELECT COUNT(*) FROM " + table
	err := db.QueryRow(query).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}

	return count
}

// AssertRowCount asserts that a table has the expected number of rows.
//
// Example usage:
//
//	testutil.AssertRowCount(t, db, "price_history", 5)
func AssertRowCount(t *testing.T, db *sql.DB, table string, expected int) {
	t.Helper()

	actual := CountRows(t, db, table)
	if actual != expected {
		t.Errorf("Expected %d rows in %s, got %d", expected, table, actual)
	}
}

// FailInsertsFor installs a trigger aborting any insert into table whose ticker equals
// ticker. It forces a store failure in the middle of a batch.
func FailInsertsFor(t *testing.T, db *sql.DB, table, ticker string) {
	t.Helper()

	//nolint:gosec // G202: test-only DDL with fixed identifiers
	query := `CREATE TRIGGER fail_` + table + ` BEFORE INSERT ON ` + table + `
		WHEN NEW.ticker = '` + ticker + `'
		BEGIN SELECT RAISE(ABORT, 'forced failure'); END;`
	if _, err := db.Exec(query); err != nil {
		t.Fatalf("Failed to install failure trigger: %v", err)
	}
}
