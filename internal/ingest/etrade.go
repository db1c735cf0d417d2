// Package ingest turns brokerage transaction exports into orders.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rirwin/stock-analysis/internal/config"
	"github.com/rirwin/stock-analysis/internal/logger"
	"github.com/rirwin/stock-analysis/internal/model"
)

// E*TRADE export layout.
const (
	colDate     = 0
	colType     = 1
	colSymbol   = 3
	colQuantity = 4
	colPrice    = 6

	etradeDateFormat = "01/02/06"
	boughtType       = "Bought"
)

// RowStatus classifies the outcome of parsing one export row.
type RowStatus int

const (
	// RowAccepted rows carry an order.
	RowAccepted RowStatus = iota
	// RowMalformed rows could not be parsed (headers, footers, bad values).
	RowMalformed
	// RowFiltered rows parsed but are excluded tickers or not purchases.
	RowFiltered
)

func (s RowStatus) String() string {
	switch s {
	case RowAccepted:
		return "accepted"
	case RowMalformed:
		return "malformed"
	case RowFiltered:
		return "filtered"
	}
	return fmt.Sprintf("RowStatus(%d)", int(s))
}

// RowResult is the outcome of one export row. Order is set only when Status is RowAccepted.
type RowResult struct {
	Line   int
	Status RowStatus
	Order  model.Order
	Reason string
}

// OrderAdder stores a batch of orders atomically.
type OrderAdder interface {
	AddOrders(ctx context.Context, orders []model.Order) error
}

// ImportSummary counts the row outcomes of an import.
type ImportSummary struct {
	Accepted  int
	Malformed int
	Filtered  int
}

// EtradeParser parses E*TRADE transaction CSV exports.
type EtradeParser struct {
	cfg config.IngestConfig
}

// NewEtradeParser creates a parser that stamps orders with cfg.DefaultUserID and
// filters out cfg.ExcludedTickers.
func NewEtradeParser(cfg config.IngestConfig) *EtradeParser {
	return &EtradeParser{cfg: cfg}
}

// Parse reads every row of r. Bad rows are reported in the results, never as an error;
// the error is reserved for failures reading r itself.
func (p *EtradeParser) Parse(r io.Reader) ([]RowResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var results []RowResult
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			results = append(results, RowResult{Line: parseErr.StartLine, Status: RowMalformed, Reason: parseErr.Error()})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}

		result := p.parseRow(row)
		result.Line, _ = reader.FieldPos(0)
		results = append(results, result)
	}

	return results, nil
}

func (p *EtradeParser) parseRow(row []string) RowResult {
	if len(row) <= colPrice {
		return RowResult{Status: RowMalformed, Reason: fmt.Sprintf("expected at least %d columns, got %d", colPrice+1, len(row))}
	}

	date, err := time.Parse(etradeDateFormat, strings.TrimSpace(row[colDate]))
	if err != nil {
		return RowResult{Status: RowMalformed, Reason: fmt.Sprintf("invalid date %q", row[colDate])}
	}
	txnType := strings.TrimSpace(row[colType])
	ticker := strings.ToUpper(strings.TrimSpace(row[colSymbol]))
	shares, err := strconv.ParseInt(strings.TrimSpace(row[colQuantity]), 10, 64)
	if err != nil {
		return RowResult{Status: RowMalformed, Reason: fmt.Sprintf("invalid quantity %q", row[colQuantity])}
	}
	price, err := decimal.NewFromString(strings.TrimSpace(row[colPrice]))
	if err != nil {
		return RowResult{Status: RowMalformed, Reason: fmt.Sprintf("invalid price %q", row[colPrice])}
	}

	if p.cfg.IsExcluded(ticker) {
		return RowResult{Status: RowFiltered, Reason: fmt.Sprintf("excluded ticker %s", ticker)}
	}
	if txnType != boughtType {
		return RowResult{Status: RowFiltered, Reason: fmt.Sprintf("transaction type %q", txnType)}
	}

	return RowResult{
		Status: RowAccepted,
		Order: model.Order{
			UserID:    p.cfg.DefaultUserID,
			Type:      model.OrderTypeBuy,
			Ticker:    ticker,
			Date:      model.Day(date),
			NumShares: shares,
			Price:     price,
		},
	}
}

// Summarize counts results and collects the accepted orders.
func Summarize(results []RowResult) ([]model.Order, ImportSummary) {
	var orders []model.Order
	var summary ImportSummary
	for _, r := range results {
		switch r.Status {
		case RowAccepted:
			summary.Accepted++
			orders = append(orders, r.Order)
		case RowMalformed:
			summary.Malformed++
		case RowFiltered:
			summary.Filtered++
		}
	}
	return orders, summary
}

// Importer parses an export and stores its orders in one batch.
type Importer struct {
	parser *EtradeParser
	orders OrderAdder
}

// NewImporter creates an Importer.
func NewImporter(parser *EtradeParser, orders OrderAdder) *Importer {
	return &Importer{parser: parser, orders: orders}
}

// ImportFile imports the export at path.
func (i *Importer) ImportFile(ctx context.Context, path string) (ImportSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return i.Import(ctx, f)
}

// Import parses r and adds every accepted order with a single AddOrders call.
func (i *Importer) Import(ctx context.Context, r io.Reader) (ImportSummary, error) {
	results, err := i.parser.Parse(r)
	if err != nil {
		return ImportSummary{}, err
	}

	log := logger.Named("ingest")
	for _, res := range results {
		if res.Status != RowAccepted {
			log.Debugw("row skipped", "line", res.Line, "status", res.Status.String(), "reason", res.Reason)
		}
	}

	orders, summary := Summarize(results)
	if err := i.orders.AddOrders(ctx, orders); err != nil {
		return summary, fmt.Errorf("failed to add orders: %w", err)
	}

	log.Infow("import finished",
		"accepted", summary.Accepted,
		"malformed", summary.Malformed,
		"filtered", summary.Filtered,
	)
	return summary, nil
}
