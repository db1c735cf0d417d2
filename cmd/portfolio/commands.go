package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"

	"github.com/rirwin/stock-analysis/internal/ingest"
	"github.com/rirwin/stock-analysis/internal/model"
	"github.com/rirwin/stock-analysis/internal/service"
	"github.com/rirwin/stock-analysis/internal/validation"
	"github.com/rirwin/stock-analysis/internal/yahoo"
)

// userFlag registers the -user flag shared by the valuation commands.
// Zero means the configured default user.
func userFlag(f *flag.FlagSet, v *int64) {
	f.Int64Var(v, "user", 0, "User id (defaults to DEFAULT_USER_ID).")
}

func resolveUser(a *app, userID int64) int64 {
	if userID > 0 {
		return userID
	}
	return a.cfg.Ingest.DefaultUserID
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, err)
	return subcommands.ExitFailure
}

type importCmd struct {
	csv string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import purchases from an E*TRADE transaction export" }
func (*importCmd) Usage() string {
	return `portfolio import -csv <path>

  Parses the CSV export and stores every purchase as one batch for the configured
  default user. Excluded tickers, sells and malformed rows are skipped.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.csv, "csv", "", "Path to the E*TRADE CSV export.")
}

func (c *importCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.csv == "" {
		fmt.Fprintln(os.Stderr, "-csv is required")
		return subcommands.ExitUsageError
	}

	a, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	importer := ingest.NewImporter(ingest.NewEtradeParser(a.cfg.Ingest), a.orders)
	summary, err := importer.ImportFile(ctx, c.csv)
	if err != nil {
		return fail(err)
	}

	fmt.Printf("imported %d orders (%d filtered, %d malformed rows skipped)\n",
		summary.Accepted, summary.Filtered, summary.Malformed)
	return subcommands.ExitSuccess
}

type valueCmd struct {
	ticker string
	userID int64
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "print the current value of a position" }
func (*valueCmd) Usage() string {
	return `portfolio value -ticker <symbol> [-user <id>]

  Prints current shares × latest stored close.
`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "ticker", "", "Ticker symbol.")
	userFlag(f, &c.userID)
}

func (c *valueCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ticker, err := validation.NormalizeTicker(c.ticker)
	if err != nil {
		fmt.Fprintln(os.Stderr, "-ticker is required")
		return subcommands.ExitUsageError
	}

	a, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	value, err := a.portfolio.GetStockValue(ctx, resolveUser(a, c.userID), ticker)
	if err != nil {
		return fail(err)
	}

	fmt.Printf("%s %s\n", ticker, formatUSD(value))
	return subcommands.ExitSuccess
}

type gainCmd struct {
	ticker string
	userID int64
}

func (*gainCmd) Name() string     { return "gain" }
func (*gainCmd) Synopsis() string { return "print the percent gain of a position over its cost basis" }
func (*gainCmd) Usage() string {
	return `portfolio gain -ticker <symbol> [-user <id>]

  Prints 100 × (value − cost basis) / cost basis, where the cost basis is the total
  of all purchases minus the total of all sales.
`
}

func (c *gainCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "ticker", "", "Ticker symbol.")
	userFlag(f, &c.userID)
}

func (c *gainCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ticker, err := validation.NormalizeTicker(c.ticker)
	if err != nil {
		fmt.Fprintln(os.Stderr, "-ticker is required")
		return subcommands.ExitUsageError
	}

	a, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	gain, err := a.portfolio.GetPercentGain(ctx, resolveUser(a, c.userID), ticker)
	if err != nil {
		return fail(err)
	}

	fmt.Printf("%s %s\n", ticker, formatPercent(gain))
	return subcommands.ExitSuccess
}

type holdingsCmd struct {
	date   string
	userID int64
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "print shares and value per ticker on a date" }
func (*holdingsCmd) Usage() string {
	return `portfolio holdings [-date YYYY-MM-DD] [-user <id>]

  Values every position held on the date with the close on or before it.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "date", "", "Valuation date (defaults to today).")
	userFlag(f, &c.userID)
}

func (c *holdingsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	date, err := validation.ParseDate(c.date, model.Day(time.Now()))
	if err != nil {
		return fail(err)
	}

	a, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	holdings, err := a.portfolio.GetHoldingsOnDate(ctx, resolveUser(a, c.userID), date)
	if err != nil {
		return fail(err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "Ticker\tShares\tClose\tValue\t\n")
	for _, h := range holdings {
		closing, value := "n/a", "n/a"
		if h.Price != nil {
			closing = fmt.Sprintf("%s (%s)", formatUSD(h.Price.Price), model.FormatDate(h.Price.Date))
		}
		if h.Value != nil {
			value = formatUSD(*h.Value)
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t\n", h.Ticker, h.Shares, closing, value)
	}
	if err := w.Flush(); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

type backfillCmd struct {
	baseURL string
}

func (*backfillCmd) Name() string     { return "backfill" }
func (*backfillCmd) Synopsis() string { return "fetch missing daily closes for every ordered ticker" }
func (*backfillCmd) Usage() string {
	return `portfolio backfill [-base-url <url>]

  Fetches closes from each ticker's first order date, or the day after its last
  stored close, up to today.
`
}

func (c *backfillCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.baseURL, "base-url", yahoo.DefaultBaseURL, "Chart API base URL.")
}

func (c *backfillCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	backfill := service.NewBackfillService(a.orders, a.prices, yahoo.NewFinanceClient(c.baseURL), a.cfg.Backfill.Concurrency)
	result, err := backfill.Run(ctx)
	if err != nil {
		return fail(err)
	}

	fmt.Printf("stored %d prices for %d tickers\n", result.Prices, result.Tickers)
	for ticker, reason := range result.Failed {
		fmt.Fprintf(os.Stderr, "%s: %s\n", ticker, reason)
	}
	if len(result.Failed) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
