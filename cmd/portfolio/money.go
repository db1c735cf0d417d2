package main

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// formatUSD renders an amount as dollars, rounded to cents.
func formatUSD(amount decimal.Decimal) string {
	cur := money.New(0, money.USD).Currency()
	cents := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(cents.IntPart())
}

// formatPercent renders a percentage with two decimals.
func formatPercent(p decimal.Decimal) string {
	return p.StringFixed(2) + "%"
}
