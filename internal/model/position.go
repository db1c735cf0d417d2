package model

import (
	"sort"
	"time"
)

// NetShares returns BUY shares minus SELL shares over the given orders.
func NetShares(orders []Order) int64 {
	var n int64
	for _, o := range orders {
		n += o.SignedShares()
	}
	return n
}

// FirstShortfall replays the orders of a single (user, ticker) in date order and returns
// the first date on which the running position drops below zero. Same-day BUY orders are
// applied before same-day SELL orders. ok is false when the position never goes negative.
func FirstShortfall(orders []Order) (date time.Time, ok bool) {
	sorted := make([]Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].Type == OrderTypeBuy && sorted[j].Type == OrderTypeSell
	})

	var position int64
	for i, o := range sorted {
		position += o.SignedShares()
		// settle the whole day before judging it
		if i+1 < len(sorted) && sorted[i+1].Date.Equal(o.Date) {
			continue
		}
		if position < 0 {
			return o.Date, true
		}
	}
	return time.Time{}, false
}
