// Package stock provides the stock accumulation register. Pallet stock is
// never stored: it is replayed from ledger movements on demand.
package stock

import (
	"math"
	"slices"

	"palletbook/internal/core/entity"
	"palletbook/internal/core/types"
	"palletbook/internal/domain/ledger"
)

// TrendDeadBand is the percent change inside which stock counts as stable.
const TrendDeadBand = 2.0

const (
	averageWindowDays = 30
	trendWindowDays   = 15
)

// LedgerReader is the ledger query the register replays.
type LedgerReader interface {
	RecordsUpTo(contractorID, warehouseID string, date types.Date) []ledger.Record
}

// Accumulator computes running pallet stock for a (contractor, warehouse) pair.
// It is stateless; every call replays the ledger.
type Accumulator struct {
	ledger LedgerReader
}

// NewAccumulator creates a register over the ledger.
func NewAccumulator(l LedgerReader) *Accumulator {
	return &Accumulator{ledger: l}
}

// Movements returns the pair's movements dated on or before date, oldest first.
func (a *Accumulator) Movements(contractorID, warehouseID string, date types.Date) []entity.StockMovement {
	records := a.ledger.RecordsUpTo(contractorID, warehouseID, date)
	slices.SortStableFunc(records, func(x, y ledger.Record) int { return x.Date.Compare(y.Date) })

	var out []entity.StockMovement
	for _, r := range records {
		out = append(out, r.Movements()...)
	}
	return out
}

// StockByPalletType returns the signed running stock per pallet type as of date.
// Negative values are kept: they flag a data-entry anomaly.
func (a *Accumulator) StockByPalletType(contractorID, warehouseID string, date types.Date) map[string]int {
	stock := make(map[string]int)
	for _, m := range a.Movements(contractorID, warehouseID, date) {
		stock[m.PalletTypeID] += m.SignedQuantity()
	}
	return stock
}

// TotalStock returns the running stock over all pallet types as of date.
func (a *Accumulator) TotalStock(contractorID, warehouseID string, date types.Date) int {
	total := 0
	for _, m := range a.Movements(contractorID, warehouseID, date) {
		total += m.SignedQuantity()
	}
	return total
}

// DayStock is the closing stock of one day.
type DayStock struct {
	Date  types.Date `json:"date"`
	Stock int        `json:"stock"`
}

// DailySeries returns the closing stock for every day in [from, to].
// Days before the first ledger record have stock 0.
func (a *Accumulator) DailySeries(contractorID, warehouseID string, from, to types.Date) []DayStock {
	days := types.DateRange(from, to)
	if len(days) == 0 {
		return nil
	}

	movements := a.Movements(contractorID, warehouseID, to)
	series := make([]DayStock, 0, len(days))
	running, next := 0, 0
	for _, day := range days {
		for next < len(movements) && !movements[next].Period.After(day) {
			running += movements[next].SignedQuantity()
			next++
		}
		series = append(series, DayStock{Date: day, Stock: running})
	}
	return series
}

// Average30Day is the mean closing stock over the 30 days ending at date.
func (a *Accumulator) Average30Day(contractorID, warehouseID string, date types.Date) float64 {
	series := a.DailySeries(contractorID, warehouseID, date.AddDays(-(averageWindowDays - 1)), date)
	return mean(series)
}

// TrendDirection classifies a stock trend.
type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// Trend compares the last 15 days of stock with the 15 days before them.
type Trend struct {
	Direction     TrendDirection `json:"direction"`
	PercentChange float64        `json:"percentChange"`
	CurrentMean   float64        `json:"currentMean"`
	PreviousMean  float64        `json:"previousMean"`
}

// Trend computes the stock trend as of date. PercentChange is rounded to one
// decimal place; the direction is classified on the unrounded value.
func (a *Accumulator) Trend(contractorID, warehouseID string, date types.Date) Trend {
	series := a.DailySeries(contractorID, warehouseID, date.AddDays(-(2*trendWindowDays - 1)), date)
	prev := mean(series[:trendWindowDays])
	curr := mean(series[trendWindowDays:])

	change := PercentChange(prev, curr)
	direction := TrendStable
	switch {
	case change > TrendDeadBand:
		direction = TrendUp
	case change < -TrendDeadBand:
		direction = TrendDown
	}

	return Trend{
		Direction:     direction,
		PercentChange: math.Round(change*10) / 10,
		CurrentMean:   curr,
		PreviousMean:  prev,
	}
}

// PercentChange is (curr-prev)/|prev|*100. From a zero base it is 100 for
// growth, -100 for decline and 0 when both are zero.
func PercentChange(prev, curr float64) float64 {
	if prev == 0 {
		switch {
		case curr > 0:
			return 100
		case curr < 0:
			return -100
		default:
			return 0
		}
	}
	return (curr - prev) / math.Abs(prev) * 100
}

// Turnover is the register movement over a period.
type Turnover struct {
	From           types.Date `json:"from"`
	To             types.Date `json:"to"`
	OpeningBalance int        `json:"openingBalance"`
	Receipt        int        `json:"receipt"`
	Expense        int        `json:"expense"`
	ClosingBalance int        `json:"closingBalance"`
}

// Turnover returns the opening stock before from, receipts and expenses
// within [from, to], and the closing stock at to.
func (a *Accumulator) Turnover(contractorID, warehouseID string, from, to types.Date) Turnover {
	t := Turnover{From: from, To: to}
	for _, m := range a.Movements(contractorID, warehouseID, to) {
		if m.Period.Before(from) {
			t.OpeningBalance += m.SignedQuantity()
			continue
		}
		if m.RecordType == entity.RecordTypeExpense {
			t.Expense += m.Quantity
		} else {
			t.Receipt += m.Quantity
		}
	}
	t.ClosingBalance = t.OpeningBalance + t.Receipt - t.Expense
	return t
}

func mean(series []DayStock) float64 {
	if len(series) == 0 {
		return 0
	}
	sum := 0
	for _, d := range series {
		sum += d.Stock
	}
	return float64(sum) / float64(len(series))
}
