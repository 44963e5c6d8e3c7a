package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"palletbook/internal/core/types"
	"palletbook/internal/domain/catalog"
	"palletbook/internal/domain/ledger"
)

// fakeLedger returns records in reverse insertion order to prove the
// accumulator sorts before replaying.
type fakeLedger struct {
	records []ledger.Record
}

func (f *fakeLedger) RecordsUpTo(contractorID, warehouseID string, date types.Date) []ledger.Record {
	var out []ledger.Record
	for i := len(f.records) - 1; i >= 0; i-- {
		r := f.records[i]
		if r.ContractorID == contractorID && r.WarehouseID == warehouseID && !r.Date.After(date) {
			out = append(out, r.Clone())
		}
	}
	return out
}

func day(date string, services ...ledger.ServiceEntry) ledger.Record {
	return ledger.Record{ContractorID: "ctrA", WarehouseID: "wh1", Date: types.MustDate(date), Services: services}
}

func in(lines ...ledger.PalletLine) ledger.ServiceEntry {
	return ledger.NewPalletMovement(catalog.ServicePalletsIn, lines...)
}

func out(lines ...ledger.PalletLine) ledger.ServiceEntry {
	return ledger.NewPalletMovement(catalog.ServicePalletsOut, lines...)
}

func euro(qty int) ledger.PalletLine { return ledger.PalletLine{PalletTypeID: "plt-euro", Qty: qty} }
func ind(qty int) ledger.PalletLine  { return ledger.PalletLine{PalletTypeID: "plt-ind", Qty: qty} }

func sampleLedger() *fakeLedger {
	return &fakeLedger{records: []ledger.Record{
		day("2026-03-01", in(euro(10), ind(4))),
		day("2026-03-03", out(euro(3)), ledger.NewFlatService("svc-wrap", 7, "")),
		day("2026-03-05", out(ind(6))),
		{ContractorID: "ctrB", WarehouseID: "wh1", Date: types.MustDate("2026-03-01"), Services: []ledger.ServiceEntry{in(euro(100))}},
	}}
}

func TestStockByPalletType(t *testing.T) {
	acc := NewAccumulator(sampleLedger())

	tests := []struct {
		name  string
		date  string
		want  map[string]int
		total int
	}{
		{name: "before any record", date: "2026-02-28", want: map[string]int{}, total: 0},
		{name: "after first receipt", date: "2026-03-01", want: map[string]int{"plt-euro": 10, "plt-ind": 4}, total: 14},
		{name: "after partial expense", date: "2026-03-04", want: map[string]int{"plt-euro": 7, "plt-ind": 4}, total: 11},
		{name: "negative stock is kept", date: "2026-03-05", want: map[string]int{"plt-euro": 7, "plt-ind": -2}, total: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date := types.MustDate(tt.date)
			assert.Equal(t, tt.want, acc.StockByPalletType("ctrA", "wh1", date))
			assert.Equal(t, tt.total, acc.TotalStock("ctrA", "wh1", date))
		})
	}
}

func TestReplayIsIdempotent(t *testing.T) {
	acc := NewAccumulator(sampleLedger())
	date := types.MustDate("2026-03-31")

	first := acc.StockByPalletType("ctrA", "wh1", date)
	second := acc.StockByPalletType("ctrA", "wh1", date)
	assert.Equal(t, first, second)
}

func TestDailySeries(t *testing.T) {
	acc := NewAccumulator(sampleLedger())

	series := acc.DailySeries("ctrA", "wh1", types.MustDate("2026-02-28"), types.MustDate("2026-03-05"))
	require.Len(t, series, 6)

	got := make([]int, len(series))
	for i, d := range series {
		got[i] = d.Stock
	}
	assert.Equal(t, []int{0, 14, 14, 11, 11, 5}, got)
	assert.Equal(t, types.MustDate("2026-02-28"), series[0].Date)

	assert.Nil(t, acc.DailySeries("ctrA", "wh1", types.MustDate("2026-03-05"), types.MustDate("2026-03-01")))
}

func TestAverage30Day(t *testing.T) {
	l := &fakeLedger{records: []ledger.Record{day("2026-03-16", in(euro(30)))}}
	acc := NewAccumulator(l)

	// Window is Mar 1..Mar 30; stock is 30 on the last 15 of those days.
	avg := acc.Average30Day("ctrA", "wh1", types.MustDate("2026-03-30"))
	assert.InDelta(t, 15.0, avg, 1e-9)

	assert.Zero(t, acc.Average30Day("nobody", "wh1", types.MustDate("2026-03-30")))
}

func TestTrend(t *testing.T) {
	tests := []struct {
		name      string
		records   []ledger.Record
		direction TrendDirection
		percent   float64
	}{
		{
			name:      "no stock is stable",
			direction: TrendStable,
			percent:   0,
		},
		{
			name:      "growth from zero base",
			records:   []ledger.Record{day("2026-03-25", in(euro(10)))},
			direction: TrendUp,
			percent:   100,
		},
		{
			name: "decline",
			records: []ledger.Record{
				day("2026-02-01", in(euro(100))),
				day("2026-03-16", out(euro(50))),
			},
			direction: TrendDown,
			percent:   -50,
		},
		{
			name: "inside dead band",
			records: []ledger.Record{
				day("2026-02-01", in(euro(100))),
				day("2026-03-16", in(euro(1))),
			},
			direction: TrendStable,
			percent:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := NewAccumulator(&fakeLedger{records: tt.records})
			trend := acc.Trend("ctrA", "wh1", types.MustDate("2026-03-30"))
			assert.Equal(t, tt.direction, trend.Direction)
			assert.InDelta(t, tt.percent, trend.PercentChange, 1e-9)
		})
	}
}

func TestPercentChange(t *testing.T) {
	assert.Equal(t, 100.0, PercentChange(0, 5))
	assert.Equal(t, -100.0, PercentChange(0, -5))
	assert.Equal(t, 0.0, PercentChange(0, 0))
	assert.InDelta(t, 50.0, PercentChange(-10, -5), 1e-9)
	assert.InDelta(t, -25.0, PercentChange(8, 6), 1e-9)
}

func TestTurnover(t *testing.T) {
	acc := NewAccumulator(sampleLedger())

	got := acc.Turnover("ctrA", "wh1", types.MustDate("2026-03-02"), types.MustDate("2026-03-05"))
	assert.Equal(t, 14, got.OpeningBalance)
	assert.Equal(t, 0, got.Receipt)
	assert.Equal(t, 9, got.Expense)
	assert.Equal(t, 5, got.ClosingBalance)
}
