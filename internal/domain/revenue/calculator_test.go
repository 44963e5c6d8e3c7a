package revenue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"palletbook/internal/core/events"
	"palletbook/internal/core/id"
	"palletbook/internal/core/types"
	"palletbook/internal/domain/catalog"
	"palletbook/internal/domain/ledger"
	"palletbook/internal/domain/pricing"
	"palletbook/internal/domain/registers/stock"
)

func servicePrice(contractorID, serviceID, from, price string) pricing.Entry {
	return pricing.Entry{
		ID: id.New(), Kind: pricing.KindService,
		ContractorID: contractorID, ItemID: serviceID,
		EffectiveFrom: types.MustDate(from), PricePerUnit: types.MustMoney(price),
	}
}

func palletPrice(contractorID, palletTypeID string, dir pricing.Direction, from, price string) pricing.Entry {
	return pricing.Entry{
		ID: id.New(), Kind: pricing.KindPallet,
		ContractorID: contractorID, ItemID: palletTypeID, Direction: dir,
		EffectiveFrom: types.MustDate(from), PricePerUnit: types.MustMoney(price),
	}
}

func record(contractorID, warehouseID, date string, services ...ledger.ServiceEntry) ledger.Record {
	return ledger.Record{ContractorID: contractorID, WarehouseID: warehouseID, Date: types.MustDate(date), Services: services}
}

func palletsIn(lines ...ledger.PalletLine) ledger.ServiceEntry {
	return ledger.NewPalletMovement(catalog.ServicePalletsIn, lines...)
}

func palletsOut(lines ...ledger.PalletLine) ledger.ServiceEntry {
	return ledger.NewPalletMovement(catalog.ServicePalletsOut, lines...)
}

func euro(qty int) ledger.PalletLine { return ledger.PalletLine{PalletTypeID: "plt-euro", Qty: qty} }
func ind(qty int) ledger.PalletLine  { return ledger.PalletLine{PalletTypeID: "plt-ind", Qty: qty} }

func newCalculator(t *testing.T, prices []pricing.Entry, records []ledger.Record) *Calculator {
	t.Helper()
	l := ledger.NewService(ledger.NewStore(records), nil, nil, events.Nop{})
	names := catalog.New(catalog.Data{
		Services: []catalog.ServiceDefinition{
			{ID: catalog.ServicePalletsIn, Name: "Pallets in", Unit: "pal"},
			{ID: catalog.ServicePalletsOut, Name: "Pallets out", Unit: "pal"},
			{ID: catalog.ServiceStorage, Name: "Storage", Unit: "pal/day"},
			{ID: "svc-wrap", Name: "Wrapping", Unit: "pcs"},
		},
		PalletTypes: []catalog.PalletType{{ID: "plt-euro", Name: "EUR"}, {ID: "plt-ind", Name: "Industrial"}},
	})
	return NewCalculator(pricing.NewIndex(prices), l, stock.NewAccumulator(l), names)
}

func fixture(t *testing.T) *Calculator {
	prices := []pricing.Entry{
		servicePrice("ctrA", catalog.ServicePalletsIn, "2026-01-01", "4.00"),
		servicePrice("ctrA", catalog.ServicePalletsOut, "2026-01-01", "3.00"),
		servicePrice("ctrA", catalog.ServiceStorage, "2026-01-01", "0.25"),
		servicePrice("ctrA", "svc-wrap", "2026-01-01", "1.10"),
		palletPrice("ctrA", "plt-euro", pricing.DirectionIn, "2026-01-01", "2.50"),
		palletPrice("ctrA", "plt-euro", pricing.DirectionOut, "2026-01-01", "0.40"),
	}
	records := []ledger.Record{
		record("ctrA", "wh1", "2026-03-02", palletsIn(euro(10), ind(2)), ledger.NewFlatService("svc-wrap", 3, "")),
		record("ctrA", "wh1", "2026-03-04", ledger.NewFlatService("svc-wrap", 1, "")),
		record("ctrA", "wh1", "2026-03-05", palletsOut(euro(4))),
		record("ctrA", "wh2", "2026-03-03", palletsIn(euro(1))),
	}
	return newCalculator(t, prices, records)
}

func money(s string) types.Money { return types.MustMoney(s) }

func assertBreakdown(t *testing.T, want [3]string, got Breakdown) {
	t.Helper()
	assert.True(t, money(want[0]).Equal(got.Movement), "movement: want %s, got %s", want[0], got.Movement)
	assert.True(t, money(want[1]).Equal(got.Additional), "additional: want %s, got %s", want[1], got.Additional)
	assert.True(t, money(want[2]).Equal(got.Storage), "storage: want %s, got %s", want[2], got.Storage)
}

func TestDay(t *testing.T) {
	calc := fixture(t)

	tests := []struct {
		name      string
		warehouse string
		date      string
		want      [3]string
	}{
		{name: "movement day has no storage", warehouse: "wh1", date: "2026-03-02", want: [3]string{"33.00", "3.30", "0"}},
		{name: "day without record charges storage", warehouse: "wh1", date: "2026-03-03", want: [3]string{"0", "0", "4.50"}},
		{name: "flat services only still charges storage", warehouse: "wh1", date: "2026-03-04", want: [3]string{"0", "1.10", "4.50"}},
		{name: "pallets out priced at in slot", warehouse: "wh1", date: "2026-03-05", want: [3]string{"10.00", "0", "0"}},
		{name: "before any activity", warehouse: "wh1", date: "2026-03-01", want: [3]string{"0", "0", "0"}},
		{name: "all warehouses", warehouse: AllWarehouses, date: "2026-03-03", want: [3]string{"2.50", "0", "4.50"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertBreakdown(t, tt.want, calc.Day("ctrA", tt.warehouse, types.MustDate(tt.date)))
		})
	}
}

func TestMovementExcludesStorage(t *testing.T) {
	prices := []pricing.Entry{servicePrice("ctrA", catalog.ServiceStorage, "2026-01-01", "1.00")}
	records := []ledger.Record{
		record("ctrA", "wh1", "2026-03-01", palletsIn(euro(500))),
		record("ctrA", "wh1", "2026-03-02", palletsOut(euro(1))),
	}
	calc := newCalculator(t, prices, records)

	assert.True(t, calc.Day("ctrA", "wh1", types.MustDate("2026-03-02")).Storage.IsZero())
	assert.True(t, money("499").Equal(calc.Day("ctrA", "wh1", types.MustDate("2026-03-03")).Storage))
}

func TestMovementFallsBackToServicePrice(t *testing.T) {
	prices := []pricing.Entry{
		palletPrice("ctrB", "plt-euro", pricing.DirectionIn, "2026-01-01", "0"),
		servicePrice("ctrB", catalog.ServicePalletsIn, "2026-01-01", "4.00"),
	}
	records := []ledger.Record{record("ctrB", "wh1", "2026-03-02", palletsIn(euro(5)))}
	calc := newCalculator(t, prices, records)

	got := calc.Day("ctrB", "wh1", types.MustDate("2026-03-02"))
	assert.True(t, money("20.00").Equal(got.Movement), "got %s", got.Movement)
}

func TestUnpricedItemsContributeZero(t *testing.T) {
	records := []ledger.Record{
		record("ctrC", "wh1", "2026-03-02", palletsIn(euro(5)), ledger.NewFlatService("svc-gone", 9, "")),
	}
	calc := newCalculator(t, nil, records)

	lines := calc.DayLines("ctrC", "wh1", types.MustDate("2026-03-02"))
	require.Len(t, lines, 2)
	assert.Equal(t, "svc-gone", lines[1].Name, "unknown service is labeled by id")
	assert.True(t, calc.Day("ctrC", "wh1", types.MustDate("2026-03-02")).Total().IsZero())
}

func TestDayLines(t *testing.T) {
	calc := fixture(t)

	lines := calc.DayLines("ctrA", "wh1", types.MustDate("2026-03-03"))
	require.Len(t, lines, 2)

	assert.Equal(t, CategoryStorage, lines[0].Category)
	assert.Equal(t, "plt-euro", lines[0].PalletTypeID)
	assert.Equal(t, "Storage (EUR)", lines[0].Name)
	assert.Equal(t, 10, lines[0].Qty)
	assert.True(t, money("0.40").Equal(lines[0].UnitPrice))

	assert.Equal(t, "plt-ind", lines[1].PalletTypeID)
	assert.True(t, money("0.25").Equal(lines[1].UnitPrice), "falls back to flat storage price")

	movement := calc.DayLines("ctrA", "wh1", types.MustDate("2026-03-02"))
	require.Len(t, movement, 3)
	assert.Equal(t, "Pallets in (EUR)", movement[0].Name)
	assert.Equal(t, CategoryAdditional, movement[2].Category)
}

func TestRange(t *testing.T) {
	calc := fixture(t)

	got, err := calc.Range(context.Background(), []string{"ctrA"}, "wh1", types.MustDate("2026-03-01"), types.MustDate("2026-03-05"))
	require.NoError(t, err)
	assertBreakdown(t, [3]string{"43.00", "4.40", "9.00"}, got)
	assert.True(t, money("56.40").Equal(got.Total()))

	sum := zeroBreakdown()
	for _, d := range types.DateRange(types.MustDate("2026-03-01"), types.MustDate("2026-03-05")) {
		sum = sum.Add(calc.Day("ctrA", "wh1", d))
	}
	assert.True(t, sum.Total().Equal(got.Total()))
}

func TestRangeRoundsAfterSummation(t *testing.T) {
	prices := []pricing.Entry{servicePrice("ctrA", "svc-wrap", "2026-01-01", "0.333")}
	records := []ledger.Record{
		record("ctrA", "wh1", "2026-03-01", ledger.NewFlatService("svc-wrap", 1, "")),
		record("ctrA", "wh1", "2026-03-02", ledger.NewFlatService("svc-wrap", 1, "")),
		record("ctrA", "wh1", "2026-03-03", ledger.NewFlatService("svc-wrap", 1, "")),
	}
	calc := newCalculator(t, prices, records)

	assert.True(t, money("0.33").Equal(calc.Day("ctrA", "wh1", types.MustDate("2026-03-01")).Additional))

	got, err := calc.Range(context.Background(), []string{"ctrA"}, "wh1", types.MustDate("2026-03-01"), types.MustDate("2026-03-03"))
	require.NoError(t, err)
	assert.True(t, money("1.00").Equal(got.Additional), "got %s", got.Additional)
}

func TestRangeAcrossContractors(t *testing.T) {
	calc := fixture(t)
	from, to := types.MustDate("2026-03-01"), types.MustDate("2026-03-31")

	ctx := context.Background()

	both, err := calc.Range(ctx, []string{"ctrA", "nobody"}, AllWarehouses, from, to)
	require.NoError(t, err)
	only, err := calc.Range(ctx, []string{"ctrA"}, AllWarehouses, from, to)
	require.NoError(t, err)
	assert.True(t, both.Total().Equal(only.Total()))

	none, err := calc.Range(ctx, nil, AllWarehouses, from, to)
	require.NoError(t, err)
	assert.True(t, none.Total().IsZero())
}

func TestRangeCanceled(t *testing.T) {
	calc := fixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := calc.Range(ctx, []string{"ctrA"}, AllWarehouses, types.MustDate("2026-03-01"), types.MustDate("2026-03-31"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLiteralMovementEntry(t *testing.T) {
	prices := []pricing.Entry{servicePrice("ctrA", catalog.ServicePalletsIn, "2026-01-01", "4.00")}
	records := []ledger.Record{
		record("ctrA", "wh1", "2026-03-02", ledger.ServiceEntry{ServiceID: catalog.ServicePalletsIn, Pallets: []ledger.PalletLine{euro(10)}}),
	}
	calc := newCalculator(t, prices, records)

	got := calc.Day("ctrA", "wh1", types.MustDate("2026-03-02"))
	assertBreakdown(t, [3]string{"40.00", "0", "0"}, got)

	l := ledger.NewService(ledger.NewStore(records), nil, nil, events.Nop{})
	assert.Equal(t, map[string]int{"plt-euro": 10}, stock.NewAccumulator(l).StockByPalletType("ctrA", "wh1", types.MustDate("2026-03-02")))
}
