package revenue

import (
	"context"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"palletbook/internal/core/types"
	"palletbook/internal/domain/catalog"
	"palletbook/internal/domain/ledger"
	"palletbook/internal/domain/pricing"
)

// PriceReader resolves effective prices.
type PriceReader interface {
	ServicePrice(contractorID, serviceID string, date types.Date) types.Money
	PalletPrice(contractorID, palletTypeID string, dir pricing.Direction, date types.Date) types.Money
}

// LedgerReader is the ledger queries the calculator needs.
type LedgerReader interface {
	RecordFor(contractorID, warehouseID string, date types.Date) (ledger.Record, bool)
	WarehousesFor(contractorID string) []string
}

// StockReader gives running stock per pallet type.
type StockReader interface {
	StockByPalletType(contractorID, warehouseID string, date types.Date) map[string]int
}

// Names labels lines. Unknown ids render as the id itself.
type Names interface {
	ServiceName(id string) string
	PalletTypeName(id string) string
}

// Calculator prices ledger activity. It holds no state of its own.
type Calculator struct {
	prices PriceReader
	ledger LedgerReader
	stock  StockReader
	names  Names
}

// NewCalculator creates a revenue calculator.
func NewCalculator(prices PriceReader, l LedgerReader, stock StockReader, names Names) *Calculator {
	return &Calculator{prices: prices, ledger: l, stock: stock, names: names}
}

// Warehouses resolves a warehouse filter for the contractor.
func (c *Calculator) Warehouses(contractorID, warehouseID string) []string {
	if warehouseID == AllWarehouses || warehouseID == "" {
		return c.ledger.WarehousesFor(contractorID)
	}
	return []string{warehouseID}
}

// DayLines itemizes one contractor's day: movement, additional services and
// storage, in that order per warehouse. Totals are not rounded.
func (c *Calculator) DayLines(contractorID, warehouseID string, date types.Date) []Line {
	var lines []Line
	for _, wh := range c.Warehouses(contractorID, warehouseID) {
		lines = append(lines, c.warehouseDay(contractorID, wh, date)...)
	}
	return lines
}

// Day returns the breakdown of one day, rounded to two places.
func (c *Calculator) Day(contractorID, warehouseID string, date types.Date) Breakdown {
	return Sum(c.DayLines(contractorID, warehouseID, date)).Rounded()
}

// Range sums every day in [from, to] over the contractors. Sub-totals are
// rounded once, after summation. It stops early when ctx is done.
func (c *Calculator) Range(ctx context.Context, contractorIDs []string, warehouseID string, from, to types.Date) (Breakdown, error) {
	partials := make([]Breakdown, len(contractorIDs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, contractorID := range contractorIDs {
		g.Go(func() error {
			b, err := c.contractorRange(ctx, contractorID, warehouseID, from, to)
			if err != nil {
				return err
			}
			partials[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Breakdown{}, err
	}

	total := zeroBreakdown()
	for _, p := range partials {
		total = total.Add(p)
	}
	return total.Rounded(), nil
}

func (c *Calculator) contractorRange(ctx context.Context, contractorID, warehouseID string, from, to types.Date) (Breakdown, error) {
	total := zeroBreakdown()
	for _, day := range types.DateRange(from, to) {
		if err := ctx.Err(); err != nil {
			return Breakdown{}, err
		}
		total = total.Add(Sum(c.DayLines(contractorID, warehouseID, day)))
	}
	return total, nil
}

func (c *Calculator) warehouseDay(contractorID, warehouseID string, date types.Date) []Line {
	rec, ok := c.ledger.RecordFor(contractorID, warehouseID, date)

	var lines []Line
	if ok {
		for _, e := range rec.Services {
			switch {
			case e.IsMovement():
				lines = append(lines, c.movementLines(contractorID, warehouseID, date, e)...)
			case e.ServiceID == catalog.ServiceStorage:
				// Storage is derived from stock, never entered.
			default:
				if l, ok := c.additionalLine(contractorID, warehouseID, date, e); ok {
					lines = append(lines, l)
				}
			}
		}
		if rec.HasMovement() {
			return lines
		}
	}
	return append(lines, c.storageLines(contractorID, warehouseID, date)...)
}

// movementLines prices both directions at the pallet type's "in" price,
// falling back to the flat price of the movement service.
func (c *Calculator) movementLines(contractorID, warehouseID string, date types.Date, e ledger.ServiceEntry) []Line {
	var lines []Line
	for _, pl := range e.Pallets {
		if pl.Qty <= 0 {
			continue
		}
		price := c.prices.PalletPrice(contractorID, pl.PalletTypeID, pricing.DirectionIn, date)
		if !price.IsPositive() {
			price = c.prices.ServicePrice(contractorID, e.ServiceID, date)
		}
		lines = append(lines, Line{
			Category:     CategoryMovement,
			Date:         date,
			WarehouseID:  warehouseID,
			ServiceID:    e.ServiceID,
			PalletTypeID: pl.PalletTypeID,
			Name:         c.names.ServiceName(e.ServiceID) + " (" + c.names.PalletTypeName(pl.PalletTypeID) + ")",
			Qty:          pl.Qty,
			UnitPrice:    price,
			Total:        types.Times(price, pl.Qty),
		})
	}
	return lines
}

func (c *Calculator) additionalLine(contractorID, warehouseID string, date types.Date, e ledger.ServiceEntry) (Line, bool) {
	if e.Qty <= 0 {
		return Line{}, false
	}
	price := c.prices.ServicePrice(contractorID, e.ServiceID, date)
	return Line{
		Category:    CategoryAdditional,
		Date:        date,
		WarehouseID: warehouseID,
		ServiceID:   e.ServiceID,
		Name:        c.names.ServiceName(e.ServiceID),
		Qty:         e.Qty,
		UnitPrice:   price,
		Total:       types.Times(price, e.Qty),
	}, true
}

// storageLines charges positive stock per pallet type at the "out" price,
// falling back to the flat storage price.
func (c *Calculator) storageLines(contractorID, warehouseID string, date types.Date) []Line {
	stock := c.stock.StockByPalletType(contractorID, warehouseID, date)
	palletTypes := make([]string, 0, len(stock))
	for pt, qty := range stock {
		if qty > 0 {
			palletTypes = append(palletTypes, pt)
		}
	}
	slices.Sort(palletTypes)

	lines := make([]Line, 0, len(palletTypes))
	for _, pt := range palletTypes {
		qty := stock[pt]
		price := c.prices.PalletPrice(contractorID, pt, pricing.DirectionOut, date)
		if !price.IsPositive() {
			price = c.prices.ServicePrice(contractorID, catalog.ServiceStorage, date)
		}
		lines = append(lines, Line{
			Category:     CategoryStorage,
			Date:         date,
			WarehouseID:  warehouseID,
			ServiceID:    catalog.ServiceStorage,
			PalletTypeID: pt,
			Name:         c.names.ServiceName(catalog.ServiceStorage) + " (" + c.names.PalletTypeName(pt) + ")",
			Qty:          qty,
			UnitPrice:    price,
			Total:        types.Times(price, qty),
		})
	}
	return lines
}
