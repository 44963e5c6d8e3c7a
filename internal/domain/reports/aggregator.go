package reports

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"palletbook/internal/core/apperror"
	"palletbook/internal/core/types"
	"palletbook/internal/domain/catalog"
	"palletbook/internal/domain/ledger"
	"palletbook/internal/domain/registers/stock"
	"palletbook/internal/domain/revenue"
)

// Catalog is the reference data the reports label rows with.
type Catalog interface {
	Contractors() []catalog.Contractor
	Contractor(id string) (catalog.Contractor, bool)
	EnabledServices(contractorID string) []catalog.EnabledService
	Service(id string) (catalog.ServiceDefinition, bool)
}

// Calculator is the revenue source of every report.
type Calculator interface {
	DayLines(contractorID, warehouseID string, date types.Date) []revenue.Line
	Day(contractorID, warehouseID string, date types.Date) revenue.Breakdown
	Range(ctx context.Context, contractorIDs []string, warehouseID string, from, to types.Date) (revenue.Breakdown, error)
}

// StockReader gives the stock figures of the daily overview.
type StockReader interface {
	TotalStock(contractorID, warehouseID string, date types.Date) int
	Average30Day(contractorID, warehouseID string, date types.Date) float64
	Trend(contractorID, warehouseID string, date types.Date) stock.Trend
}

// LedgerReader gives day completion for the daily overview.
type LedgerReader interface {
	DayBalance(contractorID, warehouseID string, date types.Date) int
	IsDayCompleted(contractorID, warehouseID string, date types.Date) bool
	EntryStatus(contractorID, warehouseID string, date types.Date) (ledger.EntryStatus, bool)
}

// Aggregator builds reports from the revenue calculator, the stock register
// and the ledger.
type Aggregator struct {
	catalog    Catalog
	calc       Calculator
	stock      StockReader
	ledger     LedgerReader
	classifier *Classifier
}

// NewAggregator creates a report aggregator.
func NewAggregator(cat Catalog, calc Calculator, st StockReader, l LedgerReader, classifier *Classifier) *Aggregator {
	return &Aggregator{catalog: cat, calc: calc, stock: st, ledger: l, classifier: classifier}
}

// resolveContractors keeps known contractors in the given order. An empty
// selection means every active contractor.
func (a *Aggregator) resolveContractors(ids []string) []catalog.Contractor {
	if len(ids) == 0 {
		return a.catalog.Contractors()
	}
	out := make([]catalog.Contractor, 0, len(ids))
	for _, cid := range ids {
		if c, ok := a.catalog.Contractor(cid); ok {
			out = append(out, c)
		}
	}
	return out
}

func contractorIDs(cs []catalog.Contractor) []string {
	ids := make([]string, len(cs))
	for i, c := range cs {
		ids[i] = c.ID
	}
	return ids
}

// MonthlySummary reports quantity and revenue per enabled service. A
// contractor's total equals the revenue calculator's range total, so it also
// includes revenue of services not enabled for the contractor.
func (a *Aggregator) MonthlySummary(ctx context.Context, month types.Month, ids []string, warehouseID string) (MonthlySummary, error) {
	summary := MonthlySummary{Month: month, WarehouseID: warehouseID, TotalRevenue: types.Zero()}
	contractors := a.resolveContractors(ids)
	days := month.Days()

	for _, c := range contractors {
		qty := make(map[string]int)
		amount := make(map[string]types.Money)
		for _, day := range days {
			for _, l := range a.calc.DayLines(c.ID, warehouseID, day) {
				qty[l.ServiceID] += l.Qty
				amount[l.ServiceID] = amount[l.ServiceID].Add(l.Total)
			}
		}

		enabled := a.catalog.EnabledServices(c.ID)
		services := make([]ServiceSummary, 0, len(enabled))
		for _, svc := range enabled {
			services = append(services, ServiceSummary{
				ServiceID:   svc.ServiceID,
				ServiceName: svc.Definition.Name,
				Unit:        svc.Definition.Unit,
				Quantity:    qty[svc.ServiceID],
				Revenue:     types.RoundMoney(amount[svc.ServiceID]),
			})
		}

		breakdown, err := a.calc.Range(ctx, []string{c.ID}, warehouseID, month.First(), month.Last())
		if err != nil {
			return MonthlySummary{}, err
		}
		summary.Contractors = append(summary.Contractors, ContractorSummary{
			ContractorID:   c.ID,
			ContractorName: c.Name,
			Services:       services,
			Revenue:        breakdown,
			TotalRevenue:   breakdown.Total(),
		})
	}

	total, err := a.calc.Range(ctx, contractorIDs(contractors), warehouseID, month.First(), month.Last())
	if err != nil {
		return MonthlySummary{}, err
	}
	summary.TotalRevenue = total.Total()
	return summary, nil
}

// DailySeries returns total revenue per day of the month over the contractors.
func (a *Aggregator) DailySeries(month types.Month, ids []string, warehouseID string) []DailyPoint {
	contractors := a.resolveContractors(ids)
	days := month.Days()
	points := make([]DailyPoint, 0, len(days))

	for _, day := range days {
		total := types.Zero()
		for _, c := range contractors {
			total = total.Add(revenue.Sum(a.calc.DayLines(c.ID, warehouseID, day)).Total())
		}
		points = append(points, DailyPoint{
			Date:    day,
			Label:   fmt.Sprintf("%02d", day.Day()),
			Revenue: types.RoundMoney(total),
		})
	}
	return points
}

// TopByRevenue ranks active contractors by month revenue, highest first.
// Ties keep catalog order.
func (a *Aggregator) TopByRevenue(ctx context.Context, month types.Month, warehouseID string) ([]RevenueRank, error) {
	contractors := a.catalog.Contractors()
	ranks := make([]RevenueRank, 0, len(contractors))
	for _, c := range contractors {
		b, err := a.calc.Range(ctx, []string{c.ID}, warehouseID, month.First(), month.Last())
		if err != nil {
			return nil, err
		}
		ranks = append(ranks, RevenueRank{
			ContractorID:   c.ID,
			ContractorName: c.Name,
			Revenue:        b,
			Total:          b.Total(),
		})
	}

	slices.SortStableFunc(ranks, func(x, y RevenueRank) int { return y.Total.Cmp(x.Total) })
	return ranks[:min(TopN, len(ranks))], nil
}

// TopByGrowth ranks active contractors by month-over-month growth. New
// contractors come first, ordered by current revenue.
func (a *Aggregator) TopByGrowth(ctx context.Context, month types.Month, warehouseID string) ([]GrowthRank, error) {
	prevMonth := month.Prev()
	contractors := a.catalog.Contractors()
	ranks := make([]GrowthRank, 0, len(contractors))

	for _, c := range contractors {
		currB, err := a.calc.Range(ctx, []string{c.ID}, warehouseID, month.First(), month.Last())
		if err != nil {
			return nil, err
		}
		prevB, err := a.calc.Range(ctx, []string{c.ID}, warehouseID, prevMonth.First(), prevMonth.Last())
		if err != nil {
			return nil, err
		}
		curr, prev := currB.Total(), prevB.Total()
		percent, isNew := Growth(prev, curr)
		ranks = append(ranks, GrowthRank{
			ContractorID:   c.ID,
			ContractorName: c.Name,
			Current:        curr,
			Previous:       prev,
			GrowthPercent:  percent,
			IsNew:          isNew,
		})
	}

	slices.SortStableFunc(ranks, compareGrowth)
	return ranks[:min(TopN, len(ranks))], nil
}

func compareGrowth(x, y GrowthRank) int {
	switch {
	case x.IsNew && !y.IsNew:
		return -1
	case !x.IsNew && y.IsNew:
		return 1
	case x.IsNew && y.IsNew:
		return y.Current.Cmp(x.Current)
	}
	if c := cmp.Compare(y.GrowthPercent, x.GrowthPercent); c != 0 {
		return c
	}
	return y.Current.Cmp(x.Current)
}

var hundred = decimal.NewFromInt(100)

// Growth returns (curr-prev)/prev*100 rounded to one decimal place. A zero
// previous month with positive revenue now is reported as new.
func Growth(prev, curr types.Money) (float64, bool) {
	if prev.IsZero() {
		return 0, curr.IsPositive()
	}
	return curr.Sub(prev).Div(prev.Abs()).Mul(hundred).Round(1).InexactFloat64(), false
}

// ContractorDailyReport itemizes every day of the month that has priced
// activity. Flat services are split into transport and VASY by the classifier.
func (a *Aggregator) ContractorDailyReport(contractorID string, month types.Month, warehouseID string) (ContractorDailyReport, error) {
	c, ok := a.catalog.Contractor(contractorID)
	if !ok {
		return ContractorDailyReport{}, apperror.NewNotFound("contractor", contractorID)
	}

	report := ContractorDailyReport{
		ContractorID:   c.ID,
		ContractorName: c.Name,
		Month:          month,
		WarehouseID:    warehouseID,
		Days:           []ReportDay{},
	}

	grand := types.Zero()
	for _, day := range month.Days() {
		lines := a.calc.DayLines(contractorID, warehouseID, day)
		if len(lines) == 0 {
			continue
		}

		subtotal := revenue.Sum(lines).Total()
		grand = grand.Add(subtotal)

		reportLines := make([]ReportLine, 0, len(lines))
		for _, l := range lines {
			reportLines = append(reportLines, a.reportLine(l))
		}
		slices.SortStableFunc(reportLines, func(x, y ReportLine) int {
			return cmp.Compare(categoryOrder[x.Category], categoryOrder[y.Category])
		})

		report.Days = append(report.Days, ReportDay{
			Date:     day,
			Lines:    reportLines,
			Subtotal: types.RoundMoney(subtotal),
		})
	}
	report.GrandTotal = types.RoundMoney(grand)
	return report, nil
}

var categoryOrder = map[LineCategory]int{
	LineMovement:  0,
	LineTransport: 1,
	LineVASY:      2,
	LineStorage:   3,
}

func (a *Aggregator) reportLine(l revenue.Line) ReportLine {
	def, known := a.catalog.Service(l.ServiceID)

	category := LineMovement
	switch l.Category {
	case revenue.CategoryStorage:
		category = LineStorage
	case revenue.CategoryAdditional:
		category = LineVASY
		if known {
			category = a.classifier.Category(def)
		}
	}

	return ReportLine{
		Category:    category,
		WarehouseID: l.WarehouseID,
		ServiceID:   l.ServiceID,
		Name:        l.Name,
		Unit:        def.Unit,
		Qty:         l.Qty,
		UnitPrice:   l.UnitPrice,
		Total:       types.RoundMoney(l.Total),
	}
}

// DailyOverview is the contractor table of one warehouse on one day.
func (a *Aggregator) DailyOverview(warehouseID string, date types.Date) (DailyOverview, error) {
	if warehouseID == "" || warehouseID == revenue.AllWarehouses {
		return DailyOverview{}, apperror.NewInvalidInput("warehouseId", "a single warehouse is required")
	}

	contractors := a.catalog.Contractors()
	overview := DailyOverview{WarehouseID: warehouseID, Date: date, Rows: make([]OverviewRow, 0, len(contractors))}
	for _, c := range contractors {
		row := OverviewRow{
			ContractorID:   c.ID,
			ContractorName: c.Name,
			TotalStock:     a.stock.TotalStock(c.ID, warehouseID, date),
			Average30Day:   a.stock.Average30Day(c.ID, warehouseID, date),
			Trend:          a.stock.Trend(c.ID, warehouseID, date),
			DayBalance:     a.ledger.DayBalance(c.ID, warehouseID, date),
			Revenue:        a.calc.Day(c.ID, warehouseID, date),
			Completed:      a.ledger.IsDayCompleted(c.ID, warehouseID, date),
		}
		if status, ok := a.ledger.EntryStatus(c.ID, warehouseID, date); ok {
			row.Entry = &status
		}
		overview.Rows = append(overview.Rows, row)
	}
	return overview, nil
}
