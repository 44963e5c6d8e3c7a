// Package reports aggregates revenue, stock and ledger completion into the
// monthly, ranking and daily views. It keeps no state of its own.
package reports

import (
	"palletbook/internal/core/types"
	"palletbook/internal/domain/ledger"
	"palletbook/internal/domain/registers/stock"
	"palletbook/internal/domain/revenue"
)

// TopN is the size of the ranking reports.
const TopN = 5

// --- Monthly Summary ---

// ServiceSummary is one enabled service of a contractor over a month.
type ServiceSummary struct {
	ServiceID   string      `json:"serviceId"`
	ServiceName string      `json:"serviceName"`
	Unit        string      `json:"unit"`
	Quantity    int         `json:"quantity"`
	Revenue     types.Money `json:"revenue"`
}

// ContractorSummary is the month of one contractor.
type ContractorSummary struct {
	ContractorID   string            `json:"contractorId"`
	ContractorName string            `json:"contractorName"`
	Services       []ServiceSummary  `json:"services"`
	Revenue        revenue.Breakdown `json:"revenue"`
	TotalRevenue   types.Money       `json:"totalRevenue"`
}

// MonthlySummary covers a contractor set and a warehouse filter.
type MonthlySummary struct {
	Month        types.Month         `json:"month"`
	WarehouseID  string              `json:"warehouseId"`
	Contractors  []ContractorSummary `json:"contractors"`
	TotalRevenue types.Money         `json:"totalRevenue"`
}

// --- Daily Series ---

// DailyPoint is the total revenue of one day.
type DailyPoint struct {
	Date    types.Date  `json:"date"`
	Label   string      `json:"label"`
	Revenue types.Money `json:"revenue"`
}

// --- Rankings ---

// RevenueRank is a contractor's month in the revenue ranking.
type RevenueRank struct {
	ContractorID   string            `json:"contractorId"`
	ContractorName string            `json:"contractorName"`
	Revenue        revenue.Breakdown `json:"revenue"`
	Total          types.Money       `json:"total"`
}

// GrowthRank is a contractor's month-over-month change. IsNew marks a
// contractor with no revenue in the previous month.
type GrowthRank struct {
	ContractorID   string      `json:"contractorId"`
	ContractorName string      `json:"contractorName"`
	Current        types.Money `json:"current"`
	Previous       types.Money `json:"previous"`
	GrowthPercent  float64     `json:"growthPercent"`
	IsNew          bool        `json:"isNew"`
}

// --- Contractor Daily Report ---

// LineCategory groups itemized lines in the daily report.
type LineCategory string

const (
	LineMovement  LineCategory = "movement"
	LineTransport LineCategory = "transport"
	LineVASY      LineCategory = "vasy"
	LineStorage   LineCategory = "storage"
)

// ReportLine is one itemized line. Total is rounded for display.
type ReportLine struct {
	Category    LineCategory `json:"category"`
	WarehouseID string       `json:"warehouseId"`
	ServiceID   string       `json:"serviceId"`
	Name        string       `json:"name"`
	Unit        string       `json:"unit,omitempty"`
	Qty         int          `json:"qty"`
	UnitPrice   types.Money  `json:"unitPrice"`
	Total       types.Money  `json:"total"`
}

// ReportDay lists the lines of one day with activity.
type ReportDay struct {
	Date     types.Date   `json:"date"`
	Lines    []ReportLine `json:"lines"`
	Subtotal types.Money  `json:"subtotal"`
}

// ContractorDailyReport itemizes a contractor's month day by day.
type ContractorDailyReport struct {
	ContractorID   string      `json:"contractorId"`
	ContractorName string      `json:"contractorName"`
	Month          types.Month `json:"month"`
	WarehouseID    string      `json:"warehouseId"`
	Days           []ReportDay `json:"days"`
	GrandTotal     types.Money `json:"grandTotal"`
}

// --- Daily Overview ---

// OverviewRow is one contractor's state in a warehouse on a day.
type OverviewRow struct {
	ContractorID   string              `json:"contractorId"`
	ContractorName string              `json:"contractorName"`
	TotalStock     int                 `json:"totalStock"`
	Average30Day   float64             `json:"average30Day"`
	Trend          stock.Trend         `json:"trend"`
	DayBalance     int                 `json:"dayBalance"`
	Revenue        revenue.Breakdown   `json:"revenue"`
	Completed      bool                `json:"completed"`
	Entry          *ledger.EntryStatus `json:"entry,omitempty"`
}

// DailyOverview is the per-contractor table of one warehouse and day.
type DailyOverview struct {
	WarehouseID string        `json:"warehouseId"`
	Date        types.Date    `json:"date"`
	Rows        []OverviewRow `json:"rows"`
}
