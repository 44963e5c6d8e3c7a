package dto

import (
	"strings"

	"palletbook/internal/domain/revenue"
)

// ReportQuery carries the common report filters.
type ReportQuery struct {
	Month         string `form:"month" binding:"required"`
	WarehouseID   string `form:"warehouseId"`
	ContractorIDs string `form:"contractorIds"`
}

// Warehouse defaults an empty filter to all warehouses.
func (q ReportQuery) Warehouse() string {
	if q.WarehouseID == "" {
		return revenue.AllWarehouses
	}
	return q.WarehouseID
}

// Contractors splits the comma-separated contractor filter.
func (q ReportQuery) Contractors() []string {
	var ids []string
	for _, part := range strings.Split(q.ContractorIDs, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}
