package dto

import (
	"palletbook/internal/core/types"
	"palletbook/internal/domain/revenue"
)

// RevenueResponse is a contractor's revenue over [from, to].
// Lines are present only for single-day requests.
type RevenueResponse struct {
	ContractorID string            `json:"contractorId"`
	WarehouseID  string            `json:"warehouseId"`
	From         types.Date        `json:"from"`
	To           types.Date        `json:"to"`
	Breakdown    revenue.Breakdown `json:"breakdown"`
	Total        types.Money       `json:"total"`
	Lines        []revenue.Line    `json:"lines,omitempty"`
}
