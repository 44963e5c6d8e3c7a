package dto

import (
	"palletbook/internal/core/types"
	"palletbook/internal/domain/ledger"
)

// SaveLedgerRequest replaces the services of one day. An empty list clears it.
type SaveLedgerRequest struct {
	Services []ledger.ServiceEntry `json:"services"`
}

// LedgerDayResponse is the entry form state of one day.
type LedgerDayResponse struct {
	ContractorID string              `json:"contractorId"`
	WarehouseID  string              `json:"warehouseId"`
	Date         types.Date          `json:"date"`
	Record       *ledger.Record      `json:"record"`
	Completed    bool                `json:"completed"`
	Balance      int                 `json:"balance"`
	Entry        *ledger.EntryStatus `json:"entry,omitempty"`
}

// LedgerDayView is what a LedgerDayResponse is built from.
type LedgerDayView interface {
	RecordFor(contractorID, warehouseID string, date types.Date) (ledger.Record, bool)
	IsDayCompleted(contractorID, warehouseID string, date types.Date) bool
	DayBalance(contractorID, warehouseID string, date types.Date) int
	EntryStatus(contractorID, warehouseID string, date types.Date) (ledger.EntryStatus, bool)
}

// NewLedgerDayResponse assembles the day view.
func NewLedgerDayResponse(l LedgerDayView, key ledger.Key) LedgerDayResponse {
	resp := LedgerDayResponse{
		ContractorID: key.ContractorID,
		WarehouseID:  key.WarehouseID,
		Date:         key.Date,
		Completed:    l.IsDayCompleted(key.ContractorID, key.WarehouseID, key.Date),
		Balance:      l.DayBalance(key.ContractorID, key.WarehouseID, key.Date),
	}
	if rec, ok := l.RecordFor(key.ContractorID, key.WarehouseID, key.Date); ok {
		resp.Record = &rec
	}
	if st, ok := l.EntryStatus(key.ContractorID, key.WarehouseID, key.Date); ok {
		resp.Entry = &st
	}
	return resp
}
