package entity

import (
	"palletbook/internal/core/types"
)

// RecordType defines movement direction for the stock register.
type RecordType string

const (
	// RecordTypeReceipt increases balance
	RecordTypeReceipt RecordType = "receipt"
	// RecordTypeExpense decreases balance
	RecordTypeExpense RecordType = "expense"
)

// StockMovement is one pallet-type line of a ledger day, seen as a register movement.
// Movements are derived from ledger records and never stored on their own.
type StockMovement struct {
	Period       types.Date `json:"period"`
	RecordType   RecordType `json:"recordType"`
	ContractorID string     `json:"contractorId"`
	WarehouseID  string     `json:"warehouseId"`
	PalletTypeID string     `json:"palletTypeId"`
	Quantity     int        `json:"quantity"`
}

// SignedQuantity returns quantity with sign based on record type.
// Receipt = positive, Expense = negative.
func (m StockMovement) SignedQuantity() int {
	if m.RecordType == RecordTypeExpense {
		return -m.Quantity
	}
	return m.Quantity
}
