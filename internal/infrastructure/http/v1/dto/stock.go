package dto

import (
	"cmp"
	"slices"

	"palletbook/internal/core/types"
	"palletbook/internal/domain/registers/stock"
)

// PalletStock is the balance of one pallet type.
type PalletStock struct {
	PalletTypeID string `json:"palletTypeId"`
	Name         string `json:"name"`
	Qty          int    `json:"qty"`
}

// StockResponse summarizes a contractor's stock in one warehouse on a date.
type StockResponse struct {
	ContractorID string        `json:"contractorId"`
	WarehouseID  string        `json:"warehouseId"`
	Date         types.Date    `json:"date"`
	ByPalletType []PalletStock `json:"byPalletType"`
	Total        int           `json:"total"`
	Average30Day float64       `json:"average30Day"`
	Trend        stock.Trend   `json:"trend"`
}

// FromStockBalances converts the per-type map, sorted by pallet type id.
func FromStockBalances(balances map[string]int, name func(string) string) []PalletStock {
	out := make([]PalletStock, 0, len(balances))
	for palletTypeID, qty := range balances {
		out = append(out, PalletStock{PalletTypeID: palletTypeID, Name: name(palletTypeID), Qty: qty})
	}
	slices.SortFunc(out, func(a, b PalletStock) int { return cmp.Compare(a.PalletTypeID, b.PalletTypeID) })
	return out
}
