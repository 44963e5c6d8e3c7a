// Package revenue derives what a contractor owes for a day or a period
// from the ledger, the price index and the stock register.
package revenue

import (
	"palletbook/internal/core/types"
)

// AllWarehouses selects every warehouse the contractor has activity in.
const AllWarehouses = "all"

// Category of a revenue line.
type Category string

const (
	CategoryMovement   Category = "movement"
	CategoryAdditional Category = "additional"
	CategoryStorage    Category = "storage"
)

// Line is one priced item of a day. Total is not rounded.
type Line struct {
	Category     Category    `json:"category"`
	Date         types.Date  `json:"date"`
	WarehouseID  string      `json:"warehouseId"`
	ServiceID    string      `json:"serviceId"`
	PalletTypeID string      `json:"palletTypeId,omitempty"`
	Name         string      `json:"name"`
	Qty          int         `json:"qty"`
	UnitPrice    types.Money `json:"unitPrice"`
	Total        types.Money `json:"total"`
}

// Breakdown splits revenue into its three sources.
type Breakdown struct {
	Movement   types.Money `json:"movement"`
	Additional types.Money `json:"additional"`
	Storage    types.Money `json:"storage"`
}

// Total is the sum of all three sources.
func (b Breakdown) Total() types.Money {
	return b.Movement.Add(b.Additional).Add(b.Storage)
}

// Add returns the component-wise sum.
func (b Breakdown) Add(o Breakdown) Breakdown {
	return Breakdown{
		Movement:   b.Movement.Add(o.Movement),
		Additional: b.Additional.Add(o.Additional),
		Storage:    b.Storage.Add(o.Storage),
	}
}

// Rounded rounds every component to two decimal places.
func (b Breakdown) Rounded() Breakdown {
	return Breakdown{
		Movement:   types.RoundMoney(b.Movement),
		Additional: types.RoundMoney(b.Additional),
		Storage:    types.RoundMoney(b.Storage),
	}
}

func (b Breakdown) addLine(l Line) Breakdown {
	switch l.Category {
	case CategoryMovement:
		b.Movement = b.Movement.Add(l.Total)
	case CategoryAdditional:
		b.Additional = b.Additional.Add(l.Total)
	case CategoryStorage:
		b.Storage = b.Storage.Add(l.Total)
	}
	return b
}

// Sum folds lines into an unrounded breakdown.
func Sum(lines []Line) Breakdown {
	b := zeroBreakdown()
	for _, l := range lines {
		b = b.addLine(l)
	}
	return b
}

func zeroBreakdown() Breakdown {
	return Breakdown{Movement: types.Zero(), Additional: types.Zero(), Storage: types.Zero()}
}
