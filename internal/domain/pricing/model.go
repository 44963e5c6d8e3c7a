// Package pricing resolves effective-dated prices per contractor.
package pricing

import (
	"fmt"

	"palletbook/internal/core/entity"
	"palletbook/internal/core/id"
	"palletbook/internal/core/types"
)

// Kind tells whether an entry prices a service or a pallet type.
type Kind string

const (
	KindService Kind = "service"
	KindPallet  Kind = "pallet"
)

// Direction of a pallet-type price. "in" prices movement, "out" prices storage.
type Direction string

const (
	DirectionNone Direction = ""
	DirectionIn   Direction = "in"
	DirectionOut  Direction = "out"
)

// ParseDirection accepts "in" or "out".
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionIn, DirectionOut:
		return Direction(s), nil
	default:
		return DirectionNone, fmt.Errorf("direction must be %q or %q, got %q", DirectionIn, DirectionOut, s)
	}
}

// Entry is one point in a price history.
type Entry struct {
	ID            id.ID       `db:"id" json:"id"`
	Kind          Kind        `db:"kind" json:"kind"`
	ContractorID  string      `db:"contractor_id" json:"contractorId"`
	ItemID        string      `db:"item_id" json:"itemId"`
	Direction     Direction   `db:"direction" json:"direction,omitempty"`
	EffectiveFrom types.Date  `db:"effective_from" json:"effectiveFrom"`
	PricePerUnit  types.Money `db:"price_per_unit" json:"pricePerUnit"`
	entity.Timestamps
}

// Key returns the history the entry belongs to.
func (e Entry) Key() Key {
	return Key{Kind: e.Kind, ContractorID: e.ContractorID, ItemID: e.ItemID, Direction: e.Direction}
}

// Key identifies one price history.
type Key struct {
	Kind         Kind
	ContractorID string
	ItemID       string
	Direction    Direction
}

// ServiceKey builds the key of a flat service price history.
func ServiceKey(contractorID, serviceID string) Key {
	return Key{Kind: KindService, ContractorID: contractorID, ItemID: serviceID}
}

// PalletKey builds the key of a pallet-type price history.
func PalletKey(contractorID, palletTypeID string, dir Direction) Key {
	return Key{Kind: KindPallet, ContractorID: contractorID, ItemID: palletTypeID, Direction: dir}
}

// String renders the audit entity key: "c|s" for services, "c|p|dir" for pallets.
func (k Key) String() string {
	if k.Kind == KindPallet {
		return fmt.Sprintf("%s|%s|%s", k.ContractorID, k.ItemID, k.Direction)
	}
	return fmt.Sprintf("%s|%s", k.ContractorID, k.ItemID)
}
