// Package audit records an append-only trail of business actions.
// Entries are for display only; nothing is recomputed from them.
package audit

import (
	"time"

	"palletbook/internal/core/id"
)

// Action names.
const (
	ActionCreateInventory   = "CREATE_INVENTORY"
	ActionUpdateInventory   = "UPDATE_INVENTORY"
	ActionMarkDayCompleted  = "MARK_DAY_COMPLETED"
	ActionAddPrice          = "ADD_PRICE"
	ActionUpdatePrice       = "UPDATE_PRICE"
	ActionAddPalletPrice    = "ADD_PALLET_PRICE"
	ActionUpdatePalletPrice = "UPDATE_PALLET_PRICE"
)

// Entity types.
const (
	EntityDailyInventory = "DailyInventory"
	EntityServicePrice   = "ServicePrice"
	EntityPalletPrice    = "PalletPrice"
)

// Entry is one immutable audit record.
// EntityKey is a composite string such as "{contractor}|{warehouse}|{date}".
type Entry struct {
	ID         id.ID          `json:"id"`
	Timestamp  time.Time      `json:"timestamp"`
	UserID     string         `json:"userId"`
	Action     string         `json:"action"`
	EntityType string         `json:"entityType"`
	EntityKey  string         `json:"entityKey"`
	Diff       map[string]any `json:"diff"`
	RequestID  string         `json:"requestId,omitempty"`
}

// Input is what callers supply; id and timestamp are assigned by the trail.
type Input struct {
	Action     string
	EntityType string
	EntityKey  string
	Diff       map[string]any
	UserID     string
}
