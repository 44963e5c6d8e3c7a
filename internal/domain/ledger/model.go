// Package ledger owns the per-day, per-contractor, per-warehouse activity records.
package ledger

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"palletbook/internal/core/entity"
	"palletbook/internal/core/types"
	"palletbook/internal/domain/catalog"
)

// EntryKind discriminates the two shapes of a service entry.
type EntryKind int

const (
	// EntryFlat is a service with a single quantity.
	EntryFlat EntryKind = iota
	// EntryPalletMovement carries per-pallet-type quantities.
	EntryPalletMovement
)

// KindFor derives the entry kind from the service id.
func KindFor(serviceID string) EntryKind {
	if catalog.IsMovementService(serviceID) {
		return EntryPalletMovement
	}
	return EntryFlat
}

// PalletLine is the quantity of one pallet type within a movement.
type PalletLine struct {
	PalletTypeID string `json:"palletTypeId"`
	Qty          int    `json:"qty"`
	Note         string `json:"note,omitempty"`
}

// ServiceEntry is either a pallet movement (Pallets set) or a flat service
// (Qty and Note set). The shape follows from ServiceID alone.
type ServiceEntry struct {
	ServiceID string
	Pallets   []PalletLine
	Qty       int
	Note      string
	CreatedAt time.Time
}

// NewPalletMovement builds a pallets-in or pallets-out entry.
func NewPalletMovement(serviceID string, lines ...PalletLine) ServiceEntry {
	return ServiceEntry{ServiceID: serviceID, Pallets: lines}
}

// NewFlatService builds a flat-quantity entry.
func NewFlatService(serviceID string, qty int, note string) ServiceEntry {
	return ServiceEntry{ServiceID: serviceID, Qty: qty, Note: note}
}

// Kind derives the entry shape from its service id.
func (e ServiceEntry) Kind() EntryKind {
	return KindFor(e.ServiceID)
}

// IsMovement reports whether the entry moves pallets.
func (e ServiceEntry) IsMovement() bool {
	return e.Kind() == EntryPalletMovement
}

// MovementType maps pallets in to receipt and pallets out to expense.
func (e ServiceEntry) MovementType() entity.RecordType {
	if e.ServiceID == catalog.ServicePalletsOut {
		return entity.RecordTypeExpense
	}
	return entity.RecordTypeReceipt
}

// TotalQty sums pallet lines for movements, or returns Qty for flat services.
func (e ServiceEntry) TotalQty() int {
	if !e.IsMovement() {
		return e.Qty
	}
	total := 0
	for _, l := range e.Pallets {
		total += l.Qty
	}
	return total
}

func (e ServiceEntry) clone() ServiceEntry {
	e.Pallets = slices.Clone(e.Pallets)
	return e
}

type wireEntry struct {
	ServiceID string       `json:"serviceId"`
	Pallets   []PalletLine `json:"palletEntries,omitempty"`
	Qty       *int         `json:"qty,omitempty"`
	Note      *string      `json:"note,omitempty"`
	CreatedAt *time.Time   `json:"createdAt,omitempty"`
}

// MarshalJSON writes palletEntries for movements and qty/note for flat services.
func (e ServiceEntry) MarshalJSON() ([]byte, error) {
	w := wireEntry{ServiceID: e.ServiceID}
	if e.IsMovement() {
		w.Pallets = e.Pallets
		if w.Pallets == nil {
			w.Pallets = []PalletLine{}
		}
	} else {
		qty, note := e.Qty, e.Note
		w.Qty, w.Note = &qty, &note
	}
	if !e.CreatedAt.IsZero() {
		at := e.CreatedAt
		w.CreatedAt = &at
	}
	return json.Marshal(w)
}

// UnmarshalJSON resolves missing fields to zero values once, here.
func (e *ServiceEntry) UnmarshalJSON(data []byte) error {
	var w wireEntry
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.ServiceID == "" {
		return fmt.Errorf("service entry: serviceId is required")
	}

	out := ServiceEntry{ServiceID: w.ServiceID}
	if out.IsMovement() {
		out.Pallets = w.Pallets
	} else {
		if w.Qty != nil {
			out.Qty = *w.Qty
		}
		if w.Note != nil {
			out.Note = *w.Note
		}
	}
	if w.CreatedAt != nil {
		out.CreatedAt = *w.CreatedAt
	}
	*e = out
	return nil
}

// Key identifies the single record of a day.
type Key struct {
	ContractorID string
	WarehouseID  string
	Date         types.Date
}

// String renders the audit entity key "{contractor}|{warehouse}|{date}".
func (k Key) String() string {
	return fmt.Sprintf("%s|%s|%s", k.ContractorID, k.WarehouseID, k.Date)
}

// Record is the activity of one contractor in one warehouse on one day.
type Record struct {
	entity.Versioned
	ContractorID      string         `json:"contractorId"`
	WarehouseID       string         `json:"warehouseId"`
	Date              types.Date     `json:"date"`
	Services          []ServiceEntry `json:"services"`
	ManuallyCompleted bool           `json:"manuallyCompleted"`
}

// Key returns the record's unique day key.
func (r Record) Key() Key {
	return Key{ContractorID: r.ContractorID, WarehouseID: r.WarehouseID, Date: r.Date}
}

// HasMovement reports whether any pallet line moved at least one pallet.
func (r Record) HasMovement() bool {
	for _, s := range r.Services {
		if !s.IsMovement() {
			continue
		}
		for _, l := range s.Pallets {
			if l.Qty > 0 {
				return true
			}
		}
	}
	return false
}

// Balance is pallets in minus pallets out for the day.
func (r Record) Balance() int {
	balance := 0
	for _, s := range r.Services {
		if !s.IsMovement() {
			continue
		}
		if s.MovementType() == entity.RecordTypeExpense {
			balance -= s.TotalQty()
		} else {
			balance += s.TotalQty()
		}
	}
	return balance
}

// Movements expands the record's pallet lines into stock register movements.
func (r Record) Movements() []entity.StockMovement {
	var out []entity.StockMovement
	for _, s := range r.Services {
		if !s.IsMovement() {
			continue
		}
		for _, l := range s.Pallets {
			out = append(out, entity.StockMovement{
				Period:       r.Date,
				RecordType:   s.MovementType(),
				ContractorID: r.ContractorID,
				WarehouseID:  r.WarehouseID,
				PalletTypeID: l.PalletTypeID,
				Quantity:     l.Qty,
			})
		}
	}
	return out
}

// Clone returns a deep copy; records never share service slices.
func (r Record) Clone() Record {
	if r.Services != nil {
		services := make([]ServiceEntry, len(r.Services))
		for i, s := range r.Services {
			services[i] = s.clone()
		}
		r.Services = services
	}
	return r
}

// EntryStatus tells whether a day's first entry met the deadline.
type EntryStatus struct {
	CreatedAt time.Time `json:"createdAt"`
	Deadline  time.Time `json:"deadline"`
	OnTime    bool      `json:"onTime"`
	HoursOver int       `json:"hoursOver"`
}
