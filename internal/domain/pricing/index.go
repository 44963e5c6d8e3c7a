package pricing

import (
	"slices"
	"sync"

	"palletbook/internal/core/id"
	"palletbook/internal/core/types"
)

// Index holds every price history keyed by (kind, contractor, item, direction).
// Each history is kept sorted by EffectiveFrom; among equal dates the entry
// inserted last sorts last and therefore wins.
type Index struct {
	mu    sync.RWMutex
	byKey map[Key][]*Entry
	byID  map[id.ID]*Entry
}

// NewIndex builds an index over loaded entries.
func NewIndex(entries []Entry) *Index {
	idx := &Index{
		byKey: make(map[Key][]*Entry),
		byID:  make(map[id.ID]*Entry, len(entries)),
	}
	for _, e := range entries {
		idx.put(e)
	}
	return idx
}

// EffectivePrice returns the price in force at date, or zero when the
// date precedes the whole history. Zero means unpriced, not free.
func (idx *Index) EffectivePrice(key Key, date types.Date) types.Money {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	price := types.Zero()
	for _, e := range idx.byKey[key] {
		if e.EffectiveFrom.After(date) {
			break
		}
		price = e.PricePerUnit
	}
	return price
}

// ServicePrice is EffectivePrice for a flat service.
func (idx *Index) ServicePrice(contractorID, serviceID string, date types.Date) types.Money {
	return idx.EffectivePrice(ServiceKey(contractorID, serviceID), date)
}

// PalletPrice is EffectivePrice for a pallet type in a direction.
func (idx *Index) PalletPrice(contractorID, palletTypeID string, dir Direction, date types.Date) types.Money {
	return idx.EffectivePrice(PalletKey(contractorID, palletTypeID, dir), date)
}

// History returns a copy of one history in ascending EffectiveFrom order.
func (idx *Index) History(key Key) []Entry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	list := idx.byKey[key]
	out := make([]Entry, len(list))
	for i, e := range list {
		out[i] = *e
	}
	return out
}

// Get returns an entry by id.
func (idx *Index) Get(priceID id.ID) (Entry, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	e, ok := idx.byID[priceID]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Len returns the number of entries.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.byID)
}

// hasDate reports whether another entry of key already starts at date.
func (idx *Index) hasDate(key Key, date types.Date, except id.ID) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	for _, e := range idx.byKey[key] {
		if e.ID != except && e.EffectiveFrom.Equal(date) {
			return true
		}
	}
	return false
}

func (idx *Index) insert(e Entry) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.put(e)
}

// replace overwrites an existing entry in place and restores ordering.
func (idx *Index) replace(e Entry) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	current, ok := idx.byID[e.ID]
	if !ok {
		idx.put(e)
		return
	}
	*current = e
	sortHistory(idx.byKey[e.Key()])
}

func (idx *Index) put(e Entry) {
	stored := e
	key := e.Key()
	idx.byKey[key] = append(idx.byKey[key], &stored)
	idx.byID[e.ID] = &stored
	sortHistory(idx.byKey[key])
}

func sortHistory(list []*Entry) {
	slices.SortStableFunc(list, func(a, b *Entry) int {
		return a.EffectiveFrom.Compare(b.EffectiveFrom)
	})
}
