package ledger

import (
	"cmp"
	"slices"
	"sync"

	"palletbook/internal/core/types"
)

type pair struct {
	contractorID string
	warehouseID  string
}

// Store is the in-memory record collection with lookups by day key and by
// (contractor, warehouse) history. Records handed out are deep copies.
type Store struct {
	mu     sync.RWMutex
	byKey  map[Key]*Record
	byPair map[pair][]*Record // ascending by date
}

// NewStore indexes loaded records. A later record with the same key replaces an earlier one.
func NewStore(records []Record) *Store {
	s := &Store{
		byKey:  make(map[Key]*Record, len(records)),
		byPair: make(map[pair][]*Record),
	}
	for _, r := range records {
		s.putLocked(r.Clone())
	}
	return s
}

// Get returns the record of a day.
func (s *Store) Get(key Key) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.byKey[key]
	if !ok {
		return Record{}, false
	}
	return r.Clone(), true
}

// UpTo returns records of the pair dated on or before date, oldest first.
func (s *Store) UpTo(contractorID, warehouseID string, date types.Date) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Record
	for _, r := range s.byPair[pair{contractorID, warehouseID}] {
		if r.Date.After(date) {
			break
		}
		out = append(out, r.Clone())
	}
	return out
}

// InRange returns records of the pair dated within [from, to], oldest first.
func (s *Store) InRange(contractorID, warehouseID string, from, to types.Date) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Record
	for _, r := range s.byPair[pair{contractorID, warehouseID}] {
		if r.Date.Before(from) {
			continue
		}
		if r.Date.After(to) {
			break
		}
		out = append(out, r.Clone())
	}
	return out
}

// Filter returns every record accepted by keep, ordered by date then contractor then warehouse.
func (s *Store) Filter(keep func(r *Record) bool) []Record {
	s.mu.RLock()
	var out []Record
	for _, r := range s.byKey {
		if keep(r) {
			out = append(out, r.Clone())
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b Record) int {
		return cmp.Or(
			a.Date.Compare(b.Date),
			cmp.Compare(a.ContractorID, b.ContractorID),
			cmp.Compare(a.WarehouseID, b.WarehouseID),
		)
	})
	return out
}

// Warehouses lists warehouses where the contractor has at least one record.
func (s *Store) Warehouses(contractorID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []string
	for p, list := range s.byPair {
		if p.contractorID == contractorID && len(list) > 0 {
			out = append(out, p.warehouseID)
		}
	}
	slices.Sort(out)
	return out
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byKey)
}

func (s *Store) put(r Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putLocked(r.Clone())
}

func (s *Store) putLocked(r Record) {
	key := r.Key()
	p := pair{r.ContractorID, r.WarehouseID}

	if existing, ok := s.byKey[key]; ok {
		*existing = r
		return
	}

	stored := &r
	s.byKey[key] = stored
	list := s.byPair[p]
	i, _ := slices.BinarySearchFunc(list, r.Date, func(x *Record, d types.Date) int {
		return x.Date.Compare(d)
	})
	s.byPair[p] = slices.Insert(list, i, stored)
}
