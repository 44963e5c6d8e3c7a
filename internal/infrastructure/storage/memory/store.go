// Package memory is the in-process persistence collaborator used by tests
// and by the memory storage driver. Data lives as long as the process.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"palletbook/internal/app"
	"palletbook/internal/core/id"
	"palletbook/internal/domain/audit"
	"palletbook/internal/domain/catalog"
	"palletbook/internal/domain/ledger"
	"palletbook/internal/domain/pricing"
)

// Store keeps every collection in memory. It implements app.Loader and the
// ledger, pricing and audit repositories.
type Store struct {
	mu      sync.RWMutex
	catalog catalog.Data
	records map[ledger.Key]ledger.Record
	prices  map[id.ID]pricing.Entry
	order   []id.ID
	audit   []audit.Entry
}

// NewStore creates a store seeded with snap.
func NewStore(snap app.Snapshot) *Store {
	s := &Store{
		catalog: snap.Catalog,
		records: make(map[ledger.Key]ledger.Record, len(snap.Records)),
		prices:  make(map[id.ID]pricing.Entry, len(snap.Prices)),
		audit:   slices.Clone(snap.Audit),
	}
	for _, r := range snap.Records {
		s.records[r.Key()] = r.Clone()
	}
	for _, p := range snap.Prices {
		s.prices[p.ID] = p
		s.order = append(s.order, p.ID)
	}
	return s
}

// Repositories returns the store as the app's write side.
func (s *Store) Repositories() app.Repositories {
	return app.Repositories{Ledger: s, Prices: s, Audit: s}
}

// Load returns a copy of every collection. Records come back in date order.
func (s *Store) Load(context.Context) (app.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := app.Snapshot{
		Catalog: s.catalog,
		Records: make([]ledger.Record, 0, len(s.records)),
		Prices:  make([]pricing.Entry, 0, len(s.order)),
		Audit:   slices.Clone(s.audit),
	}
	for _, r := range s.records {
		snap.Records = append(snap.Records, r.Clone())
	}
	slices.SortFunc(snap.Records, func(a, b ledger.Record) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		if c := cmp.Compare(a.ContractorID, b.ContractorID); c != 0 {
			return c
		}
		return cmp.Compare(a.WarehouseID, b.WarehouseID)
	})
	for _, pid := range s.order {
		snap.Prices = append(snap.Prices, s.prices[pid])
	}
	return snap, nil
}

// SaveRecord upserts by day key.
func (s *Store) SaveRecord(_ context.Context, r ledger.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[r.Key()] = r.Clone()
	return nil
}

func (s *Store) InsertPrice(_ context.Context, e pricing.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.prices[e.ID]; ok {
		return fmt.Errorf("price %s already stored", e.ID)
	}
	s.prices[e.ID] = e
	s.order = append(s.order, e.ID)
	return nil
}

func (s *Store) UpdatePrice(_ context.Context, e pricing.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.prices[e.ID]; !ok {
		return fmt.Errorf("price %s not stored", e.ID)
	}
	s.prices[e.ID] = e
	return nil
}

func (s *Store) AppendAudit(_ context.Context, e audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit = append(s.audit, e)
	return nil
}
