package ledger

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"palletbook/internal/core/apperror"
	"palletbook/internal/core/entity"
	"palletbook/internal/core/events"
	"palletbook/internal/core/types"
	"palletbook/internal/domain/audit"
	"palletbook/pkg/logger"
)

// DefaultEntryDeadline is measured from the start of the record's day.
const DefaultEntryDeadline = 36 * time.Hour

// Repository persists ledger records. SaveRecord is an upsert by day key.
type Repository interface {
	SaveRecord(ctx context.Context, r Record) error
}

// AuditTrail is the part of the audit trail the ledger writes to and reads from.
type AuditTrail interface {
	audit.Recorder
	audit.Reader
}

// Service reads and mutates the daily ledger.
type Service struct {
	store    *Store
	repo     Repository
	audit    AuditTrail
	events   events.Publisher
	deadline time.Duration
	now      func() time.Time

	writeMu sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithEntryDeadline sets the on-time threshold for EntryStatus.
func WithEntryDeadline(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.deadline = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a ledger service over store.
func NewService(store *Store, repo Repository, trail AuditTrail, pub events.Publisher, opts ...Option) *Service {
	s := &Service{
		store:    store,
		repo:     repo,
		audit:    trail,
		events:   pub,
		deadline: DefaultEntryDeadline,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// --- Queries ---

// RecordFor returns the record of one day, if any.
func (s *Service) RecordFor(contractorID, warehouseID string, date types.Date) (Record, bool) {
	return s.store.Get(Key{ContractorID: contractorID, WarehouseID: warehouseID, Date: date})
}

// RecordsUpTo returns the pair's records dated on or before date, oldest first.
func (s *Service) RecordsUpTo(contractorID, warehouseID string, date types.Date) []Record {
	return s.store.UpTo(contractorID, warehouseID, date)
}

// RecordsInRange returns the pair's records within [from, to], oldest first.
func (s *Service) RecordsInRange(contractorID, warehouseID string, from, to types.Date) []Record {
	return s.store.InRange(contractorID, warehouseID, from, to)
}

// RecordsByWarehouse returns every record of a warehouse.
func (s *Service) RecordsByWarehouse(warehouseID string) []Record {
	return s.store.Filter(func(r *Record) bool { return r.WarehouseID == warehouseID })
}

// RecordsByDate returns every record of a day.
func (s *Service) RecordsByDate(date types.Date) []Record {
	return s.store.Filter(func(r *Record) bool { return r.Date.Equal(date) })
}

// WarehousesFor lists warehouses where the contractor has activity.
func (s *Service) WarehousesFor(contractorID string) []string {
	return s.store.Warehouses(contractorID)
}

// IsDayCompleted is true once a day was saved or explicitly marked complete.
func (s *Service) IsDayCompleted(contractorID, warehouseID string, date types.Date) bool {
	r, ok := s.RecordFor(contractorID, warehouseID, date)
	if !ok {
		return false
	}
	return r.ManuallyCompleted || len(r.Services) > 0
}

// DayBalance is pallets in minus pallets out on that day.
func (s *Service) DayBalance(contractorID, warehouseID string, date types.Date) int {
	r, ok := s.RecordFor(contractorID, warehouseID, date)
	if !ok {
		return 0
	}
	return r.Balance()
}

// EntryStatus reports when the day was first entered relative to the deadline.
// The second result is false when nothing was entered yet.
func (s *Service) EntryStatus(contractorID, warehouseID string, date types.Date) (EntryStatus, bool) {
	if !s.IsDayCompleted(contractorID, warehouseID, date) {
		return EntryStatus{}, false
	}
	r, _ := s.RecordFor(contractorID, warehouseID, date)

	deadline := date.Time().Add(s.deadline)
	status := EntryStatus{
		CreatedAt: r.CreatedAt,
		Deadline:  deadline,
		OnTime:    !r.CreatedAt.After(deadline),
	}
	if !status.OnTime {
		status.HoursOver = int(math.Ceil(r.CreatedAt.Sub(deadline).Hours()))
	}
	return status, true
}

// History returns audit entries of the day, newest first.
func (s *Service) History(contractorID, warehouseID string, date types.Date) []audit.Entry {
	key := Key{ContractorID: contractorID, WarehouseID: warehouseID, Date: date}
	return s.audit.HistoryFor(audit.EntityDailyInventory, key.String())
}

// --- Mutations ---

// Draft is the complete desired content of a day.
type Draft struct {
	ContractorID string
	WarehouseID  string
	Date         types.Date
	Services     []ServiceEntry
	UserID       string
}

// Save replaces the day's services with draft.Services. Services are not
// merged: the caller passes the whole list. The record is persisted before
// memory changes; a rejected write leaves the ledger as it was.
func (s *Service) Save(ctx context.Context, draft Draft) (Record, error) {
	key := Key{ContractorID: draft.ContractorID, WarehouseID: draft.WarehouseID, Date: draft.Date}
	if err := validateKey(key); err != nil {
		return Record{}, err
	}
	if err := validateServices(draft.Services); err != nil {
		return Record{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	now := s.now()
	services := normalize(draft.Services, now)

	existing, exists := s.store.Get(key)
	var rec Record
	before := []ServiceEntry{}
	if exists {
		before = existing.Services
		rec = existing
		rec.Touch(now)
	} else {
		rec = Record{
			Versioned:    entity.NewVersioned(now),
			ContractorID: key.ContractorID,
			WarehouseID:  key.WarehouseID,
			Date:         key.Date,
		}
	}
	rec.Services = services
	rec.ManuallyCompleted = true

	if err := s.repo.SaveRecord(ctx, rec); err != nil {
		logger.Error(ctx, "failed to persist ledger record", "key", key.String(), "error", err)
		return Record{}, apperror.NewPersistence("ledger record", fmt.Errorf("save %s: %w", key, err))
	}
	s.store.put(rec)

	action := audit.ActionCreateInventory
	if exists {
		action = audit.ActionUpdateInventory
	}
	s.recordAudit(ctx, audit.Input{
		Action:     action,
		EntityType: audit.EntityDailyInventory,
		EntityKey:  key.String(),
		Diff: map[string]any{
			"servicesBefore": before,
			"servicesAfter":  rec.Clone().Services,
		},
		UserID: draft.UserID,
	})
	s.events.Publish(ctx, events.Event{Kind: events.KindLedgerSaved, EntityType: audit.EntityDailyInventory, EntityKey: key.String()})

	logger.Info(ctx, "saved ledger record",
		"key", key.String(),
		"version", rec.Version,
		"services", len(rec.Services),
	)
	return rec.Clone(), nil
}

// MarkDayCompleted flags a day without activity as entered.
func (s *Service) MarkDayCompleted(ctx context.Context, contractorID, warehouseID string, date types.Date, userID string) (Record, error) {
	key := Key{ContractorID: contractorID, WarehouseID: warehouseID, Date: date}
	if err := validateKey(key); err != nil {
		return Record{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	now := s.now()
	rec, exists := s.store.Get(key)
	if exists {
		rec.Touch(now)
	} else {
		rec = Record{
			Versioned:    entity.NewVersioned(now),
			ContractorID: contractorID,
			WarehouseID:  warehouseID,
			Date:         date,
			Services:     []ServiceEntry{},
		}
	}
	rec.ManuallyCompleted = true

	if err := s.repo.SaveRecord(ctx, rec); err != nil {
		logger.Error(ctx, "failed to persist ledger record", "key", key.String(), "error", err)
		return Record{}, apperror.NewPersistence("ledger record", fmt.Errorf("mark %s: %w", key, err))
	}
	s.store.put(rec)

	s.recordAudit(ctx, audit.Input{
		Action:     audit.ActionMarkDayCompleted,
		EntityType: audit.EntityDailyInventory,
		EntityKey:  key.String(),
		Diff:       map[string]any{"manuallyCompleted": true},
		UserID:     userID,
	})
	s.events.Publish(ctx, events.Event{Kind: events.KindDayCompleted, EntityType: audit.EntityDailyInventory, EntityKey: key.String()})

	logger.Info(ctx, "marked day completed", "key", key.String())
	return rec.Clone(), nil
}

// recordAudit logs a failed append; the ledger write itself already happened.
func (s *Service) recordAudit(ctx context.Context, in audit.Input) {
	if _, err := s.audit.Record(ctx, in); err != nil {
		logger.Error(ctx, "ledger record saved without audit entry", "entity_key", in.EntityKey, "error", err)
	}
}

func validateKey(k Key) error {
	switch {
	case k.ContractorID == "":
		return apperror.NewInvalidInput("contractorId", "required")
	case k.WarehouseID == "":
		return apperror.NewInvalidInput("warehouseId", "required")
	case k.Date.IsZero():
		return apperror.NewInvalidInput("date", "required")
	}
	return nil
}

func validateServices(services []ServiceEntry) error {
	for i, e := range services {
		if e.ServiceID == "" {
			return apperror.NewInvalidInput(fmt.Sprintf("services[%d].serviceId", i), "required")
		}
		if e.Qty < 0 {
			return apperror.NewInvalidInput(fmt.Sprintf("services[%d].qty", i), "must not be negative")
		}
		for j, l := range e.Pallets {
			if l.Qty < 0 {
				return apperror.NewInvalidInput(fmt.Sprintf("services[%d].palletEntries[%d].qty", i, j), "must not be negative")
			}
			if e.IsMovement() && l.PalletTypeID == "" {
				return apperror.NewInvalidInput(fmt.Sprintf("services[%d].palletEntries[%d].palletTypeId", i, j), "required")
			}
		}
	}
	return nil
}

// normalize clears fields foreign to the entry shape and drops entries that carry nothing:
// zero quantity with an empty note.
func normalize(in []ServiceEntry, now time.Time) []ServiceEntry {
	out := make([]ServiceEntry, 0, len(in))
	for _, e := range in {
		e = e.clone()

		if e.IsMovement() {
			lines := e.Pallets[:0]
			for _, l := range e.Pallets {
				if l.Qty == 0 && l.Note == "" {
					continue
				}
				lines = append(lines, l)
			}
			if len(lines) == 0 {
				continue
			}
			e.Pallets, e.Qty, e.Note = lines, 0, ""
		} else {
			if e.Qty == 0 && e.Note == "" {
				continue
			}
			e.Pallets = nil
		}

		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
		out = append(out, e)
	}
	return out
}
