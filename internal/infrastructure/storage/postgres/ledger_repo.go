package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"palletbook/internal/core/entity"
	"palletbook/internal/core/id"
	"palletbook/internal/core/types"
	"palletbook/internal/domain/ledger"
)

// recordRow is the stored shape of ledger.Record. Services are a JSONB
// array in the wire format of ledger.ServiceEntry.
type recordRow struct {
	ID                id.ID      `db:"id"`
	ContractorID      string     `db:"contractor_id"`
	WarehouseID       string     `db:"warehouse_id"`
	Date              types.Date `db:"date"`
	Services          []byte     `db:"services"`
	ManuallyCompleted bool       `db:"manually_completed"`
	Version           int        `db:"version"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
}

func toRecordRow(r ledger.Record) (recordRow, error) {
	services := r.Services
	if services == nil {
		services = []ledger.ServiceEntry{}
	}
	raw, err := json.Marshal(services)
	if err != nil {
		return recordRow{}, fmt.Errorf("marshal services: %w", err)
	}
	return recordRow{
		ID:                r.ID,
		ContractorID:      r.ContractorID,
		WarehouseID:       r.WarehouseID,
		Date:              r.Date,
		Services:          raw,
		ManuallyCompleted: r.ManuallyCompleted,
		Version:           r.Version,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}, nil
}

func (row recordRow) toRecord() (ledger.Record, error) {
	var services []ledger.ServiceEntry
	if len(row.Services) > 0 {
		if err := json.Unmarshal(row.Services, &services); err != nil {
			return ledger.Record{}, fmt.Errorf("unmarshal services of %s: %w", row.ID, err)
		}
	}
	return ledger.Record{
		Versioned: entity.Versioned{
			ID:        row.ID,
			Version:   row.Version,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		},
		ContractorID:      row.ContractorID,
		WarehouseID:       row.WarehouseID,
		Date:              row.Date,
		Services:          services,
		ManuallyCompleted: row.ManuallyCompleted,
	}, nil
}

// LedgerRepo stores ledger records.
type LedgerRepo struct {
	txm *TxManager
}

var _ ledger.Repository = (*LedgerRepo)(nil)

// NewLedgerRepo creates a ledger repository.
func NewLedgerRepo(txm *TxManager) *LedgerRepo {
	return &LedgerRepo{txm: txm}
}

// SaveRecord upserts on the (contractor, warehouse, date) key. The id and
// created_at of an existing row are kept.
func (r *LedgerRepo) SaveRecord(ctx context.Context, rec ledger.Record) error {
	row, err := toRecordRow(rec)
	if err != nil {
		return err
	}

	sql, args, err := builder().
		Insert("ledger_records").
		SetMap(StructToMap(row)).
		Suffix(`ON CONFLICT (contractor_id, warehouse_id, date) DO UPDATE SET
			services = EXCLUDED.services,
			manually_completed = EXCLUDED.manually_completed,
			version = EXCLUDED.version,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build ledger upsert: %w", err)
	}

	return r.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("upsert ledger record %s: %w", rec.Key(), err)
		}
		return nil
	})
}
