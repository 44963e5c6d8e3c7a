package postgres

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"go.opentelemetry.io/otel/attribute"

	"palletbook/internal/app"
	"palletbook/internal/domain/audit"
	"palletbook/internal/domain/catalog"
	"palletbook/internal/domain/ledger"
	"palletbook/internal/domain/pricing"
	"palletbook/pkg/logger"
)

// Storage bundles the repositories and the snapshot loader over one pool.
type Storage struct {
	pool    *Pool
	txm     *TxManager
	ledger  *LedgerRepo
	prices  *PriceRepo
	auditDB *AuditRepo
}

var _ app.Loader = (*Storage)(nil)

// NewStorage wires repositories over pool.
func NewStorage(pool *Pool) (*Storage, error) {
	txm := NewTxManager(pool)
	auditRepo, err := NewAuditRepo(txm)
	if err != nil {
		return nil, err
	}
	return &Storage{
		pool:    pool,
		txm:     txm,
		ledger:  NewLedgerRepo(txm),
		prices:  NewPriceRepo(txm),
		auditDB: auditRepo,
	}, nil
}

// Repositories returns the write side for the app.
func (s *Storage) Repositories() app.Repositories {
	return app.Repositories{Ledger: s.ledger, Prices: s.prices, Audit: s.auditDB}
}

// Ping checks the database is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Load reads every collection inside one read-only transaction.
func (s *Storage) Load(ctx context.Context) (app.Snapshot, error) {
	ctx, span := tracer.Start(ctx, "snapshot.load")
	defer span.End()

	var snap app.Snapshot
	err := s.txm.ReadOnly(ctx, func(ctx context.Context) error {
		q := s.txm.GetQuerier(ctx)

		var err error
		if snap.Catalog.Contractors, err = selectAll[catalog.Contractor](ctx, q, "contractors"); err != nil {
			return err
		}
		if snap.Catalog.Warehouses, err = selectAll[catalog.Warehouse](ctx, q, "warehouses"); err != nil {
			return err
		}
		if snap.Catalog.Services, err = selectAll[catalog.ServiceDefinition](ctx, q, "service_definitions"); err != nil {
			return err
		}
		if snap.Catalog.PalletTypes, err = selectAll[catalog.PalletType](ctx, q, "pallet_types"); err != nil {
			return err
		}
		if snap.Catalog.ContractorServices, err = selectAll[catalog.ContractorService](ctx, q, "contractor_services", "id"); err != nil {
			return err
		}

		records, err := s.loadRecords(ctx, q)
		if err != nil {
			return err
		}
		snap.Records = records

		if snap.Prices, err = selectAll[pricing.Entry](ctx, q, "prices", "created_at", "id"); err != nil {
			return err
		}

		entries, err := s.loadAudit(ctx, q)
		if err != nil {
			return err
		}
		snap.Audit = entries
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return app.Snapshot{}, err
	}

	span.SetAttributes(
		attribute.Int("snapshot.records", len(snap.Records)),
		attribute.Int("snapshot.prices", len(snap.Prices)),
		attribute.Int("snapshot.audit", len(snap.Audit)),
	)
	logger.Info(ctx, "snapshot loaded from postgres",
		"records", len(snap.Records),
		"prices", len(snap.Prices),
		"audit_entries", len(snap.Audit),
	)
	return snap, nil
}

func (s *Storage) loadRecords(ctx context.Context, q Querier) ([]ledger.Record, error) {
	rows, err := selectAll[recordRow](ctx, q, "ledger_records", "date", "contractor_id", "warehouse_id")
	if err != nil {
		return nil, err
	}

	records := make([]ledger.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toRecord()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *Storage) loadAudit(ctx context.Context, q Querier) ([]audit.Entry, error) {
	rows, err := selectAll[auditRow](ctx, q, "audit_log", "ts", "id")
	if err != nil {
		return nil, err
	}

	entries := make([]audit.Entry, 0, len(rows))
	for _, row := range rows {
		e, err := s.auditDB.decode(row)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// selectAll reads every row of table into T, selecting the columns named by
// T's "db" tags.
func selectAll[T any](ctx context.Context, q Querier, table string, orderBy ...string) ([]T, error) {
	sql, args, err := selectAllSQL[T](table, orderBy...)
	if err != nil {
		return nil, err
	}

	var rows []T
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}
	return rows, nil
}

func selectAllSQL[T any](table string, orderBy ...string) (string, []any, error) {
	sql, args, err := builder().
		Select(ExtractDBColumns[T]()...).
		From(table).
		OrderBy(orderBy...).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build %s query: %w", table, err)
	}
	return sql, args, nil
}
