// Package app owns the application state: the loaded snapshot and every
// domain module built over it. There is exactly one App per process and it
// is passed explicitly to the transport layer.
package app

import (
	"context"
	"fmt"
	"time"

	"palletbook/internal/core/events"
	"palletbook/internal/domain/audit"
	"palletbook/internal/domain/catalog"
	"palletbook/internal/domain/ledger"
	"palletbook/internal/domain/pricing"
	"palletbook/internal/domain/registers/stock"
	"palletbook/internal/domain/reports"
	"palletbook/internal/domain/revenue"
	"palletbook/pkg/logger"
)

// Snapshot is the full content of the persistence collaborator.
type Snapshot struct {
	Catalog catalog.Data
	Records []ledger.Record
	Prices  []pricing.Entry
	Audit   []audit.Entry
}

// Loader reads a snapshot at startup.
type Loader interface {
	Load(ctx context.Context) (Snapshot, error)
}

// Repositories are the write sides of the persistence collaborator.
type Repositories struct {
	Ledger ledger.Repository
	Prices pricing.Repository
	Audit  audit.Repository
}

// Options tune the modules.
type Options struct {
	EntryDeadline time.Duration
	TransportRule string
	Subscribers   []events.Handler
}

// App is the explicit application state.
type App struct {
	Bus     *events.Bus
	Catalog *catalog.Catalog
	Audit   *audit.Trail
	Prices  *pricing.Service
	Ledger  *ledger.Service
	Stock   *stock.Accumulator
	Revenue *revenue.Calculator
	Reports *reports.Aggregator
}

// New loads a snapshot and wires the modules over it.
func New(ctx context.Context, loader Loader, repos Repositories, opts Options) (*App, error) {
	snap, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	classifier, err := reports.NewClassifier(opts.TransportRule)
	if err != nil {
		return nil, err
	}

	bus := events.NewBus()
	for _, h := range opts.Subscribers {
		bus.Subscribe(h)
	}

	cat := catalog.New(snap.Catalog)
	trail := audit.NewTrail(repos.Audit, snap.Audit)
	prices := pricing.NewService(pricing.NewIndex(snap.Prices), repos.Prices, trail, bus)
	led := ledger.NewService(ledger.NewStore(snap.Records), repos.Ledger, trail, bus,
		ledger.WithEntryDeadline(opts.EntryDeadline),
	)
	acc := stock.NewAccumulator(led)
	calc := revenue.NewCalculator(prices, led, acc, cat)

	a := &App{
		Bus:     bus,
		Catalog: cat,
		Audit:   trail,
		Prices:  prices,
		Ledger:  led,
		Stock:   acc,
		Revenue: calc,
		Reports: reports.NewAggregator(cat, calc, acc, led, classifier),
	}

	logger.Info(ctx, "application state loaded",
		"contractors", len(snap.Catalog.Contractors),
		"ledger_records", len(snap.Records),
		"prices", len(snap.Prices),
		"audit_entries", len(snap.Audit),
		"transport_rule", classifier.Rule(),
	)
	bus.Publish(ctx, events.Event{Kind: events.KindSnapshotLoaded})
	return a, nil
}
