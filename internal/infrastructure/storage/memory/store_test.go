package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"palletbook/internal/app"
	"palletbook/internal/core/id"
	"palletbook/internal/core/types"
	"palletbook/internal/domain/audit"
	"palletbook/internal/domain/ledger"
	"palletbook/internal/domain/pricing"
)

func TestSaveRecordUpsertsByKey(t *testing.T) {
	ctx := context.Background()
	s := NewStore(app.Snapshot{})
	date := types.MustDate("2026-03-02")

	rec := ledger.Record{ContractorID: "a", WarehouseID: "w", Date: date}
	rec.Version = 1
	require.NoError(t, s.SaveRecord(ctx, rec))
	rec.Version = 2
	require.NoError(t, s.SaveRecord(ctx, rec))
	require.NoError(t, s.SaveRecord(ctx, ledger.Record{ContractorID: "a", WarehouseID: "w", Date: date.AddDays(-1)}))

	snap, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Records, 2)
	assert.Equal(t, date.AddDays(-1), snap.Records[0].Date)
	assert.Equal(t, 2, snap.Records[1].Version)
}

func TestPrices(t *testing.T) {
	ctx := context.Background()
	s := NewStore(app.Snapshot{})
	e := pricing.Entry{ID: id.New(), Kind: pricing.KindService, ContractorID: "a", ItemID: "svc", PricePerUnit: types.MustMoney("1.00")}

	require.Error(t, s.UpdatePrice(ctx, e))
	require.NoError(t, s.InsertPrice(ctx, e))
	require.Error(t, s.InsertPrice(ctx, e))

	e.PricePerUnit = types.MustMoney("2.00")
	require.NoError(t, s.UpdatePrice(ctx, e))

	snap, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Prices, 1)
	assert.True(t, types.MustMoney("2.00").Equal(snap.Prices[0].PricePerUnit))
}

func TestLoadReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore(app.Snapshot{})
	require.NoError(t, s.AppendAudit(ctx, audit.Entry{ID: id.New(), Action: audit.ActionAddPrice}))

	snap, err := s.Load(ctx)
	require.NoError(t, err)
	snap.Audit[0].Action = "tampered"

	again, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, audit.ActionAddPrice, again.Audit[0].Action)
}
