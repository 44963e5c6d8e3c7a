package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"palletbook/internal/core/entity"
	"palletbook/internal/core/types"
	"palletbook/internal/domain/catalog"
	"palletbook/internal/domain/ledger"
)

func TestRecordRowRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	rec := ledger.Record{
		Versioned:    entity.NewVersioned(now),
		ContractorID: "ctrA",
		WarehouseID:  "wh1",
		Date:         types.MustDate("2026-03-02"),
		Services: []ledger.ServiceEntry{
			ledger.NewPalletMovement(catalog.ServicePalletsIn, ledger.PalletLine{PalletTypeID: "plt-euro", Qty: 10}),
			ledger.NewFlatService("svc-wrap", 2, "stretch film"),
		},
		ManuallyCompleted: true,
	}
	for i := range rec.Services {
		rec.Services[i].CreatedAt = now
	}

	row, err := toRecordRow(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"serviceId":"svc-pallets-in","palletEntries":[{"palletTypeId":"plt-euro","qty":10}],"createdAt":"2026-03-02T08:00:00Z"},
		{"serviceId":"svc-wrap","qty":2,"note":"stretch film","createdAt":"2026-03-02T08:00:00Z"}
	]`, string(row.Services))

	back, err := row.toRecord()
	require.NoError(t, err)
	assert.Equal(t, rec, back)
}

func TestRecordRowEmptyServices(t *testing.T) {
	row, err := toRecordRow(ledger.Record{ContractorID: "a", WarehouseID: "w", Date: types.MustDate("2026-03-02")})
	require.NoError(t, err)
	assert.Equal(t, "[]", string(row.Services))
}
