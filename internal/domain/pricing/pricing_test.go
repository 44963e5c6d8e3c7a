package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"palletbook/internal/core/apperror"
	"palletbook/internal/core/events"
	"palletbook/internal/core/id"
	"palletbook/internal/core/types"
	"palletbook/internal/domain/audit"
)

type fakeRepo struct {
	inserted []Entry
	updated  []Entry
	err      error
}

func (r *fakeRepo) InsertPrice(_ context.Context, e Entry) error {
	if r.err != nil {
		return r.err
	}
	r.inserted = append(r.inserted, e)
	return nil
}

func (r *fakeRepo) UpdatePrice(_ context.Context, e Entry) error {
	if r.err != nil {
		return r.err
	}
	r.updated = append(r.updated, e)
	return nil
}

type auditRepo struct{}

func (auditRepo) AppendAudit(context.Context, audit.Entry) error { return nil }

func newTestService(t *testing.T, repo *fakeRepo) (*Service, *audit.Trail) {
	t.Helper()
	trail := audit.NewTrail(auditRepo{}, nil)
	return NewService(NewIndex(nil), repo, trail, events.Nop{}), trail
}

func servicePoint(contractorID, serviceID, from, price string) Entry {
	return Entry{
		ID:            id.New(),
		Kind:          KindService,
		ContractorID:  contractorID,
		ItemID:        serviceID,
		EffectiveFrom: types.MustDate(from),
		PricePerUnit:  types.MustMoney(price),
	}
}

func TestEffectivePrice(t *testing.T) {
	idx := NewIndex([]Entry{
		servicePoint("c1", "svc-wrap", "2026-02-01", "6.50"),
		servicePoint("c1", "svc-wrap", "2025-12-01", "3.00"),
		servicePoint("c2", "svc-wrap", "2020-01-01", "99.00"),
	})

	tests := []struct {
		date string
		want string
	}{
		{"2026-01-15", "3.00"},
		{"2026-02-01", "6.50"},
		{"2026-03-01", "6.50"},
		{"2025-12-01", "3.00"},
		{"2025-11-01", "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			got := idx.ServicePrice("c1", "svc-wrap", types.MustDate(tt.date))
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}

	assert.True(t, idx.ServicePrice("c1", "svc-other", types.MustDate("2026-03-01")).IsZero())
}

func TestEffectivePriceTieLastInsertedWins(t *testing.T) {
	idx := NewIndex([]Entry{
		servicePoint("c1", "svc-wrap", "2026-01-01", "1.00"),
		servicePoint("c1", "svc-wrap", "2026-01-01", "2.00"),
	})
	assert.Equal(t, "2.00", idx.ServicePrice("c1", "svc-wrap", types.MustDate("2026-01-10")).StringFixed(2))
}

func TestPalletPricesAreSeparatedByDirection(t *testing.T) {
	svc, _ := newTestService(t, &fakeRepo{})
	ctx := context.Background()

	_, err := svc.AddPalletPrice(ctx, AddPalletPriceInput{
		ContractorID: "c1", PalletTypeID: "plt-euro", Direction: DirectionIn,
		EffectiveFrom: types.MustDate("2026-01-01"), PricePerUnit: types.MustMoney("4.20"),
	})
	require.NoError(t, err)
	_, err = svc.AddPalletPrice(ctx, AddPalletPriceInput{
		ContractorID: "c1", PalletTypeID: "plt-euro", Direction: DirectionOut,
		EffectiveFrom: types.MustDate("2026-01-01"), PricePerUnit: types.MustMoney("0.80"),
	})
	require.NoError(t, err)

	day := types.MustDate("2026-01-05")
	assert.Equal(t, "4.20", svc.PalletPrice("c1", "plt-euro", DirectionIn, day).StringFixed(2))
	assert.Equal(t, "0.80", svc.PalletPrice("c1", "plt-euro", DirectionOut, day).StringFixed(2))
	assert.True(t, svc.ServicePrice("c1", "plt-euro", day).IsZero())
}

func TestAddServicePrice(t *testing.T) {
	repo := &fakeRepo{}
	svc, trail := newTestService(t, repo)
	ctx := context.Background()

	e, err := svc.AddServicePrice(ctx, AddServicePriceInput{
		ContractorID: "c1", ServiceID: "svc-wrap",
		EffectiveFrom: types.MustDate("2026-01-01"), PricePerUnit: types.MustMoney("5.00"),
		UserID: "anna",
	})
	require.NoError(t, err)
	require.Len(t, repo.inserted, 1)
	assert.Equal(t, e, repo.inserted[0])

	history := trail.HistoryFor(audit.EntityServicePrice, "c1|svc-wrap")
	require.Len(t, history, 1)
	assert.Equal(t, audit.ActionAddPrice, history[0].Action)
	assert.Equal(t, "anna", history[0].UserID)
	assert.Equal(t, "5.00", history[0].Diff["pricePerUnit"])

	t.Run("same effectiveFrom is rejected", func(t *testing.T) {
		_, err := svc.AddServicePrice(ctx, AddServicePriceInput{
			ContractorID: "c1", ServiceID: "svc-wrap",
			EffectiveFrom: types.MustDate("2026-01-01"), PricePerUnit: types.MustMoney("6.00"),
		})
		assert.True(t, apperror.IsDuplicate(err))
		assert.Len(t, svc.History(ServiceKey("c1", "svc-wrap")), 1)
	})
}

func TestAddPriceValidation(t *testing.T) {
	svc, _ := newTestService(t, &fakeRepo{})
	ctx := context.Background()

	tests := []struct {
		name string
		in   AddServicePriceInput
	}{
		{"negative price", AddServicePriceInput{ContractorID: "c1", ServiceID: "s", EffectiveFrom: types.MustDate("2026-01-01"), PricePerUnit: types.MustMoney("-1")}},
		{"three decimals", AddServicePriceInput{ContractorID: "c1", ServiceID: "s", EffectiveFrom: types.MustDate("2026-01-01"), PricePerUnit: types.MustMoney("1.005")}},
		{"missing date", AddServicePriceInput{ContractorID: "c1", ServiceID: "s", PricePerUnit: types.MustMoney("1")}},
		{"missing contractor", AddServicePriceInput{ServiceID: "s", EffectiveFrom: types.MustDate("2026-01-01"), PricePerUnit: types.MustMoney("1")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddServicePrice(ctx, tt.in)
			assert.True(t, apperror.HasCode(err, apperror.CodeInvalidInput), "got %v", err)
		})
	}

	_, err := svc.AddPalletPrice(ctx, AddPalletPriceInput{
		ContractorID: "c1", PalletTypeID: "plt-euro", Direction: "sideways",
		EffectiveFrom: types.MustDate("2026-01-01"), PricePerUnit: types.MustMoney("1"),
	})
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidInput))
}

func TestUpdatePriceMutatesHistoryInPlace(t *testing.T) {
	repo := &fakeRepo{}
	svc, trail := newTestService(t, repo)
	ctx := context.Background()

	created := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return created }
	e, err := svc.AddServicePrice(ctx, AddServicePriceInput{
		ContractorID: "c1", ServiceID: "svc-wrap",
		EffectiveFrom: types.MustDate("2026-01-01"), PricePerUnit: types.MustMoney("5.00"),
	})
	require.NoError(t, err)

	edited := created.Add(48 * time.Hour)
	svc.now = func() time.Time { return edited }
	newPrice := types.MustMoney("5.50")
	updated, err := svc.UpdatePrice(ctx, e.ID, Changes{PricePerUnit: &newPrice})
	require.NoError(t, err)

	history := svc.History(ServiceKey("c1", "svc-wrap"))
	require.Len(t, history, 1)
	assert.Equal(t, e.ID, history[0].ID)
	assert.Equal(t, "5.50", history[0].PricePerUnit.StringFixed(2))
	assert.Equal(t, edited, history[0].UpdatedAt)
	assert.Equal(t, created, history[0].CreatedAt)
	assert.Equal(t, updated, history[0])

	entries := trail.HistoryFor(audit.EntityServicePrice, "c1|svc-wrap")
	require.Len(t, entries, 2)
	assert.Equal(t, audit.ActionUpdatePrice, entries[0].Action)
	assert.Equal(t, map[string]any{"effectiveFrom": "2026-01-01", "pricePerUnit": "5.00"}, entries[0].Diff["before"])
	assert.Equal(t, map[string]any{"effectiveFrom": "2026-01-01", "pricePerUnit": "5.50"}, entries[0].Diff["after"])
}

func TestUpdatePriceMovingDateReorders(t *testing.T) {
	svc, _ := newTestService(t, &fakeRepo{})
	ctx := context.Background()

	early, err := svc.AddServicePrice(ctx, AddServicePriceInput{
		ContractorID: "c1", ServiceID: "svc-wrap",
		EffectiveFrom: types.MustDate("2026-01-01"), PricePerUnit: types.MustMoney("1.00"),
	})
	require.NoError(t, err)
	_, err = svc.AddServicePrice(ctx, AddServicePriceInput{
		ContractorID: "c1", ServiceID: "svc-wrap",
		EffectiveFrom: types.MustDate("2026-02-01"), PricePerUnit: types.MustMoney("2.00"),
	})
	require.NoError(t, err)

	moved := types.MustDate("2026-03-01")
	_, err = svc.UpdatePrice(ctx, early.ID, Changes{EffectiveFrom: &moved})
	require.NoError(t, err)

	assert.True(t, svc.ServicePrice("c1", "svc-wrap", types.MustDate("2026-01-15")).IsZero())
	assert.Equal(t, "1.00", svc.ServicePrice("c1", "svc-wrap", types.MustDate("2026-03-15")).StringFixed(2))

	t.Run("moving onto an occupied date is rejected", func(t *testing.T) {
		occupied := types.MustDate("2026-02-01")
		_, err := svc.UpdatePrice(ctx, early.ID, Changes{EffectiveFrom: &occupied})
		assert.True(t, apperror.IsDuplicate(err))
	})
}

func TestUpdateUnknownPrice(t *testing.T) {
	svc, _ := newTestService(t, &fakeRepo{})
	price := types.MustMoney("1")
	_, err := svc.UpdatePrice(context.Background(), id.New(), Changes{PricePerUnit: &price})
	assert.True(t, apperror.IsNotFound(err))
}

func TestFailedPersistLeavesIndexUnchanged(t *testing.T) {
	repo := &fakeRepo{}
	svc, trail := newTestService(t, repo)
	ctx := context.Background()

	e, err := svc.AddServicePrice(ctx, AddServicePriceInput{
		ContractorID: "c1", ServiceID: "svc-wrap",
		EffectiveFrom: types.MustDate("2026-01-01"), PricePerUnit: types.MustMoney("5.00"),
	})
	require.NoError(t, err)

	repo.err = errors.New("connection refused")

	_, err = svc.AddServicePrice(ctx, AddServicePriceInput{
		ContractorID: "c1", ServiceID: "svc-wrap",
		EffectiveFrom: types.MustDate("2026-02-01"), PricePerUnit: types.MustMoney("7.00"),
	})
	assert.True(t, apperror.IsPersistence(err))

	price := types.MustMoney("9.99")
	_, err = svc.UpdatePrice(ctx, e.ID, Changes{PricePerUnit: &price})
	assert.True(t, apperror.IsPersistence(err))

	history := svc.History(ServiceKey("c1", "svc-wrap"))
	require.Len(t, history, 1)
	assert.Equal(t, "5.00", history[0].PricePerUnit.StringFixed(2))
	assert.Equal(t, 1, trail.Len())
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "c1|svc-wrap", ServiceKey("c1", "svc-wrap").String())
	assert.Equal(t, "c1|plt-euro|out", PalletKey("c1", "plt-euro", DirectionOut).String())
}
