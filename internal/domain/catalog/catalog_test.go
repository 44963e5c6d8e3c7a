package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testData() Data {
	return Data{
		Contractors: []Contractor{
			{ID: "c-zeta", Name: "Zeta", IsActive: true},
			{ID: "c-lodz", Name: "Łódź Logistics", IsActive: true},
			{ID: "c-alfa", Name: "Alfa", IsActive: true},
			{ID: "c-old", Name: "Archiwum", IsActive: false},
		},
		Warehouses: []Warehouse{
			{ID: "wh-2", Name: "Hala B", SortOrder: 2},
			{ID: "wh-1", Name: "Hala A", SortOrder: 1},
		},
		Services: []ServiceDefinition{
			{ID: ServicePalletsIn, Name: "Pallets in", Unit: "pallet"},
			{ID: ServicePalletsOut, Name: "Pallets out", Unit: "pallet"},
			{ID: ServiceStorage, Name: "Storage", Unit: "pallet-day"},
			{ID: "svc-wrap", Name: "Stretch wrapping", Unit: "pcs"},
		},
		PalletTypes: []PalletType{{ID: "plt-euro", Name: "EUR 1200x800"}},
		ContractorServices: []ContractorService{
			{ID: "cs1", ContractorID: "c-alfa", ServiceID: "svc-wrap", IsEnabled: true},
			{ID: "cs2", ContractorID: "c-alfa", ServiceID: ServiceStorage, IsEnabled: false},
			{ID: "cs3", ContractorID: "c-alfa", ServiceID: "svc-gone", IsEnabled: true},
			{ID: "cs4", ContractorID: "c-zeta", ServiceID: ServicePalletsOut, IsEnabled: true},
		},
	}
}

func TestContractorsSortedWithPolishCollation(t *testing.T) {
	c := New(testData())

	var names []string
	for _, x := range c.Contractors() {
		names = append(names, x.Name)
	}
	assert.Equal(t, []string{"Alfa", "Łódź Logistics", "Zeta"}, names)
	assert.Equal(t, []string{"c-alfa", "c-lodz", "c-zeta"}, c.ContractorIDs())

	_, ok := c.Contractor("c-old")
	assert.True(t, ok, "inactive contractors are still resolvable by id")
}

func TestWarehousesSortedByOrder(t *testing.T) {
	c := New(testData())
	ws := c.Warehouses()
	require.Len(t, ws, 2)
	assert.Equal(t, "wh-1", ws[0].ID)
	assert.Equal(t, "wh-2", ws[1].ID)
}

func TestEnabledServices(t *testing.T) {
	c := New(testData())

	t.Run("mandatory movement services are prepended", func(t *testing.T) {
		got := c.EnabledServices("c-alfa")
		require.Len(t, got, 3)
		assert.Equal(t, ServicePalletsOut, got[0].ServiceID)
		assert.Equal(t, ServicePalletsIn, got[1].ServiceID)
		assert.Equal(t, "svc-wrap", got[2].ServiceID)
		assert.Equal(t, "auto-c-alfa-svc-pallets-out", got[0].ID)
	})

	t.Run("explicit assignment is not duplicated", func(t *testing.T) {
		got := c.EnabledServices("c-zeta")
		require.Len(t, got, 2)
		assert.Equal(t, ServicePalletsIn, got[0].ServiceID)
		assert.Equal(t, "cs4", got[1].ID)
	})

	t.Run("missing definitions are skipped", func(t *testing.T) {
		c := New(Data{})
		assert.Empty(t, c.EnabledServices("c-alfa"))
	})
}

func TestNamesFallBackToID(t *testing.T) {
	c := New(testData())
	assert.Equal(t, "Stretch wrapping", c.ServiceName("svc-wrap"))
	assert.Equal(t, "svc-unknown", c.ServiceName("svc-unknown"))
	assert.Equal(t, "EUR 1200x800", c.PalletTypeName("plt-euro"))
	assert.Equal(t, "plt-x", c.PalletTypeName("plt-x"))
}

func TestServiceClassification(t *testing.T) {
	assert.True(t, IsMovementService(ServicePalletsIn))
	assert.False(t, IsMovementService(ServiceStorage))
	assert.True(t, IsBuiltinService(ServiceStorage))
	assert.False(t, IsBuiltinService("svc-wrap"))

	assert.True(t, Contractor{}.Accepts("plt-euro"))
	assert.False(t, Contractor{AcceptedPalletTypes: []string{"plt-ind"}}.Accepts("plt-euro"))
}
