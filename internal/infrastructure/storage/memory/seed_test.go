package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"palletbook/internal/app"
	"palletbook/internal/domain/catalog"
)

func TestLoadCatalogFile(t *testing.T) {
	data, err := LoadCatalogFile(filepath.Join("testdata", "catalog.yaml"))
	require.NoError(t, err)

	require.Len(t, data.Contractors, 3)
	assert.Equal(t, catalog.Contractor{
		ID: "ctr-zabka", Name: "Żabka", IsActive: true,
		AcceptedPalletTypes: []string{"plt-euro", "plt-ind"},
	}, data.Contractors[0])
	assert.False(t, data.Contractors[2].IsActive)
	assert.Equal(t, 2, data.Warehouses[1].SortOrder)
	assert.Equal(t, 1500, data.PalletTypes[0].MaxLoad)
	require.Len(t, data.ContractorServices, 3)
	assert.Equal(t, "ctr-zabka", data.ContractorServices[0].ContractorID)
	assert.False(t, data.ContractorServices[2].IsEnabled)

	cat := catalog.New(data)
	assert.Len(t, cat.Contractors(), 2, "inactive contractors are hidden")
	assert.Len(t, cat.EnabledServices("ctr-zabka"), 4)

	snap, err := NewStore(app.Snapshot{Catalog: data}).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Catalog.Services, 5)
}

func TestLoadCatalogFileErrors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{"warehouses":[{"id":"wh1"}]}`), 0o600))

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{name: "missing file", path: filepath.Join(dir, "nope.yaml"), wantErr: "read catalog file"},
		{name: "no contractors", path: empty, wantErr: "no contractors"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCatalogFile(tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
