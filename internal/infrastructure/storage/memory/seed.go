package memory

import (
	"fmt"

	"github.com/spf13/viper"

	"palletbook/internal/domain/catalog"
)

// LoadCatalogFile reads reference data for the memory driver from a YAML or
// JSON file; the format follows the extension. Keys match field names
// case-insensitively, so the camelCase spelling of the API works.
func LoadCatalogFile(path string) (catalog.Data, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return catalog.Data{}, fmt.Errorf("read catalog file %s: %w", path, err)
	}

	var data catalog.Data
	if err := v.Unmarshal(&data); err != nil {
		return catalog.Data{}, fmt.Errorf("decode catalog file %s: %w", path, err)
	}
	if len(data.Contractors) == 0 {
		return catalog.Data{}, fmt.Errorf("catalog file %s: no contractors", path)
	}
	return data, nil
}
